//    Copyright 2026 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/LocalGPIO/pkg/environment"
	"github.com/binkynet/LocalGPIO/pkg/hal"
	"github.com/binkynet/LocalGPIO/pkg/logging"
	"github.com/binkynet/LocalGPIO/pkg/server"
	"github.com/binkynet/LocalGPIO/pkg/service"
)

const (
	projectName       = "BinkyNet Local GPIO"
	defaultServerPort = 7130
	defaultCapacity   = 32
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
)

func main() {
	var levelFlag string
	var logFile string
	var backend string
	var layout string
	var devicePath string
	var activeLow bool
	var capacity int
	var pinFlags []string
	var serverHost string
	var serverPort int

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVar(&logFile, "log-file", "", "Also append JSON logs to this file")
	pflag.StringVarP(&backend, "backend", "b", "", "Register backend ("+strings.Join(environment.Backends(), "|")+"), auto-detected if empty")
	pflag.StringVar(&layout, "layout", hal.LayoutSim.Name, "Register layout ("+strings.Join(hal.LayoutNames(), "|")+")")
	pflag.StringVar(&devicePath, "device", "/dev/mem", "Device file mapped by the mmap backend")
	pflag.BoolVar(&activeLow, "active-low", false, "Use active-low levels in the sysfs backend")
	pflag.IntVar(&capacity, "capacity", defaultCapacity, "Number of pin slots")
	pflag.StringArrayVarP(&pinFlags, "pin", "p", nil, "Pin to create at startup (name=port:bit[:out])")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", defaultServerPort, "Port the HTTP server will listen on")
	pflag.Parse()

	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	logger, logCloser, err := logging.NewLogger(level, logFile)
	if err != nil {
		Exitf("Failed to initialize logging: %v\n", err)
	}
	defer logCloser.Close()

	if backend == "" {
		backend = environment.AutoDetectBackend(logger)
		logger.Info().Str("backend", backend).Msg("Detected register backend")
	}
	pins, err := service.ParsePinSpecs(pinFlags)
	if err != nil {
		Exitf("Invalid pins: %v\n", err)
	}

	svc, err := service.NewService(service.Config{
		Backend:    backend,
		Layout:     layout,
		DevicePath: devicePath,
		ActiveLow:  activeLow,
		Capacity:   capacity,
		Pins:       pins,
	}, service.Dependencies{
		Log: logger,
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	httpServer, err := server.New(server.Config{
		Host:     serverHost,
		HTTPPort: serverPort,
	}, logger, svc)
	if err != nil {
		Exitf("Failed to initialize Server: %v\n", err)
	}

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })
	if err := g.Wait(); err != nil {
		Exitf("Service run failed: %#v", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
