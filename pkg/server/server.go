// Copyright 2026 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/binkynet/LocalGPIO/pkg/service"
)

// Config for the HTTP server.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	HTTPPort int
}

// Server runs the HTTP server for the service.
type Server struct {
	Config
	log     zerolog.Logger
	service service.Service
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, service service.Service) (*Server, error) {
	return &Server{
		Config:  cfg,
		log:     log.With().Str("component", "server").Logger(),
		service: service,
	}, nil
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	httpRouter := echo.New()
	httpRouter.HideBanner = true
	httpRouter.HidePort = true
	httpRouter.GET("/health", healthHandler)
	httpRouter.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpRouter.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	httpRouter.GET("/pins", s.handleListPins)
	httpRouter.POST("/pins", s.handleCreatePin)
	httpRouter.PUT("/pins/:handle/direction", s.handleSetDirection)
	httpRouter.PUT("/pins/:handle/state", s.handleSetState)
	httpRouter.GET("/pins/:handle/state", s.handleGetState)
	return httpRouter
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	log := s.log
	httpAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return maskAny(err)
	}
	httpSrv := http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second * 10,
	}

	log.Debug().Str("address", httpAddr).Msg("Serving HTTP")
	serveErr := make(chan error, 1)
	go func() {
		defer close(serveErr)
		if err := httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		log.Debug().Str("address", httpAddr).Msg("Done Serving HTTP")
	}()

	// Wait until context closed
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return maskAny(err)
		}
	}

	log.Info().Msg("Closing server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func healthHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
