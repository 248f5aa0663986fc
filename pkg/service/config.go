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

package service

import (
	"strconv"
	"strings"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"

	"github.com/binkynet/LocalGPIO/pkg/environment"
	"github.com/binkynet/LocalGPIO/pkg/gpio"
	"github.com/binkynet/LocalGPIO/pkg/hal"
)

var (
	ValidationError = errors.New("validation failed")
	IsValidation    = func(err error) bool {
		return err == ValidationError || errors.Cause(err) == ValidationError
	}
	ClosedError = errors.New("service closed")
	IsClosed    = func(err error) bool {
		return err == ClosedError || errors.Cause(err) == ClosedError
	}
)

// Config of the service.
type Config struct {
	// Name of the register backend (memory|mmap|sysfs|periph)
	Backend string
	// Name of the register layout
	Layout string
	// Device file mapped by the mmap backend
	DevicePath string
	// Use active-low levels in the sysfs backend
	ActiveLow bool
	// Number of pin slots
	Capacity int
	// Pins created at startup
	Pins []PinSpec
}

// PinSpec describes a pin that is created at startup.
type PinSpec struct {
	// Name of the pin
	Name string
	// Port & bit of the pin
	Port uint8
	Bit  uint8
	// If set, the pin is configured as output
	Output bool
}

// ParsePinSpec parses a pin in the format name=port:bit[:out|:in].
func ParsePinSpec(value string) (PinSpec, error) {
	name, location, found := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return PinSpec{}, errors.Wrapf(ValidationError, "pin '%s' must have format name=port:bit[:out]", value)
	}
	parts := strings.Split(location, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return PinSpec{}, errors.Wrapf(ValidationError, "pin '%s' must have format name=port:bit[:out]", value)
	}
	port, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return PinSpec{}, errors.Wrapf(ValidationError, "invalid port in pin '%s': %v", value, err)
	}
	bit, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return PinSpec{}, errors.Wrapf(ValidationError, "invalid bit in pin '%s': %v", value, err)
	}
	spec := PinSpec{
		Name: name,
		Port: uint8(port),
		Bit:  uint8(bit),
	}
	if len(parts) == 3 {
		switch parts[2] {
		case "out":
			spec.Output = true
		case "in":
		default:
			return PinSpec{}, errors.Wrapf(ValidationError, "invalid direction '%s' in pin '%s'", parts[2], value)
		}
	}
	return spec, nil
}

// ParsePinSpecs parses all given pins, collecting all errors.
func ParsePinSpecs(values []string) ([]PinSpec, error) {
	var ae aerr.AggregateError
	result := make([]PinSpec, 0, len(values))
	for _, v := range values {
		spec, err := ParsePinSpec(v)
		if err != nil {
			ae.Add(err)
			continue
		}
		result = append(result, spec)
	}
	if err := ae.AsError(); err != nil {
		return nil, err
	}
	return result, nil
}

// Validate the configuration.
func (c Config) Validate() error {
	var ae aerr.AggregateError
	switch c.Backend {
	case environment.BackendMemory, environment.BackendMapped, environment.BackendSysfs, environment.BackendPeriph:
	default:
		ae.Add(errors.Wrapf(ValidationError, "unknown backend '%s'", c.Backend))
	}
	layout, err := hal.LayoutByName(c.Layout)
	if err != nil {
		ae.Add(err)
	}
	if c.Capacity < 1 || c.Capacity > gpio.MaxCapacity {
		ae.Add(errors.Wrapf(ValidationError, "capacity must be between 1 and %d, got %d", gpio.MaxCapacity, c.Capacity))
	} else if len(c.Pins) > c.Capacity {
		ae.Add(errors.Wrapf(ValidationError, "%d pins do not fit in a pool of %d", len(c.Pins), c.Capacity))
	}
	names := make(map[string]struct{})
	locations := make(map[[2]uint8]string)
	for _, p := range c.Pins {
		if _, found := names[p.Name]; found {
			ae.Add(errors.Wrapf(ValidationError, "duplicate pin name '%s'", p.Name))
		}
		names[p.Name] = struct{}{}
		loc := [2]uint8{p.Port, p.Bit}
		if other, found := locations[loc]; found {
			ae.Add(errors.Wrapf(ValidationError, "pins '%s' and '%s' share %d:%d", other, p.Name, p.Port, p.Bit))
		}
		locations[loc] = p.Name
		if err == nil && (p.Port >= layout.Ports || p.Bit >= layout.PinsPerPort) {
			ae.Add(errors.Wrapf(ValidationError, "pin '%s' (%d:%d) is outside layout %s", p.Name, p.Port, p.Bit, layout.Name))
		}
	}
	return ae.AsError()
}
