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
	"context"
	"io"
	"sync"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/binkynet/LocalGPIO/pkg/environment"
	"github.com/binkynet/LocalGPIO/pkg/gpio"
	"github.com/binkynet/LocalGPIO/pkg/hal"
)

// Service owns a pin pool and serializes all access to it.
type Service interface {
	// Run the service until the given context is canceled.
	// On return all pins are configured as input.
	Run(ctx context.Context) error
	// ListPins returns all bound pins ordered by handle.
	ListPins() []PinInfo
	// CreatePin binds a pin to the given port & bit.
	CreatePin(port, bit uint8) (PinInfo, error)
	// SetDirection configures the pin as output (true) or input (false).
	SetDirection(h gpio.Handle, output bool) (PinInfo, error)
	// SetState drives the pin to the given level (ignored for inputs).
	SetState(h gpio.Handle, state bool) (PinInfo, error)
	// GetState returns the sensed level of the pin.
	GetState(h gpio.Handle) (PinInfo, error)
}

// PinInfo is a snapshot of a bound pin.
type PinInfo struct {
	Handle    gpio.Handle `json:"handle"`
	Name      string      `json:"name,omitempty"`
	Port      uint8       `json:"port"`
	Bit       uint8       `json:"bit"`
	Direction string      `json:"direction"`
	State     bool        `json:"state"`
}

// Dependencies of the service.
type Dependencies struct {
	Log zerolog.Logger
	// If set, used instead of the backend named in the config.
	Registers hal.Registers
}

type service struct {
	Config
	log    zerolog.Logger
	mutex  sync.Mutex
	pool   *gpio.Pool
	names  map[gpio.Handle]string
	closer io.Closer
	closed bool
}

// NewService creates the registers & pool and binds all configured pins.
func NewService(conf Config, deps Dependencies) (Service, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	log := deps.Log.With().Str("component", "service").Logger()
	layout, err := hal.LayoutByName(conf.Layout)
	if err != nil {
		return nil, err
	}
	regs := deps.Registers
	var closer io.Closer
	if regs == nil {
		regs, closer, err = newRegisters(conf, layout, deps.Log)
		if err != nil {
			return nil, err
		}
	}
	success := false
	defer func() {
		if !success && closer != nil {
			closer.Close()
		}
	}()
	// All register access is serialized, since HTTP requests run concurrently.
	regs = hal.Guarded(hal.WithMetrics(regs), &hal.SpinLock{})
	pool, err := gpio.NewPool(gpio.Config{
		Capacity:    conf.Capacity,
		Ports:       layout.Ports,
		PinsPerPort: layout.PinsPerPort,
	}, regs, deps.Log)
	if err != nil {
		return nil, err
	}
	s := &service{
		Config: conf,
		log:    log,
		pool:   pool,
		names:  make(map[gpio.Handle]string),
		closer: closer,
	}
	var ae aerr.AggregateError
	for _, p := range conf.Pins {
		h, err := pool.Create(p.Port, p.Bit)
		if err != nil {
			ae.Add(errors.Wrapf(err, "pin '%s'", p.Name))
			continue
		}
		s.names[h] = p.Name
		if p.Output {
			ae.Add(pool.SetOutput(h, true))
		}
		log.Info().
			Str("name", p.Name).
			Int("handle", int(h)).
			Bool("output", p.Output).
			Msg("Configured pin")
	}
	if err := ae.AsError(); err != nil {
		return nil, err
	}
	success = true
	return s, nil
}

// newRegisters creates the register backend named in the config.
func newRegisters(conf Config, layout hal.Layout, log zerolog.Logger) (hal.Registers, io.Closer, error) {
	switch conf.Backend {
	case environment.BackendMemory:
		regs, err := hal.NewMemoryRegisters(layout)
		return regs, nil, err
	case environment.BackendMapped:
		regs, err := hal.OpenMappedRegisters(conf.DevicePath, layout, log)
		if err != nil {
			return nil, nil, err
		}
		return regs, regs, nil
	case environment.BackendSysfs:
		regs, err := hal.NewSysfsRegisters(layout.PinsPerPort, conf.ActiveLow, log)
		return regs, nil, err
	case environment.BackendPeriph:
		regs, err := hal.NewPeriphRegisters(layout.PinsPerPort, log)
		return regs, nil, err
	default:
		return nil, nil, errors.Wrapf(ValidationError, "unknown backend '%s'", conf.Backend)
	}
}

// Run the service until the given context is canceled.
func (s *service) Run(ctx context.Context) error {
	s.log.Info().
		Str("backend", s.Backend).
		Str("layout", s.Layout).
		Int("capacity", s.pool.Cap()).
		Int("pins", s.pool.Len()).
		Msg("Service started")

	<-ctx.Done()

	// Restore all to input
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var ae aerr.AggregateError
	for _, h := range s.pool.Handles() {
		ae.Add(s.pool.SetOutput(h, false))
	}
	if s.closer != nil {
		ae.Add(s.closer.Close())
	}
	s.log.Info().Msg("Service stopped")
	return ae.AsError()
}

// ListPins returns all bound pins ordered by handle.
// It does not access the registers, so it keeps working after Run returns.
func (s *service) ListPins() []PinInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	handles := s.pool.Handles()
	result := make([]PinInfo, 0, len(handles))
	for _, h := range handles {
		if info, err := s.info(h, false); err == nil {
			result = append(result, info)
		}
	}
	return result
}

// CreatePin binds a pin to the given port & bit.
func (s *service) CreatePin(port, bit uint8) (PinInfo, error) {
	createPinTotal.Inc()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkOpen(); err != nil {
		return PinInfo{}, err
	}
	h, err := s.pool.Create(port, bit)
	if err != nil {
		return PinInfo{}, err
	}
	return s.info(h, false)
}

// SetDirection configures the pin as output (true) or input (false).
func (s *service) SetDirection(h gpio.Handle, output bool) (PinInfo, error) {
	setDirectionTotal.Inc()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkOpen(); err != nil {
		return PinInfo{}, err
	}
	if err := s.pool.SetOutput(h, output); err != nil {
		return PinInfo{}, err
	}
	return s.info(h, false)
}

// SetState drives the pin to the given level.
func (s *service) SetState(h gpio.Handle, state bool) (PinInfo, error) {
	setStateTotal.Inc()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkOpen(); err != nil {
		return PinInfo{}, err
	}
	if err := s.pool.SetState(h, state); err != nil {
		return PinInfo{}, err
	}
	return s.info(h, false)
}

// GetState returns the sensed level of the pin.
func (s *service) GetState(h gpio.Handle) (PinInfo, error) {
	getStateTotal.Inc()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkOpen(); err != nil {
		return PinInfo{}, err
	}
	return s.info(h, true)
}

// checkOpen returns ClosedError once Run has released the registers.
func (s *service) checkOpen() error {
	if s.closed {
		return errors.WithStack(ClosedError)
	}
	return nil
}

// info builds a snapshot of the given pin.
// The input register is only read if withState is set.
func (s *service) info(h gpio.Handle, withState bool) (PinInfo, error) {
	port, bit, err := s.pool.Location(h)
	if err != nil {
		return PinInfo{}, err
	}
	dir, err := s.pool.Direction(h)
	if err != nil {
		return PinInfo{}, err
	}
	info := PinInfo{
		Handle:    h,
		Name:      s.names[h],
		Port:      port,
		Bit:       bit,
		Direction: dir.String(),
	}
	if withState {
		if info.State, err = s.pool.GetState(h); err != nil {
			return PinInfo{}, err
		}
	}
	return info, nil
}
