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

// Package gpio exposes GPIO pins as handles into a fixed size pool.
// Every handle remembers the direction that was last set through it and
// routes all operations through the register access layer.
//
// A Pool does not lock. Callers that use a pool from more than one
// goroutine must serialize their calls.
package gpio

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/binkynet/LocalGPIO/pkg/hal"
)

const (
	// MaxCapacity is the largest number of pins a pool can hold.
	MaxCapacity = 256
)

// Config of a Pool.
type Config struct {
	// Number of pin slots
	Capacity int
	// If non-zero, Create rejects ports >= Ports.
	Ports uint8
	// If non-zero, Create rejects bits >= PinsPerPort.
	PinsPerPort uint8
}

// Validate the config.
func (c Config) Validate() error {
	if c.Capacity < 1 || c.Capacity > MaxCapacity {
		return errors.Wrapf(InvalidConfigError, "Capacity must be between 1 and %d, got %d", MaxCapacity, c.Capacity)
	}
	if c.PinsPerPort > 32 {
		return errors.Wrapf(InvalidConfigError, "PinsPerPort must be at most 32, got %d", c.PinsPerPort)
	}
	return nil
}

// pin is a slot in the pool.
type pin struct {
	port     uint8
	bit      uint8
	isOutput bool
}

// Pool holds a fixed number of pin slots.
// Slots are handed out in order and never reclaimed.
type Pool struct {
	config Config
	regs   hal.Registers
	log    zerolog.Logger
	pins   []pin // len(pins) == number of bound slots
}

// NewPool creates an empty pool that accesses the hardware through regs.
func NewPool(cfg Config, regs hal.Registers, log zerolog.Logger) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if regs == nil {
		return nil, errors.Wrap(InvalidConfigError, "registers must not be nil")
	}
	return &Pool{
		config: cfg,
		regs:   regs,
		log:    log.With().Str("component", "gpio-pool").Logger(),
		pins:   make([]pin, 0, cfg.Capacity),
	}, nil
}

// Create binds a pin to (port, bit) and configures it as input.
// If the pin is already bound, its existing handle is returned.
// Returns InvalidHandle and an error if the pool is full.
func (p *Pool) Create(port, bit uint8) (Handle, error) {
	if p.config.Ports > 0 && port >= p.config.Ports {
		return InvalidHandle, errors.Wrapf(InvalidPinError, "port must be below %d, got %d", p.config.Ports, port)
	}
	if p.config.PinsPerPort > 0 && bit >= p.config.PinsPerPort {
		return InvalidHandle, errors.Wrapf(InvalidPinError, "bit must be below %d, got %d", p.config.PinsPerPort, bit)
	}
	h, found := p.Lookup(port, bit)
	if !found {
		if len(p.pins) == cap(p.pins) {
			poolExhaustedTotal.Inc()
			p.log.Warn().
				Uint8("port", port).
				Uint8("bit", bit).
				Int("capacity", cap(p.pins)).
				Msg("No free pin slot")
			return InvalidHandle, errors.Wrapf(PoolExhaustedError, "cannot bind port %d bit %d, all %d slots in use", port, bit, cap(p.pins))
		}
		h = Handle(len(p.pins))
		p.pins = append(p.pins, pin{port: port, bit: bit})
		poolSlotsInUse.Inc()
	}
	slot := &p.pins[h]
	slot.isOutput = false
	p.regs.SetDirection(port, bit, false)
	p.log.Debug().
		Int("handle", int(h)).
		Uint8("port", port).
		Uint8("bit", bit).
		Bool("existing", found).
		Msg("Created pin")
	return h, nil
}

// SetOutput configures the pin as output (true) or input (false).
func (p *Pool) SetOutput(h Handle, output bool) error {
	slot, err := p.slot(h)
	if err != nil {
		return err
	}
	slot.isOutput = output
	p.regs.SetDirection(slot.port, slot.bit, output)
	return nil
}

// SetState drives the pin to the given level.
// The call is ignored when the pin is configured as input.
func (p *Pool) SetState(h Handle, state bool) error {
	slot, err := p.slot(h)
	if err != nil {
		return err
	}
	if !slot.isOutput {
		ignoredSetStateTotal.Inc()
		return nil
	}
	p.regs.SetOutput(slot.port, slot.bit, state)
	return nil
}

// GetState returns the level sensed on the pin.
// For a pin configured as output this is whatever the input register
// reports for it, which may or may not match the driven level.
func (p *Pool) GetState(h Handle) (bool, error) {
	slot, err := p.slot(h)
	if err != nil {
		return false, err
	}
	return p.regs.GetInput(slot.port, slot.bit), nil
}

// Direction returns the direction last set through the handle.
func (p *Pool) Direction(h Handle) (Direction, error) {
	slot, err := p.slot(h)
	if err != nil {
		return DirectionInput, err
	}
	if slot.isOutput {
		return DirectionOutput, nil
	}
	return DirectionInput, nil
}

// Location returns the port & bit the handle is bound to.
func (p *Pool) Location(h Handle) (port, bit uint8, err error) {
	slot, err := p.slot(h)
	if err != nil {
		return 0, 0, err
	}
	return slot.port, slot.bit, nil
}

// Lookup returns the handle bound to (port, bit).
// Returns false if not found.
func (p *Pool) Lookup(port, bit uint8) (Handle, bool) {
	for i, slot := range p.pins {
		if slot.port == port && slot.bit == bit {
			return Handle(i), true
		}
	}
	return InvalidHandle, false
}

// Handles returns all bound handles in creation order.
func (p *Pool) Handles() []Handle {
	result := make([]Handle, len(p.pins))
	for i := range p.pins {
		result[i] = Handle(i)
	}
	return result
}

// Len returns the number of bound pins.
func (p *Pool) Len() int {
	return len(p.pins)
}

// Cap returns the number of pin slots.
func (p *Pool) Cap() int {
	return cap(p.pins)
}

func (p *Pool) slot(h Handle) (*pin, error) {
	if h < 0 || int(h) >= len(p.pins) {
		return nil, errors.Wrapf(InvalidHandleError, "handle %d", h)
	}
	return &p.pins[h], nil
}
