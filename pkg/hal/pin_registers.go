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

package hal

import (
	"github.com/rs/zerolog"
)

// pinDriver is a GPIO driver that addresses pins one at a time by number.
type pinDriver interface {
	// Configure the pin as input
	input(number int) error
	// Configure the pin as output, driving the given level
	output(number int, level bool) error
	// Write the level of a pin that is configured as output
	write(number int, level bool) error
	// Read the level of a pin
	read(number int) (bool, error)
}

// pinRegisters emulates the direction and output registers on top of a
// pinDriver. The register words are mirrored in memory so a level written
// to an input pin is remembered without switching the pin to output.
type pinRegisters struct {
	log         zerolog.Logger
	backend     string
	pinsPerPort uint8
	driver      pinDriver
	dir         map[uint8]uint32
	out         map[uint8]uint32
}

func newPinRegisters(backend string, pinsPerPort uint8, driver pinDriver, log zerolog.Logger) *pinRegisters {
	return &pinRegisters{
		log:         log.With().Str("component", "hal").Str("backend", backend).Logger(),
		backend:     backend,
		pinsPerPort: pinsPerPort,
		driver:      driver,
		dir:         make(map[uint8]uint32),
		out:         make(map[uint8]uint32),
	}
}

// number returns the driver pin number of the given pin.
func (r *pinRegisters) number(port, bit uint8) int {
	return int(port)*int(r.pinsPerPort) + int(bit)
}

// SetDirection configures the pin as output (true) or input (false).
func (r *pinRegisters) SetDirection(port, bit uint8, output bool) {
	m := mask(bit)
	n := r.number(port, bit)
	var err error
	if output {
		r.dir[port] |= m
		err = r.driver.output(n, r.out[port]&m != 0)
	} else {
		r.dir[port] &^= m
		err = r.driver.input(n)
	}
	if err != nil {
		r.onError("set_direction", port, bit, err)
	}
}

// SetOutput sets the driven level of the pin.
func (r *pinRegisters) SetOutput(port, bit uint8, active bool) {
	m := mask(bit)
	if active {
		r.out[port] |= m
	} else {
		r.out[port] &^= m
	}
	if r.dir[port]&m == 0 {
		// Input; the level is latched and driven once the pin becomes output
		return
	}
	if err := r.driver.write(r.number(port, bit), active); err != nil {
		r.onError("set_output", port, bit, err)
	}
}

// GetInput returns the sensed level of the pin.
func (r *pinRegisters) GetInput(port, bit uint8) bool {
	value, err := r.driver.read(r.number(port, bit))
	if err != nil {
		r.onError("get_input", port, bit, err)
		return false
	}
	return value
}

func (r *pinRegisters) onError(op string, port, bit uint8, err error) {
	driverErrorsTotal.WithLabelValues(r.backend, op).Inc()
	r.log.Warn().Err(err).
		Str("op", op).
		Uint8("port", port).
		Uint8("bit", bit).
		Msg("GPIO driver failed")
}
