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
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type periphDriver struct {
	pins map[int]gpio.PinIO
}

// NewPeriphRegisters implements Registers on top of the periph.io host
// drivers. Pin (port, bit) maps to the pin named GPIO<port*pinsPerPort+bit>.
func NewPeriphRegisters(pinsPerPort uint8, log zerolog.Logger) (Registers, error) {
	if pinsPerPort == 0 || pinsPerPort > 32 {
		return nil, maskAny(fmt.Errorf("pinsPerPort must be between 1 and 32, got %d", pinsPerPort))
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host.Init failed")
	}
	d := &periphDriver{
		pins: make(map[int]gpio.PinIO),
	}
	return newPinRegisters("periph", pinsPerPort, d, log), nil
}

// pin returns the named pin with given number.
func (d *periphDriver) pin(number int) (gpio.PinIO, error) {
	if p, found := d.pins[number]; found {
		return p, nil
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", number))
	if p == nil {
		return nil, fmt.Errorf("GPIO%d not found", number)
	}
	d.pins[number] = p
	return p, nil
}

func (d *periphDriver) input(number int) error {
	p, err := d.pin(number)
	if err != nil {
		return err
	}
	return p.In(gpio.PullNoChange, gpio.NoEdge)
}

func (d *periphDriver) output(number int, level bool) error {
	p, err := d.pin(number)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(level))
}

func (d *periphDriver) write(number int, level bool) error {
	return d.output(number, level)
}

func (d *periphDriver) read(number int) (bool, error) {
	p, err := d.pin(number)
	if err != nil {
		return false, err
	}
	return p.Read() == gpio.High, nil
}
