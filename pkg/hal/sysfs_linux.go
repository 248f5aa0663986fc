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

//go:build linux

package hal

import (
	"fmt"

	"github.com/ecc1/gpio"
	"github.com/rs/zerolog"
)

type sysfsDriver struct {
	activeLow bool
	inputs    map[int]gpio.InputPin
	outputs   map[int]gpio.OutputPin
}

// NewSysfsRegisters implements Registers on top of the Linux sysfs GPIO
// interface. Pin (port, bit) maps to GPIO number port*pinsPerPort+bit.
func NewSysfsRegisters(pinsPerPort uint8, activeLow bool, log zerolog.Logger) (Registers, error) {
	if pinsPerPort == 0 || pinsPerPort > 32 {
		return nil, maskAny(fmt.Errorf("pinsPerPort must be between 1 and 32, got %d", pinsPerPort))
	}
	d := &sysfsDriver{
		activeLow: activeLow,
		inputs:    make(map[int]gpio.InputPin),
		outputs:   make(map[int]gpio.OutputPin),
	}
	return newPinRegisters("sysfs", pinsPerPort, d, log), nil
}

func (d *sysfsDriver) input(number int) error {
	p, err := gpio.Input(number, d.activeLow)
	if err != nil {
		return err
	}
	d.inputs[number] = p
	delete(d.outputs, number)
	return nil
}

func (d *sysfsDriver) output(number int, level bool) error {
	p, err := gpio.Output(number, d.activeLow, level)
	if err != nil {
		return err
	}
	d.outputs[number] = p
	delete(d.inputs, number)
	return nil
}

func (d *sysfsDriver) write(number int, level bool) error {
	if p, found := d.outputs[number]; found {
		return p.Write(level)
	}
	return fmt.Errorf("gpio %d is not open as output", number)
}

// read returns the value of the pin. Pins opened as output are read back
// through their value file, like an input register on a mapped port.
func (d *sysfsDriver) read(number int) (bool, error) {
	if p, found := d.inputs[number]; found {
		return p.Read()
	}
	if p, found := d.outputs[number]; found {
		if ip, ok := p.(gpio.InputPin); ok {
			return ip.Read()
		}
		return false, fmt.Errorf("gpio %d cannot be read back", number)
	}
	return false, fmt.Errorf("gpio %d is not open", number)
}
