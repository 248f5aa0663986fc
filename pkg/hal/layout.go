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
	"sort"

	"github.com/pkg/errors"
)

// Layout describes where the GPIO registers of a target live.
// All offsets are in bytes, relative to Base.
// The register of port N is found at offset + N*PortStride.
type Layout struct {
	// Name of the layout
	Name string
	// Number of ports
	Ports uint8
	// Number of pins per port (1..32)
	PinsPerPort uint8
	// Physical address of the register window
	Base uint64
	// Distance between the registers of two consecutive ports
	PortStride uint32
	// Offset of the direction register of port 0
	DirOffset uint32
	// Offset of the output register of port 0
	OutOffset uint32
	// Offset of the input register of port 0
	InOffset uint32
	// If set, a 1 in the direction register means input (MCP230xx IODIR style).
	DirInputIsSet bool
}

var (
	// LPC43xx GPIO port registers.
	// Output and input share the PIN register: writes go to the output
	// latch, reads return the pin state.
	LayoutLPC43xx = Layout{
		Name:        "lpc43xx",
		Ports:       8,
		PinsPerPort: 32,
		Base:        0x400F4000,
		PortStride:  4,
		DirOffset:   0x2000,
		OutOffset:   0x2100,
		InOffset:    0x2100,
	}
	// Simulated register file with separate registers.
	LayoutSim = Layout{
		Name:        "sim",
		Ports:       8,
		PinsPerPort: 32,
		PortStride:  4,
		DirOffset:   0x00,
		OutOffset:   0x20,
		InOffset:    0x40,
	}

	layouts = map[string]Layout{
		LayoutLPC43xx.Name: LayoutLPC43xx,
		LayoutSim.Name:     LayoutSim,
	}
)

// LayoutByName returns the predefined layout with given name.
func LayoutByName(name string) (Layout, error) {
	l, found := layouts[name]
	if !found {
		return Layout{}, errors.Wrapf(InvalidLayoutError, "unknown layout '%s'", name)
	}
	return l, nil
}

// LayoutNames returns the names of all predefined layouts.
func LayoutNames() []string {
	result := make([]string, 0, len(layouts))
	for name := range layouts {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Validate the layout.
func (l Layout) Validate() error {
	if l.Ports == 0 {
		return errors.Wrap(InvalidLayoutError, "Ports must be > 0")
	}
	if l.PinsPerPort == 0 || l.PinsPerPort > 32 {
		return errors.Wrapf(InvalidLayoutError, "PinsPerPort must be between 1 and 32, got %d", l.PinsPerPort)
	}
	if l.PortStride%4 != 0 || l.DirOffset%4 != 0 || l.OutOffset%4 != 0 || l.InOffset%4 != 0 {
		return errors.Wrap(InvalidLayoutError, "register offsets must be word aligned")
	}
	if l.Ports > 1 && l.PortStride == 0 {
		return errors.Wrap(InvalidLayoutError, "PortStride must be > 0 with more than 1 port")
	}
	// Output & input may share one register (LPC43xx PIN), direction may not.
	dir := l.wordIndexes(l.dirIndex)
	out := l.wordIndexes(l.outIndex)
	in := l.wordIndexes(l.inIndex)
	if overlaps(dir, out) || overlaps(dir, in) {
		return errors.Wrap(InvalidLayoutError, "direction registers overlap output or input registers")
	}
	if l.OutOffset != l.InOffset && overlaps(out, in) {
		return errors.Wrap(InvalidLayoutError, "output and input registers partially overlap")
	}
	return nil
}

// wordIndexes returns the set of word indexes of one register kind over all ports.
func (l Layout) wordIndexes(index func(port uint8) uint32) map[uint32]struct{} {
	result := make(map[uint32]struct{}, int(l.Ports))
	for port := 0; port < int(l.Ports); port++ {
		result[index(uint8(port))] = struct{}{}
	}
	return result
}

func overlaps(a, b map[uint32]struct{}) bool {
	for idx := range a {
		if _, found := b[idx]; found {
			return true
		}
	}
	return false
}

// Size returns the number of bytes spanned by the register window.
func (l Layout) Size() uint32 {
	last := l.DirOffset
	if l.OutOffset > last {
		last = l.OutOffset
	}
	if l.InOffset > last {
		last = l.InOffset
	}
	return last + uint32(l.Ports-1)*l.PortStride + 4
}

// dirIndex returns the word index of the direction register of the given port.
func (l Layout) dirIndex(port uint8) uint32 {
	return (l.DirOffset + uint32(port)*l.PortStride) / 4
}

// outIndex returns the word index of the output register of the given port.
func (l Layout) outIndex(port uint8) uint32 {
	return (l.OutOffset + uint32(port)*l.PortStride) / 4
}

// inIndex returns the word index of the input register of the given port.
func (l Layout) inIndex(port uint8) uint32 {
	return (l.InOffset + uint32(port)*l.PortStride) / 4
}
