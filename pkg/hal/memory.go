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

// RegisterKind selects one of the registers of a port.
type RegisterKind uint8

const (
	RegisterDirection RegisterKind = iota
	RegisterOutput
	RegisterInput
)

func (k RegisterKind) String() string {
	switch k {
	case RegisterDirection:
		return "direction"
	case RegisterOutput:
		return "output"
	case RegisterInput:
		return "input"
	default:
		return "unknown"
	}
}

// MemoryRegisters is a register file kept in process memory.
// It behaves like the hardware registers of the given layout, except that
// input levels come from SetInputLevel instead of real pins.
type MemoryRegisters struct {
	wordRegisters
}

// NewMemoryRegisters creates a zeroed register file for the given layout.
func NewMemoryRegisters(layout Layout) (*MemoryRegisters, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &MemoryRegisters{
		wordRegisters: wordRegisters{
			layout: layout,
			words:  make([]uint32, layout.Size()/4),
		},
	}, nil
}

// Layout returns the layout of the register file.
func (r *MemoryRegisters) Layout() Layout {
	return r.layout
}

// SetInputLevel simulates an external level on the given pin.
func (r *MemoryRegisters) SetInputLevel(port, bit uint8, level bool) {
	r.modify(r.layout.inIndex(port), mask(bit), level)
}

// Word returns the raw value of a register of the given port.
func (r *MemoryRegisters) Word(port uint8, kind RegisterKind) uint32 {
	switch kind {
	case RegisterDirection:
		return r.load(r.layout.dirIndex(port))
	case RegisterOutput:
		return r.load(r.layout.outIndex(port))
	default:
		return r.load(r.layout.inIndex(port))
	}
}
