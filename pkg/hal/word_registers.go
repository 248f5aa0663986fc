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
	"sync/atomic"
)

// wordRegisters implements Registers on top of a window of 32-bit
// register words. Loads and stores go through sync/atomic so every access
// reaches memory, but the read-modify-write as a whole is not atomic.
type wordRegisters struct {
	layout Layout
	words  []uint32
}

// SetDirection configures the pin as output (true) or input (false).
func (r *wordRegisters) SetDirection(port, bit uint8, output bool) {
	// With DirInputIsSet the bit is set for input, otherwise for output.
	r.modify(r.layout.dirIndex(port), mask(bit), output != r.layout.DirInputIsSet)
}

// SetOutput sets the driven level of the pin.
func (r *wordRegisters) SetOutput(port, bit uint8, active bool) {
	r.modify(r.layout.outIndex(port), mask(bit), active)
}

// GetInput returns the sensed level of the pin.
func (r *wordRegisters) GetInput(port, bit uint8) bool {
	return r.load(r.layout.inIndex(port))&mask(bit) != 0
}

// modify sets or clears the bits in m of the word at given index,
// leaving all other bits untouched.
func (r *wordRegisters) modify(index uint32, m uint32, set bool) {
	value := r.load(index)
	if set {
		value |= m
	} else {
		value &^= m
	}
	r.store(index, value)
}

func (r *wordRegisters) load(index uint32) uint32 {
	return atomic.LoadUint32(&r.words[index])
}

func (r *wordRegisters) store(index uint32, value uint32) {
	atomic.StoreUint32(&r.words[index], value)
}
