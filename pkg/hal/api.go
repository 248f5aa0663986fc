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

// Package hal is the only code that touches GPIO hardware registers.
// Callers address a pin by (port, bit). No bounds validation is done here,
// the caller is trusted.
//
// Every direction and output update is a read-modify-write of a register
// word that is shared by all pins of the port. These sequences are not
// atomic. Callers that access the same port from more than one goroutine
// (or from an interrupt context) must supply their own critical section,
// for example by wrapping the registers with Guarded.
package hal

// Registers is the API of the register access layer.
type Registers interface {
	// SetDirection configures the pin as output (true) or input (false).
	// Only the bit of the given pin is changed.
	SetDirection(port, bit uint8, output bool)
	// SetOutput sets the driven level of the pin (true = high).
	// Only the bit of the given pin is changed.
	SetOutput(port, bit uint8, active bool)
	// GetInput returns the sensed level of the pin (true = high).
	// It never writes a register.
	GetInput(port, bit uint8) bool
}

// mask returns a register word with only the given bit set.
func mask(bit uint8) uint32 {
	return uint32(1) << (bit & 31)
}
