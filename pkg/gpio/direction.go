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

package gpio

type Direction byte

const (
	DirectionInput Direction = iota
	DirectionOutput
)

func (d Direction) String() string {
	if d == DirectionOutput {
		return "output"
	}
	return "input"
}

// Handle identifies a pin in a Pool.
type Handle int

const (
	// InvalidHandle is returned when no pin could be created.
	InvalidHandle Handle = -1
)

// IsValid returns true when the handle is not the InvalidHandle sentinel.
// It does not check that the handle is bound in any pool.
func (h Handle) IsValid() bool {
	return h >= 0
}
