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

//go:build !linux

package hal

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// NewSysfsRegisters always fails on this platform.
func NewSysfsRegisters(pinsPerPort uint8, activeLow bool, log zerolog.Logger) (Registers, error) {
	return nil, errors.Wrap(UnsupportedError, "sysfs GPIO requires Linux")
}
