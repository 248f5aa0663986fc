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

// MappedRegisters is only available on Linux.
type MappedRegisters struct {
	wordRegisters
}

// OpenMappedRegisters always fails on this platform.
func OpenMappedRegisters(location string, layout Layout, log zerolog.Logger) (*MappedRegisters, error) {
	return nil, errors.Wrapf(UnsupportedError, "cannot map %s", location)
}

// Close is a no-op.
func (r *MappedRegisters) Close() error {
	return nil
}
