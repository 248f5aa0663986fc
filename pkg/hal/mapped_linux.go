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
	"sync"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// MappedRegisters accesses the GPIO registers through a memory mapping
// of a device file such as /dev/mem.
type MappedRegisters struct {
	wordRegisters
	mutex sync.Mutex
	data  []byte
}

// OpenMappedRegisters maps the register window of the given layout from
// the device file at given location.
func OpenMappedRegisters(location string, layout Layout, log zerolog.Logger) (*MappedRegisters, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	fd, err := unix.Open(location, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "Open(%s) failed", location)
	}
	defer unix.Close(fd)

	// Mapping offsets must be page aligned
	pageSize := uint64(unix.Getpagesize())
	pageBase := layout.Base &^ (pageSize - 1)
	delta := layout.Base - pageBase
	length := int(delta) + int(layout.Size())
	data, err := unix.Mmap(fd, int64(pageBase), length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "Mmap(%s, 0x%x) failed", location, pageBase)
	}
	window := data[delta:]
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&window[0])), layout.Size()/4)
	log.Debug().
		Str("location", location).
		Str("layout", layout.Name).
		Uint64("base", layout.Base).
		Str("size", humanize.IBytes(uint64(length))).
		Msg("Mapped GPIO registers")
	return &MappedRegisters{
		wordRegisters: wordRegisters{
			layout: layout,
			words:  words,
		},
		data: data,
	}, nil
}

// Close unmaps the register window.
func (r *MappedRegisters) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	r.words = nil
	if err := unix.Munmap(data); err != nil {
		return errors.Wrap(err, "Munmap failed")
	}
	return nil
}
