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
	"runtime"
	"sync"
	"sync/atomic"
)

type guarded struct {
	regs   Registers
	locker sync.Locker
}

// Guarded returns Registers that hold the given lock for the duration of
// every call on regs.
func Guarded(regs Registers, locker sync.Locker) Registers {
	return &guarded{
		regs:   regs,
		locker: locker,
	}
}

func (g *guarded) SetDirection(port, bit uint8, output bool) {
	g.locker.Lock()
	defer g.locker.Unlock()
	g.regs.SetDirection(port, bit, output)
}

func (g *guarded) SetOutput(port, bit uint8, active bool) {
	g.locker.Lock()
	defer g.locker.Unlock()
	g.regs.SetOutput(port, bit, active)
}

func (g *guarded) GetInput(port, bit uint8) bool {
	g.locker.Lock()
	defer g.locker.Unlock()
	return g.regs.GetInput(port, bit)
}

// Spinlock with exponential backoff.
// Suited for the short critical sections around a register update.
type SpinLock struct {
	flags uint32
}

// Lock the spinlock.
func (l *SpinLock) Lock() {
	backoff := 1
	for {
		if l.TryLock() {
			// We're locked
			return
		}
		// Backoff
		for x := 0; x < backoff; x++ {
			runtime.Gosched()
		}
		if backoff < 64 {
			backoff *= 2
		}
	}
}

// Try to lock the spinlock.
// Returns true when locked, false otherwise.
func (l *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&l.flags, 0, 1)
}

// Unlock the spinlock.
func (l *SpinLock) Unlock() {
	atomic.StoreUint32(&l.flags, 0)
}
