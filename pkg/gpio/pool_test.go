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

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/binkynet/LocalGPIO/pkg/hal"
)

type call struct {
	op    string
	port  uint8
	bit   uint8
	value bool
}

// recordingRegisters passes calls to a memory register file and records them.
type recordingRegisters struct {
	*hal.MemoryRegisters
	calls []call
}

func (r *recordingRegisters) SetDirection(port, bit uint8, output bool) {
	r.calls = append(r.calls, call{"dir", port, bit, output})
	r.MemoryRegisters.SetDirection(port, bit, output)
}

func (r *recordingRegisters) SetOutput(port, bit uint8, active bool) {
	r.calls = append(r.calls, call{"out", port, bit, active})
	r.MemoryRegisters.SetOutput(port, bit, active)
}

func (r *recordingRegisters) GetInput(port, bit uint8) bool {
	value := r.MemoryRegisters.GetInput(port, bit)
	r.calls = append(r.calls, call{"in", port, bit, value})
	return value
}

func (r *recordingRegisters) reset() {
	r.calls = nil
}

func newTestPool(t *testing.T, capacity int) (*Pool, *recordingRegisters) {
	t.Helper()
	mem, err := hal.NewMemoryRegisters(hal.LayoutSim)
	if err != nil {
		t.Fatalf("NewMemoryRegisters failed: %v", err)
	}
	regs := &recordingRegisters{MemoryRegisters: mem}
	p, err := NewPool(Config{Capacity: capacity}, regs, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	return p, regs
}

func mustCreate(t *testing.T, p *Pool, port, bit uint8) Handle {
	t.Helper()
	h, err := p.Create(port, bit)
	if err != nil {
		t.Fatalf("Create(%d, %d) failed: %v", port, bit, err)
	}
	return h
}

func expectDirection(t *testing.T, p *Pool, h Handle, expected Direction) {
	t.Helper()
	d, err := p.Direction(h)
	if err != nil {
		t.Fatalf("Direction failed: %v", err)
	}
	if d != expected {
		t.Errorf("Expected direction %s, got %s", expected, d)
	}
}

func TestCreateConfiguresInput(t *testing.T) {
	p, regs := newTestPool(t, 4)
	regs.SetDirection(1, 2, true) // Leftover state from before
	regs.reset()

	h := mustCreate(t, p, 1, 2)
	expectDirection(t, p, h, DirectionInput)
	if len(regs.calls) != 1 || regs.calls[0] != (call{"dir", 1, 2, false}) {
		t.Errorf("Expected a single input direction write, got %v", regs.calls)
	}
	if got := regs.Word(1, hal.RegisterDirection); got != 0 {
		t.Errorf("Expected direction register 0, got 0x%x", got)
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	p, regs := newTestPool(t, 4)
	for port := uint8(0); port < 3; port++ {
		for _, bit := range []uint8{0, 7, 31} {
			h := mustCreate(t, p, port, bit)
			regs.reset()

			if err := p.SetOutput(h, true); err != nil {
				t.Fatalf("SetOutput failed: %v", err)
			}
			expectDirection(t, p, h, DirectionOutput)
			if err := p.SetOutput(h, false); err != nil {
				t.Fatalf("SetOutput failed: %v", err)
			}
			expectDirection(t, p, h, DirectionInput)

			expected := []call{{"dir", port, bit, true}, {"dir", port, bit, false}}
			if len(regs.calls) != len(expected) {
				t.Fatalf("Expected %v, got %v", expected, regs.calls)
			}
			for i := range expected {
				if regs.calls[i] != expected[i] {
					t.Errorf("Call %d: expected %v, got %v", i, expected[i], regs.calls[i])
				}
			}
		}
		p, regs = newTestPool(t, 4)
	}
}

func TestSetStateIdempotent(t *testing.T) {
	p, regs := newTestPool(t, 1)
	h := mustCreate(t, p, 0, 6)
	p.SetOutput(h, true)

	p.SetState(h, true)
	once := regs.Word(0, hal.RegisterOutput)
	p.SetState(h, true)
	twice := regs.Word(0, hal.RegisterOutput)
	if once != twice || twice != 1<<6 {
		t.Errorf("Expected output 0x%x twice, got 0x%x and 0x%x", 1<<6, once, twice)
	}
	expectDirection(t, p, h, DirectionOutput)
}

func TestSetStateOnInputIsNoop(t *testing.T) {
	p, regs := newTestPool(t, 1)
	h := mustCreate(t, p, 2, 1)
	regs.SetInputLevel(2, 1, true)

	before, err := p.GetState(h)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	regs.reset()
	for _, value := range []bool{true, false} {
		if err := p.SetState(h, value); err != nil {
			t.Errorf("SetState on input must not fail, got %v", err)
		}
	}
	if len(regs.calls) != 0 {
		t.Errorf("Expected no register access, got %v", regs.calls)
	}
	after, _ := p.GetState(h)
	if before != after {
		t.Errorf("GetState changed from %v to %v", before, after)
	}
	if got := regs.Word(2, hal.RegisterOutput); got != 0 {
		t.Errorf("Expected output register 0, got 0x%x", got)
	}
}

func TestSiblingPinsIsolated(t *testing.T) {
	p, regs := newTestPool(t, 2)
	h3 := mustCreate(t, p, 0, 3)
	h5 := mustCreate(t, p, 0, 5)
	p.SetOutput(h5, true)
	p.SetState(h5, true)

	p.SetOutput(h3, true)
	p.SetState(h3, true)
	p.SetState(h3, false)
	p.SetOutput(h3, false)

	expectDirection(t, p, h5, DirectionOutput)
	if got := regs.Word(0, hal.RegisterDirection); got != 1<<5 {
		t.Errorf("Expected direction 0x%x, got 0x%x", 1<<5, got)
	}
	if got := regs.Word(0, hal.RegisterOutput); got != 1<<5 {
		t.Errorf("Expected output 0x%x, got 0x%x", 1<<5, got)
	}
}

func TestPoolExhaustion(t *testing.T) {
	const capacity = 4
	p, _ := newTestPool(t, capacity)
	var handles []Handle
	for bit := uint8(0); bit < capacity; bit++ {
		handles = append(handles, mustCreate(t, p, 1, bit))
	}
	p.SetOutput(handles[2], true)

	h, err := p.Create(1, capacity)
	if !IsPoolExhausted(err) {
		t.Errorf("Expected PoolExhaustedError, got %v", err)
	}
	if h != InvalidHandle || h.IsValid() {
		t.Errorf("Expected InvalidHandle, got %d", h)
	}
	if p.Len() != capacity || p.Cap() != capacity {
		t.Errorf("Expected len/cap %d, got %d/%d", capacity, p.Len(), p.Cap())
	}
	for i, h := range handles {
		port, bit, err := p.Location(h)
		if err != nil {
			t.Fatalf("Location failed: %v", err)
		}
		if port != 1 || bit != uint8(i) {
			t.Errorf("Handle %d moved to %d/%d", h, port, bit)
		}
	}
	expectDirection(t, p, handles[2], DirectionOutput)
}

func TestCreateExistingPin(t *testing.T) {
	p, _ := newTestPool(t, 1)
	h := mustCreate(t, p, 4, 4)
	p.SetOutput(h, true)

	// The pool is full, but re-creating a bound pin fetches its slot
	again, err := p.Create(4, 4)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if again != h {
		t.Errorf("Expected handle %d, got %d", h, again)
	}
	expectDirection(t, p, h, DirectionInput)
}

func TestInvalidHandle(t *testing.T) {
	p, _ := newTestPool(t, 2)
	mustCreate(t, p, 0, 0)
	for _, h := range []Handle{InvalidHandle, 1, 5} {
		if err := p.SetOutput(h, true); !IsInvalidHandle(err) {
			t.Errorf("SetOutput(%d): expected InvalidHandleError, got %v", h, err)
		}
		if err := p.SetState(h, true); !IsInvalidHandle(err) {
			t.Errorf("SetState(%d): expected InvalidHandleError, got %v", h, err)
		}
		if _, err := p.GetState(h); !IsInvalidHandle(err) {
			t.Errorf("GetState(%d): expected InvalidHandleError, got %v", h, err)
		}
		if _, err := p.Direction(h); !IsInvalidHandle(err) {
			t.Errorf("Direction(%d): expected InvalidHandleError, got %v", h, err)
		}
	}
}

func TestCreateBoundsCheck(t *testing.T) {
	mem, _ := hal.NewMemoryRegisters(hal.LayoutSim)
	p, err := NewPool(Config{Capacity: 2, Ports: 2, PinsPerPort: 8}, mem, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	if _, err := p.Create(2, 0); !IsInvalidPin(err) {
		t.Errorf("Expected InvalidPinError for port, got %v", err)
	}
	if _, err := p.Create(0, 8); !IsInvalidPin(err) {
		t.Errorf("Expected InvalidPinError for bit, got %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("Expected no bound pins, got %d", p.Len())
	}
	mustCreate(t, p, 1, 7)
}

func TestNewPoolConfig(t *testing.T) {
	mem, _ := hal.NewMemoryRegisters(hal.LayoutSim)
	for _, cfg := range []Config{{Capacity: 0}, {Capacity: MaxCapacity + 1}, {Capacity: 1, PinsPerPort: 33}} {
		if _, err := NewPool(cfg, mem, zerolog.Nop()); !IsInvalidConfig(err) {
			t.Errorf("%+v: expected InvalidConfigError, got %v", cfg, err)
		}
	}
	if _, err := NewPool(Config{Capacity: 1}, nil, zerolog.Nop()); !IsInvalidConfig(err) {
		t.Errorf("Expected InvalidConfigError for nil registers, got %v", err)
	}
}

func TestScenario(t *testing.T) {
	p, regs := newTestPool(t, 1)
	h := mustCreate(t, p, 1, 2)
	expectDirection(t, p, h, DirectionInput)

	p.SetOutput(h, true)
	expectDirection(t, p, h, DirectionOutput)
	if got := regs.Word(1, hal.RegisterDirection); got != 1<<2 {
		t.Errorf("Expected direction bit set, got 0x%x", got)
	}

	p.SetState(h, true)
	if got := regs.Word(1, hal.RegisterOutput); got != 1<<2 {
		t.Errorf("Expected output bit set, got 0x%x", got)
	}

	p.SetOutput(h, false)
	expectDirection(t, p, h, DirectionInput)
	if got := regs.Word(1, hal.RegisterDirection); got != 0 {
		t.Errorf("Expected direction bit cleared, got 0x%x", got)
	}

	// The sensed level is independent of the earlier driven level
	if state, _ := p.GetState(h); state {
		t.Error("Expected low external level")
	}
	regs.SetInputLevel(1, 2, true)
	if state, _ := p.GetState(h); !state {
		t.Error("Expected high external level")
	}
}
