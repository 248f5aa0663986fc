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

package service

import (
	"testing"
)

func TestParsePinSpec(t *testing.T) {
	tests := []struct {
		input    string
		expected PinSpec
		valid    bool
	}{
		{"led=1:2:out", PinSpec{Name: "led", Port: 1, Bit: 2, Output: true}, true},
		{"button=0:7", PinSpec{Name: "button", Port: 0, Bit: 7}, true},
		{" key =3:31:in", PinSpec{Name: "key", Port: 3, Bit: 31}, true},
		{"1:2", PinSpec{}, false},
		{"=1:2", PinSpec{}, false},
		{"led=1", PinSpec{}, false},
		{"led=1:2:3:4", PinSpec{}, false},
		{"led=256:2", PinSpec{}, false},
		{"led=a:2", PinSpec{}, false},
		{"led=1:b", PinSpec{}, false},
		{"led=1:2:both", PinSpec{}, false},
	}
	for _, test := range tests {
		spec, err := ParsePinSpec(test.input)
		if test.valid {
			if err != nil {
				t.Errorf("%q: unexpected error %v", test.input, err)
			} else if spec != test.expected {
				t.Errorf("%q: expected %+v, got %+v", test.input, test.expected, spec)
			}
		} else if !IsValidation(err) {
			t.Errorf("%q: expected ValidationError, got %v", test.input, err)
		}
	}
}

func TestParsePinSpecsAggregates(t *testing.T) {
	specs, err := ParsePinSpecs([]string{"a=0:1", "b=0:2:out"})
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(specs) != 2 {
		t.Errorf("Expected 2 specs, got %d", len(specs))
	}
	if _, err := ParsePinSpecs([]string{"a", "b=0:2:out", "c=x:1"}); err == nil {
		t.Error("Expected error")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Backend:  "memory",
		Layout:   "sim",
		Capacity: 2,
		Pins:     []PinSpec{{Name: "a", Port: 0, Bit: 1}, {Name: "b", Port: 7, Bit: 31}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"backend", func(c *Config) { c.Backend = "usb" }},
		{"capacity", func(c *Config) { c.Capacity = 0 }},
		{"too many pins", func(c *Config) { c.Capacity = 1 }},
		{"duplicate name", func(c *Config) { c.Pins[1].Name = "a" }},
		{"shared location", func(c *Config) { c.Pins[1].Port, c.Pins[1].Bit = 0, 1 }},
		{"outside layout", func(c *Config) { c.Pins[1].Port = 8 }},
	}
	for _, test := range tests {
		c := valid
		c.Pins = append([]PinSpec(nil), valid.Pins...)
		test.modify(&c)
		if err := c.Validate(); !IsValidation(err) {
			t.Errorf("%s: expected ValidationError, got %v", test.name, err)
		}
	}
	c := valid
	c.Layout = "avr"
	if err := c.Validate(); err == nil {
		t.Error("Expected error for unknown layout")
	}
}
