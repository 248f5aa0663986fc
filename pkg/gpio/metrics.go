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
	"github.com/binkynet/LocalGPIO/pkg/metrics"
)

const (
	subSystem = "gpio"
)

var (
	// Number of bound pin slots, summed over all pools of the process.
	// Slots are never released, so it only grows.
	poolSlotsInUse = metrics.MustRegisterGauge(subSystem,
		"pool_slots_in_use",
		"Number of bound pin slots summed over all pools in this process")
	// Total number of Create calls that found the pool full
	poolExhaustedTotal = metrics.MustRegisterCounter(subSystem,
		"pool_exhausted_total",
		"Total number of Create calls that found the pool full")
	// Total number of SetState calls ignored on input pins
	ignoredSetStateTotal = metrics.MustRegisterCounter(subSystem,
		"ignored_set_state_total",
		"Total number of SetState calls ignored because the pin is an input")
)
