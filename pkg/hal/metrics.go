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
	"strconv"

	"github.com/binkynet/LocalGPIO/pkg/metrics"
)

const (
	subSystem = "hal"
)

var (
	// Total number of register accesses per port & register
	registerAccessTotal = metrics.MustRegisterCounterVec(subSystem,
		"register_access_total",
		"Total number of register accesses per port & register",
		"port", "register")
	// Total number of per-pin driver failures
	driverErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"driver_errors_total",
		"Total number of GPIO driver failures per backend & operation",
		"backend", "op")
)

type instrumented struct {
	regs Registers
}

// WithMetrics returns Registers that count every access on regs.
func WithMetrics(regs Registers) Registers {
	return &instrumented{regs: regs}
}

func (r *instrumented) SetDirection(port, bit uint8, output bool) {
	registerAccessTotal.WithLabelValues(strconv.Itoa(int(port)), RegisterDirection.String()).Inc()
	r.regs.SetDirection(port, bit, output)
}

func (r *instrumented) SetOutput(port, bit uint8, active bool) {
	registerAccessTotal.WithLabelValues(strconv.Itoa(int(port)), RegisterOutput.String()).Inc()
	r.regs.SetOutput(port, bit, active)
}

func (r *instrumented) GetInput(port, bit uint8) bool {
	registerAccessTotal.WithLabelValues(strconv.Itoa(int(port)), RegisterInput.String()).Inc()
	return r.regs.GetInput(port, bit)
}
