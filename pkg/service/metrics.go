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
	"github.com/binkynet/LocalGPIO/pkg/metrics"
)

const (
	subSystem = "service"
)

var (
	// Total number of CreatePin calls
	createPinTotal = metrics.MustRegisterCounter(subSystem,
		"create_pin_total",
		"Total number of CreatePin calls")
	// Total number of SetDirection calls
	setDirectionTotal = metrics.MustRegisterCounter(subSystem,
		"set_direction_total",
		"Total number of SetDirection calls")
	// Total number of SetState calls
	setStateTotal = metrics.MustRegisterCounter(subSystem,
		"set_state_total",
		"Total number of SetState calls")
	// Total number of GetState calls
	getStateTotal = metrics.MustRegisterCounter(subSystem,
		"get_state_total",
		"Total number of GetState calls")
)
