//    Copyright 2026 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package transport

import (
	"github.com/binkynet/GroveWorker/pkg/metrics"
)

const (
	subSystem = "transport"
)

var (
	attemptFailedTotal = metrics.MustRegisterCounterVec(subSystem,
		"attempt_failed_total",
		"Total number of failed attempts of a bus operation",
		"op")
	recoveredTotal = metrics.MustRegisterCounterVec(subSystem,
		"recovered_total",
		"Total number of bus operations that succeeded after a failed attempt",
		"op")
	exhaustedTotal = metrics.MustRegisterCounterVec(subSystem,
		"exhausted_total",
		"Total number of bus operations that failed on all attempts",
		"op")
)
