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

package devices

import (
	"github.com/pkg/errors"
)

var (
	// InvalidArgumentError is returned when a command is called with an
	// argument the firmware does not understand.
	InvalidArgumentError = errors.New("invalid argument")
	// InvalidReadingError is returned when a sensor reply decodes to a value
	// outside of the range of the sensor.
	InvalidReadingError = errors.New("invalid reading")
	// NotReadyError is returned when a sensor has no measurement available.
	NotReadyError = errors.New("not ready")
	// ShortReplyError is returned when a reply is shorter than its decoder needs.
	ShortReplyError = errors.New("short reply")

	// IsInvalidArgument returns true if the given error is caused by InvalidArgumentError.
	IsInvalidArgument = isErrorFunc(InvalidArgumentError)
	// IsInvalidReading returns true if the given error is caused by InvalidReadingError.
	IsInvalidReading = isErrorFunc(InvalidReadingError)
	// IsNotReady returns true if the given error is caused by NotReadyError.
	IsNotReady = isErrorFunc(NotReadyError)
	// IsShortReply returns true if the given error is caused by ShortReplyError.
	IsShortReply = isErrorFunc(ShortReplyError)

	maskAny = errors.WithStack
)

func isErrorFunc(typeOfError error) func(error) bool {
	return func(err error) bool {
		return errors.Is(err, typeOfError)
	}
}
