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
	"github.com/pkg/errors"
)

var (
	// UnavailableError is returned when all attempts of an operation failed.
	UnavailableError = errors.New("device unavailable")

	// IsUnavailable returns true if the given error is caused by UnavailableError.
	IsUnavailable = isErrorFunc(UnavailableError)
)

func isErrorFunc(typeOfError error) func(error) bool {
	return func(err error) bool {
		return errors.Is(err, typeOfError)
	}
}

func newUnavailableError(op string, attempts int, lastErr error) error {
	return errors.Wrapf(UnavailableError, "%s failed after %d attempts: %v", op, attempts, lastErr)
}
