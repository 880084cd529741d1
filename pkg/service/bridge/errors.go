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

package bridge

import (
	"github.com/pkg/errors"
)

const (
	// MaxBlockLength is the largest block an SMBus block transfer can carry.
	MaxBlockLength = 32
)

var (
	// InvalidArgumentError is returned when an operation is called with
	// arguments the bus cannot carry. It is not an I/O failure.
	InvalidArgumentError = errors.New("invalid argument")
	// BusClosedError is returned when an operation is executed on a closed bus.
	BusClosedError = errors.New("bus closed")
	// UnsupportedError is returned when the bus adapter lacks a transfer type.
	// It is not an I/O failure.
	UnsupportedError = errors.New("not supported")

	// IsInvalidArgument returns true if the given error is caused by InvalidArgumentError.
	IsInvalidArgument = isErrorFunc(InvalidArgumentError)
	// IsBusClosed returns true if the given error is caused by BusClosedError.
	IsBusClosed = isErrorFunc(BusClosedError)
	// IsUnsupported returns true if the given error is caused by UnsupportedError.
	IsUnsupported = isErrorFunc(UnsupportedError)

	maskAny = errors.WithStack
)

func isErrorFunc(typeOfError error) func(error) bool {
	return func(err error) bool {
		return errors.Is(err, typeOfError)
	}
}

// ValidateBlock checks that the given data fits in a single block write.
func ValidateBlock(data []byte) error {
	if len(data) == 0 || len(data) > MaxBlockLength {
		return errors.Wrapf(InvalidArgumentError, "block length %d not in 1..%d", len(data), MaxBlockLength)
	}
	return nil
}

// ValidateReadLength checks that n bytes can be read in a single block read.
func ValidateReadLength(n int) error {
	if n <= 0 || n > MaxBlockLength {
		return errors.Wrapf(InvalidArgumentError, "read length %d not in 1..%d", n, MaxBlockLength)
	}
	return nil
}
