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

// Package bridgetest provides I2C buses for testing code that talks to
// devices through the bridge package.
package bridgetest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/binkynet/GroveWorker/pkg/service/bridge"
)

// TransferError is returned by FlakyBus for injected failures.
var TransferError = errors.New("injected transfer failure")

// FlakyBus wraps a bus and fails a number of Execute calls before
// passing them on to the wrapped bus.
type FlakyBus struct {
	mutex sync.Mutex
	// Bus that receives the calls that are not failed.
	// When nil, those calls succeed without executing the operation.
	Bus bridge.I2CBus
	// Number of upcoming Execute calls that fail.
	Failures int
	// FailAlways makes every call fail.
	FailAlways bool
	// Total number of Execute calls.
	Calls int
	// Number of Execute calls that were failed.
	Failed int
}

// Execute an operation on the bus.
func (b *FlakyBus) Execute(ctx context.Context, address uint8, op func(context.Context, bridge.I2CDevice) error) error {
	b.mutex.Lock()
	b.Calls++
	if b.FailAlways || b.Failures > 0 {
		if b.Failures > 0 {
			b.Failures--
		}
		b.Failed++
		b.mutex.Unlock()
		return errors.Wrapf(TransferError, "address 0x%02x", address)
	}
	b.mutex.Unlock()
	if b.Bus == nil {
		return nil
	}
	return b.Bus.Execute(ctx, address, op)
}

// Close the wrapped bus.
func (b *FlakyBus) Close() error {
	if b.Bus == nil {
		return nil
	}
	return b.Bus.Close()
}

// CallCount returns the total number of Execute calls.
func (b *FlakyBus) CallCount() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.Calls
}
