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
	"context"
)

// API of the bridge, the hardware used to connect the host to the I2C bus
// that the GrovePi board is attached to.
type API interface {
	// Open the I2C bus
	I2CBus() (I2CBus, error)
	// Close the bridge and the bus opened through it.
	Close() error
}

// I2CBus gives serialized access to devices on an I2C bus.
// Every call to Execute is a single attempt, retry policies are
// left to the caller.
type I2CBus interface {
	// Execute an operation on the device with given address.
	Execute(ctx context.Context, address uint8, op func(ctx context.Context, dev I2CDevice) error) error
	// Close the bus and all devices on it
	Close() error
}

// I2CDevice communicates with a device on the I2C Bus that has a specific address.
type I2CDevice interface {
	// Read a single byte from the device (SMBus receive byte).
	ReadByte() (uint8, error)
	// Write a block of data to given register (SMBus I2C block write).
	WriteBlockData(reg uint8, data []byte) error
	// Read n bytes starting at given register (SMBus I2C block read).
	ReadBlockData(reg uint8, n int) ([]byte, error)
}
