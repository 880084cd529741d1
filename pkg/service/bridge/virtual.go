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

	"github.com/pkg/errors"
)

type virtualBridge struct {
}

// NewVirtualBridge implements a bridge without hardware.
// Every operation on its bus fails as if no device answered.
func NewVirtualBridge() (API, error) {
	return &virtualBridge{}, nil
}

// Open the I2C bus
func (p *virtualBridge) I2CBus() (I2CBus, error) {
	return p, nil
}

func (p *virtualBridge) Close() error {
	return nil
}

// Execute an operation on the bus.
func (p *virtualBridge) Execute(ctx context.Context, address uint8, op func(ctx context.Context, dev I2CDevice) error) error {
	i2cExecuteCounters.WithLabelValues(addressLabel(address)).Inc()
	i2cExecuteErrorCounters.WithLabelValues(addressLabel(address)).Inc()
	return errors.Errorf("device 0x%02x not found", address)
}
