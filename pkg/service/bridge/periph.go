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
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type periphBridge struct {
	mutex sync.Mutex
	name  string
	bus   I2CBus
}

// NewPeriphBridge implements the bridge on top of the periph.io host drivers.
// The name selects the I2C bus, an empty name selects the first bus found.
func NewPeriphBridge(name string) (API, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host.Init failed")
	}
	return &periphBridge{name: name}, nil
}

// Open the I2C bus
func (p *periphBridge) I2CBus() (I2CBus, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus == nil {
		bus, err := i2creg.Open(p.name)
		if err != nil {
			return nil, errors.Wrapf(err, "i2creg.Open(%q) failed", p.name)
		}
		p.bus = NewPeriphBus(bus)
	}
	return p.bus, nil
}

func (p *periphBridge) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus != nil {
		bus := p.bus
		p.bus = nil
		if err := bus.Close(); err != nil {
			return errors.Wrap(err, "Close failed")
		}
	}
	return nil
}

type periphBus struct {
	mutex  sync.Mutex
	bus    i2c.BusCloser
	closed bool
}

// NewPeriphBus wraps a periph.io I2C bus.
// Operations on the returned bus are serialized.
func NewPeriphBus(bus i2c.BusCloser) I2CBus {
	return &periphBus{bus: bus}
}

// Execute an operation on the bus.
func (b *periphBus) Execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return maskAny(BusClosedError)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := addressLabel(address)
	i2cExecuteCounters.WithLabelValues(addr).Inc()
	dev := &periphDevice{dev: &i2c.Dev{Bus: b.bus, Addr: uint16(address)}}
	if err := op(ctx, dev); err != nil {
		i2cExecuteErrorCounters.WithLabelValues(addr).Inc()
		return err
	}
	return nil
}

// Close the bus
func (b *periphBus) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return maskAny(b.bus.Close())
}

type periphDevice struct {
	dev *i2c.Dev
}

// Read a single byte from the device
func (d *periphDevice) ReadByte() (uint8, error) {
	var r [1]byte
	if err := d.dev.Tx(nil, r[:]); err != nil {
		return 0, errors.Wrapf(err, "readByte[0x%02x] failed", d.dev.Addr)
	}
	return r[0], nil
}

// Write a block of data to given register
func (d *periphDevice) WriteBlockData(reg uint8, data []byte) error {
	if err := ValidateBlock(data); err != nil {
		return err
	}
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	if err := d.dev.Tx(w, nil); err != nil {
		return errors.Wrapf(err, "writeBlockData[0x%02x](0x%02x, % x) failed", d.dev.Addr, reg, data)
	}
	return nil
}

// Read n bytes starting at given register
func (d *periphDevice) ReadBlockData(reg uint8, n int) ([]byte, error) {
	if err := ValidateReadLength(n); err != nil {
		return nil, err
	}
	r := make([]byte, n)
	if err := d.dev.Tx([]byte{reg}, r); err != nil {
		return nil, errors.Wrapf(err, "readBlockData[0x%02x](0x%02x, %d) failed", d.dev.Addr, reg, n)
	}
	return r, nil
}
