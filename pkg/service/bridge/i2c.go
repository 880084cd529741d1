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
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/ecc1/gpio"
	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type i2cBus struct {
	location             string
	devices              map[uint8]*i2cDevice
	queue                chan func()
	closed               chan struct{}
	closeOnce            sync.Once
	sclPin               int
	tryRecoverFromLockup bool
	log                  zerolog.Logger
}

const (
	I2C_RECOVER_NUM_CLOCKS = 10    /* # clock cycles for recovery  */
	I2C_RECOVER_CLOCK_FREQ = 50000 /* clock frequency for recovery */

	I2C_RECOVER_CLOCK_DELAY_US = (1000000 / (2 * I2C_RECOVER_CLOCK_FREQ))
)

// NewI2CBus returns accessors the the I2C bus at the given location.
// When sclPin is not negative, the bus clock line is toggled through that
// GPIO pin to recover from a lockup at startup and after every failed operation.
func NewI2CBus(location string, sclPin int, log zerolog.Logger) (I2CBus, error) {
	b := &i2cBus{
		location:             location,
		devices:              make(map[uint8]*i2cDevice),
		queue:                make(chan func()),
		closed:               make(chan struct{}),
		sclPin:               sclPin,
		tryRecoverFromLockup: sclPin >= 0,
		log:                  log.With().Str("bus", location).Logger(),
	}
	go b.queueProcessor()
	if b.tryRecoverFromLockup {
		if err := b.recoverFromLockup(); err != nil {
			b.shutdown()
			return nil, errors.Wrap(err, "failed to recover bus at startup")
		}
		time.Sleep(time.Second * 2)
	}
	return b, nil
}

// Execute an operation on the bus.
func (b *i2cBus) Execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	result := make(chan error, 1)
	req := func() {
		result <- b.execute(ctx, address, op)
	}

	// Put request in queue
	select {
	case b.queue <- req:
		// Request is on the queue
	case <-b.closed:
		return maskAny(BusClosedError)
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-result
}

// Process bus requests from the queue until the bus is closed.
func (b *i2cBus) queueProcessor() {
	// Ensure we're always using the same OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case req := <-b.queue:
			req()
		case <-b.closed:
			return
		}
	}
}

// Execute a single attempt of an operation on the bus.
func (b *i2cBus) execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	addr := addressLabel(address)
	i2cExecuteCounters.WithLabelValues(addr).Inc()

	dev, err := b.openDevice(address)
	if err != nil {
		i2cExecuteErrorCounters.WithLabelValues(addr).Inc()
		return errors.Wrapf(err, "openDevice(0x%02x) failed", address)
	}
	if err := op(ctx, dev); err != nil {
		i2cExecuteErrorCounters.WithLabelValues(addr).Inc()
		if IsInvalidArgument(err) || IsUnsupported(err) {
			// Nothing went over the wire
			return err
		}

		// Device call failed, close all devices
		b.closeDevices()

		// Perform recovery (if configured)
		if b.tryRecoverFromLockup {
			i2cRecoveryAttemptsTotal.Inc()
			if rerr := b.recoverFromLockup(); rerr != nil {
				i2cRecoveryFailedTotal.Inc()
				b.log.Warn().Err(rerr).Msg("i2c recovery failed")
			} else {
				i2cRecoverySucceededTotal.Inc()
			}
		} else {
			i2cRecoverySkippedTotal.Inc()
		}
		return err
	}
	return nil
}

// Open a connection to a device at the given address.
func (b *i2cBus) openDevice(address uint8) (*i2cDevice, error) {
	// Did we already open the device?
	if d, found := b.devices[address]; found {
		return d, nil
	}

	// Open new device
	d, err := newI2CDevice(b.location, address)
	if err != nil {
		return nil, err
	}
	b.devices[address] = d
	return d, nil
}

// Close all open devices.
// Must be called from the queue processor.
func (b *i2cBus) closeDevices() error {
	var ae aerr.AggregateError
	for addr, d := range b.devices {
		if err := d.closeFile(); err != nil {
			ae.Add(err)
		}
		delete(b.devices, addr)
	}
	return ae.AsError()
}

// Close the bus and all devices on it
func (b *i2cBus) Close() error {
	result := make(chan error, 1)
	select {
	case b.queue <- func() { result <- b.closeDevices() }:
	case <-b.closed:
		return nil
	}
	err := <-result
	b.shutdown()
	return err
}

// Stop the queue processor.
func (b *i2cBus) shutdown() {
	b.closeOnce.Do(func() {
		close(b.closed)
	})
}

// Try to recover the i2c bus from lockup.
func (b *i2cBus) recoverFromLockup() error {
	b.log.Info().Int("scl-pin", b.sclPin).Msg("Performing i2c recovery ...")
	activeLow := true
	initialValue := true
	scl, err := gpio.Output(b.sclPin, activeLow, initialValue)
	if err != nil {
		return errors.Wrap(err, "failed to set scl pin to output")
	}
	for i := 0; i < I2C_RECOVER_NUM_CLOCKS; i++ {
		time.Sleep(time.Microsecond * I2C_RECOVER_CLOCK_DELAY_US)
		if err := scl.Write(false); err != nil {
			return errors.Wrap(err, "failed to lower scl during i2c recovery")
		}
		time.Sleep(time.Microsecond * I2C_RECOVER_CLOCK_DELAY_US)
		if err := scl.Write(true); err != nil {
			return errors.Wrap(err, "failed to raise scl during i2c recovery")
		}
	}
	// Reset pin to be input
	if _, err := gpio.Input(b.sclPin, activeLow); err != nil {
		return errors.Wrap(err, "failed to reset scl pin to input")
	}
	// Unexport the pin
	unexportPath := "/sys/class/gpio/unexport"
	if err := os.WriteFile(unexportPath, []byte(strconv.Itoa(b.sclPin)), 0644); err != nil {
		return errors.Wrap(err, "failed to unexport scl pin")
	}

	b.log.Info().Msg("Performed i2c recovery.")
	return nil
}
