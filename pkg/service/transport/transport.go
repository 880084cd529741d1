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
	"context"

	"github.com/rs/zerolog"

	"github.com/binkynet/GroveWorker/pkg/service/bridge"
)

const (
	// DefaultAddress is the I2C address of the GrovePi board.
	DefaultAddress = 0x04
	// DefaultRetries is the number of attempts made for a single bus operation.
	DefaultRetries = 10

	// Register used for all block transfers.
	blockRegister = 1
)

// Config of a Transport.
type Config struct {
	// I2C address of the device. Zero selects DefaultAddress.
	Address uint8
	// Number of attempts per operation. Zero or less selects DefaultRetries.
	Retries int
}

// Transport performs single byte and block transfers with one device,
// retrying each transfer up to a fixed number of attempts.
type Transport struct {
	bus     bridge.I2CBus
	address uint8
	retries int
	log     zerolog.Logger
}

// New creates a transport for the device described by the given config.
func New(cfg Config, bus bridge.I2CBus, log zerolog.Logger) *Transport {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}
	return &Transport{
		bus:     bus,
		address: cfg.Address,
		retries: cfg.Retries,
		log:     log.With().Str("component", "transport").Uint8("address", cfg.Address).Logger(),
	}
}

// Address returns the I2C address of the device.
func (t *Transport) Address() uint8 { return t.address }

// Retries returns the number of attempts made per operation.
func (t *Transport) Retries() int { return t.retries }

// WriteBlock writes the given block to the command register of the device.
func (t *Transport) WriteBlock(ctx context.Context, block []byte) error {
	if err := bridge.ValidateBlock(block); err != nil {
		return err
	}
	return t.retry(ctx, "write_block", func(ctx context.Context, dev bridge.I2CDevice) error {
		return dev.WriteBlockData(blockRegister, block)
	})
}

// ReadByte reads a single byte from the device.
func (t *Transport) ReadByte(ctx context.Context) (byte, error) {
	var result byte
	err := t.retry(ctx, "read_byte", func(ctx context.Context, dev bridge.I2CDevice) error {
		b, err := dev.ReadByte()
		if err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// ReadBlock reads n bytes from the command register of the device.
func (t *Transport) ReadBlock(ctx context.Context, n int) ([]byte, error) {
	if err := bridge.ValidateReadLength(n); err != nil {
		return nil, err
	}
	var result []byte
	err := t.retry(ctx, "read_block", func(ctx context.Context, dev bridge.I2CDevice) error {
		block, err := dev.ReadBlockData(blockRegister, n)
		if err != nil {
			return err
		}
		result = block
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// retry executes the given operation until it succeeds, until the attempts
// are exhausted or until a failure that is not an I/O failure occurs.
func (t *Transport) retry(ctx context.Context, op string, fn func(context.Context, bridge.I2CDevice) error) error {
	var lastErr error
	for attempt := 1; attempt <= t.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := t.bus.Execute(ctx, t.address, fn)
		if err == nil {
			if attempt > 1 {
				recoveredTotal.WithLabelValues(op).Inc()
			}
			return nil
		}
		if bridge.IsInvalidArgument(err) || bridge.IsBusClosed(err) || bridge.IsUnsupported(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = err
		attemptFailedTotal.WithLabelValues(op).Inc()
		t.log.Debug().Err(err).Str("op", op).Int("attempt", attempt).Msg("Bus operation failed")
	}
	exhaustedTotal.WithLabelValues(op).Inc()
	t.log.Warn().Err(lastErr).Str("op", op).Int("attempts", t.retries).Msg("Bus operation failed on all attempts")
	return newUnavailableError(op, t.retries, lastErr)
}
