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
	"context"
	"sort"
	"sync"
	"time"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"periph.io/x/conn/v3/gpio"
)

// Transport carries frames to and replies from the GrovePi.
type Transport interface {
	// WriteBlock writes the given block to the command register of the device.
	WriteBlock(ctx context.Context, block []byte) error
	// ReadByte reads a single byte from the device.
	ReadByte(ctx context.Context) (byte, error)
	// ReadBlock reads n bytes from the command register of the device.
	ReadBlock(ctx context.Context, n int) ([]byte, error)
}

// PinMode is the direction of a digital pin.
type PinMode string

const (
	Input  PinMode = "INPUT"
	Output PinMode = "OUTPUT"
)

// Opts configures a GrovePi.
type Opts struct {
	// Delay between sending the version command and reading its reply.
	// Zero selects DefaultVersionSettleDelay, a negative value disables the delay.
	VersionSettleDelay time.Duration
	// Settle delays of other commands, overriding the defaults.
	// A negative value disables the delay of that command.
	SettleDelays map[Opcode]time.Duration
	// When set, SetPinMode fails for modes other than Input and Output.
	// Otherwise such modes are ignored.
	StrictPinMode bool
}

// settleDelay returns the time to wait after sending a frame with given opcode.
func (o Opts) settleDelay(op Opcode) time.Duration {
	var d time.Duration
	if op == OpVersion && o.VersionSettleDelay != 0 {
		d = o.VersionSettleDelay
	} else if custom, found := o.SettleDelays[op]; found {
		d = custom
	} else {
		d = defaultSettleDelays[op]
	}
	return max(d, 0)
}

// GrovePi implements the command set of the GrovePi firmware.
// Every command is a single transaction: a frame write followed by the
// reads of its reply. Transactions never interleave.
type GrovePi struct {
	mutex   sync.Mutex
	t       Transport
	opts    Opts
	log     zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	outputs map[uint8]struct{}
}

// NewGrovePi creates a GrovePi that talks through the given transport.
func NewGrovePi(t Transport, opts Opts, log zerolog.Logger) *GrovePi {
	return &GrovePi{
		t:       t,
		opts:    opts,
		log:     log.With().Str("component", "grovepi").Logger(),
		sleep:   sleepContext,
		outputs: make(map[uint8]struct{}),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Configure checks that the firmware answers and logs its version.
func (d *GrovePi) Configure(ctx context.Context) error {
	version, err := d.Version(ctx)
	if err != nil {
		return err
	}
	d.log.Info().Str("firmware", version).Msg("GrovePi configured")
	return nil
}

// Close brings every pin that was switched to output back to input.
func (d *GrovePi) Close(ctx context.Context) error {
	d.mutex.Lock()
	pins := lo.Keys(d.outputs)
	d.mutex.Unlock()
	sort.Slice(pins, func(i, j int) bool { return pins[i] < pins[j] })

	var ae aerr.AggregateError
	for _, pin := range pins {
		if err := d.SetPinMode(ctx, pin, Input); err != nil {
			ae.Add(err)
		}
	}
	return ae.AsError()
}

// transaction runs the given function with exclusive access to the device.
func (d *GrovePi) transaction(ctx context.Context, op Opcode, fn func(ctx context.Context) error) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	commandsTotal.WithLabelValues(op.String()).Inc()
	if err := fn(ctx); err != nil {
		commandErrorsTotal.WithLabelValues(op.String()).Inc()
		return errors.Wrapf(err, "%s failed", op)
	}
	return nil
}

// send writes a frame and waits for the settle delay of its opcode.
func (d *GrovePi) send(ctx context.Context, op Opcode, a, b, c byte) error {
	if err := d.t.WriteBlock(ctx, Frame(op, a, b, c)); err != nil {
		return err
	}
	return d.settle(ctx, op)
}

func (d *GrovePi) settle(ctx context.Context, op Opcode) error {
	if delay := d.opts.settleDelay(op); delay > 0 {
		return d.sleep(ctx, delay)
	}
	return nil
}

// query sends a frame, discards the handshake byte and reads an n-byte reply.
func (d *GrovePi) query(ctx context.Context, op Opcode, a, b, c byte, n int) ([]byte, error) {
	if err := d.send(ctx, op, a, b, c); err != nil {
		return nil, err
	}
	if _, err := d.t.ReadByte(ctx); err != nil {
		return nil, err
	}
	return d.t.ReadBlock(ctx, n)
}

// command runs a transaction that only sends a frame.
func (d *GrovePi) command(ctx context.Context, op Opcode, a, b, c byte) error {
	return d.transaction(ctx, op, func(ctx context.Context) error {
		return d.send(ctx, op, a, b, c)
	})
}

// DigitalRead returns the level of the given digital pin.
func (d *GrovePi) DigitalRead(ctx context.Context, pin uint8) (gpio.Level, error) {
	var result gpio.Level
	err := d.transaction(ctx, OpDigitalRead, func(ctx context.Context) error {
		if err := d.send(ctx, OpDigitalRead, pin, 0, 0); err != nil {
			return err
		}
		v, err := d.t.ReadByte(ctx)
		if err != nil {
			return err
		}
		result = v != 0
		return nil
	})
	if err != nil {
		return gpio.Low, err
	}
	return result, nil
}

// DigitalWrite sets the level of the given digital pin.
func (d *GrovePi) DigitalWrite(ctx context.Context, pin uint8, level gpio.Level) error {
	var v byte
	if level {
		v = 1
	}
	return d.command(ctx, OpDigitalWrite, pin, v, 0)
}

// SetPinMode sets the direction of the given digital pin.
// Unknown modes are ignored, unless Opts.StrictPinMode is set.
func (d *GrovePi) SetPinMode(ctx context.Context, pin uint8, mode PinMode) error {
	var v byte
	switch mode {
	case Input:
		v = 0
	case Output:
		v = 1
	default:
		if d.opts.StrictPinMode {
			return errors.Wrapf(InvalidArgumentError, "unknown pin mode %q", string(mode))
		}
		d.log.Warn().Uint8("pin", pin).Str("mode", string(mode)).Msg("Ignoring unknown pin mode")
		return nil
	}
	return d.transaction(ctx, OpPinMode, func(ctx context.Context) error {
		if err := d.send(ctx, OpPinMode, pin, v, 0); err != nil {
			return err
		}
		if mode == Output {
			d.outputs[pin] = struct{}{}
		} else {
			delete(d.outputs, pin)
		}
		return nil
	})
}

// AnalogRead returns the 10-bit value (0-1023) of the given analog pin.
func (d *GrovePi) AnalogRead(ctx context.Context, pin uint8) (int, error) {
	var result int
	err := d.transaction(ctx, OpAnalogRead, func(ctx context.Context) error {
		block, err := d.query(ctx, OpAnalogRead, pin, 0, 0, analogReplyLength)
		if err != nil {
			return err
		}
		result, err = decodeWord(block)
		return err
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// AnalogWrite sets the PWM duty cycle (0-255) of the given pin.
func (d *GrovePi) AnalogWrite(ctx context.Context, pin uint8, value uint8) error {
	return d.command(ctx, OpAnalogWrite, pin, value, 0)
}

// Version returns the firmware version as "major.minor.patch".
func (d *GrovePi) Version(ctx context.Context) (string, error) {
	var result string
	err := d.transaction(ctx, OpVersion, func(ctx context.Context) error {
		block, err := d.query(ctx, OpVersion, 0, 0, 0, versionReplyLength)
		if err != nil {
			return err
		}
		result, err = decodeVersion(block)
		return err
	})
	if err != nil {
		return "", err
	}
	return result, nil
}
