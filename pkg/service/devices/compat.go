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
)

const (
	// Sentinel is returned by Compat reads whose final transfer failed.
	Sentinel = -1
	// Success is returned by every Compat command without a reply.
	Success = 1
)

// Compat exposes the core GrovePi commands with the return conventions of
// the classic GrovePi library: no errors are returned, a failed final read
// yields Sentinel and commands without reply always yield Success.
// Failures of intermediate transfers are ignored, the command proceeds with
// its next transfer.
type Compat struct {
	dev *GrovePi
}

// NewCompat wraps the given device.
func NewCompat(dev *GrovePi) *Compat {
	return &Compat{dev: dev}
}

// DigitalRead returns the raw byte (0 or 1) read from the given pin, or Sentinel.
func (c *Compat) DigitalRead(ctx context.Context, pin uint8) int {
	result := Sentinel
	c.dev.transaction(ctx, OpDigitalRead, func(ctx context.Context) error {
		c.dev.t.WriteBlock(ctx, Frame(OpDigitalRead, pin, 0, 0))
		v, err := c.dev.t.ReadByte(ctx)
		if err != nil {
			return err
		}
		result = int(v)
		return nil
	})
	return result
}

// DigitalWrite sets the level (0 or 1) of the given pin.
func (c *Compat) DigitalWrite(ctx context.Context, pin uint8, value uint8) int {
	c.dev.transaction(ctx, OpDigitalWrite, func(ctx context.Context) error {
		return c.dev.t.WriteBlock(ctx, Frame(OpDigitalWrite, pin, value, 0))
	})
	return Success
}

// PinMode sets the direction ("INPUT" or "OUTPUT") of the given pin.
// Other modes send nothing.
func (c *Compat) PinMode(ctx context.Context, pin uint8, mode string) int {
	var v byte
	switch PinMode(mode) {
	case Output:
		v = 1
	case Input:
		v = 0
	default:
		return Success
	}
	c.dev.transaction(ctx, OpPinMode, func(ctx context.Context) error {
		return c.dev.t.WriteBlock(ctx, Frame(OpPinMode, pin, v, 0))
	})
	return Success
}

// AnalogRead returns the value (0-1023) of the given analog pin, or Sentinel.
func (c *Compat) AnalogRead(ctx context.Context, pin uint8) int {
	result := Sentinel
	c.dev.transaction(ctx, OpAnalogRead, func(ctx context.Context) error {
		c.dev.t.WriteBlock(ctx, Frame(OpAnalogRead, pin, 0, 0))
		c.dev.t.ReadByte(ctx)
		block, err := c.dev.t.ReadBlock(ctx, analogReplyLength)
		if err != nil {
			return err
		}
		v, err := decodeWord(block)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result
}

// AnalogWrite sets the PWM duty cycle (0-255) of the given pin.
func (c *Compat) AnalogWrite(ctx context.Context, pin uint8, value uint8) int {
	c.dev.transaction(ctx, OpAnalogWrite, func(ctx context.Context) error {
		return c.dev.t.WriteBlock(ctx, Frame(OpAnalogWrite, pin, value, 0))
	})
	return Success
}

// Version returns the firmware version as "major.minor.patch", or an empty
// string when its reply could not be read.
func (c *Compat) Version(ctx context.Context) string {
	var result string
	c.dev.transaction(ctx, OpVersion, func(ctx context.Context) error {
		c.dev.t.WriteBlock(ctx, Frame(OpVersion, 0, 0, 0))
		if err := c.dev.settle(ctx, OpVersion); err != nil {
			return err
		}
		c.dev.t.ReadByte(ctx)
		block, err := c.dev.t.ReadBlock(ctx, versionReplyLength)
		if err != nil {
			return err
		}
		result, err = decodeVersion(block)
		return err
	})
	return result
}
