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
	"time"

	"periph.io/x/conn/v3/physic"
)

// DHTModule selects the type of DHT temperature & humidity sensor.
type DHTModule byte

const (
	DHTBlue  DHTModule = 0 // DHT11
	DHTWhite DHTModule = 1 // DHT22
)

// Acceleration on the 3 axis of the Grove accelerometer.
type Acceleration struct {
	X, Y, Z int
}

// readBlock runs a transaction that sends a frame and reads an n-byte reply
// after discarding the handshake byte.
func (d *GrovePi) readBlock(ctx context.Context, op Opcode, a, b, c byte, n int) ([]byte, error) {
	var result []byte
	err := d.transaction(ctx, op, func(ctx context.Context) error {
		block, err := d.query(ctx, op, a, b, c, n)
		result = block
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// readStatusBlock runs a transaction that sends a frame and reads an n-byte
// reply without handshake. A first byte of 255 means no data is available.
func (d *GrovePi) readStatusBlock(ctx context.Context, op Opcode, statusIndex, n int) ([]byte, error) {
	var result []byte
	err := d.transaction(ctx, op, func(ctx context.Context) error {
		if err := d.send(ctx, op, 0, 0, 0); err != nil {
			return err
		}
		block, err := d.t.ReadBlock(ctx, n)
		if err != nil {
			return err
		}
		if err := checkLength(block, n); err != nil {
			return err
		}
		if block[statusIndex] == notReadyStatus {
			return maskAny(NotReadyError)
		}
		result = block
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UltrasonicRead returns the distance measured by the ranger on given pin.
func (d *GrovePi) UltrasonicRead(ctx context.Context, pin uint8) (physic.Distance, error) {
	block, err := d.readBlock(ctx, OpUltrasonic, pin, 0, 0, ultrasonicReplyLength)
	if err != nil {
		return 0, err
	}
	cm, err := decodeWord(block)
	if err != nil {
		return 0, err
	}
	return physic.Distance(cm) * 10 * physic.MilliMetre, nil
}

// AccelerometerXYZ reads the Grove 3-axis accelerometer (+/- 1.5g).
func (d *GrovePi) AccelerometerXYZ(ctx context.Context) (Acceleration, error) {
	block, err := d.readBlock(ctx, OpAccelerometer, 0, 0, 0, accelerometerReplyLength)
	if err != nil {
		return Acceleration{}, err
	}
	if err := checkLength(block, accelerometerReplyLength); err != nil {
		return Acceleration{}, err
	}
	return Acceleration{
		X: decodeAxis(block[1]),
		Y: decodeAxis(block[2]),
		Z: decodeAxis(block[3]),
	}, nil
}

// RTCGetTime returns the raw time registers of the Grove RTC.
func (d *GrovePi) RTCGetTime(ctx context.Context) ([]byte, error) {
	return d.readBlock(ctx, OpRTCGetTime, 0, 0, 0, rtcReplyLength)
}

// DHT reads temperature and humidity from a DHT sensor on given pin.
func (d *GrovePi) DHT(ctx context.Context, pin uint8, module DHTModule) (physic.Env, error) {
	block, err := d.readBlock(ctx, OpDHT, pin, byte(module), 0, dhtReplyLength)
	if err != nil {
		return physic.Env{}, err
	}
	t, h, err := decodeDHT(block)
	if err != nil {
		return physic.Env{}, err
	}
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(t*float64(physic.Celsius)),
		Humidity:    physic.RelativeHumidity(h * float64(physic.PercentRH)),
	}, nil
}

// LedBarInit initializes a Grove LED bar with given orientation.
func (d *GrovePi) LedBarInit(ctx context.Context, pin uint8, orientation uint8) error {
	return d.command(ctx, OpLedBarInit, pin, orientation, 0)
}

// LedBarOrientation sets the orientation of a Grove LED bar.
func (d *GrovePi) LedBarOrientation(ctx context.Context, pin uint8, orientation uint8) error {
	return d.command(ctx, OpLedBarOrient, pin, orientation, 0)
}

// LedBarLevel lights the LED bar up to the given level (0-10).
func (d *GrovePi) LedBarLevel(ctx context.Context, pin uint8, level uint8) error {
	return d.command(ctx, OpLedBarLevel, pin, level, 0)
}

// LedBarSetOne turns a single LED (1-10) on or off.
func (d *GrovePi) LedBarSetOne(ctx context.Context, pin uint8, led uint8, on bool) error {
	var state byte
	if on {
		state = 1
	}
	return d.command(ctx, OpLedBarSetOne, pin, led, state)
}

// LedBarToggleOne toggles a single LED (1-10).
func (d *GrovePi) LedBarToggleOne(ctx context.Context, pin uint8, led uint8) error {
	return d.command(ctx, OpLedBarToggleOne, pin, led, 0)
}

// LedBarSetBits sets all LEDs, bit 0 is the first LED.
func (d *GrovePi) LedBarSetBits(ctx context.Context, pin uint8, bits uint16) error {
	return d.command(ctx, OpLedBarSetBits, pin, byte(bits&0xff), byte(bits>>8))
}

// LedBarGetBits returns the state of all LEDs, bit 0 is the first LED.
func (d *GrovePi) LedBarGetBits(ctx context.Context, pin uint8) (uint16, error) {
	block, err := d.readBlock(ctx, OpLedBarGetBits, pin, 0, 0, ledBarReplyLength)
	if err != nil {
		return 0, err
	}
	return decodeLedBarBits(block)
}

// FourDigitInit initializes a Grove 4 digit display.
func (d *GrovePi) FourDigitInit(ctx context.Context, pin uint8) error {
	return d.command(ctx, OpFourDigitInit, pin, 0, 0)
}

// FourDigitBrightness sets the brightness (0-7), visible from the next command.
func (d *GrovePi) FourDigitBrightness(ctx context.Context, pin uint8, brightness uint8) error {
	return d.command(ctx, OpFourDigitBrightness, pin, brightness, 0)
}

// FourDigitNumber shows a decimal number.
func (d *GrovePi) FourDigitNumber(ctx context.Context, pin uint8, value uint16, leadingZero bool) error {
	op := OpFourDigitValue
	if leadingZero {
		op = OpFourDigitValueZeros
	}
	return d.command(ctx, op, pin, byte(value&0xff), byte(value>>8))
}

// FourDigitDigit shows a single digit value (0-15) at given segment (0-3).
func (d *GrovePi) FourDigitDigit(ctx context.Context, pin uint8, segment, value uint8) error {
	return d.command(ctx, OpFourDigitDigit, pin, segment, value)
}

// FourDigitSegment sets the individual LEDs of a segment (0-3).
func (d *GrovePi) FourDigitSegment(ctx context.Context, pin uint8, segment, leds uint8) error {
	return d.command(ctx, OpFourDigitSegment, pin, segment, leds)
}

// FourDigitScore shows left and right values (0-99) separated by a colon.
func (d *GrovePi) FourDigitScore(ctx context.Context, pin uint8, left, right uint8) error {
	return d.command(ctx, OpFourDigitScore, pin, left, right)
}

// FourDigitMonitor shows the value of an analog pin for the given number of
// seconds. It returns when the display is released by the firmware.
func (d *GrovePi) FourDigitMonitor(ctx context.Context, pin uint8, analog uint8, seconds uint8) error {
	return d.transaction(ctx, OpFourDigitMonitor, func(ctx context.Context) error {
		if err := d.send(ctx, OpFourDigitMonitor, pin, analog, seconds); err != nil {
			return err
		}
		return d.sleep(ctx, time.Duration(seconds)*time.Second)
	})
}

// FourDigitOn lights all segments.
func (d *GrovePi) FourDigitOn(ctx context.Context, pin uint8) error {
	return d.command(ctx, OpFourDigitAllOn, pin, 0, 0)
}

// FourDigitOff turns all segments off.
func (d *GrovePi) FourDigitOff(ctx context.Context, pin uint8) error {
	return d.command(ctx, OpFourDigitAllOff, pin, 0, 0)
}

// StoreColor stores a color for subsequent chainable RGB LED commands.
func (d *GrovePi) StoreColor(ctx context.Context, red, green, blue uint8) error {
	return d.command(ctx, OpStoreColor, red, green, blue)
}

// ChainableRgbLedInit initializes a chain of RGB LEDs.
func (d *GrovePi) ChainableRgbLedInit(ctx context.Context, pin uint8, numLeds uint8) error {
	return d.command(ctx, OpChainableRgbLedInit, pin, numLeds, 0)
}

// ChainableRgbLedTest initializes a chain of RGB LEDs and shows a test color.
func (d *GrovePi) ChainableRgbLedTest(ctx context.Context, pin uint8, numLeds uint8, testColor uint8) error {
	return d.command(ctx, OpChainableRgbLedTest, pin, numLeds, testColor)
}

// ChainableRgbLedPattern sets LEDs selected by pattern to the stored color.
func (d *GrovePi) ChainableRgbLedPattern(ctx context.Context, pin uint8, pattern uint8, whichLed uint8) error {
	return d.command(ctx, OpChainableRgbLedPattern, pin, pattern, whichLed)
}

// ChainableRgbLedModulo sets every divisor-th LED starting at offset to the stored color.
func (d *GrovePi) ChainableRgbLedModulo(ctx context.Context, pin uint8, offset uint8, divisor uint8) error {
	return d.command(ctx, OpChainableRgbLedModulo, pin, offset, divisor)
}

// ChainableRgbLedLevel sets LEDs like a bar graph.
func (d *GrovePi) ChainableRgbLedLevel(ctx context.Context, pin uint8, level uint8, reverse bool) error {
	var r byte
	if reverse {
		r = 1
	}
	return d.command(ctx, OpChainableRgbLedLevel, pin, r, level)
}

// IRRecvPin selects the pin the IR receiver is connected to.
func (d *GrovePi) IRRecvPin(ctx context.Context, pin uint8) error {
	return d.command(ctx, OpIRRecvPin, pin, 0, 0)
}

// IRRead returns the last signal received by the IR receiver.
// It returns NotReadyError when nothing was received.
func (d *GrovePi) IRRead(ctx context.Context) ([]byte, error) {
	return d.readStatusBlock(ctx, OpIRRead, 1, irReplyLength)
}

// DustSensorEnable starts the dust sensor measurements.
func (d *GrovePi) DustSensorEnable(ctx context.Context) error {
	return d.command(ctx, OpDustEnable, 0, 0, 0)
}

// DustSensorDisable stops the dust sensor measurements.
func (d *GrovePi) DustSensorDisable(ctx context.Context) error {
	return d.command(ctx, OpDustDisable, 0, 0, 0)
}

// DustSensorRead returns the status and low pulse occupancy of the dust sensor.
func (d *GrovePi) DustSensorRead(ctx context.Context) (uint8, int, error) {
	block, err := d.readStatusBlock(ctx, OpDustRead, 0, dustReplyLength)
	if err != nil {
		return 0, 0, err
	}
	return block[0], int(block[3])*65536 + int(block[2])*256 + int(block[1]), nil
}

// EncoderEnable starts counting the rotary encoder.
func (d *GrovePi) EncoderEnable(ctx context.Context) error {
	return d.command(ctx, OpEncoderEnable, 0, 0, 0)
}

// EncoderDisable stops counting the rotary encoder.
func (d *GrovePi) EncoderDisable(ctx context.Context) error {
	return d.command(ctx, OpEncoderDisable, 0, 0, 0)
}

// EncoderRead returns the status and position of the rotary encoder.
func (d *GrovePi) EncoderRead(ctx context.Context) (uint8, int, error) {
	block, err := d.readStatusBlock(ctx, OpEncoderRead, 0, encoderReplyLength)
	if err != nil {
		return 0, 0, err
	}
	return block[0], int(block[1]), nil
}

// FlowEnable starts counting the water flow sensor.
func (d *GrovePi) FlowEnable(ctx context.Context) error {
	return d.command(ctx, OpFlowEnable, 0, 0, 0)
}

// FlowDisable stops counting the water flow sensor.
func (d *GrovePi) FlowDisable(ctx context.Context) error {
	return d.command(ctx, OpFlowDisable, 0, 0, 0)
}

// FlowRead returns the status and flow count of the water flow sensor.
func (d *GrovePi) FlowRead(ctx context.Context) (uint8, int, error) {
	block, err := d.readStatusBlock(ctx, OpFlowRead, 0, flowReplyLength)
	if err != nil {
		return 0, 0, err
	}
	return block[0], int(block[2])*256 + int(block[1]), nil
}
