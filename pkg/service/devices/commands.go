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
	"fmt"
	"time"
)

// Opcode is the first byte of every command frame sent to the GrovePi.
type Opcode byte

const (
	OpDigitalRead  Opcode = 1
	OpDigitalWrite Opcode = 2
	OpAnalogRead   Opcode = 3
	OpAnalogWrite  Opcode = 4
	OpPinMode      Opcode = 5
	OpUltrasonic   Opcode = 7
	OpVersion      Opcode = 8

	OpDustRead       Opcode = 10
	OpEncoderRead    Opcode = 11
	OpFlowRead       Opcode = 12
	OpFlowDisable    Opcode = 13
	OpDustEnable     Opcode = 14
	OpDustDisable    Opcode = 15
	OpEncoderEnable  Opcode = 16
	OpEncoderDisable Opcode = 17
	OpFlowEnable     Opcode = 18

	OpAccelerometer Opcode = 20
	OpIRRead        Opcode = 21
	OpIRRecvPin     Opcode = 22
	OpRTCGetTime    Opcode = 30
	OpDHT           Opcode = 40

	// Grove LED bar
	OpLedBarInit      Opcode = 50
	OpLedBarOrient    Opcode = 51
	OpLedBarLevel     Opcode = 52
	OpLedBarSetOne    Opcode = 53
	OpLedBarToggleOne Opcode = 54
	OpLedBarSetBits   Opcode = 55
	OpLedBarGetBits   Opcode = 56

	// Grove 4 digit display
	OpFourDigitInit       Opcode = 70
	OpFourDigitBrightness Opcode = 71
	OpFourDigitValue      Opcode = 72 // without leading zeros
	OpFourDigitValueZeros Opcode = 73 // with leading zeros
	OpFourDigitDigit      Opcode = 74
	OpFourDigitSegment    Opcode = 75
	OpFourDigitScore      Opcode = 76
	OpFourDigitMonitor    Opcode = 77
	OpFourDigitAllOn      Opcode = 78
	OpFourDigitAllOff     Opcode = 79

	// Grove chainable RGB LED
	OpStoreColor             Opcode = 90
	OpChainableRgbLedInit    Opcode = 91
	OpChainableRgbLedTest    Opcode = 92
	OpChainableRgbLedPattern Opcode = 93
	OpChainableRgbLedModulo  Opcode = 94
	OpChainableRgbLedLevel   Opcode = 95
)

const (
	// FrameLength is the length of every command frame.
	FrameLength = 4

	// DefaultVersionSettleDelay is the time the firmware needs between
	// receiving the version command and having its reply ready.
	DefaultVersionSettleDelay = 100 * time.Millisecond
)

var opcodeNames = map[Opcode]string{
	OpDigitalRead:            "digital_read",
	OpDigitalWrite:           "digital_write",
	OpAnalogRead:             "analog_read",
	OpAnalogWrite:            "analog_write",
	OpPinMode:                "pin_mode",
	OpUltrasonic:             "ultrasonic",
	OpVersion:                "version",
	OpDustRead:               "dust_read",
	OpEncoderRead:            "encoder_read",
	OpFlowRead:               "flow_read",
	OpFlowDisable:            "flow_disable",
	OpDustEnable:             "dust_enable",
	OpDustDisable:            "dust_disable",
	OpEncoderEnable:          "encoder_enable",
	OpEncoderDisable:         "encoder_disable",
	OpFlowEnable:             "flow_enable",
	OpAccelerometer:          "accelerometer",
	OpIRRead:                 "ir_read",
	OpIRRecvPin:              "ir_recv_pin",
	OpRTCGetTime:             "rtc_get_time",
	OpDHT:                    "dht",
	OpLedBarInit:             "led_bar_init",
	OpLedBarOrient:           "led_bar_orient",
	OpLedBarLevel:            "led_bar_level",
	OpLedBarSetOne:           "led_bar_set_one",
	OpLedBarToggleOne:        "led_bar_toggle_one",
	OpLedBarSetBits:          "led_bar_set_bits",
	OpLedBarGetBits:          "led_bar_get_bits",
	OpFourDigitInit:          "four_digit_init",
	OpFourDigitBrightness:    "four_digit_brightness",
	OpFourDigitValue:         "four_digit_value",
	OpFourDigitValueZeros:    "four_digit_value_zeros",
	OpFourDigitDigit:         "four_digit_digit",
	OpFourDigitSegment:       "four_digit_segment",
	OpFourDigitScore:         "four_digit_score",
	OpFourDigitMonitor:       "four_digit_monitor",
	OpFourDigitAllOn:         "four_digit_all_on",
	OpFourDigitAllOff:        "four_digit_all_off",
	OpStoreColor:             "store_color",
	OpChainableRgbLedInit:    "chainable_rgb_led_init",
	OpChainableRgbLedTest:    "chainable_rgb_led_test",
	OpChainableRgbLedPattern: "chainable_rgb_led_pattern",
	OpChainableRgbLedModulo:  "chainable_rgb_led_modulo",
	OpChainableRgbLedLevel:   "chainable_rgb_led_level",
}

// String returns the name of the command.
func (op Opcode) String() string {
	if name, found := opcodeNames[op]; found {
		return name
	}
	return fmt.Sprintf("opcode_%d", byte(op))
}

// Frame builds the command frame for the given opcode and arguments.
func Frame(op Opcode, a, b, c byte) []byte {
	return []byte{byte(op), a, b, c}
}

// Settle delays of commands whose reply (or effect) is not available
// immediately after the frame is written.
var defaultSettleDelays = map[Opcode]time.Duration{
	OpVersion:             DefaultVersionSettleDelay,
	OpUltrasonic:          60 * time.Millisecond,
	OpAccelerometer:       100 * time.Millisecond,
	OpRTCGetTime:          100 * time.Millisecond,
	OpDHT:                 600 * time.Millisecond,
	OpLedBarGetBits:       200 * time.Millisecond,
	OpDustRead:            200 * time.Millisecond,
	OpEncoderRead:         200 * time.Millisecond,
	OpFlowRead:            200 * time.Millisecond,
	OpFourDigitInit:       50 * time.Millisecond,
	OpFourDigitBrightness: 50 * time.Millisecond,
	OpFourDigitValue:      50 * time.Millisecond,
	OpFourDigitValueZeros: 50 * time.Millisecond,
	OpFourDigitDigit:      50 * time.Millisecond,
	OpFourDigitSegment:    50 * time.Millisecond,
	OpFourDigitScore:      50 * time.Millisecond,
	OpFourDigitMonitor:    50 * time.Millisecond,
	OpFourDigitAllOn:      50 * time.Millisecond,
	OpFourDigitAllOff:     50 * time.Millisecond,
}
