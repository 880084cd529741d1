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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Reply lengths of the commands that return a block.
const (
	analogReplyLength        = 3
	versionReplyLength       = 4
	ultrasonicReplyLength    = 3
	accelerometerReplyLength = 4
	rtcReplyLength           = 8
	dhtReplyLength           = 9
	ledBarReplyLength        = 3
	irReplyLength            = 21
	dustReplyLength          = 4
	encoderReplyLength       = 2
	flowReplyLength          = 3

	// Status byte of sensors that have no measurement available.
	notReadyStatus = 255
)

func checkLength(block []byte, n int) error {
	if len(block) < n {
		return errors.Wrapf(ShortReplyError, "got %d bytes, need %d", len(block), n)
	}
	return nil
}

// decodeWord decodes a big endian 16-bit value from b[1], b[2].
func decodeWord(block []byte) (int, error) {
	if err := checkLength(block, 3); err != nil {
		return 0, err
	}
	return int(block[1])*256 + int(block[2]), nil
}

// decodeVersion formats b[1..3] as "major.minor.patch".
func decodeVersion(block []byte) (string, error) {
	if err := checkLength(block, versionReplyLength); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%d.%d", block[1], block[2], block[3]), nil
}

// decodeAxis converts an accelerometer byte into a signed axis value.
func decodeAxis(v byte) int {
	if v > 32 {
		return -(int(v) - 224)
	}
	return int(v)
}

// decodeDHT decodes the temperature (Celsius) and relative humidity (%)
// from two little endian float32 values in b[1..4] and b[5..8].
func decodeDHT(block []byte) (float64, float64, error) {
	if err := checkLength(block, dhtReplyLength); err != nil {
		return 0, 0, err
	}
	t := float64(math.Float32frombits(binary.LittleEndian.Uint32(block[1:5])))
	h := float64(math.Float32frombits(binary.LittleEndian.Uint32(block[5:9])))
	if math.IsNaN(t) || math.IsNaN(h) || t <= -100 || t >= 150 || h < 0 || h > 100 {
		return 0, 0, errors.Wrapf(InvalidReadingError, "temperature %v, humidity %v", t, h)
	}
	return t, h, nil
}

// decodeLedBarBits decodes the 10 LED states from b[1] (low) and b[2] (high).
func decodeLedBarBits(block []byte) (uint16, error) {
	if err := checkLength(block, ledBarReplyLength); err != nil {
		return 0, err
	}
	return uint16(block[1]) | uint16(block[2])<<8, nil
}
