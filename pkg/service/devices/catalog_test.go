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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestUltrasonicRead(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpUltrasonic, 4, 0, 0), readByteOp(7), readBlockOp(7, 0, 100),
	)
	d, err := td.UltrasonicRead(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, physic.Metre, d)
	require.Equal(t, []time.Duration{60 * time.Millisecond}, td.sleeps.delays)
	td.done(t)
}

func TestAccelerometerXYZ(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpAccelerometer, 0, 0, 0), readByteOp(20), readBlockOp(20, 5, 250, 0),
	)
	a, err := td.AccelerometerXYZ(context.Background())
	require.NoError(t, err)
	require.Equal(t, Acceleration{X: 5, Y: -26, Z: 0}, a)
	td.done(t)
}

func TestRTCGetTime(t *testing.T) {
	raw := []byte{30, 0x12, 0x34, 0x56, 0x01, 0x02, 0x03, 0x04}
	td := newTestDevice(t, Opts{},
		writeOp(OpRTCGetTime, 0, 0, 0), readByteOp(30), readBlockOp(raw...),
	)
	b, err := td.RTCGetTime(context.Background())
	require.NoError(t, err)
	require.Equal(t, raw, b)
	td.done(t)
}

func TestDHT(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpDHT, 4, byte(DHTWhite), 0), readByteOp(40), readBlockOp(dhtBlock(21.5, 60)...),
	)
	env, err := td.DHT(context.Background(), 4, DHTWhite)
	require.NoError(t, err)
	require.Equal(t, physic.ZeroCelsius+21*physic.Celsius+500*physic.MilliKelvin, env.Temperature)
	require.Equal(t, 60*physic.PercentRH, env.Humidity)
	require.Equal(t, []time.Duration{600 * time.Millisecond}, td.sleeps.delays)
	td.done(t)
}

func TestDHTInvalid(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpDHT, 4, byte(DHTBlue), 0), readByteOp(40), readBlockOp(dhtBlock(-200, 60)...),
	)
	_, err := td.DHT(context.Background(), 4, DHTBlue)
	require.True(t, IsInvalidReading(err))
	td.done(t)
}

func TestLedBar(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpLedBarInit, 5, 1, 0),
		writeOp(OpLedBarLevel, 5, 7, 0),
		writeOp(OpLedBarSetOne, 5, 3, 1),
		writeOp(OpLedBarToggleOne, 5, 3, 0),
		writeOp(OpLedBarSetBits, 5, 0xa5, 0x02),
		writeOp(OpLedBarGetBits, 5, 0, 0), readByteOp(56), readBlockOp(56, 0xa5, 0x02),
	)
	require.NoError(t, td.LedBarInit(ctx, 5, 1))
	require.NoError(t, td.LedBarLevel(ctx, 5, 7))
	require.NoError(t, td.LedBarSetOne(ctx, 5, 3, true))
	require.NoError(t, td.LedBarToggleOne(ctx, 5, 3))
	require.NoError(t, td.LedBarSetBits(ctx, 5, 0x2a5))
	bits, err := td.LedBarGetBits(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, uint16(0x2a5), bits)
	td.done(t)
}

func TestFourDigit(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpFourDigitInit, 5, 0, 0),
		writeOp(OpFourDigitValue, 5, 0xd2, 0x04),
		writeOp(OpFourDigitValueZeros, 5, 0x2a, 0x00),
		writeOp(OpFourDigitScore, 5, 12, 34),
		writeOp(OpFourDigitMonitor, 5, 0, 3),
	)
	require.NoError(t, td.FourDigitInit(ctx, 5))
	require.NoError(t, td.FourDigitNumber(ctx, 5, 1234, false))
	require.NoError(t, td.FourDigitNumber(ctx, 5, 42, true))
	require.NoError(t, td.FourDigitScore(ctx, 5, 12, 34))
	require.NoError(t, td.FourDigitMonitor(ctx, 5, 0, 3))
	require.Equal(t, []time.Duration{
		50 * time.Millisecond,
		50 * time.Millisecond,
		50 * time.Millisecond,
		50 * time.Millisecond,
		50 * time.Millisecond, 3 * time.Second,
	}, td.sleeps.delays)
	td.done(t)
}

func TestSettleDelayOverride(t *testing.T) {
	td := newTestDevice(t, Opts{SettleDelays: map[Opcode]time.Duration{OpFourDigitInit: -1}},
		writeOp(OpFourDigitInit, 5, 0, 0),
	)
	require.NoError(t, td.FourDigitInit(context.Background(), 5))
	require.Empty(t, td.sleeps.delays)
	td.done(t)
}

func TestChainableRgbLed(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpStoreColor, 255, 128, 0),
		writeOp(OpChainableRgbLedInit, 7, 3, 0),
		writeOp(OpChainableRgbLedPattern, 7, 1, 2),
		writeOp(OpChainableRgbLedLevel, 7, 1, 2),
	)
	require.NoError(t, td.StoreColor(ctx, 255, 128, 0))
	require.NoError(t, td.ChainableRgbLedInit(ctx, 7, 3))
	require.NoError(t, td.ChainableRgbLedPattern(ctx, 7, 1, 2))
	require.NoError(t, td.ChainableRgbLedLevel(ctx, 7, 2, true))
	td.done(t)
}

func TestIRRead(t *testing.T) {
	ctx := context.Background()
	noData := make([]byte, irReplyLength)
	noData[1] = 255
	data := make([]byte, irReplyLength)
	data[1] = 0x45
	td := newTestDevice(t, Opts{},
		writeOp(OpIRRecvPin, 8, 0, 0),
		writeOp(OpIRRead, 0, 0, 0), readBlockOp(noData...),
		writeOp(OpIRRead, 0, 0, 0), readBlockOp(data...),
	)
	require.NoError(t, td.IRRecvPin(ctx, 8))
	_, err := td.IRRead(ctx)
	require.True(t, IsNotReady(err))
	b, err := td.IRRead(ctx)
	require.NoError(t, err)
	require.Equal(t, data, b)
	td.done(t)
}

func TestDustSensor(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpDustEnable, 0, 0, 0),
		writeOp(OpDustRead, 0, 0, 0), readBlockOp(255, 0, 0, 0),
		writeOp(OpDustRead, 0, 0, 0), readBlockOp(1, 0x10, 0x20, 0x01),
		writeOp(OpDustDisable, 0, 0, 0),
	)
	require.NoError(t, td.DustSensorEnable(ctx))
	_, _, err := td.DustSensorRead(ctx)
	require.True(t, IsNotReady(err))
	status, lpo, err := td.DustSensorRead(ctx)
	require.NoError(t, err)
	require.Equal(t, uint8(1), status)
	require.Equal(t, 0x01*65536+0x20*256+0x10, lpo)
	require.NoError(t, td.DustSensorDisable(ctx))
	td.done(t)
}

func TestEncoderAndFlow(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpEncoderEnable, 0, 0, 0),
		writeOp(OpEncoderRead, 0, 0, 0), readBlockOp(1, 17),
		writeOp(OpFlowEnable, 0, 0, 0),
		writeOp(OpFlowRead, 0, 0, 0), readBlockOp(1, 0x34, 0x12),
		writeOp(OpFlowDisable, 0, 0, 0),
		writeOp(OpEncoderDisable, 0, 0, 0),
	)
	require.NoError(t, td.EncoderEnable(ctx))
	_, pos, err := td.EncoderRead(ctx)
	require.NoError(t, err)
	require.Equal(t, 17, pos)
	require.NoError(t, td.FlowEnable(ctx))
	_, flow, err := td.FlowRead(ctx)
	require.NoError(t, err)
	require.Equal(t, 0x1234, flow)
	require.NoError(t, td.FlowDisable(ctx))
	require.NoError(t, td.EncoderDisable(ctx))
	td.done(t)
}
