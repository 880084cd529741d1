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

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/binkynet/GroveWorker/pkg/service/bridge"
	"github.com/binkynet/GroveWorker/pkg/service/bridge/bridgetest"
	"github.com/binkynet/GroveWorker/pkg/service/transport"
)

const testAddress = 0x04

func writeOp(op Opcode, a, b, c byte) i2ctest.IO {
	return i2ctest.IO{Addr: testAddress, W: []byte{1, byte(op), a, b, c}}
}

func readByteOp(v byte) i2ctest.IO {
	return i2ctest.IO{Addr: testAddress, R: []byte{v}}
}

func readBlockOp(r ...byte) i2ctest.IO {
	return i2ctest.IO{Addr: testAddress, W: []byte{1}, R: r}
}

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

type testDevice struct {
	*GrovePi
	playback *i2ctest.Playback
	sleeps   *sleepRecorder
	bus      *bridgetest.FlakyBus
}

// newTestDevice creates a GrovePi that expects exactly the given bus traffic.
func newTestDevice(t *testing.T, opts Opts, ops ...i2ctest.IO) *testDevice {
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	bus := &bridgetest.FlakyBus{Bus: bridge.NewPeriphBus(pb)}
	tr := transport.New(transport.Config{}, bus, zerolog.Nop())
	dev := NewGrovePi(tr, opts, zerolog.Nop())
	rec := &sleepRecorder{}
	dev.sleep = rec.sleep
	return &testDevice{GrovePi: dev, playback: pb, sleeps: rec, bus: bus}
}

// done verifies that all expected bus traffic happened.
func (td *testDevice) done(t *testing.T) {
	require.NoError(t, td.playback.Close())
}

func TestDigitalRead(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpDigitalRead, 4, 0, 0), readByteOp(1),
		writeOp(OpDigitalRead, 5, 0, 0), readByteOp(0),
	)
	level, err := td.DigitalRead(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, gpio.High, level)
	level, err = td.DigitalRead(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, gpio.Low, level)
	require.Empty(t, td.sleeps.delays)
	td.done(t)
}

func TestDigitalWrite(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpDigitalWrite, 4, 1, 0),
		writeOp(OpDigitalWrite, 4, 0, 0),
	)
	require.NoError(t, td.DigitalWrite(ctx, 4, gpio.High))
	require.NoError(t, td.DigitalWrite(ctx, 4, gpio.Low))
	td.done(t)
}

func TestSetPinMode(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpPinMode, 4, 1, 0),
		writeOp(OpPinMode, 4, 0, 0),
	)
	require.NoError(t, td.SetPinMode(ctx, 4, Output))
	require.NoError(t, td.SetPinMode(ctx, 4, Input))
	// Unknown modes are ignored without bus traffic
	require.NoError(t, td.SetPinMode(ctx, 4, PinMode("FOO")))
	require.NoError(t, td.SetPinMode(ctx, 4, PinMode("output")))
	td.done(t)
}

func TestSetPinModeStrict(t *testing.T) {
	td := newTestDevice(t, Opts{StrictPinMode: true})
	err := td.SetPinMode(context.Background(), 4, PinMode("FOO"))
	require.True(t, IsInvalidArgument(err))
	require.Equal(t, 0, td.bus.CallCount())
	td.done(t)
}

func TestAnalogRead(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpAnalogRead, 0, 0, 0), readByteOp(3), readBlockOp(3, 0x02, 0x0f),
	)
	v, err := td.AnalogRead(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 0x02*256+0x0f, v)
	require.Empty(t, td.sleeps.delays)
	td.done(t)
}

func TestAnalogWrite(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpAnalogWrite, 3, 200, 0),
	)
	require.NoError(t, td.AnalogWrite(context.Background(), 3, 200))
	td.done(t)
}

func TestVersion(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpVersion, 0, 0, 0), readByteOp(8), readBlockOp(8, 1, 2, 7),
	)
	v, err := td.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.2.7", v)
	require.Equal(t, []time.Duration{DefaultVersionSettleDelay}, td.sleeps.delays)
	td.done(t)
}

func TestVersionSettleDelay(t *testing.T) {
	ops := []i2ctest.IO{writeOp(OpVersion, 0, 0, 0), readByteOp(8), readBlockOp(8, 1, 3, 0)}

	td := newTestDevice(t, Opts{VersionSettleDelay: 250 * time.Millisecond}, ops...)
	_, err := td.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, []time.Duration{250 * time.Millisecond}, td.sleeps.delays)
	td.done(t)

	td = newTestDevice(t, Opts{VersionSettleDelay: -1}, ops...)
	v, err := td.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.3.0", v)
	require.Empty(t, td.sleeps.delays)
	td.done(t)
}

func TestConfigure(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpVersion, 0, 0, 0), readByteOp(8), readBlockOp(8, 1, 2, 7),
	)
	require.NoError(t, td.Configure(context.Background()))
	td.done(t)
}

func TestCloseRestoresInputs(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{},
		writeOp(OpPinMode, 7, 1, 0),
		writeOp(OpPinMode, 3, 1, 0),
		writeOp(OpPinMode, 5, 1, 0),
		writeOp(OpPinMode, 5, 0, 0),
		// Close
		writeOp(OpPinMode, 3, 0, 0),
		writeOp(OpPinMode, 7, 0, 0),
	)
	require.NoError(t, td.SetPinMode(ctx, 7, Output))
	require.NoError(t, td.SetPinMode(ctx, 3, Output))
	require.NoError(t, td.SetPinMode(ctx, 5, Output))
	require.NoError(t, td.SetPinMode(ctx, 5, Input))
	require.NoError(t, td.Close(ctx))
	td.done(t)
}

func TestRetriesAreTransparent(t *testing.T) {
	td := newTestDevice(t, Opts{},
		writeOp(OpAnalogRead, 1, 0, 0), readByteOp(3), readBlockOp(3, 0x03, 0xff),
	)
	td.bus.Failures = transport.DefaultRetries - 1
	v, err := td.AnalogRead(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1023, v)
	td.done(t)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	td := newTestDevice(t, Opts{})
	td.bus.FailAlways = true

	_, err := td.AnalogRead(ctx, 0)
	require.True(t, transport.IsUnavailable(err))
	require.Equal(t, transport.DefaultRetries, td.bus.CallCount())

	_, err = td.DigitalRead(ctx, 4)
	require.True(t, transport.IsUnavailable(err))

	require.True(t, transport.IsUnavailable(td.DigitalWrite(ctx, 4, gpio.High)))
	require.True(t, transport.IsUnavailable(td.AnalogWrite(ctx, 4, 10)))

	_, err = td.Version(ctx)
	require.True(t, transport.IsUnavailable(err))
	// A failed write ends the command before the settle delay
	require.Empty(t, td.sleeps.delays)
}

func TestCanceledContext(t *testing.T) {
	td := newTestDevice(t, Opts{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := td.Version(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, td.bus.CallCount())
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
