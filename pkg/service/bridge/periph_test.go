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
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestPeriphBusBlockWrite(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x04, W: []byte{1, 3, 0, 0, 0}},
		},
	}
	bus := NewPeriphBus(pb)
	err := bus.Execute(context.Background(), 0x04, func(ctx context.Context, dev I2CDevice) error {
		return dev.WriteBlockData(1, []byte{3, 0, 0, 0})
	})
	require.NoError(t, err)
	require.NoError(t, bus.Close())
}

func TestPeriphBusReadByteAndBlock(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x04, R: []byte{3}},
			{Addr: 0x04, W: []byte{1}, R: []byte{3, 2, 0x0f}},
		},
	}
	bus := NewPeriphBus(pb)
	var b byte
	var block []byte
	err := bus.Execute(context.Background(), 0x04, func(ctx context.Context, dev I2CDevice) error {
		var err error
		if b, err = dev.ReadByte(); err != nil {
			return err
		}
		block, err = dev.ReadBlockData(1, 3)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, byte(3), b)
	require.Equal(t, []byte{3, 2, 0x0f}, block)
	require.NoError(t, bus.Close())
}

func TestPeriphBusInvalidArguments(t *testing.T) {
	// No operations expected on the wire
	pb := &i2ctest.Playback{DontPanic: true}
	bus := NewPeriphBus(pb)
	ctx := context.Background()

	err := bus.Execute(ctx, 0x04, func(ctx context.Context, dev I2CDevice) error {
		return dev.WriteBlockData(1, make([]byte, MaxBlockLength+1))
	})
	require.True(t, IsInvalidArgument(err))

	err = bus.Execute(ctx, 0x04, func(ctx context.Context, dev I2CDevice) error {
		return dev.WriteBlockData(1, nil)
	})
	require.True(t, IsInvalidArgument(err))

	for _, n := range []int{0, -1, MaxBlockLength + 1} {
		err = bus.Execute(ctx, 0x04, func(ctx context.Context, dev I2CDevice) error {
			_, err := dev.ReadBlockData(1, n)
			return err
		})
		require.True(t, IsInvalidArgument(err), "n=%d", n)
	}
	require.NoError(t, bus.Close())
}

func TestPeriphBusFailure(t *testing.T) {
	// Playback without matching operations reports a failed transfer
	pb := &i2ctest.Playback{DontPanic: true}
	bus := NewPeriphBus(pb)
	err := bus.Execute(context.Background(), 0x04, func(ctx context.Context, dev I2CDevice) error {
		_, err := dev.ReadByte()
		return err
	})
	require.Error(t, err)
	require.False(t, IsInvalidArgument(err))
}

func TestPeriphBusClosed(t *testing.T) {
	bus := NewPeriphBus(&i2ctest.Playback{})
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
	err := bus.Execute(context.Background(), 0x04, func(ctx context.Context, dev I2CDevice) error {
		return nil
	})
	require.True(t, IsBusClosed(err))
}

func TestPeriphBusCanceled(t *testing.T) {
	bus := NewPeriphBus(&i2ctest.Playback{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := bus.Execute(ctx, 0x04, func(ctx context.Context, dev I2CDevice) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
