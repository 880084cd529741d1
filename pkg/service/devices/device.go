// Copyright 2020 Ewout Prangsma
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

	"periph.io/x/conn/v3/gpio"
)

// Device contains the API that is supported by all types of devices.
type Device interface {
	// Configure is called once to put the device in the desired state.
	Configure(ctx context.Context) error
	// Close brings the device back to a safe state.
	Close(ctx context.Context) error
}

// AnalogInput is implemented by devices with analog input pins.
type AnalogInput interface {
	// AnalogRead returns the current value of the given pin.
	AnalogRead(ctx context.Context, pin uint8) (int, error)
}

// DigitalIO is implemented by devices with digital pins.
type DigitalIO interface {
	// DigitalRead returns the level of the given pin.
	DigitalRead(ctx context.Context, pin uint8) (gpio.Level, error)
	// DigitalWrite sets the level of the given pin.
	DigitalWrite(ctx context.Context, pin uint8, level gpio.Level) error
	// SetPinMode sets the direction of the given pin.
	SetPinMode(ctx context.Context, pin uint8, mode PinMode) error
}

// Board is a device with analog and digital pins that reports a firmware version.
type Board interface {
	Device
	AnalogInput
	DigitalIO
	// Version returns the firmware version.
	Version(ctx context.Context) (string, error)
}

var _ Board = &GrovePi{}
