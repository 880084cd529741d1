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

package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"github.com/binkynet/GroveWorker/pkg/service/devices"
)

// command is a one-shot command of the command line.
type command struct {
	args   []string
	run    func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error)
	compat func(ctx context.Context, c *devices.Compat, args []string) (string, error)
}

func (c command) usage() string {
	return strings.Join(c.args, " ")
}

var commands = map[string]command{
	"version": {
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			return dev.Version(ctx)
		},
		compat: func(ctx context.Context, c *devices.Compat, args []string) (string, error) {
			return c.Version(ctx), nil
		},
	},
	"digital-read": {
		args: []string{"PIN"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			level, err := dev.DigitalRead(ctx, pin)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(levelValue(level)), nil
		},
		compat: func(ctx context.Context, c *devices.Compat, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			return strconv.Itoa(c.DigitalRead(ctx, pin)), nil
		},
	},
	"digital-write": {
		args: []string{"PIN", "VALUE"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, value, err := parsePinValue(args, 1)
			if err != nil {
				return "", err
			}
			if err := dev.DigitalWrite(ctx, pin, gpio.Level(value == 1)); err != nil {
				return "", err
			}
			return "OK", nil
		},
		compat: func(ctx context.Context, c *devices.Compat, args []string) (string, error) {
			pin, value, err := parsePinValue(args, 1)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(c.DigitalWrite(ctx, pin, value)), nil
		},
	},
	"pin-mode": {
		args: []string{"PIN", "MODE"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			if err := dev.SetPinMode(ctx, pin, devices.PinMode(args[1])); err != nil {
				return "", err
			}
			return "OK", nil
		},
		compat: func(ctx context.Context, c *devices.Compat, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			return strconv.Itoa(c.PinMode(ctx, pin, args[1])), nil
		},
	},
	"analog-read": {
		args: []string{"PIN"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			value, err := dev.AnalogRead(ctx, pin)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(value), nil
		},
		compat: func(ctx context.Context, c *devices.Compat, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			return strconv.Itoa(c.AnalogRead(ctx, pin)), nil
		},
	},
	"analog-write": {
		args: []string{"PIN", "VALUE"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, value, err := parsePinValue(args, 255)
			if err != nil {
				return "", err
			}
			if err := dev.AnalogWrite(ctx, pin, value); err != nil {
				return "", err
			}
			return "OK", nil
		},
		compat: func(ctx context.Context, c *devices.Compat, args []string) (string, error) {
			pin, value, err := parsePinValue(args, 255)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(c.AnalogWrite(ctx, pin, value)), nil
		},
	},
	"ultrasonic": {
		args: []string{"PIN"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			distance, err := dev.UltrasonicRead(ctx, pin)
			if err != nil {
				return "", err
			}
			return distance.String(), nil
		},
	},
	"dht": {
		args: []string{"PIN", "MODULE"},
		run: func(ctx context.Context, dev *devices.GrovePi, args []string) (string, error) {
			pin, err := parseUint8("pin", args[0])
			if err != nil {
				return "", err
			}
			module, err := parseDHTModule(args[1])
			if err != nil {
				return "", err
			}
			env, err := dev.DHT(ctx, pin, module)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s %s", env.Temperature, env.Humidity), nil
		},
	},
}

// commandNames returns the names of all one-shot commands, sorted.
func commandNames() []string {
	result := make([]string, 0, len(commands))
	for name := range commands {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func parseUint8(name, value string) (uint8, error) {
	v, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s '%s'", name, value)
	}
	return uint8(v), nil
}

// parsePinValue parses PIN VALUE arguments, limiting the value to limit.
func parsePinValue(args []string, limit uint8) (uint8, uint8, error) {
	pin, err := parseUint8("pin", args[0])
	if err != nil {
		return 0, 0, err
	}
	value, err := parseUint8("value", args[1])
	if err != nil {
		return 0, 0, err
	}
	if value > limit {
		return 0, 0, errors.Errorf("value %d out of range 0-%d", value, limit)
	}
	return pin, value, nil
}

func parseDHTModule(value string) (devices.DHTModule, error) {
	switch strings.ToLower(value) {
	case "blue", "dht11", "0":
		return devices.DHTBlue, nil
	case "white", "dht22", "1":
		return devices.DHTWhite, nil
	default:
		return 0, errors.Errorf("invalid DHT module '%s' (blue|white)", value)
	}
}

func levelValue(level gpio.Level) int {
	if level {
		return 1
	}
	return 0
}
