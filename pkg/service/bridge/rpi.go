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
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// DefaultRaspberryPiBus is the I2C bus the GrovePi header is wired to.
	DefaultRaspberryPiBus = "/dev/i2c-1"
)

type piBridge struct {
	mutex    sync.Mutex
	location string
	sclPin   int
	log      zerolog.Logger
	bus      I2CBus
}

// NewRaspberryPiBridge implements the bridge for Raspberry PI's using the
// kernel SMBus interface of the given bus device.
// An empty location selects DefaultRaspberryPiBus. A negative sclPin
// disables bus lockup recovery.
func NewRaspberryPiBridge(location string, sclPin int, log zerolog.Logger) (API, error) {
	if location == "" {
		location = DefaultRaspberryPiBus
	}
	return &piBridge{
		location: location,
		sclPin:   sclPin,
		log:      log,
	}, nil
}

// Open the I2C bus
func (p *piBridge) I2CBus() (I2CBus, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus == nil {
		bus, err := NewI2CBus(p.location, p.sclPin, p.log)
		if err != nil {
			return nil, errors.Wrap(err, "NewI2CBus failed")
		}
		p.bus = bus
	}
	return p.bus, nil
}

func (p *piBridge) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus != nil {
		bus := p.bus
		p.bus = nil
		if err := bus.Close(); err != nil {
			return errors.Wrap(err, "Close failed")
		}
	}
	return nil
}
