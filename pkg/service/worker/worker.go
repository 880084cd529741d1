package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/GroveWorker/pkg/service/devices"
	"github.com/binkynet/GroveWorker/pkg/service/filter"
	"github.com/binkynet/GroveWorker/pkg/service/util"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultSamples  = 10
)

// Service contains the API exposed by the worker service
type Service interface {
	// Run the worker service until the given context is cancelled.
	Run(ctx context.Context) error
}

type Config struct {
	// Analog pins to sample
	AnalogPins []uint8
	// Digital pins to configure as input and watch
	DigitalPins []uint8
	// Time between two sampling rounds of a pin
	Interval time.Duration
	// Number of readings per sampling round
	Samples int
	// Noise filter sensitivity
	K float64
}

// Publisher delivers readings to interested parties.
type Publisher interface {
	// Publish a JSON encoded message into a topic.
	Publish(ctx context.Context, topic string, msg interface{}) error
}

type Dependencies struct {
	Log   zerolog.Logger
	Board devices.Board
	// Optional
	Publisher Publisher
}

// AnalogReading is published for every sampling round of an analog pin.
type AnalogReading struct {
	Pin     uint8   `json:"pin"`
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
	Kept    int     `json:"kept"`
}

// DigitalReading is published when the level of a digital pin changes.
type DigitalReading struct {
	Pin   uint8 `json:"pin"`
	Value int   `json:"value"`
}

// NewService instantiates a new Service.
func NewService(config Config, deps Dependencies) (Service, error) {
	if deps.Board == nil {
		return nil, errors.New("board is required")
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Samples <= 0 {
		config.Samples = DefaultSamples
	}
	if config.K <= 0 {
		config.K = filter.DefaultK
	}
	deps.Log = deps.Log.With().Str("component", "worker").Logger()
	return &service{
		config:       config,
		Dependencies: deps,
	}, nil
}

type service struct {
	config Config
	Dependencies
	samplesTotal atomic.Int64
	keptTotal    atomic.Int64
}

// Run the worker service until the given context is cancelled.
func (s *service) Run(ctx context.Context) error {
	log := s.Log

	// Configure board
	log.Debug().Msg("configure board")
	if err := s.Board.Configure(ctx); err != nil {
		// Log error, samplers will keep trying
		log.Error().Err(err).Msg("Board is not responding")
	}
	defer func() {
		log.Debug().Msg("closing board")
		if err := s.Board.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to close board")
		}
	}()
	for _, pin := range s.config.DigitalPins {
		if err := s.Board.SetPinMode(ctx, pin, devices.Input); err != nil {
			log.Error().Err(err).Uint8("pin", pin).Msg("Failed to configure digital input")
		}
	}
	// Stop fast if context canceled
	if ctx.Err() != nil {
		return ctx.Err()
	}

	g, lctx := errgroup.WithContext(ctx)
	for _, pin := range s.config.AnalogPins {
		pin := pin
		g.Go(func() error {
			return util.UntilCanceled(lctx, log, fmt.Sprintf("sampling analog pin %d", pin), s.config.Interval,
				func(ctx context.Context) error {
					return s.sampleAnalog(ctx, pin)
				})
		})
	}
	for _, pin := range s.config.DigitalPins {
		pin := pin
		var last *bool
		g.Go(func() error {
			return util.UntilCanceled(lctx, log, fmt.Sprintf("watching digital pin %d", pin), s.config.Interval,
				func(ctx context.Context) error {
					return s.sampleDigital(ctx, pin, &last)
				})
		})
	}
	err := g.Wait()
	log.Info().
		Str("samples", humanize.Comma(s.samplesTotal.Load())).
		Str("kept", humanize.Comma(s.keptTotal.Load())).
		Msg("Sampling stopped")
	if err != nil {
		return errors.Wrap(err, "Wait failed")
	}
	return nil
}

// publish sends a message when a publisher is configured.
// Failures are logged only.
func (s *service) publish(ctx context.Context, topic string, msg interface{}) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, topic, msg); err != nil {
		publishFailuresTotal.Inc()
		s.Log.Warn().Err(err).Str("topic", topic).Msg("Failed to publish reading")
	}
}
