package worker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/binkynet/GroveWorker/pkg/service/filter"
)

// sampleAnalog performs a single sampling round of an analog pin.
func (s *service) sampleAnalog(ctx context.Context, pin uint8) error {
	label := strconv.Itoa(int(pin))
	samples := make([]int, 0, s.config.Samples)
	var lastErr error
	for i := 0; i < s.config.Samples; i++ {
		v, err := s.Board.AnalogRead(ctx, pin)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			analogReadFailuresTotal.WithLabelValues(label).Inc()
			lastErr = err
			continue
		}
		samples = append(samples, v)
	}
	if len(samples) == 0 {
		return errors.Wrapf(lastErr, "no readings from analog pin %d", pin)
	}

	kept := filter.Noise(samples, s.config.K)
	s.samplesTotal.Add(int64(len(samples)))
	s.keptTotal.Add(int64(len(kept)))
	analogSamplesTotal.WithLabelValues(label).Add(float64(len(samples)))
	analogDroppedTotal.WithLabelValues(label).Add(float64(len(samples) - len(kept)))
	if len(kept) == 0 {
		s.Log.Debug().Uint8("pin", pin).Ints("samples", samples).Msg("All samples filtered as noise")
		return nil
	}

	mean, _ := filter.MeanStdDev(kept)
	analogValueGauge.WithLabelValues(label).Set(mean)
	s.publish(ctx, fmt.Sprintf("analog/%d", pin), AnalogReading{
		Pin:     pin,
		Value:   mean,
		Samples: len(samples),
		Kept:    len(kept),
	})
	return nil
}

// sampleDigital reads a digital pin and publishes its level when it changed.
func (s *service) sampleDigital(ctx context.Context, pin uint8, last **bool) error {
	level, err := s.Board.DigitalRead(ctx, pin)
	if err != nil {
		return err
	}
	value := bool(level)
	v := 0
	if value {
		v = 1
	}
	digitalLevelGauge.WithLabelValues(strconv.Itoa(int(pin))).Set(float64(v))
	if *last != nil && **last == value {
		return nil
	}
	*last = &value
	s.publish(ctx, fmt.Sprintf("digital/%d", pin), DigitalReading{Pin: pin, Value: v})
	return nil
}
