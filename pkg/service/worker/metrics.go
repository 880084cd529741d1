package worker

import (
	"github.com/binkynet/GroveWorker/pkg/metrics"
)

const (
	subSystem = "sensor"
)

var (
	analogValueGauge = metrics.MustRegisterGaugeVec(subSystem,
		"analog_value",
		"Mean of the filtered samples of the last sampling round",
		"pin")
	analogSamplesTotal = metrics.MustRegisterCounterVec(subSystem,
		"analog_samples_total",
		"Total number of analog samples read",
		"pin")
	analogDroppedTotal = metrics.MustRegisterCounterVec(subSystem,
		"analog_dropped_total",
		"Total number of analog samples dropped as noise",
		"pin")
	analogReadFailuresTotal = metrics.MustRegisterCounterVec(subSystem,
		"analog_read_failures_total",
		"Total number of analog reads that failed",
		"pin")
	digitalLevelGauge = metrics.MustRegisterGaugeVec(subSystem,
		"digital_level",
		"Last level read from a digital pin",
		"pin")
	publishFailuresTotal = metrics.MustRegisterCounter(subSystem,
		"publish_failures_total",
		"Total number of readings that could not be published")
)
