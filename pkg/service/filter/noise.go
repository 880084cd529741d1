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

// Package filter removes statistical outliers from series of sensor readings.
package filter

import (
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

// DefaultK is the default number of standard deviations a value may lie
// from the mean before it is considered noise.
const DefaultK = 2.0

// Number is a numeric sample type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Noise returns the values that lie strictly within k population standard
// deviations of the mean, in input order.
// When all values are equal the input is returned unchanged.
// A larger k makes the filter less strict.
func Noise[T Number](values []T, k float64) []T {
	if len(values) == 0 {
		return []T{}
	}
	if lo.EveryBy(values, func(v T) bool { return v == values[0] }) {
		return values
	}
	mean, std := MeanStdDev(values)
	if std == 0 {
		return values
	}
	lower, upper := mean-k*std, mean+k*std
	return lo.Filter(values, func(v T, _ int) bool {
		x := float64(v)
		return x > lower && x < upper
	})
}

// MeanStdDev returns the mean and population standard deviation of the
// given values. It returns zeros for an empty slice.
func MeanStdDev[T Number](values []T) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	n := float64(len(values))
	mean := lo.SumBy(values, func(v T) float64 { return float64(v) }) / n
	variance := lo.SumBy(values, func(v T) float64 {
		d := float64(v) - mean
		return d * d
	}) / n
	return mean, math.Sqrt(variance)
}
