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

package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoiseEmpty(t *testing.T) {
	require.Equal(t, []int{}, Noise([]int{}, DefaultK))
	require.Equal(t, []float64{}, Noise[float64](nil, DefaultK))
}

func TestNoiseSingle(t *testing.T) {
	require.Equal(t, []int{42}, Noise([]int{42}, DefaultK))
}

func TestNoiseConstant(t *testing.T) {
	require.Equal(t, []int{10, 10, 10, 10}, Noise([]int{10, 10, 10, 10}, 1))
}

func TestNoiseIdenticalFloats(t *testing.T) {
	// The computed deviation of these is not exactly zero
	require.Equal(t, []float64{0.1, 0.1, 0.1}, Noise([]float64{0.1, 0.1, 0.1}, 1))
	require.Equal(t, []float64{0.7, 0.7, 0.7, 0.7, 0.7}, Noise([]float64{0.7, 0.7, 0.7, 0.7, 0.7}, DefaultK))
}

func TestNoiseRemovesOutlier(t *testing.T) {
	require.Equal(t, []int{10, 10, 10, 10}, Noise([]int{10, 10, 10, 10, 1000}, 1))
	require.Equal(t, []int{10, 10, 10, 10}, Noise([]int{10, 10, 1000, 10, 10}, 1))
}

func TestNoiseKeepsOrder(t *testing.T) {
	values := []int{9, 10, 11, 10, 9, 11, 10, 50}
	require.Equal(t, []int{9, 10, 11, 10, 9, 11, 10}, Noise(values, DefaultK))
}

func TestNoiseIdempotent(t *testing.T) {
	values := []int{9, 10, 11, 10, 9, 11, 10, 50}
	once := Noise(values, DefaultK)
	require.Equal(t, once, Noise(once, DefaultK))

	floats := []float64{10, 10, 10, 10, 1000}
	once2 := Noise(floats, 1)
	require.Equal(t, once2, Noise(once2, 1))
}

func TestNoiseBoundsAreStrict(t *testing.T) {
	// mean 22, std 39.01: 100 lies just inside the upper bound for k=2
	require.Equal(t, []int{1, 2, 3, 4, 100}, Noise([]int{1, 2, 3, 4, 100}, 2))
	// Values exactly at mean +/- k*std are removed
	// [0, 2]: mean 1, std 1
	require.Equal(t, []float64{}, Noise([]float64{0, 2}, 1))
	require.Equal(t, []float64{0, 2}, Noise([]float64{0, 2}, 1.5))
}

func TestMeanStdDev(t *testing.T) {
	mean, std := MeanStdDev([]int{2, 4, 4, 4, 5, 5, 7, 9})
	require.Equal(t, 5.0, mean)
	require.Equal(t, 2.0, std)

	mean, std = MeanStdDev([]int{})
	require.Equal(t, 0.0, mean)
	require.Equal(t, 0.0, std)
}
