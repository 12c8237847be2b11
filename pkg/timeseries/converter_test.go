/*
Copyright 2026 The scmrun Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearly(startYear, count int, kind Kind) TimePoints {
	start := time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	return CreateTimePoints(start, 365*24*time.Hour, count, kind)
}

func TestCreateTimePoints(t *testing.T) {
	point := yearly(2000, 5, KindPoint)
	assert.Len(t, point, 5)
	assert.Equal(t, 5, point.NumValues(KindPoint))

	average := yearly(2000, 5, KindAverage)
	assert.Len(t, average, 6)
	assert.Equal(t, 5, average.NumValues(KindAverage))

	require.NoError(t, point.Validate())
	require.NoError(t, average.Validate())
}

func TestValidateUnordered(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := TimePoints{start, start.Add(time.Hour), start.Add(time.Hour)}
	assert.ErrorIs(t, axis.Validate(), ErrUnorderedTimes)
}

func TestConvertShortData(t *testing.T) {
	source := yearly(2000, 5, KindPoint)
	target := yearly(2001, 3, KindPoint)
	c, err := NewConverter(source, target, KindPoint, InterpolationLinear, ExtrapolationConstant)
	require.NoError(t, err)

	for _, values := range [][]float64{{}, {0}, {0, 1}} {
		_, err := c.Convert(values)
		assert.ErrorIs(t, err, ErrInsufficientData)
	}
}

func TestConvertNoneExtrapolationError(t *testing.T) {
	source := yearly(2000, 5, KindPoint)
	target := TimePoints{
		source[0].Add(-time.Second),
		source[0],
		source[len(source)-1].Add(time.Second),
	}
	c, err := NewConverter(source, target, KindPoint, InterpolationLinear, ExtrapolationNone)
	require.NoError(t, err)

	_, err = c.Convert([]float64{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "extrapolation type other than none")
}

func TestConvertPointIdentity(t *testing.T) {
	source := yearly(2000, 4, KindPoint)
	c, err := NewConverter(source, source, KindPoint, InterpolationLinear, ExtrapolationNone)
	require.NoError(t, err)

	got, err := c.Convert([]float64{1, 4, 9, 16})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 4, 9, 16}, got, 1e-12)
}

func TestConvertPointInterpolation(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	source := CreateTimePoints(start, 2*time.Hour, 3, KindPoint)
	target := CreateTimePoints(start.Add(time.Hour), 2*time.Hour, 2, KindPoint)

	c, err := NewConverter(source, target, KindPoint, InterpolationLinear, ExtrapolationNone)
	require.NoError(t, err)

	got, err := c.Convert([]float64{0, 10, 40})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 25}, got, 1e-9)
}

func TestConvertPointExtrapolation(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	source := CreateTimePoints(start, time.Hour, 3, KindPoint)
	target := CreateTimePoints(start.Add(-time.Hour), time.Hour, 5, KindPoint)

	constant, err := NewConverter(source, target, KindPoint, InterpolationLinear, ExtrapolationConstant)
	require.NoError(t, err)
	got, err := constant.Convert([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 2, 3, 3}, got, 1e-9)

	linear, err := NewConverter(source, target, KindPoint, InterpolationLinear, ExtrapolationLinear)
	require.NoError(t, err)
	got, err = linear.Convert([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 4}, got, 1e-9)
}

func TestConvertAveragePreservesIntegral(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	period := 24 * time.Hour
	source := CreateTimePoints(start, period, 4, KindAverage)
	target := CreateTimePoints(start, 2*period, 2, KindAverage)

	c, err := NewConverter(source, target, KindAverage, InterpolationLinear, ExtrapolationNone)
	require.NoError(t, err)

	got, err := c.Convert([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	// Two-day means of daily means 1,2 and 3,4.
	require.Len(t, got, 2)
	assert.InDeltaSlice(t, []float64{1.5, 3.5}, got, 1e-9)

	// Total integral is unchanged.
	sumSource := (1.0 + 2 + 3 + 4) * period.Seconds()
	sumTarget := (got[0] + got[1]) * 2 * period.Seconds()
	assert.InDelta(t, sumSource, sumTarget, 1e-6)
}

func TestConvertAverageUpsample(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	period := 24 * time.Hour
	source := CreateTimePoints(start, 2*period, 3, KindAverage)
	target := CreateTimePoints(start, period, 6, KindAverage)

	c, err := NewConverter(source, target, KindAverage, InterpolationLinear, ExtrapolationNone)
	require.NoError(t, err)

	got, err := c.Convert([]float64{2, 4, 6})
	require.NoError(t, err)
	require.Len(t, got, 6)

	// Each source period splits into two target periods with the same mean.
	for i, pair := range [][2]int{{0, 1}, {2, 3}, {4, 5}} {
		mean := (got[pair[0]] + got[pair[1]]) / 2
		assert.InDelta(t, []float64{2, 4, 6}[i], mean, 1e-9)
	}
}

func TestConvertRoundTripLengths(t *testing.T) {
	source := yearly(2000, 5, KindPoint)
	target := yearly(2000, 10, KindPoint)
	c, err := NewConverter(source, target, KindPoint, InterpolationLinear, ExtrapolationConstant)
	require.NoError(t, err)

	assert.Equal(t, 5, c.NumSourceValues())
	assert.Equal(t, 10, c.NumTargetValues())

	up, err := c.Convert([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Len(t, up, 10)

	down, err := c.ConvertBack(up)
	require.NoError(t, err)
	require.Len(t, down, 5)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("point")
	require.NoError(t, err)
	assert.Equal(t, KindPoint, k)

	k, err = ParseKind("average")
	require.NoError(t, err)
	assert.Equal(t, KindAverage, k)

	_, err = ParseKind("wiggly")
	assert.Error(t, err)

	assert.Equal(t, "point", KindPoint.String())
	assert.Equal(t, "average", KindAverage.String())
}
