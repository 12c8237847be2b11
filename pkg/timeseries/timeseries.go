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

// Package timeseries provides time axes and conversion between them.
//
// Climate models exchange two kinds of timeseries. Point series hold
// instantaneous values at each time point. Average series hold the mean over
// the period between two consecutive time points, so a series of N values
// needs N+1 time points to delimit its periods. Converting an average series
// onto a different axis preserves the integral of the series rather than
// interpolating the raw values.
package timeseries

import (
	"errors"
	"fmt"
	"time"
)

// Kind distinguishes point from average timeseries.
type Kind int

const (
	// KindPoint marks a series of instantaneous values.
	KindPoint Kind = iota

	// KindAverage marks a series of period means. N values span N+1 time
	// points.
	KindAverage
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindAverage:
		return "average"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "point" or "average".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "point":
		return KindPoint, nil
	case "average":
		return KindAverage, nil
	default:
		return 0, fmt.Errorf("unknown timeseries kind %q", s)
	}
}

var (
	// ErrInsufficientData is returned when a series is too short to convert
	// or the target axis needs extrapolation which was not enabled.
	ErrInsufficientData = errors.New("insufficient data for conversion")

	// ErrUnorderedTimes is returned when a time axis is not strictly
	// increasing.
	ErrUnorderedTimes = errors.New("time points must be strictly increasing")
)

// TimePoints is a strictly increasing time axis.
type TimePoints []time.Time

// CreateTimePoints builds the axis for a series of count values starting at
// start with a fixed period. Average series get one extra point to close the
// final period.
func CreateTimePoints(start time.Time, period time.Duration, count int, kind Kind) TimePoints {
	n := count
	if kind == KindAverage {
		n = count + 1
	}
	points := make(TimePoints, n)
	for i := range points {
		points[i] = start.Add(time.Duration(i) * period)
	}
	return points
}

// Validate checks that the axis is strictly increasing.
func (tp TimePoints) Validate() error {
	for i := 1; i < len(tp); i++ {
		if !tp[i].After(tp[i-1]) {
			return fmt.Errorf("%w: index %d", ErrUnorderedTimes, i)
		}
	}
	return nil
}

// NumValues returns the number of series values carried on this axis for the
// given kind.
func (tp TimePoints) NumValues(kind Kind) int {
	if kind == KindAverage {
		if len(tp) == 0 {
			return 0
		}
		return len(tp) - 1
	}
	return len(tp)
}

// Equal reports whether two axes are identical.
func (tp TimePoints) Equal(other TimePoints) bool {
	if len(tp) != len(other) {
		return false
	}
	for i := range tp {
		if !tp[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// seconds converts the axis to float seconds relative to ref.
func (tp TimePoints) seconds(ref time.Time) []float64 {
	out := make([]float64, len(tp))
	for i, t := range tp {
		out[i] = t.Sub(ref).Seconds()
	}
	return out
}
