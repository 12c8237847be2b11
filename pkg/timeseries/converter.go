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
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// InterpolationType selects how values between source time points are
// estimated.
type InterpolationType int

const (
	// InterpolationLinear interpolates linearly between neighbouring points.
	InterpolationLinear InterpolationType = iota
)

// ExtrapolationType selects how values outside the source range are
// estimated.
type ExtrapolationType int

const (
	// ExtrapolationNone forbids target points outside the source range.
	ExtrapolationNone ExtrapolationType = iota

	// ExtrapolationConstant extends the boundary values.
	ExtrapolationConstant

	// ExtrapolationLinear extends the boundary slope. For average series
	// this extends the boundary period mean, which keeps the integral
	// well defined.
	ExtrapolationLinear
)

// Converter converts timeseries values between a source and a target time
// axis.
type Converter struct {
	source TimePoints
	target TimePoints
	kind   Kind
	interp InterpolationType
	extrap ExtrapolationType
}

// NewConverter builds a converter between two axes of the same kind.
func NewConverter(source, target TimePoints, kind Kind, it InterpolationType, et ExtrapolationType) (*Converter, error) {
	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("source axis: %w", err)
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("target axis: %w", err)
	}
	return &Converter{source: source, target: target, kind: kind, interp: it, extrap: et}, nil
}

// Convert maps values from the source axis onto the target axis.
func (c *Converter) Convert(values []float64) ([]float64, error) {
	return c.convert(values, c.source, c.target)
}

// ConvertBack maps values from the target axis onto the source axis.
func (c *Converter) ConvertBack(values []float64) ([]float64, error) {
	return c.convert(values, c.target, c.source)
}

// NumSourceValues returns the number of values a source series must have.
func (c *Converter) NumSourceValues() int { return c.source.NumValues(c.kind) }

// NumTargetValues returns the number of values a converted series has.
func (c *Converter) NumTargetValues() int { return c.target.NumValues(c.kind) }

func (c *Converter) convert(values []float64, from, to TimePoints) ([]float64, error) {
	if len(values) < 3 {
		return nil, fmt.Errorf("%w: got %d values, need at least 3", ErrInsufficientData, len(values))
	}
	if want := from.NumValues(c.kind); len(values) != want {
		return nil, fmt.Errorf("%s series on %d time points needs %d values, got %d",
			c.kind, len(from), want, len(values))
	}

	if c.extrap == ExtrapolationNone {
		if to[0].Before(from[0]) || to[len(to)-1].After(from[len(from)-1]) {
			return nil, fmt.Errorf("%w: target time points are outside the source time points, "+
				"use an extrapolation type other than none", ErrInsufficientData)
		}
	}

	ref := from[0]
	xs := from.seconds(ref)
	ts := to.seconds(ref)

	if c.kind == KindAverage {
		return c.convertAverage(values, xs, ts)
	}
	return c.convertPoint(values, xs, ts)
}

// convertPoint linearly interpolates instantaneous values onto the target
// axis.
func (c *Converter) convertPoint(values, xs, ts []float64) ([]float64, error) {
	predict, err := c.predictor(xs, values)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(ts))
	for i, x := range ts {
		out[i] = predict(x)
	}
	return out, nil
}

// convertAverage converts period means integral-preservingly: the cumulative
// integral of the source series is interpolated onto the target period
// boundaries, then differenced back into means.
func (c *Converter) convertAverage(values, xs, ts []float64) ([]float64, error) {
	integral := make([]float64, len(xs))
	for i, v := range values {
		integral[i+1] = integral[i] + v*(xs[i+1]-xs[i])
	}

	predict, err := c.predictor(xs, integral)
	if err != nil {
		return nil, err
	}

	// Outside the source range the integral is extended with the boundary
	// period mean as slope, regardless of interpolation internals.
	lo, hi := xs[0], xs[len(xs)-1]
	integralAt := func(x float64) float64 {
		switch {
		case x < lo:
			return integral[0] - values[0]*(lo-x)
		case x > hi:
			return integral[len(integral)-1] + values[len(values)-1]*(x-hi)
		default:
			return predict(x)
		}
	}

	out := make([]float64, len(ts)-1)
	for i := range out {
		width := ts[i+1] - ts[i]
		if width <= 0 {
			return nil, fmt.Errorf("%w: degenerate target period %d", ErrUnorderedTimes, i)
		}
		out[i] = (integralAt(ts[i+1]) - integralAt(ts[i])) / width
	}
	return out, nil
}

// predictor returns a function evaluating the interpolated series, applying
// the configured extrapolation outside the fitted range.
func (c *Converter) predictor(xs, ys []float64) (func(float64) float64, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting interpolant: %w", err)
	}

	lo, hi := xs[0], xs[len(xs)-1]
	n := len(xs)
	return func(x float64) float64 {
		switch {
		case x < lo:
			switch c.extrap {
			case ExtrapolationConstant:
				return ys[0]
			default: // linear
				slope := (ys[1] - ys[0]) / (xs[1] - xs[0])
				return ys[0] + slope*(x-lo)
			}
		case x > hi:
			switch c.extrap {
			case ExtrapolationConstant:
				return ys[n-1]
			default: // linear
				slope := (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
				return ys[n-1] + slope*(x-hi)
			}
		default:
			return pl.Predict(x)
		}
	}, nil
}
