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

package units

import "fmt"

// Converter converts numbers between two units. It precomputes a scaling
// factor and offset so converting a full timeseries is a cheap linear map.
type Converter struct {
	source  string
	target  string
	scaling float64
	offset  float64
}

// NewConverter builds a converter from source to target using the default
// registry and no context.
func NewConverter(source, target string) (*Converter, error) {
	return DefaultRegistry().NewConverter(source, target, "")
}

// NewConverterContext builds a converter from source to target applying the
// named context, enabling cross-species conversions such as CO2-equivalence
// metrics.
func NewConverterContext(source, target, context string) (*Converter, error) {
	return DefaultRegistry().NewConverter(source, target, context)
}

// NewConverter builds a converter between two unit expressions. An empty
// context applies no dimension transformations.
func (r *Registry) NewConverter(source, target, context string) (*Converter, error) {
	su, err := r.Parse(source)
	if err != nil {
		return nil, err
	}
	tu, err := r.Parse(target)
	if err != nil {
		return nil, err
	}

	if context != "" {
		r.mu.RLock()
		ctx, ok := r.contexts[context]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContext, context)
		}
		su = ctx.normalize(su)
		tu = ctx.normalize(tu)
	}

	if !su.d.equal(tu.d) {
		return nil, fmt.Errorf("%w: cannot convert from %q (%s) to %q (%s)",
			ErrDimensionality, source, su.d, target, tu.d)
	}

	// base = v*factor + offset, so the direct map from source value to
	// target value is linear.
	return &Converter{
		source:  source,
		target:  target,
		scaling: su.factor / tu.factor,
		offset:  (su.offset - tu.offset) / tu.factor,
	}, nil
}

// ConvertFrom converts a value in the source unit to the target unit.
func (c *Converter) ConvertFrom(v float64) float64 {
	return v*c.scaling + c.offset
}

// ConvertTo converts a value in the target unit back to the source unit.
func (c *Converter) ConvertTo(v float64) float64 {
	return (v - c.offset) / c.scaling
}

// ConvertFromSlice converts a slice of values from the source unit to the
// target unit, returning a new slice.
func (c *Converter) ConvertFromSlice(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = c.ConvertFrom(v)
	}
	return out
}

// ConvertToSlice converts a slice of values from the target unit back to the
// source unit, returning a new slice.
func (c *Converter) ConvertToSlice(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = c.ConvertTo(v)
	}
	return out
}

// Source returns the unit converted from.
func (c *Converter) Source() string { return c.source }

// Target returns the unit converted to.
func (c *Converter) Target() string { return c.target }
