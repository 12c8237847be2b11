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

package core

import (
	"fmt"

	"github.com/openclimate/scmrun/pkg/timeseries"
	"github.com/openclimate/scmrun/pkg/units"
)

// ScalarView accesses a scalar parameter in a fixed unit.
type ScalarView struct {
	set  *ParameterSet
	p    *parameter
	unit string
}

// Scalar returns a view on the named scalar parameter bound to unit.
func (ps *ParameterSet) Scalar(name Name, region Region, unit string) (*ScalarView, error) {
	if _, err := units.DefaultRegistry().Parse(unit); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	p, err := ps.getOrCreate(name, region, KindScalar)
	if err != nil {
		return nil, err
	}
	return &ScalarView{set: ps, p: p, unit: unit}, nil
}

// Unit returns the unit this view reads and writes in.
func (v *ScalarView) Unit() string { return v.unit }

// Empty reports whether the parameter has never been written.
func (v *ScalarView) Empty() bool {
	v.set.mu.RLock()
	defer v.set.mu.RUnlock()
	return !v.p.written
}

// Value returns the parameter converted into the view's unit. Zero while
// the parameter is empty.
func (v *ScalarView) Value() (float64, error) {
	v.set.mu.RLock()
	defer v.set.mu.RUnlock()
	if !v.p.written {
		return 0, nil
	}
	c, err := units.NewConverter(v.p.unit, v.unit)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", v.p.name, err)
	}
	return c.ConvertFrom(v.p.value), nil
}

// Set writes the parameter. The first write fixes the internal unit.
func (v *ScalarView) Set(value float64) error {
	v.set.mu.Lock()
	defer v.set.mu.Unlock()
	if v.p.unit == "" {
		v.p.unit = v.unit
	}
	c, err := units.NewConverter(v.unit, v.p.unit)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", v.p.name, err)
	}
	v.p.value = c.ConvertFrom(value)
	v.p.written = true
	return nil
}

// GenericView accesses a parameter holding an arbitrary unit-less value.
type GenericView struct {
	set *ParameterSet
	p   *parameter
}

// Generic returns a view on the named generic parameter.
func (ps *ParameterSet) Generic(name Name, region Region) (*GenericView, error) {
	p, err := ps.getOrCreate(name, region, KindGeneric)
	if err != nil {
		return nil, err
	}
	return &GenericView{set: ps, p: p}, nil
}

// Empty reports whether the parameter has never been written.
func (v *GenericView) Empty() bool {
	v.set.mu.RLock()
	defer v.set.mu.RUnlock()
	return !v.p.written
}

// Value returns the stored value, nil while the parameter is empty.
func (v *GenericView) Value() any {
	v.set.mu.RLock()
	defer v.set.mu.RUnlock()
	if !v.p.written {
		return nil
	}
	return v.p.generic
}

// Set writes the parameter.
func (v *GenericView) Set(value any) {
	v.set.mu.Lock()
	defer v.set.mu.Unlock()
	v.p.generic = value
	v.p.written = true
}

// TimeseriesView accesses a timeseries parameter in a fixed unit on a fixed
// time axis.
type TimeseriesView struct {
	set    *ParameterSet
	p      *parameter
	unit   string
	tp     timeseries.TimePoints
	kind   timeseries.Kind
	interp timeseries.InterpolationType
	extrap timeseries.ExtrapolationType
}

// Timeseries returns a view on the named timeseries parameter bound to unit
// and the given time axis. Interpolation and extrapolation control how
// values are mapped when the internal axis differs from the view's.
func (ps *ParameterSet) Timeseries(
	name Name,
	region Region,
	unit string,
	tp timeseries.TimePoints,
	kind timeseries.Kind,
	it timeseries.InterpolationType,
	et timeseries.ExtrapolationType,
) (*TimeseriesView, error) {
	if _, err := units.DefaultRegistry().Parse(unit); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	if err := tp.Validate(); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	p, err := ps.getOrCreate(name, region, KindTimeseries)
	if err != nil {
		return nil, err
	}
	return &TimeseriesView{
		set:    ps,
		p:      p,
		unit:   unit,
		tp:     append(timeseries.TimePoints(nil), tp...),
		kind:   kind,
		interp: it,
		extrap: et,
	}, nil
}

// Unit returns the unit this view reads and writes in.
func (v *TimeseriesView) Unit() string { return v.unit }

// TimePoints returns the view's time axis.
func (v *TimeseriesView) TimePoints() timeseries.TimePoints {
	return append(timeseries.TimePoints(nil), v.tp...)
}

// Length returns the number of values a series on this view has.
func (v *TimeseriesView) Length() int { return v.tp.NumValues(v.kind) }

// Empty reports whether the parameter has never been written.
func (v *TimeseriesView) Empty() bool {
	v.set.mu.RLock()
	defer v.set.mu.RUnlock()
	return !v.p.written
}

func (v *TimeseriesView) checkKind() error {
	if v.p.written && v.p.tsKind != v.kind {
		return fmt.Errorf("%w: %q holds a %s series, requested as %s",
			ErrParameterKind, v.p.name, v.p.tsKind, v.kind)
	}
	return nil
}

// Values returns the series converted onto the view's unit and axis. Nil
// while the parameter is empty.
func (v *TimeseriesView) Values() ([]float64, error) {
	v.set.mu.RLock()
	defer v.set.mu.RUnlock()
	if !v.p.written {
		return nil, nil
	}
	if err := v.checkKind(); err != nil {
		return nil, err
	}

	uc, err := units.NewConverter(v.p.unit, v.unit)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", v.p.name, err)
	}
	values := uc.ConvertFromSlice(v.p.values)

	if v.p.timePoints.Equal(v.tp) {
		return values, nil
	}
	tc, err := timeseries.NewConverter(v.p.timePoints, v.tp, v.kind, v.interp, v.extrap)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", v.p.name, err)
	}
	values, err = tc.Convert(values)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", v.p.name, err)
	}
	return values, nil
}

// Set writes the series. The first write fixes the internal unit, axis and
// kind; later writes through other views are converted onto them.
func (v *TimeseriesView) Set(values []float64) error {
	if len(values) != v.Length() {
		return fmt.Errorf("%w: parameter %q: got %d values for %d periods",
			ErrValueCount, v.p.name, len(values), v.Length())
	}

	v.set.mu.Lock()
	defer v.set.mu.Unlock()
	if err := v.checkKind(); err != nil {
		return err
	}

	if !v.p.written {
		v.p.unit = v.unit
		v.p.timePoints = append(timeseries.TimePoints(nil), v.tp...)
		v.p.tsKind = v.kind
		v.p.values = append([]float64(nil), values...)
		v.p.written = true
		return nil
	}

	uc, err := units.NewConverter(v.unit, v.p.unit)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", v.p.name, err)
	}
	converted := uc.ConvertFromSlice(values)

	if !v.tp.Equal(v.p.timePoints) {
		tc, err := timeseries.NewConverter(v.tp, v.p.timePoints, v.kind, v.interp, v.extrap)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", v.p.name, err)
		}
		converted, err = tc.Convert(converted)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", v.p.name, err)
		}
	}
	v.p.values = converted
	return nil
}
