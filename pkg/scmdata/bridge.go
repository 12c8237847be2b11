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

package scmdata

import (
	"fmt"
	"strings"

	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

// rowKind infers the series kind from the variable convention: emissions
// are period averages, everything else is instantaneous.
func rowKind(variable string) timeseries.Kind {
	if variable == "Emissions" || strings.HasPrefix(variable, "Emissions|") {
		return timeseries.KindAverage
	}
	return timeseries.KindPoint
}

// averageAxis closes the final period of a point axis by extending it with
// the length of the last period, so the same number of values fits as
// period means.
func averageAxis(tp timeseries.TimePoints) timeseries.TimePoints {
	n := len(tp)
	out := append(timeseries.TimePoints(nil), tp...)
	return append(out, tp[n-1].Add(tp[n-1].Sub(tp[n-2])))
}

// ToParameterSet writes every row into the parameter set, so scenario data
// can drive a model run.
func (d *ScmData) ToParameterSet(ps *core.ParameterSet) error {
	if len(d.times) < 2 {
		return fmt.Errorf("%w: need at least two time points", ErrNoMatch)
	}
	for _, r := range d.rows {
		region := core.ParseRegion(r.Region)
		if len(region) == 0 {
			region = core.World
		}
		kind := rowKind(r.Variable)
		axis := d.times
		if kind == timeseries.KindAverage {
			axis = averageAxis(d.times)
		}
		view, err := ps.Timeseries(core.ParseName(r.Variable), region, r.Unit, axis,
			kind, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
		if err != nil {
			return fmt.Errorf("row %s: %w", r.Variable, err)
		}
		if err := view.Set(r.Values); err != nil {
			return fmt.Errorf("row %s: %w", r.Variable, err)
		}
	}
	return nil
}

// FromParameterSet reads every written timeseries parameter onto the given
// time axis, tagging the rows with the base metadata. Model outputs become
// scenario data this way.
func FromParameterSet(ps *core.ParameterSet, times timeseries.TimePoints, base Meta) (*ScmData, error) {
	if len(times) < 2 {
		return nil, fmt.Errorf("%w: need at least two time points", ErrNoMatch)
	}
	out := &ScmData{times: append(timeseries.TimePoints(nil), times...)}

	var firstErr error
	ps.Walk(func(info core.ParameterInfo) {
		if firstErr != nil || info.Kind != core.KindTimeseries || info.Empty {
			return
		}
		axis := out.times
		if info.TimeseriesKind == timeseries.KindAverage {
			axis = averageAxis(out.times)
		}
		view, err := ps.Timeseries(info.Name, info.Region, info.Unit, axis,
			info.TimeseriesKind, timeseries.InterpolationLinear, timeseries.ExtrapolationConstant)
		if err != nil {
			firstErr = fmt.Errorf("parameter %q: %w", info.Name, err)
			return
		}
		values, err := view.Values()
		if err != nil {
			firstErr = fmt.Errorf("parameter %q: %w", info.Name, err)
			return
		}

		meta := base.clone()
		meta.Variable = info.Name.String()
		meta.Region = info.Region.String()
		meta.Unit = info.Unit
		out.rows = append(out.rows, Row{Meta: meta, Values: values})
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
