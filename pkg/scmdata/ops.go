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
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/openclimate/scmrun/pkg/timeseries"
	"github.com/openclimate/scmrun/pkg/units"
)

// Interpolate maps every row onto the target axis.
func (d *ScmData) Interpolate(target timeseries.TimePoints, et timeseries.ExtrapolationType) (*ScmData, error) {
	conv, err := timeseries.NewConverter(d.times, target, timeseries.KindPoint,
		timeseries.InterpolationLinear, et)
	if err != nil {
		return nil, err
	}

	out := &ScmData{times: append(timeseries.TimePoints(nil), target...)}
	for _, r := range d.rows {
		values, err := conv.Convert(r.Values)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", r.Variable, err)
		}
		out.rows = append(out.rows, Row{Meta: r.Meta.clone(), Values: values})
	}
	return out, nil
}

// Resample interpolates onto annual points at the start of every year
// covered by the axis.
func (d *ScmData) Resample() (*ScmData, error) {
	if len(d.times) == 0 {
		return nil, ErrNoMatch
	}
	var target timeseries.TimePoints
	last := d.times[len(d.times)-1]
	for y := d.times[0].Year(); y <= last.Year(); y++ {
		at := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		if at.Before(d.times[0]) || at.After(last) {
			continue
		}
		target = append(target, at)
	}
	if len(target) == 0 {
		return nil, fmt.Errorf("%w: axis covers no year start", ErrNoMatch)
	}
	return d.Interpolate(target, timeseries.ExtrapolationNone)
}

// ConvertUnit converts every row to the target unit. A context enables
// cross-species conversions such as GWP metrics; leave it empty otherwise.
func (d *ScmData) ConvertUnit(target, context string) (*ScmData, error) {
	out := &ScmData{times: d.Times()}
	for _, r := range d.rows {
		conv, err := units.NewConverterContext(r.Unit, target, context)
		if err != nil {
			return nil, fmt.Errorf("row %s (%s): %w", r.Variable, r.Unit, err)
		}
		row := Row{Meta: r.Meta.clone(), Values: conv.ConvertFromSlice(r.Values)}
		row.Unit = target
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Rename replaces metadata values in one dimension.
func (d *ScmData) Rename(column string, mapping map[string]string) *ScmData {
	out := &ScmData{times: d.Times()}
	for _, r := range d.rows {
		row := Row{Meta: r.Meta.clone(), Values: append([]float64(nil), r.Values...)}
		if to, ok := mapping[row.get(column)]; ok {
			row.set(column, to)
		}
		out.rows = append(out.rows, row)
	}
	return out
}

// Op is a statistic ProcessOver computes across a group of rows.
type Op string

const (
	OpMean     Op = "mean"
	OpMedian   Op = "median"
	OpQuantile Op = "quantile"
)

// ProcessOver groups rows by all metadata except the given columns and
// reduces each group to the requested statistic per time point. The grouped
// columns are cleared in the result. Quantile q is only used by OpQuantile.
func (d *ScmData) ProcessOver(columns []string, op Op, q float64) (*ScmData, error) {
	if op == OpQuantile && (q < 0 || q > 1) {
		return nil, fmt.Errorf("quantile %v outside [0, 1]", q)
	}
	if len(d.rows) == 0 {
		return nil, ErrNoMatch
	}

	type group struct {
		meta Meta
		rows []Row
	}
	var order []string
	groups := make(map[string]*group)
	for _, r := range d.rows {
		meta := r.Meta.clone()
		for _, c := range columns {
			meta.set(c, "")
		}
		k := meta.key()
		g, ok := groups[k]
		if !ok {
			g = &group{meta: meta}
			groups[k] = g
			order = append(order, k)
		}
		g.rows = append(g.rows, r)
	}

	out := &ScmData{times: d.Times()}
	for _, k := range order {
		g := groups[k]
		values := make([]float64, len(d.times))
		sample := make([]float64, 0, len(g.rows))
		for i := range d.times {
			sample = sample[:0]
			for _, r := range g.rows {
				sample = append(sample, r.Values[i])
			}
			sort.Float64s(sample)
			switch op {
			case OpMean:
				values[i] = stat.Mean(sample, nil)
			case OpMedian:
				values[i] = stat.Quantile(0.5, stat.Empirical, sample, nil)
			case OpQuantile:
				values[i] = stat.Quantile(q, stat.Empirical, sample, nil)
			default:
				return nil, fmt.Errorf("unknown operation %q", op)
			}
		}
		out.rows = append(out.rows, Row{Meta: g.meta, Values: values})
	}
	return out, nil
}

// RelativeToRefPeriodMean subtracts from every row its mean over the years
// [startYear, endYear].
func (d *ScmData) RelativeToRefPeriodMean(startYear, endYear int) (*ScmData, error) {
	var ref []int
	for i, t := range d.times {
		if y := t.Year(); y >= startYear && y <= endYear {
			ref = append(ref, i)
		}
	}
	if len(ref) == 0 {
		return nil, fmt.Errorf("%w: no time points in reference period %d-%d", ErrNoMatch, startYear, endYear)
	}

	out := &ScmData{times: d.Times()}
	for _, r := range d.rows {
		mean := 0.0
		for _, i := range ref {
			mean += r.Values[i]
		}
		mean /= float64(len(ref))

		row := Row{Meta: r.Meta.clone(), Values: make([]float64, len(r.Values))}
		for i, v := range r.Values {
			row.Values[i] = v - mean
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}
