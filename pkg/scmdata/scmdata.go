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

// Package scmdata handles sets of named timeseries the way scenario data is
// exchanged between tools: rows of values over a shared time axis, each
// carrying model, scenario, region, variable and unit metadata. It offers
// filtering, axis alignment, unit conversion and statistics, plus a bridge
// into the core parameter sets models run from.
package scmdata

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/openclimate/scmrun/pkg/timeseries"
)

// Meta is the metadata identifying one timeseries row.
type Meta struct {
	Model        string
	Scenario     string
	Region       string
	Variable     string
	Unit         string
	ClimateModel string

	// Extra holds additional dimensions such as "ensemble_member".
	Extra map[string]string
}

// metaColumns are the built-in dimension names, in canonical column order.
var metaColumns = []string{"model", "scenario", "region", "variable", "unit", "climate_model"}

// get returns the value of a dimension by column name.
func (m Meta) get(column string) string {
	switch column {
	case "model":
		return m.Model
	case "scenario":
		return m.Scenario
	case "region":
		return m.Region
	case "variable":
		return m.Variable
	case "unit":
		return m.Unit
	case "climate_model":
		return m.ClimateModel
	default:
		return m.Extra[column]
	}
}

func (m *Meta) set(column, value string) {
	switch column {
	case "model":
		m.Model = value
	case "scenario":
		m.Scenario = value
	case "region":
		m.Region = value
	case "variable":
		m.Variable = value
	case "unit":
		m.Unit = value
	case "climate_model":
		m.ClimateModel = value
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[column] = value
	}
}

func (m Meta) clone() Meta {
	out := m
	if m.Extra != nil {
		out.Extra = make(map[string]string, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// key renders the full metadata deterministically for grouping.
func (m Meta) key() string {
	var b strings.Builder
	for _, c := range metaColumns {
		b.WriteString(m.get(c))
		b.WriteByte('\x1f')
	}
	extras := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	for _, k := range extras {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m.Extra[k])
		b.WriteByte('\x1f')
	}
	return b.String()
}

// Row is one timeseries, aligned on the owning set's time axis.
type Row struct {
	Meta
	Values []float64
}

// ScmData is a set of timeseries rows over one shared time axis.
type ScmData struct {
	times timeseries.TimePoints
	rows  []Row
}

// New builds a set from rows aligned on times.
func New(times timeseries.TimePoints, rows []Row) (*ScmData, error) {
	if err := times.Validate(); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r.Values) != len(times) {
			return nil, fmt.Errorf("row %d (%s): %d values on a %d-point axis",
				i, r.Variable, len(r.Values), len(times))
		}
	}
	d := &ScmData{times: append(timeseries.TimePoints(nil), times...)}
	for _, r := range rows {
		r.Meta = r.Meta.clone()
		r.Values = append([]float64(nil), r.Values...)
		d.rows = append(d.rows, r)
	}
	return d, nil
}

// Times returns the shared time axis.
func (d *ScmData) Times() timeseries.TimePoints {
	return append(timeseries.TimePoints(nil), d.times...)
}

// Len returns the number of rows.
func (d *ScmData) Len() int { return len(d.rows) }

// Rows returns copies of all rows.
func (d *ScmData) Rows() []Row {
	out := make([]Row, 0, len(d.rows))
	for _, r := range d.rows {
		r.Meta = r.Meta.clone()
		r.Values = append([]float64(nil), r.Values...)
		out = append(out, r)
	}
	return out
}

// Values lists the distinct values of a metadata column, sorted.
func (d *ScmData) Values(column string) []string {
	seen := make(map[string]struct{})
	for _, r := range d.rows {
		seen[r.get(column)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ErrNoMatch is returned by operations that need at least one row.
var ErrNoMatch = errors.New("no timeseries match")

// Append merges two sets onto the union of their time axes, filling missing
// times with NaN. Rows with identical metadata are averaged where both have
// values.
func (d *ScmData) Append(other *ScmData) (*ScmData, error) {
	union := unionTimes(d.times, other.times)

	type acc struct {
		meta Meta
		sum  []float64
		n    []int
	}
	var order []string
	accs := make(map[string]*acc)

	add := func(src *ScmData) {
		index := indexInto(src.times, union)
		for _, r := range src.rows {
			k := r.key()
			a, ok := accs[k]
			if !ok {
				a = &acc{meta: r.Meta.clone(), sum: make([]float64, len(union)), n: make([]int, len(union))}
				accs[k] = a
				order = append(order, k)
			}
			for i, v := range r.Values {
				if math.IsNaN(v) {
					continue
				}
				a.sum[index[i]] += v
				a.n[index[i]]++
			}
		}
	}
	add(d)
	add(other)

	out := &ScmData{times: union}
	for _, k := range order {
		a := accs[k]
		values := make([]float64, len(union))
		for i := range values {
			if a.n[i] == 0 {
				values[i] = math.NaN()
			} else {
				values[i] = a.sum[i] / float64(a.n[i])
			}
		}
		out.rows = append(out.rows, Row{Meta: a.meta, Values: values})
	}
	return out, nil
}

func unionTimes(a, b timeseries.TimePoints) timeseries.TimePoints {
	merged := append(append(timeseries.TimePoints(nil), a...), b...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Before(merged[j]) })
	out := merged[:0]
	for _, t := range merged {
		if len(out) == 0 || !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return append(timeseries.TimePoints(nil), out...)
}

// indexInto maps each time of sub onto its position in super.
func indexInto(sub, super timeseries.TimePoints) []int {
	out := make([]int, len(sub))
	j := 0
	for i, t := range sub {
		for j < len(super) && !super[j].Equal(t) {
			j++
		}
		out[i] = j
	}
	return out
}
