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
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/openclimate/scmrun/pkg/timeseries"
)

// ParameterKind distinguishes the three kinds of parameter a set can hold.
type ParameterKind int

const (
	// KindScalar is a single value with a unit.
	KindScalar ParameterKind = iota

	// KindGeneric is an arbitrary value without a unit.
	KindGeneric

	// KindTimeseries is a series of values with a unit and a time axis.
	KindTimeseries
)

func (k ParameterKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindGeneric:
		return "generic"
	case KindTimeseries:
		return "timeseries"
	default:
		return fmt.Sprintf("ParameterKind(%d)", int(k))
	}
}

var (
	// ErrParameterKind is returned when a parameter is requested with a kind
	// different from the one it was first requested with.
	ErrParameterKind = errors.New("parameter kind mismatch")

	// ErrValueCount is returned when a timeseries write does not match the
	// view's time axis.
	ErrValueCount = errors.New("value count does not match time axis")
)

type paramKey struct {
	name   string
	region string
}

// parameter is the canonical state behind any number of views. The unit and,
// for timeseries, the axis are those of the first writer.
type parameter struct {
	name    Name
	region  Region
	kind    ParameterKind
	written bool

	unit string

	value   float64
	generic any

	values     []float64
	timePoints timeseries.TimePoints
	tsKind     timeseries.Kind
}

// ParameterSet owns canonical parameter state for one side (input or output)
// of a model run. Safe for concurrent use through views.
type ParameterSet struct {
	mu     sync.RWMutex
	params map[paramKey]*parameter
}

// NewParameterSet returns an empty set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{params: make(map[paramKey]*parameter)}
}

// getOrCreate returns the parameter for name and region, creating it with
// the requested kind on first access. A kind conflict is an error.
func (ps *ParameterSet) getOrCreate(name Name, region Region, kind ParameterKind) (*parameter, error) {
	if len(name) == 0 {
		return nil, errors.New("parameter name must not be empty")
	}
	if len(region) == 0 {
		region = World
	}
	key := paramKey{name: name.String(), region: region.String()}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	p, ok := ps.params[key]
	if !ok {
		p = &parameter{name: name, region: region, kind: kind}
		ps.params[key] = p
		return p, nil
	}
	if p.kind != kind {
		return nil, fmt.Errorf("%w: %q in %q is %s, requested as %s",
			ErrParameterKind, key.name, key.region, p.kind, kind)
	}
	return p, nil
}

// Len returns the number of parameters ever requested from the set.
func (ps *ParameterSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.params)
}

// ParameterInfo is a read-only snapshot of one parameter as stored
// internally.
type ParameterInfo struct {
	Name   Name
	Region Region
	Kind   ParameterKind
	Empty  bool

	Unit  string
	Value float64

	Generic any

	Values         []float64
	TimePoints     timeseries.TimePoints
	TimeseriesKind timeseries.Kind
}

// Walk calls fn for every parameter in deterministic order. Values are
// copies; mutating them does not affect the set.
func (ps *ParameterSet) Walk(fn func(ParameterInfo)) {
	ps.mu.RLock()
	keys := make([]paramKey, 0, len(ps.params))
	for k := range ps.params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].region < keys[j].region
	})

	infos := make([]ParameterInfo, 0, len(keys))
	for _, k := range keys {
		p := ps.params[k]
		info := ParameterInfo{
			Name:   append(Name(nil), p.name...),
			Region: append(Region(nil), p.region...),
			Kind:   p.kind,
			Empty:  !p.written,
			Unit:   p.unit,
		}
		if p.written {
			switch p.kind {
			case KindScalar:
				info.Value = p.value
			case KindGeneric:
				info.Generic = p.generic
			case KindTimeseries:
				info.Values = append([]float64(nil), p.values...)
				info.TimePoints = append(timeseries.TimePoints(nil), p.timePoints...)
				info.TimeseriesKind = p.tsKind
			}
		}
		infos = append(infos, info)
	}
	ps.mu.RUnlock()

	for _, info := range infos {
		fn(info)
	}
}
