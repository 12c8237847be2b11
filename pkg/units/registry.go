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

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// dims maps base dimension names (e.g. "mass", "time", "carbon") to their
// integer exponents. A nil or empty map is dimensionless.
type dims map[string]int

func (d dims) clone() dims {
	out := make(dims, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d dims) equal(other dims) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		if other[k] != v {
			return false
		}
	}
	return true
}

func (d dims) String() string {
	if len(d) == 0 {
		return "dimensionless"
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		if d[k] == 1 {
			parts[i] = fmt.Sprintf("[%s]", k)
		} else {
			parts[i] = fmt.Sprintf("[%s]^%d", k, d[k])
		}
	}
	return strings.Join(parts, " ")
}

// unit is a resolved unit expression: base = value*factor + offset in the
// dimensions given by d. Offsets only survive for lone units (temperatures);
// in compound expressions offset units degrade to their delta version.
type unit struct {
	factor float64
	offset float64
	d      dims
}

func (u unit) mul(other unit) unit {
	out := unit{factor: u.factor * other.factor, d: u.d.clone()}
	for k, v := range other.d {
		out.d[k] += v
		if out.d[k] == 0 {
			delete(out.d, k)
		}
	}
	return out
}

func (u unit) div(other unit) unit {
	return u.mul(other.pow(-1))
}

func (u unit) pow(n int) unit {
	out := unit{factor: math.Pow(u.factor, float64(n)), d: make(dims, len(u.d))}
	for k, v := range u.d {
		if v*n != 0 {
			out.d[k] = v * n
		}
	}
	return out
}

// gasSpec declares a greenhouse-gas unit. A gas is either a base unit with
// its own dimension, or derived from another gas by a mass ratio (e.g. one
// unit of CO2 carries 12/44 units of C).
type gasSpec struct {
	dim     string   // dimension name when this gas is a base unit
	ref     string   // referenced base gas when derived
	ratio   float64  // conversion ratio to ref when derived
	aliases []string // additional names for the same unit
}

func base(dim string, aliases ...string) gasSpec {
	return gasSpec{dim: dim, aliases: aliases}
}

func derived(num, den float64, ref string, aliases ...string) gasSpec {
	return gasSpec{ref: ref, ratio: num / den, aliases: aliases}
}

func alias(ref string) gasSpec {
	return gasSpec{ref: ref, ratio: 1}
}

// standardGases mirrors the canonical emissions species list. Derived entries
// use atomic mass ratios (e.g. CO2 -> C is 12/44).
var standardGases = map[string]gasSpec{
	// CO2, CH4, N2O
	"C":    base("carbon"),
	"CO2":  derived(12, 44, "C", "carbon_dioxide"),
	"CH4":  base("methane"),
	"N":    base("nitrogen"),
	"N2O":  derived(14, 44, "N", "nitrous_oxide"),
	"N2ON": derived(14, 28, "N"),
	// aerosol precursors
	"NOx":   base("NOx"),
	"nox":   alias("NOx"),
	"NH3":   derived(14, 17, "N", "ammonia"),
	"S":     base("sulfur"),
	"SO2":   derived(32, 64, "S", "sulfur_dioxide"),
	"SOx":   alias("SO2"),
	"BC":    base("black_carbon"),
	"OC":    base("OC"),
	"CO":    base("carbon_monoxide"),
	"VOC":   base("VOC"),
	"NMVOC": alias("VOC"),
	// CFCs
	"CFC11":  base("CFC11"),
	"CFC12":  base("CFC12"),
	"CFC13":  base("CFC13"),
	"CFC113": base("CFC113"),
	"CFC114": base("CFC114"),
	"CFC115": base("CFC115"),
	// HCFCs
	"HCFC21":   base("HCFC21"),
	"HCFC22":   base("HCFC22"),
	"HCFC123":  base("HCFC123"),
	"HCFC124":  base("HCFC124"),
	"HCFC141b": base("HCFC141b"),
	"HCFC142b": base("HCFC142b"),
	// HFCs
	"HFC23":      base("HFC23"),
	"HFC32":      base("HFC32"),
	"HFC41":      base("HFC41"),
	"HFC125":     base("HFC125"),
	"HFC134":     base("HFC134"),
	"HFC134a":    base("HFC134a"),
	"HFC143":     base("HFC143"),
	"HFC143a":    base("HFC143a"),
	"HFC152a":    base("HFC152a"),
	"HFC227ea":   base("HFC227ea"),
	"HFC236fa":   base("HFC236fa"),
	"HFC245fa":   base("HFC245fa"),
	"HFC365mfc":  base("HFC365mfc"),
	"HFC4310mee": base("HFC4310mee"),
	"HFC4310":    alias("HFC4310mee"),
	// halons
	"Halon1211": base("Halon1211"),
	"Halon1301": base("Halon1301"),
	"Halon2402": base("Halon2402"),
	// PFCs
	"CF4":   base("CF4"),
	"C2F6":  base("C2F6"),
	"C3F8":  base("C3F8"),
	"cC4F8": base("cC4F8"),
	"C4F10": base("C4F10"),
	"C5F12": base("C5F12"),
	"C6F14": base("C6F14"),
	// misc
	"CCl4":    base("CCl4"),
	"CH3CCl3": base("CH3CCl3"),
	"CH3Cl":   base("CH3Cl"),
	"CH3Br":   base("CH3Br"),
	"SF5CF3":  base("SF5CF3"),
	"SF6":     base("SF6"),
	"NF3":     base("NF3"),
}

// siPrefixes in scaling order. Only single-letter prefixes are supported,
// which covers every unit used in climate data ("Gt", "Mt", "ppm" is its own
// unit).
var siPrefixes = map[string]float64{
	"Y": 1e24, "Z": 1e21, "E": 1e18, "P": 1e15, "T": 1e12, "G": 1e9,
	"M": 1e6, "k": 1e3, "h": 1e2,
	"d": 1e-1, "c": 1e-2, "m": 1e-3, "u": 1e-6, "n": 1e-9, "p": 1e-12,
	"f": 1e-15,
}

const (
	secondsPerDay = 24.0 * 60.0 * 60.0
	// Mean Gregorian year of 365.2425 days.
	secondsPerYear = 365.2425 * secondsPerDay
)

// Registry holds all recognised units and conversion contexts.
type Registry struct {
	mu       sync.RWMutex
	units    map[string]unit
	contexts map[string]*conversionContext
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry with all standard units and
// contexts loaded.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry builds a registry populated with the standard units.
func NewRegistry() *Registry {
	r := &Registry{
		units:    make(map[string]unit),
		contexts: make(map[string]*conversionContext),
	}
	r.addStandards()
	r.loadContexts()
	return r
}

func (r *Registry) define(name string, u unit) {
	r.units[name] = u
}

func (r *Registry) addStandards() {
	// SI-ish foundations. Mass is based on grams, time on seconds.
	r.define("g", unit{factor: 1, d: dims{"mass": 1}})
	r.define("t", unit{factor: 1e6, d: dims{"mass": 1}})
	r.define("metric_ton", unit{factor: 1e6, d: dims{"mass": 1}})

	r.define("s", unit{factor: 1, d: dims{"time": 1}})
	r.define("sec", unit{factor: 1, d: dims{"time": 1}})
	r.define("min", unit{factor: 60, d: dims{"time": 1}})
	r.define("h", unit{factor: 3600, d: dims{"time": 1}})
	r.define("hour", unit{factor: 3600, d: dims{"time": 1}})
	r.define("d", unit{factor: secondsPerDay, d: dims{"time": 1}})
	r.define("day", unit{factor: secondsPerDay, d: dims{"time": 1}})
	r.define("week", unit{factor: 7 * secondsPerDay, d: dims{"time": 1}})
	r.define("a", unit{factor: secondsPerYear, d: dims{"time": 1}})
	r.define("yr", unit{factor: secondsPerYear, d: dims{"time": 1}})
	r.define("year", unit{factor: secondsPerYear, d: dims{"time": 1}})
	r.define("annum", unit{factor: secondsPerYear, d: dims{"time": 1}})

	r.define("m", unit{factor: 1, d: dims{"length": 1}})

	r.define("K", unit{factor: 1, d: dims{"temperature": 1}})
	r.define("kelvin", unit{factor: 1, d: dims{"temperature": 1}})
	r.define("degC", unit{factor: 1, offset: 273.15, d: dims{"temperature": 1}})
	r.define("degreeC", unit{factor: 1, offset: 273.15, d: dims{"temperature": 1}})
	r.define("degF", unit{factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, d: dims{"temperature": 1}})
	r.define("degreeF", unit{factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, d: dims{"temperature": 1}})
	// Delta versions for compound expressions and model config values.
	r.define("delta_degC", unit{factor: 1, d: dims{"temperature": 1}})
	r.define("delta_degF", unit{factor: 5.0 / 9.0, d: dims{"temperature": 1}})

	r.define("W", unit{factor: 1, d: dims{"power": 1}})
	r.define("watt", unit{factor: 1, d: dims{"power": 1}})
	r.define("J", unit{factor: 1, d: dims{"power": 1, "time": 1}})
	r.define("joule", unit{factor: 1, d: dims{"power": 1, "time": 1}})

	// Concentrations form their own dimension; ppt is the base.
	r.define("ppt", unit{factor: 1, d: dims{"concentrations": 1}})
	r.define("ppb", unit{factor: 1e3, d: dims{"concentrations": 1}})
	r.define("ppm", unit{factor: 1e6, d: dims{"concentrations": 1}})

	r.define("count", unit{factor: 1, d: dims{"count": 1}})
	r.define("dimensionless", unit{factor: 1, d: dims{}})

	r.addGases(standardGases)
}

func (r *Registry) addGases(gases map[string]gasSpec) {
	// Base gases first, then derived gases. Derived gases may reference
	// other derived gases (e.g. SOx -> SO2 -> S), so resolve iteratively.
	pending := make(map[string]gasSpec)
	for symbol, spec := range gases {
		if spec.dim != "" {
			r.defineGas(symbol, spec.aliases, unit{factor: 1, d: dims{spec.dim: 1}})
		} else {
			pending[symbol] = spec
		}
	}
	for len(pending) > 0 {
		progressed := false
		for symbol, spec := range pending {
			ref, ok := r.units[spec.ref]
			if !ok {
				continue
			}
			u := unit{factor: spec.ratio * ref.factor, d: ref.d.clone()}
			r.defineGas(symbol, spec.aliases, u)
			delete(pending, symbol)
			progressed = true
		}
		if !progressed {
			panic(fmt.Sprintf("unresolvable gas definitions: %v", pending))
		}
	}
}

// defineGas registers a gas plus its aliases, the all-uppercase spelling and
// the joint mass-species units ("gC", "tC").
func (r *Registry) defineGas(symbol string, aliases []string, u unit) {
	names := append([]string{symbol}, aliases...)
	if upper := strings.ToUpper(symbol); upper != symbol {
		names = append(names, upper)
	}
	g := r.units["g"]
	t := r.units["t"]
	for _, name := range names {
		r.define(name, u)
		r.define("g"+name, g.mul(u))
		r.define("t"+name, t.mul(u))
	}
}

// lookup resolves a single unit atom, trying the raw name, the
// hyphen/underscore-stripped name and an SI-prefixed name in that order.
func (r *Registry) lookup(name string) (unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cleaned := strings.NewReplacer("-", "", "_", "").Replace(name)
	// delta_degC and friends keep their underscore.
	for _, candidate := range []string{name, cleaned} {
		if u, ok := r.units[candidate]; ok {
			return u, nil
		}
	}
	for _, candidate := range []string{name, cleaned} {
		if len(candidate) < 2 {
			continue
		}
		scale, ok := siPrefixes[candidate[:1]]
		if !ok {
			continue
		}
		u, ok := r.units[candidate[1:]]
		if !ok || u.offset != 0 {
			continue
		}
		return unit{factor: scale * u.factor, d: u.d.clone()}, nil
	}
	return unit{}, fmt.Errorf("%w: %q", ErrUndefinedUnit, name)
}

// Defined reports whether the given unit expression can be resolved.
func (r *Registry) Defined(expr string) bool {
	_, err := r.Parse(expr)
	return err == nil
}

// Compatible reports whether source can be converted to target without a
// context.
func (r *Registry) Compatible(source, target string) bool {
	su, err := r.Parse(source)
	if err != nil {
		return false
	}
	tu, err := r.Parse(target)
	if err != nil {
		return false
	}
	return su.d.equal(tu.d)
}
