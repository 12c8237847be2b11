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
	"math"
	"sort"
)

// transform rewrites one base dimension into another, scaling by factor per
// unit of the "from" dimension.
type transform struct {
	from   string
	to     string
	factor float64
}

// conversionContext is a named set of dimension transformations which are
// only applied when a conversion explicitly requests the context.
type conversionContext struct {
	name       string
	transforms []transform
}

// normalize rewrites u's dimensions using the context's transformations,
// folding the conversion factors into u.factor. Transformations all target
// canonical dimensions, so a single pass per transform suffices.
func (c *conversionContext) normalize(u unit) unit {
	out := unit{factor: u.factor, offset: u.offset, d: u.d.clone()}
	for _, t := range c.transforms {
		e, ok := out.d[t.from]
		if !ok || e == 0 {
			continue
		}
		delete(out.d, t.from)
		out.d[t.to] += e
		if out.d[t.to] == 0 {
			delete(out.d, t.to)
		}
		out.factor *= math.Pow(t.factor, float64(e))
	}
	return out
}

// Global warming potentials on a mass-of-species basis, per metric report.
// One tonne of the keyed species is equivalent to this many tonnes of CO2.
var gwpContexts = map[string]map[string]float64{
	"SARGWP100": {
		"CH4": 21, "N2O": 310, "SF6": 23900,
		"CF4": 6500, "C2F6": 9200,
		"HFC23": 11700, "HFC32": 650, "HFC125": 2800, "HFC134a": 1300,
		"HFC143a": 3800, "HFC152a": 140, "HFC227ea": 2900, "HFC236fa": 6300,
		"HFC4310mee": 1300,
		"CFC11":      3800, "CFC12": 8100,
	},
	"AR4GWP100": {
		"CH4": 25, "N2O": 298, "SF6": 22800, "NF3": 17200,
		"CF4": 7390, "C2F6": 12200,
		"HFC23": 14800, "HFC32": 675, "HFC125": 3500, "HFC134a": 1430,
		"HFC143a": 4470, "HFC152a": 124, "HFC227ea": 3220, "HFC236fa": 9810,
		"HFC245fa": 1030, "HFC4310mee": 1640,
		"CFC11":    4750, "CFC12": 10900, "CFC113": 6130, "CFC114": 10000,
		"CFC115":   7370,
		"HCFC22":   1810, "HCFC141b": 725, "HCFC142b": 2310,
		"Halon1211": 1890, "Halon1301": 7140,
		"CCl4":      1400, "CH3Br": 5, "CH3CCl3": 146, "SF5CF3": 17700,
	},
	"AR5GWP100": {
		"CH4": 28, "N2O": 265, "SF6": 23500, "NF3": 16100,
		"CF4": 6630, "C2F6": 11100,
		"HFC23": 12400, "HFC32": 677, "HFC125": 3170, "HFC134a": 1300,
		"HFC143a": 4800, "HFC152a": 138, "HFC227ea": 3350, "HFC236fa": 8060,
		"HFC245fa": 858, "HFC4310mee": 1650,
		"CFC11":    4660, "CFC12": 10200, "CFC113": 5820,
		"HCFC22":   1760, "CCl4": 1730,
	},
}

func (r *Registry) loadContexts() {
	// Namespace-collision contexts: these enable molecular-mass conversions
	// which are forbidden by default because the species differ.
	r.contexts["CH4_conversions"] = &conversionContext{
		name: "CH4_conversions",
		transforms: []transform{
			// 1 CH4 carries 12/16 of its mass as carbon.
			{from: "methane", to: "carbon", factor: 12.0 / 16.0},
		},
	}
	r.contexts["NOx_conversions"] = &conversionContext{
		name: "NOx_conversions",
		transforms: []transform{
			// NOx is reported on an NO2 basis: 1 NOx carries 14/46 nitrogen.
			{from: "NOx", to: "nitrogen", factor: 14.0 / 46.0},
		},
	}

	for name, table := range r.gwpTransforms() {
		r.contexts[name] = &conversionContext{name: name, transforms: table}
	}
}

// gwpTransforms converts the per-species GWP tables into dimension
// transformations targeting [carbon].
func (r *Registry) gwpTransforms() map[string][]transform {
	out := make(map[string][]transform, len(gwpContexts))
	co2, ok := r.units["CO2"]
	if !ok {
		return out
	}
	for name, table := range gwpContexts {
		species := make([]string, 0, len(table))
		for s := range table {
			species = append(species, s)
		}
		sort.Strings(species)

		transforms := make([]transform, 0, len(species))
		for _, s := range species {
			u, ok := r.units[s]
			if !ok {
				continue
			}
			dim := soleDimension(u.d)
			if dim == "" || dim == "carbon" {
				continue
			}
			// One unit of dim is 1/u.factor units of species s, each worth
			// gwp units of CO2, i.e. gwp*co2.factor units of carbon.
			transforms = append(transforms, transform{
				from:   dim,
				to:     "carbon",
				factor: table[s] * co2.factor / u.factor,
			})
		}
		out[name] = transforms
	}
	return out
}

// soleDimension returns the only dimension of d with exponent one, or "".
func soleDimension(d dims) string {
	if len(d) != 1 {
		return ""
	}
	for k, v := range d {
		if v == 1 {
			return k
		}
	}
	return ""
}

// Contexts lists the registered conversion contexts.
func (r *Registry) Contexts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.contexts))
	for name := range r.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
