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
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Filter selects rows by metadata and times by year. Every set dimension
// must match; within one dimension any of the given patterns may match.
// Patterns are globs where "*" spans hierarchy levels, or full regular
// expressions with Regexp set.
type Filter struct {
	Model        []string
	Scenario     []string
	Region       []string
	Variable     []string
	Unit         []string
	ClimateModel []string
	Extra        map[string][]string

	// Level restricts the variable hierarchy depth, counted in "|"
	// separators: "1" matches exactly one, "0+" at least zero, "1-" at
	// most one.
	Level string

	// Years keeps only time points falling in the given years.
	Years []int

	// Invert drops what the filter matches instead of keeping it. When
	// both metadata and Years are constrained, only the cells matched by
	// both are dropped: the grid keeps its rows and times and the matched
	// cells become NaN.
	Invert bool

	// Regexp treats patterns as anchored regular expressions.
	Regexp bool
}

// Filter returns the subset of rows and times selected by f.
func (d *ScmData) Filter(f Filter) (*ScmData, error) {
	match, constrained, err := f.matcher()
	if err != nil {
		return nil, err
	}
	yearConstrained := len(f.Years) > 0

	if f.Invert && constrained && yearConstrained {
		return d.maskMatches(match, f.yearIn), nil
	}

	timeKeep := make([]bool, len(d.times))
	for i, t := range d.times {
		timeKeep[i] = !yearConstrained || f.yearIn(t.Year()) != f.Invert
	}

	out := &ScmData{}
	for i, keep := range timeKeep {
		if keep {
			out.times = append(out.times, d.times[i])
		}
	}
	if len(out.times) == 0 {
		return nil, fmt.Errorf("%w: no time points left after year filter", ErrNoMatch)
	}

	for _, r := range d.rows {
		keep := match(r.Meta)
		if f.Invert {
			// Inverting a filter without metadata constraints only drops
			// times.
			keep = !keep || !constrained
		}
		if !keep {
			continue
		}
		row := Row{Meta: r.Meta.clone()}
		for i, keep := range timeKeep {
			if keep {
				row.Values = append(row.Values, r.Values[i])
			}
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// maskMatches keeps the full row and time grid, replacing with NaN the
// cells of matching rows at matching years.
func (d *ScmData) maskMatches(match func(Meta) bool, yearIn func(int) bool) *ScmData {
	out := &ScmData{}
	out.times = append(out.times, d.times...)
	for _, r := range d.rows {
		row := Row{Meta: r.Meta.clone(), Values: append([]float64(nil), r.Values...)}
		if match(r.Meta) {
			for i, t := range d.times {
				if yearIn(t.Year()) {
					row.Values[i] = math.NaN()
				}
			}
		}
		out.rows = append(out.rows, row)
	}
	return out
}

func (f Filter) yearIn(year int) bool {
	for _, y := range f.Years {
		if y == year {
			return true
		}
	}
	return false
}

func (f Filter) matcher() (func(Meta) bool, bool, error) {
	type dimension struct {
		column   string
		patterns []string
	}
	dims := []dimension{
		{"model", f.Model},
		{"scenario", f.Scenario},
		{"region", f.Region},
		{"variable", f.Variable},
		{"unit", f.Unit},
		{"climate_model", f.ClimateModel},
	}
	for column, patterns := range f.Extra {
		dims = append(dims, dimension{column, patterns})
	}

	type compiled struct {
		column string
		res    []*regexp.Regexp
	}
	var checks []compiled
	for _, dim := range dims {
		if len(dim.patterns) == 0 {
			continue
		}
		c := compiled{column: dim.column}
		for _, p := range dim.patterns {
			re, err := f.compile(p)
			if err != nil {
				return nil, false, fmt.Errorf("filter on %s: %w", dim.column, err)
			}
			c.res = append(c.res, re)
		}
		checks = append(checks, c)
	}

	levelMatch, err := f.levelMatcher()
	if err != nil {
		return nil, false, err
	}

	constrained := len(checks) > 0 || levelMatch != nil
	return func(m Meta) bool {
		for _, c := range checks {
			value := m.get(c.column)
			ok := false
			for _, re := range c.res {
				if re.MatchString(value) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		if levelMatch != nil && !levelMatch(strings.Count(m.Variable, "|")) {
			return false
		}
		return true
	}, constrained, nil
}

// levelMatcher parses the Level constraint: an exact depth like "1", or a
// one-sided range like "0+" (at least) and "1-" (at most).
func (f Filter) levelMatcher() (func(int) bool, error) {
	if f.Level == "" {
		return nil, nil
	}
	spec := f.Level
	var mode byte
	if last := spec[len(spec)-1]; last == '+' || last == '-' {
		mode = last
		spec = spec[:len(spec)-1]
	}
	depth, err := strconv.Atoi(spec)
	if err != nil || depth < 0 {
		return nil, fmt.Errorf("invalid level %q, want a depth like \"1\", \"0+\" or \"1-\"", f.Level)
	}
	switch mode {
	case '+':
		return func(n int) bool { return n >= depth }, nil
	case '-':
		return func(n int) bool { return n <= depth }, nil
	default:
		return func(n int) bool { return n == depth }, nil
	}
}

func (f Filter) compile(pattern string) (*regexp.Regexp, error) {
	if f.Regexp {
		return regexp.Compile("^(?:" + pattern + ")$")
	}
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	quoted = strings.ReplaceAll(quoted, `\?`, ".")
	return regexp.Compile("^" + quoted + "$")
}

// FilterVariable is shorthand for a single-variable glob filter.
func (d *ScmData) FilterVariable(pattern string) (*ScmData, error) {
	return d.Filter(Filter{Variable: []string{pattern}})
}
