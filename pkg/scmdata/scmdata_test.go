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

package scmdata_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/scmrun/pkg/scmdata"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

func years(ys ...int) timeseries.TimePoints {
	var out timeseries.TimePoints
	for _, y := range ys {
		out = append(out, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func testData(t *testing.T) *scmdata.ScmData {
	t.Helper()
	d, err := scmdata.New(years(2005, 2010, 2015), []scmdata.Row{
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario", Region: "World",
				Variable: "Primary Energy", Unit: "EJ/yr"},
			Values: []float64{1, 6, 6},
		},
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario", Region: "World",
				Variable: "Primary Energy|Coal", Unit: "EJ/yr"},
			Values: []float64{0.5, 3, 3},
		},
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario2", Region: "World",
				Variable: "Primary Energy", Unit: "EJ/yr"},
			Values: []float64{2, 7, 7},
		},
	})
	require.NoError(t, err)
	return d
}

func variables(d *scmdata.ScmData) []string { return d.Values("variable") }

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := scmdata.New(years(2005, 2010), []scmdata.Row{
		{Meta: scmdata.Meta{Variable: "Primary Energy"}, Values: []float64{1}},
	})
	assert.Error(t, err)
}

func TestFilterByVariableGlob(t *testing.T) {
	d := testData(t)

	sub, err := d.Filter(scmdata.Filter{Variable: []string{"Primary Energy|*"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy|Coal"}, variables(sub))

	all, err := d.Filter(scmdata.Filter{Variable: []string{"Primary*"}})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())
}

func TestFilterByLevel(t *testing.T) {
	d := testData(t)

	tests := []struct {
		level string
		want  []string
	}{
		{"0", []string{"Primary Energy"}},
		{"1", []string{"Primary Energy|Coal"}},
		{"0+", []string{"Primary Energy", "Primary Energy|Coal"}},
		{"1+", []string{"Primary Energy|Coal"}},
		{"0-", []string{"Primary Energy"}},
		{"1-", []string{"Primary Energy", "Primary Energy|Coal"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			sub, err := d.Filter(scmdata.Filter{Level: tt.level})
			require.NoError(t, err)
			assert.Equal(t, tt.want, variables(sub))
		})
	}

	_, err := d.Filter(scmdata.Filter{Level: "1/"})
	assert.ErrorContains(t, err, "invalid level")
}

func TestFilterByLevelInvert(t *testing.T) {
	d := testData(t)

	deep, err := d.Filter(scmdata.Filter{Level: "0", Invert: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy|Coal"}, variables(deep))
}

func TestFilterByScenarioAndInvert(t *testing.T) {
	d := testData(t)

	one, err := d.Filter(scmdata.Filter{Scenario: []string{"a_scenario"}})
	require.NoError(t, err)
	assert.Equal(t, 2, one.Len())

	rest, err := d.Filter(scmdata.Filter{Scenario: []string{"a_scenario"}, Invert: true})
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Len())
	assert.Equal(t, []string{"a_scenario2"}, rest.Values("scenario"))
}

func TestFilterByYear(t *testing.T) {
	d := testData(t)

	sub, err := d.Filter(scmdata.Filter{Years: []int{2005, 2010}})
	require.NoError(t, err)
	assert.Len(t, sub.Times(), 2)
	assert.Equal(t, []float64{1, 6}, sub.Rows()[0].Values)

	dropped, err := d.Filter(scmdata.Filter{Years: []int{2005}, Invert: true})
	require.NoError(t, err)
	assert.Len(t, dropped.Times(), 2)
	assert.Equal(t, 2010, dropped.Times()[0].Year())
}

func TestFilterInvertMasksIntersectingCells(t *testing.T) {
	d := testData(t)

	// Inverting with both a metadata and a year constraint keeps the whole
	// grid and blanks only the matched cells.
	masked, err := d.Filter(scmdata.Filter{
		Variable: []string{"Primary Energy|Coal"},
		Years:    []int{2005},
		Invert:   true,
	})
	require.NoError(t, err)
	require.Equal(t, 3, masked.Len())
	require.Len(t, masked.Times(), 3)

	sub, err := masked.Filter(scmdata.Filter{Scenario: []string{"a_scenario"}})
	require.NoError(t, err)
	require.Equal(t, 2, sub.Len())

	rows := sub.Rows()
	assert.Equal(t, []float64{1, 6, 6}, rows[0].Values)
	assert.True(t, math.IsNaN(rows[1].Values[0]))
	assert.Equal(t, []float64{3, 3}, rows[1].Values[1:])
}

func TestFilterRegexp(t *testing.T) {
	d := testData(t)

	sub, err := d.Filter(scmdata.Filter{Scenario: []string{"a_scenario[0-9]"}, Regexp: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_scenario2"}, sub.Values("scenario"))

	// Without Regexp the bracket is literal and matches nothing.
	none, err := d.Filter(scmdata.Filter{Scenario: []string{"a_scenario[0-9]"}})
	require.NoError(t, err)
	assert.Zero(t, none.Len())
}

func TestAppendAlignsAxesWithNaN(t *testing.T) {
	d := testData(t)
	other, err := scmdata.New(years(2010, 2015, 2020), []scmdata.Row{
		{
			Meta: scmdata.Meta{Model: "b_iam", Scenario: "b_scenario", Region: "World",
				Variable: "Primary Energy", Unit: "EJ/yr"},
			Values: []float64{3, 4, 5},
		},
	})
	require.NoError(t, err)

	merged, err := d.Append(other)
	require.NoError(t, err)
	require.Len(t, merged.Times(), 4)
	assert.Equal(t, 4, merged.Len())

	rows := merged.Rows()
	// Old rows gain NaN at 2020, the new row at 2005.
	assert.True(t, math.IsNaN(rows[0].Values[3]))
	last := rows[3]
	assert.Equal(t, "b_iam", last.Model)
	assert.True(t, math.IsNaN(last.Values[0]))
	assert.Equal(t, []float64{3, 4, 5}, last.Values[1:])
}

func TestAppendAveragesDuplicates(t *testing.T) {
	d := testData(t)
	dup, err := scmdata.New(years(2005, 2010, 2015), []scmdata.Row{
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario", Region: "World",
				Variable: "Primary Energy", Unit: "EJ/yr"},
			Values: []float64{3, 8, 8},
		},
	})
	require.NoError(t, err)

	merged, err := d.Append(dup)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Len())

	rows := merged.Rows()
	assert.Equal(t, []float64{2, 7, 7}, rows[0].Values)
}
