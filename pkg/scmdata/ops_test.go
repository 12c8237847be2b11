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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/scmdata"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

func TestInterpolate(t *testing.T) {
	d := testData(t)

	interpolated, err := d.Interpolate(years(2005, 2007, 2010), timeseries.ExtrapolationNone)
	require.NoError(t, err)
	got := interpolated.Rows()[0].Values
	assert.InDelta(t, 1, got[0], 1e-9)
	assert.InDelta(t, 3, got[1], 0.01)
	assert.InDelta(t, 6, got[2], 1e-9)

	// Beyond the axis needs extrapolation.
	_, err = d.Interpolate(years(2005, 2020), timeseries.ExtrapolationNone)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)

	extended, err := d.Interpolate(years(2005, 2015, 2020), timeseries.ExtrapolationConstant)
	require.NoError(t, err)
	assert.InDelta(t, 6, extended.Rows()[0].Values[2], 1e-9)
}

func TestResample(t *testing.T) {
	d := testData(t)

	annual, err := d.Resample()
	require.NoError(t, err)
	times := annual.Times()
	require.Len(t, times, 11)
	assert.Equal(t, 2005, times[0].Year())
	assert.Equal(t, 2015, times[10].Year())

	got := annual.Rows()[0].Values
	assert.InDelta(t, 1, got[0], 1e-9)
	assert.InDelta(t, 6, got[10], 1e-9)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1]-1e-9)
	}
}

func TestConvertUnit(t *testing.T) {
	d, err := scmdata.New(years(2005, 2010, 2015), []scmdata.Row{
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario", Region: "World",
				Variable: "Emissions|CH4", Unit: "MtCH4/yr"},
			Values: []float64{1, 2, 3},
		},
	})
	require.NoError(t, err)

	converted, err := d.ConvertUnit("MtCO2/yr", "AR4GWP100")
	require.NoError(t, err)
	row := converted.Rows()[0]
	assert.Equal(t, "MtCO2/yr", row.Unit)
	assert.InDeltaSlice(t, []float64{25, 50, 75}, row.Values, 1e-9)

	// Species conversion without a context is a dimensionality error.
	_, err = d.ConvertUnit("MtCO2/yr", "")
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	d := testData(t)
	renamed := d.Rename("scenario", map[string]string{"a_scenario": "ssp119"})
	assert.ElementsMatch(t, []string{"ssp119", "a_scenario2"}, renamed.Values("scenario"))
}

func TestProcessOverMean(t *testing.T) {
	d := testData(t)

	mean, err := d.ProcessOver([]string{"scenario"}, scmdata.OpMean, 0)
	require.NoError(t, err)
	require.Equal(t, 2, mean.Len())

	rows := mean.Rows()
	assert.Equal(t, "Primary Energy", rows[0].Variable)
	assert.Empty(t, rows[0].Scenario)
	assert.InDeltaSlice(t, []float64{1.5, 6.5, 6.5}, rows[0].Values, 1e-9)
	assert.InDeltaSlice(t, []float64{0.5, 3, 3}, rows[1].Values, 1e-9)
}

func TestProcessOverQuantile(t *testing.T) {
	rows := make([]scmdata.Row, 0, 3)
	for i, member := range []string{"0", "1", "2"} {
		rows = append(rows, scmdata.Row{
			Meta: scmdata.Meta{Model: "m", Scenario: "s", Region: "World",
				Variable: "Surface Temperature Increase", Unit: "delta_degC",
				Extra: map[string]string{"ensemble_member": member}},
			Values: []float64{float64(i + 1), float64(2 * (i + 1))},
		})
	}
	d, err := scmdata.New(years(2005, 2010), rows)
	require.NoError(t, err)

	median, err := d.ProcessOver([]string{"ensemble_member"}, scmdata.OpMedian, 0)
	require.NoError(t, err)
	require.Equal(t, 1, median.Len())
	assert.InDeltaSlice(t, []float64{2, 4}, median.Rows()[0].Values, 1e-9)

	q, err := d.ProcessOver([]string{"ensemble_member"}, scmdata.OpQuantile, 0.5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4}, q.Rows()[0].Values, 1e-9)

	_, err = d.ProcessOver([]string{"ensemble_member"}, scmdata.OpQuantile, 1.5)
	assert.Error(t, err)
}

func TestRelativeToRefPeriodMean(t *testing.T) {
	d := testData(t)

	rel, err := d.RelativeToRefPeriodMean(2005, 2010)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-2.5, 2.5, 2.5}, rel.Rows()[0].Values, 1e-9)

	_, err = d.RelativeToRefPeriodMean(1990, 1995)
	assert.ErrorIs(t, err, scmdata.ErrNoMatch)
}

func TestParameterSetRoundTrip(t *testing.T) {
	times := years(2006, 2007, 2008)
	d, err := scmdata.New(times, []scmdata.Row{
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario", Region: "World",
				Variable: "Emissions|CO2", Unit: "GtC/a"},
			Values: []float64{9, 10, 11},
		},
		{
			Meta: scmdata.Meta{Model: "a_iam", Scenario: "a_scenario", Region: "World",
				Variable: "Surface Temperature Increase", Unit: "delta_degC"},
			Values: []float64{0.8, 0.9, 1.0},
		},
	})
	require.NoError(t, err)

	ps := core.NewParameterSet()
	require.NoError(t, d.ToParameterSet(ps))

	// Emissions land as an average series by convention.
	var kinds []core.ParameterKind
	var tsKinds []timeseries.Kind
	ps.Walk(func(info core.ParameterInfo) {
		kinds = append(kinds, info.Kind)
		tsKinds = append(tsKinds, info.TimeseriesKind)
	})
	require.Len(t, kinds, 2)
	assert.Equal(t, core.KindTimeseries, kinds[0])
	assert.Equal(t, timeseries.KindAverage, tsKinds[0])
	assert.Equal(t, timeseries.KindPoint, tsKinds[1])

	back, err := scmdata.FromParameterSet(ps, times, scmdata.Meta{Model: "a_iam", Scenario: "a_scenario"})
	require.NoError(t, err)
	require.Equal(t, 2, back.Len())

	rows := back.Rows()
	assert.Equal(t, "Emissions|CO2", rows[0].Variable)
	assert.InDeltaSlice(t, []float64{9, 10, 11}, rows[0].Values, 1e-9)
	assert.Equal(t, "Surface Temperature Increase", rows[1].Variable)
	assert.InDeltaSlice(t, []float64{0.8, 0.9, 1.0}, rows[1].Values, 1e-9)
}

func TestCSVRoundTrip(t *testing.T) {
	d := testData(t)

	var buf bytes.Buffer
	require.NoError(t, d.WriteCSV(&buf))
	assert.Contains(t, buf.String(), "2005,2010,2015")

	back, err := scmdata.LoadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, d.Len(), back.Len())
	assert.True(t, d.Times().Equal(back.Times()))
	assert.Equal(t, d.Rows()[1].Values, back.Rows()[1].Values)
	assert.Equal(t, "Primary Energy|Coal", back.Rows()[1].Variable)
}

func TestLoadYAML(t *testing.T) {
	in := `
years: [2006, 2007, 2008]
timeseries:
  - model: a_iam
    scenario: a_scenario
    region: World
    variable: Emissions|CO2
    unit: GtC/a
    values: [9, 10, 11]
`
	d, err := scmdata.LoadYAML(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())
	assert.Equal(t, 2006, d.Times()[0].Year())
	assert.Equal(t, []float64{9, 10, 11}, d.Rows()[0].Values)

	_, err = scmdata.LoadYAML(strings.NewReader("timeseries: []\n"))
	assert.Error(t, err)
}
