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

package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

func TestScalarViewConversion(t *testing.T) {
	ps := core.NewParameterSet()
	name := core.Name{"Equilibrium Climate Sensitivity"}

	writer, err := ps.Scalar(name, core.World, "degC")
	require.NoError(t, err)
	assert.True(t, writer.Empty())

	v, err := writer.Value()
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, writer.Set(3))
	assert.False(t, writer.Empty())

	reader, err := ps.Scalar(name, core.World, "K")
	require.NoError(t, err)
	got, err := reader.Value()
	require.NoError(t, err)
	assert.InDelta(t, 276.15, got, 1e-9)

	// Writing through the kelvin view round-trips.
	require.NoError(t, reader.Set(274.15))
	got, err = writer.Value()
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-9)
}

func TestScalarViewFirstWriterFixesUnit(t *testing.T) {
	ps := core.NewParameterSet()
	name := core.Name{"Radiative Forcing", "CO2"}

	milli, err := ps.Scalar(name, core.World, "mW/m^2")
	require.NoError(t, err)
	require.NoError(t, milli.Set(500))

	base, err := ps.Scalar(name, core.World, "W/m^2")
	require.NoError(t, err)
	got, err := base.Value()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestParameterKindMismatch(t *testing.T) {
	ps := core.NewParameterSet()
	name := core.Name{"Model Flags"}

	_, err := ps.Generic(name, core.World)
	require.NoError(t, err)

	_, err = ps.Scalar(name, core.World, "dimensionless")
	assert.ErrorIs(t, err, core.ErrParameterKind)

	_, err = ps.Timeseries(name, core.World, "GtC/a",
		timeseries.CreateTimePoints(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 365*24*time.Hour, 3, timeseries.KindAverage),
		timeseries.KindAverage, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	assert.ErrorIs(t, err, core.ErrParameterKind)
}

func TestGenericView(t *testing.T) {
	ps := core.NewParameterSet()

	v, err := ps.Generic(core.Name{"Scenario"}, core.World)
	require.NoError(t, err)
	assert.True(t, v.Empty())
	assert.Nil(t, v.Value())

	v.Set("RCP2.6")
	assert.False(t, v.Empty())
	assert.Equal(t, "RCP2.6", v.Value())
}

func TestTimeseriesViewUnitConversion(t *testing.T) {
	ps := core.NewParameterSet()
	name := core.Name{"Emissions", "CO2"}
	start := time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := timeseries.CreateTimePoints(start, 365*24*time.Hour, 4, timeseries.KindAverage)

	writer, err := ps.Timeseries(name, core.World, "GtC/a", axis,
		timeseries.KindAverage, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	require.NoError(t, err)
	assert.True(t, writer.Empty())
	assert.Equal(t, 4, writer.Length())

	vals, err := writer.Values()
	require.NoError(t, err)
	assert.Nil(t, vals)

	require.NoError(t, writer.Set([]float64{9, 10, 11, 12}))

	reader, err := ps.Timeseries(name, core.World, "MtC/a", axis,
		timeseries.KindAverage, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	require.NoError(t, err)
	got, err := reader.Values()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{9000, 10000, 11000, 12000}, got, 1e-9)
}

func TestTimeseriesViewAxisConversion(t *testing.T) {
	ps := core.NewParameterSet()
	name := core.Name{"Emissions", "CH4"}
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	period := 24 * time.Hour
	fine := timeseries.CreateTimePoints(start, period, 4, timeseries.KindAverage)
	coarse := timeseries.CreateTimePoints(start, 2*period, 2, timeseries.KindAverage)

	writer, err := ps.Timeseries(name, core.World, "MtCH4/a", fine,
		timeseries.KindAverage, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	require.NoError(t, err)
	require.NoError(t, writer.Set([]float64{1, 2, 3, 4}))

	reader, err := ps.Timeseries(name, core.World, "MtCH4/a", coarse,
		timeseries.KindAverage, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	require.NoError(t, err)
	got, err := reader.Values()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 3.5}, got, 1e-9)
}

func TestTimeseriesViewValueCount(t *testing.T) {
	ps := core.NewParameterSet()
	axis := timeseries.CreateTimePoints(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		365*24*time.Hour, 5, timeseries.KindPoint)

	v, err := ps.Timeseries(core.Name{"Surface Temperature"}, core.World, "degC", axis,
		timeseries.KindPoint, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	require.NoError(t, err)

	err = v.Set([]float64{1, 2, 3})
	assert.ErrorIs(t, err, core.ErrValueCount)
}

func TestWalkSnapshot(t *testing.T) {
	ps := core.NewParameterSet()

	s, err := ps.Scalar(core.Name{"b"}, core.World, "W/m^2")
	require.NoError(t, err)
	require.NoError(t, s.Set(1.5))

	g, err := ps.Generic(core.Name{"a"}, core.World)
	require.NoError(t, err)
	g.Set(42)

	var names []string
	ps.Walk(func(info core.ParameterInfo) {
		names = append(names, info.Name.String())
		assert.False(t, info.Empty)
	})
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, 2, ps.Len())
}

func TestNameAndRegionParsing(t *testing.T) {
	n := core.ParseName("Emissions|CO2|Industrial")
	assert.Equal(t, core.Name{"Emissions", "CO2", "Industrial"}, n)
	assert.Equal(t, "Emissions|CO2|Industrial", n.String())
	assert.True(t, n.Equal(core.Name{"Emissions", "CO2", "Industrial"}))
	assert.False(t, n.Equal(core.Name{"Emissions"}))

	r := core.ParseRegion("World|R5ASIA")
	assert.Equal(t, core.Region{"World", "R5ASIA"}, r)
	assert.True(t, core.World.Equal(core.Region{"World"}))
}
