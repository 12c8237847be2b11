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

// Package dice implements the climate component of the Dynamic Integrated
// Climate-Economy model (DICE 2013) by William Nordhaus.
//
// Original source: https://sites.google.com/site/williamdnordhaus/dice-rice
//
// The model couples a three-box carbon cycle (atmosphere, shallow ocean,
// lower ocean), logarithmic CO2 radiative forcing with an exogenous ramp
// for other greenhouse gases, and a two-box temperature model. Variable
// naming follows the original GAMS code.
package dice

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

// Name is the registry name of the model.
const Name = "dice"

// year is the model's native period length.
const year = 365 * 24 * time.Hour

// originalCO2ToC is the rounded tCO2-to-tC conversion factor used by the
// original code. Kept to reproduce original output; disable the
// original_rounding parameter for the exact factor.
const originalCO2ToC = 3.666

// scalarDefaults are the model parameters exposed under ("DICE", <name>),
// with values from the DICE-2013R vanilla release.
var scalarDefaults = []struct {
	name    string
	value   float64
	unit    string
	comment string
}{
	{"mat0", 830.4, "GtC", "initial atmospheric pool in 2010"},
	{"mateq", 588, "GtC", "equilibrium atmospheric pool"},
	{"mat_lower", 10, "GtC", ""},
	{"ml0", 10010, "GtC", "initial lower-ocean pool in 2010"},
	{"mleq", 10000, "GtC", "equilibrium lower-ocean pool"},
	{"ml_lower", 1000, "GtC", ""},
	{"mu0", 1527, "GtC", "initial shallow-ocean pool in 2010"},
	{"mueq", 1350, "GtC", "equilibrium shallow-ocean pool"},
	{"mu_lower", 100, "GtC", ""},
	{"tatm0", 0.8, "degC", "initial atmospheric warming from 1900"},
	{"tatm_upper", 40, "degC", ""},
	{"tocean0", 0.0068, "degC", "initial lower-ocean warming from 1900"},
	{"tocean_lower", -1, "degC", ""},
	{"tocean_upper", 20, "degC", ""},
	{"b12", 0.0181, "dimensionless", "carbon cycle transition matrix"},
	{"b23", 0.00071, "dimensionless", "carbon cycle transition matrix"},
	{"c1", 0.0222, "degC*m^2/W", "climate equation coefficient, upper level"},
	{"c3", 0.09175, "W/m^2/degC", "transfer coefficient upper to lower stratum"},
	{"c4", 0.00487, "dimensionless", "transfer coefficient, lower level"},
	{"fco22x", 3.8, "W/m^2", "forcing of equilibrium CO2 doubling"},
	{"fex0", 0.25, "W/m^2", "2010 forcing of non-CO2 greenhouse gases"},
	{"fex1", 0.7, "W/m^2", "2100 forcing of non-CO2 greenhouse gases"},
	{"t2xco2", 2.9, "degC", "equilibrium climate sensitivity"},
}

func init() {
	adapter.Register(Name, New)
}

// Adapter runs the DICE climate component.
type Adapter struct {
	adapter.Base

	scalars map[string]*core.ScalarView

	periodLength      *core.GenericView
	originalRounding  *core.GenericView
	forcothSaturation *core.GenericView

	emissions *core.TimeseriesView
	mat       *core.TimeseriesView
	ml        *core.TimeseriesView
	mu        *core.TimeseriesView
	tatm      *core.TimeseriesView
	tocean    *core.TimeseriesView
	forc      *core.TimeseriesView

	timestep      int
	timestepCount int
	pointAxis     timeseries.TimePoints

	// run state, allocated by Reset
	matV, mlV, muV, tatmV, toceanV, forcV []float64
	b11, b21, b22, b32, b33               float64
	p                                     runParams
	emissionValues                        []float64
}

// runParams is the scalar parameter snapshot a run works with.
type runParams struct {
	mat0, mateq, matLower      float64
	ml0, mleq, mlLower         float64
	mu0, mueq, muLower         float64
	tatm0, tatmUpper           float64
	tocean0, toceanLwr, tocUpr float64
	b12, b23, c1, c3, c4       float64
	fco22x, fex0, fex1, t2xco2 float64

	periodLength time.Duration
	rounding     bool
	saturation   time.Time
}

// New builds an instance; most callers go through the registry.
func New(in, out *core.ParameterSet) (adapter.Adapter, error) {
	a := &Adapter{scalars: make(map[string]*core.ScalarView)}
	a.BindParameterSets(in, out)
	return a, nil
}

// Initialize publishes the model parameter defaults into the input set.
// Callers overwrite them through views on ("DICE", <name>) before running.
func (a *Adapter) Initialize() error {
	if err := a.ReadRunPeriod(); err != nil {
		return err
	}

	for _, d := range scalarDefaults {
		view, err := a.In.Scalar(core.Name{"DICE", d.name}, core.World, d.unit)
		if err != nil {
			return err
		}
		if err := view.Set(d.value); err != nil {
			return err
		}
		a.scalars[d.name] = view
	}

	for _, g := range []struct {
		name    string
		dst     **core.GenericView
		initial any
	}{
		{"period_length", &a.periodLength, year},
		{"original_rounding", &a.originalRounding, true},
		{"forcoth_saturation_time", &a.forcothSaturation,
			time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)},
	} {
		view, err := a.In.Generic(core.Name{"DICE", g.name}, core.World)
		if err != nil {
			return err
		}
		view.Set(g.initial)
		*g.dst = view
	}
	return nil
}

func (a *Adapter) InitializeModelInput() error { return nil }

// InitializeRunParameters sizes the time axes from the run period and
// acquires the emissions input and output views.
func (a *Adapter) InitializeRunParameters() error {
	period, _ := a.periodLength.Value().(time.Duration)
	if period <= 0 {
		return fmt.Errorf("period_length must be a positive duration, got %v", a.periodLength.Value())
	}
	rounding, _ := a.originalRounding.Value().(bool)

	// The stop time itself gets a timestep.
	a.timestep = 0
	a.timestepCount = int(a.Stop().Sub(a.Start())/period) + 1
	if a.timestepCount < 2 {
		return fmt.Errorf("run period %s to %s is shorter than one period", a.Start(), a.Stop())
	}

	a.pointAxis = timeseries.CreateTimePoints(a.Start(), period, a.timestepCount, timeseries.KindPoint)
	averageAxis := timeseries.CreateTimePoints(a.Start(), period, a.timestepCount, timeseries.KindAverage)

	emissionsUnit := "GtCO2/a"
	if !rounding {
		emissionsUnit = "GtC/a"
	}
	var err error
	a.emissions, err = a.In.Timeseries(core.Name{"Emissions", "CO2"}, core.World,
		emissionsUnit, averageAxis, timeseries.KindAverage,
		timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	if err != nil {
		return err
	}

	for _, o := range []struct {
		name core.Name
		unit string
		dst  **core.TimeseriesView
	}{
		{core.Name{"Pool", "CO2", "Atmosphere"}, "GtC", &a.mat},
		{core.Name{"Pool", "CO2", "Ocean", "lower"}, "GtC", &a.ml},
		{core.Name{"Pool", "CO2", "Ocean", "shallow"}, "GtC", &a.mu},
		{core.Name{"Surface Temperature", "Increase"}, "degC", &a.tatm},
		{core.Name{"Ocean Temperature", "Increase"}, "degC", &a.tocean},
		{core.Name{"Radiative Forcing", "CO2"}, "W/m^2", &a.forc},
	} {
		view, err := a.Out.Timeseries(o.name, core.World, o.unit, a.pointAxis,
			timeseries.KindPoint, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
		if err != nil {
			return err
		}
		*o.dst = view
	}
	return nil
}

func (a *Adapter) scalarValue(name string) (float64, error) {
	view, ok := a.scalars[name]
	if !ok {
		return 0, fmt.Errorf("model parameter %q not initialized", name)
	}
	return view.Value()
}

// readParams snapshots all model parameters so caller overrides between
// runs take effect.
func (a *Adapter) readParams() error {
	dst := map[string]*float64{
		"mat0": &a.p.mat0, "mateq": &a.p.mateq, "mat_lower": &a.p.matLower,
		"ml0": &a.p.ml0, "mleq": &a.p.mleq, "ml_lower": &a.p.mlLower,
		"mu0": &a.p.mu0, "mueq": &a.p.mueq, "mu_lower": &a.p.muLower,
		"tatm0": &a.p.tatm0, "tatm_upper": &a.p.tatmUpper,
		"tocean0": &a.p.tocean0, "tocean_lower": &a.p.toceanLwr, "tocean_upper": &a.p.tocUpr,
		"b12": &a.p.b12, "b23": &a.p.b23,
		"c1": &a.p.c1, "c3": &a.p.c3, "c4": &a.p.c4,
		"fco22x": &a.p.fco22x, "fex0": &a.p.fex0, "fex1": &a.p.fex1,
		"t2xco2": &a.p.t2xco2,
	}
	for name, ptr := range dst {
		v, err := a.scalarValue(name)
		if err != nil {
			return err
		}
		*ptr = v
	}

	a.p.periodLength, _ = a.periodLength.Value().(time.Duration)
	a.p.rounding, _ = a.originalRounding.Value().(bool)
	a.p.saturation, _ = a.forcothSaturation.Value().(time.Time)
	return nil
}

// Reset derives the carbon cycle transition matrix and reinstates the
// initial pools, temperatures and forcing.
func (a *Adapter) Reset() error {
	if err := a.readParams(); err != nil {
		return err
	}

	a.timestep = 0
	a.b11 = 1 - a.p.b12
	a.b21 = a.p.b12 * a.p.mateq / a.p.mueq
	a.b22 = 1 - a.b21 - a.p.b23
	a.b32 = a.p.b23 * a.p.mueq / a.p.mleq
	a.b33 = 1 - a.b32

	n := a.timestepCount
	a.matV = make([]float64, n)
	a.mlV = make([]float64, n)
	a.muV = make([]float64, n)
	a.tatmV = make([]float64, n)
	a.toceanV = make([]float64, n)
	a.forcV = make([]float64, n)

	a.matV[0] = a.p.mat0
	a.mlV[0] = a.p.ml0
	a.muV[0] = a.p.mu0
	a.tatmV[0] = a.p.tatm0
	a.toceanV[0] = a.p.tocean0
	a.forcV[0] = a.p.fco22x*math.Log2(a.p.mat0/a.p.mateq) + a.p.fex0

	if a.emissions.Empty() {
		return fmt.Errorf("input parameter %q is empty", core.Name{"Emissions", "CO2"})
	}
	values, err := a.emissions.Values()
	if err != nil {
		return err
	}
	a.emissionValues = values
	return nil
}

// Run steps the model over the whole run period and publishes the outputs.
func (a *Adapter) Run(ctx context.Context) error {
	for a.timestep < a.timestepCount-1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.calcStep()
	}
	return a.writeOutputs()
}

// Step advances one period and publishes the outputs computed so far.
func (a *Adapter) Step(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if a.matV == nil {
		if err := a.Reset(); err != nil {
			return time.Time{}, err
		}
	}
	if a.timestep < a.timestepCount-1 {
		a.calcStep()
		if err := a.writeOutputs(); err != nil {
			return time.Time{}, err
		}
	}
	return a.pointAxis[a.timestep], nil
}

func (a *Adapter) Shutdown() error { return nil }

// calcStep computes one timestep of the original difference equations.
func (a *Adapter) calcStep() {
	a.timestep++
	t := a.timestep
	p := &a.p

	yearsPerPeriod := float64(p.periodLength) / float64(year)
	emitted := a.emissionValues[t-1] * yearsPerPeriod
	if p.rounding {
		emitted /= originalCO2ToC
	}

	// Carbon concentration increase in atmosphere (GtC from 1750).
	a.matV[t] = max(p.matLower, a.matV[t-1]*a.b11+a.muV[t-1]*a.b21+emitted)

	// Carbon concentration increase in lower oceans (GtC from 1750).
	a.mlV[t] = max(p.mlLower, a.mlV[t-1]*a.b33+a.muV[t-1]*p.b23)

	// Carbon concentration increase in shallow oceans (GtC from 1750).
	a.muV[t] = max(p.muLower, a.matV[t-1]*p.b12+a.muV[t-1]*a.b22+a.mlV[t-1]*a.b32)

	// Increase in temperature of lower oceans (degC from 1900).
	a.toceanV[t] = max(p.toceanLwr, min(p.tocUpr,
		a.toceanV[t-1]+p.c4*(a.tatmV[t-1]-a.toceanV[t-1])))

	// Exogenous forcing for other greenhouse gases, ramping linearly until
	// it saturates.
	now := a.Start().Add(time.Duration(t) * p.periodLength)
	var forcoth float64
	if !now.Before(p.saturation) {
		forcoth = p.fex1
	} else {
		elapsed := float64(time.Duration(t) * p.periodLength)
		total := float64(p.saturation.Sub(a.Start()))
		forcoth = p.fex0 + (p.fex1-p.fex0)*elapsed/total
	}

	// Increase in radiative forcing (W/m^2 from 1900).
	a.forcV[t] = p.fco22x*math.Log2(a.matV[t]/p.mateq) + forcoth

	// Increase in temperature of atmosphere (degC from 1900).
	a.tatmV[t] = min(p.tatmUpper,
		a.tatmV[t-1]+p.c1*(a.forcV[t]-(p.fco22x/p.t2xco2)*a.tatmV[t-1]-
			p.c3*(a.tatmV[t-1]-a.toceanV[t-1])))
}

func (a *Adapter) writeOutputs() error {
	for _, o := range []struct {
		view   *core.TimeseriesView
		values []float64
	}{
		{a.mat, a.matV},
		{a.ml, a.mlV},
		{a.mu, a.muV},
		{a.tatm, a.tatmV},
		{a.tocean, a.toceanV},
		{a.forc, a.forcV},
	} {
		if err := o.view.Set(o.values); err != nil {
			return err
		}
	}
	return nil
}
