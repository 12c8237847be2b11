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

// Package fake provides a minimal linear climate model. Warming is the
// transient response scalar times cumulative CO2 emissions. It runs fast,
// supports stepping and is used by tests and as a stand-in model on the
// command line.
package fake

import (
	"context"
	"fmt"
	"time"

	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

// Name is the registry name of the model.
const Name = "fake"

// DefaultResponse is the warming per cumulative emissions used when the
// input parameter is left empty, in delta_degC/GtC.
const DefaultResponse = 0.0016

var (
	emissionsName   = core.Name{"Emissions", "CO2"}
	responseName    = core.Name{"Transient Response"}
	temperatureName = core.Name{"Surface Temperature Increase"}
)

func init() {
	adapter.Register(Name, New)
}

// Adapter implements the fake model.
type Adapter struct {
	adapter.Base

	axis        timeseries.TimePoints
	emissions   *core.TimeseriesView
	response    *core.ScalarView
	temperature *core.TimeseriesView

	temps      []float64
	cumulative float64
	stepIndex  int
}

// New builds an instance; most callers go through the registry.
func New(in, out *core.ParameterSet) (adapter.Adapter, error) {
	a := &Adapter{}
	a.BindParameterSets(in, out)
	return a, nil
}

// Initialize reads the run period and acquires parameter views on a yearly
// axis spanning it.
func (a *Adapter) Initialize() error {
	if err := a.ReadRunPeriod(); err != nil {
		return err
	}

	for y := a.Start().Year(); y <= a.Stop().Year(); y++ {
		a.axis = append(a.axis, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if len(a.axis) < 2 {
		return fmt.Errorf("run period %s to %s spans no full year", a.Start(), a.Stop())
	}

	var err error
	a.emissions, err = a.In.Timeseries(emissionsName, core.World, "GtC/a", a.axis,
		timeseries.KindAverage, timeseries.InterpolationLinear, timeseries.ExtrapolationConstant)
	if err != nil {
		return err
	}
	a.response, err = a.In.Scalar(responseName, core.World, "delta_degC/GtC")
	if err != nil {
		return err
	}
	a.temperature, err = a.Out.Timeseries(temperatureName, core.World, "delta_degC", a.axis,
		timeseries.KindPoint, timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	if err != nil {
		return err
	}
	return nil
}

func (a *Adapter) InitializeModelInput() error { return nil }

func (a *Adapter) InitializeRunParameters() error { return nil }

// Reset rewinds to the start of the run period.
func (a *Adapter) Reset() error {
	a.temps = make([]float64, len(a.axis))
	a.cumulative = 0
	a.stepIndex = 0
	return nil
}

// emissionValues returns the emission periods, zeros when the parameter is
// empty.
func (a *Adapter) emissionValues() ([]float64, error) {
	if a.emissions.Empty() {
		return make([]float64, len(a.axis)-1), nil
	}
	return a.emissions.Values()
}

func (a *Adapter) responseValue() (float64, error) {
	if a.response.Empty() {
		return DefaultResponse, nil
	}
	return a.response.Value()
}

// Run computes the whole temperature series and writes it to the output
// set.
func (a *Adapter) Run(ctx context.Context) error {
	for a.stepIndex < len(a.axis)-1 {
		if _, err := a.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step advances one year and publishes the series computed so far.
func (a *Adapter) Step(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if a.temps == nil {
		if err := a.Reset(); err != nil {
			return time.Time{}, err
		}
	}
	if a.stepIndex >= len(a.axis)-1 {
		return a.axis[len(a.axis)-1], nil
	}

	emissions, err := a.emissionValues()
	if err != nil {
		return time.Time{}, err
	}
	response, err := a.responseValue()
	if err != nil {
		return time.Time{}, err
	}

	a.cumulative += emissions[a.stepIndex]
	a.temps[a.stepIndex+1] = response * a.cumulative
	a.stepIndex++

	if err := a.temperature.Set(a.temps); err != nil {
		return time.Time{}, err
	}
	return a.axis[a.stepIndex], nil
}

func (a *Adapter) Shutdown() error { return nil }
