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

// Package magicc drives an external MAGICC distribution.
//
// The Model for the Assessment of Greenhouse Gas Induced Climate Change
// projects concentrations, radiative forcing and surface temperatures from
// emissions pathways. The model itself is an external executable configured
// through namelist files; this adapter unpacks a scratch copy of the
// distribution, rewrites its configuration and emissions inputs from the
// input parameter set, runs the binary and reads the reported timeseries
// back into the output parameter set. The model cannot be stepped.
package magicc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

// Name is the registry name of the model.
const Name = "MAGICC6"

// binaryName is the executable expected at the root of the distribution.
const binaryName = "magicc"

const (
	configFileName    = "MAGCFG_USER.CFG"
	emissionsFileName = "CO2_EMISSIONS.IN"
	outputDirName     = "out"
	parametersOutName = "PARAMETERS.CFG"
)

// standardParameterMappings maps canonical parameter names to the model's
// namelist keys.
var standardParameterMappings = map[string]string{
	"Equilibrium Climate Sensitivity": "core_climatesensitivity",
	"Radiative Forcing 2xCO2":         "core_delq2xco2",
}

// parameterUnits gives the unit of namelist parameters the model reports
// back.
var parameterUnits = map[string]string{
	"core_climatesensitivity": "delta_degC",
	"core_delq2xco2":          "W/m^2",
}

// outputFiles maps the data files a run produces to the variable they hold.
var outputFiles = map[string]struct {
	variable string
	unit     string
}{
	"DAT_SURFACE_TEMP.OUT":          {"Surface Temperature", "delta_degC"},
	"DAT_CO2_CONC.OUT":              {"Atmospheric Concentrations|CO2", "ppm"},
	"DAT_TOTAL_INCLVOLCANIC_RF.OUT": {"Radiative Forcing", "W/m^2"},
}

// outputMappings renames model output variables to canonical ones.
var outputMappings = map[string]string{
	"Surface Temperature": "Surface Temperature Increase",
}

var distributionName = core.Name{Name, "distribution"}

func init() {
	adapter.Register(Name, New)
}

// Adapter runs an external MAGICC distribution.
type Adapter struct {
	adapter.Base

	distribution *core.GenericView
	sensitivity  *core.ScalarView
	forcing2x    *core.ScalarView
	emissions    *core.TimeseriesView

	pointAxis timeseries.TimePoints
	scratch   string
}

// New builds an instance; most callers go through the registry.
func New(in, out *core.ParameterSet) (adapter.Adapter, error) {
	a := &Adapter{}
	a.BindParameterSets(in, out)
	return a, nil
}

// Initialize reads the run period and acquires the parameter views. The
// model is driven with yearly data from the start year through the stop
// year.
func (a *Adapter) Initialize() error {
	if err := a.ReadRunPeriod(); err != nil {
		return err
	}
	for y := a.Start().Year(); y <= a.Stop().Year(); y++ {
		a.pointAxis = append(a.pointAxis, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if len(a.pointAxis) < 2 {
		return fmt.Errorf("run period %s to %s spans no full year", a.Start(), a.Stop())
	}

	var err error
	a.distribution, err = a.In.Generic(distributionName, core.World)
	if err != nil {
		return err
	}
	a.sensitivity, err = a.In.Scalar(core.Name{"Equilibrium Climate Sensitivity"}, core.World, "delta_degC")
	if err != nil {
		return err
	}
	a.forcing2x, err = a.In.Scalar(core.Name{"Radiative Forcing 2xCO2"}, core.World, "W/m^2")
	if err != nil {
		return err
	}
	a.emissions, err = a.In.Timeseries(core.Name{"Emissions", "CO2"}, core.World, "GtCO2/a",
		a.pointAxis, timeseries.KindPoint,
		timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
	if err != nil {
		return err
	}
	return nil
}

// InitializeModelInput makes the scratch copy of the distribution the run
// works in.
func (a *Adapter) InitializeModelInput() error {
	dist, _ := a.distribution.Value().(string)
	if dist == "" {
		return fmt.Errorf("input parameter %q must name the model distribution directory", distributionName)
	}
	if _, err := os.Stat(filepath.Join(dist, binaryName)); err != nil {
		return fmt.Errorf("distribution %q misses the %s executable: %w", dist, binaryName, err)
	}

	scratch, err := os.MkdirTemp("", "magicc-run-*")
	if err != nil {
		return err
	}
	if err := copyTree(dist, scratch); err != nil {
		os.RemoveAll(scratch)
		return fmt.Errorf("copying distribution: %w", err)
	}
	a.scratch = scratch
	return nil
}

func (a *Adapter) InitializeRunParameters() error { return nil }

// Reset drops outputs of a previous run.
func (a *Adapter) Reset() error {
	if a.scratch == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(a.scratch, outputDirName))
}

// Run rewrites the configuration and emissions files, invokes the binary
// and reads the outputs back.
func (a *Adapter) Run(ctx context.Context) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("model", Name)

	if err := a.writeConfig(); err != nil {
		return err
	}
	if err := a.writeEmissions(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "./"+binaryName, configFileName)
	cmd.Dir = a.scratch
	log.V(1).Info("invoking model binary", "dir", a.scratch)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("model run failed: %w: %s", err, out)
	}
	return a.readOutputs()
}

func (a *Adapter) Shutdown() error {
	if a.scratch == "" {
		return nil
	}
	err := os.RemoveAll(a.scratch)
	a.scratch = ""
	return err
}

// runKwargs collects the namelist values for this run: the run period, the
// mapped canonical parameters and any passthrough ("MAGICC6", key)
// parameters from the input set.
func (a *Adapter) runKwargs() (map[string]any, error) {
	kwargs := map[string]any{
		"startyear": a.Start().Year(),
		"endyear":   a.Stop().Year(),
	}

	for name, view := range map[string]*core.ScalarView{
		"Equilibrium Climate Sensitivity": a.sensitivity,
		"Radiative Forcing 2xCO2":         a.forcing2x,
	} {
		if view.Empty() {
			continue
		}
		v, err := view.Value()
		if err != nil {
			return nil, err
		}
		kwargs[standardParameterMappings[name]] = v
	}

	var walkErr error
	a.In.Walk(func(info core.ParameterInfo) {
		if walkErr != nil || info.Empty || len(info.Name) != 2 || info.Name[0] != Name {
			return
		}
		if info.Name.Equal(distributionName) {
			return
		}
		switch info.Kind {
		case core.KindScalar:
			kwargs[info.Name[1]] = info.Value
		case core.KindGeneric:
			kwargs[info.Name[1]] = info.Generic
		default:
			walkErr = fmt.Errorf("parameter %q: only scalar and generic values reach the namelist", info.Name)
		}
	})
	return kwargs, walkErr
}

func (a *Adapter) writeConfig() error {
	kwargs, err := a.runKwargs()
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(a.scratch, configFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := writeNamelist(f, "nml_allcfgs", kwargs); err != nil {
		return err
	}
	return f.Close()
}

func (a *Adapter) writeEmissions() error {
	if a.emissions.Empty() {
		return nil
	}
	values, err := a.emissions.Values()
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(a.scratch, emissionsFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintln(f, "! CO2 emissions (GtCO2/a)")
	for i, at := range a.pointAxis {
		fmt.Fprintf(f, "%d %g\n", at.Year(), values[i])
	}
	return f.Close()
}

// readOutputs parses the data files of a finished run into the output
// parameter set.
func (a *Adapter) readOutputs() error {
	outDir := filepath.Join(a.scratch, outputDirName)
	found := 0
	for file, meta := range outputFiles {
		f, err := os.Open(filepath.Join(outDir, file))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		series, err := parseOutput(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("output %s: %w", file, err)
		}
		values, err := series.slice(a.Start().Year(), a.Stop().Year())
		if err != nil {
			return fmt.Errorf("output %s: %w", file, err)
		}

		variable := meta.variable
		if mapped, ok := outputMappings[variable]; ok {
			variable = mapped
		}
		view, err := a.Out.Timeseries(core.ParseName(variable), core.World, meta.unit,
			a.pointAxis, timeseries.KindPoint,
			timeseries.InterpolationLinear, timeseries.ExtrapolationNone)
		if err != nil {
			return err
		}
		if err := view.Set(values); err != nil {
			return err
		}
		found++
	}
	if found == 0 {
		return fmt.Errorf("model run reported no known output files in %s", outDir)
	}
	return a.readReportedParameters(outDir)
}

// readReportedParameters copies namelist parameters the model reports back
// into the output set. Parameters without a known unit are skipped.
func (a *Adapter) readReportedParameters(outDir string) error {
	f, err := os.Open(filepath.Join(outDir, parametersOutName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	groups, err := parseNamelist(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", parametersOutName, err)
	}
	for _, values := range groups {
		for key, value := range values {
			unit, ok := parameterUnits[key]
			if !ok {
				continue
			}
			v, ok := value.(float64)
			if !ok {
				continue
			}
			view, err := a.Out.Scalar(core.Name{Name, key}, core.World, unit)
			if err != nil {
				return err
			}
			if err := view.Set(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}
