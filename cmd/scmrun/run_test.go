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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/scmrun/pkg/core"
)

func TestSetScalars(t *testing.T) {
	in := core.NewParameterSet()
	err := setScalars(in, []string{"DICE|t2xco2=3.2 degC"})
	require.NoError(t, err)

	view, err := in.Scalar(core.Name{"DICE", "t2xco2"}, core.World, "degC")
	require.NoError(t, err)
	got, err := view.Value()
	require.NoError(t, err)
	assert.InDelta(t, 3.2, got, 1e-9)

	assert.Error(t, setScalars(core.NewParameterSet(), []string{"no-equals"}))
	assert.Error(t, setScalars(core.NewParameterSet(), []string{"x=1"}))
	assert.Error(t, setScalars(core.NewParameterSet(), []string{"x=abc degC"}))
}

func TestSetGenerics(t *testing.T) {
	in := core.NewParameterSet()
	err := setGenerics(in, []string{"MAGICC6|distribution=/opt/magicc"})
	require.NoError(t, err)

	view, err := in.Generic(core.Name{"MAGICC6", "distribution"}, core.World)
	require.NoError(t, err)
	assert.Equal(t, "/opt/magicc", view.Value())

	assert.Error(t, setGenerics(core.NewParameterSet(), []string{"no-equals"}))
}

func TestLoadParameterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parameters:
  - name: Equilibrium Climate Sensitivity
    unit: delta_degC
    distribution:
      kind: lognormal
      mean: 1.1
      stddev: 0.25
`), 0o644))

	params, err := loadParameterFile(path)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, core.Name{"Equilibrium Climate Sensitivity"}, params[0].Name)
	assert.Equal(t, "delta_degC", params[0].Unit)
	assert.InDelta(t, 0.25, params[0].Dist.Stddev, 1e-9)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("parameters: []\n"), 0o644))
	_, err = loadParameterFile(empty)
	assert.ErrorContains(t, err, "no parameters")
}

func TestModelsCommand(t *testing.T) {
	cmd := newModelsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "dice")
	assert.Contains(t, out.String(), "fake")
	assert.Contains(t, out.String(), "MAGICC6")
}

func TestLoadScenarioUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, err := loadScenario(path)
	assert.ErrorContains(t, err, "unsupported scenario format")
}
