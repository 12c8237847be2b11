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
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclimate/scmrun/internal/logging"
	"github.com/openclimate/scmrun/internal/runcache"
	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/scmdata"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		scenarioFile string
		outputFile   string
		scalars      []string
		generics     []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one model over a scenario and write its output as CSV",
		Long: `Run one model over a scenario and write its output as CSV.

Scalar model parameters are set with --param as "name=value unit", generic
ones with --generic as "name=value". Hierarchical names join their levels
with "|", for example "MAGICC6|distribution".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.IntoContext(cmd.Context(), a.log)

			scenario, err := loadScenario(scenarioFile)
			if err != nil {
				return fmt.Errorf("loading scenario: %w", err)
			}

			c, err := adapter.NewCore(a.cfg.Model, a.cfg.Start(), a.cfg.Stop())
			if err != nil {
				return err
			}
			defer c.Shutdown()

			if err := scenario.ToParameterSet(c.Input()); err != nil {
				return fmt.Errorf("loading scenario into model: %w", err)
			}
			if err := setScalars(c.Input(), scalars); err != nil {
				return err
			}
			if err := setGenerics(c.Input(), generics); err != nil {
				return err
			}

			data, err := a.runCached(ctx, c, scenario)
			if err != nil {
				return err
			}
			return writeOutput(data, outputFile)
		},
	}

	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (.csv or .yaml)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output CSV path (default stdout)")
	cmd.Flags().StringArrayVar(&scalars, "param", nil, `scalar parameter, "name=value unit"`)
	cmd.Flags().StringArrayVar(&generics, "generic", nil, `generic parameter, "name=value"`)
	cobra.CheckErr(cmd.MarkFlagRequired("scenario"))
	return cmd
}

// runCached consults the run cache before executing the model and stores
// fresh outputs afterwards.
func (a *app) runCached(ctx context.Context, c *core.Core, scenario *scmdata.ScmData) (*scmdata.ScmData, error) {
	cache, closeCache, err := a.openCache(ctx)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	var key string
	if cache != nil {
		key = runcache.Key(a.cfg.Model, c.Input())
		if data, ok, err := cache.Get(ctx, key); err != nil {
			a.log.Error(err, "run cache lookup failed, running the model")
		} else if ok {
			a.log.V(1).Info("serving run from cache", "model", a.cfg.Model)
			return data, nil
		}
	}

	if err := c.Run(ctx); err != nil {
		return nil, err
	}

	base := scmdata.Meta{ClimateModel: a.cfg.Model}
	if scenario.Len() > 0 {
		first := scenario.Rows()[0]
		base.Model = first.Model
		base.Scenario = first.Scenario
	}
	data, err := scmdata.FromParameterSet(c.Output(), scenario.Times(), base)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Put(ctx, key, data); err != nil {
			a.log.Error(err, "storing run in cache failed")
		}
	}
	return data, nil
}

// setScalars applies "name=value unit" assignments to the input set.
func setScalars(in *core.ParameterSet, assignments []string) error {
	for _, s := range assignments {
		name, rest, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("malformed --param %q, want \"name=value unit\"", s)
		}
		valueStr, unit, ok := strings.Cut(strings.TrimSpace(rest), " ")
		if !ok {
			return fmt.Errorf("malformed --param %q, missing unit", s)
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return fmt.Errorf("malformed --param %q: %w", s, err)
		}
		view, err := in.Scalar(core.ParseName(name), core.World, strings.TrimSpace(unit))
		if err != nil {
			return err
		}
		if err := view.Set(value); err != nil {
			return err
		}
	}
	return nil
}

// setGenerics applies "name=value" assignments, keeping values as strings.
func setGenerics(in *core.ParameterSet, assignments []string) error {
	for _, s := range assignments {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("malformed --generic %q, want \"name=value\"", s)
		}
		view, err := in.Generic(core.ParseName(name), core.World)
		if err != nil {
			return err
		}
		view.Set(value)
	}
	return nil
}
