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
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openclimate/scmrun/internal/ensemble"
	"github.com/openclimate/scmrun/internal/logging"
	"github.com/openclimate/scmrun/internal/metrics"
	"github.com/openclimate/scmrun/pkg/core"
)

// parameterFile is the YAML schema of an ensemble parameter file.
type parameterFile struct {
	Parameters []struct {
		Name         string                `yaml:"name"`
		Unit         string                `yaml:"unit"`
		Distribution ensemble.Distribution `yaml:"distribution"`
	} `yaml:"parameters"`
}

func newEnsembleCmd(a *app) *cobra.Command {
	var (
		scenarioFile  string
		paramsFile    string
		outputFile    string
		collectErrors bool
	)

	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Run a stochastic ensemble of one model and merge the outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.IntoContext(cmd.Context(), a.log)

			scenario, err := loadScenario(scenarioFile)
			if err != nil {
				return fmt.Errorf("loading scenario: %w", err)
			}
			params, err := loadParameterFile(paramsFile)
			if err != nil {
				return fmt.Errorf("loading parameter file: %w", err)
			}

			runner := ensemble.NewRunner(metrics.NewRunMetrics(prometheus.DefaultRegisterer))
			result, err := runner.Run(ctx, ensemble.Spec{
				Model:         a.cfg.Model,
				Start:         a.cfg.Start(),
				Stop:          a.cfg.Stop(),
				Scenario:      scenario,
				Parameters:    params,
				Members:       a.cfg.Members,
				Seed:          a.cfg.Seed,
				Workers:       a.cfg.Workers,
				CollectErrors: collectErrors,
			})
			if err != nil {
				return err
			}
			for _, me := range result.Errors {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", me)
			}
			return writeOutput(result.Data, outputFile)
		},
	}

	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (.csv or .yaml)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "YAML file describing parameter distributions")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output CSV path (default stdout)")
	cmd.Flags().BoolVar(&collectErrors, "keep-going", false, "report failed members instead of aborting")
	cmd.Flags().Int("members", 1, "ensemble size")
	cmd.Flags().Uint64("seed", 0, "random seed for parameter draws")
	cmd.Flags().Int("workers", 0, "parallel members, 0 for GOMAXPROCS")
	cobra.CheckErr(cmd.MarkFlagRequired("scenario"))
	cobra.CheckErr(cmd.MarkFlagRequired("params"))
	bindFlags(a.v, cmd.Flags(), map[string]string{
		"members": "members",
		"seed":    "seed",
		"workers": "workers",
	})
	return cmd
}

func loadParameterFile(path string) ([]ensemble.ParameterSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf parameterFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, err
	}
	if len(pf.Parameters) == 0 {
		return nil, fmt.Errorf("%s lists no parameters", path)
	}

	out := make([]ensemble.ParameterSpec, 0, len(pf.Parameters))
	for _, p := range pf.Parameters {
		if p.Name == "" || p.Unit == "" {
			return nil, fmt.Errorf("parameter entries need both name and unit")
		}
		out = append(out, ensemble.ParameterSpec{
			Name: core.ParseName(p.Name),
			Unit: p.Unit,
			Dist: p.Distribution,
		})
	}
	return out, nil
}
