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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openclimate/scmrun/pkg/units"
)

func newConvertCmd() *cobra.Command {
	var context string

	cmd := &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert a value between units",
		Long: `Convert a value between units.

Cross-species conversions such as CH4 to CO2 equivalent need a metric
context, for example --context AR4GWP100.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parsing value %q: %w", args[0], err)
			}
			conv, err := units.NewConverterContext(args[1], args[2], context)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g %s = %g %s\n",
				value, conv.Source(), conv.ConvertFrom(value), conv.Target())
			return nil
		},
	}
	cmd.Flags().StringVar(&context, "context", "", "metric context for cross-species conversions")
	return cmd
}
