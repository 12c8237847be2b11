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

package e2e

import (
	"context"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	_ "github.com/openclimate/scmrun/internal/adapters/dice"
	"github.com/openclimate/scmrun/internal/ensemble"
	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/scmdata"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

var (
	runStart = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	runStop  = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// rampScenario builds an annual CO2 emissions scenario rising from 35 to
// 70 GtCO2/yr over the run period.
func rampScenario() *scmdata.ScmData {
	var times timeseries.TimePoints
	for y := runStart.Year(); y <= runStop.Year(); y++ {
		times = append(times, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	values := make([]float64, len(times))
	for i := range values {
		values[i] = 35 + 35*float64(i)/float64(len(values)-1)
	}
	data, err := scmdata.New(times, []scmdata.Row{
		{
			Meta: scmdata.Meta{Model: "test_iam", Scenario: "ramp", Region: "World",
				Variable: "Emissions|CO2", Unit: "GtCO2/a"},
			Values: values,
		},
	})
	Expect(err).NotTo(HaveOccurred())
	return data
}

var _ = Describe("climate model pipeline", func() {
	It("runs a scenario through the carbon cycle model", func(ctx context.Context) {
		c, err := adapter.NewCore("dice", runStart, runStop)
		Expect(err).NotTo(HaveOccurred())
		defer func() { Expect(c.Shutdown()).To(Succeed()) }()

		Expect(rampScenario().ToParameterSet(c.Input())).To(Succeed())
		Expect(c.Run(ctx)).To(Succeed())

		temps, err := c.Output().Timeseries(
			core.Name{"Surface Temperature", "Increase"}, core.World, "degC",
			timeseries.CreateTimePoints(runStart, 365*24*time.Hour, 91, timeseries.KindPoint),
			timeseries.KindPoint, timeseries.InterpolationLinear, timeseries.ExtrapolationConstant)
		Expect(err).NotTo(HaveOccurred())

		values, err := temps.Values()
		Expect(err).NotTo(HaveOccurred())
		Expect(values[0]).To(BeNumerically("~", 0.8, 1e-9))
		Expect(values[90]).To(BeNumerically(">", 1.5))
		Expect(values[90]).To(BeNumerically("<", 5.0))
	})

	It("produces an ensemble whose spread follows the sensitivity draws", func(ctx context.Context) {
		spec := ensemble.Spec{
			Model:    "dice",
			Start:    runStart,
			Stop:     runStop,
			Scenario: rampScenario(),
			Parameters: []ensemble.ParameterSpec{
				{
					Name: core.Name{"DICE", "t2xco2"},
					Unit: "degC",
					Dist: ensemble.Distribution{Kind: ensemble.Uniform, Min: 2.0, Max: 4.5},
				},
			},
			Members: 6,
			Seed:    2026,
		}

		result, err := ensemble.NewRunner(nil).Run(ctx, spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(BeEmpty())

		temps, err := result.Data.FilterVariable("Surface Temperature|Increase")
		Expect(err).NotTo(HaveOccurred())
		Expect(temps.Len()).To(Equal(6))

		median, err := temps.ProcessOver([]string{"ensemble_member"}, scmdata.OpMedian, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(median.Len()).To(Equal(1))

		warming := median.Rows()[0].Values
		Expect(warming[len(warming)-1]).To(BeNumerically(">", warming[0]))

		// Same seed, same ensemble, modulo the member ids and merge order.
		again, err := ensemble.NewRunner(nil).Run(ctx, spec)
		Expect(err).NotTo(HaveOccurred())
		againMedian, err := again.Data.FilterVariable("Surface Temperature|Increase")
		Expect(err).NotTo(HaveOccurred())
		againMedian, err = againMedian.ProcessOver([]string{"ensemble_member"}, scmdata.OpMedian, 0)
		Expect(err).NotTo(HaveOccurred())

		diff := cmp.Diff(median.Rows()[0].Values, againMedian.Rows()[0].Values,
			cmpopts.EquateApprox(0, 1e-12))
		Expect(diff).To(BeEmpty())
	})

	It("relates the output to a reference period", func(ctx context.Context) {
		c, err := adapter.NewCore("dice", runStart, runStop)
		Expect(err).NotTo(HaveOccurred())
		defer func() { Expect(c.Shutdown()).To(Succeed()) }()

		scenario := rampScenario()
		Expect(scenario.ToParameterSet(c.Input())).To(Succeed())
		Expect(c.Run(ctx)).To(Succeed())

		data, err := scmdata.FromParameterSet(c.Output(), scenario.Times(),
			scmdata.Meta{Model: "test_iam", Scenario: "ramp", ClimateModel: "dice"})
		Expect(err).NotTo(HaveOccurred())

		temps, err := data.FilterVariable("Surface Temperature|Increase")
		Expect(err).NotTo(HaveOccurred())

		rel, err := temps.RelativeToRefPeriodMean(2010, 2030)
		Expect(err).NotTo(HaveOccurred())
		values := rel.Rows()[0].Values
		Expect(values[0]).To(BeNumerically("<", 0))
		Expect(values[len(values)-1]).To(BeNumerically(">", 0))
	})
})
