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

// Package ensemble runs stochastic ensembles: many runs of one model with
// parameters drawn from probability distributions, collected into a single
// data set with an "ensemble_member" dimension.
package ensemble

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/openclimate/scmrun/internal/logging"
	"github.com/openclimate/scmrun/internal/metrics"
	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
	"github.com/openclimate/scmrun/pkg/scmdata"
	"github.com/openclimate/scmrun/pkg/timeseries"
)

// DistributionKind names a supported probability distribution.
type DistributionKind string

const (
	Normal     DistributionKind = "normal"
	LogNormal  DistributionKind = "lognormal"
	Uniform    DistributionKind = "uniform"
	Triangular DistributionKind = "triangular"
)

// Distribution describes how one parameter is drawn. Mean and Stddev apply
// to normal and lognormal, Min, Max and Mode to uniform and triangular.
type Distribution struct {
	Kind   DistributionKind `yaml:"kind"`
	Mean   float64          `yaml:"mean"`
	Stddev float64          `yaml:"stddev"`
	Min    float64          `yaml:"min"`
	Max    float64          `yaml:"max"`
	Mode   float64          `yaml:"mode"`
}

func (d Distribution) sampler(src rand.Source) (func() float64, error) {
	switch d.Kind {
	case Normal:
		n := distuv.Normal{Mu: d.Mean, Sigma: d.Stddev, Src: src}
		return n.Rand, nil
	case LogNormal:
		n := distuv.LogNormal{Mu: d.Mean, Sigma: d.Stddev, Src: src}
		return n.Rand, nil
	case Uniform:
		u := distuv.Uniform{Min: d.Min, Max: d.Max, Src: src}
		return u.Rand, nil
	case Triangular:
		tr := distuv.NewTriangle(d.Min, d.Max, d.Mode, src)
		return tr.Rand, nil
	default:
		return nil, fmt.Errorf("unknown distribution kind %q", d.Kind)
	}
}

// ParameterSpec draws one scalar input parameter per ensemble member.
type ParameterSpec struct {
	Name core.Name
	Unit string
	Dist Distribution
}

// Spec describes a full ensemble.
type Spec struct {
	// Model is the adapter registry name.
	Model string

	// Start and Stop bound the run period of every member.
	Start time.Time
	Stop  time.Time

	// Scenario provides the shared input timeseries; may be nil.
	Scenario *scmdata.ScmData

	// Parameters are drawn fresh for every member.
	Parameters []ParameterSpec

	// Members is the ensemble size.
	Members int

	// Seed makes the draws reproducible.
	Seed uint64

	// Workers bounds parallel runs; defaults to GOMAXPROCS.
	Workers int

	// CollectErrors keeps going when a member fails, reporting the
	// failures in the result instead of aborting the whole ensemble.
	CollectErrors bool
}

// MemberError ties a member failure to its position in the ensemble.
type MemberError struct {
	Member int
	Err    error
}

func (e MemberError) Error() string {
	return fmt.Sprintf("ensemble member %d: %v", e.Member, e.Err)
}

func (e MemberError) Unwrap() error { return e.Err }

// Result holds the merged ensemble output.
type Result struct {
	// Data carries one set of output rows per successful member, each
	// tagged with an "ensemble_member" id column.
	Data *scmdata.ScmData

	// Errors lists failed members when Spec.CollectErrors is set.
	Errors []MemberError
}

// Runner executes ensembles.
type Runner struct {
	metrics *metrics.RunMetrics
}

// NewRunner builds a runner reporting to the given metrics; nil disables
// instrumentation.
func NewRunner(m *metrics.RunMetrics) *Runner {
	if m == nil {
		m = metrics.NewRunMetrics(nil)
	}
	return &Runner{metrics: m}
}

// draws are one member's parameter values.
type draws []float64

// Run executes the ensemble and merges the member outputs.
func (r *Runner) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Members <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one member, got %d", spec.Members)
	}
	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := logging.FromContext(ctx).WithValues("model", spec.Model, "members", spec.Members)

	// Draw all parameters up front so results only depend on the seed, not
	// on scheduling.
	samplers := make([]func() float64, len(spec.Parameters))
	for i, p := range spec.Parameters {
		s, err := p.Dist.sampler(rand.NewPCG(spec.Seed, uint64(i)))
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		samplers[i] = s
	}
	memberDraws := make([]draws, spec.Members)
	for m := range memberDraws {
		memberDraws[m] = make(draws, len(spec.Parameters))
		for i, s := range samplers {
			memberDraws[m][i] = s()
		}
	}

	times := r.outputTimes(spec)

	var (
		mu      sync.Mutex
		merged  *scmdata.ScmData
		failed  []MemberError
		success int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for m := 0; m < spec.Members; m++ {
		g.Go(func() error {
			data, err := r.runMember(ctx, spec, memberDraws[m], times)
			if err != nil {
				if spec.CollectErrors {
					mu.Lock()
					failed = append(failed, MemberError{Member: m, Err: err})
					mu.Unlock()
					return nil
				}
				return MemberError{Member: m, Err: err}
			}

			mu.Lock()
			defer mu.Unlock()
			if merged == nil {
				merged = data
				success++
				return nil
			}
			joined, err := merged.Append(data)
			if err != nil {
				return MemberError{Member: m, Err: err}
			}
			merged = joined
			success++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if merged == nil {
		return nil, fmt.Errorf("all %d ensemble members failed, first: %w", spec.Members, failed[0])
	}
	log.V(1).Info("ensemble finished", "successful", success, "failed", len(failed))
	return &Result{Data: merged, Errors: failed}, nil
}

// outputTimes picks the axis member outputs are collected on: the scenario
// axis when given, otherwise annual points over the run period.
func (r *Runner) outputTimes(spec Spec) timeseries.TimePoints {
	if spec.Scenario != nil {
		return spec.Scenario.Times()
	}
	var out timeseries.TimePoints
	for y := spec.Start.Year(); y <= spec.Stop.Year(); y++ {
		out = append(out, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func (r *Runner) runMember(ctx context.Context, spec Spec, d draws, times timeseries.TimePoints) (*scmdata.ScmData, error) {
	r.metrics.RunsStarted.WithLabelValues(spec.Model).Inc()
	started := time.Now()

	data, err := r.runMemberCore(ctx, spec, d, times)
	r.metrics.RunDuration.WithLabelValues(spec.Model).Observe(time.Since(started).Seconds())
	if err != nil {
		r.metrics.RunsFailed.WithLabelValues(spec.Model).Inc()
		return nil, err
	}
	r.metrics.RunsCompleted.WithLabelValues(spec.Model).Inc()
	return data, nil
}

func (r *Runner) runMemberCore(ctx context.Context, spec Spec, d draws, times timeseries.TimePoints) (*scmdata.ScmData, error) {
	c, err := adapter.NewCore(spec.Model, spec.Start, spec.Stop)
	if err != nil {
		return nil, err
	}
	defer c.Shutdown()

	if spec.Scenario != nil {
		if err := spec.Scenario.ToParameterSet(c.Input()); err != nil {
			return nil, err
		}
	}
	for i, p := range spec.Parameters {
		view, err := c.Input().Scalar(p.Name, core.World, p.Unit)
		if err != nil {
			return nil, err
		}
		if err := view.Set(d[i]); err != nil {
			return nil, err
		}
	}

	if err := c.Run(ctx); err != nil {
		return nil, err
	}

	member := uuid.NewString()
	return scmdata.FromParameterSet(c.Output(), times, scmdata.Meta{
		ClimateModel: spec.Model,
		Extra:        map[string]string{"ensemble_member": member},
	})
}
