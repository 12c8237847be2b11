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

// Package adaptertest runs a conformance suite against a registered model
// adapter. Every adapter package calls Conformance from its own tests so
// all implementations honor the same lifecycle contract.
package adaptertest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
)

// Options tunes the conformance run for one adapter.
type Options struct {
	// Start and Stop bound the run period. Defaults to 2006..2106.
	Start time.Time
	Stop  time.Time

	// SetupInput fills required input parameters before the first run.
	SetupInput func(t *testing.T, in *core.ParameterSet)

	// Timeout bounds each model run. Defaults to a minute.
	Timeout time.Duration
}

func (o *Options) defaults() {
	if o.Start.IsZero() {
		o.Start = time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if o.Stop.IsZero() {
		o.Stop = o.Start.AddDate(100, 0, 0)
	}
	if o.Timeout == 0 {
		o.Timeout = time.Minute
	}
}

// Conformance verifies the lifecycle contract of the adapter registered
// under name: construction through the registry, repeated runs after
// resets, output production, step behavior and shutdown.
func Conformance(t *testing.T, name string, opts Options) {
	t.Helper()
	opts.defaults()

	newCore := func(t *testing.T) *core.Core {
		t.Helper()
		c, err := adapter.NewCore(name, opts.Start, opts.Stop)
		require.NoError(t, err)
		if opts.SetupInput != nil {
			opts.SetupInput(t, c.Input())
		}
		t.Cleanup(func() { assert.NoError(t, c.Shutdown()) })
		return c
	}

	run := func(t *testing.T, c *core.Core) {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()
		require.NoError(t, c.Run(ctx))
	}

	t.Run("registered", func(t *testing.T) {
		assert.Contains(t, adapter.Names(), name)
	})

	t.Run("run produces output", func(t *testing.T) {
		c := newCore(t)
		run(t, c)

		written := 0
		c.Output().Walk(func(info core.ParameterInfo) {
			if !info.Empty {
				written++
			}
		})
		assert.Positive(t, written, "a run must write at least one output parameter")
	})

	t.Run("rerun after reset is stable", func(t *testing.T) {
		c := newCore(t)
		run(t, c)
		first := snapshot(c.Output())

		require.NoError(t, c.Reset())
		run(t, c)
		assert.Equal(t, first, snapshot(c.Output()))
	})

	t.Run("step either advances or is unsupported", func(t *testing.T) {
		c := newCore(t)
		require.NoError(t, c.Reset())

		at, err := c.Step(context.Background())
		if errors.Is(err, core.ErrStepUnsupported) {
			return
		}
		require.NoError(t, err)
		assert.True(t, at.After(opts.Start), "step must advance past the start time")

		later, err := c.Step(context.Background())
		require.NoError(t, err)
		assert.False(t, later.Before(at))
	})

	t.Run("unknown model rejected", func(t *testing.T) {
		_, err := adapter.NewCore(name+"-no-such-model", opts.Start, opts.Stop)
		assert.ErrorIs(t, err, adapter.ErrUnknownModel)
	})
}

func snapshot(ps *core.ParameterSet) []core.ParameterInfo {
	var infos []core.ParameterInfo
	ps.Walk(func(info core.ParameterInfo) { infos = append(infos, info) })
	return infos
}
