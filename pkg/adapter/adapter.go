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

package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/openclimate/scmrun/pkg/core"
)

// Adapter is the capability interface one climate model implements on top
// of the core lifecycle. Initialize is called exactly once, right after
// construction, before any core.Model method.
type Adapter interface {
	core.Model

	// Initialize performs one-time model setup such as acquiring parameter
	// views or unpacking a model distribution.
	Initialize() error
}

// Factory builds an adapter bound to the given parameter sets.
type Factory func(in, out *core.ParameterSet) (Adapter, error)

// Base carries the bookkeeping shared by adapter implementations. Embed it
// and call BindParameterSets from the factory. It provides a Step that
// reports ErrStepUnsupported; adapters that can step override it.
type Base struct {
	In  *core.ParameterSet
	Out *core.ParameterSet

	start time.Time
	stop  time.Time
}

// BindParameterSets attaches the input and output sets.
func (b *Base) BindParameterSets(in, out *core.ParameterSet) {
	b.In = in
	b.Out = out
}

// ReadRunPeriod reads the run period scalars published by the Core.
// Call it from Initialize.
func (b *Base) ReadRunPeriod() error {
	for _, p := range []struct {
		name core.Name
		dst  *time.Time
	}{
		{core.StartTimeName, &b.start},
		{core.StopTimeName, &b.stop},
	} {
		view, err := b.In.Scalar(p.name, core.World, "s")
		if err != nil {
			return err
		}
		if view.Empty() {
			return fmt.Errorf("run period parameter %q not set", p.name)
		}
		v, err := view.Value()
		if err != nil {
			return err
		}
		*p.dst = time.Unix(int64(v), 0).UTC()
	}
	if !b.stop.After(b.start) {
		return fmt.Errorf("run period ends (%s) before it starts (%s)", b.stop, b.start)
	}
	return nil
}

// Start returns the beginning of the run period.
func (b *Base) Start() time.Time { return b.start }

// Stop returns the end of the run period.
func (b *Base) Stop() time.Time { return b.stop }

// Step reports that the adapter can only run to completion.
func (b *Base) Step(context.Context) (time.Time, error) {
	return time.Time{}, core.ErrStepUnsupported
}
