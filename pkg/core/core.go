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

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// ErrStepUnsupported is returned by models that can only run to completion.
var ErrStepUnsupported = errors.New("model does not support stepping")

// Model is the lifecycle a climate model implementation exposes to a Core.
// Implementations live behind the adapter registry; the factory that builds
// one receives the Core's input and output parameter sets and is expected to
// return a model that has already acquired its parameter views.
type Model interface {
	// InitializeModelInput is called once before the first run, after the
	// caller has filled the input parameter set.
	InitializeModelInput() error

	// InitializeRunParameters is called once before the first run, after
	// InitializeModelInput.
	InitializeRunParameters() error

	// Reset returns the model to the start of the run period. Called before
	// every run.
	Reset() error

	// Run runs the model over the whole run period.
	Run(ctx context.Context) error

	// Step advances the model by one timestep and returns the model time
	// after the step. Models that cannot step return ErrStepUnsupported.
	Step(ctx context.Context) (time.Time, error)

	// Shutdown releases any resources held by the model.
	Shutdown() error
}

// ModelFactory builds a model bound to the given parameter sets.
type ModelFactory func(in, out *ParameterSet) (Model, error)

// Names of the run period parameters every Core writes into its input set,
// as scalars in seconds since the Unix epoch.
var (
	StartTimeName = Name{"Start Time"}
	StopTimeName  = Name{"Stop Time"}
)

// Core owns an input and an output ParameterSet and drives a single model
// over a run period.
type Core struct {
	in    *ParameterSet
	out   *ParameterSet
	model Model
	start time.Time
	stop  time.Time

	inputInitialized  bool
	paramsInitialized bool
}

// New creates a Core for the run period [start, stop] and builds its model
// through factory. The run period is published to the model as the
// "Start Time" and "Stop Time" input scalars in seconds.
func New(factory ModelFactory, start, stop time.Time) (*Core, error) {
	if !stop.After(start) {
		return nil, fmt.Errorf("stop time %s must be after start time %s", stop, start)
	}

	in := NewParameterSet()
	out := NewParameterSet()
	for _, p := range []struct {
		name Name
		t    time.Time
	}{
		{StartTimeName, start},
		{StopTimeName, stop},
	} {
		view, err := in.Scalar(p.name, World, "s")
		if err != nil {
			return nil, err
		}
		if err := view.Set(float64(p.t.Unix())); err != nil {
			return nil, err
		}
	}

	model, err := factory(in, out)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}
	return &Core{in: in, out: out, model: model, start: start, stop: stop}, nil
}

// Input returns the parameter set the model reads from.
func (c *Core) Input() *ParameterSet { return c.in }

// Output returns the parameter set the model writes to.
func (c *Core) Output() *ParameterSet { return c.out }

// StartTime returns the beginning of the run period.
func (c *Core) StartTime() time.Time { return c.start }

// StopTime returns the end of the run period.
func (c *Core) StopTime() time.Time { return c.stop }

func (c *Core) ensureInitialized() error {
	if !c.inputInitialized {
		if err := c.model.InitializeModelInput(); err != nil {
			return fmt.Errorf("initializing model input: %w", err)
		}
		c.inputInitialized = true
	}
	if !c.paramsInitialized {
		if err := c.model.InitializeRunParameters(); err != nil {
			return fmt.Errorf("initializing run parameters: %w", err)
		}
		c.paramsInitialized = true
	}
	return nil
}

// Run resets the model and runs it over the whole run period. Outputs are
// available from Output afterwards.
func (c *Core) Run(ctx context.Context) error {
	log := logr.FromContextOrDiscard(ctx)
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if err := c.model.Reset(); err != nil {
		return fmt.Errorf("resetting model: %w", err)
	}
	log.V(1).Info("running model", "start", c.start, "stop", c.stop)
	if err := c.model.Run(ctx); err != nil {
		return fmt.Errorf("running model: %w", err)
	}
	return nil
}

// Step advances the model by one timestep and returns the model time after
// the step. Call Reset first to step from the start of the run period.
// Returns ErrStepUnsupported for models that can only run to completion.
func (c *Core) Step(ctx context.Context) (time.Time, error) {
	if err := c.ensureInitialized(); err != nil {
		return time.Time{}, err
	}
	return c.model.Step(ctx)
}

// Reset returns the model to the start of the run period without dropping
// initialization.
func (c *Core) Reset() error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	return c.model.Reset()
}

// Shutdown releases the model's resources. The Core must not be used
// afterwards.
func (c *Core) Shutdown() error {
	return c.model.Shutdown()
}
