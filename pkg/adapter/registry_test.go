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

package adapter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/scmrun/pkg/adapter"
	"github.com/openclimate/scmrun/pkg/core"
)

// stub is the smallest possible adapter.
type stub struct {
	adapter.Base
	initialized bool
}

func newStub(in, out *core.ParameterSet) (adapter.Adapter, error) {
	s := &stub{}
	s.BindParameterSets(in, out)
	return s, nil
}

func (s *stub) Initialize() error {
	s.initialized = true
	return s.ReadRunPeriod()
}

func (s *stub) InitializeModelInput() error    { return nil }
func (s *stub) InitializeRunParameters() error { return nil }
func (s *stub) Reset() error                   { return nil }

func (s *stub) Run(context.Context) error {
	done, err := s.Out.Generic(core.Name{"Done"}, core.World)
	if err != nil {
		return err
	}
	done.Set(true)
	return nil
}

func (s *stub) Shutdown() error { return nil }

func TestRegistry(t *testing.T) {
	adapter.Register("stub", newStub)

	assert.Contains(t, adapter.Names(), "stub")

	start := time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)
	stop := start.AddDate(10, 0, 0)

	c, err := adapter.NewCore("stub", start, stop)
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background()))

	done, err := c.Output().Generic(core.Name{"Done"}, core.World)
	require.NoError(t, err)
	assert.Equal(t, true, done.Value())

	_, err = adapter.NewCore("missing", start, stop)
	assert.ErrorIs(t, err, adapter.ErrUnknownModel)

	assert.Panics(t, func() { adapter.Register("stub", newStub) })
	assert.Panics(t, func() { adapter.Register("", newStub) })
}

func TestBaseRunPeriodAndStep(t *testing.T) {
	start := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	stop := start.AddDate(5, 0, 0)

	var s *stub
	c, err := core.New(func(in, out *core.ParameterSet) (core.Model, error) {
		a, err := newStub(in, out)
		if err != nil {
			return nil, err
		}
		s = a.(*stub)
		return a, s.Initialize()
	}, start, stop)
	require.NoError(t, err)

	assert.True(t, s.initialized)
	assert.Equal(t, start, s.Start())
	assert.Equal(t, stop, s.Stop())

	_, err = c.Step(context.Background())
	assert.ErrorIs(t, err, core.ErrStepUnsupported)
}
