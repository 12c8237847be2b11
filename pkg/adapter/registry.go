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
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/openclimate/scmrun/pkg/core"
)

// ErrUnknownModel is returned when no adapter is registered under the
// requested name.
var ErrUnknownModel = errors.New("unknown model")

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register makes an adapter available under name. Call it from the
// implementation package's init. Registering the same name twice panics.
func Register(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("adapter: Register requires a name and a factory")
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.factories[name]; dup {
		panic(fmt.Sprintf("adapter: %q registered twice", name))
	}
	registry.factories[name] = factory
}

// Names returns the registered model names, sorted.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup returns the factory for name.
func lookup(name string) (Factory, error) {
	registry.RLock()
	defer registry.RUnlock()
	factory, ok := registry.factories[name]
	if !ok {
		names := make([]string, 0, len(registry.factories))
		for n := range registry.factories {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownModel, name, names)
	}
	return factory, nil
}

// NewCore builds a Core driving the named model over [start, stop]. The
// adapter's Initialize has run when NewCore returns.
func NewCore(name string, start, stop time.Time) (*core.Core, error) {
	factory, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return core.New(func(in, out *core.ParameterSet) (core.Model, error) {
		a, err := factory(in, out)
		if err != nil {
			return nil, err
		}
		if err := a.Initialize(); err != nil {
			return nil, fmt.Errorf("initializing %q: %w", name, err)
		}
		return a, nil
	}, start, stop)
}
