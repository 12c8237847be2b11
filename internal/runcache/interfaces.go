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

// Package runcache stores model run outputs keyed by a fingerprint of the
// model name and its full input parameter set, so that repeated runs with
// identical inputs can be served without executing the model again.
package runcache

import (
	"context"

	"github.com/openclimate/scmrun/pkg/scmdata"
)

// Reader provides read-only access to the run cache.
type Reader interface {
	// Get returns the cached output for the given key. The second return
	// value reports whether the key was present and fresh.
	Get(ctx context.Context, key string) (*scmdata.ScmData, bool, error)
}

// Writer provides write access to the run cache.
type Writer interface {
	// Put stores a run output under the given key, replacing any previous
	// entry.
	Put(ctx context.Context, key string, data *scmdata.ScmData) error
}

// ReadWriter combines both read and write access to the cache.
type ReadWriter interface {
	Reader
	Writer
}
