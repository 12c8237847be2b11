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

package runcache

import (
	"context"
	"sync"
	"time"

	"github.com/openclimate/scmrun/pkg/scmdata"
)

type memoryEntry struct {
	data     *scmdata.ScmData
	storedAt time.Time
}

// Memory is an in-process cache with a fixed TTL. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	ttl   time.Duration

	now func() time.Time
}

// NewMemory builds an in-memory cache. Entries older than ttl are treated
// as absent; ttl <= 0 keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (*scmdata.ScmData, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[key]
	if !ok || m.expired(e) {
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Put(_ context.Context, key string, data *scmdata.ScmData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry{data: data, storedAt: m.now()}
	return nil
}

// Prune drops expired entries. Get already ignores them; pruning just frees
// the memory.
func (m *Memory) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.items {
		if m.expired(e) {
			delete(m.items, k)
		}
	}
}

// Len returns the number of stored entries, including expired ones not yet
// pruned.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory) expired(e memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(e.storedAt) > m.ttl
}

var _ ReadWriter = (*Memory)(nil)
