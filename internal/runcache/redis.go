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
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openclimate/scmrun/pkg/scmdata"
)

// RedisConfig describes the connection to a shared Redis cache.
type RedisConfig struct {
	Address  string
	Password string
	DB       int

	// Prefix namespaces the keys; defaults to "scmrun:runs".
	Prefix string

	// TTL bounds entry lifetime on the server; <= 0 stores forever.
	TTL time.Duration
}

// Redis caches run outputs in a Redis instance so that separate processes
// share one cache. Outputs are stored in the wide CSV format.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address must not be empty")
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "scmrun:runs"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Address, err)
	}
	return &Redis{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*scmdata.ScmData, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	data, err := scmdata.LoadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, false, fmt.Errorf("decoding cached run: %w", err)
	}
	return data, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, data *scmdata.ScmData) error {
	var buf bytes.Buffer
	if err := data.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encoding run for cache: %w", err)
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.prefix+":"+key, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ ReadWriter = (*Redis)(nil)
