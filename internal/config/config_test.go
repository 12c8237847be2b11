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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "dice", cfg.Model)
	assert.Equal(t, 2006, cfg.StartYear)
	assert.Equal(t, 2100, cfg.StopYear)
	assert.Equal(t, 1, cfg.Members)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Start())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scmrun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: magicc6
stop-year: 2300
members: 100
log:
  level: debug
cache:
  backend: memory
  ttl: 1h
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "magicc6", cfg.Model)
	assert.Equal(t, 2300, cfg.StopYear)
	assert.Equal(t, 100, cfg.Members)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SCMRUN_MODEL", "fake")
	t.Setenv("SCMRUN_CACHE_BACKEND", "memory")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "fake", cfg.Model)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		v := viper.New()
		SetDefaults(v)
		var cfg Config
		require.NoError(t, v.Unmarshal(&cfg))
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"empty model", func(c *Config) { c.Model = "" }, "model"},
		{"inverted period", func(c *Config) { c.StopYear = c.StartYear - 1 }, "stop-year"},
		{"zero members", func(c *Config) { c.Members = 0 }, "members"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache backend"},
		{"redis without address", func(c *Config) { c.Cache.Backend = CacheRedis }, "redis.address"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
