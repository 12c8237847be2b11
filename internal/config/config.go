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

// Package config loads the runtime configuration from files, environment
// variables and flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backend names accepted by CacheConfig.Backend.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// LogConfig controls the root logger.
type LogConfig struct {
	// Level is the minimum enabled level: "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`

	// Format selects the encoder: "json" or "console".
	Format string `mapstructure:"format"`
}

// RedisCacheConfig describes the shared Redis run cache.
type RedisCacheConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// CacheConfig selects and configures the run cache backend.
type CacheConfig struct {
	// Backend is "none", "memory" or "redis".
	Backend string `mapstructure:"backend"`

	// TTL bounds how long cached run outputs stay valid.
	TTL time.Duration `mapstructure:"ttl"`

	Redis RedisCacheConfig `mapstructure:"redis"`
}

// Config is the full runtime configuration.
type Config struct {
	// Model is the registered name of the model to run.
	Model string `mapstructure:"model"`

	// StartYear and StopYear bound the run period, both at January 1 UTC.
	StartYear int `mapstructure:"start-year"`
	StopYear  int `mapstructure:"stop-year"`

	// Members is the ensemble size; 1 means a single deterministic run.
	Members int `mapstructure:"members"`

	// Seed makes ensemble draws reproducible.
	Seed uint64 `mapstructure:"seed"`

	// Workers bounds parallel ensemble members; 0 uses GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	Log   LogConfig   `mapstructure:"log"`
	Cache CacheConfig `mapstructure:"cache"`
}

// SetDefaults registers the default value of every key on the given viper
// instance. Flags and environment variables override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("model", "dice")
	v.SetDefault("start-year", 2006)
	v.SetDefault("stop-year", 2100)
	v.SetDefault("members", 1)
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis.prefix", "scmrun:runs")
}

// Load reads the configuration, optionally merging a YAML config file, and
// validates the result. Environment variables use the SCMRUN_ prefix with
// dots and dashes mapped to underscores.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("SCMRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.StopYear <= c.StartYear {
		return fmt.Errorf("stop-year (%d) must be after start-year (%d)", c.StopYear, c.StartYear)
	}
	if c.Members < 1 {
		return fmt.Errorf("members must be >= 1, got %d", c.Members)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address must be set for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0, got %s", c.Cache.TTL)
	}
	return nil
}

// Start returns the run period start as a time.
func (c *Config) Start() time.Time {
	return time.Date(c.StartYear, 1, 1, 0, 0, 0, 0, time.UTC)
}

// Stop returns the run period end as a time.
func (c *Config) Stop() time.Time {
	return time.Date(c.StopYear, 1, 1, 0, 0, 0, 0, time.UTC)
}
