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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	_ "github.com/openclimate/scmrun/internal/adapters/dice"
	_ "github.com/openclimate/scmrun/internal/adapters/fake"
	_ "github.com/openclimate/scmrun/internal/adapters/magicc"
	"github.com/openclimate/scmrun/internal/config"
	"github.com/openclimate/scmrun/internal/logging"
	"github.com/openclimate/scmrun/internal/runcache"
	"github.com/openclimate/scmrun/pkg/scmdata"
)

// app carries the loaded configuration and logger between the root command
// and its subcommands.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log logr.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	var configFile string

	root := &cobra.Command{
		Use:           "scmrun",
		Short:         "Run simple climate models over emissions scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.NewLogger(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML config file")
	pf.String("model", "dice", "registered model name")
	pf.Int("start-year", 2006, "first year of the run period")
	pf.Int("stop-year", 2100, "last year of the run period")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("cache", config.CacheNone, "run cache backend: none, memory or redis")
	pf.String("cache-redis-address", "", "address of the shared redis cache")

	bindFlags(a.v, pf, map[string]string{
		"model":               "model",
		"start-year":          "start-year",
		"stop-year":           "stop-year",
		"log.level":           "log-level",
		"log.format":          "log-format",
		"cache.backend":       "cache",
		"cache.redis.address": "cache-redis-address",
	})

	root.AddCommand(
		newRunCmd(a),
		newEnsembleCmd(a),
		newModelsCmd(),
		newConvertCmd(),
	)
	return root
}

// bindFlags wires configuration keys to their command-line flags.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		cobra.CheckErr(v.BindPFlag(key, fs.Lookup(flag)))
	}
}

// openCache builds the configured run cache; nil means caching is disabled.
func (a *app) openCache(ctx context.Context) (runcache.ReadWriter, func(), error) {
	switch a.cfg.Cache.Backend {
	case config.CacheNone:
		return nil, func() {}, nil
	case config.CacheMemory:
		return runcache.NewMemory(a.cfg.Cache.TTL), func() {}, nil
	case config.CacheRedis:
		r, err := runcache.NewRedis(ctx, runcache.RedisConfig{
			Address:  a.cfg.Cache.Redis.Address,
			Password: a.cfg.Cache.Redis.Password,
			DB:       a.cfg.Cache.Redis.DB,
			Prefix:   a.cfg.Cache.Redis.Prefix,
			TTL:      a.cfg.Cache.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", a.cfg.Cache.Backend)
	}
}

// loadScenario reads a scenario file, choosing the decoder by extension.
func loadScenario(path string) (*scmdata.ScmData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return scmdata.LoadYAML(f)
	case ".csv":
		return scmdata.LoadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q, want .csv or .yaml", filepath.Ext(path))
	}
}

// writeOutput writes the data as wide CSV to the given path, or to stdout
// when the path is empty.
func writeOutput(data *scmdata.ScmData, path string) error {
	if path == "" {
		return data.WriteCSV(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := data.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
