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

// Package logging provides the structured logger used across scmrun.
//
// All components log through logr.Logger instances backed by zap. Loggers are
// carried on the context so long-running operations (model runs, ensemble
// members) inherit the caller's logger and its accumulated key/value pairs.
package logging

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the root logger is built.
type Options struct {
	// Level is the minimum enabled level: "debug", "info", "warn" or "error".
	Level string

	// Format selects the encoder: "json" (default) or "console".
	Format string

	// Development enables stack traces on warnings and a human-friendly
	// encoder regardless of Format.
	Development bool
}

// NewLogger builds the root logger from the given options.
func NewLogger(opts Options) logr.Logger {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	if strings.EqualFold(opts.Format, "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	z, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing startup on a
		// malformed logging configuration.
		return logr.Discard()
	}
	return zapr.NewLogger(z)
}

// NewTestLogger builds a development logger suitable for use in tests.
func NewTestLogger() logr.Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(z)
}

// IntoContext stores the logger on the context.
func IntoContext(ctx context.Context, log logr.Logger) context.Context {
	return logr.NewContext(ctx, log)
}

// FromContext returns the logger stored on the context, or a discarding
// logger if none was set.
func FromContext(ctx context.Context) logr.Logger {
	if log, err := logr.FromContext(ctx); err == nil {
		return log
	}
	return logr.Discard()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
