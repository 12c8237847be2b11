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

// Package metrics holds the prometheus instrumentation for model runs.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// RunMetrics counts model runs and tracks their duration.
type RunMetrics struct {
	RunsStarted   *prometheus.CounterVec
	RunsCompleted *prometheus.CounterVec
	RunsFailed    *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
}

// NewRunMetrics registers run metrics with the given registerer.
func NewRunMetrics(reg prometheus.Registerer) *RunMetrics {
	m := &RunMetrics{
		RunsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scmrun_model_runs_started_total",
			Help: "Model runs started, by model.",
		}, []string{"model"}),
		RunsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scmrun_model_runs_completed_total",
			Help: "Model runs finished successfully, by model.",
		}, []string{"model"}),
		RunsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scmrun_model_runs_failed_total",
			Help: "Model runs that returned an error, by model.",
		}, []string{"model"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scmrun_model_run_duration_seconds",
			Help:    "Wall time of individual model runs, by model.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"model"}),
	}
	if reg != nil {
		reg.MustRegister(m.RunsStarted, m.RunsCompleted, m.RunsFailed, m.RunDuration)
	}
	return m
}
