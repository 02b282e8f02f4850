/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package prometheus provides the Prometheus metrics of model lifecycles.
package prometheus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yorkie-team/odm/internal/version"
)

const (
	namespace    = "odm"
	schemaLabel  = "schema"
	outcomeLabel = "outcome"
)

// Metrics manages the metric information of saves and deletes.
type Metrics struct {
	registry *prometheus.Registry

	engineVersion *prometheus.GaugeVec

	modelSavesTotal         *prometheus.CounterVec
	modelSaveDurationSecond *prometheus.HistogramVec
	modelDeletesTotal       *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		engineVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "version",
			Help:      "Which version is running. 1 for 'engine_version' label with current version.",
		}, []string{"engine_version"}),
		modelSavesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "saves_total",
			Help:      "The total count of saves per schema and outcome.",
		}, []string{schemaLabel, outcomeLabel}),
		modelSaveDurationSecond: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "save_duration_seconds",
			Help:      "The time taken by saves, including hooks and storage.",
		}, []string{schemaLabel}),
		modelDeletesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "deletes_total",
			Help:      "The total count of deleted documents per schema.",
		}, []string{schemaLabel}),
	}

	metrics.engineVersion.With(prometheus.Labels{
		"engine_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// ObserveSave records the outcome and the duration of a save.
func (m *Metrics) ObserveSave(schema, outcome string, duration time.Duration) {
	m.modelSavesTotal.With(prometheus.Labels{
		schemaLabel:  schema,
		outcomeLabel: outcome,
	}).Inc()
	m.modelSaveDurationSecond.With(prometheus.Labels{
		schemaLabel: schema,
	}).Observe(duration.Seconds())
}

// AddDelete counts a deleted document.
func (m *Metrics) AddDelete(schema string) {
	m.modelDeletesTotal.With(prometheus.Labels{
		schemaLabel: schema,
	}).Inc()
}

// Registry returns the registry of the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
