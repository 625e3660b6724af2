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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/internal/version"
)

const (
	namespace      = "revisor"
	directionLabel = "direction"
	reasonLabel    = "reason"
	codeLabel      = "code"
)

// Metrics manages the metric information that Revisor is trying to measure.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	editsAppliedTotal     *prometheus.CounterVec
	editsRejectedTotal    *prometheus.CounterVec
	editsRefusedTotal     *prometheus.CounterVec
	editConflictsTotal    prometheus.Counter
	editApplySeconds      *prometheus.HistogramVec
	receiptsDispatchTotal prometheus.Counter
}

// NewMetrics creates a new instance of Metrics with its own registry.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		editsAppliedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_applied_total",
			Help:      "The total count of edits applied to messages.",
		}, []string{directionLabel}),
		editsRejectedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_rejected_total",
			Help:      "The total count of incoming edits dropped without being applied.",
		}, []string{reasonLabel}),
		editsRefusedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_refused_total",
			Help:      "The total count of local edits refused before sending.",
		}, []string{codeLabel}),
		editConflictsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edit_conflicts_total",
			Help:      "The total count of edits lost to a concurrent edit of the same message.",
		}),
		editApplySeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "edit_apply_seconds",
			Help:      "The time spent validating and applying an edit.",
		}, []string{directionLabel}),
		receiptsDispatchTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_receipts_dispatched_total",
			Help:      "The total count of read receipts dispatched for edited messages.",
		}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// AddEditApplied adds an edit applied in the given direction.
func (m *Metrics) AddEditApplied(direction types.Direction) {
	m.editsAppliedTotal.With(prometheus.Labels{
		directionLabel: string(direction),
	}).Inc()
}

// AddEditRejected adds an incoming edit dropped for the given reason.
func (m *Metrics) AddEditRejected(reason string) {
	m.editsRejectedTotal.With(prometheus.Labels{
		reasonLabel: reason,
	}).Inc()
}

// AddEditRefused adds a local edit refused with the given error code.
func (m *Metrics) AddEditRefused(code string) {
	m.editsRefusedTotal.With(prometheus.Labels{
		codeLabel: code,
	}).Inc()
}

// AddEditConflict adds an edit lost to a concurrent writer.
func (m *Metrics) AddEditConflict() {
	m.editConflictsTotal.Inc()
}

// ObserveEditApplySeconds adds an observation for the time spent applying
// an edit.
func (m *Metrics) ObserveEditApplySeconds(direction types.Direction, seconds float64) {
	m.editApplySeconds.With(prometheus.Labels{
		directionLabel: string(direction),
	}).Observe(seconds)
}

// AddReceiptsDispatched adds the number of read receipts dispatched.
func (m *Metrics) AddReceiptsDispatched(count int) {
	m.receiptsDispatchTotal.Add(float64(count))
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
