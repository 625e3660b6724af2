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

package profiling_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/server/profiling"
	"github.com/yorkie-team/revisor/server/profiling/prometheus"
)

func TestServer(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)
	metrics.AddEditRejected("group_mismatch")

	t.Run("metrics endpoint test", func(t *testing.T) {
		srv := profiling.NewServer(&profiling.Config{Port: 8081}, metrics)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `revisor_edits_rejected_total{reason="group_mismatch"} 1`)
	})

	t.Run("custom metrics path test", func(t *testing.T) {
		srv := profiling.NewServer(&profiling.Config{Port: 8081, MetricsPath: "/internal/metrics"}, metrics)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("pprof disabled test", func(t *testing.T) {
		srv := profiling.NewServer(&profiling.Config{Port: 8081}, metrics)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("pprof enabled test", func(t *testing.T) {
		srv := profiling.NewServer(&profiling.Config{Port: 8081, EnablePprof: true}, metrics)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
