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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/revisor/server/profiling"
)

func TestConfig(t *testing.T) {
	t.Run("port test", func(t *testing.T) {
		assert.ErrorIs(t, (&profiling.Config{Port: -1}).Validate(), profiling.ErrInvalidProfilingPort)
		assert.ErrorIs(t, (&profiling.Config{Port: 0}).Validate(), profiling.ErrInvalidProfilingPort)
		assert.ErrorIs(t, (&profiling.Config{Port: 65536}).Validate(), profiling.ErrInvalidProfilingPort)
		assert.NoError(t, (&profiling.Config{Port: 8081}).Validate())
	})

	t.Run("metrics path test", func(t *testing.T) {
		conf := &profiling.Config{Port: 8081, MetricsPath: "metrics"}
		assert.ErrorIs(t, conf.Validate(), profiling.ErrInvalidMetricsPath)

		conf.MetricsPath = "/internal/metrics"
		assert.NoError(t, conf.Validate())
	})
}
