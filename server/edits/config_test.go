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

package edits_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/revisor/server/edits"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := newTestConfig()
		assert.NoError(t, validConf.Validate())

		conf1 := *validConf
		conf1.IncomingWindow = "two days"
		assert.Error(t, conf1.Validate())

		conf2 := *validConf
		conf2.OutgoingWindow = "-"
		assert.Error(t, conf2.Validate())

		conf3 := *validConf
		conf3.IncomingLimit = 0
		assert.Error(t, conf3.Validate())

		conf4 := *validConf
		conf4.OutgoingLimit = -1
		assert.Error(t, conf4.Validate())
	})

	t.Run("parse window test", func(t *testing.T) {
		conf := &edits.Config{IncomingWindow: "48h", OutgoingWindow: "24h"}
		assert.Equal(t, 48*time.Hour, conf.ParseIncomingWindow())
		assert.Equal(t, 24*time.Hour, conf.ParseOutgoingWindow())

		conf.OutgoingWindow = ""
		assert.Zero(t, conf.ParseOutgoingWindow())
	})
}
