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

package logging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	perrors "github.com/yorkie-team/revisor/pkg/errors"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected zapcore.Level
	}{
		{"nil error", nil, zapcore.DebugLevel},
		{"context canceled", context.Canceled, zapcore.DebugLevel},
		{"invalid argument", perrors.InvalidArgument("bad"), zapcore.InfoLevel},
		{"not found", fmt.Errorf("find: %w", perrors.NotFound("missing")), zapcore.InfoLevel},
		{"failed precondition", perrors.FailedPrecond("closed"), zapcore.WarnLevel},
		{"resource exhausted", perrors.ResourceExhausted("limit"), zapcore.WarnLevel},
		{"aborted", perrors.Aborted("conflict"), zapcore.WarnLevel},
		{"internal", perrors.Internal("broken"), zapcore.ErrorLevel},
		{"unavailable", perrors.Unavailable("down"), zapcore.ErrorLevel},
		{"plain error", errors.New("plain"), zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelOf(tt.err))
		})
	}
}

func TestLogOperation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core).Sugar()

	LogOperation(logger, "SendEdit", time.Millisecond, nil)
	LogOperation(logger, "SendEdit", time.Millisecond, perrors.FailedPrecond("edit window closed"))
	LogOperation(logger, "ApplyEdit", time.Millisecond, perrors.Internal("broken"))

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Contains(t, entries[1].Message, "edit window closed")
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestContext(t *testing.T) {
	logger := New("test")
	ctx := With(context.Background(), logger)
	assert.Equal(t, logger, From(ctx))
	assert.Equal(t, DefaultLogger(), From(context.Background()))

	core, logs := observer.New(zapcore.DebugLevel)
	ctx = WithFields(With(context.Background(), zap.New(core).Sugar()), NewField("thread", "0000000000000000000000aa"))
	From(ctx).Infof("applied edit")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "0000000000000000000000aa", entries[0].ContextMap()["thread"])
}

func TestSetters(t *testing.T) {
	assert.Error(t, SetLogLevel("verbose"))
	assert.Error(t, SetLogFormat("xml"))
	assert.NoError(t, SetLogFormat("console"))
}
