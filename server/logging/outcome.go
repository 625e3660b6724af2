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
	"time"

	"go.uber.org/zap/zapcore"

	perrors "github.com/yorkie-team/revisor/pkg/errors"
)

// LevelOf picks the level an operation failure is logged at. Rejections the
// caller caused are expected and stay quiet. Broken invariants are errors.
func LevelOf(err error) zapcore.Level {
	if err == nil || errors.Is(err, context.Canceled) {
		return zapcore.DebugLevel
	}

	switch perrors.StatusOf(err) {
	case perrors.ErrCodeInvalidArgument, perrors.ErrCodeNotFound, perrors.ErrCodeAlreadyExists:
		return zapcore.InfoLevel
	case perrors.ErrCodeFailedPrecondition, perrors.ErrCodeResourceExhausted, perrors.ErrCodeAborted:
		return zapcore.WarnLevel
	case perrors.ErrCodeInternal, perrors.ErrCodeUnavailable:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// LogOperation logs the outcome of an operation with its duration.
func LogOperation(logger Logger, operation string, duration time.Duration, err error) {
	if err == nil {
		logger.Debugf("OP : %q %s", operation, duration)
		return
	}

	logger.Logf(LevelOf(err), "OP : %q %s => %q", operation, duration, err)
}
