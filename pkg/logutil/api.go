// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"context"

	"go.uber.org/zap"
)

type ctxFieldsKey struct{}

// WithFields returns a context whose log calls carry fields in addition to
// their own.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	if prev, ok := ctx.Value(ctxFieldsKey{}).([]zap.Field); ok {
		fields = append(append(make([]zap.Field, 0, len(prev)+len(fields)), prev...), fields...)
	}
	return context.WithValue(ctx, ctxFieldsKey{}, fields)
}

func contextLogger(ctx context.Context) *zap.Logger {
	logger := GetGlobalLogger().WithOptions(zap.AddCallerSkip(1))
	if ctx == nil {
		return logger
	}
	if fields, ok := ctx.Value(ctxFieldsKey{}).([]zap.Field); ok {
		return logger.With(fields...)
	}
	return logger
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	contextLogger(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	contextLogger(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	contextLogger(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	contextLogger(ctx).Error(msg, fields...)
}

// Debugf only use in develop mode
func Debugf(ctx context.Context, msg string, fields ...interface{}) {
	contextLogger(ctx).Sugar().Debugf(msg, fields...)
}

// Infof only use in develop mode
func Infof(ctx context.Context, msg string, fields ...interface{}) {
	contextLogger(ctx).Sugar().Infof(msg, fields...)
}

// Warnf only use in develop mode
func Warnf(ctx context.Context, msg string, fields ...interface{}) {
	contextLogger(ctx).Sugar().Warnf(msg, fields...)
}

// Errorf only use in develop mode
func Errorf(ctx context.Context, msg string, fields ...interface{}) {
	contextLogger(ctx).WithOptions(zap.AddStacktrace(zap.ErrorLevel)).Sugar().Errorf(msg, fields...)
}
