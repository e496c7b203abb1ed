// Copyright 2022 Matrix Origin
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
	"regexp"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
)

func TestLogConfig_getter(t *testing.T) {
	type fields struct {
		Level      string
		Format     string
		Filename   string
		MaxSize    int
		MaxDays    int
		MaxBackups int

		Entry zapcore.Entry
	}
	tests := []struct {
		name        string
		fields      fields
		wantLevel   zap.AtomicLevel
		wantOpts    []zap.Option
		wantSyncer  zapcore.WriteSyncer
		wantEncoder zapcore.Encoder
		wantSinks   []ZapSink
	}{
		{
			name: "normal",
			fields: fields{
				Level:  "debug",
				Format: "console",

				Entry: zapcore.Entry{Level: zapcore.DebugLevel, Message: "console msg"},
			},
			wantLevel:   zap.NewAtomicLevelAt(zap.DebugLevel),
			wantOpts:    []zap.Option{zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller()},
			wantSyncer:  getConsoleSyncer(),
			wantEncoder: getLoggerEncoder("console"),
			wantSinks:   []ZapSink{{getLoggerEncoder("console"), getConsoleSyncer()}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &LogConfig{
				Level:      tt.fields.Level,
				Format:     tt.fields.Format,
				Filename:   tt.fields.Filename,
				MaxSize:    tt.fields.MaxSize,
				MaxDays:    tt.fields.MaxDays,
				MaxBackups: tt.fields.MaxBackups,
			}
			require.Equal(t, tt.wantLevel.Level(), cfg.getLevel().Level())
			require.Equal(t, len(tt.wantOpts), len(cfg.getOptions()))
			require.Equal(t, tt.wantSyncer, cfg.getSyncer())
			wantMsg, _ := tt.wantEncoder.EncodeEntry(tt.fields.Entry, nil)
			gotMsg, _ := cfg.getEncoder().EncodeEntry(tt.fields.Entry, nil)
			require.Equal(t, wantMsg.String(), gotMsg.String())
			require.Equal(t, len(tt.wantSinks), len(cfg.getSinks()))
		})
	}
}

func TestSetupMOLogger(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prev := GetGlobalLogger()
	defer replaceGlobalLogger(prev)

	tests := []struct {
		name string
		conf *LogConfig
	}{
		{
			name: "console",
			conf: &LogConfig{
				Level:   zapcore.DebugLevel.String(),
				Format:  "console",
				MaxSize: 512,
			},
		},
		{
			name: "json",
			conf: &LogConfig{
				Level:           zapcore.DebugLevel.String(),
				Format:          "json",
				MaxSize:         512,
				StacktraceLevel: "error",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupMOLogger(tt.conf)
			require.True(t, GetGlobalLogger().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestSetupMOLogger_panic(t *testing.T) {
	defer leaktest.AfterTest(t)()
	conf := &LogConfig{
		Level:   zapcore.DebugLevel.String(),
		Format:  "panic",
		MaxSize: 512,
	}
	defer func() {
		if err := recover(); err != nil {
			require.Equal(t, moerr.NewInternalError(context.TODO(), "unsupported log format: %s", conf.Format), err)
		} else {
			t.Errorf("not receive panic")
		}
	}()
	SetupMOLogger(conf)
}

func TestSetupMOLogger_panicDir(t *testing.T) {
	conf := &LogConfig{
		Level:    zapcore.DebugLevel.String(),
		Format:   "json",
		Filename: t.TempDir(),
		MaxSize:  512,
	}
	defer func() {
		if err := recover(); err != nil {
			require.Equal(t, "log file can't be a directory", err)
		} else {
			t.Errorf("not receive panic")
		}
	}()
	SetupMOLogger(conf)
}

func Test_getLoggerEncoder(t *testing.T) {
	defer leaktest.AfterTest(t)()
	tests := []struct {
		name       string
		format     string
		entry      zapcore.Entry
		wantOutput *regexp.Regexp
	}{
		{
			name:   "console",
			format: "console",
			entry:  zapcore.Entry{Level: zapcore.DebugLevel, Message: "console msg"},
			// like: 0001/01/01 00:00:00.000000 +0000 DEBUG console msg
			wantOutput: regexp.MustCompile(`\d{4}/\d{2}/\d{2} (\d{2}:{0,1}){3}\.\d{6} \+\d{4}\s+DEBUG\s+console msg`),
		},
		{
			name:       "json",
			format:     "json",
			entry:      zapcore.Entry{Level: zapcore.DebugLevel, Message: "json msg"},
			wantOutput: regexp.MustCompile(`\{.*"level":"DEBUG".*"msg":"json msg".*\}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getLoggerEncoder(tt.format)
			require.NotNil(t, got)
			buf, err := got.EncodeEntry(tt.entry, nil)
			require.Nil(t, err)
			require.Equal(t, 1, len(tt.wantOutput.FindAll(buf.Bytes(), -1)))
		})
	}
}

func TestContextFields(t *testing.T) {
	prev := GetGlobalLogger()
	defer replaceGlobalLogger(prev)

	core, logs := observer.New(zapcore.DebugLevel)
	replaceGlobalLogger(zap.New(core))

	ctx := WithFields(context.Background(), zap.String("op", "build"))
	ctx = WithFields(ctx, zap.Int("table", 7))
	Info(ctx, "sealed", zap.Int("keys", 3))
	Warnf(context.Background(), "threshold %d exceeded", 10)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, "sealed", entries[0].Message)
	ctxMap := entries[0].ContextMap()
	require.Equal(t, "build", ctxMap["op"])
	require.Equal(t, int64(7), ctxMap["table"])
	require.Equal(t, int64(3), ctxMap["keys"])
	require.Equal(t, "threshold 10 exceeded", entries[1].Message)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
