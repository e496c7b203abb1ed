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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
)

func TestDefaultJoinTableParameters(t *testing.T) {
	p := DefaultJoinTableParameters()
	require.Equal(t, DefaultInitialCapacity, p.InitialCapacity)
	require.Equal(t, float32(DefaultLoadFactor), p.LoadFactor)
	require.Equal(t, DefaultThreshold, p.Threshold)
	require.True(t, p.UseLazyRows())
	require.True(t, p.UseOptimizedKeys())
	require.NoError(t, p.Validate(context.Background()))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		modify func(*JoinTableParameters)
	}{
		{"negative capacity", func(p *JoinTableParameters) { p.InitialCapacity = -1 }},
		{"capacity too large", func(p *JoinTableParameters) { p.InitialCapacity = MaxInitialCapacity + 1 }},
		{"load factor above one", func(p *JoinTableParameters) { p.LoadFactor = 1.5 }},
		{"negative load factor", func(p *JoinTableParameters) { p.LoadFactor = -0.1 }},
		{"negative threshold", func(p *JoinTableParameters) { p.Threshold = -3 }},
		{"unset flag", func(p *JoinTableParameters) { p.LazyRows = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultJoinTableParameters()
			tt.modify(&p)
			err := p.Validate(ctx)
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)
		})
	}
}

func TestParseConfig(t *testing.T) {
	ctx := context.Background()
	cfg, err := ParseConfig(ctx, `
[join-table]
initialCapacity = 64
loadFactor = 0.5
optimizedKeys = false

[log]
level = "debug"
format = "json"
`)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.JoinTable.InitialCapacity)
	require.Equal(t, float32(0.5), cfg.JoinTable.LoadFactor)
	require.False(t, cfg.JoinTable.UseOptimizedKeys())
	require.True(t, cfg.JoinTable.UseLazyRows())
	require.Equal(t, DefaultThreshold, cfg.JoinTable.Threshold)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)

	_, err = ParseConfig(ctx, "[join-table]\nloadFactor = 3.0\n")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	_, err = ParseConfig(ctx, "[join-table\n")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "mapjoin.toml")
	require.NoError(t, os.WriteFile(file, []byte("[join-table]\nthreshold = 10\nlazyRows = false\n"), 0o600))

	cfg, err := LoadConfig(ctx, file)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.JoinTable.Threshold)
	require.False(t, cfg.JoinTable.UseLazyRows())
	require.Equal(t, "info", cfg.Log.Level)

	_, err = LoadConfig(ctx, filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestMetadata(t *testing.T) {
	ctx := context.Background()
	p, err := FromMetadata(ctx, map[string]string{"threshold": "5000", "load": "0.8"})
	require.NoError(t, err)
	require.Equal(t, 5000, p.Threshold)
	require.Equal(t, 5000, p.InitialCapacity)
	require.Equal(t, float32(0.8), p.LoadFactor)
	require.False(t, p.UseLazyRows())
	require.False(t, p.UseOptimizedKeys())
	require.Equal(t, map[string]string{"threshold": "5000", "load": "0.8"}, p.Metadata())

	for _, md := range []map[string]string{
		{"load": "0.8"},
		{"threshold": "5000"},
		{"threshold": "many", "load": "0.8"},
		{"threshold": "5000", "load": "high"},
		{"threshold": "5000", "load": "0"},
	} {
		_, err = FromMetadata(ctx, md)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "metadata %v", md)
	}
}
