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
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/logutil"
)

const (
	// DefaultInitialCapacity is the number of distinct keys a join table is
	// sized for before its first resize.
	DefaultInitialCapacity = 1024
	// DefaultLoadFactor is the occupancy a join table is sized to at its
	// initial capacity.
	DefaultLoadFactor = 0.75
	// DefaultThreshold is the distinct key count past which a join table
	// reports that it has outgrown memory.
	DefaultThreshold = 100000
	// MaxInitialCapacity bounds InitialCapacity and the table size hint
	// derived from it.
	MaxInitialCapacity = 1 << 30

	// MetadataThreshold and MetadataLoadFactor are the keys understood by
	// FromMetadata.
	MetadataThreshold  = "threshold"
	MetadataLoadFactor = "load"
)

// JoinTableParameters configures one in-memory join table.
type JoinTableParameters struct {
	//default is 1024. distinct keys the table is sized for up front
	InitialCapacity int `toml:"initialCapacity"`

	//default is 0.75. must be in (0, 1]
	LoadFactor float32 `toml:"loadFactor"`

	//default is true. keep build rows encoded until a probe reads them
	LazyRows *bool `toml:"lazyRows"`

	//default is true. use the compact fixed-width key encoding when every key column allows it
	OptimizedKeys *bool `toml:"optimizedKeys"`

	//default is 100000. distinct keys past which the table logs that it should overflow.
	//the table never spills, the threshold is only reported.
	Threshold int `toml:"threshold"`
}

// Config is the top level configuration file layout.
type Config struct {
	JoinTable JoinTableParameters `toml:"join-table"`
	Log       logutil.LogConfig   `toml:"log"`
}

// DefaultJoinTableParameters returns parameters with every default applied.
func DefaultJoinTableParameters() JoinTableParameters {
	var p JoinTableParameters
	p.SetDefaultValues()
	return p
}

// SetDefaultValues fills every unset field with its documented default.
func (p *JoinTableParameters) SetDefaultValues() {
	if p.InitialCapacity == 0 {
		p.InitialCapacity = DefaultInitialCapacity
	}
	if p.LoadFactor == 0 {
		p.LoadFactor = DefaultLoadFactor
	}
	if p.LazyRows == nil {
		p.LazyRows = boolPtr(true)
	}
	if p.OptimizedKeys == nil {
		p.OptimizedKeys = boolPtr(true)
	}
	if p.Threshold == 0 {
		p.Threshold = DefaultThreshold
	}
}

// Validate checks the numeric fields. Unset fields must have been defaulted
// first.
func (p *JoinTableParameters) Validate(ctx context.Context) error {
	if p.InitialCapacity < 0 {
		return moerr.NewBadConfig(ctx, "initialCapacity %d must not be negative", p.InitialCapacity)
	}
	if p.InitialCapacity > MaxInitialCapacity {
		return moerr.NewBadConfig(ctx, "initialCapacity %d exceeds %d", p.InitialCapacity, MaxInitialCapacity)
	}
	if !(p.LoadFactor > 0 && p.LoadFactor <= 1) {
		return moerr.NewBadConfig(ctx, "loadFactor %v must be in (0, 1]", p.LoadFactor)
	}
	if p.Threshold <= 0 {
		return moerr.NewBadConfig(ctx, "threshold %d must be positive", p.Threshold)
	}
	if p.LazyRows == nil || p.OptimizedKeys == nil {
		return moerr.NewBadConfig(ctx, "lazyRows and optimizedKeys must be set")
	}
	return nil
}

// UseLazyRows reports the effective lazy materialization flag.
func (p *JoinTableParameters) UseLazyRows() bool {
	return p.LazyRows != nil && *p.LazyRows
}

// UseOptimizedKeys reports the effective optimized key flag.
func (p *JoinTableParameters) UseOptimizedKeys() bool {
	return p.OptimizedKeys != nil && *p.OptimizedKeys
}

// FromMetadata builds parameters from a serialized table descriptor that only
// carries a threshold and a load factor. Both keys are required. Lazy rows
// and optimized keys are disabled, since such descriptors predate them.
func FromMetadata(ctx context.Context, md map[string]string) (JoinTableParameters, error) {
	var p JoinTableParameters
	s, ok := md[MetadataThreshold]
	if !ok {
		return p, moerr.NewBadConfig(ctx, "metadata lacks %q", MetadataThreshold)
	}
	threshold, err := strconv.Atoi(s)
	if err != nil {
		return p, moerr.NewBadConfig(ctx, "metadata %q: %v", MetadataThreshold, err)
	}
	s, ok = md[MetadataLoadFactor]
	if !ok {
		return p, moerr.NewBadConfig(ctx, "metadata lacks %q", MetadataLoadFactor)
	}
	loadFactor, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return p, moerr.NewBadConfig(ctx, "metadata %q: %v", MetadataLoadFactor, err)
	}
	p = JoinTableParameters{
		InitialCapacity: min(threshold, MaxInitialCapacity),
		LoadFactor:      float32(loadFactor),
		LazyRows:        boolPtr(false),
		OptimizedKeys:   boolPtr(false),
		Threshold:       threshold,
	}
	if err = p.Validate(ctx); err != nil {
		return JoinTableParameters{}, err
	}
	return p, nil
}

// Metadata is the inverse of FromMetadata.
func (p *JoinTableParameters) Metadata() map[string]string {
	return map[string]string{
		MetadataThreshold:  strconv.Itoa(p.Threshold),
		MetadataLoadFactor: strconv.FormatFloat(float64(p.LoadFactor), 'g', -1, 32),
	}
}

// LoadConfig decodes a TOML configuration file, applies defaults and
// validates the result.
func LoadConfig(ctx context.Context, configFile string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(configFile, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode %s: %v", configFile, err)
	}
	return cfg, cfg.prepare(ctx)
}

// ParseConfig is LoadConfig for in-memory TOML.
func ParseConfig(ctx context.Context, data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode config: %v", err)
	}
	return cfg, cfg.prepare(ctx)
}

func (c *Config) prepare(ctx context.Context) error {
	c.JoinTable.SetDefaultValues()
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	return c.JoinTable.Validate(ctx)
}

func boolPtr(b bool) *bool {
	return &b
}
