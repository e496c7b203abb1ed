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

package hashmap

import (
	"context"
	"iter"
	"sync/atomic"

	"github.com/cockroachdb/swiss"
	"go.uber.org/zap"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/config"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/joinkey"
	"github.com/matrixorigin/mapjoin/pkg/container/rowgroup"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/logutil"
	v2 "github.com/matrixorigin/mapjoin/pkg/util/metric/v2"
)

// thresholdExceeded is called once per table, on the insert that first takes
// the distinct key count past the configured threshold.
var thresholdExceeded = func(ctx context.Context, size, threshold int) {
	logutil.Warn(ctx, "join table exceeded its key threshold, overflow is not supported",
		zap.Int("keys", size),
		zap.Int("threshold", threshold))
	v2.JoinTableThresholdExceededCounter.Inc()
}

// NewJoinTable returns an empty table for the given key and value column
// types. Zero fields of params take their defaults; invalid values fail with
// a bad config error.
func NewJoinTable(
	ctx context.Context,
	params config.JoinTableParameters,
	keyTypes, valueTypes []types.Type,
	opts ...Option,
) (*JoinTable, error) {
	params.SetDefaultValues()
	if err := params.Validate(ctx); err != nil {
		return nil, err
	}
	if err := checkTypes(ctx, "key", keyTypes); err != nil {
		return nil, err
	}
	if err := checkTypes(ctx, "value", valueTypes); err != nil {
		return nil, err
	}
	jt := &JoinTable{
		ctx:      ctx,
		params:   params,
		rowCodec: rowgroup.NewCodec(valueTypes),
		lazy:     params.UseLazyRows(),
		refCnt:   1,
	}
	for _, opt := range opts {
		opt(jt)
	}
	if jt.codec == nil {
		if len(keyTypes) == 0 {
			return nil, moerr.NewInvalidInput(ctx, "join table needs at least one key column")
		}
		jt.codec = joinkey.NewCodec(keyTypes, params.UseOptimizedKeys())
	}
	jt.mapping = swiss.New[uint64, *entry](jt.capacityHint())
	logutil.Debug(ctx, "join table created",
		zap.Stringer("key-kind", jt.codec.Kind()),
		zap.Bool("lazy-rows", jt.lazy),
		zap.Int("capacity", jt.params.InitialCapacity))
	return jt, nil
}

func checkTypes(ctx context.Context, kind string, typs []types.Type) error {
	for i, typ := range typs {
		if !typ.IsValid() {
			return moerr.NewInvalidInput(ctx, "%s column %d has unsupported type %s", kind, i, typ)
		}
	}
	return nil
}

func (jt *JoinTable) capacityHint() int {
	hint := float64(jt.params.InitialCapacity) / float64(jt.params.LoadFactor)
	if hint > config.MaxInitialCapacity {
		return config.MaxInitialCapacity
	}
	return int(hint)
}

// reuseBuildKey reports whether build keys are decoded in place into
// lastKey, which forces a copy before a key is stored.
func (jt *JoinTable) reuseBuildKey() bool {
	return jt.codec.Kind() == joinkey.KindOptimized
}

func (jt *JoinTable) decodeInPlace() bool {
	return jt.lastKey != nil && jt.reuseBuildKey()
}

// RowCodec encodes values for InsertRow and InsertBatchRow.
func (jt *JoinTable) RowCodec() *rowgroup.Codec {
	return jt.rowCodec
}

func (jt *JoinTable) KeyKind() joinkey.Kind {
	return jt.codec.Kind()
}

// InsertRow decodes the key of a scalar row and appends the encoded value to
// the key's group. It returns the key held by the table, which stays valid
// for the table's lifetime. On a key decode failure the table is unchanged.
func (jt *JoinTable) InsertRow(row []any, evals []joinkey.Evaluator, value []byte) (joinkey.Key, error) {
	key, err := jt.codec.DecodeRow(jt.lastKey, row, evals, jt.decodeInPlace())
	if err != nil {
		return nil, err
	}
	return jt.insert(key, value)
}

// InsertBatchRow is InsertRow for one row of a column batch.
func (jt *JoinTable) InsertBatchRow(bat *batch.Batch, row int, keyCols []int32, value []byte) (joinkey.Key, error) {
	key, err := jt.codec.DecodeBatch(jt.lastKey, bat, row, keyCols, jt.decodeInPlace())
	if err != nil {
		return nil, err
	}
	return jt.insert(key, value)
}

func (jt *JoinTable) insert(key joinkey.Key, value []byte) (joinkey.Key, error) {
	jt.lastKey = key
	h := key.Hash()
	head, _ := jt.mapping.Get(h)
	e := head
	for ; e != nil; e = e.next {
		if e.key.Equal(key) {
			break
		}
	}
	if e == nil {
		rows := rowgroup.New(jt.rowCodec)
		// a group is published only once it holds a row.
		if err := rows.Append(value, jt.lazy); err != nil {
			return nil, err
		}
		stored := key
		if jt.reuseBuildKey() {
			stored = key.Clone()
		}
		e = &entry{key: stored, rows: rows, next: head}
		jt.mapping.Put(h, e)
		jt.size++
		if !jt.warned && jt.size > jt.params.Threshold {
			jt.warned = true
			thresholdExceeded(jt.ctx, jt.size, jt.params.Threshold)
		}
	} else if err := e.rows.Append(value, jt.lazy); err != nil {
		return nil, err
	}
	jt.rows++
	v2.JoinTableBuildRowsCounter.Inc()
	return e.key, nil
}

// Get returns the group for key, or nil.
func (jt *JoinTable) Get(key joinkey.Key) *rowgroup.RowGroup {
	if key == nil {
		return nil
	}
	head, ok := jt.mapping.Get(key.Hash())
	if !ok {
		return nil
	}
	for e := head; e != nil; e = e.next {
		if e.key.Equal(key) {
			return e.rows
		}
	}
	return nil
}

// Size is the number of distinct keys.
func (jt *JoinTable) Size() int {
	return jt.size
}

// Rows is the number of values appended across all groups.
func (jt *JoinTable) Rows() int {
	return jt.rows
}

// All iterates the live table in no particular order. The table must not be
// modified during iteration.
func (jt *JoinTable) All() iter.Seq2[joinkey.Key, *rowgroup.RowGroup] {
	return func(yield func(joinkey.Key, *rowgroup.RowGroup) bool) {
		jt.mapping.All(func(_ uint64, head *entry) bool {
			for e := head; e != nil; e = e.next {
				if !yield(e.key, e.rows) {
					return false
				}
			}
			return true
		})
	}
}

// AnyKey returns some resident key.
func (jt *JoinTable) AnyKey() (joinkey.Key, bool) {
	var key joinkey.Key
	for k := range jt.All() {
		key = k
		break
	}
	return key, key != nil
}

// Clear empties the table and drops the build scratch key. The table goes
// back to its build phase.
func (jt *JoinTable) Clear() {
	jt.mapping.Close()
	jt.mapping = swiss.New[uint64, *entry](jt.capacityHint())
	jt.size = 0
	jt.rows = 0
	jt.lastKey = nil
	jt.sealed = false
	jt.warned = false
}

// Seal marks the end of the build phase.
func (jt *JoinTable) Seal() {
	if jt.sealed {
		return
	}
	jt.sealed = true
	v2.JoinTableSealedCounter.Inc()
	v2.JoinTableDistinctKeysHistogram.Observe(float64(jt.size))
	logutil.Debug(jt.ctx, "join table sealed",
		zap.Int("keys", jt.size),
		zap.Int("rows", jt.rows))
}

func (jt *JoinTable) Sealed() bool {
	return jt.sealed
}

func (jt *JoinTable) Stats() Stats {
	return Stats{
		Keys:      jt.size,
		Rows:      jt.rows,
		Sealed:    jt.sealed,
		KeyKind:   jt.codec.Kind(),
		LazyRows:  jt.lazy,
		Threshold: jt.params.Threshold,
	}
}

// DumpMetrics logs the table summary.
func (jt *JoinTable) DumpMetrics(ctx context.Context) {
	s := jt.Stats()
	logutil.Info(ctx, "join table metrics",
		zap.Int("keys", s.Keys),
		zap.Int("rows", s.Rows),
		zap.Bool("sealed", s.Sealed),
		zap.Stringer("key-kind", s.KeyKind),
		zap.Bool("lazy-rows", s.LazyRows),
		zap.Int("threshold", s.Threshold))
}

// IncRef adds one holder of the table, for tables shared by several probe
// operators.
func (jt *JoinTable) IncRef() {
	atomic.AddInt64(&jt.refCnt, 1)
}

// Free drops one holder. The last holder clears the table; freeing a table
// with no holders left panics.
func (jt *JoinTable) Free() {
	switch n := atomic.AddInt64(&jt.refCnt, -1); {
	case n == 0:
		jt.Clear()
	case n < 0:
		panic(moerr.NewInvalidStateNoCtx("join table freed more times than referenced"))
	}
}
