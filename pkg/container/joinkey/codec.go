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

package joinkey

import (
	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/encoding"
)

// Codec decodes keys of a fixed column type list.
//
// When reuse is true and scratch is a key previously produced by the same
// codec, the decode overwrites scratch and returns it. Otherwise a new key
// is allocated. Callers that retain keys must either pass reuse=false or
// Clone the result.
type Codec struct {
	kind Kind
	typs []types.Type
	// offs and size describe the fixed layout, optimized kind only.
	offs []int
	size int
}

// CanUseOptimized reports whether keys of typs fit the optimized layout.
func CanUseOptimized(typs []types.Type) bool {
	if len(typs) == 0 {
		return false
	}
	for _, typ := range typs {
		if !typ.IsFixedLen() {
			return false
		}
	}
	return true
}

// NewCodec returns a codec for typs. An optimized codec is only built when
// requested and every column is fixed-width.
func NewCodec(typs []types.Type, optimized bool) *Codec {
	c := &Codec{kind: KindGeneric, typs: typs}
	if optimized && CanUseOptimized(typs) {
		c.kind = KindOptimized
		c.offs = make([]int, len(typs))
		for i, typ := range typs {
			c.offs[i] = c.size
			c.size += encoding.FieldSize(typ)
		}
	}
	return c
}

func (c *Codec) Kind() Kind {
	return c.kind
}

func (c *Codec) Types() []types.Type {
	return c.typs
}

// DecodeRow evaluates evals against a scalar row.
func (c *Codec) DecodeRow(scratch Key, row []any, evals []Evaluator, reuse bool) (Key, error) {
	if len(evals) != len(c.typs) {
		return nil, moerr.NewDecodeFailureNoCtx("%d key evaluators for %d key columns", len(evals), len(c.typs))
	}
	switch c.kind {
	case KindOptimized:
		k := c.fixedScratch(scratch, reuse)
		k.reset()
		for i, e := range evals {
			v, err := c.eval(i, e, row)
			if err != nil {
				return nil, err
			}
			if k.buf, err = encoding.AppendValue(k.buf, c.typs[i], v); err != nil {
				return nil, err
			}
		}
		k.seal()
		return k, nil
	default:
		k := c.objectScratch(scratch, reuse)
		k.reset()
		for i, e := range evals {
			v, err := c.eval(i, e, row)
			if err != nil {
				return nil, err
			}
			k.vals = append(k.vals, v)
		}
		k.seal()
		return k, nil
	}
}

func (c *Codec) eval(i int, e Evaluator, row []any) (any, error) {
	if e == nil {
		return nil, moerr.NewDecodeFailureNoCtx("key evaluator %d is nil", i)
	}
	if !e.Type().Eq(c.typs[i]) {
		return nil, moerr.NewDecodeFailureNoCtx("key evaluator %d yields %s, key column is %s", i, e.Type(), c.typs[i])
	}
	v, err := e.Eval(row)
	if err != nil {
		return nil, moerr.NewDecodeFailureNoCtx("key evaluator %d: %v", i, err)
	}
	if v != nil && !c.typs[i].CheckValue(v) {
		return nil, moerr.NewDecodeFailureNoCtx("key evaluator %d returned %T for %s", i, v, c.typs[i])
	}
	return v, nil
}

// DecodeBatch reads the key of one batch row from the keyCols vectors.
func (c *Codec) DecodeBatch(scratch Key, bat *batch.Batch, row int, keyCols []int32, reuse bool) (Key, error) {
	if err := c.checkBatch(bat, row, keyCols); err != nil {
		return nil, err
	}
	switch c.kind {
	case KindOptimized:
		k := c.fixedScratch(scratch, reuse)
		k.reset()
		for _, col := range keyCols {
			k.buf = encoding.AppendVectorValue(k.buf, bat.GetVector(col), row)
		}
		k.seal()
		return k, nil
	default:
		k := c.objectScratch(scratch, reuse)
		k.reset()
		for _, col := range keyCols {
			k.vals = append(k.vals, bat.GetVector(col).GetValue(row))
		}
		k.seal()
		return k, nil
	}
}

func (c *Codec) checkBatch(bat *batch.Batch, row int, keyCols []int32) error {
	if bat == nil {
		return moerr.NewDecodeFailureNoCtx("nil batch")
	}
	if len(keyCols) != len(c.typs) {
		return moerr.NewDecodeFailureNoCtx("%d key columns given for %d key types", len(keyCols), len(c.typs))
	}
	if row < 0 || row >= bat.RowCount() {
		return moerr.NewDecodeFailureNoCtx("row %d out of range, batch has %d rows", row, bat.RowCount())
	}
	for i, col := range keyCols {
		if col < 0 || int(col) >= bat.VectorCount() {
			return moerr.NewDecodeFailureNoCtx("key column %d out of range, batch has %d vectors", col, bat.VectorCount())
		}
		vec := bat.GetVector(col)
		if vec == nil {
			return moerr.NewDecodeFailureNoCtx("key column %d is nil", col)
		}
		if !vec.Typ.Eq(c.typs[i]) {
			return moerr.NewDecodeFailureNoCtx("key column %d is %s, expected %s", col, vec.Typ, c.typs[i])
		}
		if row >= vec.Length() {
			return moerr.NewDecodeFailureNoCtx("key column %d has %d rows, want row %d", col, vec.Length(), row)
		}
	}
	return nil
}

func (c *Codec) fixedScratch(scratch Key, reuse bool) *FixedKey {
	if reuse {
		if k, ok := scratch.(*FixedKey); ok && k != nil && c.owns(k.typs) {
			return k
		}
	}
	return newFixedKey(c.typs, c.offs, c.size)
}

func (c *Codec) objectScratch(scratch Key, reuse bool) *ObjectKey {
	if reuse {
		if k, ok := scratch.(*ObjectKey); ok && k != nil && c.owns(k.typs) {
			return k
		}
	}
	return newObjectKey(c.typs)
}

func (c *Codec) owns(typs []types.Type) bool {
	return len(typs) == len(c.typs) && (len(typs) == 0 || &typs[0] == &c.typs[0])
}
