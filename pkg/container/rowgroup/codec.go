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

package rowgroup

import (
	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/encoding"
)

// Codec converts build-side value rows to and from their encoded form.
type Codec struct {
	typs []types.Type
}

func NewCodec(typs []types.Type) *Codec {
	return &Codec{typs: typs}
}

func (c *Codec) Types() []types.Type {
	return c.typs
}

// EncodeRow appends the encoding of a scalar row to dst.
func (c *Codec) EncodeRow(dst []byte, row []any) ([]byte, error) {
	if len(row) != len(c.typs) {
		return dst, moerr.NewDecodeFailureNoCtx("row has %d values, expected %d", len(row), len(c.typs))
	}
	return encoding.AppendTuple(dst, c.typs, row)
}

// EncodeBatchRow appends the encoding of the cols of one batch row to dst.
func (c *Codec) EncodeBatchRow(dst []byte, bat *batch.Batch, row int, cols []int32) ([]byte, error) {
	if len(cols) != len(c.typs) {
		return dst, moerr.NewDecodeFailureNoCtx("%d value columns given, expected %d", len(cols), len(c.typs))
	}
	if row < 0 || row >= bat.RowCount() {
		return dst, moerr.NewDecodeFailureNoCtx("row %d out of range, batch has %d rows", row, bat.RowCount())
	}
	for i, col := range cols {
		if col < 0 || int(col) >= bat.VectorCount() {
			return dst, moerr.NewDecodeFailureNoCtx("value column %d out of range", col)
		}
		vec := bat.GetVector(col)
		if vec.Typ.Oid != c.typs[i].Oid {
			return dst, moerr.NewDecodeFailureNoCtx("value column %d is %s, expected %s", col, vec.Typ, c.typs[i])
		}
	}
	for _, col := range cols {
		dst = encoding.AppendVectorValue(dst, bat.GetVector(col), row)
	}
	return dst, nil
}

func (c *Codec) DecodeRow(src []byte) ([]any, error) {
	return encoding.DecodeTuple(src, c.typs)
}
