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

package vector

import (
	"context"
	"fmt"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/nulls"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
)

// Vector is one column of a batch. Col holds a []T for fixed-width types and
// a []string for char/varchar. Null rows keep a zero value in Col.
type Vector struct {
	Typ types.Type
	Col any
	Nsp *nulls.Nulls
}

func New(typ types.Type) *Vector {
	v := &Vector{Typ: typ, Nsp: &nulls.Nulls{}}
	switch typ.Oid {
	case types.T_bool:
		v.Col = []bool{}
	case types.T_int8:
		v.Col = []int8{}
	case types.T_int16:
		v.Col = []int16{}
	case types.T_int32:
		v.Col = []int32{}
	case types.T_int64:
		v.Col = []int64{}
	case types.T_uint8:
		v.Col = []uint8{}
	case types.T_uint16:
		v.Col = []uint16{}
	case types.T_uint32:
		v.Col = []uint32{}
	case types.T_uint64:
		v.Col = []uint64{}
	case types.T_float32:
		v.Col = []float32{}
	case types.T_float64:
		v.Col = []float64{}
	case types.T_date:
		v.Col = []types.Date{}
	case types.T_char, types.T_varchar:
		v.Col = []string{}
	default:
		panic(moerr.NewNotSupported(context.TODO(), "vector of type %s", typ))
	}
	return v
}

// NewWithFixed wraps vals without copying. nsp may be nil.
func NewWithFixed[T types.FixedSizeT](typ types.Type, vals []T, nsp *nulls.Nulls) *Vector {
	var zero T
	if !typ.CheckValue(zero) {
		panic(moerr.NewInternalError(context.TODO(), "type %s does not hold %T", typ, zero))
	}
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{Typ: typ, Col: vals, Nsp: nsp}
}

// NewWithStrings wraps vals without copying. nsp may be nil.
func NewWithStrings(typ types.Type, vals []string, nsp *nulls.Nulls) *Vector {
	if !typ.IsValid() || typ.IsFixedLen() {
		panic(moerr.NewInternalError(context.TODO(), "type %s does not hold strings", typ))
	}
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{Typ: typ, Col: vals, Nsp: nsp}
}

func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	return v.Col.([]T)
}

func MustStrCol(v *Vector) []string {
	return v.Col.([]string)
}

func (v *Vector) GetType() types.Type {
	return v.Typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.Nsp
}

func (v *Vector) IsNull(row uint64) bool {
	return v.Nsp.Contains(row)
}

func (v *Vector) Length() int {
	switch col := v.Col.(type) {
	case []bool:
		return len(col)
	case []int8:
		return len(col)
	case []int16:
		return len(col)
	case []int32:
		return len(col)
	case []int64:
		return len(col)
	case []uint8:
		return len(col)
	case []uint16:
		return len(col)
	case []uint32:
		return len(col)
	case []uint64:
		return len(col)
	case []float32:
		return len(col)
	case []float64:
		return len(col)
	case []types.Date:
		return len(col)
	case []string:
		return len(col)
	}
	panic(fmt.Sprintf("unexpected column %T", v.Col))
}

// GetValue returns the value at row, or nil when the row is null.
func (v *Vector) GetValue(row int) any {
	if v.Nsp.Contains(uint64(row)) {
		return nil
	}
	switch col := v.Col.(type) {
	case []bool:
		return col[row]
	case []int8:
		return col[row]
	case []int16:
		return col[row]
	case []int32:
		return col[row]
	case []int64:
		return col[row]
	case []uint8:
		return col[row]
	case []uint16:
		return col[row]
	case []uint32:
		return col[row]
	case []uint64:
		return col[row]
	case []float32:
		return col[row]
	case []float64:
		return col[row]
	case []types.Date:
		return col[row]
	case []string:
		return col[row]
	}
	panic(fmt.Sprintf("unexpected column %T", v.Col))
}

// Append adds one value. A nil val appends a null.
func (v *Vector) Append(val any) error {
	row := uint64(v.Length())
	if val == nil {
		nulls.Add(v.Nsp, row)
		v.appendZero()
		return nil
	}
	if !v.Typ.CheckValue(val) {
		return moerr.NewInvalidInput(context.TODO(), "append %T to %s vector", val, v.Typ)
	}
	switch col := v.Col.(type) {
	case []bool:
		v.Col = append(col, val.(bool))
	case []int8:
		v.Col = append(col, val.(int8))
	case []int16:
		v.Col = append(col, val.(int16))
	case []int32:
		v.Col = append(col, val.(int32))
	case []int64:
		v.Col = append(col, val.(int64))
	case []uint8:
		v.Col = append(col, val.(uint8))
	case []uint16:
		v.Col = append(col, val.(uint16))
	case []uint32:
		v.Col = append(col, val.(uint32))
	case []uint64:
		v.Col = append(col, val.(uint64))
	case []float32:
		v.Col = append(col, val.(float32))
	case []float64:
		v.Col = append(col, val.(float64))
	case []types.Date:
		v.Col = append(col, val.(types.Date))
	case []string:
		v.Col = append(col, val.(string))
	}
	return nil
}

func (v *Vector) appendZero() {
	switch col := v.Col.(type) {
	case []bool:
		v.Col = append(col, false)
	case []int8:
		v.Col = append(col, 0)
	case []int16:
		v.Col = append(col, 0)
	case []int32:
		v.Col = append(col, 0)
	case []int64:
		v.Col = append(col, 0)
	case []uint8:
		v.Col = append(col, 0)
	case []uint16:
		v.Col = append(col, 0)
	case []uint32:
		v.Col = append(col, 0)
	case []uint64:
		v.Col = append(col, 0)
	case []float32:
		v.Col = append(col, 0)
	case []float64:
		v.Col = append(col, 0)
	case []types.Date:
		v.Col = append(col, 0)
	case []string:
		v.Col = append(col, "")
	}
}

func (v *Vector) String() string {
	return fmt.Sprintf("%s%v-%s", v.Typ, v.Col, v.Nsp)
}
