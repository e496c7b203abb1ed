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

// Package encoding holds the canonical byte layout of one column value. Join
// keys and encoded build rows are both sequences of these fields.
//
// A fixed-width field is a tag byte followed by exactly FixedLength() little
// endian bytes. Null fixed-width fields keep the zero padding so that every
// field of a fixed-width tuple sits at a static offset. A variable length
// field is a tag byte followed, when not null, by a uvarint length and the
// raw bytes.
package encoding

import (
	"encoding/binary"
	"math"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/container/vector"
)

const (
	TagNull  byte = 0
	TagValue byte = 1
)

var zeroPadding [8]byte

// FieldSize returns the encoded size of a fixed-width field, tag included.
func FieldSize(typ types.Type) int {
	return 1 + typ.Oid.FixedLength()
}

// AppendValue appends the encoding of v, nil meaning null, to dst.
func AppendValue(dst []byte, typ types.Type, v any) ([]byte, error) {
	if v == nil {
		dst = append(dst, TagNull)
		if typ.IsFixedLen() {
			dst = append(dst, zeroPadding[:typ.Oid.FixedLength()]...)
		}
		return dst, nil
	}
	if !typ.CheckValue(v) {
		return dst, moerr.NewDecodeFailureNoCtx("value %v of Go type %T is not a %s", v, v, typ)
	}
	dst = append(dst, TagValue)
	switch x := v.(type) {
	case bool:
		if x {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case int8:
		return append(dst, byte(x)), nil
	case uint8:
		return append(dst, x), nil
	case int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(x)), nil
	case uint16:
		return binary.LittleEndian.AppendUint16(dst, x), nil
	case int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(x)), nil
	case uint32:
		return binary.LittleEndian.AppendUint32(dst, x), nil
	case types.Date:
		return binary.LittleEndian.AppendUint32(dst, uint32(x)), nil
	case float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(x)), nil
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(x)), nil
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, x), nil
	case float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(x)), nil
	case string:
		dst = binary.AppendUvarint(dst, uint64(len(x)))
		return append(dst, x...), nil
	}
	panic("unreachable")
}

// DecodeValue decodes one field of type typ from the front of src and
// returns it with the number of bytes consumed. Null decodes to nil.
func DecodeValue(src []byte, typ types.Type) (any, int, error) {
	if len(src) == 0 {
		return nil, 0, moerr.NewDecodeFailureNoCtx("empty input for %s", typ)
	}
	tag := src[0]
	if tag != TagNull && tag != TagValue {
		return nil, 0, moerr.NewDecodeFailureNoCtx("bad field tag %d for %s", tag, typ)
	}
	if typ.IsFixedLen() {
		sz := typ.Oid.FixedLength()
		if len(src) < 1+sz {
			return nil, 0, moerr.NewDecodeFailureNoCtx("short input for %s: %d bytes", typ, len(src))
		}
		if tag == TagNull {
			return nil, 1 + sz, nil
		}
		return decodeFixed(src[1:1+sz], typ.Oid), 1 + sz, nil
	}
	if tag == TagNull {
		return nil, 1, nil
	}
	l, n := binary.Uvarint(src[1:])
	if n <= 0 || uint64(len(src)-1-n) < l {
		return nil, 0, moerr.NewDecodeFailureNoCtx("bad length prefix for %s", typ)
	}
	start := 1 + n
	return string(src[start : start+int(l)]), start + int(l), nil
}

// IsNullField reports whether the field at the front of src is null.
func IsNullField(src []byte) bool {
	return len(src) > 0 && src[0] == TagNull
}

func decodeFixed(b []byte, oid types.T) any {
	switch oid {
	case types.T_bool:
		return b[0] != 0
	case types.T_int8:
		return int8(b[0])
	case types.T_uint8:
		return b[0]
	case types.T_int16:
		return int16(binary.LittleEndian.Uint16(b))
	case types.T_uint16:
		return binary.LittleEndian.Uint16(b)
	case types.T_int32:
		return int32(binary.LittleEndian.Uint32(b))
	case types.T_uint32:
		return binary.LittleEndian.Uint32(b)
	case types.T_date:
		return types.Date(binary.LittleEndian.Uint32(b))
	case types.T_float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case types.T_int64:
		return int64(binary.LittleEndian.Uint64(b))
	case types.T_uint64:
		return binary.LittleEndian.Uint64(b)
	case types.T_float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	panic("unreachable")
}

// AppendTuple appends the encoding of every value in vals, typed by typs.
func AppendTuple(dst []byte, typs []types.Type, vals []any) ([]byte, error) {
	if len(typs) != len(vals) {
		return dst, moerr.NewDecodeFailureNoCtx("tuple has %d values, want %d", len(vals), len(typs))
	}
	var err error
	for i, v := range vals {
		if dst, err = AppendValue(dst, typs[i], v); err != nil {
			return dst, err
		}
	}
	return dst, nil
}

// DecodeTuple decodes a full tuple and fails on trailing bytes.
func DecodeTuple(src []byte, typs []types.Type) ([]any, error) {
	vals := make([]any, len(typs))
	off := 0
	for i, typ := range typs {
		v, n, err := DecodeValue(src[off:], typ)
		if err != nil {
			return nil, err
		}
		vals[i] = v
		off += n
	}
	if off != len(src) {
		return nil, moerr.NewDecodeFailureNoCtx("%d trailing bytes after tuple", len(src)-off)
	}
	return vals, nil
}

// AppendVectorValue appends the encoding of row of vec to dst without boxing
// the value.
func AppendVectorValue(dst []byte, vec *vector.Vector, row int) []byte {
	if vec.IsNull(uint64(row)) {
		dst = append(dst, TagNull)
		if vec.Typ.IsFixedLen() {
			dst = append(dst, zeroPadding[:vec.Typ.Oid.FixedLength()]...)
		}
		return dst
	}
	dst = append(dst, TagValue)
	switch col := vec.Col.(type) {
	case []bool:
		if col[row] {
			return append(dst, 1)
		}
		return append(dst, 0)
	case []int8:
		return append(dst, byte(col[row]))
	case []uint8:
		return append(dst, col[row])
	case []int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(col[row]))
	case []uint16:
		return binary.LittleEndian.AppendUint16(dst, col[row])
	case []int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(col[row]))
	case []uint32:
		return binary.LittleEndian.AppendUint32(dst, col[row])
	case []types.Date:
		return binary.LittleEndian.AppendUint32(dst, uint32(col[row]))
	case []float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(col[row]))
	case []int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(col[row]))
	case []uint64:
		return binary.LittleEndian.AppendUint64(dst, col[row])
	case []float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(col[row]))
	case []string:
		dst = binary.AppendUvarint(dst, uint64(len(col[row])))
		return append(dst, col[row]...)
	}
	panic("unreachable")
}
