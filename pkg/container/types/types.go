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

package types

import (
	"fmt"
	"time"

	"golang.org/x/exp/constraints"
)

type T uint8

const (
	T_any T = iota

	T_bool

	T_int8
	T_int16
	T_int32
	T_int64

	T_uint8
	T_uint16
	T_uint32
	T_uint64

	T_float32
	T_float64

	// T_date is the number of days since 0001-01-01.
	T_date

	T_char
	T_varchar
)

// Date is stored as days since the epoch 0001-01-01.
type Date int32

// FixedSizeT are the Go types held by fixed-width columns.
type FixedSizeT interface {
	bool | constraints.Integer | constraints.Float | Date
}

type Type struct {
	Oid T
	// Width is the declared length of char/varchar columns.
	Width int32
	Scale int32
}

func New(oid T, width, scale int32) Type {
	return Type{Oid: oid, Width: width, Scale: scale}
}

func (t T) ToType() Type {
	return Type{Oid: t}
}

// FixedLength returns the encoded width in bytes of a fixed-width type and
// -1 for variable length types.
func (t T) FixedLength() int {
	switch t {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32, T_date:
		return 4
	case T_int64, T_uint64, T_float64:
		return 8
	case T_char, T_varchar:
		return -1
	default:
		panic(fmt.Sprintf("unexpected type %d", t))
	}
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_date:
		return "DATE"
	case T_char:
		return "CHAR"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// IsValid reports whether t is a concrete column type.
func (t Type) IsValid() bool {
	return t.Oid >= T_bool && t.Oid <= T_varchar
}

// IsFixedLen reports whether values of t are encoded in a constant number of
// bytes.
func (t Type) IsFixedLen() bool {
	return t.IsValid() && t.Oid != T_char && t.Oid != T_varchar
}

func (t Type) TypeSize() int {
	return t.Oid.FixedLength()
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid && t.Width == b.Width && t.Scale == b.Scale
}

func (t Type) String() string {
	if !t.IsFixedLen() && t.Width > 0 {
		return fmt.Sprintf("%s(%d)", t.Oid, t.Width)
	}
	return t.Oid.String()
}

// CheckValue reports whether v is the Go representation of a non-null value
// of type t.
func (t Type) CheckValue(v any) bool {
	switch v.(type) {
	case bool:
		return t.Oid == T_bool
	case int8:
		return t.Oid == T_int8
	case int16:
		return t.Oid == T_int16
	case int32:
		return t.Oid == T_int32
	case int64:
		return t.Oid == T_int64
	case uint8:
		return t.Oid == T_uint8
	case uint16:
		return t.Oid == T_uint16
	case uint32:
		return t.Oid == T_uint32
	case uint64:
		return t.Oid == T_uint64
	case float32:
		return t.Oid == T_float32
	case float64:
		return t.Oid == T_float64
	case Date:
		return t.Oid == T_date
	case string:
		return t.Oid == T_char || t.Oid == T_varchar
	}
	return false
}

var unixEpochDays = int32(-time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix() / 86400)

// DateFromCalendar builds a Date from a calendar day in UTC.
func DateFromCalendar(year int, month time.Month, day int) Date {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date(int32(d.Unix()/86400) + unixEpochDays)
}

func (d Date) String() string {
	return time.Unix(int64(int32(d)-unixEpochDays)*86400, 0).UTC().Format("2006-01-02")
}
