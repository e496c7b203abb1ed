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

// Package joinkey decodes join keys from scalar rows and column batches.
//
// A Key is the ordered tuple of join column values of one row. Equality and
// hash are pure functions of that tuple, whichever variant holds it: both
// variants hash the canonical field encoding of package encoding.
package joinkey

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/encoding"
)

// Kind selects the key representation. It is chosen once per codec.
type Kind uint8

const (
	// KindGeneric keys hold decoded Go values. A generic key retained by a map
	// must be a fresh allocation.
	KindGeneric Kind = iota
	// KindOptimized keys hold the compact fixed-width encoding and may be
	// decoded in place into a scratch key.
	KindOptimized
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindOptimized:
		return "optimized"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Key is a decoded join key.
type Key interface {
	Kind() Kind
	Hash() uint64
	Equal(other Key) bool
	// Len is the number of key components.
	Len() int
	IsNull(i int) bool
	// Value returns component i, nil when it is null.
	Value(i int) any
	// HasAnyNulls reports whether any of the first fieldCount components is
	// null, ignoring components whose nullSafes flag is set.
	HasAnyNulls(fieldCount int, nullSafes []bool) bool
	// Clone returns a copy sharing no mutable memory with the receiver.
	Clone() Key
	String() string
}

func hasAnyNulls(k Key, fieldCount int, nullSafes []bool) bool {
	if fieldCount > k.Len() {
		fieldCount = k.Len()
	}
	for i := 0; i < fieldCount; i++ {
		if k.IsNull(i) && (i >= len(nullSafes) || !nullSafes[i]) {
			return true
		}
	}
	return false
}

// equalKeys compares two keys component by component. It is the slow path
// used when the variants differ.
func equalKeys(a, b Key) bool {
	if a.Len() != b.Len() || a.Hash() != b.Hash() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) != b.IsNull(i) {
			return false
		}
		if !a.IsNull(i) && !valueEqual(a.Value(i), b.Value(i)) {
			return false
		}
	}
	return true
}

// valueEqual matches the byte equality of the encoded form, so floats are
// compared by their bits.
func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case float32:
		y, ok := b.(float32)
		return ok && math.Float32bits(x) == math.Float32bits(y)
	case float64:
		y, ok := b.(float64)
		return ok && math.Float64bits(x) == math.Float64bits(y)
	}
	return a == b
}

func keyString(k Key) string {
	var buf bytes.Buffer
	buf.WriteByte('(')
	for i := 0; i < k.Len(); i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		if k.IsNull(i) {
			buf.WriteString("NULL")
		} else {
			fmt.Fprintf(&buf, "%v", k.Value(i))
		}
	}
	buf.WriteByte(')')
	return buf.String()
}

// hashValues hashes vals exactly as xxhash.Sum64 of their tuple encoding.
func hashValues(typs []types.Type, vals []any) uint64 {
	var d xxhash.Digest
	var tmp [16]byte
	d.Reset()
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			b, _ := encoding.AppendValue(tmp[:0], typs[i], v)
			_, _ = d.Write(b)
			continue
		}
		b := append(tmp[:0], encoding.TagValue)
		b = binary.AppendUvarint(b, uint64(len(s)))
		_, _ = d.Write(b)
		_, _ = d.WriteString(s)
	}
	return d.Sum64()
}
