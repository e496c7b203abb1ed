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
	"github.com/matrixorigin/mapjoin/pkg/container/types"
)

// ObjectKey is the generic key. It keeps each component as a Go value and
// supports any column type.
type ObjectKey struct {
	typs []types.Type
	vals []any
	hash uint64
}

var _ Key = (*ObjectKey)(nil)

// NewObjectKey builds a generic key from already decoded values, nil meaning
// null. vals is retained.
func NewObjectKey(typs []types.Type, vals []any) *ObjectKey {
	k := &ObjectKey{typs: typs, vals: vals}
	k.seal()
	return k
}

func newObjectKey(typs []types.Type) *ObjectKey {
	return &ObjectKey{typs: typs, vals: make([]any, 0, len(typs))}
}

func (k *ObjectKey) reset() {
	clear(k.vals)
	k.vals = k.vals[:0]
}

func (k *ObjectKey) seal() {
	k.hash = hashValues(k.typs, k.vals)
}

func (k *ObjectKey) Kind() Kind { return KindGeneric }

func (k *ObjectKey) Hash() uint64 { return k.hash }

func (k *ObjectKey) Len() int { return len(k.vals) }

func (k *ObjectKey) IsNull(i int) bool { return k.vals[i] == nil }

func (k *ObjectKey) Value(i int) any { return k.vals[i] }

func (k *ObjectKey) Equal(other Key) bool {
	o, ok := other.(*ObjectKey)
	if !ok {
		return other != nil && equalKeys(k, other)
	}
	if k.hash != o.hash || len(k.vals) != len(o.vals) {
		return false
	}
	for i, v := range k.vals {
		if !valueEqual(v, o.vals[i]) {
			return false
		}
	}
	return true
}

func (k *ObjectKey) HasAnyNulls(fieldCount int, nullSafes []bool) bool {
	return hasAnyNulls(k, fieldCount, nullSafes)
}

func (k *ObjectKey) Clone() Key {
	return &ObjectKey{
		typs: k.typs,
		vals: append(make([]any, 0, len(k.vals)), k.vals...),
		hash: k.hash,
	}
}

func (k *ObjectKey) String() string {
	return keyString(k)
}
