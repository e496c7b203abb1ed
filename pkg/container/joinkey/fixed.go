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
	"bytes"

	"github.com/cespare/xxhash/v2"

	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/encoding"
)

// FixedKey is the optimized key: every component is fixed-width, so the
// whole tuple is one buffer with static field offsets. Decoding into an
// existing FixedKey rewrites buf in place and never allocates.
type FixedKey struct {
	// typs and offs belong to the codec and are never written.
	typs []types.Type
	offs []int
	buf  []byte
	hash uint64
}

var _ Key = (*FixedKey)(nil)

func newFixedKey(typs []types.Type, offs []int, size int) *FixedKey {
	return &FixedKey{typs: typs, offs: offs, buf: make([]byte, 0, size)}
}

func (k *FixedKey) reset() {
	k.buf = k.buf[:0]
}

func (k *FixedKey) seal() {
	k.hash = xxhash.Sum64(k.buf)
}

func (k *FixedKey) Kind() Kind { return KindOptimized }

func (k *FixedKey) Hash() uint64 { return k.hash }

func (k *FixedKey) Len() int { return len(k.typs) }

func (k *FixedKey) IsNull(i int) bool {
	return encoding.IsNullField(k.buf[k.offs[i]:])
}

func (k *FixedKey) Value(i int) any {
	v, _, err := encoding.DecodeValue(k.buf[k.offs[i]:], k.typs[i])
	if err != nil {
		panic(err)
	}
	return v
}

func (k *FixedKey) Equal(other Key) bool {
	if o, ok := other.(*FixedKey); ok {
		return k.hash == o.hash && bytes.Equal(k.buf, o.buf)
	}
	return other != nil && equalKeys(k, other)
}

func (k *FixedKey) HasAnyNulls(fieldCount int, nullSafes []bool) bool {
	return hasAnyNulls(k, fieldCount, nullSafes)
}

// Bytes exposes the encoded tuple. The slice is only valid until the key is
// next decoded into.
func (k *FixedKey) Bytes() []byte {
	return k.buf
}

func (k *FixedKey) Clone() Key {
	return &FixedKey{
		typs: k.typs,
		offs: k.offs,
		buf:  append(make([]byte, 0, len(k.buf)), k.buf...),
		hash: k.hash,
	}
}

func (k *FixedKey) String() string {
	return keyString(k)
}
