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

	"github.com/cockroachdb/swiss"

	"github.com/matrixorigin/mapjoin/pkg/config"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/joinkey"
	"github.com/matrixorigin/mapjoin/pkg/container/rowgroup"
)

//go:generate mockgen -source=types.go -destination=mock_hashmap/mock_keycodec.go -package=mock_hashmap

// KeyCodec decodes join keys for a table and its cursors.
type KeyCodec interface {
	// Kind is the key variant every decode returns.
	Kind() joinkey.Kind
	// DecodeRow evaluates a key from a scalar row. With reuse set, the codec
	// may overwrite scratch and return it.
	DecodeRow(scratch joinkey.Key, row []any, evals []joinkey.Evaluator, reuse bool) (joinkey.Key, error)
	// DecodeBatch reads the key of one batch row.
	DecodeBatch(scratch joinkey.Key, bat *batch.Batch, row int, keyCols []int32, reuse bool) (joinkey.Key, error)
}

var _ KeyCodec = (*joinkey.Codec)(nil)

// Option customizes a JoinTable at construction.
type Option func(*JoinTable)

// WithKeyCodec replaces the key codec derived from the key types.
func WithKeyCodec(codec KeyCodec) Option {
	return func(jt *JoinTable) {
		jt.codec = codec
	}
}

// entry is one distinct key. Entries whose keys share a hash are chained.
type entry struct {
	key  joinkey.Key
	rows *rowgroup.RowGroup
	next *entry
}

// JoinTable maps each distinct build key to the group of build rows that
// carry it.
//
// A table is built by a single goroutine through InsertRow or
// InsertBatchRow. After Seal it is read-only and any number of
// LookupCursors may probe it concurrently. Seal is advisory: nothing stops
// an insert after it.
type JoinTable struct {
	ctx      context.Context
	params   config.JoinTableParameters
	codec    KeyCodec
	rowCodec *rowgroup.Codec
	lazy     bool

	mapping *swiss.Map[uint64, *entry]
	size    int
	rows    int

	// lastKey is the build scratch key. With optimized keys it is decoded
	// into in place and must never be stored in mapping.
	lastKey joinkey.Key
	valBuf  []byte

	sealed bool
	warned bool
	refCnt int64
}

// Stats is a point in time summary of a table.
type Stats struct {
	Keys      int
	Rows      int
	Sealed    bool
	KeyKind   joinkey.Kind
	LazyRows  bool
	Threshold int
}
