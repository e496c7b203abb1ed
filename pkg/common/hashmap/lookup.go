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
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/joinkey"
	"github.com/matrixorigin/mapjoin/pkg/container/rowgroup"
	v2 "github.com/matrixorigin/mapjoin/pkg/util/metric/v2"
)

// LookupCursor probes one table. It owns a scratch key that every feed after
// the first decodes into in place, and caches the group the last feed
// resolved to. A cursor is not safe for concurrent use; concurrent probes
// use one cursor each.
type LookupCursor struct {
	table *JoinTable
	key   joinkey.Key
	// owned is false while key is borrowed from a hint or another cursor.
	// A borrowed key is never decoded into.
	owned  bool
	hasKey bool
	rows   *rowgroup.RowGroup

	hits   int
	misses int
}

// NewLookup returns a cursor on the table. hint, typically AnyKey, is the
// key reported by Key until the first feed; it is never modified.
func (jt *JoinTable) NewLookup(hint joinkey.Key) *LookupCursor {
	return &LookupCursor{table: jt, key: hint}
}

// FeedBatch decodes the key of one batch row and resolves its group.
func (c *LookupCursor) FeedBatch(bat *batch.Batch, row int, keyCols []int32) error {
	key, err := c.table.codec.DecodeBatch(c.key, bat, row, keyCols, c.owned)
	return c.resolve(key, err)
}

// FeedRow decodes the key of a scalar row and resolves its group.
func (c *LookupCursor) FeedRow(row []any, evals []joinkey.Evaluator) error {
	key, err := c.table.codec.DecodeRow(c.key, row, evals, c.owned)
	return c.resolve(key, err)
}

func (c *LookupCursor) resolve(key joinkey.Key, err error) error {
	if err != nil {
		c.key, c.owned, c.hasKey, c.rows = nil, false, false, nil
		return err
	}
	c.key, c.owned, c.hasKey = key, true, true
	c.lookup()
	return nil
}

func (c *LookupCursor) lookup() {
	c.rows = c.table.Get(c.key)
	if c.rows != nil {
		c.hits++
	} else {
		c.misses++
	}
}

// CopyStateFrom adopts other's current key and resolves it against this
// cursor's table, so a key decoded once can probe several tables. The key is
// borrowed: this cursor never decodes into it, and it changes when other is
// fed again.
func (c *LookupCursor) CopyStateFrom(other *LookupCursor) {
	c.key, c.hasKey, c.owned = other.key, other.hasKey, false
	if !c.hasKey {
		c.rows = nil
		return
	}
	c.lookup()
}

// HasAnyNulls reports whether the current key has a null among its first
// fieldCount components, not counting those flagged in nullSafes. It is
// false before any key has been read.
func (c *LookupCursor) HasAnyNulls(fieldCount int, nullSafes []bool) bool {
	if !c.hasKey || c.key == nil {
		return false
	}
	return c.key.HasAnyNulls(fieldCount, nullSafes)
}

// CurrentRows is the group resolved by the last feed or copy, nil when the
// key is absent.
func (c *LookupCursor) CurrentRows() *rowgroup.RowGroup {
	return c.rows
}

// Key is the current key. It may be overwritten by the next feed.
func (c *LookupCursor) Key() joinkey.Key {
	return c.key
}

func (c *LookupCursor) HasKey() bool {
	return c.hasKey
}

// Close publishes the cursor's hit and miss counts.
func (c *LookupCursor) Close() {
	v2.JoinTableProbeHitCounter.Add(float64(c.hits))
	v2.JoinTableProbeMissCounter.Add(float64(c.misses))
	c.hits, c.misses = 0, 0
	c.key, c.rows, c.owned, c.hasKey = nil, nil, false, false
}
