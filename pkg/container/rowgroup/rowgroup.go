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

// Package rowgroup holds the build-side value rows that share one join key.
package rowgroup

import (
	"iter"
	"sync"
	"sync/atomic"
)

type slot struct {
	raw     []byte
	row     []any
	decoded bool
}

// RowGroup is an ordered list of value rows. Rows appended lazily stay in
// encoded form until the group is first read. Appends must not race with
// each other or with reads; reads may run concurrently.
type RowGroup struct {
	codec *Codec
	slots []slot

	once         sync.Once
	materialized atomic.Bool
	err          error
}

func New(codec *Codec) *RowGroup {
	return &RowGroup{codec: codec}
}

// Append adds one encoded row. A lazy append keeps a private copy of src; an
// eager one decodes it now and fails on malformed input.
func (g *RowGroup) Append(src []byte, lazy bool) error {
	if lazy && !g.materialized.Load() {
		g.slots = append(g.slots, slot{raw: append([]byte(nil), src...)})
		return nil
	}
	row, err := g.codec.DecodeRow(src)
	if err != nil {
		return err
	}
	g.slots = append(g.slots, slot{row: row, decoded: true})
	return nil
}

func (g *RowGroup) Len() int {
	return len(g.slots)
}

// Lazy reports how many rows are still encoded.
func (g *RowGroup) Lazy() int {
	if g.materialized.Load() {
		return 0
	}
	n := 0
	for i := range g.slots {
		if !g.slots[i].decoded {
			n++
		}
	}
	return n
}

func (g *RowGroup) materialize() error {
	g.once.Do(func() {
		for i := range g.slots {
			s := &g.slots[i]
			if s.decoded {
				continue
			}
			row, err := g.codec.DecodeRow(s.raw)
			if err != nil {
				g.err = err
				return
			}
			s.row, s.raw, s.decoded = row, nil, true
		}
		g.materialized.Store(true)
	})
	return g.err
}

// Rows returns every row in insertion order, decoding lazy rows on first use.
func (g *RowGroup) Rows() ([][]any, error) {
	if err := g.materialize(); err != nil {
		return nil, err
	}
	rows := make([][]any, len(g.slots))
	for i := range g.slots {
		rows[i] = g.slots[i].row
	}
	return rows, nil
}

func (g *RowGroup) Row(i int) ([]any, error) {
	if err := g.materialize(); err != nil {
		return nil, err
	}
	return g.slots[i].row, nil
}

// All iterates the rows in insertion order. It yields nothing when lazy
// rows fail to decode; Err reports that failure.
func (g *RowGroup) All() iter.Seq2[int, []any] {
	return func(yield func(int, []any) bool) {
		if g.materialize() != nil {
			return
		}
		for i := range g.slots {
			if !yield(i, g.slots[i].row) {
				return
			}
		}
	}
}

func (g *RowGroup) Err() error {
	return g.materialize()
}
