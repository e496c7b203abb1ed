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

// Package mapjoin runs an inner equi-join against in-memory join tables.
package mapjoin

import (
	"bytes"
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/mapjoin/pkg/common/hashmap"
	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/container/vector"
	"github.com/matrixorigin/mapjoin/pkg/logutil"
	v2 "github.com/matrixorigin/mapjoin/pkg/util/metric/v2"
)

const opName = "mapjoin"

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(opName)
	buf.WriteString(": inner join")
	if len(arg.Others) > 0 {
		buf.WriteString(" multi-way")
	}
}

// Build inserts the valCols of every row of batches under the key in
// keyCols, then seals tbl.
func Build(ctx context.Context, tbl *hashmap.JoinTable, batches []*batch.Batch, keyCols, valCols []int32) error {
	start := time.Now()
	var val []byte
	var err error
	for _, bat := range batches {
		if err = ctx.Err(); err != nil {
			return moerr.ConvertGoError(ctx, err)
		}
		for row := 0; row < bat.RowCount(); row++ {
			if val, err = tbl.RowCodec().EncodeBatchRow(val[:0], bat, row, valCols); err != nil {
				return err
			}
			if _, err = tbl.InsertBatchRow(bat, row, keyCols, val); err != nil {
				return err
			}
		}
	}
	tbl.Seal()
	v2.MapJoinBuildDurationHistogram.Observe(time.Since(start).Seconds())
	logutil.Debug(ctx, "map join build done",
		zap.Int("batches", len(batches)),
		zap.Int("keys", tbl.Size()),
		logutil.Elapsed(start))
	return nil
}

// Probe joins each probe batch with arg.Table. The output batch i holds the
// matches of batches[i]: the probe row columns followed by the build value
// columns, in probe row order and then build insertion order.
func Probe(ctx context.Context, arg *Argument, batches []*batch.Batch) ([]*batch.Batch, error) {
	if arg.Table == nil {
		return nil, moerr.NewInvalidInput(ctx, "map join probe without a table")
	}
	return arg.run(ctx, []*hashmap.JoinTable{arg.Table}, batches)
}

// ProbeMulti joins each probe batch with arg.Table and every table of
// arg.Others on the same key, emitting the cross product of the matches.
// The key is decoded once per row, on the cursor of arg.Table.
func ProbeMulti(ctx context.Context, arg *Argument, batches []*batch.Batch) ([]*batch.Batch, error) {
	if arg.Table == nil {
		return nil, moerr.NewInvalidInput(ctx, "map join probe without a table")
	}
	tables := append([]*hashmap.JoinTable{arg.Table}, arg.Others...)
	return arg.run(ctx, tables, batches)
}

func (arg *Argument) run(ctx context.Context, tables []*hashmap.JoinTable, batches []*batch.Batch) ([]*batch.Batch, error) {
	start := time.Now()
	workers := arg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	defer pool.Release()

	outs := make([]*batch.Batch, len(batches))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	for i, bat := range batches {
		if err = ctx.Err(); err != nil {
			setErr(moerr.ConvertGoError(ctx, err))
			break
		}
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				setErr(moerr.ConvertGoError(ctx, err))
				return
			}
			ctr := arg.newContainer(tables, bat)
			out, err := ctr.probe(arg, bat)
			if err != nil {
				setErr(err)
				return
			}
			outs[i] = out
		})
		if err != nil {
			wg.Done()
			setErr(moerr.ConvertGoError(ctx, err))
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	v2.MapJoinProbeDurationHistogram.Observe(time.Since(start).Seconds())
	logutil.Debug(ctx, "map join probe done",
		zap.Int("batches", len(batches)),
		zap.Int("tables", len(tables)),
		zap.Int("workers", workers),
		logutil.Elapsed(start))
	return outs, nil
}

func (arg *Argument) newContainer(tables []*hashmap.JoinTable, bat *batch.Batch) *container {
	ctr := &container{tables: tables}
	for _, vec := range bat.Vecs {
		ctr.outTyps = append(ctr.outTyps, vec.GetType())
	}
	for _, tbl := range tables {
		ctr.outTyps = append(ctr.outTyps, tbl.RowCodec().Types()...)
	}
	return ctr
}

func (ctr *container) newOutput() (*batch.Batch, error) {
	vecs := make([]*vector.Vector, len(ctr.outTyps))
	for i, typ := range ctr.outTyps {
		vecs[i] = vector.New(typ)
	}
	return batch.NewWithVectors(vecs...)
}

// probe joins one batch. It owns one cursor per table for its lifetime.
func (ctr *container) probe(arg *Argument, bat *batch.Batch) (*batch.Batch, error) {
	out, err := ctr.newOutput()
	if err != nil {
		return nil, err
	}
	cursors := make([]*hashmap.LookupCursor, len(ctr.tables))
	for i, tbl := range ctr.tables {
		hint, _ := tbl.AnyKey()
		cursors[i] = tbl.NewLookup(hint)
		defer cursors[i].Close()
	}

	groups := make([][][]any, len(ctr.tables))
	vals := make([]any, 0, len(ctr.outTyps))
	for row := 0; row < bat.RowCount(); row++ {
		if err = cursors[0].FeedBatch(bat, row, arg.KeyCols); err != nil {
			return nil, err
		}
		if cursors[0].HasAnyNulls(len(arg.KeyCols), arg.NullSafes) {
			continue
		}
		matched := true
		for i, c := range cursors {
			if i > 0 {
				c.CopyStateFrom(cursors[0])
			}
			g := c.CurrentRows()
			if g == nil || g.Len() == 0 {
				matched = false
				break
			}
			if groups[i], err = g.Rows(); err != nil {
				return nil, err
			}
		}
		if !matched {
			continue
		}

		vals = vals[:0]
		for _, vec := range bat.Vecs {
			vals = append(vals, vec.GetValue(row))
		}
		if err = emit(out, vals, groups); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// emit appends the cross product of groups, each combination prefixed by
// vals.
func emit(out *batch.Batch, vals []any, groups [][][]any) error {
	if len(groups) == 0 {
		return out.Append(vals...)
	}
	n := len(vals)
	for _, row := range groups[0] {
		if err := emit(out, append(vals[:n], row...), groups[1:]); err != nil {
			return err
		}
	}
	return nil
}

// OutputTypes is the column layout of the batches Probe returns for probe
// batches of probeTyps.
func (arg *Argument) OutputTypes(probeTyps []types.Type) []types.Type {
	typs := append([]types.Type(nil), probeTyps...)
	typs = append(typs, arg.Table.RowCodec().Types()...)
	for _, tbl := range arg.Others {
		typs = append(typs, tbl.RowCodec().Types()...)
	}
	return typs
}
