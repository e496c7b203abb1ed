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

package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/matrixorigin/mapjoin/pkg/common/hashmap"
	"github.com/matrixorigin/mapjoin/pkg/config"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/nulls"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/container/vector"
	"github.com/matrixorigin/mapjoin/pkg/sql/colexec/mapjoin"
)

// workload describes a synthetic join: an int64 key with a varchar payload
// on both sides.
type workload struct {
	BuildRows int
	ProbeRows int
	BatchSize int
	Keys      int
	NullRatio float64
	Workers   int
	Seed      int64
}

type result struct {
	Stats      hashmap.Stats
	OutputRows int
	Build      time.Duration
	Probe      time.Duration
}

var (
	keyTyps = []types.Type{types.T_int64.ToType()}
	valTyps = []types.Type{types.T_varchar.ToType()}
)

func (w workload) batches(r *rand.Rand, rows int) []*batch.Batch {
	var bats []*batch.Batch
	for off := 0; off < rows; off += w.BatchSize {
		n := min(w.BatchSize, rows-off)
		keys := make([]int64, n)
		vals := make([]string, n)
		nsp := nulls.Build()
		for i := range keys {
			keys[i] = int64(r.Intn(w.Keys))
			vals[i] = string(rune('a' + r.Intn(26)))
			if r.Float64() < w.NullRatio {
				nulls.Add(nsp, uint64(i))
			}
		}
		bat, err := batch.NewWithVectors(
			vector.NewWithFixed(keyTyps[0], keys, nsp),
			vector.NewWithStrings(valTyps[0], vals, nil),
		)
		if err != nil {
			panic(err)
		}
		bats = append(bats, bat)
	}
	return bats
}

func (w workload) run(ctx context.Context, params config.JoinTableParameters) (result, error) {
	var res result
	r := rand.New(rand.NewSource(w.Seed))
	tbl, err := hashmap.NewJoinTable(ctx, params, keyTyps, valTyps)
	if err != nil {
		return res, err
	}
	defer tbl.Free()

	builds := w.batches(r, w.BuildRows)
	probes := w.batches(r, w.ProbeRows)

	start := time.Now()
	if err = mapjoin.Build(ctx, tbl, builds, []int32{0}, []int32{1}); err != nil {
		return res, err
	}
	res.Build = time.Since(start)

	start = time.Now()
	outs, err := mapjoin.Probe(ctx, &mapjoin.Argument{
		Table:   tbl,
		KeyCols: []int32{0},
		Workers: w.Workers,
	}, probes)
	if err != nil {
		return res, err
	}
	res.Probe = time.Since(start)
	for _, out := range outs {
		res.OutputRows += out.RowCount()
	}
	res.Stats = tbl.Stats()
	tbl.DumpMetrics(ctx)
	return res, nil
}
