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

package mapjoin

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mapjoin/pkg/common/hashmap"
	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/config"
	"github.com/matrixorigin/mapjoin/pkg/container/batch"
	"github.com/matrixorigin/mapjoin/pkg/container/nulls"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/container/vector"
)

var (
	int64Typ   = types.T_int64.ToType()
	int32Typ   = types.T_int32.ToType()
	varcharTyp = types.T_varchar.ToType()
)

func newBuildTable(t *testing.T, optimized, lazy bool) *hashmap.JoinTable {
	tbl, err := hashmap.NewJoinTable(context.Background(), config.JoinTableParameters{
		LazyRows:      &lazy,
		OptimizedKeys: &optimized,
	}, []types.Type{int64Typ}, []types.Type{varcharTyp, int32Typ})
	require.NoError(t, err)
	return tbl
}

func buildBatch(t *testing.T) *batch.Batch {
	bat, err := batch.NewWithVectors(
		vector.NewWithFixed(int64Typ, []int64{1, 2, 2, 3, 0}, nulls.Build(4)),
		vector.NewWithStrings(varcharTyp, []string{"a", "b", "c", "d", "e"}, nil),
		vector.NewWithFixed(int32Typ, []int32{10, 20, 30, 40, 50}, nil),
	)
	require.NoError(t, err)
	return bat
}

func probeBatch(t *testing.T) *batch.Batch {
	bat, err := batch.NewWithVectors(
		vector.NewWithFixed(int64Typ, []int64{2, 5, 1, 0}, nulls.Build(3)),
		vector.NewWithStrings(varcharTyp, []string{"x", "y", "z", "w"}, nil),
	)
	require.NoError(t, err)
	return bat
}

func rowsOf(bat *batch.Batch) [][]any {
	rows := make([][]any, bat.RowCount())
	for i := range rows {
		for _, vec := range bat.Vecs {
			rows[i] = append(rows[i], vec.GetValue(i))
		}
	}
	return rows
}

func TestBuildAndProbe(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()
	for _, optimized := range []bool{true, false} {
		for _, lazy := range []bool{true, false} {
			tbl := newBuildTable(t, optimized, lazy)
			require.NoError(t, Build(ctx, tbl, []*batch.Batch{buildBatch(t)}, []int32{0}, []int32{1, 2}))
			require.True(t, tbl.Sealed())
			require.Equal(t, 4, tbl.Size())

			arg := &Argument{Table: tbl, KeyCols: []int32{0}, Workers: 2}
			outs, err := Probe(ctx, arg, []*batch.Batch{probeBatch(t), probeBatch(t)})
			require.NoError(t, err)
			require.Len(t, outs, 2)
			want := [][]any{
				{int64(2), "x", "b", int32(20)},
				{int64(2), "x", "c", int32(30)},
				{int64(1), "z", "a", int32(10)},
			}
			for _, out := range outs {
				require.Equal(t, want, rowsOf(out))
			}

			arg.NullSafes = []bool{true}
			outs, err = Probe(ctx, arg, []*batch.Batch{probeBatch(t)})
			require.NoError(t, err)
			require.Equal(t, append(want, []any{nil, "w", "e", int32(50)}), rowsOf(outs[0]))
		}
	}
}

func TestProbeMulti(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()

	t1 := newBuildTable(t, true, true)
	require.NoError(t, Build(ctx, t1, []*batch.Batch{buildBatch(t)}, []int32{0}, []int32{1, 2}))

	lazy, optimized := false, false
	t2, err := hashmap.NewJoinTable(ctx, config.JoinTableParameters{
		LazyRows:      &lazy,
		OptimizedKeys: &optimized,
	}, []types.Type{int64Typ}, []types.Type{int64Typ})
	require.NoError(t, err)
	bat, err := batch.NewWithVectors(
		vector.NewWithFixed(int64Typ, []int64{2, 2, 3}, nil),
		vector.NewWithFixed(int64Typ, []int64{100, 101, 300}, nil),
	)
	require.NoError(t, err)
	require.NoError(t, Build(ctx, t2, []*batch.Batch{bat}, []int32{0}, []int32{1}))

	arg := &Argument{Table: t1, Others: []*hashmap.JoinTable{t2}, KeyCols: []int32{0}, Workers: 1}
	outs, err := ProbeMulti(ctx, arg, []*batch.Batch{probeBatch(t)})
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{int64(2), "x", "b", int32(20), int64(100)},
		{int64(2), "x", "b", int32(20), int64(101)},
		{int64(2), "x", "c", int32(30), int64(100)},
		{int64(2), "x", "c", int32(30), int64(101)},
	}, rowsOf(outs[0]))
	require.Equal(t,
		[]types.Type{int64Typ, varcharTyp, varcharTyp, int32Typ, int64Typ},
		arg.OutputTypes([]types.Type{int64Typ, varcharTyp}))

	var buf bytes.Buffer
	arg.String(&buf)
	require.Equal(t, "mapjoin: inner join multi-way", buf.String())
}

func TestParallelProbeMatchesSerial(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()
	r := rand.New(rand.NewSource(7))

	randomBatch := func(n int) *batch.Batch {
		keys := make([]int64, n)
		vals := make([]int32, n)
		nsp := nulls.Build()
		for i := range keys {
			keys[i] = int64(r.Intn(40))
			vals[i] = int32(i)
			if r.Intn(20) == 0 {
				nulls.Add(nsp, uint64(i))
			}
		}
		bat, err := batch.NewWithVectors(
			vector.NewWithFixed(int64Typ, keys, nsp),
			vector.NewWithFixed(int32Typ, vals, nil),
		)
		require.NoError(t, err)
		return bat
	}

	lazy, optimized := true, true
	tbl, err := hashmap.NewJoinTable(ctx, config.JoinTableParameters{
		LazyRows:      &lazy,
		OptimizedKeys: &optimized,
	}, []types.Type{int64Typ}, []types.Type{int32Typ})
	require.NoError(t, err)
	require.NoError(t, Build(ctx, tbl, []*batch.Batch{randomBatch(300), randomBatch(300)}, []int32{0}, []int32{1}))

	var probes []*batch.Batch
	for i := 0; i < 16; i++ {
		probes = append(probes, randomBatch(100))
	}
	serial, err := Probe(ctx, &Argument{Table: tbl, KeyCols: []int32{0}, Workers: 1}, probes)
	require.NoError(t, err)
	parallel, err := Probe(ctx, &Argument{Table: tbl, KeyCols: []int32{0}, Workers: 8}, probes)
	require.NoError(t, err)
	require.Len(t, parallel, len(serial))
	total := 0
	for i := range serial {
		require.Equal(t, rowsOf(serial[i]), rowsOf(parallel[i]))
		total += serial[i].RowCount()
	}
	require.Greater(t, total, 0)
}

func TestProbeErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()

	_, err := Probe(ctx, &Argument{}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	_, err = ProbeMulti(ctx, &Argument{}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	tbl := newBuildTable(t, true, true)
	require.NoError(t, Build(ctx, tbl, []*batch.Batch{buildBatch(t)}, []int32{0}, []int32{1, 2}))

	_, err = Probe(ctx, &Argument{Table: tbl, KeyCols: []int32{1}}, []*batch.Batch{probeBatch(t)})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDecodeFailure))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Probe(cancelled, &Argument{Table: tbl, KeyCols: []int32{0}}, []*batch.Batch{probeBatch(t)})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryCancelled))

	err = Build(cancelled, newBuildTable(t, true, true), []*batch.Batch{buildBatch(t)}, []int32{0}, []int32{1, 2})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryCancelled))

	err = Build(ctx, newBuildTable(t, true, true), []*batch.Batch{buildBatch(t)}, []int32{1}, []int32{1, 2})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDecodeFailure))
	err = Build(ctx, newBuildTable(t, true, true), []*batch.Batch{buildBatch(t)}, []int32{0}, []int32{2})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDecodeFailure))
}
