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

package batch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
	"github.com/matrixorigin/mapjoin/pkg/container/vector"
)

func TestBatchAppend(t *testing.T) {
	bat := New([]string{"id", "name"})
	bat.SetVector(0, vector.New(types.T_int32.ToType()))
	bat.SetVector(1, vector.New(types.T_varchar.ToType()))

	require.NoError(t, bat.Append(int32(1), "a"))
	require.NoError(t, bat.Append(nil, "b"))
	require.Equal(t, 2, bat.RowCount())
	require.Nil(t, bat.GetVector(0).GetValue(1))

	err := bat.Append(int32(3))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Equal(t, 2, bat.RowCount())
}

func TestNewWithVectors(t *testing.T) {
	bat, err := NewWithVectors(
		vector.NewWithFixed(types.T_int64.ToType(), []int64{1, 2, 3}, nil),
		vector.NewWithStrings(types.T_varchar.ToType(), []string{"a", "b", "c"}, nil),
	)
	require.NoError(t, err)
	require.Equal(t, 3, bat.RowCount())
	require.Equal(t, 2, bat.VectorCount())

	_, err = NewWithVectors(
		vector.NewWithFixed(types.T_int64.ToType(), []int64{1, 2, 3}, nil),
		vector.NewWithStrings(types.T_varchar.ToType(), []string{"a"}, nil),
	)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}
