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

package vector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/nulls"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
)

func TestAppend(t *testing.T) {
	v := New(types.T_int64.ToType())
	require.NoError(t, v.Append(int64(1)))
	require.NoError(t, v.Append(nil))
	require.NoError(t, v.Append(int64(3)))
	require.Equal(t, 3, v.Length())
	require.Equal(t, []int64{1, 0, 3}, MustFixedCol[int64](v))
	require.Equal(t, int64(1), v.GetValue(0))
	require.Nil(t, v.GetValue(1))
	require.True(t, v.IsNull(1))

	err := v.Append("x")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Equal(t, 3, v.Length())
}

func TestStrings(t *testing.T) {
	v := NewWithStrings(types.New(types.T_varchar, 10, 0), []string{"a", "", "c"}, nulls.Build(1))
	require.Equal(t, 3, v.Length())
	require.Equal(t, "a", v.GetValue(0))
	require.Nil(t, v.GetValue(1))
	require.NoError(t, v.Append("d"))
	require.Equal(t, []string{"a", "", "c", "d"}, MustStrCol(v))
}

func TestNewWithFixedChecksType(t *testing.T) {
	require.Panics(t, func() {
		NewWithFixed(types.T_int32.ToType(), []int64{1}, nil)
	})
	require.Panics(t, func() {
		NewWithStrings(types.T_int32.ToType(), []string{"1"}, nil)
	})
	v := NewWithFixed(types.T_date.ToType(), []types.Date{7}, nil)
	require.Equal(t, types.Date(7), v.GetValue(0))
}
