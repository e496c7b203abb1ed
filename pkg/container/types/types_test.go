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

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedLength(t *testing.T) {
	require.Equal(t, 1, T_bool.FixedLength())
	require.Equal(t, 2, T_uint16.FixedLength())
	require.Equal(t, 4, T_date.FixedLength())
	require.Equal(t, 8, T_float64.FixedLength())
	require.Equal(t, -1, T_varchar.FixedLength())
	require.Panics(t, func() { T_any.FixedLength() })

	require.True(t, T_int64.ToType().IsFixedLen())
	require.False(t, New(T_char, 10, 0).IsFixedLen())
	require.False(t, T_any.ToType().IsFixedLen())
	require.False(t, T_any.ToType().IsValid())
	require.False(t, T(T_varchar+1).ToType().IsValid())
	require.True(t, T_bool.ToType().IsValid())
}

func TestCheckValue(t *testing.T) {
	require.True(t, T_int32.ToType().CheckValue(int32(1)))
	require.False(t, T_int32.ToType().CheckValue(int64(1)))
	require.True(t, T_varchar.ToType().CheckValue("a"))
	require.True(t, T_date.ToType().CheckValue(Date(3)))
	require.False(t, T_date.ToType().CheckValue(int32(3)))
	require.False(t, T_bool.ToType().CheckValue(nil))
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "VARCHAR(20)", New(T_varchar, 20, 0).String())
	require.Equal(t, "BIGINT UNSIGNED", T_uint64.ToType().String())
}

func TestDate(t *testing.T) {
	d := DateFromCalendar(2022, time.March, 14)
	require.Equal(t, "2022-03-14", d.String())
	require.Equal(t, Date(0), DateFromCalendar(1, time.January, 1))
	require.Equal(t, d+1, DateFromCalendar(2022, time.March, 15))
}
