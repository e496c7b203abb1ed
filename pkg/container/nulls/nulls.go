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

// Package nulls wrap up functions for the manipulation of bitmap library roaring.
// You can think of Nulls as a bitmap of the null rows of one column.
package nulls

import (
	"github.com/RoaringBitmap/roaring/roaring64"
)

type Nulls struct {
	Np *roaring64.Bitmap
}

func Build(rows ...uint64) *Nulls {
	nsp := &Nulls{}
	Add(nsp, rows...)
	return nsp
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	if nsp.Np == nil {
		return &Nulls{}
	}
	return &Nulls{Np: nsp.Np.Clone()}
}

// Any returns true if any bit in the Nulls is set, otherwise it will return false.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Size estimates the memory usage of the Nulls.
func Size(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetSizeInBytes())
}

// Length returns the number of null rows.
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetCardinality())
}

// Contains returns true if the row is null.
func Contains(nsp *Nulls, row uint64) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return nsp.Np.Contains(row)
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring64.NewBitmap()
	}
	nsp.Np.AddMany(rows)
}

func Del(nsp *Nulls, rows ...uint64) {
	if nsp.Np == nil {
		return
	}
	for _, row := range rows {
		nsp.Np.Remove(row)
	}
}

func Reset(nsp *Nulls) {
	if nsp.Np != nil {
		nsp.Np.Clear()
	}
}

func (nsp *Nulls) Contains(row uint64) bool {
	return Contains(nsp, row)
}

func (nsp *Nulls) Any() bool {
	return Any(nsp)
}

func (nsp *Nulls) String() string {
	if nsp == nil || nsp.Np == nil {
		return "{}"
	}
	return nsp.Np.String()
}
