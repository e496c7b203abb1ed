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
	"github.com/matrixorigin/mapjoin/pkg/common/hashmap"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
)

// Argument configures an inner map join probe.
type Argument struct {
	// Table is the sealed build side.
	Table *hashmap.JoinTable
	// Others are further build sides probed with the same key, ProbeMulti
	// only.
	Others []*hashmap.JoinTable
	// KeyCols are the probe batch columns forming the key.
	KeyCols []int32
	// NullSafes marks key positions compared with <=>. A probe key with a
	// null in any other position matches nothing.
	NullSafes []bool
	// Workers bounds the batches probed in parallel. 0 means GOMAXPROCS.
	Workers int
}

type container struct {
	tables  []*hashmap.JoinTable
	outTyps []types.Type
}
