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

package joinkey

import (
	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/types"
)

//go:generate mockgen -source=evaluator.go -destination=mock_joinkey/mock_evaluator.go -package=mock_joinkey

// Evaluator produces one key component from a scalar row.
type Evaluator interface {
	// Type is the declared type of the produced value.
	Type() types.Type
	// Eval returns the component value of row, nil meaning null.
	Eval(row []any) (any, error)
}

// ColRef evaluates to column Idx of the row.
type ColRef struct {
	Idx int
	Typ types.Type
}

var _ Evaluator = ColRef{}

func NewColRef(idx int, typ types.Type) ColRef {
	return ColRef{Idx: idx, Typ: typ}
}

func (c ColRef) Type() types.Type {
	return c.Typ
}

func (c ColRef) Eval(row []any) (any, error) {
	if c.Idx < 0 || c.Idx >= len(row) {
		return nil, moerr.NewInvalidInputNoCtx("column %d out of range for row of %d values", c.Idx, len(row))
	}
	return row[c.Idx], nil
}

// ColRefs returns one ColRef per listed column.
func ColRefs(typs []types.Type, cols ...int) []Evaluator {
	evals := make([]Evaluator, len(cols))
	for i, c := range cols {
		evals[i] = NewColRef(c, typs[c])
	}
	return evals
}
