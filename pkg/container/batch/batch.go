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
	"bytes"
	"context"
	"fmt"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/container/vector"
)

func New(attrs []string) *Batch {
	return &Batch{
		Attrs: attrs,
		Vecs:  make([]*vector.Vector, len(attrs)),
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Vecs: make([]*vector.Vector, n),
	}
}

// NewWithVectors builds a batch over vecs, which must all have the same
// length.
func NewWithVectors(vecs ...*vector.Vector) (*Batch, error) {
	bat := &Batch{Vecs: vecs}
	for i, vec := range vecs {
		if i == 0 {
			bat.rowCount = vec.Length()
			continue
		}
		if vec.Length() != bat.rowCount {
			return nil, moerr.NewInvalidInput(context.TODO(), "vector %d has %d rows, vector 0 has %d", i, vec.Length(), bat.rowCount)
		}
	}
	return bat, nil
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(rowCount int) {
	bat.rowCount = rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

// Append adds one row. vals must hold one value per vector, nil for null.
func (bat *Batch) Append(vals ...any) error {
	if len(vals) != len(bat.Vecs) {
		return moerr.NewInvalidInput(context.TODO(), "append %d values to a batch of %d vectors", len(vals), len(bat.Vecs))
	}
	for i, val := range vals {
		if err := bat.Vecs[i].Append(val); err != nil {
			return err
		}
	}
	bat.rowCount++
	return nil
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, vec := range bat.Vecs {
		buf.WriteString(fmt.Sprintf("%d : %s\n", i, vec))
	}
	return buf.String()
}
