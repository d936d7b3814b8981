// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package res

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// blockRow holds the blocks of one block row sorted by column
type blockRow struct {
	cols []int
	vals [][]float64
}

// BlockMatrix implements a square sparse matrix made of dense B×B blocks (row-major)
type BlockMatrix struct {
	N    int        // number of block rows (cells)
	B    int        // block size (equations per cell)
	rows []blockRow // block rows
}

// NewBlockMatrix allocates a new matrix with diagonal blocks
func NewBlockMatrix(n, b int) (o *BlockMatrix) {
	if n < 1 || b < 1 {
		chk.Panic("cannot allocate block matrix with n=%d and b=%d", n, b)
	}
	o = &BlockMatrix{N: n, B: b, rows: make([]blockRow, n)}
	for i := 0; i < n; i++ {
		o.Block(i, i)
	}
	return
}

// Block returns the block (i,j); it is allocated if not present
func (o *BlockMatrix) Block(i, j int) []float64 {
	r := &o.rows[i]
	k := sort.SearchInts(r.cols, j)
	if k < len(r.cols) && r.cols[k] == j {
		return r.vals[k]
	}
	blk := make([]float64, o.B*o.B)
	r.cols = append(r.cols, 0)
	r.vals = append(r.vals, nil)
	copy(r.cols[k+1:], r.cols[k:])
	copy(r.vals[k+1:], r.vals[k:])
	r.cols[k], r.vals[k] = j, blk
	return blk
}

// Has tells whether block (i,j) is allocated
func (o *BlockMatrix) Has(i, j int) bool {
	r := &o.rows[i]
	k := sort.SearchInts(r.cols, j)
	return k < len(r.cols) && r.cols[k] == j
}

// Add adds v to entry (r,c) of block (i,j)
func (o *BlockMatrix) Add(i, j, r, c int, v float64) {
	o.Block(i, j)[r*o.B+c] += v
}

// Get returns entry (r,c) of block (i,j); zero if the block is not allocated
func (o *BlockMatrix) Get(i, j, r, c int) float64 {
	if !o.Has(i, j) {
		return 0
	}
	return o.Block(i, j)[r*o.B+c]
}

// Zero sets all values to zero keeping the sparsity pattern
func (o *BlockMatrix) Zero() {
	for i := range o.rows {
		for _, blk := range o.rows[i].vals {
			for k := range blk {
				blk[k] = 0
			}
		}
	}
}

// MulVec computes y := A・x
func (o *BlockMatrix) MulVec(y, x []float64) {
	b := o.B
	for i := range o.rows {
		yi := y[i*b : (i+1)*b]
		for r := 0; r < b; r++ {
			yi[r] = 0
		}
		for k, j := range o.rows[i].cols {
			blk := o.rows[i].vals[k]
			xj := x[j*b : (j+1)*b]
			for r := 0; r < b; r++ {
				for c := 0; c < b; c++ {
					yi[r] += blk[r*b+c] * xj[c]
				}
			}
		}
	}
}

// Nnz returns the number of stored entries
func (o *BlockMatrix) Nnz() (n int) {
	for i := range o.rows {
		n += len(o.rows[i].cols) * o.B * o.B
	}
	return
}

// ToTriplet fills a triplet with all stored entries. The triplet is (re-)initialised
func (o *BlockMatrix) ToTriplet(t *la.Triplet) {
	m := o.N * o.B
	t.Init(m, m, o.Nnz())
	t.Start()
	b := o.B
	for i := range o.rows {
		for k, j := range o.rows[i].cols {
			blk := o.rows[i].vals[k]
			for r := 0; r < b; r++ {
				for c := 0; c < b; c++ {
					t.Put(i*b+r, j*b+c, blk[r*b+c])
				}
			}
		}
	}
}

// Linearizer holds the reservoir Jacobian and residual. Vectors are flat: index = cell・B + eq
type Linearizer struct {
	Jac *BlockMatrix // Jacobian
	Res []float64    // residual
}

// NewLinearizer allocates a new linearizer
func NewLinearizer(ncells, neq int) *Linearizer {
	return &Linearizer{Jac: NewBlockMatrix(ncells, neq), Res: make([]float64, ncells*neq)}
}

// Zero clears Jacobian and residual
func (o *Linearizer) Zero() {
	o.Jac.Zero()
	for i := range o.Res {
		o.Res[i] = 0
	}
}
