// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/totto82/opm-autodiff-sub000/res"
	"gonum.org/v1/gonum/mat"
)

// Equations holds the linear system of one well coupled to the reservoir
//
//   [ A   Cᵀ ] [ x  ]   [ r  ]
//   [ B   D  ] [ xw ] = [ rw ]
//
//  A and r belong to the reservoir. B and C are stored per perforation as Nw×Nr blocks:
//  B[weq][req] = ∂rw/∂x and C[wpv][req] = ∂r/∂xw
type Equations struct {
	Nseg     int              // number of segments
	Nw       int              // number of well equations per segment
	Nr       int              // number of reservoir equations per cell
	D        *res.BlockMatrix // well-well block (segment blocks)
	B        [][]float64      // [perf][weq・Nr + req]
	C        [][]float64      // [perf][wpv・Nr + req]
	PerfSeg  []int            // segment of perforation
	PerfCell []int            // cell of perforation
	Res      []float64        // well residual rw

	// solvers
	dense  bool            // use dense LU
	lu     mat.LU          // dense factorisation
	sps    la.SparseSolver // sparse solver
	trip   la.Triplet      // D as triplet
	factOk bool            // D has been factorised
	xv     *mat.VecDense   // dense solution
}

// NewEquations allocates the well system. The pattern of D holds the diagonal blocks and the
// blocks linking each segment to its outlet and inlets
func NewEquations(cfg *Config, nw, nr int) (o *Equations) {
	nseg := len(cfg.Segs)
	o = &Equations{Nseg: nseg, Nw: nw, Nr: nr}
	o.D = res.NewBlockMatrix(nseg, nw)
	for s, seg := range cfg.Segs {
		if seg.Outlet >= 0 {
			o.D.Block(s, seg.Outlet)
		}
		for _, in := range seg.Inlets {
			o.D.Block(s, in)
		}
	}
	np := len(cfg.Perfs)
	o.B = make([][]float64, np)
	o.C = make([][]float64, np)
	o.PerfSeg = make([]int, np)
	o.PerfCell = make([]int, np)
	for i, p := range cfg.Perfs {
		o.B[i] = make([]float64, nw*nr)
		o.C[i] = make([]float64, nw*nr)
		o.PerfSeg[i], o.PerfCell[i] = p.Seg, p.Cell
	}
	o.Res = make([]float64, nseg*nw)
	o.dense = nseg == 1
	o.xv = mat.NewVecDense(nseg*nw, nil)
	return
}

// Zero clears all blocks and the residual keeping the pattern
func (o *Equations) Zero() {
	o.D.Zero()
	for i := range o.B {
		zero(o.B[i])
		zero(o.C[i])
	}
	zero(o.Res)
	o.factOk = false
}

// Size returns the number of well unknowns
func (o *Equations) Size() int {
	return o.Nseg * o.Nw
}

// factorisation ///////////////////////////////////////////////////////////////////////////////////

// Invert factorises D
func (o *Equations) Invert() (err error) {
	n := o.Size()
	if o.dense {
		a := mat.NewDense(n, n, nil)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				a.Set(r, c, o.D.Get(r/o.Nw, c/o.Nw, r%o.Nw, c%o.Nw))
			}
		}
		o.lu.Factorize(a)
		cond := o.lu.Cond()
		if math.IsInf(cond, 1) {
			return numErr("", "well matrix is singular")
		}
		if cond > mat.ConditionTolerance {
			return numErr("", "well matrix is ill-conditioned: cond = %g", cond)
		}
		o.factOk = true
		return
	}

	// sparse LU panics on singular matrices
	defer func() {
		if r := recover(); r != nil {
			err = numErr("", "factorisation of well matrix failed: %v", r)
		}
	}()
	if o.sps != nil {
		o.sps.Free()
	}
	o.D.ToTriplet(&o.trip)
	o.sps = la.NewSparseSolver("umfpack")
	o.sps.Init(&o.trip, nil)
	o.sps.Fact()
	o.factOk = true
	return
}

// Free releases the sparse solver
func (o *Equations) Free() {
	if o.sps != nil {
		o.sps.Free()
		o.sps = nil
	}
}

// SolveD solves D・x = b. Invert rejects ill-conditioned matrices, thus any error here is a bug
func (o *Equations) SolveD(x, b []float64) {
	if !o.factOk {
		chk.Panic("well matrix must be factorised before solving")
	}
	if o.dense {
		if err := o.lu.SolveVecTo(o.xv, false, mat.NewVecDense(len(b), append([]float64{}, b...))); err != nil {
			chk.Panic("cannot solve well system: %v", err)
		}
		copy(x, o.xv.RawVector().Data)
		return
	}
	o.sps.Solve(x, b, false)
}

// Schur complement ////////////////////////////////////////////////////////////////////////////////

// mulB computes z := B・x (well sized) from reservoir vector x
func (o *Equations) mulB(x []float64) (z []float64) {
	z = make([]float64, o.Size())
	for p, blk := range o.B {
		s, c := o.PerfSeg[p], o.PerfCell[p]
		for w := 0; w < o.Nw; w++ {
			for e := 0; e < o.Nr; e++ {
				z[s*o.Nw+w] += blk[w*o.Nr+e] * x[c*o.Nr+e]
			}
		}
	}
	return
}

// subCt computes y -= Cᵀ・z
func (o *Equations) subCt(y, z []float64) {
	for p, blk := range o.C {
		s, c := o.PerfSeg[p], o.PerfCell[p]
		for e := 0; e < o.Nr; e++ {
			var sum float64
			for w := 0; w < o.Nw; w++ {
				sum += blk[w*o.Nr+e] * z[s*o.Nw+w]
			}
			y[c*o.Nr+e] -= sum
		}
	}
}

// Apply computes y -= Cᵀ・D⁻¹・B・x
func (o *Equations) Apply(x, y []float64) {
	bx := o.mulB(x)
	z := make([]float64, o.Size())
	o.SolveD(z, bx)
	o.subCt(y, z)
}

// ApplyRes computes r -= Cᵀ・D⁻¹・rw
func (o *Equations) ApplyRes(r []float64) {
	z := make([]float64, o.Size())
	o.SolveD(z, o.Res)
	o.subCt(r, z)
}

// Recover computes the well increment xw = D⁻¹・(rw - B・x)
func (o *Equations) Recover(x []float64) (xw []float64) {
	b := o.mulB(x)
	for i := range b {
		b[i] = o.Res[i] - b[i]
	}
	xw = make([]float64, o.Size())
	o.SolveD(xw, b)
	return
}

// AddContributions adds -Cᵀ・D⁻¹・B to the reservoir matrix
func (o *Equations) AddContributions(jac *res.BlockMatrix) {
	n := o.Size()
	b := make([]float64, n)
	z := make([]float64, n)
	for p2, blk2 := range o.B {
		s2, c2 := o.PerfSeg[p2], o.PerfCell[p2]
		for e2 := 0; e2 < o.Nr; e2++ {
			zero(b)
			for w := 0; w < o.Nw; w++ {
				b[s2*o.Nw+w] = blk2[w*o.Nr+e2]
			}
			o.SolveD(z, b)
			for p1, blk1 := range o.C {
				s1, c1 := o.PerfSeg[p1], o.PerfCell[p1]
				for e1 := 0; e1 < o.Nr; e1++ {
					var sum float64
					for w := 0; w < o.Nw; w++ {
						sum += blk1[w*o.Nr+e1] * z[s1*o.Nw+w]
					}
					jac.Add(c1, c2, e1, e2, -sum)
				}
			}
		}
	}
}

// zero sets all values of v to zero
func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
