// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/res"
	"github.com/totto82/opm-autodiff-sub000/well"
	"gonum.org/v1/gonum/mat"
)

// LinSolver solves the reservoir system with the wells eliminated
//
//   (A - Σ Cᵀ・D⁻¹・B)・dx = r - Σ Cᵀ・D⁻¹・rw
type LinSolver interface {
	Solve(dx []float64, lin *res.Linearizer, wm *WellModel) (nit int, err error) // returns the number of linear iterations
}

// allocators holds all available linear solvers
var allocators = map[string]func(prm *inp.NewtonData) LinSolver{}

// NewLinSolver returns a linear solver by name
func NewLinSolver(prm *inp.NewtonData) (LinSolver, error) {
	alloc, ok := allocators[prm.LinSol]
	if !ok {
		return nil, chk.Err("linear solver %q is not available", prm.LinSol)
	}
	return alloc(prm), nil
}

// rhs returns r - Σ Cᵀ・D⁻¹・rw
func rhs(lin *res.Linearizer, wm *WellModel) (b []float64) {
	b = make([]float64, len(lin.Res))
	copy(b, lin.Res)
	wm.ApplyRes(b)
	return
}

// direct ////////////////////////////////////////////////////////////////////////////////////////

// Direct adds the well contributions to the reservoir matrix explicitly and uses a sparse LU
type Direct struct {
	trip la.Triplet // assembled matrix
}

func init() {
	allocators["umfpack"] = func(prm *inp.NewtonData) LinSolver { return new(Direct) }
}

// Solve solves the reduced system. The well contributions are added into lin.Jac
func (o *Direct) Solve(dx []float64, lin *res.Linearizer, wm *WellModel) (nit int, err error) {
	b := rhs(lin, wm)
	wm.AddContributions(lin.Jac)
	lin.Jac.ToTriplet(&o.trip)

	// the sparse solver panics on singular matrices
	defer func() {
		if r := recover(); r != nil {
			err = &well.NumericalError{Well: "-", Msg: io.Sf("reservoir system factorisation failed: %v", r)}
		}
	}()
	sps := la.NewSparseSolver("umfpack")
	defer sps.Free()
	sps.Init(&o.trip, nil)
	sps.Fact()
	sps.Solve(dx, b, false)
	if err = checkFinite(dx); err != nil {
		return
	}
	return 1, nil
}

// iterative /////////////////////////////////////////////////////////////////////////////////////

// BiCGStab solves the reduced system with the matrix-free well operator and a block Jacobi
// preconditioner built from the reservoir diagonal blocks
type BiCGStab struct {
	Tol   float64 // relative tolerance
	MaxIt int     // maximum number of iterations

	// preconditioner
	lus []mat.LU // factorised diagonal blocks
	nb  int      // block size
}

func init() {
	allocators["bicgstab"] = func(prm *inp.NewtonData) LinSolver {
		return &BiCGStab{Tol: prm.LinTol, MaxIt: prm.LinMaxIt}
	}
}

// Solve solves the reduced system
func (o *BiCGStab) Solve(dx []float64, lin *res.Linearizer, wm *WellModel) (nit int, err error) {
	o.setPrecond(lin.Jac)
	n := len(dx)
	b := mat.NewVecDense(n, rhs(lin, wm))
	op := func(y, x *mat.VecDense) {
		lin.Jac.MulVec(y.RawVector().Data, x.RawVector().Data)
		wm.Apply(x.RawVector().Data, y.RawVector().Data)
	}

	// x0 = 0 => r0 = b
	x := mat.NewVecDense(n, nil)
	r := mat.NewVecDense(n, nil)
	r.CopyVec(b)
	rhat := mat.NewVecDense(n, nil)
	rhat.CopyVec(r)
	p := mat.NewVecDense(n, nil)
	v := mat.NewVecDense(n, nil)
	s := mat.NewVecDense(n, nil)
	t := mat.NewVecDense(n, nil)
	phat := mat.NewVecDense(n, nil)
	shat := mat.NewVecDense(n, nil)
	nb := mat.Norm(b, 2)
	if nb == 0 {
		zero(dx)
		return
	}
	tol := o.Tol * nb
	rho, alpha, omega := 1.0, 1.0, 1.0
	for nit = 1; nit <= o.MaxIt; nit++ {
		rho1 := mat.Dot(rhat, r)
		if rho1 == 0 {
			return nit, &well.NumericalError{Well: "-", Msg: "bicgstab breakdown: ρ = 0"}
		}
		beta := (rho1 / rho) * (alpha / omega)
		p.AddScaledVec(p, -omega, v)
		p.AddScaledVec(r, beta, p)
		o.precond(phat, p)
		op(v, phat)
		alpha = rho1 / mat.Dot(rhat, v)
		s.AddScaledVec(r, -alpha, v)
		if mat.Norm(s, 2) < tol {
			x.AddScaledVec(x, alpha, phat)
			break
		}
		o.precond(shat, s)
		op(t, shat)
		tt := mat.Dot(t, t)
		if tt == 0 {
			return nit, &well.NumericalError{Well: "-", Msg: "bicgstab breakdown: t = 0"}
		}
		omega = mat.Dot(t, s) / tt
		x.AddScaledVec(x, alpha, phat)
		x.AddScaledVec(x, omega, shat)
		r.AddScaledVec(s, -omega, t)
		if mat.Norm(r, 2) < tol {
			break
		}
		rho = rho1
	}
	if nit > o.MaxIt {
		return o.MaxIt, &well.NumericalError{Well: "-", Msg: io.Sf("bicgstab did not converge in %d iterations", o.MaxIt)}
	}
	copy(dx, x.RawVector().Data)
	err = checkFinite(dx)
	return
}

// setPrecond factorises the diagonal blocks of jac
func (o *BiCGStab) setPrecond(jac *res.BlockMatrix) {
	o.nb = jac.B
	if len(o.lus) != jac.N {
		o.lus = make([]mat.LU, jac.N)
	}
	for i := 0; i < jac.N; i++ {
		blk := make([]float64, o.nb*o.nb)
		copy(blk, jac.Block(i, i))
		o.lus[i].Factorize(mat.NewDense(o.nb, o.nb, blk))
	}
}

// precond computes z := M⁻¹・v. Singular blocks are skipped
func (o *BiCGStab) precond(z, v *mat.VecDense) {
	zb := mat.NewVecDense(o.nb, nil)
	for i := range o.lus {
		vi := v.SliceVec(i*o.nb, (i+1)*o.nb)
		zi := z.SliceVec(i*o.nb, (i+1)*o.nb).(*mat.VecDense)
		if math.IsInf(o.lus[i].Cond(), 1) || o.lus[i].SolveVecTo(zb, false, vi) != nil {
			zi.CopyVec(vi)
			continue
		}
		zi.CopyVec(zb)
	}
}

// auxiliary /////////////////////////////////////////////////////////////////////////////////////

// checkFinite returns a numerical error if any entry of x is not finite
func checkFinite(x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &well.NumericalError{Well: "-", Msg: io.Sf("reservoir increment %d is not finite", i)}
		}
	}
	return nil
}

// zero sets all values of v to zero
func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
