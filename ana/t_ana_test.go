// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_tank01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tank01. single cell depletion")

	o := TankDepletion{Alpha: 1e6 * 0.2 * 1e-9, Trans: 1e-12 / 2e-3, P0: 200e5, Pbhp: 100e5}
	p, q := o.Calc(0)
	chk.Float64(tst, "p(0)", 1e-15, p, 200e5)
	chk.Float64(tst, "q(0)", 1e-15, q, -o.Trans*100e5)

	// half-life
	t := o.Alpha * math.Ln2 / o.Trans
	p, _ = o.Calc(t)
	chk.Float64(tst, "p(t½)", 1e-6, p, 150e5)

	// backward Euler converges to the exact solution
	tf, errPrev := 86400.0, math.MaxFloat64
	pex, _ := o.Calc(tf)
	for _, n := range []int{1, 10, 100, 1000} {
		pi := o.Implicit(tf/float64(n), n)
		e := math.Abs(pi[n-1] - pex)
		io.Pforan("n = %4d  p = %v  error = %v\n", n, pi[n-1], e)
		if e >= errPrev {
			tst.Errorf("test failed: error must decrease with n\n")
			return
		}
		errPrev = e
	}

	// implicit steps always stay between pbhp and p0
	for _, v := range o.Implicit(1e8, 5) {
		if v < o.Pbhp || v > o.P0 {
			tst.Errorf("test failed: p=%g is out of bounds\n", v)
		}
	}
}

func Test_peaceman01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("peaceman01. well index")

	// isotropic square cell => r0 = 0.198・dx
	r0 := PeacemanRadius(1e-13, 1e-13, 100, 100)
	chk.Float64(tst, "r0", 1e-12, r0, 0.14*math.Sqrt(2)*100)

	wi, err := PeacemanWI(1e-13, 1e-13, 100, 100, 10, 0.1, 0)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "wi", 1e-25, wi, 2*math.Pi*1e-13*10/math.Log(r0/0.1))

	// skin reduces the index
	ws, _ := PeacemanWI(1e-13, 1e-13, 100, 100, 10, 0.1, 2)
	if ws >= wi {
		tst.Errorf("test failed: positive skin must reduce the well index\n")
	}

	// swapping directions of anisotropy gives the same radius for a square cell
	chk.Float64(tst, "r0 anisotropic", 1e-12, PeacemanRadius(1e-13, 4e-13, 100, 100), PeacemanRadius(4e-13, 1e-13, 100, 100))

	// errors
	if _, err = PeacemanWI(0, 1e-13, 100, 100, 10, 0.1, 0); err == nil {
		tst.Errorf("test failed: zero permeability must fail\n")
	}
	if _, err = PeacemanWI(1e-13, 1e-13, 1, 1, 10, 1, 0); err == nil {
		tst.Errorf("test failed: radius larger than r0 must fail\n")
	}
}
