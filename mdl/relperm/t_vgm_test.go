// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// krAt computes kr with sw as the only derivative variable
func krAt(mdl Model, sw, sg float64) [pvt.NumPhases]ad.Eval {
	var s [pvt.NumPhases]ad.Eval
	s[pvt.Water] = ad.Var(sw, 0)
	s[pvt.Gas] = ad.Var(sg, 1)
	s[pvt.Oil] = ad.Const(1).Sub(s[pvt.Water]).Sub(s[pvt.Gas])
	return mdl.Kr(s)
}

// checkDerivs compares the derivatives with central differences
func checkDerivs(tst *testing.T, mdl Model, sw, sg, tol float64) {
	h := 1e-7
	kr := krAt(mdl, sw, sg)
	kp, km := krAt(mdl, sw+h, sg), krAt(mdl, sw-h, sg)
	gp, gm := krAt(mdl, sw, sg+h), krAt(mdl, sw, sg-h)
	for i := 0; i < pvt.NumPhases; i++ {
		io.Pforan("phase %d: kr = %v\n", i, kr[i].V)
		chk.Float64(tst, io.Sf("dkr%d/dsw", i), tol, kr[i].D[0], (kp[i].V-km[i].V)/(2*h))
		chk.Float64(tst, io.Sf("dkr%d/dsg", i), tol, kr[i].D[1], (gp[i].V-gm[i].V)/(2*h))
	}
}

func Test_vgm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vgm01")

	mdl, err := New("vgm")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err = mdl.Init(mdl.GetPrms(true)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// Se = 0.5 and m = 0.5
	kr := krAt(mdl, 0.5, 0)
	b := 1 - math.Sqrt(0.75)
	chk.Float64(tst, "krw", 1e-15, kr[pvt.Water].V, math.Sqrt(0.5)*b*b)
	chk.Float64(tst, "kro", 1e-15, kr[pvt.Oil].V, math.Sqrt(0.5)*0.75)
	chk.Float64(tst, "krg", 1e-15, kr[pvt.Gas].V, 0)
	checkDerivs(tst, mdl, 0.5, 0.3, 1e-6)

	// end points
	kr = krAt(mdl, 0.05, 0)
	chk.Array(tst, "kr(swc)", 1e-15, []float64{kr[0].V, kr[1].V, kr[2].V}, []float64{0, 1, 0})
	chk.Float64(tst, "dkrw/dsw(swc)", 1e-15, kr[pvt.Water].D[0], 0)
	kr = krAt(mdl, 0.95, 0)
	chk.Float64(tst, "krw(1-sor)", 1e-15, kr[pvt.Water].V, 1)
	chk.Float64(tst, "kro(1-sor)", 1e-15, kr[pvt.Oil].V, 0)

	// n instead of m
	err = mdl.Init(dbf.Params{&dbf.P{N: "n", V: 2}})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "m", 1e-15, mdl.GetPrms(false)[0].V, 0.5)

	// wrong parameters
	if err = mdl.Init(dbf.Params{&dbf.P{N: "n", V: 0.5}}); err == nil {
		tst.Errorf("test failed: n < 1 must fail\n")
	}
	if err = mdl.Init(dbf.Params{&dbf.P{N: "alpha", V: 1}}); err == nil {
		tst.Errorf("test failed: unknown parameter must fail\n")
	}
}

func Test_bc01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bc01")

	mdl, err := New("bc")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err = mdl.Init(mdl.GetPrms(true)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// λ = 2 => krw = Se⁴ and kro = (1-Se)²・(1-Se²)
	sw := 0.2 + 0.5*0.65
	kr := krAt(mdl, sw, 0)
	chk.Float64(tst, "krw", 1e-15, kr[pvt.Water].V, math.Pow(0.5, 4))
	chk.Float64(tst, "kro", 1e-15, kr[pvt.Oil].V, 0.25*0.75)
	chk.Float64(tst, "krg", 1e-15, kr[pvt.Gas].V, 0)

	// Sgn = 0.5
	kr = krAt(mdl, 0.2, 0.05+0.5*0.75)
	chk.Float64(tst, "krg", 1e-15, kr[pvt.Gas].V, 0.25*0.75)
	checkDerivs(tst, mdl, sw, 0.3, 1e-6)

	if err = mdl.Init(dbf.Params{&dbf.P{N: "lam", V: -1}}); err == nil {
		tst.Errorf("test failed: negative lam must fail\n")
	}
}
