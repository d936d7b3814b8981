// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

func Test_corey01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("corey01")

	mdl, err := New("corey")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	var s [pvt.NumPhases]ad.Eval
	s[pvt.Water] = ad.Var(0.5, 1)
	s[pvt.Gas] = ad.Var(0.2, 2)
	s[pvt.Oil] = ad.Const(1).Sub(s[pvt.Water]).Sub(s[pvt.Gas])
	kr := mdl.Kr(s)

	swn := (0.5 - 0.1) / 0.8
	chk.Float64(tst, "krw", 1e-15, kr[pvt.Water].V, 0.6*swn*swn)
	chk.Float64(tst, "dkrw/dsw", 1e-14, kr[pvt.Water].D[1], 0.6*2*swn/0.8)
	son := (0.3 - 0.1) / 0.8
	chk.Float64(tst, "kro", 1e-15, kr[pvt.Oil].V, son*son)
	chk.Float64(tst, "dkro/dsg", 1e-14, kr[pvt.Oil].D[2], -2*son/0.8)
	sgn := 0.2 / 0.9
	chk.Float64(tst, "krg", 1e-15, kr[pvt.Gas].V, 0.8*math.Pow(sgn, 2))

	// below residual
	s[pvt.Water] = ad.Var(0.05, 1)
	kr = mdl.Kr(s)
	chk.Float64(tst, "krw(swc)", 1e-15, kr[pvt.Water].V, 0)
	chk.Float64(tst, "dkrw/dsw(swc)", 1e-15, kr[pvt.Water].D[1], 0)
}

func Test_lin01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lin01")

	mdl, _ := New("lin")
	if err := mdl.Init(nil); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	var s [pvt.NumPhases]ad.Eval
	s[pvt.Water] = ad.Const(0.3)
	s[pvt.Oil] = ad.Const(1.2)
	s[pvt.Gas] = ad.Const(-0.2)
	kr := mdl.Kr(s)
	chk.Array(tst, "kr", 1e-15, []float64{kr[0].V, kr[1].V, kr[2].V}, []float64{0.3, 1, 0})
}
