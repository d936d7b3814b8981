// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_blackoil01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("blackoil01")

	mdl, err := New("blackoil")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if !mdl.DisGas() || !mdl.VapOil() {
		tst.Errorf("blackoil model must have dissolved gas and vaporised oil\n")
		return
	}

	p := ad.Var(100e5, 0)
	rsSat := mdl.SatRs(p)
	chk.Float64(tst, "Rs_sat", 1e-12, rsSat.V, 100)
	chk.Float64(tst, "dRs_sat/dp", 1e-17, rsSat.D[0], 1e-5)

	// bo decreases with Rs (swelling)
	bo1 := mdl.OilInvB(p, ad.Const(10))
	bo2 := mdl.OilInvB(p, ad.Const(50))
	if bo2.V >= bo1.V {
		tst.Errorf("oil must swell with Rs: bo(10)=%g bo(50)=%g\n", bo1.V, bo2.V)
		return
	}

	// bg is proportional to p
	bg := mdl.GasInvB(p, ad.Const(0))
	chk.Float64(tst, "bg", 1e-10, bg.V, 100e5/1.2e5)
	chk.Float64(tst, "dbg/dp", 1e-15, bg.D[0], 1.0/1.2e5)

	// capped
	rsHigh := mdl.SatRs(ad.Var(400e5, 0))
	chk.Float64(tst, "Rs_max", 1e-15, rsHigh.V, 200)
	chk.Float64(tst, "dRs_max/dp", 1e-15, rsHigh.D[0], 0)

	if _, err = New("nonexistent"); err == nil {
		tst.Errorf("New should have failed for unknown model\n")
	}
}

func Test_blackoil02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("blackoil02")

	mdl, _ := New("deadoil")
	prms := mdl.GetPrms(true)
	prms.Find("muo0").V = 3e-3
	err := mdl.Init(prms)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if mdl.DisGas() || mdl.VapOil() {
		tst.Errorf("dead oil must not dissolve gas\n")
		return
	}
	p := ad.Const(150e5)
	chk.Float64(tst, "Rs_sat", 1e-15, mdl.SatRs(p).V, 0)
	chk.Float64(tst, "Rv_sat", 1e-15, mdl.SatRv(p).V, 0)
	chk.Float64(tst, "μo", 1e-15, mdl.SatOilVisc(p).V, 3e-3)

	bad := mdl.GetPrms(false)
	bad.Find("pgs").V = 0
	if err = mdl.Init(bad); err == nil {
		tst.Errorf("Init should have failed with pgs=0\n")
	}
}

func Test_phaseusage01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phaseusage01")

	pu, err := NewPhaseUsage(true, true, false)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if pu.Num() != 2 || pu.Idx[Water] != 0 || pu.Idx[Oil] != 1 || pu.Idx[Gas] != -1 {
		tst.Errorf("wrong phase usage: %+v\n", pu)
		return
	}
	if pu.OilAndGas() {
		tst.Errorf("gas is not active\n")
		return
	}
	if _, err = NewPhaseUsage(true, false, true); err == nil {
		tst.Errorf("phase usage without oil must fail\n")
	}
}
