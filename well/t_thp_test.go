// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
)

// linearThpProblem returns a producer with linear inflow q = -pi・(pres - bhp) (oil only) and
// a lift curve BHP = thp + a・flo + b
func linearThpProblem(pres, pi, thp, a, b float64) *ThpProblem {
	table := vfp.LinearProdTable(1, 1000, []float64{0, 0.05, 0.1, 0.2}, []float64{10e5, 30e5}, vfp.FloOil, a, b)
	return &ThpProblem{
		Rates: func(bhp float64) (rates [pvt.NumPhases]float64, err error) {
			rates[pvt.Oil] = -pi * (pres - bhp)
			return
		},
		Fbhp: func(rates [pvt.NumPhases]float64) (float64, error) {
			c := ad.Const
			return table.Bhp(c(rates[pvt.Water]), c(rates[pvt.Oil]), c(rates[pvt.Gas]), thp, 0).V, nil
		},
		Flo: func(rates [pvt.NumPhases]float64) float64 {
			return -rates[pvt.Oil]
		},
		FloAxis:  table.Flo,
		BhpLimit: 50e5,
		BhpBound: pres,
	}
}

func Test_thp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thp01")

	// bhp = thp + a・pi・(pres - bhp) + b  =>  bhp = (20 + 30 + 200)/2 bar
	pb := linearThpProblem(200e5, 1e-8, 20e5, 1e8, 30e5)
	res := SolveBhpAtThpLimitProd(pb)
	if !res.Ok {
		tst.Errorf("test failed: %s\n", res.Reason)
		return
	}
	io.Pforan("bhp = %v\n", res.Bhp)
	chk.Float64(tst, "bhp", 1.0, res.Bhp, 125e5)
	g, flo, err := pb.diff(res.Bhp)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if math.Abs(g) > ThpBhpTol {
		tst.Errorf("test failed: |fbhp - bhp| = %g is too large\n", math.Abs(g))
	}
	chk.Float64(tst, "flow", 1e-6, flo, 0.075)
}

func Test_thp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thp02")

	// reservoir pressure below the BHP limit
	res := SolveBhpAtThpLimitProd(linearThpProblem(40e5, 1e-8, 20e5, 1e8, 30e5))
	if res.Ok || res.Reason != ReasonInoperable {
		tst.Errorf("test failed: well must be inoperable: %+v\n", res)
		return
	}

	// lift curve above the inflow everywhere
	res = SolveBhpAtThpLimitProd(linearThpProblem(200e5, 1e-8, 20e5, 1e8, 300e5))
	if res.Ok || res.Reason != ReasonBracketing {
		tst.Errorf("test failed: bracketing must fail: %+v\n", res)
	}
}

func Test_thp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thp03")

	// injector: q = pi・(bhp - pres); lift curve BHP = thp + b - a・q
	pres, pi, thp, a, b := 100e5, 1e-8, 50e5, 1e8, 100e5
	pb := &ThpProblem{
		Rates: func(bhp float64) (rates [pvt.NumPhases]float64, err error) {
			rates[pvt.Water] = pi * (bhp - pres)
			return
		},
		Fbhp: func(rates [pvt.NumPhases]float64) (float64, error) {
			return thp + b - a*rates[pvt.Water], nil
		},
		Flo: func(rates [pvt.NumPhases]float64) float64 {
			return rates[pvt.Water]
		},
		BhpLimit: 400e5,
		BhpBound: pres,
	}

	// bhp = thp + b - a・pi・(bhp - pres)  =>  bhp = (50 + 100 + 100)/2 bar
	res := SolveBhpAtThpLimitInj(pb)
	if !res.Ok {
		tst.Errorf("test failed: %s\n", res.Reason)
		return
	}
	chk.Float64(tst, "bhp", 1.0, res.Bhp, 125e5)
}

// thpWell returns a producer from prodConfig in a cell at 250 bar with a lift curve
// BHP = thp + a・qo + b
func thpWell(tst *testing.T, thp, a, b float64) *testWell {
	r := newFixedRes(tst, 250e5)
	if r == nil {
		return nil
	}
	w := newTestWell(tst, r, prodConfig(), 210e5, 0)
	if w == nil {
		return nil
	}
	if err := w.StoreOld(); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil
	}
	if err := w.Ctx.Vfp.AddProd(vfp.LinearProdTable(1, 1000, []float64{0, 0.01}, []float64{10e5, 30e5}, vfp.FloOil, a, b)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil
	}
	w.Cfg.Controls = append(w.Cfg.Controls, &Control{Key: "THP", Mode: THP, Target: thp, Vfp: 1})
	w.Cfg.Vfp = 1
	return w
}

func Test_thp04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thp04")

	// qo = -2.7e-10・(250e5 - bhp) and bhp = 20e5 + 180e5 + 0.5・(250e5 - bhp)
	//   => bhp = 325e5/1.5 above the BHP limit of 200 bar
	w := thpWell(tst, 20e5, 0.5/2.7e-10, 180e5)
	if w == nil {
		return
	}
	rates, err := w.PotentialsWithThpFixedPoint(w.thpControl())
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	dd := 250e5 - 325e5/1.5
	io.Pforan("rates = %v\n", rates)
	chk.Float64(tst, "qo", 1e-6, rates[pvt.Oil], -2.7e-10*dd)
	chk.Float64(tst, "qw", 1e-6, rates[pvt.Water], -2e-10*dd)
	chk.Float64(tst, "qg/qo", 1e-10, rates[pvt.Gas]/rates[pvt.Oil], 5e5/270.0)

	// the THP limit is binding: the potentials are below the ones at the BHP limit
	rbhp, err := w.RatesWithBhp(200e5)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if math.Abs(rates[pvt.Oil]) >= math.Abs(rbhp[pvt.Oil]) {
		tst.Errorf("test failed: THP limit must reduce the oil potential. %g >= %g\n", -rates[pvt.Oil], -rbhp[pvt.Oil])
	}

	// same answer through the potentials of the well
	rpot, err := w.ComputeWellPotentials()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Array(tst, "potentials", 1e-15, rpot[:], rates[:])
}

func Test_thp05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thp05")

	// the iterations of thp04 need more than three steps
	w := thpWell(tst, 20e5, 0.5/2.7e-10, 180e5)
	if w == nil {
		return
	}
	w.Ctx.Param.ThpIterMax = 3
	_, err := w.PotentialsWithThpFixedPoint(w.thpControl())
	io.Pforan("err = %v\n", err)
	if err == nil {
		tst.Errorf("test failed: fixed point iterations must fail\n")
		return
	}
	if !strings.Contains(err.Error(), "did not converge") {
		tst.Errorf("test failed: wrong error message: %v\n", err)
	}
}
