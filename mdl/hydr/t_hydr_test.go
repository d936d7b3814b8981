// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_friction01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction01")

	d, rough, mu := 0.1, 1e-5, 1e-3
	area := math.Pi * d * d / 4

	// laminar
	w, rho, l := 0.01, 900.0, 10.0
	re := w * d / area / mu
	if re >= ReLaminar {
		tst.Errorf("test setup must be laminar. Re=%g\n", re)
		return
	}
	f := 16 / re
	loss := FrictionPressureLoss(l, d, area, rough, ad.Const(rho), ad.Var(w, 0), ad.Const(mu))
	chk.Float64(tst, "laminar loss", 1e-14, loss.V, 2*f*l*w*w/(area*area*d*rho))

	// laminar loss is linear in w
	chk.Float64(tst, "dloss/dw", 1e-12, loss.D[0], loss.V/w)

	// reversed flow gives the same unsigned loss
	back := FrictionPressureLoss(l, d, area, rough, ad.Const(rho), ad.Const(-w), ad.Const(mu))
	chk.Float64(tst, "reversed", 1e-14, back.V, loss.V)

	// no flow
	zero := FrictionPressureLoss(l, d, area, rough, ad.Const(rho), ad.Const(0), ad.Const(mu))
	chk.Float64(tst, "no flow", 1e-15, zero.V, 0)

	// continuity at the regime limits
	for _, lim := range []float64{ReLaminar, ReTurbulent} {
		a := FrictionFactor(ad.Const(lim*(1-1e-10)), d, rough).V
		b := FrictionFactor(ad.Const(lim*(1+1e-10)), d, rough).V
		io.Pforan("Re=%g: f⁻=%g f⁺=%g\n", lim, a, b)
		chk.Float64(tst, "continuity", 1e-10, a, b)
	}
}

func Test_friction02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction02")

	d, rough, l := 0.1, 1e-5, 20.0
	area := math.Pi * d * d / 4
	rho, mu := 850.0, 2e-3

	// turbulent: derivative with respect to mass rate
	fun := func(w float64) float64 {
		return FrictionPressureLoss(l, d, area, rough, ad.Const(rho), ad.Const(w), ad.Const(mu)).V
	}
	w := 5.0
	loss := FrictionPressureLoss(l, d, area, rough, ad.Const(rho), ad.Var(w, 1), ad.Const(mu))
	h := 1e-6
	num := (fun(w+h) - fun(w-h)) / (2 * h)
	io.Pforan("loss=%g dloss/dw=%g num=%g\n", loss.V, loss.D[1], num)
	chk.Float64(tst, "dloss/dw", 1e-6*math.Abs(num), loss.D[1], num)
	if loss.V <= 0 {
		tst.Errorf("friction loss must be positive\n")
	}

	// velocity head and constriction
	vh := VelocityHead(area, ad.Const(w), ad.Const(rho))
	v := w / (rho * area)
	chk.Float64(tst, "velocity head", 1e-12, vh.V, 0.5*rho*v*v)
	con := ValveConstrictionPressureLoss(ad.Const(w), ad.Const(rho), 1e-3, 0.7)
	chk.Float64(tst, "constriction", 1e-6, con.V, w*w/(2*rho*0.49*1e-6))
}

func Test_valve01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("valve01")

	dev, err := NewDevice("valve")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = dev.Init(dev.GetPrms(true))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	v := dev.(*Valve)
	chk.Float64(tst, "area", 1e-15, v.Area, math.Pi*0.01/4)

	rho, mu := ad.Const(800), ad.Const(1e-3)
	f := &Flow{MassRate: ad.Const(-3), Density: rho, Visc: mu}
	fric := FrictionPressureLoss(0.5, 0.1, v.Area, 1e-5, rho, f.MassRate, mu)
	con := ValveConstrictionPressureLoss(f.MassRate, rho, 1e-4, 0.7)

	// producing flow (towards the outlet): positive drop
	drop := dev.PressureDrop(f)
	chk.Float64(tst, "drop", 1e-9, drop.V, fric.V+con.V)

	// reversed flow: negative drop
	f.MassRate = ad.Const(3)
	drop = dev.PressureDrop(f)
	chk.Float64(tst, "reversed drop", 1e-9, drop.V, -fric.V-con.V)

	if err = dev.Init(append(dev.GetPrms(true), &dbf.P{N: "wrong", V: 1})); err == nil {
		tst.Errorf("Init should have failed with unknown parameter\n")
	}
	if _, err = NewDevice("nozzle"); err == nil {
		tst.Errorf("NewDevice should have failed for unknown device\n")
	}
}

func Test_sicd01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sicd01")

	dev, err := NewDevice("sicd")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = dev.Init(dev.GetPrms(true))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	s := dev.(*Sicd)
	μw, μo := ad.Const(5e-4), ad.Const(2e-3)

	// water in oil
	ratio := math.Pow(1/(1-0.8415/0.7480*0.2), 2.5)
	e := s.EmulsionVisc(ad.Const(0.2), μw, ad.Const(0.8), μo)
	chk.Float64(tst, "water-in-oil", 1e-15, e.V, 2e-3*ratio)

	// oil in water
	ratio = math.Pow(1/(1-0.6019/0.6410*0.2), 2.5)
	e = s.EmulsionVisc(ad.Const(0.8), μw, ad.Const(0.2), μo)
	chk.Float64(tst, "oil-in-water", 1e-15, e.V, 5e-4*ratio)

	// continuous across the transition region
	for _, wl := range []float64{s.Critical - s.Width/2, s.Critical + s.Width/2} {
		a := s.EmulsionVisc(ad.Const(wl-1e-12), μw, ad.Const(1-wl+1e-12), μo).V
		b := s.EmulsionVisc(ad.Const(wl+1e-12), μw, ad.Const(1-wl-1e-12), μo).V
		chk.Float64(tst, "transition", 1e-12, a, b)
	}

	// no liquid
	e = s.EmulsionVisc(ad.Const(0), μw, ad.Const(0), μo)
	chk.Float64(tst, "no liquid", 1e-15, e.V, 0)

	// maximum ratio
	s.MaxRatio = 1.5
	e = s.EmulsionVisc(ad.Const(0.2), μw, ad.Const(0.8), μo)
	chk.Float64(tst, "clamped", 1e-15, e.V, 2e-3*1.5)
	s.MaxRatio = 5

	// pressure drop of pure oil flowing towards the outlet
	f := &Flow{MassRate: ad.Const(-2), Density: ad.Const(800)}
	f.Fractions[pvt.Oil] = ad.Const(1)
	f.PhaseVisc[pvt.Water], f.PhaseVisc[pvt.Oil], f.PhaseVisc[pvt.Gas] = μw, μo, ad.Const(1.5e-5)
	q := -2.0 / 800
	correct := 2e-4 * math.Pow(800/1000.25, 0.75) * math.Pow(2e-3/1.45e-3, 0.25) * q * q
	drop := dev.PressureDrop(f)
	chk.Float64(tst, "drop", 1e-15, drop.V, correct)
	f.MassRate = ad.Const(2)
	drop = dev.PressureDrop(f)
	chk.Float64(tst, "reversed drop", 1e-15, drop.V, -correct)
}

func Test_mixture01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mixture01")

	// dead oil with water
	mdl, err := pvt.New("deadoil")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err = mdl.Init(mdl.GetPrms(true)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	pu, err := pvt.NewPhaseUsage(true, true, false)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	p := ad.Var(150e5, 0)
	var mixS [pvt.NumPhases]ad.Eval
	mixS[pvt.Water], mixS[pvt.Oil] = ad.Const(0.3), ad.Const(0.7)
	mix, err := ComputeMixture(mdl, pu, p, mixS)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	bw, bo := mdl.WaterInvB(p).V, mdl.SatOilInvB(p).V
	volrat := 0.3/bw + 0.7/bo
	chk.Float64(tst, "density", 1e-10, mix.Density.V, (1000*0.3+800*0.7)/volrat)
	chk.Float64(tst, "fw", 1e-15, mix.Fractions[pvt.Water].V, 0.3/bw/volrat)
	chk.Float64(tst, "fw+fo", 1e-15, mix.Fractions[pvt.Water].V+mix.Fractions[pvt.Oil].V, 1)
	chk.Float64(tst, "fg", 1e-15, mix.Fractions[pvt.Gas].V, 0)
	visc := mix.Fractions[pvt.Water].V*5e-4 + mix.Fractions[pvt.Oil].V*2e-3
	chk.Float64(tst, "visc", 1e-15, mix.Visc.V, visc)
}

func Test_mixture02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mixture02")

	// live oil with free gas: Rs is limited by its saturated value
	mdl, err := pvt.New("blackoil")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err = mdl.Init(mdl.GetPrms(true)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	pu, err := pvt.NewPhaseUsage(true, true, true)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	p := 50e5
	var mixS [pvt.NumPhases]ad.Eval
	mixS[pvt.Water] = ad.Var(0.1, 0)
	mixS[pvt.Oil] = ad.Var(0.01, 1)
	mixS[pvt.Gas] = ad.Var(0.89, 2)
	mix, err := ComputeMixture(mdl, pu, ad.Const(p), mixS)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	rsSat := mdl.SatRs(ad.Const(p)).V
	rvSat := mdl.SatRv(ad.Const(p)).V
	io.Pforan("Rs=%g (sat=%g) Rv=%g (sat=%g)\n", mix.Rs.V, rsSat, mix.Rv.V, rvSat)
	chk.Float64(tst, "Rs", 1e-15, mix.Rs.V, rsSat)
	chk.Float64(tst, "Rv", 1e-15, mix.Rv.V, rvSat)
	sum := mix.Fractions[pvt.Water].Add(mix.Fractions[pvt.Oil]).Add(mix.Fractions[pvt.Gas])
	chk.Float64(tst, "Σf", 1e-14, sum.V, 1)
	chk.Array(tst, "dΣf", 1e-12, sum.D[:3], []float64{0, 0, 0})

	// density derivative with respect to the gas amount
	fun := func(g float64) float64 {
		m := mixS
		m[pvt.Gas] = ad.Const(g)
		m[pvt.Water], m[pvt.Oil] = ad.Const(0.1), ad.Const(0.01)
		r, _ := ComputeMixture(mdl, pu, ad.Const(p), m)
		return r.Density.V
	}
	h := 1e-7
	num := (fun(0.89+h) - fun(0.89-h)) / (2 * h)
	chk.Float64(tst, "dρ/dg", 1e-5*math.Abs(num), mix.Density.D[2], num)
}
