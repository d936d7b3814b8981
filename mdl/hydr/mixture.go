// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Mixture holds the properties of the wellbore fluid at one location.
// Arrays are indexed by canonical phase; inactive phases hold zeros
type Mixture struct {
	Density   ad.Eval                // mixture density at reservoir conditions
	Visc      ad.Eval                // volume-fraction-weighted viscosity
	Fractions [pvt.NumPhases]ad.Eval // reservoir volume fractions
	PhaseVisc [pvt.NumPhases]ad.Eval // phase viscosities
	InvB      [pvt.NumPhases]ad.Eval // phase inverse formation volume factors
	Rs, Rv    ad.Eval                // dissolution factors used
	VolRatio  ad.Eval                // reservoir volume of one unit of surface volume
}

// ComputeMixture converts the surface volume composition mixS (canonical indices) at pressure p
// into reservoir conditions. Rs and Rv are limited by their saturated values
func ComputeMixture(mdl pvt.Model, pu *pvt.PhaseUsage, p ad.Eval, mixS [pvt.NumPhases]ad.Eval) (o *Mixture, err error) {

	o = new(Mixture)
	var b, visc [pvt.NumPhases]ad.Eval
	if pu.Has(pvt.Water) {
		b[pvt.Water] = mdl.WaterInvB(p)
		visc[pvt.Water] = mdl.WaterVisc(p)
	}

	// gas
	var rv ad.Eval
	if pu.Has(pvt.Gas) {
		if pu.Has(pvt.Oil) && mixS[pvt.Oil].V > 0 {
			rvmax := mdl.SatRv(p)
			if mixS[pvt.Gas].V > 0 {
				rv = mixS[pvt.Oil].Div(mixS[pvt.Gas])
			}
			if rv.V > rvmax.V {
				rv = rvmax
			}
			b[pvt.Gas] = mdl.GasInvB(p, rv)
			visc[pvt.Gas] = mdl.GasVisc(p, rv)
		} else {
			b[pvt.Gas] = mdl.SatGasInvB(p)
			visc[pvt.Gas] = mdl.SatGasVisc(p)
		}
	}

	// oil
	var rs ad.Eval
	if pu.Has(pvt.Gas) && mixS[pvt.Gas].V > 0 {
		rsmax := mdl.SatRs(p)
		if mixS[pvt.Oil].V > 0 {
			rs = mixS[pvt.Gas].Div(mixS[pvt.Oil])
		}
		if rs.V > rsmax.V {
			rs = rsmax
		}
		b[pvt.Oil] = mdl.OilInvB(p, rs)
		visc[pvt.Oil] = mdl.OilVisc(p, rs)
	} else {
		b[pvt.Oil] = mdl.SatOilInvB(p)
		visc[pvt.Oil] = mdl.SatOilVisc(p)
	}

	// free phase amounts
	mix := mixS
	if pu.OilAndGas() {
		d := ad.Const(1).Sub(rs.Mul(rv))
		if d.V == 0 {
			return nil, chk.Err("zero denominator 1 - Rs・Rv with Rs=%g and Rv=%g", rs.V, rv.V)
		}
		if rs.V != 0 {
			mix[pvt.Gas] = mixS[pvt.Gas].Sub(mixS[pvt.Oil].Mul(rs)).Div(d)
		}
		if rv.V != 0 {
			mix[pvt.Oil] = mixS[pvt.Oil].Sub(mixS[pvt.Gas].Mul(rv)).Div(d)
		}
	}

	var volrat ad.Eval
	for _, ph := range pu.Phases {
		volrat = volrat.Add(mix[ph].Div(b[ph]))
	}
	if volrat.V <= 0 {
		return nil, chk.Err("non-positive reservoir volume ratio %g", volrat.V)
	}

	var dens ad.Eval
	for _, ph := range pu.Phases {
		o.Fractions[ph] = mix[ph].Div(b[ph]).Div(volrat)
		o.Visc = o.Visc.Add(visc[ph].Mul(o.Fractions[ph]))
		dens = dens.Add(mixS[ph].MulC(mdl.SurfDens(ph)))
	}
	o.Density = dens.Div(volrat)
	o.PhaseVisc = visc
	o.InvB = b
	o.Rs, o.Rv = rs, rv
	o.VolRatio = volrat
	return
}
