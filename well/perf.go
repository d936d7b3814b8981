// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/res"
)

// PerfInput holds the data needed to compute the flow through one perforation.
// Arrays are indexed by canonical phase
type PerfInput struct {
	Mob      [pvt.NumPhases]ad.Eval // mobilities at the perforation
	InvB     [pvt.NumPhases]ad.Eval // inverse formation volume factors of the cell
	Rs, Rv   ad.Eval                // dissolution factors of the cell
	PCell    ad.Eval                // cell pressure referred to the perforation
	PWell    ad.Eval                // wellbore pressure at the perforation
	WI       float64                // well index
	Cmix     [pvt.NumPhases]ad.Eval // wellbore surface volume composition
	Producer bool                   // well is a producer
	AllowCF  bool                   // crossflow is allowed
}

// PerfRate holds the result of the perforation kernel
type PerfRate struct {
	Cq     [pvt.NumPhases]ad.Eval // surface rates; positive means injection into the reservoir
	DisGas float64                // dissolved gas produced with oil (producers only)
	VapOil float64                // vaporised oil produced with gas (producers only)
}

// ComputePerfRate computes the component surface rates flowing through a perforation
//  drawdown > 0: flow from the reservoir into the well
//  drawdown ≤ 0: flow from the well into the reservoir with the wellbore composition
func ComputePerfRate(pu *pvt.PhaseUsage, in *PerfInput) (out PerfRate, err error) {
	drawdown := in.PCell.Sub(in.PWell)

	// producing direction
	if drawdown.V > 0 {
		if !in.AllowCF && !in.Producer {
			return
		}
		for _, ph := range pu.Phases {
			out.Cq[ph] = in.Mob[ph].Mul(drawdown).Mul(in.InvB[ph]).MulC(-in.WI)
		}
		if pu.OilAndGas() {
			oil, gas := out.Cq[pvt.Oil], out.Cq[pvt.Gas]
			disgas := in.Rs.Mul(oil)
			vapoil := in.Rv.Mul(gas)
			out.Cq[pvt.Gas] = gas.Add(disgas)
			out.Cq[pvt.Oil] = oil.Add(vapoil)
			if in.Producer {
				out.DisGas = disgas.V
				out.VapOil = vapoil.V
			}
		}
		return
	}

	// injecting direction
	if !in.AllowCF && in.Producer {
		return
	}
	var totmob ad.Eval
	for _, ph := range pu.Phases {
		totmob = totmob.Add(in.Mob[ph])
	}
	ratio, err := volumeRatio(pu, in.Cmix, in.InvB, in.Rs, in.Rv)
	if err != nil {
		return
	}
	cqt := totmob.Mul(drawdown).MulC(-in.WI).Div(ratio)
	for _, ph := range pu.Phases {
		out.Cq[ph] = in.Cmix[ph].Mul(cqt)
	}
	return
}

// volumeRatio computes the reservoir volume of one unit of surface volume with composition cmix
func volumeRatio(pu *pvt.PhaseUsage, cmix, invB [pvt.NumPhases]ad.Eval, rs, rv ad.Eval) (ratio ad.Eval, err error) {
	if pu.Has(pvt.Water) {
		ratio = cmix[pvt.Water].Div(invB[pvt.Water])
	}
	if !pu.OilAndGas() {
		for _, ph := range pu.Phases {
			if ph != pvt.Water {
				ratio = ratio.Add(cmix[ph].Div(invB[ph]))
			}
		}
		return
	}
	d := ad.Const(1).Sub(rs.Mul(rv))
	if d.V == 0 {
		return ratio, numErr("", "cannot convert surface rates: 1 - Rs・Rv = 0 with Rs=%g and Rv=%g", rs.V, rv.V)
	}
	oil := cmix[pvt.Oil].Sub(rv.Mul(cmix[pvt.Gas])).Div(d)
	gas := cmix[pvt.Gas].Sub(rs.Mul(cmix[pvt.Oil])).Div(d)
	ratio = ratio.Add(oil.Div(invB[pvt.Oil])).Add(gas.Div(invB[pvt.Gas]))
	return
}

// ReservoirVolumeRate converts component surface rates to the total rate at reservoir conditions
func ReservoirVolumeRate(pu *pvt.PhaseUsage, cq, invB [pvt.NumPhases]ad.Eval, rs, rv ad.Eval) (ad.Eval, error) {
	return volumeRatio(pu, cq, invB, rs, rv)
}

// perfInput fills the cell-dependent part of the perforation input. The mobilities are
// recomputed with the perforation's saturation table if it differs from the cell's
func perfInput(r res.Reservoir, p *Perf) (in *PerfInput) {
	q := r.Quantities(p.Cell)
	in = &PerfInput{InvB: q.InvB, Rs: q.Rs, Rv: q.Rv, PCell: q.Pressure, WI: p.WI, Mob: q.Mob}
	if p.Table >= 0 && p.Table != r.SatTable(p.Cell) {
		mdl := r.RelPerm(p.Table)
		if mdl == nil {
			chk.Panic("saturation table %d of perforation in cell %d is not available", p.Table, p.Cell)
		}
		kr := mdl.Kr(q.Sat)
		for _, ph := range r.Phases().Phases {
			in.Mob[ph] = kr[ph].Div(q.Visc[ph])
		}
	}
	return
}
