// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// ProdTable holds a production lift curve table BHP(flo, thp, wfr, gfr, alq).
// Production rates follow the simulator convention (negative); the table flow axis is positive
type ProdTable struct {
	Id       int     // table number
	RefDepth float64 // datum depth of the table
	FloType  FloType // flow axis type
	WfrType  WfrType // water fraction axis type
	GfrType  GfrType // gas fraction axis type

	// axes
	Flo []float64 // flow rates
	Thp []float64 // tubing head pressures
	Wfr []float64 // water fractions
	Gfr []float64 // gas fractions
	Alq []float64 // artificial lift quantities

	// data
	Data []float64 // bhp values ordered as [thp][wfr][gfr][alq][flo]
}

// Check checks dimensions and axes
func (o *ProdTable) Check() (err error) {
	axes := map[string][]float64{"flo": o.Flo, "thp": o.Thp, "wfr": o.Wfr, "gfr": o.Gfr, "alq": o.Alq}
	for name, axis := range axes {
		if len(axis) == 0 {
			return chk.Err("vfp production table %d: %s axis is empty", o.Id, name)
		}
		for i := 1; i < len(axis); i++ {
			if axis[i] <= axis[i-1] {
				return chk.Err("vfp production table %d: %s axis must be strictly increasing", o.Id, name)
			}
		}
	}
	n := len(o.Thp) * len(o.Wfr) * len(o.Gfr) * len(o.Alq) * len(o.Flo)
	if len(o.Data) != n {
		return chk.Err("vfp production table %d: data has %d values but axes require %d", o.Id, len(o.Data), n)
	}
	for _, v := range o.Data {
		if math.IsNaN(v) {
			return chk.Err("vfp production table %d: data contains NaN", o.Id)
		}
	}
	return
}

// At returns the table value at the given indices
func (o *ProdTable) At(it, iw, ig, ia, iq int) float64 {
	nw, ng, na, nq := len(o.Wfr), len(o.Gfr), len(o.Alq), len(o.Flo)
	return o.Data[(((it*nw+iw)*ng+ig)*na+ia)*nq+iq]
}

// eval interpolates the table; derivatives are returned in the order flo, thp, wfr, gfr, alq
func (o *ProdTable) eval(flo, thp, wfr, gfr, alq float64) (val float64, grad []float64) {
	loc := []interpData{
		findInterp(flo, o.Flo),
		findInterp(thp, o.Thp),
		findInterp(wfr, o.Wfr),
		findInterp(gfr, o.Gfr),
		findInterp(alq, o.Alq),
	}
	return interpolate(loc, func(idx []int) float64 {
		return o.At(idx[1], idx[2], idx[3], idx[4], idx[0])
	})
}

// Bhp computes the bottom hole pressure at the table datum for the given (signed) surface
// rates. Derivatives are propagated through the flow rate and the fractions
func (o *ProdTable) Bhp(aqua, liquid, vapour ad.Eval, thp, alq float64) (bhp ad.Eval) {
	flo := Flo(aqua, liquid, vapour, o.FloType)
	wfr := Wfr(aqua, liquid, vapour, o.WfrType)
	gfr := Gfr(aqua, liquid, vapour, o.GfrType)
	val, grad := o.eval(-flo.V, thp, wfr.V, gfr.V, alq)
	dflo := math.Max(0, grad[0])
	bhp = wfr.MulC(grad[2]).Add(gfr.MulC(grad[3])).Sub(flo.MulC(dflo))
	bhp.V = val
	return
}

// BhpWithFlo computes bhp for a list of (signed) flow rates keeping the fractions fixed.
// dp is subtracted from every result
func (o *ProdTable) BhpWithFlo(flos []float64, wfr, gfr, thp, alq, dp float64) (bhps []float64) {
	bhps = make([]float64, len(flos))
	for i, flo := range flos {
		val, _ := o.eval(-flo, thp, wfr, gfr, alq)
		bhps[i] = val - dp
	}
	return
}

// ThpAt computes the tubing head pressure corresponding to bhp for the given rates
func (o *ProdTable) ThpAt(aqua, liquid, vapour, bhp, alq float64) float64 {
	flo := Flo(ad.Const(aqua), ad.Const(liquid), ad.Const(vapour), o.FloType).V
	wfr := Wfr(ad.Const(aqua), ad.Const(liquid), ad.Const(vapour), o.WfrType).V
	gfr := Gfr(ad.Const(aqua), ad.Const(liquid), ad.Const(vapour), o.GfrType).V
	bhps := make([]float64, len(o.Thp))
	for i, thp := range o.Thp {
		bhps[i], _ = o.eval(-flo, thp, wfr, gfr, alq)
	}
	return findThp(bhps, o.Thp, bhp)
}

// findThp inverts the monotone function bhp(thp) sampled at the thp axis
func findThp(bhps, thps []float64, bhp float64) float64 {
	n := len(thps)
	if n == 1 {
		return thps[0]
	}
	findX := func(x0, x1, y0, y1, y float64) float64 {
		dy := y1 - y0
		if dy == 0 {
			return x0
		}
		return x0 + (y-y0)*(x1-x0)/dy
	}
	if bhp <= bhps[0] {
		return findX(thps[0], thps[1], bhps[0], bhps[1], bhp)
	}
	if bhp > bhps[n-1] {
		return findX(thps[n-2], thps[n-1], bhps[n-2], bhps[n-1], bhp)
	}
	for i := 0; i < n-1; i++ {
		if bhps[i] < bhp && bhp <= bhps[i+1] {
			return findX(thps[i], thps[i+1], bhps[i], bhps[i+1], bhp)
		}
	}
	chk.Panic("bhp(thp) is not monotone: cannot find thp for bhp=%g", bhp)
	return 0
}
