// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// GTotal is the index of the total rate in the primary variables of a segment
const GTotal = 0

// MinPressure is the lowest pressure accepted by Newton updates [Pa]
const MinPressure = 1e5

// Layout defines the primary variables and equations of one segment.
//  Variables: [GTotal, WFrac (if water), GFrac (if gas), Pressure]
//  Equations: one mass balance per component (compact phase index) and the pressure equation
type Layout struct {
	Pu    *pvt.PhaseUsage // active phases
	Nc    int             // number of components
	NumEq int             // number of equations (and variables) per segment
	WFrac int             // index of water fraction; -1 if water is inactive
	GFrac int             // index of gas fraction; -1 if gas is inactive
	Press int             // index of pressure
}

// NewLayout returns the layout for the active phases
func NewLayout(pu *pvt.PhaseUsage) (o *Layout) {
	o = &Layout{Pu: pu, Nc: pu.Num(), WFrac: -1, GFrac: -1}
	idx := 1
	if pu.Has(pvt.Water) {
		o.WFrac = idx
		idx++
	}
	if pu.Has(pvt.Gas) {
		o.GFrac = idx
		idx++
	}
	o.Press = idx
	o.NumEq = idx + 1
	return
}

// Scale returns the scaling factor of the volume fraction of canonical phase ph
func Scale(ph int) float64 {
	if ph == pvt.Gas {
		return 0.01
	}
	return 1
}

// fractions ///////////////////////////////////////////////////////////////////////////////////////

// VolumeFractions returns the volume fractions (canonical) with derivatives at slot off + variable
func (o *Layout) VolumeFractions(pv []float64, off int) (f [pvt.NumPhases]ad.Eval) {
	oil := ad.Const(1)
	if o.WFrac >= 0 {
		f[pvt.Water] = ad.Var(pv[o.WFrac], off+o.WFrac)
		oil = oil.Sub(f[pvt.Water])
	}
	if o.GFrac >= 0 {
		f[pvt.Gas] = ad.Var(pv[o.GFrac], off+o.GFrac)
		oil = oil.Sub(f[pvt.Gas])
	}
	f[pvt.Oil] = oil
	return
}

// ScaledFractions divides the volume fractions by the scaling factors
func (o *Layout) ScaledFractions(f [pvt.NumPhases]ad.Eval) (fs [pvt.NumPhases]ad.Eval) {
	for _, ph := range o.Pu.Phases {
		fs[ph] = f[ph].MulC(1.0 / Scale(ph))
	}
	return
}

// SurfaceFractions normalises the scaled fractions; i.e. the surface volume composition
func (o *Layout) SurfaceFractions(fs [pvt.NumPhases]ad.Eval) (cmix [pvt.NumPhases]ad.Eval) {
	var sum ad.Eval
	for _, ph := range o.Pu.Phases {
		sum = sum.Add(fs[ph])
	}
	for _, ph := range o.Pu.Phases {
		cmix[ph] = fs[ph].Div(sum)
	}
	return
}

// ProcessFractions moves the fractions of pv back into the simplex
func (o *Layout) ProcessFractions(pv []float64) {
	var f [pvt.NumPhases]float64
	f[pvt.Oil] = 1
	if o.WFrac >= 0 {
		f[pvt.Water] = pv[o.WFrac]
		f[pvt.Oil] -= f[pvt.Water]
	}
	if o.GFrac >= 0 {
		f[pvt.Gas] = pv[o.GFrac]
		f[pvt.Oil] -= f[pvt.Gas]
	}
	for _, ph := range []int{pvt.Water, pvt.Gas, pvt.Oil} {
		if !o.Pu.Has(ph) || f[ph] >= 0 {
			continue
		}
		for _, other := range o.Pu.Phases {
			if other != ph {
				f[other] /= 1 - f[ph]
			}
		}
		f[ph] = 0
	}
	if o.WFrac >= 0 {
		pv[o.WFrac] = f[pvt.Water]
	}
	if o.GFrac >= 0 {
		pv[o.GFrac] = f[pvt.Gas]
	}
}

// rates ///////////////////////////////////////////////////////////////////////////////////////////

// InitFromRates sets the total rate and fractions of pv from surface rates
func (o *Layout) InitFromRates(pv []float64, rates [pvt.NumPhases]float64, producer bool, injPhase int) {
	var gt float64
	for _, ph := range o.Pu.Phases {
		gt += Scale(ph) * rates[ph]
	}
	var f [pvt.NumPhases]float64
	switch {
	case gt != 0:
		for _, ph := range o.Pu.Phases {
			f[ph] = Scale(ph) * rates[ph] / gt
		}
	case producer:
		for _, ph := range o.Pu.Phases {
			f[ph] = 1.0 / float64(o.Nc)
		}
	default:
		if injPhase < 0 || !o.Pu.Has(injPhase) {
			chk.Panic("injector without rates needs an active injection phase. %d is invalid", injPhase)
		}
		f[injPhase] = 1
	}
	pv[GTotal] = gt
	if o.WFrac >= 0 {
		pv[o.WFrac] = f[pvt.Water]
	}
	if o.GFrac >= 0 {
		pv[o.GFrac] = f[pvt.Gas]
	}
	o.ProcessFractions(pv)
}

// Rates returns the surface rates of pv
func (o *Layout) Rates(pv []float64) (rates [pvt.NumPhases]float64) {
	f := o.VolumeFractions(pv, 0)
	for _, ph := range o.Pu.Phases {
		rates[ph] = pv[GTotal] * f[ph].V / Scale(ph)
	}
	return
}

// update //////////////////////////////////////////////////////////////////////////////////////////

// UpdateNewton applies pv := pv - relax・dx. Fraction changes are chopped to dFLimit with a
// common factor, the pressure change is limited to dpMax and the total rate is relaxed when it
// would change sign
func (o *Layout) UpdateNewton(pv, dx []float64, dFLimit, dpMax, relax float64) {

	// fractions
	var dw, dg float64
	if o.WFrac >= 0 {
		dw = relax * dx[o.WFrac]
	}
	if o.GFrac >= 0 {
		dg = relax * dx[o.GFrac]
	}
	maxd := math.Max(math.Abs(dw), math.Max(math.Abs(dg), math.Abs(dw+dg)))
	chop := 1.0
	if maxd > dFLimit {
		chop = dFLimit / maxd
	}
	if o.WFrac >= 0 {
		pv[o.WFrac] -= chop * dw
	}
	if o.GFrac >= 0 {
		pv[o.GFrac] -= chop * dg
	}

	// total rate
	q, dq := pv[GTotal], relax*dx[GTotal]
	if q*(q-dq) < 0 {
		dq *= 0.8 * math.Abs(q/dq)
	}
	pv[GTotal] = q - dq

	// pressure
	dp := relax * dx[o.Press]
	if math.Abs(dp) > dpMax {
		dp = math.Copysign(dpMax, dp)
	}
	pv[o.Press] = math.Max(pv[o.Press]-dp, MinPressure)

	o.ProcessFractions(pv)
}
