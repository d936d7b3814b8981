// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
	"github.com/totto82/opm-autodiff-sub000/res"
)

// ResvCoefficients returns the factors converting surface rates into reservoir voidage rates
// at the average reservoir conditions
func ResvCoefficients(r res.Reservoir) (coef [pvt.NumPhases]float64, err error) {
	pu := r.Phases()
	mdl := r.Fluid().Pvt
	p, rs, rv := r.Average()
	pe := ad.Const(p)
	var b [pvt.NumPhases]float64
	if pu.Has(pvt.Water) {
		b[pvt.Water] = mdl.WaterInvB(pe).V
		coef[pvt.Water] = 1.0 / b[pvt.Water]
	}
	if pu.Has(pvt.Oil) {
		b[pvt.Oil] = mdl.OilInvB(pe, ad.Const(rs)).V
	}
	if pu.Has(pvt.Gas) {
		b[pvt.Gas] = mdl.GasInvB(pe, ad.Const(rv)).V
	}
	if !pu.OilAndGas() {
		for _, ph := range pu.Phases {
			coef[ph] = 1.0 / b[ph]
		}
		return
	}
	d := 1 - rs*rv
	if d <= 0 {
		return coef, numErr("", "cannot compute reservoir voidage coefficients: 1 - Rs・Rv = %g", d)
	}
	coef[pvt.Oil] = 1/(d*b[pvt.Oil]) - rs/(d*b[pvt.Gas])
	coef[pvt.Gas] = 1/(d*b[pvt.Gas]) - rv/(d*b[pvt.Oil])
	return
}

// active control /////////////////////////////////////////////////////////////////////////////////

// ActiveControl returns the current control with group controls converted into individual
// controls. A well under group control without an active group target falls back to its BHP limit
func (o *Base) ActiveControl() (ctrl *Control, err error) {
	ctrl = o.Cfg.Controls[o.St.Current]
	if ctrl.Mode != Grup {
		return
	}
	if o.Ctx.Groups != nil {
		m, e := o.Member()
		if e != nil {
			return nil, e
		}
		if c, ok := o.Ctx.Groups.WellTarget(m); ok {
			return c, nil
		}
	}
	o.Warning("GROUP_CONTROL_UNAVAILABLE", "using BHP limit %g", o.Cfg.BhpLimit())
	return &Control{Key: "BHP", Mode: BHP, Target: o.Cfg.BhpLimit()}, nil
}

// surfaceRates returns the surface rates of segment quantities q
func surfaceRates(q *SegQuantities) (rates [pvt.NumPhases]ad.Eval) {
	for ph := range rates {
		rates[ph] = q.GTotal.Mul(q.FracScaled[ph])
	}
	return
}

// ControlEquation returns the residual of the control equation of the well computed with the
// quantities of the top segment
func (o *Base) ControlEquation(q *SegQuantities) (eq ad.Eval, err error) {
	if o.Cfg.Status == Stop {
		o.Control = nil
		return q.GTotal, nil
	}
	ctrl, err := o.ActiveControl()
	if err != nil {
		return
	}
	o.Control = ctrl
	rates := surfaceRates(q)
	pu := o.L.Pu
	switch ctrl.Mode {

	case BHP:
		eq = q.Pressure.AddC(-ctrl.Target)

	case THP:
		var bhp ad.Eval
		if bhp, err = o.BhpFromThp(rates, ctrl.Target, ctrl.Vfp, ctrl.Alq); err != nil {
			return
		}
		eq = q.Pressure.Sub(bhp)

	case SurfaceRate:
		var rate ad.Eval
		for _, ph := range pu.Phases {
			if ctrl.Distr[ph] > 0 {
				rate = rate.Add(rates[ph].MulC(ctrl.Distr[ph]))
			}
		}
		if rate.V == 0 && ctrl.Target != 0 {
			o.Warning("MISSION_IMPOSSIBLE_RATE_CONTROL", "controlled phases are not flowing; total rate set to target %g", ctrl.Target)
			eq = q.GTotal.AddC(-ctrl.Target)
			return
		}
		eq = rate.AddC(-ctrl.Target)

	case Resv:
		coef, e := ResvCoefficients(o.Ctx.Res)
		if e != nil {
			return eq, withWell(e, o.Cfg.Name)
		}
		var rate ad.Eval
		if o.Cfg.Producer {
			for _, ph := range pu.Phases {
				if ctrl.Distr[ph] > 0 {
					rate = rate.Add(q.GTotal.Mul(q.VolFrac[ph]).MulC(ctrl.Distr[ph] * coef[ph]))
				}
			}
		} else {
			ph := o.Cfg.InjPhase
			rate = rates[ph].MulC(coef[ph])
		}
		eq = rate.AddC(-ctrl.Target)

	default:
		return eq, logicErr(o.Cfg.Name, "control mode %v cannot be assembled", ctrl.Mode)
	}
	return
}

// lift curves /////////////////////////////////////////////////////////////////////////////////////

// vfpCorrection returns the hydrostatic correction between the well reference depth and the
// datum of a lift curve table
func (o *Base) vfpCorrection(tableRefDepth float64) float64 {
	return vfp.HydrostaticCorrection(o.Cfg.RefDepth, tableRefDepth, o.RefDensity, o.Ctx.Grav)
}

// BhpFromThp computes the BHP at the well reference depth for the given surface rates and THP
func (o *Base) BhpFromThp(rates [pvt.NumPhases]ad.Eval, thp float64, table int, alq float64) (bhp ad.Eval, err error) {
	aqua, liquid, vapour := rates[pvt.Water], rates[pvt.Oil], rates[pvt.Gas]
	if o.Cfg.Producer {
		t, e := o.Ctx.Vfp.Prod(table)
		if e != nil {
			return bhp, logicErr(o.Cfg.Name, "%v", e)
		}
		return t.Bhp(aqua, liquid, vapour, thp, alq).AddC(-o.vfpCorrection(t.RefDepth)), nil
	}
	t, e := o.Ctx.Vfp.Inj(table)
	if e != nil {
		return bhp, logicErr(o.Cfg.Name, "%v", e)
	}
	return t.Bhp(aqua, liquid, vapour, thp).AddC(-o.vfpCorrection(t.RefDepth)), nil
}

// bhpFromThpAt computes the BHP for constant rates
func (o *Base) bhpFromThpAt(rates [pvt.NumPhases]float64, thp float64, table int, alq float64) (float64, error) {
	var q [pvt.NumPhases]ad.Eval
	for ph, v := range rates {
		q[ph] = ad.Const(v)
	}
	bhp, err := o.BhpFromThp(q, thp, table, alq)
	return bhp.V, err
}

// ThpFromState computes the THP corresponding to the current BHP and rates; zero if the well
// has no lift curve
func (o *Base) ThpFromState() float64 {
	if o.Cfg.Vfp <= 0 || o.Ctx.Vfp == nil {
		return 0
	}
	rt := o.St.Rates
	if o.Cfg.Producer {
		t, err := o.Ctx.Vfp.Prod(o.Cfg.Vfp)
		if err != nil {
			return 0
		}
		return t.ThpAt(rt[pvt.Water], rt[pvt.Oil], rt[pvt.Gas], o.St.Bhp+o.vfpCorrection(t.RefDepth), o.Cfg.Alq)
	}
	t, err := o.Ctx.Vfp.Inj(o.Cfg.Vfp)
	if err != nil {
		return 0
	}
	return t.ThpAt(rt[pvt.Water], rt[pvt.Oil], rt[pvt.Gas], o.St.Bhp+o.vfpCorrection(t.RefDepth))
}

// switching ///////////////////////////////////////////////////////////////////////////////////////

// controlledRate returns the rate of ctrl computed from surface rates
func (o *Base) controlledRate(ctrl *Control, rates [pvt.NumPhases]float64) (rate float64, err error) {
	var coef [pvt.NumPhases]float64
	for ph := range coef {
		coef[ph] = 1
	}
	if ctrl.Mode == Resv {
		if coef, err = ResvCoefficients(o.Ctx.Res); err != nil {
			return 0, withWell(err, o.Cfg.Name)
		}
	}
	for _, ph := range o.L.Pu.Phases {
		rate += ctrl.Distr[ph] * coef[ph] * rates[ph]
	}
	return
}

// violated tells whether the well state violates ctrl
func (o *Base) violated(ctrl *Control) (bool, error) {
	var value float64
	switch ctrl.Mode {
	case BHP:
		value = o.St.Bhp
	case THP:
		if o.Ctx.Vfp == nil || o.Cfg.Vfp <= 0 {
			return false, nil
		}
		value = o.St.Thp
	case SurfaceRate, Resv:
		var err error
		if value, err = o.controlledRate(ctrl, o.St.Rates); err != nil {
			return false, err
		}
	default:
		return false, nil
	}
	if o.Cfg.Producer {
		return value < ctrl.Target, nil
	}
	return value > ctrl.Target, nil
}

// UpdateControl switches to the first violated control. Returns true if the control changed
func (o *Base) UpdateControl() (changed bool, err error) {
	if o.Cfg.Status != Open {
		return
	}
	old := o.St.Current
	for i, ctrl := range o.Cfg.Controls {
		if i == old || ctrl.Mode == Grup {
			continue
		}
		v, e := o.violated(ctrl)
		if e != nil {
			return false, e
		}
		if v {
			o.St.Current = i
			changed = true
			break
		}
	}
	if changed {
		if o.ShowMsg {
			o.Warning("CONTROL_SWITCH", "switching from %s to %s", o.Cfg.Controls[old].Key, o.Cfg.Controls[o.St.Current].Key)
		}
		err = o.UpdateWellStateWithTarget()
	}
	return
}

// UpdateWellStateWithTarget makes the well state satisfy the current control and re-initialises
// the primary variables
func (o *Base) UpdateWellStateWithTarget() (err error) {
	st := o.St
	ctrl, err := o.ActiveControl()
	if err != nil {
		return
	}
	switch ctrl.Mode {
	case BHP:
		o.shiftPressures(ctrl.Target)
	case THP:
		if bhp, err := o.bhpFromThpAt(st.Rates, ctrl.Target, ctrl.Vfp, ctrl.Alq); err == nil {
			o.shiftPressures(bhp)
		}
	case SurfaceRate, Resv:
		rate, e := o.controlledRate(ctrl, st.Rates)
		if e != nil {
			return e
		}
		if rate != 0 {
			o.scaleRates(ctrl.Target / rate)
			break
		}
		var rates [pvt.NumPhases]float64
		if o.Cfg.Producer {
			var den float64
			for _, ph := range o.L.Pu.Phases {
				den += ctrl.Distr[ph]
			}
			for _, ph := range o.L.Pu.Phases {
				if den > 0 {
					rates[ph] = ctrl.Target * ctrl.Distr[ph] / den
				}
			}
			if ctrl.Mode == Resv {
				if r, _ := o.controlledRate(ctrl, rates); r != 0 {
					for ph := range rates {
						rates[ph] *= ctrl.Target / r
					}
				}
			}
		} else {
			rates[o.Cfg.InjPhase], _ = o.controlledRate(ctrl, [pvt.NumPhases]float64{1, 1, 1})
			if rates[o.Cfg.InjPhase] != 0 {
				rates[o.Cfg.InjPhase] = ctrl.Target / rates[o.Cfg.InjPhase]
			}
		}
		st.Rates = rates
		for s := range st.SegRates {
			st.SegRates[s] = rates
		}
	}
	o.InitPrimaryVariables()
	return
}

// shiftPressures sets the BHP keeping the pressure differences between segments
func (o *Base) shiftPressures(bhp float64) {
	dp := bhp - o.St.Bhp
	o.St.Bhp = bhp
	for s := range o.St.SegPress {
		o.St.SegPress[s] += dp
	}
}

// scaleRates multiplies all rates by f
func (o *Base) scaleRates(f float64) {
	st := o.St
	for ph := range st.Rates {
		st.Rates[ph] *= f
	}
	for s := range st.SegRates {
		for ph := range st.SegRates[s] {
			st.SegRates[s][ph] *= f
		}
	}
	for p := range st.PerfRates {
		for ph := range st.PerfRates[p] {
			st.PerfRates[p][ph] *= f
		}
	}
}

// clampBhp applies the BHP limit to a BHP value: producers cannot go below, injectors above
func (o *Base) clampBhp(bhp float64) float64 {
	if o.Cfg.Producer {
		return math.Max(bhp, o.Cfg.BhpLimit())
	}
	return math.Min(bhp, o.Cfg.BhpLimit())
}
