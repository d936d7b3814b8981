// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msw

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/hydr"
	"github.com/totto82/opm-autodiff-sub000/well"
)

// termFcn computes a term of the pressure equation of segment s that depends on the quantities
// of s (qs) and of one neighbour (qn)
type termFcn func(qs, qn *well.SegQuantities) ad.Eval

// assemblePressureEq assembles the pressure equation of segment s > 0
//  p_s - p_out - ρ_s・g・(z_s - z_out) - Δp = 0
// where Δp is the device drop or the frictional plus accelerational drop of the pipe
func (o *Well) assemblePressureEq(s int, qs []*well.SegQuantities) {
	seg := o.Cfg.Segs[s]
	out := seg.Outlet
	if out < 0 {
		chk.Panic("segment %d has no outlet; the top segment carries the control equation", seg.Number)
	}
	dz := seg.Depth - o.Cfg.Segs[out].Depth

	// pressures and hydrostatics
	o.AddPressureEq(s, s, qs[s].Pressure.Sub(qs[s].Mix.Density.MulC(o.Ctx.Grav*dz)))
	o.AddPressureEq(s, out, qs[out].Pressure.Neg())

	// device
	if seg.Device != nil {
		o.addCoupled(s, out, qs, func(qself, qout *well.SegQuantities) ad.Eval {
			qu := o.upwind(s, qself, qout)
			f := &hydr.Flow{
				MassRate:  o.massRate(qself.GTotal, qu),
				Density:   qu.Mix.Density,
				Visc:      qu.Mix.Visc,
				Fractions: qu.Mix.Fractions,
				PhaseVisc: qu.Mix.PhaseVisc,
			}
			return seg.Device.PressureDrop(f).Neg()
		})
		return
	}

	// friction
	sign := flowSign(o.Pv[s][well.GTotal])
	if o.Cfg.Friction {
		o.addCoupled(s, out, qs, func(qself, qout *well.SegQuantities) ad.Eval {
			qu := o.upwind(s, qself, qout)
			w := o.massRate(qself.GTotal, qu)
			loss := hydr.FrictionPressureLoss(seg.Length, seg.Diameter, seg.Area, seg.Roughness, qu.Mix.Density, w, qu.Mix.Visc)
			return loss.MulC(-sign)
		})
	}

	// acceleration: velocity head leaving the segment minus the heads entering from inlets
	if o.Cfg.Accel {
		o.addCoupled(s, out, qs, func(qself, qout *well.SegQuantities) ad.Eval {
			qu := o.upwind(s, qself, qout)
			vh := hydr.VelocityHead(seg.Area, o.massRate(qself.GTotal, qu), qu.Mix.Density)
			return vh.MulC(-sign)
		})
		for _, in := range seg.Inlets {
			in := in
			area := math.Max(seg.Area, o.Cfg.Segs[in].Area)
			o.addCoupled(s, in, qs, func(qself, qin *well.SegQuantities) ad.Eval {
				qu := qin
				if o.Upwind(in) != in {
					qu = qself
				}
				vh := hydr.VelocityHead(area, o.massRate(qin.GTotal, qu), qu.Mix.Density)
				return vh.MulC(sign)
			})
		}
	}
}

// addCoupled adds term to the pressure equation of s. The derivatives w.r.t the variables of s
// and of the neighbour nb share the same slots and are therefore computed separately
func (o *Well) addCoupled(s, nb int, qs []*well.SegQuantities, term termFcn) {
	self := term(qs[s], freeze(qs[nb]))
	o.AddPressureEq(s, s, self)
	other := term(freeze(qs[s]), qs[nb])
	other.V = 0
	o.AddPressureEq(s, nb, other)
}

// upwind returns the quantities of the upwind side of the connection between s and its outlet
func (o *Well) upwind(s int, qself, qout *well.SegQuantities) *well.SegQuantities {
	if o.Upwind(s) == s {
		return qself
	}
	return qout
}

// massRate computes the mass rate with total rate gt and the composition of qu
func (o *Well) massRate(gt ad.Eval, qu *well.SegQuantities) (w ad.Eval) {
	fl := o.Ctx.Res.Fluid()
	for _, ph := range o.L.Pu.Phases {
		w = w.Add(qu.FracScaled[ph].MulC(fl.SurfDens(ph)))
	}
	return w.Mul(gt)
}

// flowSign returns +1 if the flow goes towards the outlet (or is zero) and -1 otherwise
func flowSign(gt float64) float64 {
	if gt <= 0 {
		return 1
	}
	return -1
}

// freeze returns a copy of q without derivatives
func freeze(q *well.SegQuantities) (c *well.SegQuantities) {
	c = &well.SegQuantities{Pressure: q.Pressure.Value(), GTotal: q.GTotal.Value()}
	for ph := range q.VolFrac {
		c.VolFrac[ph] = q.VolFrac[ph].Value()
		c.FracScaled[ph] = q.FracScaled[ph].Value()
		c.Cmix[ph] = q.Cmix[ph].Value()
	}
	m := *q.Mix
	m.Density, m.Visc = m.Density.Value(), m.Visc.Value()
	m.Rs, m.Rv, m.VolRatio = m.Rs.Value(), m.Rv.Value(), m.VolRatio.Value()
	for ph := range m.Fractions {
		m.Fractions[ph] = m.Fractions[ph].Value()
		m.PhaseVisc[ph] = m.PhaseVisc[ph].Value()
		m.InvB[ph] = m.InvB[ph].Value()
	}
	c.Mix = &m
	return
}
