// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package standard implements the standard (single-segment) well model
package standard

import (
	"math"
	"sort"

	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/hydr"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/well"
)

// Well implements a well with one wellbore pressure (BHP) and hydrostatic pressure differences
// between the BHP reference depth and the perforations computed once per time step
type Well struct {
	well.Base
	Cdp []float64 // pressure difference between perforation and reference depth
}

// add model to factory
func init() {
	well.Register("standard", func(cfg *well.Config, ctx *well.Context, st *well.State) (well.Well, error) {
		if len(cfg.Segs) != 1 {
			return nil, &well.LogicError{Well: cfg.Name, Msg: "standard wells have exactly one segment"}
		}
		o := new(Well)
		o.Cdp = make([]float64, len(cfg.Perfs))
		o.FixedVolume = true
		o.ShowMsg = ctx.Param.ShowMsg
		if err := o.InitBase(cfg, ctx, st, o); err != nil {
			return nil, err
		}
		return o, nil
	})
}

// BeginTimeStep computes the connection pressure differences and stores the old state
func (o *Well) BeginTimeStep() (err error) {
	if err = o.ComputeConnectionPressureDelta(); err != nil {
		return
	}
	return o.StoreOld()
}

// AssembleSystem assembles the mass balances and overwrites the pressure row with the control
// equation
func (o *Well) AssembleSystem(dt float64) (err error) {
	qs, err := o.AssembleComponents(dt)
	if err != nil {
		return
	}
	eq, err := o.ControlEquation(qs[0])
	if err != nil {
		return
	}
	o.AddPressureEq(0, 0, eq)
	return
}

// PerfPressure returns the wellbore pressure at perforation perf
func (o *Well) PerfPressure(perf int, q *well.SegQuantities) ad.Eval {
	return q.Pressure.AddC(o.Cdp[perf])
}

// PerfPressureAtBhp returns the wellbore pressure at perforation perf for a given BHP
func (o *Well) PerfPressureAtBhp(perf int, bhp float64) float64 {
	return bhp + o.Cdp[perf]
}

// MaxPressureChange returns the largest BHP change of one update
func (o *Well) MaxPressureChange(p, relax float64) float64 {
	return math.Abs(p) * o.Ctx.Param.DbhpMaxRel
}

// PotentialsWithThp computes the potentials with the fixed point iterations
func (o *Well) PotentialsWithThp(ctrl *well.Control) ([pvt.NumPhases]float64, error) {
	return o.PotentialsWithThpFixedPoint(ctrl)
}

// ComputeConnectionPressureDelta computes the wellbore densities at the perforations from the rates
// of the deeper perforations and integrates the hydrostatic pressure from the reference depth
func (o *Well) ComputeConnectionPressureDelta() (err error) {
	np := len(o.Cfg.Perfs)
	if np == 0 {
		return
	}
	fl := o.Ctx.Res.Fluid()
	pu := fl.Pu

	// perforations ordered by depth
	order := make([]int, np)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return o.Cfg.Perfs[order[a]].Depth < o.Cfg.Perfs[order[b]].Depth
	})

	// wellbore composition
	var wmix [pvt.NumPhases]ad.Eval
	f := o.L.SurfaceFractions(o.L.ScaledFractions(o.L.VolumeFractions(o.Pv[0], 0)))
	for ph := range f {
		wmix[ph] = f[ph].Value()
	}

	// densities; flow at a perforation comes from the deeper perforations
	rho := make([]float64, np)
	var acc [pvt.NumPhases]float64
	for i := np - 1; i >= 0; i-- {
		p := order[i]
		for _, ph := range pu.Phases {
			acc[ph] += math.Abs(o.St.PerfRates[p][ph])
		}
		var tot float64
		for _, ph := range pu.Phases {
			tot += acc[ph]
		}
		mix := wmix
		if tot > 0 {
			for _, ph := range pu.Phases {
				mix[ph] = ad.Const(acc[ph] / tot)
			}
		}
		m, e := hydr.ComputeMixture(fl.Pvt, pu, ad.Const(o.St.PerfPress[p]), mix)
		if e != nil {
			return &well.NumericalError{Well: o.Cfg.Name, Msg: e.Error()}
		}
		rho[p] = m.Density.V
	}

	// hydrostatics from the reference depth
	g := o.Ctx.Grav
	prev, dp := o.Cfg.RefDepth, 0.0
	for _, p := range order {
		dp += rho[p] * g * (o.Cfg.Perfs[p].Depth - prev)
		prev = o.Cfg.Perfs[p].Depth
		o.Cdp[p] = dp
	}
	o.RefDensity = rho[order[0]]
	return
}
