// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msw implements the multi-segment well model
package msw

import (
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/well"
)

// Well implements a well discretised into a tree of segments. Each segment has its own total
// rate, fractions and pressure. The pressure equation of the top segment is the control
// equation; the others link a segment to its outlet by hydrostatic, frictional and
// accelerational pressure drops or by the pressure drop of a flow control device
type Well struct {
	well.Base
	Rho []float64 // segment mixture densities of the last evaluation
}

// add model to factory
func init() {
	well.Register("msw", func(cfg *well.Config, ctx *well.Context, st *well.State) (well.Well, error) {
		if len(cfg.Segs) == 0 {
			return nil, &well.LogicError{Well: cfg.Name, Msg: "multi-segment wells need at least one segment"}
		}
		o := new(Well)
		o.Rho = make([]float64, len(cfg.Segs))
		o.ShowMsg = ctx.Param.ShowMsg
		if err := o.InitBase(cfg, ctx, st, o); err != nil {
			return nil, err
		}
		return o, nil
	})
}

// BeginTimeStep computes the pressure differences between cells and perforations and stores
// the old state
func (o *Well) BeginTimeStep() (err error) {
	o.ComputeCellPerfDiffs()
	qs, err := o.EvalSegments()
	if err != nil {
		return
	}
	o.setDensities(qs)
	o.RefDensity = o.Rho[0]
	return o.StoreOld()
}

// AssembleSystem assembles the mass balances, the control equation and the pressure equations
func (o *Well) AssembleSystem(dt float64) (err error) {
	qs, err := o.AssembleComponents(dt)
	if err != nil {
		return
	}
	o.setDensities(qs)
	eq, err := o.ControlEquation(qs[0])
	if err != nil {
		return
	}
	o.AddPressureEq(0, 0, eq)
	for s := 1; s < len(qs); s++ {
		o.assemblePressureEq(s, qs)
	}
	return
}

// PerfPressure returns the wellbore pressure at perforation perf from the pressure and density
// of its segment
func (o *Well) PerfPressure(perf int, q *well.SegQuantities) ad.Eval {
	p := o.Cfg.Perfs[perf]
	dz := p.Depth - o.Cfg.Segs[p.Seg].Depth
	return q.Pressure.Add(q.Mix.Density.MulC(o.Ctx.Grav * dz))
}

// PerfPressureAtBhp returns the wellbore pressure at perforation perf when the top segment
// pressure is bhp and the pressure differences between segments are kept
func (o *Well) PerfPressureAtBhp(perf int, bhp float64) float64 {
	p := o.Cfg.Perfs[perf]
	ip := o.L.Press
	dz := p.Depth - o.Cfg.Segs[p.Seg].Depth
	return bhp + o.Pv[p.Seg][ip] - o.Pv[0][ip] + o.Rho[p.Seg]*o.Ctx.Grav*dz
}

// MaxPressureChange returns the largest segment pressure change of one update
func (o *Well) MaxPressureChange(p, relax float64) float64 {
	return o.Ctx.Param.MaxPressureChangeMsWells * relax
}

// PotentialsWithThp computes the potentials at the BHP found by the robust THP solvers
func (o *Well) PotentialsWithThp(ctrl *well.Control) (rates [pvt.NumPhases]float64, err error) {
	bhp, err := o.BhpAtThpLimit(ctrl)
	if err != nil {
		return
	}
	return o.RatesWithBhp(bhp)
}

// setDensities stores the segment densities
func (o *Well) setDensities(qs []*well.SegQuantities) {
	for s, q := range qs {
		o.Rho[s] = q.Mix.Density.V
	}
}
