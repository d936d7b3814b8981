// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package res

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/relperm"
)

// Tank implements a black-oil reservoir made of cells connected by two-point transmissibilities.
//  Primary variables per cell: [p, sw (if water), x (if oil and gas)] where x is sg, Rs or Rv
//  depending on the hydrocarbon state of the cell.
//  Equations per cell: one mass balance (surface volumes per second) per active component
type Tank struct {

	// input
	Cells  []*inp.CellData // cells
	Conns  []*inp.ConnData // connections
	Pref   float64         // reference pressure of rock compressibility
	Cr     float64         // rock compressibility
	Grav   float64         // gravity
	DsMax  float64         // maximum saturation change per update
	DpMax  float64         // maximum relative pressure change per update
	fluid  *FluidSystem    // fluid
	kr     []relperm.Model // relative permeabilities
	neq    int             // number of equations per cell
	iSw    int             // index of sw in primary variables; -1 if no water
	iX     int             // index of composition variable; -1 if not oil and gas
	ShowSw bool            // show phase switches

	// state
	P    []float64          // pressures
	Comp []*pvt.Composition // saturations and dissolution factors

	// saved state at the beginning of the time step
	p0    []float64         // pressures
	comp0 []pvt.Composition // compositions
	acc0  []float64         // accumulation terms [cell・neq + comp]

	// auxiliary
	q   []*Quantities // quantities with derivatives in slots [0, neq)
	qn  []*Quantities // quantities with derivatives in slots [neq, 2・neq)
	lin *Linearizer   // Jacobian and residual
}

// NewTank allocates a new reservoir from deck data
func NewTank(deck *inp.Deck) (o *Tank, err error) {
	o = new(Tank)
	r := &deck.Reservoir
	o.Cells, o.Conns = r.Cells, r.Conns
	o.Pref, o.Cr = r.Pref, r.RockComp
	o.Grav = deck.Grav
	o.DsMax, o.DpMax = deck.Newton.DsMax, deck.Newton.DpMaxRel
	o.fluid = &FluidSystem{Pvt: deck.Pvt, Pu: deck.Pu}
	o.kr = deck.Kr
	if 2*o.fluid.Pu.Num() > ad.N {
		return nil, chk.Err("tank needs %d derivatives but only %d are available", 2*o.fluid.Pu.Num(), ad.N)
	}

	// primary variables
	o.neq = 1
	o.iSw, o.iX = -1, -1
	if o.fluid.Pu.Has(pvt.Water) {
		o.iSw = o.neq
		o.neq++
	}
	if o.fluid.Pu.OilAndGas() {
		o.iX = o.neq
		o.neq++
	}

	// initial state
	n := len(o.Cells)
	o.P = make([]float64, n)
	o.Comp = make([]*pvt.Composition, n)
	for i, c := range o.Cells {
		if c.Pressure <= 0 {
			return nil, chk.Err("cell %d: initial pressure must be positive", i)
		}
		o.P[i] = c.Pressure
		o.Comp[i] = o.initComposition(c)
	}

	// auxiliary
	o.p0 = make([]float64, n)
	o.comp0 = make([]pvt.Composition, n)
	o.acc0 = make([]float64, n*o.neq)
	o.q = make([]*Quantities, n)
	o.qn = make([]*Quantities, n)
	o.lin = NewLinearizer(n, o.neq)
	for _, c := range o.Conns {
		o.lin.Jac.Block(c.A, c.B)
		o.lin.Jac.Block(c.B, c.A)
	}
	o.Commit()
	return
}

// initComposition computes the hydrocarbon state of a cell from its initial saturations
func (o *Tank) initComposition(c *inp.CellData) (comp *pvt.Composition) {
	pu, mdl := o.fluid.Pu, o.fluid.Pvt
	p := ad.Const(c.Pressure)
	comp = &pvt.Composition{State: pvt.GasAndOil, Sw: c.Sw}
	if !pu.Has(pvt.Water) {
		comp.Sw = 0
	}
	if !pu.Has(pvt.Gas) {
		comp.So = 1 - comp.Sw
		return
	}
	comp.Sg = c.Sg
	comp.So = 1 - comp.Sw - comp.Sg
	if comp.Sg == 0 && mdl.DisGas() && comp.So > 0 {
		comp.State = pvt.OilOnly
		comp.Rs = c.Rs
		if c.Rs < 0 {
			comp.Rs = mdl.SatRs(p).V
		}
		return
	}
	if comp.So <= 0 && mdl.VapOil() && comp.Sg > 0 {
		comp.State = pvt.GasOnly
		comp.So = 0
		comp.Rv = c.Rv
		if c.Rv < 0 {
			comp.Rv = mdl.SatRv(p).V
		}
		return
	}
	if mdl.DisGas() {
		comp.Rs = mdl.SatRs(p).V
	}
	if mdl.VapOil() {
		comp.Rv = mdl.SatRv(p).V
	}
	return
}

// Reservoir interface /////////////////////////////////////////////////////////////////////////////

// NumCells returns the number of cells
func (o *Tank) NumCells() int { return len(o.Cells) }

// NumEq returns the number of equations per cell
func (o *Tank) NumEq() int { return o.neq }

// Phases returns the active phases
func (o *Tank) Phases() *pvt.PhaseUsage { return o.fluid.Pu }

// Fluid returns the fluid system
func (o *Tank) Fluid() *FluidSystem { return o.fluid }

// Depth returns the depth of cell
func (o *Tank) Depth(cell int) float64 { return o.Cells[cell].Depth }

// SatTable returns the saturation table of cell
func (o *Tank) SatTable(cell int) int { return o.Cells[cell].Table }

// RelPerm returns the relative permeability model of table
func (o *Tank) RelPerm(table int) relperm.Model { return o.kr[table] }

// Linearizer returns the Jacobian and residual
func (o *Tank) Linearizer() *Linearizer { return o.lin }

// Quantities returns the quantities of cell at the current iterate
func (o *Tank) Quantities(cell int) *Quantities {
	if o.q[cell] == nil {
		o.q[cell] = o.evalCell(cell, 0)
	}
	return o.q[cell]
}

// Average computes pore volume weighted averages of pressure and dissolution factors
func (o *Tank) Average() (p, rs, rv float64) {
	var sum float64
	for i, c := range o.Comp {
		pv := o.poreVolume(i, ad.Const(o.P[i])).V
		p += pv * o.P[i]
		rs += pv * c.Rs
		rv += pv * c.Rv
		sum += pv
	}
	return p / sum, rs / sum, rv / sum
}

// AverageInvB computes the average inverse formation volume factors
func (o *Tank) AverageInvB() (b [pvt.NumPhases]float64) {
	n := float64(len(o.Cells))
	for i := range o.Cells {
		q := o.Quantities(i)
		for _, ph := range o.fluid.Pu.Phases {
			b[ph] += q.InvB[ph].V / n
		}
	}
	return
}

// quantities //////////////////////////////////////////////////////////////////////////////////////

// poreVolume computes the pore volume including rock compressibility
func (o *Tank) poreVolume(cell int, p ad.Eval) ad.Eval {
	c := o.Cells[cell]
	return p.AddC(-o.Pref).MulC(o.Cr).AddC(1).MulC(c.Volume * c.Poro)
}

// evalCell computes the quantities of cell with derivatives placed at slots off + pv
func (o *Tank) evalCell(cell, off int) (q *Quantities) {
	pu, mdl := o.fluid.Pu, o.fluid.Pvt
	c := o.Comp[cell]
	q = new(Quantities)
	q.Porosity = o.Cells[cell].Poro
	p := ad.Var(o.P[cell], off)
	q.Pressure = p

	// saturations and dissolution factors
	var sw, so, sg ad.Eval
	if o.iSw >= 0 {
		sw = ad.Var(c.Sw, off+o.iSw)
	}
	switch {
	case !pu.Has(pvt.Gas):
		so = ad.Const(1).Sub(sw)
	case c.State == pvt.GasAndOil:
		sg = ad.Var(c.Sg, off+o.iX)
		so = ad.Const(1).Sub(sw).Sub(sg)
		if mdl.DisGas() {
			q.Rs = mdl.SatRs(p)
		}
		if mdl.VapOil() {
			q.Rv = mdl.SatRv(p)
		}
	case c.State == pvt.OilOnly:
		so = ad.Const(1).Sub(sw)
		q.Rs = ad.Var(c.Rs, off+o.iX)
	case c.State == pvt.GasOnly:
		sg = ad.Const(1).Sub(sw)
		q.Rv = ad.Var(c.Rv, off+o.iX)
	default:
		chk.Panic("unknown hydrocarbon state %d", c.State)
	}
	q.Sat = [pvt.NumPhases]ad.Eval{sw, so, sg}

	// fluid properties
	if pu.Has(pvt.Water) {
		q.InvB[pvt.Water] = mdl.WaterInvB(p)
		q.Visc[pvt.Water] = mdl.WaterVisc(p)
		q.Density[pvt.Water] = q.InvB[pvt.Water].MulC(mdl.SurfDens(pvt.Water))
	}
	q.InvB[pvt.Oil] = mdl.OilInvB(p, q.Rs)
	q.Visc[pvt.Oil] = mdl.OilVisc(p, q.Rs)
	q.Density[pvt.Oil] = q.InvB[pvt.Oil].Mul(q.Rs.MulC(o.fluid.SurfDens(pvt.Gas)).AddC(mdl.SurfDens(pvt.Oil)))
	if pu.Has(pvt.Gas) {
		q.InvB[pvt.Gas] = mdl.GasInvB(p, q.Rv)
		q.Visc[pvt.Gas] = mdl.GasVisc(p, q.Rv)
		q.Density[pvt.Gas] = q.InvB[pvt.Gas].Mul(q.Rv.MulC(mdl.SurfDens(pvt.Oil)).AddC(mdl.SurfDens(pvt.Gas)))
	}

	// mobilities
	kr := o.kr[o.Cells[cell].Table].Kr(q.Sat)
	for _, ph := range pu.Phases {
		q.Mob[ph] = kr[ph].Div(q.Visc[ph])
	}
	return
}

// accumulation computes the surface volumes of each component in cell
func (o *Tank) accumulation(cell int, q *Quantities) (acc [pvt.NumPhases]ad.Eval) {
	pv := o.poreVolume(cell, q.Pressure)
	for _, ph := range o.fluid.Pu.Phases {
		acc[ph] = pv.Mul(q.Sat[ph]).Mul(q.InvB[ph])
	}
	if o.fluid.Pu.OilAndGas() {
		freeO, freeG := acc[pvt.Oil], acc[pvt.Gas]
		acc[pvt.Oil] = freeO.Add(freeG.Mul(q.Rv))
		acc[pvt.Gas] = freeG.Add(freeO.Mul(q.Rs))
	}
	return
}

// linearisation ///////////////////////////////////////////////////////////////////////////////////

// Linearize computes the Jacobian and residual of all cells for time step dt
//  R[cell][comp] = (acc - acc0)/dt + Σ outflow
func (o *Tank) Linearize(dt float64) (err error) {
	if dt <= 0 {
		return chk.Err("time step must be positive. dt=%g is invalid", dt)
	}
	o.lin.Zero()
	pu := o.fluid.Pu
	neq := o.neq
	for i := range o.Cells {
		o.q[i] = o.evalCell(i, 0)
		o.qn[i] = o.evalCell(i, neq)
	}

	// accumulation
	for i := range o.Cells {
		acc := o.accumulation(i, o.q[i])
		blk := o.lin.Jac.Block(i, i)
		for k, ph := range pu.Phases {
			r := acc[ph].AddC(-o.acc0[i*neq+k]).MulC(1.0 / dt)
			if !r.IsFinite() {
				return chk.Err("cell %d: non-finite accumulation of component %d", i, k)
			}
			o.lin.Res[i*neq+k] += r.V
			for j := 0; j < neq; j++ {
				blk[k*neq+j] += r.D[j]
			}
		}
	}

	// connections
	for _, c := range o.Conns {
		f := o.flux(c)
		baa, bab := o.lin.Jac.Block(c.A, c.A), o.lin.Jac.Block(c.A, c.B)
		bba, bbb := o.lin.Jac.Block(c.B, c.A), o.lin.Jac.Block(c.B, c.B)
		for k, ph := range pu.Phases {
			o.lin.Res[c.A*neq+k] += f[ph].V
			o.lin.Res[c.B*neq+k] -= f[ph].V
			for j := 0; j < neq; j++ {
				baa[k*neq+j] += f[ph].D[j]
				bab[k*neq+j] += f[ph].D[neq+j]
				bba[k*neq+j] -= f[ph].D[j]
				bbb[k*neq+j] -= f[ph].D[neq+j]
			}
		}
	}
	return
}

// flux computes the component surface rates from cell A to cell B.
// Derivatives w.r.t cell A are in [0,neq) and w.r.t cell B in [neq,2・neq)
func (o *Tank) flux(c *inp.ConnData) (f [pvt.NumPhases]ad.Eval) {
	pu := o.fluid.Pu
	qa, qb := o.q[c.A], o.qn[c.B]
	dz := o.Cells[c.A].Depth - o.Cells[c.B].Depth
	var phase [pvt.NumPhases]ad.Eval
	var up [pvt.NumPhases]*Quantities
	for _, ph := range pu.Phases {
		rho := qa.Density[ph].Add(qb.Density[ph]).MulC(0.5)
		dphi := qa.Pressure.Sub(qb.Pressure).Sub(rho.MulC(o.Grav * dz))
		up[ph] = qa
		if dphi.V < 0 {
			up[ph] = qb
		}
		phase[ph] = up[ph].Mob[ph].Mul(up[ph].InvB[ph]).Mul(dphi).MulC(c.Trans)
	}
	f = phase
	if pu.OilAndGas() {
		f[pvt.Oil] = phase[pvt.Oil].Add(phase[pvt.Gas].Mul(up[pvt.Gas].Rv))
		f[pvt.Gas] = phase[pvt.Gas].Add(phase[pvt.Oil].Mul(up[pvt.Oil].Rs))
	}
	return
}

// state update ////////////////////////////////////////////////////////////////////////////////////

// Update applies the Newton update x := x - dx with chopping of pressures and saturations
// followed by the hydrocarbon state switch
func (o *Tank) Update(dx []float64) {
	neq := o.neq
	for i, c := range o.Comp {

		// pressure
		dp := dx[i*neq]
		dpmax := o.DpMax * math.Abs(o.P[i])
		if math.Abs(dp) > dpmax {
			dp = math.Copysign(dpmax, dp)
		}
		o.P[i] -= dp

		// saturations
		var dsw, dsg float64
		if o.iSw >= 0 {
			dsw = dx[i*neq+o.iSw]
		}
		if o.iX >= 0 && c.State == pvt.GasAndOil {
			dsg = dx[i*neq+o.iX]
		}
		maxds := math.Max(math.Abs(dsw), math.Max(math.Abs(dsg), math.Abs(dsw+dsg)))
		scale := 1.0
		if maxds > o.DsMax {
			scale = o.DsMax / maxds
		}
		c.Sw -= scale * dsw
		if o.iX >= 0 {
			switch c.State {
			case pvt.GasAndOil:
				c.Sg -= scale * dsg
			case pvt.OilOnly:
				c.Rs = math.Max(0, c.Rs-dx[i*neq+o.iX])
			case pvt.GasOnly:
				c.Rv = math.Max(0, c.Rv-dx[i*neq+o.iX])
			}
		}
		o.completeSaturations(c)

		// phase switching
		if o.iX >= 0 {
			old := c.State
			if c.Switch(o.fluid.Pvt, o.P[i]) && o.ShowSw {
				io.Pforan("cell %d: %v => %v\n", i, old, c.State)
			}
			o.clampSaturations(c, o.P[i])
		}
		o.q[i] = nil
	}
}

// completeSaturations computes the dependent saturations
func (o *Tank) completeSaturations(c *pvt.Composition) {
	switch {
	case o.iX < 0:
		c.So = 1 - c.Sw
	case c.State == pvt.GasAndOil:
		c.So = 1 - c.Sw - c.Sg
	case c.State == pvt.OilOnly:
		c.Sg, c.So = 0, 1-c.Sw
	case c.State == pvt.GasOnly:
		c.So, c.Sg = 0, 1-c.Sw
	}
}

// clampSaturations removes negative saturations that survive the state switch and sets the
// saturated dissolution factors of two-phase cells
func (o *Tank) clampSaturations(c *pvt.Composition, p float64) {
	if c.State != pvt.GasAndOil {
		return
	}
	if c.Sg < 0 {
		c.Sg = 0
	}
	if 1-c.Sw-c.Sg < 0 {
		c.Sg = 1 - c.Sw
	}
	c.So = 1 - c.Sw - c.Sg
	mdl := o.fluid.Pvt
	c.Rs, c.Rv = 0, 0
	if mdl.DisGas() {
		c.Rs = mdl.SatRs(ad.Const(p)).V
	}
	if mdl.VapOil() {
		c.Rv = mdl.SatRv(ad.Const(p)).V
	}
}

// Commit stores the current state as the beginning of the next time step
func (o *Tank) Commit() {
	neq := o.neq
	copy(o.p0, o.P)
	for i, c := range o.Comp {
		o.comp0[i] = *c
		q := o.evalCell(i, 0)
		o.q[i] = q
		acc := o.accumulation(i, q)
		for k, ph := range o.fluid.Pu.Phases {
			o.acc0[i*neq+k] = acc[ph].V
		}
	}
}

// Reset restores the state at the beginning of the time step
func (o *Tank) Reset() {
	copy(o.P, o.p0)
	for i := range o.Comp {
		*o.Comp[i] = o.comp0[i]
		o.q[i] = nil
	}
}

// convergence /////////////////////////////////////////////////////////////////////////////////////

// Norms computes the local (CNV) and material balance (MB) errors of each component using the
// residual of the last linearisation
func (o *Tank) Norms(dt float64) (cnv, mb []float64) {
	neq := o.neq
	nc := o.fluid.Pu.Num()
	binv := o.AverageInvB()
	cnv = make([]float64, nc)
	mb = make([]float64, nc)
	sum := make([]float64, nc)
	var pvTotal float64
	for i := range o.Cells {
		pv := o.poreVolume(i, ad.Const(o.P[i])).V
		pvTotal += pv
		for k, ph := range o.fluid.Pu.Phases {
			r := o.lin.Res[i*neq+k] * dt / binv[ph]
			cnv[k] = math.Max(cnv[k], math.Abs(r)/pv)
			sum[k] += r
		}
	}
	for k := range mb {
		mb[k] = math.Abs(sum[k]) / pvTotal
	}
	return
}
