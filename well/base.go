// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/hydr"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/res"
)

// StdWellVolume is the wellbore volume used in the accumulation term of standard wells [m³]
const StdWellVolume = 0.002831684659200

// Model defines the parts of the assembly that differ between well models
type Model interface {
	AssembleSystem(dt float64) error                                 // assembles D, B, C and rw
	PerfPressure(perf int, q *SegQuantities) ad.Eval                 // wellbore pressure at perforation
	PerfPressureAtBhp(perf int, bhp float64) float64                 // wellbore pressure at perforation for a given BHP
	MaxPressureChange(p, relax float64) float64                      // limit of pressure updates
	PotentialsWithThp(ctrl *Control) ([pvt.NumPhases]float64, error) // potentials with THP limit
}

// SegQuantities holds the quantities of one segment with derivatives w.r.t its own unknowns
// (slots NumEq(reservoir) + variable)
type SegQuantities struct {
	Pressure   ad.Eval                // segment pressure
	GTotal     ad.Eval                // total rate
	VolFrac    [pvt.NumPhases]ad.Eval // volume fractions
	FracScaled [pvt.NumPhases]ad.Eval // scaled fractions
	Cmix       [pvt.NumPhases]ad.Eval // surface volume composition
	Mix        *hydr.Mixture          // fluid at reservoir conditions
}

// Base holds the data and algorithms shared by all well models
type Base struct {

	// collaborators
	Cfg  *Config    // configuration
	Ctx  *Context   // shared context
	St   *State     // well state
	L    *Layout    // primary variables layout
	Eqs  *Equations // linear system
	impl Model      // well model

	// primary variables
	Pv  [][]float64 // [seg][var]
	pv0 [][]float64 // at the beginning of the time step
	st0 *State      // state at the beginning of the time step

	// explicit quantities
	FixedVolume  bool                     // accumulation uses the segment volume instead of surface volumes
	RefDensity   float64                  // density for the hydrostatic correction of lift curves
	CellPerfDiff []float64                // pressure difference between cell centre and perforation
	acc0         [][pvt.NumPhases]float64 // component amounts at the beginning of the time step

	// results of last assembly
	cq      [][pvt.NumPhases]ad.Eval // effective perforation rates
	pwell   []float64                // wellbore pressures at perforations
	Control *Control                 // control used in last assembly
	ShowMsg bool                     // show messages
}

// InitBase initialises the shared data
func (o *Base) InitBase(cfg *Config, ctx *Context, st *State, impl Model) (err error) {
	if ctx.Res.NumEq()+len(ctx.Res.Phases().Phases)+1 > ad.N {
		return logicErr(cfg.Name, "too many unknowns: %d derivatives are available", ad.N)
	}
	o.Cfg, o.Ctx, o.St, o.impl = cfg, ctx, st, impl
	o.L = NewLayout(ctx.Res.Phases())
	o.Eqs = NewEquations(cfg, o.L.NumEq, ctx.Res.NumEq())
	nseg, np := len(cfg.Segs), len(cfg.Perfs)
	o.Pv = make([][]float64, nseg)
	o.pv0 = make([][]float64, nseg)
	for s := range o.Pv {
		o.Pv[s] = make([]float64, o.L.NumEq)
		o.pv0[s] = make([]float64, o.L.NumEq)
	}
	o.acc0 = make([][pvt.NumPhases]float64, nseg)
	o.CellPerfDiff = make([]float64, np)
	o.cq = make([][pvt.NumPhases]ad.Eval, np)
	o.pwell = make([]float64, np)
	if st.Current < 0 || st.Current >= len(cfg.Controls) {
		return logicErr(cfg.Name, "current control %d is out of range", st.Current)
	}
	o.InitPrimaryVariables()
	return
}

// Name returns the name of well
func (o *Base) Name() string { return o.Cfg.Name }

// Config returns the configuration
func (o *Base) Config() *Config { return o.Cfg }

// State returns the well state
func (o *Base) State() *State { return o.St }

// Cells returns the perforated cells
func (o *Base) Cells() []int { return o.Cfg.Cells() }

// primary variables ///////////////////////////////////////////////////////////////////////////////

// InitPrimaryVariables sets the primary variables from the well state
func (o *Base) InitPrimaryVariables() {
	for s, pv := range o.Pv {
		o.L.InitFromRates(pv, o.St.SegRates[s], o.Cfg.Producer, o.Cfg.InjPhase)
		pv[o.L.Press] = o.St.SegPress[s]
	}
}

// UpdatePrimaryVariables applies the Newton update dx (well sized) with relaxation factor relax
func (o *Base) UpdatePrimaryVariables(dx []float64, relax float64) {
	nw := o.L.NumEq
	dFLimit := o.Ctx.Param.DwellFractionMax
	for s, pv := range o.Pv {
		dpMax := o.impl.MaxPressureChange(pv[o.L.Press], relax)
		o.L.UpdateNewton(pv, dx[s*nw:(s+1)*nw], dFLimit, dpMax, relax)
	}

	// rate at the top must have the sign of the well type
	top := o.Pv[0]
	switch {
	case o.Cfg.Status == Stop:
		top[GTotal] = 0
	case o.Cfg.Producer:
		top[GTotal] = math.Min(top[GTotal], 0)
	default:
		top[GTotal] = math.Max(top[GTotal], 0)
	}
}

// UpdateState copies the primary variables and the last perforation results to the well state
func (o *Base) UpdateState() {
	st := o.St
	for s, pv := range o.Pv {
		st.SegPress[s] = pv[o.L.Press]
		st.SegRates[s] = o.L.Rates(pv)
	}
	st.Bhp = st.SegPress[0]
	st.Rates = st.SegRates[0]
	for p := range o.Cfg.Perfs {
		for ph := 0; ph < pvt.NumPhases; ph++ {
			st.PerfRates[p][ph] = o.cq[p][ph].V
		}
		st.PerfPress[p] = o.pwell[p]
	}
	st.Thp = o.ThpFromState()
}

// segment quantities //////////////////////////////////////////////////////////////////////////////

// EvalSegment computes the quantities of segment s
func (o *Base) EvalSegment(s int) (q *SegQuantities, err error) {
	nr := o.Ctx.Res.NumEq()
	pv := o.Pv[s]
	q = new(SegQuantities)
	q.Pressure = ad.Var(pv[o.L.Press], nr+o.L.Press)
	q.GTotal = ad.Var(pv[GTotal], nr+GTotal)
	q.VolFrac = o.L.VolumeFractions(pv, nr)
	q.FracScaled = o.L.ScaledFractions(q.VolFrac)
	q.Cmix = o.L.SurfaceFractions(q.FracScaled)
	fl := o.Ctx.Res.Fluid()
	q.Mix, err = hydr.ComputeMixture(fl.Pvt, fl.Pu, q.Pressure, q.Cmix)
	if err != nil {
		return nil, numErr(o.Cfg.Name, "segment %d: %v", s, err)
	}
	return
}

// EvalSegments computes the quantities of all segments
func (o *Base) EvalSegments() (qs []*SegQuantities, err error) {
	qs = make([]*SegQuantities, len(o.Pv))
	for s := range qs {
		if qs[s], err = o.EvalSegment(s); err != nil {
			return
		}
	}
	return
}

// Upwind returns the segment whose composition is transported out of segment s
func (o *Base) Upwind(s int) int {
	if s == 0 || o.Pv[s][GTotal] <= 0 {
		return s
	}
	return o.Cfg.Segs[s].Outlet
}

// UpwindFractions returns the scaled fractions of the upwind segment of s and the index of that
// segment. The derivatives refer to the unknowns of the upwind segment
func (o *Base) UpwindFractions(s int, qs []*SegQuantities) (fs [pvt.NumPhases]ad.Eval, up int) {
	up = o.Upwind(s)
	return qs[up].FracScaled, up
}

// amount returns the component surface volumes in segment s
func (o *Base) amount(s int, q *SegQuantities) (a [pvt.NumPhases]ad.Eval) {
	vol := o.Cfg.Segs[s].Volume
	if vol <= 0 {
		vol = StdWellVolume
	}
	for _, ph := range o.L.Pu.Phases {
		if o.FixedVolume {
			a[ph] = q.Cmix[ph].MulC(vol)
		} else {
			a[ph] = q.Cmix[ph].MulC(vol).Div(q.Mix.VolRatio)
		}
	}
	return
}

// time step ///////////////////////////////////////////////////////////////////////////////////////

// StoreOld saves the primary variables, the state and the component amounts at the beginning
// of a time step
func (o *Base) StoreOld() (err error) {
	for s, pv := range o.Pv {
		copy(o.pv0[s], pv)
		q, e := o.EvalSegment(s)
		if e != nil {
			return e
		}
		a := o.amount(s, q)
		for ph := range a {
			o.acc0[s][ph] = a[ph].V
		}
	}
	o.st0 = o.St.Clone()
	return
}

// ResetStep restores the primary variables and the state saved at the beginning of the step
func (o *Base) ResetStep() {
	if o.st0 == nil {
		return
	}
	for s := range o.Pv {
		copy(o.Pv[s], o.pv0[s])
	}
	o.St.CopyFrom(o.st0)
}

// ComputeCellPerfDiffs computes the hydrostatic pressure difference between cell centres and
// perforations from saturation-weighted cell densities
func (o *Base) ComputeCellPerfDiffs() {
	r := o.Ctx.Res
	for p, perf := range o.Cfg.Perfs {
		q := r.Quantities(perf.Cell)
		var rho float64
		for _, ph := range r.Phases().Phases {
			rho += q.Sat[ph].V * q.Density[ph].V
		}
		o.CellPerfDiff[p] = rho * o.Ctx.Grav * (perf.Depth - r.Depth(perf.Cell))
	}
}

// assembly ////////////////////////////////////////////////////////////////////////////////////////

// addEq adds e to the residual of equation k of segment s; the well derivatives go to D(s,col)
func (o *Base) addEq(s, col, k int, e ad.Eval) {
	o.Eqs.Res[s*o.Eqs.Nw+k] += e.V
	o.addDerivs(s, col, k, e)
}

// addDerivs adds the well derivatives of e to row k of D(s,col) leaving the residual unchanged
func (o *Base) addDerivs(s, col, k int, e ad.Eval) {
	nr, nw := o.Eqs.Nr, o.Eqs.Nw
	blk := o.Eqs.D.Block(s, col)
	for j := 0; j < nw; j++ {
		blk[k*nw+j] += e.D[nr+j]
	}
}

// addFlux adds g・f to equation k of segment s, where g depends on the unknowns of segment cg
// and f on those of segment cf
func (o *Base) addFlux(s, k int, g ad.Eval, cg int, f ad.Eval, cf int) {
	if cg == cf {
		o.addEq(s, cg, k, g.Mul(f))
		return
	}
	o.addEq(s, cg, k, g.MulC(f.V))
	o.addDerivs(s, cf, k, f.MulC(g.V))
}

// AddPressureEq adds e to the pressure equation of segment s; derivatives go to D(s,col)
func (o *Base) AddPressureEq(s, col int, e ad.Eval) {
	o.addEq(s, col, o.L.Press, e)
}

// AssembleComponents assembles the mass balance equations of all segments and the
// perforation blocks. Returns the segment quantities for the pressure equations
func (o *Base) AssembleComponents(dt float64) (qs []*SegQuantities, err error) {
	o.Eqs.Zero()
	if qs, err = o.EvalSegments(); err != nil {
		return
	}
	pu := o.L.Pu
	for s, seg := range o.Cfg.Segs {
		q := qs[s]

		// accumulation
		a := o.amount(s, q)
		for k, ph := range pu.Phases {
			o.addEq(s, s, k, a[ph].AddC(-o.acc0[s][ph]).MulC(1.0/dt))
		}

		// outflow
		fs, up := o.UpwindFractions(s, qs)
		for k, ph := range pu.Phases {
			o.addFlux(s, k, q.GTotal.Neg(), s, fs[ph], up)
		}

		// inflow from inlets
		for _, in := range seg.Inlets {
			fin, upin := o.UpwindFractions(in, qs)
			for k, ph := range pu.Phases {
				o.addFlux(s, k, qs[in].GTotal, in, fin[ph], upin)
			}
		}

		// perforations
		for _, p := range seg.Perfs {
			if err = o.assemblePerf(p, s, q); err != nil {
				return
			}
		}
	}
	return
}

// assemblePerf computes the rates of perforation p in segment s and fills B, C and D
func (o *Base) assemblePerf(p, s int, q *SegQuantities) (err error) {
	r := o.Ctx.Res
	perf := o.Cfg.Perfs[p]
	in := perfInput(r, perf)
	in.PCell = in.PCell.AddC(o.CellPerfDiff[p])
	in.PWell = o.impl.PerfPressure(p, q)
	in.Cmix = q.Cmix
	in.Producer = o.Cfg.Producer
	in.AllowCF = o.Cfg.AllowCF
	out, err := ComputePerfRate(o.L.Pu, in)
	if err != nil {
		return withWell(err, o.Cfg.Name)
	}
	o.pwell[p] = in.PWell.V
	nr, nw := o.Eqs.Nr, o.Eqs.Nw
	B, C := o.Eqs.B[p], o.Eqs.C[p]
	for k, ph := range o.L.Pu.Phases {
		cq := out.Cq[ph].MulC(o.Cfg.Efficiency)
		if !cq.IsFinite() {
			return numErr(o.Cfg.Name, "perforation %d: rate of phase %s is not finite", p, pvt.PhaseNames[ph])
		}
		o.cq[p][ph] = cq
		o.addEq(s, s, k, cq)
		for e := 0; e < nr; e++ {
			B[k*nr+e] += cq.D[e]
		}
		for w := 0; w < nw; w++ {
			C[w*nr+k] -= cq.D[nr+w]
		}
	}
	if o.Cfg.Producer {
		o.St.DisGas += out.DisGas
		o.St.VapOil += out.VapOil
	}
	return
}

// Assemble assembles the well system and factorises D
func (o *Base) Assemble(dt float64) (err error) {
	o.mustHaveImpl()
	o.St.DisGas, o.St.VapOil = 0, 0
	if err = o.impl.AssembleSystem(dt); err != nil {
		return
	}
	if err = o.checkFinite(); err != nil {
		return
	}
	if err = o.Eqs.Invert(); err != nil {
		return withWell(err, o.Cfg.Name)
	}
	return
}

// Scatter subtracts the perforation rates from the reservoir equations
func (o *Base) Scatter(lin *res.Linearizer) {
	nr := o.Eqs.Nr
	for p, perf := range o.Cfg.Perfs {
		c := perf.Cell
		blk := lin.Jac.Block(c, c)
		for k, ph := range o.L.Pu.Phases {
			cq := o.cq[p][ph]
			lin.Res[c*nr+k] -= cq.V
			for e := 0; e < nr; e++ {
				blk[k*nr+e] -= cq.D[e]
			}
		}
	}
}

// Schur complement ////////////////////////////////////////////////////////////////////////////////

// Apply computes y -= Cᵀ・D⁻¹・B・x
func (o *Base) Apply(x, y []float64) { o.Eqs.Apply(x, y) }

// ApplyRes computes r -= Cᵀ・D⁻¹・rw
func (o *Base) ApplyRes(r []float64) { o.Eqs.ApplyRes(r) }

// AddWellContributions adds -Cᵀ・D⁻¹・B to the reservoir matrix
func (o *Base) AddWellContributions(jac *res.BlockMatrix) { o.Eqs.AddContributions(jac) }

// RecoverAndUpdate recovers the well increment from the reservoir increment x and updates the
// primary variables and the well state
func (o *Base) RecoverAndUpdate(x []float64) (err error) {
	xw := o.Eqs.Recover(x)
	for i, v := range xw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return numErr(o.Cfg.Name, "well increment %d is not finite", i)
		}
	}
	o.UpdatePrimaryVariables(xw, 1)
	o.UpdateState()
	return
}

// potentials //////////////////////////////////////////////////////////////////////////////////////

// RatesWithBhp computes the well surface rates with the given BHP keeping the wellbore
// composition and the reservoir frozen
func (o *Base) RatesWithBhp(bhp float64) (rates [pvt.NumPhases]float64, err error) {
	r := o.Ctx.Res
	for p, perf := range o.Cfg.Perfs {
		in := perfInput(r, perf)
		in.PCell = ad.Const(in.PCell.V + o.CellPerfDiff[p])
		in.PWell = ad.Const(o.impl.PerfPressureAtBhp(p, bhp))
		for ph := range in.Mob {
			in.Mob[ph] = in.Mob[ph].Value()
			in.InvB[ph] = in.InvB[ph].Value()
		}
		in.Rs, in.Rv = in.Rs.Value(), in.Rv.Value()
		f := o.L.SurfaceFractions(o.L.ScaledFractions(o.L.VolumeFractions(o.Pv[o.Cfg.Perfs[p].Seg], 0)))
		for ph := range f {
			in.Cmix[ph] = f[ph].Value()
		}
		in.Producer = o.Cfg.Producer
		in.AllowCF = o.Cfg.AllowCF
		out, e := ComputePerfRate(o.L.Pu, in)
		if e != nil {
			return rates, withWell(e, o.Cfg.Name)
		}
		for _, ph := range o.L.Pu.Phases {
			rates[ph] += out.Cq[ph].V * o.Cfg.Efficiency
		}
	}
	return
}

// group ///////////////////////////////////////////////////////////////////////////////////////////

// Member returns the data of this well needed by the group controller
func (o *Base) Member() (*Member, error) {
	coef, err := ResvCoefficients(o.Ctx.Res)
	if err != nil {
		return nil, withWell(err, o.Cfg.Name)
	}
	var resv float64
	for ph, q := range o.St.Rates {
		resv += coef[ph] * q
	}
	return &Member{
		Group:      o.Cfg.Group,
		Producer:   o.Cfg.Producer,
		InjPhase:   o.Cfg.InjPhase,
		UnderGrup:  o.Cfg.Controls[o.St.Current].Mode == Grup,
		Efficiency: o.Cfg.Efficiency,
		GuideRate:  o.Cfg.GuideRate,
		Potentials: o.St.Potentials,
		Rates:      o.St.Rates,
		Resv:       resv,
	}, nil
}

// messages ////////////////////////////////////////////////////////////////////////////////////////

// Warning prints a named warning
func (o *Base) Warning(tag, msg string, prm ...interface{}) {
	if o.ShowMsg || io.Verbose {
		io.PfYel("%s: well %q: %s\n", tag, o.Cfg.Name, io.Sf(msg, prm...))
	}
}

// checkFinite returns a numerical error if any residual is not finite
func (o *Base) checkFinite() (err error) {
	for i, v := range o.Eqs.Res {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return numErr(o.Cfg.Name, "residual of equation %d is not finite", i)
		}
	}
	return
}

// mustHaveImpl panics if the model hooks are not set
func (o *Base) mustHaveImpl() {
	if o.impl == nil {
		chk.Panic("well %q: base is not initialised", o.Cfg.Name)
	}
}
