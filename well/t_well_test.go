// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/relperm"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
	"github.com/totto82/opm-autodiff-sub000/res"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// fixedRes is a reservoir with constant cell quantities; only the pressure carries a derivative
type fixedRes struct {
	fluid *res.FluidSystem
	q     []*res.Quantities
	depth []float64
	lin   *res.Linearizer
	rs    float64 // average dissolved gas-oil ratio
	rv    float64 // average vaporised oil-gas ratio
}

func newFixedRes(tst *testing.T, pressures ...float64) *fixedRes {
	pu, err := pvt.NewPhaseUsage(true, true, true)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil
	}
	mdl, err := pvt.New("blackoil")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil
	}
	if err = mdl.Init(nil); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil
	}
	o := &fixedRes{fluid: &res.FluidSystem{Pvt: mdl, Pu: pu}}
	for _, p := range pressures {
		q := &res.Quantities{Pressure: ad.Var(p, 0), Porosity: 0.2}
		q.Sat = [pvt.NumPhases]ad.Eval{ad.Const(0.2), ad.Const(0.5), ad.Const(0.3)}
		q.InvB = [pvt.NumPhases]ad.Eval{ad.Const(1), ad.Const(0.9), ad.Const(100)}
		q.Visc = [pvt.NumPhases]ad.Eval{ad.Const(5e-4), ad.Const(2e-3), ad.Const(2e-5)}
		q.Mob = [pvt.NumPhases]ad.Eval{ad.Const(200), ad.Const(300), ad.Const(5000)}
		q.Density = [pvt.NumPhases]ad.Eval{ad.Const(1000), ad.Const(720), ad.Const(90)}
		o.q = append(o.q, q)
		o.depth = append(o.depth, 1000)
	}
	o.lin = res.NewLinearizer(len(pressures), pu.Num())
	return o
}

func (o *fixedRes) NumCells() int { return len(o.q) }
func (o *fixedRes) NumEq() int { return o.fluid.Pu.Num() }
func (o *fixedRes) Phases() *pvt.PhaseUsage { return o.fluid.Pu }
func (o *fixedRes) Fluid() *res.FluidSystem { return o.fluid }
func (o *fixedRes) Quantities(cell int) *res.Quantities { return o.q[cell] }
func (o *fixedRes) Depth(cell int) float64 { return o.depth[cell] }
func (o *fixedRes) SatTable(cell int) int { return 0 }
func (o *fixedRes) RelPerm(table int) relperm.Model { return nil }
func (o *fixedRes) Linearizer() *res.Linearizer { return o.lin }
func (o *fixedRes) Average() (p, rs, rv float64) { return o.q[0].Pressure.V, o.rs, o.rv }
func (o *fixedRes) AverageInvB() (b [pvt.NumPhases]float64) {
	for ph := range b {
		b[ph] = o.q[0].InvB[ph].V
	}
	return
}

// testWell is a single segment well with the BHP acting at all perforations
type testWell struct {
	Base
}

func (o *testWell) AssembleSystem(dt float64) (err error) {
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

func (o *testWell) PerfPressure(perf int, q *SegQuantities) ad.Eval { return q.Pressure }
func (o *testWell) PerfPressureAtBhp(perf int, bhp float64) float64 { return bhp }
func (o *testWell) MaxPressureChange(p, relax float64) float64 { return math.Abs(p) }
func (o *testWell) PotentialsWithThp(ctrl *Control) ([pvt.NumPhases]float64, error) {
	return o.PotentialsWithThpFixedPoint(ctrl)
}

// prodConfig returns a producer with one perforation in cell 0 and BHP and ORAT controls
func prodConfig() *Config {
	return &Config{
		Name:       "P1",
		Producer:   true,
		InjPhase:   -1,
		RefDepth:   1000,
		Efficiency: 1,
		AllowCF:    true,
		Perfs:      []*Perf{{Cell: 0, WI: 1e-12, Depth: 1000, Table: -1}},
		Segs:       []*Segment{{Number: 1, Outlet: -1, Depth: 1000, Perfs: []int{0}}},
		Controls: []*Control{
			{Key: "BHP", Mode: BHP, Target: 200e5},
			{Key: "ORAT", Mode: SurfaceRate, Target: -0.01, Distr: [pvt.NumPhases]float64{0, 1, 0}},
		},
	}
}

func newTestWell(tst *testing.T, r res.Reservoir, cfg *Config, bhp float64, current int) *testWell {
	param := new(inp.SolverData)
	param.SetDefault()
	param.PostProcess()
	ctx := &Context{Res: r, Vfp: vfp.NewProps(), Param: param, Grav: 9.80665}
	o := new(testWell)
	o.FixedVolume = true
	if err := o.InitBase(cfg, ctx, NewState(cfg, bhp, current), o); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil
	}
	return o
}

func Test_perf01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("perf01")

	pu, _ := pvt.NewPhaseUsage(true, true, true)
	c := ad.Const
	in := &PerfInput{
		Mob:      [pvt.NumPhases]ad.Eval{c(200), c(300), c(5000)},
		InvB:     [pvt.NumPhases]ad.Eval{c(1), c(0.9), c(80)},
		Rs:       c(50),
		Rv:       c(1e-4),
		WI:       1e-12,
		Cmix:     [pvt.NumPhases]ad.Eval{c(0.2), c(0.3), c(0.5)},
		Producer: true,
		AllowCF:  true,
	}
	totmob := 5500.0
	for _, pwell := range []float64{190e5, 210e5} {
		in.PCell, in.PWell = ad.Var(200e5, 0), ad.Var(pwell, 1)
		out, err := ComputePerfRate(pu, in)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		q, err := ReservoirVolumeRate(pu, out.Cq, in.InvB, in.Rs, in.Rv)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		io.Pforan("pwell = %g  cq = %v  qres = %g\n", pwell, out.Cq[pvt.Oil].V, q.V)
		chk.Float64(tst, "reservoir volume rate", 1e-15, q.V, -in.WI*totmob*(200e5-pwell))
		chk.Float64(tst, "∂q/∂pcell", 1e-20, q.D[0], -in.WI*totmob)
		chk.Float64(tst, "∂q/∂pwell", 1e-20, q.D[1], in.WI*totmob)
		if pwell < 200e5 {
			chk.Float64(tst, "disgas", 1e-15, out.DisGas, 50*(-in.WI*300*10e5*0.9))
		}
	}

	// no crossflow
	in.AllowCF = false
	in.PCell, in.PWell = ad.Const(200e5), ad.Const(210e5)
	out, err := ComputePerfRate(pu, in)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Array(tst, "producer without crossflow", 1e-20, []float64{out.Cq[0].V, out.Cq[1].V, out.Cq[2].V}, []float64{0, 0, 0})

	// full miscibility
	in.AllowCF = true
	in.Rs, in.Rv = c(4), c(0.25)
	_, err = ComputePerfRate(pu, in)
	if !IsNumerical(err) {
		tst.Errorf("test failed: 1 - Rs・Rv = 0 must be a numerical error. err = %v\n", err)
	}
}

func Test_layout01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("layout01")

	pu, _ := pvt.NewPhaseUsage(true, true, true)
	L := NewLayout(pu)
	if L.NumEq != 4 || L.WFrac != 1 || L.GFrac != 2 || L.Press != 3 {
		tst.Errorf("test failed: layout is incorrect: %+v\n", L)
		return
	}

	// fractions stay in the simplex
	rng := rand.New(rand.NewSource(1234))
	pv := make([]float64, L.NumEq)
	for i := 0; i < 1000; i++ {
		pv[L.WFrac] = uniform(rng, -1, 2)
		pv[L.GFrac] = uniform(rng, -1, 2)
		L.ProcessFractions(pv)
		wf, gf := pv[L.WFrac], pv[L.GFrac]
		if wf < 0 || gf < 0 || wf+gf > 1+1e-14 {
			tst.Errorf("test failed: fractions are outside the simplex: wf=%g gf=%g\n", wf, gf)
			return
		}
	}

	// rates round trip
	rates := [pvt.NumPhases]float64{-0.002, -0.005, -0.3}
	L.InitFromRates(pv, rates, true, -1)
	chk.Float64(tst, "GTotal", 1e-17, pv[GTotal], -0.01)
	r := L.Rates(pv)
	chk.Array(tst, "rates", 1e-15, r[:], rates[:])

	// zero rates
	L.InitFromRates(pv, [pvt.NumPhases]float64{}, false, pvt.Gas)
	chk.Array(tst, "injector fractions", 1e-17, pv[:3], []float64{0, 0, 1})
}

func Test_layout02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("layout02")

	pu, _ := pvt.NewPhaseUsage(true, true, true)
	L := NewLayout(pu)

	// fractions are chopped with a common factor
	pv := []float64{-0.01, 0.3, 0.2, 100e5}
	dx := []float64{0, 0.4, -0.2, 0}
	L.UpdateNewton(pv, dx, 0.2, 1e5, 1)
	chk.Array(tst, "chopped fractions", 1e-15, pv[1:3], []float64{0.1, 0.3})

	// rate relaxation and pressure limit
	pv = []float64{-0.01, 0.3, 0.2, 100e5}
	dx = []float64{-0.02, 0, 0, 5e5}
	L.UpdateNewton(pv, dx, 0.2, 1e5, 1)
	chk.Float64(tst, "relaxed rate", 1e-17, pv[GTotal], -0.002)
	chk.Float64(tst, "limited pressure", 1e-8, pv[L.Press], 99e5)

	// minimum pressure
	pv = []float64{-0.01, 0.3, 0.2, 1.5e5}
	dx = []float64{0, 0, 0, 1e5}
	L.UpdateNewton(pv, dx, 0.2, 1e6, 1)
	chk.Float64(tst, "minimum pressure", 1e-8, pv[L.Press], MinPressure)
}

func Test_layout03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("layout03")

	pu, _ := pvt.NewPhaseUsage(true, true, false)
	L := NewLayout(pu)

	// injector without rates
	pv := make([]float64, L.NumEq)
	L.InitFromRates(pv, [pvt.NumPhases]float64{}, false, pvt.Water)
	chk.Array(tst, "pv", 1e-17, pv[:L.Press], []float64{0, 1})
	for _, ph := range []int{-1, pvt.Gas} {
		if !panics(func() { L.InitFromRates(pv, [pvt.NumPhases]float64{}, false, ph) }) {
			tst.Errorf("test failed: injection phase %d must be rejected\n", ph)
			return
		}
	}

	// perforation with a saturation table the reservoir does not provide
	r := newFixedRes(tst, 250e5)
	if r == nil {
		return
	}
	if !panics(func() { perfInput(r, &Perf{Cell: 0, WI: 1e-12, Table: 1}) }) {
		tst.Errorf("test failed: missing saturation table must be rejected\n")
		return
	}
	in := perfInput(r, &Perf{Cell: 0, WI: 1e-12, Table: -1})
	chk.Float64(tst, "oil mobility", 1e-15, in.Mob[pvt.Oil].V, 300)
}

// panics tells whether fcn panics
func panics(fcn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			io.Pforan("%v\n", r)
			ok = true
		}
	}()
	fcn()
	return
}

func Test_control01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("control01")

	r := newFixedRes(tst, 250e5)
	if r == nil {
		return
	}

	// BHP control does not depend on the rates
	w := newTestWell(tst, r, prodConfig(), 210e5, 0)
	if w == nil {
		return
	}
	press := w.L.Press
	for _, rates := range [][pvt.NumPhases]float64{{}, {-0.002, -0.005, -0.3}} {
		w.St.SegRates[0] = rates
		w.InitPrimaryVariables()
		if err := w.StoreOld(); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		if err := w.AssembleSystem(86400); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		chk.Float64(tst, "BHP equation", 1e-15, w.Eqs.Res[press], 210e5-200e5)
		chk.Float64(tst, "∂eq/∂bhp", 1e-15, w.Eqs.D.Get(0, 0, press, press), 1)
		chk.Float64(tst, "∂eq/∂GTotal", 1e-15, w.Eqs.D.Get(0, 0, press, GTotal), 0)
	}

	// rate control with zero rate
	w = newTestWell(tst, r, prodConfig(), 210e5, 1)
	if w == nil {
		return
	}
	if err := w.StoreOld(); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err := w.AssembleSystem(86400); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "zero rate equation", 1e-17, w.Eqs.Res[press], 0.01)
	chk.Float64(tst, "∂eq/∂GTotal", 1e-15, w.Eqs.D.Get(0, 0, press, GTotal), 1)

	// rate control
	w.St.SegRates[0] = [pvt.NumPhases]float64{-0.002, -0.005, -0.3}
	w.InitPrimaryVariables()
	if err := w.AssembleSystem(86400); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "rate equation", 1e-15, w.Eqs.Res[press], -0.005+0.01)

	// stopped well
	w.Cfg.Status = Stop
	if err := w.AssembleSystem(86400); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "stopped well", 1e-17, w.Eqs.Res[press], -0.01)
}

func Test_control02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("control02")

	r := newFixedRes(tst, 250e5)
	if r == nil {
		return
	}
	w := newTestWell(tst, r, prodConfig(), 210e5, 1)
	if w == nil {
		return
	}

	// with ORAT as current control only the BHP limit is checked
	w.St.Rates = [pvt.NumPhases]float64{0, -0.02, 0}
	if changed, err := w.UpdateControl(); err != nil || changed {
		tst.Errorf("test failed: control must not change\n")
		return
	}

	// BHP below limit
	w.St.Bhp = 150e5
	w.St.SegPress[0] = 150e5
	if changed, err := w.UpdateControl(); err != nil || !changed || w.St.Current != 0 {
		tst.Errorf("test failed: control must switch to BHP\n")
		return
	}
	chk.Float64(tst, "bhp", 1e-15, w.St.Bhp, 200e5)
	chk.Float64(tst, "pressure variable", 1e-15, w.Pv[0][w.L.Press], 200e5)

	// rate above limit: rates are scaled to the target
	w.St.Rates = [pvt.NumPhases]float64{-0.01, -0.02, -1}
	w.St.SegRates[0] = w.St.Rates
	if changed, err := w.UpdateControl(); err != nil || !changed || w.St.Current != 1 {
		tst.Errorf("test failed: control must switch to ORAT\n")
		return
	}
	chk.Array(tst, "rates", 1e-17, w.St.Rates[:], []float64{-0.005, -0.01, -0.5})
	chk.Float64(tst, "GTotal", 1e-17, w.Pv[0][GTotal], -0.02)
}

func Test_control03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("control03")

	r := newFixedRes(tst, 250e5)
	if r == nil {
		return
	}

	// voidage coefficients without dissolution
	coef, err := ResvCoefficients(r)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	mdl, p := r.fluid.Pvt, ad.Const(250e5)
	bw, bo, bg := mdl.WaterInvB(p).V, mdl.OilInvB(p, ad.Const(0)).V, mdl.GasInvB(p, ad.Const(0)).V
	io.Pforan("coef = %v\n", coef)
	chk.Array(tst, "coef", 1e-15, coef[:], []float64{1 / bw, 1 / bo, 1 / bg})

	// a RESV producer
	cfg := prodConfig()
	cfg.Controls = append(cfg.Controls, &Control{Key: "RESV", Mode: Resv, Target: -0.01, Distr: [pvt.NumPhases]float64{1, 1, 1}})
	w := newTestWell(tst, r, cfg, 210e5, 2)
	if w == nil {
		return
	}
	if err = w.StoreOld(); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err = w.AssembleSystem(86400); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// fully miscible average state
	r.rs, r.rv = 4, 0.25
	if _, err = ResvCoefficients(r); !IsNumerical(err) {
		tst.Errorf("test failed: 1 - Rs・Rv = 0 must be a numerical error. err = %v\n", err)
		return
	}
	err = w.AssembleSystem(86400)
	io.Pforan("err = %v\n", err)
	if !IsNumerical(err) || !strings.Contains(err.Error(), "P1") {
		tst.Errorf("test failed: RESV control equation must fail with a numerical error of P1. err = %v\n", err)
		return
	}
	if _, err = w.Member(); !IsNumerical(err) {
		tst.Errorf("test failed: group data must fail with a numerical error. err = %v\n", err)
		return
	}
	w.St.Current = 1
	if _, err = w.UpdateControl(); !IsNumerical(err) {
		tst.Errorf("test failed: checking the RESV limit must fail with a numerical error. err = %v\n", err)
	}
}

func Test_potentials01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("potentials01")

	r := newFixedRes(tst, 250e5)
	if r == nil {
		return
	}
	w := newTestWell(tst, r, prodConfig(), 210e5, 0)
	if w == nil {
		return
	}
	if err := w.StoreOld(); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// producing direction with the wellbore at the BHP limit
	rates, err := w.ComputeWellPotentials()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	io.Pforan("potentials = %v\n", rates)
	dd, wi := 50e5, 1e-12
	chk.Array(tst, "potentials", 1e-14, rates[:], []float64{-wi * 200 * dd * 1, -wi * 300 * dd * 0.9, -wi * 5000 * dd * 100})
	chk.Array(tst, "state", 1e-14, w.St.Potentials[:], rates[:])

	// THP limit below the BHP limit: the fixed point stays at the BHP limit
	if err = w.Ctx.Vfp.AddProd(vfp.LinearProdTable(1, 1000, []float64{0, 1}, []float64{10e5, 30e5}, vfp.FloOil, 0, 0)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	w.Cfg.Controls = append(w.Cfg.Controls, &Control{Key: "THP", Mode: THP, Target: 20e5, Vfp: 1})
	w.Cfg.Vfp = 1
	rthp, err := w.ComputeWellPotentials()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Array(tst, "potentials with THP", 1e-14, rthp[:], rates[:])
}

func Test_group01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("group01")

	groups := []*inp.GroupData{
		{Name: "FIELD", Mode: "RATE", Target: 0.1, Efficiency: 1, PhaseIdx: pvt.Oil, ParentIdx: -1},
		{Name: "G1", Parent: "FIELD", Mode: "FLD", Efficiency: 1, PhaseIdx: -1, ParentIdx: 0},
	}
	gs := NewGroupState(groups)
	p1 := &Member{Group: "G1", Producer: true, UnderGrup: true, Efficiency: 1, Potentials: [pvt.NumPhases]float64{0, -0.06, 0}}
	p2 := &Member{Group: "G1", Producer: true, UnderGrup: true, Efficiency: 1, Potentials: [pvt.NumPhases]float64{0, -0.02, 0}}
	p3 := &Member{Group: "G1", Producer: true, Efficiency: 1, Rates: [pvt.NumPhases]float64{0, -0.04, 0}}
	gs.Update([]*Member{p1, p2, p3})
	chk.Float64(tst, "fixed production", 1e-17, gs.FixedProd[0][pvt.Oil], -0.04)
	chk.Float64(tst, "guide sum", 1e-15, gs.GuideSum[0], 0.08)
	if gs.Terminal(1, true) != 0 || gs.Terminal(1, false) != -1 {
		tst.Errorf("test failed: terminal group is incorrect\n")
		return
	}
	c1, ok := gs.WellTarget(p1)
	if !ok || c1.Mode != SurfaceRate {
		tst.Errorf("test failed: group target must be available\n")
		return
	}
	c2, _ := gs.WellTarget(p2)
	chk.Float64(tst, "target of P1", 1e-15, c1.Target, -0.045)
	chk.Float64(tst, "target of P2", 1e-15, c2.Target, -0.015)
	chk.Array(tst, "distr", 1e-17, c1.Distr[:], []float64{0, 1, 0})

	// inactive group
	groups[0].Mode = "NONE"
	if _, ok = gs.WellTarget(p1); ok {
		tst.Errorf("test failed: group without mode must not provide a target\n")
	}
}

func Test_errors01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errors01")

	err := fmt.Errorf("assembly: %w", withWell(numErr("", "residual is NaN"), "P1"))
	if !IsNumerical(err) || IsLogic(err) {
		tst.Errorf("test failed: error must be numerical: %v\n", err)
		return
	}
	var ne *NumericalError
	if e, ok := err.(interface{ Unwrap() error }); ok {
		ne, _ = e.Unwrap().(*NumericalError)
	}
	if ne == nil || ne.Well != "P1" {
		tst.Errorf("test failed: well name must be set: %v\n", err)
		return
	}
	_, err = NewConfig(&inp.WellData{Name: "S1", Solvent: true})
	if !IsLogic(err) {
		tst.Errorf("test failed: solvent must be rejected: %v\n", err)
		return
	}

	// messages
	msg := numErr("P1", "residual of segment %d is %g", 2, 1.5).Error()
	if msg != `numerical problem in well "P1": residual of segment 2 is 1.5` {
		tst.Errorf("test failed: wrong message: %s\n", msg)
	}
	msg = logicErr("I1", "control %q is unknown", "XRAT").Error()
	if msg != `logic error in well "I1": control "XRAT" is unknown` {
		tst.Errorf("test failed: wrong message: %s\n", msg)
	}
}
