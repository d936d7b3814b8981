// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package standard

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/res"
	"github.com/totto82/opm-autodiff-sub000/well"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// oilDeck has incompressible dead oil and a producer at 100 bar
const oilDeck = `
data:
  phases: [oil]
fluid:
  model: deadoil
  prms:
    - {n: co, v: 0}
relperms:
  - model: lin
reservoir:
  pref: 1e5
  rockcomp: 0
  cells:
    - {volume: 1e6, poro: 0.2, depth: 1000, pressure: 200e5}
    - {volume: 1e6, poro: 0.2, depth: 1010, pressure: 200e5}
wells:
  - name: P1
    type: producer
    perfs:
      - {cell: 0, wi: 1e-12, depth: 1000}
      - {cell: 1, wi: 1e-12, depth: 1010}
    controls:
      - {type: BHP, target: 100e5}
`

// newWell reads the deck and allocates the tank and well P1
func newWell(tst *testing.T, deck string) (w *Well, tank *res.Tank) {
	d, err := inp.ParseDeck([]byte(deck), "oil")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if tank, err = res.NewTank(d); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	ctx := &well.Context{Res: tank, Vfp: d.Vfp, Param: &d.WellSolver, Grav: d.Grav}
	ww, err := well.NewFromData(d.GetWell("P1"), ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	w = ww.(*Well)
	if err = w.BeginTimeStep(); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil, nil
	}
	return
}

func Test_standard01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("standard01")

	w, _ := newWell(tst, oilDeck)
	if w == nil {
		return
	}
	defer w.Free()

	// initial state
	chk.Float64(tst, "bhp0", 1e-8, w.State().Bhp, 100e5)

	// hydrostatics
	g := 9.80665
	chk.Float64(tst, "rhoref", 1e-12, w.RefDensity, 800)
	chk.Array(tst, "cdp", 1e-8, w.Cdp, []float64{0, 800 * g * 10})
}

func Test_standard02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("standard02")

	w, _ := newWell(tst, oilDeck)
	if w == nil {
		return
	}
	defer w.Free()

	// Newton iterations with frozen reservoir
	dt := 86400.0
	var norms []float64
	dx := make([]float64, w.Eqs.Size())
	converged := false
	for it := 0; it < 10; it++ {
		if err := w.Assemble(dt); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		norms = append(norms, w.ResidualNorm())
		io.Pforan("it=%d  |r| = %g\n", it, norms[it])
		if w.GetConvergence(false).Converged() {
			converged = true
			break
		}
		w.Eqs.SolveD(dx, w.Eqs.Res)
		w.UpdatePrimaryVariables(dx, 1)
		w.UpdateState()
	}
	if !converged {
		tst.Errorf("test failed: well equations did not converge. norms = %v\n", norms)
		return
	}
	for i := 1; i < len(norms); i++ {
		if norms[i] >= norms[i-1] {
			tst.Errorf("test failed: residual norm increased: %v\n", norms)
			return
		}
	}

	// q = -WI・kr/μ・bo・(p - pw) per perforation
	st := w.State()
	mob := 1.0 / 2e-3
	q0 := -1e-12 * mob * (200e5 - 100e5)
	q1 := -1e-12 * mob * (200e5 - 100e5 - w.Cdp[1])
	chk.Float64(tst, "bhp", 1e-6, st.Bhp, 100e5)
	chk.Float64(tst, "qo", 1e-12, st.Rates[pvt.Oil], q0+q1)
	chk.Float64(tst, "qo[0]", 1e-12, st.PerfRates[0][pvt.Oil], q0)
	chk.Float64(tst, "qo[1]", 1e-12, st.PerfRates[1][pvt.Oil], q1)
}

func Test_standard03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("standard03")

	w, _ := newWell(tst, oilDeck)
	if w == nil {
		return
	}
	defer w.Free()

	// the interface loop gives the same rates
	rep, err := w.SolveWellEq(86400)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if !rep.Converged {
		tst.Errorf("test failed: well equations did not converge\n")
		return
	}
	rates := w.State().Rates

	// potentials at the BHP limit equal the rates under BHP control
	pot, err := w.ComputeWellPotentials()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "potential", 1e-12, pot[pvt.Oil], rates[pvt.Oil])
	if math.Abs(w.State().Potentials[pvt.Oil]-pot[pvt.Oil]) > 0 {
		tst.Errorf("test failed: potentials are not stored in the state\n")
	}
}

func Test_standard04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("standard04")

	// well models are selected by data
	d, err := inp.ParseDeck([]byte(oilDeck), "oil")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if d.GetWell("P1").Model != "standard" {
		tst.Errorf("test failed: model must be standard. got %q\n", d.GetWell("P1").Model)
		return
	}
	tank, err := res.NewTank(d)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	ctx := &well.Context{Res: tank, Vfp: d.Vfp, Param: &d.WellSolver, Grav: d.Grav}
	cfg, err := well.NewConfig(d.GetWell("P1"))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	cfg.Segs = append(cfg.Segs, &well.Segment{Number: 2, Outlet: 0})
	_, err = well.New("standard", cfg, ctx, well.NewState(cfg, 100e5, 0))
	if !well.IsLogic(err) {
		tst.Errorf("test failed: two segments must be rejected. err = %v\n", err)
	}
}
