// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msw

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/well"
)

// constants of the inner iterations
const (
	OscillationTol  = 0.2  // relative change indicating oscillations
	StagnationTol   = 1e-2 // relative change indicating stagnation
	RelaxationDecay = 0.9  // factor multiplying the relaxation when oscillating or stagnating
)

// SolveWellEq solves the well equations with frozen reservoir quantities. The update is relaxed
// when the residual norms oscillate or stagnate; after MaxStagnation stagnating iterations at
// minimum relaxation the relaxed tolerances are accepted
func (o *Well) SolveWellEq(dt float64) (rep *well.IterationReport, err error) {
	prm := o.Ctx.Param
	rep = new(well.IterationReport)
	dx := make([]float64, o.Eqs.Size())
	relax := 1.0
	var hist []float64
	nstag := 0
	for it := 0; it < prm.MaxInnerIterMsWells; it++ {
		if err = o.Assemble(dt); err != nil {
			return
		}
		rep.WellIterations = it
		if o.GetConvergence(false).Converged() {
			rep.Converged = true
			return
		}

		// oscillations and stagnation
		hist = append(hist, o.ResidualNorm())
		osc, stag := DetectOscillations(hist)
		if osc || stag {
			relax = math.Max(relax*RelaxationDecay, prm.MinRelaxation)
			if relax == prm.MinRelaxation && stag {
				nstag++
			}
			if o.ShowMsg {
				io.Pfyel("well %q: inner iteration %d: oscillating=%v stagnating=%v relaxation=%g\n", o.Cfg.Name, it, osc, stag, relax)
			}
		}
		if nstag >= prm.MaxStagnation && o.GetConvergence(true).Converged() {
			rep.Converged = true
			return
		}

		// update
		o.Eqs.SolveD(dx, o.Eqs.Res)
		rep.LinearIterations++
		o.UpdatePrimaryVariables(dx, relax)
		o.UpdateState()
	}
	return
}

// DetectOscillations checks the last three residual norms F0 (latest), F1 and F2.
//  oscillating: |F0-F2|/F0 < 0.2 < |F0-F1|/F0
//  stagnating:  |F1-F2|/F2 ≤ 1e-2
func DetectOscillations(hist []float64) (oscillating, stagnating bool) {
	n := len(hist)
	if n < 3 {
		return
	}
	f0, f1, f2 := hist[n-1], hist[n-2], hist[n-3]
	if f0 > 0 {
		d02 := math.Abs(f0-f2) / f0
		d01 := math.Abs(f0-f1) / f0
		oscillating = d02 < OscillationTol && d01 > OscillationTol
	}
	if f2 > 0 {
		stagnating = math.Abs(f1-f2)/f2 <= StagnationTol
	}
	return
}
