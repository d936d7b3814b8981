// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the simulation driver: time stepping, Newton iterations of the
// reservoir coupled to the wells and the linear solvers of the reduced system
package sim

import (
	"math"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/res"
	"github.com/totto82/opm-autodiff-sub000/well"
)

// Main holds all data for a simulation
type Main struct {
	Deck    *inp.Deck  // input data
	Tank    *res.Tank  // reservoir
	Wells   *WellModel // wells
	LinSol  LinSolver  // linear solver of the reduced system
	Summary *Summary   // results
	Time    float64    // current time
	ShowMsg bool       // show messages
}

// NewMain allocates a new simulation from deck data
func NewMain(deck *inp.Deck, verbose bool) (o *Main, err error) {
	o = &Main{Deck: deck, ShowMsg: verbose}
	if o.Tank, err = res.NewTank(deck); err != nil {
		return nil, err
	}
	o.Tank.ShowSw = verbose && deck.Newton.ShowR
	if o.LinSol, err = NewLinSolver(&deck.Newton); err != nil {
		return nil, err
	}
	if o.Wells, err = NewWellModel(deck, o.Tank); err != nil {
		return nil, err
	}
	o.Summary = &Summary{Key: deck.Key, Desc: deck.Data.Desc}
	if o.ShowMsg {
		io.Pf("> Deck %q: %d cells, %d wells, linear solver %q\n", deck.Key, o.Tank.NumCells(), len(o.Wells.Wells), deck.Newton.LinSol)
	}
	return
}

// Free releases the solvers
func (o *Main) Free() {
	if o.Wells != nil {
		o.Wells.Free()
	}
}

// Run runs the simulation up to the final time and saves the summary if save is set
func (o *Main) Run(save bool) (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, save, err) }()

	// time loop
	ctl := &o.Deck.Control
	dt := ctl.Dt
	for o.Time < ctl.Tf {
		if o.Time+dt > ctl.Tf {
			dt = ctl.Tf - o.Time
		}
		step, e := o.Step(dt)
		if e != nil {
			return e
		}
		o.Time += step.Dt
		step.Time = o.Time
		o.Summary.Record(step, o.Wells.Wells)
		if o.ShowMsg {
			io.Pf("> t = %13.6e  dt = %11.4e  newton = %2d  linear = %3d  cuts = %d\n", o.Time, step.Dt, step.NewtonIt, step.LinearIt, step.Cuts)
		}

		// grow the step back after cuts
		dt = math.Min(2*step.Dt, ctl.Dt)
	}
	return
}

// Step advances one time step of size dt cutting it until Newton converges
func (o *Main) Step(dt float64) (step *StepRecord, err error) {
	ctl, prm := &o.Deck.Control, &o.Deck.Newton
	step = new(StepRecord)
	for {
		if err = o.Wells.BeginTimeStep(); err != nil {
			return
		}
		var conv bool
		conv, err = o.Newton(dt, step)
		if err != nil && !well.IsNumerical(err) {
			return
		}
		if conv {
			break
		}

		// cut
		if err != nil && o.ShowMsg {
			io.PfRed("%v\n", err)
		}
		o.Tank.Reset()
		o.Wells.ResetStep()
		step.Cuts++
		dt *= 0.5
		if step.Cuts > prm.MaxCuts || dt < ctl.DtMin {
			return nil, chk.Err("time step cannot be cut further: t=%g dt=%g cuts=%d", o.Time, dt, step.Cuts)
		}
		if o.ShowMsg {
			io.Pfyel(". . . cutting time step to %g . . .\n", dt)
		}
	}
	step.Dt = dt
	o.Tank.Commit()
	if _, err = o.Wells.EndTimeStep(); err != nil {
		return
	}
	p, _, _ := o.Tank.Average()
	step.Pavg = p
	return
}

// Newton runs the nonlinear iterations of the reservoir coupled to the wells
func (o *Main) Newton(dt float64, step *StepRecord) (converged bool, err error) {
	prm := &o.Deck.Newton
	lin := o.Tank.Linearizer()
	dx := make([]float64, len(lin.Res))
	if prm.ShowR && o.ShowMsg {
		io.Pf("%4s%23s%23s%8s\n", "it", "cnv", "mb", "wells")
	}
	for it := 0; it < prm.NmaxIt; it++ {

		// linearisation
		if err = o.Tank.Linearize(dt); err != nil {
			return false, &well.NumericalError{Well: "-", Msg: err.Error()}
		}
		if o.Deck.WellSolver.UseInnerIterations {
			if err = o.Wells.SolveWellEqs(dt); err != nil {
				return
			}
		}
		if err = o.Wells.Assemble(dt); err != nil {
			return
		}
		o.Wells.Scatter(lin)

		// convergence
		cnv, mb := o.Tank.Norms(dt)
		wrep := o.Wells.Convergence(false)
		if prm.ShowR && o.ShowMsg {
			io.Pf("%4d%23.15e%23.15e%8v\n", it, largest(cnv), largest(mb), wrep.Converged())
		}
		if wrep.Severity() == well.NotANumber {
			wrep.Print()
			return false, &well.NumericalError{Well: wrep.Failures[0].Well, Msg: "residual is not a number"}
		}
		if largest(cnv) < prm.TolCnv && largest(mb) < prm.TolMb && wrep.Converged() {
			step.NewtonIt += it
			return true, nil
		}

		// update
		nit, e := o.LinSol.Solve(dx, lin, o.Wells)
		step.LinearIt += nit
		if e != nil {
			return false, e
		}
		if err = o.Wells.Recover(dx); err != nil {
			return
		}
		o.Tank.Update(dx)
	}
	step.NewtonIt += prm.NmaxIt
	return
}

// Potentials computes the potentials of all open wells at the current state
func (o *Main) Potentials() (err error) {
	if err = o.Wells.BeginTimeStep(); err != nil {
		return
	}
	return o.Wells.ComputePotentials()
}

// onexit prints the final message and saves the summary
func (o *Main) onexit(cputime time.Time, save bool, prevErr error) (err error) {
	o.Free()
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	if save {
		fn, e := o.Summary.Save(o.Deck.DirOut)
		if e != nil && prevErr == nil {
			return e
		}
		if e == nil && o.ShowMsg {
			io.Pf("> Summary saved in %s\n", fn)
		}
	}
	return prevErr
}

// largest returns the largest absolute value in v
func largest(v []float64) (l float64) {
	for _, x := range v {
		l = math.Max(l, math.Abs(x))
	}
	return
}
