// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"runtime"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/res"
	"github.com/totto82/opm-autodiff-sub000/well"
	"golang.org/x/sync/errgroup"

	// well models
	_ "github.com/totto82/opm-autodiff-sub000/well/msw"
	_ "github.com/totto82/opm-autodiff-sub000/well/standard"
)

// WellModel holds all wells of a simulation and couples them to the reservoir
type WellModel struct {
	Wells   []well.Well      // all wells
	Groups  *well.GroupState // group rates
	Ctx     *well.Context    // shared collaborators
	Serial  bool             // assemble wells one after another
	ShowMsg bool             // show messages
}

// NewWellModel allocates all wells in deck coupled to the reservoir r
func NewWellModel(deck *inp.Deck, r res.Reservoir) (o *WellModel, err error) {
	o = &WellModel{Serial: deck.Newton.Serial, ShowMsg: deck.WellSolver.ShowMsg}
	o.Groups = well.NewGroupState(deck.Groups)
	o.Ctx = &well.Context{
		Res:    r,
		Vfp:    deck.Vfp,
		Param:  &deck.WellSolver,
		Grav:   deck.Grav,
		Groups: o.Groups,
	}
	o.Wells = make([]well.Well, len(deck.Wells))
	for i, d := range deck.Wells {
		if o.Wells[i], err = well.NewFromData(d, o.Ctx); err != nil {
			o.Free()
			return nil, err
		}
	}
	if err = o.UpdateGroups(); err != nil {
		o.Free()
		return nil, err
	}
	return
}

// Free releases the solvers of all wells
func (o *WellModel) Free() {
	for _, w := range o.Wells {
		if w != nil {
			w.Free()
		}
	}
}

// Get returns the well with the given name; nil if not found
func (o *WellModel) Get(name string) well.Well {
	for _, w := range o.Wells {
		if w.Name() == name {
			return w
		}
	}
	return nil
}

// time step /////////////////////////////////////////////////////////////////////////////////////

// BeginTimeStep computes the explicit quantities of all wells
func (o *WellModel) BeginTimeStep() (err error) {
	for _, w := range o.Wells {
		if err = w.BeginTimeStep(); err != nil {
			return
		}
	}
	return
}

// ResetStep restores the well states of the beginning of the time step
func (o *WellModel) ResetStep() {
	for _, w := range o.Wells {
		w.ResetStep()
	}
}

// EndTimeStep updates potentials, group rates and controls after a converged step.
// Returns the number of wells that switched control
func (o *WellModel) EndTimeStep() (nswitch int, err error) {
	if err = o.ComputePotentials(); err != nil {
		return
	}
	if err = o.UpdateGroups(); err != nil {
		return
	}
	for _, w := range o.Wells {
		changed, e := w.UpdateControl()
		if e != nil {
			return nswitch, e
		}
		if changed {
			nswitch++
		}
	}
	return
}

// ComputePotentials computes and stores the potentials of all open wells
func (o *WellModel) ComputePotentials() (err error) {
	for _, w := range o.Wells {
		if w.Config().Status != well.Open {
			continue
		}
		if _, err = w.ComputeWellPotentials(); err != nil {
			return
		}
	}
	return
}

// UpdateGroups recomputes the group rates from all wells
func (o *WellModel) UpdateGroups() (err error) {
	members := make([]*well.Member, len(o.Wells))
	for i, w := range o.Wells {
		if members[i], err = w.Member(); err != nil {
			return
		}
	}
	o.Groups.Update(members)
	return
}

// assembly //////////////////////////////////////////////////////////////////////////////////////

// SolveWellEqs solves the well equations alone with frozen reservoir quantities
func (o *WellModel) SolveWellEqs(dt float64) (err error) {
	return o.forEach(func(w well.Well) error {
		rep, e := w.SolveWellEq(dt)
		if e != nil {
			return e
		}
		if !rep.Converged && o.ShowMsg {
			io.Pfyel("well %q: well equations did not converge in %d iterations\n", w.Name(), rep.WellIterations)
		}
		return nil
	})
}

// Assemble assembles and factorises the system of all wells
func (o *WellModel) Assemble(dt float64) (err error) {
	return o.forEach(func(w well.Well) error { return w.Assemble(dt) })
}

// Scatter adds the perforation rates of all wells to the reservoir equations
func (o *WellModel) Scatter(lin *res.Linearizer) {
	for _, w := range o.Wells {
		w.Scatter(lin)
	}
}

// forEach runs fcn on all wells; concurrently unless Serial is set.
// The first error in well order is returned
func (o *WellModel) forEach(fcn func(w well.Well) error) (err error) {
	if o.Serial {
		for _, w := range o.Wells {
			if err = fcn(w); err != nil {
				return
			}
		}
		return
	}
	errs := make([]error, len(o.Wells))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, w := range o.Wells {
		i, w := i, w
		g.Go(func() (e error) {
			defer func() {
				if r := recover(); r != nil {
					e = chk.Err("well %q: %v", w.Name(), r)
				}
				errs[i] = e
			}()
			return fcn(w)
		})
	}
	g.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}

// Schur complement //////////////////////////////////////////////////////////////////////////////

// Apply computes y -= Σ Cᵀ・D⁻¹・B・x over all wells
func (o *WellModel) Apply(x, y []float64) {
	for _, w := range o.Wells {
		w.Apply(x, y)
	}
}

// ApplyRes computes r -= Σ Cᵀ・D⁻¹・rw over all wells
func (o *WellModel) ApplyRes(r []float64) {
	for _, w := range o.Wells {
		w.ApplyRes(r)
	}
}

// AddContributions adds -Cᵀ・D⁻¹・B of all wells to the reservoir matrix
func (o *WellModel) AddContributions(jac *res.BlockMatrix) {
	for _, w := range o.Wells {
		w.AddWellContributions(jac)
	}
}

// Recover recovers the well increments from the reservoir increment x and updates all wells
func (o *WellModel) Recover(x []float64) (err error) {
	for _, w := range o.Wells {
		if err = w.RecoverAndUpdate(x); err != nil {
			return
		}
	}
	return
}

// convergence ///////////////////////////////////////////////////////////////////////////////////

// Convergence collects the convergence failures of all wells
func (o *WellModel) Convergence(relaxed bool) (rep *well.ConvergenceReport) {
	rep = new(well.ConvergenceReport)
	for _, w := range o.Wells {
		rep.Merge(w.GetConvergence(relaxed))
	}
	return
}

// Rates returns the surface rates of all wells
func (o *WellModel) Rates() (rates map[string][pvt.NumPhases]float64) {
	rates = make(map[string][pvt.NumPhases]float64)
	for _, w := range o.Wells {
		rates[w.Name()] = w.State().Rates
	}
	return
}
