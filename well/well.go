// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package well implements the well models: perforation rates, control equations, the local
// well system and its elimination from the reservoir system
package well

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
	"github.com/totto82/opm-autodiff-sub000/res"
)

// Context holds the collaborators shared by all wells
type Context struct {
	Res    res.Reservoir   // reservoir
	Vfp    *vfp.Props      // lift curves
	Param  *inp.SolverData // solver parameters
	Grav   float64         // gravity
	Groups *GroupState     // group rates; may be nil
}

// IterationReport holds the results of solving the well equations alone
type IterationReport struct {
	Converged        bool // well equations converged
	WellIterations   int  // number of well iterations
	LinearIterations int  // number of linear solves
}

// Well defines the well models
type Well interface {
	Name() string                                           // name of well
	Config() *Config                                        // configuration
	State() *State                                          // well state
	Cells() []int                                           // perforated cells
	BeginTimeStep() error                                   // computes explicit quantities and stores the old state
	Assemble(dt float64) error                              // assembles the well system and factorises D
	Scatter(lin *res.Linearizer)                            // adds the perforation rates to the reservoir equations
	Apply(x, y []float64)                                   // y -= Cᵀ・D⁻¹・B・x
	ApplyRes(r []float64)                                   // r -= Cᵀ・D⁻¹・rw
	AddWellContributions(jac *res.BlockMatrix)              // adds -Cᵀ・D⁻¹・B to the reservoir matrix
	RecoverAndUpdate(x []float64) error                     // recovers the well increment and updates the state
	GetConvergence(relaxed bool) *ConvergenceReport         // checks the well residual
	SolveWellEq(dt float64) (*IterationReport, error)       // solves the well equations with frozen reservoir
	UpdateControl() (bool, error)                           // switches to a violated control
	UpdateWellStateWithTarget() error                       // makes the state satisfy the current control
	ComputeWellPotentials() ([pvt.NumPhases]float64, error) // rates with the most restrictive pressure limit
	Member() (*Member, error)                               // data for the group controller
	ResetStep()                                             // restores the state of the beginning of the step
	Free()                                                  // releases solvers
}

// allocator defines the function that allocates wells
type allocator func(cfg *Config, ctx *Context, st *State) (Well, error)

// allocators holds all available well models
var allocators = map[string]allocator{}

// Register makes a well model available
func Register(name string, alloc allocator) {
	if _, ok := allocators[name]; ok {
		chk.Panic("well model %q is already registered", name)
	}
	allocators[name] = alloc
}

// New allocates a well model
func New(name string, cfg *Config, ctx *Context, st *State) (w Well, err error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'well' database", name)
	}
	return alloc(cfg, ctx, st)
}

// NewFromData builds a well from input data. The initial state satisfies the current control
func NewFromData(d *inp.WellData, ctx *Context) (w Well, err error) {
	cfg, err := NewConfig(d)
	if err != nil {
		return
	}
	if d.Current < 0 || d.Current >= len(cfg.Controls) {
		return nil, logicErr(cfg.Name, "current control %d is out of range", d.Current)
	}
	model := d.Model
	if model == "" {
		model = "standard"
		if len(d.Segments) > 0 {
			model = "msw"
		}
	}
	st := NewState(cfg, InitialBhp(cfg, ctx.Res), d.Current)
	if w, err = New(model, cfg, ctx, st); err != nil {
		return nil, chk.Err("well %q: %v", cfg.Name, err)
	}
	if cfg.Status == Open {
		if err = w.UpdateWellStateWithTarget(); err != nil {
			w.Free()
			return nil, err
		}
	}
	return
}

// InitialBhp returns the initial BHP guess: the given value or a pressure slightly below (producers)
// or above (injectors) the pressure of the first perforated cell
func InitialBhp(cfg *Config, r res.Reservoir) float64 {
	if cfg.Bhp0 > 0 {
		return cfg.Bhp0
	}
	if len(cfg.Perfs) == 0 {
		return math.Abs(cfg.BhpLimit())
	}
	p := r.Quantities(cfg.Perfs[0].Cell).Pressure.V
	if cfg.Producer {
		return 0.99 * p
	}
	return 1.01 * p
}

// SolveWellEq solves the well equations alone with frozen reservoir quantities
func (o *Base) SolveWellEq(dt float64) (rep *IterationReport, err error) {
	rep = new(IterationReport)
	dx := make([]float64, o.Eqs.Size())
	for it := 0; it < o.Ctx.Param.MaxWelleqIter; it++ {
		if err = o.Assemble(dt); err != nil {
			return
		}
		rep.WellIterations = it
		if o.GetConvergence(false).Converged() {
			rep.Converged = true
			return
		}
		o.Eqs.SolveD(dx, o.Eqs.Res)
		rep.LinearIterations++
		o.UpdatePrimaryVariables(dx, 1)
		o.UpdateState()
	}
	return
}

// ResidualNorm returns the Euclidean norm of the well residual
func (o *Base) ResidualNorm() (nrm float64) {
	for _, v := range o.Eqs.Res {
		nrm += v * v
	}
	return math.Sqrt(nrm)
}

// Free releases the sparse solver
func (o *Base) Free() { o.Eqs.Free() }
