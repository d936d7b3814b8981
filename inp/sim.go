// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.yaml) deck file
package inp

import (
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/relperm"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string   `yaml:"desc"`    // description of simulation
	DirOut  string   `yaml:"dirout"`  // directory for output; e.g. /tmp/wellsim
	Phases  []string `yaml:"phases"`  // active phases; e.g. [water, oil, gas]. empty => all
	Gravity float64  `yaml:"gravity"` // gravity acceleration; 0 => 9.80665
}

// SolverData holds the well solver parameters
type SolverData struct {
	DwellFractionMax         float64 `yaml:"dwell_fraction_max"`           // maximum change of fractions during one update
	DbhpMaxRel               float64 `yaml:"dbhp_max_rel"`                 // maximum relative change of BHP (standard wells)
	MaxPressureChangeMsWells float64 `yaml:"max_pressure_change_ms_wells"` // maximum change of segment pressures [Pa]
	MaxInnerIterMsWells      int     `yaml:"max_inner_iter_ms_wells"`      // maximum number of inner iterations (multi-segment wells)
	MaxWelleqIter            int     `yaml:"max_welleq_iter"`              // maximum number of iterations when solving well equations alone
	ToleranceWells           float64 `yaml:"tolerance_wells"`              // tolerance of component equations [m³/s]
	TolerancePressureMsWells float64 `yaml:"tolerance_pressure_ms_wells"`  // tolerance of pressure equations [Pa]
	MaxResidualAllowed       float64 `yaml:"max_residual_allowed"`         // residuals above this value are too large
	RelaxedFactor            float64 `yaml:"relaxed_factor"`               // factor multiplying tolerances in relaxed checks
	UseInnerIterations       bool    `yaml:"use_inner_iterations"`         // solve multi-segment wells alone before each assembly
	MaxStagnation            int     `yaml:"max_stagnation"`               // stagnating iterations at minimum relaxation before relaxed check
	MinRelaxation            float64 `yaml:"min_relaxation"`               // minimum relaxation of inner iterations
	ThpIterMax               int     `yaml:"thp_iter_max"`                 // maximum number of iterations of the fixed point THP potential
	ShowMsg                  bool    `yaml:"showmsg"`                      // show messages

	// derived
	ToleranceWellsRelaxed    float64 // relaxed tolerance of component equations
	TolerancePressureRelaxed float64 // relaxed tolerance of pressure equations
}

// NewtonData holds the reservoir Newton solver data
type NewtonData struct {
	NmaxIt   int     `yaml:"nmaxit"`   // maximum number of nonlinear iterations
	TolMb    float64 `yaml:"tol_mb"`   // tolerance on material balance
	TolCnv   float64 `yaml:"tol_cnv"`  // tolerance on local (cell) convergence
	MaxCuts  int     `yaml:"max_cuts"` // maximum number of time step cuts
	LinSol   string  `yaml:"linsol"`   // "umfpack" or "bicgstab"
	LinTol   float64 `yaml:"lintol"`   // tolerance of the iterative linear solver
	LinMaxIt int     `yaml:"linmaxit"` // maximum number of linear iterations
	DsMax    float64 `yaml:"dsmax"`    // maximum saturation change per update
	DpMaxRel float64 `yaml:"dpmaxrel"` // maximum relative pressure change per update
	Serial   bool    `yaml:"serial"`   // assemble wells sequentially
	ShowR    bool    `yaml:"showr"`    // show residuals
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `yaml:"tf"`    // final time [s]
	Dt    float64 `yaml:"dt"`    // time step size [s]
	DtMin float64 `yaml:"dtmin"` // minimum time step after cuts [s]
	DtOut float64 `yaml:"dtout"` // time step size for output [s]
}

// Deck holds all simulation data
type Deck struct {

	// input
	Data       Data           `yaml:"data"`       // global data
	Fluid      ModelData      `yaml:"fluid"`      // PVT model
	RelPerms   []*ModelData   `yaml:"relperms"`   // saturation function tables (1-based in cells and perforations)
	Reservoir  ReservoirData  `yaml:"reservoir"`  // cells and connections
	Wells      []*WellData    `yaml:"wells"`      // all wells
	Groups     []*GroupData   `yaml:"groups"`     // group hierarchy
	VfpProd    []*VfpProdData `yaml:"vfpprod"`    // production lift curves
	VfpInj     []*VfpInjData  `yaml:"vfpinj"`     // injection lift curves
	WellSolver SolverData     `yaml:"wellsolver"` // well solver parameters
	Newton     NewtonData     `yaml:"newton"`     // Newton solver data
	Control    TimeControl    `yaml:"control"`    // time control

	// derived
	Key    string          // deck key; e.g. tank01.yaml => tank01
	DirOut string          // directory to save results
	Pu     *pvt.PhaseUsage // active phases
	Pvt    pvt.Model       // PVT model
	Kr     []relperm.Model // relative permeability models (0-based)
	Vfp    *vfp.Props      // lift curve tables
	Grav   float64         // gravity
	wmap   map[string]int  // well name => index
	gmap   map[string]int  // group name => index
}

// Deck //////////////////////////////////////////////////////////////////////////////////////////

// ReadDeck reads all simulation data from a .yaml deck file
func ReadDeck(path string) (o *Deck, err error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read deck file %q: %v", path, err)
	}
	return ParseDeck(b, io.FnKey(filepath.Base(path)))
}

// ParseDeck decodes deck data and performs the post-processing
func ParseDeck(b []byte, key string) (o *Deck, err error) {

	// set default values
	o = new(Deck)
	o.WellSolver.SetDefault()
	o.Newton.SetDefault()

	// decode
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot parse deck YAML: %v", err)
	}
	o.Key = key

	// derived data
	if err = o.PostProcess(); err != nil {
		return nil, chk.Err("deck %q: %v", key, err)
	}
	return
}

// PostProcess validates the deck and allocates models
func (o *Deck) PostProcess() (err error) {

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/wellsim/" + o.Key
	}

	// gravity
	o.Grav = o.Data.Gravity
	if o.Grav == 0 {
		o.Grav = 9.80665
	}

	// phases
	var active [pvt.NumPhases]bool
	if len(o.Data.Phases) == 0 {
		active = [pvt.NumPhases]bool{true, true, true}
	}
	for _, name := range o.Data.Phases {
		ph, e := PhaseIndex(name)
		if e != nil {
			return e
		}
		active[ph] = true
	}
	o.Pu, err = pvt.NewPhaseUsage(active[pvt.Water], active[pvt.Oil], active[pvt.Gas])
	if err != nil {
		return
	}

	// fluid model
	if o.Fluid.Model == "" {
		o.Fluid.Model = "blackoil"
	}
	o.Pvt, err = pvt.New(o.Fluid.Model)
	if err != nil {
		return
	}
	if err = o.Pvt.Init(o.Fluid.Params()); err != nil {
		return
	}

	// relative permeabilities
	if len(o.RelPerms) == 0 {
		return chk.Err("at least one relative permeability table must be given")
	}
	o.Kr = make([]relperm.Model, len(o.RelPerms))
	for i, md := range o.RelPerms {
		if o.Kr[i], err = relperm.New(md.Model); err != nil {
			return
		}
		if err = o.Kr[i].Init(md.Params()); err != nil {
			return chk.Err("relperm table %d: %v", i+1, err)
		}
	}

	// reservoir
	if err = o.Reservoir.PostProcess(len(o.Kr)); err != nil {
		return
	}

	// lift curves
	o.Vfp = vfp.NewProps()
	for _, d := range o.VfpProd {
		t, e := d.Table()
		if e != nil {
			return e
		}
		if err = o.Vfp.AddProd(t); err != nil {
			return
		}
	}
	for _, d := range o.VfpInj {
		t, e := d.Table()
		if e != nil {
			return e
		}
		if err = o.Vfp.AddInj(t); err != nil {
			return
		}
	}

	// groups
	o.gmap = make(map[string]int)
	for i, g := range o.Groups {
		if _, ok := o.gmap[g.Name]; ok {
			return chk.Err("group %q is defined twice", g.Name)
		}
		o.gmap[g.Name] = i
	}
	for _, g := range o.Groups {
		if err = g.PostProcess(o.gmap); err != nil {
			return
		}
	}
	for _, g := range o.Groups {
		n, p := 0, g.ParentIdx
		for ; p >= 0; p = o.Groups[p].ParentIdx {
			if n++; n > len(o.Groups) {
				return chk.Err("group %q: hierarchy contains a cycle", g.Name)
			}
		}
	}

	// wells
	o.wmap = make(map[string]int)
	ncells := len(o.Reservoir.Cells)
	for i, w := range o.Wells {
		if _, ok := o.wmap[w.Name]; ok {
			return chk.Err("well %q is defined twice", w.Name)
		}
		o.wmap[w.Name] = i
		if err = w.PostProcess(ncells, len(o.Kr), o.Pu); err != nil {
			return
		}
		if w.Group != "" {
			if _, ok := o.gmap[w.Group]; !ok {
				return chk.Err("well %q: group %q is not defined", w.Name, w.Group)
			}
		}
	}

	// solver constants
	o.WellSolver.PostProcess()
	o.Control.PostProcess()
	if o.Newton.LinSol != "umfpack" && o.Newton.LinSol != "bicgstab" {
		return chk.Err("linear solver %q is not available. options: umfpack, bicgstab", o.Newton.LinSol)
	}
	return
}

// GetWell returns well data by name
//  Note: returns nil if not found
func (o *Deck) GetWell(name string) *WellData {
	if i, ok := o.wmap[name]; ok {
		return o.Wells[i]
	}
	return nil
}

// GetGroup returns group data by name
//  Note: returns nil if not found
func (o *Deck) GetGroup(name string) *GroupData {
	if i, ok := o.gmap[name]; ok {
		return o.Groups[i]
	}
	return nil
}

// PhaseIndex returns the canonical index of phase name
func PhaseIndex(name string) (int, error) {
	for i, n := range pvt.PhaseNames {
		if strings.ToLower(name) == n {
			return i, nil
		}
	}
	return -1, chk.Err("phase %q is invalid. options: water, oil, gas", name)
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {
	o.DwellFractionMax = 0.2
	o.DbhpMaxRel = 1.0
	o.MaxPressureChangeMsWells = 10e5
	o.MaxInnerIterMsWells = 100
	o.MaxWelleqIter = 30
	o.ToleranceWells = 1e-4
	o.TolerancePressureMsWells = 1000
	o.MaxResidualAllowed = 1e7
	o.RelaxedFactor = 10
	o.UseInnerIterations = true
	o.MaxStagnation = 6
	o.MinRelaxation = 0.2
	o.ThpIterMax = 1000
}

// PostProcess computes derived values
func (o *SolverData) PostProcess() {
	o.ToleranceWellsRelaxed = o.ToleranceWells * o.RelaxedFactor
	o.TolerancePressureRelaxed = o.TolerancePressureMsWells * o.RelaxedFactor
}

// SetDefault sets defaults values
func (o *NewtonData) SetDefault() {
	o.NmaxIt = 12
	o.TolMb = 1e-6
	o.TolCnv = 1e-2
	o.MaxCuts = 8
	o.LinSol = "umfpack"
	o.LinTol = 1e-10
	o.LinMaxIt = 500
	o.DsMax = 0.2
	o.DpMaxRel = 0.3
}

// PostProcess fixes time control values
func (o *TimeControl) PostProcess() {
	if o.Tf < 1e-14 {
		o.Tf = 86400
	}
	if o.Dt < 1e-14 {
		o.Dt = o.Tf
	}
	if o.DtMin < 1e-14 {
		o.DtMin = 1e-3 * o.Dt
	}
	if o.DtOut < o.Dt {
		o.DtOut = o.Dt
	}
}
