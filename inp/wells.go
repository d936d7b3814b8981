// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ana"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// control keywords
var (
	rateControls = map[string]int{"ORAT": pvt.Oil, "WRAT": pvt.Water, "GRAT": pvt.Gas, "LRAT": -1}
	allControls  = []string{"BHP", "THP", "ORAT", "WRAT", "GRAT", "LRAT", "RATE", "RESV", "GRUP"}
	groupModes   = []string{"NONE", "FLD", "RATE", "RESV", "REIN", "VREP", "SALE"}
)

// PerfData holds perforation (connection) data
type PerfData struct {
	Cell     int     `yaml:"cell"`     // reservoir cell
	WI       float64 `yaml:"wi"`       // well index (connection transmissibility factor) [m³]
	Depth    float64 `yaml:"depth"`    // depth of perforation [m]
	SatNum   int     `yaml:"satnum"`   // saturation table (1-based); 0 => same as cell
	Segment  int     `yaml:"segment"`  // segment number (multi-segment wells); 0 => 1
	Distance float64 `yaml:"distance"` // distance along the segment

	// geometry to compute WI with Peaceman's formula when wi is not given
	Rw   float64    `yaml:"rw"`   // well radius
	Skin float64    `yaml:"skin"` // skin factor
	H    float64    `yaml:"h"`    // completed thickness
	K    [2]float64 `yaml:"k"`    // horizontal permeabilities [kx, ky]
	D    [2]float64 `yaml:"d"`    // cell sizes [dx, dy]

	// derived
	Table  int // saturation table (0-based); -1 => same as cell
	SegIdx int // index of segment
}

// SegmentData holds segment data of multi-segment wells
type SegmentData struct {
	Number    int        `yaml:"number"`    // segment number; the top segment is number 1
	Outlet    int        `yaml:"outlet"`    // outlet segment number; 0 for the top segment
	Branch    int        `yaml:"branch"`    // branch number
	Depth     float64    `yaml:"depth"`     // depth of the segment node [m]
	Length    float64    `yaml:"length"`    // length [m]
	Diameter  float64    `yaml:"diameter"`  // internal diameter [m]
	Area      float64    `yaml:"area"`      // cross area [m²]; 0 => computed from the diameter
	Roughness float64    `yaml:"roughness"` // roughness [m]
	Volume    float64    `yaml:"volume"`    // volume [m³]; 0 => area・length
	Device    string     `yaml:"device"`    // "" (plain pipe), "sicd" or "valve"
	Prms      []*PrmData `yaml:"prms"`      // device parameters

	// derived
	OutletIdx int   // index of outlet segment; -1 for the top segment
	Inlets    []int // indices of inlet segments
}

// ControlData holds one operating constraint
type ControlData struct {
	Type   string    `yaml:"type"`   // BHP, THP, ORAT, WRAT, GRAT, LRAT, RATE (injectors), RESV or GRUP
	Target float64   `yaml:"target"` // target value; positive. producer rates are converted to negative values
	Vfp    int       `yaml:"vfp"`    // lift curve table (THP)
	Alq    float64   `yaml:"alq"`    // artificial lift quantity (THP)
	Distr  []float64 `yaml:"distr"`  // phase distribution (water, oil, gas); empty => from type

	// derived
	Phases [pvt.NumPhases]float64 // distribution over canonical phases
}

// WellData holds well data
type WellData struct {

	// input
	Name         string         `yaml:"name"`        // name of well
	Type         string         `yaml:"type"`        // "producer" or "injector"
	Model        string         `yaml:"model"`       // "standard" or "msw"; empty => msw if segments are given
	Group        string         `yaml:"group"`       // group name; empty => no group
	RefDepth     float64        `yaml:"refdepth"`    // BHP reference depth [m]; 0 => depth of first perforation
	Efficiency   float64        `yaml:"efficiency"`  // efficiency factor; 0 => 1
	InjPhase     string         `yaml:"injphase"`    // injected phase (injectors)
	Status       string         `yaml:"status"`      // "open", "stop" or "shut"; empty => open
	NoCrossflow  bool           `yaml:"nocrossflow"` // crossflow is not allowed
	GuideRate    float64        `yaml:"guiderate"`   // guide rate; 0 => from well potential
	PressureDrop string         `yaml:"pdrop"`       // "HFA", "HF-" or "H--"; empty => "HF-"
	Bhp          float64        `yaml:"bhp"`         // initial BHP guess; 0 => from reservoir
	Solvent      bool           `yaml:"solvent"`     // solvent is not supported
	Polymer      bool           `yaml:"polymer"`     // polymer is not supported
	Energy       bool           `yaml:"energy"`      // energy equation is not supported
	Perfs        []*PerfData    `yaml:"perfs"`       // perforations, from top to bottom
	Segments     []*SegmentData `yaml:"segments"`    // segments; empty => standard well
	Controls     []*ControlData `yaml:"controls"`    // operating constraints
	Current      int            `yaml:"current"`     // index of current control

	// derived
	Producer bool        // is producer
	InjIdx   int         // canonical injected phase; -1 for producers
	segmap   map[int]int // segment number => index
}

// PostProcess checks data and sets derived values
func (o *WellData) PostProcess(ncells, ntables int, pu *pvt.PhaseUsage) (err error) {

	// type
	switch strings.ToLower(o.Type) {
	case "producer", "prod":
		o.Producer = true
		o.InjIdx = -1
	case "injector", "inj":
		o.Producer = false
		if o.InjIdx, err = PhaseIndex(o.InjPhase); err != nil {
			return chk.Err("well %q: %v", o.Name, err)
		}
		if !pu.Has(o.InjIdx) {
			return chk.Err("well %q: injected phase %q is not active", o.Name, o.InjPhase)
		}
	default:
		return chk.Err("well %q: type %q is invalid. options: producer, injector", o.Name, o.Type)
	}

	// status and options
	o.Status = strings.ToLower(o.Status)
	if o.Status == "" {
		o.Status = "open"
	}
	if o.Status != "open" && o.Status != "stop" && o.Status != "shut" {
		return chk.Err("well %q: status %q is invalid. options: open, stop, shut", o.Name, o.Status)
	}
	if o.Efficiency == 0 {
		o.Efficiency = 1
	}
	o.PressureDrop = strings.ToUpper(o.PressureDrop)
	if o.PressureDrop == "" {
		o.PressureDrop = "HF-"
	}
	if o.PressureDrop != "HFA" && o.PressureDrop != "HF-" && o.PressureDrop != "H--" {
		return chk.Err("well %q: pressure drop model %q is invalid. options: HFA, HF-, H--", o.Name, o.PressureDrop)
	}
	if o.Model == "" {
		o.Model = "standard"
		if len(o.Segments) > 0 {
			o.Model = "msw"
		}
	}

	// perforations
	if len(o.Perfs) == 0 {
		return chk.Err("well %q: at least one perforation is required", o.Name)
	}
	for i, p := range o.Perfs {
		if p.Cell < 0 || p.Cell >= ncells {
			return chk.Err("well %q: perforation %d: cell %d is out of range", o.Name, i, p.Cell)
		}
		if p.WI <= 0 && p.Rw > 0 {
			if p.WI, err = ana.PeacemanWI(p.K[0], p.K[1], p.D[0], p.D[1], p.H, p.Rw, p.Skin); err != nil {
				return chk.Err("well %q: perforation %d: %v", o.Name, i, err)
			}
		}
		if p.WI <= 0 {
			return chk.Err("well %q: perforation %d: well index must be positive", o.Name, i)
		}
		p.Table = -1
		if p.SatNum > 0 {
			if p.SatNum > ntables {
				return chk.Err("well %q: perforation %d: saturation table %d is not available", o.Name, i, p.SatNum)
			}
			p.Table = p.SatNum - 1
		}
	}
	if o.RefDepth == 0 {
		o.RefDepth = o.Perfs[0].Depth
	}

	// segments
	if err = o.postSegments(); err != nil {
		return
	}

	// controls
	if len(o.Controls) == 0 {
		return chk.Err("well %q: at least one control is required", o.Name)
	}
	if o.Current < 0 || o.Current >= len(o.Controls) {
		return chk.Err("well %q: current control %d is out of range", o.Name, o.Current)
	}
	for _, c := range o.Controls {
		if err = o.postControl(c, pu); err != nil {
			return
		}
	}
	return
}

// postSegments builds the segment tree
func (o *WellData) postSegments() (err error) {
	o.segmap = make(map[int]int)
	if len(o.Segments) == 0 {
		if o.Model == "msw" {
			return chk.Err("well %q: multi-segment wells require segments", o.Name)
		}
		return
	}
	for i, s := range o.Segments {
		if _, ok := o.segmap[s.Number]; ok {
			return chk.Err("well %q: segment %d is defined twice", o.Name, s.Number)
		}
		if i == 0 {
			if s.Number != 1 || s.Outlet != 0 {
				return chk.Err("well %q: the first segment must be number 1 without outlet", o.Name)
			}
			s.OutletIdx = -1
		} else {
			out, ok := o.segmap[s.Outlet]
			if !ok {
				return chk.Err("well %q: outlet %d of segment %d must be defined before it", o.Name, s.Outlet, s.Number)
			}
			s.OutletIdx = out
			o.Segments[out].Inlets = append(o.Segments[out].Inlets, i)
			if s.Length <= 0 {
				return chk.Err("well %q: segment %d must have positive length", o.Name, s.Number)
			}
		}
		if s.Diameter <= 0 {
			return chk.Err("well %q: segment %d must have positive diameter", o.Name, s.Number)
		}
		if s.Area <= 0 {
			s.Area = math.Pi * s.Diameter * s.Diameter / 4
		}
		if s.Volume <= 0 {
			s.Volume = s.Area * math.Max(s.Length, 1)
		}
		s.Device = strings.ToLower(s.Device)
		o.segmap[s.Number] = i
	}
	for i, p := range o.Perfs {
		num := p.Segment
		if num == 0 {
			num = 1
		}
		idx, ok := o.segmap[num]
		if !ok {
			return chk.Err("well %q: perforation %d: segment %d is not defined", o.Name, i, num)
		}
		p.SegIdx = idx
	}
	return
}

// postControl checks a control and converts the target to the internal sign convention
func (o *WellData) postControl(c *ControlData, pu *pvt.PhaseUsage) (err error) {
	c.Type = strings.ToUpper(c.Type)
	found := false
	for _, key := range allControls {
		if c.Type == key {
			found = true
		}
	}
	if !found {
		return chk.Err("well %q: control %q is invalid. options: %v", o.Name, c.Type, allControls)
	}
	if c.Type != "GRUP" && c.Target < 0 {
		return chk.Err("well %q: target of control %q must be non-negative", o.Name, c.Type)
	}
	if c.Type == "THP" && c.Vfp <= 0 {
		return chk.Err("well %q: THP control requires a lift curve table", o.Name)
	}

	// distribution
	if len(c.Distr) > 0 {
		if len(c.Distr) != pvt.NumPhases {
			return chk.Err("well %q: distr of control %q must have %d values", o.Name, c.Type, pvt.NumPhases)
		}
		copy(c.Phases[:], c.Distr)
	} else if ph, ok := rateControls[c.Type]; ok {
		if o.Producer {
			if ph < 0 {
				c.Phases[pvt.Water], c.Phases[pvt.Oil] = 1, 1
			} else {
				c.Phases[ph] = 1
			}
		} else {
			if ph >= 0 && ph != o.InjIdx {
				return chk.Err("well %q: control %q does not correspond to the injected phase", o.Name, c.Type)
			}
			c.Phases[o.InjIdx] = 1
		}
	} else if c.Type == "RATE" || c.Type == "RESV" || c.Type == "GRUP" {
		if o.Producer {
			c.Phases = [pvt.NumPhases]float64{1, 1, 1}
		} else {
			c.Phases[o.InjIdx] = 1
		}
	}
	for ph := 0; ph < pvt.NumPhases; ph++ {
		if !pu.Has(ph) {
			c.Phases[ph] = 0
		}
	}

	// producers have negative rates
	if o.Producer && c.Type != "BHP" && c.Type != "THP" {
		c.Target = -c.Target
	}
	return
}

// SegIndex returns the index of segment number
func (o *WellData) SegIndex(number int) (idx int, ok bool) {
	idx, ok = o.segmap[number]
	return
}

// GroupData holds group data
type GroupData struct {
	Name       string  `yaml:"name"`       // name of group
	Parent     string  `yaml:"parent"`     // parent group; empty => field level
	Mode       string  `yaml:"mode"`       // NONE, FLD, RATE, RESV, REIN, VREP or SALE
	Target     float64 `yaml:"target"`     // target rate or fraction
	Phase      string  `yaml:"phase"`      // controlled phase; e.g. oil
	Injection  bool    `yaml:"injection"`  // mode applies to injection wells
	Efficiency float64 `yaml:"efficiency"` // efficiency factor; 0 => 1
	GuideRate  float64 `yaml:"guiderate"`  // guide rate in parent group; 0 => from potentials

	// derived
	PhaseIdx  int // canonical controlled phase; -1 => all
	ParentIdx int // index of parent; -1 => none
}

// PostProcess checks data and sets derived values
func (o *GroupData) PostProcess(gmap map[string]int) (err error) {
	o.Mode = strings.ToUpper(o.Mode)
	if o.Mode == "" {
		o.Mode = "NONE"
	}
	found := false
	for _, m := range groupModes {
		if o.Mode == m {
			found = true
		}
	}
	if !found {
		return chk.Err("group %q: mode %q is invalid. options: %v", o.Name, o.Mode, groupModes)
	}
	if o.Efficiency == 0 {
		o.Efficiency = 1
	}
	o.PhaseIdx = -1
	if o.Phase != "" {
		if o.PhaseIdx, err = PhaseIndex(o.Phase); err != nil {
			return chk.Err("group %q: %v", o.Name, err)
		}
	}
	if o.Mode == "REIN" || o.Mode == "VREP" || o.Mode == "SALE" {
		o.Injection = true
	}
	o.ParentIdx = -1
	if o.Parent != "" {
		idx, ok := gmap[o.Parent]
		if !ok {
			return chk.Err("group %q: parent %q is not defined", o.Name, o.Parent)
		}
		if o.Parent == o.Name {
			return chk.Err("group %q cannot be its own parent", o.Name)
		}
		o.ParentIdx = idx
	}
	if o.Mode == "FLD" && o.ParentIdx < 0 {
		return chk.Err("group %q: FLD mode requires a parent group", o.Name)
	}
	return
}
