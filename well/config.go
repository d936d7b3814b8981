// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/hydr"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Mode defines the operating control mode of a well
type Mode int

const (
	BHP         Mode = iota // bottom hole pressure
	THP                     // tubing head pressure
	SurfaceRate             // surface rate (ORAT, WRAT, GRAT, LRAT, RATE)
	Resv                    // reservoir voidage rate
	Grup                    // group controlled
)

// String returns the name of mode
func (o Mode) String() string {
	switch o {
	case BHP:
		return "BHP"
	case THP:
		return "THP"
	case SurfaceRate:
		return "SURFACE_RATE"
	case Resv:
		return "RESV"
	case Grup:
		return "GRUP"
	}
	return "unknown"
}

// ParseMode converts a control keyword to a mode
func ParseMode(key string) (Mode, error) {
	switch key {
	case "BHP":
		return BHP, nil
	case "THP":
		return THP, nil
	case "ORAT", "WRAT", "GRAT", "LRAT", "RATE":
		return SurfaceRate, nil
	case "RESV":
		return Resv, nil
	case "GRUP":
		return Grup, nil
	}
	return BHP, chk.Err("control %q is not available", key)
}

// Status defines the operating status of a well
type Status int

const (
	Open Status = iota // producing or injecting
	Stop               // closed at surface; crossflow may occur
	Shut               // isolated from the reservoir
)

// default BHP limits [Pa]
const (
	DefaultProdBhpLimit = 1.01325e5 // 1 atm
	DefaultInjBhpLimit  = 6.8912e8  // 100000 psi
)

// Control holds one operating constraint
type Control struct {
	Key    string                 // keyword; e.g. ORAT
	Mode   Mode                   // mode
	Target float64                // target; producer rates are negative
	Vfp    int                    // lift curve table (THP)
	Alq    float64                // artificial lift quantity (THP)
	Distr  [pvt.NumPhases]float64 // phase distribution (canonical)
}

// Perf holds a perforation (connection)
type Perf struct {
	Cell     int     // reservoir cell
	WI       float64 // well index
	Depth    float64 // depth
	Table    int     // saturation table; -1 => same as cell
	Seg      int     // owning segment
	Distance float64 // distance along segment
}

// Segment holds a segment of a multi-segment well. Standard wells have one segment
type Segment struct {
	Number    int         // segment number
	Outlet    int         // index of outlet; -1 for the top segment
	Inlets    []int       // indices of inlets
	Depth     float64     // depth of node
	Length    float64     // length
	Diameter  float64     // internal diameter
	Area      float64     // cross area
	Roughness float64     // roughness
	Volume    float64     // volume
	Device    hydr.Device // flow control device; nil for plain pipes
	Perfs     []int       // perforations in this segment
}

// Config holds the immutable description of a well during one report step
type Config struct {
	Name       string     // name of well
	Producer   bool       // producer or injector
	InjPhase   int        // canonical injected phase; -1 for producers
	Group      string     // group; empty if none
	RefDepth   float64    // BHP reference depth
	Efficiency float64    // efficiency factor
	Status     Status     // status
	AllowCF    bool       // crossflow is allowed
	GuideRate  float64    // guide rate; 0 => from potentials
	Friction   bool       // frictional pressure drop is included
	Accel      bool       // accelerational pressure drop is included
	Bhp0       float64    // initial BHP guess; 0 => from reservoir
	Vfp        int        // lift curve table of the THP control; 0 => none
	Alq        float64    // artificial lift quantity of the THP control
	Perfs      []*Perf    // perforations
	Segs       []*Segment // segments
	Controls   []*Control // operating constraints
}

// NewConfig builds a well configuration from input data
func NewConfig(d *inp.WellData) (o *Config, err error) {

	// unsupported features
	switch {
	case d.Solvent:
		return nil, logicErr(d.Name, "solvent is not supported")
	case d.Polymer:
		return nil, logicErr(d.Name, "polymer is not supported")
	case d.Energy:
		return nil, logicErr(d.Name, "the energy equation is not supported")
	}

	// well
	o = &Config{
		Name:       d.Name,
		Producer:   d.Producer,
		InjPhase:   d.InjIdx,
		Group:      d.Group,
		RefDepth:   d.RefDepth,
		Efficiency: d.Efficiency,
		AllowCF:    !d.NoCrossflow,
		GuideRate:  d.GuideRate,
		Friction:   d.PressureDrop != "H--",
		Accel:      d.PressureDrop == "HFA",
		Bhp0:       d.Bhp,
	}
	switch d.Status {
	case "stop":
		o.Status = Stop
	case "shut":
		o.Status = Shut
	}

	// segments
	segs := d.Segments
	if d.Model == "standard" {
		segs = nil
	}
	if len(segs) == 0 {
		o.Segs = []*Segment{{Number: 1, Outlet: -1, Depth: d.RefDepth}}
	}
	for _, s := range segs {
		seg := &Segment{
			Number:    s.Number,
			Outlet:    s.OutletIdx,
			Inlets:    append([]int{}, s.Inlets...),
			Depth:     s.Depth,
			Length:    s.Length,
			Diameter:  s.Diameter,
			Area:      s.Area,
			Roughness: s.Roughness,
			Volume:    s.Volume,
		}
		if s.Device != "" {
			if seg.Device, err = hydr.NewDevice(s.Device); err != nil {
				return nil, chk.Err("well %q: segment %d: %v", d.Name, s.Number, err)
			}
			if err = seg.Device.Init(inp.ToParams(s.Prms)); err != nil {
				return nil, chk.Err("well %q: segment %d: %v", d.Name, s.Number, err)
			}
		}
		o.Segs = append(o.Segs, seg)
	}
	if len(o.Segs) > 1 && o.Segs[0].Device != nil {
		return nil, chk.Err("well %q: the top segment cannot have a device", d.Name)
	}

	// perforations
	for i, p := range d.Perfs {
		seg := 0
		if len(segs) > 0 {
			seg = p.SegIdx
		}
		o.Perfs = append(o.Perfs, &Perf{Cell: p.Cell, WI: p.WI, Depth: p.Depth, Table: p.Table, Seg: seg, Distance: p.Distance})
		o.Segs[seg].Perfs = append(o.Segs[seg].Perfs, i)
	}

	// controls
	for _, c := range d.Controls {
		ctrl := &Control{Key: c.Type, Target: c.Target, Vfp: c.Vfp, Alq: c.Alq, Distr: c.Phases}
		if ctrl.Mode, err = ParseMode(c.Type); err != nil {
			return nil, chk.Err("well %q: %v", d.Name, err)
		}
		if ctrl.Mode == THP {
			o.Vfp, o.Alq = c.Vfp, c.Alq
		}
		o.Controls = append(o.Controls, ctrl)
	}
	return
}

// BhpLimit returns the BHP limit of the well: the BHP control target if present, or the default
func (o *Config) BhpLimit() float64 {
	for _, c := range o.Controls {
		if c.Mode == BHP {
			return c.Target
		}
	}
	if o.Producer {
		return DefaultProdBhpLimit
	}
	return DefaultInjBhpLimit
}

// Cells returns the cells of all perforations
func (o *Config) Cells() (cells []int) {
	cells = make([]int, len(o.Perfs))
	for i, p := range o.Perfs {
		cells[i] = p.Cell
	}
	return
}

// NumSegs returns the number of segments
func (o *Config) NumSegs() int {
	return len(o.Segs)
}
