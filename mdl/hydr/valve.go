// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// Valve implements a sub-critical valve: friction along an additional pipe length plus the
// loss across the constriction
type Valve struct {
	Cv        float64 // flow coefficient
	AreaCon   float64 // constriction cross area
	Length    float64 // additional pipe length
	Diameter  float64 // pipe diameter
	Roughness float64 // pipe roughness
	Area      float64 // pipe cross area; computed from the diameter if not given
}

// add model to factory
func init() {
	allocators["valve"] = func() Device { return new(Valve) }
}

// Init initialises model
func (o *Valve) Init(prms dbf.Params) (err error) {
	o.Cv, o.Area = 1, 0
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "cv":
			o.Cv = p.V
		case "acon":
			o.AreaCon = p.V
		case "length":
			o.Length = p.V
		case "diam":
			o.Diameter = p.V
		case "rough":
			o.Roughness = p.V
		case "area":
			o.Area = p.V
		default:
			return chk.Err("valve: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Cv <= 0 {
		return chk.Err("valve: flow coefficient must be positive. cv=%g\n", o.Cv)
	}
	if o.Diameter <= 0 {
		return chk.Err("valve: pipe diameter must be positive. diam=%g\n", o.Diameter)
	}
	if o.Area <= 0 {
		o.Area = math.Pi * o.Diameter * o.Diameter / 4
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Valve) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "cv", V: 0.7},
			&dbf.P{N: "acon", V: 1e-4},
			&dbf.P{N: "length", V: 0.5},
			&dbf.P{N: "diam", V: 0.1},
			&dbf.P{N: "rough", V: 1e-5},
		}
	}
	return dbf.Params{
		&dbf.P{N: "cv", V: o.Cv},
		&dbf.P{N: "acon", V: o.AreaCon},
		&dbf.P{N: "length", V: o.Length},
		&dbf.P{N: "diam", V: o.Diameter},
		&dbf.P{N: "rough", V: o.Roughness},
		&dbf.P{N: "area", V: o.Area},
	}
}

// PressureDrop computes the pressure drop across the device
func (o *Valve) PressureDrop(f *Flow) ad.Eval {
	fric := FrictionPressureLoss(o.Length, o.Diameter, o.Area, o.Roughness, f.Density, f.MassRate, f.Visc)
	con := ValveConstrictionPressureLoss(f.MassRate, f.Density, o.AreaCon, o.Cv)
	return fric.Add(con).MulC(flowSign(f.MassRate.V))
}
