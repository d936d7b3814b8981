// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Corey implements power-law curves with end points:
//   krw = krwmax・Swn^nw     Swn = (sw - swc) / (1 - swc - sor)
//   krg = krgmax・Sgn^ng     Sgn = (sg - sgc) / (1 - swc - sgc)
//   kro = kromax・Son^no     Son = (so - sor) / (1 - swc - sor)
type Corey struct {
	Swc, Sor, Sgc          float64 // residual saturations
	Nw, No, Ng             float64 // exponents
	KrwMax, KroMax, KrgMax float64 // end points
}

// add model to factory
func init() {
	allocators["corey"] = func() Model { return new(Corey) }
}

// Init initialises model
func (o *Corey) Init(prms dbf.Params) (err error) {
	o.Nw, o.No, o.Ng = 2, 2, 2
	o.KrwMax, o.KroMax, o.KrgMax = 1, 1, 1
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "swc":
			o.Swc = p.V
		case "sor":
			o.Sor = p.V
		case "sgc":
			o.Sgc = p.V
		case "nw":
			o.Nw = p.V
		case "no":
			o.No = p.V
		case "ng":
			o.Ng = p.V
		case "krwmax":
			o.KrwMax = p.V
		case "kromax":
			o.KroMax = p.V
		case "krgmax":
			o.KrgMax = p.V
		default:
			return chk.Err("corey: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Swc+o.Sor >= 1 || o.Swc+o.Sgc >= 1 {
		return chk.Err("corey: residual saturations are too large. swc=%g sor=%g sgc=%g\n", o.Swc, o.Sor, o.Sgc)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Corey) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "swc", V: 0.1},
			&dbf.P{N: "sor", V: 0.1},
			&dbf.P{N: "sgc", V: 0.0},
			&dbf.P{N: "nw", V: 2},
			&dbf.P{N: "no", V: 2},
			&dbf.P{N: "ng", V: 2},
			&dbf.P{N: "krwmax", V: 0.6},
			&dbf.P{N: "kromax", V: 1.0},
			&dbf.P{N: "krgmax", V: 0.8},
		}
	}
	return dbf.Params{
		&dbf.P{N: "swc", V: o.Swc},
		&dbf.P{N: "sor", V: o.Sor},
		&dbf.P{N: "sgc", V: o.Sgc},
		&dbf.P{N: "nw", V: o.Nw},
		&dbf.P{N: "no", V: o.No},
		&dbf.P{N: "ng", V: o.Ng},
		&dbf.P{N: "krwmax", V: o.KrwMax},
		&dbf.P{N: "kromax", V: o.KroMax},
		&dbf.P{N: "krgmax", V: o.KrgMax},
	}
}

// Kr computes the relative permeabilities
func (o Corey) Kr(s [pvt.NumPhases]ad.Eval) (kr [pvt.NumPhases]ad.Eval) {
	swn := clamp01(s[pvt.Water].AddC(-o.Swc).MulC(1.0 / (1.0 - o.Swc - o.Sor)))
	son := clamp01(s[pvt.Oil].AddC(-o.Sor).MulC(1.0 / (1.0 - o.Swc - o.Sor)))
	sgn := clamp01(s[pvt.Gas].AddC(-o.Sgc).MulC(1.0 / (1.0 - o.Swc - o.Sgc)))
	kr[pvt.Water] = ad.Pow(swn, o.Nw).MulC(o.KrwMax)
	kr[pvt.Oil] = ad.Pow(son, o.No).MulC(o.KroMax)
	kr[pvt.Gas] = ad.Pow(sgn, o.Ng).MulC(o.KrgMax)
	return
}
