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

// VanGen implements van Genuchten-Mualem curves:
//   krw = √Se・[1 - (1 - Se^(1/m))^m]²           Se  = (sw - swc) / (1 - swc - sor)
//   kro = √(1-Se)・(1 - Se^(1/m))^(2m)
//   krg = √Sgn・(1 - (1 - Sgn)^(1/m))^(2m)       Sgn = (sg - sgc) / (1 - swc - sgc)
type VanGen struct {
	M             float64 // shape parameter; m = 1 - 1/n
	Swc, Sor, Sgc float64 // residual saturations
}

// add model to factory
func init() {
	allocators["vgm"] = func() Model { return new(VanGen) }
}

// Init initialises model
func (o *VanGen) Init(prms dbf.Params) (err error) {
	o.M = 0.5
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "m":
			o.M = p.V
		case "n":
			if p.V <= 1 {
				return chk.Err("vgm: n must be greater than one. n=%g is invalid\n", p.V)
			}
			o.M = 1.0 - 1.0/p.V
		case "swc":
			o.Swc = p.V
		case "sor":
			o.Sor = p.V
		case "sgc":
			o.Sgc = p.V
		default:
			return chk.Err("vgm: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.M <= 0 || o.M >= 1 {
		return chk.Err("vgm: m must be in (0,1). m=%g is invalid\n", o.M)
	}
	if o.Swc+o.Sor >= 1 || o.Swc+o.Sgc >= 1 {
		return chk.Err("vgm: residual saturations are too large. swc=%g sor=%g sgc=%g\n", o.Swc, o.Sor, o.Sgc)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o VanGen) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "m", V: 0.5},
			&dbf.P{N: "swc", V: 0.1},
			&dbf.P{N: "sor", V: 0.1},
			&dbf.P{N: "sgc", V: 0.05},
		}
	}
	return dbf.Params{
		&dbf.P{N: "m", V: o.M},
		&dbf.P{N: "swc", V: o.Swc},
		&dbf.P{N: "sor", V: o.Sor},
		&dbf.P{N: "sgc", V: o.Sgc},
	}
}

// Kr computes the relative permeabilities
func (o VanGen) Kr(s [pvt.NumPhases]ad.Eval) (kr [pvt.NumPhases]ad.Eval) {
	se := clamp01(s[pvt.Water].AddC(-o.Swc).MulC(1.0 / (1.0 - o.Swc - o.Sor)))
	sgn := clamp01(s[pvt.Gas].AddC(-o.Sgc).MulC(1.0 / (1.0 - o.Swc - o.Sgc)))

	// end points have zero slope in the interior functions
	switch {
	case se.V <= 0:
		kr[pvt.Water], kr[pvt.Oil] = ad.Const(0), ad.Const(1)
	case se.V >= 1:
		kr[pvt.Water], kr[pvt.Oil] = ad.Const(1), ad.Const(0)
	default:
		a := ad.Const(1).Sub(ad.Pow(se, 1.0/o.M)) // 1 - Se^(1/m)
		b := ad.Const(1).Sub(ad.Pow(a, o.M))      // 1 - a^m
		kr[pvt.Water] = ad.Sqrt(se).Mul(b).Mul(b)
		kr[pvt.Oil] = ad.Sqrt(ad.Const(1).Sub(se)).Mul(ad.Pow(a, 2*o.M))
	}
	switch {
	case sgn.V <= 0:
		kr[pvt.Gas] = ad.Const(0)
	case sgn.V >= 1:
		kr[pvt.Gas] = ad.Const(1)
	default:
		c := ad.Const(1).Sub(ad.Pow(ad.Const(1).Sub(sgn), 1.0/o.M))
		kr[pvt.Gas] = ad.Sqrt(sgn).Mul(ad.Pow(c, 2*o.M))
	}
	return
}
