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

// BrooksCorey implements the Brooks-Corey-Burdine curves with pore size index λ:
//   krw = Se^((2+3λ)/λ)                      Se  = (sw - swc) / (1 - swc - sor)
//   kro = (1-Se)²・(1 - Se^((2+λ)/λ))
//   krg = Sgn²・(1 - (1-Sgn)^((2+λ)/λ))      Sgn = (sg - sgc) / (1 - swc - sgc)
type BrooksCorey struct {
	Lam           float64 // pore size distribution index λ
	Swc, Sor, Sgc float64 // residual saturations
}

// add model to factory
func init() {
	allocators["bc"] = func() Model { return new(BrooksCorey) }
}

// Init initialises model
func (o *BrooksCorey) Init(prms dbf.Params) (err error) {
	o.Lam = 2
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "lam":
			o.Lam = p.V
		case "swc":
			o.Swc = p.V
		case "sor":
			o.Sor = p.V
		case "sgc":
			o.Sgc = p.V
		default:
			return chk.Err("bc: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Lam <= 0 {
		return chk.Err("bc: lam must be positive. lam=%g is invalid\n", o.Lam)
	}
	if o.Swc+o.Sor >= 1 || o.Swc+o.Sgc >= 1 {
		return chk.Err("bc: residual saturations are too large. swc=%g sor=%g sgc=%g\n", o.Swc, o.Sor, o.Sgc)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o BrooksCorey) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "lam", V: 2},
			&dbf.P{N: "swc", V: 0.2},
			&dbf.P{N: "sor", V: 0.15},
			&dbf.P{N: "sgc", V: 0.05},
		}
	}
	return dbf.Params{
		&dbf.P{N: "lam", V: o.Lam},
		&dbf.P{N: "swc", V: o.Swc},
		&dbf.P{N: "sor", V: o.Sor},
		&dbf.P{N: "sgc", V: o.Sgc},
	}
}

// Kr computes the relative permeabilities
func (o BrooksCorey) Kr(s [pvt.NumPhases]ad.Eval) (kr [pvt.NumPhases]ad.Eval) {
	ew := (2.0 + 3.0*o.Lam) / o.Lam
	en := (2.0 + o.Lam) / o.Lam
	se := clamp01(s[pvt.Water].AddC(-o.Swc).MulC(1.0 / (1.0 - o.Swc - o.Sor)))
	sgn := clamp01(s[pvt.Gas].AddC(-o.Sgc).MulC(1.0 / (1.0 - o.Swc - o.Sgc)))
	one := ad.Const(1)
	son := one.Sub(se)
	kr[pvt.Water] = ad.Pow(se, ew)
	kr[pvt.Oil] = son.Mul(son).Mul(one.Sub(ad.Pow(se, en)))
	kr[pvt.Gas] = sgn.Mul(sgn).Mul(one.Sub(ad.Pow(one.Sub(sgn), en)))
	return
}
