// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Sicd implements the spiral inflow control device:
//   Δp = K・(ρ/ρcal)^¾・(μ/μcal)^¼・q²
// with q the scaled reservoir volume rate and μ the mixture viscosity computed with an
// emulsion viscosity for the liquid
type Sicd struct {
	Strength float64 // K
	DensCali float64 // ρcal
	ViscCali float64 // μcal
	Critical float64 // critical water-in-liquid fraction
	Width    float64 // width of the transition region
	MaxRatio float64 // maximum emulsion viscosity ratio
	Scaling  float64 // scaling factor of the rate through one device
}

// add model to factory
func init() {
	allocators["sicd"] = func() Device { return new(Sicd) }
}

// Init initialises model
func (o *Sicd) Init(prms dbf.Params) (err error) {
	o.DensCali, o.ViscCali = 1000.25, 1.45e-3
	o.Critical, o.Width, o.MaxRatio, o.Scaling = 0.5, 0.05, 5, 1
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "strength":
			o.Strength = p.V
		case "denscali":
			o.DensCali = p.V
		case "visccali":
			o.ViscCali = p.V
		case "critical":
			o.Critical = p.V
		case "width":
			o.Width = p.V
		case "maxratio":
			o.MaxRatio = p.V
		case "scaling":
			o.Scaling = p.V
		default:
			return chk.Err("sicd: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Width <= 0 {
		return chk.Err("sicd: width of transition region must be positive. width=%g\n", o.Width)
	}
	if o.DensCali <= 0 || o.ViscCali <= 0 {
		return chk.Err("sicd: calibration density and viscosity must be positive\n")
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Sicd) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "strength", V: 2e-4},
			&dbf.P{N: "denscali", V: 1000.25},
			&dbf.P{N: "visccali", V: 1.45e-3},
			&dbf.P{N: "critical", V: 0.5},
			&dbf.P{N: "width", V: 0.05},
			&dbf.P{N: "maxratio", V: 5},
			&dbf.P{N: "scaling", V: 1},
		}
	}
	return dbf.Params{
		&dbf.P{N: "strength", V: o.Strength},
		&dbf.P{N: "denscali", V: o.DensCali},
		&dbf.P{N: "visccali", V: o.ViscCali},
		&dbf.P{N: "critical", V: o.Critical},
		&dbf.P{N: "width", V: o.Width},
		&dbf.P{N: "maxratio", V: o.MaxRatio},
		&dbf.P{N: "scaling", V: o.Scaling},
	}
}

// PressureDrop computes the pressure drop across the device
func (o *Sicd) PressureDrop(f *Flow) ad.Eval {
	fw, fo, fg := f.Fractions[pvt.Water], f.Fractions[pvt.Oil], f.Fractions[pvt.Gas]
	emul := o.EmulsionVisc(fw, f.PhaseVisc[pvt.Water], fo, f.PhaseVisc[pvt.Oil])
	mixVisc := fw.Add(fo).Mul(emul).Add(fg.Mul(f.PhaseVisc[pvt.Gas]))
	q := f.MassRate.Div(f.Density).MulC(o.Scaling)
	t1 := ad.Pow(f.Density.MulC(1.0/o.DensCali), 0.75)
	t2 := ad.Pow(mixVisc.MulC(1.0/o.ViscCali), 0.25)
	return t1.Mul(t2).Mul(q).Mul(q).MulC(flowSign(q.V) * o.Strength)
}

// EmulsionVisc computes the viscosity of a water-oil emulsion
func (o *Sicd) EmulsionVisc(fw, μw, fo, μo ad.Eval) ad.Eval {
	liquid := fw.Add(fo)
	if liquid.V == 0 {
		return ad.Const(0)
	}
	wl := fw.Div(liquid)
	start := o.Critical - o.Width/2
	end := o.Critical + o.Width/2
	if wl.V <= start {
		return o.waterInOil(μo, wl)
	}
	if wl.V >= end {
		return o.oilInWater(μw, wl)
	}
	μs := o.waterInOil(μo, ad.Const(start))
	μe := o.oilInWater(μw, ad.Const(end))
	return μs.Mul(wl.Neg().AddC(end)).Add(μe.Mul(wl.AddC(-start))).MulC(1.0 / o.Width)
}

// waterInOil computes the viscosity of water droplets dispersed in oil
func (o *Sicd) waterInOil(μo, wl ad.Eval) ad.Eval {
	tmp := ad.RDiv(1, wl.MulC(-0.8415/0.7480).AddC(1))
	ratio := ad.Pow(tmp, 2.5)
	if ratio.V <= o.MaxRatio {
		return μo.Mul(ratio)
	}
	return μo.MulC(o.MaxRatio)
}

// oilInWater computes the viscosity of oil droplets dispersed in water
func (o *Sicd) oilInWater(μw, wl ad.Eval) ad.Eval {
	tmp := ad.RDiv(1, wl.Neg().AddC(1).MulC(-0.6019/0.6410).AddC(1))
	ratio := ad.Pow(tmp, 2.5)
	if ratio.V <= o.MaxRatio {
		return μw.Mul(ratio)
	}
	return μw.MulC(o.MaxRatio)
}
