// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// BlackOil implements an analytical live-oil / wet-gas model:
//   water:  bw(p)    = bw0・(1 + cw・(p - pref))
//   oil:    bo(p,rs) = (1 + co・(p - pref)) / (1 + crs・rs)     μo(rs) = μo0 / (1 + amu・rs)
//   gas:    bg(p,rv) = p / (pgs・(1 + crv・rv))                 μg     = μg0・(1 + cmug・p)
//   Rs_sat(p) = min(rss・p, rsmax)    Rv_sat(p) = min(rvs・p, rvmax)
type BlackOil struct {

	// surface densities
	Rho [NumPhases]float64

	// water
	Bw0  float64 // invB at pref
	Cw   float64 // compressibility
	MuW  float64 // viscosity
	Pref float64 // reference pressure

	// oil
	Co    float64 // compressibility
	Crs   float64 // swelling coefficient
	MuO0  float64 // dead oil viscosity
	Amu   float64 // viscosity reduction per unit Rs
	Rss   float64 // slope of Rs_sat
	RsMax float64 // maximum Rs

	// gas
	Pgs   float64 // pressure scale of gas expansion
	Crv   float64 // gas swelling with Rv
	MuG0  float64 // gas viscosity at p=0
	Cmug  float64 // gas viscosity pressure coefficient
	Rvs   float64 // slope of Rv_sat
	RvMax float64 // maximum Rv

	// flags
	disgas bool
	vapoil bool
}

// add model to factory
func init() {
	allocators["blackoil"] = func() Model { return &BlackOil{disgas: true, vapoil: true} }
	allocators["deadoil"] = func() Model { return new(BlackOil) }
}

// Init initialises model
func (o *BlackOil) Init(prms dbf.Params) (err error) {
	o.setDefault()
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "rhow":
			o.Rho[Water] = p.V
		case "rhoo":
			o.Rho[Oil] = p.V
		case "rhog":
			o.Rho[Gas] = p.V
		case "bw0":
			o.Bw0 = p.V
		case "cw":
			o.Cw = p.V
		case "muw":
			o.MuW = p.V
		case "pref":
			o.Pref = p.V
		case "co":
			o.Co = p.V
		case "crs":
			o.Crs = p.V
		case "muo0":
			o.MuO0 = p.V
		case "amu":
			o.Amu = p.V
		case "rss":
			o.Rss = p.V
		case "rsmax":
			o.RsMax = p.V
		case "pgs":
			o.Pgs = p.V
		case "crv":
			o.Crv = p.V
		case "mug0":
			o.MuG0 = p.V
		case "cmug":
			o.Cmug = p.V
		case "rvs":
			o.Rvs = p.V
		case "rvmax":
			o.RvMax = p.V
		case "disgas":
			o.disgas = p.V > 0
		case "vapoil":
			o.vapoil = p.V > 0
		default:
			return chk.Err("blackoil: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Pgs <= 0 || o.MuW <= 0 || o.MuO0 <= 0 || o.MuG0 <= 0 {
		return chk.Err("blackoil: pgs, muw, muo0 and mug0 must be positive. pgs=%g muw=%g muo0=%g mug0=%g\n", o.Pgs, o.MuW, o.MuO0, o.MuG0)
	}
	return
}

func (o *BlackOil) setDefault() {
	o.Rho = [NumPhases]float64{1000, 800, 0.9}
	o.Bw0, o.Cw, o.MuW, o.Pref = 1.0/1.01, 4e-10, 5e-4, 1e5
	o.Co, o.Crs, o.MuO0, o.Amu, o.Rss, o.RsMax = 1e-9, 3e-3, 2e-3, 5e-3, 1e-5, 200
	o.Pgs, o.Crv, o.MuG0, o.Cmug, o.Rvs, o.RvMax = 1.2e5, 10, 1.5e-5, 1e-9, 1e-12, 1e-4
}

// GetPrms gets (an example) of parameters
func (o BlackOil) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "rhow", V: 1000},   // [kg/m³]
			&dbf.P{N: "rhoo", V: 800},    // [kg/m³]
			&dbf.P{N: "rhog", V: 0.9},    // [kg/m³]
			&dbf.P{N: "bw0", V: 0.9901},  // [-]
			&dbf.P{N: "cw", V: 4e-10},    // [1/Pa]
			&dbf.P{N: "muw", V: 5e-4},    // [Pa・s]
			&dbf.P{N: "pref", V: 1e5},    // [Pa]
			&dbf.P{N: "co", V: 1e-9},     // [1/Pa]
			&dbf.P{N: "crs", V: 3e-3},    // [-]
			&dbf.P{N: "muo0", V: 2e-3},   // [Pa・s]
			&dbf.P{N: "amu", V: 5e-3},    // [-]
			&dbf.P{N: "rss", V: 1e-5},    // [1/Pa]
			&dbf.P{N: "rsmax", V: 200},   // [-]
			&dbf.P{N: "pgs", V: 1.2e5},   // [Pa]
			&dbf.P{N: "crv", V: 10},      // [-]
			&dbf.P{N: "mug0", V: 1.5e-5}, // [Pa・s]
			&dbf.P{N: "cmug", V: 1e-9},   // [1/Pa]
			&dbf.P{N: "rvs", V: 1e-12},   // [1/Pa]
			&dbf.P{N: "rvmax", V: 1e-4},  // [-]
		}
	}
	flag := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	return dbf.Params{
		&dbf.P{N: "rhow", V: o.Rho[Water]},
		&dbf.P{N: "rhoo", V: o.Rho[Oil]},
		&dbf.P{N: "rhog", V: o.Rho[Gas]},
		&dbf.P{N: "bw0", V: o.Bw0},
		&dbf.P{N: "cw", V: o.Cw},
		&dbf.P{N: "muw", V: o.MuW},
		&dbf.P{N: "pref", V: o.Pref},
		&dbf.P{N: "co", V: o.Co},
		&dbf.P{N: "crs", V: o.Crs},
		&dbf.P{N: "muo0", V: o.MuO0},
		&dbf.P{N: "amu", V: o.Amu},
		&dbf.P{N: "rss", V: o.Rss},
		&dbf.P{N: "rsmax", V: o.RsMax},
		&dbf.P{N: "pgs", V: o.Pgs},
		&dbf.P{N: "crv", V: o.Crv},
		&dbf.P{N: "mug0", V: o.MuG0},
		&dbf.P{N: "cmug", V: o.Cmug},
		&dbf.P{N: "rvs", V: o.Rvs},
		&dbf.P{N: "rvmax", V: o.RvMax},
		&dbf.P{N: "disgas", V: flag(o.disgas)},
		&dbf.P{N: "vapoil", V: flag(o.vapoil)},
	}
}

// SurfDens returns the surface density of phase
func (o *BlackOil) SurfDens(phase int) float64 { return o.Rho[phase] }

// DisGas tells whether Rs is modelled
func (o *BlackOil) DisGas() bool { return o.disgas }

// VapOil tells whether Rv is modelled
func (o *BlackOil) VapOil() bool { return o.vapoil }

// water ////////////////////////////////////////////////////////////////////////////////////////////

// WaterInvB computes bw
func (o *BlackOil) WaterInvB(p ad.Eval) ad.Eval {
	return p.AddC(-o.Pref).MulC(o.Cw).AddC(1).MulC(o.Bw0)
}

// WaterVisc computes μw
func (o *BlackOil) WaterVisc(p ad.Eval) ad.Eval {
	return ad.Const(o.MuW)
}

// oil //////////////////////////////////////////////////////////////////////////////////////////////

// OilInvB computes bo
func (o *BlackOil) OilInvB(p, rs ad.Eval) ad.Eval {
	num := p.AddC(-o.Pref).MulC(o.Co).AddC(1)
	return num.Div(rs.MulC(o.Crs).AddC(1))
}

// OilVisc computes μo
func (o *BlackOil) OilVisc(p, rs ad.Eval) ad.Eval {
	return ad.RDiv(o.MuO0, rs.MulC(o.Amu).AddC(1))
}

// SatOilInvB computes bo at saturated conditions
func (o *BlackOil) SatOilInvB(p ad.Eval) ad.Eval {
	return o.OilInvB(p, o.SatRs(p))
}

// SatOilVisc computes μo at saturated conditions
func (o *BlackOil) SatOilVisc(p ad.Eval) ad.Eval {
	return o.OilVisc(p, o.SatRs(p))
}

// SatRs computes the saturated gas dissolution factor
func (o *BlackOil) SatRs(p ad.Eval) ad.Eval {
	if !o.disgas {
		return ad.Const(0)
	}
	return ad.Min(p.MulC(o.Rss), ad.Const(o.RsMax))
}

// gas //////////////////////////////////////////////////////////////////////////////////////////////

// GasInvB computes bg
func (o *BlackOil) GasInvB(p, rv ad.Eval) ad.Eval {
	return p.MulC(1.0 / o.Pgs).Div(rv.MulC(o.Crv).AddC(1))
}

// GasVisc computes μg
func (o *BlackOil) GasVisc(p, rv ad.Eval) ad.Eval {
	return p.MulC(o.Cmug).AddC(1).MulC(o.MuG0)
}

// SatGasInvB computes bg at saturated conditions
func (o *BlackOil) SatGasInvB(p ad.Eval) ad.Eval {
	return o.GasInvB(p, o.SatRv(p))
}

// SatGasVisc computes μg at saturated conditions
func (o *BlackOil) SatGasVisc(p ad.Eval) ad.Eval {
	return o.GasVisc(p, o.SatRv(p))
}

// SatRv computes the saturated oil vaporisation factor
func (o *BlackOil) SatRv(p ad.Eval) ad.Eval {
	if !o.vapoil {
		return ad.Const(0)
	}
	return ad.Min(p.MulC(o.Rvs), ad.Const(o.RvMax))
}
