// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// HydroCarbonState selects the composition primary variable of a cell:
//   GasAndOil => gas saturation
//   OilOnly   => Rs
//   GasOnly   => Rv
type HydroCarbonState int

const (
	GasAndOil HydroCarbonState = iota // both hydrocarbon phases present
	OilOnly                           // gas dissolved in oil
	GasOnly                           // oil vaporised in gas
)

// SwitchEps is the tolerance used by the phase switching rules
const SwitchEps = 1e-4

// String returns the name of the state
func (o HydroCarbonState) String() string {
	switch o {
	case GasAndOil:
		return "GasAndOil"
	case OilOnly:
		return "OilOnly"
	case GasOnly:
		return "GasOnly"
	}
	return "unknown"
}

// Composition holds the saturations and dissolution factors of a cell together with the
// current hydrocarbon state
type Composition struct {
	State HydroCarbonState // which variable is primary
	Sw    float64          // water saturation
	So    float64          // oil saturation
	Sg    float64          // gas saturation
	Rs    float64          // dissolved gas ratio
	Rv    float64          // vaporised oil ratio
}

// Switch applies the phase transition rules at pressure p. It must be called after every
// Newton update of the cell. Returns true if the state changed
func (o *Composition) Switch(mdl Model, p float64) (changed bool) {
	const ε = SwitchEps
	waterOnly := o.Sw > 1.0-ε
	pe := ad.Const(p)
	switch o.State {

	case GasAndOil:
		if waterOnly {
			return false
		}
		if o.Sg <= 0 && mdl.DisGas() {
			o.State = OilOnly
			o.Sg = 0
			o.So = 1.0 - o.Sw
			o.Rs = mdl.SatRs(pe).V * (1.0 - ε)
			return true
		}
		if o.So <= 0 && mdl.VapOil() {
			o.State = GasOnly
			o.So = 0
			o.Sg = 1.0 - o.Sw
			o.Rv = mdl.SatRv(pe).V * (1.0 - ε)
			return true
		}

	case OilOnly:
		if waterOnly {
			o.State = GasAndOil
			o.Rs, o.Rv = 0, 0
			return true
		}
		rsSat := mdl.SatRs(pe).V
		if o.Rs > rsSat*(1.0+ε) {
			o.State = GasAndOil
			o.Sg = ε
			o.So -= ε
			o.Rs = rsSat
			return true
		}

	case GasOnly:
		if waterOnly {
			o.State = GasAndOil
			o.Rs, o.Rv = 0, 0
			return true
		}
		rvSat := mdl.SatRv(pe).V
		if o.Rv > rvSat*(1.0+ε) {
			o.State = GasAndOil
			o.So = ε
			o.Sg -= ε
			o.Rv = rvSat
			return true
		}

	default:
		chk.Panic("unknown hydrocarbon state %d", o.State)
	}
	return false
}
