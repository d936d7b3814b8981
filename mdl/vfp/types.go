// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vfp implements vertical flow performance (lift curve) tables
package vfp

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// FloType defines the rate used as flow axis
type FloType int

const (
	FloOil FloType = iota // oil rate
	FloLiq                // liquid (oil + water) rate
	FloGas                // gas rate
	FloWat                // water rate (injection tables)
)

// WfrType defines the water fraction axis
type WfrType int

const (
	WfrWOR WfrType = iota // water-oil ratio
	WfrWCT                // water cut
	WfrWGR                // water-gas ratio
)

// GfrType defines the gas fraction axis
type GfrType int

const (
	GfrGOR GfrType = iota // gas-oil ratio
	GfrGLR                // gas-liquid ratio
	GfrOGR                // oil-gas ratio
)

// ParseFlo parses a flow type key
func ParseFlo(key string) (FloType, error) {
	switch strings.ToUpper(key) {
	case "OIL":
		return FloOil, nil
	case "LIQ":
		return FloLiq, nil
	case "GAS":
		return FloGas, nil
	case "WAT":
		return FloWat, nil
	}
	return 0, chk.Err("flow type %q is invalid. options are OIL, LIQ, GAS, WAT", key)
}

// ParseWfr parses a water fraction type key
func ParseWfr(key string) (WfrType, error) {
	switch strings.ToUpper(key) {
	case "WOR":
		return WfrWOR, nil
	case "WCT":
		return WfrWCT, nil
	case "WGR":
		return WfrWGR, nil
	}
	return 0, chk.Err("water fraction type %q is invalid. options are WOR, WCT, WGR", key)
}

// ParseGfr parses a gas fraction type key
func ParseGfr(key string) (GfrType, error) {
	switch strings.ToUpper(key) {
	case "GOR":
		return GfrGOR, nil
	case "GLR":
		return GfrGLR, nil
	case "OGR":
		return GfrOGR, nil
	}
	return 0, chk.Err("gas fraction type %q is invalid. options are GOR, GLR, OGR", key)
}

// ratio returns num/den or zero if den is zero
func ratio(num, den ad.Eval) ad.Eval {
	if den.V == 0 {
		return ad.Const(0)
	}
	return num.Div(den)
}

// Flo computes the flow rate corresponding to the flow type
func Flo(aqua, liquid, vapour ad.Eval, typ FloType) ad.Eval {
	switch typ {
	case FloOil:
		return liquid
	case FloLiq:
		return liquid.Add(aqua)
	case FloGas:
		return vapour
	case FloWat:
		return aqua
	}
	chk.Panic("unknown flow type %d", typ)
	return ad.Eval{}
}

// Wfr computes the water fraction corresponding to the fraction type
func Wfr(aqua, liquid, vapour ad.Eval, typ WfrType) ad.Eval {
	switch typ {
	case WfrWOR:
		return ratio(aqua, liquid)
	case WfrWCT:
		return ratio(aqua, aqua.Add(liquid))
	case WfrWGR:
		return ratio(aqua, vapour)
	}
	chk.Panic("unknown water fraction type %d", typ)
	return ad.Eval{}
}

// Gfr computes the gas fraction corresponding to the fraction type
func Gfr(aqua, liquid, vapour ad.Eval, typ GfrType) ad.Eval {
	switch typ {
	case GfrGOR:
		return ratio(vapour, liquid)
	case GfrGLR:
		return ratio(vapour, liquid.Add(aqua))
	case GfrOGR:
		return ratio(liquid, vapour)
	}
	chk.Panic("unknown gas fraction type %d", typ)
	return ad.Eval{}
}

// HydrostaticCorrection returns the pressure difference between the VFP datum and the well
// reference depth. BHP at the well reference depth is the table value minus this correction
func HydrostaticCorrection(wellRefDepth, vfpRefDepth, rho, grav float64) float64 {
	dh := vfpRefDepth - wellRefDepth
	return rho * grav * dh
}
