// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hydr implements wellbore hydraulics: fluid mixture properties, pipe friction,
// acceleration and flow control devices
package hydr

import (
	"math"

	"github.com/totto82/opm-autodiff-sub000/ad"
)

// Reynolds numbers delimiting the laminar-turbulent transition
const (
	ReLaminar   = 2000.0
	ReTurbulent = 4000.0
)

// haaland computes the turbulent (Fanning) friction factor using Haaland's formula
func haaland(re ad.Eval, diameter, roughness float64) ad.Eval {
	rel := math.Pow(roughness/(3.7*diameter), 10.0/9.0)
	v := ad.Log10(ad.RDiv(6.9, re).AddC(rel)).MulC(-3.6)
	return ad.RDiv(1, v.Mul(v))
}

// FrictionFactor computes the Fanning friction factor as a function of the Reynolds number.
// Laminar: 16/Re; turbulent: Haaland; linear blend in between
func FrictionFactor(re ad.Eval, diameter, roughness float64) ad.Eval {
	if re.V < ReLaminar {
		return ad.RDiv(16, re)
	}
	if re.V > ReTurbulent {
		return haaland(re, diameter, roughness)
	}
	f1 := 16.0 / ReLaminar
	f2 := haaland(ad.Const(ReTurbulent), diameter, roughness).V
	return re.AddC(-ReLaminar).MulC((f2 - f1) / (ReTurbulent - ReLaminar)).AddC(f1)
}

// FrictionPressureLoss computes the (unsigned) frictional pressure loss along a pipe of
// length l with mass rate w
func FrictionPressureLoss(l, diameter, area, roughness float64, density, w, mu ad.Eval) ad.Eval {
	re := ad.Abs(w.MulC(diameter / area).Div(mu))
	if re.V == 0 {
		return ad.Const(0)
	}
	f := FrictionFactor(re, diameter, roughness)
	return f.Mul(w).Mul(w).MulC(2 * l / (area * area * diameter)).Div(density)
}

// VelocityHead computes ½・ρ・v² with v = w / (ρ・A)
func VelocityHead(area float64, w, density ad.Eval) ad.Eval {
	return w.Mul(w).MulC(0.5 / (area * area)).Div(density)
}

// ValveConstrictionPressureLoss computes the pressure loss across a constriction of area
// areaCon with flow coefficient cv
func ValveConstrictionPressureLoss(w, density ad.Eval, areaCon, cv float64) ad.Eval {
	a := math.Max(areaCon, 1e-10)
	return w.Mul(w).MulC(1.0 / (2 * cv * cv * a * a)).Div(density)
}
