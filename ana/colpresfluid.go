// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions used to verify the simulator
package ana

import "math"

// ColumnFluidPressure computes pressure (p) and density (R) of a slightly compressible
// fluid along a vertical column with gravity (g). Depth (z) is positive downwards:
//
//    R(p) = R0 + C・(p - p0)
//    dp/dz = R(p)・g
//    p(z)  = p0 + (R0/C)・(exp(C・g・(z - z0)) - 1)
//
type ColumnFluidPressure struct {
	R0   float64 // density corresponding to p0
	P0   float64 // pressure at reference depth
	C    float64 // compressibility coefficient; e.g. R0・cf
	Grav float64 // gravity acceleration (positive constant)
	Z0   float64 // reference depth where (R0,p0) is known
}

// Calc computes pressure and density at depth z
func (o ColumnFluidPressure) Calc(z float64) (p, R float64) {
	if o.C == 0 {
		return o.P0 + o.R0*o.Grav*(z-o.Z0), o.R0
	}
	p = o.P0 + (o.R0/o.C)*(math.Exp(o.C*o.Grav*(z-o.Z0))-1.0)
	R = o.R0 + o.C*(p-o.P0)
	return
}

// CalcSteps integrates the column with n explicit steps using the density at the top of each
// step. This is the scheme used along well segments and converges to Calc as n grows
func (o ColumnFluidPressure) CalcSteps(z float64, n int) (p, R float64) {
	dz := (z - o.Z0) / float64(n)
	p, R = o.P0, o.R0
	for i := 0; i < n; i++ {
		p += R * o.Grav * dz
		R = o.R0 + o.C*(p-o.P0)
	}
	return
}
