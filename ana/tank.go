// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// TankDepletion computes the pressure of a single cell produced by a well at constant bottom
// hole pressure:
//
//    α・dp/dt = -T・(p - pbhp)     α = V・φ・c    T = WI・kr/μ
//    p(t)    = pbhp + (p0 - pbhp)・exp(-T・t/α)
//
type TankDepletion struct {
	Alpha float64 // pore volume times total compressibility
	Trans float64 // connection mobility WI・kr/μ
	P0    float64 // initial pressure
	Pbhp  float64 // bottom hole pressure
}

// Calc computes the exact pressure and the well rate (negative for production) at time t
func (o TankDepletion) Calc(t float64) (p, q float64) {
	p = o.Pbhp + (o.P0-o.Pbhp)*math.Exp(-o.Trans*t/o.Alpha)
	q = -o.Trans * (p - o.Pbhp)
	return
}

// Implicit computes the pressures after each of n backward Euler steps of size dt
func (o TankDepletion) Implicit(dt float64, n int) (p []float64) {
	a := o.Alpha / dt
	p = make([]float64, n)
	prev := o.P0
	for i := range p {
		p[i] = (a*prev + o.Trans*o.Pbhp) / (a + o.Trans)
		prev = p[i]
	}
	return
}
