// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ad implements forward-mode automatic differentiation for the small, fixed
// number of unknowns appearing in well and cell equations
package ad

import "math"

// N is the maximum number of derivatives carried by an Eval.
// Layout: reservoir (cell) unknowns first, then well unknowns
const N = 8

// Eval holds a value and its partial derivatives
type Eval struct {
	V float64    // value
	D [N]float64 // derivatives
}

// Const returns a constant (all derivatives are zero)
func Const(v float64) Eval {
	return Eval{V: v}
}

// Var returns an independent variable with ∂/∂x_idx = 1
func Var(v float64, idx int) Eval {
	e := Eval{V: v}
	e.D[idx] = 1
	return e
}

// Deriv returns ∂e/∂x_idx
func (a Eval) Deriv(idx int) float64 {
	return a.D[idx]
}

// ClearDerivs sets all derivatives to zero
func (a *Eval) ClearDerivs() {
	a.D = [N]float64{}
}

// Value returns a copy without derivatives
func (a Eval) Value() Eval {
	return Eval{V: a.V}
}

// IsFinite tells whether the value and all derivatives are finite
func (a Eval) IsFinite() bool {
	if math.IsNaN(a.V) || math.IsInf(a.V, 0) {
		return false
	}
	for _, d := range a.D {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return false
		}
	}
	return true
}

// Add returns a + b
func (a Eval) Add(b Eval) (r Eval) {
	r.V = a.V + b.V
	for i := 0; i < N; i++ {
		r.D[i] = a.D[i] + b.D[i]
	}
	return
}

// Sub returns a - b
func (a Eval) Sub(b Eval) (r Eval) {
	r.V = a.V - b.V
	for i := 0; i < N; i++ {
		r.D[i] = a.D[i] - b.D[i]
	}
	return
}

// Mul returns a・b
func (a Eval) Mul(b Eval) (r Eval) {
	r.V = a.V * b.V
	for i := 0; i < N; i++ {
		r.D[i] = a.D[i]*b.V + a.V*b.D[i]
	}
	return
}

// Div returns a / b
func (a Eval) Div(b Eval) (r Eval) {
	r.V = a.V / b.V
	b2 := b.V * b.V
	for i := 0; i < N; i++ {
		r.D[i] = (a.D[i]*b.V - a.V*b.D[i]) / b2
	}
	return
}

// AddC returns a + c
func (a Eval) AddC(c float64) Eval {
	a.V += c
	return a
}

// MulC returns c・a
func (a Eval) MulC(c float64) (r Eval) {
	r.V = a.V * c
	for i := 0; i < N; i++ {
		r.D[i] = a.D[i] * c
	}
	return
}

// Neg returns -a
func (a Eval) Neg() Eval {
	return a.MulC(-1)
}

// RDiv returns c / a
func RDiv(c float64, a Eval) (r Eval) {
	r.V = c / a.V
	f := -c / (a.V * a.V)
	for i := 0; i < N; i++ {
		r.D[i] = f * a.D[i]
	}
	return
}

// chain returns f(a) given f(a.V) and f'(a.V)
func chain(a Eval, f, df float64) (r Eval) {
	r.V = f
	for i := 0; i < N; i++ {
		r.D[i] = df * a.D[i]
	}
	return
}

// Pow returns aᵉ
func Pow(a Eval, e float64) Eval {
	if e == 0 {
		return Const(1)
	}
	return chain(a, math.Pow(a.V, e), e*math.Pow(a.V, e-1))
}

// Sqrt returns √a
func Sqrt(a Eval) Eval {
	s := math.Sqrt(a.V)
	return chain(a, s, 0.5/s)
}

// Exp returns exp(a)
func Exp(a Eval) Eval {
	e := math.Exp(a.V)
	return chain(a, e, e)
}

// Log10 returns log₁₀(a)
func Log10(a Eval) Eval {
	return chain(a, math.Log10(a.V), 1.0/(a.V*math.Ln10))
}

// Abs returns |a|
func Abs(a Eval) Eval {
	if a.V < 0 {
		return a.Neg()
	}
	return a
}

// Max returns the larger of a and b (with its derivatives)
func Max(a, b Eval) Eval {
	if a.V >= b.V {
		return a
	}
	return b
}

// Min returns the smaller of a and b (with its derivatives)
func Min(a, b Eval) Eval {
	if a.V <= b.V {
		return a
	}
	return b
}

// Sum returns the sum of all items
func Sum(items ...Eval) (r Eval) {
	for _, e := range items {
		r = r.Add(e)
	}
	return
}
