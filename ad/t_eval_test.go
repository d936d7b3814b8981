// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func numDeriv(f func(x float64) float64, x float64) float64 {
	h := 1e-6 * math.Max(1, math.Abs(x))
	return (f(x+h) - f(x-h)) / (2 * h)
}

func Test_eval01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eval01")

	x := Var(1.3, 0)
	y := Var(0.7, 1)

	// f = (x・y + x/y)² ・ exp(-y)
	f := Pow(x.Mul(y).Add(x.Div(y)), 2).Mul(Exp(y.Neg()))
	fun := func(a, b float64) float64 {
		return math.Pow(a*b+a/b, 2) * math.Exp(-b)
	}
	chk.Float64(tst, "f", 1e-15, f.V, fun(1.3, 0.7))
	chk.Float64(tst, "df/dx", 1e-7, f.D[0], numDeriv(func(a float64) float64 { return fun(a, 0.7) }, 1.3))
	chk.Float64(tst, "df/dy", 1e-7, f.D[1], numDeriv(func(b float64) float64 { return fun(1.3, b) }, 0.7))
	chk.Float64(tst, "df/dz", 1e-15, f.D[2], 0)
}

func Test_eval02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eval02")

	x := Var(2.5, 3)
	g := Log10(RDiv(6.9, x).AddC(0.01))
	fun := func(a float64) float64 { return math.Log10(6.9/a + 0.01) }
	chk.Float64(tst, "g", 1e-15, g.V, fun(2.5))
	chk.Float64(tst, "dg/dx", 1e-8, g.D[3], numDeriv(fun, 2.5))

	s := Sqrt(x.MulC(4))
	chk.Float64(tst, "s", 1e-15, s.V, math.Sqrt(10))
	chk.Float64(tst, "ds/dx", 1e-8, s.D[3], numDeriv(func(a float64) float64 { return math.Sqrt(4 * a) }, 2.5))

	a := Abs(x.Neg())
	chk.Float64(tst, "|−x|", 1e-15, a.V, 2.5)
	chk.Float64(tst, "d|−x|/dx", 1e-15, a.D[3], 1)

	m := Max(x, Const(3))
	chk.Float64(tst, "max", 1e-15, m.V, 3)
	chk.Float64(tst, "dmax/dx", 1e-15, m.D[3], 0)

	if !x.IsFinite() {
		tst.Errorf("x should be finite\n")
		return
	}
	if Const(1).Div(Const(0)).IsFinite() {
		tst.Errorf("1/0 should not be finite\n")
	}
}
