// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// InjTable holds an injection lift curve table BHP(flo, thp)
type InjTable struct {
	Id       int       // table number
	RefDepth float64   // datum depth of the table
	FloType  FloType   // flow axis type
	Flo      []float64 // flow rates
	Thp      []float64 // tubing head pressures
	Data     []float64 // bhp values ordered as [thp][flo]
}

// Check checks dimensions and axes
func (o *InjTable) Check() (err error) {
	for name, axis := range map[string][]float64{"flo": o.Flo, "thp": o.Thp} {
		if len(axis) == 0 {
			return chk.Err("vfp injection table %d: %s axis is empty", o.Id, name)
		}
		for i := 1; i < len(axis); i++ {
			if axis[i] <= axis[i-1] {
				return chk.Err("vfp injection table %d: %s axis must be strictly increasing", o.Id, name)
			}
		}
	}
	if len(o.Data) != len(o.Thp)*len(o.Flo) {
		return chk.Err("vfp injection table %d: data has %d values but axes require %d", o.Id, len(o.Data), len(o.Thp)*len(o.Flo))
	}
	return
}

func (o *InjTable) eval(flo, thp float64) (val float64, grad []float64) {
	loc := []interpData{findInterp(flo, o.Flo), findInterp(thp, o.Thp)}
	nq := len(o.Flo)
	return interpolate(loc, func(idx []int) float64 {
		return o.Data[idx[1]*nq+idx[0]]
	})
}

// Bhp computes the bottom hole pressure at the table datum for the given injection rates
func (o *InjTable) Bhp(aqua, liquid, vapour ad.Eval, thp float64) (bhp ad.Eval) {
	flo := Flo(aqua, liquid, vapour, o.FloType)
	val, grad := o.eval(flo.V, thp)
	bhp = flo.MulC(math.Max(0, grad[0]))
	bhp.V = val
	return
}

// ThpAt computes the tubing head pressure corresponding to bhp
func (o *InjTable) ThpAt(aqua, liquid, vapour, bhp float64) float64 {
	flo := Flo(ad.Const(aqua), ad.Const(liquid), ad.Const(vapour), o.FloType).V
	bhps := make([]float64, len(o.Thp))
	for i, thp := range o.Thp {
		bhps[i], _ = o.eval(flo, thp)
	}
	return findThp(bhps, o.Thp, bhp)
}
