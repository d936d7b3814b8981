// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfp

import "github.com/cpmech/gosl/chk"

// interpData locates a value within an axis
type interpData struct {
	i0, i1 int     // lower and upper indices
	f      float64 // interpolation factor; outside [0,1] when extrapolating
	dx     float64 // axis[i1] - axis[i0]
}

// findInterp finds the interval containing x. Values outside the axis are linearly
// extrapolated from the first or last interval
func findInterp(x float64, axis []float64) (d interpData) {
	n := len(axis)
	if n == 0 {
		chk.Panic("cannot interpolate on an empty axis")
	}
	if n == 1 {
		return
	}
	i := 0
	switch {
	case x < axis[0]:
		i = 0
	case x >= axis[n-1]:
		i = n - 2
	default:
		for i = 0; i < n-2; i++ {
			if x < axis[i+1] {
				break
			}
		}
	}
	d.i0, d.i1 = i, i+1
	d.dx = axis[i+1] - axis[i]
	d.f = (x - axis[i]) / d.dx
	return
}

// interpolate computes the multilinear interpolation over len(loc) dimensions and the
// derivatives of the result with respect to each interpolation variable
func interpolate(loc []interpData, value func(idx []int) float64) (val float64, grad []float64) {
	ndim := len(loc)
	grad = make([]float64, ndim)
	idx := make([]int, ndim)
	w := make([]float64, ndim)
	for corner := 0; corner < 1<<uint(ndim); corner++ {
		weight := 1.0
		for k := 0; k < ndim; k++ {
			if corner&(1<<uint(k)) != 0 {
				idx[k], w[k] = loc[k].i1, loc[k].f
			} else {
				idx[k], w[k] = loc[k].i0, 1.0-loc[k].f
			}
			weight *= w[k]
		}
		v := value(idx)
		val += weight * v
		for k := 0; k < ndim; k++ {
			if loc[k].i0 == loc[k].i1 {
				continue
			}
			s := -1.0 / loc[k].dx
			if corner&(1<<uint(k)) != 0 {
				s = 1.0 / loc[k].dx
			}
			others := 1.0
			for j := 0; j < ndim; j++ {
				if j != k {
					others *= w[j]
				}
			}
			grad[k] += others * s * v
		}
	}
	return
}
