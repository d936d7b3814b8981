// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// PeacemanRadius computes the equivalent (pressure) radius of a vertical well in a cell with
// anisotropic permeability
//
//    r0 = 0.28・√(√(ky/kx)・dx² + √(kx/ky)・dy²) / ((ky/kx)^¼ + (kx/ky)^¼)
//
func PeacemanRadius(kx, ky, dx, dy float64) float64 {
	a, b := math.Sqrt(ky/kx), math.Sqrt(kx/ky)
	return 0.28 * math.Sqrt(a*dx*dx+b*dy*dy) / (math.Sqrt(a) + math.Sqrt(b))
}

// PeacemanWI computes the well index (connection factor) of a vertical well of radius rw
// completed over the thickness h of a cell with sizes dx and dy
//
//    WI = 2π・√(kx・ky)・h / (ln(r0/rw) + skin)
//
func PeacemanWI(kx, ky, dx, dy, h, rw, skin float64) (wi float64, err error) {
	if kx <= 0 || ky <= 0 || dx <= 0 || dy <= 0 || h <= 0 || rw <= 0 {
		return 0, chk.Err("well index requires positive permeabilities, sizes and radius. kx=%g ky=%g dx=%g dy=%g h=%g rw=%g", kx, ky, dx, dy, h, rw)
	}
	den := math.Log(PeacemanRadius(kx, ky, dx, dy)/rw) + skin
	if den <= 0 {
		return 0, chk.Err("well radius %g is too large for cell %g x %g (skin=%g)", rw, dx, dy, skin)
	}
	return 2.0 * math.Pi * math.Sqrt(kx*ky) * h / den, nil
}
