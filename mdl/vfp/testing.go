// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfp

// LinearProdTable returns a production table with a single water fraction, gas fraction and
// artificial lift value where BHP = thp + a・flo + b
func LinearProdTable(id int, refDepth float64, flo, thp []float64, typ FloType, a, b float64) (o *ProdTable) {
	o = &ProdTable{
		Id:       id,
		RefDepth: refDepth,
		FloType:  typ,
		WfrType:  WfrWCT,
		GfrType:  GfrGOR,
		Flo:      flo,
		Thp:      thp,
		Wfr:      []float64{0},
		Gfr:      []float64{0},
		Alq:      []float64{0},
	}
	o.Data = make([]float64, 0, len(thp)*len(flo))
	for _, t := range thp {
		for _, q := range flo {
			o.Data = append(o.Data, t+a*q+b)
		}
	}
	return
}
