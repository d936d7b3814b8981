// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
)

// VfpRecord holds the bhp values over the flow axis for one combination of the other axes.
// Indices are 1-based
type VfpRecord struct {
	T   int       `yaml:"t"`   // thp index
	W   int       `yaml:"w"`   // water fraction index
	G   int       `yaml:"g"`   // gas fraction index
	A   int       `yaml:"a"`   // artificial lift index
	Bhp []float64 `yaml:"bhp"` // bhp values
}

// VfpProdData holds a production lift curve table
type VfpProdData struct {
	Id      int          `yaml:"id"`      // table number
	Depth   float64      `yaml:"depth"`   // datum depth
	FloType string       `yaml:"flotype"` // OIL, LIQ, GAS or WAT
	WfrType string       `yaml:"wfrtype"` // WOR, WCT or WGR
	GfrType string       `yaml:"gfrtype"` // GOR, GLR or OGR
	Flo     []float64    `yaml:"flo"`     // flow axis
	Thp     []float64    `yaml:"thp"`     // thp axis
	Wfr     []float64    `yaml:"wfr"`     // water fraction axis
	Gfr     []float64    `yaml:"gfr"`     // gas fraction axis
	Alq     []float64    `yaml:"alq"`     // artificial lift axis
	Records []*VfpRecord `yaml:"records"` // bhp records
}

// VfpInjData holds an injection lift curve table
type VfpInjData struct {
	Id      int          `yaml:"id"`      // table number
	Depth   float64      `yaml:"depth"`   // datum depth
	FloType string       `yaml:"flotype"` // OIL, WAT or GAS
	Flo     []float64    `yaml:"flo"`     // flow axis
	Thp     []float64    `yaml:"thp"`     // thp axis
	Records []*VfpRecord `yaml:"records"` // bhp records (only T is used)
}

// Table converts data to a production table
func (o *VfpProdData) Table() (t *vfp.ProdTable, err error) {
	t = &vfp.ProdTable{Id: o.Id, RefDepth: o.Depth, Flo: o.Flo, Thp: o.Thp, Wfr: o.Wfr, Gfr: o.Gfr, Alq: o.Alq}
	if t.FloType, err = vfp.ParseFlo(o.FloType); err != nil {
		return
	}
	if o.WfrType == "" {
		o.WfrType = "WCT"
	}
	if o.GfrType == "" {
		o.GfrType = "GOR"
	}
	if t.WfrType, err = vfp.ParseWfr(o.WfrType); err != nil {
		return
	}
	if t.GfrType, err = vfp.ParseGfr(o.GfrType); err != nil {
		return
	}
	for _, axis := range []*[]float64{&t.Wfr, &t.Gfr, &t.Alq} {
		if len(*axis) == 0 {
			*axis = []float64{0}
		}
	}
	nt, nw, ng, na, nq := len(t.Thp), len(t.Wfr), len(t.Gfr), len(t.Alq), len(t.Flo)
	t.Data = make([]float64, nt*nw*ng*na*nq)
	filled := make([]bool, nt*nw*ng*na)
	for _, r := range o.Records {
		it, iw, ig, ia := r.T-1, max(r.W, 1)-1, max(r.G, 1)-1, max(r.A, 1)-1
		if it < 0 || it >= nt || iw >= nw || ig >= ng || ia >= na {
			return nil, chk.Err("vfp production table %d: record (%d,%d,%d,%d) is out of range", o.Id, r.T, r.W, r.G, r.A)
		}
		if len(r.Bhp) != nq {
			return nil, chk.Err("vfp production table %d: record (%d,%d,%d,%d) must have %d values", o.Id, r.T, r.W, r.G, r.A, nq)
		}
		k := ((it*nw+iw)*ng+ig)*na + ia
		copy(t.Data[k*nq:(k+1)*nq], r.Bhp)
		filled[k] = true
	}
	for k, ok := range filled {
		if !ok {
			return nil, chk.Err("vfp production table %d: %d records are missing (first: %d)", o.Id, countFalse(filled), k)
		}
	}
	return
}

// Table converts data to an injection table
func (o *VfpInjData) Table() (t *vfp.InjTable, err error) {
	t = &vfp.InjTable{Id: o.Id, RefDepth: o.Depth, Flo: o.Flo, Thp: o.Thp}
	if t.FloType, err = vfp.ParseFlo(o.FloType); err != nil {
		return
	}
	nt, nq := len(t.Thp), len(t.Flo)
	t.Data = make([]float64, nt*nq)
	filled := make([]bool, nt)
	for _, r := range o.Records {
		it := r.T - 1
		if it < 0 || it >= nt || len(r.Bhp) != nq {
			return nil, chk.Err("vfp injection table %d: record %d is invalid", o.Id, r.T)
		}
		copy(t.Data[it*nq:(it+1)*nq], r.Bhp)
		filled[it] = true
	}
	if n := countFalse(filled); n > 0 {
		return nil, chk.Err("vfp injection table %d: %d records are missing", o.Id, n)
	}
	return
}

func countFalse(v []bool) (n int) {
	for _, b := range v {
		if !b {
			n++
		}
	}
	return
}
