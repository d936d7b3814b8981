// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Lin implements straight-line curves kr = s
type Lin struct{}

// add model to factory
func init() {
	allocators["lin"] = func() Model { return new(Lin) }
}

// Init initialises model
func (o *Lin) Init(prms dbf.Params) (err error) {
	if len(prms) > 0 {
		return chk.Err("lin: model has no parameters\n")
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Lin) GetPrms(example bool) dbf.Params {
	return dbf.Params{}
}

// Kr computes the relative permeabilities
func (o Lin) Kr(s [pvt.NumPhases]ad.Eval) (kr [pvt.NumPhases]ad.Eval) {
	for i := 0; i < pvt.NumPhases; i++ {
		kr[i] = clamp01(s[i])
	}
	return
}
