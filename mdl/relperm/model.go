// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package relperm implements relative permeability models for three-phase flow
package relperm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Model defines relative permeability models. Saturations and results are indexed by
// canonical phase (pvt.Water, pvt.Oil, pvt.Gas)
type Model interface {
	Init(prms dbf.Params) error                         // Init initialises this structure
	GetPrms(example bool) dbf.Params                    // gets (an example) of parameters
	Kr(s [pvt.NumPhases]ad.Eval) [pvt.NumPhases]ad.Eval // relative permeabilities
}

// New relative permeability model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'relperm' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// clamp01 clamps the normalised saturation to [0,1] keeping derivatives inside the interval only
func clamp01(s ad.Eval) ad.Eval {
	if s.V <= 0 {
		return ad.Const(0)
	}
	if s.V >= 1 {
		return ad.Const(1)
	}
	return s
}
