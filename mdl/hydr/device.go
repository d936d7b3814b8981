// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Flow holds the flow state through a device, taken from the upwind segment
type Flow struct {
	MassRate  ad.Eval                // mass rate through the device; negative when flowing towards the outlet
	Density   ad.Eval                // upwind mixture density
	Visc      ad.Eval                // upwind mixture viscosity
	Fractions [pvt.NumPhases]ad.Eval // upwind phase volume fractions
	PhaseVisc [pvt.NumPhases]ad.Eval // upwind phase viscosities
}

// Device defines flow control devices installed in a segment
type Device interface {
	Init(prms dbf.Params) error      // Init initialises this structure
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	PressureDrop(f *Flow) ad.Eval    // signed drop: segment pressure minus outlet pressure
}

// NewDevice allocates a device model
func NewDevice(name string) (model Device, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'device' database", name)
	}
	return allocator(), nil
}

// allocators holds all available devices
var allocators = map[string]func() Device{}

// flowSign returns +1 if the flow is towards the outlet (or zero), -1 otherwise
func flowSign(rate float64) float64 {
	if rate <= 0 {
		return 1
	}
	return -1
}
