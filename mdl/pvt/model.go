// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pvt implements black-oil fluid property models
package pvt

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/totto82/opm-autodiff-sub000/ad"
)

// canonical phase indices
const (
	Water     = 0 // water phase
	Oil       = 1 // oil phase
	Gas       = 2 // gas phase
	NumPhases = 3 // number of canonical phases
)

// PhaseNames holds the names of canonical phases
var PhaseNames = [NumPhases]string{"water", "oil", "gas"}

// Model defines black-oil PVT models.
// All functions take the (oil) pressure and, where applicable, the dissolution ratio
// and return quantities at reservoir conditions. invB is the inverse formation volume factor
type Model interface {
	Init(prms dbf.Params) error      // Init initialises this structure
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	SurfDens(phase int) float64      // surface density of phase
	DisGas() bool                    // dissolved gas in oil is modelled (Rs)
	VapOil() bool                    // vaporised oil in gas is modelled (Rv)

	WaterInvB(p ad.Eval) ad.Eval     // water invB
	WaterVisc(p ad.Eval) ad.Eval     // water viscosity
	OilInvB(p, rs ad.Eval) ad.Eval   // oil invB for given Rs
	OilVisc(p, rs ad.Eval) ad.Eval   // oil viscosity for given Rs
	SatOilInvB(p ad.Eval) ad.Eval    // saturated oil invB
	SatOilVisc(p ad.Eval) ad.Eval    // saturated oil viscosity
	GasInvB(p, rv ad.Eval) ad.Eval   // gas invB for given Rv
	GasVisc(p, rv ad.Eval) ad.Eval   // gas viscosity for given Rv
	SatGasInvB(p ad.Eval) ad.Eval    // saturated gas invB
	SatGasVisc(p ad.Eval) ad.Eval    // saturated gas viscosity
	SatRs(p ad.Eval) ad.Eval         // saturated gas dissolution factor
	SatRv(p ad.Eval) ad.Eval         // saturated oil vaporisation factor
}

// New allocates a PVT model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'pvt' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// PhaseUsage describes which phases are active and maps canonical phases to compact
// component indices
type PhaseUsage struct {
	Active [NumPhases]bool // active phases
	Idx    [NumPhases]int  // canonical => compact; -1 if inactive
	Phases []int           // compact => canonical
}

// NewPhaseUsage returns a new PhaseUsage. The oil phase must be active
func NewPhaseUsage(water, oil, gas bool) (o *PhaseUsage, err error) {
	if !oil {
		return nil, chk.Err("oil phase must be active in black-oil models")
	}
	o = new(PhaseUsage)
	o.Active = [NumPhases]bool{water, oil, gas}
	for i := 0; i < NumPhases; i++ {
		o.Idx[i] = -1
		if o.Active[i] {
			o.Idx[i] = len(o.Phases)
			o.Phases = append(o.Phases, i)
		}
	}
	return
}

// Num returns the number of active phases (== number of components)
func (o *PhaseUsage) Num() int {
	return len(o.Phases)
}

// Has tells whether phase is active
func (o *PhaseUsage) Has(phase int) bool {
	return o.Active[phase]
}

// OilAndGas tells whether both oil and gas are active
func (o *PhaseUsage) OilAndGas() bool {
	return o.Active[Oil] && o.Active[Gas]
}
