// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package res implements the reservoir seen by well models: cell quantities, the block
// Jacobian and a black-oil multi-cell reservoir
package res

import (
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/relperm"
)

// Quantities holds the intensive quantities of one cell. Arrays are indexed by canonical phase.
// Derivatives are taken with respect to the cell's primary variables in slots [0, NumEq)
type Quantities struct {
	Pressure ad.Eval                // oil pressure
	Sat      [pvt.NumPhases]ad.Eval // saturations
	InvB     [pvt.NumPhases]ad.Eval // inverse formation volume factors
	Visc     [pvt.NumPhases]ad.Eval // viscosities
	Mob      [pvt.NumPhases]ad.Eval // mobilities kr/μ
	Density  [pvt.NumPhases]ad.Eval // densities at reservoir conditions
	Rs       ad.Eval                // dissolved gas ratio
	Rv       ad.Eval                // vaporised oil ratio
	Porosity float64                // effective porosity
}

// Reservoir defines the reservoir as needed by wells
type Reservoir interface {
	NumCells() int                       // number of cells
	NumEq() int                          // number of equations (primary variables) per cell
	Phases() *pvt.PhaseUsage             // active phases
	Fluid() *FluidSystem                 // PVT model and surface densities
	Quantities(cell int) *Quantities     // intensive quantities at the current iterate
	Depth(cell int) float64              // depth of cell centre
	SatTable(cell int) int               // saturation table of cell
	RelPerm(table int) relperm.Model     // relative permeability model of table
	Linearizer() *Linearizer             // Jacobian and residual
	Average() (p, rs, rv float64)        // pore volume weighted averages
	AverageInvB() [pvt.NumPhases]float64 // average inverse formation volume factors
}

// FluidSystem groups the PVT model and the phase usage
type FluidSystem struct {
	Pvt pvt.Model       // PVT model
	Pu  *pvt.PhaseUsage // active phases
}

// SurfDens returns the surface density of canonical phase ph; zero if inactive
func (o *FluidSystem) SurfDens(ph int) float64 {
	if !o.Pu.Has(ph) {
		return 0
	}
	return o.Pvt.SurfDens(ph)
}
