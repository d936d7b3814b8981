// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// State holds the well quantities persisting across time steps. Rates are surface rates
// indexed by canonical phase; injection is positive
type State struct {
	Name       string                   // name of well
	Bhp        float64                  // bottom hole pressure
	Thp        float64                  // tubing head pressure; 0 if no lift curve is available
	Rates      [pvt.NumPhases]float64   // well rates
	PerfRates  [][pvt.NumPhases]float64 // perforation rates
	PerfPress  []float64                // wellbore pressures at perforations
	SegPress   []float64                // segment pressures
	SegRates   [][pvt.NumPhases]float64 // segment rates
	Current    int                      // index of current control
	DisGas     float64                  // dissolved gas rate produced from oil
	VapOil     float64                  // vaporised oil rate produced with gas
	Potentials [pvt.NumPhases]float64   // well potentials
}

// NewState allocates a new state for the given configuration.
// All pressures are set to bhp and rates are zero
func NewState(cfg *Config, bhp float64, current int) (o *State) {
	o = &State{Name: cfg.Name, Bhp: bhp, Current: current}
	o.PerfRates = make([][pvt.NumPhases]float64, len(cfg.Perfs))
	o.PerfPress = make([]float64, len(cfg.Perfs))
	o.SegPress = make([]float64, len(cfg.Segs))
	o.SegRates = make([][pvt.NumPhases]float64, len(cfg.Segs))
	for i := range o.PerfPress {
		o.PerfPress[i] = bhp
	}
	for i := range o.SegPress {
		o.SegPress[i] = bhp
	}
	return
}

// Clone returns a deep copy
func (o *State) Clone() (c *State) {
	c = new(State)
	*c = *o
	c.PerfRates = append([][pvt.NumPhases]float64{}, o.PerfRates...)
	c.PerfPress = append([]float64{}, o.PerfPress...)
	c.SegPress = append([]float64{}, o.SegPress...)
	c.SegRates = append([][pvt.NumPhases]float64{}, o.SegRates...)
	return
}

// CopyFrom copies all values from another state with the same dimensions
func (o *State) CopyFrom(src *State) {
	perf, press, seg, segr := o.PerfRates, o.PerfPress, o.SegPress, o.SegRates
	*o = *src
	o.PerfRates, o.PerfPress, o.SegPress, o.SegRates = perf, press, seg, segr
	copy(o.PerfRates, src.PerfRates)
	copy(o.PerfPress, src.PerfPress)
	copy(o.SegPress, src.SegPress)
	copy(o.SegRates, src.SegRates)
}

// TotalRate returns the sum of surface rates
func (o *State) TotalRate() (sum float64) {
	for _, q := range o.Rates {
		sum += q
	}
	return
}
