// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// PrmData holds one model parameter
type PrmData struct {
	N string  `yaml:"n"` // name
	V float64 `yaml:"v"` // value
}

// ModelData holds the name and parameters of a model
type ModelData struct {
	Model string     `yaml:"model"` // name of model; e.g. "blackoil", "corey"
	Prms  []*PrmData `yaml:"prms"`  // parameters
}

// Params converts the parameters to a dbf list
func (o *ModelData) Params() (prms dbf.Params) {
	return ToParams(o.Prms)
}

// ToParams converts a list of parameters to a dbf list
func ToParams(list []*PrmData) (prms dbf.Params) {
	for _, p := range list {
		prms = append(prms, &dbf.P{N: p.N, V: p.V})
	}
	return
}

// CellData holds the data of one reservoir cell
type CellData struct {
	Volume   float64 `yaml:"volume"`   // bulk volume [m³]
	Poro     float64 `yaml:"poro"`     // porosity
	Depth    float64 `yaml:"depth"`    // depth of cell centre [m]
	Pressure float64 `yaml:"pressure"` // initial (oil) pressure [Pa]
	Sw       float64 `yaml:"sw"`       // initial water saturation
	Sg       float64 `yaml:"sg"`       // initial gas saturation
	Rs       float64 `yaml:"rs"`       // initial Rs if no free gas; negative => saturated
	Rv       float64 `yaml:"rv"`       // initial Rv if no free oil; negative => saturated
	SatNum   int     `yaml:"satnum"`   // saturation table (1-based); 0 => 1
	Repeat   int     `yaml:"repeat"`   // repeat this cell n more times

	// derived
	Table int // saturation table (0-based)
}

// ConnData holds a connection between two cells
type ConnData struct {
	A     int     `yaml:"a"`     // first cell
	B     int     `yaml:"b"`     // second cell
	Trans float64 `yaml:"trans"` // transmissibility [m³]
}

// ReservoirData holds the reservoir description
type ReservoirData struct {
	Pref     float64     `yaml:"pref"`     // reference pressure of rock compressibility [Pa]
	RockComp float64     `yaml:"rockcomp"` // rock compressibility [1/Pa]
	Cells    []*CellData `yaml:"cells"`    // all cells
	Conns    []*ConnData `yaml:"conns"`    // all connections
	Chain    float64     `yaml:"chain"`    // if > 0, connects consecutive cells with this transmissibility
}

// PostProcess expands repeated cells, checks connections and sets derived data
func (o *ReservoirData) PostProcess(ntables int) (err error) {
	var cells []*CellData
	for _, c := range o.Cells {
		n := c.Repeat + 1
		c.Repeat = 0
		for i := 0; i < n; i++ {
			cc := *c
			cells = append(cells, &cc)
		}
	}
	o.Cells = cells
	if len(o.Cells) == 0 {
		return chk.Err("reservoir must have at least one cell")
	}
	for i, c := range o.Cells {
		if c.Volume <= 0 || c.Poro <= 0 {
			return chk.Err("cell %d: volume and porosity must be positive", i)
		}
		if c.Sw < 0 || c.Sg < 0 || c.Sw+c.Sg > 1 {
			return chk.Err("cell %d: invalid saturations sw=%g sg=%g", i, c.Sw, c.Sg)
		}
		if c.SatNum == 0 {
			c.SatNum = 1
		}
		if c.SatNum < 1 || c.SatNum > ntables {
			return chk.Err("cell %d: saturation table %d is not available", i, c.SatNum)
		}
		c.Table = c.SatNum - 1
	}
	if o.Chain > 0 {
		for i := 1; i < len(o.Cells); i++ {
			o.Conns = append(o.Conns, &ConnData{A: i - 1, B: i, Trans: o.Chain})
		}
	}
	n := len(o.Cells)
	for _, c := range o.Conns {
		if c.A < 0 || c.A >= n || c.B < 0 || c.B >= n || c.A == c.B {
			return chk.Err("connection (%d,%d) is invalid with %d cells", c.A, c.B, n)
		}
		if c.Trans < 0 {
			return chk.Err("connection (%d,%d) has negative transmissibility", c.A, c.B)
		}
	}
	return
}
