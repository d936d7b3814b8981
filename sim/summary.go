// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/well"
	"gopkg.in/yaml.v3"
)

// WellRecord holds the results of one well at the end of a time step
type WellRecord struct {
	Name       string    `yaml:"name"`                 // name of well
	Control    string    `yaml:"control"`              // current control
	Bhp        float64   `yaml:"bhp"`                  // bottom hole pressure
	Thp        float64   `yaml:"thp,omitempty"`        // tubing head pressure
	Rates      []float64 `yaml:"rates"`                // surface rates [water, oil, gas]
	Potentials []float64 `yaml:"potentials,omitempty"` // well potentials [water, oil, gas]
}

// StepRecord holds the results of one converged time step
type StepRecord struct {
	Time     float64       `yaml:"time"`     // time at the end of the step
	Dt       float64       `yaml:"dt"`       // step size
	NewtonIt int           `yaml:"newtonit"` // number of Newton iterations
	LinearIt int           `yaml:"linearit"` // number of linear iterations
	Cuts     int           `yaml:"cuts"`     // number of cuts before convergence
	Pavg     float64       `yaml:"pavg"`     // average reservoir pressure
	Wells    []*WellRecord `yaml:"wells"`    // wells
}

// Summary records the results of a simulation
type Summary struct {
	Key   string        `yaml:"key"`   // deck key
	Desc  string        `yaml:"desc"`  // description
	Steps []*StepRecord `yaml:"steps"` // converged steps
}

// Record appends the results of a converged step
func (o *Summary) Record(step *StepRecord, wells []well.Well) {
	for _, w := range wells {
		st := w.State()
		step.Wells = append(step.Wells, &WellRecord{
			Name:       w.Name(),
			Control:    w.Config().Controls[st.Current].Key,
			Bhp:        st.Bhp,
			Thp:        st.Thp,
			Rates:      rates(st.Rates),
			Potentials: potentials(st.Potentials),
		})
	}
	o.Steps = append(o.Steps, step)
}

// Save writes the summary to dirout/key.sum.yaml
func (o *Summary) Save(dirout string) (fn string, err error) {
	b, err := yaml.Marshal(o)
	if err != nil {
		return "", chk.Err("cannot encode summary: %v", err)
	}

	// gosl io panics on failures
	defer func() {
		if r := recover(); r != nil {
			fn, err = "", chk.Err("cannot write summary: %v", r)
		}
	}()
	io.WriteFileD(dirout, o.Key+".sum.yaml", bytes.NewBuffer(b))
	return filepath.Join(dirout, o.Key+".sum.yaml"), nil
}

// ReadSummary reads a summary file
func ReadSummary(fn string) (o *Summary, err error) {
	b, err := io.ReadFile(fn)
	if err != nil {
		return nil, chk.Err("cannot read summary: %v", err)
	}
	o = new(Summary)
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot decode summary %q: %v", fn, err)
	}
	return
}

// rates converts a rates array into a slice
func rates(q [pvt.NumPhases]float64) []float64 {
	return []float64{q[pvt.Water], q[pvt.Oil], q[pvt.Gas]}
}

// potentials converts potentials into a slice; nil if all are zero
func potentials(q [pvt.NumPhases]float64) []float64 {
	for _, v := range q {
		if v != 0 {
			return rates(q)
		}
	}
	return nil
}
