// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Severity classifies a convergence failure
type Severity int

const (
	None       Severity = iota // converged
	Normal                     // above tolerance
	TooLarge                   // above the maximum allowed residual
	NotANumber                 // NaN or Inf
)

// String returns the name of severity
func (o Severity) String() string {
	switch o {
	case None:
		return "None"
	case Normal:
		return "Normal"
	case TooLarge:
		return "TooLarge"
	case NotANumber:
		return "NaN"
	}
	return "unknown"
}

// FailureType identifies the equation that failed to converge
type FailureType int

const (
	MassBalance FailureType = iota // component equation
	Pressure                       // segment pressure equation
	ControlBHP                     // BHP control equation
	ControlTHP                     // THP control equation
	ControlRate                    // rate control equation
)

// Failure holds one convergence failure
type Failure struct {
	Type     FailureType // equation type
	Severity Severity    // severity
	Well     string      // well name
	Seg      int         // segment
	Phase    int         // canonical phase; -1 if not a component equation
	Value    float64     // scaled residual
}

// ConvergenceReport collects the convergence failures of wells
type ConvergenceReport struct {
	Failures []Failure // all failures
}

// Converged tells whether no failures were recorded
func (o *ConvergenceReport) Converged() bool {
	return len(o.Failures) == 0
}

// Severity returns the worst severity
func (o *ConvergenceReport) Severity() (sev Severity) {
	for _, f := range o.Failures {
		if f.Severity > sev {
			sev = f.Severity
		}
	}
	return
}

// Merge appends the failures of another report
func (o *ConvergenceReport) Merge(other *ConvergenceReport) {
	o.Failures = append(o.Failures, other.Failures...)
}

// check records a failure if value is not below tol
func (o *ConvergenceReport) check(f Failure, tol, maxAllowed float64) {
	v := f.Value
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		f.Severity = NotANumber
	case v > maxAllowed:
		f.Severity = TooLarge
	case v > tol:
		f.Severity = Normal
	default:
		return
	}
	o.Failures = append(o.Failures, f)
}

// Print prints the failures
func (o *ConvergenceReport) Print() {
	for _, f := range o.Failures {
		name := "-"
		if f.Phase >= 0 {
			name = pvt.PhaseNames[f.Phase]
		}
		io.PfRed("well %q: segment %d: equation %d (%s): residual %g: %v\n", f.Well, f.Seg, f.Type, name, f.Value, f.Severity)
	}
}

// GetConvergence checks the well residual. Component residuals are converted to reservoir
// volumes with the average formation volume factors
func (o *Base) GetConvergence(relaxed bool) (rep *ConvergenceReport) {
	rep = new(ConvergenceReport)
	prm := o.Ctx.Param
	tolw, tolp := prm.ToleranceWells, prm.TolerancePressureMsWells
	if relaxed {
		tolw, tolp = prm.ToleranceWellsRelaxed, prm.TolerancePressureRelaxed
	}
	binv := o.Ctx.Res.AverageInvB()
	nw := o.L.NumEq
	for s := range o.Pv {
		for k, ph := range o.L.Pu.Phases {
			v := math.Abs(o.Eqs.Res[s*nw+k]) / binv[ph]
			rep.check(Failure{Type: MassBalance, Well: o.Cfg.Name, Seg: s, Phase: ph, Value: v}, tolw, prm.MaxResidualAllowed)
		}
		v := math.Abs(o.Eqs.Res[s*nw+o.L.Press])
		f := Failure{Type: Pressure, Well: o.Cfg.Name, Seg: s, Phase: -1, Value: v}
		tol := tolp
		if s == 0 {
			f.Type, tol = o.controlFailureType(), tolw
			if f.Type != ControlRate {
				tol = tolp
			}
		}
		rep.check(f, tol, prm.MaxResidualAllowed)
	}
	return
}

// controlFailureType returns the failure type of the control equation assembled last
func (o *Base) controlFailureType() FailureType {
	if o.Control == nil {
		return ControlRate
	}
	switch o.Control.Mode {
	case BHP:
		return ControlBHP
	case THP:
		return ControlTHP
	}
	return ControlRate
}
