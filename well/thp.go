// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/totto82/opm-autodiff-sub000/ad"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/mdl/vfp"
)

// constants of THP solvers
const (
	ThpBhpTol     = 1000.0 // tolerance on BHP [Pa]
	ThpDamping    = 0.001  // weight of the previous rates in the fixed point iterations
	ThpBisectIter = 100    // maximum number of bisection iterations per flow sample
	ThpRegulaIter = 100    // maximum number of regula falsi iterations
	ThpInjSamples = 20     // number of BHP samples for injectors
)

// reasons of failed robust solves
const (
	ReasonInoperable = "FAILED_ROBUST_BHP_THP_SOLVE_INOPERABLE"
	ReasonBracketing = "FAILED_ROBUST_BHP_THP_SOLVE_BRACKETING_FAILURE"
)

// BhpResult holds the result of a BHP solve at THP limit. Ok is false if no solution was found
type BhpResult struct {
	Bhp    float64 // solution
	Ok     bool    // a solution was found
	Reason string  // tag of failure
}

// ThpProblem defines the functions of the robust BHP solvers: the well rates with frozen
// reservoir as a function of BHP and the lift curve BHP as a function of rates
type ThpProblem struct {
	Rates    func(bhp float64) ([pvt.NumPhases]float64, error)   // well rates at bhp
	Fbhp     func(rates [pvt.NumPhases]float64) (float64, error) // BHP from lift curve at THP limit
	Flo      func(rates [pvt.NumPhases]float64) float64          // flow rate; positive in the direction of the well type
	FloAxis  []float64                                           // flow samples
	BhpLimit float64                                             // BHP limit
	BhpBound float64                                             // BHP with zero inflow
}

// diff returns fbhp(rates(bhp)) - bhp and the flow at bhp
func (o *ThpProblem) diff(bhp float64) (g, flo float64, err error) {
	rates, err := o.Rates(bhp)
	if err != nil {
		return
	}
	fb, err := o.Fbhp(rates)
	if err != nil {
		return
	}
	return fb - bhp, o.Flo(rates), nil
}

// SolveBhpAtThpLimitProd finds the BHP of a producer operating at its THP limit.
// Flow samples of the lift curve are converted to BHP values by bisection on the inflow relation;
// the highest-flow sign change of fbhp - bhp is refined by regula falsi
func SolveBhpAtThpLimitProd(pb *ThpProblem) (res BhpResult) {

	// operability
	_, fmax, err := pb.diff(pb.BhpLimit)
	if err != nil || fmax <= 0 {
		return BhpResult{Reason: ReasonInoperable}
	}

	// bhp samples in increasing order; i.e. decreasing flow
	bhps := []float64{pb.BhpLimit}
	axis := append([]float64{}, pb.FloAxis...)
	sort.Sort(sort.Reverse(sort.Float64Slice(axis)))
	for _, f := range axis {
		if f <= 0 || f >= fmax {
			continue
		}
		b, e := bisectFlow(pb, f)
		if e != nil {
			return BhpResult{Reason: ReasonBracketing}
		}
		bhps = append(bhps, b)
	}
	if pb.BhpBound > pb.BhpLimit {
		bhps = append(bhps, pb.BhpBound)
	}
	return bracketAndRefine(pb, bhps)
}

// SolveBhpAtThpLimitInj finds the BHP of an injector operating at its THP limit. BHP is sampled
// uniformly from the limit down to the zero-inflow pressure
func SolveBhpAtThpLimitInj(pb *ThpProblem) (res BhpResult) {
	_, fmax, err := pb.diff(pb.BhpLimit)
	if err != nil || fmax <= 0 {
		return BhpResult{Reason: ReasonInoperable}
	}
	lo := math.Min(pb.BhpBound, pb.BhpLimit)
	bhps := utl.LinSpace(pb.BhpLimit, lo, ThpInjSamples)
	return bracketAndRefine(pb, bhps)
}

// bisectFlow finds the BHP producing flow f
func bisectFlow(pb *ThpProblem, f float64) (bhp float64, err error) {
	lo, hi := pb.BhpLimit, pb.BhpBound
	for it := 0; it < ThpBisectIter; it++ {
		bhp = (lo + hi) / 2
		rates, e := pb.Rates(bhp)
		if e != nil {
			return 0, e
		}
		fm := pb.Flo(rates)
		if math.Abs(fm-f) <= 1e-10*math.Max(1, f) || hi-lo < 1e-6 {
			return
		}
		if fm > f {
			lo = bhp
		} else {
			hi = bhp
		}
	}
	return
}

// bracketAndRefine evaluates fbhp - bhp at the samples (ordered by decreasing flow), takes the
// first sign change and refines it
func bracketAndRefine(pb *ThpProblem, bhps []float64) (res BhpResult) {
	g := make([]float64, len(bhps))
	for i, b := range bhps {
		var err error
		if g[i], _, err = pb.diff(b); err != nil {
			return BhpResult{Reason: ReasonBracketing}
		}
		if g[i] == 0 {
			return BhpResult{Bhp: b, Ok: true}
		}
		if i > 0 && g[i-1]*g[i] < 0 {
			return regulaFalsi(pb, bhps[i-1], bhps[i], g[i-1], g[i])
		}
	}
	return BhpResult{Reason: ReasonBracketing}
}

// regulaFalsi refines a bracketed root of fbhp(rates(bhp)) - bhp (Illinois variant)
func regulaFalsi(pb *ThpProblem, a, b, ga, gb float64) (res BhpResult) {
	for it := 0; it < ThpRegulaIter; it++ {
		c := b - gb*(b-a)/(gb-ga)
		gc, _, err := pb.diff(c)
		if err != nil {
			return BhpResult{Reason: ReasonBracketing}
		}
		if math.Abs(gc) < ThpBhpTol || math.Abs(b-a) < 1e-6 {
			return BhpResult{Bhp: c, Ok: true}
		}
		if gc*gb < 0 {
			a, ga = b, gb
		} else {
			ga /= 2
		}
		b, gb = c, gc
	}
	return BhpResult{Reason: ReasonBracketing}
}

// well methods ////////////////////////////////////////////////////////////////////////////////////

// thpControl returns the THP control of the well; nil if none
func (o *Base) thpControl() *Control {
	for _, c := range o.Cfg.Controls {
		if c.Mode == THP {
			return c
		}
	}
	return nil
}

// zeroInflowBhp returns the BHP where the drawdown of all perforations vanishes (producers: the
// largest; injectors: the smallest)
func (o *Base) zeroInflowBhp() (bhp float64) {
	r := o.Ctx.Res
	bhp = math.Inf(-1)
	if !o.Cfg.Producer {
		bhp = math.Inf(1)
	}
	for p, perf := range o.Cfg.Perfs {
		pc := r.Quantities(perf.Cell).Pressure.V + o.CellPerfDiff[p]
		b := pc - o.impl.PerfPressureAtBhp(p, 0)
		if o.Cfg.Producer {
			bhp = math.Max(bhp, b)
		} else {
			bhp = math.Min(bhp, b)
		}
	}
	return
}

// ThpProblem returns the functions of the robust BHP solvers for the THP control ctrl
func (o *Base) ThpProblem(ctrl *Control) (pb *ThpProblem, err error) {
	pb = &ThpProblem{BhpLimit: o.Cfg.BhpLimit(), BhpBound: o.zeroInflowBhp()}
	pb.Rates = o.RatesWithBhp
	pb.Fbhp = func(rates [pvt.NumPhases]float64) (float64, error) {
		return o.bhpFromThpAt(rates, ctrl.Target, ctrl.Vfp, ctrl.Alq)
	}
	var typ vfp.FloType
	sign := 1.0
	if o.Cfg.Producer {
		t, e := o.Ctx.Vfp.Prod(ctrl.Vfp)
		if e != nil {
			return nil, logicErr(o.Cfg.Name, "%v", e)
		}
		typ, pb.FloAxis, sign = t.FloType, t.Flo, -1
	} else {
		t, e := o.Ctx.Vfp.Inj(ctrl.Vfp)
		if e != nil {
			return nil, logicErr(o.Cfg.Name, "%v", e)
		}
		typ, pb.FloAxis = t.FloType, t.Flo
	}
	pb.Flo = func(rates [pvt.NumPhases]float64) float64 {
		f := vfp.Flo(ad.Const(rates[pvt.Water]), ad.Const(rates[pvt.Oil]), ad.Const(rates[pvt.Gas]), typ)
		return sign * f.V
	}
	return
}

// PotentialsWithThpFixedPoint computes the well potentials with a THP limit by fixed point
// iterations on the rates. Non-convergence is an error
func (o *Base) PotentialsWithThpFixedPoint(ctrl *Control) (rates [pvt.NumPhases]float64, err error) {
	limit := o.Cfg.BhpLimit()
	if rates, err = o.RatesWithBhp(limit); err != nil {
		return
	}
	bhpOld := limit
	for it := 0; it < o.Ctx.Param.ThpIterMax; it++ {
		bhp, e := o.bhpFromThpAt(rates, ctrl.Target, ctrl.Vfp, ctrl.Alq)
		if e != nil {
			return rates, e
		}
		bhp = o.clampBhp(bhp)
		next, e := o.RatesWithBhp(bhp)
		if e != nil {
			return rates, e
		}
		for ph := range rates {
			rates[ph] = (1-ThpDamping)*next[ph] + ThpDamping*rates[ph]
		}
		if math.Abs(bhp-bhpOld) < ThpBhpTol {
			return
		}
		bhpOld = bhp
	}
	return rates, chk.Err("well %q: potentials with THP limit did not converge after %d iterations", o.Cfg.Name, o.Ctx.Param.ThpIterMax)
}

// BhpAtThpLimit solves for the BHP of the well operating at the THP control ctrl with the robust
// solvers. The BHP limit is returned if no solution exists
func (o *Base) BhpAtThpLimit(ctrl *Control) (bhp float64, err error) {
	pb, err := o.ThpProblem(ctrl)
	if err != nil {
		return
	}
	var res BhpResult
	if o.Cfg.Producer {
		res = SolveBhpAtThpLimitProd(pb)
	} else {
		res = SolveBhpAtThpLimitInj(pb)
	}
	if !res.Ok {
		o.Warning(res.Reason, "THP limit %g", ctrl.Target)
		o.Warning("NO_THP_SOLUTION_USING_BHP_LIMIT", "BHP limit %g", pb.BhpLimit)
		return pb.BhpLimit, nil
	}
	return o.clampBhp(res.Bhp), nil
}

// ComputeWellPotentials computes the rates of the well with the most restrictive pressure
// constraint and stores them in the well state
func (o *Base) ComputeWellPotentials() (rates [pvt.NumPhases]float64, err error) {
	ctrl := o.thpControl()
	if ctrl == nil || o.Ctx.Vfp == nil {
		rates, err = o.RatesWithBhp(o.Cfg.BhpLimit())
	} else {
		rates, err = o.impl.PotentialsWithThp(ctrl)
	}
	if err != nil {
		return
	}
	o.St.Potentials = rates
	return
}
