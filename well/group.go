// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
)

// Member holds the data of a well needed by the group controller
type Member struct {
	Group      string                 // group of well
	Producer   bool                   // producer or injector
	InjPhase   int                    // injected phase
	UnderGrup  bool                   // current control is GRUP
	Efficiency float64                // efficiency factor
	GuideRate  float64                // guide rate; 0 => potentials
	Potentials [pvt.NumPhases]float64 // well potentials
	Rates      [pvt.NumPhases]float64 // surface rates
	Resv       float64                // reservoir voidage rate
}

// GroupState holds a snapshot of group rates computed from all wells. Production rates are
// negative. "Fixed" rates come from wells not under group control
type GroupState struct {
	Groups        []*inp.GroupData         // group hierarchy
	ProdSurf      [][pvt.NumPhases]float64 // produced surface rates
	ProdResv      []float64                // produced reservoir rates
	FixedProd     [][pvt.NumPhases]float64 // surface rates of producers with individual controls
	FixedProdResv []float64                // reservoir rates of producers with individual controls
	FixedInj      [][pvt.NumPhases]float64 // surface rates of injectors with individual controls
	FixedInjResv  []float64                // reservoir rates of injectors with individual controls
	GuideSum      []float64                // sum of guide rates of wells controlled by group
	gmap          map[string]int           // group name => index
}

// NewGroupState allocates a new group state
func NewGroupState(groups []*inp.GroupData) (o *GroupState) {
	n := len(groups)
	o = &GroupState{Groups: groups, gmap: make(map[string]int)}
	for i, g := range groups {
		o.gmap[g.Name] = i
	}
	o.ProdSurf = make([][pvt.NumPhases]float64, n)
	o.ProdResv = make([]float64, n)
	o.FixedProd = make([][pvt.NumPhases]float64, n)
	o.FixedProdResv = make([]float64, n)
	o.FixedInj = make([][pvt.NumPhases]float64, n)
	o.FixedInjResv = make([]float64, n)
	o.GuideSum = make([]float64, n)
	return
}

// Index returns the index of group name; -1 if not found
func (o *GroupState) Index(name string) int {
	if i, ok := o.gmap[name]; ok {
		return i
	}
	return -1
}

// Terminal returns the group controlling a well of group g; -1 if none.
// FLD passes control to the parent; NONE stops the search
func (o *GroupState) Terminal(g int, producer bool) int {
	for cur := g; cur >= 0; cur = o.Groups[cur].ParentIdx {
		grp := o.Groups[cur]
		switch {
		case grp.Mode == "NONE":
			return -1
		case grp.Mode == "FLD":
			continue
		case grp.Injection == !producer:
			return cur
		}
	}
	return -1
}

// guide returns the guide rate of member m in group t
func (o *GroupState) guide(m *Member, t int) float64 {
	if m.GuideRate > 0 {
		return m.GuideRate
	}
	ph := o.Groups[t].PhaseIdx
	if !m.Producer {
		ph = m.InjPhase
	}
	var g float64
	if ph >= 0 {
		g = math.Abs(m.Potentials[ph])
	} else {
		for _, p := range m.Potentials {
			g += math.Abs(p)
		}
	}
	if g == 0 {
		return 1
	}
	return g
}

// Update recomputes the group rates from all members
func (o *GroupState) Update(members []*Member) {
	for i := range o.Groups {
		o.ProdSurf[i] = [pvt.NumPhases]float64{}
		o.FixedProd[i] = [pvt.NumPhases]float64{}
		o.FixedInj[i] = [pvt.NumPhases]float64{}
		o.ProdResv[i], o.FixedProdResv[i], o.FixedInjResv[i], o.GuideSum[i] = 0, 0, 0, 0
	}
	for _, m := range members {
		g := o.Index(m.Group)
		if g < 0 {
			continue
		}
		if m.UnderGrup {
			if t := o.Terminal(g, m.Producer); t >= 0 {
				o.GuideSum[t] += o.guide(m, t)
			}
		}
		eff := m.Efficiency
		for cur := g; cur >= 0; cur = o.Groups[cur].ParentIdx {
			for ph := 0; ph < pvt.NumPhases; ph++ {
				q := eff * m.Rates[ph]
				if m.Producer {
					o.ProdSurf[cur][ph] += q
					if !m.UnderGrup {
						o.FixedProd[cur][ph] += q
					}
				} else if !m.UnderGrup {
					o.FixedInj[cur][ph] += q
				}
			}
			if m.Producer {
				o.ProdResv[cur] += eff * m.Resv
				if !m.UnderGrup {
					o.FixedProdResv[cur] += eff * m.Resv
				}
			} else if !m.UnderGrup {
				o.FixedInjResv[cur] += eff * m.Resv
			}
			eff *= o.Groups[cur].Efficiency
		}
	}
}

// WellTarget converts the group control of member m into an individual rate control.
// ok is false if no group above the well is under active control
func (o *GroupState) WellTarget(m *Member) (ctrl *Control, ok bool) {
	g := o.Index(m.Group)
	if g < 0 {
		return nil, false
	}
	t := o.Terminal(g, m.Producer)
	if t < 0 {
		return nil, false
	}
	grp := o.Groups[t]

	// share of the well and efficiency factors along the chain
	share := 1.0
	if o.GuideSum[t] > 0 {
		share = o.guide(m, t) / o.GuideSum[t]
	}
	eff := m.Efficiency
	for cur := g; cur != t; cur = o.Groups[cur].ParentIdx {
		eff *= o.Groups[cur].Efficiency
	}

	ctrl = &Control{Key: "GRUP"}
	var unmet float64
	switch grp.Mode {
	case "RATE":
		ctrl.Mode = SurfaceRate
		if m.Producer {
			ph := grp.PhaseIdx
			if ph < 0 {
				ctrl.Distr[pvt.Water], ctrl.Distr[pvt.Oil] = 1, 1
			} else {
				ctrl.Distr[ph] = 1
			}
			var fixed float64
			for p, d := range ctrl.Distr {
				fixed += d * o.FixedProd[t][p]
			}
			unmet = grp.Target - math.Abs(fixed)
		} else {
			ctrl.Distr[m.InjPhase] = 1
			unmet = grp.Target - o.FixedInj[t][m.InjPhase]
		}
	case "RESV":
		ctrl.Mode = Resv
		if m.Producer {
			ctrl.Distr = [pvt.NumPhases]float64{1, 1, 1}
			unmet = grp.Target - math.Abs(o.FixedProdResv[t])
		} else {
			ctrl.Distr[m.InjPhase] = 1
			unmet = grp.Target - o.FixedInjResv[t]
		}
	case "REIN":
		ctrl.Mode = SurfaceRate
		ctrl.Distr[m.InjPhase] = 1
		unmet = grp.Target*math.Abs(o.ProdSurf[t][m.InjPhase]) - o.FixedInj[t][m.InjPhase]
	case "VREP":
		ctrl.Mode = Resv
		ctrl.Distr[m.InjPhase] = 1
		unmet = grp.Target*math.Abs(o.ProdResv[t]) - o.FixedInjResv[t]
	case "SALE":
		ctrl.Mode = SurfaceRate
		ctrl.Distr[m.InjPhase] = 1
		unmet = math.Abs(o.ProdSurf[t][pvt.Gas]) - grp.Target - o.FixedInj[t][m.InjPhase]
	default:
		return nil, false
	}
	ctrl.Target = math.Max(unmet, 0) * share / eff
	if m.Producer {
		ctrl.Target = -ctrl.Target
	}
	return ctrl, true
}
