// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solids

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/grid"
	"github.com/cpmech/trex/stack"
	"github.com/cpmech/trex/water"
)

func Test_solids01(tst *testing.T) {

	chk.PrintTitle("solids01: Gessler deposition probability decreases as shear increases")

	cl := Class{CritShearDep: 1.0, Cohesive: false}
	pLow := PDeposition(cl, 0.1)
	pHigh := PDeposition(cl, 10.0)
	if !(pLow > pHigh) {
		tst.Fatalf("expected deposition probability to fall as shear rises: low=%g high=%g", pLow, pHigh)
	}
	if pLow < 0 || pLow > 1 || pHigh < 0 || pHigh > 1 {
		tst.Fatalf("probability out of [0,1]: low=%g high=%g", pLow, pHigh)
	}
}

func Test_solids02(tst *testing.T) {

	chk.PrintTitle("solids02: Partheniades cohesive deposition saturates at 1 below critical shear")

	cl := Class{CritShearDep: 2.0, Cohesive: true}
	p := PDeposition(cl, 1.0)
	chk.Scalar(tst, "p == 1 when tau <= tau_cd", 1e-12, p, 1)

	pAbove := PDeposition(cl, 20.0)
	if pAbove >= 1 {
		tst.Fatalf("expected deposition probability to drop below 1 once shear exceeds tau_cd, got %g", pAbove)
	}
}

// isolatedCell builds a single-cell, no-outlet, no-channel domain so the
// solids engine sees zero advective exchange -- isolating the deposition
// kinetics (spec §8 scenario 3 "pure deposition").
func isolatedCell(depth float64) (*water.Engine, *stack.Stack) {
	g := grid.New(1, 1, 0, 0, 10)
	g.Mask[0] = grid.OverlandCell
	lu := []water.LandUse{{Manning: 0.03}}
	soil := []water.SoilType{{}}
	w := water.NewEngine(g, nil, lu, soil)
	w.State.Depth[0] = depth

	layer := &stack.Layer{Volume: 1000, Porosity: 0.4, GSD: []float64{1}, MinVol: 0, MaxVol: 1e9}
	s, err := stack.New([]*stack.Layer{layer}, false, 0)
	if err != nil {
		panic(err)
	}
	return w, s
}

func Test_solids03(tst *testing.T) {

	chk.PrintTitle("solids03: pure deposition decays the water-column concentration, spec §8 scenario 3")

	w, stk := isolatedCell(1.0)
	cl := Class{Cohesive: false, CritShearDep: 1e9, SettlingVelocity: 1e-4} // tau_cd huge -> p ~= 1 regardless of (zero) shear
	classes := []Class{cl}
	erosion := []ErosionParams{{Option: ErosionExcessShear, AY: 0, MExp: 1}} // no erosion source

	e := NewEngine(w, classes, erosion)
	e.OverlandStacks[0] = stk
	e.Conc.Set(0, 0, 1.0) // kg/m^3

	dt := 10.0
	c0 := e.Conc.At(0, 0)
	for step := 0; step < 5; step++ {
		if err := e.Step(dt, map[int][]water.OverlandFlux{}, nil); err != nil {
			tst.Fatalf("Step failed: %v", err)
		}
	}
	c5 := e.Conc.At(0, 0)
	if !(c5 < c0) {
		tst.Fatalf("expected concentration to decay under pure deposition: c0=%g c5=%g", c0, c5)
	}
	if c5 < 0 {
		tst.Fatalf("concentration must stay non-negative, got %g", c5)
	}
}

func Test_solids04(tst *testing.T) {

	chk.PrintTitle("solids04: excess-shear erosion rate grows with shear above the critical threshold, spec §8 scenario 4")

	cl := Class{CritShearEro: 1.0, AgingFactor: 1}
	ep := ErosionParams{Option: ErosionExcessShear, AY: 2.0, MExp: 1.5}

	g := grid.New(1, 1, 0, 0, 10)
	g.Mask[0] = grid.OverlandCell
	w := water.NewEngine(g, nil, []water.LandUse{{}}, []water.SoilType{{}})
	e := &Engine{Grid: g, Water: w, Classes: []Class{cl}, Erosion: []ErosionParams{ep}}

	rLow := e.erosionRate(0, 0, cl, 1.2, nil)
	rHigh := e.erosionRate(0, 0, cl, 5.0, nil)
	if !(rHigh > rLow) {
		tst.Fatalf("expected erosion rate to increase with shear: low=%g high=%g", rLow, rHigh)
	}
	rNone := e.erosionRate(0, 0, cl, 0.5, nil)
	chk.Scalar(tst, "no erosion below critical shear", 1e-15, rNone, 0)

	want := ep.AY * math.Pow(5.0-cl.CritShearEro, ep.MExp)
	chk.Scalar(tst, "excess-shear formula matches a_y*(tau-tau_ce)^m", 1e-9, rHigh, want)
}

func Test_solids05(tst *testing.T) {

	chk.PrintTitle("solids05: erosion is capped by the mass available in the top stack layer")

	cl := Class{CritShearEro: 0, AgingFactor: 1, SpecificGravity: 2.65}
	ep := ErosionParams{Option: ErosionExcessShear, AY: 1e6, MExp: 1} // would erode far more than the bed holds

	g := grid.New(1, 1, 0, 0, 10)
	g.Mask[0] = grid.OverlandCell
	w := water.NewEngine(g, nil, []water.LandUse{{}}, []water.SoilType{{}})
	e := &Engine{Grid: g, Water: w, Classes: []Class{cl}, Erosion: []ErosionParams{ep}}

	layer := &stack.Layer{Volume: 0.01, Porosity: 0.4, GSD: []float64{1}, MinVol: 0, MaxVol: 1e9}
	stk, err := stack.New([]*stack.Layer{layer}, false, 0)
	if err != nil {
		tst.Fatalf("stack.New failed: %v", err)
	}

	rate := e.erosionRate(0, 0, cl, 10.0, stk)
	available := layer.Volume * layer.GSD[0] * layer.BulkDensity(cl.SpecificGravity, waterDensity)
	if rate > available+1e-12 {
		tst.Fatalf("erosion rate %g exceeds available bed mass %g", rate, available)
	}
	chk.Scalar(tst, "erosion rate capped at available mass", 1e-9, rate, available)
}

func Test_solids06(tst *testing.T) {

	chk.PrintTitle("solids06: a reaction-yield pathway diverts eroded mass from one class into another")

	g := grid.New(1, 2, 0, 0, 10)
	for j := 0; j < 2; j++ {
		idx := g.Index(0, j)
		g.Mask[idx] = grid.OverlandCell
		g.Elev[idx] = 10 - float64(j)
	}
	w := water.NewEngine(g, nil, []water.LandUse{{}}, []water.SoilType{{}})
	w.State.Depth[g.Index(0, 0)] = 1.0 // head cell only: downhill slope toward (0,1) gives it shear, (0,1) stays dry

	from := Class{CritShearEro: 1.0, AgingFactor: 1}
	to := Class{CritShearEro: 1e9, AgingFactor: 1} // never erodes on its own: tau never reaches 1e9
	ep := ErosionParams{Option: ErosionExcessShear, AY: 1e-3, MExp: 1}

	e := NewEngine(w, []Class{from, to}, []ErosionParams{ep})
	e.Yields = []Yield{{From: 0, To: 1, Fraction: 0.5}}

	if err := e.Step(10.0, map[int][]water.OverlandFlux{}, nil); err != nil {
		tst.Fatalf("Step failed: %v", err)
	}

	c0 := e.Conc.At(0, g.Index(0, 0))
	c1 := e.Conc.At(1, g.Index(0, 0))
	if c1 <= 0 {
		tst.Fatalf("expected diverted mass to appear as class 1 concentration, got %g", c1)
	}
	if c0 <= 0 {
		tst.Fatalf("expected the undiverted half of eroded mass to remain as class 0, got %g", c0)
	}
	chk.Scalar(tst, "a 50%% yield splits eroded mass evenly between the two classes", 1e-9, c1, c0)
}
