// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package water

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/forcing"
	"github.com/cpmech/trex/grid"
)

func flatPlane(nrows, ncols int, w, slope float64) (*grid.Grid, *Engine) {
	g := grid.New(nrows, ncols, 0, 0, w)
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			idx := g.Index(i, j)
			g.Mask[idx] = grid.OverlandCell
			g.ElevInit[idx] = 100 - slope*float64(j)*w
			g.Elev[idx] = g.ElevInit[idx]
		}
	}
	for i := 0; i < nrows; i++ {
		g.OutletID[g.Index(i, ncols-1)] = 0
	}
	lu := []LandUse{{Manning: 0.03, InterceptionMax: 0}}
	soil := []SoilType{{Kh: 0, PsiF: 0, ThetaDefic: 0}}
	e := NewEngine(g, nil, lu, soil)
	return g, e
}

func Test_water01(tst *testing.T) {

	chk.PrintTitle("water01: rainfall mass balance over one step, spec §8 scenario 1 setup")

	g, e := flatPlane(2, 2, 10, 0.001)

	rain := forcing.NewSet()
	f, err := forcing.New([]float64{0, 10}, []float64{25.4, 25.4}, false) // constant 25.4 mm/h
	if err != nil {
		tst.Fatalf("forcing.New failed: %v", err)
	}
	rain.Add("uniform", f)
	e.Rain = rain
	e.UniformGauge = "uniform"

	dt := 60.0 // seconds
	before := totalOverlandVolume(g, e)
	e.RainfallInterception(0, dt)

	after := totalOverlandVolume(g, e)
	area := g.CellSize * g.CellSize * float64(g.NRows*g.NCols)
	expectedGain := 25.4 * mmPerHourToMPerSecond * dt * area
	chk.Scalar(tst, "rainfall volume added", 1e-9, after-before, expectedGain)
	chk.Scalar(tst, "accumulator matches", 1e-9, e.RainVolume, expectedGain)
}

func Test_water02(tst *testing.T) {

	chk.PrintTitle("water02: overland routing moves water downhill and caps outflow")

	g, e := flatPlane(1, 3, 10, 0.01)
	e.State.Depth[g.Index(0, 0)] = 0.05
	e.State.Depth[g.Index(0, 1)] = 0.0
	e.State.Depth[g.Index(0, 2)] = 0.0

	e.OverlandRouting(1.0)

	if e.State.Depth[g.Index(0, 1)] <= 0 {
		tst.Fatalf("expected water to flow downhill into the middle cell")
	}
	if e.State.Depth[g.Index(0, 0)] >= 0.05 {
		tst.Fatalf("expected the source cell to lose depth")
	}
	if e.State.Depth[g.Index(0, 0)] < 0 {
		tst.Fatalf("depth must stay non-negative")
	}
}

func Test_water03(tst *testing.T) {

	chk.PrintTitle("water03: Green-Ampt infiltration rate decreases as cumulative infiltration grows")

	soil := SoilType{Kh: 1e-6, PsiF: 0.1, ThetaDefic: 0.3}
	fEarly := infiltrationRate(soil, 1e-4, 1.0, 1.0)
	fLate := infiltrationRate(soil, 1.0, 1.0, 1.0)
	if !(fEarly > fLate) {
		tst.Fatalf("expected infiltration rate to decrease with cumulative infiltration: early=%g late=%g", fEarly, fLate)
	}
	if fLate < soil.Kh-1e-12 {
		tst.Fatalf("infiltration rate should approach Kh asymptotically, got %g < Kh=%g", fLate, soil.Kh)
	}
}

// -- test helpers -----------------------------------------------------------

func totalOverlandVolume(g *grid.Grid, e *Engine) float64 {
	area := g.CellSize * g.CellSize
	total := 0.0
	for idx, m := range g.Mask {
		if m == grid.NoDataCell {
			continue
		}
		total += e.State.Depth[idx] * area
	}
	return total
}
