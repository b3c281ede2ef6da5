// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim wires the grid, water, solids, stack and forcing pieces into
// the single stepper that package integrator drives (spec §5 "per-step
// ordering") and owns the run-level mass-balance bookkeeping (spec §4.7).
// It plays the role the teacher's package fem plays for gofem: the
// top-level object a CLI constructs once per run and then drives to
// completion.
package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/chem"
	"github.com/cpmech/trex/grid"
	"github.com/cpmech/trex/inp"
	"github.com/cpmech/trex/integrator"
	"github.com/cpmech/trex/report"
	"github.com/cpmech/trex/solids"
	"github.com/cpmech/trex/stack"
	"github.com/cpmech/trex/water"
)

// TREX is the orchestrator: one instance per run, built once by Setup and
// then driven to completion by Run. It implements integrator.Stepper so
// package integrator can Backup/Restore/Step it without knowing about
// water, solids or stack internals.
type TREX struct {
	Grid *grid.Grid
	Net  *grid.Network

	Water  *water.Engine
	Solids *solids.Engine

	Loads    []inp.ForcingRecord
	Boundary *inp.BoundaryConditions
	Reactor  chem.Reactor

	Accum   *report.Accumulators
	Writers *report.Writers

	// backup, populated by Backup and consumed by Restore (spec §4.6
	// "reject a trial step and restore the pre-step snapshot")
	backupWater       *water.OverlandState
	backupChannel     *water.ChannelState
	backupBoundaryOut float64
	backupBoundaryIn  float64
	backupConc        *solids.OverlandConc
	backupChanConc    *solids.ChannelConc
	backupOvStacks    map[int]*stack.Stack
	backupChStacks    map[[2]int]*stack.Stack

	// lastChFluxes is the most recent accepted step's channel fluxes,
	// read by recordOutletDischarge to update per-outlet peak discharge.
	lastChFluxes []water.ChannelFlux
}

// Setup assembles a TREX from its already-built pieces: the CLI (package
// main) is responsible for reading the input files via package inp and
// handing over plain values here, keeping package sim free of file I/O.
func Setup(g *grid.Grid, net *grid.Network, landUse []water.LandUse, soil []water.SoilType,
	outlets map[int]*water.Outlet, classes []solids.Class, erosion []solids.ErosionParams, dispersion float64,
	ovStacks map[int]*stack.Stack, chStacks map[[2]int]*stack.Stack,
	loads []inp.ForcingRecord, boundary *inp.BoundaryConditions, reactor chem.Reactor, yields []solids.Yield) (*TREX, error) {

	if g == nil {
		return nil, chk.Err("sim: a grid is required")
	}
	if reactor == nil {
		reactor = chem.NilReactor{}
	}

	w := water.NewEngine(g, net, landUse, soil)
	if outlets != nil {
		w.Outlets = outlets
	}
	s := solids.NewEngine(w, classes, erosion)
	s.DispersionCoef = dispersion
	s.OverlandStacks = ovStacks
	s.ChannelStacks = chStacks
	s.Yields = yields

	t := &TREX{
		Grid: g, Net: net, Water: w, Solids: s,
		Loads: loads, Boundary: boundary, Reactor: reactor,
		Accum: report.NewAccumulators(len(classes)),
	}
	return t, nil
}

// Backup snapshots every piece of mutable state a trial step can touch
// (spec §4.6).
func (t *TREX) Backup() {
	t.backupWater = t.Water.State.Clone()
	t.backupChannel = t.Water.Channel.Clone()
	t.backupBoundaryOut = t.Water.BoundaryOutVolume
	t.backupBoundaryIn = t.Water.BoundaryInVolume
	t.backupConc = t.Solids.Conc.Clone()
	t.backupChanConc = t.Solids.ChanConc.Clone()
	t.backupOvStacks = make(map[int]*stack.Stack, len(t.Solids.OverlandStacks))
	for k, v := range t.Solids.OverlandStacks {
		t.backupOvStacks[k] = v.Clone()
	}
	t.backupChStacks = make(map[[2]int]*stack.Stack, len(t.Solids.ChannelStacks))
	for k, v := range t.Solids.ChannelStacks {
		t.backupChStacks[k] = v.Clone()
	}
}

// Restore undoes a rejected trial step by putting back the last Backup
// snapshot (spec §4.6).
func (t *TREX) Restore() {
	t.Water.State = t.backupWater
	t.Water.Channel = t.backupChannel
	t.Water.BoundaryOutVolume = t.backupBoundaryOut
	t.Water.BoundaryInVolume = t.backupBoundaryIn
	t.Solids.Conc = t.backupConc
	t.Solids.ChanConc = t.backupChanConc
	t.Solids.OverlandStacks = t.backupOvStacks
	t.Solids.ChannelStacks = t.backupChStacks
}

// Step advances water and solids by one trial ∆t and returns the larger of
// the overland/channel Courant numbers so package integrator can accept or
// reject the step (spec §4.4, §4.5, §4.6, §5 "derivative-then-integrate").
func (t *TREX) Step(tNow, dt float64) (float64, error) {
	ovFluxes, chFluxes, err := t.Water.Step(tNow, dt)
	if err != nil {
		return 0, err
	}

	t.applyLoads(tNow, dt)
	t.applyBoundary(tNow)

	if err := t.Solids.Step(dt, ovFluxes, chFluxes); err != nil {
		return 0, err
	}

	delta, err := t.Reactor.React(dt, len(t.Solids.Classes), t.Grid.NRows*t.Grid.NCols, t.Solids.Conc.C)
	if err != nil {
		return 0, err
	}
	for i, d := range delta {
		t.Solids.Conc.C[i] += d
	}

	t.lastChFluxes = chFluxes
	return t.courant(dt), nil
}

// applyLoads injects the external point/distributed sediment loads
// (spec §6 "Forcing function records") directly into the water-column
// concentration of the target cells, ahead of the solids advection step.
func (t *TREX) applyLoads(tNow, dt float64) {
	area := t.Grid.CellSize * t.Grid.CellSize
	for _, rec := range t.Loads {
		idx := t.Grid.Index(rec.Row, rec.Col)
		if t.Grid.Mask[idx] == grid.NoDataCell {
			continue
		}
		v := rec.Func.F(tNow, nil)
		vol := t.Water.State.Depth[idx] * area
		c := t.Solids.Conc.At(rec.Class, idx)
		switch rec.Option {
		case inp.ForcingLoad:
			massRate := v / 86400.0 // kg/day -> kg/s
			if vol > 0 {
				newC := (c*vol + massRate*dt) / vol
				t.Solids.Conc.Set(rec.Class, idx, newC)
			}
		case inp.ForcingConcentration:
			t.Solids.Conc.Set(rec.Class, idx, v/1000.0) // g/m^3 -> kg/m^3
		}
	}
}

// applyBoundary prescribes each outlet's inflow concentration (spec §6
// "Boundary conditions") by setting the concentration of every channel node
// with an outlet id. It runs before the solids step, so the value set here
// is that node's starting concentration for the step's advection.
func (t *TREX) applyBoundary(tNow float64) {
	if t.Boundary == nil || t.Net == nil {
		return
	}
	for li, l := range t.Net.Links {
		for ni, node := range l.Nodes {
			if node.OutletID < 0 {
				continue
			}
			for cls := range t.Solids.Classes {
				if _, ok := t.Boundary.Conc[node.OutletID]; !ok {
					continue
				}
				c := t.Boundary.Concentration(node.OutletID, cls, tNow)
				t.Solids.ChanConc.C[cls][li][ni] = c
			}
		}
	}
}

// courant returns max(C_overland, C_channel) over every active flux this
// step, the value package integrator compares against MaxCourant.
func (t *TREX) courant(dt float64) float64 {
	cellDx := t.Grid.CellSize
	maxC := 0.0
	for idx, h := range t.Water.State.Depth {
		if h <= 1e-9 {
			continue
		}
		for _, f := range t.overlandFluxVelocities(idx, h) {
			if c := integrator.CourantNumber(f, dt, cellDx); c > maxC {
				maxC = c
			}
		}
	}
	if t.Net != nil {
		for k, l := range t.Net.Links {
			for n, node := range l.Nodes {
				h := t.Water.Channel.Depth[k][n]
				sf := t.Water.Channel.Sf[k][n]
				if h <= 1e-9 || node.Length <= 0 || sf <= 0 || node.Manning <= 0 {
					continue
				}
				area := node.BottomW*h + node.SideSlope*h*h
				wp := node.BottomW + 2*h*math.Sqrt(1+node.SideSlope*node.SideSlope)
				if area <= 0 || wp <= 0 {
					continue
				}
				r := area / wp
				v := (1.0 / node.Manning) * math.Pow(r, 2.0/3.0) * math.Sqrt(sf)
				if c := integrator.CourantNumber(v, dt, node.Length); c > maxC {
					maxC = c
				}
			}
		}
	}
	return maxC
}

// overlandFluxVelocities approximates the face velocities at cell idx from
// its current depth; used only to drive the Courant estimate, not the mass
// balance (which is computed from the exact volumetric fluxes in
// package water).
func (t *TREX) overlandFluxVelocities(idx int, h float64) []float64 {
	g := t.Grid
	i, j := g.RowCol(idx)
	var out []float64
	for _, nb := range g.Neighbors(i, j) {
		nbIdx := g.Index(nb.I, nb.J)
		if g.Mask[nbIdx] == grid.NoDataCell {
			continue
		}
		dz := (g.Elev[idx] + h) - (g.Elev[nbIdx] + t.Water.State.Depth[nbIdx])
		if dz <= 0 {
			continue
		}
		s := dz / g.CellSize
		v := (1.0 / 0.05) * math.Pow(h, 2.0/3.0) * math.Sqrt(s) // Manning-like magnitude, n=0.05 default proxy
		out = append(out, v)
	}
	return out
}
