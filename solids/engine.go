// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solids

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/grid"
	"github.com/cpmech/trex/stack"
	"github.com/cpmech/trex/water"
)

// waterDensity is rho_w, kg/m^3, used throughout the bed-exchange kinetics.
const waterDensity = 1000.0

// Engine couples the solids classes, per-soil erosion parameters, the grid
// topology/water engine and the per-cell/node stacks into the sediment
// transport step of spec §4.5.
type Engine struct {
	Grid    *grid.Grid
	Net     *grid.Network
	Water   *water.Engine
	Classes []Class
	Erosion []ErosionParams // indexed the same as e.Grid.SoilType / e.Water.LandUse
	Yields  []Yield         // overland reaction-yield pathways, spec supplement

	OverlandStacks map[int]*stack.Stack   // grid cell index -> stack
	ChannelStacks  map[[2]int]*stack.Stack // [link,node] -> stack

	DispersionCoef float64 // overland dispersion coefficient, m^2/s

	Conc    *OverlandConc
	ChanConc *ChannelConc
	Flux    *FluxAccum

	// per-step accumulators, read by package report after each accepted step
	ErosionMass    []float64 // per class, kg
	DepositionMass []float64 // per class, kg
}

// NewEngine allocates an Engine bound to the given water.Engine and
// populated with zero-valued concentration/flux state.
func NewEngine(w *water.Engine, classes []Class, erosion []ErosionParams) *Engine {
	g := w.Grid
	n := g.NRows * g.NCols
	var nodesPerLink []int
	if w.Net != nil {
		for _, l := range w.Net.Links {
			nodesPerLink = append(nodesPerLink, len(l.Nodes))
		}
	}
	nc := len(classes)
	return &Engine{
		Grid: g, Net: w.Net, Water: w, Classes: classes, Erosion: erosion,
		OverlandStacks: make(map[int]*stack.Stack),
		ChannelStacks:  make(map[[2]int]*stack.Stack),
		DispersionCoef: 0,
		Conc:           NewOverlandConc(nc, n),
		ChanConc:       NewChannelConc(nc, nodesPerLink),
		Flux:           NewFluxAccum(nc, n),
		ErosionMass:    make([]float64, nc),
		DepositionMass: make([]float64, nc),
	}
}

// overlandShear returns the bed shear stress tau = rho_w * g * h * Sf at an
// overland cell, approximating the friction slope with the cell's local bed
// slope toward its steepest downhill neighbor (spec §4.5 "shear stress
// driving deposition/erosion").
func (e *Engine) overlandShear(idx int) float64 {
	g := e.Grid
	h := e.Water.State.Depth[idx]
	if h <= 0 {
		return 0
	}
	i, j := g.RowCol(idx)
	maxSlope := 0.0
	for _, nb := range g.Neighbors(i, j) {
		nbIdx := g.Index(nb.I, nb.J)
		s := (g.Elev[idx] - g.Elev[nbIdx]) / g.CellSize
		if s > maxSlope {
			maxSlope = s
		}
	}
	return waterDensity * 9.81 * h * maxSlope
}

// channelShear returns the bed shear stress at a channel node, tau = rho_w
// * g * R * Sf, using the friction slope already computed by the water
// engine's most recent routing pass.
func (e *Engine) channelShear(k, n int) float64 {
	node := e.Net.Links[k].Nodes[n]
	h := e.Water.Channel.Depth[k][n]
	if h <= 0 {
		return 0
	}
	R := hydraulicRadius(node.BottomW, node.SideSlope, h)
	Sf := e.Water.Channel.Sf[k][n]
	if Sf < 0 {
		Sf = 0
	}
	return waterDensity * 9.81 * R * Sf
}

// hydraulicRadius duplicates water's unexported geometry helper; kept local
// since package water does not export it.
func hydraulicRadius(bw, s, h float64) float64 {
	p := bw + 2*h*math.Sqrt(1+s*s)
	if p <= 0 {
		return 0
	}
	return h * (bw + s*h) / p
}

// Step advances every class's water-column concentration by one accepted
// trial ∆t, using the overland and channel fluxes the water engine computed
// from the same old state (spec §5 "solids fluxes computed on pre-step
// depths/concentrations"). It then applies the net deposition/erosion volume
// to the top layer of the corresponding stack through VolumeChange. It does
// not update any layer's GSD and does not call ApplyPending, so this step
// never pushes or pops stack layers.
func (e *Engine) Step(dt float64, ovFluxes map[int][]water.OverlandFlux, chFluxes []water.ChannelFlux) error {
	if e.Grid == nil {
		return chk.Err("solids: engine has no grid")
	}
	e.Flux.Reset()
	for s := range e.ErosionMass {
		e.ErosionMass[s] = 0
		e.DepositionMass[s] = 0
	}

	area := e.Grid.CellSize * e.Grid.CellSize
	newConc := e.Conc.Clone()

	for idx, m := range e.Grid.Mask {
		if m == grid.NoDataCell {
			continue
		}
		vol := e.Water.State.Depth[idx] * area
		tau := e.overlandShear(idx)
		stk := e.OverlandStacks[idx]

		yieldedIn := make([]float64, len(e.Classes)) // rate, kg/s, indexed by target class

		for s, cl := range e.Classes {
			c := e.Conc.At(s, idx)

			// advective + dispersive exchange with cardinal neighbors, donor
			// concentration taken from the upstream (old-state) cell.
			var influx, outflux float64
			for _, f := range ovFluxes[idx] {
				if f.Q > 0 {
					outflux += f.Q * c
				} else {
					influx += -f.Q * e.Conc.At(s, f.ToIdx)
				}
				if e.DispersionCoef > 0 {
					disp := e.DispersionCoef * area / e.Grid.CellSize * (c - e.Conc.At(s, f.ToIdx))
					if disp > 0 {
						outflux += disp
					} else {
						influx += -disp
					}
				}
			}

			// deposition: a fraction of the suspended mass settles per unit time
			// at rate w_s, modulated by the shear-dependent probability (spec
			// §4.5 "deposition").
			depRate := 0.0
			if vol > 0 {
				p := PDeposition(cl, tau)
				depRate = p * cl.SettlingVelocity * area * c
			}

			// erosion: bed material entrained into the water column, drawn
			// from the corresponding soil/land-use erosion parameters and
			// capped by the mass available in the top stack layer.
			eroRate := e.erosionRate(idx, s, cl, tau, stk)

			// reaction yield: part of the eroded mass of class s converts
			// into another class instead of entering suspension as s (spec
			// supplement, OverlandSolidsKinetics).
			divertedRate := 0.0
			for _, y := range e.Yields {
				if y.From != s {
					continue
				}
				d := eroRate * y.Fraction
				divertedRate += d
				yieldedIn[y.To] += d
			}
			suspendRate := eroRate - divertedRate

			totalOut := outflux + depRate
			available := c * vol
			if totalOut*dt > available && totalOut > 0 {
				scale := available / (totalOut * dt)
				outflux *= scale
				depRate *= scale
				totalOut = outflux + depRate
			}

			dMass := (influx + suspendRate - totalOut) * dt
			newVol := vol // overland depth already committed by the water step
			var newC float64
			if newVol > 0 {
				newC = (c*vol + dMass) / newVol
			}
			if newC < 0 {
				newC = 0
			}
			newConc.Set(s, idx, newC)

			e.Flux.Add(s, idx, SrcLoad, eroRate*dt)
			e.ErosionMass[s] += eroRate * dt
			e.DepositionMass[s] += depRate * dt

			if stk != nil {
				dVolClass := (eroRate - depRate) * dt / stk.Top().BulkDensity(cl.SpecificGravity, waterDensity)
				stk.VolumeChange(-dVolClass)
			}
		}

		if vol > 0 {
			for toClass, rate := range yieldedIn {
				if rate == 0 {
					continue
				}
				add := rate * dt
				newConc.Set(toClass, idx, newConc.At(toClass, idx)+add/vol)
				e.ErosionMass[toClass] += add
			}
		}
	}
	e.Conc = newConc

	e.stepChannel(dt, chFluxes)
	return nil
}

// erosionRate returns the bed-to-water-column entrainment rate (kg/s) for
// class s at cell idx, using either the transport-capacity or excess-shear
// formulation selected by the cell's soil/land-use erosion parameters (spec
// §4.5 "erosion").
func (e *Engine) erosionRate(idx int, s int, cl Class, tau float64, stk *stack.Stack) float64 {
	soilID := e.Grid.SoilType[idx]
	if soilID >= len(e.Erosion) {
		return 0
	}
	ep := e.Erosion[soilID]
	if tau <= cl.CritShearEro {
		return 0
	}
	var rate float64
	switch {
	case ep.Option == ErosionCapacity:
		area := e.Grid.CellSize * e.Grid.CellSize
		Q := e.Water.State.Depth[idx] * area // local discharge proxy, m^3/s at unit hydraulic gradient
		// friction slope recovered from tau = rho*g*h*Sf (tau > 0 implies h > 0 here)
		sf := tau / (waterDensity * 9.81 * e.Water.State.Depth[idx])
		qs := ep.K * math.Pow(Q, ep.BetaS) * math.Pow(sf, ep.GammaS) * (1 - ep.BareFraction)
		weight := math.Pow(cl.MeanDiameter, ep.TCWExp)
		rate = qs * weight
	default: // excess shear, any Option > 2
		rate = ep.AY * math.Pow(tau-cl.CritShearEro, ep.MExp)
	}
	rate *= cl.AgingFactor
	if rate < 0 {
		rate = 0
	}
	if stk != nil {
		top := stk.Top()
		available := top.Volume * top.GSD[s] * top.BulkDensity(cl.SpecificGravity, waterDensity)
		if rate > available && available >= 0 {
			rate = available
		}
	}
	return rate
}

// stepChannel advances channel-node concentrations the same way as
// overland cells, reusing the channel fluxes computed by the water engine.
func (e *Engine) stepChannel(dt float64, chFluxes []water.ChannelFlux) {
	if e.Net == nil {
		return
	}
	outflow := make(map[[2]int]float64)
	for _, f := range chFluxes {
		outflow[[2]int{f.K, f.N}] += f.Q
	}
	newChan := e.ChanConc.Clone()
	for k, l := range e.Net.Links {
		for n, node := range l.Nodes {
			h := e.Water.Channel.Depth[k][n]
			vol := h * (node.BottomW + node.SideSlope*h) * node.Length
			tau := e.channelShear(k, n)
			stk := e.ChannelStacks[[2]int{k, n}]

			for s, cl := range e.Classes {
				c := e.ChanConc.C[s][k][n]
				q := outflow[[2]int{k, n}]
				outflux := q * c

				depRate := 0.0
				if vol > 0 {
					p := PDeposition(cl, tau)
					depRate = p * cl.SettlingVelocity * (node.BottomW + node.SideSlope*h) * node.Length * c
				}
				eroRate := e.channelErosionRate(k, n, s, cl, tau, stk)

				available := c * vol
				total := outflux + depRate
				if total*dt > available && total > 0 {
					scale := available / (total * dt)
					outflux *= scale
					depRate *= scale
				}

				var influx float64
				for _, up := range e.Net.Upstream(k, n) {
					influx += outflow[[2]int{up[0], up[1]}] * e.ChanConc.C[s][up[0]][up[1]]
				}

				dMass := (influx + eroRate - outflux - depRate) * dt
				var newC float64
				if vol > 0 {
					newC = (c*vol + dMass) / vol
				}
				if newC < 0 {
					newC = 0
				}
				newChan.C[s][k][n] = newC

				if stk != nil {
					dVolClass := (eroRate - depRate) * dt / stk.Top().BulkDensity(cl.SpecificGravity, waterDensity)
					stk.VolumeChange(-dVolClass)
				}
			}
		}
	}
	e.ChanConc = newChan
}

// channelErosionRate is the channel-node counterpart of erosionRate, using
// the link's own erosion parameters (indexed by soil type the same way as
// overland cells, keyed off the node's originating cell). Its
// transport-capacity branch has no discharge (Q^BetaS) term and no
// BareFraction factor.
func (e *Engine) channelErosionRate(k, n, s int, cl Class, tau float64, stk *stack.Stack) float64 {
	node := e.Net.Links[k].Nodes[n]
	soilID := e.Grid.SoilType[node.CellIdx]
	if soilID >= len(e.Erosion) {
		return 0
	}
	ep := e.Erosion[soilID]
	if tau <= cl.CritShearEro {
		return 0
	}
	var rate float64
	if ep.Option == ErosionCapacity {
		sf := math.Max(e.Water.Channel.Sf[k][n], 0)
		rate = ep.K * math.Pow(sf, ep.GammaS) * math.Pow(cl.MeanDiameter, ep.TCWExp)
	} else {
		rate = ep.AY * math.Pow(tau-cl.CritShearEro, ep.MExp)
	}
	rate *= cl.AgingFactor
	if rate < 0 {
		rate = 0
	}
	if stk != nil {
		top := stk.Top()
		available := top.Volume * top.GSD[s] * top.BulkDensity(cl.SpecificGravity, waterDensity)
		if rate > available && available >= 0 {
			rate = available
		}
	}
	return rate
}
