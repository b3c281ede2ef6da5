// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package water

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/forcing"
	"github.com/cpmech/trex/grid"
)

// mmPerHourToMPerSecond converts a rainfall/snow intensity given in mm/h
// (spec §4.4 item 1) to m/s, the unit every internal rate uses.
const mmPerHourToMPerSecond = 1.0 / (1000.0 * 3600.0)

// Engine couples the grid topology, per-cell/node parameters and forcing
// functions into the water-transport step of spec §4.4.
type Engine struct {
	Grid    *grid.Grid
	Net     *grid.Network
	LandUse []LandUse
	Soil    []SoilType
	Outlets map[int]*Outlet

	// forcing: gauge assigned per cell (index into Rain/AirTemp sets), or a
	// single uniform gauge used by every cell when CellGauge is nil
	Rain      *forcing.Set // per-gauge rainfall intensity functions, mm/h
	AirTemp   *forcing.Set // per-gauge air temperature functions, deg C
	CellGauge []string     // len==ncells, name of the gauge driving each cell ("" -> UniformGauge)
	UniformGauge string

	InfiltrationOn     bool
	TransmissionLossOn bool

	State   *OverlandState
	Channel *ChannelState

	// per-step accumulators, read by package report after each accepted step
	RainVolume        float64
	InterceptVolume   float64
	InfiltrVolume     float64
	BoundaryOutVolume float64
	BoundaryInVolume  float64

	ExchangeCoef float64 // floodplain exchange rate coefficient (1/s per m of head difference)
}

// NewEngine allocates an Engine bound to g/net and zero-valued state.
func NewEngine(g *grid.Grid, net *grid.Network, landUse []LandUse, soil []SoilType) *Engine {
	n := g.NRows * g.NCols
	var nodesPerLink []int
	if net != nil {
		for _, l := range net.Links {
			nodesPerLink = append(nodesPerLink, len(l.Nodes))
		}
	}
	return &Engine{
		Grid: g, Net: net, LandUse: landUse, Soil: soil,
		Outlets:      make(map[int]*Outlet),
		State:        NewOverlandState(n),
		Channel:      NewChannelState(nodesPerLink),
		ExchangeCoef: 0.1,
	}
}

func (e *Engine) gaugeName(idx int) string {
	if idx < len(e.CellGauge) && e.CellGauge[idx] != "" {
		return e.CellGauge[idx]
	}
	return e.UniformGauge
}

// rainfallRate returns the rain and snow intensity (m/s) at cell idx and
// time t (spec §4.4 item 1).
func (e *Engine) rainfallRate(idx int, t float64) (rain, snow float64) {
	if e.Rain == nil {
		return 0, 0
	}
	name := e.gaugeName(idx)
	f := e.Rain.Get(name)
	if f == nil {
		return 0, 0
	}
	intensity := f.F(t, nil) * mmPerHourToMPerSecond
	lu := e.LandUse[e.Grid.LandUse[idx]]
	if e.AirTemp != nil {
		if af := e.AirTemp.Get(name); af != nil && af.F(t, nil) < lu.SnowThresholdC {
			return 0, intensity
		}
	}
	return intensity, 0
}

// RainfallInterception applies rainfall gain, snow diversion and
// interception loss for every active cell (spec §4.4 items 1-2), advancing
// e.State.Interception and e.State.SnowStorage and adding net throughfall
// to e.State.Depth.
func (e *Engine) RainfallInterception(t, dt float64) {
	e.RainVolume, e.InterceptVolume = 0, 0
	area := e.Grid.CellSize * e.Grid.CellSize
	for idx, m := range e.Grid.Mask {
		if m == grid.NoDataCell {
			continue
		}
		rain, snow := e.rainfallRate(idx, t)
		e.State.SnowStorage[idx] += snow * dt

		lu := e.LandUse[e.Grid.LandUse[idx]]
		avail := lu.InterceptionMax - e.State.Interception[idx]
		if avail < 0 {
			avail = 0
		}
		gain := rain * dt
		intercepted := math.Min(gain, avail)
		e.State.Interception[idx] += intercepted
		net := gain - intercepted

		e.State.Depth[idx] += net
		e.RainVolume += gain * area
		e.InterceptVolume += intercepted * area
	}
}

// infiltrationRate returns the Green-Ampt infiltration rate f at a cell
// with cumulative infiltration F and available surface depth h (spec §4.4
// item 3): f = Kh*(1 + psi*dTheta/F), clamped to the surface water depth
// rate (h/dt) and to zero from below. When PsiF is nonzero the rate is not
// capped at Kh.
func infiltrationRate(soil SoilType, F, h, dt float64) float64 {
	if F <= 0 {
		F = 1e-6 // avoid division by zero on the very first increment
	}
	f := soil.Kh * (1 + soil.PsiF*soil.ThetaDefic/F)
	if f > soil.Kh && soil.PsiF == 0 {
		f = soil.Kh
	}
	maxFromDepth := h / dt
	if f > maxFromDepth {
		f = maxFromDepth
	}
	if f < 0 {
		f = 0
	}
	return f
}

// Infiltration applies Green-Ampt infiltration at every active overland
// cell (spec §4.4 item 3), draining e.State.Depth into e.State.CumInfiltr.
func (e *Engine) Infiltration(dt float64) {
	e.InfiltrVolume = 0
	if !e.InfiltrationOn {
		return
	}
	area := e.Grid.CellSize * e.Grid.CellSize
	for idx, m := range e.Grid.Mask {
		if m == grid.NoDataCell || e.State.Depth[idx] <= 0 {
			continue
		}
		soil := e.Soil[e.Grid.SoilType[idx]]
		f := implicitInfiltrationRate(soil, e.State.CumInfiltr[idx], e.State.Depth[idx], dt)
		d := f * dt
		e.State.Depth[idx] -= d
		e.State.CumInfiltr[idx] += d
		e.InfiltrVolume += d * area
	}
}

// OverlandFlux is one cardinal-direction flux computed from the OLD state
// (spec §9 "derivative-then-integrate with old/new buffers"), exported so
// package solids can reuse it for donor-cell advection.
type OverlandFlux struct {
	ToIdx int
	Dir   int
	Q     float64 // volumetric flow rate (m^3/s), positive = flows from idx to toIdx
}

// overlandFluxes computes the diffusive-wave discharge across every active
// cardinal interface using the OLD depths (spec §4.4 item 4).
func (e *Engine) overlandFluxes() map[int][]OverlandFlux {
	g := e.Grid
	out := make(map[int][]OverlandFlux)
	seen := make(map[[2]int]bool)
	for idx := range g.Mask {
		if g.Mask[idx] == grid.NoDataCell {
			continue
		}
		i, j := g.RowCol(idx)
		for _, nb := range g.Neighbors(i, j) {
			nbIdx := g.Index(nb.I, nb.J)
			key := [2]int{idx, nbIdx}
			rkey := [2]int{nbIdx, idx}
			if seen[key] || seen[rkey] {
				continue
			}
			seen[key] = true

			headA := g.Elev[idx] + e.State.Depth[idx]
			headB := g.Elev[nbIdx] + e.State.Depth[nbIdx]
			S := (headA - headB) / g.CellSize
			if S == 0 {
				continue
			}
			// use the depth of the higher-head (upstream) cell
			var h, n float64
			if S > 0 {
				h = e.State.Depth[idx]
				n = e.LandUse[g.LandUse[idx]].Manning
			} else {
				h = e.State.Depth[nbIdx]
				n = e.LandUse[g.LandUse[nbIdx]].Manning
			}
			if h <= 0 || n <= 0 {
				continue
			}
			q := (1 / n) * math.Pow(h, 5.0/3.0) * g.CellSize * math.Sqrt(math.Abs(S)) * sign(S)
			out[idx] = append(out[idx], OverlandFlux{ToIdx: nbIdx, Dir: nb.Dir, Q: q})
			out[nbIdx] = append(out[nbIdx], OverlandFlux{ToIdx: idx, Dir: oppositeDir(nb.Dir), Q: -q})
		}
	}
	return out
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func oppositeDir(d int) int {
	switch d {
	case grid.DirNorth:
		return grid.DirSouth
	case grid.DirSouth:
		return grid.DirNorth
	case grid.DirEast:
		return grid.DirWest
	case grid.DirWest:
		return grid.DirEast
	}
	return d
}

// OverlandRouting advances e.State.Depth by the net cardinal flux over dt,
// capping total outflow from a cell to the water volume actually available
// (spec §4.4 item 4, §9 "outflux capping").
func (e *Engine) OverlandRouting(dt float64) map[int][]OverlandFlux {
	fluxes := e.overlandFluxes()
	g := e.Grid
	area := g.CellSize * g.CellSize

	for idx, fl := range fluxes {
		available := e.State.Depth[idx] * area
		outflowPotential := 0.0
		for _, f := range fl {
			if f.Q > 0 {
				outflowPotential += f.Q * dt
			}
		}
		scale := 1.0
		if outflowPotential > available && outflowPotential > 0 {
			scale = available / outflowPotential
		}
		net := 0.0
		for i := range fl {
			if fl[i].Q > 0 {
				fl[i].Q *= scale
			}
			net -= fl[i].Q
		}
		fluxes[idx] = fl
		e.State.Depth[idx] += net * dt / area
		if e.State.Depth[idx] < 0 {
			e.State.Depth[idx] = 0
		}
	}
	return fluxes
}

// trapezoidal cross-section geometry at depth h.
func channelArea(bw, s, h float64) float64    { return h * (bw + s*h) }
func channelWetPerim(bw, s, h float64) float64 { return bw + 2*h*math.Sqrt(1+s*s) }
func hydraulicRadius(bw, s, h float64) float64 {
	p := channelWetPerim(bw, s, h)
	if p <= 0 {
		return 0
	}
	return channelArea(bw, s, h) / p
}

// ChannelFlux is the discharge leaving node (k,n) toward its downstream
// neighbor, computed from the OLD state, exported so package solids can
// reuse it for donor-node advection.
type ChannelFlux struct {
	K, N int
	Q    float64
}

// ChannelRouting advances every channel node's depth using a 1-D
// diffusive-wave (Manning, hydraulic-radius) scheme, junctions summing
// inflows from every upstream link (spec §4.4 item 5).
func (e *Engine) ChannelRouting(dt float64) []ChannelFlux {
	if e.Net == nil {
		return nil
	}
	var fluxes []ChannelFlux
	inflow := make(map[[2]int]float64)

	for k, l := range e.Net.Links {
		for n, node := range l.Nodes {
			dk, dn, ok := e.Net.Downstream(k, n)
			h := e.Channel.Depth[k][n]
			if h <= 0 {
				continue
			}
			var headDown, length float64
			length = node.Length
			if ok {
				dnode := e.Net.Links[dk].Nodes[dn]
				headDown = dnode.BedElev + e.Channel.Depth[dk][dn]
			} else {
				out := e.Outlets[node.OutletID]
				if out != nil && out.NormalDepth {
					headDown = node.BedElev + h - out.BedSlope*length
				} else {
					headDown = node.BedElev // free-fall assumption
				}
			}
			headUp := node.BedElev + h
			Sf := (headUp - headDown) / length
			e.Channel.Sf[k][n] = Sf
			if Sf <= 0 {
				continue
			}
			R := hydraulicRadius(node.BottomW, node.SideSlope, h)
			A := channelArea(node.BottomW, node.SideSlope, h)
			q := (1 / node.Manning) * A * math.Pow(R, 2.0/3.0) * math.Sqrt(Sf)
			fluxes = append(fluxes, ChannelFlux{k, n, q})
			if ok {
				inflow[[2]int{dk, dn}] += q
			} else if out != nil {
				e.BoundaryOutVolume += q * dt
			}
		}
	}

	// apply net change per node, capped to available channel water volume
	outflow := make(map[[2]int]float64)
	for _, f := range fluxes {
		outflow[[2]int{f.K, f.N}] += f.Q
	}
	for k, l := range e.Net.Links {
		for n, node := range l.Nodes {
			key := [2]int{k, n}
			vol := channelArea(node.BottomW, node.SideSlope, e.Channel.Depth[k][n]) * node.Length
			out := outflow[key] * dt
			scale := 1.0
			if out > vol && out > 0 {
				scale = vol / out
			}
			net := inflow[key]*dt - outflow[key]*dt*scale
			// invert A(h) by a damped fixed-point step: dV/dx ~ (bw+2*s*h)
			width := node.BottomW + 2*node.SideSlope*e.Channel.Depth[k][n]
			if width <= 0 {
				width = node.BottomW
			}
			dh := net / (width * node.Length)
			e.Channel.Depth[k][n] += dh
			if e.Channel.Depth[k][n] < 0 {
				e.Channel.Depth[k][n] = 0
			}
		}
	}
	return fluxes
}

// FloodplainExchange transfers water bidirectionally between an overland
// cell and its co-located channel node whenever one stage exceeds the bank
// height of the other (spec §4.4 item 6).
func (e *Engine) FloodplainExchange(dt float64) {
	if e.Net == nil {
		return
	}
	for k, l := range e.Net.Links {
		for n, node := range l.Nodes {
			cellIdx := node.CellIdx
			ovDepth := e.State.Depth[cellIdx]
			chDepth := e.Channel.Depth[k][n]

			overBank := ovDepth - node.BankHeight
			chOverBank := chDepth - node.BankHeight

			var transfer float64 // positive: channel -> overland
			if chOverBank > 0 {
				transfer = e.ExchangeCoef * chOverBank * dt
			} else if overBank > 0 {
				transfer = -e.ExchangeCoef * overBank * dt
			}
			if transfer == 0 {
				continue
			}

			area := e.Grid.CellSize * e.Grid.CellSize
			width := node.BottomW + 2*node.SideSlope*chDepth
			if width <= 0 {
				width = node.BottomW
			}

			e.Channel.Depth[k][n] -= transfer
			e.State.Depth[cellIdx] += transfer * width * node.Length / area
			if e.Channel.Depth[k][n] < 0 {
				e.Channel.Depth[k][n] = 0
			}
			if e.State.Depth[cellIdx] < 0 {
				e.State.Depth[cellIdx] = 0
			}
		}
	}
}

// TransmissionLoss applies a Green-Ampt-analog infiltration loss through
// dry channel beds (spec §4.4 item 7, optional).
func (e *Engine) TransmissionLoss(dt float64, bedSoil []SoilType, cumInfiltr [][]float64) {
	if !e.TransmissionLossOn || e.Net == nil {
		return
	}
	for k, l := range e.Net.Links {
		for n := range l.Nodes {
			h := e.Channel.Depth[k][n]
			if h <= 0 {
				continue
			}
			soil := bedSoil[k]
			f := infiltrationRate(soil, cumInfiltr[k][n], h, dt)
			d := f * dt
			e.Channel.Depth[k][n] -= d
			cumInfiltr[k][n] += d
			if e.Channel.Depth[k][n] < 0 {
				e.Channel.Depth[k][n] = 0
			}
		}
	}
}

// Step runs the full water-transport sequence for one trial ∆t (spec §4.4,
// §5 ordering) and returns the flux sets so package solids can reuse them
// for advection on the same old state.
func (e *Engine) Step(t, dt float64) (ovFluxes map[int][]OverlandFlux, chFluxes []ChannelFlux, err error) {
	if e.Grid == nil {
		return nil, nil, chk.Err("water: engine has no grid")
	}
	e.RainfallInterception(t, dt)
	e.Infiltration(dt)
	ovFluxes = e.OverlandRouting(dt)
	chFluxes = e.ChannelRouting(dt)
	e.FloodplainExchange(dt)
	return ovFluxes, chFluxes, nil
}
