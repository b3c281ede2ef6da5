// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack implements the per-cell (overland) and per-node (channel)
// ordered stack of soil/sediment layers (spec §4.3): push (new surface
// layer), pop (collapse a depleted surface layer) and the volume-change
// bookkeeping that raises those flags.
package stack

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// GSDTolerance is the maximum allowed deviation of a layer's grain-size
// distribution from summing to 1 (spec §3 "GSD sum invariant").
const GSDTolerance = 1e-5

// MassTolerance is the snap-to-zero threshold for residual volumes/masses
// below which numerical roundoff is not considered a defect (spec §3 TOLERANCE).
const MassTolerance = 1e-7

// Layer is one entry of a Stack (spec §3 "Stack layer").
type Layer struct {
	Thickness   float64   // h_l
	Volume      float64   // V_l >= 0
	Porosity    float64   // φ
	BottomWidth float64   // b_wl, channel layers only
	GSD         []float64 // per solids class, sums to 1
	MinVol      float64   // minvol: pop threshold
	MaxVol      float64   // maxvol: push threshold
	BedElevTop  float64   // bed elevation at the top of this layer
}

// gsdSum returns Σ GSD_s.
func gsdSum(gsd []float64) float64 {
	sum := 0.0
	for _, v := range gsd {
		sum += v
	}
	return sum
}

// ValidateGSD checks the GSD closure invariant.
func ValidateGSD(gsd []float64) error {
	if s := gsdSum(gsd); math.Abs(s-1) >= GSDTolerance {
		return chk.Err("stack: GSD does not sum to 1: got %g (tolerance %g)", s, GSDTolerance)
	}
	return nil
}

// Stack is the ordered vertical sequence of Layers at one overland cell or
// channel node. Layers[0] is the bottom (fixed datum); Layers[len-1] is the
// top (the only layer that exchanges mass with the water column).
type Stack struct {
	Layers       []*Layer
	IsChannel    bool    // channel stacks enforce the bottom-width monotonicity invariant
	ChannelWidth float64 // channel b_w, the upper bound on every layer's BottomWidth

	PushPending bool // set by VolumeChange, consumed by ApplyPending
	PopPending  bool
}

// New builds a Stack from an initial ordered list of layers (bottom first).
func New(layers []*Layer, isChannel bool, channelWidth float64) (*Stack, error) {
	s := &Stack{Layers: layers, IsChannel: isChannel, ChannelWidth: channelWidth}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Clone returns a deep copy, used by the integrator to snapshot stack state
// before a trial step that may be rejected (spec §4.6).
func (s *Stack) Clone() *Stack {
	c := &Stack{
		Layers:       make([]*Layer, len(s.Layers)),
		IsChannel:    s.IsChannel,
		ChannelWidth: s.ChannelWidth,
		PushPending:  s.PushPending,
		PopPending:   s.PopPending,
	}
	for i, l := range s.Layers {
		cl := *l
		cl.GSD = append([]float64{}, l.GSD...)
		c.Layers[i] = &cl
	}
	return c
}

// NLayers returns the number of active layers (spec: "nstack").
func (s *Stack) NLayers() int { return len(s.Layers) }

// TopIndex returns the index of the surface layer.
func (s *Stack) TopIndex() int { return len(s.Layers) - 1 }

// Top returns the surface layer.
func (s *Stack) Top() *Layer { return s.Layers[s.TopIndex()] }

// Validate checks the GSD closure and channel bottom-width monotonicity
// invariants (spec §3, §4.3, §8 "Stack monotonicity (channel)").
func (s *Stack) Validate() error {
	for i, l := range s.Layers {
		if l.Volume < 0 {
			return chk.Err("stack: layer %d has negative volume %g", i, l.Volume)
		}
		if err := ValidateGSD(l.GSD); err != nil {
			return chk.Err("stack: layer %d: %v", i, err)
		}
	}
	if s.IsChannel {
		for i := 1; i < len(s.Layers); i++ {
			if s.Layers[i].BottomWidth < s.Layers[i-1].BottomWidth {
				return chk.Err("stack: channel bottom width must be non-decreasing toward the surface: layer %d width %g < layer %d width %g",
					i, s.Layers[i].BottomWidth, i-1, s.Layers[i-1].BottomWidth)
			}
		}
		if top := s.Layers[len(s.Layers)-1]; top.BottomWidth > s.ChannelWidth {
			return chk.Err("stack: top layer bottom width %g exceeds channel width %g", top.BottomWidth, s.ChannelWidth)
		}
	}
	return nil
}

// VolumeChange applies ΔV to the surface layer's volume and raises the push
// or pop flags when the new volume crosses the layer's configured
// thresholds (spec §4.3 "volume_change"). VolumeChange never restructures
// the stack itself; the push or pop happens only when a caller invokes
// ApplyPending. The solids engine's Step calls VolumeChange but not
// ApplyPending.
func (s *Stack) VolumeChange(dV float64) {
	top := s.Top()
	top.Volume += dV
	if math.Abs(top.Volume) < MassTolerance {
		top.Volume = 0
	}
	if top.Volume < 0 {
		top.Volume = 0
	}
	if top.Volume >= top.MaxVol {
		s.PushPending = true
	}
	if top.Volume <= top.MinVol && len(s.Layers) > 1 {
		s.PopPending = true
	}
}

// ApplyPending performs the push and/or pop requested by prior
// VolumeChange calls, then clears both flags. At most one structural change
// happens per call: a push takes priority (a layer that just grew past
// maxvol is not also collapsed in the same step).
func (s *Stack) ApplyPending(incomingGSD []float64) error {
	defer func() { s.PushPending, s.PopPending = false, false }()
	if s.PushPending {
		return s.Push(incomingGSD)
	}
	if s.PopPending {
		return s.Pop()
	}
	return nil
}

// Push creates a new, empty surface layer above the current top, inheriting
// incomingGSD (the GSD of deposition flux accumulated over the step,
// spec §4.3). The new layer's min/max volume thresholds and porosity are
// copied from the layer below it, a reasonable default absent an explicit
// per-layer configuration for not-yet-deposited material.
func (s *Stack) Push(incomingGSD []float64) error {
	if err := ValidateGSD(incomingGSD); err != nil {
		return chk.Err("stack: push: %v", err)
	}
	below := s.Top()
	bw := below.BottomWidth
	if s.IsChannel && bw > s.ChannelWidth {
		bw = s.ChannelWidth
	}
	layer := &Layer{
		Thickness:   0,
		Volume:      0,
		Porosity:    below.Porosity,
		BottomWidth: bw,
		GSD:         append([]float64{}, incomingGSD...),
		MinVol:      below.MinVol,
		MaxVol:      below.MaxVol,
		BedElevTop:  below.BedElevTop,
	}
	s.Layers = append(s.Layers, layer)
	return s.recomputeChannelWidths()
}

// Pop collapses the (depleted) top layer into the layer below it: the
// remaining mass of each solids class is merged into the layer below,
// volume-weighted (mass-conservative remix), and nstack is decremented
// (spec §4.3).
func (s *Stack) Pop() error {
	n := len(s.Layers)
	if n <= 1 {
		return chk.Err("stack: cannot pop the last remaining layer")
	}
	top := s.Layers[n-1]
	below := s.Layers[n-2]

	vTop, vBelow := top.Volume, below.Volume
	vTotal := vTop + vBelow
	if vTotal > MassTolerance {
		merged := make([]float64, len(below.GSD))
		for c := range merged {
			massTop := top.GSD[c] * vTop
			massBelow := below.GSD[c] * vBelow
			merged[c] = (massTop + massBelow) / vTotal
		}
		below.GSD = merged
	}
	below.Volume = vTotal
	below.Thickness += top.Thickness
	below.BedElevTop = top.BedElevTop

	s.Layers = s.Layers[:n-1]
	return s.recomputeChannelWidths()
}

// recomputeChannelWidths restores the channel bottom-width monotonicity
// invariant after a push or pop (spec §4.3 "Channel-specific"): widths are
// raised to be non-decreasing toward the surface, and an error is returned
// if any layer's width then exceeds the channel's bottom width.
func (s *Stack) recomputeChannelWidths() error {
	if !s.IsChannel {
		return nil
	}
	prev := 0.0
	for i, l := range s.Layers {
		if l.BottomWidth < prev {
			l.BottomWidth = prev
		}
		if l.BottomWidth > s.ChannelWidth {
			return chk.Err("stack: layer %d bottom width %g exceeds channel width %g after restructure", i, l.BottomWidth, s.ChannelWidth)
		}
		prev = l.BottomWidth
	}
	return nil
}

// BulkDensity returns the bulk density of a layer for solids class s with
// specific gravity sg and water density rhoW: ρ_b = SG·ρ_w·(1-φ)
// (spec §4.5). Implemented as plain float64 arithmetic throughout -- the
// source's double/float32/double truncation dance is a compiler-workaround
// artifact, not a semantic requirement (spec §9).
func (l *Layer) BulkDensity(sg, rhoW float64) float64 {
	return sg * rhoW * (1 - l.Porosity)
}
