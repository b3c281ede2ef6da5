// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package water

// OverlandState holds the per-cell mutable water variables (spec §3
// "Grid cell (i,j)"), flat arrays of length nrows*ncols matching grid.Grid
// indexing.
type OverlandState struct {
	Depth          []float64 // h
	Vx, Vy         []float64 // velocity components (diagnostic, derived from discharge)
	Interception   []float64 // current interception storage
	SnowStorage    []float64 // accumulated snow water equivalent
	CumInfiltr     []float64 // F: cumulative Green-Ampt infiltration depth
}

// NewOverlandState allocates a zero-valued OverlandState for n cells.
func NewOverlandState(n int) *OverlandState {
	return &OverlandState{
		Depth:        make([]float64, n),
		Vx:           make([]float64, n),
		Vy:           make([]float64, n),
		Interception: make([]float64, n),
		SnowStorage:  make([]float64, n),
		CumInfiltr:   make([]float64, n),
	}
}

// Clone returns a deep copy, used by the integrator to snapshot state before
// a trial step that may be rejected (spec §4.6).
func (s *OverlandState) Clone() *OverlandState {
	n := len(s.Depth)
	c := NewOverlandState(n)
	copy(c.Depth, s.Depth)
	copy(c.Vx, s.Vx)
	copy(c.Vy, s.Vy)
	copy(c.Interception, s.Interception)
	copy(c.SnowStorage, s.SnowStorage)
	copy(c.CumInfiltr, s.CumInfiltr)
	return c
}

// ChannelState holds the per-node mutable water variables (spec §3
// "Link / Node (k,n)"), one slice-of-slices entry per link, node-indexed.
type ChannelState struct {
	Depth  [][]float64 // h_ch per link/node
	Sf     [][]float64 // friction slope S_f per link/node
}

// NewChannelState allocates a zero-valued ChannelState matching the node
// counts given in nodesPerLink.
func NewChannelState(nodesPerLink []int) *ChannelState {
	s := &ChannelState{
		Depth: make([][]float64, len(nodesPerLink)),
		Sf:    make([][]float64, len(nodesPerLink)),
	}
	for k, n := range nodesPerLink {
		s.Depth[k] = make([]float64, n)
		s.Sf[k] = make([]float64, n)
	}
	return s
}

// Clone returns a deep copy.
func (s *ChannelState) Clone() *ChannelState {
	c := &ChannelState{Depth: make([][]float64, len(s.Depth)), Sf: make([][]float64, len(s.Sf))}
	for k := range s.Depth {
		c.Depth[k] = append([]float64{}, s.Depth[k]...)
		c.Sf[k] = append([]float64{}, s.Sf[k]...)
	}
	return c
}
