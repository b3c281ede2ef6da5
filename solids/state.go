// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solids

// Source indices used by the per-class, per-cell mass-balance bookkeeping
// (spec §3 "C[s][i][j][src]"). The numbering is sparse by design, matching
// the directional codes already used by package grid (DirNorth etc.) plus
// two scalar sources; slots 2, 4, 6 and 8 are unused.
const (
	SrcLoad       = 0  // external load (erosion from the bed, or a boundary inflow concentration)
	SrcNorth      = 1
	SrcEast       = 3
	SrcSouth      = 5
	SrcWest       = 7
	SrcFloodplain = 9
	SrcBoundary   = 10
	NumSources    = 11
)

// OverlandConc holds the per-class water-column concentration for every
// active cell, flat-indexed as class-major, then grid.Grid cell index
// (spec §9 "flat contiguous arrays").
type OverlandConc struct {
	NClasses, NCells int
	C                []float64 // len == NClasses*NCells, kg/m^3
}

// NewOverlandConc allocates a zero-valued concentration array.
func NewOverlandConc(nClasses, nCells int) *OverlandConc {
	return &OverlandConc{NClasses: nClasses, NCells: nCells, C: make([]float64, nClasses*nCells)}
}

func (o *OverlandConc) idx(s, cell int) int { return s*o.NCells + cell }

// At returns the concentration of class s at cell.
func (o *OverlandConc) At(s, cell int) float64 { return o.C[o.idx(s, cell)] }

// Set assigns the concentration of class s at cell.
func (o *OverlandConc) Set(s, cell int, v float64) { o.C[o.idx(s, cell)] = v }

// Clone returns a deep copy, used by the integrator to snapshot state
// before a trial step that may be rejected (spec §4.6).
func (o *OverlandConc) Clone() *OverlandConc {
	c := NewOverlandConc(o.NClasses, o.NCells)
	copy(c.C, o.C)
	return c
}

// ChannelConc is the channel analog of OverlandConc: one slice per class,
// each node-indexed per link.
type ChannelConc struct {
	NClasses int
	C        [][][]float64 // [class][link][node]
}

// NewChannelConc allocates a zero-valued channel concentration array
// matching the node counts given in nodesPerLink.
func NewChannelConc(nClasses int, nodesPerLink []int) *ChannelConc {
	c := &ChannelConc{NClasses: nClasses, C: make([][][]float64, nClasses)}
	for s := 0; s < nClasses; s++ {
		c.C[s] = make([][]float64, len(nodesPerLink))
		for k, n := range nodesPerLink {
			c.C[s][k] = make([]float64, n)
		}
	}
	return c
}

// Clone returns a deep copy.
func (c *ChannelConc) Clone() *ChannelConc {
	n := &ChannelConc{NClasses: c.NClasses, C: make([][][]float64, len(c.C))}
	for s := range c.C {
		n.C[s] = make([][]float64, len(c.C[s]))
		for k := range c.C[s] {
			n.C[s][k] = append([]float64{}, c.C[s][k]...)
		}
	}
	return n
}

// FluxAccum accumulates the mass (kg) moved through each source this step,
// per class and per cell, for package report's mass-balance output (spec
// §4.7). Reset at the start of every step.
type FluxAccum struct {
	NClasses, NCells int
	Mass             []float64 // len == NClasses*NCells*NumSources
}

// NewFluxAccum allocates a zero-valued accumulator.
func NewFluxAccum(nClasses, nCells int) *FluxAccum {
	return &FluxAccum{NClasses: nClasses, NCells: nCells, Mass: make([]float64, nClasses*nCells*NumSources)}
}

func (f *FluxAccum) idx(s, cell, src int) int {
	return s*f.NCells*NumSources + cell*NumSources + src
}

// Add accumulates mass (kg, signed) at class s, cell, source src.
func (f *FluxAccum) Add(s, cell, src int, mass float64) {
	f.Mass[f.idx(s, cell, src)] += mass
}

// At returns the accumulated mass at class s, cell, source src.
func (f *FluxAccum) At(s, cell, src int) float64 { return f.Mass[f.idx(s, cell, src)] }

// Reset zeroes the accumulator, called at the start of every step.
func (f *FluxAccum) Reset() {
	for i := range f.Mass {
		f.Mass[i] = 0
	}
}
