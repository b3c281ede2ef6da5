// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the rectangular overland grid and the embedded
// 1-D channel network topology (spec §4.1).
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Mask values for a grid cell.
const (
	NoDataCell   = 0 // cell outside the active domain
	OverlandCell = 1 // overland-only cell
	ChannelCell  = 2 // overland cell that also contains a channel node
)

// NoData is the reserved sentinel used for float fields that may be
// unset (e.g. elevation read from a NODATA_value raster cell). Comparisons
// against it are always float64 == float64, never int against float64
// (spec §9, "nodatavalue" open question).
const NoData = math.MaxFloat32

// direction codes for the 4 cardinal overland interfaces (spec §3 Source index)
const (
	DirNorth = 1
	DirEast  = 3
	DirSouth = 5
	DirWest  = 7
)

// Grid holds the static topology and per-cell parameters of the rectangular
// overland domain (spec §3 "Grid cell (i,j)").
type Grid struct {

	// header (ESRI-ASCII-like, spec §6)
	NRows, NCols               int
	Xll, Yll, CellSize, NoData float64

	// per-cell static data, flat row-major arrays of length NRows*NCols
	Mask        []int     // NoDataCell, OverlandCell or ChannelCell
	ElevInit    []float64 // initial elevation
	Elev        []float64 // current (mutable) elevation, tracks scour/burial
	LandUse     []int     // land-use class index
	SoilType    []int     // soil type index of the top (surface) soil layer
	OutletID    []int     // >=0 marks an outlet cell, -1 otherwise
	ChannelArea []float64 // area occupied by the channel within the cell (0 for overland-only)

	// derived
	net *Network // channel network, set by AttachNetwork
}

// New allocates a Grid with nrows*ncols cells, all arrays zero-valued.
func New(nrows, ncols int, xll, yll, cellsize float64) *Grid {
	n := nrows * ncols
	g := &Grid{
		NRows: nrows, NCols: ncols,
		Xll: xll, Yll: yll, CellSize: cellsize, NoData: NoData,
		Mask:        make([]int, n),
		ElevInit:    make([]float64, n),
		Elev:        make([]float64, n),
		LandUse:     make([]int, n),
		SoilType:    make([]int, n),
		OutletID:    make([]int, n),
		ChannelArea: make([]float64, n),
	}
	for i := range g.OutletID {
		g.OutletID[i] = -1
	}
	return g
}

// Index returns the flat row-major index of cell (i,j); i is the row
// (0 = north/top row, matching the ESRI-ASCII raster row order), j the column.
func (g *Grid) Index(i, j int) int { return i*g.NCols + j }

// RowCol returns the (i,j) coordinates of a flat index.
func (g *Grid) RowCol(idx int) (i, j int) { return idx / g.NCols, idx % g.NCols }

// Valid reports whether (i,j) lies within the raster bounds.
func (g *Grid) Valid(i, j int) bool {
	return i >= 0 && i < g.NRows && j >= 0 && j < g.NCols
}

// IsActive reports whether cell (i,j) is part of the simulated domain.
func (g *Grid) IsActive(i, j int) bool {
	if !g.Valid(i, j) {
		return false
	}
	return g.Mask[g.Index(i, j)] != NoDataCell
}

// HasChannel reports whether cell (i,j) contains a channel node.
func (g *Grid) HasChannel(i, j int) bool {
	if !g.Valid(i, j) {
		return false
	}
	return g.Mask[g.Index(i, j)] == ChannelCell
}

// OverlandArea returns A_ov = w^2 - A_ch_in_cell (spec §3).
func (g *Grid) OverlandArea(i, j int) float64 {
	idx := g.Index(i, j)
	return g.CellSize*g.CellSize - g.ChannelArea[idx]
}

// IsOutlet returns the outlet id of cell (i,j), or -1 if it is not an outlet.
func (g *Grid) IsOutlet(i, j int) int {
	if !g.Valid(i, j) {
		return -1
	}
	return g.OutletID[g.Index(i, j)]
}

// Neighbor describes one of the 4 cardinal neighbors of a cell.
type Neighbor struct {
	Dir  int // DirNorth, DirEast, DirSouth or DirWest
	I, J int // neighbor row/col
}

// Neighbors returns the active cardinal neighbors of (i,j), in the fixed
// order N, E, S, W (spec §4.1).
func (g *Grid) Neighbors(i, j int) []Neighbor {
	cand := [4]Neighbor{
		{DirNorth, i - 1, j},
		{DirEast, i, j + 1},
		{DirSouth, i + 1, j},
		{DirWest, i, j - 1},
	}
	out := make([]Neighbor, 0, 4)
	for _, n := range cand {
		if g.IsActive(n.I, n.J) {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks internal consistency of the raster data (spec §4.1,
// "fails on inconsistent rasters"). It must be called once after all
// per-cell arrays (mask, elevation, ...) have been populated by the readers
// in package inp.
func (g *Grid) Validate() error {
	n := g.NRows * g.NCols
	if len(g.Mask) != n || len(g.ElevInit) != n {
		return chk.Err("grid: array size mismatch: want %d cells, mask has %d, elevation has %d", n, len(g.Mask), len(g.ElevInit))
	}
	for idx, m := range g.Mask {
		if m == NoDataCell {
			continue
		}
		if g.ElevInit[idx] == NoData {
			i, j := g.RowCol(idx)
			return chk.Err("grid: active cell (%d,%d) has no elevation data", i, j)
		}
	}
	return nil
}

// AttachNetwork binds a channel network to this grid; ChannelAt/Network use it.
func (g *Grid) AttachNetwork(net *Network) { g.net = net }

// Network returns the channel network attached to this grid, or nil.
func (g *Grid) Network() *Network { return g.net }

// ChannelAt returns the (link, node) indices of the channel node occupying
// cell (i,j), and ok=false if the cell has no channel.
func (g *Grid) ChannelAt(i, j int) (link, node int, ok bool) {
	if g.net == nil || !g.HasChannel(i, j) {
		return 0, 0, false
	}
	return g.net.CellNode(g.Index(i, j))
}
