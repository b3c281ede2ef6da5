// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/grid"
	"github.com/cpmech/trex/water"
)

// NodeGeom is the per-node channel geometry read from the channel-geometry
// records (spec §6 "Node/link files").
type NodeGeom struct {
	Length, BankHeight, BottomW, TopW, SideSlope, Manning, BedElev float64
	OutletID                                                      int
}

// BuildNetwork assembles a grid.Network from the link-id and node-index
// rasters (spec §6: "link file gives link id per cell (0 = none); node
// file gives node index per channel cell. Each link's node count is
// max(node_index) for that link").
func BuildNetwork(g *grid.Grid, linkRaster, nodeRaster *Raster, geom map[[2]int]NodeGeom) (*grid.Network, error) {
	if linkRaster.NCols != g.NCols || linkRaster.NRows != g.NRows {
		return nil, chk.Err("inp: link raster dimensions do not match the grid")
	}
	if nodeRaster.NCols != g.NCols || nodeRaster.NRows != g.NRows {
		return nil, chk.Err("inp: node raster dimensions do not match the grid")
	}

	// group cells by link id, tracking the max node index seen per link
	type cellRef struct{ idx, node int }
	byLink := make(map[int][]cellRef)
	for idx := range g.Mask {
		linkID := int(linkRaster.Values[idx])
		if linkID == 0 {
			continue
		}
		nodeIdx := int(nodeRaster.Values[idx])
		byLink[linkID] = append(byLink[linkID], cellRef{idx, nodeIdx})
	}

	net := grid.NewNetwork()
	linkIDs := make([]int, 0, len(byLink))
	for id := range byLink {
		linkIDs = append(linkIDs, id)
	}
	sort.Ints(linkIDs)

	for _, id := range linkIDs {
		refs := byLink[id]
		sort.Slice(refs, func(a, b int) bool { return refs[a].node < refs[b].node })
		nNodes := refs[len(refs)-1].node
		nodes := make([]*grid.Node, nNodes)
		for _, ref := range refs {
			n := ref.node - 1 // node file is 1-based per spec §6 "max(node_index)"
			if n < 0 || n >= nNodes {
				return nil, chk.Err("inp: link %d has out-of-range node index %d", id, ref.node)
			}
			gp := geom[[2]int{id, ref.node}]
			nodes[n] = &grid.Node{
				CellIdx: ref.idx, Length: gp.Length, BankHeight: gp.BankHeight,
				BottomW: gp.BottomW, TopW: gp.TopW, SideSlope: gp.SideSlope,
				Manning: gp.Manning, BedElev: gp.BedElev, OutletID: gp.OutletID,
			}
		}
		for n, node := range nodes {
			if node == nil {
				return nil, chk.Err("inp: link %d is missing node index %d", id, n+1)
			}
		}
		if err := net.AddLink(&grid.Link{Nodes: nodes, Downstream: -1}); err != nil {
			return nil, err
		}
	}
	g.AttachNetwork(net)
	return net, nil
}

// LinkConnectivity overrides each link's Upstream/Downstream fields from
// an explicit (upstream-link-id -> downstream-link-id) map, since a raster
// pair alone cannot encode link-to-link connectivity.
func LinkConnectivity(net *grid.Network, downstreamOf map[int]int) error {
	idOf := make(map[int]int, len(net.Links))
	for i, l := range net.Links {
		idOf[l.ID] = i
	}
	for up, down := range downstreamOf {
		ui, ok := idOf[up]
		if !ok {
			return chk.Err("inp: connectivity references unknown link id %d", up)
		}
		di, ok := idOf[down]
		if !ok {
			return chk.Err("inp: connectivity references unknown downstream link id %d", down)
		}
		net.Links[ui].Downstream = di
		net.Links[di].Upstream = append(net.Links[di].Upstream, ui)
	}
	return net.Validate()
}

// BuildOutlets constructs the water.Outlet set from an id->spec map,
// keeping the water package's Outlet shape separate from the raw raster
// representation (spec §4.4 item 5).
func BuildOutlets(specs map[int]water.Outlet) map[int]*water.Outlet {
	out := make(map[int]*water.Outlet, len(specs))
	for id, spec := range specs {
		s := spec
		s.ID = id
		out[id] = &s
	}
	return out
}
