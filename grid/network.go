// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "github.com/cpmech/gosl/chk"

// Node holds per-node channel data (spec §3 "Link / Node (k,n)").
type Node struct {
	CellIdx int // flat grid index of the overland cell this node is tied to

	Length     float64 // node length along the link, including sinuosity
	BankHeight float64 // h_b
	BottomW    float64 // b_w
	TopW       float64 // t_w
	SideSlope  float64 // s
	Manning    float64 // n
	BedElev    float64 // bed elevation (mutable: scour/burial)
	OutletID   int     // >=0 if this node is an outlet, -1 otherwise
}

// Link is a 1-D channel segment: an ordered sequence of Nodes.
type Link struct {
	ID   int
	Nodes []*Node

	// connectivity: indices (in Network.Links) of links draining directly
	// into the first node of this link, and the single link this one
	// drains into (or -1 if this link's last node is an outlet/terminal).
	Upstream   []int
	Downstream int
}

// Network is the set of channel Links plus the bidirectional cell<->node map
// (spec §4.1).
type Network struct {
	Links []*Link

	cellToNode map[int][2]int // grid flat index -> [linkIdx, nodeIdx]
}

// NewNetwork allocates an empty Network.
func NewNetwork() *Network {
	return &Network{cellToNode: make(map[int][2]int)}
}

// AddLink appends a link and indexes its nodes' cells. It must be called
// after the link's Nodes slice (with each Node.CellIdx set) is populated.
func (net *Network) AddLink(l *Link) error {
	l.ID = len(net.Links)
	for n, node := range l.Nodes {
		if existing, ok := net.cellToNode[node.CellIdx]; ok {
			return chk.Err("network: cell %d already mapped to link %d node %d; cannot also map to link %d node %d",
				node.CellIdx, existing[0], existing[1], l.ID, n)
		}
		net.cellToNode[node.CellIdx] = [2]int{l.ID, n}
	}
	net.Links = append(net.Links, l)
	return nil
}

// CellNode returns the (link, node) indices mapped to the given grid flat
// index, or ok=false if that cell has no channel node.
func (net *Network) CellNode(cellIdx int) (link, node int, ok bool) {
	p, found := net.cellToNode[cellIdx]
	if !found {
		return 0, 0, false
	}
	return p[0], p[1], true
}

// Upstream returns the (link, node) pairs immediately upstream of (k, n):
// either the previous node in the same link, or, if n is the first node of
// link k, the last node of every link marked as flowing into k.
func (net *Network) Upstream(k, n int) [][2]int {
	if n > 0 {
		return [][2]int{{k, n - 1}}
	}
	var ups [][2]int
	for _, uk := range net.Links[k].Upstream {
		last := len(net.Links[uk].Nodes) - 1
		ups = append(ups, [2]int{uk, last})
	}
	return ups
}

// Downstream returns the (link, node) immediately downstream of (k, n) and
// ok=true, or ok=false if n is the last node of link k and that link has no
// downstream link (i.e. it drains to an outlet).
//
// Per spec §3: "Last node of a link connects to the first node of each
// downstream link."
func (net *Network) Downstream(k, n int) (link, node int, ok bool) {
	l := net.Links[k]
	if n+1 < len(l.Nodes) {
		return k, n + 1, true
	}
	if l.Downstream < 0 {
		return 0, 0, false
	}
	return l.Downstream, 0, true
}

// Validate checks link connectivity and node/link geometry invariants
// (spec §4.1 "fails on ... invalid connectivity").
func (net *Network) Validate() error {
	for _, l := range net.Links {
		if len(l.Nodes) == 0 {
			return chk.Err("network: link %d has no nodes", l.ID)
		}
		if l.Downstream >= len(net.Links) {
			return chk.Err("network: link %d has out-of-range downstream link %d", l.ID, l.Downstream)
		}
		for _, uk := range l.Upstream {
			if uk < 0 || uk >= len(net.Links) {
				return chk.Err("network: link %d references out-of-range upstream link %d", l.ID, uk)
			}
		}
		for n, node := range l.Nodes {
			if node.BottomW <= 0 {
				return chk.Err("network: link %d node %d has non-positive bottom width %g", l.ID, n, node.BottomW)
			}
			if node.TopW < node.BottomW {
				return chk.Err("network: link %d node %d top width %g is smaller than bottom width %g", l.ID, n, node.TopW, node.BottomW)
			}
		}
	}
	return nil
}
