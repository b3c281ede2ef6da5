// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_grid01(tst *testing.T) {

	chk.PrintTitle("grid01: neighbors and topology on a 3x3 plane")

	g := New(3, 3, 0, 0, 10.0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			idx := g.Index(i, j)
			g.Mask[idx] = OverlandCell
			g.ElevInit[idx] = 1.0
			g.Elev[idx] = 1.0
		}
	}
	g.OutletID[g.Index(2, 2)] = 0

	if err := g.Validate(); err != nil {
		tst.Fatalf("validate failed: %v", err)
	}

	// centre cell has 4 neighbors
	ns := g.Neighbors(1, 1)
	chk.IntAssert(len(ns), 4)

	// corner cell has 2 neighbors
	ns = g.Neighbors(0, 0)
	chk.IntAssert(len(ns), 2)

	// outlet
	chk.IntAssert(g.IsOutlet(2, 2), 0)
	chk.IntAssert(g.IsOutlet(0, 0), -1)

	// out-of-bounds is inactive, not a panic
	if g.IsActive(-1, 0) {
		tst.Fatalf("expected out-of-bounds cell to be inactive")
	}
}

func Test_grid02(tst *testing.T) {

	chk.PrintTitle("grid02: single-link channel network connectivity")

	g := New(1, 10, 0, 0, 10.0)
	for j := 0; j < 10; j++ {
		idx := g.Index(0, j)
		g.Mask[idx] = ChannelCell
		g.ElevInit[idx] = 1.0
	}

	net := NewNetwork()
	link := &Link{Downstream: -1}
	for j := 0; j < 10; j++ {
		link.Nodes = append(link.Nodes, &Node{
			CellIdx: g.Index(0, j), BottomW: 5, TopW: 9, SideSlope: 2, Manning: 0.03,
		})
	}
	if err := net.AddLink(link); err != nil {
		tst.Fatalf("AddLink failed: %v", err)
	}
	if err := net.Validate(); err != nil {
		tst.Fatalf("validate failed: %v", err)
	}
	g.AttachNetwork(net)

	k, n, ok := g.ChannelAt(0, 5)
	if !ok || k != 0 || n != 5 {
		tst.Fatalf("ChannelAt(0,5) = (%d,%d,%v), want (0,5,true)", k, n, ok)
	}

	dk, dn, ok := net.Downstream(0, 9)
	if ok {
		tst.Fatalf("link 0 node 9 is the last node with no downstream link; want ok=false, got (%d,%d)", dk, dn)
	}

	ups := net.Upstream(0, 5)
	chk.IntAssert(len(ups), 1)
	if ups[0][0] != 0 || ups[0][1] != 4 {
		tst.Fatalf("upstream of (0,5) = %v, want (0,4)", ups[0])
	}
}
