// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func twoLayer(minvol, maxvol float64) *Stack {
	bottom := &Layer{Volume: 100, Porosity: 0.4, GSD: []float64{0.3, 0.7}, MinVol: minvol, MaxVol: maxvol, BottomWidth: 5}
	top := &Layer{Volume: 1.01 * minvol, Porosity: 0.4, GSD: []float64{0.6, 0.4}, MinVol: minvol, MaxVol: maxvol, BottomWidth: 5}
	s, err := New([]*Layer{bottom, top}, false, 0)
	if err != nil {
		panic(err)
	}
	return s
}

func Test_stack01(tst *testing.T) {

	chk.PrintTitle("stack01: pop when erosion drains the surface layer, spec §8 scenario 5")

	s := twoLayer(1.0, 100.0)
	chk.IntAssert(s.NLayers(), 2)

	// erosion removes enough mass to take V below minvol
	s.VolumeChange(-0.1)
	if !s.PopPending {
		tst.Fatalf("expected pop flag to be raised")
	}

	err := s.ApplyPending(nil)
	if err != nil {
		tst.Fatalf("ApplyPending failed: %v", err)
	}
	chk.IntAssert(s.NLayers(), 1)

	if err := ValidateGSD(s.Top().GSD); err != nil {
		tst.Fatalf("GSD closure violated after pop: %v", err)
	}
}

func Test_stack02(tst *testing.T) {

	chk.PrintTitle("stack02: push on deposition filling the surface layer past maxvol")

	s := twoLayer(1.0, 10.0)
	s.VolumeChange(20) // surface layer now well above maxvol
	if !s.PushPending {
		tst.Fatalf("expected push flag to be raised")
	}
	err := s.ApplyPending([]float64{0.1, 0.9})
	if err != nil {
		tst.Fatalf("ApplyPending failed: %v", err)
	}
	chk.IntAssert(s.NLayers(), 3)
	chk.Scalar(tst, "new top volume", 1e-15, s.Top().Volume, 0)
}

func Test_stack03(tst *testing.T) {

	chk.PrintTitle("stack03: channel bottom-width monotonicity invariant")

	bottom := &Layer{Volume: 10, Porosity: 0.4, GSD: []float64{1}, MinVol: 1, MaxVol: 100, BottomWidth: 2}
	top := &Layer{Volume: 10, Porosity: 0.4, GSD: []float64{1}, MinVol: 1, MaxVol: 100, BottomWidth: 4}
	s, err := New([]*Layer{bottom, top}, true, 5)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	s.VolumeChange(95) // push: new layer inherits below's (clamped) width
	if err := s.ApplyPending([]float64{1}); err != nil {
		tst.Fatalf("ApplyPending failed: %v", err)
	}
	for i := 1; i < s.NLayers(); i++ {
		if s.Layers[i].BottomWidth < s.Layers[i-1].BottomWidth {
			tst.Fatalf("monotonicity violated at layer %d", i)
		}
		if s.Layers[i].BottomWidth > s.ChannelWidth {
			tst.Fatalf("layer %d width %g exceeds channel width %g", i, s.Layers[i].BottomWidth, s.ChannelWidth)
		}
	}
}

func Test_stack04(tst *testing.T) {

	chk.PrintTitle("stack04: GSD closure rejected outside tolerance")

	bad := &Layer{Volume: 1, Porosity: 0.4, GSD: []float64{0.5, 0.4}, MinVol: 0, MaxVol: 10}
	_, err := New([]*Layer{bad}, false, 0)
	if err == nil {
		tst.Fatalf("expected GSD closure error")
	}
}
