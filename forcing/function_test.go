// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forcing

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_forcing01(tst *testing.T) {

	chk.PrintTitle("forcing01: cyclic rainfall, spec §8 scenario 6")

	// (0,0), (1,10), (2,0) hours; endtime = 2h
	f, err := New([]float64{0, 1, 2}, []float64{0, 10, 0}, true)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	chk.Scalar(tst, "f(0.5)", 1e-15, f.F(0.5, nil), 5)
	chk.Scalar(tst, "f(1.0)", 1e-15, f.F(1.0, nil), 10)

	// cyclic: f(2.5) must equal f(0.5)
	v25 := f.F(2.5, nil)
	v05 := f.F(0.5, nil)
	chk.Scalar(tst, "f(2.5) == f(0.5)", 1e-13, v25, v05)

	// f(t) = f(t + k*endtime) for several k
	for k := 1; k <= 5; k++ {
		vk := f.F(0.5+float64(k)*f.EndTime(), nil)
		chk.Scalar(tst, "cyclic k", 1e-12, vk, v05)
	}
}

func Test_forcing02(tst *testing.T) {

	chk.PrintTitle("forcing02: idempotence regardless of cursor history")

	f, err := New([]float64{0, 1, 2, 3, 4}, []float64{0, 1, 0, 2, 0}, false)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	// scan forward, then probe backward, then forward again: same answers
	probe := 1.5
	a := f.F(probe, nil)
	f.F(3.9, nil)
	f.F(0.1, nil)
	b := f.F(probe, nil)
	chk.Scalar(tst, "idempotent", 1e-15, a, b)
}

func Test_forcing03(tst *testing.T) {

	chk.PrintTitle("forcing03: step-held value before t_1")

	f, err := New([]float64{1, 2}, []float64{5, 10}, false)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	chk.Scalar(tst, "held before t1", 1e-15, f.F(-10, nil), 5)
}

func Test_forcing04(tst *testing.T) {

	chk.PrintTitle("forcing04: configuration error on short series")

	_, err := New([]float64{0}, []float64{1}, false)
	if err == nil {
		tst.Fatalf("expected error for n_pairs < 2")
	}
}

func Test_forcing05(tst *testing.T) {

	chk.PrintTitle("forcing05: Set vectorized update early-out")

	s := NewSet()
	fa, _ := New([]float64{0, 10}, []float64{0, 1}, false)
	fb, _ := New([]float64{0, 5}, []float64{0, 1}, false)
	s.Add("a", fa)
	s.Add("b", fb)

	m := s.MinNextBreak()
	if math.Abs(m-5) > 1e-15 {
		tst.Fatalf("MinNextBreak = %g, want 5", m)
	}

	vals := s.Values(2.5)
	chk.Scalar(tst, "a(2.5)", 1e-15, vals["a"], 0.25)
	chk.Scalar(tst, "b(2.5)", 1e-15, vals["b"], 0.5)
}
