// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// fakeStepper reports a Courant number computed from a hook function,
// letting tests script accept/reject sequences deterministically.
type fakeStepper struct {
	courantOf func(t, dt float64) float64
	nBackup   int
	nRestore  int
	nStep     int
}

func (f *fakeStepper) Backup()  { f.nBackup++ }
func (f *fakeStepper) Restore() { f.nRestore++ }
func (f *fakeStepper) Step(t, dt float64) (float64, error) {
	f.nStep++
	return f.courantOf(t, dt), nil
}

func Test_integrator01(tst *testing.T) {

	chk.PrintTitle("integrator01: adaptive mode rejects an over-Courant step and rescales Δt")

	p := Params{DtOpt: ModeAdaptive, MaxCourant: 1.0, DtSeed: 10.0, DtMin: 1e-6}
	p.SetDefault()
	c, err := NewController(p, 0, nil)
	if err != nil {
		tst.Fatalf("NewController failed: %v", err)
	}

	calls := 0
	s := &fakeStepper{courantOf: func(t, dt float64) float64 {
		calls++
		if calls == 1 {
			return 2.5 // first trial: over the bound, forces a reject+rescale
		}
		return 0.3 // subsequent trials: comfortably under the bound
	}}

	if err := c.Run(100.0, s); err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	if c.NReject == 0 {
		tst.Fatalf("expected at least one rejected step")
	}
	if s.nRestore == 0 {
		tst.Fatalf("expected Restore to be called on a rejected step")
	}
	if c.T != 100.0 {
		tst.Fatalf("expected to reach tFinal exactly, got %g", c.T)
	}
}

func Test_integrator02(tst *testing.T) {

	chk.PrintTitle("integrator02: table mode walks through breakpoints without adaptivity")

	p := Params{DtOpt: ModeTable, Table: []Breakpoint{{Dt: 5, TBreak: 20}, {Dt: 2, TBreak: 30}}}
	c, err := NewController(p, 0, nil)
	if err != nil {
		tst.Fatalf("NewController failed: %v", err)
	}
	s := &fakeStepper{courantOf: func(t, dt float64) float64 { return 0 }}

	if err := c.Run(30.0, s); err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	if c.NReject != 0 {
		tst.Fatalf("table mode must never reject, got %d rejects", c.NReject)
	}
	chk.Scalar(tst, "reaches tFinal", 1e-9, c.T, 30.0)
}

func Test_integrator03(tst *testing.T) {

	chk.PrintTitle("integrator03: Δt falling below the floor aborts with the stall error")

	p := Params{DtOpt: ModeAdaptive, MaxCourant: 1.0, DtSeed: 10.0, DtMin: 5.0, Relaxation: 0.5, SigFigs: 6}
	c, err := NewController(p, 0, nil)
	if err != nil {
		tst.Fatalf("NewController failed: %v", err)
	}
	s := &fakeStepper{courantOf: func(t, dt float64) float64 { return 100.0 }} // always rejects

	err = c.Run(1000.0, s)
	if err == nil {
		tst.Fatalf("expected an integration-stall error")
	}
}

func Test_integrator04(tst *testing.T) {

	chk.PrintTitle("integrator04: Δt history round-trips through Flush/ReadHistory bit-for-bit")

	var buf bytes.Buffer
	h := NewHistory(&buf)
	for i := 0; i < 10; i++ {
		if err := h.Push(float64(i)+0.5, float64(i)*2); err != nil {
			tst.Fatalf("Push failed: %v", err)
		}
	}
	if err := h.Flush(); err != nil {
		tst.Fatalf("Flush failed: %v", err)
	}

	recs, err := ReadHistory(&buf)
	if err != nil {
		tst.Fatalf("ReadHistory failed: %v", err)
	}
	chk.IntAssert(len(recs), 10)
	for i, r := range recs {
		chk.Scalar(tst, "dt round-trips", 1e-15, r.Dt, float64(i)+0.5)
		chk.Scalar(tst, "t round-trips", 1e-15, r.T, float64(i)*2)
	}
}
