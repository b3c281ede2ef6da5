// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_report01(tst *testing.T) {

	chk.PrintTitle("report01: mass-balance closure error matches the hand-computed residual")

	a := NewAccumulators(1)
	a.AddClassFlux(0, 10, 4, 1, 3, 2, 0, 0, 0)
	// inflow 10 + load 0 + erosion 2 + scour 0 - outAdv 4 - outDisp 1 - dep 3 - burial 0 = 4
	chk.Scalar(tst, "closure error matches hand computation", 1e-12, a.ClosureError(0), 4)
}

func Test_report02(tst *testing.T) {

	chk.PrintTitle("report02: outlet peak discharge and time-to-peak track the running maximum")

	a := NewAccumulators(1)
	o := a.Outlet(3)
	o.RecordDischarge(1.0, 0.5)
	o.RecordDischarge(2.0, 2.0)
	o.RecordDischarge(3.0, 1.0)
	chk.Scalar(tst, "peak discharge", 1e-12, o.PeakDischarge, 2.0)
	chk.Scalar(tst, "time to peak", 1e-12, o.TimeToPeak, 2.0)
	chk.IntAssert(len(o.DischargeHist), 3)
}

func Test_report03(tst *testing.T) {

	chk.PrintTitle("report03: mass-balance and statistics writers produce non-empty records")

	a := NewAccumulators(2)
	a.AddClassFlux(0, 10, 4, 1, 3, 2, 0, 0, 0)
	a.AddClassFlux(1, 5, 1, 0, 1, 0, 0, 0, 0)
	a.RecordClosure()
	a.Outlet(0).RecordDischarge(5.0, 1.2)

	var mb, stats bytes.Buffer
	w := &Writers{MassBalance: &mb, Stats: &stats}
	if err := w.WriteMassBalance(5.0, a); err != nil {
		tst.Fatalf("WriteMassBalance failed: %v", err)
	}
	if err := w.WriteStatistics(a); err != nil {
		tst.Fatalf("WriteStatistics failed: %v", err)
	}
	if mb.Len() == 0 {
		tst.Fatalf("expected mass-balance output")
	}
	if stats.Len() == 0 {
		tst.Fatalf("expected statistics output")
	}
}
