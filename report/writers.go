// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	gio "github.com/cpmech/gosl/io"
)

// Writers bundles three append-only output streams: the echo file, the
// mass-balance file and the statistics file. Output grids, the tabular
// export file and the ∆t history file are not written through it. Each
// stream is owned here; the core
// simulation hands complete records to these methods and never shares the
// underlying file handles (spec §5 "Shared resources").
type Writers struct {
	Echo        io.Writer
	MassBalance io.Writer
	Stats       io.Writer
	Verbose     bool
}

// createStream creates (or truncates) filename, mirroring the teacher's
// save_file/os.Create convention (fem/fileio.go).
func createStream(filename string) (*os.File, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, chk.Err("report: cannot create output file %q: %v", filename, err)
	}
	return f, nil
}

// NewWriters opens the echo, mass-balance and statistics files under dir
// with the given fnkey (spec §6 output file set).
func NewWriters(dir, fnkey string, verbose bool) (*Writers, error) {
	echo, err := createStream(gio.Sf("%s/%s.echo", dir, fnkey))
	if err != nil {
		return nil, err
	}
	mb, err := createStream(gio.Sf("%s/%s.massbal", dir, fnkey))
	if err != nil {
		return nil, err
	}
	stats, err := createStream(gio.Sf("%s/%s.stats", dir, fnkey))
	if err != nil {
		return nil, err
	}
	if verbose {
		gio.Pfblue2("report: echo, mass-balance and statistics streams opened under %q\n", dir)
	}
	return &Writers{Echo: echo, MassBalance: mb, Stats: stats, Verbose: verbose}, nil
}

// EchoStep writes a one-line progress record, matching the teacher's
// verbose-mode console echo (fem/s_richardson.go io.PfWhite("%30.15f\r", t)).
func (w *Writers) EchoStep(t, dt float64, naccept, nreject int) {
	line := gio.Sf("t=%14.6f  dt=%12.6e  accepted=%d  rejected=%d\n", t, dt, naccept, nreject)
	fmt.Fprint(w.Echo, line)
	if w.Verbose {
		gio.PfWhite(line)
	}
}

// WriteMassBalance appends one record per class of the whole-domain
// running totals (spec §4.7).
func (w *Writers) WriteMassBalance(t float64, a *Accumulators) error {
	for s, c := range a.Classes {
		_, err := fmt.Fprintf(w.MassBalance,
			"t=%.6f class=%d inflow=%.6e outAdv=%.6e outDisp=%.6e dep=%.6e ero=%.6e burial=%.6e scour=%.6e load=%.6e closure=%.6e\n",
			t, s, c.InflowMass, c.OutflowAdvMass, c.OutflowDispMass, c.Deposition, c.Erosion, c.Burial, c.Scour, c.LoadMass, a.ClosureError(s))
		if err != nil {
			return chk.Err("report: mass-balance write failed: %v", err)
		}
	}
	return nil
}

// WriteStatistics summarizes the closure-residual history of every class
// (mean and max absolute value), using the same accumulation pattern as
// the teacher's Summary.Resids (fem/summary.go).
func (w *Writers) WriteStatistics(a *Accumulators) error {
	for s, series := range a.ClosureHistory {
		mean, maxAbs := 0.0, 0.0
		for _, v := range series {
			mean += v
			if abs := math.Abs(v); abs > maxAbs {
				maxAbs = abs
			}
		}
		if len(series) > 0 {
			mean /= float64(len(series))
		}
		_, err := fmt.Fprintf(w.Stats, "class=%d n=%d mean_closure=%.6e max_abs_closure=%.6e\n", s, len(series), mean, maxAbs)
		if err != nil {
			return chk.Err("report: statistics write failed: %v", err)
		}
	}
	for id, o := range a.Outlets {
		_, err := fmt.Fprintf(w.Stats, "outlet=%d peak_q=%.6e time_to_peak=%.6f n_samples=%d\n", id, o.PeakDischarge, o.TimeToPeak, len(o.DischargeHist))
		if err != nil {
			return chk.Err("report: statistics write failed: %v", err)
		}
	}
	rms := a.ClosureRMS(1e-6, 1e-3)
	if _, err := fmt.Fprintf(w.Stats, "closure_rms=%.6e\n", rms); err != nil {
		return chk.Err("report: statistics write failed: %v", err)
	}
	return nil
}

// Close closes every writer that is also an io.Closer (the files opened
// by NewWriters); writers supplied by a caller as e.g. a bytes.Buffer are
// left untouched.
func (w *Writers) Close() {
	for _, s := range []io.Writer{w.Echo, w.MassBalance, w.Stats} {
		if c, ok := s.(io.Closer); ok {
			c.Close()
		}
	}
}
