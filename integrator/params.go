// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrator implements the explicit, Courant-controlled time-step
// driver (spec §4.6): fixed-table, adaptive accept/reject, and precomputed
// table modes, plus the accepted-∆t history ring buffer.
package integrator

// dtopt mode codes (spec §4.6 "Modes").
const (
	ModeTable     = 0 // explicit user table of (∆t, t_break)
	ModeAdaptive  = 1 // adaptive Courant-controlled accept/reject
	ModeRelaunch  = 2 // adaptive, additionally permitting a phase-transition relaunch
	ModePrecomputed = 3 // read a precomputed (∆t, t_break) table
)

// Breakpoint is one entry of a dtopt 0/3 explicit time-step table.
type Breakpoint struct {
	Dt     float64 `json:"dt"`
	TBreak float64 `json:"tbreak"`
}

// Params configures a Controller (spec §4.6, §3 "solver control data").
type Params struct {
	DtOpt int `json:"dtopt"`

	MaxCourant float64 `json:"maxcourant"` // Courant bound, spec "maxcourant <= 1"
	Relaxation float64 `json:"relaxation"` // shrink factor applied to the rescaled ∆t on reject
	SigFigs    int     `json:"sigfigs"`    // significant digits the rescaled ∆t is truncated to

	DtSeed float64 `json:"dtseed"` // initial trial ∆t for adaptive modes
	DtMin  float64 `json:"dtmin"`  // floor; falling below it is a fatal "integration stalled"
	DtMax  float64 `json:"dtmax"`  // ceiling, every accepted ∆t is capped to this

	Table []Breakpoint `json:"table"` // dtopt 0 or 3

	PhaseBreaks []float64 `json:"phasebreaks"` // dtopt 2: simulation times at which ∆t resets to DtSeed
}

// SetDefault fills in the teacher-idiom zero-value defaults (spec §4.6,
// "Implementation budget" ambient-stack convention: every input struct
// carries a SetDefault/PostProcess pair).
func (p *Params) SetDefault() {
	if p.Relaxation == 0 {
		p.Relaxation = 0.8
	}
	if p.SigFigs == 0 {
		p.SigFigs = 6
	}
	if p.MaxCourant == 0 {
		p.MaxCourant = 1.0
	}
	if p.DtMax == 0 {
		p.DtMax = p.DtSeed
	}
}

// PostProcess validates the configuration once every field has its final
// value (spec §4.6).
func (p *Params) PostProcess() error {
	switch p.DtOpt {
	case ModeTable, ModePrecomputed:
		if len(p.Table) == 0 {
			return errNoTable
		}
	case ModeAdaptive, ModeRelaunch:
		if p.DtSeed <= 0 {
			return errNoSeed
		}
		if p.DtMin <= 0 {
			return errNoFloor
		}
	default:
		return errBadMode
	}
	return nil
}
