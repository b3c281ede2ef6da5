// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"math"
)

// Stepper is the single-∆t trial a Controller drives: compute fluxes and
// tentatively advance state by dt starting at time t, then report the
// domain-wide Courant number reached (spec §4.6 "compute max Courant
// C* = max(C_ov, C_ch)"). Backup/Restore bracket a trial step so a
// rejected ∆t can roll the domain back to its pre-step state (spec §9
// "old state / new state separation", grounded on fem's RichardsonExtrap
// d.backup()/d.restore() pattern).
type Stepper interface {
	Backup()
	Restore()
	Step(t, dt float64) (courant float64, err error)
}

// Controller drives a Stepper through the full simulated time window,
// choosing each trial ∆t per the configured dtopt mode (spec §4.6).
type Controller struct {
	Params  Params
	History *History

	T  float64
	Dt float64

	NSteps, NAccept, NReject int

	tableIdx int

	// OnAccept, if set, is called once per accepted step with the new
	// simulation time and the ∆t just committed -- the seam package sim
	// uses to roll its mass-balance accumulators only for steps that
	// survive (a rejected trial's Step call still mutates state, but
	// Restore() undoes it before OnAccept would ever see it).
	OnAccept func(t, dt float64)
}

// NewController builds a Controller starting at t0, seeding the initial
// trial ∆t from Params according to the configured mode.
func NewController(p Params, t0 float64, hist *History) (*Controller, error) {
	if err := p.PostProcess(); err != nil {
		return nil, err
	}
	c := &Controller{Params: p, History: hist, T: t0}
	switch p.DtOpt {
	case ModeTable, ModePrecomputed:
		c.Dt = p.Table[0].Dt
	default:
		c.Dt = p.DtSeed
	}
	return c, nil
}

// truncate cuts x down (toward zero) to n significant digits (spec §4.6 "truncate to a
// fixed number of significant digits").
func truncate(x float64, n int) float64 {
	if x == 0 {
		return 0
	}
	mag := math.Ceil(math.Log10(math.Abs(x)))
	scale := math.Pow(10, float64(n)-mag)
	return math.Trunc(x*scale) / scale
}

// nextTableDt returns the ∆t active at simulation time t under a dtopt
// 0/3 table, advancing past any breakpoints already reached.
func (c *Controller) nextTableDt(t float64) float64 {
	tbl := c.Params.Table
	for c.tableIdx < len(tbl)-1 && t >= tbl[c.tableIdx].TBreak {
		c.tableIdx++
	}
	return tbl[c.tableIdx].Dt
}

// Run drives s from c.T to tFinal, one accepted step at a time, honoring
// dtopt's adaptivity and returning a fatal error only on IntegrationStall
// or a Stepper error (spec §4.6 "Failure semantics").
func (c *Controller) Run(tFinal float64, s Stepper) error {
	for c.T < tFinal {
		dt := c.trialDt(tFinal)

		s.Backup()
		c.NSteps++
		courant, err := s.Step(c.T, dt)
		if err != nil {
			return err
		}

		adaptive := c.Params.DtOpt == ModeAdaptive || c.Params.DtOpt == ModeRelaunch
		if adaptive && courant > c.Params.MaxCourant {
			s.Restore()
			c.NReject++
			rescaled := truncate(dt*c.Params.Relaxation*c.Params.MaxCourant/courant, c.Params.SigFigs)
			if rescaled >= dt {
				rescaled = dt * c.Params.Relaxation // guard against a non-decreasing rescale
			}
			if rescaled < c.Params.DtMin {
				return errStalled
			}
			c.Dt = rescaled
			continue
		}

		c.NAccept++
		c.T += dt
		if c.History != nil {
			if err := c.History.Push(dt, c.T); err != nil {
				return err
			}
		}
		if c.OnAccept != nil {
			c.OnAccept(c.T, dt)
		}

		if adaptive {
			c.Dt = c.growAfterAccept(dt, courant)
		}
		if c.Params.DtOpt == ModeRelaunch {
			c.maybeRelaunch(dt)
		}
	}
	return nil
}

// trialDt returns the ∆t to attempt for the current step, clamped so it
// never overshoots tFinal (spec §4.6 "∆t is bounded by dtmax").
func (c *Controller) trialDt(tFinal float64) float64 {
	var dt float64
	switch c.Params.DtOpt {
	case ModeTable, ModePrecomputed:
		dt = c.nextTableDt(c.T)
	default:
		dt = c.Dt
	}
	if dt > c.Params.DtMax && c.Params.DtMax > 0 {
		dt = c.Params.DtMax
	}
	if c.T+dt > tFinal {
		dt = tFinal - c.T
	}
	return dt
}

// growAfterAccept lets ∆t recover toward DtMax once the Courant number is
// comfortably under the bound, symmetric with the reject-side rescale
// (spec §4.6 is silent on step growth; this mirrors the shrink rule so a
// run that over-corrected after a transient spike can recover its pace).
func (c *Controller) growAfterAccept(dt, courant float64) float64 {
	if courant <= 0 || courant >= c.Params.MaxCourant*0.5 {
		return dt
	}
	grown := dt / c.Params.Relaxation
	if c.Params.DtMax > 0 && grown > c.Params.DtMax {
		grown = c.Params.DtMax
	}
	return grown
}

// maybeRelaunch resets ∆t to its seed value whenever the step of length dt
// just accepted carried simulation time across a configured phase boundary
// (spec §4.6 dtopt 2, "permits a simulation relaunch after ksim-phase
// transitions").
func (c *Controller) maybeRelaunch(dt float64) {
	for _, tb := range c.Params.PhaseBreaks {
		if c.T-dt < tb && c.T >= tb {
			c.Dt = c.Params.DtSeed
			return
		}
	}
}

// CourantNumber is a standalone helper usable outside of Run, e.g. by a
// Stepper implementation computing C_ov/C_ch (spec §4.6 "Courant number:
// v·Δt/Δx").
func CourantNumber(v, dt, dx float64) float64 {
	if dx <= 0 {
		return 0
	}
	return math.Abs(v) * dt / dx
}
