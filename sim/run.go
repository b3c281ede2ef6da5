// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/integrator"
)

// Run drives the simulation from t0 to tFinal using the given Courant
// controller, recording mass-balance and discharge history into Accum after
// every accepted step; the echo and mass-balance records, and the final
// statistics, are written only when Writers is non-nil (spec §4.6, §4.7, §5).
func (t *TREX) Run(ip integrator.Params, t0, tFinal float64) error {
	hist := integrator.NewHistory(nil)
	ctl, err := integrator.NewController(ip, t0, hist)
	if err != nil {
		return chk.Err("sim: cannot start controller: %v", err)
	}
	ctl.OnAccept = func(tNow, dt float64) {
		t.recordOutletDischarge(tNow)
		t.recordClassFluxes()
		if t.Writers != nil {
			t.Writers.EchoStep(tNow, dt, ctl.NAccept, ctl.NReject)
			_ = t.Writers.WriteMassBalance(tNow, t.Accum)
		}
	}

	if err := ctl.Run(tFinal, t); err != nil {
		return chk.Err("sim: %v", err)
	}
	if t.Writers != nil {
		return t.Writers.WriteStatistics(t.Accum)
	}
	return nil
}
