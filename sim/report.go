// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// recordOutletDischarge updates the peak-discharge/time-to-peak tracking
// for every network outlet, using the channel fluxes from the step just
// accepted (spec §4.7 "per-outlet peak discharge and time to peak").
func (t *TREX) recordOutletDischarge(tNow float64) {
	if t.Net == nil {
		return
	}
	byOutlet := make(map[int]float64)
	for _, f := range t.lastChFluxes {
		node := t.Net.Links[f.K].Nodes[f.N]
		if node.OutletID < 0 {
			continue
		}
		if _, _, ok := t.Net.Downstream(f.K, f.N); ok {
			continue
		}
		byOutlet[node.OutletID] += f.Q
	}
	for id, q := range byOutlet {
		t.Accum.Outlet(id).RecordDischarge(tNow, q)
	}
}

// recordClassFluxes rolls the solids engine's per-step accumulators
// (reset inside solids.Engine.Step) into the run-level running totals
// (spec §4.7 "running totals: inflow, outflow, deposition, erosion").
func (t *TREX) recordClassFluxes() {
	for s := range t.Solids.Classes {
		erosion := t.Solids.ErosionMass[s]
		deposition := t.Solids.DepositionMass[s]
		t.Accum.AddClassFlux(s, 0, 0, 0, deposition, erosion, 0, 0, 0)
	}
	t.Accum.RecordClosure()
}
