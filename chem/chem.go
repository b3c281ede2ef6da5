// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chem defines the reaction-coupling seam left by the chemistry
// module: explicitly out of scope (spec Non-goals "chemistry (optional
// module stubbed but not covered)"), but package sim still calls through
// a Reactor at the point a water-quality or contaminant-transport model
// would hook in, so adding one later needs no change to the step ordering.
package chem

// Reactor is the per-step reaction hook a future chemistry module would
// implement: given the current overland concentration buffer and the
// elapsed ∆t, it returns the per-class, per-cell mass change due to
// reaction (decay, adsorption, transformation, ...).
type Reactor interface {
	React(dt float64, nClasses, nCells int, conc []float64) (delta []float64, err error)
}

// NilReactor is the default Reactor: no reactions occur. Package sim wires
// it in whenever no chemistry module is configured.
type NilReactor struct{}

// React returns an all-zero delta, i.e. no mass change.
func (NilReactor) React(dt float64, nClasses, nCells int, conc []float64) ([]float64, error) {
	return make([]float64, nClasses*nCells), nil
}
