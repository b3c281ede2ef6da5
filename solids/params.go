// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solids implements multi-class sediment transport: advection,
// dispersion, deposition and erosion kinetics, outflux capping, and the
// resulting mass/volume exchange with the layered stack (spec §4.5).
package solids

// Erosion option codes (spec §3 "Soil type / land use" erosion parameters).
const (
	ErosionCapacity    = 1 // transport-capacity / USLE-style formulation
	ErosionExcessShear = 3 // excess-shear formulation, any option value > 2
)

// Class holds the per-solids-class physical properties that drive
// settling, deposition and erosion (spec §3 "Solids class s").
type Class struct {
	Name             string
	MeanDiameter     float64 // d, m
	SpecificGravity  float64 // SG
	SettlingVelocity float64 // w_s, m/s
	Cohesive         bool    // selects the Partheniades (true) vs Gessler (false) deposition kinetics
	CritShearDep     float64 // tau_cd: critical shear stress below which deposition occurs
	CritShearEro     float64 // tau_ce: critical shear stress above which erosion occurs
	AgingFactor      float64 // zage: multiplies erodibility of freshly-deposited material
	ReportGroup      int     // accumulator bucket used by package report
}

// ErosionParams holds the erosion-kinetics coefficients of one soil
// type / land-use combination (spec §3 "erosion parameters").
type ErosionParams struct {
	Option int // ErosionCapacity, or any value > 2 selecting ErosionExcessShear

	// transport-capacity (USLE-style) coefficients, used when Option == ErosionCapacity
	K            float64 // capacity coefficient
	BetaS        float64 // discharge exponent
	GammaS       float64 // friction-slope exponent (applied to S_f)
	BareFraction float64 // fraction of the cell with no canopy cover
	TCWExp       float64 // grain-diameter weighting exponent used to split capacity across classes

	// excess-shear coefficients, used when Option > 2 (any ErosionExcessShear variant)
	AY   float64 // erodibility coefficient a_y
	MExp float64 // excess-shear exponent m
}

// Yield is an overland solids reaction-yield pathway: a fraction of the
// mass eroded as class From is converted into class To instead of entering
// the water column as From (e.g. an aggregate breaking down into its finer
// constituent on entrainment). Grounded on OverlandSolidsKinetics.c's
// OverlandSolidsYield() dispatch and the syldfrom/syldto/syield reaction
// table ReadDataGroupC-r6.c reads ahead of it; the pathway's own kinetic
// rate law (OverlandSolidsYield.c) was not part of the retrieved source, so
// the yield fraction is applied directly to the erosion flux rather than to
// an unavailable first-order reaction rate.
type Yield struct {
	From, To int     // class indices, 0-based
	Fraction float64 // g product per g reactant eroded (g/g)
}
