// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package water implements rainfall/snow input, interception, infiltration,
// overland and channel routing, floodplain exchange and transmission loss
// (spec §4.4).
package water

// LandUse holds the land-use-class parameters that drive interception and
// overland roughness (spec §3 "Soil type / land use").
type LandUse struct {
	Manning          float64 // n, overland Manning roughness
	InterceptionMax  float64 // maximum interception storage depth
	SnowThresholdC   float64 // air temperature (deg C) below which rainfall is diverted to snow storage
}

// SoilType holds the Green-Ampt infiltration parameters of a soil type
// (spec §3, §4.4 item 3).
type SoilType struct {
	Kh         float64 // hydraulic conductivity
	PsiF       float64 // capillary suction head (ψ)
	ThetaDefic float64 // moisture deficit (Δθ)
}

// Outlet describes how an outlet cell/node terminates overland or channel
// flow (spec §4.4 item 5 "outlets may apply a normal-depth or specified
// boundary condition").
type Outlet struct {
	ID             int
	NormalDepth    bool    // true: rating computed from slope/Manning; false: free fall at the outlet
	BedSlope       float64 // used when NormalDepth is true
	StageBCName    string  // name of a stage forcing.Function; ChannelRouting does not read it
}
