// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/trex/integrator"
	"github.com/cpmech/trex/solids"
	"github.com/cpmech/trex/water"
)

// FilesData names every input file a run reads, relative to DirInp (spec §6
// "Input files").
type FilesData struct {
	Mask      string `json:"mask"`      // mask raster
	Elevation string `json:"elevation"` // elevation raster
	LandUse   string `json:"landuse"`   // land-use id raster
	SoilType  string `json:"soiltype"`  // soil-type id raster
	Link      string `json:"link"`      // channel link-id raster, optional
	Node      string `json:"node"`      // channel node-index raster, optional
	Geometry  string `json:"geometry"`  // channel node geometry file, required when Link/Node are set
	Sediment  string `json:"sediment"`  // sediment properties file
	Forcing   string `json:"forcing"`   // forcing-function records file, optional
	Boundary  string `json:"boundary"`  // boundary-condition file, optional
	RainGauge string `json:"raingauge"` // rainfall gauge time-series file
	AirTemp   string `json:"airtemp"`   // air-temperature gauge time-series file, optional
}

// GlobalData holds the run-level description and I/O directories (spec §6,
// teacher idiom: every input struct carries a desc/dirout pair).
type GlobalData struct {
	Desc    string  `json:"desc"`    // description of the simulation
	DirInp  string  `json:"dirinp"`  // directory holding the files named in FilesData
	DirOut  string  `json:"dirout"`  // directory for output; e.g. /tmp/trex
	Verbose bool    `json:"verbose"` // echo per-step progress to stderr
	T0      float64 `json:"t0"`      // simulation start time, seconds
	TFinal  float64 `json:"tfinal"`  // simulation end time, seconds

	// derived
	FnameKey string // simulation filename key; e.g. watershed01.sim => watershed01
}

// SetDefault fills in the teacher-idiom zero-value defaults.
func (g *GlobalData) SetDefault() {
	if g.DirOut == "" {
		g.DirOut = "/tmp/trex"
	}
}

// PostProcess derives FnameKey and ensures DirOut exists.
func (g *GlobalData) PostProcess(simfilepath string) error {
	if g.DirOut == "" {
		g.DirOut = "/tmp/trex"
	}
	g.FnameKey = utl.FnKey(simfilepath)
	if err := os.MkdirAll(g.DirOut, 0777); err != nil {
		return chk.Err("inp: cannot create output directory %q: %v", g.DirOut, err)
	}
	return nil
}

// ClassData is the JSON-serializable form of solids.Class.
type ClassData struct {
	Name             string  `json:"name"`
	MeanDiameter     float64 `json:"meandiameter"`
	SpecificGravity  float64 `json:"specificgravity"`
	SettlingVelocity float64 `json:"settlingvelocity"`
	Cohesive         bool    `json:"cohesive"`
	CritShearDep     float64 `json:"critsheardep"`
	CritShearEro     float64 `json:"critsheareero"`
	AgingFactor      float64 `json:"agingfactor"`
	ReportGroup      int     `json:"reportgroup"`
}

// ToClass converts the JSON form into the value package solids operates on.
func (c ClassData) ToClass() solids.Class {
	return solids.Class{
		Name: c.Name, MeanDiameter: c.MeanDiameter, SpecificGravity: c.SpecificGravity,
		SettlingVelocity: c.SettlingVelocity, Cohesive: c.Cohesive, CritShearDep: c.CritShearDep,
		CritShearEro: c.CritShearEro, AgingFactor: c.AgingFactor, ReportGroup: c.ReportGroup,
	}
}

// ErosionData is the JSON-serializable form of solids.ErosionParams, keyed
// by soil-type/land-use id in Config.Erosion.
type ErosionData struct {
	Option       int     `json:"option"`
	K            float64 `json:"k"`
	BetaS        float64 `json:"betas"`
	GammaS       float64 `json:"gammas"`
	BareFraction float64 `json:"barefraction"`
	TCWExp       float64 `json:"tcwexp"`
	AY           float64 `json:"ay"`
	MExp         float64 `json:"mexp"`
}

func (e ErosionData) ToParams() solids.ErosionParams {
	return solids.ErosionParams{
		Option: e.Option, K: e.K, BetaS: e.BetaS, GammaS: e.GammaS,
		BareFraction: e.BareFraction, TCWExp: e.TCWExp, AY: e.AY, MExp: e.MExp,
	}
}

// LandUseData is the JSON-serializable form of water.LandUse, keyed by
// land-use id in Config.LandUse.
type LandUseData struct {
	Manning         float64 `json:"manning"`
	InterceptionMax float64 `json:"interceptionmax"`
	SnowThresholdC  float64 `json:"snowthresholdc"`
}

func (l LandUseData) ToLandUse() water.LandUse {
	return water.LandUse{
		Manning: l.Manning, InterceptionMax: l.InterceptionMax, SnowThresholdC: l.SnowThresholdC,
	}
}

// SoilTypeData is the JSON-serializable form of water.SoilType, keyed by
// soil-type id in Config.Soil.
type SoilTypeData struct {
	Kh         float64 `json:"kh"`
	PsiF       float64 `json:"psif"`
	ThetaDefic float64 `json:"thetadefic"`
}

func (s SoilTypeData) ToSoilType() water.SoilType {
	return water.SoilType{Kh: s.Kh, PsiF: s.PsiF, ThetaDefic: s.ThetaDefic}
}

// OutletData is the JSON-serializable form of water.Outlet, keyed by outlet
// id in Config.Outlets.
type OutletData struct {
	NormalDepth bool    `json:"normaldepth"`
	BedSlope    float64 `json:"bedslope"`
	StageBCName string  `json:"stagebcname"`
}

func (o OutletData) ToOutlet() water.Outlet {
	return water.Outlet{NormalDepth: o.NormalDepth, BedSlope: o.BedSlope, StageBCName: o.StageBCName}
}

// YieldData is the JSON-serializable form of solids.Yield: one row of the
// reaction-yield table (spec supplement, grounded on ReadDataGroupC-r6.c's
// syldfrom/syldto/syield records).
type YieldData struct {
	From     int     `json:"from"`
	To       int     `json:"to"`
	Fraction float64 `json:"fraction"`
}

func (y YieldData) ToYield() solids.Yield {
	return solids.Yield{From: y.From, To: y.To, Fraction: y.Fraction}
}

// idSpan parses every key of an id(string)->* map and returns the span a
// 0-based slice needs to hold the largest id (spec §3 "Soil type / land
// use": ids index directly into the parameter slice).
func idSpan(keys []string) (map[string]int, int, error) {
	ids := make(map[string]int, len(keys))
	n := 0
	for _, k := range keys {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, 0, chk.Err("inp: bad id key %q: %v", k, err)
		}
		if id < 0 {
			return nil, 0, chk.Err("inp: negative id key %q", k)
		}
		ids[k] = id
		if id+1 > n {
			n = id + 1
		}
	}
	return ids, n, nil
}

// Config is the top-level .trex JSON run description (spec §6 "Simulation
// configuration"), grounded on the teacher's inp.Simulation / inp.ReadSim
// convention: one JSON document, SetDefault before unmarshal, PostProcess
// after.
type Config struct {
	Global       GlobalData              `json:"global"`
	Files        FilesData               `json:"files"`
	Integrator   integrator.Params       `json:"integrator"`
	Classes      []ClassData             `json:"classes"`
	Erosion      map[string]ErosionData  `json:"erosion"`  // keyed by soil-type id, as a string
	LandUse      map[string]LandUseData  `json:"landuse"`  // keyed by land-use id, as a string
	Soil         map[string]SoilTypeData `json:"soil"`     // keyed by soil-type id, as a string
	Outlets      map[string]OutletData   `json:"outlets"`  // keyed by outlet id, as a string
	Connectivity map[string]int          `json:"connectivity"` // upstream link id (string) -> downstream link id
	UniformGauge string                  `json:"uniformgauge"` // gauge name driving every cell (spec §4.4 item 1)
	Dispersion   float64                 `json:"dispersion"`
	Yields       []YieldData             `json:"yields"` // overland reaction-yield pathways, spec supplement
}

// SetDefault fills in defaults before the JSON is unmarshalled over it.
func (c *Config) SetDefault() {
	c.Global.SetDefault()
	c.Integrator.SetDefault()
}

// ReadConfig reads and validates a .trex JSON configuration file.
func ReadConfig(simfilepath string) (*Config, error) {
	b, err := utl.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("inp: cannot read configuration %q: %v", simfilepath, err)
	}
	c := new(Config)
	c.SetDefault()
	if err := json.Unmarshal(b, c); err != nil {
		return nil, chk.Err("inp: cannot parse configuration %q: %v", simfilepath, err)
	}
	if err := c.Global.PostProcess(simfilepath); err != nil {
		return nil, err
	}
	if err := c.Integrator.PostProcess(); err != nil {
		return nil, chk.Err("inp: configuration %q: integrator: %v", simfilepath, err)
	}
	if len(c.Classes) == 0 {
		return nil, chk.Err("inp: configuration %q: at least one solids class is required", simfilepath)
	}
	if c.Files.Mask == "" || c.Files.Elevation == "" {
		return nil, chk.Err("inp: configuration %q: mask and elevation files are required", simfilepath)
	}
	if c.Global.TFinal <= c.Global.T0 {
		return nil, chk.Err("inp: configuration %q: tfinal must be greater than t0", simfilepath)
	}
	return c, nil
}

// IndexErosion converts Config.Erosion into the 0-based slice solids.Engine
// indexes directly by soil-type id (spec §3, §4.5 "erosion parameters by
// soil type").
func (c *Config) IndexErosion() ([]solids.ErosionParams, error) {
	keys := make([]string, 0, len(c.Erosion))
	for k := range c.Erosion {
		keys = append(keys, k)
	}
	ids, n, err := idSpan(keys)
	if err != nil {
		return nil, err
	}
	out := make([]solids.ErosionParams, n)
	for k, id := range ids {
		out[id] = c.Erosion[k].ToParams()
	}
	return out, nil
}

// IndexLandUse converts Config.LandUse into the 0-based slice water.Engine
// indexes directly by land-use id.
func (c *Config) IndexLandUse() ([]water.LandUse, error) {
	keys := make([]string, 0, len(c.LandUse))
	for k := range c.LandUse {
		keys = append(keys, k)
	}
	ids, n, err := idSpan(keys)
	if err != nil {
		return nil, err
	}
	out := make([]water.LandUse, n)
	for k, id := range ids {
		out[id] = c.LandUse[k].ToLandUse()
	}
	return out, nil
}

// IndexSoil converts Config.Soil into the 0-based slice water.Engine indexes
// directly by soil-type id.
func (c *Config) IndexSoil() ([]water.SoilType, error) {
	keys := make([]string, 0, len(c.Soil))
	for k := range c.Soil {
		keys = append(keys, k)
	}
	ids, n, err := idSpan(keys)
	if err != nil {
		return nil, err
	}
	out := make([]water.SoilType, n)
	for k, id := range ids {
		out[id] = c.Soil[k].ToSoilType()
	}
	return out, nil
}

// IndexConnectivity converts Config.Connectivity into the upstream-link-id
// -> downstream-link-id map LinkConnectivity expects.
func (c *Config) IndexConnectivity() (map[int]int, error) {
	out := make(map[int]int, len(c.Connectivity))
	for k, down := range c.Connectivity {
		up, err := strconv.Atoi(k)
		if err != nil {
			return nil, chk.Err("inp: connectivity: bad id key %q: %v", k, err)
		}
		out[up] = down
	}
	return out, nil
}

// BuildYields converts Config.Yields into the slice solids.Engine.Yields
// expects.
func (c *Config) BuildYields() []solids.Yield {
	out := make([]solids.Yield, len(c.Yields))
	for i, y := range c.Yields {
		out[i] = y.ToYield()
	}
	return out
}

// BuildOutlets converts Config.Outlets into the id->*water.Outlet map
// water.Engine.Outlets expects.
func (c *Config) BuildOutlets() (map[int]*water.Outlet, error) {
	specs := make(map[int]water.Outlet, len(c.Outlets))
	for k, od := range c.Outlets {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, chk.Err("inp: outlets: bad id key %q: %v", k, err)
		}
		specs[id] = od.ToOutlet()
	}
	return BuildOutlets(specs), nil
}
