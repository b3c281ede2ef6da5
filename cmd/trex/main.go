// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/trex/chem"
	"github.com/cpmech/trex/grid"
	"github.com/cpmech/trex/inp"
	"github.com/cpmech/trex/report"
	"github.com/cpmech/trex/sim"
	"github.com/cpmech/trex/solids"
	"github.com/cpmech/trex/stack"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".trex", true)
	verbose := io.ArgToBool(1, true)

	if verbose {
		io.PfWhite("\nTREX -- watershed erosion and sediment transport\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// profiling?
	defer utl.DoProf(false)()

	if err := run(fnamepath, verbose); err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
}

// run reads every input file named in the configuration, assembles the
// sim.TREX orchestrator and drives it to completion (spec §6 "Input files").
func run(fnamepath string, verbose bool) error {
	cfg, err := inp.ReadConfig(fnamepath)
	if err != nil {
		return err
	}
	cfg.Global.Verbose = cfg.Global.Verbose || verbose

	dir := cfg.Global.DirInp
	path := func(name string) string {
		if dir == "" || name == "" {
			return name
		}
		return dir + "/" + name
	}

	mask, err := inp.ReadRaster(path(cfg.Files.Mask))
	if err != nil {
		return err
	}
	elev, err := inp.ReadRaster(path(cfg.Files.Elevation))
	if err != nil {
		return err
	}
	landUseRaster, err := inp.ReadRaster(path(cfg.Files.LandUse))
	if err != nil {
		return err
	}
	soilRaster, err := inp.ReadRaster(path(cfg.Files.SoilType))
	if err != nil {
		return err
	}
	g, err := inp.BuildGrid(mask, elev, landUseRaster, soilRaster)
	if err != nil {
		return err
	}

	var net *grid.Network
	channelWidth := make(map[[2]int]float64)
	if cfg.Files.Link != "" && cfg.Files.Node != "" {
		linkRaster, err := inp.ReadRaster(path(cfg.Files.Link))
		if err != nil {
			return err
		}
		nodeRaster, err := inp.ReadRaster(path(cfg.Files.Node))
		if err != nil {
			return err
		}
		geom, err := inp.ReadChannelGeometry(path(cfg.Files.Geometry))
		if err != nil {
			return err
		}
		net, err = inp.BuildNetwork(g, linkRaster, nodeRaster, geom)
		if err != nil {
			return err
		}
		downstreamOf, err := cfg.IndexConnectivity()
		if err != nil {
			return err
		}
		if len(downstreamOf) > 0 {
			if err := inp.LinkConnectivity(net, downstreamOf); err != nil {
				return err
			}
		}
		for k, gp := range geom {
			channelWidth[k] = gp.BottomW
		}
	}

	classes := make([]solids.Class, len(cfg.Classes))
	for i, cd := range cfg.Classes {
		classes[i] = cd.ToClass()
	}
	erosion, err := cfg.IndexErosion()
	if err != nil {
		return err
	}
	landUse, err := cfg.IndexLandUse()
	if err != nil {
		return err
	}
	soil, err := cfg.IndexSoil()
	if err != nil {
		return err
	}
	outlets, err := cfg.BuildOutlets()
	if err != nil {
		return err
	}

	ovStacks, chStacks, err := readStacks(cfg, len(classes), channelWidth)
	if err != nil {
		return err
	}

	var loads []inp.ForcingRecord
	if cfg.Files.Forcing != "" {
		loads, err = inp.ReadForcingRecords(path(cfg.Files.Forcing))
		if err != nil {
			return err
		}
	}
	var boundary *inp.BoundaryConditions
	if cfg.Files.Boundary != "" {
		boundary, err = inp.ReadBoundaryConditions(path(cfg.Files.Boundary))
		if err != nil {
			return err
		}
	}

	trex, err := sim.Setup(g, net, landUse, soil, outlets, classes, erosion, cfg.Dispersion,
		ovStacks, chStacks, loads, boundary, chem.NilReactor{}, cfg.BuildYields())
	if err != nil {
		return err
	}

	if cfg.Files.RainGauge != "" {
		rain, err := inp.ReadGaugeSet(path(cfg.Files.RainGauge))
		if err != nil {
			return err
		}
		trex.Water.Rain = rain
	}
	if cfg.Files.AirTemp != "" {
		airTemp, err := inp.ReadGaugeSet(path(cfg.Files.AirTemp))
		if err != nil {
			return err
		}
		trex.Water.AirTemp = airTemp
	}
	trex.Water.UniformGauge = cfg.UniformGauge

	writers, err := report.NewWriters(cfg.Global.DirOut, cfg.Global.FnameKey, cfg.Global.Verbose)
	if err != nil {
		return err
	}
	trex.Writers = writers
	defer writers.Close()

	return trex.Run(cfg.Integrator, cfg.Global.T0, cfg.Global.TFinal)
}

// readStacks reads the sediment stack file once and splits it into the
// overland per-cell map and the channel per-(link,node) map. Overland cells
// have no natural link/node identity, so the sediment properties file uses
// link 0 with a 1-based cell index as the node id for them (spec §6 "the
// dynamic layered soil/sediment stack applies both overland and in-channel").
func readStacks(cfg *inp.Config, nClasses int, channelWidth map[[2]int]float64) (map[int]*stack.Stack, map[[2]int]*stack.Stack, error) {
	if cfg.Files.Sediment == "" {
		return nil, nil, nil
	}
	dir := cfg.Global.DirInp
	filename := cfg.Files.Sediment
	if dir != "" {
		filename = dir + "/" + filename
	}
	all, err := inp.ReadSedimentProperties(filename, nClasses, channelWidth)
	if err != nil {
		return nil, nil, err
	}
	ovStacks := make(map[int]*stack.Stack)
	chStacks := make(map[[2]int]*stack.Stack)
	for k, s := range all {
		link, node := k[0], k[1]
		if link == 0 {
			ovStacks[node-1] = s
			continue
		}
		chStacks[k] = s
	}
	return ovStacks, chStacks, nil
}
