// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/stack"
)

// ReadSedimentProperties parses the structured per-link/per-node/per-layer
// sediment properties file (spec §6 "Sediment properties file"):
// one record per (link, node) is a whitespace-separated sequence of rows,
// bottom-to-top layer, each row giving thickness, bottom width, porosity,
// then one GSD value per solids class.
//
// Record layout per line:
//   link node layer thickness bottom_width porosity gsd_1 gsd_2 ... gsd_nclasses
func ReadSedimentProperties(filename string, nClasses int, channelWidth map[[2]int]float64) (map[[2]int]*stack.Stack, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("inp: cannot open sediment properties file %q: %v", filename, err)
	}
	defer f.Close()

	type key = [2]int
	layers := make(map[key][]*stack.Layer)
	order := make([]key, 0)

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6+nClasses {
			return nil, chk.Err("inp: sediment properties file %q line %d: expected %d fields, got %d", filename, lineNo, 6+nClasses, len(fields))
		}
		link, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, chk.Err("inp: sediment properties file %q line %d: bad link id: %v", filename, lineNo, err)
		}
		node, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, chk.Err("inp: sediment properties file %q line %d: bad node id: %v", filename, lineNo, err)
		}
		// fields[2] is the layer index, implied by append order; not re-parsed
		thickness, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, chk.Err("inp: sediment properties file %q line %d: bad thickness: %v", filename, lineNo, err)
		}
		bottomW, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, chk.Err("inp: sediment properties file %q line %d: bad bottom width: %v", filename, lineNo, err)
		}
		porosity, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, chk.Err("inp: sediment properties file %q line %d: bad porosity: %v", filename, lineNo, err)
		}
		gsd := make([]float64, nClasses)
		for c := 0; c < nClasses; c++ {
			gsd[c], err = strconv.ParseFloat(fields[6+c], 64)
			if err != nil {
				return nil, chk.Err("inp: sediment properties file %q line %d: bad GSD[%d]: %v", filename, lineNo, c, err)
			}
		}
		if err := stack.ValidateGSD(gsd); err != nil {
			return nil, chk.Err("inp: sediment properties file %q line %d: %v", filename, lineNo, err)
		}

		k := key{link, node}
		if _, seen := layers[k]; !seen {
			order = append(order, k)
		}
		layers[k] = append(layers[k], &stack.Layer{
			Thickness: thickness, Volume: thickness * bottomW, Porosity: porosity,
			BottomWidth: bottomW, GSD: gsd, MinVol: 0, MaxVol: 1e18,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("inp: sediment properties file %q: read error: %v", filename, err)
	}

	stacks := make(map[key]*stack.Stack, len(order))
	for _, k := range order {
		isChannel := channelWidth != nil && k[0] != 0
		width := 0.0
		if isChannel {
			width = channelWidth[k]
		}
		s, err := stack.New(layers[k], isChannel, width)
		if err != nil {
			return nil, chk.Err("inp: sediment properties file %q: link %d node %d: %v", filename, k[0], k[1], err)
		}
		stacks[k] = s
	}
	return stacks, nil
}
