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
)

// ReadChannelGeometry parses the per-(link,node) channel cross-section and
// routing geometry file (spec §6 "Node/link files"), the NodeGeom BuildNetwork
// needs but the sediment-properties file does not carry (that file gives
// only bottom width, for stack volume). One line per node:
//
//	link node length bankheight bottomw topw sideslope manning bedelev outletid
//
// outletid is -1 for an interior node.
func ReadChannelGeometry(filename string) (map[[2]int]NodeGeom, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("inp: cannot open channel geometry file %q: %v", filename, err)
	}
	defer f.Close()

	out := make(map[[2]int]NodeGeom)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 10 {
			return nil, chk.Err("inp: channel geometry file %q line %d: expected 10 fields, got %d", filename, lineNo, len(fields))
		}
		link, err1 := strconv.Atoi(fields[0])
		node, err2 := strconv.Atoi(fields[1])
		length, err3 := strconv.ParseFloat(fields[2], 64)
		bankHeight, err4 := strconv.ParseFloat(fields[3], 64)
		bottomW, err5 := strconv.ParseFloat(fields[4], 64)
		topW, err6 := strconv.ParseFloat(fields[5], 64)
		sideSlope, err7 := strconv.ParseFloat(fields[6], 64)
		manning, err8 := strconv.ParseFloat(fields[7], 64)
		bedElev, err9 := strconv.ParseFloat(fields[8], 64)
		outletID, err10 := strconv.Atoi(fields[9])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil ||
			err6 != nil || err7 != nil || err8 != nil || err9 != nil || err10 != nil {
			return nil, chk.Err("inp: channel geometry file %q line %d: malformed record", filename, lineNo)
		}
		out[[2]int{link, node}] = NodeGeom{
			Length: length, BankHeight: bankHeight, BottomW: bottomW, TopW: topW,
			SideSlope: sideSlope, Manning: manning, BedElev: bedElev, OutletID: outletID,
		}
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("inp: channel geometry file %q: read error: %v", filename, err)
	}
	return out, nil
}
