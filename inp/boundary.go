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

	"github.com/cpmech/trex/forcing"
)

// BoundaryConditions holds, per outlet id and per solids class, the
// prescribed inflow-concentration time series applied at a network outlet
// (spec §6 "Boundary conditions: per outlet, per class, (concentration,
// time) pairs").
type BoundaryConditions struct {
	Conc map[int]map[int]*forcing.Function // [outletID][classIdx]
}

// Concentration evaluates the prescribed concentration for the given outlet
// and class at time t, returning 0 when no series was given (the outlet
// contributes no sediment).
func (b *BoundaryConditions) Concentration(outletID, class int, t float64) float64 {
	byClass, ok := b.Conc[outletID]
	if !ok {
		return 0
	}
	fn, ok := byClass[class]
	if !ok {
		return 0
	}
	return fn.F(t, nil)
}

// ReadBoundaryConditions parses the boundary-condition file: repeated
// blocks of "outlet_id class_idx n_pairs" headers followed by n_pairs
// "concentration time_hours" lines (spec §6).
func ReadBoundaryConditions(filename string) (*BoundaryConditions, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("inp: cannot open boundary condition file %q: %v", filename, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	nextLine := func() (string, bool) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	bc := &BoundaryConditions{Conc: make(map[int]map[int]*forcing.Function)}
	for {
		header, ok := nextLine()
		if !ok {
			break
		}
		hf := strings.Fields(header)
		if len(hf) != 3 {
			return nil, chk.Err("inp: boundary condition file %q line %d: expected 3 header fields, got %d", filename, lineNo, len(hf))
		}
		outletID, err1 := strconv.Atoi(hf[0])
		class, err2 := strconv.Atoi(hf[1])
		nPairs, err3 := strconv.Atoi(hf[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, chk.Err("inp: boundary condition file %q line %d: malformed header", filename, lineNo)
		}

		times := make([]float64, nPairs)
		values := make([]float64, nPairs)
		for i := 0; i < nPairs; i++ {
			pair, ok := nextLine()
			if !ok {
				return nil, chk.Err("inp: boundary condition file %q: expected %d pairs after line %d, found fewer", filename, nPairs, lineNo)
			}
			pf := strings.Fields(pair)
			if len(pf) != 2 {
				return nil, chk.Err("inp: boundary condition file %q line %d: expected 2 fields, got %d", filename, lineNo, len(pf))
			}
			conc, errc := strconv.ParseFloat(pf[0], 64)
			t, errt := strconv.ParseFloat(pf[1], 64)
			if errc != nil || errt != nil {
				return nil, chk.Err("inp: boundary condition file %q line %d: malformed pair", filename, lineNo)
			}
			values[i] = conc
			times[i] = t * 3600.0
		}

		fn, err := forcing.New(times, values, false)
		if err != nil {
			return nil, chk.Err("inp: boundary condition file %q: outlet %d class %d: %v", filename, outletID, class, err)
		}
		if bc.Conc[outletID] == nil {
			bc.Conc[outletID] = make(map[int]*forcing.Function)
		}
		bc.Conc[outletID][class] = fn
	}
	return bc, nil
}
