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

// Forcing-record option codes (spec §6 "Forcing function records").
const (
	ForcingLoad          = 0 // kg/day
	ForcingConcentration = 1 // g/m^3
)

// ForcingRecord is one decoded `{row,col,class,n_pairs,option}` block plus
// its (value, time_hours) pairs (spec §6): a distributed or point sediment
// load/concentration series applied at one grid cell, for one solids class.
type ForcingRecord struct {
	Row, Col int
	Class    int
	Option   int
	Func     *forcing.Function
}

// ReadForcingRecords parses a sequence of forcing-function records: a
// "row col class n_pairs option" header line followed by n_pairs "value
// time_hours" lines, repeated to EOF (spec §6).
func ReadForcingRecords(filename string) ([]ForcingRecord, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("inp: cannot open forcing record file %q: %v", filename, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var out []ForcingRecord
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

	for {
		header, ok := nextLine()
		if !ok {
			break
		}
		hf := strings.Fields(header)
		if len(hf) != 5 {
			return nil, chk.Err("inp: forcing record file %q line %d: expected 5 header fields, got %d", filename, lineNo, len(hf))
		}
		row, err1 := strconv.Atoi(hf[0])
		col, err2 := strconv.Atoi(hf[1])
		class, err2b := strconv.Atoi(hf[2])
		nPairs, err3 := strconv.Atoi(hf[3])
		option, err4 := strconv.Atoi(hf[4])
		if err1 != nil || err2 != nil || err2b != nil || err3 != nil || err4 != nil {
			return nil, chk.Err("inp: forcing record file %q line %d: malformed header", filename, lineNo)
		}

		times := make([]float64, nPairs)
		values := make([]float64, nPairs)
		for i := 0; i < nPairs; i++ {
			pair, ok := nextLine()
			if !ok {
				return nil, chk.Err("inp: forcing record file %q: expected %d pairs after line %d, found fewer", filename, nPairs, lineNo)
			}
			pf := strings.Fields(pair)
			if len(pf) != 2 {
				return nil, chk.Err("inp: forcing record file %q line %d: expected 2 fields, got %d", filename, lineNo, len(pf))
			}
			v, errv := strconv.ParseFloat(pf[0], 64)
			t, errt := strconv.ParseFloat(pf[1], 64)
			if errv != nil || errt != nil {
				return nil, chk.Err("inp: forcing record file %q line %d: malformed pair", filename, lineNo)
			}
			values[i] = v
			times[i] = t * 3600.0 // hours -> seconds, TREX's internal time unit
		}

		fn, err := forcing.New(times, values, false)
		if err != nil {
			return nil, chk.Err("inp: forcing record file %q: row %d col %d: %v", filename, row, col, err)
		}
		out = append(out, ForcingRecord{Row: row, Col: col, Class: class, Option: option, Func: fn})
	}
	return out, nil
}
