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

// ReadGaugeSet parses a named time-series gauge file (spec §4.4 item 1
// "rainfall/snow input"): a "name n_pairs" header line followed by n_pairs
// "value time_hours" lines, repeated to EOF. One file serves either the
// rainfall or the air-temperature gauge set, selected by the caller.
func ReadGaugeSet(filename string) (*forcing.Set, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("inp: cannot open gauge file %q: %v", filename, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	set := forcing.NewSet()
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
		if len(hf) != 2 {
			return nil, chk.Err("inp: gauge file %q line %d: expected 2 header fields, got %d", filename, lineNo, len(hf))
		}
		name := hf[0]
		nPairs, err := strconv.Atoi(hf[1])
		if err != nil {
			return nil, chk.Err("inp: gauge file %q line %d: bad pair count: %v", filename, lineNo, err)
		}

		times := make([]float64, nPairs)
		values := make([]float64, nPairs)
		for i := 0; i < nPairs; i++ {
			pair, ok := nextLine()
			if !ok {
				return nil, chk.Err("inp: gauge file %q: expected %d pairs after line %d, found fewer", filename, nPairs, lineNo)
			}
			pf := strings.Fields(pair)
			if len(pf) != 2 {
				return nil, chk.Err("inp: gauge file %q line %d: expected 2 fields, got %d", filename, lineNo, len(pf))
			}
			v, errv := strconv.ParseFloat(pf[0], 64)
			t, errt := strconv.ParseFloat(pf[1], 64)
			if errv != nil || errt != nil {
				return nil, chk.Err("inp: gauge file %q line %d: malformed pair", filename, lineNo)
			}
			values[i] = v
			times[i] = t * 3600.0 // hours -> seconds
		}

		fn, err := forcing.New(times, values, false)
		if err != nil {
			return nil, chk.Err("inp: gauge file %q: gauge %q: %v", filename, name, err)
		}
		set.Add(name, fn)
	}
	return set, nil
}
