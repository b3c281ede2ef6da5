// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the ESRI-ASCII-like raster, network, sediment
// property, forcing-function and boundary-condition readers and the JSON
// simulation configuration of spec §6.
package inp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/trex/grid"
)

// Raster is one decoded ESRI-ASCII-like grid (spec §6 "Input raster
// grids"): a header plus nrows*ncols row-major values, top row first.
type Raster struct {
	NCols, NRows             int
	Xllcorner, Yllcorner     float64
	CellSize                 float64
	NoDataValue              float64
	Values                   []float64 // len == NRows*NCols
}

// ReadRaster parses an ESRI-ASCII-like raster file (spec §6).
func ReadRaster(filename string) (*Raster, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("inp: cannot open raster %q: %v", filename, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	r := &Raster{}
	header := map[string]float64{
		"ncols": 0, "nrows": 0, "xllcorner": 0, "yllcorner": 0, "cellsize": 0, "nodata_value": 0,
	}
	nHeader := 0
	for nHeader < 6 && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		key := strings.ToLower(fields[0])
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, chk.Err("inp: raster %q: bad header value for %q: %v", filename, key, err)
		}
		if _, ok := header[key]; !ok {
			return nil, chk.Err("inp: raster %q: unknown header key %q", filename, key)
		}
		header[key] = val
		nHeader++
	}
	r.NCols = int(header["ncols"])
	r.NRows = int(header["nrows"])
	r.Xllcorner = header["xllcorner"]
	r.Yllcorner = header["yllcorner"]
	r.CellSize = header["cellsize"]
	r.NoDataValue = header["nodata_value"]
	if r.NCols <= 0 || r.NRows <= 0 || r.CellSize <= 0 {
		return nil, chk.Err("inp: raster %q: invalid header (ncols=%d nrows=%d cellsize=%g)", filename, r.NCols, r.NRows, r.CellSize)
	}

	n := r.NCols * r.NRows
	r.Values = make([]float64, 0, n)
	for sc.Scan() {
		for _, tok := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, chk.Err("inp: raster %q: bad numeric value %q: %v", filename, tok, err)
			}
			r.Values = append(r.Values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("inp: raster %q: read error: %v", filename, err)
	}
	if len(r.Values) != n {
		return nil, chk.Err("inp: raster %q: expected %d values, got %d", filename, n, len(r.Values))
	}
	return r, nil
}

// WriteRaster writes values back out in the same ESRI-ASCII-like format
// (spec §6, used by the grid-output writer).
func WriteRaster(filename string, ncols, nrows int, xll, yll, cellsize, nodata float64, values []float64) error {
	f, err := os.Create(filename)
	if err != nil {
		return chk.Err("inp: cannot create raster %q: %v", filename, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ncols %d\n", ncols)
	fmt.Fprintf(w, "nrows %d\n", nrows)
	fmt.Fprintf(w, "xllcorner %g\n", xll)
	fmt.Fprintf(w, "yllcorner %g\n", yll)
	fmt.Fprintf(w, "cellsize %g\n", cellsize)
	fmt.Fprintf(w, "NODATA_value %g\n", nodata)
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if j > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%g", values[i*ncols+j])
		}
		fmt.Fprint(w, "\n")
	}
	return w.Flush()
}

// BuildGrid converts a mask raster (plus the elevation/land-use/soil-type
// rasters sharing its header) into a grid.Grid, failing fatally on any
// header or nodata/active-cell misalignment (spec §6 "Misalignment ...
// is a fatal error").
func BuildGrid(mask, elev, landUse, soilType *Raster) (*grid.Grid, error) {
	if err := checkAligned(mask, elev, landUse, soilType); err != nil {
		return nil, err
	}
	g := grid.New(mask.NRows, mask.NCols, mask.Xllcorner, mask.Yllcorner, mask.CellSize)
	for idx := range g.Mask {
		m := int(mask.Values[idx])
		if mask.Values[idx] == mask.NoDataValue {
			m = grid.NoDataCell
		}
		g.Mask[idx] = m
		g.ElevInit[idx] = elev.Values[idx]
		g.Elev[idx] = elev.Values[idx]
		if elev.Values[idx] == elev.NoDataValue {
			g.ElevInit[idx], g.Elev[idx] = grid.NoData, grid.NoData
		}
		g.LandUse[idx] = int(landUse.Values[idx])
		g.SoilType[idx] = int(soilType.Values[idx])
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// checkAligned verifies every raster shares the mask's header and that no
// active mask cell reads NODATA from a companion raster.
func checkAligned(mask *Raster, others ...*Raster) error {
	for _, o := range others {
		if o == nil {
			continue
		}
		if o.NCols != mask.NCols || o.NRows != mask.NRows {
			return chk.Err("inp: raster dimension mismatch against mask (%dx%d vs %dx%d)", o.NCols, o.NRows, mask.NCols, mask.NRows)
		}
		for idx, mv := range mask.Values {
			if mv == mask.NoDataValue {
				continue
			}
			if o.Values[idx] == o.NoDataValue {
				i, j := idx/mask.NCols, idx%mask.NCols
				return chk.Err("inp: active mask cell (%d,%d) has NODATA in a companion raster", i, j)
			}
		}
	}
	return nil
}
