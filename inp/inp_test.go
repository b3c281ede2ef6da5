// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func writeTemp(tst *testing.T, name, content string) string {
	dir := tst.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tst.Fatalf("cannot write temp file: %v", err)
	}
	return path
}

func Test_inp01(tst *testing.T) {

	chk.PrintTitle("inp01: raster header/value round trip and grid assembly")

	maskPath := writeTemp(tst, "mask.asc", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 10\nNODATA_value -9999\n1 1\n1 1\n")
	elevPath := writeTemp(tst, "elev.asc", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 10\nNODATA_value -9999\n100 99\n98 97\n")
	luPath := writeTemp(tst, "lu.asc", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 10\nNODATA_value -9999\n1 1\n1 1\n")
	stPath := writeTemp(tst, "st.asc", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 10\nNODATA_value -9999\n1 1\n1 1\n")

	mask, err := ReadRaster(maskPath)
	if err != nil {
		tst.Fatalf("ReadRaster(mask) failed: %v", err)
	}
	chk.IntAssert(mask.NCols, 2)
	chk.IntAssert(mask.NRows, 2)
	chk.Scalar(tst, "cellsize", 1e-12, mask.CellSize, 10)

	elev, err := ReadRaster(elevPath)
	if err != nil {
		tst.Fatalf("ReadRaster(elev) failed: %v", err)
	}
	lu, err := ReadRaster(luPath)
	if err != nil {
		tst.Fatalf("ReadRaster(landuse) failed: %v", err)
	}
	st, err := ReadRaster(stPath)
	if err != nil {
		tst.Fatalf("ReadRaster(soiltype) failed: %v", err)
	}

	g, err := BuildGrid(mask, elev, lu, st)
	if err != nil {
		tst.Fatalf("BuildGrid failed: %v", err)
	}
	chk.IntAssert(len(g.Mask), 4)
	chk.Scalar(tst, "elev(0,0)", 1e-12, g.Elev[0], 100)
}

func Test_inp02(tst *testing.T) {

	chk.PrintTitle("inp02: misaligned NODATA between mask and companion raster is fatal")

	maskPath := writeTemp(tst, "mask.asc", "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 10\nNODATA_value -9999\n1 1\n")
	elevPath := writeTemp(tst, "elev.asc", "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 10\nNODATA_value -9999\n100 -9999\n")

	mask, err := ReadRaster(maskPath)
	if err != nil {
		tst.Fatalf("ReadRaster(mask) failed: %v", err)
	}
	elev, err := ReadRaster(elevPath)
	if err != nil {
		tst.Fatalf("ReadRaster(elev) failed: %v", err)
	}

	if err := checkAligned(mask, elev); err == nil {
		tst.Fatalf("expected a fatal misalignment error")
	}
}

func Test_inp03(tst *testing.T) {

	chk.PrintTitle("inp03: forcing records reader converts hours to seconds")

	path := writeTemp(tst, "forcing.dat", "0 0 0 3 1\n0.0 0.0\n5.0 1.0\n0.0 2.0\n")
	recs, err := ReadForcingRecords(path)
	if err != nil {
		tst.Fatalf("ReadForcingRecords failed: %v", err)
	}
	if len(recs) != 1 {
		tst.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	chk.IntAssert(rec.Class, 0)
	chk.IntAssert(rec.Option, ForcingConcentration)
	chk.Scalar(tst, "value at t=1h", 1e-12, rec.Func.F(3600.0, nil), 5.0)
}

func Test_inp04(tst *testing.T) {

	chk.PrintTitle("inp04: boundary condition reader keys by outlet and class")

	path := writeTemp(tst, "bc.dat", "3 0 2\n10.0 0.0\n20.0 1.0\n")
	bc, err := ReadBoundaryConditions(path)
	if err != nil {
		tst.Fatalf("ReadBoundaryConditions failed: %v", err)
	}
	chk.Scalar(tst, "concentration at t=0", 1e-12, bc.Concentration(3, 0, 0.0), 10.0)
	chk.Scalar(tst, "concentration for unknown outlet", 1e-12, bc.Concentration(99, 0, 0.0), 0.0)
}

func Test_inp06(tst *testing.T) {

	chk.PrintTitle("inp06: gauge set reader converts hours to seconds and supports multiple gauges")

	path := writeTemp(tst, "gauges.dat", "rg1 2\n0.0 0.0\n25.4 1.0\nrg2 2\n0.0 0.0\n10.0 2.0\n")
	set, err := ReadGaugeSet(path)
	if err != nil {
		tst.Fatalf("ReadGaugeSet failed: %v", err)
	}
	chk.IntAssert(set.Len(), 2)
	rg1 := set.Get("rg1")
	if rg1 == nil {
		tst.Fatalf("expected gauge rg1 to be registered")
	}
	chk.Scalar(tst, "rg1 at t=1h", 1e-12, rg1.F(3600.0, nil), 25.4)
	rg2 := set.Get("rg2")
	if rg2 == nil {
		tst.Fatalf("expected gauge rg2 to be registered")
	}
	chk.Scalar(tst, "rg2 at t=2h", 1e-12, rg2.F(7200.0, nil), 10.0)
}

func Test_inp07(tst *testing.T) {

	chk.PrintTitle("inp07: channel geometry reader keys records by link/node")

	path := writeTemp(tst, "geom.dat", "1 1 100.0 1.5 2.0 6.0 2.0 0.035 50.0 -1\n1 2 100.0 1.5 2.0 6.0 2.0 0.035 49.5 3\n")
	geom, err := ReadChannelGeometry(path)
	if err != nil {
		tst.Fatalf("ReadChannelGeometry failed: %v", err)
	}
	chk.IntAssert(len(geom), 2)
	g, ok := geom[[2]int{1, 2}]
	if !ok {
		tst.Fatalf("expected a geometry record for link 1 node 2")
	}
	chk.Scalar(tst, "bed elevation", 1e-12, g.BedElev, 49.5)
	chk.IntAssert(g.OutletID, 3)
}

func Test_inp08(tst *testing.T) {

	chk.PrintTitle("inp08: Config id-indexed maps convert into 0-based parameter slices")

	c := &Config{
		Erosion: map[string]ErosionData{
			"0": {Option: 1, K: 1e-3},
			"2": {Option: 2, K: 2e-3},
		},
		LandUse: map[string]LandUseData{
			"0": {Manning: 0.03},
			"1": {Manning: 0.1},
		},
		Soil: map[string]SoilTypeData{
			"0": {Kh: 1e-5, PsiF: 0.2, ThetaDefic: 0.3},
		},
		Outlets: map[string]OutletData{
			"3": {NormalDepth: true, BedSlope: 0.01},
		},
		Connectivity: map[string]int{"1": 3},
	}

	erosion, err := c.IndexErosion()
	if err != nil {
		tst.Fatalf("IndexErosion failed: %v", err)
	}
	chk.IntAssert(len(erosion), 3)
	chk.Scalar(tst, "erosion[2].K", 1e-12, erosion[2].K, 2e-3)
	chk.Scalar(tst, "erosion[1].K (unset, zero-valued)", 1e-12, erosion[1].K, 0.0)

	landUse, err := c.IndexLandUse()
	if err != nil {
		tst.Fatalf("IndexLandUse failed: %v", err)
	}
	chk.IntAssert(len(landUse), 2)
	chk.Scalar(tst, "landuse[1].Manning", 1e-12, landUse[1].Manning, 0.1)

	soil, err := c.IndexSoil()
	if err != nil {
		tst.Fatalf("IndexSoil failed: %v", err)
	}
	chk.IntAssert(len(soil), 1)
	chk.Scalar(tst, "soil[0].Kh", 1e-12, soil[0].Kh, 1e-5)

	conn, err := c.IndexConnectivity()
	if err != nil {
		tst.Fatalf("IndexConnectivity failed: %v", err)
	}
	chk.IntAssert(conn[1], 3)

	outlets, err := c.BuildOutlets()
	if err != nil {
		tst.Fatalf("BuildOutlets failed: %v", err)
	}
	o, ok := outlets[3]
	if !ok {
		tst.Fatalf("expected outlet 3 to be built")
	}
	if !o.NormalDepth {
		tst.Fatalf("expected outlet 3 to use normal-depth boundary")
	}
}

func Test_inp05(tst *testing.T) {

	chk.PrintTitle("inp05: sediment properties reader groups layers by link/node")

	path := writeTemp(tst, "sed.dat", "1 1 1 0.5 2.0 0.4 0.6 0.4\n1 1 2 1.0 2.0 0.3 0.5 0.5\n")
	stacks, err := ReadSedimentProperties(path, 2, map[[2]int]float64{{1, 1}: 2.0})
	if err != nil {
		tst.Fatalf("ReadSedimentProperties failed: %v", err)
	}
	s, ok := stacks[[2]int{1, 1}]
	if !ok {
		tst.Fatalf("expected a stack for link 1 node 1")
	}
	chk.IntAssert(s.NLayers(), 2)
}
