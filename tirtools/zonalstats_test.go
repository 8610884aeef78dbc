package tirtools

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
)

// A 2.8 degree square placed strictly inside pixel interiors, covering
// columns 2-4 and rows 5-7 of the test raster.
const zoneSquare = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[2.1,2.1],[4.9,2.1],[4.9,4.9],[2.1,4.9],[2.1,2.1]]]}}]}`

const zoneFarAway = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[20.0,20.0],[25.0,20.0],[25.0,25.0],[20.0,25.0],[20.0,20.0]]]}}]}`

const zoneNoFeatures = `{"type":"FeatureCollection","features":[]}`

func TestZonalStatsUniformBlock(t *testing.T) {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = 200
	}
	raster := createTestRaster(t, buf, 10, 10)
	zone := writeZone(t, zoneSquare)

	res, err := ZonalStats(raster, zone, ZonalOpts{Band: 10, KeepGrid: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Computed {
		t.Fatalf("got outcome %v, want computed", res.Outcome)
	}
	if res.Count != 9 {
		t.Errorf("got %d pixels, want 9", res.Count)
	}
	if res.Stats.Std != 0 {
		t.Errorf("uniform block should have zero std, got %v", res.Stats.Std)
	}
	if res.Stats.Mean != res.Stats.Max || res.Stats.Mean != res.Stats.Min {
		t.Errorf("uniform block stats disagree: %+v", res.Stats)
	}

	want := 1736.18 / math.Log(3047.47/((200-1)*6.822e-3)+1)
	if math.Abs(res.Stats.Mean-want) > 1e-9 {
		t.Errorf("got mean %v, want %v", res.Stats.Mean, want)
	}

	if res.Grid == nil {
		t.Fatal("requested grid missing from result")
	}
	if res.Grid.W != 3 || res.Grid.H != 3 {
		t.Errorf("got %dx%d grid, want 3x3", res.Grid.W, res.Grid.H)
	}
	for pix, temp := range res.Grid.Data {
		if math.IsNaN(temp) {
			t.Errorf("pixel %d inside the zone should be valid", pix)
		}
	}
}

func TestZonalStatsExcludesZeroDN(t *testing.T) {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = 200
	}
	buf[6*10+3] = 0 // zone centre
	raster := createTestRaster(t, buf, 10, 10)
	zone := writeZone(t, zoneSquare)

	res, err := ZonalStats(raster, zone, ZonalOpts{Band: 13, KeepGrid: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Computed {
		t.Fatalf("got outcome %v, want computed", res.Outcome)
	}
	if res.Count != 8 {
		t.Errorf("zero DN pixel should be dropped: got %d pixels, want 8", res.Count)
	}
	if res.Stats.Std != 0 {
		t.Errorf("remaining pixels are uniform, got std %v", res.Stats.Std)
	}
	if !math.IsNaN(res.Grid.Data[1*3+1]) {
		t.Errorf("zero DN pixel should be NaN in the grid, got %v", res.Grid.Data[4])
	}
}

func TestZonalStatsMixedPopulation(t *testing.T) {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = 100
	}
	buf[5*10+2] = 200
	raster := createTestRaster(t, buf, 10, 10)
	zone := writeZone(t, zoneSquare)

	res, err := ZonalStats(raster, zone, ZonalOpts{Band: 13})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Computed || res.Count != 9 {
		t.Fatalf("got outcome %v with %d pixels", res.Outcome, res.Count)
	}

	low := 1349.82 / math.Log(865.65/((100-1)*5.693e-3)+1)
	high := 1349.82 / math.Log(865.65/((200-1)*5.693e-3)+1)
	if math.Abs(res.Stats.Min-low) > 1e-9 {
		t.Errorf("got min %v, want %v", res.Stats.Min, low)
	}
	if math.Abs(res.Stats.Max-high) > 1e-9 {
		t.Errorf("got max %v, want %v", res.Stats.Max, high)
	}
	if res.Stats.Min > res.Stats.Mean || res.Stats.Mean > res.Stats.Max {
		t.Errorf("mean %v outside [min, max]", res.Stats.Mean)
	}
	if res.Stats.Std <= 0 {
		t.Errorf("mixed population should have positive std, got %v", res.Stats.Std)
	}
}

func TestZonalStatsNoOverlap(t *testing.T) {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = 200
	}
	raster := createTestRaster(t, buf, 10, 10)
	zone := writeZone(t, zoneFarAway)

	res, err := ZonalStats(raster, zone, ZonalOpts{Band: 11})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != NoOverlap {
		t.Errorf("got outcome %v, want no overlap", res.Outcome)
	}
}

func TestZonalStatsEmptyZone(t *testing.T) {
	raster := createTestRaster(t, make([]byte, 100), 10, 10)

	res, err := ZonalStats(raster, writeZone(t, zoneSquare), ZonalOpts{Band: 14})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != EmptyZone {
		t.Errorf("all no-data pixels: got outcome %v, want empty zone", res.Outcome)
	}

	res, err = ZonalStats(raster, writeZone(t, zoneNoFeatures), ZonalOpts{Band: 14})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != EmptyZone {
		t.Errorf("featureless zone file: got outcome %v, want empty zone", res.Outcome)
	}
}

func TestZonalStatsInvalidBand(t *testing.T) {
	raster := createTestRaster(t, make([]byte, 100), 10, 10)
	zone := writeZone(t, zoneSquare)

	if _, err := ZonalStats(raster, zone, ZonalOpts{Band: 9}); !errors.Is(err, ErrInvalidBand) {
		t.Errorf("want ErrInvalidBand, got %v", err)
	}
}

func TestZonalStatsMissingRaster(t *testing.T) {
	zone := writeZone(t, zoneSquare)
	if _, err := ZonalStats(filepath.Join(t.TempDir(), "missing.tif"), zone, ZonalOpts{Band: 13}); err == nil {
		t.Error("missing raster should surface an error")
	}
}

func createTestRaster(t testing.TB, buf []byte, w int, h int) string {
	godal.RegisterAll()
	t.Helper()

	dsFile := filepath.Join(t.TempDir(), "scene.tif")
	ds, err := godal.Create(godal.GTiff, dsFile, 1, godal.Byte, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := ds.SetGeoTransform([6]float64{0.0, 1.0, 0.0, 10.0, 0.0, -1.0}); err != nil {
		t.Fatal(err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		t.Fatal(err)
	}
	if err := ds.SetSpatialRef(sr); err != nil {
		t.Fatal(err)
	}
	if err := ds.Bands()[0].Write(0, 0, buf, w, h); err != nil {
		t.Fatal(err)
	}
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}
	return dsFile
}

func writeZone(t testing.TB, geojson string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zone.geojson")
	if err := os.WriteFile(path, []byte(geojson), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
