package tirtools

import (
	"errors"
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

// Outcome distinguishes a computed result from the benign no-data conditions
// a zone can hit. NoOverlap and EmptyZone are expected outcomes for zones
// that miss the image swath, not errors.
type Outcome int

const (
	Computed Outcome = iota
	NoOverlap
	EmptyZone
)

func (o Outcome) String() string {
	switch o {
	case Computed:
		return "computed"
	case NoOverlap:
		return "no overlap"
	case EmptyZone:
		return "empty zone"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Statistics of the brightness-temperature population inside the zone,
// in Kelvin. Std is the population standard deviation.
type Statistics struct {
	Mean float64
	Max  float64
	Min  float64
	Std  float64
}

// TempGrid is the zone-clipped temperature window. Data is row-major W*H;
// pixels outside the zone polygons or flagged no-data are NaN. GeoTransform
// locates the window in the raster's CRS.
type TempGrid struct {
	Data         []float64
	W            int
	H            int
	GeoTransform [6]float64
}

// ZonalOpts configures a single zonal statistics run.
type ZonalOpts struct {
	Band     int  // TIR band of the raster, 10..14, selects calibration constants
	KeepGrid bool // retain the clipped temperature grid on the result
}

// Result of a zonal statistics run. Stats and Count are only meaningful when
// Outcome is Computed; Grid is populated when requested via ZonalOpts.
type Result struct {
	Outcome Outcome
	Stats   Statistics
	Count   int
	Grid    *TempGrid
}

type window struct {
	col0, row0 int
	w, h       int
}

// ZonalStats computes mean, max, min and standard deviation of brightness
// temperature over the polygon zone(s) in zonePath, for the single-band DN
// raster at rasterPath. The zone geometry is reprojected to the raster's CRS,
// the raster is cropped to the zone bounds and masked with all-touched
// semantics, and DN 0 pixels are dropped as no-data before conversion.
func ZonalStats(rasterPath string, zonePath string, opts ZonalOpts) (res Result, err error) {
	godal.RegisterAll()
	if err := validateBand(opts.Band); err != nil {
		return Result{}, err
	}

	ds, err := godal.Open(rasterPath)
	if err != nil {
		logrus.Error(err)
		return Result{}, err
	}
	defer func() {
		err = errors.Join(err, ds.Close())
	}()

	gt, err := ds.GeoTransform()
	if err != nil {
		logrus.Error(err)
		return Result{}, err
	}
	bands := ds.Bands()
	if len(bands) == 0 {
		return Result{}, fmt.Errorf("raster %s has no bands", rasterPath)
	}

	srs := ds.SpatialRef()
	geoms, err := loadZoneGeometries(zonePath, srs)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		for _, g := range geoms {
			g.Close()
		}
	}()
	if len(geoms) == 0 {
		logrus.Debugf("no features in %s", zonePath)
		return Result{Outcome: EmptyZone}, nil
	}

	struc := ds.Structure()
	win, ok, err := zoneWindow(geoms, gt, struc.SizeX, struc.SizeY)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		logrus.Debugf("zone %s does not intersect raster %s", zonePath, rasterPath)
		return Result{Outcome: NoOverlap}, nil
	}

	buf := make([]float64, win.w*win.h)
	if err := bands[0].Read(win.col0, win.row0, buf, win.w, win.h); err != nil {
		return Result{}, err
	}

	mask, err := rasterizeZone(geoms, gt, win, srs)
	if err != nil {
		return Result{}, err
	}

	// Promote to a masked float grid: pixels outside the polygons and the
	// DN 0 no-data sentinel both become NaN.
	for pix := range buf {
		if mask[pix] == 0 || buf[pix] == 0 {
			buf[pix] = math.NaN()
		}
	}

	if err := convertGrid(buf, opts.Band); err != nil {
		return Result{}, err
	}

	values := make([]float64, 0, len(buf))
	for _, temp := range buf {
		if !math.IsNaN(temp) {
			values = append(values, temp)
		}
	}
	if len(values) == 0 {
		logrus.Debugf("zone %s holds no valid pixels in %s", zonePath, rasterPath)
		return Result{Outcome: EmptyZone}, nil
	}

	res = Result{
		Outcome: Computed,
		Stats: Statistics{
			Mean: Mean(values...),
			Max:  Max(values...),
			Min:  Min(values...),
			Std:  Std(values...),
		},
		Count: len(values),
	}
	if opts.KeepGrid {
		res.Grid = &TempGrid{
			Data:         buf,
			W:            win.w,
			H:            win.h,
			GeoTransform: windowGeoTransform(gt, win),
		}
	}
	return res, nil
}

// loadZoneGeometries reads every feature of the first layer and returns its
// geometry reprojected to the raster's spatial reference. Geometries are
// round-tripped through WKT so they outlive their source features.
func loadZoneGeometries(zonePath string, rasterSRS *godal.SpatialRef) ([]*godal.Geometry, error) {
	zds, err := godal.Open(zonePath, godal.VectorOnly())
	if err != nil {
		logrus.Error(err)
		return nil, err
	}
	defer func() {
		if err := zds.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	layers := zds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("vector %s has no layers", zonePath)
	}

	var geoms []*godal.Geometry
	for feat := layers[0].NextFeature(); feat != nil; feat = layers[0].NextFeature() {
		g := feat.Geometry()
		if g == nil {
			feat.Close()
			continue
		}
		if err := g.Reproject(rasterSRS); err != nil {
			feat.Close()
			closeAll(geoms)
			return nil, fmt.Errorf("reprojecting zone geometry: %w", err)
		}
		wkt, err := g.WKT()
		if err == nil {
			var owned *godal.Geometry
			owned, err = godal.NewGeometryFromWKT(wkt, rasterSRS)
			if err == nil {
				geoms = append(geoms, owned)
			}
		}
		feat.Close()
		if err != nil {
			closeAll(geoms)
			return nil, err
		}
	}
	return geoms, nil
}

func closeAll(geoms []*godal.Geometry) {
	for _, g := range geoms {
		g.Close()
	}
}

// zoneWindow maps the union of the geometry bounds to a pixel window, clamped
// to the raster extent. ok is false when the bounds miss the raster entirely.
// Assumes a north-up geotransform, as the rest of the pipeline does.
func zoneWindow(geoms []*godal.Geometry, gt [6]float64, sizeX, sizeY int) (window, bool, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, g := range geoms {
		b, err := g.Bounds()
		if err != nil {
			return window{}, false, err
		}
		minX = math.Min(minX, b[0])
		minY = math.Min(minY, b[1])
		maxX = math.Max(maxX, b[2])
		maxY = math.Max(maxY, b[3])
	}

	// gt[5] is negative for north-up rasters, so maxY maps to the top row.
	col0 := int(math.Floor((minX - gt[0]) / gt[1]))
	col1 := int(math.Ceil((maxX - gt[0]) / gt[1]))
	row0 := int(math.Floor((maxY - gt[3]) / gt[5]))
	row1 := int(math.Ceil((minY - gt[3]) / gt[5]))

	if col0 < 0 {
		col0 = 0
	}
	if row0 < 0 {
		row0 = 0
	}
	if col1 > sizeX {
		col1 = sizeX
	}
	if row1 > sizeY {
		row1 = sizeY
	}
	if col0 >= col1 || row0 >= row1 {
		return window{}, false, nil
	}
	return window{col0: col0, row0: row0, w: col1 - col0, h: row1 - row0}, true, nil
}

// rasterizeZone burns the zone polygons into an in-memory byte mask covering
// the window, with all-touched semantics so pixels merely touched by a
// polygon boundary count as inside.
func rasterizeZone(geoms []*godal.Geometry, gt [6]float64, win window, srs *godal.SpatialRef) (mask []byte, err error) {
	mem, err := godal.Create(godal.Memory, "", 1, godal.Byte, win.w, win.h)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, mem.Close())
	}()

	if err := mem.SetGeoTransform(windowGeoTransform(gt, win)); err != nil {
		return nil, err
	}
	if srs != nil {
		if err := mem.SetSpatialRef(srs); err != nil {
			return nil, err
		}
	}

	for _, g := range geoms {
		if err := mem.RasterizeGeometry(g, godal.Values(1), godal.AllTouched()); err != nil {
			return nil, fmt.Errorf("rasterizing zone geometry: %w", err)
		}
	}

	mask = make([]byte, win.w*win.h)
	if err := mem.Bands()[0].Read(0, 0, mask, win.w, win.h); err != nil {
		return nil, err
	}
	return mask, nil
}

func windowGeoTransform(gt [6]float64, win window) [6]float64 {
	return [6]float64{
		gt[0] + float64(win.col0)*gt[1],
		gt[1],
		gt[2],
		gt[3] + float64(win.row0)*gt[5],
		gt[4],
		gt[5],
	}
}
