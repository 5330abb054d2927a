// Package terrain samples or synthesizes per-tile elevation and scales it
// to the 0..100 range the rest of the pipeline works in (20 = sea level).
package terrain

import (
	"math"
)

// RasterBand is the minimal contract the core needs from an external
// raster elevation source: a value lookup by pixel, and the sentinel used
// for missing data. Opening the actual raster file is out of scope (an
// external collaborator); this interface is what the terrain stage is
// built against.
type RasterBand interface {
	ValueAt(px, py int) (float64, bool) // ok=false means no-data
}

// GeoTransform maps a site coordinate to a raster pixel, standard affine
// with an optionally inverted y-axis.
type GeoTransform struct {
	OriginX, OriginY float64
	PixelWidth       float64
	PixelHeight      float64 // negative when the y-axis is inverted
}

// CoordsToPixel applies the inverse affine transform.
func (g GeoTransform) CoordsToPixel(x, y float64) (int, int) {
	px := int((x - g.OriginX) / g.PixelWidth)
	py := int((y - g.OriginY) / g.PixelHeight)
	return px, py
}

// Scaler converts raw elevation to the pipeline's 0..100 scale, where 20 is
// sea level, using piecewise-linear scaling anchored at the elevation
// limits (min, max) recorded in the properties layer -- grounded directly
// on the reference raster sampler's two-sided scale.
type Scaler struct {
	MinElevation float64
	MaxElevation float64
}

// Scale maps elevation into 0..100. Elevations at or above zero map
// linearly into [20,100]; elevations below zero map linearly into [0,20).
func (s Scaler) Scale(elevation float64) int {
	if s.MaxElevation == 0 && s.MinElevation == 0 {
		return 20
	}
	if elevation >= 0 {
		if s.MaxElevation == 0 {
			return 20
		}
		positiveScale := 80.0 / s.MaxElevation
		return 20 + int(math.Floor(elevation*positiveScale))
	}
	if s.MinElevation == 0 {
		return 20
	}
	negativeScale := 20.0 / math.Abs(s.MinElevation)
	scaled := 20 - int(math.Ceil(math.Abs(elevation)*negativeScale))
	if scaled < 0 {
		scaled = 0
	}
	return scaled
}

// SampleTile looks up the elevation for a tile's site coordinate using the
// raster's geo-transform, returning the minimum recorded elevation when the
// pixel is no-data (matching the boundary behavior for a raster with
// no-data at a site).
func SampleTile(band RasterBand, gt GeoTransform, scale Scaler, siteX, siteY float64) (raw float64, scaled int) {
	px, py := gt.CoordsToPixel(siteX, siteY)
	if v, ok := band.ValueAt(px, py); ok {
		return v, scale.Scale(v)
	}
	return scale.MinElevation, scale.Scale(scale.MinElevation)
}

// OceanMethod selects how elevation is translated into the initial ocean
// grouping seed before coastline extraction.
type OceanMethod struct {
	Below    *float64 // any elevation below this value is ocean
	AllValid bool      // every pixel that isn't no-data is ocean
}

// IsOcean evaluates the ocean method against one sampled pixel.
func (m OceanMethod) IsOcean(elevation float64, isNoData bool) bool {
	if isNoData {
		return false
	}
	if m.Below != nil {
		return elevation < *m.Below
	}
	return m.AllValid
}
