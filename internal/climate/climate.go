// Package climate assigns per-tile temperature, prevailing wind, and
// precipitation, §4.6 continued.
package climate

import (
	"math"
	"sort"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// Temperature interpolates linearly between the equator and polar
// temperatures by absolute latitude, then applies a per-scaled-elevation
// lapse above sea level, matching gen_climate.rs's equator_temp/polar_temp
// parameters.
func Temperature(c config.Climate, t *tilegraph.Tile) float64 {
	lat := math.Abs(t.Site.Y)
	if lat > 90 {
		lat = 90
	}
	base := c.EquatorTempC + (c.PolarTempC-c.EquatorTempC)*(lat/90.0)
	if t.ElevationScaled > coastline20 {
		base -= float64(t.ElevationScaled-coastline20) * c.ElevationLapse
	}
	return base
}

const coastline20 = 20 // sea level on the 0..100 scale; avoids importing coastline for one constant.

// AssignTemperatures sets Temperature on every tile.
func AssignTemperatures(c config.Climate, tiles []*tilegraph.Tile) {
	for _, t := range tiles {
		t.Temperature = Temperature(c, t)
	}
}

// windBand selects one of the six wind bearings by latitude band, per
// gen_climate.rs's north_polar/north_middle/north_tropical/south_tropical/
// south_middle/south_polar parameters (bands at 30 and 60 degrees).
func windBand(bands [6]float64, lat float64) float64 {
	switch {
	case lat >= 60:
		return bands[0]
	case lat >= 30:
		return bands[1]
	case lat >= 0:
		return bands[2]
	case lat >= -30:
		return bands[3]
	case lat >= -60:
		return bands[4]
	default:
		return bands[5]
	}
}

// windOf returns the prevailing wind bearing for t's latitude band. The
// bearing itself isn't stored on Tile (the data model only carries
// Precipitation downstream); AssignPrecipitation uses it internally during
// the transport pass.
func windOf(c config.Climate, t *tilegraph.Tile) float64 {
	return windBand(c.WindBands, t.Site.Y)
}

// downwindNeighbor returns t's non-OffMap neighbor whose bearing most
// closely matches the wind direction, or nil if t has no such neighbor or
// the closest bearing is more than 60 degrees off the wind (the moisture
// passed on from t is then lost).
func downwindNeighbor(t *tilegraph.Tile, wind float64, byID map[tilegraph.Id]*tilegraph.Tile) *tilegraph.Tile {
	var best *tilegraph.Tile
	bestDiff := math.Inf(1)
	for _, adj := range t.Neighbors {
		if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
			continue
		}
		diff := angleDiff(adj.Bearing, wind)
		if diff < bestDiff {
			bestDiff = diff
			best = byID[adj.Neighbor.Tile]
		}
	}
	if bestDiff > 60 {
		return nil
	}
	return best
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

const (
	transferFraction  = 0.6
	baseDepositRate   = 0.1
	orographicPerStep = 0.01
	maxIterations     = 64
)

// AssignPrecipitation runs a cellular moisture-transport pass: every ocean
// tile starts with config.Climate.MoistureFactor moisture; each iteration,
// every tile with moisture pushes a fraction of it to its downwind
// neighbor, depositing a share as precipitation (more over rising
// elevation, an orographic effect), until moisture has drained to
// negligible levels or the iteration cap is hit. This is original to this
// module -- the original_source repository's actual transport algorithm
// was not included in the retrieved slice, only its CLI parameters (the
// equator/polar temps, the six wind bearings, and the moisture scale,
// reused above).
func AssignPrecipitation(c config.Climate, tiles []*tilegraph.Tile) {
	byID := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	moisture := make(map[tilegraph.Id]float64, len(tiles))
	for _, t := range tiles {
		byID[t.ID] = t
		if t.Grouping == tilegraph.GroupingOcean {
			moisture[t.ID] = c.MoistureFactor
		}
		t.Precipitation = 0
	}

	order := make([]*tilegraph.Tile, len(tiles))
	copy(order, tiles)
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })

	for iter := 0; iter < maxIterations; iter++ {
		total := 0.0
		next := make(map[tilegraph.Id]float64, len(moisture))
		for _, t := range order {
			m := moisture[t.ID]
			if m <= 0.01 {
				continue
			}
			wind := windOf(c, t)
			down := downwindNeighbor(t, wind, byID)
			transfer := m * transferFraction
			rate := baseDepositRate
			if down != nil && down.ElevationScaled > t.ElevationScaled {
				rate += orographicPerStep * float64(down.ElevationScaled-t.ElevationScaled)
			}
			if rate > 1 {
				rate = 1
			}
			deposit := transfer * rate
			t.Precipitation += deposit
			remaining := m - transfer
			if down != nil {
				next[down.ID] += transfer - deposit
			}
			next[t.ID] += remaining
			total += m
		}
		moisture = next
		if total < 1e-6 {
			break
		}
	}
}
