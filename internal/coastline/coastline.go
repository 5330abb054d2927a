// Package coastline marks tiles as ocean or land from scaled elevation and
// dissolves each side into multipolygons with a smoothed outline, §4.6.
package coastline

import (
	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/curve"
	"github.com/worldatlas/worldgen/internal/dissolve"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// SeaLevel is the scaled-elevation value the terrain stage reserves for sea
// level (see terrain.Scaler.Scale): below it is ocean, at or above is land.
const SeaLevel = 20

// MarkOceans sets the initial Grouping of every tile to Ocean or Continent
// from its scaled elevation, ahead of the full flood-fill grouping pass
// (§4.11) which later refines Continent into Island/Islet/LakeIsland.
func MarkOceans(tiles []*tilegraph.Tile) {
	for _, t := range tiles {
		if t.ElevationScaled < SeaLevel {
			t.Grouping = tilegraph.GroupingOcean
		} else {
			t.Grouping = tilegraph.GroupingContinent
		}
	}
}

// Result holds the dissolved, smoothed coastline layer: one multipolygon
// for "ocean" and one for "land", sharing a boundary-smoothing cache so the
// coastline itself can be reused without re-smoothing when stage 19 treats
// it as one of the dissolve themes.
type Result struct {
	Ocean orb.MultiPolygon
	Land  orb.MultiPolygon
	Cache *dissolve.Cache
}

// Build dissolves ocean and land tiles separately and smooths both outlines
// through a shared cache, grounded on
// original_source/src/commands/gen_water.rs's Coastline step (dissolve,
// then bezier-smooth at bezier_scale).
func Build(tiles []*tilegraph.Tile, smoother curve.Smoother, bezierScale float64) Result {
	members := map[string][]orb.Polygon{"ocean": nil, "land": nil}
	for _, t := range tiles {
		if len(t.Polygon) == 0 {
			continue
		}
		if t.Grouping == tilegraph.GroupingOcean {
			members["ocean"] = append(members["ocean"], t.Polygon)
		} else {
			members["land"] = append(members["land"], t.Polygon)
		}
	}

	dissolved := dissolve.Dissolve(members)
	cache := dissolve.NewCache()
	return Result{
		Ocean: dissolve.Smooth(cache, smoother, bezierScale, dissolved["ocean"]),
		Land:  dissolve.Smooth(cache, smoother, bezierScale, dissolved["land"]),
		Cache: cache,
	}
}
