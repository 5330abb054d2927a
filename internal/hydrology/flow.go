// Package hydrology computes water flow (§4.7) and lake fill (§4.8),
// grounded on original_source/src/algorithms/water_flow.rs.
package hydrology

import (
	"math"
	"sort"

	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// byID indexes tiles for neighbor lookups, built once per stage call.
func byID(tiles []*tilegraph.Tile) map[tilegraph.Id]*tilegraph.Tile {
	m := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		m[t.ID] = t
	}
	return m
}

// findLowestNeighbors returns the set of t's plain/cross-map neighbors
// tied for lowest elevation, and that elevation, mirroring
// super::tiles::find_lowest_neighbors in the original source.
func findLowestNeighbors(t *tilegraph.Tile, lookup map[tilegraph.Id]*tilegraph.Tile) ([]tilegraph.Id, *float64) {
	var lowest []tilegraph.Id
	var lowestElev *float64
	for _, adj := range t.Neighbors {
		if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
			continue
		}
		n, ok := lookup[adj.Neighbor.Tile]
		if !ok {
			continue
		}
		switch {
		case lowestElev == nil || n.Elevation < *lowestElev:
			e := n.Elevation
			lowestElev = &e
			lowest = []tilegraph.Id{n.ID}
		case n.Elevation == *lowestElev:
			lowest = append(lowest, n.ID)
		}
	}
	return lowest, lowestElev
}

// LakeSeed is a local elevation minimum that could not drain further:
// a candidate lake start, carrying the water flow pooling there.
type LakeSeed struct {
	TileID    tilegraph.Id
	WaterFlow float64
}

// GenerateWaterFlow processes non-ocean tiles from highest to lowest
// elevation, pushing each tile's accumulated flow plus its own
// precipitation-derived contribution downhill to its lowest neighbor(s),
// or queuing it as a lake seed when it has no strictly-lower neighbor.
func GenerateWaterFlow(tiles []*tilegraph.Tile) []LakeSeed {
	lookup := byID(tiles)
	cellsModifier := math.Pow(float64(len(tiles))/10000.0, 0.25)
	if cellsModifier == 0 {
		cellsModifier = 1
	}

	type entry struct {
		tile      *tilegraph.Tile
		elevation float64
	}
	var order []entry
	for _, t := range tiles {
		if t.Grouping == tilegraph.GroupingOcean {
			continue
		}
		order = append(order, entry{t, t.Elevation})
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].elevation > order[j].elevation })

	var lakeQueue []LakeSeed

	for _, e := range order {
		t := e.tile
		waterFlow := t.WaterFlow + t.Precipitation/cellsModifier
		lowest, lowestElevation := findLowestNeighbors(t, lookup)

		var waterAccumulation float64
		var flowTo []tilegraph.Neighbor

		switch {
		case lowestElevation == nil:
			lakeQueue = append(lakeQueue, LakeSeed{TileID: t.ID, WaterFlow: waterFlow})
			waterAccumulation = waterFlow
		case *lowestElevation < e.elevation:
			neighborFlow := waterFlow / float64(len(lowest))
			for _, nid := range lowest {
				if n, ok := lookup[nid]; ok {
					n.WaterFlow += neighborFlow
				}
				flowTo = append(flowTo, tilegraph.TileNeighbor(nid))
			}
		default:
			lakeQueue = append(lakeQueue, LakeSeed{TileID: t.ID, WaterFlow: waterFlow})
			waterAccumulation = waterFlow
		}

		t.WaterFlow = waterFlow
		t.WaterAccumulation += waterAccumulation
		t.FlowTo = flowTo
	}

	return lakeQueue
}
