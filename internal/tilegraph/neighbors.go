package tilegraph

import (
	"fmt"
	"math"

	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/voronoi"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

const vertexEpsilon = 1e-7

// vertexKey rounds a polygon vertex to a stable grid cell so that two
// tiles sharing a boundary point (up to floating point noise) hash to the
// same key.
func vertexKey(x, y float64) [2]int64 {
	const scale = 1e7
	return [2]int64{int64(math.Round(x * scale)), int64(math.Round(y * scale))}
}

// BuildTiles converts Voronoi cells into Tile records (without neighbors
// yet) in the cells' emission order, which the ordering guarantees rely on
// downstream.
func BuildTiles(cells []voronoi.Cell) []*Tile {
	tiles := make([]*Tile, len(cells))
	for i, c := range cells {
		tiles[i] = &Tile{
			ID:      Id(i + 1),
			Site:    c.Site,
			Polygon: c.Polygon,
			Area:    c.Area,
			Edge:    c.Edge,
		}
	}
	return tiles
}

// CalculateNeighbors computes bidirectional adjacency for every pair of
// tiles sharing at least one boundary vertex, tags each with the bearing
// from the owning site, fills CrossMap adjacencies across a wrapping
// extent's east/west edge, and, on a tile tagged with a map edge, fills
// OffMap entries for the directions on that edge that have no neighbor.
// Interior tiles get no OffMap entries, so their neighbor list does not
// necessarily cover all eight directions. It returns an error if any tile
// ends up with zero neighbors at all.
func CalculateNeighbors(shape worldshape.Shape, extent geomcore.Extent, tiles []*Tile) error {
	vertexOwners := map[[2]int64][]int{}
	for i, t := range tiles {
		seen := map[[2]int64]bool{}
		for _, ring := range t.Polygon {
			for _, pt := range ring {
				k := vertexKey(pt[0], pt[1])
				if seen[k] {
					continue
				}
				seen[k] = true
				vertexOwners[k] = append(vertexOwners[k], i)
			}
		}
	}

	adjacent := make([]map[int]bool, len(tiles))
	for i := range adjacent {
		adjacent[i] = map[int]bool{}
	}
	for _, owners := range vertexOwners {
		if len(owners) < 2 {
			continue
		}
		for i := 0; i < len(owners); i++ {
			for j := i + 1; j < len(owners); j++ {
				a, b := owners[i], owners[j]
				adjacent[a][b] = true
				adjacent[b][a] = true
			}
		}
	}

	for i, t := range tiles {
		byDirection := map[geomcore.Edge]bool{}
		for other := range adjacent[i] {
			ot := tiles[other]
			bearing := shape.Bearing(t.Site.X, t.Site.Y, ot.Site.X, ot.Site.Y)
			t.Neighbors = append(t.Neighbors, AdjEntry{Neighbor: TileNeighbor(ot.ID), Bearing: bearing})
			byDirection[bearingToEdge(bearing)] = true
		}

		if t.Edge != nil && extent.WrapsLatitudinally() && t.Edge.WrapsWith(geomcore.West) {
			// nothing to do here: fillWrapOrOffMap adds the CrossMap entry on
			// both the East- and the West-tagged tile
		}

		if t.Edge != nil {
			fillWrapOrOffMap(shape, extent, tiles, i, byDirection)
		}

		if len(t.Neighbors) == 0 {
			return fmt.Errorf("tilegraph: tile %d has zero topological neighbors", t.ID)
		}
	}

	return nil
}

// bearingToEdge buckets a 0..360 bearing into the nearest of the eight
// cardinal Edge directions.
func bearingToEdge(bearing float64) geomcore.Edge {
	idx := int(math.Round(bearing/45.0)) % 8
	return geomcore.Edge(idx)
}

// fillWrapOrOffMap adds CrossMap adjacencies for a wrap-compatible extent
// (east edge tiles linking to the matching-latitude west edge tile, and
// west to east) and OffMap entries for each direction on the tile's own
// edge (the orthogonal sides its edge tag implies, or the diagonal equal to
// it) that is still missing a neighbor.
func fillWrapOrOffMap(shape worldshape.Shape, extent geomcore.Extent, tiles []*Tile, i int, present map[geomcore.Edge]bool) {
	t := tiles[i]
	wraps := extent.WrapsLatitudinally()

	if wraps && *t.Edge == geomcore.East {
		if partner := findWrapPartner(tiles, i, geomcore.West); partner >= 0 {
			bearing := geomcore.East.Bearing()
			t.Neighbors = append(t.Neighbors, AdjEntry{
				Neighbor: CrossMapNeighbor(tiles[partner].ID, geomcore.West),
				Bearing:  bearing,
			})
			present[geomcore.East] = true
		}
	}
	if wraps && *t.Edge == geomcore.West {
		if partner := findWrapPartner(tiles, i, geomcore.East); partner >= 0 {
			bearing := geomcore.West.Bearing()
			t.Neighbors = append(t.Neighbors, AdjEntry{
				Neighbor: CrossMapNeighbor(tiles[partner].ID, geomcore.East),
				Bearing:  bearing,
			})
			present[geomcore.West] = true
		}
	}

	for dir := geomcore.North; dir <= geomcore.Northwest; dir++ {
		if present[dir] {
			continue
		}
		if dir.IsOrthogonal() && dir != *t.Edge && !edgeImplies(*t.Edge, dir) {
			continue
		}
		if !dir.IsOrthogonal() && dir != *t.Edge {
			continue
		}
		t.Neighbors = append(t.Neighbors, AdjEntry{Neighbor: OffMapNeighbor(dir), Bearing: dir.Bearing()})
	}
}

// edgeImplies reports whether a tile's combined edge tag (possibly a
// diagonal) implies membership on orthogonal side dir.
func edgeImplies(tileEdge, dir geomcore.Edge) bool {
	switch tileEdge {
	case geomcore.Northeast:
		return dir == geomcore.North || dir == geomcore.East
	case geomcore.Southeast:
		return dir == geomcore.South || dir == geomcore.East
	case geomcore.Southwest:
		return dir == geomcore.South || dir == geomcore.West
	case geomcore.Northwest:
		return dir == geomcore.North || dir == geomcore.West
	default:
		return tileEdge == dir
	}
}

// findWrapPartner finds the tile on the opposite (wrap-compatible) edge
// whose site latitude is closest to tiles[i]'s, approximating "directly
// across the dateline at the same row" for a jittered Voronoi mesh.
func findWrapPartner(tiles []*Tile, i int, wantEdge geomcore.Edge) int {
	t := tiles[i]
	best := -1
	bestDist := math.Inf(1)
	for j, other := range tiles {
		if j == i || other.Edge == nil || *other.Edge != wantEdge {
			continue
		}
		d := math.Abs(other.Site.Y - t.Site.Y)
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}
