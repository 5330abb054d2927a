// Package shoredist computes signed shore distance by a two-wave BFS, §4.10.
package shoredist

import (
	"math"

	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

// Compute assigns ShoreDistance, ClosestWater, and WaterCount to every
// tile: land tiles get positive distance, water tiles negative, both
// counted in BFS waves outward from the land/water boundary.
func Compute(shape worldshape.Shape, tiles []*tilegraph.Tile) {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		lookup[t.ID] = t
		t.ShoreDistance = 0
		t.ClosestWater = nil
		t.WaterCount = 0
	}

	frontier := make([]*tilegraph.Tile, 0, len(tiles))

	for _, t := range tiles {
		waterNeighbors := 0
		var closest *tilegraph.Neighbor
		closestDist := math.Inf(1)
		touchesOpposite := false
		for i, adj := range t.Neighbors {
			if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
				continue
			}
			n, ok := lookup[adj.Neighbor.Tile]
			if !ok {
				continue
			}
			if n.IsWater() == t.IsWater() {
				continue
			}
			touchesOpposite = true
			if t.IsLand() && n.IsWater() {
				waterNeighbors++
				d := shape.Distance(t.Site, n.Site)
				if d < closestDist {
					closestDist = d
					nb := t.Neighbors[i].Neighbor
					closest = &nb
				}
			}
		}
		if touchesOpposite {
			if t.IsLand() {
				t.ShoreDistance = 1
				t.ClosestWater = closest
				t.WaterCount = waterNeighbors
			} else {
				t.ShoreDistance = -1
			}
			frontier = append(frontier, t)
		}
	}

	marked := make(map[tilegraph.Id]bool, len(tiles))
	for _, t := range frontier {
		marked[t.ID] = true
	}

	for d := 2; ; d++ {
		var next []*tilegraph.Tile
		for _, t := range frontier {
			for _, adj := range t.Neighbors {
				if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
					continue
				}
				n, ok := lookup[adj.Neighbor.Tile]
				if !ok || marked[n.ID] {
					continue
				}
				if n.IsWater() != t.IsWater() {
					continue // opposite-kind tiles are handled by wave 1 only.
				}
				if n.IsLand() {
					n.ShoreDistance = d
				} else {
					n.ShoreDistance = -d
				}
				marked[n.ID] = true
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
}
