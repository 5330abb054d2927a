// Package grouping flood-fills tiles into connected components and
// classifies land components by size and edge/ocean contact, §4.11,
// grounded on original_source/src/algorithms/grouping.rs.
package grouping

import "github.com/worldatlas/worldgen/internal/tilegraph"

// Compute assigns Grouping and GroupingID to every tile. Ocean tiles were
// already marked by the coastline stage; this pass only needs to decide,
// per land/lake component, which GroupingKind it resolves to.
func Compute(tiles []*tilegraph.Tile) {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		lookup[t.ID] = t
	}
	visited := make(map[tilegraph.Id]bool, len(tiles))
	n := len(tiles)
	nextID := 1

	for _, t := range tiles {
		if visited[t.ID] {
			continue
		}
		if t.Grouping == tilegraph.GroupingOcean {
			component := floodFill(t, lookup, visited, func(a, b *tilegraph.Tile) bool {
				return b.Grouping == tilegraph.GroupingOcean
			})
			assign(component, tilegraph.GroupingOcean, nextID)
			nextID++
			continue
		}

		wantLake := t.LakeID != nil
		component := floodFill(t, lookup, visited, func(a, b *tilegraph.Tile) bool {
			if b.Grouping == tilegraph.GroupingOcean {
				return false
			}
			bIsLake := b.LakeID != nil
			if wantLake != bIsLake {
				return false
			}
			if wantLake && *a.LakeID != *b.LakeID {
				return false
			}
			return true
		})

		if wantLake {
			assign(component, tilegraph.GroupingLake, nextID)
			nextID++
			continue
		}

		touchesOcean, touchesEdge := false, false
		for _, m := range component {
			if m.Edge != nil {
				touchesEdge = true
			}
			for _, adj := range m.Neighbors {
				if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
					touchesEdge = true
					continue
				}
				if other, ok := lookup[adj.Neighbor.Tile]; ok && other.Grouping == tilegraph.GroupingOcean {
					touchesOcean = true
				}
			}
		}

		var kind tilegraph.GroupingKind
		switch {
		case !touchesOcean && !touchesEdge:
			kind = tilegraph.GroupingLakeIsland
		case len(component) > n/100 && (touchesOcean || touchesEdge):
			kind = tilegraph.GroupingContinent
		case len(component) > n/1000:
			kind = tilegraph.GroupingIsland
		default:
			kind = tilegraph.GroupingIslet
		}
		assign(component, kind, nextID)
		nextID++
	}
}

func floodFill(start *tilegraph.Tile, lookup map[tilegraph.Id]*tilegraph.Tile, visited map[tilegraph.Id]bool, sameComponent func(a, b *tilegraph.Tile) bool) []*tilegraph.Tile {
	visited[start.ID] = true
	queue := []*tilegraph.Tile{start}
	component := []*tilegraph.Tile{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, adj := range cur.Neighbors {
			if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
				continue
			}
			n, ok := lookup[adj.Neighbor.Tile]
			if !ok || visited[n.ID] {
				continue
			}
			if !sameComponent(cur, n) {
				continue
			}
			visited[n.ID] = true
			queue = append(queue, n)
			component = append(component, n)
		}
	}
	return component
}

func assign(component []*tilegraph.Tile, kind tilegraph.GroupingKind, id int) {
	for _, t := range component {
		t.Grouping = kind
		t.GroupingID = id
	}
}
