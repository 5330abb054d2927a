package settlement

import (
	"math/rand"

	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// Nation is the §3 data-model Nation record.
type Nation struct {
	ID            tilegraph.Id
	Name          string
	CapitalTownID tilegraph.Id
	CapitalTileID tilegraph.Id
	Expansionism  float64
	Type          polity.Type
}

type nationOwner struct{}

func (nationOwner) Get(t *tilegraph.Tile) *tilegraph.Id { return t.NationID }
func (nationOwner) Set(t *tilegraph.Tile, id tilegraph.Id) {
	t.NationID = &id
}

// SeedNations creates one nation per capital town, with expansionism
// drawn U(0.1,1.0) scaled by a size-variance jitter and +1, and type
// inherited from the capital tile's culture via cultureType, per §4.16.
func SeedNations(capitals []*Town, tiles []*tilegraph.Tile, cultureType func(tilegraph.Id) (polity.Type, bool), sizeVariance func() float64, rng *rand.Rand) []Nation {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		lookup[t.ID] = t
	}
	nations := make([]Nation, 0, len(capitals))
	for i, c := range capitals {
		tile := lookup[c.TileID]
		nationType := polity.Generic
		if tile != nil && tile.CultureID != nil {
			if t, ok := cultureType(*tile.CultureID); ok {
				nationType = t
			}
		}
		expansionism := (0.1+rng.Float64()*0.9)*sizeVariance() + 1
		nations = append(nations, Nation{
			ID:            tilegraph.Id(i + 1),
			CapitalTownID: c.ID,
			CapitalTileID: c.TileID,
			Expansionism:  expansionism,
			Type:          nationType,
		})
	}
	return nations
}

// ExpandNations grows every nation outward via the shared expansion
// algorithm, reusing §4.14's priority-queue mechanics.
func ExpandNations(tiles []*tilegraph.Tile, nations []Nation, factors polity.CostFactors, maxExpansionCost float64) {
	claimants := make([]polity.Claimant, len(nations))
	for i, n := range nations {
		claimants[i] = polity.Claimant{ID: n.ID, SeedTile: n.CapitalTileID, Expansionism: n.Expansionism, Type: n.Type}
	}
	polity.Expand(tiles, claimants, factors, maxExpansionCost, nationOwner{})
}

// NormalizeBorders is the §4.16 second pass: a land tile with no town,
// surrounded mostly by one adversary nation, flips to that adversary.
func NormalizeBorders(tiles []*tilegraph.Tile, capitalTiles map[tilegraph.Id]bool) {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		lookup[t.ID] = t
	}
	for _, t := range tiles {
		if t.IsWater() || t.TownID != nil || t.NationID == nil {
			continue
		}
		adjacentToCapital := false
		counts := map[tilegraph.Id]int{}
		for _, adj := range t.Neighbors {
			if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
				continue
			}
			n, ok := lookup[adj.Neighbor.Tile]
			if !ok {
				continue
			}
			if capitalTiles[n.ID] {
				adjacentToCapital = true
			}
			if n.NationID != nil {
				counts[*n.NationID]++
			}
		}
		if adjacentToCapital {
			continue
		}
		buddies := counts[*t.NationID]
		var bestAdversary tilegraph.Id
		bestCount := 0
		adversaryTotal := 0
		for id, c := range counts {
			if id == *t.NationID {
				continue
			}
			adversaryTotal += c
			if c > bestCount {
				bestCount = c
				bestAdversary = id
			}
		}
		if adversaryTotal >= 2 && buddies <= 2 && bestCount >= buddies && bestCount > buddies {
			t.NationID = &bestAdversary
		}
	}
}
