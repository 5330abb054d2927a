package polity

import (
	"sort"

	"github.com/worldatlas/worldgen/internal/pqueue"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// Claimant is one region-growth seed: a culture, nation, or subnation,
// reduced to the fields the shared §4.14/§4.16 expansion algorithm needs.
type Claimant struct {
	ID           tilegraph.Id
	SeedTile     tilegraph.Id
	Expansionism float64
	Type         Type
}

// Owner abstracts the tile field a claimant kind writes its claim into
// (Tile.CultureID for cultures, Tile.NationID for nations, Tile.SubnationID
// for subnations), so the expansion loop below is written once and reused
// by all three stages.
type Owner interface {
	Get(t *tilegraph.Tile) *tilegraph.Id
	Set(t *tilegraph.Tile, id tilegraph.Id)
}

// Expand runs the shared priority-queue region-growth algorithm: pop the
// cheapest pending claim, compute the cost of extending into each
// neighbor, and claim it if cheaper than any previously recorded claim and
// within maxExpansionCost. Capital/seed tiles of every claimant are never
// overwritten.
func Expand(tiles []*tilegraph.Tile, claimants []Claimant, factors CostFactors, maxExpansionCost float64, owner Owner) {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	seedTiles := make(map[tilegraph.Id]bool, len(claimants))
	for _, t := range tiles {
		lookup[t.ID] = t
	}
	for _, c := range claimants {
		seedTiles[c.SeedTile] = true
	}

	type queueItem struct {
		tile       tilegraph.Id
		claimantI int
	}

	bestCost := map[tilegraph.Id]float64{}
	q := pqueue.New[queueItem]()

	for i, c := range claimants {
		seed := lookup[c.SeedTile]
		if seed == nil {
			continue
		}
		bestCost[seed.ID] = 0
		owner.Set(seed, c.ID)
		q.PushTiebreak(queueItem{tile: seed.ID, claimantI: i}, 0, uint64(seed.ID))
	}

	for {
		item, ok := q.Pop()
		if !ok {
			break
		}
		parentCost := item.Cost
		cur := lookup[item.Value.tile]
		if cur == nil {
			continue
		}
		claimant := claimants[item.Value.claimantI]

		neighbors := make([]tilegraph.AdjEntry, len(cur.Neighbors))
		copy(neighbors, cur.Neighbors)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].Neighbor.Tile < neighbors[j].Neighbor.Tile })

		for _, adj := range neighbors {
			if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
				continue
			}
			n := lookup[adj.Neighbor.Tile]
			if n == nil || n.IsWater() || seedTiles[n.ID] {
				continue
			}

			currentOwner := owner.Get(n)
			sameOwner := currentOwner != nil && *currentOwner == claimant.ID
			cellCost := expansionCost(cur, n, claimant, factors, sameOwner)
			total := parentCost + 10 + cellCost
			if total > maxExpansionCost {
				continue
			}
			if prev, seen := bestCost[n.ID]; seen && prev <= total {
				continue
			}
			bestCost[n.ID] = total
			owner.Set(n, claimant.ID)
			q.PushTiebreak(queueItem{tile: n.ID, claimantI: item.Value.claimantI}, total, uint64(n.ID))
		}
	}
}

func expansionCost(from, to *tilegraph.Tile, claimant Claimant, f CostFactors, sameOwner bool) float64 {
	ownerCost := 0.0
	if !sameOwner {
		ownerCost = 100
	}

	populationCost := 0.0
	if to.Habitability <= 0 {
		populationCost = 20
	}

	biomeCost := 0.0
	switch claimant.Type {
	case Nomadic:
		if to.Biome == "TemperateForest" || to.Biome == "TemperateRainforest" || to.Biome == "Taiga" {
			biomeCost += f.ForestPenalty
		}
	case Hunting:
		if to.Biome != from.Biome {
			biomeCost += f.OffBiomePenalty * 2
		}
	}

	heightCost := 0.0
	if to.IsWater() && claimant.Type != Naval && claimant.Type != Lake {
		heightCost += f.WaterPenalty
	}
	if to.ElevationScaled > 67 && claimant.Type != Highland {
		heightCost += f.MountainPenalty
	} else if to.ElevationScaled > 44 {
		heightCost += f.HillPenalty
	}

	riverCost := 0.0
	if claimant.Type == River {
		if to.WaterFlow > 20 {
			riverCost -= f.RiverAttraction
		} else {
			riverCost += f.RiverAttraction
		}
	}

	shoreCost := 0.0
	if claimant.Type == Naval || claimant.Type == Lake {
		shoreCost = float64(abs(to.ShoreDistance)) * f.ShorePenalty
	}

	sum := ownerCost + populationCost + biomeCost + heightCost + riverCost + shoreCost
	if sum < 0 {
		sum = 0
	}
	expansionism := claimant.Expansionism
	if expansionism <= 0 {
		expansionism = 1
	}
	return sum / expansionism
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
