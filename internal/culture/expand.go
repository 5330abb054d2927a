// Package culture seeds cultures onto high-habitability tiles and expands
// each by priority-queue region growth, §4.14.
package culture

import (
	"math/rand"
	"sort"

	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

// Culture is the §3 data-model Culture record.
type Culture struct {
	ID           tilegraph.Id
	Name         string
	SeedTile     tilegraph.Id
	Expansionism float64
	Type         polity.Type
}

// SelectSeeds chooses up to count land tiles with positive habitability, in
// descending habitability order, skipping any tile closer than minSpacing
// to an already chosen seed. It applies no per-template weighting, and rng
// is not used.
func SelectSeeds(tiles []*tilegraph.Tile, count int, minSpacing float64, shape worldshape.Shape, rng *rand.Rand) []*tilegraph.Tile {
	candidates := make([]*tilegraph.Tile, 0, len(tiles))
	for _, t := range tiles {
		if t.IsLand() && t.Habitability > 0 {
			candidates = append(candidates, t)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Habitability > candidates[j].Habitability })

	var chosen []*tilegraph.Tile
	for _, c := range candidates {
		if len(chosen) >= count {
			break
		}
		tooClose := false
		for _, s := range chosen {
			if shape.Distance(c.Site, s.Site) < minSpacing {
				tooClose = true
				break
			}
		}
		if !tooClose {
			chosen = append(chosen, c)
		}
	}
	_ = rng // unused: the choice depends only on habitability order and spacing.
	return chosen
}

type cultureOwner struct{}

func (cultureOwner) Get(t *tilegraph.Tile) *tilegraph.Id { return t.CultureID }
func (cultureOwner) Set(t *tilegraph.Tile, id tilegraph.Id) {
	t.CultureID = &id
}

// Expand grows every seeded culture outward via polity.Expand, the
// priority-queue region-growth algorithm shared with nations (§4.16).
func Expand(tiles []*tilegraph.Tile, cultures []Culture, factors polity.CostFactors, maxExpansionCost float64) {
	claimants := make([]polity.Claimant, len(cultures))
	for i, c := range cultures {
		claimants[i] = polity.Claimant{ID: c.ID, SeedTile: c.SeedTile, Expansionism: c.Expansionism, Type: c.Type}
	}
	polity.Expand(tiles, claimants, factors, maxExpansionCost, cultureOwner{})
}
