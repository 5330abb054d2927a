// Package settlement places towns, then grows nations and subnations
// around them, §4.15-4.17.
package settlement

import (
	"math"
	"math/rand"
	"sort"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

// Town is the §4.15 settlement record.
type Town struct {
	ID        tilegraph.Id
	TileID    tilegraph.Id
	Site      geomcore.Coordinate
	IsCapital bool
	IsPort    bool
	Population int
}

// candidate pairs a tile with its two placement scores.
type candidate struct {
	tile         *tilegraph.Tile
	capitalScore float64
	townScore    float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normal draws a crude Gaussian via the sum of independent uniforms
// (Irwin-Hall approximation), since only math/rand's uniform source is
// guaranteed seeded from the pipeline's single stream.
func normal(rng *rand.Rand, mean, stddev float64) float64 {
	sum := 0.0
	for i := 0; i < 12; i++ {
		sum += rng.Float64()
	}
	return mean + (sum-6)*stddev
}

func scoreCandidates(tiles []*tilegraph.Tile, rng *rand.Rand) []candidate {
	var out []candidate
	for _, t := range tiles {
		if t.IsWater() || t.Habitability <= 0 {
			continue
		}
		capitalScore := t.Habitability * (0.5 + rng.Float64()*0.5)
		townScore := clamp(t.Habitability*normal(rng, 1, 3), 0, 20)
		out = append(out, candidate{tile: t, capitalScore: capitalScore, townScore: townScore})
	}
	return out
}

// PlaceCapitals picks capitalCount tiles by descending capital score,
// enforcing a shape-aware minimum spacing that is halved (up to ten
// times) if too few candidates satisfy it.
func PlaceCapitals(candidates []candidate, capitalCount int, width, height float64, shape worldshape.Shape) []*tilegraph.Tile {
	sorted := append([]candidate(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].capitalScore > sorted[j].capitalScore })

	spacing := (width + height) / 2 / math.Max(1, float64(capitalCount))
	var chosen []*tilegraph.Tile
	for attempt := 0; attempt < 10 && len(chosen) < capitalCount; attempt++ {
		chosen = chosen[:0]
		for _, c := range sorted {
			if len(chosen) >= capitalCount {
				break
			}
			tooClose := false
			for _, s := range chosen {
				if shape.Distance(c.tile.Site, s.Site) < spacing {
					tooClose = true
					break
				}
			}
			if !tooClose {
				chosen = append(chosen, c.tile)
			}
		}
		spacing /= 2
	}
	return chosen
}

// PlaceTowns picks additional town sites among non-capital candidates,
// by descending jittered town score, enforcing a shape-aware spacing.
func PlaceTowns(candidates []candidate, capitals []*tilegraph.Tile, townCount int, width, height float64, shape worldshape.Shape, rng *rand.Rand) []*tilegraph.Tile {
	capitalSet := make(map[tilegraph.Id]bool, len(capitals))
	for _, c := range capitals {
		capitalSet[c.ID] = true
	}

	type scored struct {
		tile  *tilegraph.Tile
		score float64
	}
	var pool []scored
	for _, c := range candidates {
		if capitalSet[c.tile.ID] {
			continue
		}
		jitter := clamp(normal(rng, 1, 0.3), 0.2, 2.0)
		pool = append(pool, scored{tile: c.tile, score: c.townScore * jitter})
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	n := math.Max(1, float64(townCount))
	spacing := (width+height)/150 / (math.Pow(n, 0.7) / 66)

	chosen := append([]*tilegraph.Tile(nil), capitals...)
	var towns []*tilegraph.Tile
	for _, p := range pool {
		if len(towns) >= townCount {
			break
		}
		tooClose := false
		for _, s := range chosen {
			if shape.Distance(p.tile.Site, s.Site) < spacing {
				tooClose = true
				break
			}
		}
		if !tooClose {
			chosen = append(chosen, p.tile)
			towns = append(towns, p.tile)
		}
	}
	return towns
}

// isPort reports whether t's harbor tile sits in a non-frozen water body
// of at least minLakeSize tiles (oceans always qualify), and t is either
// a capital or has exactly one water neighbor.
func isPort(t *tilegraph.Tile, isCapital bool, lookup map[tilegraph.Id]*tilegraph.Tile, lakesByID map[int]*hydrology.Lake, minLakeSize int) (tilegraph.Id, bool) {
	if t.ClosestWater == nil {
		return 0, false
	}
	if !isCapital && t.WaterCount != 1 {
		return 0, false
	}
	harborID := t.ClosestWater.Tile
	if harbor, ok := lookup[harborID]; ok && harbor.LakeID != nil {
		lake, ok := lakesByID[*harbor.LakeID]
		if !ok || lake.Type == hydrology.LakeFrozen || lake.Size < minLakeSize {
			return 0, false
		}
	}
	return harborID, true
}

// BuildTowns materializes the Town records for every placed tile,
// computing port status and population, and relocating port towns toward
// their harbor tile's midpoint, per §4.15.
func BuildTowns(shape worldshape.Shape, tiles []*tilegraph.Tile, capitals, towns []*tilegraph.Tile, lakesByID map[int]*hydrology.Lake, cfg config.Settlement, minLakeSize int) []*Town {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		lookup[t.ID] = t
	}
	capitalSet := make(map[tilegraph.Id]bool, len(capitals))
	for _, c := range capitals {
		capitalSet[c.ID] = true
	}

	var result []*Town
	nextID := 1
	addTown := func(t *tilegraph.Tile, isCapital bool) {
		site := t.Site
		harbor, port := isPort(t, isCapital, lookup, lakesByID, minLakeSize)
		if port {
			if h, ok := lookup[harbor]; ok {
				site = shape.Midpoint(t.Site, h.Site)
			}
		}

		population := math.Max(100, t.Habitability/2*1000)
		if isCapital {
			population *= cfg.CapitalPopulationMultiplier
		}
		if port {
			population *= cfg.PortPopulationMultiplier
		}

		id := tilegraph.Id(nextID)
		nextID++
		townID := id
		t.TownID = &townID
		result = append(result, &Town{
			ID:         id,
			TileID:     t.ID,
			Site:       site,
			IsCapital:  isCapital,
			IsPort:     port,
			Population: int(population),
		})
	}

	for _, c := range capitals {
		addTown(c, true)
	}
	for _, tw := range towns {
		if !capitalSet[tw.ID] {
			addTown(tw, false)
		}
	}
	return result
}

// CandidatesForRNG exposes scoreCandidates for callers orchestrating the
// stage (the type stays unexported; only tiles/rng cross the boundary).
func CandidatesForRNG(tiles []*tilegraph.Tile, rng *rand.Rand) []candidate {
	return scoreCandidates(tiles, rng)
}
