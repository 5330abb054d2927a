// Package population scores habitability and derives population per tile,
// §4.13, grounded on original_source/src/algorithms/population.rs.
package population

import (
	"math"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// BiomeHabitability supplies the base habitability score for a biome name
// (the persistent biome-matrix "capability projection" per §9's
// polymorphism note).
type BiomeHabitability func(biomeName string) float64

func lakeBonus(t hydrology.LakeType) float64 {
	switch t {
	case hydrology.LakeFresh:
		return 30
	case hydrology.LakeSalt:
		return 10
	case hydrology.LakeFrozen:
		return 1
	case hydrology.LakePluvial:
		return -2
	case hydrology.LakeDry:
		return -5
	case hydrology.LakeMarsh:
		return 5
	default:
		return 0
	}
}

// Assign computes Habitability and Population for every land tile; water
// tiles are zeroed. meanWaterFlow and areaMean are precomputed over land
// tiles by the caller (the stage orchestrator), since both are global
// aggregates the per-tile formula needs.
func Assign(cfg config.Population, biomeOf BiomeHabitability, lakesByID map[int]*hydrology.Lake, tiles []*tilegraph.Tile, meanWaterFlow, areaMean float64) {
	for _, t := range tiles {
		if t.IsWater() {
			t.Habitability = 0
			t.Population = 0
			continue
		}

		s := biomeOf(t.Biome)
		if s > 0 {
			bonus := t.WaterFlow - meanWaterFlow
			if bonus > 0 {
				s += math.Min(bonus, cfg.EstuaryFlowThreshold) / cfg.EstuaryFlowThreshold * cfg.FlowBonusScale / 10
			}
			if t.ElevationScaled > cfg.ElevationBaseline {
				s -= float64(t.ElevationScaled-cfg.ElevationBaseline) / cfg.ElevationPenaltyDiv
			}

			if t.ShoreDistance == 1 {
				if t.WaterFlow > cfg.EstuaryFlowThreshold {
					s += 15
				}
				if t.LakeID != nil {
					if lake, ok := lakesByID[*t.LakeID]; ok {
						s += lakeBonus(lake.Type)
					}
				}
				if t.ClosestWater != nil {
					s += 5
					if t.WaterCount == 1 {
						s += 20
					}
				}
			}
		}

		t.Habitability = s / 5.0
		if areaMean > 0 {
			t.Population = int(math.Floor((t.Habitability * t.Area / areaMean) * 1000))
		}
	}
}

// MeanWaterFlowAndArea aggregates the two global means Assign needs.
func MeanWaterFlowAndArea(tiles []*tilegraph.Tile) (meanFlow, meanArea float64) {
	var flowSum, areaSum float64
	var land int
	for _, t := range tiles {
		if t.IsWater() {
			continue
		}
		flowSum += t.WaterFlow
		areaSum += t.Area
		land++
	}
	if land == 0 {
		return 0, 0
	}
	return flowSum / float64(land), areaSum / float64(land)
}
