package population

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

func TestAssignZeroesWaterTilesAndScoresLand(t *testing.T) {
	cfg := config.DefaultPopulation()
	water := &tilegraph.Tile{Grouping: tilegraph.GroupingOcean, Area: 1}
	land := &tilegraph.Tile{Grouping: tilegraph.GroupingContinent, Biome: "Grassland", Area: 1, ElevationScaled: 30}

	biomeOf := func(name string) float64 {
		if name == "Grassland" {
			return 40
		}
		return 0
	}

	tiles := []*tilegraph.Tile{water, land}
	meanFlow, meanArea := MeanWaterFlowAndArea(tiles)
	Assign(cfg, biomeOf, nil, tiles, meanFlow, meanArea)

	require.Equal(t, 0, water.Population)
	require.Equal(t, 0.0, water.Habitability)
	require.Greater(t, land.Habitability, 0.0)
}
