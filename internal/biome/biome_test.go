package biome

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

func TestAssignOceanGlacierAndWetlandTakePriority(t *testing.T) {
	cfg := config.DefaultBiome()
	matrix := DefaultMatrix()

	ocean := &tilegraph.Tile{Grouping: tilegraph.GroupingOcean}
	glacier := &tilegraph.Tile{Grouping: tilegraph.GroupingContinent, Temperature: -10}
	wetland := &tilegraph.Tile{Grouping: tilegraph.GroupingContinent, Temperature: 5, WaterFlow: 50, ElevationScaled: 22}
	ordinary := &tilegraph.Tile{Grouping: tilegraph.GroupingContinent, Temperature: 10, WaterFlow: 1, ElevationScaled: 40}

	tiles := []*tilegraph.Tile{ocean, glacier, wetland, ordinary}
	Assign(cfg, matrix, tiles, nil)

	require.Equal(t, Ocean, ocean.Biome)
	require.Equal(t, Glacier, glacier.Biome)
	require.Equal(t, Wetland, wetland.Biome)
	require.NotEmpty(t, ordinary.Biome)
	require.NotEqual(t, Ocean, ordinary.Biome)
}
