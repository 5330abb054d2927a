package settlement

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

func TestBuildTownsScalesPopulationForCapitalAndPort(t *testing.T) {
	shape := worldshape.New(worldshape.Cylinder)
	capitalTile := &tilegraph.Tile{ID: 1, Site: geomcore.Coordinate{X: 0, Y: 0}, Habitability: 10, Grouping: tilegraph.GroupingContinent, WaterCount: 1}
	harbor := &tilegraph.Tile{ID: 2, Site: geomcore.Coordinate{X: 1, Y: 0}, Grouping: tilegraph.GroupingOcean}
	capitalTile.ClosestWater = &tilegraph.Neighbor{Kind: tilegraph.NeighborTile, Tile: harbor.ID}

	tiles := []*tilegraph.Tile{capitalTile, harbor}
	towns := BuildTowns(shape, tiles, []*tilegraph.Tile{capitalTile}, nil, nil, config.DefaultSettlement(), 0)

	require.Len(t, towns, 1)
	require.True(t, towns[0].IsCapital)
	require.True(t, towns[0].IsPort)
	require.Greater(t, towns[0].Population, 100)
}
