package culture

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

// A single culture with a generous expansion budget should claim every
// reachable land tile and never cross onto water.
func TestExpandClaimsAllReachableLandNotWater(t *testing.T) {
	land1 := &tilegraph.Tile{ID: 1, Grouping: tilegraph.GroupingContinent, Habitability: 5}
	land2 := &tilegraph.Tile{ID: 2, Grouping: tilegraph.GroupingContinent, Habitability: 5}
	water := &tilegraph.Tile{ID: 3, Grouping: tilegraph.GroupingOcean}

	land1.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}, {Neighbor: tilegraph.TileNeighbor(3)}}
	land2.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}}

	tiles := []*tilegraph.Tile{land1, land2, water}
	cultures := []Culture{{ID: 1, SeedTile: 1, Expansionism: 1, Type: polity.Generic}}

	Expand(tiles, cultures, polity.DefaultCostFactors(), 10000)

	require.NotNil(t, land1.CultureID)
	require.NotNil(t, land2.CultureID)
	require.Nil(t, water.CultureID)
}

func TestSelectSeedsRespectsMinSpacing(t *testing.T) {
	nearby := []*tilegraph.Tile{
		{ID: 1, Habitability: 10, Grouping: tilegraph.GroupingContinent},
		{ID: 2, Habitability: 9, Grouping: tilegraph.GroupingContinent},
	}
	nearby[0].Site.X, nearby[0].Site.Y = 0, 0
	nearby[1].Site.X, nearby[1].Site.Y = 0.001, 0

	shape := worldshape.New(worldshape.Cylinder)
	seeds := SelectSeeds(nearby, 2, 1.0, shape, nil)
	require.Len(t, seeds, 1)
}
