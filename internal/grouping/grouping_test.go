package grouping

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

func TestComputeClassifiesIsletBySizeAndOceanContact(t *testing.T) {
	ocean := &tilegraph.Tile{ID: 1, Grouping: tilegraph.GroupingOcean}
	islet := &tilegraph.Tile{ID: 2, Grouping: tilegraph.GroupingContinent}
	lakeIsland := &tilegraph.Tile{ID: 3, Grouping: tilegraph.GroupingContinent}
	lake := &tilegraph.Tile{ID: 4, Grouping: tilegraph.GroupingLake}

	lid := 1
	lake.LakeID = &lid

	ocean.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}}
	islet.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}}
	lakeIsland.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(4)}}
	lake.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(3)}}

	tiles := []*tilegraph.Tile{ocean, islet, lakeIsland, lake}
	// Pad the tile count so n/1000 > 1: a lone-tile component only
	// classifies as Islet (rather than Island) once the map is large
	// enough that the size threshold exceeds its component size.
	for i := 0; i < 2000; i++ {
		tiles = append(tiles, &tilegraph.Tile{ID: tilegraph.Id(100 + i), Grouping: tilegraph.GroupingOcean})
	}
	Compute(tiles)

	require.Equal(t, tilegraph.GroupingOcean, ocean.Grouping)
	require.Equal(t, tilegraph.GroupingIslet, islet.Grouping)
	require.Equal(t, tilegraph.GroupingLakeIsland, lakeIsland.Grouping)
	require.Equal(t, tilegraph.GroupingLake, lake.Grouping)
	require.NotEqual(t, ocean.GroupingID, islet.GroupingID)
}
