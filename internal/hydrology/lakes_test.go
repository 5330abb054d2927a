package hydrology

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// A closed bowl: pit (elevation 0) ringed by three rim tiles (elevation 10);
// only rim1 has an outside neighbor, at elevation 5 (lower than the rim).
func TestGenerateLakesFillsClosedBowlToOutlet(t *testing.T) {
	pit := &tilegraph.Tile{ID: 1, Elevation: 0, Temperature: 10}
	rim1 := &tilegraph.Tile{ID: 2, Elevation: 10, Temperature: 10}
	rim2 := &tilegraph.Tile{ID: 3, Elevation: 10, Temperature: 10}
	rim3 := &tilegraph.Tile{ID: 4, Elevation: 10, Temperature: 10}
	outside := &tilegraph.Tile{ID: 5, Elevation: 5, Temperature: 10}

	pit.Neighbors = []tilegraph.AdjEntry{
		{Neighbor: tilegraph.TileNeighbor(2)}, {Neighbor: tilegraph.TileNeighbor(3)}, {Neighbor: tilegraph.TileNeighbor(4)},
	}
	rim1.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}, {Neighbor: tilegraph.TileNeighbor(5)}}
	rim2.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}}
	rim3.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}}

	tiles := []*tilegraph.Tile{pit, rim1, rim2, rim3, outside}
	seeds := []LakeSeed{{TileID: 1, WaterFlow: 20}}

	lakes := GenerateLakes(tiles, seeds, config.DefaultLake(), 2)

	require.Len(t, lakes, 1)
	require.True(t, lakes[0].HasOutlet)
	require.Equal(t, tilegraph.Id(2), lakes[0].OutletTile)
	require.Equal(t, LakeFresh, lakes[0].Type)
	require.NotNil(t, pit.LakeID)
	require.Equal(t, tilegraph.GroupingLake, pit.Grouping)
}
