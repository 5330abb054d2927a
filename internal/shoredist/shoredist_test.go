package shoredist

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/tilegraph"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

func TestComputeAssignsSignedWaveDistances(t *testing.T) {
	shape := worldshape.New(worldshape.Cylinder)
	// land(1) - land(2) - water(3) - water(4), a line.
	tiles := []*tilegraph.Tile{
		{ID: 1, Site: geomcore.Coordinate{X: 0, Y: 0}, Grouping: tilegraph.GroupingContinent},
		{ID: 2, Site: geomcore.Coordinate{X: 1, Y: 0}, Grouping: tilegraph.GroupingContinent},
		{ID: 3, Site: geomcore.Coordinate{X: 2, Y: 0}, Grouping: tilegraph.GroupingOcean},
		{ID: 4, Site: geomcore.Coordinate{X: 3, Y: 0}, Grouping: tilegraph.GroupingOcean},
	}
	tiles[0].Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}}
	tiles[1].Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}, {Neighbor: tilegraph.TileNeighbor(3)}}
	tiles[2].Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}, {Neighbor: tilegraph.TileNeighbor(4)}}
	tiles[3].Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(3)}}

	Compute(shape, tiles)

	require.Equal(t, 2, tiles[0].ShoreDistance)
	require.Equal(t, 1, tiles[1].ShoreDistance)
	require.Equal(t, -1, tiles[2].ShoreDistance)
	require.Equal(t, -2, tiles[3].ShoreDistance)
	require.Equal(t, 1, tiles[1].WaterCount)
}
