package hydrology

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// Three tiles in a line, strictly descending elevation: flow drains down to
// the lowest tile, which has no lower neighbor and is the only tile queued
// for lake fill.
func TestGenerateWaterFlowDrainsDownhill(t *testing.T) {
	high := &tilegraph.Tile{ID: 1, Elevation: 90, Precipitation: 10}
	mid := &tilegraph.Tile{ID: 2, Elevation: 50, Precipitation: 10}
	low := &tilegraph.Tile{ID: 3, Elevation: 10, Precipitation: 10}
	high.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}}
	mid.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}, {Neighbor: tilegraph.TileNeighbor(3)}}
	low.Neighbors = nil

	tiles := []*tilegraph.Tile{high, mid, low}
	seeds := GenerateWaterFlow(tiles)

	require.Len(t, seeds, 1) // only the low tile, with no lower neighbor, queues.
	require.Equal(t, tilegraph.Id(3), seeds[0].TileID)
	require.Len(t, high.FlowTo, 1)
	require.Greater(t, low.WaterAccumulation, 0.0)
}

func TestGenerateWaterFlowSplitsAcrossTiedLowestNeighbors(t *testing.T) {
	top := &tilegraph.Tile{ID: 1, Elevation: 90, Precipitation: 20}
	left := &tilegraph.Tile{ID: 2, Elevation: 10}
	right := &tilegraph.Tile{ID: 3, Elevation: 10}
	top.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}, {Neighbor: tilegraph.TileNeighbor(3)}}

	tiles := []*tilegraph.Tile{top, left, right}
	GenerateWaterFlow(tiles)

	require.Len(t, top.FlowTo, 2)
	require.InDelta(t, left.WaterFlow, right.WaterFlow, 1e-9)
}
