package rivers

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/curve"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

func chain(ids ...tilegraph.Id) []*tilegraph.Tile {
	tiles := make([]*tilegraph.Tile, len(ids))
	for i, id := range ids {
		tiles[i] = &tilegraph.Tile{ID: id}
	}
	for i := 0; i < len(tiles)-1; i++ {
		tiles[i].WaterFlow = 10
		tiles[i].FlowTo = []tilegraph.Neighbor{tilegraph.TileNeighbor(tiles[i+1].ID)}
	}
	return tiles
}

func TestEnumerateSplitsFlowAcrossMultipleOutgoingEdges(t *testing.T) {
	a := &tilegraph.Tile{ID: 1, WaterFlow: 10, FlowTo: []tilegraph.Neighbor{
		tilegraph.TileNeighbor(2),
		tilegraph.TileNeighbor(3),
	}}
	b := &tilegraph.Tile{ID: 2}
	c := &tilegraph.Tile{ID: 3}

	segments := Enumerate([]*tilegraph.Tile{a, b, c}, nil)
	require.Len(t, segments, 2)
	for _, s := range segments {
		require.InDelta(t, 5.0, s.ToFlow, 1e-9)
	}
}

func TestEnumerateMarksLakeOutletSegmentWithLakeFlow(t *testing.T) {
	outlet := &tilegraph.Tile{ID: 1, WaterFlow: 3, FlowTo: []tilegraph.Neighbor{tilegraph.TileNeighbor(2)}}
	downstream := &tilegraph.Tile{ID: 2}
	lake := &hydrology.Lake{ID: 1, HasOutlet: true, OutletTile: 1, Flow: 42}

	segments := Enumerate([]*tilegraph.Tile{outlet, downstream}, []*hydrology.Lake{lake})
	require.Len(t, segments, 1)
	require.True(t, segments[0].FromLake)
	require.InDelta(t, 42.0, segments[0].ToFlow, 1e-9)
}

func TestClassifyIdentifiesSourceConfluenceAndMouth(t *testing.T) {
	// 1 -> 3, 2 -> 3, 3 -> 4 : confluence at 3, mouth at 4.
	t1 := &tilegraph.Tile{ID: 1, WaterFlow: 5, FlowTo: []tilegraph.Neighbor{tilegraph.TileNeighbor(3)}}
	t2 := &tilegraph.Tile{ID: 2, WaterFlow: 5, FlowTo: []tilegraph.Neighbor{tilegraph.TileNeighbor(3)}}
	t3 := &tilegraph.Tile{ID: 3, WaterFlow: 10, FlowTo: []tilegraph.Neighbor{tilegraph.TileNeighbor(4)}}
	t4 := &tilegraph.Tile{ID: 4}

	segments := Enumerate([]*tilegraph.Tile{t1, t2, t3, t4}, nil)
	Classify(segments)

	var seg13, seg23, seg34 *Segment
	for _, s := range segments {
		switch {
		case s.From == 1 && s.To == 3:
			seg13 = s
		case s.From == 2 && s.To == 3:
			seg23 = s
		case s.From == 3 && s.To == 4:
			seg34 = s
		}
	}
	require.NotNil(t, seg13)
	require.NotNil(t, seg23)
	require.NotNil(t, seg34)
	require.Equal(t, Source, seg13.FromType)
	require.Equal(t, Source, seg23.FromType)
	require.Equal(t, Confluence, seg34.FromType)
	require.Equal(t, Mouth, seg34.ToType)
}

func TestBuildGeometrySkipsZeroFlowAndIntraLakeSegments(t *testing.T) {
	t1 := &tilegraph.Tile{ID: 1, FlowTo: []tilegraph.Neighbor{tilegraph.TileNeighbor(2)}}
	t2 := &tilegraph.Tile{ID: 2}
	segments := Enumerate([]*tilegraph.Tile{t1, t2}, nil)
	require.Len(t, segments, 1)

	sites := map[tilegraph.Id]orb.Point{1: {0, 0}, 2: {1, 0}}
	siteOf := func(id tilegraph.Id) (orb.Point, bool) { p, ok := sites[id]; return p, ok }
	sameLake := func(a, b tilegraph.Id) bool { return false }

	BuildGeometry(segments, siteOf, sameLake, curve.PassThrough{}, 100)
	require.Nil(t, segments[0].Geometry)

	segments[0].ToFlow = 3
	segments[0].FromFlow = 3
	BuildGeometry(segments, siteOf, sameLake, curve.PassThrough{}, 100)
	require.NotEmpty(t, segments[0].Geometry)
}
