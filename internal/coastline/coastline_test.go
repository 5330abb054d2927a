package coastline

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/curve"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

func TestMarkOceansUsesSeaLevelThreshold(t *testing.T) {
	tiles := []*tilegraph.Tile{
		{ID: 1, ElevationScaled: 10},
		{ID: 2, ElevationScaled: 20},
		{ID: 3, ElevationScaled: 90},
	}
	MarkOceans(tiles)
	require.Equal(t, tilegraph.GroupingOcean, tiles[0].Grouping)
	require.Equal(t, tilegraph.GroupingContinent, tiles[1].Grouping)
	require.Equal(t, tilegraph.GroupingContinent, tiles[2].Grouping)
}

func TestBuildSeparatesOceanAndLandOutlines(t *testing.T) {
	sq := func(x0, y0, x1, y1 float64) orb.Polygon {
		return orb.Polygon{orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}
	}
	tiles := []*tilegraph.Tile{
		{ID: 1, Polygon: sq(0, 0, 1, 1), Grouping: tilegraph.GroupingOcean},
		{ID: 2, Polygon: sq(1, 0, 2, 1), Grouping: tilegraph.GroupingContinent},
	}
	result := Build(tiles, curve.PassThrough{}, 100)
	require.Len(t, result.Ocean, 1)
	require.Len(t, result.Land, 1)
	require.NotNil(t, result.Cache)
}
