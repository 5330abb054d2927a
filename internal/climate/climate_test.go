package climate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

func TestTemperatureColderTowardsPolesAndWithElevation(t *testing.T) {
	c := config.DefaultClimate()
	equator := &tilegraph.Tile{Site: geomcore.Coordinate{Y: 0}, ElevationScaled: 20}
	pole := &tilegraph.Tile{Site: geomcore.Coordinate{Y: 90}, ElevationScaled: 20}
	highland := &tilegraph.Tile{Site: geomcore.Coordinate{Y: 0}, ElevationScaled: 90}

	require.Greater(t, Temperature(c, equator), Temperature(c, pole))
	require.Greater(t, Temperature(c, equator), Temperature(c, highland))
}

func TestAssignPrecipitationDepositsNearCoastAndDrainsInland(t *testing.T) {
	c := config.DefaultClimate()
	ocean := &tilegraph.Tile{ID: 1, Site: geomcore.Coordinate{Y: 0}, Grouping: tilegraph.GroupingOcean, ElevationScaled: 10}
	coast := &tilegraph.Tile{ID: 2, Site: geomcore.Coordinate{Y: 0}, Grouping: tilegraph.GroupingContinent, ElevationScaled: 25}
	ocean.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2), Bearing: 225}}
	coast.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1), Bearing: 45}}

	tiles := []*tilegraph.Tile{ocean, coast}
	AssignPrecipitation(c, tiles)

	require.Greater(t, coast.Precipitation, 0.0)
}
