package polity

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

type mapOwner map[tilegraph.Id]tilegraph.Id

func (m mapOwner) Get(t *tilegraph.Tile) *tilegraph.Id {
	if id, ok := m[t.ID]; ok {
		return &id
	}
	return nil
}
func (m mapOwner) Set(t *tilegraph.Tile, id tilegraph.Id) { m[t.ID] = id }

func TestExpandNeverClaimsAnySeedTile(t *testing.T) {
	a := &tilegraph.Tile{ID: 1, Grouping: tilegraph.GroupingContinent, Habitability: 5}
	b := &tilegraph.Tile{ID: 2, Grouping: tilegraph.GroupingContinent, Habitability: 5}
	a.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(2)}}
	b.Neighbors = []tilegraph.AdjEntry{{Neighbor: tilegraph.TileNeighbor(1)}}

	tiles := []*tilegraph.Tile{a, b}
	claimants := []Claimant{
		{ID: 1, SeedTile: 1, Expansionism: 1, Type: Generic},
		{ID: 2, SeedTile: 2, Expansionism: 1, Type: Generic},
	}
	owner := mapOwner{}
	Expand(tiles, claimants, DefaultCostFactors(), 10000, owner)

	require.Equal(t, tilegraph.Id(1), owner[a.ID])
	require.Equal(t, tilegraph.Id(2), owner[b.ID])
}
