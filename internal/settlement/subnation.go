package settlement

import (
	"math"
	"sort"

	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// Subnation is the §3 data-model Subnation record.
type Subnation struct {
	ID           tilegraph.Id
	Name         string
	ParentNation tilegraph.Id
	SeatTownID   *tilegraph.Id
	SeatTileID   tilegraph.Id
}

type subnationOwner struct{}

func (subnationOwner) Get(t *tilegraph.Tile) *tilegraph.Id { return t.SubnationID }
func (subnationOwner) Set(t *tilegraph.Tile, id tilegraph.Id) {
	t.SubnationID = &id
}

// BuildSubnations picks ceil(percentage/100 * townsInNation) seat towns per
// nation (by population, richest first), grows each by limited flood-fill
// within its parent nation's territory, and finally sweeps any leftover
// nation tiles into one empty subnation per connected leftover component,
// per §4.17.
func BuildSubnations(tiles []*tilegraph.Tile, nations []Nation, towns []*Town, percentage float64) []*Subnation {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(tiles))
	for _, t := range tiles {
		lookup[t.ID] = t
	}
	townsByNation := map[tilegraph.Id][]*Town{}
	for _, tw := range towns {
		if tile, ok := lookup[tw.TileID]; ok && tile.NationID != nil {
			townsByNation[*tile.NationID] = append(townsByNation[*tile.NationID], tw)
		}
	}

	var subnations []*Subnation
	nextID := 1
	for _, nation := range nations {
		nationTowns := append([]*Town(nil), townsByNation[nation.ID]...)
		sort.Slice(nationTowns, func(i, j int) bool { return nationTowns[i].Population > nationTowns[j].Population })

		seatCount := int(math.Ceil(percentage / 100.0 * float64(len(nationTowns))))
		if seatCount < 1 && len(nationTowns) > 0 {
			seatCount = 1
		}
		if seatCount > len(nationTowns) {
			seatCount = len(nationTowns)
		}

		claimants := make([]polity.Claimant, 0, seatCount)
		seats := make([]*Subnation, 0, seatCount)
		for i := 0; i < seatCount; i++ {
			seatTown := nationTowns[i]
			id := tilegraph.Id(nextID)
			nextID++
			seatTownID := seatTown.ID
			seat := &Subnation{ID: id, ParentNation: nation.ID, SeatTownID: &seatTownID, SeatTileID: seatTown.TileID}
			seats = append(seats, seat)
			claimants = append(claimants, polity.Claimant{ID: id, SeedTile: seatTown.TileID, Expansionism: 1, Type: polity.Generic})
		}

		nationTiles := tilesOfNation(tiles, nation.ID)
		if len(claimants) > 0 {
			polity.Expand(nationTiles, claimants, polity.DefaultCostFactors(), math.Inf(1), subnationOwner{})
		}
		subnations = append(subnations, seats...)

		fillLeftovers(nationTiles, nation.ID, &nextID, &subnations)
	}
	return subnations
}

func tilesOfNation(tiles []*tilegraph.Tile, nationID tilegraph.Id) []*tilegraph.Tile {
	var out []*tilegraph.Tile
	for _, t := range tiles {
		if t.NationID != nil && *t.NationID == nationID {
			out = append(out, t)
		}
	}
	return out
}

// fillLeftovers assigns an unnamed subnation to every connected component
// of nation tiles that §4.17's seat-driven expansion didn't claim.
func fillLeftovers(nationTiles []*tilegraph.Tile, nationID tilegraph.Id, nextID *int, subnations *[]*Subnation) {
	lookup := make(map[tilegraph.Id]*tilegraph.Tile, len(nationTiles))
	for _, t := range nationTiles {
		lookup[t.ID] = t
	}
	visited := map[tilegraph.Id]bool{}

	for _, t := range nationTiles {
		if t.SubnationID != nil || visited[t.ID] {
			continue
		}
		id := tilegraph.Id(*nextID)
		*nextID++
		queue := []*tilegraph.Tile{t}
		visited[t.ID] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			cur.SubnationID = &id
			for _, adj := range cur.Neighbors {
				if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
					continue
				}
				n, ok := lookup[adj.Neighbor.Tile]
				if !ok || visited[n.ID] || n.SubnationID != nil {
					continue
				}
				visited[n.ID] = true
				queue = append(queue, n)
			}
		}
		*subnations = append(*subnations, &Subnation{ID: id, ParentNation: nationID})
	}
}
