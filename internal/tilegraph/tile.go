// Package tilegraph holds the core Tile record and the neighbor-adjacency
// graph every later stage reads and augments.
package tilegraph

import (
	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/geomcore"
)

// Id is an opaque 64-bit handle, stable for the lifetime of a run. It is
// carried as a string in the store because SQLite lacks an unsigned
// 64-bit column, but stays an integer type inside the pipeline.
type Id uint64

// NeighborKind discriminates the three Neighbor variants.
type NeighborKind int

const (
	NeighborTile NeighborKind = iota
	NeighborCrossMap
	NeighborOffMap
)

// Neighbor is the tagged union {Tile(Id), CrossMap(Id, Edge), OffMap(Edge)}.
// CrossMap represents a dateline-wrap adjacency; OffMap represents an edge
// with no neighbor (pole or unwrapped boundary). Ghost tiles are
// deliberately not used: this keeps the tile set exactly one-per-site.
type Neighbor struct {
	Kind NeighborKind
	Tile Id
	Edge geomcore.Edge
}

func TileNeighbor(id Id) Neighbor { return Neighbor{Kind: NeighborTile, Tile: id} }
func CrossMapNeighbor(id Id, e geomcore.Edge) Neighbor {
	return Neighbor{Kind: NeighborCrossMap, Tile: id, Edge: e}
}
func OffMapNeighbor(e geomcore.Edge) Neighbor { return Neighbor{Kind: NeighborOffMap, Edge: e} }

// AdjEntry pairs a neighbor with the bearing from the owning tile's site
// towards it.
type AdjEntry struct {
	Neighbor Neighbor
	Bearing  float64
}

// GroupingKind classifies the connected component a tile belongs to.
type GroupingKind string

const (
	GroupingOcean      GroupingKind = "Ocean"
	GroupingContinent  GroupingKind = "Continent"
	GroupingIsland     GroupingKind = "Island"
	GroupingIslet      GroupingKind = "Islet"
	GroupingLakeIsland GroupingKind = "LakeIsland"
	GroupingLake       GroupingKind = "Lake"
)

// Tile is the core per-site record threaded through the whole pipeline.
// Fields are grouped by the stage that owns them; later stages must only
// read fields they don't own (see the data model's lifecycle rule).
type Tile struct {
	ID      Id
	Site    geomcore.Coordinate
	Polygon orb.Polygon
	Area    float64
	Edge    *geomcore.Edge

	Neighbors []AdjEntry

	// Terrain
	Elevation       float64
	ElevationScaled int // 0..100, 20 = sea

	// Climate
	Temperature   float64
	Precipitation float64

	// Hydrology
	WaterFlow         float64
	WaterAccumulation float64
	FlowTo            []Neighbor

	// Grouping
	Grouping    GroupingKind
	GroupingID  int
	LakeID      *int

	// Shore
	ShoreDistance int
	ClosestWater  *Neighbor
	WaterCount    int

	// Biome / population
	Biome        string
	Habitability float64
	Population   int

	// Settlement / polity
	CultureID    *Id
	NationID     *Id
	SubnationID  *Id
	TownID       *Id
	HarborTileID *Id
}

// IsWater reports whether a tile is currently classified as part of a
// water body (ocean or lake).
func (t *Tile) IsWater() bool {
	return t.Grouping == GroupingOcean || t.Grouping == GroupingLake
}

// IsLand reports the opposite of IsWater for a tile that has already been
// through grouping; before grouping runs, callers should consult terrain's
// ocean sampling instead.
func (t *Tile) IsLand() bool { return !t.IsWater() }
