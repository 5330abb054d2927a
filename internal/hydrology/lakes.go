package hydrology

import (
	"math"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/dissolve"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// LakeType classifies a finalized lake by temperature and water balance,
// per spec §4.8; the exact thresholds live in config.Lake since the
// source text flags them as implementer-derived.
type LakeType string

const (
	LakeFresh   LakeType = "Fresh"
	LakeSalt    LakeType = "Salt"
	LakeFrozen  LakeType = "Frozen"
	LakePluvial LakeType = "Pluvial"
	LakeDry     LakeType = "Dry"
	LakeMarsh   LakeType = "Marsh"
)

// Lake is the §4.3 (data model) Lake record.
type Lake struct {
	ID               int
	Members          []tilegraph.Id
	SurfaceElevation float64
	Type             LakeType
	Flow             float64
	Size             int
	Temperature      float64
	Evaporation      float64
	Polygon          orb.MultiPolygon
	OutletTile       tilegraph.Id
	HasOutlet        bool
}

// evaporation approximates evaporative loss from a lake's mean temperature
// and size. The original source's own evaporation formula was not present
// in the retrieved slice (only the lake-type CLI wiring survives); this is
// an original, documented proxy: warmer and larger lakes evaporate more.
func evaporation(meanTemp float64, size int) float64 {
	if meanTemp <= 0 {
		return 0
	}
	return meanTemp * float64(size) * 0.1
}

// GenerateLakes fills each lake seed from §4.7's lake queue into a lake,
// following the grow-to-outlet procedure spec'd in §4.8: repeatedly widen
// the lake to its lowest rim tile until some member has an outside
// neighbor strictly lower than the current surface (the outlet), or the
// whole reachable basin is consumed (an endorheic, Salt lake).
func GenerateLakes(tiles []*tilegraph.Tile, seeds []LakeSeed, cfg config.Lake, bufferScale float64) []*Lake {
	lookup := byID(tiles)
	assigned := make(map[tilegraph.Id]bool)
	var lakes []*Lake

	for _, seed := range seeds {
		if assigned[seed.TileID] {
			continue
		}
		seedTile, ok := lookup[seed.TileID]
		if !ok || seedTile.Grouping == tilegraph.GroupingOcean {
			continue
		}

		members := map[tilegraph.Id]bool{seed.TileID: true}
		var outletMember tilegraph.Id
		var outletNeighbor tilegraph.Id
		hasOutlet := false

		for step := 0; step < len(tiles); step++ {
			rim := rimOf(members, lookup)
			if len(rim) == 0 {
				break // basin covers the whole reachable map: endorheic.
			}
			surface := math.Inf(1)
			for _, r := range rim {
				if lookup[r].Elevation < surface {
					surface = lookup[r].Elevation
				}
			}

			found := false
			for _, r := range rim {
				if lookup[r].Elevation > surface {
					continue
				}
				if outN, outElev, ok := lowestOutsideNeighbor(lookup[r], members, lookup); ok && outElev < surface {
					members[r] = true
					outletMember = r
					outletNeighbor = outN
					hasOutlet = true
					found = true
					break
				}
			}
			if found {
				break
			}

			// No outlet yet: widen the lake by the single lowest rim tile.
			var lowest tilegraph.Id
			lowestElev := math.Inf(1)
			for _, r := range rim {
				if lookup[r].Elevation < lowestElev {
					lowestElev = lookup[r].Elevation
					lowest = r
				}
			}
			members[lowest] = true
		}

		lake := finalize(members, lookup, seed.WaterFlow, cfg, hasOutlet, outletMember, outletNeighbor)
		lake.ID = len(lakes) + 1
		for id := range members {
			assigned[id] = true
			t := lookup[id]
			t.Grouping = tilegraph.GroupingLake
			lakeID := lake.ID
			t.LakeID = &lakeID
		}
		if hasOutlet {
			if t, ok := lookup[outletMember]; ok {
				t.FlowTo = []tilegraph.Neighbor{tilegraph.TileNeighbor(outletNeighbor)}
			}
		}
		lakes = append(lakes, lake)
	}

	dissolveLakePolygons(lakes, lookup, bufferScale)
	return lakes
}

func rimOf(members map[tilegraph.Id]bool, lookup map[tilegraph.Id]*tilegraph.Tile) []tilegraph.Id {
	seen := map[tilegraph.Id]bool{}
	var rim []tilegraph.Id
	for id := range members {
		t := lookup[id]
		for _, adj := range t.Neighbors {
			if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
				continue
			}
			nid := adj.Neighbor.Tile
			if members[nid] || seen[nid] {
				continue
			}
			if _, ok := lookup[nid]; !ok {
				continue
			}
			seen[nid] = true
			rim = append(rim, nid)
		}
	}
	sort.Slice(rim, func(i, j int) bool { return rim[i] < rim[j] })
	return rim
}

// lowestOutsideNeighbor finds the lowest-elevation neighbor of t that is
// not already a lake member, i.e. an outlet candidate.
func lowestOutsideNeighbor(t *tilegraph.Tile, members map[tilegraph.Id]bool, lookup map[tilegraph.Id]*tilegraph.Tile) (tilegraph.Id, float64, bool) {
	var best tilegraph.Id
	bestElev := math.Inf(1)
	found := false
	for _, adj := range t.Neighbors {
		if adj.Neighbor.Kind == tilegraph.NeighborOffMap {
			continue
		}
		nid := adj.Neighbor.Tile
		if members[nid] {
			continue
		}
		n, ok := lookup[nid]
		if !ok {
			continue
		}
		if !found || n.Elevation < bestElev {
			found = true
			bestElev = n.Elevation
			best = nid
		}
	}
	return best, bestElev, found
}

func finalize(members map[tilegraph.Id]bool, lookup map[tilegraph.Id]*tilegraph.Tile, flow float64, cfg config.Lake, hasOutlet bool, outletMember, outletNeighbor tilegraph.Id) *Lake {
	ids := make([]tilegraph.Id, 0, len(members))
	surface := math.Inf(-1)
	tempSum := 0.0
	for id := range members {
		ids = append(ids, id)
		t := lookup[id]
		tempSum += t.Temperature
		if t.Elevation > surface {
			surface = t.Elevation
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	meanTemp := tempSum / float64(len(ids))
	evap := evaporation(meanTemp, len(ids))

	lakeType := classify(meanTemp, flow, evap, hasOutlet, cfg)

	return &Lake{
		Members:          ids,
		SurfaceElevation: surface,
		Type:             lakeType,
		Flow:             flow,
		Size:             len(ids),
		Temperature:      meanTemp,
		Evaporation:      evap,
		OutletTile:       outletMember,
		HasOutlet:        hasOutlet,
	}
}

func classify(meanTemp, flow, evap float64, hasOutlet bool, cfg config.Lake) LakeType {
	switch {
	case meanTemp <= cfg.FrozenMeanTempC:
		return LakeFrozen
	case !hasOutlet:
		return LakeSalt
	case evap > 0 && flow/evap < cfg.DryFlowRatio:
		if flow <= 0 {
			return LakeDry
		}
		return LakePluvial
	case flow < cfg.MarshFlowMax:
		return LakeMarsh
	default:
		return LakeFresh
	}
}

func dissolveLakePolygons(lakes []*Lake, lookup map[tilegraph.Id]*tilegraph.Tile, bufferScale float64) {
	_ = bufferScale // inward buffering needs a polygon-offset library absent from the retrieved pack; see DESIGN.md.
	members := make(map[string][]orb.Polygon, len(lakes))
	key := func(id int) string { return "lake" + strconv.Itoa(id) }
	for _, lake := range lakes {
		var polys []orb.Polygon
		for _, id := range lake.Members {
			if t, ok := lookup[id]; ok && len(t.Polygon) > 0 {
				polys = append(polys, t.Polygon)
			}
		}
		members[key(lake.ID)] = polys
	}
	dissolved := dissolve.Dissolve(members)
	for _, lake := range lakes {
		lake.Polygon = dissolved[key(lake.ID)]
	}
}
