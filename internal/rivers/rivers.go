// Package rivers enumerates flow segments, classifies their topology, and
// builds smoothed river geometry, §4.9, grounded on
// original_source/src/algorithms/rivers.rs.
package rivers

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/curve"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// EndType classifies how a segment's endpoint participates in the
// network, per §4.9.
type EndType string

const (
	Source              EndType = "Source"
	Continuing           EndType = "Continuing"
	Confluence           EndType = "Confluence"
	Branch               EndType = "Branch"
	BranchingConfluence  EndType = "BranchingConfluence"
	LakeEnd              EndType = "Lake"
	BranchingLake        EndType = "BranchingLake"
	Mouth                EndType = "Mouth"
)

// Segment is the §3 data-model River segment record.
type Segment struct {
	From, To         tilegraph.Id
	FromFlow, ToFlow float64
	FromLake         bool
	FromType, ToType EndType
	Geometry         orb.LineString
}

// Enumerate emits one segment per tile's outgoing flow edges,
// deduplicating shared (from,to) pairs by max flow / OR'd from_lake.
// Segments leaving a lake's outlet tile are marked from_lake and carry the
// lake's flow; no extra segments are added for outlets.
func Enumerate(tiles []*tilegraph.Tile, lakes []*hydrology.Lake) []*Segment {
	type key struct{ from, to tilegraph.Id }
	segments := map[key]*Segment{}

	add := func(from, to tilegraph.Id, flow float64, fromLake bool) {
		k := key{from, to}
		if s, ok := segments[k]; ok {
			if flow > s.ToFlow {
				s.ToFlow = flow
				s.FromFlow = flow
			}
			s.FromLake = s.FromLake || fromLake
			return
		}
		segments[k] = &Segment{From: from, To: to, FromFlow: flow, ToFlow: flow, FromLake: fromLake}
	}

	outlets := make(map[tilegraph.Id]bool, len(lakes))
	for _, lake := range lakes {
		if lake.HasOutlet {
			outlets[lake.OutletTile] = true
		}
	}

	for _, t := range tiles {
		if len(t.FlowTo) == 0 {
			continue
		}
		perEdge := t.WaterFlow / float64(len(t.FlowTo))
		for _, to := range t.FlowTo {
			if to.Kind == tilegraph.NeighborOffMap {
				continue
			}
			add(t.ID, to.Tile, perEdge, outlets[t.ID])
		}
	}

	// A lake's outlet segment carries the lake's accumulated flow, not the
	// outlet tile's own per-tile water flow, so it's corrected here.
	for _, lake := range lakes {
		if !lake.HasOutlet {
			continue
		}
		for k, s := range segments {
			if k.from == lake.OutletTile {
				s.FromFlow = lake.Flow
				s.ToFlow = lake.Flow
				s.FromLake = true
			}
		}
	}

	out := make([]*Segment, 0, len(segments))
	for _, s := range segments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// indices builds the by-from and by-to lookup tables §4.9 calls for.
func indices(segments []*Segment) (byFrom, byTo map[tilegraph.Id][]*Segment) {
	byFrom = map[tilegraph.Id][]*Segment{}
	byTo = map[tilegraph.Id][]*Segment{}
	for _, s := range segments {
		byFrom[s.From] = append(byFrom[s.From], s)
		byTo[s.To] = append(byTo[s.To], s)
	}
	return
}

// Classify assigns FromType/ToType to every segment based on how many
// segments start/end at each of its endpoints.
func Classify(segments []*Segment) {
	byFrom, byTo := indices(segments)
	for _, s := range segments {
		incoming := byTo[s.From]
		outgoing := byFrom[s.From]
		s.FromType = classifyEnd(len(incoming), len(outgoing), true, s.FromLake)

		incomingTo := byTo[s.To]
		outgoingTo := byFrom[s.To]
		s.ToType = classifyEnd(len(incomingTo), len(outgoingTo), false, false)
	}
}

func classifyEnd(incoming, outgoing int, isFrom, fromLake bool) EndType {
	if isFrom {
		switch {
		case fromLake && outgoing > 1:
			return BranchingLake
		case fromLake:
			return LakeEnd
		case incoming == 0:
			return Source
		case incoming == 1 && outgoing == 1:
			return Continuing
		case incoming > 1 && outgoing <= 1:
			return Confluence
		case incoming <= 1 && outgoing > 1:
			return Branch
		default:
			return BranchingConfluence
		}
	}
	switch {
	case outgoing == 0:
		return Mouth
	case incoming <= 1 && outgoing == 1:
		return Continuing
	case incoming > 1 && outgoing <= 1:
		return Confluence
	case incoming <= 1 && outgoing > 1:
		return Branch
	default:
		return BranchingConfluence
	}
}

// previousTile picks, among segments ending at to, the incoming neighbor
// with maximum ToFlow, ties broken by larger from-tile id (every candidate
// shares the same to-tile), per §4.9's reproducibility rule.
func previousTile(byTo map[tilegraph.Id][]*Segment, tileID tilegraph.Id) (tilegraph.Id, bool) {
	candidates := byTo[tileID]
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.ToFlow > best.ToFlow || (c.ToFlow == best.ToFlow && c.From > best.From) {
			best = c
		}
	}
	return best.From, true
}

// nextTile mirrors previousTile for the outgoing direction.
func nextTile(byFrom map[tilegraph.Id][]*Segment, tileID tilegraph.Id) (tilegraph.Id, bool) {
	candidates := byFrom[tileID]
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.ToFlow > best.ToFlow || (c.ToFlow == best.ToFlow && c.To > best.To) {
			best = c
		}
	}
	return best.To, true
}

// BuildGeometry constructs each segment's smoothed polyline from a cubic
// Bezier over [previous-site, from-site, to-site, next-site], synthesizing
// phantom endpoints when no neighbor exists, per §4.9. Segments where both
// flows are zero, or that run within a single lake, are skipped.
func BuildGeometry(segments []*Segment, siteOf func(tilegraph.Id) (orb.Point, bool), sameLake func(a, b tilegraph.Id) bool, smoother curve.Smoother, scale float64) {
	byFrom, byTo := indices(segments)
	for _, s := range segments {
		if s.FromFlow == 0 && s.ToFlow == 0 {
			continue
		}
		if sameLake(s.From, s.To) {
			continue
		}
		fromPt, ok1 := siteOf(s.From)
		toPt, ok2 := siteOf(s.To)
		if !ok1 || !ok2 {
			continue
		}

		var prevPt orb.Point
		if prevID, ok := previousTile(byTo, s.From); ok {
			if p, ok2 := siteOf(prevID); ok2 {
				prevPt = p
			} else {
				prevPt = curve.PhantomPoint(fromPt, toPt)
			}
		} else {
			prevPt = curve.PhantomPoint(fromPt, toPt)
		}

		var nextPt orb.Point
		if nextID, ok := nextTile(byFrom, s.To); ok {
			if p, ok2 := siteOf(nextID); ok2 {
				nextPt = p
			} else {
				nextPt = curve.PhantomPoint(toPt, fromPt)
			}
		} else {
			nextPt = curve.PhantomPoint(toPt, fromPt)
		}

		bezier := cubicBezier(prevPt, fromPt, toPt, nextPt, 16)
		s.Geometry = orb.LineString(smoother.Smooth(bezier, scale))
	}
}

func cubicBezier(p0, p1, p2, p3 orb.Point, samples int) []orb.Point {
	out := make([]orb.Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		u := 1 - t
		x := u*u*u*p0[0] + 3*u*u*t*p1[0] + 3*u*t*t*p2[0] + t*t*t*p3[0]
		y := u*u*u*p0[1] + 3*u*u*t*p1[1] + 3*u*t*t*p2[1] + t*t*t*p3[1]
		out = append(out, orb.Point{x, y})
	}
	return out
}
