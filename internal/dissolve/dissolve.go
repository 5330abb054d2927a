// Package dissolve merges tiles sharing a theme (biome, culture, nation,
// subnation, coastline) into multipolygons and smooths their shared
// boundaries exactly once, per §4.18. The underlying technique is edge
// cancellation: a boundary shared by two same-key tiles appears twice (once
// from each tile, in opposite winding) and cancels; edges that appear only
// once are the outline of the dissolved region.
package dissolve

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/curve"
)

const vertexScale = 1e7

type vertexKey [2]int64

func keyOf(p orb.Point) vertexKey {
	return vertexKey{int64(math.Round(p[0] * vertexScale)), int64(math.Round(p[1] * vertexScale))}
}

type directedEdge struct {
	a, b vertexKey
}

// Member wraps one tile polygon taking part in a dissolve.
type Member struct {
	Polygon orb.Polygon
}

// Dissolve groups members by key and traces the boundary of each group
// into one or more rings, returned as an orb.MultiPolygon per key (each
// ring is exposed as its own polygon in the multipolygon: this pipeline
// does not attempt outer/hole nesting classification, since every caller
// only needs the dissolved outline for a typed-layer polygon field).
func Dissolve(members map[string][]orb.Polygon) map[string]orb.MultiPolygon {
	out := make(map[string]orb.MultiPolygon, len(members))
	for key, polys := range members {
		out[key] = dissolveGroup(polys)
	}
	return out
}

func dissolveGroup(polys []orb.Polygon) orb.MultiPolygon {
	counts := map[directedEdge]int{}
	reverse := map[directedEdge]bool{}

	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		ring := poly[0]
		for i := 0; i < len(ring)-1; i++ {
			a, b := keyOf(ring[i]), keyOf(ring[i+1])
			e := directedEdge{a, b}
			r := directedEdge{b, a}
			if counts[r] > 0 {
				counts[r]--
				reverse[r] = true
			} else {
				counts[e]++
			}
		}
	}

	adjacency := map[vertexKey][]vertexKey{}
	points := map[vertexKey]orb.Point{}
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		ring := poly[0]
		for i := 0; i < len(ring)-1; i++ {
			a, b := keyOf(ring[i]), keyOf(ring[i+1])
			points[a] = ring[i]
			points[b] = ring[i+1]
			if counts[directedEdge{a, b}] > 0 {
				adjacency[a] = append(adjacency[a], b)
			}
		}
	}

	visited := map[directedEdge]bool{}
	var mp orb.MultiPolygon
	// Stable order: sort starting vertices for reproducible ring order.
	starts := make([]vertexKey, 0, len(adjacency))
	for k := range adjacency {
		starts = append(starts, k)
	}
	sort.Slice(starts, func(i, j int) bool {
		if starts[i][0] != starts[j][0] {
			return starts[i][0] < starts[j][0]
		}
		return starts[i][1] < starts[j][1]
	})

	for _, start := range starts {
		for _, next := range adjacency[start] {
			e := directedEdge{start, next}
			if visited[e] {
				continue
			}
			ring := traceRing(start, adjacency, visited, points)
			if len(ring) >= 4 {
				mp = append(mp, orb.Polygon{ring})
			}
		}
	}
	return mp
}

func traceRing(start vertexKey, adjacency map[vertexKey][]vertexKey, visited map[directedEdge]bool, points map[vertexKey]orb.Point) orb.Ring {
	ring := orb.Ring{points[start]}
	cur := start
	for i := 0; i < 1_000_000; i++ {
		outs := adjacency[cur]
		var next vertexKey
		found := false
		for _, n := range outs {
			if !visited[directedEdge{cur, n}] {
				next = n
				found = true
				break
			}
		}
		if !found {
			break
		}
		visited[directedEdge{cur, next}] = true
		ring = append(ring, points[next])
		cur = next
		if cur == start {
			break
		}
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// Smooth applies smoother to every ring of every polygon in mp at the given
// scale, caching by endpoint key-pair so a boundary shared between two
// themes (e.g. a nation border that coincides with a subnation border) is
// curved identically on both sides, per §4.18.
func Smooth(cache *Cache, smoother curve.Smoother, scale float64, mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		out[i] = make(orb.Polygon, len(poly))
		for j, ring := range poly {
			out[i][j] = cache.smoothRing(smoother, scale, ring)
		}
	}
	return out
}

// Cache deduplicates smoothing work for a boundary shared by two
// dissolved regions: the first caller to smooth a given (start,end)
// segment pair stores the result; the second reuses it verbatim.
type Cache struct {
	byEndpoints map[[2]vertexKey]orb.Ring
}

func NewCache() *Cache { return &Cache{byEndpoints: map[[2]vertexKey]orb.Ring{}} }

func (c *Cache) smoothRing(smoother curve.Smoother, scale float64, ring orb.Ring) orb.Ring {
	if len(ring) < 2 {
		return ring
	}
	a, b := keyOf(ring[0]), keyOf(ring[len(ring)-1])
	ek := [2]vertexKey{a, b}
	rek := [2]vertexKey{b, a}
	if cached, ok := c.byEndpoints[ek]; ok {
		return cached
	}
	if cached, ok := c.byEndpoints[rek]; ok {
		out := make(orb.Ring, len(cached))
		for i, p := range cached {
			out[len(cached)-1-i] = p
		}
		return out
	}
	smoothed := smoother.Smooth(ring, scale)
	result := orb.Ring(smoothed)
	c.byEndpoints[ek] = result
	return result
}
