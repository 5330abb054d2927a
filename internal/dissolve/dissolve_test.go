package dissolve

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0},
	}}
}

func TestDissolveMergesAdjacentSquaresIntoOneRing(t *testing.T) {
	// Two unit squares sharing the edge x=1 should dissolve into one
	// 2x1 rectangle outline: the shared edge cancels.
	members := map[string][]orb.Polygon{
		"land": {square(0, 0, 1, 1), square(1, 0, 2, 1)},
	}
	out := Dissolve(members)
	require.Len(t, out["land"], 1)
	ring := out["land"][0][0]
	require.True(t, ring[0] == ring[len(ring)-1])
	// The outline keeps the shared edge's endpoints (1,0) and (1,1) as
	// vertices: 6 vertices plus the closing point.
	require.Len(t, ring, 7)
}

func TestDissolveKeepsDisjointGroupsSeparate(t *testing.T) {
	members := map[string][]orb.Polygon{
		"land": {square(0, 0, 1, 1), square(5, 5, 6, 6)},
	}
	out := Dissolve(members)
	require.Len(t, out["land"], 2)
}

func TestCacheReusesSmoothedBoundaryAcrossOrientations(t *testing.T) {
	cache := NewCache()
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	reversed := orb.Ring{{0, 0}, {1, 1}, {1, 0}, {0, 0}}

	smoother := countingSmoother{}
	cache.smoothRing(&smoother, 100, ring)
	cache.smoothRing(&smoother, 100, reversed)

	require.Equal(t, 1, smoother.calls)
}

type countingSmoother struct{ calls int }

func (c *countingSmoother) Smooth(points []orb.Point, _ float64) []orb.Point {
	c.calls++
	return points
}
