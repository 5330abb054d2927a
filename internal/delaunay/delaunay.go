// Package delaunay triangulates a point set with the Bowyer-Watson
// incremental algorithm.
//
// No third-party Go package in the retrieved corpus provides a 2D Delaunay
// triangulator or Voronoi diagram builder (the closest match found was a
// coarse grid-based pseudo-Voronoi approximation, not a circumcenter-based
// implementation) so this numerical core is hand-written, following the
// structure of the reference "standard 2D Delaunay routine" that the
// original implementation delegates to. It is a supporting collaborator
// for the voronoi package, not a replacement for a missing dependency: the
// pipeline's domain packages still lean on paulmach/orb for every geometry
// type that triangle emits.
package delaunay

import (
	"math"
	"sort"

	"github.com/worldatlas/worldgen/internal/geomcore"
)

// Triangle is a triple of indices into the original points slice.
type Triangle [3]int

// Triangulate computes the Delaunay triangulation of pts using the
// Bowyer-Watson algorithm. It must see every point before returning: there
// is no streaming variant of this numerical core.
func Triangulate(pts []geomcore.Coordinate) []Triangle {
	n := len(pts)
	if n < 3 {
		return nil
	}

	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	dx, dy := maxX-minX, maxY-minY
	deltaMax := math.Max(dx, dy) * 10
	if deltaMax == 0 {
		deltaMax = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	// Super-triangle, large enough to contain every input point. Its three
	// vertices are appended after the real points and stripped from the
	// output at the end.
	superA := geomcore.Coordinate{X: midX - 2*deltaMax, Y: midY - deltaMax}
	superB := geomcore.Coordinate{X: midX, Y: midY + 2*deltaMax}
	superC := geomcore.Coordinate{X: midX + 2*deltaMax, Y: midY - deltaMax}

	work := make([]geomcore.Coordinate, n, n+3)
	copy(work, pts)
	work = append(work, superA, superB, superC)
	superIdx := [3]int{n, n + 1, n + 2}

	triangles := []Triangle{{superIdx[0], superIdx[1], superIdx[2]}}

	for i := 0; i < n; i++ {
		p := work[i]

		var badTriangles []Triangle
		for _, t := range triangles {
			if pointInCircumcircle(p, work[t[0]], work[t[1]], work[t[2]]) {
				badTriangles = append(badTriangles, t)
			}
		}

		polygon := boundaryEdges(badTriangles)

		triangles = removeTriangles(triangles, badTriangles)

		for _, e := range polygon {
			triangles = append(triangles, Triangle{e[0], e[1], i})
		}
	}

	out := make([]Triangle, 0, len(triangles))
	for _, t := range triangles {
		if containsSuper(t, superIdx) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func containsSuper(t Triangle, super [3]int) bool {
	for _, v := range t {
		for _, s := range super {
			if v == s {
				return true
			}
		}
	}
	return false
}

func removeTriangles(all, remove []Triangle) []Triangle {
	bad := make(map[Triangle]bool, len(remove))
	for _, t := range remove {
		bad[t] = true
	}
	out := all[:0:0]
	for _, t := range all {
		if !bad[t] {
			out = append(out, t)
		}
	}
	return out
}

type edge [2]int

func normEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// boundaryEdges returns the edges of the cavity left by removing
// badTriangles: those appearing in exactly one bad triangle.
func boundaryEdges(badTriangles []Triangle) []edge {
	count := map[edge]int{}
	order := map[edge][2]int{}
	for _, t := range badTriangles {
		edges := [3][2]int{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
		for _, e := range edges {
			k := normEdge(e[0], e[1])
			count[k]++
			order[k] = [2]int{e[0], e[1]}
		}
	}
	var out []edge
	// Stable order keeps triangulation deterministic for a given input order.
	keys := make([]edge, 0, len(count))
	for k := range count {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		if count[k] == 1 {
			o := order[k]
			out = append(out, edge{o[0], o[1]})
		}
	}
	return out
}

// pointInCircumcircle reports whether p lies strictly inside the
// circumcircle of triangle (a,b,c), using the standard determinant test.
func pointInCircumcircle(p, a, b, c geomcore.Coordinate) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	// Orientation of (a,b,c) determines the sign convention for "inside".
	orient := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if orient < 0 {
		det = -det
	}
	return det > 0
}
