// Package voronoi builds per-site Voronoi polygons from a Delaunay
// triangulation, clipped to the map extent and tagged with edge membership.
package voronoi

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/delaunay"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

// Cell is one site's Voronoi polygon together with its derived edge tag and
// shape-adjusted area.
type Cell struct {
	Site    geomcore.Coordinate
	Polygon orb.Polygon
	Edge    *geomcore.Edge // nil if interior
	Area    float64
}

// Build constructs Voronoi cells for every site contained in extent. Sites
// outside the extent (the four infinity points, plus any near-border
// artifact) are discarded, matching the reference builder.
func Build(shape worldshape.Shape, extent geomcore.Extent, sites []geomcore.Coordinate) ([]Cell, error) {
	triangles := delaunay.Triangulate(sites)

	// Per-site list of circumcenters of every triangle incident to it.
	incident := make(map[int][]geomcore.Coordinate, len(sites))
	for _, t := range triangles {
		cc := shape.Circumcenter(sites[t[0]], sites[t[1]], sites[t[2]])
		for _, v := range t {
			incident[v] = append(incident[v], cc)
		}
	}

	cells := make([]Cell, 0, len(sites))
	for idx, site := range sites {
		if !extent.Contains(site) {
			continue
		}
		verts := incident[idx]
		if len(verts) < 3 {
			continue
		}

		sortClockwiseFromNorth(shape, site, verts)
		ring := closeRing(verts)

		combinedEdge, hasEdge, conflict := combineVertexEdges(extent, ring)

		polygon := orb.Polygon{ring}
		if hasEdge {
			polygon = clipToExtent(polygon, extent)
		}

		var edgeTag *geomcore.Edge
		switch {
		case conflict:
			if resolved, ok := extent.IsExtentOnEdge(polygon.Bound()); ok {
				e := resolved
				edgeTag = &e
			}
		case hasEdge:
			e := combinedEdge
			edgeTag = &e
		}

		area := polygonArea(shape, site, polygon)

		cells = append(cells, Cell{Site: site, Polygon: polygon, Edge: edgeTag, Area: area})
	}

	return cells, nil
}

// sortClockwiseFromNorth orders verts clockwise around site, starting due
// north, using the shape's bearing function so the ordering stays correct
// under a spherical metric too.
func sortClockwiseFromNorth(shape worldshape.Shape, site geomcore.Coordinate, verts []geomcore.Coordinate) {
	sort.Slice(verts, func(i, j int) bool {
		bi := shape.Bearing(site.X, site.Y, verts[i].X, verts[i].Y)
		bj := shape.Bearing(site.X, site.Y, verts[j].X, verts[j].Y)
		return bi < bj
	})
}

func closeRing(verts []geomcore.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(verts)+1)
	for _, v := range verts {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	ring = append(ring, ring[0])
	return ring
}

// combineVertexEdges folds every ring vertex's off-edge classification
// through Edge.CombineWith, tracking whether any conflicting (invalid)
// combination was seen along the way.
func combineVertexEdges(extent geomcore.Extent, ring orb.Ring) (geomcore.Edge, bool, bool) {
	var combined geomcore.Edge
	has := false
	conflict := false

	for _, pt := range ring {
		c := geomcore.Coordinate{X: pt[0], Y: pt[1]}
		tag, ok := extent.IsOffEdge(c)
		if !ok {
			continue
		}
		if !has {
			combined = tag
			has = true
			continue
		}
		merged, err := combined.CombineWith(tag)
		if err != nil {
			conflict = true
			continue
		}
		combined = merged
	}
	return combined, has, conflict
}

// clipToExtent applies Sutherland-Hodgman clipping of polygon's outer ring
// against extent's rectangle. The extent is always convex and axis-aligned,
// so this simple clipper is exact and avoids pulling in a general-purpose
// polygon boolean-ops library for a single rectangular case.
func clipToExtent(polygon orb.Polygon, extent geomcore.Extent) orb.Polygon {
	subject := polygon[0]
	clip := extent.CreatePolygon()[0]

	for i := 0; i < len(clip)-1; i++ {
		a, b := clip[i], clip[i+1]
		subject = clipEdge(subject, a, b)
		if len(subject) == 0 {
			break
		}
	}
	if len(subject) > 0 && subject[0] != subject[len(subject)-1] {
		subject = append(subject, subject[0])
	}
	return orb.Polygon{subject}
}

func clipEdge(subject orb.Ring, a, b orb.Point) orb.Ring {
	if len(subject) == 0 {
		return subject
	}
	var out orb.Ring
	for i := 0; i < len(subject); i++ {
		curr := subject[i]
		prev := subject[(i-1+len(subject))%len(subject)]

		currIn := isInsideEdge(curr, a, b)
		prevIn := isInsideEdge(prev, a, b)

		if currIn {
			if !prevIn {
				out = append(out, lineIntersect(prev, curr, a, b))
			}
			out = append(out, curr)
		} else if prevIn {
			out = append(out, lineIntersect(prev, curr, a, b))
		}
	}
	return out
}

func isInsideEdge(p, a, b orb.Point) bool {
	return (b[0]-a[0])*(p[1]-a[1])-(b[1]-a[1])*(p[0]-a[0]) >= 0
}

func lineIntersect(p1, p2, a, b orb.Point) orb.Point {
	a1 := p2[1] - p1[1]
	b1 := p1[0] - p2[0]
	c1 := a1*p1[0] + b1*p1[1]

	a2 := b[1] - a[1]
	b2 := a[0] - b[0]
	c2 := a2*a[0] + b2*a[1]

	det := a1*b2 - a2*b1
	if math.Abs(det) < 1e-12 {
		return p2
	}
	return orb.Point{(b2*c1 - b1*c2) / det, (a1*c2 - a2*c1) / det}
}

// polygonArea computes the shoelace area of polygon's outer ring and, for a
// spherical shape, scales it by the ratio of the shape's great-circle cell
// estimate to the planar shoelace estimate for a 1-tile extent matching the
// polygon's own bound -- giving a consistent shape-adjusted area without a
// dedicated spherical polygon-area routine.
func polygonArea(shape worldshape.Shape, site geomcore.Coordinate, polygon orb.Polygon) float64 {
	planar := shoelace(polygon[0])
	if shape.Kind() == "Sphere" {
		b := polygon.Bound()
		extent := geomcore.NewExtentFromBounds(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
		if extent.Area() == 0 {
			return planar
		}
		return planar * (shape.AverageTileArea(extent, 1) / extent.Area())
	}
	return planar
}

func shoelace(ring orb.Ring) float64 {
	sum := 0.0
	for i := 0; i < len(ring)-1; i++ {
		sum += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return math.Abs(sum) / 2.0
}
