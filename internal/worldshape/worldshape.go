// Package worldshape selects the metric (planar or great-circle) used for
// distance, midpoint, circumcenter, and bearing calculations, matching the
// shape chosen for a given world.
package worldshape

import (
	"math"

	"github.com/worldatlas/worldgen/internal/geomcore"
)

// Kind identifies which metric a Shape implements. Persisted verbatim in the
// properties layer so every later stage can reconstruct the same Shape.
type Kind string

const (
	Cylinder Kind = "Cylinder"
	Sphere   Kind = "Sphere"
)

// Shape computes geometric quantities under a chosen world topology.
type Shape interface {
	Kind() Kind
	Distance(from, to geomcore.Coordinate) float64
	Midpoint(from, to geomcore.Coordinate) geomcore.Coordinate
	Circumcenter(a, b, c geomcore.Coordinate) geomcore.Coordinate
	// Bearing returns the clockwise-from-north bearing in degrees, in
	// [0, 360), from (siteX,siteY) towards (otherX,otherY).
	Bearing(siteX, siteY, otherX, otherY float64) float64
	// AverageTileArea estimates the mean tile area for an extent split
	// into the given tile count, under this shape's area metric.
	AverageTileArea(extent geomcore.Extent, tiles int) float64
}

// New returns the Shape implementation for kind.
func New(kind Kind) Shape {
	switch kind {
	case Sphere:
		return sphereShape{}
	default:
		return cylinderShape{}
	}
}

type cylinderShape struct{}

func (cylinderShape) Kind() Kind { return Cylinder }

func (cylinderShape) Distance(from, to geomcore.Coordinate) float64 {
	return math.Hypot(to.X-from.X, to.Y-from.Y)
}

func (cylinderShape) Midpoint(from, to geomcore.Coordinate) geomcore.Coordinate {
	return geomcore.Coordinate{X: (from.X + to.X) / 2.0, Y: (from.Y + to.Y) / 2.0}
}

// Circumcenter solves the Cartesian circumcenter formula; see
// https://en.wikipedia.org/wiki/Circumcircle#Cartesian_coordinates_2
func (cylinderShape) Circumcenter(a, b, c geomcore.Coordinate) geomcore.Coordinate {
	d := (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y)) * 2.0
	dRecip := 1.0 / d

	ax2ay2 := a.X*a.X + a.Y*a.Y
	bx2by2 := b.X*b.X + b.Y*b.Y
	cx2cy2 := c.X*c.X + c.Y*c.Y

	ux := (ax2ay2*(b.Y-c.Y) + bx2by2*(c.Y-a.Y) + cx2cy2*(a.Y-b.Y)) * dRecip
	uy := (ax2ay2*(c.X-b.X) + bx2by2*(a.X-c.X) + cx2cy2*(b.X-a.X)) * dRecip

	return geomcore.Coordinate{X: ux, Y: uy}
}

func (cylinderShape) Bearing(siteX, siteY, otherX, otherY float64) float64 {
	ccwFromEast := math.Round(math.Atan2(otherY-siteY, otherX-siteX) * 180.0 / math.Pi)
	cwFromNorth := 450.0 - ccwFromEast
	return normalizeDegrees(cwFromNorth)
}

func (cylinderShape) AverageTileArea(extent geomcore.Extent, tiles int) float64 {
	return extent.Area() / float64(tiles)
}

// sphereShape implements great-circle equivalents using a haversine-based
// distance, a vector-averaged midpoint, and a planar circumcenter solved in
// an equirectangular projection around the triangle's centroid latitude
// (adequate at the tile scale this pipeline operates at; a full 3D
// spherical circumcenter is future work noted by the original author).
type sphereShape struct{}

func (sphereShape) Kind() Kind { return Sphere }

const earthRadiusKm = 6371.0088

func toRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

func (sphereShape) Distance(from, to geomcore.Coordinate) float64 {
	lat1, lon1 := toRad(from.Y), toRad(from.X)
	lat2, lon2 := toRad(to.Y), toRad(to.X)
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func (sphereShape) Midpoint(from, to geomcore.Coordinate) geomcore.Coordinate {
	lat1, lon1 := toRad(from.Y), toRad(from.X)
	lat2, lon2 := toRad(to.Y), toRad(to.X)
	bx := math.Cos(lat2) * math.Cos(lon2-lon1)
	by := math.Cos(lat2) * math.Sin(lon2-lon1)
	lat3 := math.Atan2(math.Sin(lat1)+math.Sin(lat2), math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	lon3 := lon1 + math.Atan2(by, math.Cos(lat1)+bx)
	return geomcore.Coordinate{X: toDeg(lon3), Y: toDeg(lat3)}
}

func (s sphereShape) Circumcenter(a, b, c geomcore.Coordinate) geomcore.Coordinate {
	lat0 := (a.Y + b.Y + c.Y) / 3.0
	cosLat0 := math.Cos(toRad(lat0))
	if cosLat0 == 0 {
		cosLat0 = 1e-9
	}
	project := func(p geomcore.Coordinate) geomcore.Coordinate {
		return geomcore.Coordinate{X: p.X * cosLat0, Y: p.Y}
	}
	unproject := func(p geomcore.Coordinate) geomcore.Coordinate {
		return geomcore.Coordinate{X: p.X / cosLat0, Y: p.Y}
	}
	pa, pb, pc := project(a), project(b), project(c)
	center := cylinderShape{}.Circumcenter(pa, pb, pc)
	return unproject(center)
}

func (sphereShape) Bearing(siteX, siteY, otherX, otherY float64) float64 {
	lat1, lon1 := toRad(siteY), toRad(siteX)
	lat2, lon2 := toRad(otherY), toRad(otherX)
	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := toDeg(math.Atan2(y, x))
	return normalizeDegrees(bearing)
}

func (sphereShape) AverageTileArea(extent geomcore.Extent, tiles int) float64 {
	return extent.SphericalArea() / float64(tiles)
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}
