// Package points generates the jittered point grid, plus the four far-field
// "infinity" points, that seed the Delaunay triangulation.
package points

import (
	"math"
	"math/rand"

	"github.com/worldatlas/worldgen/internal/geomcore"
)

// Generate returns, in order, four far-field infinity points followed by a
// jittered square grid of `count` sites inside extent. The sequence and
// jitter are a pure function of (rng draws, extent, count): callers supply
// the single shared PRNG stream so results are reproducible given a seed.
func Generate(rng *rand.Rand, extent geomcore.Extent, count int) []geomcore.Coordinate {
	width, height := extent.Width, extent.Height
	area := width * height

	out := make([]geomcore.Coordinate, 0, count+4)

	// Far-field infinity points, placed relative to the extent's origin so
	// the Delaunay hull always wraps the real sites.
	out = append(out,
		geomcore.Coordinate{X: extent.West + width*2, Y: extent.South + height*2},
		geomcore.Coordinate{X: extent.West + width*2, Y: extent.South - height},
		geomcore.Coordinate{X: extent.West - width, Y: extent.South - height},
		geomcore.Coordinate{X: extent.West - width, Y: extent.South + height*2},
	)

	if count <= 0 || area <= 0 {
		return out
	}

	density := float64(count) / area
	spacing := 1.0 / math.Sqrt(density)
	jitterShift := (spacing / 2.0) * 0.9
	jitterSpread := jitterShift * 2.0

	const startX, startY = 0.0, 1.0

	for y := startY; y < height; y += spacing {
		for x := startX; x < width; x += spacing {
			jx := x + rng.Float64()*jitterSpread - jitterShift
			jy := y + rng.Float64()*jitterSpread - jitterShift

			jx = clamp(jx, startX, width)
			jy = clamp(jy, startY, height)

			out = append(out, geomcore.Coordinate{X: extent.West + jx, Y: extent.South + jy})
		}
	}

	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
