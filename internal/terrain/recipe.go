package terrain

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"
	"github.com/paulmach/orb"
	"golang.org/x/image/vector"
)

// Field is a dense elevation grid covering an extent at a fixed pixel
// resolution, synthesized by a chain of recipe operators before being
// sampled per-tile the same way a real raster would be.
type Field struct {
	Width, Height int
	Data          []float64 // row-major, len == Width*Height

	smoothMin, smoothSpan float64 // scratch state used by Smooth's gray16 round-trip
}

func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Data: make([]float64, width*height)}
}

func (f *Field) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Data[y*f.Width+x]
}

func (f *Field) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Data[y*f.Width+x] = v
}

// Operator is one step of a terrain recipe: a pure function from a field to
// a field (in place), composed in sequence to build up elevation.
type Operator func(f *Field, rng *rand.Rand)

// Hill raises a roughly circular bump of the given height at a random (or
// fixed, via cx/cy in [0,1)) location with the given radius fraction of the
// field's shorter dimension.
func Hill(height, radiusFraction, cx, cy float64) Operator {
	return func(f *Field, rng *rand.Rand) {
		if cx < 0 {
			cx = rng.Float64()
		}
		if cy < 0 {
			cy = rng.Float64()
		}
		centerX := cx * float64(f.Width)
		centerY := cy * float64(f.Height)
		radius := radiusFraction * math.Min(float64(f.Width), float64(f.Height))

		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				d := math.Hypot(float64(x)-centerX, float64(y)-centerY) / radius
				if d >= 1 {
					continue
				}
				bump := height * math.Pow(1-d*d, 2)
				f.Set(x, y, f.At(x, y)+bump)
			}
		}
	}
}

// Pit is the inverse of Hill: it lowers a roughly circular depression.
func Pit(depth, radiusFraction, cx, cy float64) Operator {
	return func(f *Field, rng *rand.Rand) {
		Hill(-depth, radiusFraction, cx, cy)(f, rng)
	}
}

// Range raises a ridge of hills along a random line across the field,
// approximating a mountain range.
func Range(height, radiusFraction float64, segments int) Operator {
	return func(f *Field, rng *rand.Rand) {
		if segments <= 0 {
			segments = 5
		}
		startX, startY := rng.Float64(), rng.Float64()
		endX, endY := rng.Float64(), rng.Float64()
		for i := 0; i < segments; i++ {
			t := float64(i) / float64(segments-1)
			cx := startX + (endX-startX)*t
			cy := startY + (endY-startY)*t
			Hill(height, radiusFraction, cx, cy)(f, rng)
		}
	}
}

// Multiply scales every cell by factor.
func Multiply(factor float64) Operator {
	return func(f *Field, _ *rand.Rand) {
		for i := range f.Data {
			f.Data[i] *= factor
		}
	}
}

// Smooth applies a Gaussian blur via disintegration/gift, treating the
// field as a single-channel image so existing raster filters can be reused
// for elevation relaxation instead of hand-writing a convolution.
func Smooth(sigma float64) Operator {
	return func(f *Field, _ *rand.Rand) {
		img := fieldToGray(f)
		g := gift.New(gift.GaussianBlur(float32(sigma)))
		out := image.NewGray16(g.Bounds(img.Bounds()))
		g.Draw(out, img)
		grayToField(out, f)
	}
}

// Mask restricts a subsequent operator chain's effect to the inside of a
// polygon, rasterizing it into an alpha field with golang.org/x/image/vector
// the same way the teacher's tile renderer rasterized feature polygons.
func Mask(poly orb.Polygon, inner Operator) Operator {
	return func(f *Field, rng *rand.Rand) {
		alpha := rasterizePolygon(poly, f.Width, f.Height)

		before := make([]float64, len(f.Data))
		copy(before, f.Data)

		inner(f, rng)

		for i := range f.Data {
			a := float64(alpha[i]) / 255.0
			f.Data[i] = before[i] + (f.Data[i]-before[i])*a
		}
	}
}

// Apply runs a terrain recipe (an ordered list of operators) over a fresh
// field, seeded from the shared pipeline PRNG stream.
func Apply(width, height int, rng *rand.Rand, ops ...Operator) *Field {
	f := NewField(width, height)
	for _, op := range ops {
		op(f, rng)
	}
	return f
}

// PerlinBase seeds a field with Perlin noise, giving recipes a non-flat
// starting point before hills/ranges/masks are layered on.
func PerlinBase(alpha, beta float64, octaves int32, amplitude float64) Operator {
	return func(f *Field, rng *rand.Rand) {
		p := perlin.NewPerlin(alpha, beta, octaves, rng.Int63())
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				nx := float64(x) / float64(f.Width)
				ny := float64(y) / float64(f.Height)
				f.Set(x, y, amplitude*p.Noise2D(nx*4, ny*4))
			}
		}
	}
}

func rasterizePolygon(poly orb.Polygon, width, height int) []uint8 {
	ras := vector.NewRasterizer(width, height)
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		first := true
		for _, pt := range ring {
			fx, fy := float32(pt[0]), float32(pt[1])
			if first {
				ras.MoveTo(fx, fy)
				first = false
			} else {
				ras.LineTo(fx, fy)
			}
		}
		ras.ClosePath()
	}
	img := image.NewAlpha(image.Rect(0, 0, width, height))
	ras.Draw(img, img.Bounds(), image.NewUniform(color.Alpha{A: 255}), image.Point{})
	return img.Pix
}

func fieldToGray(f *Field) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Width, f.Height))
	minV, maxV := f.Data[0], f.Data[0]
	for _, v := range f.Data {
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			norm := (f.At(x, y) - minV) / span
			img.SetGray16(x, y, color.Gray16{Y: uint16(norm * 65535)})
		}
	}
	f.smoothMin, f.smoothSpan = minV, span
	return img
}

func grayToField(img *image.Gray16, f *Field) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			norm := float64(img.Gray16At(x, y).Y) / 65535.0
			f.Set(x, y, f.smoothMin+norm*f.smoothSpan)
		}
	}
}
