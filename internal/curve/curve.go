// Package curve is the boundary between the core pipeline and the
// adaptive-Bezier smoothing collaborator the spec places out of scope
// (§1: "treated as a pure function: polyline -> polyline"). It defines the
// contract every dissolve/river caller programs against, plus a small
// default implementation so the module runs standalone without a real
// curve-fitting dependency wired in.
package curve

import "github.com/paulmach/orb"

// Smoother turns a polyline into a smoother polyline at a given scale (the
// `bezier_scale` CLI parameter from original_source/src/commands/gen_water.rs:
// higher is smoother). Implementations are pure functions of their input.
type Smoother interface {
	Smooth(points []orb.Point, scale float64) []orb.Point
}

// PassThrough is the identity Smoother: useful where the real collaborator
// isn't wired in (tests, or a pipeline run with smoothing disabled).
type PassThrough struct{}

func (PassThrough) Smooth(points []orb.Point, _ float64) []orb.Point { return points }

// ChaikinSmoother is a minimal stand-in for the real adaptive-Bezier
// collaborator: repeated Chaikin corner-cutting, which converges toward a
// quadratic B-spline and gives the dissolve/river output a curved look
// without requiring the dedicated adaptive-bezier-curve dependency the
// original source pulls in. `scale` selects the number of cutting passes
// (higher scale, more passes, up to a cap) the same way the original
// collaborator's scale parameter increases sample density.
type ChaikinSmoother struct{}

func (ChaikinSmoother) Smooth(points []orb.Point, scale float64) []orb.Point {
	if len(points) < 3 {
		return points
	}
	passes := int(scale / 40)
	if passes < 1 {
		passes = 1
	}
	if passes > 4 {
		passes = 4
	}
	closed := points[0] == points[len(points)-1]
	cur := points
	for p := 0; p < passes; p++ {
		cur = chaikinPass(cur, closed)
	}
	return cur
}

func chaikinPass(points []orb.Point, closed bool) []orb.Point {
	n := len(points)
	if n < 3 {
		return points
	}
	out := make([]orb.Point, 0, 2*n)
	last := n - 1
	if !closed {
		out = append(out, points[0])
		last = n - 2
	}
	for i := 0; i <= last; i++ {
		a := points[i]
		b := points[(i+1)%n]
		q := orb.Point{0.75*a[0] + 0.25*b[0], 0.75*a[1] + 0.25*b[1]}
		r := orb.Point{0.25*a[0] + 0.75*b[0], 0.25*a[1] + 0.75*b[1]}
		out = append(out, q, r)
	}
	if !closed {
		out = append(out, points[n-1])
	}
	return out
}

// PhantomPoint synthesizes a control point beyond `near`, on the side away
// from `far`, to impart curvature at a polyline end that has no real
// neighbor to extend towards (reflection of far across near).
func PhantomPoint(near, far orb.Point) orb.Point {
	return orb.Point{2*near[0] - far[0], 2*near[1] - far[1]}
}
