package geomcore

import "errors"

// Sentinel errors shared across the geometry core. Stage packages wrap these
// with context via fmt.Errorf("...: %w", ...) rather than defining parallel
// error types.
var (
	ErrNaNCoordinate    = errors.New("geomcore: coordinate component is NaN")
	ErrInvalidTileEdge   = errors.New("geomcore: conflicting edge tags cannot combine")
	ErrPointFinderBounds = errors.New("geomcore: point lies outside spatial index bounds")
)
