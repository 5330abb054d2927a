// Preference expressions implement the culture-set tile-preference
// contract from §6: a small recursive language of leaves and combinators,
// grounded on original_source/src/algorithms/culture_sets.rs. A culture
// template embeds one of these to score candidate seed tiles.
package culture

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/worldatlas/worldgen/internal/tilegraph"
)

// Context carries the run-wide aggregates a preference leaf may need.
type Context struct {
	MaxHabitability float64
}

// Expression is a node in the preference tree. Evaluate returns the
// tile's score under this expression; higher is more preferred.
type Expression interface {
	Evaluate(t *tilegraph.Tile, ctx Context) float64
}

type leafHabitability struct{}

func (leafHabitability) Evaluate(t *tilegraph.Tile, _ Context) float64 { return t.Habitability }

type leafShoreDistance struct{}

func (leafShoreDistance) Evaluate(t *tilegraph.Tile, _ Context) float64 {
	return float64(t.ShoreDistance)
}

type leafElevation struct{}

func (leafElevation) Evaluate(t *tilegraph.Tile, _ Context) float64 { return float64(t.ElevationScaled) }

type leafNormalizedHabitability struct{}

func (leafNormalizedHabitability) Evaluate(t *tilegraph.Tile, ctx Context) float64 {
	if ctx.MaxHabitability <= 0 {
		return 0
	}
	return t.Habitability / ctx.MaxHabitability
}

// leafTemperature scores how close a tile's temperature is to Goal: 1 at
// the goal, falling off linearly, floored at 0.
type leafTemperature struct{ Goal float64 }

func (l leafTemperature) Evaluate(t *tilegraph.Tile, _ Context) float64 {
	diff := math.Abs(t.Temperature - l.Goal)
	v := 1 - diff/30.0
	if v < 0 {
		return 0
	}
	return v
}

// leafBiomes scores 1 when the tile's biome is in List, else -Fee.
type leafBiomes struct {
	List []string
	Fee  float64
}

func (l leafBiomes) Evaluate(t *tilegraph.Tile, _ Context) float64 {
	for _, b := range l.List {
		if b == t.Biome {
			return 1
		}
	}
	return -l.Fee
}

// leafOceanCoast scores 1 for a shore tile (shore distance 1) with a water
// neighbor, ocean or lake, else -Fee.
type leafOceanCoast struct{ Fee float64 }

func (l leafOceanCoast) Evaluate(t *tilegraph.Tile, _ Context) float64 {
	if t.ShoreDistance == 1 && t.ClosestWater != nil {
		return 1
	}
	return -l.Fee
}

type combNegate struct{ X Expression }

func (c combNegate) Evaluate(t *tilegraph.Tile, ctx Context) float64 { return -c.X.Evaluate(t, ctx) }

type combMultiply struct{ Args []Expression }

func (c combMultiply) Evaluate(t *tilegraph.Tile, ctx Context) float64 {
	v := 1.0
	for _, a := range c.Args {
		v *= a.Evaluate(t, ctx)
	}
	return v
}

type combDivide struct{ A, B Expression }

func (c combDivide) Evaluate(t *tilegraph.Tile, ctx Context) float64 {
	denom := c.B.Evaluate(t, ctx)
	if denom == 0 {
		return 0
	}
	return c.A.Evaluate(t, ctx) / denom
}

type combAdd struct{ Args []Expression }

func (c combAdd) Evaluate(t *tilegraph.Tile, ctx Context) float64 {
	v := 0.0
	for _, a := range c.Args {
		v += a.Evaluate(t, ctx)
	}
	return v
}

type combPow struct {
	Base Expression
	Exp  float64
}

func (c combPow) Evaluate(t *tilegraph.Tile, ctx Context) float64 {
	return math.Pow(c.Base.Evaluate(t, ctx), c.Exp)
}

// rawExpression is the JSON shape of one node, matching the culture-set
// file contract: {"kind": "...", ...kind-specific fields}.
type rawExpression struct {
	Kind string `json:"kind"`

	Goal float64  `json:"goal,omitempty"`
	List []string `json:"list,omitempty"`
	Fee  float64  `json:"fee,omitempty"`
	Exp  float64  `json:"exp,omitempty"`

	X    json.RawMessage   `json:"x,omitempty"`
	A    json.RawMessage   `json:"a,omitempty"`
	B    json.RawMessage   `json:"b,omitempty"`
	Args []json.RawMessage `json:"args,omitempty"`
}

// ParseExpression decodes one JSON culture-set preference node into an
// Expression tree, per the leaf/combinator list in §6.
func ParseExpression(data []byte) (Expression, error) {
	var raw rawExpression
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("culture: parse preference expression: %w", err)
	}
	switch raw.Kind {
	case "Habitability":
		return leafHabitability{}, nil
	case "ShoreDistance":
		return leafShoreDistance{}, nil
	case "Elevation":
		return leafElevation{}, nil
	case "NormalizedHabitability":
		return leafNormalizedHabitability{}, nil
	case "Temperature":
		return leafTemperature{Goal: raw.Goal}, nil
	case "Biomes":
		return leafBiomes{List: raw.List, Fee: raw.Fee}, nil
	case "OceanCoast":
		return leafOceanCoast{Fee: raw.Fee}, nil
	case "Negate":
		x, err := ParseExpression(raw.X)
		if err != nil {
			return nil, err
		}
		return combNegate{X: x}, nil
	case "Multiply", "Add":
		args := make([]Expression, len(raw.Args))
		for i, a := range raw.Args {
			parsed, err := ParseExpression(a)
			if err != nil {
				return nil, err
			}
			args[i] = parsed
		}
		if raw.Kind == "Multiply" {
			return combMultiply{Args: args}, nil
		}
		return combAdd{Args: args}, nil
	case "Divide":
		a, err := ParseExpression(raw.A)
		if err != nil {
			return nil, err
		}
		b, err := ParseExpression(raw.B)
		if err != nil {
			return nil, err
		}
		return combDivide{A: a, B: b}, nil
	case "Pow":
		x, err := ParseExpression(raw.X)
		if err != nil {
			return nil, err
		}
		return combPow{Base: x, Exp: raw.Exp}, nil
	default:
		return nil, fmt.Errorf("culture: unknown preference expression kind %q", raw.Kind)
	}
}
