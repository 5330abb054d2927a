// Package polity holds the Type enum and cost-table shared by cultures,
// nations, and subnations (§4.14/§4.16's expansion algorithm is the same
// shape for both, differing only in the per-type constants).
package polity

// Type classifies how a culture/nation/subnation expands and is
// preference-weighted, per the §3 data model.
type Type string

const (
	Generic  Type = "Generic"
	Lake     Type = "Lake"
	Naval    Type = "Naval"
	Nomadic  Type = "Nomadic"
	Hunting  Type = "Hunting"
	River    Type = "River"
	Highland Type = "Highland"
)

// CostFactors holds the per-type constants the expansion cost function in
// §4.14/§4.16 reads. Values here are original defaults in the spirit of
// the source's per-type penalty table (§9 design notes flag the exact
// table as living in data, not code); callers pass DefaultCostFactors().
type CostFactors struct {
	ForestPenalty    float64 // Nomadic: extra cost crossing forest biomes
	OffBiomePenalty  float64 // Hunting: extra cost outside the seed's native biome
	WaterPenalty     float64 // non-Naval/Lake: extra cost crossing water
	MountainPenalty  float64 // non-Highland: extra cost over scaled elevation > 67
	HillPenalty      float64 // extra cost over scaled elevation > 44
	RiverAttraction  float64 // River: bonus (negative cost) for flow above threshold
	ShorePenalty     float64 // Naval/Lake: cost per unit distance from the coast
}

// DefaultCostFactors returns the baseline table; expand.go's expansionCost
// applies each factor according to the claimant's polity type.
func DefaultCostFactors() CostFactors {
	return CostFactors{
		ForestPenalty:   3,
		OffBiomePenalty: 2,
		WaterPenalty:    10,
		MountainPenalty: 6,
		HillPenalty:     2,
		RiverAttraction: 1.5,
		ShorePenalty:    0.5,
	}
}
