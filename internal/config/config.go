// Package config centralizes the tunable constants the spec calls out as
// implied-but-undocumented: thresholds for wetland/glacier biomes, lake
// typing, and population multipliers. Keeping them here (rather than
// inline in the stages that use them) puts every default in one place; the
// CLI commands start from Default() and override only ExpansionFactor, from
// a flag.
package config

// Climate holds the temperature/wind/precipitation tunables for §4.6,
// grounded on original_source/src/commands/gen_climate.rs's CLI defaults.
type Climate struct {
	PolarTempC     float64
	EquatorTempC   float64
	ElevationLapse float64 // degrees C lost per scaled-elevation point above sea level

	// WindBands holds six wind bearings in degrees, one per latitude band,
	// in the order gen_climate.rs declares them: north-polar (>60N),
	// north-middle (30N-60N), north-tropical (0-30N), south-tropical
	// (0-30S), south-middle (30S-60S), south-polar (>60S).
	WindBands [6]float64

	// MoistureFactor is the initial moisture budget (0-500 scale) carried
	// by every ocean tile into the precipitation transport pass.
	MoistureFactor float64
}

func DefaultClimate() Climate {
	return Climate{
		PolarTempC:     -15,
		EquatorTempC:   25,
		ElevationLapse: 0.1,
		WindBands:      [6]float64{225, 45, 225, 315, 135, 315},
		MoistureFactor: 100,
	}
}

// Biome holds the thresholds §9 flags as possibly needing to become
// configuration, grounded on original_source/src/algorithms/biomes.rs.
type Biome struct {
	GlacierTempC          float64
	WetlandMinTempC        float64
	WetlandLowElevFlow     float64
	WetlandLowElevMax      int
	WetlandMidElevFlow     float64
	WetlandMidElevMin      int
	WetlandMidElevMax      int
}

func DefaultBiome() Biome {
	return Biome{
		GlacierTempC:      -5.0,
		WetlandMinTempC:    -2.0,
		WetlandLowElevFlow: 40.0,
		WetlandLowElevMax:  25,
		WetlandMidElevFlow: 24.0,
		WetlandMidElevMin:  24,
		WetlandMidElevMax:  60,
	}
}

// Lake holds the lake-typing thresholds §9 flags as implied-but-undocumented
// in the source.
type Lake struct {
	FrozenMeanTempC float64
	MarshFlowMax    float64
	DryFlowRatio    float64 // inflow/evaporation below this => Pluvial, or Dry with no inflow
}

func DefaultLake() Lake {
	return Lake{
		FrozenMeanTempC: 0.0,
		MarshFlowMax:    2.0,
		DryFlowRatio:    1.0,
	}
}

// Population holds the tunable multipliers from §4.13/§9.
type Population struct {
	EstuaryFlowThreshold float64
	FlowBonusScale       float64
	ElevationBaseline    int
	ElevationPenaltyDiv  float64
}

func DefaultPopulation() Population {
	return Population{
		EstuaryFlowThreshold: 10.0,
		FlowBonusScale:       250.0,
		ElevationBaseline:    50,
		ElevationPenaltyDiv:  5.0,
	}
}

// Settlement holds town/capital population multipliers, literal in the
// source and flagged in §9 as tunable defaults.
type Settlement struct {
	CapitalPopulationMultiplier float64
	PortPopulationMultiplier    float64
}

func DefaultSettlement() Settlement {
	return Settlement{
		CapitalPopulationMultiplier: 1.3,
		PortPopulationMultiplier:    1.3,
	}
}

// Pipeline aggregates every stage's tunables plus the run-wide parameters
// (tile count, seed, extent, shape) a `create`/`big-bang` invocation needs.
type Pipeline struct {
	Climate    Climate
	Biome      Biome
	Lake       Lake
	Population Population
	Settlement Settlement

	BezierScale     float64
	LakeBufferScale float64

	// ExpansionFactor limits how far cultures and nations expand: the
	// priority-queue region growth in §4.14/§4.16 caps total claim cost at
	// (tile count / 2) * ExpansionFactor. Usually 0.1-2.0; higher leaves
	// fewer neutral tiles.
	ExpansionFactor float64
}

func Default() Pipeline {
	return Pipeline{
		Climate:         DefaultClimate(),
		Biome:           DefaultBiome(),
		Lake:            DefaultLake(),
		Population:      DefaultPopulation(),
		Settlement:      DefaultSettlement(),
		BezierScale:     100,
		LakeBufferScale: 2,
		ExpansionFactor: 1,
	}
}
