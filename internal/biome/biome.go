// Package biome assigns a biome name per tile and dissolves same-biome
// tiles into multipolygons, §4.12, grounded on
// original_source/src/algorithms/biomes.rs for the wetland/glacier
// thresholds and the matrix shape.
package biome

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/dissolve"
	"github.com/worldatlas/worldgen/internal/hydrology"
	"github.com/worldatlas/worldgen/internal/tilegraph"
)

const (
	Ocean   = "Ocean"
	Glacier = "Glacier"
	Wetland = "Wetland"
)

// Matrix is the 5 (moisture-band) x 26 (temperature-band) biome-name
// lookup. Row 0 is the driest band, column 0 the warmest.
type Matrix [5][26]string

// DefaultMatrix is a condensed moisture/temperature biome table (desert,
// savanna, temperate forest and rainforest from arid to wet, then taiga and
// tundra in the coldest columns), banded the way the source's
// raster_sampling.rs and biomes.rs describe (5 moisture bands x 26
// temperature bands).
func DefaultMatrix() Matrix {
	names := []string{
		"HotDesert", "ColdDesert", "Savanna", "Grassland", "TemperateForest",
		"TemperateRainforest", "Taiga", "Tundra",
	}
	var m Matrix
	for moisture := 0; moisture < 5; moisture++ {
		for temp := 0; temp < 26; temp++ {
			switch {
			case temp >= 22:
				m[moisture][temp] = "Tundra"
			case temp >= 18:
				m[moisture][temp] = "Taiga"
			case moisture <= 1:
				m[moisture][temp] = names[0+moisture%2]
			case moisture == 2:
				m[moisture][temp] = "Savanna"
			case moisture == 3:
				m[moisture][temp] = "TemperateForest"
			default:
				m[moisture][temp] = "TemperateRainforest"
			}
		}
	}
	return m
}

func moistureBand(waterFlow float64) int {
	b := int(math.Floor(waterFlow / 5.0))
	if b > 4 {
		b = 4
	}
	if b < 0 {
		b = 0
	}
	return b
}

func temperatureBand(temp float64) int {
	b := int(math.Floor(20.0 - temp))
	if b > 25 {
		b = 25
	}
	if b < 0 {
		b = 0
	}
	return b
}

func isWetland(cfg config.Biome, t *tilegraph.Tile) bool {
	if t.Temperature <= cfg.WetlandMinTempC {
		return false
	}
	low := t.WaterFlow > cfg.WetlandLowElevFlow && t.ElevationScaled < cfg.WetlandLowElevMax
	mid := t.WaterFlow > cfg.WetlandMidElevFlow &&
		t.ElevationScaled > cfg.WetlandMidElevMin && t.ElevationScaled < cfg.WetlandMidElevMax
	return low || mid
}

// Assign sets Biome on every tile. lakesByID maps a lake's id to its Lake
// record so a tile within a Marsh lake can be forced to Wetland.
func Assign(cfg config.Biome, matrix Matrix, tiles []*tilegraph.Tile, lakesByID map[int]*hydrology.Lake) {
	for _, t := range tiles {
		switch {
		case t.Grouping == tilegraph.GroupingOcean:
			t.Biome = Ocean
		case t.Temperature <= cfg.GlacierTempC:
			t.Biome = Glacier
		case isWetland(cfg, t):
			t.Biome = Wetland
		case t.LakeID != nil && lakesByID[*t.LakeID] != nil && lakesByID[*t.LakeID].Type == hydrology.LakeMarsh:
			t.Biome = Wetland
		default:
			t.Biome = matrix[moistureBand(t.WaterFlow)][temperatureBand(t.Temperature)]
		}
	}
}

// Dissolve groups tiles sharing a biome name into multipolygons.
func Dissolve(tiles []*tilegraph.Tile) map[string]orb.MultiPolygon {
	members := map[string][]orb.Polygon{}
	for _, t := range tiles {
		if len(t.Polygon) == 0 || t.Biome == "" {
			continue
		}
		members[t.Biome] = append(members[t.Biome], t.Polygon)
	}
	return dissolve.Dissolve(members)
}
