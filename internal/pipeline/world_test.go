package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/terrain"
	"github.com/worldatlas/worldgen/internal/worldshape"
)

func smallWorld(t *testing.T) *World {
	t.Helper()
	extent := geomcore.NewExtentFromBounds(0, 0, 40, 40)
	scaler := terrain.Scaler{MinElevation: -100, MaxElevation: 100}
	w, err := NewWorld(config.Default(), worldshape.Cylinder, extent, 60, 42, scaler)
	require.NoError(t, err)
	require.NotEmpty(t, w.Tiles)
	return w
}

func TestPipelineRunsCoreStagesInDependencyOrder(t *testing.T) {
	w := smallWorld(t)
	obs := progressobs.NewConsole(false)

	w.StageCoastline(obs)
	w.StageClimate(obs)
	w.StageHydrology(obs)
	w.StageRivers(obs)
	w.StageShoreDistance(obs)
	w.StageGrouping(obs)
	w.StageBiome(obs)
	w.StagePopulation(obs)

	for _, tile := range w.Tiles {
		require.NotEmpty(t, tile.Biome)
		require.NotEmpty(t, string(tile.Grouping))
	}
}

func TestPipelineRunsSettlementStagesAfterPopulation(t *testing.T) {
	w := smallWorld(t)
	obs := progressobs.NewConsole(false)

	w.StageCoastline(obs)
	w.StageClimate(obs)
	w.StageHydrology(obs)
	w.StageRivers(obs)
	w.StageShoreDistance(obs)
	w.StageGrouping(obs)
	w.StageBiome(obs)
	w.StagePopulation(obs)

	templates := []CultureTemplate{{Name: "Riverfolk", Expansionism: 1.0}}
	w.StageCultures(obs, templates, 3, 2)
	w.StageTowns(obs, 3, 10)
	w.StageNations(obs)
	w.StageSubnations(obs, 50)
	w.StageDissolve(obs)

	require.NotEmpty(t, w.Towns)
	require.NotEmpty(t, w.Nations)
	require.Contains(t, w.Themes, "coastlines")
	require.Contains(t, w.Themes, "biomes")
}
