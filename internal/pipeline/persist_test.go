package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

func TestSaveLoadRoundTripsFullPipelineState(t *testing.T) {
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

	path := filepath.Join(t.TempDir(), "world.sqlite")
	store, err := worldstore.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Save(store))
	require.NoError(t, store.Close())

	reopened, err := worldstore.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := Load(reopened, config.Default())
	require.NoError(t, err)

	require.Equal(t, w.Seed, loaded.Seed)
	require.Equal(t, w.RunID, loaded.RunID)
	require.Len(t, loaded.Tiles, len(w.Tiles))
	require.Len(t, loaded.Lakes, len(w.Lakes))
	require.Len(t, loaded.Rivers, len(w.Rivers))
	require.Len(t, loaded.Cultures, len(w.Cultures))
	require.Len(t, loaded.Towns, len(w.Towns))
	require.Len(t, loaded.Nations, len(w.Nations))
	require.Len(t, loaded.Subnations, len(w.Subnations))
	require.Contains(t, loaded.Themes, "biomes")

	for i, n := range w.Nations {
		require.Equal(t, n.Name, loaded.Nations[i].Name)
		require.Equal(t, n.CapitalTileID, loaded.Nations[i].CapitalTileID)
	}
	for i, town := range w.Towns {
		require.Equal(t, town.TileID, loaded.Towns[i].TileID)
		require.Equal(t, town.IsCapital, loaded.Towns[i].IsCapital)
	}
}

func TestLoadFailsWithoutPriorCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sqlite")
	store, err := worldstore.Create(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = Load(store, config.Default())
	require.Error(t, err)
}
