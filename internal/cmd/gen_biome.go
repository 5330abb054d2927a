package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genBiomeCmd = &cobra.Command{
	Use:   "gen-biome",
	Short: "Assign biomes and dissolve them into themed multipolygons",
	Long: `gen-biome runs §4.12: the 5x26 temperature/moisture matrix lookup with
the wetland/glacier/ocean special cases, then dissolves tiles sharing a
biome name into multipolygons.`,
	RunE: runGenBiome,
}

func runGenBiome(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-biome: open world file: %w", err)
	}
	defer store.Close()

	world, err := pipeline.Load(store, config.Default())
	if err != nil {
		return fmt.Errorf("gen-biome: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StageBiome(obs)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-biome: save: %w", err)
	}
	obs.Finish("gen-biome")
	return nil
}
