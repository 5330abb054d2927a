package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genWaterCmd = &cobra.Command{
	Use:   "gen-water",
	Short: "Route water flow, fill lakes, trace rivers, and group tiles",
	Long: `gen-water runs §4.7-4.11: downhill water-flow routing and accumulation,
closed-basin lake fill, river segment enumeration and topology
classification, shore-distance BFS, and connected-component grouping. It
expects gen-climate to have already classified oceans and assigned
precipitation.`,
	RunE: runGenWater,
}

func runGenWater(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-water: open world file: %w", err)
	}
	defer store.Close()

	world, err := pipeline.Load(store, config.Default())
	if err != nil {
		return fmt.Errorf("gen-water: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StageHydrology(obs)
	world.StageRivers(obs)
	world.StageShoreDistance(obs)
	world.StageGrouping(obs)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-water: save: %w", err)
	}
	obs.Finish("gen-water")
	return nil
}
