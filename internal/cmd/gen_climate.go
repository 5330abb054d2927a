package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genClimateCmd = &cobra.Command{
	Use:   "gen-climate",
	Short: "Mark oceans and assign temperature/precipitation",
	Long: `gen-climate runs the coastline (ocean/land classification) and climate
stages: latitude-based temperature with an elevation lapse, and the
wind-driven moisture transport pass, §4.6 of the generation pipeline.`,
	RunE: runGenClimate,
}

func runGenClimate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-climate: open world file: %w", err)
	}
	defer store.Close()

	world, err := pipeline.Load(store, config.Default())
	if err != nil {
		return fmt.Errorf("gen-climate: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StageCoastline(obs)
	world.StageClimate(obs)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-climate: save: %w", err)
	}
	obs.Finish("gen-climate")
	return nil
}
