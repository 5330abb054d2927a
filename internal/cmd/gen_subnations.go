package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genSubnationsCmd = &cobra.Command{
	Use:   "gen-subnations",
	Short: "Subdivide nations into subnations and dissolve themed layers",
	Long: `gen-subnations runs §4.17-4.18: seat-town selection and flood-fill
subdivision within each nation, filling any leftover tiles with unnamed
subnations, then dissolves and smooths the remaining themed outlines
(culture, nation, subnation) sharing the coastline's boundary-smoothing
cache.`,
	RunE: runGenSubnations,
}

func init() {
	genSubnationsCmd.Flags().Float64("subnation-percentage", 25.0, "percentage of a nation's towns chosen as subnation seats")
}

func runGenSubnations(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	percentage, _ := cmd.Flags().GetFloat64("subnation-percentage")

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-subnations: open world file: %w", err)
	}
	defer store.Close()

	world, err := pipeline.Load(store, config.Default())
	if err != nil {
		return fmt.Errorf("gen-subnations: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StageSubnations(obs, percentage)
	world.StageDissolve(obs)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-subnations: save: %w", err)
	}
	obs.Finish("gen-subnations")
	return nil
}
