package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genTownsCmd = &cobra.Command{
	Use:   "gen-towns",
	Short: "Place capitals and towns",
	Long: `gen-towns runs §4.15: capital placement under a spacing constraint,
town scoring and placement, port detection, and population assignment.`,
	RunE: runGenTowns,
}

func init() {
	genTownsCmd.Flags().Int("capital-count", 12, "number of capitals (also the nation count)")
	genTownsCmd.Flags().Int("town-count", 100, "number of non-capital towns")
}

func runGenTowns(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	capitalCount, _ := cmd.Flags().GetInt("capital-count")
	townCount, _ := cmd.Flags().GetInt("town-count")

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-towns: open world file: %w", err)
	}
	defer store.Close()

	world, err := pipeline.Load(store, config.Default())
	if err != nil {
		return fmt.Errorf("gen-towns: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StageTowns(obs, capitalCount, townCount)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-towns: save: %w", err)
	}
	obs.Finish("gen-towns")
	return nil
}
