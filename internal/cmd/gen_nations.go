package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genNationsCmd = &cobra.Command{
	Use:   "gen-nations",
	Short: "Seed and expand nations, then normalize borders",
	Long: `gen-nations runs §4.16: one nation per capital town, priority-queue
region expansion under the nation-type cost function, and a second pass
that reassigns ragged-border tiles to a dominant adjacent adversary.`,
	RunE: runGenNations,
}

func init() {
	genNationsCmd.Flags().Float64("expansion-factor", 1.0, "limits how far nations expand; higher leaves fewer neutral tiles")
}

func runGenNations(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	expansionFactor, _ := cmd.Flags().GetFloat64("expansion-factor")

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-nations: open world file: %w", err)
	}
	defer store.Close()

	cfg := config.Default()
	cfg.ExpansionFactor = expansionFactor
	world, err := pipeline.Load(store, cfg)
	if err != nil {
		return fmt.Errorf("gen-nations: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StageNations(obs)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-nations: save: %w", err)
	}
	obs.Finish("gen-nations")
	return nil
}
