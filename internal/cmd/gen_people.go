package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/culture"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var genPeopleCmd = &cobra.Command{
	Use:   "gen-people",
	Short: "Score habitability and population, then seed and expand cultures",
	Long: `gen-people runs §4.13-4.14: per-tile habitability and population, then
culture seed placement by habitability with minimum spacing, followed by
priority-queue region expansion under the multi-factor cost function.
Culture-set loading from JSON is an external collaborator (out of scope);
this command uses four default culture templates (Generic, Naval, River,
Highland), each preferring habitable tiles, assigned to the requested
culture slots in turn.`,
	RunE: runGenPeople,
}

func init() {
	genPeopleCmd.Flags().Int("culture-count", 12, "number of cultures to seed")
	genPeopleCmd.Flags().Float64("min-spacing", 4.0, "minimum spacing between culture seed tiles, degrees")
	genPeopleCmd.Flags().Float64("expansion-factor", 1.0, "limits how far cultures expand; higher leaves fewer neutral tiles")
}

func runGenPeople(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cultureCount, _ := cmd.Flags().GetInt("culture-count")
	minSpacing, _ := cmd.Flags().GetFloat64("min-spacing")
	expansionFactor, _ := cmd.Flags().GetFloat64("expansion-factor")

	store, err := worldstore.Open(worldPath())
	if err != nil {
		return fmt.Errorf("gen-people: open world file: %w", err)
	}
	defer store.Close()

	cfg := config.Default()
	cfg.ExpansionFactor = expansionFactor
	world, err := pipeline.Load(store, cfg)
	if err != nil {
		return fmt.Errorf("gen-people: load world: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())
	world.StagePopulation(obs)

	habitability, err := culture.ParseExpression([]byte(`{"kind":"Habitability"}`))
	if err != nil {
		return fmt.Errorf("gen-people: default preference: %w", err)
	}
	templates := []pipeline.CultureTemplate{
		{Name: "Generic", Type: polity.Generic, Preference: habitability, Expansionism: 1.0},
		{Name: "Naval", Type: polity.Naval, Preference: habitability, Expansionism: 1.0},
		{Name: "River", Type: polity.River, Preference: habitability, Expansionism: 1.0},
		{Name: "Highland", Type: polity.Highland, Preference: habitability, Expansionism: 1.0},
	}
	world.StageCultures(obs, templates, cultureCount, minSpacing)

	if err := world.Save(store); err != nil {
		return fmt.Errorf("gen-people: save: %w", err)
	}
	obs.Finish("gen-people")
	return nil
}
