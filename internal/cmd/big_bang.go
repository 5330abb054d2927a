package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/culture"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/polity"
	"github.com/worldatlas/worldgen/internal/progressobs"
	"github.com/worldatlas/worldgen/internal/terrain"
	"github.com/worldatlas/worldgen/internal/worldshape"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var bigBangCmd = &cobra.Command{
	Use:   "big-bang",
	Short: "Run every stage end to end into a fresh world file",
	Long: `big-bang runs the full dependency-ordered pipeline in one invocation:
mesh and terrain, coastline and climate, hydrology and rivers, shore
distance and grouping, biomes, population and cultures, towns, nations,
and subnations, finishing with the dissolve/smooth pass.`,
	RunE: runBigBang,
}

func init() {
	bigBangCmd.Flags().Float64("west", -180, "extent west bound, degrees")
	bigBangCmd.Flags().Float64("south", -90, "extent south bound, degrees")
	bigBangCmd.Flags().Float64("width", 360, "extent width, degrees")
	bigBangCmd.Flags().Float64("height", 180, "extent height, degrees")
	bigBangCmd.Flags().Int("tile-count", 10000, "target number of Voronoi tiles")
	bigBangCmd.Flags().Int64("seed", 0, "random seed (0 picks a fixed deterministic default)")
	bigBangCmd.Flags().String("shape", "cylinder", "world shape: cylinder or sphere")
	bigBangCmd.Flags().Float64("elevation-min", -1000, "minimum synthesized/raster elevation")
	bigBangCmd.Flags().Float64("elevation-max", 3000, "maximum synthesized/raster elevation")
	bigBangCmd.Flags().Int("culture-count", 12, "number of cultures to seed")
	bigBangCmd.Flags().Float64("min-spacing", 4.0, "minimum spacing between culture seed tiles, degrees")
	bigBangCmd.Flags().Float64("expansion-factor", 1.0, "limits how far cultures and nations expand; higher leaves fewer neutral tiles")
	bigBangCmd.Flags().Int("capital-count", 12, "number of capitals (also the nation count)")
	bigBangCmd.Flags().Int("town-count", 100, "number of non-capital towns")
	bigBangCmd.Flags().Float64("subnation-percentage", 25.0, "percentage of a nation's towns chosen as subnation seats")
}

func runBigBang(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	west, _ := cmd.Flags().GetFloat64("west")
	south, _ := cmd.Flags().GetFloat64("south")
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	tileCount, _ := cmd.Flags().GetInt("tile-count")
	seed, _ := cmd.Flags().GetInt64("seed")
	shapeStr, _ := cmd.Flags().GetString("shape")
	elevMin, _ := cmd.Flags().GetFloat64("elevation-min")
	elevMax, _ := cmd.Flags().GetFloat64("elevation-max")
	cultureCount, _ := cmd.Flags().GetInt("culture-count")
	minSpacing, _ := cmd.Flags().GetFloat64("min-spacing")
	expansionFactor, _ := cmd.Flags().GetFloat64("expansion-factor")
	capitalCount, _ := cmd.Flags().GetInt("capital-count")
	townCount, _ := cmd.Flags().GetInt("town-count")
	subnationPercentage, _ := cmd.Flags().GetFloat64("subnation-percentage")

	var shapeKind worldshape.Kind
	switch shapeStr {
	case "sphere":
		shapeKind = worldshape.Sphere
	case "cylinder", "":
		shapeKind = worldshape.Cylinder
	default:
		return fmt.Errorf("big-bang: unknown world shape %q (want cylinder or sphere)", shapeStr)
	}
	if seed == 0 {
		defaultSeed := uint64(9543572450198918714)
		seed = int64(defaultSeed)
	}

	extent := geomcore.NewExtentFromBounds(west, south, west+width, south+height)
	scaler := terrain.Scaler{MinElevation: elevMin, MaxElevation: elevMax}

	logger.Info("running full pipeline", "extent", extent, "shape", shapeKind, "tile_count", tileCount, "seed", seed)

	cfg := config.Default()
	cfg.ExpansionFactor = expansionFactor
	world, err := pipeline.NewWorld(cfg, shapeKind, extent, tileCount, seed, scaler)
	if err != nil {
		return fmt.Errorf("big-bang: %w", err)
	}

	obs := progressobs.NewConsole(progressEnabled())

	world.StageCoastline(obs)
	world.StageClimate(obs)
	world.StageHydrology(obs)
	world.StageRivers(obs)
	world.StageShoreDistance(obs)
	world.StageGrouping(obs)
	world.StageBiome(obs)
	world.StagePopulation(obs)

	habitability, err := culture.ParseExpression([]byte(`{"kind":"Habitability"}`))
	if err != nil {
		return fmt.Errorf("big-bang: default preference: %w", err)
	}
	templates := []pipeline.CultureTemplate{
		{Name: "Generic", Type: polity.Generic, Preference: habitability, Expansionism: 1.0},
		{Name: "Naval", Type: polity.Naval, Preference: habitability, Expansionism: 1.0},
		{Name: "River", Type: polity.River, Preference: habitability, Expansionism: 1.0},
		{Name: "Highland", Type: polity.Highland, Preference: habitability, Expansionism: 1.0},
	}
	world.StageCultures(obs, templates, cultureCount, minSpacing)
	world.StageTowns(obs, capitalCount, townCount)
	world.StageNations(obs)
	world.StageSubnations(obs, subnationPercentage)
	world.StageDissolve(obs)

	store, err := worldstore.Create(worldPath())
	if err != nil {
		return fmt.Errorf("big-bang: open world file: %w", err)
	}
	defer store.Close()

	if err := world.Save(store); err != nil {
		return fmt.Errorf("big-bang: save: %w", err)
	}

	obs.Finish("big-bang")
	logger.Info("world generated", "tiles", len(world.Tiles), "towns", len(world.Towns), "nations", len(world.Nations), "run_id", world.RunID, "path", worldPath())
	return nil
}
