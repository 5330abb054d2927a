package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldatlas/worldgen/internal/config"
	"github.com/worldatlas/worldgen/internal/geomcore"
	"github.com/worldatlas/worldgen/internal/pipeline"
	"github.com/worldatlas/worldgen/internal/terrain"
	"github.com/worldatlas/worldgen/internal/worldshape"
	"github.com/worldatlas/worldgen/internal/worldstore"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new world file and run the mesh/terrain stages",
	Long: `create builds the Voronoi tile mesh over the given extent, computes
neighbor adjacency, and samples elevation, writing the "properties" and
"tiles" layers into a fresh world file. It is stage 1 of the pipeline;
later stages (gen-climate, gen-water, ...) resume from the file it writes.`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().Float64("west", -180, "extent west bound, degrees")
	createCmd.Flags().Float64("south", -90, "extent south bound, degrees")
	createCmd.Flags().Float64("width", 360, "extent width, degrees")
	createCmd.Flags().Float64("height", 180, "extent height, degrees")
	createCmd.Flags().Int("tile-count", 10000, "target number of Voronoi tiles")
	createCmd.Flags().Int64("seed", 0, "random seed (0 picks a fixed deterministic default)")
	createCmd.Flags().String("shape", "cylinder", "world shape: cylinder or sphere")
	createCmd.Flags().Float64("elevation-min", -1000, "minimum synthesized/raster elevation")
	createCmd.Flags().Float64("elevation-max", 3000, "maximum synthesized/raster elevation")
}

func runCreate(cmd *cobra.Command, args []string) error {
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

	var shapeKind worldshape.Kind
	switch shapeStr {
	case "sphere":
		shapeKind = worldshape.Sphere
	case "cylinder", "":
		shapeKind = worldshape.Cylinder
	default:
		return fmt.Errorf("create: unknown world shape %q (want cylinder or sphere)", shapeStr)
	}
	if seed == 0 {
		defaultSeed := uint64(9543572450198918714)
		seed = int64(defaultSeed)
	}

	extent := geomcore.NewExtentFromBounds(west, south, west+width, south+height)
	scaler := terrain.Scaler{MinElevation: elevMin, MaxElevation: elevMax}

	logger.Info("creating world", "extent", extent, "shape", shapeKind, "tile_count", tileCount, "seed", seed)

	world, err := pipeline.NewWorld(config.Default(), shapeKind, extent, tileCount, seed, scaler)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	store, err := worldstore.Create(worldPath())
	if err != nil {
		return fmt.Errorf("create: open world file: %w", err)
	}
	defer store.Close()

	if err := world.Save(store); err != nil {
		return fmt.Errorf("create: save: %w", err)
	}

	logger.Info("world created", "tiles", len(world.Tiles), "run_id", world.RunID, "path", worldPath())
	return nil
}
