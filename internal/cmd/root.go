package cmd

import (
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "worldgen",
	Short: "A procedural fantasy-world map generator",
	Long: `worldgen builds a fantasy-world map in stages: a Voronoi tile mesh,
elevation, climate, hydrology, coastlines, biomes, cultures, and the
nations and towns that settle them. Each stage reads and writes a single
SQLite-backed world file, so a run can be resumed stage by stage or driven
end to end with "big-bang".`,
}

func Execute() {
	if logger == nil {
		initLogging() // fallback in case cobra init didn't fire
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("world", "./world.db", "path to the world file (SQLite-backed container)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose progress output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	for _, name := range []string{"world", "verbose", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(genClimateCmd)
	rootCmd.AddCommand(genWaterCmd)
	rootCmd.AddCommand(genBiomeCmd)
	rootCmd.AddCommand(genPeopleCmd)
	rootCmd.AddCommand(genTownsCmd)
	rootCmd.AddCommand(genNationsCmd)
	rootCmd.AddCommand(genSubnationsCmd)
	rootCmd.AddCommand(bigBangCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("WORLDGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func initLogging() {
	levelStr := strings.ToLower(viper.GetString("log-level"))
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error", "err":
		level = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Unknown log level %q, defaulting to info\n", levelStr)
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func worldPath() string { return viper.GetString("world") }

func progressEnabled() bool { return viper.GetBool("verbose") }
