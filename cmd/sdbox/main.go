// Package main provides the sdbox player entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/filter"
	"github.com/osa030/sdbox/internal/infra/config"
	"github.com/osa030/sdbox/internal/infra/logger"
)

var (
	app        = kingpin.New("sdbox", "Three-button SD card music player")
	configPath = app.Flag("config", "Path to config file (built-in defaults when empty)").Envar("SDBOX_CONFIG").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	listCmd        = app.Command("list", "List the playlist found on storage and exit")
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")

	simulateCmd  = app.Command("simulate", "Replay a button scenario on a virtual clock without audio output")
	scenarioPath = simulateCmd.Arg("scenario", "Scenario YAML file").Required().ExistingFile()
)

func init() {
	// run command (default) - no need to store the command
	app.Command("run", "Run the player (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-filters command
	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	// Load config
	cfg, err := loadConfig(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case listCmd.FullCommand():
		err = list(cfg, os.Stdout)
	case simulateCmd.FullCommand():
		err = simulate(cfg, *scenarioPath, os.Stdout)
	default:
		err = run(cfg)
	}
	if err != nil {
		zlog.Error().Msgf("sdbox: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		zlog.Info().Msg("No config file given, using defaults")
		return config.Default()
	}
	zlog.Info().Msgf("Loading config from %s", path)
	return config.Load(path)
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registry := filter.GetRegistered()
	for _, name := range filter.RegisteredNames() {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}
