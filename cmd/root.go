package cmd

import (
	"fmt"
	"os"

	"attendance/config"
	"attendance/database"
	"attendance/logger"
	"attendance/storage"
	"attendance/tracker"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Personal attendance and timesheet tracker",
	Long: `attendance records daily arrival/departure times, computes worked hours
and earnings estimates per month, and keeps everything in one JSON document
stored either in Postgres or a plain file.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
}

// setup loads the configuration, initializes logging and opens the
// configured store: Postgres when DATABASE_URL is set, otherwise the JSON
// data file.
func setup() (*config.Config, *tracker.Tracker, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.Log)

	var store tracker.Store
	if cfg.DatabaseURL != "" {
		if err := database.Init(cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("initializing database: %w", err)
		}
		store = database.NewStateStore(cfg.StorageKey)
	} else {
		path := cfg.DataFile
		if path == "" {
			path, err = storage.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
		}
		store = storage.NewFileStore(path)
	}

	tr, err := tracker.New(store)
	if err != nil {
		return nil, nil, err
	}
	return cfg, tr, nil
}
