package cmd

import (
	"context"
	"log"
	"strings"

	"ouidb/core/config"
	"ouidb/core/events"
	"ouidb/core/logger"
	"ouidb/core/storage"
	"ouidb/feature/vendors/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var refreshForce bool

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch a new registry snapshot now",
	Long:  `Runs one refresh cycle against the configured source and persists the snapshot to the cache directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		var store storage.Client
		if strings.HasPrefix(cfg.Registry.Source, "s3://") {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
		}

		regCfg := cfg.Registry
		regCfg.AutoRefresh = false
		regCfg.SyncInitialLoad = true

		db, err := registry.New(regCfg, registry.Options{
			Events:  events.NewZapSink(logg),
			Storage: store,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Refresh(context.Background(), refreshForce); err != nil {
			return err
		}
		logg.Info("Snapshot refreshed",
			zap.Int("vendors", db.Count()),
			zap.Time("version", db.Version()))
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "bypass freshness gates")
	RootCmd.AddCommand(refreshCmd)
}
