package cmd

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"ouidb/core/config"
	"ouidb/core/events"
	"ouidb/core/logger"
	"ouidb/feature/vendors/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <mac>...",
	Short: "Resolve the vendor for one or more hardware addresses",
	Args:  cobra.MinimumNArgs(1),
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

		// One-shot run: block on the load, no background refresh.
		regCfg := cfg.Registry
		regCfg.AutoRefresh = false
		regCfg.SyncInitialLoad = true

		db, err := registry.New(regCfg, registry.Options{Events: events.NewZapSink(logg)})
		if err != nil {
			return err
		}
		defer db.Close()

		svc := newLookupRunner(db)
		var missed bool
		for _, arg := range args {
			line, err := svc.resolve(arg)
			if err != nil {
				missed = true
				logg.Warn("Lookup failed", zap.String("address", arg), zap.Error(err))
				continue
			}
			fmt.Println(line)
		}
		if missed {
			return errors.New("one or more lookups failed")
		}
		return nil
	},
}

type lookupRunner struct {
	db *registry.DB
}

func newLookupRunner(db *registry.DB) *lookupRunner {
	return &lookupRunner{db: db}
}

func (r *lookupRunner) resolve(address string) (string, error) {
	addr, err := net.ParseMAC(address)
	if err != nil {
		return "", err
	}
	rec, err := r.db.Lookup(addr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\t%s\t%s", rec.Prefix, rec.Organization,
		strings.ReplaceAll(rec.Address, "\n", ", ")), nil
}

func init() {
	RootCmd.AddCommand(lookupCmd)
}
