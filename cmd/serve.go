package cmd

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ouidb/core/config"
	"ouidb/core/events"
	"ouidb/core/loader"
	"ouidb/core/logger"
	"ouidb/core/middleware/auth"
	"ouidb/core/middleware/rayid"
	"ouidb/core/storage"
	"ouidb/feature/vendors"
	"ouidb/feature/vendors/registry"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vendor lookup server",
	Long:  `Starts the HTTP server, initializes the registry subsystem and its background refresh.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Object storage backs mirrored s3:// sources only
		var store storage.Client
		if strings.HasPrefix(cfg.Registry.Source, "s3://") {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			logg.Info("Using mirrored registry source", zap.String("source", cfg.Registry.Source))
		}

		// 4. Initialize the registry subsystem
		db, err := registry.New(cfg.Registry, registry.Options{
			Events:  events.NewZapSink(logg),
			Storage: store,
		})
		if err != nil {
			logg.Fatal("Failed to initialize registry", zap.Error(err))
		}
		defer db.Close()

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Feature Loader
		mgr := loader.NewManager()
		mgr.Register(vendor.NewFeature(db, logg))

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.Int("vendors", db.Count()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
