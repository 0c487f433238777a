package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"honor-sync/core/config"
	"honor-sync/core/database"
	"honor-sync/core/loader"
	"honor-sync/core/logger"
	"honor-sync/core/middleware/auth"
	"honor-sync/core/middleware/rayid"
	"honor-sync/core/storage"
	"honor-sync/feature/honors"
	"honor-sync/feature/honors/awards"
	"honor-sync/feature/honors/reconcile"
	"honor-sync/feature/honors/store"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the honor sync HTTP server",
	Long: `Starts the HTTP server exposing the honors feature.

Sync runs requested over HTTP are dry runs unless server.allow_writes is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid server configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the record store (optional; the feature disables itself without it)
		var st reconcile.Store
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			gs := store.New(db, logg)
			if err := gs.Prepare(context.Background()); err != nil {
				logg.Fatal("Failed to prepare schema", zap.Error(err))
			}
			st = gs
			logg.Info("Connected to record store", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		registry, err := awards.Open(cfg.Sync.AwardsFile)
		if err != nil {
			logg.Fatal("Failed to load award tables", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 5. Register Features
		mgr := loader.NewManager(logg)
		svc := honors.NewService(registry, st, client, cfg.Storage.Bucket, cfg.Sync, logg)
		mgr.Register(honors.NewFeature(svc, cfg.Server.AllowWrites))

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

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
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
