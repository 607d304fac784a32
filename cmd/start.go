package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chafiq1992/shopify-to-sheets/core/cities"
	"github.com/chafiq1992/shopify-to-sheets/core/config"
	"github.com/chafiq1992/shopify-to-sheets/core/journal"
	"github.com/chafiq1992/shopify-to-sheets/core/loader"
	"github.com/chafiq1992/shopify-to-sheets/core/logger"
	"github.com/chafiq1992/shopify-to-sheets/core/middleware/requestid"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/snapshot"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/chafiq1992/shopify-to-sheets/feature/export"
	"github.com/chafiq1992/shopify-to-sheets/feature/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the order ledger server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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

		// 3. Load the store registry and city corpora. Both are startup
		// requirements: a store with missing credentials or an unreadable
		// corpus must fail here, not on the first webhook.
		registry, err := stores.Load(cfg.Stores.File)
		if err != nil {
			logg.Fatal("Failed to load store registry", zap.Error(err))
		}
		normalizer, err := cities.Load(cfg.Cities)
		if err != nil {
			logg.Fatal("Failed to load city corpora", zap.Error(err))
		}

		// 4. Initialize Clients
		sheetsClient, err := sheets.NewClient(context.Background(), cfg.Sheets)
		if err != nil {
			logg.Fatal("Failed to create sheets client", zap.Error(err))
		}
		shopifyClient := shopify.NewClient(cfg.Shopify)

		// 5. Connect to Journal Database (Optional)
		jnl := journal.New(nil)
		if cfg.Journal.Enabled() {
			if db, err := journal.Connect(cfg.Journal); err != nil {
				logg.Warn("Optional journal database connection failed", zap.Error(err))
			} else {
				jnl = journal.New(db)
				logg.Info("Connected to journal database")
			}
		}

		// 6. Initialize Snapshot Archiver (Optional)
		var archiver snapshot.Archiver
		if cfg.Snapshot.Enabled() {
			archiver, err = snapshot.NewArchiver(cfg.Snapshot)
			if err != nil {
				logg.Fatal("Failed to create snapshot archiver", zap.Error(err))
			}
		}

		// 7. Build the shared reference cache and the sweeper, then the
		// features around them.
		cache := export.NewRefCache(sheetsClient, time.Duration(cfg.Export.CacheTTLSeconds)*time.Second)
		sweeper := reconcile.NewSweeper(sheetsClient, shopifyClient, archiver, jnl, cache, logg, cfg.Reconcile)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		mgr := loader.NewManager()
		mgr.Register(export.NewFeature(sheetsClient, shopifyClient, registry, normalizer, cache, jnl, sweeper, logg, cfg.Export))
		mgr.Register(reconcile.NewFeature(sweeper, registry, logg))

		// Middleware Registration
		// Request ID must be first to trace everything.
		app.Use(requestid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
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

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.Int("stores", len(registry.All())))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
