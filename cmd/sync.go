package cmd

import (
	"context"
	"fmt"

	"github.com/chafiq1992/shopify-to-sheets/core/config"
	"github.com/chafiq1992/shopify-to-sheets/core/journal"
	"github.com/chafiq1992/shopify-to-sheets/core/logger"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/snapshot"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"
	"github.com/chafiq1992/shopify-to-sheets/feature/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncStore  string
	syncDryRun bool
)

// syncCmd runs the reconciliation sweep from the command line.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sweep ledgers against upstream order state",
	Long: `Sweep one or all store ledgers: correct drifted status markers and
move fulfilled and cancelled rows above open rows.

Examples:
  # Sweep every configured store
  sync

  # Sweep one store
  sync --store irrakids

  # Report what would change without writing
  sync --store irrakids --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncStore, "store", "", "Sweep only this store (default: all)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report drift and reordering without writing")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	registry, err := stores.Load(cfg.Stores.File)
	if err != nil {
		return fmt.Errorf("failed to load store registry: %w", err)
	}

	targets := registry.All()
	if syncStore != "" {
		store, err := registry.ByName(syncStore)
		if err != nil {
			return err
		}
		targets = []*stores.Store{store}
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	shopifyClient := shopify.NewClient(cfg.Shopify)

	jnl := journal.New(nil)
	if cfg.Journal.Enabled() && !syncDryRun {
		if db, err := journal.Connect(cfg.Journal); err != nil {
			l.Warn("Optional journal database connection failed", zap.Error(err))
		} else {
			jnl = journal.New(db)
		}
	}

	var archiver snapshot.Archiver
	if cfg.Snapshot.Enabled() && !syncDryRun {
		archiver, err = snapshot.NewArchiver(cfg.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to create snapshot archiver: %w", err)
		}
	}

	sweeper := reconcile.NewSweeper(sheetsClient, shopifyClient, archiver, jnl, nil, l, cfg.Reconcile)
	opts := reconcile.Options{DryRun: syncDryRun}

	// One failed store does not stop the others; the command fails if
	// any sweep failed.
	var failed int
	for _, store := range targets {
		report, err := sweeper.Run(ctx, store, opts)
		if err != nil {
			l.Error("Sweep failed", zap.String("store", store.Name), zap.Error(err))
			failed++
			continue
		}
		l.Info("Sweep report",
			zap.String("store", report.Store),
			zap.Int("rows_checked", report.RowsChecked),
			zap.Int("status_updates", report.StatusUpdates),
			zap.Int("failures", report.Failures),
			zap.Bool("reordered", report.Reordered),
			zap.Bool("dry_run", syncDryRun),
			zap.String("duration", report.ExecutionTime))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sweeps failed", failed, len(targets))
	}
	return nil
}
