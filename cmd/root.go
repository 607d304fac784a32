package cmd

import (
	"fmt"
	"os"

	"github.com/chafiq1992/shopify-to-sheets/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "shopify-to-sheets",
	Short: "Shopify order ledger service",
	Long: `shopify-to-sheets mirrors eligible Shopify orders into per-store
Google Sheets ledgers and keeps the ledgers consistent with upstream
order state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 output
		// for a CLI invocation instead of the JSON production encoding.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
