// Package cmd implements the command-line interface for the promotions scraper.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"liquorland-scraper/config"
	"liquorland-scraper/utils"
)

// version is overridden at build time with -ldflags "-X liquorland-scraper/cmd.version=...".
var version = "dev"

var (
	cfg    *config.Config
	logger *utils.Logger

	// logLevel overrides LOG_LEVEL when set.
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "liquorland-scraper",
		Short: "Scrape, rank and track Liquorland promotions",
		Long: `Fetches the Liquorland promotions page, normalises every offer tile,
stores the catalog and ranks products by price per 100mL.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger = utils.NewLogger(cfg.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "liquorland-scraper version %s\n", version)
		},
	})

	rootCmd.AddCommand(scrapeCommand())
	rootCmd.AddCommand(rankCommand())
	rootCmd.AddCommand(historyCommand())
}
