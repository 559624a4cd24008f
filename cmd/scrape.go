package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"liquorland-scraper/scraper/liquorland"
	"liquorland-scraper/services"
	"liquorland-scraper/storage"
)

func scrapeCommand() *cobra.Command {
	var (
		sourceMode string
		offersURL  string
		noAdvice   bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the promotions page, store the catalog and print the value ranking",
		Example: `  liquorland-scraper scrape
  liquorland-scraper scrape --source static --no-advice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceMode != "" {
				cfg.SourceMode = strings.ToLower(sourceMode)
			}
			if offersURL != "" {
				cfg.OffersURL = offersURL
			}

			var source services.Source
			switch cfg.SourceMode {
			case "browser":
				source = liquorland.NewBrowserSource(cfg, logger)
			case "static":
				source = liquorland.NewStaticSource(cfg, logger)
			default:
				return fmt.Errorf("unknown source %q (want browser or static)", cfg.SourceMode)
			}

			ctx := cmd.Context()
			logger.Info("=== Promotions scrape starting ===")
			logger.Info("Config: source=%s | url=%s | catalog=%s | concurrency=%d | rate=%dms",
				cfg.SourceMode, cfg.OffersURL, cfg.CatalogDriver, cfg.MaxConcurrency, cfg.RateLimitMs)

			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			var upserter services.Upserter
			if store != nil {
				defer store.Close()
				upserter = store
			}

			pipeline := services.NewPipeline(source, services.NewNormalizer(logger), upserter, newRanker(noAdvice), logger).
				WithConcurrency(cfg.MaxConcurrency, time.Duration(cfg.RateLimitMs)*time.Millisecond)

			if cfg.CSVOutputPath != "" {
				csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
				if err != nil {
					logger.Warn("[cmd] Raw capture disabled: %v", err)
				} else {
					defer csvWriter.Close()
					pipeline.WithRawWriter(csvWriter)
				}
			}

			result, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}

			for _, f := range result.Failures {
				logger.Error("[cmd] %v", f)
			}

			insights := services.NewInsightService(logger).WithOutput(cmd.OutOrStdout())
			insights.Print(insights.Generate(result.Products), result.Ranking)

			logger.Info("Run %s: %d tiles fetched, %d products kept, %d not persisted",
				result.RunID, result.Fetched, len(result.Products), len(result.Failures))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceMode, "source", "", "page source: browser or static (default from SOURCE_MODE)")
	cmd.Flags().StringVar(&offersURL, "url", "", "promotions page URL (default from OFFERS_URL)")
	cmd.Flags().BoolVar(&noAdvice, "no-advice", false, "skip advisory commentary")
	return cmd
}
