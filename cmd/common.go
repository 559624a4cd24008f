package cmd

import (
	"context"
	"fmt"

	"liquorland-scraper/advisor"
	"liquorland-scraper/services"
	"liquorland-scraper/storage"
)

// advisoryTemperature keeps commentary varied without drifting off-topic.
const advisoryTemperature = 0.7

func openCatalog(ctx context.Context) (storage.CatalogStore, error) {
	dsn := cfg.SQLitePath
	if cfg.CatalogDriver == storage.DriverPostgres {
		dsn = cfg.DSN()
	}

	store, err := storage.Open(ctx, cfg.CatalogDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", cfg.CatalogDriver, err)
	}
	if store == nil {
		logger.Warn("[cmd] Catalog persistence disabled (driver=%q)", cfg.CatalogDriver)
	} else {
		logger.Info("[cmd] Catalog store ready (driver=%s)", cfg.CatalogDriver)
	}
	return store, nil
}

// newRanker builds a Ranker whose advisor is omitted when disabled or unconfigured.
func newRanker(noAdvice bool) *services.Ranker {
	ranker := services.NewRanker(nil, logger)
	if noAdvice {
		return ranker
	}
	if !cfg.AdvisoryEnabled() {
		logger.Info("[cmd] ANTHROPIC_API_KEY not set; advisory commentary disabled")
		return ranker
	}

	adv, err := advisor.NewClaudeAdvisor(advisor.Config{
		APIKey:      cfg.AnthropicAPIKey,
		Model:       cfg.AdvisoryModel,
		MaxTokens:   cfg.AdvisoryMaxTokens,
		Temperature: advisoryTemperature,
		MaxRetries:  cfg.MaxRetries,
	}, logger)
	if err != nil {
		logger.Warn("[cmd] Advisor unavailable: %v", err)
		return ranker
	}
	return services.NewRanker(adv, logger).WithTimeout(cfg.AdvisoryTimeout)
}
