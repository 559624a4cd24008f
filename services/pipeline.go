package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"liquorland-scraper/models"
	"liquorland-scraper/storage"
	"liquorland-scraper/utils"
)

// Source supplies the raw tiles of one promotions page. Zero items is a
// valid, non-error result.
type Source interface {
	Fetch(ctx context.Context) ([]*models.RawItem, error)
}

// Upserter persists one product keyed on its id.
type Upserter interface {
	Upsert(ctx context.Context, p *models.Product) error
}

// RunResult is everything one pipeline run observed.
type RunResult struct {
	RunID    string
	Fetched  int
	Products []*models.Product
	Ranking  *Ranking
	Failures []*models.PersistenceError
}

// Pipeline wires a Source through normalisation, persistence and ranking.
type Pipeline struct {
	source     Source
	rawWriter  storage.RawItemWriter
	normalizer *Normalizer
	store      Upserter
	ranker     *Ranker
	logger     *utils.Logger

	maxConcurrency int
	rateLimit      time.Duration
}

// NewPipeline creates a Pipeline. store may be nil to skip persistence.
func NewPipeline(source Source, normalizer *Normalizer, store Upserter, ranker *Ranker, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		source:         source,
		normalizer:     normalizer,
		store:          store,
		ranker:         ranker,
		logger:         logger,
		maxConcurrency: 1,
	}
}

// WithRawWriter captures every fetched item before normalisation.
func (p *Pipeline) WithRawWriter(w storage.RawItemWriter) *Pipeline {
	p.rawWriter = w
	return p
}

// WithConcurrency sets how many upserts may run at once and the minimum gap
// between their starts.
func (p *Pipeline) WithConcurrency(maxConcurrency int, rateLimit time.Duration) *Pipeline {
	p.maxConcurrency = maxConcurrency
	p.rateLimit = rateLimit
	return p
}

// Run executes one scrape. Only a Source failure is returned as an error;
// persistence and advisory failures are reported on the result.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString()}
	p.logger.Info("[pipeline] Run %s starting", result.RunID)

	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: fetch: %w", err)
	}
	result.Fetched = len(raw)

	if p.rawWriter != nil {
		if err := p.rawWriter.WriteRaw(raw); err != nil {
			p.logger.Error("[pipeline] Raw capture failed: %v", err)
		}
	}

	result.Products = p.normalizer.NormalizeAll(raw)
	result.Failures = p.persist(ctx, result.Products)
	result.Ranking = p.ranker.RankWithAdvice(ctx, result.Products)

	p.logger.Info("[pipeline] Run %s done: fetched=%d products=%d persist_failures=%d advice=%t",
		result.RunID, result.Fetched, len(result.Products), len(result.Failures), result.Ranking.HasAdvice())
	return result, nil
}

// persist upserts every product independently; a failure for one product
// never stops the others. Products sharing an id are upserted in batch order
// by a single job, so the last observation is the one left in the store.
// Failures are returned in product order.
func (p *Pipeline) persist(ctx context.Context, products []*models.Product) []*models.PersistenceError {
	if p.store == nil || len(products) == 0 {
		return nil
	}

	type failure struct {
		index int
		err   *models.PersistenceError
	}

	var (
		mu       sync.Mutex
		failures []failure
	)

	pool := utils.NewWorkerPool(p.maxConcurrency, p.rateLimit)
	for _, group := range groupByID(products) {
		group := group
		pool.Submit(func() {
			for _, i := range group {
				product := products[i]
				if err := p.store.Upsert(ctx, product); err != nil {
					p.logger.Error("[pipeline] Upsert failed for %s (%s): %v", product.ID, product.DisplayName, err)
					mu.Lock()
					failures = append(failures, failure{index: i, err: &models.PersistenceError{ProductID: product.ID, Err: err}})
					mu.Unlock()
					continue
				}
				p.logger.Debug("[pipeline] Upserted product: %s", product.DisplayName)
			}
		})
	}
	pool.Wait()

	sort.Slice(failures, func(a, b int) bool { return failures[a].index < failures[b].index })

	out := make([]*models.PersistenceError, 0, len(failures))
	for _, f := range failures {
		out = append(out, f.err)
	}
	return out
}

// groupByID returns product indexes grouped by id, groups ordered by first
// appearance and indexes ascending within each group.
func groupByID(products []*models.Product) [][]int {
	pos := make(map[string]int, len(products))
	groups := make([][]int, 0, len(products))
	for i, product := range products {
		g, ok := pos[product.ID]
		if !ok {
			g = len(groups)
			pos[product.ID] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
