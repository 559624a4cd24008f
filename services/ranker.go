package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

var (
	errAdvisorNotConfigured = errors.New("no advisor configured")
	errNothingToExplain     = errors.New("no products to explain")
)

// Advisor produces free-form commentary on a batch of products. Its output is
// never parsed back into structured data.
type Advisor interface {
	Explain(ctx context.Context, products []*models.Product) (string, error)
}

// Ranking is the deterministic value order plus optional advisory commentary.
// AdviceErr is a *models.AdvisoryError whenever Advice is empty.
type Ranking struct {
	Products  []*models.Product
	Advice    string
	AdviceErr error
}

// HasAdvice reports whether advisory commentary is available.
func (r *Ranking) HasAdvice() bool {
	return r.AdviceErr == nil && r.Advice != ""
}

// Rank returns products ordered best value first: ascending price per 100 mL,
// then display name, then id. The input slice is not modified.
func Rank(products []*models.Product) []*models.Product {
	ranked := make([]*models.Product, len(products))
	copy(ranked, products)

	sort.SliceStable(ranked, func(i, j int) bool {
		return lessValue(ranked[i], ranked[j])
	})
	return ranked
}

func lessValue(a, b *models.Product) bool {
	if c := a.PricePer100ml.Cmp(b.PricePer100ml); c != 0 {
		return c < 0
	}
	if a.DisplayName != b.DisplayName {
		return a.DisplayName < b.DisplayName
	}
	return a.ID < b.ID
}

// Ranker combines the deterministic order with an optional Advisor.
type Ranker struct {
	advisor Advisor
	timeout time.Duration
	logger  *utils.Logger
}

// NewRanker creates a Ranker. advisor may be nil.
func NewRanker(advisor Advisor, logger *utils.Logger) *Ranker {
	return &Ranker{advisor: advisor, logger: logger}
}

// WithTimeout bounds the advisory call. Zero means no extra bound.
func (r *Ranker) WithTimeout(d time.Duration) *Ranker {
	r.timeout = d
	return r
}

// RankWithAdvice always computes the deterministic order; the advisor is asked
// at most once and its failure only leaves the commentary empty.
func (r *Ranker) RankWithAdvice(ctx context.Context, products []*models.Product) *Ranking {
	ranking := &Ranking{Products: Rank(products)}

	switch {
	case r.advisor == nil:
		ranking.AdviceErr = &models.AdvisoryError{Err: errAdvisorNotConfigured}
		return ranking
	case len(ranking.Products) == 0:
		ranking.AdviceErr = &models.AdvisoryError{Err: errNothingToExplain}
		return ranking
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	advice, err := r.advisor.Explain(ctx, ranking.Products)
	if err != nil {
		r.logger.Warn("[ranker] Advisory ranking unavailable: %v", err)
		ranking.AdviceErr = &models.AdvisoryError{Err: err}
		return ranking
	}

	ranking.Advice = advice
	return ranking
}
