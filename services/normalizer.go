package services

import (
	"strings"
	"time"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

// Normalizer transforms RawItems into canonical Products.
type Normalizer struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// WithClock replaces the time source used for ObservedAt.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize builds a Product from raw, or returns nil when the identifier,
// display name, volume or price is missing. No partial products are returned.
func (n *Normalizer) Normalize(raw *models.RawItem) *models.Product {
	if raw == nil {
		return nil
	}

	name := ComposeDisplayName(raw.BrandText, raw.NameText)
	volume, volumeOK := ParseVolumeMl(raw.NameText)
	price, priceOK := ParsePrice(raw.Price)
	deal := Classify(raw.Markers)

	id := strings.TrimSpace(raw.Identifier)
	if id == "" || name == "" || !volumeOK || volume <= 0 || !priceOK {
		return nil
	}

	return models.NewProduct(id, name, volume, price, deal, n.now())
}

// NormalizeAll normalises a batch, preserving the order of surviving items.
// Only items that fail validation are dropped; repeated identifiers are kept
// and merged by the catalog store.
func (n *Normalizer) NormalizeAll(raw []*models.RawItem) []*models.Product {
	result := make([]*models.Product, 0, len(raw))

	for _, r := range raw {
		p := n.Normalize(r)
		if p == nil {
			n.logger.Debug("[normalizer] Dropping incomplete item: id=%q name=%q",
				identifierOf(r), nameOf(r))
			continue
		}
		result = append(result, p)
	}

	n.logger.Info("[normalizer] Normalised %d → %d products (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

func identifierOf(r *models.RawItem) string {
	if r == nil {
		return ""
	}
	return r.Identifier
}

func nameOf(r *models.RawItem) string {
	if r == nil {
		return ""
	}
	return ComposeDisplayName(r.BrandText, r.NameText)
}
