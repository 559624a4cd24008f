package services

import (
	"strings"

	"liquorland-scraper/models"
)

// Classify maps a tile's promotion markers to a single deal.
//
// Multi-buy is checked first and price-drop second, so a tile showing both
// a pack offer and a "was" price is reported as a price drop; the multi-buy
// text is discarded.
func Classify(m models.PromotionMarkers) models.Deal {
	var deal models.Deal

	if text := strings.TrimSpace(m.MultiBuyText); text != "" {
		deal = models.Deal{Type: models.DealMultiBuy, Details: text}
	}
	if text := strings.TrimSpace(m.WasPriceText); text != "" {
		deal = models.Deal{Type: models.DealPriceDrop, Details: text}
	}

	return deal
}
