package storage

import (
	"context"

	"liquorland-scraper/models"
)

// CatalogStore is the interface any catalog backend must satisfy.
// Upsert is keyed on Product.ID and records one price observation per call.
type CatalogStore interface {
	Upsert(ctx context.Context, p *models.Product) error
	FetchAll(ctx context.Context) ([]*models.Product, error)
	History(ctx context.Context, productID string) ([]*models.PriceObservation, error)
	Close() error
}

// RawItemWriter is the interface for persisting unprocessed scraped tiles.
type RawItemWriter interface {
	WriteRaw(items []*models.RawItem) error
	Close() error
}
