package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"liquorland-scraper/models"
)

// SQLiteStore keeps the catalog in a single local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the database file (and parent directories) if needed
// and ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer at a time; concurrent upserts queue on the pool instead of
	// failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id              TEXT     PRIMARY KEY,
			name            TEXT     NOT NULL,
			volume_ml       INTEGER  NOT NULL CHECK (volume_ml > 0),
			current_price   TEXT     NOT NULL,
			price_per_100ml TEXT     NOT NULL,
			best_deal       TEXT     NOT NULL,
			updated_at      DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS price_history (
			id              TEXT     PRIMARY KEY,
			product_id      TEXT     NOT NULL,
			current_price   TEXT     NOT NULL,
			price_per_100ml TEXT     NOT NULL,
			best_deal       TEXT     NOT NULL,
			observed_at     DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history(product_id, observed_at);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert inserts or replaces the product row and appends a price observation.
func (s *SQLiteStore) Upsert(ctx context.Context, p *models.Product) error {
	deal, err := json.Marshal(p.Deal)
	if err != nil {
		return fmt.Errorf("sqlite: encode deal: %w", err)
	}
	observedAt := p.ObservedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, volume_ml, current_price, price_per_100ml, best_deal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name            = excluded.name,
			volume_ml       = excluded.volume_ml,
			current_price   = excluded.current_price,
			price_per_100ml = excluded.price_per_100ml,
			best_deal       = excluded.best_deal,
			updated_at      = excluded.updated_at
	`, p.ID, p.DisplayName, p.VolumeMl, p.CurrentPrice.String(), p.PricePer100ml.String(), string(deal), observedAt); err != nil {
		return fmt.Errorf("sqlite: upsert product: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO price_history (id, product_id, current_price, price_per_100ml, best_deal, observed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), p.ID, p.CurrentPrice.String(), p.PricePer100ml.String(), string(deal), observedAt); err != nil {
		return fmt.Errorf("sqlite: record price history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchAll retrieves every stored product ordered by id.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, volume_ml, current_price, best_deal, updated_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch all: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// History returns the stored observations of one product, oldest first.
func (s *SQLiteStore) History(ctx context.Context, productID string) ([]*models.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, current_price, price_per_100ml, best_deal, observed_at
		FROM price_history
		WHERE product_id = ?
		ORDER BY observed_at, rowid
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch history: %w", err)
	}
	defer rows.Close()

	var history []*models.PriceObservation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		history = append(history, o)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
