package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"liquorland-scraper/models"
)

// PostgresStore persists the product catalog and its price history to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := NewPostgresStoreFromDB(db)
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

// NewPostgresStoreFromDB wraps an already-migrated connection.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id              TEXT          PRIMARY KEY,
			name            TEXT          NOT NULL,
			volume_ml       INTEGER       NOT NULL CHECK (volume_ml > 0),
			current_price   NUMERIC       NOT NULL,
			price_per_100ml NUMERIC       NOT NULL,
			best_deal       JSONB         NOT NULL DEFAULT '{"type":null,"details":null}',
			updated_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS price_history (
			id              UUID          PRIMARY KEY,
			product_id      TEXT          NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			current_price   NUMERIC       NOT NULL,
			price_per_100ml NUMERIC       NOT NULL,
			best_deal       JSONB         NOT NULL,
			observed_at     TIMESTAMPTZ   NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_products_price_per_100ml ON products(price_per_100ml);
		CREATE INDEX IF NOT EXISTS idx_price_history_product    ON price_history(product_id, observed_at);
	`)
	return err
}

// Upsert inserts or replaces the product row and appends a price observation.
func (ps *PostgresStore) Upsert(ctx context.Context, p *models.Product) error {
	deal, err := json.Marshal(p.Deal)
	if err != nil {
		return fmt.Errorf("postgres: encode deal: %w", err)
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, volume_ml, current_price, price_per_100ml, best_deal, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name            = EXCLUDED.name,
			volume_ml       = EXCLUDED.volume_ml,
			current_price   = EXCLUDED.current_price,
			price_per_100ml = EXCLUDED.price_per_100ml,
			best_deal       = EXCLUDED.best_deal,
			updated_at      = EXCLUDED.updated_at
	`, p.ID, p.DisplayName, int64(p.VolumeMl), p.CurrentPrice, p.PricePer100ml, deal, p.ObservedAt); err != nil {
		return fmt.Errorf("postgres: upsert product: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO price_history (id, product_id, current_price, price_per_100ml, best_deal, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), p.ID, p.CurrentPrice, p.PricePer100ml, deal, p.ObservedAt); err != nil {
		return fmt.Errorf("postgres: record price history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// FetchAll retrieves every stored product ordered by id.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]*models.Product, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, name, volume_ml, current_price, best_deal, updated_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// History returns the stored observations of one product, oldest first.
func (ps *PostgresStore) History(ctx context.Context, productID string) ([]*models.PriceObservation, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, product_id, current_price, price_per_100ml, best_deal, observed_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY observed_at, id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch history: %w", err)
	}
	defer rows.Close()

	var history []*models.PriceObservation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		history = append(history, o)
	}
	return history, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads id, name, volume_ml, current_price, best_deal and a
// timestamp. The unit price is recomputed rather than read back.
func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		id, name   string
		volume     int64
		price      decimal.Decimal
		dealRaw    []byte
		observedAt time.Time
	)
	if err := row.Scan(&id, &name, &volume, &price, &dealRaw, &observedAt); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if volume <= 0 {
		return nil, fmt.Errorf("scan product %s: invalid volume %d", id, volume)
	}

	var deal models.Deal
	if len(dealRaw) > 0 {
		if err := json.Unmarshal(dealRaw, &deal); err != nil {
			return nil, fmt.Errorf("decode deal for %s: %w", id, err)
		}
	}
	return models.NewProduct(id, name, int(volume), price, deal, observedAt), nil
}

func scanObservation(row rowScanner) (*models.PriceObservation, error) {
	o := &models.PriceObservation{}
	var dealRaw []byte
	if err := row.Scan(&o.ID, &o.ProductID, &o.CurrentPrice, &o.PricePer100ml, &dealRaw, &o.ObservedAt); err != nil {
		return nil, fmt.Errorf("scan observation: %w", err)
	}
	if len(dealRaw) > 0 {
		if err := json.Unmarshal(dealRaw, &o.Deal); err != nil {
			return nil, fmt.Errorf("decode deal for observation %s: %w", o.ID, err)
		}
	}
	return o, nil
}
