package storage

import (
	"context"
	"fmt"
)

// Catalog drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// Open returns the CatalogStore for driver. dsn is a PostgreSQL connection
// string or a SQLite file path. DriverNone yields a nil store and no error.
func Open(ctx context.Context, driver, dsn string) (CatalogStore, error) {
	switch driver {
	case DriverPostgres:
		ps, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return ps, nil
	case DriverSQLite:
		ss, err := NewSQLiteStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return ss, nil
	case DriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("storage: unknown catalog driver %q", driver)
	}
}
