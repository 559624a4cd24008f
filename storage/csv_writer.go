package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"liquorland-scraper/models"
)

// CSVWriter writes raw (unnormalised) tiles to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var rawHeader = []string{
	"identifier", "brand", "name", "price_whole", "price_fractional", "price_text",
	"multi_buy", "was_price", "fetched_at",
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(rawHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends one row per item.
func (c *CSVWriter) WriteRaw(items []*models.RawItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range items {
		var whole, fractional, combined string
		if it.Price != nil {
			whole, fractional, combined = it.Price.Whole, it.Price.Fractional, it.Price.Combined
		}
		row := []string{
			it.Identifier,
			it.BrandText,
			it.NameText,
			whole,
			fractional,
			combined,
			it.Markers.MultiBuyText,
			it.Markers.WasPriceText,
			it.FetchedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
