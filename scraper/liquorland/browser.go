package liquorland

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"liquorland-scraper/config"
	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

// extractTilesJS runs in the page and returns one object per tile.
var extractTilesJS = fmt.Sprintf(`
	(function() {
		var text = function(root, sel) {
			var el = root.querySelector(sel);
			return el ? el.textContent.trim() : '';
		};
		return Array.from(document.querySelectorAll(%q)).map(function(tile) {
			var price = tile.querySelector(%q);
			return {
				id:       tile.getAttribute(%q) || '',
				brand:    text(tile, %q),
				name:     text(tile, %q),
				hasPrice: !!price,
				dollars:  price ? text(price, %q) : '',
				cents:    price ? text(price, %q) : '',
				priceRaw: price ? price.textContent.trim() : '',
				multiBuy: text(tile, %q),
				wasPrice: text(tile, %q)
			};
		});
	})()
`, selTile, selPrice, attrProductID, selBrand, selName, selDollars, selCents, selMultiBuy, selWasPrice)

// BrowserSource loads the promotions page in headless Chrome and extracts
// tiles in-page.
type BrowserSource struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// NewBrowserSource creates a ready-to-use BrowserSource.
func NewBrowserSource(cfg *config.Config, logger *utils.Logger) *BrowserSource {
	return &BrowserSource{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch returns the raw tiles of the configured offers page. An empty page
// yields an empty slice.
func (s *BrowserSource) Fetch(ctx context.Context) ([]*models.RawItem, error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[liquorland] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var tiles []tile
	err := s.retry.Do(ctx, "load-offers", func(context.Context) error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.cfg.PageTimeout)
		defer cancelTimeout()

		tiles = nil
		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(s.cfg.OffersURL),
			chromedp.WaitReady(`body`, chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(extractTilesJS, &tiles),
		); err != nil {
			return fmt.Errorf("chromedp extract tiles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("liquorland: fetch %s: %w", s.cfg.OffersURL, err)
	}

	items := collect(tiles, time.Now(), s.logger)
	s.logger.Info("[liquorland] Extracted %d tiles from %s", len(items), s.cfg.OffersURL)
	return items, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
