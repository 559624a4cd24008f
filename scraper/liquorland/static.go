package liquorland

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"liquorland-scraper/config"
	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

// StaticSource reads tiles from server-rendered HTML without a browser.
type StaticSource struct {
	OffersURL string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewStaticSource creates a StaticSource restricted to the offers URL's host.
func NewStaticSource(cfg *config.Config, logger *utils.Logger) *StaticSource {
	return &StaticSource{OffersURL: cfg.OffersURL, timeout: cfg.PageTimeout, logger: logger}
}

func (s *StaticSource) collector() *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	}
	if u, err := url.Parse(s.OffersURL); err == nil && u.Hostname() != "" {
		opts = append(opts, colly.AllowedDomains(u.Hostname()))
	}
	return colly.NewCollector(opts...)
}

// Fetch visits the offers page once and returns its tiles.
func (s *StaticSource) Fetch(ctx context.Context) ([]*models.RawItem, error) {
	c := s.collector()
	c.Context = ctx
	if s.timeout > 0 {
		c.SetRequestTimeout(s.timeout)
	}

	var tiles []tile
	c.OnHTML(selTile, func(e *colly.HTMLElement) {
		tiles = append(tiles, tileFromSelection(e.DOM))
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	s.logger.Info("[liquorland] Fetching %s", s.OffersURL)
	if err := c.Visit(s.OffersURL); err != nil {
		return nil, fmt.Errorf("liquorland: visit %s: %w", s.OffersURL, err)
	}
	c.Wait()
	if visitErr != nil {
		return nil, fmt.Errorf("liquorland: visit %s: %w", s.OffersURL, visitErr)
	}

	items := collect(tiles, time.Now(), s.logger)
	s.logger.Info("[liquorland] Extracted %d tiles from %s", len(items), s.OffersURL)
	return items, nil
}

func tileFromSelection(sel *goquery.Selection) tile {
	t := tile{
		ID:       sel.AttrOr(attrProductID, ""),
		Brand:    firstText(sel, selBrand),
		Name:     firstText(sel, selName),
		MultiBuy: firstText(sel, selMultiBuy),
		WasPrice: firstText(sel, selWasPrice),
	}

	price := sel.Find(selPrice).First()
	if price.Length() > 0 {
		t.HasPrice = true
		t.Dollars = firstText(price, selDollars)
		t.Cents = firstText(price, selCents)
		t.PriceRaw = strings.TrimSpace(price.Text())
	}
	return t
}

func firstText(sel *goquery.Selection, query string) string {
	return strings.TrimSpace(sel.Find(query).First().Text())
}
