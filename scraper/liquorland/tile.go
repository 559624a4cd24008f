package liquorland

import (
	"strings"
	"time"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

// CSS selectors for one promotions tile.
const (
	selTile       = ".ProductTileV2"
	attrProductID = "data-product-id"
	selBrand      = ".product-brand"
	selName       = ".product-name"
	selPrice      = ".PriceTag.current.primary"
	selDollars    = ".dollarAmount"
	selCents      = ".centsAmount"
	selMultiBuy   = ".dinkus.clickable-view-all"
	selWasPrice   = ".PriceTag.slashthrough.secondary"
)

// tile is the extracted text of one product tile, shared by both sources.
type tile struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Name     string `json:"name"`
	HasPrice bool   `json:"hasPrice"`
	Dollars  string `json:"dollars"`
	Cents    string `json:"cents"`
	PriceRaw string `json:"priceRaw"`
	MultiBuy string `json:"multiBuy"`
	WasPrice string `json:"wasPrice"`
}

// toRawItem reports the tile faithfully: no price element means no price.
// When the dollar fragment is missing but the price tag has text, the whole
// tag text is passed on as a combined price.
func (t tile) toRawItem(fetchedAt time.Time) *models.RawItem {
	item := &models.RawItem{
		Identifier: strings.TrimSpace(t.ID),
		BrandText:  strings.TrimSpace(t.Brand),
		NameText:   strings.TrimSpace(t.Name),
		Markers: models.PromotionMarkers{
			MultiBuyText: strings.TrimSpace(t.MultiBuy),
			WasPriceText: strings.TrimSpace(t.WasPrice),
		},
		FetchedAt: fetchedAt,
	}

	switch {
	case !t.HasPrice:
	case strings.TrimSpace(t.Dollars) != "":
		item.Price = models.SplitPrice(strings.TrimSpace(t.Dollars), strings.TrimSpace(t.Cents))
	case strings.TrimSpace(t.PriceRaw) != "":
		item.Price = models.CombinedPrice(strings.TrimSpace(t.PriceRaw))
	}
	return item
}

// collect converts tiles in page order. Every tile is reported, including
// incomplete ones and repeats of a product id.
func collect(tiles []tile, fetchedAt time.Time, logger *utils.Logger) []*models.RawItem {
	items := make([]*models.RawItem, 0, len(tiles))
	for _, t := range tiles {
		items = append(items, t.toRawItem(fetchedAt))
	}
	logger.Debug("[liquorland] Collected %d tiles", len(items))
	return items
}
