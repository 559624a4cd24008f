package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PriceText is the currency text of a tile, either split into whole and
// fractional parts (dollars/cents) or as one combined string.
type PriceText struct {
	Whole      string
	Fractional string
	Combined   string
	Split      bool
}

// SplitPrice builds a PriceText from separate dollar and cent fragments.
func SplitPrice(whole, fractional string) *PriceText {
	return &PriceText{Whole: whole, Fractional: fractional, Split: true}
}

// CombinedPrice builds a PriceText from a single currency string.
func CombinedPrice(text string) *PriceText {
	return &PriceText{Combined: text}
}

// PromotionMarkers holds the raw promotional fragments of a tile.
// An empty string means the marker was not present.
type PromotionMarkers struct {
	MultiBuyText string
	WasPriceText string
}

// RawItem holds unprocessed tile data exactly as the source extracted it.
// A nil Price means the tile carried no current-price element.
type RawItem struct {
	Identifier string
	BrandText  string
	NameText   string
	Price      *PriceText
	Markers    PromotionMarkers
	FetchedAt  time.Time
}

// DealType is the promotional mechanism of a product.
type DealType string

const (
	DealNone      DealType = ""
	DealMultiBuy  DealType = "multi-buy"
	DealPriceDrop DealType = "price-drop"
)

// Deal is the classified promotion of a product. The zero value means no deal.
type Deal struct {
	Type    DealType
	Details string
}

type dealJSON struct {
	Type    *string `json:"type"`
	Details *string `json:"details"`
}

// MarshalJSON encodes absent type/details as null.
func (d Deal) MarshalJSON() ([]byte, error) {
	var out dealJSON
	if d.Type != DealNone {
		t := string(d.Type)
		out.Type = &t
	}
	if d.Details != "" {
		details := d.Details
		out.Details = &details
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both null and missing fields.
func (d *Deal) UnmarshalJSON(data []byte) error {
	var in dealJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Deal{}
	if in.Type != nil {
		d.Type = DealType(*in.Type)
	}
	if in.Details != nil {
		d.Details = *in.Details
	}
	return nil
}

var hundredMl = decimal.NewFromInt(100)

// Product is the canonical, validated record of one promotions tile.
// Construct it with NewProduct so PricePer100ml always matches the price and
// volume it was derived from.
type Product struct {
	ID            string          `json:"id"`
	DisplayName   string          `json:"name"`
	VolumeMl      int             `json:"volume_ml"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PricePer100ml decimal.Decimal `json:"price_per_100ml"`
	Deal          Deal            `json:"best_deal"`
	ObservedAt    time.Time       `json:"observed_at"`
}

// NewProduct derives the unit price and returns the record. volumeMl must be
// positive; callers validate before constructing.
func NewProduct(id, displayName string, volumeMl int, price decimal.Decimal, deal Deal, observedAt time.Time) *Product {
	return &Product{
		ID:            id,
		DisplayName:   displayName,
		VolumeMl:      volumeMl,
		CurrentPrice:  price,
		PricePer100ml: UnitPrice(price, volumeMl),
		Deal:          deal,
		ObservedAt:    observedAt,
	}
}

// UnitPrice returns price normalised to 100 mL.
func UnitPrice(price decimal.Decimal, volumeMl int) decimal.Decimal {
	return price.Mul(hundredMl).Div(decimal.NewFromInt(int64(volumeMl)))
}

// PriceObservation is one stored sighting of a product's price.
type PriceObservation struct {
	ID            string
	ProductID     string
	CurrentPrice  decimal.Decimal
	PricePer100ml decimal.Decimal
	Deal          Deal
	ObservedAt    time.Time
}
