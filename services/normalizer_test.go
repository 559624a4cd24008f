package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(utils.NewNopLogger()).WithClock(func() time.Time { return fixedNow })
}

func validItem() *models.RawItem {
	return &models.RawItem{
		Identifier: "1",
		BrandText:  "A",
		NameText:   "700mL X",
		Price:      models.SplitPrice("35", "00"),
	}
}

func TestNormalizeValidItem(t *testing.T) {
	raw := validItem()
	raw.Markers = models.PromotionMarkers{MultiBuyText: "2 for $60", WasPriceText: "Was $42"}

	p := newTestNormalizer().Normalize(raw)
	require.NotNil(t, p)

	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "A 700mL X", p.DisplayName)
	assert.Equal(t, 700, p.VolumeMl)
	assert.True(t, p.CurrentPrice.Equal(decimal.NewFromInt(35)))
	assert.True(t, p.PricePer100ml.Equal(decimal.NewFromInt(5)), "got %s", p.PricePer100ml)
	assert.Equal(t, models.Deal{Type: models.DealPriceDrop, Details: "Was $42"}, p.Deal)
	assert.Equal(t, fixedNow, p.ObservedAt)
}

func TestNormalizeDropsIncompleteItems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.RawItem)
	}{
		{"empty identifier", func(r *models.RawItem) { r.Identifier = "" }},
		{"blank identifier", func(r *models.RawItem) { r.Identifier = "   " }},
		{"no volume", func(r *models.RawItem) { r.NameText = "Mystery Spirit" }},
		{"zero volume", func(r *models.RawItem) { r.NameText = "Sample 0mL" }},
		{"no price", func(r *models.RawItem) { r.Price = nil }},
		{"bad price", func(r *models.RawItem) { r.Price = models.CombinedPrice("call for price") }},
		{"negative price", func(r *models.RawItem) { r.Price = models.CombinedPrice("-1") }},
		{"volume only in brand", func(r *models.RawItem) { r.BrandText = "700mL"; r.NameText = "X" }},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validItem()
			tt.mutate(raw)
			assert.Nil(t, n.Normalize(raw))
		})
	}

	assert.Nil(t, n.Normalize(nil))
}

func TestNormalizeEmptyIdentifierAlwaysDropped(t *testing.T) {
	raw := validItem()
	raw.Identifier = ""
	raw.Markers.WasPriceText = "Was $50"
	assert.Nil(t, newTestNormalizer().Normalize(raw))
}

func TestNormalizeUnitPriceProperty(t *testing.T) {
	n := newTestNormalizer()
	hundred := decimal.NewFromInt(100)
	tolerance := decimal.New(1, -10)

	for _, v := range []int{1, 3, 7, 330, 375, 700, 750, 1000, 1125} {
		for _, price := range []string{"0", "0.01", "9.99", "35.00", "45.99", "1299.95"} {
			raw := &models.RawItem{
				Identifier: fmt.Sprintf("%d-%s", v, price),
				NameText:   fmt.Sprintf("Test %dmL", v),
				Price:      models.CombinedPrice(price),
			}
			p := n.Normalize(raw)
			require.NotNil(t, p, "v=%d price=%s", v, price)

			want := decimal.RequireFromString(price).Div(decimal.NewFromInt(int64(v))).Mul(hundred)
			diff := p.PricePer100ml.Sub(want).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"v=%d price=%s: got %s want %s", v, price, p.PricePer100ml, want)
		}
	}
}

func TestNormalizeAllEndToEndExample(t *testing.T) {
	raw := []*models.RawItem{
		{Identifier: "1", BrandText: "A", NameText: "700mL X", Price: models.SplitPrice("35", "00")},
		{Identifier: "2", BrandText: "B", NameText: "1000mL Y", Price: models.SplitPrice("40", "00")},
	}

	products := newTestNormalizer().NormalizeAll(raw)
	require.Len(t, products, 2)
	assert.Equal(t, "5.00", products[0].PricePer100ml.StringFixed(2))
	assert.Equal(t, "4.00", products[1].PricePer100ml.StringFixed(2))

	ranked := Rank(products)
	assert.Equal(t, "2", ranked[0].ID)
	assert.Equal(t, "1", ranked[1].ID)
}

func TestNormalizeAllIsStableFilter(t *testing.T) {
	raw := []*models.RawItem{
		{Identifier: "c", NameText: "C 700mL", Price: models.CombinedPrice("30")},
		{Identifier: "", NameText: "Dropped 700mL", Price: models.CombinedPrice("30")},
		{Identifier: "a", NameText: "A 700mL", Price: models.CombinedPrice("30")},
		nil,
		{Identifier: "b", NameText: "No volume", Price: models.CombinedPrice("30")},
		{Identifier: "b", NameText: "B 500mL", Price: models.CombinedPrice("30")},
		{Identifier: "a", NameText: "A again 700mL", Price: models.CombinedPrice("20")},
	}

	products := newTestNormalizer().NormalizeAll(raw)

	assert.Equal(t, []string{"c", "a", "b", "a"}, ids(products))
	assert.Equal(t, "A 700mL", products[1].DisplayName)
	assert.Equal(t, "A again 700mL", products[3].DisplayName)
}

func TestNormalizeAllKeepsRepeatedIdentifiers(t *testing.T) {
	raw := []*models.RawItem{
		{Identifier: "7", NameText: "Gin 700mL", Price: models.SplitPrice("35", "00")},
		{Identifier: "7", NameText: "Gin 1000mL", Price: models.SplitPrice("40", "00")},
	}

	products := newTestNormalizer().NormalizeAll(raw)

	require.Len(t, products, 2)
	assert.Equal(t, 700, products[0].VolumeMl)
	assert.Equal(t, 1000, products[1].VolumeMl)
}

func TestNormalizeAllEmpty(t *testing.T) {
	products := newTestNormalizer().NormalizeAll(nil)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
