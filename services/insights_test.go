package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

func sampleProducts() []*models.Product {
	a := product("1", "A 700mL X", 700, "35")
	a.Deal = models.Deal{Type: models.DealMultiBuy, Details: "2 for $60"}
	b := product("2", "B 1000mL Y", 1000, "40")
	b.Deal = models.Deal{Type: models.DealPriceDrop, Details: "Was $48"}
	c := product("3", "C 700mL Z", 700, "70")
	return []*models.Product{a, b, c}
}

func TestGenerate(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	report := svc.Generate(sampleProducts())

	assert.Equal(t, 3, report.TotalProducts)
	assert.Equal(t, 1, report.MultiBuyDeals)
	assert.Equal(t, 1, report.PriceDrops)
	assert.Equal(t, "2", report.BestValue.ID)
	assert.Equal(t, "3", report.MostExpensive.ID)
	assert.True(t, report.MinPer100ml.Equal(decimal.NewFromInt(4)))
	assert.True(t, report.MaxPer100ml.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "6.33", report.AveragePer100ml.StringFixed(2))
	assert.Equal(t, map[int]int{700: 2, 1000: 1}, report.ProductsByVolume)
}

func TestGenerateEmpty(t *testing.T) {
	report := NewInsightService(utils.NewNopLogger()).Generate(nil)

	assert.Zero(t, report.TotalProducts)
	assert.Nil(t, report.BestValue)
	assert.NotNil(t, report.ProductsByVolume)
}

func TestRenderRanking(t *testing.T) {
	var buf bytes.Buffer
	RenderRanking(&buf, Rank(sampleProducts()))
	out := buf.String()

	assert.Contains(t, out, "Per 100mL")
	assert.Contains(t, out, "Volume (mL)")
	assert.NotContains(t, out, "100ML")
	assert.Contains(t, out, "35.00")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "4.00")

	first := strings.Index(out, "B 1000mL Y")
	second := strings.Index(out, "A 700mL X")
	third := strings.Index(out, "C 700mL Z")
	require.NotEqual(t, -1, first)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestPrintWithAdvice(t *testing.T) {
	var buf bytes.Buffer
	svc := NewInsightService(utils.NewNopLogger()).WithOutput(&buf)
	products := sampleProducts()

	ranking := NewRanker(&fakeAdvisor{advice: "Grab the 1L bottle."}, utils.NewNopLogger()).
		RankWithAdvice(context.Background(), products)
	svc.Print(svc.Generate(products), ranking)

	out := buf.String()
	assert.Contains(t, out, "Products compared : 3")
	assert.Contains(t, out, "Lowest  : $4.00 (B 1000mL Y)")
	assert.Contains(t, out, "Grab the 1L bottle.")
	assert.NotContains(t, out, "No advisory commentary available")
}

func TestPrintWithoutAdvice(t *testing.T) {
	var buf bytes.Buffer
	svc := NewInsightService(utils.NewNopLogger()).WithOutput(&buf)

	ranking := NewRanker(nil, utils.NewNopLogger()).RankWithAdvice(context.Background(), nil)
	svc.Print(svc.Generate(nil), ranking)

	out := buf.String()
	assert.Contains(t, out, "No price data available")
	assert.Contains(t, out, "No advisory commentary available")
}
