package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, out: os.Stdout}
}

// WithOutput redirects Print.
func (s *InsightService) WithOutput(w io.Writer) *InsightService {
	s.out = w
	return s
}

func (s *InsightService) Generate(products []*models.Product) *models.InsightReport {
	report := &models.InsightReport{
		ProductsByVolume: make(map[int]int),
	}

	if len(products) == 0 {
		return report
	}

	report.TotalProducts = len(products)
	report.MinPer100ml = products[0].PricePer100ml
	report.MaxPer100ml = products[0].PricePer100ml
	report.BestValue = products[0]
	report.MostExpensive = products[0]

	total := decimal.Zero
	for _, p := range products {
		switch p.Deal.Type {
		case models.DealMultiBuy:
			report.MultiBuyDeals++
		case models.DealPriceDrop:
			report.PriceDrops++
		}
		report.ProductsByVolume[p.VolumeMl]++

		total = total.Add(p.PricePer100ml)
		if lessValue(p, report.BestValue) {
			report.BestValue = p
			report.MinPer100ml = p.PricePer100ml
		}
		if lessValue(report.MostExpensive, p) {
			report.MostExpensive = p
			report.MaxPer100ml = p.PricePer100ml
		}
	}

	report.AveragePer100ml = total.Div(decimal.NewFromInt(int64(len(products)))).Round(2)
	return report
}

// Print writes the summary, the ranked table and the advisory commentary.
func (s *InsightService) Print(r *models.InsightReport, ranking *Ranking) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	w := s.out

	fmt.Fprintf(w, "\n%s\n  PROMOTIONS VALUE REPORT\n%s\n\n", sep, sep)

	fmt.Fprintf(w, "  Overview\n  %s\n", thin)
	fmt.Fprintf(w, "  Products compared : %d\n", r.TotalProducts)
	fmt.Fprintf(w, "  Multi-buy deals   : %d\n", r.MultiBuyDeals)
	fmt.Fprintf(w, "  Price drops       : %d\n\n", r.PriceDrops)

	fmt.Fprintf(w, "  Price per 100mL\n  %s\n", thin)
	if r.TotalProducts > 0 {
		fmt.Fprintf(w, "  Average : $%s\n", r.AveragePer100ml.StringFixed(2))
		fmt.Fprintf(w, "  Lowest  : $%s (%s)\n", r.MinPer100ml.StringFixed(2), r.BestValue.DisplayName)
		fmt.Fprintf(w, "  Highest : $%s (%s)\n", r.MaxPer100ml.StringFixed(2), r.MostExpensive.DisplayName)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if len(r.ProductsByVolume) > 0 {
		fmt.Fprintf(w, "  Products by pack size\n  %s\n", thin)
		volumes := make([]int, 0, len(r.ProductsByVolume))
		for v := range r.ProductsByVolume {
			volumes = append(volumes, v)
		}
		sort.Ints(volumes)
		for _, v := range volumes {
			n := r.ProductsByVolume[v]
			fmt.Fprintf(w, "  %6dmL %s (%d)\n", v, strings.Repeat("█", n), n)
		}
		fmt.Fprintln(w)
	}

	if ranking != nil {
		fmt.Fprintf(w, "  Ranked by value\n")
		RenderRanking(w, ranking.Products)
		fmt.Fprintln(w)

		fmt.Fprintf(w, "  Advisory commentary\n  %s\n", thin)
		if ranking.HasAdvice() {
			fmt.Fprintln(w, ranking.Advice)
		} else {
			fmt.Fprintln(w, "  No advisory commentary available")
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

// RenderRanking writes one row per product in the given order: rank, name,
// price, volume in mL and price per 100 mL.
func RenderRanking(w io.Writer, products []*models.Product) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Product", "Price", "Volume (mL)", "Per 100mL"})

	for i, p := range products {
		t.AppendRow(table.Row{
			i + 1,
			p.DisplayName,
			p.CurrentPrice.StringFixed(2),
			p.VolumeMl,
			p.PricePer100ml.StringFixed(2),
		})
	}
	t.Render()
}
