package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"liquorland-scraper/models"
)

func TestParseVolumeMl(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"Brand XYZ 700mL Vodka", 700, true},
		{"Brand No Volume", 0, false},
		{"Gin 375 ml", 375, true},
		{"Brand 700\u00a0mL Vodka", 700, true},
		{"Brand 750 \u00a0 ml", 750, true},
		{"Lager 24 x 330mL Cans", 330, true},
		{"Whisky 700ML", 0, false},
		{"Wine 1.5 L", 0, false},
		{"Pack 500mL and 700mL", 500, true},
		{"Odd 0mL", 0, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseVolumeMl(tt.name)
		assert.Equal(t, tt.wantOK, ok, "ParseVolumeMl(%q) ok", tt.name)
		assert.Equal(t, tt.want, got, "ParseVolumeMl(%q)", tt.name)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		in     *models.PriceText
		want   string
		wantOK bool
	}{
		{"split", models.SplitPrice("45", "99"), "45.99", true},
		{"split missing fractional", models.SplitPrice("45", ""), "45.00", true},
		{"split missing whole", models.SplitPrice("", "50"), "0.50", true},
		{"split with padding", models.SplitPrice(" 45 ", " 09 "), "45.09", true},
		{"split garbage", models.SplitPrice("abc", "00"), "", false},
		{"combined", models.CombinedPrice("19.99"), "19.99", true},
		{"combined currency", models.CombinedPrice(" $1,299.50 "), "1299.50", true},
		{"combined empty", models.CombinedPrice(""), "", false},
		{"combined word", models.CombinedPrice("free"), "", false},
		{"combined NaN", models.CombinedPrice("NaN"), "", false},
		{"combined Infinity", models.CombinedPrice("Infinity"), "", false},
		{"negative", models.CombinedPrice("-3.50"), "", false},
		{"zero", models.CombinedPrice("0"), "0", true},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				want := decimal.RequireFromString(tt.want)
				assert.True(t, want.Equal(got), "got %s, want %s", got, want)
			}
		})
	}
}

func TestComposeDisplayName(t *testing.T) {
	tests := []struct {
		brand, name, want string
	}{
		{"Absolut", "Vodka 700mL", "Absolut Vodka 700mL"},
		{"  Absolut ", "  Vodka\t 700mL ", "Absolut Vodka 700mL"},
		{"", "Vodka 700mL", "Vodka 700mL"},
		{"Absolut", "", "Absolut"},
		{"", "", ""},
		{"  ", "\n", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ComposeDisplayName(tt.brand, tt.name), "ComposeDisplayName(%q, %q)", tt.brand, tt.name)
	}
}
