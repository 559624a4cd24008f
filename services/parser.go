package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"liquorland-scraper/models"
)

var (
	// volumeRegexp captures integer millilitre tokens such as "700mL", "375 ml"
	// or "700&nbsp;mL". Litre values ("1.5 L") are not recognised.
	volumeRegexp = regexp.MustCompile(`(\d+)[\s\x{00A0}]*m[lL]`)
	// priceNoiseReplacer strips currency symbols and thousands separators.
	priceNoiseReplacer = strings.NewReplacer("$", "", ",", "")
)

// ParseVolumeMl returns the first integer millilitre value in name.
// ok is false when no token matches.
func ParseVolumeMl(name string) (ml int, ok bool) {
	match := volumeRegexp.FindStringSubmatch(name)
	if len(match) < 2 {
		return 0, false
	}
	v, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePrice converts either form of PriceText to a non-negative decimal.
// Split parts default to "0" and "00" when empty and are joined as
// "whole.fractional". ok is false for nil input, unparseable text or a
// negative result.
func ParsePrice(p *models.PriceText) (price decimal.Decimal, ok bool) {
	if p == nil {
		return decimal.Zero, false
	}

	text := p.Combined
	if p.Split {
		whole := cleanPriceFragment(p.Whole)
		if whole == "" {
			whole = "0"
		}
		fractional := cleanPriceFragment(p.Fractional)
		if fractional == "" {
			fractional = "00"
		}
		text = whole + "." + fractional
	}

	text = cleanPriceFragment(text)
	if text == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(text)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func cleanPriceFragment(s string) string {
	return strings.TrimSpace(priceNoiseReplacer.Replace(s))
}

// ComposeDisplayName joins brand and name with single spaces.
func ComposeDisplayName(brand, name string) string {
	return normaliseText(brand + " " + name)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
