package models

import "github.com/shopspring/decimal"

// InsightReport holds the computed analytics over one normalised batch.
type InsightReport struct {
	TotalProducts    int
	MultiBuyDeals    int
	PriceDrops       int
	AveragePer100ml  decimal.Decimal
	MinPer100ml      decimal.Decimal
	MaxPer100ml      decimal.Decimal
	BestValue        *Product
	MostExpensive    *Product
	ProductsByVolume map[int]int
}
