package domain

import (
	"fmt"
	"math"
	"strings"
)

// LineItem is one distinct (name, country) entry in the basket.
// Price is nil until the user supplies one.
type LineItem struct {
	ID      string   `json:"id"`
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Qty     int      `json:"qty"`
	Price   *float64 `json:"price"`
}

// Domestic reports whether the line's country mentions India.
func (li *LineItem) Domestic() bool {
	return strings.Contains(strings.ToLower(li.Country), "india")
}

// LineKey derives the merge identity for a basket line.
func LineKey(name, country string) string {
	return fmt.Sprintf("%s|%s", strings.TrimSpace(name), strings.TrimSpace(country))
}

// ImpactSummary is the domestic/foreign breakdown of the basket,
// recomputed from the full line-item list on every mutation.
type ImpactSummary struct {
	DomesticCount   int     `json:"domesticCount"`
	ForeignCount    int     `json:"foreignCount"`
	DomesticPercent float64 `json:"domesticPercent"`
	ForeignPercent  float64 `json:"foreignPercent"`
	DomesticAmount  float64 `json:"domesticAmount"`
	ForeignAmount   float64 `json:"foreignAmount"`
	TotalAmount     float64 `json:"totalAmount"`
}

// RoundPercent rounds to two decimal places the way the impact summary
// reports percentages.
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
