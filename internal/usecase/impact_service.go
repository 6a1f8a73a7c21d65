package usecase

import (
	"math"

	"github.com/switchtoindia/backend/internal/domain"
)

// Summarize reduces the basket to its domestic/foreign breakdown.
// Counts are quantity-weighted; amounts use price*qty with a nil price
// contributing zero. The foreign percentage is derived by complement
// and rounded again, so the two percentages may not sum to exactly 100.
// Pure function of the line-item list.
func Summarize(items []domain.LineItem) domain.ImpactSummary {
	var summary domain.ImpactSummary

	total := 0
	for i := range items {
		item := &items[i]
		total += item.Qty

		amount := 0.0
		if item.Price != nil {
			amount = *item.Price * float64(item.Qty)
		}

		if item.Domestic() {
			summary.DomesticCount += item.Qty
			summary.DomesticAmount += amount
		} else {
			summary.ForeignAmount += amount
		}
	}

	summary.ForeignCount = total - summary.DomesticCount
	summary.TotalAmount = summary.DomesticAmount + summary.ForeignAmount

	if total > 0 {
		summary.DomesticPercent = math.Round(float64(summary.DomesticCount)/float64(total)*10000) / 100
		summary.ForeignPercent = domain.RoundPercent(100 - summary.DomesticPercent)
	}

	return summary
}
