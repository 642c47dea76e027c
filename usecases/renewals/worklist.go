package renewals

import (
	"math"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v2"

	"github.com/checkmarble/renewals-backend/models"
)

// FilterWorklist keeps the scored assets matching every set criterion. Empty criteria
// match everything.
func FilterWorklist(assets []models.ScoredAsset, filter models.WorklistFilter) []models.ScoredAsset {
	customerTypes := set.From(filter.CustomerTypes)
	products := set.From(filter.Products)
	priorities := set.From(filter.Priorities)

	out := make([]models.ScoredAsset, 0, len(assets))
	for _, a := range assets {
		if !customerTypes.Empty() && !customerTypes.Contains(a.CustomerType) {
			continue
		}
		if !products.Empty() && !products.Contains(a.Product) {
			continue
		}
		if !priorities.Empty() && !priorities.Contains(a.Priority) {
			continue
		}
		if filter.MaxDaysToExpiry != nil && a.DaysToExpiry > *filter.MaxDaysToExpiry {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Summarize computes the portfolio KPIs of a worklist.
func Summarize(assets []models.ScoredAsset) models.WorklistSummary {
	summary := models.WorklistSummary{Products: []models.ProductInsight{}}
	if len(assets) == 0 {
		return summary
	}

	p2cTotal := 0
	byProduct := make(map[string]*productAccumulator)
	for _, a := range assets {
		switch a.Priority {
		case models.PriorityHigh:
			summary.HighPriorityCount++
		case models.PriorityMedium:
			summary.MediumPriorityCount++
		case models.PriorityLow:
			summary.LowPriorityCount++
		}
		summary.ExpectedRevenueImpact += a.ExpectedRevenueImpact
		p2cTotal += a.ProbabilityToClose

		acc, ok := byProduct[a.Product]
		if !ok {
			acc = &productAccumulator{}
			byProduct[a.Product] = acc
		}
		acc.assets++
		acc.impact += a.ExpectedRevenueImpact
		acc.p2cTotal += a.ProbabilityToClose
	}
	summary.AvgProbabilityToClose = roundedAverage(p2cTotal, len(assets))

	for product, acc := range byProduct {
		summary.Products = append(summary.Products, models.ProductInsight{
			Product:               product,
			Assets:                acc.assets,
			ExpectedRevenueImpact: acc.impact,
			AvgProbabilityToClose: roundedAverage(acc.p2cTotal, acc.assets),
		})
	}
	slices.SortFunc(summary.Products, func(a, b models.ProductInsight) int {
		return strings.Compare(a.Product, b.Product)
	})

	return summary
}

type productAccumulator struct {
	assets   int
	impact   float64
	p2cTotal int
}

func roundedAverage(total, count int) int {
	return int(math.Round(float64(total) / float64(count)))
}
