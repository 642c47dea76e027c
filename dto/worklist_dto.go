package dto

import (
	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

type WorklistQuery struct {
	CustomerTypes   []string `form:"customer_type"`
	Products        []string `form:"product"`
	Priorities      []string `form:"priority" binding:"dive,oneof=High Medium Low"`
	MaxDaysToExpiry *int     `form:"max_days_to_expiry" binding:"omitempty,gte=0,lte=365"`
}

func AdaptWorklistFilter(q WorklistQuery) models.WorklistFilter {
	return models.WorklistFilter{
		CustomerTypes:   q.CustomerTypes,
		Products:        q.Products,
		Priorities:      utils.Map(q.Priorities, func(p string) models.Priority { return models.Priority(p) }),
		MaxDaysToExpiry: q.MaxDaysToExpiry,
	}
}

type ProductInsightDto struct {
	Product               string  `json:"product"`
	Assets                int     `json:"assets"`
	ExpectedRevenueImpact float64 `json:"expected_revenue_impact"`
	AvgProbabilityToClose int     `json:"avg_probability_to_close"`
}

type WorklistSummaryDto struct {
	HighPriorityCount     int                 `json:"high_priority_count"`
	MediumPriorityCount   int                 `json:"medium_priority_count"`
	LowPriorityCount      int                 `json:"low_priority_count"`
	ExpectedRevenueImpact float64             `json:"expected_revenue_impact"`
	AvgProbabilityToClose int                 `json:"avg_probability_to_close"`
	Products              []ProductInsightDto `json:"products"`
}

func AdaptWorklistSummaryDto(s models.WorklistSummary) WorklistSummaryDto {
	return WorklistSummaryDto{
		HighPriorityCount:     s.HighPriorityCount,
		MediumPriorityCount:   s.MediumPriorityCount,
		LowPriorityCount:      s.LowPriorityCount,
		ExpectedRevenueImpact: s.ExpectedRevenueImpact,
		AvgProbabilityToClose: s.AvgProbabilityToClose,
		Products: utils.Map(s.Products, func(p models.ProductInsight) ProductInsightDto {
			return ProductInsightDto{
				Product:               p.Product,
				Assets:                p.Assets,
				ExpectedRevenueImpact: p.ExpectedRevenueImpact,
				AvgProbabilityToClose: p.AvgProbabilityToClose,
			}
		}),
	}
}

type WorklistDto struct {
	SessionId string             `json:"session_id"`
	Assets    []ScoredAssetDto   `json:"assets"`
	Summary   WorklistSummaryDto `json:"summary"`
}
