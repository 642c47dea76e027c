package models

type WorklistFilter struct {
	CustomerTypes   []string
	Products        []string
	Priorities      []Priority
	MaxDaysToExpiry *int
}

type WorklistSummary struct {
	HighPriorityCount     int
	MediumPriorityCount   int
	LowPriorityCount      int
	ExpectedRevenueImpact float64
	AvgProbabilityToClose int
	Products              []ProductInsight
}

type ProductInsight struct {
	Product               string
	Assets                int
	ExpectedRevenueImpact float64
	AvgProbabilityToClose int
}
