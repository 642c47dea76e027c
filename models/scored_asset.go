package models

import "time"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type OpportunityStatus string

const (
	StatusActNow    OpportunityStatus = "ActNow"
	StatusGoodToAct OpportunityStatus = "GoodToAct"
	StatusMonitor   OpportunityStatus = "Monitor"
)

type Expansion string

const (
	ExpansionUpsell      Expansion = "Upsell"
	ExpansionCrossSell   Expansion = "CrossSell"
	ExpansionRenewalOnly Expansion = "RenewalOnly"
)

// HasAddOn is true for the expansion categories that are quoted with an add-on line.
func (e Expansion) HasAddOn() bool {
	return e == ExpansionUpsell || e == ExpansionCrossSell
}

func PriorityFrom(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), true
	default:
		return "", false
	}
}

const (
	MinProbabilityToClose = 0
	MaxProbabilityToClose = 100
)

// ScoredAsset is an asset snapshot labelled by one scoring pass.
type ScoredAsset struct {
	Asset

	DaysToExpiry          int
	Priority              Priority
	Status                OpportunityStatus
	Expansion             Expansion
	ExpectedRevenueImpact float64
	ProbabilityToClose    int
	Explanation           string
	// Advisory adjustment already included in ProbabilityToClose
	AdvisoryNudge int
	ScoredAt      time.Time

	// Set when a negotiation put the renewal on hold
	OnHold bool
}

// Advice is the advisory output of the explanation collaborator.
type Advice struct {
	Nudge       int
	Explanation string
}

const MaxAdvisoryNudge = 5

// WithAdvice returns a copy with the advisory nudge applied to the probability to close.
// Priority and status are left untouched.
func (s ScoredAsset) WithAdvice(advice Advice) ScoredAsset {
	nudge := min(max(advice.Nudge, -MaxAdvisoryNudge), MaxAdvisoryNudge)
	s.ProbabilityToClose = ClampProbability(s.ProbabilityToClose + nudge)
	s.AdvisoryNudge = nudge
	if advice.Explanation != "" {
		s.Explanation = advice.Explanation
	}
	return s
}

func ClampProbability(score int) int {
	return min(max(score, MinProbabilityToClose), MaxProbabilityToClose)
}

type P2CBand string

const (
	P2CBandHigh   P2CBand = "High"
	P2CBandMedium P2CBand = "Medium"
	P2CBandLow    P2CBand = "Low"
)

func P2CBandOf(score int) P2CBand {
	switch {
	case score >= 70:
		return P2CBandHigh
	case score >= 40:
		return P2CBandMedium
	default:
		return P2CBandLow
	}
}
