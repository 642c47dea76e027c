package renewals

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/checkmarble/renewals-backend/models"
)

const (
	actNowDaysToExpiry     = 30
	actNowUsageDeclinePct  = 40
	goodToActContractValue = 25000
	goodToActDaysToExpiry  = 90
	upsellUsagePct         = 80
	crossSellAssetAgeYears = 3

	baseProbabilityToClose = 50
	nearExpiryDaysToExpiry = 60
	agingAssetYears        = 4
	highLastDiscountPct    = 15
)

// Discount rate used to estimate the expected revenue impact. It is not related to
// the guardrail caps nor to the asset's actual last discount.
var expectedImpactDiscountRate = map[models.Priority]float64{
	models.PriorityHigh:   0.15,
	models.PriorityMedium: 0.07,
	models.PriorityLow:    0.02,
}

var priorityProbabilityBonus = map[models.Priority]int{
	models.PriorityHigh:   15,
	models.PriorityMedium: 5,
	models.PriorityLow:    0,
}

// ScoreAsset labels one asset. It is deterministic for a given asset and day.
func ScoreAsset(asset models.Asset, now time.Time) (models.ScoredAsset, error) {
	if err := asset.Validate(); err != nil {
		return models.ScoredAsset{}, err
	}

	daysToExpiry := asset.DaysToExpiry(now)
	priority, status := classifyUrgency(asset, daysToExpiry)
	expansion := classifyExpansion(asset)

	scored := models.ScoredAsset{
		Asset:                 asset,
		DaysToExpiry:          daysToExpiry,
		Priority:              priority,
		Status:                status,
		Expansion:             expansion,
		ExpectedRevenueImpact: math.Round(asset.ContractValue * (1 - expectedImpactDiscountRate[priority])),
		Explanation:           "Rule-based decision",
		ScoredAt:              now,
	}
	scored.ProbabilityToClose = ProbabilityToClose(scored)

	return scored, nil
}

// ScoreAssets scores a batch and stops at the first invalid asset.
func ScoreAssets(assets []models.Asset, now time.Time) ([]models.ScoredAsset, error) {
	scored := make([]models.ScoredAsset, 0, len(assets))
	for i, asset := range assets {
		s, err := ScoreAsset(asset, now)
		if err != nil {
			return nil, errors.Wrapf(err, "asset at position %d", i)
		}
		scored = append(scored, s)
	}
	return scored, nil
}

func classifyUrgency(asset models.Asset, daysToExpiry int) (models.Priority, models.OpportunityStatus) {
	switch {
	case daysToExpiry <= actNowDaysToExpiry || asset.UsageDeclinePct >= actNowUsageDeclinePct:
		return models.PriorityHigh, models.StatusActNow
	case asset.ContractValue > goodToActContractValue || daysToExpiry <= goodToActDaysToExpiry:
		return models.PriorityMedium, models.StatusGoodToAct
	default:
		return models.PriorityLow, models.StatusMonitor
	}
}

func classifyExpansion(asset models.Asset) models.Expansion {
	switch {
	case asset.UsagePct >= upsellUsagePct:
		return models.ExpansionUpsell
	case asset.AssetAgeYears >= crossSellAssetAgeYears:
		return models.ExpansionCrossSell
	default:
		return models.ExpansionRenewalOnly
	}
}

// ProbabilityToClose computes the heuristic renewal likelihood from an already
// classified asset, clamped to [0, 100].
func ProbabilityToClose(s models.ScoredAsset) int {
	score := baseProbabilityToClose

	if s.DaysToExpiry <= actNowDaysToExpiry {
		score += 20
	} else if s.DaysToExpiry <= nearExpiryDaysToExpiry {
		score += 10
	}

	if s.UsagePct >= upsellUsagePct {
		score += 20
	}
	if s.UsageDeclinePct >= actNowUsageDeclinePct {
		score -= 15
	}
	if s.AssetAgeYears >= agingAssetYears {
		score -= 10
	}

	score += priorityProbabilityBonus[s.Priority]

	if s.Expansion.HasAddOn() {
		score += 10
	}
	if s.LastDiscountPct >= highLastDiscountPct {
		score -= 10
	}

	return models.ClampProbability(score)
}

// Rescore relabels an asset snapshot while keeping the advice and the hold flag of the
// previous pass. The advisory nudge is applied again on top of the new rule score.
func Rescore(previous models.ScoredAsset, asset models.Asset, now time.Time) (models.ScoredAsset, error) {
	scored, err := ScoreAsset(asset, now)
	if err != nil {
		return models.ScoredAsset{}, err
	}
	scored = scored.WithAdvice(models.Advice{
		Nudge:       previous.AdvisoryNudge,
		Explanation: previous.Explanation,
	})
	scored.OnHold = previous.OnHold
	return scored, nil
}
