package renewals

import (
	"fmt"

	"github.com/checkmarble/renewals-backend/models"
)

// Single discount step granted per price rejection.
const negotiationDiscountStep = 5.0

const (
	maxRejectionReasonInQuote = 120
	maxRejectionReasonInLead  = 500
)

// Negotiate decides the next action after a rejection, given the asset's live last
// discount and the classified intent. It never grants more than one discount step nor
// goes beyond the guardrail of the asset's priority.
func Negotiate(asset models.ScoredAsset, intent models.Intent) models.NegotiationDecision {
	switch intent {
	case models.IntentPrice:
		current := asset.LastDiscountPct
		newDiscount := min(current+negotiationDiscountStep, models.MaxDiscount(asset.Priority))
		if newDiscount > current {
			return models.NegotiationDecision{
				Action:      models.ActionNewQuote,
				Intent:      intent,
				Message:     "Offering revised quote with higher discount.",
				NewDiscount: &newDiscount,
			}
		}
		return models.NegotiationDecision{
			Action:  models.ActionSalesIntervention,
			Intent:  intent,
			Message: "Max discount reached. Escalate to sales.",
		}

	case models.IntentHardwareChange:
		return models.NegotiationDecision{
			Action:  models.ActionCreateLead,
			Intent:  intent,
			Message: "Customer planning hardware change. New sales lead created.",
		}

	case models.IntentTiming:
		return models.NegotiationDecision{
			Action:  models.ActionOnHold,
			Intent:  intent,
			Message: "Opportunity put on hold.",
		}

	default:
		return models.NegotiationDecision{
			Action:  models.ActionSalesIntervention,
			Intent:  models.IntentUnclear,
			Message: "Unable to auto-resolve. Sales follow-up required.",
		}
	}
}

func RevisedDiscountReason(rejectionReason string) string {
	return fmt.Sprintf("Customer rejected previous quote due to price: %s",
		truncate(rejectionReason, maxRejectionReasonInQuote))
}

func HardwareRefreshLead(asset models.ScoredAsset, rejectionReason string) models.SalesLead {
	return models.SalesLead{
		LeadType: models.LeadTypeHardwareRefresh,
		Customer: asset.Customer,
		AssetId:  asset.AssetId,
		Notes:    truncate(rejectionReason, maxRejectionReasonInLead),
	}
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
