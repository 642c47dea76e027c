package renewals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmarble/renewals-backend/models"
)

func TestNegotiate_PriceStepsUpToGuardrail(t *testing.T) {
	scored, err := ScoreAsset(assetWith(func(a *models.Asset) { a.LastDiscountPct = 20 }), testNow)
	require.NoError(t, err)
	require.Equal(t, models.PriorityHigh, scored.Priority)

	decision := Negotiate(scored, models.IntentPrice)
	assert.Equal(t, models.ActionNewQuote, decision.Action)
	require.NotNil(t, decision.NewDiscount)
	assert.Equal(t, 25.0, *decision.NewDiscount)

	capped, err := Rescore(scored, scored.WithLastDiscount(*decision.NewDiscount), testNow)
	require.NoError(t, err)

	decision = Negotiate(capped, models.IntentPrice)
	assert.Equal(t, models.ActionSalesIntervention, decision.Action)
	assert.Equal(t, models.IntentPrice, decision.Intent)
	assert.Nil(t, decision.NewDiscount)
}

func TestNegotiate_PriceIsCappedByPriority(t *testing.T) {
	scored, err := ScoreAsset(assetWith(func(a *models.Asset) {
		a.ContractEnd = testNow.AddDate(0, 0, 200)
		a.ContractValue = 10000
		a.LastDiscountPct = 3
	}), testNow)
	require.NoError(t, err)
	require.Equal(t, models.PriorityLow, scored.Priority)

	decision := Negotiate(scored, models.IntentPrice)
	assert.Equal(t, models.ActionNewQuote, decision.Action)
	assert.Equal(t, 5.0, *decision.NewDiscount)
}

func TestNegotiate_AboveGuardrailEscalates(t *testing.T) {
	scored, err := ScoreAsset(assetWith(func(a *models.Asset) {
		a.ContractEnd = testNow.AddDate(0, 0, 200)
		a.ContractValue = 10000
		a.LastDiscountPct = 8
	}), testNow)
	require.NoError(t, err)

	decision := Negotiate(scored, models.IntentPrice)
	assert.Equal(t, models.ActionSalesIntervention, decision.Action)
}

func TestNegotiate_OtherIntents(t *testing.T) {
	scored, err := ScoreAsset(assetA1(), testNow)
	require.NoError(t, err)

	assert.Equal(t, models.ActionCreateLead, Negotiate(scored, models.IntentHardwareChange).Action)
	assert.Equal(t, models.ActionOnHold, Negotiate(scored, models.IntentTiming).Action)

	decision := Negotiate(scored, models.IntentUnclear)
	assert.Equal(t, models.ActionSalesIntervention, decision.Action)
	assert.Equal(t, "Unable to auto-resolve. Sales follow-up required.", decision.Message)

	decision = Negotiate(scored, models.Intent("shrug"))
	assert.Equal(t, models.ActionSalesIntervention, decision.Action)
	assert.Equal(t, models.IntentUnclear, decision.Intent)
}

func TestHardwareRefreshLead(t *testing.T) {
	scored, err := ScoreAsset(assetA1(), testNow)
	require.NoError(t, err)

	lead := HardwareRefreshLead(scored, strings.Repeat("é", 600))
	assert.Equal(t, models.LeadTypeHardwareRefresh, lead.LeadType)
	assert.Equal(t, "ABC Corp", lead.Customer)
	assert.Equal(t, "A-1", lead.AssetId)
	assert.Equal(t, 500, len([]rune(lead.Notes)))
}

func TestRevisedDiscountReason_Truncates(t *testing.T) {
	reason := RevisedDiscountReason(strings.Repeat("x", 300))
	assert.Equal(t, "Customer rejected previous quote due to price: "+strings.Repeat("x", 120), reason)
}
