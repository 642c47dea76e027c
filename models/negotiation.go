package models

import (
	"strings"
	"time"

	"github.com/hashicorp/go-set/v2"
)

type Intent string

const (
	IntentPrice          Intent = "price"
	IntentHardwareChange Intent = "hardware_change"
	IntentTiming         Intent = "timing"
	IntentUnclear        Intent = "unclear"
)

var intentVocabulary = set.From([]Intent{
	IntentPrice,
	IntentHardwareChange,
	IntentTiming,
	IntentUnclear,
})

// IntentFrom parses an exact intent tag. Anything outside the vocabulary is reported
// as not found.
func IntentFrom(s string) (Intent, bool) {
	intent := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !intentVocabulary.Contains(intent) {
		return IntentUnclear, false
	}
	return intent, true
}

type NegotiationAction string

const (
	ActionNewQuote          NegotiationAction = "new_quote"
	ActionCreateLead        NegotiationAction = "create_lead"
	ActionOnHold            NegotiationAction = "on_hold"
	ActionSalesIntervention NegotiationAction = "sales_intervention"
)

type NegotiationDecision struct {
	Action  NegotiationAction
	Intent  Intent
	Message string

	// Only set when Action is ActionNewQuote
	NewDiscount *float64
}

// NegotiationOutcome is what the rejection flow hands back to the caller: the rejected
// quote, the decision, and the artefact the decision produced, if any.
type NegotiationOutcome struct {
	RejectedQuote Quote
	Decision      NegotiationDecision
	NewQuote      *Quote
	Lead          *SalesLead
}

const LeadTypeHardwareRefresh = "Hardware Refresh"

type SalesLead struct {
	LeadType  string
	Customer  string
	AssetId   string
	Notes     string
	CreatedAt time.Time
}
