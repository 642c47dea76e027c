package models

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "PENDING"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteRejected QuoteStatus = "REJECTED"
)

type DiscountSource string

const (
	DiscountSourceRulesEngine      DiscountSource = "rules_engine"
	DiscountSourceNegotiationAgent DiscountSource = "negotiation_agent"
)

const InitialDiscountReason = "Initial system generated discount"

type Quote struct {
	QuoteId       string
	Version       int
	ParentQuoteId *string
	AssetId       string
	Customer      string
	CreatedAt     time.Time
	Status        QuoteStatus

	Pricing  QuotePricing
	Contract QuoteContract
	Decision *QuoteDecision
	Approval QuoteApproval
}

type QuoteLineItem struct {
	Sku   string
	Item  string
	Price float64
}

type QuotePricing struct {
	LineItems        []QuoteLineItem
	Subtotal         float64
	DiscountPct      float64
	DiscountAmount   float64
	Total            float64
	DiscountReason   string
	DiscountSource   DiscountSource
	PreviousDiscount *float64
}

type QuoteContract struct {
	ServiceLevel string
	Start        time.Time
	End          time.Time
}

type QuoteDecision struct {
	Outcome   QuoteStatus
	Reason    string
	Timestamp time.Time
}

type QuoteApproval struct {
	Required   bool
	Approved   bool
	ApprovedAt *time.Time
}

func QuoteIdFor(assetId string, version int) string {
	return fmt.Sprintf("%s-v%d", assetId, version)
}

// RequireApprovalIfBreaching flags the quote for approval when its discount exceeds
// the guardrail of the given priority. Once required, approval stays required.
func (q *Quote) RequireApprovalIfBreaching(priority Priority) {
	if BreachesGuardrail(priority, q.Pricing.DiscountPct) {
		q.Approval.Required = true
	}
}

func (q *Quote) Accept(now time.Time) error {
	if q.Status != QuotePending {
		return errors.Wrapf(ErrQuoteNotPending, "quote %s is %s", q.QuoteId, q.Status)
	}
	if q.Approval.Required && !q.Approval.Approved {
		return errors.Wrapf(ErrApprovalRequired, "quote %s discount of %.0f%%",
			q.QuoteId, q.Pricing.DiscountPct)
	}
	q.Status = QuoteAccepted
	q.Decision = &QuoteDecision{Outcome: QuoteAccepted, Timestamp: now}
	return nil
}

func (q *Quote) Reject(reason string, now time.Time) error {
	if q.Status != QuotePending {
		return errors.Wrapf(ErrQuoteNotPending, "quote %s is %s", q.QuoteId, q.Status)
	}
	q.Status = QuoteRejected
	q.Decision = &QuoteDecision{Outcome: QuoteRejected, Reason: reason, Timestamp: now}
	return nil
}

// Approve records the approval of a guardrail exception. Approving twice keeps the
// first approval timestamp. Only pending quotes can be approved.
func (q *Quote) Approve(now time.Time) error {
	if q.Approval.Approved {
		return nil
	}
	if q.Status != QuotePending {
		return errors.Wrapf(ErrQuoteNotPending, "quote %s is %s", q.QuoteId, q.Status)
	}
	q.Approval.Approved = true
	q.Approval.ApprovedAt = &now
	return nil
}
