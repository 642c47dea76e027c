package dto

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

type QuoteDto struct {
	QuoteId       string       `json:"quote_id"`
	Version       int          `json:"version"`
	ParentQuoteId null.String  `json:"parent_quote_id"`
	AssetId       string       `json:"asset_id"`
	Customer      string       `json:"customer"`
	CreatedAt     time.Time    `json:"created_at"`
	Status        string       `json:"status"`
	Pricing       PricingDto   `json:"pricing"`
	Contract      ContractDto  `json:"contract"`
	Decision      *DecisionDto `json:"decision"`
	Approval      ApprovalDto  `json:"approval"`
}

type LineItemDto struct {
	Sku   string  `json:"sku"`
	Item  string  `json:"item"`
	Price float64 `json:"price"`
}

type PricingDto struct {
	LineItems        []LineItemDto `json:"line_items"`
	Subtotal         float64       `json:"subtotal"`
	DiscountPct      float64       `json:"discount_pct"`
	DiscountAmount   float64       `json:"discount_amount"`
	Total            float64       `json:"total"`
	DiscountReason   string        `json:"discount_reason"`
	DiscountSource   string        `json:"discount_source"`
	PreviousDiscount null.Float    `json:"previous_discount"`
}

type ContractDto struct {
	ServiceLevel string `json:"service_level"`
	Start        string `json:"start"`
	End          string `json:"end"`
}

type DecisionDto struct {
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type ApprovalDto struct {
	Required   bool      `json:"required"`
	Approved   bool      `json:"approved"`
	ApprovedAt null.Time `json:"approved_at"`
}

func AdaptQuoteDto(q models.Quote) QuoteDto {
	out := QuoteDto{
		QuoteId:       q.QuoteId,
		Version:       q.Version,
		ParentQuoteId: null.StringFromPtr(q.ParentQuoteId),
		AssetId:       q.AssetId,
		Customer:      q.Customer,
		CreatedAt:     q.CreatedAt,
		Status:        string(q.Status),
		Pricing: PricingDto{
			LineItems: utils.Map(q.Pricing.LineItems, func(item models.QuoteLineItem) LineItemDto {
				return LineItemDto{Sku: item.Sku, Item: item.Item, Price: item.Price}
			}),
			Subtotal:         q.Pricing.Subtotal,
			DiscountPct:      q.Pricing.DiscountPct,
			DiscountAmount:   q.Pricing.DiscountAmount,
			Total:            q.Pricing.Total,
			DiscountReason:   q.Pricing.DiscountReason,
			DiscountSource:   string(q.Pricing.DiscountSource),
			PreviousDiscount: null.FloatFromPtr(q.Pricing.PreviousDiscount),
		},
		Contract: ContractDto{
			ServiceLevel: q.Contract.ServiceLevel,
			Start:        q.Contract.Start.Format(DateLayout),
			End:          q.Contract.End.Format(DateLayout),
		},
		Approval: ApprovalDto{
			Required:   q.Approval.Required,
			Approved:   q.Approval.Approved,
			ApprovedAt: null.TimeFromPtr(q.Approval.ApprovedAt),
		},
	}
	if q.Decision != nil {
		out.Decision = &DecisionDto{
			Outcome:   string(q.Decision.Outcome),
			Reason:    q.Decision.Reason,
			Timestamp: q.Decision.Timestamp,
		}
	}
	return out
}

type RejectQuoteBody struct {
	Reason string `json:"reason" binding:"required"`
}

type NegotiationDecisionDto struct {
	Action      string     `json:"action"`
	Intent      string     `json:"intent"`
	Message     string     `json:"message"`
	NewDiscount null.Float `json:"new_discount"`
}

type SalesLeadDto struct {
	LeadType  string    `json:"lead_type"`
	Customer  string    `json:"customer"`
	AssetId   string    `json:"asset_id"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func AdaptSalesLeadDto(l models.SalesLead) SalesLeadDto {
	return SalesLeadDto{
		LeadType:  l.LeadType,
		Customer:  l.Customer,
		AssetId:   l.AssetId,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
	}
}

type NegotiationOutcomeDto struct {
	RejectedQuote QuoteDto               `json:"rejected_quote"`
	Decision      NegotiationDecisionDto `json:"decision"`
	NewQuote      *QuoteDto              `json:"new_quote"`
	Lead          *SalesLeadDto          `json:"lead"`
}

func AdaptNegotiationOutcomeDto(o models.NegotiationOutcome) NegotiationOutcomeDto {
	out := NegotiationOutcomeDto{
		RejectedQuote: AdaptQuoteDto(o.RejectedQuote),
		Decision: NegotiationDecisionDto{
			Action:      string(o.Decision.Action),
			Intent:      string(o.Decision.Intent),
			Message:     o.Decision.Message,
			NewDiscount: null.FloatFromPtr(o.Decision.NewDiscount),
		},
	}
	if o.NewQuote != nil {
		q := AdaptQuoteDto(*o.NewQuote)
		out.NewQuote = &q
	}
	if o.Lead != nil {
		l := AdaptSalesLeadDto(*o.Lead)
		out.Lead = &l
	}
	return out
}
