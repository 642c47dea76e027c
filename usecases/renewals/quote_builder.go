package renewals

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/checkmarble/renewals-backend/models"
)

const (
	renewalTermDays = 365
	addOnPrice      = 5000.0

	premiumServiceLevel  = "Premium Support"
	standardServiceLevel = "Standard Renewal Support"
)

var (
	premiumSupportLine  = models.QuoteLineItem{Sku: "SUP-PREM-01", Item: premiumServiceLevel}
	standardSupportLine = models.QuoteLineItem{Sku: "SUP-STD-01", Item: standardServiceLevel}
	analyticsAddOnLine  = models.QuoteLineItem{Sku: "ANL-ADV-02", Item: "Advanced Analytics", Price: addOnPrice}
)

type QuoteInput struct {
	Asset            models.ScoredAsset
	Version          int
	ParentQuoteId    *string
	DiscountReason   string
	DiscountSource   models.DiscountSource
	PreviousDiscount *float64
	Now              time.Time
}

// BuildQuote prices a renewal quote for the asset's current last discount. It does
// not touch the asset nor any existing quote.
func BuildQuote(input QuoteInput) (models.Quote, error) {
	if input.Version < 1 {
		return models.Quote{}, errors.Wrapf(models.ErrVersionConflict,
			"quote version must be positive, got %d", input.Version)
	}

	asset := input.Asset
	lineItems := buildLineItems(asset)

	subtotal := 0.0
	for _, item := range lineItems {
		subtotal += item.Price
	}
	discountPct := asset.LastDiscountPct
	discountAmount := DiscountAmount(subtotal, discountPct)

	reason := input.DiscountReason
	if reason == "" {
		reason = models.InitialDiscountReason
	}
	source := input.DiscountSource
	if source == "" {
		source = models.DiscountSourceRulesEngine
	}

	start := models.StartOfDay(input.Now)

	return models.Quote{
		QuoteId:       models.QuoteIdFor(asset.AssetId, input.Version),
		Version:       input.Version,
		ParentQuoteId: copyPtr(input.ParentQuoteId),
		AssetId:       asset.AssetId,
		Customer:      asset.Customer,
		CreatedAt:     input.Now,
		Status:        models.QuotePending,
		Pricing: models.QuotePricing{
			LineItems:        lineItems,
			Subtotal:         subtotal,
			DiscountPct:      discountPct,
			DiscountAmount:   discountAmount,
			Total:            subtotal - discountAmount,
			DiscountReason:   reason,
			DiscountSource:   source,
			PreviousDiscount: copyPtr(input.PreviousDiscount),
		},
		Contract: models.QuoteContract{
			ServiceLevel: serviceLevel(asset.Expansion),
			Start:        start,
			End:          start.AddDate(0, 0, renewalTermDays),
		},
	}, nil
}

// DiscountAmount rounds to the nearest currency unit.
func DiscountAmount(subtotal, discountPct float64) float64 {
	return math.Round(subtotal * discountPct / 100)
}

func buildLineItems(asset models.ScoredAsset) []models.QuoteLineItem {
	base := standardSupportLine
	if asset.Expansion == models.ExpansionUpsell {
		base = premiumSupportLine
	}
	base.Price = asset.ContractValue

	items := []models.QuoteLineItem{base}
	if asset.Expansion.HasAddOn() {
		items = append(items, analyticsAddOnLine)
	}
	return items
}

func serviceLevel(expansion models.Expansion) string {
	if expansion == models.ExpansionUpsell {
		return premiumServiceLevel
	}
	return standardServiceLevel
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
