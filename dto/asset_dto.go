package dto

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/checkmarble/renewals-backend/models"
)

const DateLayout = "2006-01-02"

// AssetDto is the ingestion schema of an asset. Every commercial and usage field is
// required: a missing value is an invalid asset, never a default.
type AssetDto struct {
	AssetId      string `json:"asset_id" binding:"required"`
	Customer     string `json:"customer" binding:"required"`
	CustomerType string `json:"customer_type"`
	Product      string `json:"product"`
	Licensing    string `json:"licensing"`

	ContractValue   *float64 `json:"contract_value" binding:"required,gte=0"`
	ContractStart   string   `json:"contract_start" binding:"required,datetime=2006-01-02"`
	ContractEnd     string   `json:"contract_end" binding:"required,datetime=2006-01-02"`
	LastDiscountPct *float64 `json:"last_discount_pct" binding:"required,gte=0,lte=100"`

	UsagePct        *float64 `json:"usage_pct" binding:"required,gte=0,lte=100"`
	UsageDeclinePct *float64 `json:"usage_decline_pct" binding:"required,gte=0,lte=100"`
	AssetAgeYears   *float64 `json:"asset_age_years" binding:"required,gte=0"`
}

var assetValidator = newAssetValidator()

func newAssetValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

// ValidateAssetDto runs the same rules as the gin binding, for assets read from files.
func ValidateAssetDto(a AssetDto) error {
	if err := assetValidator.Struct(a); err != nil {
		return errors.Wrapf(models.ErrInvalidAsset, "asset %q: %s", a.AssetId, err.Error())
	}
	return nil
}

func AdaptAsset(a AssetDto) (models.Asset, error) {
	if err := ValidateAssetDto(a); err != nil {
		return models.Asset{}, err
	}

	contractStart, err := time.Parse(DateLayout, a.ContractStart)
	if err != nil {
		return models.Asset{}, errors.Wrapf(models.ErrInvalidAsset, "asset %q: contract_start: %s", a.AssetId, err)
	}
	contractEnd, err := time.Parse(DateLayout, a.ContractEnd)
	if err != nil {
		return models.Asset{}, errors.Wrapf(models.ErrInvalidAsset, "asset %q: contract_end: %s", a.AssetId, err)
	}

	asset := models.Asset{
		AssetId:         a.AssetId,
		Customer:        a.Customer,
		CustomerType:    a.CustomerType,
		Product:         a.Product,
		Licensing:       a.Licensing,
		ContractValue:   *a.ContractValue,
		ContractStart:   contractStart,
		ContractEnd:     contractEnd,
		LastDiscountPct: *a.LastDiscountPct,
		UsagePct:        *a.UsagePct,
		UsageDeclinePct: *a.UsageDeclinePct,
		AssetAgeYears:   *a.AssetAgeYears,
	}
	return asset, asset.Validate()
}

type ScoredAssetDto struct {
	AssetId         string  `json:"asset_id"`
	Customer        string  `json:"customer"`
	CustomerType    string  `json:"customer_type"`
	Product         string  `json:"product"`
	Licensing       string  `json:"licensing"`
	ContractValue   float64 `json:"contract_value"`
	ContractStart   string  `json:"contract_start"`
	ContractEnd     string  `json:"contract_end"`
	LastDiscountPct float64 `json:"last_discount_pct"`
	UsagePct        float64 `json:"usage_pct"`
	UsageDeclinePct float64 `json:"usage_decline_pct"`
	AssetAgeYears   float64 `json:"asset_age_years"`

	DaysToExpiry          int       `json:"days_to_expiry"`
	Priority              string    `json:"priority"`
	Status                string    `json:"status"`
	Expansion             string    `json:"expansion"`
	ExpectedRevenueImpact float64   `json:"expected_revenue_impact"`
	ProbabilityToClose    int       `json:"probability_to_close"`
	ProbabilityBand       string    `json:"probability_band"`
	AdvisoryNudge         int       `json:"advisory_nudge"`
	Explanation           string    `json:"explanation"`
	ScoredAt              time.Time `json:"scored_at"`
	OnHold                bool      `json:"on_hold"`
}

func AdaptScoredAssetDto(s models.ScoredAsset) ScoredAssetDto {
	return ScoredAssetDto{
		AssetId:               s.AssetId,
		Customer:              s.Customer,
		CustomerType:          s.CustomerType,
		Product:               s.Product,
		Licensing:             s.Licensing,
		ContractValue:         s.ContractValue,
		ContractStart:         s.ContractStart.Format(DateLayout),
		ContractEnd:           s.ContractEnd.Format(DateLayout),
		LastDiscountPct:       s.LastDiscountPct,
		UsagePct:              s.UsagePct,
		UsageDeclinePct:       s.UsageDeclinePct,
		AssetAgeYears:         s.AssetAgeYears,
		DaysToExpiry:          s.DaysToExpiry,
		Priority:              string(s.Priority),
		Status:                string(s.Status),
		Expansion:             string(s.Expansion),
		ExpectedRevenueImpact: s.ExpectedRevenueImpact,
		ProbabilityToClose:    s.ProbabilityToClose,
		AdvisoryNudge:         s.AdvisoryNudge,
		ProbabilityBand:       string(models.P2CBandOf(s.ProbabilityToClose)),
		Explanation:           s.Explanation,
		ScoredAt:              s.ScoredAt,
		OnHold:                s.OnHold,
	}
}
