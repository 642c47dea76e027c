package models

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

// Asset is a renewable contract line, as supplied by the caller's data source.
type Asset struct {
	AssetId      string
	Customer     string
	CustomerType string
	Product      string
	Licensing    string

	ContractValue   float64
	ContractStart   time.Time
	ContractEnd     time.Time
	LastDiscountPct float64

	UsagePct        float64
	UsageDeclinePct float64
	AssetAgeYears   float64
}

// WithLastDiscount returns a copy of the asset carrying a new last discount.
// It is the only field that changes between quote versions.
func (a Asset) WithLastDiscount(discountPct float64) Asset {
	a.LastDiscountPct = discountPct
	return a
}

// DaysToExpiry counts whole calendar days between today and the contract end, each
// read as a date in its own zone. It is negative once the contract has expired.
func (a Asset) DaysToExpiry(today time.Time) int {
	end := StartOfDay(a.ContractEnd)
	return int(math.Round(end.Sub(StartOfDay(today)).Hours() / 24))
}

func (a Asset) Validate() error {
	errs := FieldValidationError{}

	if a.AssetId == "" {
		errs["asset_id"] = "is required"
	}
	if a.Customer == "" {
		errs["customer"] = "is required"
	}
	if a.ContractStart.IsZero() {
		errs["contract_start"] = "is required"
	}
	if a.ContractEnd.IsZero() {
		errs["contract_end"] = "is required"
	}
	if !a.ContractStart.IsZero() && !a.ContractEnd.IsZero() && a.ContractEnd.Before(a.ContractStart) {
		errs["contract_end"] = "must not be before contract_start"
	}

	validateAmount(errs, "contract_value", a.ContractValue)
	validateAmount(errs, "asset_age_years", a.AssetAgeYears)
	validatePercentage(errs, "usage_pct", a.UsagePct)
	validatePercentage(errs, "usage_decline_pct", a.UsageDeclinePct)
	validatePercentage(errs, "last_discount_pct", a.LastDiscountPct)

	if len(errs) > 0 {
		return errors.Wrapf(ErrInvalidAsset, "asset %q: %s", a.AssetId, errs.Error())
	}
	return nil
}

func validateAmount(errs FieldValidationError, field string, value float64) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		errs[field] = "must be a finite number"
	case value < 0:
		errs[field] = "must not be negative"
	}
}

func validatePercentage(errs FieldValidationError, field string, value float64) {
	validateAmount(errs, field, value)
	if _, ok := errs[field]; !ok && value > 100 {
		errs[field] = "must be between 0 and 100"
	}
}

// StartOfDay keeps the calendar date of t as seen in its own zone, at midnight UTC,
// so that dates parsed from files and the local clock compare on the same axis.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
