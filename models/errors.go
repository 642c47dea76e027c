package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// Asset ingestion
var ErrInvalidAsset = errors.Wrap(BadParameterError, "invalid asset")

// Quote ledger and quote lifecycle
var (
	ErrVersionConflict  = errors.Wrap(ConflictError, "quote version conflict")
	ErrUnknownQuote     = errors.Wrap(NotFoundError, "unknown quote")
	ErrApprovalRequired = errors.Wrap(ConflictError, "discount exceeds guardrail: approval required")
	ErrQuoteNotPending  = errors.Wrap(ConflictError, "quote is not pending")
)

// Renewal sessions
var (
	ErrUnknownSession = errors.Wrap(NotFoundError, "unknown renewal session")
	ErrUnknownAsset   = errors.Wrap(NotFoundError, "unknown asset")
)

// ErrClassifierUnavailable is recovered locally by the negotiation flow and never
// rendered to API callers.
var ErrClassifierUnavailable = errors.New("intent classifier unavailable")

// FieldValidationError lists the invalid fields of an ingested record, keyed by field name.
type FieldValidationError map[string]string

func (e FieldValidationError) Error() string {
	return fmt.Sprintf("%v", map[string]string(e))
}
