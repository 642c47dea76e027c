package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

type ErrorCode string

const (
	InvalidAsset     ErrorCode = "invalid_asset"
	VersionConflict  ErrorCode = "version_conflict"
	UnknownQuote     ErrorCode = "unknown_quote"
	ApprovalRequired ErrorCode = "approval_required"
	QuoteNotPending  ErrorCode = "quote_not_pending"
	UnknownSession   ErrorCode = "unknown_session"
	UnknownAsset     ErrorCode = "unknown_asset"
)
