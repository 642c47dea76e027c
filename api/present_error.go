package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/renewals-backend/dto"
	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

var errorCodes = []struct {
	err  error
	code dto.ErrorCode
}{
	{models.ErrInvalidAsset, dto.InvalidAsset},
	{models.ErrVersionConflict, dto.VersionConflict},
	{models.ErrUnknownQuote, dto.UnknownQuote},
	{models.ErrApprovalRequired, dto.ApprovalRequired},
	{models.ErrQuoteNotPending, dto.QuoteNotPending},
	{models.ErrUnknownSession, dto.UnknownSession},
	{models.ErrUnknownAsset, dto.UnknownAsset},
}

func errorCode(err error) dto.ErrorCode {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ""
}

func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	logger := utils.LoggerFromContext(ctx)
	response := dto.APIErrorResponse{Message: err.Error(), ErrorCode: errorCode(err)}

	switch {
	case errors.Is(err, models.BadParameterError):
		logger.InfoContext(ctx, "BadParameterError: "+err.Error())
		c.JSON(http.StatusBadRequest, response)
	case errors.Is(err, models.NotFoundError):
		logger.InfoContext(ctx, "NotFoundError: "+err.Error())
		c.JSON(http.StatusNotFound, response)
	case errors.Is(err, models.ConflictError):
		logger.InfoContext(ctx, "ConflictError: "+err.Error())
		c.JSON(http.StatusConflict, response)
	case errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(ctx, "Request timed out: "+err.Error())
		c.JSON(http.StatusRequestTimeout, dto.APIErrorResponse{Message: "request timeout"})
	default:
		utils.LogAndReportSentryError(ctx, err)
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{Message: "An unexpected error occurred"})
	}
	return true
}

func presentBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
}
