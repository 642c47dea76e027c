package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkmarble/renewals-backend/dto"
	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/usecases"
	"github.com/checkmarble/renewals-backend/utils"
)

type AssetInput struct {
	SessionId string `uri:"session_id" binding:"required"`
	AssetId   string `uri:"asset_id" binding:"required"`
}

type QuoteInput struct {
	SessionId string `uri:"session_id" binding:"required"`
	QuoteId   string `uri:"quote_id" binding:"required"`
}

func handleGenerateQuote(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input AssetInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}
		quote, err := usecase.GenerateQuote(ctx, session, input.AssetId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptQuoteDto(quote))
	}
}

func handleQuoteHistory(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input AssetInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}
		quotes, err := usecase.QuoteHistory(ctx, session, input.AssetId)
		if presentError(ctx, c, err) {
			return
		}
		out := utils.Map(quotes, dto.AdaptQuoteDto)
		if out == nil {
			out = []dto.QuoteDto{}
		}

		c.JSON(http.StatusOK, gin.H{"quotes": out})
	}
}

func handleGetQuote(uc usecases.Usecases) func(c *gin.Context) {
	return quoteTransitionHandler(uc, func(usecase usecases.RenewalUsecase, c *gin.Context,
		session *usecases.RenewalSession, quoteId string,
	) (models.Quote, error) {
		return usecase.GetQuote(c.Request.Context(), session, quoteId)
	})
}

func handleAcceptQuote(uc usecases.Usecases) func(c *gin.Context) {
	return quoteTransitionHandler(uc, func(usecase usecases.RenewalUsecase, c *gin.Context,
		session *usecases.RenewalSession, quoteId string,
	) (models.Quote, error) {
		return usecase.AcceptQuote(c.Request.Context(), session, quoteId)
	})
}

func handleApproveQuote(uc usecases.Usecases) func(c *gin.Context) {
	return quoteTransitionHandler(uc, func(usecase usecases.RenewalUsecase, c *gin.Context,
		session *usecases.RenewalSession, quoteId string,
	) (models.Quote, error) {
		return usecase.ApproveException(c.Request.Context(), session, quoteId)
	})
}

func quoteTransitionHandler(
	uc usecases.Usecases,
	run func(usecases.RenewalUsecase, *gin.Context, *usecases.RenewalSession, string) (models.Quote, error),
) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input QuoteInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}
		quote, err := run(usecase, c, session, input.QuoteId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptQuoteDto(quote))
	}
}

func handleRejectQuote(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input QuoteInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}
		var body dto.RejectQuoteBody
		if err := c.ShouldBindJSON(&body); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}
		outcome, err := usecase.RejectQuote(ctx, session, input.QuoteId, body.Reason)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptNegotiationOutcomeDto(outcome))
	}
}
