package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/renewals-backend/dto"
	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/repositories"
	"github.com/checkmarble/renewals-backend/usecases"
	"github.com/checkmarble/renewals-backend/utils"
)

type SessionInput struct {
	SessionId string `uri:"session_id" binding:"required"`
}

func handlePostSession(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var query dto.SessionQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.NewSession(ctx, query.Sample)
		if presentError(ctx, c, err) {
			return
		}
		items, _ := usecase.Worklist(ctx, session, models.WorklistFilter{})

		c.JSON(http.StatusCreated, dto.SessionDto{
			SessionId: session.Id.String(),
			CreatedAt: session.CreatedAt,
			Assets:    dto.AdaptScoredAssetsDto(items).Assets,
		})
	}
}

func handlePostAssets(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input SessionInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}
		var body []dto.AssetDto
		if err := c.ShouldBindJSON(&body); err != nil {
			presentError(ctx, c, errors.Wrap(models.ErrInvalidAsset, err.Error()))
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}

		assets, err := utils.MapErr(body, dto.AdaptAsset)
		if presentError(ctx, c, err) {
			return
		}
		scored, err := usecase.ScoreAssets(ctx, session, assets)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusCreated, dto.AdaptScoredAssetsDto(scored))
	}
}

func handleUploadAssets(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input SessionInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			presentBindingError(c, errors.Wrap(err, "expecting a multipart form with a \"file\" field"))
			return
		}
		format, err := repositories.AssetFileFormatFromName(fileHeader.Filename)
		if presentError(ctx, c, err) {
			return
		}
		file, err := fileHeader.Open()
		if presentError(ctx, c, err) {
			return
		}
		defer file.Close()

		assets, err := repositories.ReadAssets(file, format)
		if presentError(ctx, c, err) {
			return
		}
		scored, err := usecase.ScoreAssets(ctx, session, assets)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusCreated, dto.AdaptScoredAssetsDto(scored))
	}
}

func handleGetWorklist(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input SessionInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}
		var query dto.WorklistQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}
		items, summary := usecase.Worklist(ctx, session, dto.AdaptWorklistFilter(query))

		c.JSON(http.StatusOK, dto.WorklistDto{
			SessionId: session.Id.String(),
			Assets:    dto.AdaptScoredAssetsDto(items).Assets,
			Summary:   dto.AdaptWorklistSummaryDto(summary),
		})
	}
}

func handleListLeads(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input SessionInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentBindingError(c, err)
			return
		}

		usecase := uc.NewRenewalUsecase()
		session, err := usecase.GetSession(ctx, input.SessionId)
		if presentError(ctx, c, err) {
			return
		}
		leads := utils.Map(usecase.Leads(ctx, session), dto.AdaptSalesLeadDto)
		if leads == nil {
			leads = []dto.SalesLeadDto{}
		}

		c.JSON(http.StatusOK, gin.H{"leads": leads})
	}
}
