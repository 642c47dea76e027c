package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/checkmarble/renewals-backend/dto"
	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/repositories"
	"github.com/checkmarble/renewals-backend/usecases"
	"github.com/checkmarble/renewals-backend/utils"
)

// RunWorklist scores an asset file, or the sample assets when assetsPath is empty, and
// writes the worklist with its summary as JSON. It runs offline, on rules only.
func RunWorklist(assetsPath string, out io.Writer) error {
	// stdout carries the worklist
	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"), os.Stderr)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	uc := usecases.NewUsecases(repositories.NewRepositories())
	usecase := uc.NewRenewalUsecase()

	session, err := usecase.NewSession(ctx, assetsPath == "")
	if err != nil {
		return err
	}
	if assetsPath != "" {
		assets, err := repositories.ReadAssetFile(assetsPath)
		if err != nil {
			return err
		}
		if _, err := usecase.ScoreAssets(ctx, session, assets); err != nil {
			return err
		}
	}

	items, summary := usecase.Worklist(ctx, session, models.WorklistFilter{})

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dto.WorklistDto{
		SessionId: session.Id.String(),
		Assets:    dto.AdaptScoredAssetsDto(items).Assets,
		Summary:   dto.AdaptWorklistSummaryDto(summary),
	}); err != nil {
		return errors.Wrap(err, "could not write worklist")
	}
	return nil
}
