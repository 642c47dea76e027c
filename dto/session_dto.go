package dto

import (
	"time"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

type SessionQuery struct {
	Sample bool `form:"sample"`
}

type SessionDto struct {
	SessionId string           `json:"session_id"`
	CreatedAt time.Time        `json:"created_at"`
	Assets    []ScoredAssetDto `json:"assets"`
}

type ScoredAssetsDto struct {
	Assets []ScoredAssetDto `json:"assets"`
}

func AdaptScoredAssetsDto(assets []models.ScoredAsset) ScoredAssetsDto {
	out := utils.Map(assets, AdaptScoredAssetDto)
	if out == nil {
		out = []ScoredAssetDto{}
	}
	return ScoredAssetsDto{Assets: out}
}
