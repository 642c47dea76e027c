package usecases

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/repositories"
)

// RenewalSession is the working state of one renewal desk session: the scored assets,
// their quote ledger and the sales leads raised by negotiations. All access goes
// through RenewalUsecase, which holds mu for the duration of each operation.
type RenewalSession struct {
	Id        uuid.UUID
	CreatedAt time.Time

	mu     sync.Mutex
	ledger *repositories.QuoteLedger
	assets map[string]models.ScoredAsset
	order  []string
	leads  []models.SalesLead
}

func NewRenewalSession(now time.Time) *RenewalSession {
	return &RenewalSession{
		Id:        uuid.New(),
		CreatedAt: now,
		ledger:    repositories.NewQuoteLedger(),
		assets:    make(map[string]models.ScoredAsset),
	}
}

func (s *RenewalSession) asset(assetId string) (models.ScoredAsset, error) {
	asset, ok := s.assets[assetId]
	if !ok {
		return models.ScoredAsset{}, errors.Wrapf(models.ErrUnknownAsset, "asset %s", assetId)
	}
	return asset, nil
}

// putAsset inserts or replaces an asset, keeping first insertion order.
func (s *RenewalSession) putAsset(asset models.ScoredAsset) {
	if _, ok := s.assets[asset.AssetId]; !ok {
		s.order = append(s.order, asset.AssetId)
	}
	s.assets[asset.AssetId] = asset
}

func (s *RenewalSession) scoredAssets() []models.ScoredAsset {
	out := make([]models.ScoredAsset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.assets[id])
	}
	return out
}
