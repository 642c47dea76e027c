package intent

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/renewals-backend/mocks"
	"github.com/checkmarble/renewals-backend/models"
)

func TestResilientAdvisor(t *testing.T) {
	asset := models.ScoredAsset{Asset: models.Asset{AssetId: "A-1"}}
	ctx := context.Background()

	t.Run("without model", func(t *testing.T) {
		advice := NewResilientAdvisor(nil, 0).Advise(ctx, asset)
		assert.Equal(t, models.Advice{Explanation: RuleBasedExplanation}, advice)
	})

	t.Run("model failure", func(t *testing.T) {
		primary := new(mocks.RenewalAdvisor)
		primary.On("Advise", mock.Anything, asset).Return(models.Advice{}, errors.New("quota exceeded"))

		advice := NewResilientAdvisor(primary, 0).Advise(ctx, asset)
		assert.Equal(t, models.Advice{Explanation: RuleBasedExplanationUnavailable}, advice)
		primary.AssertExpectations(t)
	})

	t.Run("empty explanation", func(t *testing.T) {
		primary := new(mocks.RenewalAdvisor)
		primary.On("Advise", mock.Anything, asset).Return(models.Advice{Nudge: -5}, nil)

		advice := NewResilientAdvisor(primary, 0).Advise(ctx, asset)
		assert.Equal(t, models.Advice{Nudge: -5, Explanation: RuleBasedExplanation}, advice)
	})

	t.Run("model answer", func(t *testing.T) {
		primary := new(mocks.RenewalAdvisor)
		primary.On("Advise", mock.Anything, asset).
			Return(models.Advice{Nudge: 5, Explanation: "- Heavy usage"}, nil)

		advice := NewResilientAdvisor(primary, 0).Advise(ctx, asset)
		assert.Equal(t, models.Advice{Nudge: 5, Explanation: "- Heavy usage"}, advice)
	})
}

func TestNudgeFromDirection(t *testing.T) {
	assert.Equal(t, 5, nudgeFromDirection("Higher"))
	assert.Equal(t, -5, nudgeFromDirection("slightly lower"))
	assert.Equal(t, 0, nudgeFromDirection("unchanged"))
	assert.Equal(t, 0, nudgeFromDirection(""))
}
