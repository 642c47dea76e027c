package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/renewals-backend/models"
)

type IntentClassifier struct {
	mock.Mock
}

func (_m *IntentClassifier) ClassifyIntent(ctx context.Context, reason string) (models.Intent, error) {
	args := _m.Called(ctx, reason)
	return args.Get(0).(models.Intent), args.Error(1)
}

type RenewalAdvisor struct {
	mock.Mock
}

func (_m *RenewalAdvisor) Advise(ctx context.Context, asset models.ScoredAsset) (models.Advice, error) {
	args := _m.Called(ctx, asset)
	return args.Get(0).(models.Advice), args.Error(1)
}
