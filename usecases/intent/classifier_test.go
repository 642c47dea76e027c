package intent

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/checkmarble/renewals-backend/models"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		reason   string
		expected models.Intent
	}{
		{"The quote is too expensive", models.IntentPrice},
		{"We need a better DISCOUNT", models.IntentPrice},
		{"Costs are out of line", models.IntentPrice},
		{"We plan to replace these servers", models.IntentHardwareChange},
		{"Hardware refresh planned in Q3", models.IntentHardwareChange},
		{"Let's talk again next quarter", models.IntentTiming},
		{"No budget this year", models.IntentTiming},
		{"The price is fine but we will decide later", models.IntentPrice},
		{"Our new CTO wants to review vendors", models.IntentUnclear},
		{"", models.IntentUnclear},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			intent, err := KeywordClassifier{}.ClassifyIntent(context.Background(), tt.reason)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, intent)
		})
	}
}

func TestWaitForSlot(t *testing.T) {
	assert.NoError(t, waitForSlot(context.Background(), nil))

	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	assert.NoError(t, waitForSlot(context.Background(), limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := waitForSlot(ctx, limiter)
	assert.True(t, errors.Is(err, models.ErrClassifierUnavailable))
}
