package intent

import (
	"context"
	"strings"

	"github.com/checkmarble/renewals-backend/models"
)

type Classifier interface {
	ClassifyIntent(ctx context.Context, reason string) (models.Intent, error)
}

type keywordRule struct {
	intent   models.Intent
	keywords []string
}

// Rules are evaluated in order, the first matching keyword wins.
var keywordRules = []keywordRule{
	{models.IntentPrice, []string{"price", "expensive", "cost", "cheaper", "discount"}},
	{models.IntentHardwareChange, []string{"hardware", "replace", "refresh"}},
	{models.IntentTiming, []string{"later", "budget", "next"}},
}

// KeywordClassifier maps a free-text rejection reason to an intent by case insensitive
// substring matching. It never fails.
type KeywordClassifier struct{}

func (KeywordClassifier) ClassifyIntent(_ context.Context, reason string) (models.Intent, error) {
	return classifyByKeywords(reason), nil
}

func classifyByKeywords(text string) models.Intent {
	text = strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.intent
			}
		}
	}
	return models.IntentUnclear
}
