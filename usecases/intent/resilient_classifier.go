package intent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

const (
	DEFAULT_CLASSIFIER_TIMEOUT  = 5 * time.Second
	DEFAULT_CLASSIFIER_ATTEMPTS = 2
	classifierCacheSize         = 512
)

// ResilientClassifier wraps a model backed classifier so that classification never
// fails: answers are cached per reason, and on timeout or error the keyword rules are
// used instead.
type ResilientClassifier struct {
	primary  Classifier
	fallback KeywordClassifier
	timeout  time.Duration
	attempts uint
	cache    *lru.Cache[string, models.Intent]
}

type ResilientClassifierOption func(*ResilientClassifier)

func WithClassifierTimeout(timeout time.Duration) ResilientClassifierOption {
	return func(c *ResilientClassifier) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithClassifierAttempts(attempts int) ResilientClassifierOption {
	return func(c *ResilientClassifier) {
		if attempts > 0 {
			c.attempts = uint(attempts)
		}
	}
}

// A nil primary classifier means the service runs offline, on keyword rules only.
func NewResilientClassifier(primary Classifier, opts ...ResilientClassifierOption) *ResilientClassifier {
	cache, _ := lru.New[string, models.Intent](classifierCacheSize)
	c := &ResilientClassifier{
		primary:  primary,
		timeout:  DEFAULT_CLASSIFIER_TIMEOUT,
		attempts: DEFAULT_CLASSIFIER_ATTEMPTS,
		cache:    cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ResilientClassifier) Classify(ctx context.Context, reason string) models.Intent {
	if c.primary == nil {
		intent, _ := c.fallback.ClassifyIntent(ctx, reason)
		return intent
	}

	key := strings.ToLower(strings.TrimSpace(reason))
	if intent, ok := c.cache.Get(key); ok {
		return intent
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	intent, err := retry.DoWithData(
		func() (models.Intent, error) {
			return c.primary.ClassifyIntent(ctx, reason)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx,
			"intent classifier unavailable, falling back to keyword rules",
			slog.String("error", err.Error()))
		utils.MetricClassifierFallbacks.Inc()
		intent, _ = c.fallback.ClassifyIntent(ctx, reason)
		return intent
	}

	c.cache.Add(key, intent)
	return intent
}
