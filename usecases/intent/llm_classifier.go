package intent

import (
	"context"
	"fmt"

	"github.com/checkmarble/llmberjack"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

const classifyIntentInstruction = `You classify why a customer rejected a renewal quote.
Return ONE of: price, hardware_change, timing, unclear.
- price: the customer finds the offer too expensive or wants a better discount
- hardware_change: the customer plans to replace or refresh the equipment
- timing: the customer wants to decide later, or the budget is not available yet
- unclear: anything else`

type classificationOutput struct {
	Intent string `json:"intent" jsonschema_description:"One of price, hardware_change, timing, unclear" jsonschema_required:"true"`
}

type LlmClassifier struct {
	client  *llmberjack.Llmberjack
	model   string
	limiter *rate.Limiter
}

// A nil limiter does not throttle requests.
func NewLlmClassifier(client *llmberjack.Llmberjack, model string, limiter *rate.Limiter) LlmClassifier {
	return LlmClassifier{client: client, model: model, limiter: limiter}
}

func (c LlmClassifier) ClassifyIntent(ctx context.Context, reason string) (models.Intent, error) {
	logger := utils.LoggerFromContext(ctx)

	if err := waitForSlot(ctx, c.limiter); err != nil {
		return models.IntentUnclear, err
	}

	response, err := llmberjack.NewRequest[classificationOutput]().
		WithModel(c.model).
		WithThinking(false).
		WithInstruction(classifyIntentInstruction).
		WithText(llmberjack.RoleUser, fmt.Sprintf("Reason: %s", reason)).
		Do(ctx, c.client)
	if err != nil {
		return models.IntentUnclear, errors.Mark(
			errors.Wrap(err, "could not classify rejection reason"), models.ErrClassifierUnavailable)
	}

	output, err := response.Get(0)
	if err != nil {
		return models.IntentUnclear, errors.Mark(
			errors.Wrap(err, "could not read intent classification"), models.ErrClassifierUnavailable)
	}

	logger.DebugContext(ctx, "intent classification", "response", output.Intent)

	if intent, ok := models.IntentFrom(output.Intent); ok {
		return intent, nil
	}
	// Models sometimes answer with a sentence instead of the bare tag
	return classifyByKeywords(output.Intent), nil
}

// waitForSlot blocks until the limiter admits one more model call. It gives up early
// when the context deadline would pass before a slot frees up.
func waitForSlot(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return errors.Mark(errors.Wrap(err, "llm request rate exceeded"), models.ErrClassifierUnavailable)
	}
	return nil
}
