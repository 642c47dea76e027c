package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/checkmarble/llmberjack"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/utils"
)

const (
	RuleBasedExplanation            = "Rule-based decision"
	RuleBasedExplanationUnavailable = "Rule-based decision (LLM unavailable)"
)

// Advisor explains a scored asset and suggests a small probability to close adjustment.
// Its output is advisory only: it never changes priority or status.
type Advisor interface {
	Advise(ctx context.Context, asset models.ScoredAsset) (models.Advice, error)
}

const adviseInstruction = `You review renewal opportunities for a sales team.
Explain in at most 2 short bullet points why the opportunity priority was assigned.
Then say whether the probability to close should be slightly higher, lower, or unchanged.`

type adviceOutput struct {
	Explanation string `json:"explanation" jsonschema_description:"At most 2 short bullet points" jsonschema_required:"true"`
	Direction   string `json:"direction" jsonschema_description:"One of higher, lower, unchanged" jsonschema_required:"true"`
}

type LlmAdvisor struct {
	client  *llmberjack.Llmberjack
	model   string
	limiter *rate.Limiter
}

func NewLlmAdvisor(client *llmberjack.Llmberjack, model string, limiter *rate.Limiter) LlmAdvisor {
	return LlmAdvisor{client: client, model: model, limiter: limiter}
}

func (a LlmAdvisor) Advise(ctx context.Context, asset models.ScoredAsset) (models.Advice, error) {
	prompt := fmt.Sprintf(
		"Priority: %s\nDays to expiry: %d\nUsage %%: %g\nUsage decline %%: %g\nContract value: %g\nAsset age: %g",
		asset.Priority, asset.DaysToExpiry, asset.UsagePct, asset.UsageDeclinePct,
		asset.ContractValue, asset.AssetAgeYears)

	if err := waitForSlot(ctx, a.limiter); err != nil {
		return models.Advice{}, err
	}

	response, err := llmberjack.NewRequest[adviceOutput]().
		WithModel(a.model).
		WithThinking(false).
		WithInstruction(adviseInstruction).
		WithText(llmberjack.RoleUser, prompt).
		Do(ctx, a.client)
	if err != nil {
		return models.Advice{}, errors.Mark(
			errors.Wrap(err, "could not generate renewal advice"), models.ErrClassifierUnavailable)
	}
	output, err := response.Get(0)
	if err != nil {
		return models.Advice{}, errors.Mark(
			errors.Wrap(err, "could not read renewal advice"), models.ErrClassifierUnavailable)
	}

	return models.Advice{
		Nudge:       nudgeFromDirection(output.Direction),
		Explanation: strings.TrimSpace(output.Explanation),
	}, nil
}

func nudgeFromDirection(direction string) int {
	direction = strings.ToLower(direction)
	switch {
	case strings.Contains(direction, "higher"):
		return models.MaxAdvisoryNudge
	case strings.Contains(direction, "lower"):
		return -models.MaxAdvisoryNudge
	default:
		return 0
	}
}

// ResilientAdvisor never fails: without a configured model it returns the rule based
// explanation, and any model failure degrades to the same with no nudge.
type ResilientAdvisor struct {
	primary Advisor
	timeout time.Duration
}

func NewResilientAdvisor(primary Advisor, timeout time.Duration) ResilientAdvisor {
	if timeout <= 0 {
		timeout = DEFAULT_CLASSIFIER_TIMEOUT
	}
	return ResilientAdvisor{primary: primary, timeout: timeout}
}

func (a ResilientAdvisor) Advise(ctx context.Context, asset models.ScoredAsset) models.Advice {
	if a.primary == nil {
		return models.Advice{Explanation: RuleBasedExplanation}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	advice, err := a.primary.Advise(ctx, asset)
	if err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "renewal advisor unavailable",
			slog.String("asset_id", asset.AssetId),
			slog.String("error", err.Error()))
		return models.Advice{Explanation: RuleBasedExplanationUnavailable}
	}
	if advice.Explanation == "" {
		advice.Explanation = RuleBasedExplanation
	}
	return advice
}
