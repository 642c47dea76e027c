package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/repositories"
	"github.com/checkmarble/renewals-backend/repositories/clock"
	"github.com/checkmarble/renewals-backend/usecases/intent"
	"github.com/checkmarble/renewals-backend/usecases/renewals"
	"github.com/checkmarble/renewals-backend/utils"
)

const MAX_CONCURRENT_ADVICE_REQUESTS = 8

type RenewalUsecase struct {
	sessions   *repositories.SessionCache[*RenewalSession]
	clock      clock.Clock
	classifier *intent.ResilientClassifier
	advisor    intent.ResilientAdvisor
}

// NewSession opens an empty renewal session, optionally seeded with the sample assets.
func (uc *RenewalUsecase) NewSession(ctx context.Context, withSampleAssets bool) (*RenewalSession, error) {
	session := NewRenewalSession(uc.clock.Now())
	uc.sessions.Add(session.Id, session)

	utils.LoggerFromContext(ctx).InfoContext(ctx, "renewal session created",
		slog.String("session_id", session.Id.String()))

	if withSampleAssets {
		if _, err := uc.ScoreAssets(ctx, session, repositories.SampleAssets(uc.clock.Now())); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (uc *RenewalUsecase) GetSession(ctx context.Context, sessionId string) (*RenewalSession, error) {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, errors.Wrapf(models.ErrUnknownSession, "session %q", sessionId)
	}
	session, ok := uc.sessions.Get(id)
	if !ok {
		return nil, errors.Wrapf(models.ErrUnknownSession, "session %s", id)
	}
	return session, nil
}

// ScoreAssets scores a batch of assets and stores them in the session, replacing any
// asset with the same id. The whole batch is rejected if one asset is invalid.
func (uc *RenewalUsecase) ScoreAssets(
	ctx context.Context,
	session *RenewalSession,
	assets []models.Asset,
) ([]models.ScoredAsset, error) {
	ctx, span := utils.StartSpan(ctx, "RenewalUsecase.ScoreAssets", attribute.Int("nb_assets", len(assets)))
	defer span.End()
	ctx = utils.WithSessionLogger(ctx, session.Id.String())

	start := time.Now()
	now := uc.clock.Now()

	seen := set.New[string](len(assets))
	for i, asset := range assets {
		if !seen.Insert(asset.AssetId) {
			return nil, errors.Wrapf(models.ErrInvalidAsset,
				"asset at position %d: duplicate asset id %q", i, asset.AssetId)
		}
	}

	scored, err := renewals.ScoreAssets(assets, now)
	if err != nil {
		return nil, err
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(MAX_CONCURRENT_ADVICE_REQUESTS)
	for i := range scored {
		group.Go(func() error {
			scored[i] = scored[i].WithAdvice(uc.advisor.Advise(groupCtx, scored[i]))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	for _, asset := range scored {
		if previous, ok := session.assets[asset.AssetId]; ok {
			asset.OnHold = previous.OnHold
		}
		session.putAsset(asset)
	}

	utils.MetricScoringLatency.Observe(time.Since(start).Seconds())
	utils.LoggerFromContext(ctx).InfoContext(ctx, fmt.Sprintf("scored %d assets", len(scored)))

	return scored, nil
}

func (uc *RenewalUsecase) Worklist(
	ctx context.Context,
	session *RenewalSession,
	filter models.WorklistFilter,
) ([]models.ScoredAsset, models.WorklistSummary) {
	session.mu.Lock()
	defer session.mu.Unlock()

	items := renewals.FilterWorklist(session.scoredAssets(), filter)
	return items, renewals.Summarize(items)
}

// GenerateQuote returns the latest quote of the asset, creating version 1 from the
// rules engine discount when the asset has no quote yet.
func (uc *RenewalUsecase) GenerateQuote(ctx context.Context, session *RenewalSession, assetId string) (models.Quote, error) {
	ctx, span := utils.StartSpan(ctx, "RenewalUsecase.GenerateQuote", attribute.String("asset_id", assetId))
	defer span.End()
	ctx = utils.WithSessionLogger(ctx, session.Id.String())

	session.mu.Lock()
	defer session.mu.Unlock()

	asset, err := session.asset(assetId)
	if err != nil {
		return models.Quote{}, err
	}

	latest, found, err := session.ledger.Latest(assetId)
	if err != nil {
		return models.Quote{}, err
	}
	if found {
		return latest, nil
	}

	quote, err := renewals.BuildQuote(renewals.QuoteInput{
		Asset:          asset,
		Version:        1,
		DiscountReason: models.InitialDiscountReason,
		DiscountSource: models.DiscountSourceRulesEngine,
		Now:            uc.clock.Now(),
	})
	if err != nil {
		return models.Quote{}, err
	}
	quote.RequireApprovalIfBreaching(asset.Priority)

	if err := uc.storeQuote(ctx, session, quote); err != nil {
		return models.Quote{}, err
	}
	return quote, nil
}

func (uc *RenewalUsecase) QuoteHistory(ctx context.Context, session *RenewalSession, assetId string) ([]models.Quote, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if _, err := session.asset(assetId); err != nil {
		return nil, err
	}
	return session.ledger.History(assetId)
}

func (uc *RenewalUsecase) GetQuote(ctx context.Context, session *RenewalSession, quoteId string) (models.Quote, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	return session.ledger.Get(quoteId)
}

// AcceptQuote accepts a pending quote. A quote whose discount exceeds the guardrail of
// the asset's current priority needs an approved exception first.
func (uc *RenewalUsecase) AcceptQuote(ctx context.Context, session *RenewalSession, quoteId string) (models.Quote, error) {
	ctx = utils.WithSessionLogger(ctx, session.Id.String())
	session.mu.Lock()
	defer session.mu.Unlock()

	quote, err := session.ledger.Get(quoteId)
	if err != nil {
		return models.Quote{}, err
	}
	asset, err := session.asset(quote.AssetId)
	if err != nil {
		return models.Quote{}, err
	}

	accepted, err := session.ledger.Update(quoteId, func(q *models.Quote) error {
		q.RequireApprovalIfBreaching(asset.Priority)
		return q.Accept(uc.clock.Now())
	})
	if err != nil {
		return models.Quote{}, err
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "quote accepted",
		slog.String("quote_id", quoteId),
		slog.Float64("discount_pct", accepted.Pricing.DiscountPct))
	return accepted, nil
}

func (uc *RenewalUsecase) ApproveException(ctx context.Context, session *RenewalSession, quoteId string) (models.Quote, error) {
	ctx = utils.WithSessionLogger(ctx, session.Id.String())
	session.mu.Lock()
	defer session.mu.Unlock()

	approved, err := session.ledger.Update(quoteId, func(q *models.Quote) error {
		return q.Approve(uc.clock.Now())
	})
	if err != nil {
		return models.Quote{}, err
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "guardrail exception approved",
		slog.String("quote_id", quoteId),
		slog.Float64("discount_pct", approved.Pricing.DiscountPct))
	return approved, nil
}

// RejectQuote records the rejection of the latest pending quote of an asset and runs
// the negotiation: depending on the classified intent of the reason, it issues a new
// quote version, raises a sales lead, puts the renewal on hold, or leaves it to sales.
func (uc *RenewalUsecase) RejectQuote(
	ctx context.Context,
	session *RenewalSession,
	quoteId string,
	reason string,
) (models.NegotiationOutcome, error) {
	ctx, span := utils.StartSpan(ctx, "RenewalUsecase.RejectQuote", attribute.String("quote_id", quoteId))
	defer span.End()
	ctx = utils.WithSessionLogger(ctx, session.Id.String())

	if err := uc.checkRejectable(session, quoteId); err != nil {
		return models.NegotiationOutcome{}, err
	}

	// Classification may call a remote model: the session is not locked meanwhile.
	classified := uc.classifier.Classify(ctx, reason)
	span.SetAttributes(attribute.String("intent", string(classified)))

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := uc.checkRejectableLocked(session, quoteId); err != nil {
		return models.NegotiationOutcome{}, err
	}
	quote, err := session.ledger.Get(quoteId)
	if err != nil {
		return models.NegotiationOutcome{}, err
	}
	asset, err := session.asset(quote.AssetId)
	if err != nil {
		return models.NegotiationOutcome{}, err
	}

	now := uc.clock.Now()
	decision := renewals.Negotiate(asset, classified)
	outcome := models.NegotiationOutcome{Decision: decision}

	var revisedAsset models.ScoredAsset
	var revisedQuote models.Quote
	if decision.Action == models.ActionNewQuote {
		revisedAsset, err = renewals.Rescore(asset, asset.WithLastDiscount(*decision.NewDiscount), now)
		if err != nil {
			return models.NegotiationOutcome{}, err
		}
		previousDiscount := quote.Pricing.DiscountPct
		revisedQuote, err = renewals.BuildQuote(renewals.QuoteInput{
			Asset:            revisedAsset,
			Version:          quote.Version + 1,
			ParentQuoteId:    &quote.QuoteId,
			DiscountReason:   renewals.RevisedDiscountReason(reason),
			DiscountSource:   models.DiscountSourceNegotiationAgent,
			PreviousDiscount: &previousDiscount,
			Now:              now,
		})
		if err != nil {
			return models.NegotiationOutcome{}, err
		}
		revisedQuote.RequireApprovalIfBreaching(revisedAsset.Priority)
	}

	rejected, err := session.ledger.Update(quoteId, func(q *models.Quote) error {
		return q.Reject(reason, now)
	})
	if err != nil {
		return models.NegotiationOutcome{}, err
	}
	outcome.RejectedQuote = rejected

	switch decision.Action {
	case models.ActionNewQuote:
		if err := uc.storeQuote(ctx, session, revisedQuote); err != nil {
			return models.NegotiationOutcome{}, err
		}
		session.putAsset(revisedAsset)
		outcome.NewQuote = &revisedQuote

	case models.ActionCreateLead:
		lead := renewals.HardwareRefreshLead(asset, reason)
		lead.CreatedAt = now
		session.leads = append(session.leads, lead)
		outcome.Lead = &lead

	case models.ActionOnHold:
		asset.OnHold = true
		session.putAsset(asset)
	}

	utils.MetricNegotiationDecisions.
		With(prometheus.Labels{"action": string(decision.Action), "intent": string(decision.Intent)}).
		Inc()
	utils.LoggerFromContext(ctx).InfoContext(ctx, "quote rejected",
		slog.String("quote_id", quoteId),
		slog.String("intent", string(decision.Intent)),
		slog.String("action", string(decision.Action)))

	return outcome, nil
}

func (uc *RenewalUsecase) Leads(ctx context.Context, session *RenewalSession) []models.SalesLead {
	session.mu.Lock()
	defer session.mu.Unlock()

	leads := make([]models.SalesLead, len(session.leads))
	copy(leads, session.leads)
	return leads
}

func (uc *RenewalUsecase) checkRejectable(session *RenewalSession, quoteId string) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	return uc.checkRejectableLocked(session, quoteId)
}

// Only the latest version of a chain can be rejected, and only while pending.
func (uc *RenewalUsecase) checkRejectableLocked(session *RenewalSession, quoteId string) error {
	quote, err := session.ledger.Get(quoteId)
	if err != nil {
		return err
	}
	if quote.Status != models.QuotePending {
		return errors.Wrapf(models.ErrQuoteNotPending, "quote %s is %s", quoteId, quote.Status)
	}
	latest, _, err := session.ledger.Latest(quote.AssetId)
	if err != nil {
		return err
	}
	if latest.QuoteId != quoteId {
		return errors.Wrapf(models.ErrQuoteNotPending,
			"quote %s was superseded by %s", quoteId, latest.QuoteId)
	}
	return nil
}

func (uc *RenewalUsecase) storeQuote(ctx context.Context, session *RenewalSession, quote models.Quote) error {
	if err := session.ledger.Put(quote); err != nil {
		return err
	}
	utils.MetricQuotesCreated.
		With(prometheus.Labels{"source": string(quote.Pricing.DiscountSource)}).
		Inc()
	utils.LoggerFromContext(ctx).InfoContext(ctx, "quote created",
		slog.String("quote_id", quote.QuoteId),
		slog.Float64("discount_pct", quote.Pricing.DiscountPct),
		slog.Bool("approval_required", quote.Approval.Required))
	return nil
}
