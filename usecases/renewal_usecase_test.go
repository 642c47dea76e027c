package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/checkmarble/renewals-backend/mocks"
	"github.com/checkmarble/renewals-backend/models"
	"github.com/checkmarble/renewals-backend/repositories"
	"github.com/checkmarble/renewals-backend/repositories/clock"
	"github.com/checkmarble/renewals-backend/usecases/intent"
)

type RenewalUsecaseTestSuite struct {
	suite.Suite
	clock      *clock.Mock
	classifier *mocks.IntentClassifier
	ctx        context.Context
	now        time.Time
}

func (suite *RenewalUsecaseTestSuite) SetupTest() {
	suite.now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	suite.clock = clock.NewMock(suite.now)
	suite.classifier = new(mocks.IntentClassifier)
	suite.ctx = context.Background()
}

func (suite *RenewalUsecaseTestSuite) makeUsecase(opts ...Option) RenewalUsecase {
	uc := NewUsecases(
		repositories.NewRepositories(repositories.WithClock(suite.clock)),
		append([]Option{WithClassifier(suite.classifier), WithClassifierAttempts(1)}, opts...)...,
	)
	return uc.NewRenewalUsecase()
}

// assetA1 expires in 15 days, is heavily used and already carries a 10% discount.
func (suite *RenewalUsecaseTestSuite) assetA1() models.Asset {
	return models.Asset{
		AssetId:         "A-1",
		Customer:        "ABC Corp",
		CustomerType:    "Enterprise",
		Product:         "Servers",
		Licensing:       "Per-core",
		ContractValue:   42000,
		ContractStart:   suite.now.AddDate(-2, 0, 0),
		ContractEnd:     suite.now.AddDate(0, 0, 15),
		UsagePct:        90,
		UsageDeclinePct: 2,
		AssetAgeYears:   4.2,
		LastDiscountPct: 10,
	}
}

// lowPriorityAsset is a small, distant renewal whose 8% discount is above the Low guardrail.
func (suite *RenewalUsecaseTestSuite) lowPriorityAsset() models.Asset {
	a := suite.assetA1()
	a.AssetId = "A-9"
	a.ContractValue = 10000
	a.ContractEnd = suite.now.AddDate(0, 0, 200)
	a.UsagePct = 40
	a.AssetAgeYears = 1
	a.LastDiscountPct = 8
	return a
}

func (suite *RenewalUsecaseTestSuite) sessionWith(uc RenewalUsecase, assets ...models.Asset) *RenewalSession {
	session, err := uc.NewSession(suite.ctx, false)
	suite.Require().NoError(err)
	_, err = uc.ScoreAssets(suite.ctx, session, assets)
	suite.Require().NoError(err)
	return session
}

func (suite *RenewalUsecaseTestSuite) classifyAs(reason string, intent models.Intent) {
	suite.classifier.On("ClassifyIntent", mock.Anything, reason).Return(intent, nil)
}

func (suite *RenewalUsecaseTestSuite) TestPriceRejectionIssuesRevisedQuote() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())
	suite.classifyAs("Too expensive", models.IntentPrice)

	v1, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)
	suite.Equal("A-1-v1", v1.QuoteId)
	suite.Equal(42300.0, v1.Pricing.Total)
	suite.False(v1.Approval.Required)

	again, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)
	suite.Equal(v1, again)

	suite.clock.Advance(time.Hour)
	outcome, err := uc.RejectQuote(suite.ctx, session, "A-1-v1", "Too expensive")
	suite.Require().NoError(err)

	suite.Equal(models.ActionNewQuote, outcome.Decision.Action)
	suite.Equal(models.IntentPrice, outcome.Decision.Intent)
	suite.Equal(models.QuoteRejected, outcome.RejectedQuote.Status)
	suite.Equal("Too expensive", outcome.RejectedQuote.Decision.Reason)
	suite.Nil(outcome.Lead)

	v2 := outcome.NewQuote
	suite.Require().NotNil(v2)
	suite.Equal("A-1-v2", v2.QuoteId)
	suite.Equal(2, v2.Version)
	suite.Require().NotNil(v2.ParentQuoteId)
	suite.Equal("A-1-v1", *v2.ParentQuoteId)
	suite.Equal(15.0, v2.Pricing.DiscountPct)
	suite.Equal(7050.0, v2.Pricing.DiscountAmount)
	suite.Equal(39950.0, v2.Pricing.Total)
	suite.Equal(models.DiscountSourceNegotiationAgent, v2.Pricing.DiscountSource)
	suite.Equal("Customer rejected previous quote due to price: Too expensive", v2.Pricing.DiscountReason)
	suite.Require().NotNil(v2.Pricing.PreviousDiscount)
	suite.Equal(10.0, *v2.Pricing.PreviousDiscount)
	suite.Equal(suite.now.Add(time.Hour), v2.CreatedAt)

	history, err := uc.QuoteHistory(suite.ctx, session, "A-1")
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal(models.QuoteRejected, history[0].Status)
	suite.Equal(models.QuotePending, history[1].Status)

	latest, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)
	suite.Equal("A-1-v2", latest.QuoteId)

	items, _ := uc.Worklist(suite.ctx, session, models.WorklistFilter{})
	suite.Require().Len(items, 1)
	suite.Equal(15.0, items[0].LastDiscountPct)
	suite.Equal(95, items[0].ProbabilityToClose)

	_, err = uc.RejectQuote(suite.ctx, session, "A-1-v1", "Too expensive")
	suite.ErrorIs(err, models.ErrQuoteNotPending)
}

func (suite *RenewalUsecaseTestSuite) TestPriceRejectionAtGuardrailEscalates() {
	uc := suite.makeUsecase()
	a := suite.assetA1()
	a.LastDiscountPct = 25
	session := suite.sessionWith(uc, a)
	suite.classifyAs("Still too expensive", models.IntentPrice)

	_, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)

	outcome, err := uc.RejectQuote(suite.ctx, session, "A-1-v1", "Still too expensive")
	suite.Require().NoError(err)
	suite.Equal(models.ActionSalesIntervention, outcome.Decision.Action)
	suite.Nil(outcome.NewQuote)

	history, err := uc.QuoteHistory(suite.ctx, session, "A-1")
	suite.Require().NoError(err)
	suite.Len(history, 1)
	suite.Equal(models.QuoteRejected, history[0].Status)
}

func (suite *RenewalUsecaseTestSuite) TestGuardrailExceptionApproval() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.lowPriorityAsset())

	v1, err := uc.GenerateQuote(suite.ctx, session, "A-9")
	suite.Require().NoError(err)
	suite.True(v1.Approval.Required)

	_, err = uc.AcceptQuote(suite.ctx, session, "A-9-v1")
	suite.ErrorIs(err, models.ErrApprovalRequired)

	approved, err := uc.ApproveException(suite.ctx, session, "A-9-v1")
	suite.Require().NoError(err)
	suite.True(approved.Approval.Approved)
	suite.Require().NotNil(approved.Approval.ApprovedAt)
	suite.Equal(suite.now, *approved.Approval.ApprovedAt)

	accepted, err := uc.AcceptQuote(suite.ctx, session, "A-9-v1")
	suite.Require().NoError(err)
	suite.Equal(models.QuoteAccepted, accepted.Status)

	_, err = uc.RejectQuote(suite.ctx, session, "A-9-v1", "changed our mind")
	suite.ErrorIs(err, models.ErrQuoteNotPending)
	suite.classifier.AssertNotCalled(suite.T(), "ClassifyIntent", mock.Anything, mock.Anything)
}

func (suite *RenewalUsecaseTestSuite) TestAcceptWithinGuardrail() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())

	_, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)

	accepted, err := uc.AcceptQuote(suite.ctx, session, "A-1-v1")
	suite.Require().NoError(err)
	suite.Equal(models.QuoteAccepted, accepted.Status)
	suite.Require().NotNil(accepted.Decision)
	suite.Equal(models.QuoteAccepted, accepted.Decision.Outcome)
}

func (suite *RenewalUsecaseTestSuite) TestHardwareRejectionCreatesLead() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())
	suite.classifyAs("We are moving to new servers", models.IntentHardwareChange)

	_, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)

	outcome, err := uc.RejectQuote(suite.ctx, session, "A-1-v1", "We are moving to new servers")
	suite.Require().NoError(err)
	suite.Equal(models.ActionCreateLead, outcome.Decision.Action)
	suite.Nil(outcome.NewQuote)
	suite.Require().NotNil(outcome.Lead)

	leads := uc.Leads(suite.ctx, session)
	suite.Require().Len(leads, 1)
	suite.Equal(models.LeadTypeHardwareRefresh, leads[0].LeadType)
	suite.Equal("ABC Corp", leads[0].Customer)
	suite.Equal("A-1", leads[0].AssetId)
	suite.Equal("We are moving to new servers", leads[0].Notes)
	suite.Equal(suite.now, leads[0].CreatedAt)
}

func (suite *RenewalUsecaseTestSuite) TestTimingRejectionPutsOnHold() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())
	suite.classifyAs("Ask me again in Q4", models.IntentTiming)

	_, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)

	outcome, err := uc.RejectQuote(suite.ctx, session, "A-1-v1", "Ask me again in Q4")
	suite.Require().NoError(err)
	suite.Equal(models.ActionOnHold, outcome.Decision.Action)
	suite.Empty(uc.Leads(suite.ctx, session))

	items, _ := uc.Worklist(suite.ctx, session, models.WorklistFilter{})
	suite.Require().Len(items, 1)
	suite.True(items[0].OnHold)

	// re-uploading the asset keeps the hold
	_, err = uc.ScoreAssets(suite.ctx, session, []models.Asset{suite.assetA1()})
	suite.Require().NoError(err)
	items, _ = uc.Worklist(suite.ctx, session, models.WorklistFilter{})
	suite.True(items[0].OnHold)
}

func (suite *RenewalUsecaseTestSuite) TestClassifierFailureFallsBackToKeywords() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())
	suite.classifier.On("ClassifyIntent", mock.Anything, mock.Anything).
		Return(models.IntentUnclear, models.ErrClassifierUnavailable)

	_, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)

	outcome, err := uc.RejectQuote(suite.ctx, session, "A-1-v1", "Price is way too high")
	suite.Require().NoError(err)
	suite.Equal(models.ActionNewQuote, outcome.Decision.Action)
	suite.Equal(models.IntentPrice, outcome.Decision.Intent)
}

func (suite *RenewalUsecaseTestSuite) TestUnclearRejectionNeedsSales() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())
	suite.classifyAs("Our new CTO reviews every vendor", models.IntentUnclear)

	_, err := uc.GenerateQuote(suite.ctx, session, "A-1")
	suite.Require().NoError(err)

	outcome, err := uc.RejectQuote(suite.ctx, session, "A-1-v1", "Our new CTO reviews every vendor")
	suite.Require().NoError(err)
	suite.Equal(models.ActionSalesIntervention, outcome.Decision.Action)
	suite.Equal("Unable to auto-resolve. Sales follow-up required.", outcome.Decision.Message)
}

func (suite *RenewalUsecaseTestSuite) TestScoreAssets() {
	advisor := new(mocks.RenewalAdvisor)
	advisor.On("Advise", mock.Anything, mock.Anything).
		Return(models.Advice{Nudge: -3, Explanation: "- Strong adoption"}, nil)
	uc := suite.makeUsecase(WithAdvisor(advisor))

	session, err := uc.NewSession(suite.ctx, false)
	suite.Require().NoError(err)

	scored, err := uc.ScoreAssets(suite.ctx, session, []models.Asset{suite.assetA1(), suite.lowPriorityAsset()})
	suite.Require().NoError(err)
	suite.Require().Len(scored, 2)
	suite.Equal(97, scored[0].ProbabilityToClose)
	suite.Equal("- Strong adoption", scored[0].Explanation)
	suite.Equal(models.PriorityHigh, scored[0].Priority)

	invalid := suite.assetA1()
	invalid.AssetId = "A-2"
	invalid.UsagePct = 140
	_, err = uc.ScoreAssets(suite.ctx, session, []models.Asset{invalid})
	suite.ErrorIs(err, models.ErrInvalidAsset)

	_, err = uc.ScoreAssets(suite.ctx, session, []models.Asset{suite.assetA1(), suite.assetA1()})
	suite.ErrorIs(err, models.ErrInvalidAsset)

	items, summary := uc.Worklist(suite.ctx, session, models.WorklistFilter{})
	suite.Len(items, 2)
	suite.Equal(1, summary.HighPriorityCount)
	suite.Equal(1, summary.LowPriorityCount)
}

func (suite *RenewalUsecaseTestSuite) TestScoreAssetsWithLocalClockWestOfUtc() {
	newYork := time.FixedZone("EST", -5*60*60)
	suite.clock = clock.NewMock(time.Date(2026, 3, 1, 10, 0, 0, 0, newYork))
	uc := suite.makeUsecase()

	atCutoff := suite.assetA1()
	atCutoff.ContractEnd = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	pastCutoff := suite.assetA1()
	pastCutoff.AssetId = "A-2"
	pastCutoff.ContractEnd = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	session, err := uc.NewSession(suite.ctx, false)
	suite.Require().NoError(err)
	scored, err := uc.ScoreAssets(suite.ctx, session, []models.Asset{atCutoff, pastCutoff})
	suite.Require().NoError(err)
	suite.Require().Len(scored, 2)

	suite.Equal(30, scored[0].DaysToExpiry)
	suite.Equal(models.PriorityHigh, scored[0].Priority)
	suite.Equal(31, scored[1].DaysToExpiry)
	suite.Equal(models.PriorityMedium, scored[1].Priority)
	suite.Equal(15.0, models.MaxDiscount(scored[1].Priority))
}

func (suite *RenewalUsecaseTestSuite) TestSampleSession() {
	uc := suite.makeUsecase()

	session, err := uc.NewSession(suite.ctx, true)
	suite.Require().NoError(err)

	found, err := uc.GetSession(suite.ctx, session.Id.String())
	suite.Require().NoError(err)
	suite.Same(session, found)

	items, _ := uc.Worklist(suite.ctx, session, models.WorklistFilter{})
	suite.Len(items, 3)
	for _, item := range items {
		suite.Equal(intent.RuleBasedExplanation, item.Explanation)
	}
}

func (suite *RenewalUsecaseTestSuite) TestUnknownIdentifiers() {
	uc := suite.makeUsecase()
	session := suite.sessionWith(uc, suite.assetA1())

	_, err := uc.GetSession(suite.ctx, "not-a-uuid")
	suite.ErrorIs(err, models.ErrUnknownSession)
	_, err = uc.GetSession(suite.ctx, uuid.NewString())
	suite.ErrorIs(err, models.ErrUnknownSession)

	_, err = uc.GenerateQuote(suite.ctx, session, "Z-0")
	suite.ErrorIs(err, models.ErrUnknownAsset)
	_, err = uc.QuoteHistory(suite.ctx, session, "Z-0")
	suite.ErrorIs(err, models.ErrUnknownAsset)
	_, err = uc.GetQuote(suite.ctx, session, "A-1-v1")
	suite.ErrorIs(err, models.ErrUnknownQuote)
	_, err = uc.AcceptQuote(suite.ctx, session, "A-1-v1")
	suite.ErrorIs(err, models.ErrUnknownQuote)
	_, err = uc.RejectQuote(suite.ctx, session, "A-1-v1", "too expensive")
	suite.ErrorIs(err, models.ErrUnknownQuote)
}

func TestRenewalUsecase(t *testing.T) {
	suite.Run(t, new(RenewalUsecaseTestSuite))
}
