package usecases

import (
	"time"

	"github.com/checkmarble/llmberjack"
	"golang.org/x/time/rate"

	"github.com/checkmarble/renewals-backend/repositories"
	"github.com/checkmarble/renewals-backend/usecases/intent"
)

type Usecases struct {
	Repositories repositories.Repositories
	sessions     *repositories.SessionCache[*RenewalSession]
	classifier   *intent.ResilientClassifier
	advisor      intent.ResilientAdvisor
}

type Option func(*options)

// WithLlm plugs a model behind the intent classifier, and behind the advisor when
// withAdvisor is set. Without it the service runs on rules and keywords only.
// requestsPerSecond bounds the calls shared by both, zero means unbounded.
func WithLlm(client *llmberjack.Llmberjack, model string, withAdvisor bool, requestsPerSecond float64) Option {
	return func(o *options) {
		if client == nil {
			return
		}
		var limiter *rate.Limiter
		if requestsPerSecond > 0 {
			limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), max(1, int(requestsPerSecond)))
		}
		o.classifier = intent.NewLlmClassifier(client, model, limiter)
		if withAdvisor {
			o.advisor = intent.NewLlmAdvisor(client, model, limiter)
		}
	}
}

// WithClassifier and WithAdvisor replace the model backed collaborators, mostly for tests.
func WithClassifier(classifier intent.Classifier) Option {
	return func(o *options) {
		o.classifier = classifier
	}
}

func WithAdvisor(advisor intent.Advisor) Option {
	return func(o *options) {
		o.advisor = advisor
	}
}

func WithClassifierTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.classifierTimeout = timeout
	}
}

func WithClassifierAttempts(attempts int) Option {
	return func(o *options) {
		o.classifierAttempts = attempts
	}
}

type options struct {
	classifier         intent.Classifier
	advisor            intent.Advisor
	classifierTimeout  time.Duration
	classifierAttempts int
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	o := &options{
		classifierTimeout:  intent.DEFAULT_CLASSIFIER_TIMEOUT,
		classifierAttempts: intent.DEFAULT_CLASSIFIER_ATTEMPTS,
	}
	for _, opt := range opts {
		opt(o)
	}

	return Usecases{
		Repositories: repos,
		sessions: repositories.NewSessionCache[*RenewalSession](
			repos.SessionCacheSize, repos.SessionTtl),
		classifier: intent.NewResilientClassifier(o.classifier,
			intent.WithClassifierTimeout(o.classifierTimeout),
			intent.WithClassifierAttempts(o.classifierAttempts)),
		advisor: intent.NewResilientAdvisor(o.advisor, o.classifierTimeout),
	}
}

func (usecases *Usecases) NewRenewalUsecase() RenewalUsecase {
	return RenewalUsecase{
		sessions:   usecases.sessions,
		clock:      usecases.Repositories.Clock,
		classifier: usecases.classifier,
		advisor:    usecases.advisor,
	}
}
