package repositories

import (
	"time"

	"github.com/checkmarble/renewals-backend/repositories/clock"
)

type Repositories struct {
	Clock            clock.Clock
	SessionCacheSize int
	SessionTtl       time.Duration
}

type Option func(*Repositories)

func WithClock(c clock.Clock) Option {
	return func(r *Repositories) {
		r.Clock = c
	}
}

func WithSessionCache(size int, ttl time.Duration) Option {
	return func(r *Repositories) {
		if size > 0 {
			r.SessionCacheSize = size
		}
		if ttl > 0 {
			r.SessionTtl = ttl
		}
	}
}

func NewRepositories(opts ...Option) Repositories {
	r := Repositories{
		Clock:            clock.New(),
		SessionCacheSize: DEFAULT_SESSION_CACHE_SIZE,
		SessionTtl:       DEFAULT_SESSION_TTL,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
