package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DEFAULT_SESSION_CACHE_SIZE = 1000
	DEFAULT_SESSION_TTL        = 8 * time.Hour
)

// SessionCache holds in-process renewal sessions. Sessions are evicted after the TTL
// or when the cache is full, least recently used first. Nothing outlives the process.
type SessionCache[T any] struct {
	cache *expirable.LRU[uuid.UUID, T]
}

func NewSessionCache[T any](size int, ttl time.Duration) *SessionCache[T] {
	if size <= 0 {
		size = DEFAULT_SESSION_CACHE_SIZE
	}
	if ttl <= 0 {
		ttl = DEFAULT_SESSION_TTL
	}
	return &SessionCache[T]{
		cache: expirable.NewLRU[uuid.UUID, T](size, nil, ttl),
	}
}

func (c *SessionCache[T]) Add(id uuid.UUID, session T) {
	c.cache.Add(id, session)
}

func (c *SessionCache[T]) Get(id uuid.UUID) (T, bool) {
	return c.cache.Get(id)
}

func (c *SessionCache[T]) Remove(id uuid.UUID) {
	c.cache.Remove(id)
}

func (c *SessionCache[T]) Len() int {
	return c.cache.Len()
}
