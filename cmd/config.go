package cmd

import (
	"github.com/cockroachdb/errors"
)

type CompiledConfig struct {
	Version string
}

type ServerConfig struct {
	loggingFormat      string
	sentryDsn          string
	enableTracing      bool
	sessionCacheSize   int
	sessionTtlMinutes  int
	classifierTimeout  int
	classifierAttempts int
}

func (config ServerConfig) Validate() error {
	if config.sessionCacheSize <= 0 {
		return errors.New("SESSION_CACHE_SIZE must be positive")
	}
	if config.sessionTtlMinutes <= 0 {
		return errors.New("SESSION_TTL_MINUTES must be positive")
	}
	if config.classifierTimeout <= 0 {
		return errors.New("INTENT_CLASSIFIER_TIMEOUT_SECOND must be positive")
	}
	if config.classifierAttempts <= 0 {
		return errors.New("INTENT_CLASSIFIER_ATTEMPTS must be positive")
	}
	return nil
}
