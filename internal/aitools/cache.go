package aitools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const summaryKeyPrefix = "notes:summary:"

// Cache keeps finished summaries so the same text is not sent to the model twice.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	IsNil(err error) bool
}

// WithCache enables the summary cache. A ttl of zero keeps entries forever.
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

func (s *Service) summaryKey(text string) string {
	sum := sha256.Sum256([]byte(s.model + "\x00" + text))
	return summaryKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *Service) cachedSummary(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	out, err := s.cache.Get(ctx, key)
	if err != nil {
		if !s.cache.IsNil(err) {
			s.logger.WithTrace(ctx).Warn("summary cache read failed", "error", err)
		}
		return "", false
	}
	s.logger.WithTrace(ctx).Debug("summary cache hit")
	return out, true
}

func (s *Service) storeSummary(ctx context.Context, key, summary string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.WithTrace(ctx).Warn("summary cache write failed", "error", err)
	}
}
