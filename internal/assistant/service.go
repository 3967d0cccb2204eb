// Package assistant turns free text into a transaction suggestion using an
// external model. Suggestions are advisory: failures are logged and yield
// an empty result, never an error to the caller.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"cozypocket/internal/cache"
)

//go:generate mockgen -destination=mocks/mock_parser.go -package=mocks cozypocket/internal/assistant Parser

// Parser extracts a suggestion from free text.
type Parser interface {
	Parse(ctx context.Context, text string) (Suggestion, error)
}

type Config struct {
	// Timeout bounds a single model call. Zero means 20s.
	Timeout  time.Duration
	CacheTTL time.Duration
	// CacheSize caps remembered answers. Zero means 128.
	CacheSize int
}

// Service wraps a Parser with caching, request collapsing and a detached
// timeout. A nil Parser disables the assistant.
type Service struct {
	parser Parser
	cfg    Config
	cache  *cache.LRUCache[Suggestion]
	group  singleflight.Group
	logger *slog.Logger
}

func NewService(parser Parser, cfg Config, logger *slog.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 128
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{parser: parser, cfg: cfg, logger: logger}
	if cfg.CacheTTL > 0 {
		s.cache = cache.NewLRUCache[Suggestion](cfg.CacheSize, cfg.CacheTTL)
	}
	return s
}

// Enabled reports whether a parser is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.parser != nil
}

// Cache exposes the answer cache for registration with a cache.Manager.
// It is nil when caching is off.
func (s *Service) Cache() *cache.LRUCache[Suggestion] {
	return s.cache
}

// Suggest returns the parser's sanitised guess and whether it produced
// anything. Errors, timeouts and empty input all return false.
//
// The model call is detached from ctx cancellation: a caller going away
// does not abort it, and its answer still lands in the cache.
func (s *Service) Suggest(ctx context.Context, text string) (Suggestion, bool) {
	if !s.Enabled() {
		return Suggestion{}, false
	}
	key := normalizeKey(text)
	if key == "" {
		return Suggestion{}, false
	}
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			return hit, !hit.IsEmpty()
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
		defer cancel()

		start := time.Now()
		sug, err := s.parser.Parse(callCtx, text)
		if err != nil {
			return Suggestion{}, err
		}
		sug = sug.Sanitize()
		s.logger.InfoContext(ctx, "Assistant parsed text",
			"duration_ms", time.Since(start).Milliseconds(),
			"empty", sug.IsEmpty())
		if s.cache != nil {
			s.cache.Set(key, sug)
		}
		return sug, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Assistant parse failed", "error", err, "shared", shared)
		return Suggestion{}, false
	}
	sug := v.(Suggestion)
	return sug, !sug.IsEmpty()
}

func normalizeKey(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
