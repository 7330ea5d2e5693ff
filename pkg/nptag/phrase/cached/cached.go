// Package cached memoizes a phrase.Extractor in a store.PhraseCache.
package cached

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/cognicore/nptag/pkg/nptag/phrase"
	"github.com/cognicore/nptag/pkg/nptag/store"
)

// Extractor wraps another extractor. Cache failures are logged and fall
// through to the wrapped extractor.
type Extractor struct {
	next   phrase.Extractor
	cache  store.PhraseCache
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a caching extractor. A nil logger uses slog.Default().
func New(next phrase.Extractor, cache store.PhraseCache, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{next: next, cache: cache, logger: logger}
}

// Name is the wrapped extractor's name.
func (e *Extractor) Name() string { return e.next.Name() }

func (e *Extractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	name := e.next.Name()

	phrases, ok, err := e.cache.GetPhrases(ctx, name, sentence)
	if err != nil {
		e.logger.Warn("phrase cache read failed", "extractor", name, "err", err)
	} else if ok {
		e.hits.Add(1)
		return phrases, nil
	}
	e.misses.Add(1)

	phrases, err = e.next.Extract(ctx, sentence)
	if err != nil {
		return nil, err
	}
	if err := e.cache.PutPhrases(ctx, name, sentence, phrases); err != nil {
		e.logger.Warn("phrase cache write failed", "extractor", name, "err", err)
	}
	return phrases, nil
}

// Hits returns the number of sentences served from the cache.
func (e *Extractor) Hits() int64 { return e.hits.Load() }

// Misses returns the number of sentences passed to the wrapped extractor.
func (e *Extractor) Misses() int64 { return e.misses.Load() }
