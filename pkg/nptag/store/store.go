package store

import (
	"context"
	"time"
)

// PhraseCache memoizes noun-phrase extraction results. Entries are keyed by
// extractor name and sentence, so changing the extractor or its model never
// serves stale phrases. Implementations are safe for concurrent use.
type PhraseCache interface {
	Close() error

	// GetPhrases returns the cached phrases for sentence. ok is false on a miss.
	GetPhrases(ctx context.Context, extractor, sentence string) (phrases []string, ok bool, err error)
	// PutPhrases stores phrases for sentence, replacing any previous entry.
	PutPhrases(ctx context.Context, extractor, sentence string, phrases []string) error
	// Count returns the number of cached entries.
	Count(ctx context.Context) (int64, error)
	// Prune removes entries stored before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Entry is one cached extraction result.
type Entry struct {
	Extractor string
	Sentence  string
	Phrases   []string
	CreatedAt time.Time
}
