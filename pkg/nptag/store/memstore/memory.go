package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/cognicore/nptag/pkg/nptag/store"
)

// Store is an in-memory implementation of store.PhraseCache. It lives for one
// run only.
type Store struct {
	mu      sync.RWMutex
	entries map[key]store.Entry
	now     func() time.Time
}

type key struct {
	extractor string
	sentence  string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[key]store.Entry),
		now:     time.Now,
	}
}

// Close implements store.PhraseCache.
func (s *Store) Close() error { return nil }

// GetPhrases returns a copy of the cached phrases.
func (s *Store) GetPhrases(ctx context.Context, extractor, sentence string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key{extractor, sentence}]
	if !ok {
		return nil, false, nil
	}
	return copyStrings(e.Phrases), true, nil
}

// PutPhrases stores a copy of phrases.
func (s *Store) PutPhrases(ctx context.Context, extractor, sentence string, phrases []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key{extractor, sentence}] = store.Entry{
		Extractor: extractor,
		Sentence:  sentence,
		Phrases:   copyStrings(phrases),
		CreatedAt: s.now(),
	}
	return nil
}

// Count implements store.PhraseCache.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// Prune implements store.PhraseCache.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for k, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
