// Package maintenance keeps the phrase cache from growing without bound.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cognicore/nptag/pkg/nptag/store"
)

// Pruner removes phrase cache entries older than MaxAge.
type Pruner struct {
	Cache  store.PhraseCache
	MaxAge time.Duration
	Now    func() time.Time // defaults to time.Now
}

// Result summarizes a prune run.
type Result struct {
	Before  int64
	Removed int64
	After   int64
	Cutoff  time.Time
}

// Prune deletes entries created before Now()-MaxAge.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	var res Result
	if p.Cache == nil {
		return res, errors.New("pruner: no cache configured")
	}
	if p.MaxAge <= 0 {
		return res, fmt.Errorf("pruner: max age must be positive, got %s", p.MaxAge)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	res.Cutoff = now().Add(-p.MaxAge)

	before, err := p.Cache.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count entries: %w", err)
	}
	res.Before = before

	removed, err := p.Cache.Prune(ctx, res.Cutoff)
	if err != nil {
		return res, fmt.Errorf("prune entries: %w", err)
	}
	res.Removed = removed
	res.After = before - removed
	return res, nil
}
