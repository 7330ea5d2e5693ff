package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/nptag/pkg/nptag/store/memstore"
)

func TestPrunerRemovesOldEntries(t *testing.T) {
	ctx := context.Background()
	cache := memstore.New()
	defer cache.Close()

	if err := cache.PutPhrases(ctx, "static", "old sentence", []string{"old"}); err != nil {
		t.Fatalf("PutPhrases: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	mid := time.Now()
	time.Sleep(5 * time.Millisecond)
	if err := cache.PutPhrases(ctx, "static", "new sentence", []string{"new"}); err != nil {
		t.Fatalf("PutPhrases: %v", err)
	}

	p := &Pruner{
		Cache:  cache,
		MaxAge: time.Hour,
		Now:    func() time.Time { return mid.Add(time.Hour) },
	}
	res, err := p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}

	if res.Before != 2 || res.Removed != 1 || res.After != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if !res.Cutoff.Equal(mid) {
		t.Errorf("cutoff = %v, want %v", res.Cutoff, mid)
	}
	if _, ok, _ := cache.GetPhrases(ctx, "static", "new sentence"); !ok {
		t.Error("recent entry was pruned")
	}
}

func TestPrunerInvalidConfiguration(t *testing.T) {
	ctx := context.Background()

	if _, err := (&Pruner{MaxAge: time.Hour}).Prune(ctx); err == nil {
		t.Error("expected error without a cache")
	}
	if _, err := (&Pruner{Cache: memstore.New()}).Prune(ctx); err == nil {
		t.Error("expected error for zero max age")
	}
}
