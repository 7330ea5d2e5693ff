package cached

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/nptag/pkg/nptag/phrase"
	"github.com/cognicore/nptag/pkg/nptag/store/memstore"
)

func countingExtractor(calls *int) phrase.Func {
	return phrase.Func{ID: "counting", Fn: func(_ context.Context, s string) ([]string, error) {
		*calls++
		return []string{s + " phrase"}, nil
	}}
}

func TestExtractHitsCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	e := New(countingExtractor(&calls), memstore.New(), nil)

	for i := 0; i < 3; i++ {
		got, err := e.Extract(ctx, "delivery")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, []string{"delivery phrase"}) {
			t.Errorf("Extract = %v", got)
		}
	}

	if calls != 1 {
		t.Errorf("wrapped extractor called %d times, want 1", calls)
	}
	if e.Hits() != 2 || e.Misses() != 1 {
		t.Errorf("hits=%d misses=%d", e.Hits(), e.Misses())
	}
	if e.Name() != "counting" {
		t.Errorf("Name = %q", e.Name())
	}
}

func TestExtractErrorNotCached(t *testing.T) {
	ctx := context.Background()
	cache := memstore.New()
	boom := errors.New("boom")
	e := New(phrase.Func{ID: "fail", Fn: func(context.Context, string) ([]string, error) {
		return nil, boom
	}}, cache, nil)

	if _, err := e.Extract(ctx, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n, _ := cache.Count(ctx); n != 0 {
		t.Errorf("failed extraction must not be cached, got %d entries", n)
	}
}

type brokenCache struct{}

func (brokenCache) Close() error { return nil }
func (brokenCache) GetPhrases(context.Context, string, string) ([]string, bool, error) {
	return nil, false, errors.New("disk gone")
}
func (brokenCache) PutPhrases(context.Context, string, string, []string) error {
	return errors.New("disk gone")
}
func (brokenCache) Count(context.Context) (int64, error)            { return 0, nil }
func (brokenCache) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func TestExtractCacheFailureFallsThrough(t *testing.T) {
	calls := 0
	e := New(countingExtractor(&calls), brokenCache{}, nil)

	got, err := e.Extract(context.Background(), "x")
	if err != nil {
		t.Fatalf("cache errors should not fail extraction: %v", err)
	}
	if len(got) != 1 || calls != 1 {
		t.Errorf("got %v after %d calls", got, calls)
	}
}
