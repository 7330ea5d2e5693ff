package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestPhrases_MissThenHit(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.GetPhrases(ctx, "chunker", "A fast food delivery tool"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.PutPhrases(ctx, "chunker", "A fast food delivery tool", []string{"fast food delivery tool"}); err != nil {
		t.Fatalf("PutPhrases: %v", err)
	}

	got, ok, err := s.GetPhrases(ctx, "chunker", "A fast food delivery tool")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != "fast food delivery tool" {
		t.Errorf("unexpected phrases %v", got)
	}
}

func TestPhrases_KeyedByExtractor(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutPhrases(ctx, "chunker", "x", []string{"a"})

	if _, ok, _ := s.GetPhrases(ctx, "llm/llama3", "x"); ok {
		t.Error("entries must not leak across extractors")
	}
}

func TestPhrases_EmptyResultIsHit(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutPhrases(ctx, "chunker", "nothing here", nil)

	got, ok, _ := s.GetPhrases(ctx, "chunker", "nothing here")
	if !ok {
		t.Fatal("an empty result should still be cached")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestPhrases_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	in := []string{"a", "b"}
	s.PutPhrases(ctx, "e", "s", in)
	in[0] = "mutated"

	got, _, _ := s.GetPhrases(ctx, "e", "s")
	got[1] = "mutated"

	again, _, _ := s.GetPhrases(ctx, "e", "s")
	if again[0] != "a" || again[1] != "b" {
		t.Errorf("store shares slices with callers: %v", again)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	s.PutPhrases(ctx, "e", "old", []string{"x"})
	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	s.PutPhrases(ctx, "e", "new", []string{"y"})

	removed, err := s.Prune(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("expected 1 entry left, got %d", n)
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sentence := fmt.Sprintf("sentence %d", j)
				s.PutPhrases(ctx, "e", sentence, []string{sentence})
				s.GetPhrases(ctx, "e", sentence)
			}
		}(i)
	}
	wg.Wait()

	if n, _ := s.Count(ctx); n != 50 {
		t.Errorf("expected 50 entries, got %d", n)
	}
}
