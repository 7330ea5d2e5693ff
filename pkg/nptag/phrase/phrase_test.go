package phrase

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestExtractAllConcatenatesInOrder(t *testing.T) {
	ex := Static{
		"A fast food delivery tool":  {"fast food delivery tool", "food delivery"},
		"Outputs a delivery receipt": {"delivery receipt"},
	}

	got, err := ExtractAll(context.Background(), ex, []string{
		"A fast food delivery tool",
		"Outputs a delivery receipt",
	})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	want := []string{"fast food delivery tool", "food delivery", "delivery receipt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAll = %v, want %v", got, want)
	}
}

func TestExtractAllNoSentencesNoCalls(t *testing.T) {
	calls := 0
	ex := Func{ID: "count", Fn: func(context.Context, string) ([]string, error) {
		calls++
		return nil, nil
	}}

	got, err := ExtractAll(context.Background(), ex, nil)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 0 || len(got) != 0 {
		t.Errorf("expected no calls and no phrases, got %d calls, %v", calls, got)
	}
}

func TestExtractAllPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	ex := Func{ID: "fail", Fn: func(context.Context, string) ([]string, error) {
		return nil, boom
	}}

	_, err := ExtractAll(context.Background(), ex, []string{"x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestExtractAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractAll(ctx, Static{}, []string{"x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLines(t *testing.T) {
	got := Lines("fast food\n\n  delivery receipt  \r\n")
	want := []string{"fast food", "delivery receipt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
}
