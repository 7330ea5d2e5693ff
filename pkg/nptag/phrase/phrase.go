// Package phrase defines the noun-phrase source used by the tagging pipeline
// and helpers shared by its implementations.
package phrase

import (
	"context"
	"fmt"
	"strings"
)

// Extractor returns the noun phrases of one sentence. Results must be
// deterministic for a given sentence and Name.
type Extractor interface {
	// Name identifies the extractor and its model or version. Cached phrases
	// are keyed by it.
	Name() string
	Extract(ctx context.Context, sentence string) ([]string, error)
}

// ExtractAll runs e over every sentence and concatenates the phrases in
// sentence order. No calls are made for an empty list.
func ExtractAll(ctx context.Context, e Extractor, sentences []string) ([]string, error) {
	var out []string
	for _, s := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		phrases, err := e.Extract(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("extract %q: %w", s, err)
		}
		out = append(out, phrases...)
	}
	return out, nil
}

// Static maps sentences to fixed phrase lists. Unknown sentences yield none.
type Static map[string][]string

func (s Static) Name() string { return "static" }

func (s Static) Extract(_ context.Context, sentence string) ([]string, error) {
	return append([]string(nil), s[sentence]...), nil
}

// Func adapts a function to Extractor.
type Func struct {
	ID string
	Fn func(ctx context.Context, sentence string) ([]string, error)
}

func (f Func) Name() string { return f.ID }

func (f Func) Extract(ctx context.Context, sentence string) ([]string, error) {
	return f.Fn(ctx, sentence)
}

// Lines splits extractor output into one phrase per non-blank line.
func Lines(out string) []string {
	var phrases []string
	for _, line := range strings.Split(out, "\n") {
		if p := strings.TrimSpace(line); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}
