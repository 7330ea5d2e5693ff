package ingest

import (
	"context"

	"github.com/cognicore/nptag/pkg/nptag/normalize"
	"github.com/cognicore/nptag/pkg/nptag/phrase"
	"github.com/cognicore/nptag/pkg/nptag/stoplist"
)

// Pipeline orchestrates tag derivation for one document:
// sentences → sanitize → noun phrases → normalize → ignore filter
type Pipeline struct {
	extractor phrase.Extractor
	rules     normalize.Rules
	ignore    *stoplist.Manager
	sanitizer *Sanitizer
}

// NewPipeline creates a pipeline with the given components. rules, ignore and
// sanitizer may be nil.
func NewPipeline(extractor phrase.Extractor, rules normalize.Rules, ignore *stoplist.Manager, sanitizer *Sanitizer) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		rules:     rules,
		ignore:    ignore,
		sanitizer: sanitizer,
	}
}

// Processed holds the intermediate and final results for one document
type Processed struct {
	Sentences []string // sanitized, blank ones dropped
	Phrases   []string // raw extractor output
	Tags      []string // final sorted tag list
}

// Process derives tags from candidate sentences. No extractor calls are made
// when there are no sentences.
func (p *Pipeline) Process(ctx context.Context, sentences []string) (Processed, error) {
	var out Processed

	// 1. Sanitize
	for _, s := range sentences {
		if s = p.sanitizer.Clean(s); s != "" {
			out.Sentences = append(out.Sentences, s)
		}
	}

	// 2. Noun phrases
	phrases, err := phrase.ExtractAll(ctx, p.extractor, out.Sentences)
	if err != nil {
		return Processed{}, err
	}
	out.Phrases = phrases

	// 3. Dedupe, scrub overlap, apply replacement rules, sort
	tags := normalize.Tags(phrases, p.rules)

	// 4. Ignore list
	out.Tags = p.ignore.Filter(tags)

	return out, nil
}
