// Package chunker extracts noun phrases by part-of-speech tagging a sentence
// and merging adjacent tags with a small grammar:
//
//	NNP + NNP -> NNP
//	NN  + NN  -> NNI
//	NNI + NN  -> NNI
//	JJ  + JJ  -> JJ
//	JJ  + NN  -> NNI
//
// Merged chunks tagged NNP or NNI are the phrases.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

// Name identifies the tagger model for phrase caching.
const Name = "chunker/prose-v2"

// Tagged is a token with its Penn Treebank tag.
type Tagged struct {
	Text string
	Tag  string
}

type pair struct{ left, right string }

var grammar = map[pair]string{
	{"NNP", "NNP"}: "NNP",
	{"NN", "NN"}:   "NNI",
	{"NNI", "NN"}:  "NNI",
	{"JJ", "JJ"}:   "JJ",
	{"JJ", "NN"}:   "NNI",
}

// Chunker is the default noun-phrase extractor. It is safe for concurrent
// use; the tagger model is read-only after New.
type Chunker struct {
	model *prose.Model
}

// New returns a chunker backed by the prose tagger. The tagger model is built
// here once and shared by every Extract call.
func New() *Chunker {
	return &Chunker{model: prose.ModelFromData(Name)}
}

func (c *Chunker) Name() string { return Name }

// Extract tags sentence with prose and returns its noun phrases, lower-cased.
func (c *Chunker) Extract(ctx context.Context, sentence string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sentence) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(sentence,
		prose.UsingModel(c.model),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: tag sentence: %v", internalerr.ErrExtractor, err)
	}

	toks := doc.Tokens()
	tagged := make([]Tagged, len(toks))
	for i, tok := range toks {
		tagged[i] = Tagged{Text: tok.Text, Tag: tok.Tag}
	}
	return Chunk(tagged), nil
}

// Chunk merges tagged tokens with the grammar until no rule applies and
// returns the NNP and NNI chunks, trimmed and lower-cased. Chunks of a single
// character are dropped.
func Chunk(tokens []Tagged) []string {
	chunks := make([]Tagged, len(tokens))
	for i, t := range tokens {
		chunks[i] = Tagged{Text: t.Text, Tag: normalizeTag(t.Tag)}
	}

	for merged := true; merged; {
		merged = false
		for i := 0; i+1 < len(chunks); i++ {
			tag, ok := grammar[pair{chunks[i].Tag, chunks[i+1].Tag}]
			if !ok {
				continue
			}
			chunks[i] = Tagged{Text: chunks[i].Text + " " + chunks[i+1].Text, Tag: tag}
			chunks = append(chunks[:i+1], chunks[i+2:]...)
			merged = true
			break
		}
	}

	var phrases []string
	for _, c := range chunks {
		if c.Tag != "NNP" && c.Tag != "NNI" {
			continue
		}
		p := strings.ToLower(strings.TrimSpace(c.Text))
		if len(p) > 1 {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

// normalizeTag folds title and plural variants onto their base tag
// (NNS -> NN, NNPS -> NNP, NN-TL -> NN, NP -> NNP).
func normalizeTag(tag string) string {
	switch {
	case tag == "NP" || tag == "NP-TL":
		return "NNP"
	case strings.HasSuffix(tag, "-TL"):
		return strings.TrimSuffix(tag, "-TL")
	case strings.HasSuffix(tag, "S"):
		return strings.TrimSuffix(tag, "S")
	}
	return tag
}
