// Package rake splits sentences into candidate phrases at stopwords and
// punctuation, in the manner of RAKE keyword extraction. It needs no model.
package rake

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode"
)

// DefaultStopwords is used when no stoplist is configured.
var DefaultStopwords = []string{
	"a", "about", "all", "an", "and", "any", "are", "as", "at", "be", "by",
	"can", "for", "from", "has", "have", "in", "into", "is", "it", "its",
	"of", "on", "or", "over", "that", "the", "their", "them", "then", "these",
	"this", "those", "to", "using", "via", "was", "were", "which", "will",
	"with", "within", "without", "you", "your",
}

// Extractor splits sentences into runs of non-stopword words.
type Extractor struct {
	stopwords map[string]struct{}
	minWords  int
	name      string
}

// New creates an extractor with the given stopword list. Phrases shorter than
// minWords words are dropped; values below 1 mean 1.
func New(stopwords []string, minWords int) *Extractor {
	if minWords < 1 {
		minWords = 1
	}
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{
		stopwords: stops,
		minWords:  minWords,
		name:      fingerprint(stops, minWords),
	}
}

// Name includes a hash of the stoplist so cached phrases are invalidated when
// it changes.
func (e *Extractor) Name() string { return e.name }

func (e *Extractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Phrases(sentence), nil
}

// Phrases returns the candidate phrases of text in order of appearance.
// Words are lower-cased; stopwords, pure numbers and punctuation other than
// hyphens end a phrase.
func (e *Extractor) Phrases(text string) []string {
	var phrases []string
	var words []string
	var current strings.Builder

	flushPhrase := func() {
		if len(words) >= e.minWords {
			phrases = append(phrases, strings.Join(words, " "))
		}
		words = words[:0]
	}
	flushWord := func() {
		if current.Len() == 0 {
			return
		}
		word := e.processToken(current.String())
		current.Reset()
		if word == "" {
			flushPhrase()
			return
		}
		words = append(words, word)
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-':
			current.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			flushWord()
		default:
			// Apostrophes stay inside a word ("user's" -> "users").
			if r == '\'' || r == '’' {
				continue
			}
			flushWord()
			flushPhrase()
		}
	}

	// Don't forget the last word
	flushWord()
	flushPhrase()

	return phrases
}

// processToken returns the cleaned word, or "" when the token breaks a phrase.
func (e *Extractor) processToken(token string) string {
	word := cleanToken(token)
	if len(word) <= 1 {
		return ""
	}

	// Mixed tokens like "gpt-4", "utf-8", "python3" are kept.
	if isNumericOnly(word) {
		return ""
	}

	if e.isStopword(word) {
		return ""
	}

	return word
}

// cleanToken strips leading/trailing hyphens and normalizes consecutive hyphens
func cleanToken(token string) string {
	token = strings.Trim(token, "-")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

func (e *Extractor) isStopword(word string) bool {
	_, ok := e.stopwords[word]
	return ok
}

func fingerprint(stops map[string]struct{}, minWords int) string {
	words := make([]string, 0, len(stops))
	for w := range stops {
		words = append(words, w)
	}
	sort.Strings(words)

	h := fnv.New64a()
	for _, w := range words {
		h.Write([]byte(w))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("rake/%d/%016x", minWords, h.Sum64())
}
