// Package llmnp asks a chat model for the noun phrases of a sentence.
package llmnp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

const systemPrompt = `You extract noun phrases for document tagging.
Reply with a JSON array of strings and nothing else.
Each string is a noun phrase copied from the sentence, lower-case, without
leading articles. Reply [] when there are none.`

// Chatter sends a system and user message to a chat model.
type Chatter interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Extractor is a phrase.Extractor backed by a chat model.
type Extractor struct {
	chat  Chatter
	model string
}

// New returns an extractor using chat. model is used only to name the
// extractor for caching.
func New(chat Chatter, model string) *Extractor {
	return &Extractor{chat: chat, model: model}
}

func (e *Extractor) Name() string { return "llm/" + e.model }

func (e *Extractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	if strings.TrimSpace(sentence) == "" {
		return nil, nil
	}
	out, err := e.chat.Chat(ctx, systemPrompt, "Sentence: "+sentence)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", internalerr.ErrExtractor, err)
	}
	return ParseReply(out)
}

// ParseReply decodes the model reply: a JSON array of strings, optionally
// inside a fenced code block or surrounded by prose.
func ParseReply(reply string) ([]string, error) {
	text := strings.TrimSpace(reply)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: reply has no JSON array: %q", internalerr.ErrExtractor, truncate(text, 80))
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %v", internalerr.ErrExtractor, err)
	}

	phrases := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.ToLower(strings.TrimSpace(p))
		if len(p) > 1 {
			phrases = append(phrases, p)
		}
	}
	return phrases, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
