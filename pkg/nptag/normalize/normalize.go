// Package normalize turns raw noun phrases into a tag set: duplicates and
// phrases contained in longer phrases are dropped, then replacement rules are
// folded over every survivor.
package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// Rule rewrites every match of Pattern in a tag with the literal Replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Rules is an ordered rule list. All matching rules apply to a tag, in order.
type Rules []Rule

// Rewrite applies every rule to tag in order.
func (rs Rules) Rewrite(tag string) string {
	for _, r := range rs {
		tag = r.Pattern.ReplaceAllLiteralString(tag, r.Replacement)
	}
	return tag
}

// Apply rewrites each tag. Tags that become blank are dropped.
func (rs Rules) Apply(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(rs.Rewrite(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Dedupe returns the distinct, non-blank tags in first-seen order.
func Dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ScrubOverlap drops every tag that is a substring of another distinct tag in
// the input. Containment is checked against the whole input, so the result
// never holds a pair where one member contains the other. Input must already
// be deduplicated.
func ScrubOverlap(tags []string) []string {
	out := make([]string, 0, len(tags))
	for i, t := range tags {
		contained := false
		for j, u := range tags {
			if i != j && t != u && strings.Contains(u, t) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, t)
		}
	}
	return out
}

// Tags runs the full chain over raw phrases and returns the result sorted.
// Dedupe and overlap scrubbing run again after the rules since a rewrite can
// make two tags equal or nested.
func Tags(raw []string, rules Rules) []string {
	tags := ScrubOverlap(Dedupe(raw))
	if len(rules) > 0 {
		tags = ScrubOverlap(Dedupe(rules.Apply(tags)))
	}
	sort.Strings(tags)
	return tags
}
