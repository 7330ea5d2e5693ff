package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
	"github.com/cognicore/nptag/pkg/nptag/normalize"
)

// Default file names, relative to the working directory.
const (
	DefaultIgnoreFile  = "textblob_ignore.dat"
	DefaultReplaceFile = "textblob_replace.dat"
)

// ruleSeparator splits a replacement line into pattern and replacement.
const ruleSeparator = ": "

// LoadIgnore loads the ignore list: one tag per line, '#' lines are comments.
func LoadIgnore(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrMissingIgnoreFile, err)
	}
	return ParseIgnore(data), nil
}

// ParseIgnore parses ignore list content. Trailing line breaks are trimmed
// and blank lines skipped; anything else is kept verbatim.
func ParseIgnore(data []byte) []string {
	var tags []string
	for _, line := range lines(data) {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tags = append(tags, line)
	}
	return tags
}

// LoadRules loads replacement rules from a file of "pattern: replacement" lines.
func LoadRules(path string) (normalize.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrMissingRuleFile, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules parses replacement rule content.
// Format: pattern: replacement
//
// The pattern is a regular expression; the replacement is literal text.
// Blank lines and '#' comments are skipped. A line must split into exactly two
// parts on ": ". When a pattern repeats, the later replacement wins and the
// rule keeps its first position.
func ParseRules(data []byte) (normalize.Rules, error) {
	var rules normalize.Rules
	index := make(map[string]int)

	for n, line := range lines(data) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ruleSeparator)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %d: want \"pattern%sreplacement\", got %q",
				internalerr.ErrInvalidRuleLine, n+1, ruleSeparator, line)
		}
		pattern, replacement := parts[0], parts[1]

		if i, ok := index[pattern]; ok {
			rules[i].Replacement = replacement
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidRuleLine, n+1, err)
		}
		index[pattern] = len(rules)
		rules = append(rules, normalize.Rule{Pattern: re, Replacement: replacement})
	}

	return rules, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// lines splits data into lines with trailing CR/LF removed.
func lines(data []byte) []string {
	out := strings.Split(string(data), "\n")
	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	for i, line := range out {
		out[i] = strings.TrimRight(line, "\r")
	}
	return out
}
