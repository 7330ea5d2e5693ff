package config

import (
	"fmt"

	"github.com/cognicore/nptag/pkg/nptag/normalize"
	"github.com/cognicore/nptag/pkg/nptag/stoplist"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	IgnorePath   string
	RulesPath    string
	StoplistPath string
}

// Components holds all loaded configuration components
type Components struct {
	Ignore    *stoplist.Manager
	Rules     normalize.Rules
	Stopwords []string
}

// Load reads all configuration files and returns initialized components.
// An empty path yields an empty component.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Load ignore list
	if l.IgnorePath != "" {
		tags, err := LoadIgnore(l.IgnorePath)
		if err != nil {
			return nil, fmt.Errorf("load ignore list: %w", err)
		}
		comp.Ignore = stoplist.NewManager(tags)
	} else {
		comp.Ignore = stoplist.NewManager(nil)
	}

	// Load replacement rules
	if l.RulesPath != "" {
		rules, err := LoadRules(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load replacement rules: %w", err)
		}
		comp.Rules = rules
	}

	// Load stopwords for the rake extractor
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stopwords = sl.Terms
	}

	return comp, nil
}
