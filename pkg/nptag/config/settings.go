package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

// Extractor kinds.
const (
	ExtractorChunker = "chunker"
	ExtractorRake    = "rake"
	ExtractorCommand = "command"
	ExtractorLLM     = "llm"
)

// Settings is the optional YAML settings file. Values may reference
// environment variables as $VAR or ${VAR}.
type Settings struct {
	Fields      []string  `yaml:"fields"`
	TagsKey     string    `yaml:"tags_key"`
	IgnoreFile  string    `yaml:"ignore_file"`
	ReplaceFile string    `yaml:"replace_file"`
	Sanitize    *bool     `yaml:"sanitize"`
	Jobs        int       `yaml:"jobs"`
	Discovery   Discovery `yaml:"discovery"`
	Extractor   Extractor `yaml:"extractor"`
}

// Discovery selects which files under the root are processed.
type Discovery struct {
	Extension string   `yaml:"extension"`
	Exclude   []string `yaml:"exclude"`
}

// Extractor configures the noun-phrase source.
type Extractor struct {
	Kind     string   `yaml:"kind"`
	Stoplist string   `yaml:"stoplist"`
	Command  []string `yaml:"command"`
	LLM      LLM      `yaml:"llm"`
	// Cache is "memory" or a path to a SQLite database. Empty disables caching.
	Cache string `yaml:"cache"`
}

// LLM configures an OpenAI-compatible chat endpoint.
type LLM struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	sanitize := true
	return Settings{
		Fields:      []string{"title", "blurb", "input", "output"},
		TagsKey:     "automatic_tags",
		IgnoreFile:  DefaultIgnoreFile,
		ReplaceFile: DefaultReplaceFile,
		Sanitize:    &sanitize,
		Jobs:        1,
		Discovery: Discovery{
			Extension: ".md",
			Exclude:   []string{"**/*_new.md", "**/.github/**"},
		},
		Extractor: Extractor{
			Kind: ExtractorChunker,
			LLM: LLM{
				BaseURL: "http://localhost:11434/v1",
				Timeout: 60 * time.Second,
			},
		},
	}
}

// LoadSettings reads a settings file over DefaultSettings. Keys absent from
// the file keep their defaults; unknown keys are rejected.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SanitizeEnabled reports whether sentences are cleaned before extraction.
func (s Settings) SanitizeEnabled() bool {
	return s.Sanitize == nil || *s.Sanitize
}

// Validate checks option combinations.
func (s Settings) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if len(s.Fields) == 0 {
		return invalid("fields must not be empty")
	}
	if strings.TrimSpace(s.TagsKey) == "" {
		return invalid("tags_key must not be empty")
	}
	for _, f := range s.Fields {
		if f == s.TagsKey {
			return invalid("tags_key %q is also a source field", f)
		}
	}
	if s.Jobs < 0 {
		return invalid("jobs must be >= 0, got %d", s.Jobs)
	}
	if !strings.HasPrefix(s.Discovery.Extension, ".") {
		return invalid("extension %q must start with a dot", s.Discovery.Extension)
	}
	for _, p := range s.Discovery.Exclude {
		if !doublestar.ValidatePattern(p) {
			return invalid("bad exclude pattern %q", p)
		}
	}

	switch s.Extractor.Kind {
	case ExtractorChunker, ExtractorRake:
	case ExtractorCommand:
		if len(s.Extractor.Command) == 0 || s.Extractor.Command[0] == "" {
			return invalid("command extractor needs a command")
		}
	case ExtractorLLM:
		if s.Extractor.LLM.BaseURL == "" || s.Extractor.LLM.Model == "" {
			return invalid("llm extractor needs base_url and model")
		}
	default:
		return invalid("unknown extractor %q", s.Extractor.Kind)
	}
	return nil
}
