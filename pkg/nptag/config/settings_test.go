package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nptag.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if s.TagsKey != "automatic_tags" {
		t.Errorf("TagsKey = %q", s.TagsKey)
	}
	if !s.SanitizeEnabled() {
		t.Error("sanitize should default on")
	}
}

func TestLoadSettingsOverridesDefaults(t *testing.T) {
	t.Setenv("NPTAG_TEST_MODEL", "llama3")
	path := writeSettings(t, `
fields: [title, summary]
sanitize: false
extractor:
  kind: llm
  llm:
    model: ${NPTAG_TEST_MODEL}
    timeout: 5s
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if !reflect.DeepEqual(s.Fields, []string{"title", "summary"}) {
		t.Errorf("Fields = %v", s.Fields)
	}
	if s.SanitizeEnabled() {
		t.Error("sanitize should be off")
	}
	if s.Extractor.LLM.Model != "llama3" {
		t.Errorf("env expansion failed: model = %q", s.Extractor.LLM.Model)
	}
	if s.Extractor.LLM.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", s.Extractor.LLM.Timeout)
	}
	if s.Extractor.LLM.BaseURL == "" {
		t.Error("base_url default should survive")
	}
	if s.TagsKey != "automatic_tags" || s.Discovery.Extension != ".md" {
		t.Error("unset keys should keep defaults")
	}
}

func TestLoadSettingsEmptyFile(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, ""))
	if err != nil {
		t.Fatalf("empty settings file should load: %v", err)
	}
	if !reflect.DeepEqual(s.Fields, DefaultSettings().Fields) {
		t.Errorf("Fields = %v", s.Fields)
	}
}

func TestLoadSettingsRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "colour: blue\n",
		"unknown extractor": "extractor:\n  kind: magic\n",
		"command missing":   "extractor:\n  kind: command\n",
		"tags key is field": "tags_key: title\n",
		"bad exclude":       "discovery:\n  exclude: ['[abc']\n",
		"bad extension":     "discovery:\n  extension: md\n",
		"negative jobs":     "jobs: -2\n",
		"no fields":         "fields: []\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, content))
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings("/nonexistent/nptag.yaml")
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
