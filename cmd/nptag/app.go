package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/cognicore/nptag/internal/llm"
	"github.com/cognicore/nptag/internal/metrics"
	"github.com/cognicore/nptag/pkg/nptag"
	"github.com/cognicore/nptag/pkg/nptag/config"
	"github.com/cognicore/nptag/pkg/nptag/discover"
	"github.com/cognicore/nptag/pkg/nptag/ingest"
	"github.com/cognicore/nptag/pkg/nptag/phrase"
	"github.com/cognicore/nptag/pkg/nptag/phrase/cached"
	"github.com/cognicore/nptag/pkg/nptag/phrase/chunker"
	"github.com/cognicore/nptag/pkg/nptag/phrase/command"
	"github.com/cognicore/nptag/pkg/nptag/phrase/llmnp"
	"github.com/cognicore/nptag/pkg/nptag/phrase/rake"
	"github.com/cognicore/nptag/pkg/nptag/store"
	"github.com/cognicore/nptag/pkg/nptag/store/memstore"
	"github.com/cognicore/nptag/pkg/nptag/store/sqlite"
)

// memoryCache selects the in-process phrase cache.
const memoryCache = "memory"

type options struct {
	dryRun      bool
	configPath  string
	ignoreFile  string
	replaceFile string
	extractor   string
	stoplist    string
	command     string
	llmBase     string
	llmModel    string
	llmAPIKey   string
	cache       string
	jobs        int
	metricsFile string
	logLevel    string
}

func (o *options) register(cmd *cobra.Command) {
	defaults := config.DefaultSettings()
	f := cmd.Flags()

	f.BoolVarP(&o.dryRun, "dry-run", "n", false, "Print the tags that would be written without changing any file")
	f.StringVarP(&o.configPath, "config", "c", "", "Settings file (YAML)")
	f.StringVar(&o.ignoreFile, "ignore-file", defaults.IgnoreFile, "Tags never to emit, one per line (empty disables)")
	f.StringVar(&o.replaceFile, "replace-file", defaults.ReplaceFile, "Replacement rules, 'pattern: replacement' per line (empty disables)")
	f.StringVar(&o.extractor, "extractor", defaults.Extractor.Kind, "Noun phrase extractor (chunker, rake, command, llm)")
	f.StringVar(&o.stoplist, "stoplist", "", "Stopword file for the rake extractor (YAML)")
	f.StringVar(&o.command, "command", "", "Command for the command extractor, split on whitespace")
	f.StringVar(&o.llmBase, "llm-base", defaults.Extractor.LLM.BaseURL, "OpenAI-compatible API base URL for the llm extractor")
	f.StringVar(&o.llmModel, "llm-model", "", "Model for the llm extractor")
	f.StringVar(&o.llmAPIKey, "llm-api-key", "", "API key for the llm extractor")
	f.StringVar(&o.cache, "cache", "", "Phrase cache: 'memory' or a SQLite database path")
	f.IntVar(&o.jobs, "jobs", defaults.Jobs, "Documents processed concurrently")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus text metrics to this file at the end of the run")
	f.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// settings loads the settings file, if any, and applies explicitly set flags
// over it.
func (o *options) settings(cmd *cobra.Command) (config.Settings, error) {
	s := config.DefaultSettings()
	if o.configPath != "" {
		loaded, err := config.LoadSettings(o.configPath)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	f := cmd.Flags()
	if f.Changed("ignore-file") {
		s.IgnoreFile = o.ignoreFile
	}
	if f.Changed("replace-file") {
		s.ReplaceFile = o.replaceFile
	}
	if f.Changed("extractor") {
		s.Extractor.Kind = o.extractor
	}
	if f.Changed("stoplist") {
		s.Extractor.Stoplist = o.stoplist
	}
	if f.Changed("command") {
		s.Extractor.Command = strings.Fields(o.command)
	}
	if f.Changed("llm-base") {
		s.Extractor.LLM.BaseURL = o.llmBase
	}
	if f.Changed("llm-model") {
		s.Extractor.LLM.Model = o.llmModel
	}
	if f.Changed("llm-api-key") {
		s.Extractor.LLM.APIKey = o.llmAPIKey
	}
	if f.Changed("cache") {
		s.Extractor.Cache = o.cache
	}
	if f.Changed("jobs") {
		s.Jobs = o.jobs
	}

	return s, s.Validate()
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, root string, stdout, stderr io.Writer) error {
	if err := discover.CheckRoot(root); err != nil {
		return err
	}

	s, err := opts.settings(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, opts.logLevel).With("run", ulid.Make().String())

	// Load configuration components
	loader := config.Loader{
		IgnorePath:   s.IgnoreFile,
		RulesPath:    s.ReplaceFile,
		StoplistPath: s.Extractor.Stoplist,
	}
	components, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	extractor, cache, err := buildExtractor(ctx, s.Extractor, components.Stopwords, logger)
	if err != nil {
		return err
	}

	var sanitizer *ingest.Sanitizer
	if s.SanitizeEnabled() {
		sanitizer = ingest.NewSanitizer()
	}
	pipeline := ingest.NewPipeline(extractor, components.Rules, components.Ignore, sanitizer)

	paths, err := discover.Walk(ctx, root, discover.Options{
		Extension: s.Discovery.Extension,
		Exclude:   s.Discovery.Exclude,
	})
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return err
	}

	var rec *metrics.Recorder
	if opts.metricsFile != "" {
		rec = metrics.New()
	}

	tagger := nptag.New(nptag.Options{
		Pipeline: pipeline,
		Fields:   s.Fields,
		TagsKey:  s.TagsKey,
		DryRun:   opts.dryRun,
		Jobs:     s.Jobs,
		Logger:   logger,
		Metrics:  rec,
		Cache:    cache,
		Report: func(r nptag.Result) {
			if r.Err == nil {
				fmt.Fprintf(stdout, "Extracted tags: %s\n", strings.Join(r.Tags, ", "))
			}
		},
	})
	defer tagger.Close()

	logger.Info("tagging documents",
		"root", root,
		"documents", len(paths),
		"extractor", extractor.Name(),
		"ignored_tags", components.Ignore.Len(),
		"rules", len(components.Rules),
		"dry_run", opts.dryRun,
	)

	sum, runErr := tagger.Run(ctx, paths)

	if c, ok := extractor.(*cached.Extractor); ok {
		rec.CacheHits(c.Hits())
		logger.Debug("phrase cache", "hits", c.Hits(), "misses", c.Misses())
	}
	rec.Finish()
	if opts.metricsFile != "" {
		if err := rec.WriteFile(opts.metricsFile); err != nil {
			logger.Error("failed to write metrics", "path", opts.metricsFile, "err", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}

	logger.Info("run complete",
		"processed", sum.Processed,
		"changed", sum.Changed,
		"written", sum.Written,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)

	if n := sum.Failures(); n > 0 {
		return fmt.Errorf("%w: %d of %d documents", errDocumentsFailed, n, sum.Processed)
	}
	return nil
}

// buildExtractor constructs the configured noun-phrase source, wrapped in a
// phrase cache when one is configured. The returned cache is nil when caching
// is off; the caller closes it.
func buildExtractor(ctx context.Context, cfg config.Extractor, stopwords []string, logger *slog.Logger) (phrase.Extractor, store.PhraseCache, error) {
	var (
		base phrase.Extractor
		err  error
	)

	switch cfg.Kind {
	case config.ExtractorChunker:
		base = chunker.New()
	case config.ExtractorRake:
		if len(stopwords) == 0 {
			stopwords = rake.DefaultStopwords
		}
		base = rake.New(stopwords, 1)
	case config.ExtractorCommand:
		base, err = command.New(cfg.Command)
		if err != nil {
			return nil, nil, err
		}
	case config.ExtractorLLM:
		client := &llm.Client{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}
		base = llmnp.New(client, cfg.LLM.Model)
	default:
		return nil, nil, fmt.Errorf("unknown extractor %q", cfg.Kind)
	}

	if cfg.Cache == "" {
		return base, nil, nil
	}

	var cache store.PhraseCache
	if cfg.Cache == memoryCache {
		cache = memstore.New()
	} else {
		cache, err = sqlite.OpenSQLite(ctx, cfg.Cache)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open phrase cache: %w", err)
		}
	}
	return cached.New(base, cache, logger), cache, nil
}
