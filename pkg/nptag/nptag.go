// Package nptag derives tags for markdown documents from noun phrases in
// their YAML header and writes them back under a reserved header key.
package nptag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/nptag/internal/metrics"
	"github.com/cognicore/nptag/pkg/nptag/ingest"
	"github.com/cognicore/nptag/pkg/nptag/internalerr"
	"github.com/cognicore/nptag/pkg/nptag/store"
)

// DefaultTagsKey is the reserved header key holding derived tags.
const DefaultTagsKey = "automatic_tags"

// DefaultFields are the header keys whose string values feed extraction.
var DefaultFields = []string{"title", "blurb", "input", "output"}

// Tagger is the main tagging facade
type Tagger struct {
	pipeline *ingest.Pipeline
	fields   []string
	tagsKey  string
	dryRun   bool
	jobs     int
	logger   *slog.Logger
	metrics  *metrics.Recorder
	report   func(Result)
	cache    store.PhraseCache
}

// Options configures a Tagger instance
type Options struct {
	Pipeline *ingest.Pipeline
	Fields   []string // defaults to DefaultFields
	TagsKey  string   // defaults to DefaultTagsKey
	DryRun   bool     // compute tags without writing
	Jobs     int      // documents processed concurrently; < 2 means sequential
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	// Report is called once per document, in input order.
	Report func(Result)
	// Cache is closed by Close when set.
	Cache store.PhraseCache
}

// New creates a Tagger with the given dependencies
func New(opts Options) *Tagger {
	t := &Tagger{
		pipeline: opts.Pipeline,
		fields:   opts.Fields,
		tagsKey:  opts.TagsKey,
		dryRun:   opts.DryRun,
		jobs:     opts.Jobs,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		report:   opts.Report,
		cache:    opts.Cache,
	}
	if len(t.fields) == 0 {
		t.fields = DefaultFields
	}
	if t.tagsKey == "" {
		t.tagsKey = DefaultTagsKey
	}
	if t.jobs < 1 {
		t.jobs = 1
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Close cleanly shuts down the Tagger
func (t *Tagger) Close() error {
	if t.cache == nil {
		return nil
	}
	return t.cache.Close()
}

// Result describes what happened to one document
type Result struct {
	Path    string
	Tags    []string
	Changed bool  // rendered document differs from the file
	Written bool  // file was rewritten
	Err     error // nil on success
}

// Summary counts the outcomes of a run
type Summary struct {
	Processed int
	Changed   int
	Written   int
	Skipped   int // malformed documents
	Failed    int // extraction or write errors
}

// Failures is the number of documents that were not processed successfully.
func (s Summary) Failures() int {
	return s.Skipped + s.Failed
}

// ProcessFile derives tags for the document at path and rewrites its header
// unless running dry. A document whose tag list comes out empty is left
// untouched, as is one whose rendered form equals the current file.
func (t *Tagger) ProcessFile(ctx context.Context, path string) (Result, error) {
	res := Result{Path: path}

	doc, err := ingest.ReadDoc(path)
	if err != nil {
		res.Err = err
		return res, err
	}

	processed, err := t.pipeline.Process(ctx, doc.Sentences(t.fields))
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res, res.Err
	}
	res.Tags = processed.Tags

	if !doc.Header.SetTags(t.tagsKey, res.Tags) {
		return res, nil
	}

	out, err := doc.Render()
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res, res.Err
	}
	res.Changed = !bytes.Equal(out, doc.Raw)
	if !res.Changed || t.dryRun {
		return res, nil
	}

	if err := WriteFile(path, out, doc.Mode); err != nil {
		res.Err = err
		return res, err
	}
	res.Written = true
	return res, nil
}

// WriteFile atomically replaces path with data and applies mode.
func WriteFile(path string, data []byte, mode fs.FileMode) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode != 0 {
		if err := os.Chmod(path, mode); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}
	return nil
}

// Run processes every path. Per-document failures are logged, reported and
// counted but never stop the run; only context cancellation does.
func (t *Tagger) Run(ctx context.Context, paths []string) (Summary, error) {
	var sum Summary
	if t.jobs < 2 || len(paths) < 2 {
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			res, err := t.process(ctx, path)
			if err != nil {
				return sum, err
			}
			t.record(&sum, res)
		}
		return sum, nil
	}

	var (
		mu      sync.Mutex
		results = make([]Result, len(paths))
		done    = make([]bool, len(paths))
		next    int
	)
	finish := func(i int, res Result) {
		mu.Lock()
		defer mu.Unlock()
		results[i], done[i] = res, true
		for next < len(paths) && done[next] {
			t.record(&sum, results[next])
			next++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.jobs)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := t.process(gctx, path)
			if err != nil {
				return err
			}
			finish(i, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	return sum, ctx.Err()
}

// process runs ProcessFile and returns an error only when ctx is done.
func (t *Tagger) process(ctx context.Context, path string) (Result, error) {
	t.logger.Info("extracting header tags", "path", path)

	res, err := t.ProcessFile(ctx, path)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return res, ctx.Err()
	}
	return res, nil
}

func (t *Tagger) record(sum *Summary, res Result) {
	sum.Processed++
	result := metrics.ResultUnchanged

	switch {
	case errors.Is(res.Err, internalerr.ErrMalformedDocument):
		sum.Skipped++
		result = metrics.ResultFailed
		t.logger.Error("skipping malformed document", "path", res.Path, "err", res.Err)
	case res.Err != nil:
		sum.Failed++
		result = metrics.ResultFailed
		t.logger.Error("failed to tag document", "path", res.Path, "err", res.Err)
	case res.Written:
		sum.Changed++
		sum.Written++
		result = metrics.ResultWritten
		t.logger.Info("finished extracting header tags", "path", res.Path, "tags", len(res.Tags))
	case t.dryRun:
		if res.Changed {
			sum.Changed++
		}
		result = metrics.ResultDryRun
		t.logger.Info("dry run would have extracted header tags", "path", res.Path, "tags", len(res.Tags), "changed", res.Changed)
	default:
		t.logger.Info("document unchanged", "path", res.Path, "tags", len(res.Tags))
	}

	t.metrics.Document(result, len(res.Tags))
	if t.report != nil {
		t.report(res)
	}
}
