// Package discover finds the markdown documents under a root directory.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

// Options selects files by extension and excludes paths matching any of
// the doublestar patterns. Patterns match slash-separated paths relative to
// the root.
type Options struct {
	Extension string
	Exclude   []string
}

// CheckRoot returns an ErrUsage error unless root is an existing directory.
func CheckRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: no source directory given", internalerr.ErrUsage)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: no source directory %s was found", internalerr.ErrUsage, root)
	}
	return nil
}

// Walk returns the matching files under root in lexical order.
func Walk(ctx context.Context, root string, opts Options) ([]string, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad exclude pattern %q", internalerr.ErrInvalidConfig, p)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded(opts.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), opts.Extension) {
			return nil
		}
		if excluded(opts.Exclude, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// excluded reports whether rel matches a pattern. A directory also counts as
// excluded when everything beneath it would be.
func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if strings.HasSuffix(p, "/**") {
			if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/**"), rel); ok {
				return true
			}
		}
	}
	return false
}
