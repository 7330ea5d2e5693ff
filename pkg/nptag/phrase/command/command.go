// Package command runs an external program as the noun-phrase source. The
// sentence is written to the program's stdin and each non-blank stdout line is
// one phrase. This is how TextBlob or spaCy scripts plug in.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
	"github.com/cognicore/nptag/pkg/nptag/phrase"
)

// Extractor invokes argv once per sentence.
type Extractor struct {
	argv []string
	name string
}

// New returns an extractor for the given command line. argv[0] is resolved on
// PATH.
func New(argv []string) (*Extractor, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("%w: empty command", internalerr.ErrInvalidConfig)
	}
	return &Extractor{
		argv: append([]string(nil), argv...),
		name: "command/" + strings.Join(argv, " "),
	}, nil
}

func (e *Extractor) Name() string { return e.name }

func (e *Extractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	cmd := exec.CommandContext(ctx, e.argv[0], e.argv[1:]...)
	cmd.Stdin = strings.NewReader(sentence + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s: %v: %s", internalerr.ErrExtractor, e.argv[0], err, msg)
		}
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrExtractor, e.argv[0], err)
	}

	return phrase.Lines(stdout.String()), nil
}
