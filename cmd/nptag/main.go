// Package main provides the nptag binary entry point.
// nptag derives tags from the noun phrases in markdown YAML headers and
// writes them back into each header.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

const (
	Version = "0.1.0"
	appName = "nptag"
)

// errDocumentsFailed marks a completed run in which some documents failed.
var errDocumentsFailed = errors.New("some documents could not be tagged")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and maps the outcome to an exit status:
// 0 on success, 2 when the run completed with failed documents, 1 otherwise.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := rootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, internalerr.ErrUsage) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
	}
	if errors.Is(err, errDocumentsFailed) {
		return 2
	}
	return 1
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName + " [flags] <path-to-markdown-files>",
		Short: "Tag markdown documents with noun phrases from their YAML headers",
		Long: `nptag iterates over each Markdown file with a YAML header, extracts noun
phrases from the header's title, blurb, input and output fields, and adds
them to the header as tags.

WARNING: This task will modify documents in-place.`,
		Example:       "  " + appName + " ../library\n  " + appName + " -n ../library",
		// Arbitrary so a path is not mistaken for an unknown subcommand.
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: expected exactly one path, got %d", internalerr.ErrUsage, len(args))
			}
			return run(cmd.Context(), cmd, opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", internalerr.ErrUsage, err)
	})

	opts.register(cmd)

	cmd.AddCommand(cacheCmd(stdout))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
