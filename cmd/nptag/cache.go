package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
	"github.com/cognicore/nptag/pkg/nptag/maintenance"
	"github.com/cognicore/nptag/pkg/nptag/store/sqlite"
)

func cacheCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent phrase cache",
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune <cache.db>",
		Short: "Delete cached phrases older than --older-than",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: expected the cache database path", internalerr.ErrUsage)
			}

			cache, err := sqlite.OpenSQLite(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to open phrase cache: %w", err)
			}
			defer cache.Close()

			p := &maintenance.Pruner{Cache: cache, MaxAge: olderThan}
			res, err := p.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Pruned %d of %d cached sentences (%d left)\n", res.Removed, res.Before, res.After)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Maximum age of kept entries")

	cmd.AddCommand(prune)
	return cmd
}
