package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leonardcser/cachekit/internal/cache"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the records of a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := cache.ReadSnapshot[json.RawMessage](opts.path())
			if err != nil {
				return err
			}
			now := opts.now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tEXPIRES\tSTATE\tVALUE")
			for _, e := range entries {
				state := "alive"
				if e.IsExpired(now) {
					state = "expired"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key(), e.ExpiresAt().Format(time.RFC3339), state, e.Value())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records in %s\n", len(entries), opts.path())
			return nil
		},
	}
}
