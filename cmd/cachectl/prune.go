package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPruneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop expired records from a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := opts.open()
			if err := c.LoadFromDisk(); err != nil {
				return err
			}
			before := c.Len()
			// Reading a key purges it when expired.
			for _, k := range c.Keys() {
				c.Value(k)
			}
			if err := c.SaveToDisk(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d of %d records in %s\n", before-c.Len(), before, c.Path())
			return nil
		},
	}
}
