package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/leonardcser/cachekit/internal/cache"
)

type rootOptions struct {
	dir  string
	name string
	now  func() time.Time
}

// path returns the snapshot file the command operates on.
func (o *rootOptions) path() string { return cache.SnapshotPath(o.dir, o.name) }

// open returns a disk cache over the snapshot. Values are kept as raw JSON so
// snapshots of any value type can be handled.
func (o *rootOptions) open() *cache.DiskCache[json.RawMessage] {
	return cache.NewDisk[json.RawMessage](o.name, 0, cache.Options{Dir: o.dir, Clock: o.now})
}

func newRootCmd(now func() time.Time) *cobra.Command {
	opts := &rootOptions{now: now}

	cmd := &cobra.Command{
		Use:          "cachectl",
		Short:        "Inspect and maintain cache snapshot files",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", cache.DefaultDir(), "directory holding snapshot files")
	cmd.PersistentFlags().StringVar(&opts.name, "name", "cachekit", "snapshot name; the file is <dir>/<name>.cache")

	cmd.AddCommand(
		newInspectCmd(opts),
		newPruneCmd(opts),
		newClearCmd(opts),
	)
	return cmd
}
