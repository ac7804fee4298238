package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/carton/pkg/chunk"
	"pkg.jsn.cam/carton/pkg/executor"
)

func newChunksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chunks FILE",
		Short: "Show how a file would be split into chunks",
		Long: `Show the line-aligned byte ranges carton would hand to workers for FILE,
using the configured --workers and --chunk-size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChunks(cmd, args[0])
		},
	}
}

func (a *app) runChunks(cmd *cobra.Command, path string) error {
	opts, err := a.executorOptions()
	if err != nil {
		return err
	}

	size, err := chunk.Size(path)
	if err != nil {
		return err
	}
	ranges, err := executor.Plan(path, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s in %d chunk(s)\n", path, humanize.IBytes(uint64(size)), len(ranges))
	fmt.Fprintf(out, "%-6s %-24s %s\n", "CHUNK", "RANGE", "SIZE")
	for i, r := range ranges {
		fmt.Fprintf(out, "%-6d %-24s %s\n", i, r, humanize.IBytes(uint64(r.Len())))
	}
	return nil
}
