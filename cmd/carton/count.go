package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/carton/pkg/executor"
	"pkg.jsn.cam/carton/pkg/journal"
	"pkg.jsn.cam/carton/pkg/lineops"
)

func newCountCmd(a *app) *cobra.Command {
	var flags opFlags
	var perChunk bool

	cmd := &cobra.Command{
		Use:   "count FILE",
		Short: "Aggregate a file chunk by chunk",
		Long: `Run a chunk operation over FILE in parallel and print the total. count
counts lines, words counts whitespace-separated words and bytes sums chunk
sizes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCount(cmd, args[0], &flags, perChunk)
		},
	}
	flags.register(cmd, "count", joinNames(lineops.Chunks.Names()))
	cmd.Flags().BoolVar(&perChunk, "per-chunk", false, "Print the value of every chunk before the total")
	return cmd
}

func (a *app) runCount(cmd *cobra.Command, path string, flags *opFlags, perChunk bool) error {
	p, err := flags.params()
	if err != nil {
		return err
	}
	fn, err := lineops.Chunks.Build(flags.name, p)
	if err != nil {
		return err
	}

	run := &journal.Run{Command: "count", Path: path, Op: flags.name}
	return a.execute(cmd, run, flags.progress, func(ctx context.Context, opts []executor.Option) (int, error) {
		perChunkTotals, err := executor.MapText(ctx, path, fn, opts...)
		if err != nil {
			return 0, err
		}

		out := cmd.OutOrStdout()
		total := 0
		for i, n := range perChunkTotals {
			if perChunk {
				fmt.Fprintf(out, "chunk %d\t%d\n", i, n)
			}
			total += n
		}
		fmt.Fprintln(out, total)
		return len(perChunkTotals), nil
	})
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
