package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/carton/pkg/journal"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [RUN_ID]",
		Short: "List recorded runs, or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j := a.openJournal()
			if j == nil {
				return errors.New("journal is disabled or unavailable")
			}
			defer j.Close()

			if len(args) == 1 {
				run, err := j.Get(args[0])
				if err != nil {
					return err
				}
				printRun(cmd.OutOrStdout(), run)
				return nil
			}

			runs, err := j.List()
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many runs (0 for all)")
	return cmd
}

func printRuns(w io.Writer, runs []*journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return
	}

	fmt.Fprintf(w, "%-36s %-10s %-6s %-9s %7s %9s %10s  %s\n", "RUN ID", "STATUS", "CMD", "OP", "CHUNKS", "RESULTS", "DURATION", "STARTED")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s %-10s %-6s %-9s %7d %9d %10s  %s\n",
			r.ID,
			r.Status,
			r.Command,
			r.Op,
			len(r.Chunks),
			r.Results,
			r.Duration().Round(time.Millisecond),
			humanize.Time(r.StartedAt))
	}
}

func printRun(w io.Writer, r *journal.Run) {
	fmt.Fprintf(w, "Run:        %s\n", r.ID)
	fmt.Fprintf(w, "Status:     %s\n", r.Status)
	fmt.Fprintf(w, "Command:    %s %s\n", r.Command, r.Op)
	fmt.Fprintf(w, "Input:      %s (%s)\n", r.Path, humanize.IBytes(uint64(r.FileSize)))
	fmt.Fprintf(w, "Workers:    %d\n", r.Workers)
	fmt.Fprintf(w, "Chunk size: %s\n", humanize.IBytes(uint64(r.ChunkSize)))
	fmt.Fprintf(w, "Results:    %d\n", r.Results)
	fmt.Fprintf(w, "Started:    %s (%s)\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(r.StartedAt))
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Duration:   %s\n", r.Duration().Round(time.Millisecond))
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Error:      %s\n", r.Error)
	}

	if len(r.Chunks) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%-6s %-24s %10s %9s %10s  %s\n", "CHUNK", "RANGE", "SIZE", "RESULTS", "ELAPSED", "ERROR")
	for _, c := range r.Chunks {
		fmt.Fprintf(w, "%-6d %-24s %10s %9d %10s  %s\n",
			c.Index,
			fmt.Sprintf("[%d,%d)", c.Start, c.End),
			humanize.IBytes(uint64(c.End-c.Start)),
			c.Results,
			c.Elapsed.Round(time.Microsecond),
			c.Error)
	}
}
