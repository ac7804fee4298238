package main

import (
	"context"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/carton/pkg/executor"
	"pkg.jsn.cam/carton/pkg/journal"
	"pkg.jsn.cam/carton/pkg/lineops"
	"pkg.jsn.cam/carton/pkg/params"
)

// opFlags are the flags shared by commands that build a named operation.
type opFlags struct {
	name     string
	opts     []string
	optsFile string
	progress bool
}

func (f *opFlags) register(cmd *cobra.Command, defaultOp, ops string) {
	cmd.Flags().StringVar(&f.name, "op", defaultOp, "Operation to apply ("+ops+")")
	cmd.Flags().StringArrayVar(&f.opts, "opt", nil, "Operation option as key=value (repeatable)")
	cmd.Flags().StringVar(&f.optsFile, "opts-file", "", "Load operation options from a json, yaml or toml file")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "Show chunk progress on stderr")
}

// params merges --opt assignments over the options file.
func (f *opFlags) params() (params.Params, error) {
	p, err := params.ParseAssignments(f.opts)
	if err != nil {
		return nil, err
	}
	if f.optsFile == "" {
		return p, nil
	}

	fromFile, err := params.Load(f.optsFile)
	if err != nil {
		return nil, err
	}
	return p.Merge(fromFile), nil
}

func newMapCmd(a *app) *cobra.Command {
	var flags opFlags

	cmd := &cobra.Command{
		Use:   "map FILE",
		Short: "Apply a line operation to every line of a file",
		Long: `Apply a named line operation to every line of FILE in parallel and print
one result per line, in the original order. If the operation fails on any
line nothing is printed and the command exits non-zero.`,
		Example: `  carton map access.log --op urlhost
  carton map metrics.txt --op field --opt sep=: --opt index=1 --progress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMap(cmd, args[0], &flags)
		},
	}
	flags.register(cmd, "len", joinNames(lineops.Lines.Names()))
	return cmd
}

func (a *app) runMap(cmd *cobra.Command, path string, flags *opFlags) error {
	p, err := flags.params()
	if err != nil {
		return err
	}
	fn, err := lineops.Lines.Build(flags.name, p)
	if err != nil {
		return err
	}

	run := &journal.Run{Command: "map", Path: path, Op: flags.name}
	return a.execute(cmd, run, flags.progress, func(ctx context.Context, opts []executor.Option) (int, error) {
		results, err := executor.MapLines(ctx, path, fn, opts...)
		if err != nil {
			return 0, err
		}
		return len(results), writeLines(cmd.OutOrStdout(), results)
	})
}
