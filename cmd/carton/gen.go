package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/carton/internal/gen"
	"pkg.jsn.cam/carton/pkg/params"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		kind    string
		lines   int64
		seed    uint64
		output  string
		options []string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic line file",
		Example: `  carton gen --kind actions --lines 1000000 --output var/actions.log
  carton gen --kind metrics --opt keys=3 --seed 7 --output var/metrics.txt
  carton gen --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, name := range gen.Generators.Names() {
					g, err := gen.Generators.Build(name, nil)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-10s %s (default %s lines)\n", name, g.Description(), humanize.Comma(g.DefaultCount()))
				}
				return nil
			}

			if output == "" {
				return errors.New("--output is required")
			}
			p, err := params.ParseAssignments(options)
			if err != nil {
				return err
			}

			n, err := gen.Write(output, gen.Options{Kind: kind, Params: p, Lines: lines, Seed: seed})
			if err != nil {
				return err
			}

			a.logger.Info("generated file", "kind", kind, "lines", n, "seed", seed, "path", output)
			fmt.Fprintf(out, "Wrote %s %s lines to %s\n", humanize.Comma(n), kind, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "actions", "Kind of data to generate (see --list)")
	cmd.Flags().Int64Var(&lines, "lines", 0, "Number of lines (default depends on kind)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	cmd.Flags().StringArrayVar(&options, "opt", nil, "Generator option as key=value (repeatable)")
	cmd.Flags().BoolVar(&list, "list", false, "List available kinds")
	return cmd
}
