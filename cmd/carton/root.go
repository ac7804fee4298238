package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkg.jsn.cam/carton/internal/config"
	"pkg.jsn.cam/carton/internal/logging"
	"pkg.jsn.cam/carton/pkg/journal"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	logger     *slog.Logger
	closeLog   func() error
	configFile string
	noJournal  bool
}

// Execute runs the carton CLI until it finishes or is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{v: viper.New()}
	defer a.close()

	return newRootCmd(a).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "carton",
		Short: "Process large text files in parallel, line-aligned chunks",
		Long: `carton splits a text file into byte ranges that end on line boundaries,
maps an operation over every chunk on a bounded worker pool and prints the
results in the original line order.

Configuration is read from carton.{yaml,toml,json} (or --config), CARTON_*
environment variables and the flags below, in increasing priority.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (yaml, toml or json)")
	pf.BoolVar(&a.noJournal, "no-journal", false, "Do not record runs in the journal")

	pf.Int("workers", 0, "Number of parallel workers (default: number of CPUs)")
	pf.String("chunk-size", "", "Target chunk size, e.g. 64KiB or 4MB (default: file size / workers)")
	pf.Bool("keep-newline", false, "Keep line terminators in mapped lines")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (text, json)")
	pf.String("log-file", "", "Also write logs to this file")
	pf.String("journal", "", "Journal database path")

	for key, flag := range map[string]string{
		"workers":      "workers",
		"chunk_size":   "chunk-size",
		"keep_newline": "keep-newline",
		"log.level":    "log-level",
		"log.format":   "log-format",
		"log.file":     "log-file",
		"journal.path": "journal",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		newChunksCmd(a),
		newMapCmd(a),
		newCountCmd(a),
		newGenCmd(a),
		newRunsCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.noJournal {
		a.v.Set("journal.enabled", false)
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	a.logger = logger
	a.closeLog = closeLog

	if a.logger.Enabled(cmd.Context(), slog.LevelDebug) {
		logging.LogMap(a.logger.With("component", "config"), a.v.AllSettings())
	}
	return nil
}

// openJournal returns nil when the journal is disabled or cannot be opened;
// a broken journal never stops a run.
func (a *app) openJournal() *journal.Journal {
	if !a.cfg.Journal.Enabled {
		return nil
	}

	j, err := journal.Open(a.cfg.Journal.Path)
	if err != nil {
		a.logger.Warn("journal unavailable", "path", a.cfg.Journal.Path, "error", err)
		return nil
	}
	return j
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
	}
}
