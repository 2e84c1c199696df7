package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/forcefield/config"
	"github.com/TFMV/forcefield/graph"
	"github.com/TFMV/forcefield/ingest"
	"github.com/TFMV/forcefield/logging"
	"github.com/TFMV/forcefield/models"
	"github.com/TFMV/forcefield/physics"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forcefield",
		Short: "Force-directed graph layout",
		Long: `forcefield lays out graphs with a force-directed simulation.

Nodes push each other apart and connected nodes pull together until the
layout settles. Layouts can be computed headless and written to a file,
explored interactively in the terminal, or served over HTTP.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("palette", "default", "Node color palette: default or muted")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newViewCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// app carries what every command needs once flags and config are resolved
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	trace   *logging.FrameTrace
	palette *ingest.Palette
	closers []io.Closer
}

// setup loads config, applies global flags and opens the log outputs.
// logs go to stderr unless --log-file is set or quiet is true.
func setup(cmd *cobra.Command, quiet bool) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	paletteName, _ := cmd.Flags().GetString("palette")
	palette, err := ingest.PaletteByName(paletteName)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, palette: palette}

	var out io.Writer = cmd.ErrOrStderr()
	if quiet {
		out = io.Discard
	}
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		out = f
	}
	a.logger = logging.NewLogger(cfg.Logging.Level, out)

	a.trace = logging.NewFrameTrace(cfg.Logging.TracePath)
	if a.trace != nil {
		a.closers = append(a.closers, a.trace)
	}
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		c.Close()
	}
}

// newSession loads input (or starts an empty graph when input is empty),
// scatters nodes that have no position and starts a session over it
func (a *app) newSession(input string) (*graph.Session, error) {
	g := models.NewGraph("untitled")
	if input != "" {
		var err error
		g, err = ingest.ProcessFile(input, a.palette)
		if err != nil {
			return nil, fmt.Errorf("failed to process input file: %w", err)
		}
	}

	scatter := physics.NewScatter(a.cfg.Layout.Seed, a.cfg.Layout.Spacing)
	if n := scatter.PlaceMissing(g); n > 0 {
		a.logger.Debug("scattered unplaced nodes", "count", n)
	}

	return graph.NewSession(g, a.cfg.Physics,
		graph.WithLogger(a.logger),
		graph.WithPalette(a.palette),
		graph.WithFrameTrace(a.trace),
	)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
