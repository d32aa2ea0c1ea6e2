// Package main provides the letmehear command-line tool: it merges a
// directory of audio files into one stream and re-splits it into evenly
// sized parts for playback on devices with poor seek support.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/idlesign/letmehear/internal/bootstrap"
	"github.com/idlesign/letmehear/internal/config"
	"github.com/idlesign/letmehear/internal/pipeline"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("letmehear", flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: letmehear [flags] SOURCE_DIR\n\n")
		fmt.Fprintf(flags.Output(), "Merges audio files from SOURCE_DIR and re-splits the stream into parts.\n\n")
		flags.PrintDefaults()
	}

	var (
		dest      = flags.String("d", "", "destination directory for output parts (default: a letmehear subdirectory per source directory)")
		recursive = flags.Bool("r", false, "process subdirectories recursively, one merged stream per directory")
		length    = flags.Float64("l", 180, "part length in seconds")
		backshift = flags.Float64("b", 1, "seconds from the end of each part repeated at the start of the next")
		speed     = flags.Float64("s", 1, "playback speed multiplier (0.25 to 4)")
		format    = flags.String("format", "mp3", "output format extension")
		dryRun    = flags.Bool("dry", false, "log intended actions without writing anything")
		debug     = flags.Bool("debug", false, "show debug messages while processing")
	)

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("exactly one SOURCE_DIR argument is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	opts := pipeline.DefaultOptions(flags.Arg(0))
	opts.DestDir = *dest
	opts.Recursive = *recursive
	opts.PartLength = *length
	opts.Backshift = *backshift
	opts.Speed = *speed
	opts.Format = *format
	opts.DryRun = *dryRun

	logger.Debug("starting letmehear",
		slog.String("source", opts.SourceDir),
		slog.String("dest", opts.DestDir),
		slog.Bool("recursive", opts.Recursive),
		slog.Float64("part_length_sec", opts.PartLength),
		slog.Float64("backshift_sec", opts.Backshift),
		slog.Float64("speed", opts.Speed),
		slog.String("format", opts.Format),
		slog.Bool("dry_run", opts.DryRun),
		slog.String("temp_dir", cfg.TempDir),
	)

	deps, err := bootstrap.NewDependencies(cfg, logger, opts.DryRun)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	// A second signal falls through to the default handler and kills the
	// process; the first one cancels in-flight subprocess work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := deps.Pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	for _, group := range result.Groups {
		fmt.Printf("%s: %d part(s) in %s\n", group.SourceDir, len(group.Parts), group.OutputDir)
	}
	logger.Info("done",
		slog.Int("directories", len(result.Groups)),
		slog.Int("parts", result.PartCount()),
	)

	return nil
}
