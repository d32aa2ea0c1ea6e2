// Package pipeline orchestrates the linear letmehear workflow: scan the
// source for audio files, merge each directory's files into one stream,
// compute the split plan and extract the numbered parts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/idlesign/letmehear/internal/audio"
	"github.com/idlesign/letmehear/internal/part"
	"github.com/idlesign/letmehear/internal/scan"
	"github.com/idlesign/letmehear/internal/storage"
)

// ErrInvalidOptions is returned when the run options fail validation.
var ErrInvalidOptions = errors.New("pipeline: invalid options")

// dryRunDuration substitutes for the merged stream duration on dry runs,
// where the merge never happens and there is nothing to probe.
const dryRunDuration = 1000.0

// Options are the per-run parameters, normally populated from
// command-line flags.
type Options struct {
	// SourceDir holds the input audio files, or subdirectories with
	// input audio files when Recursive is set.
	SourceDir string `validate:"required"`
	// DestDir is the output destination. When empty, each processed
	// directory gets its own "letmehear" subdirectory; otherwise each
	// processed directory maps to a subdirectory of DestDir named after
	// it.
	DestDir string
	// Recursive enables processing of subdirectories, one merged stream
	// per directory.
	Recursive bool
	// PartLength is the requested output part length in seconds.
	PartLength float64 `validate:"gt=0"`
	// Backshift is the overlap in seconds carried from the end of each
	// part into the start of the next. Must be shorter than PartLength.
	Backshift float64 `validate:"gte=0,ltfield=PartLength"`
	// Speed is the playback speed multiplier applied to the output.
	Speed float64 `validate:"gte=0.25,lte=4"`
	// Format is the output file extension handed to ffmpeg (mp3, ogg...).
	Format string `validate:"required,alphanum"`
	// DryRun walks the pipeline logging intended actions without
	// invoking the external utility or writing audio.
	DryRun bool
}

// DefaultOptions returns run options with the historical defaults:
// 3 minute parts with a 1 second backshift, unchanged speed, mp3 output.
func DefaultOptions(sourceDir string) Options {
	return Options{
		SourceDir:  sourceDir,
		PartLength: 180,
		Backshift:  1,
		Speed:      1,
		Format:     "mp3",
	}
}

// GroupResult describes the outcome for one processed directory.
type GroupResult struct {
	// SourceDir is the directory the inputs came from.
	SourceDir string
	// OutputDir is where the parts were written.
	OutputDir string
	// Parts are the produced part files, in playback order.
	Parts []string
}

// Result is the outcome of a pipeline run.
type Result struct {
	Groups []GroupResult
}

// PartCount returns the total number of parts produced.
func (r *Result) PartCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Parts)
	}
	return n
}

// Pipeline coordinates scanning, merging, planning and extraction.
// Processing is strictly sequential; the only external work is the
// ffmpeg/ffprobe subprocesses driven one at a time.
type Pipeline struct {
	processor audio.Processor
	workspace *storage.Workspace
	logger    *slog.Logger
	validate  *validator.Validate
}

// New creates a Pipeline with the given collaborators.
func New(processor audio.Processor, workspace *storage.Workspace, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		processor: processor,
		workspace: workspace,
		logger:    logger,
		validate:  validator.New(),
	}
}

// Run executes the pipeline for the given options. Directories are
// processed independently; the first failing directory aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := p.validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	groups, err := scan.Scan(opts.SourceDir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	p.logger.Info("source scanned",
		slog.String("source", opts.SourceDir),
		slog.Bool("recursive", opts.Recursive),
		slog.Int("directories", len(groups)),
	)

	result := &Result{}
	for _, group := range groups {
		groupResult, err := p.processGroup(ctx, group, opts)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", group.Dir, err)
		}
		result.Groups = append(result.Groups, *groupResult)
	}

	return result, nil
}

// outputDir resolves the destination directory for one source directory.
func outputDir(groupDir, destDir string) string {
	if destDir == "" {
		return filepath.Join(groupDir, scan.DefaultOutputDirName)
	}
	return filepath.Join(destDir, filepath.Base(groupDir))
}

// processGroup merges one directory's files and splits the stream into
// parts.
func (p *Pipeline) processGroup(ctx context.Context, group scan.Group, opts Options) (*GroupResult, error) {
	outDir := outputDir(group.Dir, opts.DestDir)

	p.logger.Info("working on directory",
		slog.String("dir", group.Dir),
		slog.Int("files", len(group.Files)),
		slog.String("output", outDir),
	)

	merged := p.workspace.MergedPath()
	duration := dryRunDuration

	if opts.DryRun {
		p.logger.Info("dry run: would merge inputs",
			slog.Any("inputs", group.Files),
			slog.String("merged", merged),
		)
	} else {
		if err := os.MkdirAll(outDir, 0750); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}

		p.logger.Debug("merging inputs", slog.Any("inputs", group.Files))
		if err := p.processor.Merge(ctx, group.Files, merged); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		defer func() {
			_ = p.workspace.Cleanup(context.WithoutCancel(ctx), []string{merged})
		}()

		d, err := p.processor.Duration(ctx, merged)
		if err != nil {
			return nil, fmt.Errorf("probe duration: %w", err)
		}
		duration = d
	}

	plan, err := part.Compute(duration, opts.PartLength, opts.Backshift)
	if err != nil {
		return nil, err
	}

	p.logger.Info("split plan computed",
		slog.Float64("duration_sec", duration),
		slog.Float64("part_length_sec", opts.PartLength),
		slog.Float64("backshift_sec", opts.Backshift),
		slog.Int("parts", plan.Count()),
	)

	groupResult := &GroupResult{SourceDir: group.Dir, OutputDir: outDir}
	for i, seg := range plan.Segments {
		target := filepath.Join(outDir, plan.FileName(i, opts.Format))

		if opts.DryRun {
			p.logger.Info("dry run: would write part",
				slog.String("part", target),
				slog.Float64("start_sec", seg.Start),
				slog.Float64("length_sec", seg.Length()),
			)
			groupResult.Parts = append(groupResult.Parts, target)
			continue
		}

		p.logger.Debug("extracting part",
			slog.String("part", target),
			slog.Float64("start_sec", seg.Start),
			slog.Float64("length_sec", seg.Length()),
		)
		if err := p.processor.Extract(ctx, merged, target, seg, opts.Speed); err != nil {
			// Remove incomplete output of this group so a retry starts clean.
			_ = p.workspace.Cleanup(context.WithoutCancel(ctx), append(groupResult.Parts, target))
			return nil, fmt.Errorf("extract part %d: %w", i+1, err)
		}

		groupResult.Parts = append(groupResult.Parts, target)
	}

	p.logger.Info("directory done",
		slog.String("dir", group.Dir),
		slog.Int("parts", len(groupResult.Parts)),
	)

	return groupResult, nil
}
