// Package bootstrap provides dependency initialization for letmehear.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/idlesign/letmehear/internal/audio"
	"github.com/idlesign/letmehear/internal/config"
	"github.com/idlesign/letmehear/internal/pipeline"
	"github.com/idlesign/letmehear/internal/storage"
)

// Dependencies holds all initialized dependencies for the CLI.
type Dependencies struct {
	Pipeline *pipeline.Pipeline
}

// NewDependencies creates and wires all dependencies for the application.
// The external tools are checked up front unless dryRun is set, so a
// missing ffmpeg installation fails before any files are touched.
func NewDependencies(cfg *config.Config, logger *slog.Logger, dryRun bool) (*Dependencies, error) {
	processor := audio.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath)
	if !dryRun {
		if err := processor.Check(); err != nil {
			return nil, err
		}
	}

	workspace, err := storage.NewWorkspace(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Dependencies{
		Pipeline: pipeline.New(processor, workspace, logger),
	}, nil
}
