package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/idlesign/letmehear/internal/part"
)

// Static errors for ffmpeg operations.
var (
	// ErrNoInputs is returned when no input files are provided for merging.
	ErrNoInputs = errors.New("audio: no input files provided")
	// ErrFFprobeExecution is returned when the ffprobe command fails.
	ErrFFprobeExecution = errors.New("audio: ffprobe execution failed")
	// ErrToolNotFound is returned when ffmpeg or ffprobe is not installed.
	ErrToolNotFound = errors.New("audio: external tool not found in PATH")
)

// Merge intermediate format. The merged stream is plain PCM so every
// part extraction starts from the same known-good input.
const (
	mergeSampleRate = "44100"
	mergeChannels   = "stereo"
)

// FFmpeg implements Processor using the ffmpeg and ffprobe CLIs.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates a new FFmpeg processor. Empty paths default to
// "ffmpeg" and "ffprobe" (found via PATH).
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Check verifies both external tools can be found. It is called once at
// startup so a missing installation fails before any work is done.
func (f *FFmpeg) Check() error {
	for _, tool := range []string{f.ffmpegPath, f.ffprobePath} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
		}
	}
	return nil
}

// Merge implements Processor.Merge using the ffmpeg concat filter.
func (f *FFmpeg) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}

	args := []string{"-y", "-hide_banner"}
	for _, input := range inputs {
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("input file not accessible: %w", err)
		}
		args = append(args, "-i", input)
	}

	args = append(args,
		"-filter_complex", concatFilter(len(inputs)),
		"-map", "[out]",
		"-c:a", "pcm_s16le",
		output,
	)

	return f.runFFmpeg(ctx, args)
}

// concatFilter builds a filter_complex expression normalizing n inputs to
// a common sample rate and channel layout and concatenating them. The
// concat filter requires identical stream parameters, so each input goes
// through aresample/aformat first.
func concatFilter(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%d:a]aresample=%s,aformat=sample_fmts=s16:channel_layouts=%s[a%d];",
			i, mergeSampleRate, mergeChannels, i)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[a%d]", i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[out]", n)
	return b.String()
}

// Duration implements Processor.Duration using ffprobe.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(stdout.String()), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse duration from %q: %w", stdout.String(), err)
	}

	return duration, nil
}

// Extract implements Processor.Extract. The segment is cut with input
// seeking (-ss/-t before -i), which is sample accurate on the PCM
// intermediate, and re-encoded to whatever the output extension implies.
func (f *FFmpeg) Extract(ctx context.Context, input, output string, seg part.Segment, speed float64) error {
	if err := os.MkdirAll(filepath.Dir(output), 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{
		"-y", "-hide_banner",
		"-ss", fmt.Sprintf("%.3f", seg.Start),
		"-t", fmt.Sprintf("%.3f", seg.Length()),
		"-i", input,
	}
	if filter := tempoFilter(speed); filter != "" {
		args = append(args, "-filter:a", filter)
	}
	args = append(args, output)

	return f.runFFmpeg(ctx, args)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// carrying stderr output if the command fails.
func (f *FFmpeg) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents a failed ffmpeg invocation, including the
// stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// Verify interface implementation at compile time.
var _ Processor = (*FFmpeg)(nil)
