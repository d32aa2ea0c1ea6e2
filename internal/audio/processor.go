// Package audio provides the audio processing operations letmehear needs,
// implemented by driving the external ffmpeg and ffprobe utilities.
package audio

import (
	"context"

	"github.com/idlesign/letmehear/internal/part"
)

// Processor defines the audio operations used by the pipeline. All the
// heavy lifting (decode, concatenate, tempo change, trim, encode) happens
// in an external utility; implementations only compute arguments and run
// subprocesses.
type Processor interface {
	// Merge concatenates the input files, in order, into a single PCM WAV
	// file at output. Inputs are normalized to a common sample rate and
	// channel layout so heterogeneous sources concatenate cleanly.
	Merge(ctx context.Context, inputs []string, output string) error

	// Duration returns the duration of an audio file in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Extract cuts the given segment out of input into output, re-encoding
	// to the format implied by the output extension. A speed other than 1
	// applies a tempo change without pitch shift.
	Extract(ctx context.Context, input, output string, seg part.Segment, speed float64) error
}
