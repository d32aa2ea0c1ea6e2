// Package part computes split plans: how a merged audio stream of a known
// duration is cut into sequentially numbered parts of a requested length,
// with each part after the first starting a few seconds ("backshift")
// before the previous part's end.
package part

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration is returned when the stream duration is not positive.
var ErrInvalidDuration = errors.New("part: stream duration must be positive")

// Segment is a half-open time range [Start, End) within the merged stream,
// in seconds.
type Segment struct {
	Start float64
	End   float64
}

// Length returns the segment length in seconds.
func (s Segment) Length() float64 {
	return s.End - s.Start
}

// Plan describes how a merged stream is cut into parts.
type Plan struct {
	// Duration is the total stream duration in seconds.
	Duration float64
	// PartLength is the requested part length in seconds.
	PartLength float64
	// Backshift is the overlap carried into each part after the first,
	// in seconds.
	Backshift float64
	// Segments are the computed part boundaries, in order.
	Segments []Segment
}

// Compute builds the split plan for a stream of the given duration.
//
// When duration <= partLength the plan is a single segment spanning the
// whole stream. Otherwise part i starts at i*(partLength-backshift) and
// runs for partLength seconds, except the last part which ends at the
// stream duration. The part count is the smallest n covering [0, duration],
// so the tail is never dropped and the last part is never longer than
// partLength.
func Compute(duration, partLength, backshift float64) (*Plan, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: got %.3f", ErrInvalidDuration, duration)
	}

	plan := &Plan{
		Duration:   duration,
		PartLength: partLength,
		Backshift:  backshift,
	}

	if duration <= partLength {
		plan.Segments = []Segment{{Start: 0, End: duration}}
		return plan, nil
	}

	stride := partLength - backshift
	count := int(math.Ceil((duration - backshift) / stride))

	segments := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i) * stride
		end := start + partLength
		if i == count-1 {
			end = duration
		}
		segments = append(segments, Segment{Start: start, End: end})
	}

	plan.Segments = segments
	return plan, nil
}

// Count returns the number of parts in the plan.
func (p *Plan) Count() int {
	return len(p.Segments)
}

// FileName returns the output file name for the part at the given index
// (0-based): a 1-based sequence number zero-padded to the width of the
// part count, plus the format extension. For a 12-part plan and format
// "mp3" index 0 yields "01.mp3".
func (p *Plan) FileName(index int, format string) string {
	width := len(fmt.Sprintf("%d", p.Count()))
	return fmt.Sprintf("%0*d.%s", width, index+1, format)
}
