package audio

import (
	"fmt"
	"strings"
)

// atempo accepts factors in [0.5, 2.0] per filter instance, so speeds
// outside that range are decomposed into a chain of in-range factors.
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// tempoFilter builds an ffmpeg -filter:a expression applying the given
// speed factor. It returns an empty string for the identity speed.
func tempoFilter(speed float64) string {
	if speed == 1 {
		return ""
	}

	var stages []string
	remaining := speed
	for remaining > atempoMax {
		stages = append(stages, fmt.Sprintf("atempo=%g", atempoMax))
		remaining /= atempoMax
	}
	for remaining < atempoMin {
		stages = append(stages, fmt.Sprintf("atempo=%g", atempoMin))
		remaining /= atempoMin
	}
	stages = append(stages, fmt.Sprintf("atempo=%g", remaining))

	return strings.Join(stages, ",")
}
