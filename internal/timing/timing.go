// Package timing aligns segment frame counts to the true narration audio
// durations.
//
// Rounding each segment independently lets up to half a frame of error
// accumulate per segment; over a long video the picture drifts visibly
// ahead of (or behind) the narration. Plan instead diffuses the rounding
// remainder forward: the fractional error left over by one segment is
// added to the next segment's ideal before rounding, which keeps the
// running frame total within half a frame of the running ideal total at
// every prefix of the sequence.
package timing

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfiguration marks inputs the planner refuses to coerce: a
// non-positive fps or audio duration is an upstream configuration problem
// and must not be silently rounded up to a playable value.
var ErrConfiguration = errors.New("timing: configuration error")

// Plan assigns a frame count to every segment given its audio duration in
// seconds. The returned slice has one entry per input duration, each >= 1,
// and the total differs from the total ideal frame count by at most one
// frame.
func Plan(durations []float64, fps int) ([]int, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive, got %d", ErrConfiguration, fps)
	}

	counts := make([]int, len(durations))
	carry := 0.0

	for i, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("%w: segment %d has non-positive audio duration %.3fs", ErrConfiguration, i, d)
		}

		target := d*float64(fps) + carry
		n := int(math.Round(target))
		if n < 1 {
			// A segment is always renderable as at least one frame; the
			// overshoot is diffused forward like any other remainder.
			n = 1
		}
		carry = target - float64(n)
		counts[i] = n
	}

	return counts, nil
}

// Drift reports the difference, in frames, between the assigned plan and
// the ideal fractional frame counts. Positive means the plan runs long.
func Drift(counts []int, durations []float64, fps int) float64 {
	assigned := 0
	ideal := 0.0
	for i, n := range counts {
		assigned += n
		ideal += durations[i] * float64(fps)
	}
	return float64(assigned) - ideal
}
