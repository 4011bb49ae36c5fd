package compositor

import (
	"fmt"

	"github.com/ivlev/story2reel/internal/frame"
	"github.com/ivlev/story2reel/internal/media"
)

// AudioSpan is the slice of one narration clip that survives into the
// final track: Offset seconds are dropped from the clip's start and the
// span plays for Duration seconds. Spans are concatenated in segment
// order with no gaps and no overlap, mirroring the frame concatenation.
type AudioSpan struct {
	Clip     media.Clip
	Offset   float64
	Duration float64
}

// Silent reports whether the span has no file-backed audio and must be
// rendered as generated silence.
func (s AudioSpan) Silent() bool {
	return s.Clip.Silent || s.Clip.Path == ""
}

// Timeline is the compositor's sole output: the ordered, fully composited
// frame sequence for the whole video plus the matching audio spans. It is
// write-once; after Run returns, it is handed to the encoder and
// discarded.
type Timeline struct {
	Frames []*frame.Buffer
	Audio  []AudioSpan
	FPS    int
}

// Duration is the video length implied by the frame count.
func (t *Timeline) Duration() float64 {
	return float64(len(t.Frames)) / float64(t.FPS)
}

// AudioDuration is the total length of the concatenated audio spans.
func (t *Timeline) AudioDuration() float64 {
	total := 0.0
	for _, s := range t.Audio {
		total += s.Duration
	}
	return total
}

// SyncDriftError reports a video/audio length mismatch beyond the allowed
// tolerance at finalization. It is fatal for the run; the caller decides
// whether to retry with adjusted parameters.
type SyncDriftError struct {
	// DriftSeconds is audio length minus video length; positive means
	// the audio runs long.
	DriftSeconds float64
	Tolerance    float64
}

func (e *SyncDriftError) Error() string {
	return fmt.Sprintf("compositor: audio/video drift %.4fs exceeds tolerance %.4fs",
		e.DriftSeconds, e.Tolerance)
}
