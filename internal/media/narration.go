package media

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/story2reel/internal/script"
	"github.com/ivlev/story2reel/internal/system"
)

// Clip is a playable narration clip plus its measured duration. A silent
// clip has no backing file; the encoder synthesizes the silence.
type Clip struct {
	Path     string
	Duration float64
	Silent   bool
}

// ErrNoNarration means a segment has neither a readable narration file
// nor any usable fallback duration. That is an upstream configuration
// problem and aborts the run.
var ErrNoNarration = errors.New("media: no narration and no fallback duration")

// NarrationSource resolves a segment to its narration clip. The
// synchronizer downstream only ever sees the duration; it is agnostic to
// how the clip was produced.
type NarrationSource interface {
	Fetch(ctx context.Context, seg script.Segment) (Clip, error)
}

// FileNarrationSource probes pre-generated narration files for their true
// duration. A missing or unreadable file falls back to a silent clip of
// the segment's scripted duration (or DefaultDuration when the script
// gives none); the fallback being unusable as well is a configuration
// error.
type FileNarrationSource struct {
	DefaultDuration float64
	Log             *logrus.Logger
}

func (s *FileNarrationSource) Fetch(ctx context.Context, seg script.Segment) (Clip, error) {
	if seg.AudioPath != "" {
		if _, err := os.Stat(seg.AudioPath); err == nil {
			duration, err := system.ProbeAudioDuration(ctx, seg.AudioPath)
			if err == nil && duration > 0 {
				return Clip{Path: seg.AudioPath, Duration: duration}, nil
			}
			s.Log.WithField("segment", seg.Index).WithError(err).
				Warn("narration unreadable, falling back to silence")
		} else {
			s.Log.WithField("segment", seg.Index).WithField("path", seg.AudioPath).
				Warn("narration missing, falling back to silence")
		}
	}

	duration := seg.Duration
	if duration <= 0 {
		duration = s.DefaultDuration
	}
	if duration <= 0 {
		return Clip{}, fmt.Errorf("segment %d: %w", seg.Index, ErrNoNarration)
	}
	return Clip{Duration: duration, Silent: true}, nil
}
