// Package storyboard fills in motion profiles for segments whose script
// leaves the choice open. The choice is driven by a cheap saliency pass
// over the segment image, so the same script and assets always produce
// the same storyboard.
package storyboard

import (
	"github.com/sirupsen/logrus"

	"github.com/ivlev/story2reel/internal/media"
	"github.com/ivlev/story2reel/internal/motion"
	"github.com/ivlev/story2reel/internal/script"
)

// Choice thresholds, tuned on vertical story footage.
const (
	flatDensity = 0.02 // почти нет деталей
	topHeavy    = 0.38 // центроид в верхней трети
	tightSpread = 0.17 // детали собраны в одном месте
	wideSpread  = 0.34 // детали размазаны по кадру
)

// Planner assigns motion profiles to auto segments.
type Planner struct {
	Images media.ImageSource
	Log    *logrus.Logger
}

// Assign resolves every AutoMotion segment to a concrete profile and
// returns the updated slice. Segments with an explicit profile pass
// through untouched.
func (p *Planner) Assign(segments []script.Segment) []script.Segment {
	for i := range segments {
		if !segments[i].AutoMotion {
			continue
		}
		sal := Analyze(p.Images.Fetch(segments[i]))
		segments[i].Motion = p.pick(sal, i, len(segments))
		segments[i].AutoMotion = false

		p.Log.WithFields(logrus.Fields{
			"segment": i,
			"density": sal.Density,
			"spread":  sal.Spread,
			"profile": segments[i].Motion.String(),
		}).Debug("storyboard choice")
	}
	return segments
}

// pick maps a saliency summary to a profile. The order of the checks
// matters: flat images get slow drift no matter where their centroid
// sits, and the outro always pulls back.
func (p *Planner) pick(sal Saliency, index, total int) motion.Profile {
	if index == total-1 && total > 1 {
		return motion.ZoomOut
	}

	switch {
	case sal.Density < flatDensity:
		return motion.Drift
	case sal.CenterY < topHeavy:
		return motion.TiltUp
	case sal.Spread < tightSpread:
		return motion.Focus
	case sal.Spread > wideSpread:
		return motion.Pan
	case index%2 == 0:
		return motion.ZoomIn
	default:
		return motion.PushIn
	}
}
