// Package script defines the story script consumed by the compositor: an
// ordered list of segments, each with an image, narration, a motion
// profile and a transition into the next segment. Scripts are produced by
// an upstream generator, loaded once, validated once, and read-only from
// then on.
package script

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ivlev/story2reel/internal/motion"
	"github.com/ivlev/story2reel/internal/transition"
)

// Script is the on-disk YAML form of a story.
type Script struct {
	Version  string        `yaml:"version"`
	Title    string        `yaml:"title"`
	Segments []SegmentSpec `yaml:"segments" validate:"required,min=1,dive"`
}

// SegmentSpec is one scene as the generator wrote it: paths and names are
// still strings here and get resolved into closed enums by Resolve.
type SegmentSpec struct {
	Image      string  `yaml:"image" validate:"required"`
	Text       string  `yaml:"text"`
	Audio      string  `yaml:"audio"`
	Duration   float64 `yaml:"duration" validate:"gte=0"` // fallback when audio is missing
	Motion     string  `yaml:"motion"`                    // пусто или "auto" = выбор за storyboard
	Transition string  `yaml:"transition"`
}

// Segment is a fully resolved scene, ready for rendering.
type Segment struct {
	Index            int
	ImagePath        string
	Text             string
	AudioPath        string
	Duration         float64
	Motion           motion.Profile
	AutoMotion       bool // profile left to the storyboard planner
	TransitionToNext transition.Kind
}

var validate = validator.New()

// Resolve validates the raw script and maps it into renderable segments.
// Unknown motion or transition names and structural problems are
// configuration errors: the script must be completely resolved before any
// rendering starts.
func (s *Script) Resolve() ([]Segment, error) {
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	segments := make([]Segment, len(s.Segments))
	for i, spec := range s.Segments {
		profile := motion.ZoomIn
		auto := spec.Motion == "" || spec.Motion == "auto"
		if !auto {
			var err error
			profile, err = motion.ParseProfile(spec.Motion)
			if err != nil {
				return nil, fmt.Errorf("script: segment %d: %w", i, err)
			}
		}

		kind := transition.None
		if spec.Transition != "" {
			parsed, err := transition.ParseKind(spec.Transition)
			if err != nil {
				return nil, fmt.Errorf("script: segment %d: %w", i, err)
			}
			kind = parsed
		}
		if i == len(s.Segments)-1 {
			// The last segment has nothing to bridge into.
			kind = transition.None
		}

		segments[i] = Segment{
			Index:            i,
			ImagePath:        spec.Image,
			Text:             spec.Text,
			AudioPath:        spec.Audio,
			Duration:         spec.Duration,
			Motion:           profile,
			AutoMotion:       auto,
			TransitionToNext: kind,
		}
	}
	return segments, nil
}
