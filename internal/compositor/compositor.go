// Package compositor sequences a resolved script into the final frame
// timeline: it plans per-segment frame counts from the narration audio,
// renders motion and captions for every segment, bridges adjacent
// segments with transitions and emits one ordered frame stream plus the
// matching audio spans.
package compositor

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/story2reel/internal/caption"
	"github.com/ivlev/story2reel/internal/frame"
	"github.com/ivlev/story2reel/internal/media"
	"github.com/ivlev/story2reel/internal/motion"
	"github.com/ivlev/story2reel/internal/script"
	"github.com/ivlev/story2reel/internal/timing"
	"github.com/ivlev/story2reel/internal/transition"
)

// Options carries the per-run configuration. A Compositor holds no
// process-wide state, so independent runs with separate Options never
// interfere.
type Options struct {
	FPS              int
	Width            int
	Height           int
	TransitionFrames int
	Workers          int
}

type Compositor struct {
	opts        Options
	images      media.ImageSource
	narration   media.NarrationSource
	pool        *frame.Pool
	motion      *motion.Engine
	captions    *caption.Renderer
	transitions *transition.Engine
	log         *logrus.Logger
}

func New(opts Options, images media.ImageSource, narration media.NarrationSource, log *logrus.Logger) (*Compositor, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("compositor: fps must be positive, got %d", opts.FPS)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TransitionFrames < 1 {
		opts.TransitionFrames = 1
	}

	pool := frame.NewPool()
	captions, err := caption.NewRenderer(opts.Width, opts.Height, pool)
	if err != nil {
		return nil, err
	}

	return &Compositor{
		opts:        opts,
		images:      images,
		narration:   narration,
		pool:        pool,
		motion:      motion.NewEngine(pool),
		captions:    captions,
		transitions: transition.NewEngine(pool),
		log:         log,
	}, nil
}

// Run composes the whole video. It is deterministic: identical segments
// and identical collaborator outputs yield a byte-identical timeline.
func (c *Compositor) Run(ctx context.Context, segments []script.Segment) (*Timeline, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: script has no segments", timing.ErrConfiguration)
	}

	// Audio first: the frame plan spans the whole sequence and must be
	// complete before any rendering starts.
	clips := make([]media.Clip, len(segments))
	durations := make([]float64, len(segments))
	for i, seg := range segments {
		clip, err := c.narration.Fetch(ctx, seg)
		if err != nil {
			return nil, err
		}
		clips[i] = clip
		durations[i] = clip.Duration
	}

	plan, err := timing.Plan(durations, c.opts.FPS)
	if err != nil {
		return nil, err
	}

	rendered, err := c.renderSegments(ctx, segments, plan)
	if err != nil {
		return nil, err
	}

	return c.assemble(segments, clips, plan, rendered)
}

// renderSegments renders motion and captions for every segment. Segments
// are independent given the frame plan, so they render in parallel;
// results land in segment order regardless of completion order.
func (c *Compositor) renderSegments(ctx context.Context, segments []script.Segment, plan []int) ([][]*frame.Buffer, error) {
	rendered := make([][]*frame.Buffer, len(segments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			img := c.images.Fetch(seg)
			frames, err := c.motion.Render(img, seg.Motion, plan[i], seg.Index)
			if err != nil {
				return err
			}

			for j, f := range frames {
				elapsed := 0.0
				if len(frames) > 1 {
					elapsed = float64(j) / float64(len(frames)-1)
				}
				overlaid := c.captions.Overlay(f.RGBA, seg.Text, elapsed)
				if overlaid != f.RGBA {
					c.pool.Put(f.RGBA)
					f.RGBA = overlaid
				}
			}

			rendered[i] = frames
			c.log.WithFields(logrus.Fields{
				"segment": seg.Index,
				"frames":  plan[i],
				"motion":  seg.Motion.String(),
			}).Info("segment rendered")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rendered, nil
}

// assemble splices transitions into the segment boundaries, numbers the
// frames, mirrors the boundary consumption onto the audio spans and
// verifies the final audio/video alignment.
func (c *Compositor) assemble(segments []script.Segment, clips []media.Clip, plan []int, rendered [][]*frame.Buffer) (*Timeline, error) {
	n := len(segments)
	headTrim := make([]int, n) // frames taken off each clip's start
	tailTrim := make([]int, n) // frames taken off each clip's end

	var timelineFrames []*frame.Buffer
	pending := rendered[0]

	for i := 0; i < n-1; i++ {
		next := rendered[i+1]
		kind := segments[i].TransitionToNext

		d := 0
		if kind != transition.None {
			d = transition.Clamp(c.opts.TransitionFrames, len(pending), len(next))
			if d < c.opts.TransitionFrames && d > 0 {
				c.log.WithFields(logrus.Fields{
					"boundary": i,
					"frames":   d,
				}).Warn("transition shortened by adjacent segment length")
			}
		}
		if d == 0 {
			// Hard cut.
			timelineFrames = append(timelineFrames, pending...)
			pending = next
			continue
		}

		bridge, err := c.transitions.Bridge(pending, next, d, kind)
		if err != nil {
			return nil, err
		}

		// The bridge replaces the consumed tail and head frames.
		for _, f := range pending[len(pending)-d:] {
			c.pool.Put(f.RGBA)
		}
		for _, f := range next[:d] {
			c.pool.Put(f.RGBA)
		}

		timelineFrames = append(timelineFrames, pending[:len(pending)-d]...)
		timelineFrames = append(timelineFrames, bridge...)
		pending = next[d:]

		// The boundary shortens the timeline by d frames; the audio
		// mirrors that split: the outgoing clip loses ceil(d/2) frames at
		// its end, the incoming clip floor(d/2) at its start.
		tailTrim[i] += (d + 1) / 2
		headTrim[i+1] += d / 2
	}
	timelineFrames = append(timelineFrames, pending...)

	for idx, f := range timelineFrames {
		f.PresentationIndex = idx
	}

	fps := float64(c.opts.FPS)
	audio := make([]AudioSpan, n)
	for i, clip := range clips {
		span := AudioSpan{
			Clip:     clip,
			Offset:   float64(headTrim[i]) / fps,
			Duration: clip.Duration - float64(headTrim[i]+tailTrim[i])/fps,
		}
		if span.Duration < 0 {
			span.Duration = 0
		}
		audio[i] = span
	}

	tl := &Timeline{Frames: timelineFrames, Audio: audio, FPS: c.opts.FPS}

	// Finalize: the concatenated audio must match the frame count within
	// one frame. Anything beyond that means the synchronization plan and
	// the real clips disagree, which is fatal for this run.
	tolerance := 1.0 / fps
	drift := tl.AudioDuration() - tl.Duration()
	if math.Abs(drift) > tolerance+1e-9 {
		return nil, &SyncDriftError{DriftSeconds: drift, Tolerance: tolerance}
	}

	c.log.WithFields(logrus.Fields{
		"frames":   len(timelineFrames),
		"duration": tl.Duration(),
		"drift":    drift,
	}).Info("timeline assembled")

	return tl, nil
}

// PlanPreview returns the frame counts the synchronizer would assign,
// without rendering. Useful for dry runs and reporting.
func (c *Compositor) PlanPreview(ctx context.Context, segments []script.Segment) ([]int, error) {
	durations := make([]float64, len(segments))
	for i, seg := range segments {
		clip, err := c.narration.Fetch(ctx, seg)
		if err != nil {
			return nil, err
		}
		durations[i] = clip.Duration
	}
	return timing.Plan(durations, c.opts.FPS)
}
