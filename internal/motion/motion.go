package motion

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ivlev/story2reel/internal/frame"
)

// Engine renders the camera movement of one segment: it maps a motion
// profile and a frame count onto an ordered sequence of frames cropped
// and rescaled out of a static source image.
type Engine struct {
	pool *frame.Pool
}

func NewEngine(pool *frame.Pool) *Engine {
	return &Engine{pool: pool}
}

// Render produces exactly frameCount frames for the given profile. The
// output is deterministic: the same (image, profile, frameCount) triple
// always yields bit-identical frames. frameCount == 1 degenerates to a
// single frame rendered at elapsed fraction 0.
func (e *Engine) Render(src *image.RGBA, profile Profile, frameCount, segmentIndex int) ([]*frame.Buffer, error) {
	if frameCount < 1 {
		return nil, fmt.Errorf("motion: frame count must be >= 1, got %d", frameCount)
	}

	frames := make([]*frame.Buffer, frameCount)
	for j := 0; j < frameCount; j++ {
		t := 0.0
		if frameCount > 1 {
			t = float64(j) / float64(frameCount-1)
		}
		frames[j] = &frame.Buffer{
			RGBA:         e.renderAt(src, profile, t),
			SegmentIndex: segmentIndex,
		}
	}
	return frames, nil
}

func (e *Engine) renderAt(src *image.RGBA, profile Profile, t float64) *image.RGBA {
	window := CropWindow(src.Bounds(), profile.At(t))
	dst := e.pool.Get(src.Bounds())
	if window == src.Bounds() {
		draw.Copy(dst, dst.Bounds().Min, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, window, draw.Src, nil)
	return dst
}

// CropWindow converts a camera state into an integer crop rectangle over
// the source bounds. Parameters that would push the window outside the
// image are clamped, never rejected: the window is first sized from the
// scale, then shifted back inside the source extent.
func CropWindow(bounds image.Rectangle, s State) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	scale := s.Scale
	if scale < 1 {
		scale = 1
	}

	cw := w / scale
	ch := h / scale

	cx := w/2 + s.OffsetX*w
	cy := h/2 + s.OffsetY*h

	x0 := cx - cw/2
	y0 := cy - ch/2

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x0+cw > w {
		x0 = w - cw
	}
	if y0+ch > h {
		y0 = h - ch
	}

	rect := image.Rect(
		bounds.Min.X+int(x0+0.5),
		bounds.Min.Y+int(y0+0.5),
		bounds.Min.X+int(x0+cw+0.5),
		bounds.Min.Y+int(y0+ch+0.5),
	)
	return rect.Intersect(bounds)
}
