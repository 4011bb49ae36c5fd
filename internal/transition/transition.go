// Package transition builds the short interpolated bridges between two
// adjacent segments' frame sequences.
//
// A bridge of d frames consumes the last d frames of the outgoing segment
// and the first d frames of the incoming one and replaces all 2d of them,
// so every internal boundary shortens the concatenated timeline by exactly
// d frames. All effects are pure functions of the frame pair and the
// bridge progress; no randomness anywhere.
package transition

import (
	"fmt"
	"image"
	"math"

	"github.com/ivlev/story2reel/internal/frame"
)

// Engine produces transition frames out of a shared buffer pool.
type Engine struct {
	pool *frame.Pool
}

func NewEngine(pool *frame.Pool) *Engine {
	return &Engine{pool: pool}
}

// Clamp bounds a requested bridge length by the adjacent segments: a
// bridge may never consume a whole segment, so the effective length is
// min(requested, len(tail)-1, len(head)-1). A result below 1 means the
// boundary degrades to a hard cut and no bridge is rendered.
func Clamp(requested, tailFrames, headFrames int) int {
	d := requested
	if tailFrames-1 < d {
		d = tailFrames - 1
	}
	if headFrames-1 < d {
		d = headFrames - 1
	}
	if d < 0 {
		d = 0
	}
	return d
}

// Bridge renders exactly durationFrames frames connecting the last
// durationFrames of tail to the first durationFrames of head. The inputs
// are read-only; every output frame is freshly allocated.
func (e *Engine) Bridge(tail, head []*frame.Buffer, durationFrames int, kind Kind) ([]*frame.Buffer, error) {
	if kind == None {
		return nil, fmt.Errorf("transition: bridge called with kind none")
	}
	if durationFrames < 1 {
		return nil, fmt.Errorf("transition: duration must be >= 1 frame, got %d", durationFrames)
	}
	if len(tail) < durationFrames || len(head) < durationFrames {
		return nil, fmt.Errorf("transition: %d bridge frames requested but only %d tail / %d head available",
			durationFrames, len(tail), len(head))
	}

	out := make([]*frame.Buffer, durationFrames)
	for t := 0; t < durationFrames; t++ {
		a := tail[len(tail)-durationFrames+t].RGBA
		b := head[t].RGBA
		if a.Bounds() != b.Bounds() {
			return nil, fmt.Errorf("transition: frame size mismatch %v vs %v", a.Bounds(), b.Bounds())
		}

		// Linear in t; at t=0 the frame equals the tail side, and the
		// last frame approaches (but never duplicates) the head side.
		p := float64(t) / float64(durationFrames)

		dst := e.pool.Get(a.Bounds())
		e.renderAt(dst, a, b, p, kind)
		out[t] = &frame.Buffer{
			RGBA:         dst,
			SegmentIndex: tail[len(tail)-1].SegmentIndex,
		}
	}
	return out, nil
}

func (e *Engine) renderAt(dst, a, b *image.RGBA, p float64, kind Kind) {
	switch kind {
	case Crossfade:
		blend(dst, a, b, p)
	case SlideLeft:
		slide(dst, a, b, p, -1, 0)
	case SlideRight:
		slide(dst, a, b, p, 1, 0)
	case SlideUp:
		slide(dst, a, b, p, 0, -1)
	case SlideDown:
		slide(dst, a, b, p, 0, 1)
	case Flash:
		flash(dst, a, b, p)
	case WipeLeft, WipeRight, WipeUp, WipeDown:
		wipe(dst, a, b, p, kind)
	case WipeRaindrop:
		raindrop(dst, a, b, p)
	case Whip:
		whip(dst, a, b, p)
	default:
		blend(dst, a, b, p)
	}
}

// blend writes a*(1-p) + b*p into dst.
func blend(dst, a, b *image.RGBA, p float64) {
	alpha := uint32(p*256 + 0.5)
	inv := 256 - alpha
	for i := range dst.Pix {
		dst.Pix[i] = uint8((uint32(a.Pix[i])*inv + uint32(b.Pix[i])*alpha) >> 8)
	}
}

// blendSolid writes a*(1-p) + value*p into dst.
func blendSolid(dst, a *image.RGBA, value uint8, p float64) {
	alpha := uint32(p*256 + 0.5)
	inv := 256 - alpha
	solid := uint32(value) * alpha
	for i := range dst.Pix {
		dst.Pix[i] = uint8((uint32(a.Pix[i])*inv + solid) >> 8)
	}
	// Keep the frame opaque.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
}

// slide moves the outgoing frame off along (dx,dy) while the incoming
// frame follows it in; the offset is linear in the bridge progress.
func slide(dst, a, b *image.RGBA, p float64, dx, dy int) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()
	offX := dx * int(p*float64(w)+0.5)
	offY := dy * int(p*float64(h)+0.5)

	copyShifted(dst, a, offX, offY)
	copyShifted(dst, b, offX-dx*w, offY-dy*h)
}

// copyShifted pastes src into dst at the given offset, clipping to dst.
func copyShifted(dst, src *image.RGBA, offX, offY int) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()
	for y := 0; y < h; y++ {
		sy := y - offY
		if sy < 0 || sy >= h {
			continue
		}
		for x := 0; x < w; x++ {
			sx := x - offX
			if sx < 0 || sx >= w {
				continue
			}
			di := dst.PixOffset(dst.Bounds().Min.X+x, dst.Bounds().Min.Y+y)
			si := src.PixOffset(src.Bounds().Min.X+sx, src.Bounds().Min.Y+sy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}

// flash ramps to full white during the first phase of the bridge and back
// down onto the incoming frame during the second; both ramps are linear.
const flashApex = 0.4

func flash(dst, a, b *image.RGBA, p float64) {
	if p < flashApex {
		blendSolid(dst, a, 0xff, p/flashApex)
		return
	}
	q := (p - flashApex) / (1 - flashApex)
	blendSolid(dst, b, 0xff, 1-q)
}

// wipe reveals the incoming frame behind a straight boundary travelling
// in the named direction; the boundary position is linear in progress.
func wipe(dst, a, b *image.RGBA, p float64, kind Kind) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var revealed bool
			switch kind {
			case WipeLeft:
				revealed = float64(x) >= float64(w)*(1-p)
			case WipeRight:
				revealed = float64(x) < float64(w)*p
			case WipeUp:
				revealed = float64(y) >= float64(h)*(1-p)
			case WipeDown:
				revealed = float64(y) < float64(h)*p
			}
			src := a
			if revealed {
				src = b
			}
			di := dst.PixOffset(dst.Bounds().Min.X+x, dst.Bounds().Min.Y+y)
			si := src.PixOffset(src.Bounds().Min.X+x, src.Bounds().Min.Y+y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}

// raindropCenters is the fixed irregular mask for the raindrop wipe:
// growth seeds in fractional frame coordinates with per-drop size
// weights. The table is a constant of the effect, so the mask shape is
// identical on every run.
var raindropCenters = [...]struct{ x, y, weight float64 }{
	{0.21, 0.17, 1.00},
	{0.78, 0.09, 0.82},
	{0.52, 0.44, 1.18},
	{0.12, 0.71, 0.90},
	{0.88, 0.63, 1.05},
	{0.39, 0.91, 0.76},
	{0.67, 0.82, 0.95},
}

func raindrop(dst, a, b *image.RGBA, p float64) {
	w := float64(dst.Bounds().Dx())
	h := float64(dst.Bounds().Dy())
	// Radius large enough for every drop to cover the frame at p=1.
	maxRadius := math.Hypot(w, h)

	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			revealed := false
			for _, c := range raindropCenters {
				r := p * maxRadius * c.weight
				if math.Hypot(float64(x)-c.x*w, float64(y)-c.y*h) <= r {
					revealed = true
					break
				}
			}
			src := a
			if revealed {
				src = b
			}
			di := dst.PixOffset(dst.Bounds().Min.X+x, dst.Bounds().Min.Y+y)
			si := src.PixOffset(src.Bounds().Min.X+x, src.Bounds().Min.Y+y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}

// whip applies a directional motion blur whose radius peaks at the
// midpoint of the bridge; the side switch at the midpoint is a hard cut.
const whipMaxBlur = 24

func whip(dst, a, b *image.RGBA, p float64) {
	intensity := 1 - math.Abs(2*p-1)
	radius := int(intensity*whipMaxBlur + 0.5)
	src := a
	if p >= 0.5 {
		src = b
	}
	boxBlurHorizontal(dst, src, radius)
}

// boxBlurHorizontal writes a horizontal box blur of src into dst using a
// sliding window per row.
func boxBlurHorizontal(dst, src *image.RGBA, radius int) {
	if radius <= 0 {
		copy(dst.Pix, src.Pix)
		return
	}

	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	for y := 0; y < h; y++ {
		row := src.PixOffset(src.Bounds().Min.X, src.Bounds().Min.Y+y)
		out := dst.PixOffset(dst.Bounds().Min.X, dst.Bounds().Min.Y+y)

		var sum [4]uint32
		count := uint32(0)
		// Prime the window for x = 0.
		for x := 0; x <= radius && x < w; x++ {
			for c := 0; c < 4; c++ {
				sum[c] += uint32(src.Pix[row+x*4+c])
			}
			count++
		}
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				dst.Pix[out+x*4+c] = uint8(sum[c] / count)
			}
			// Slide the window one pixel right.
			if enter := x + radius + 1; enter < w {
				for c := 0; c < 4; c++ {
					sum[c] += uint32(src.Pix[row+enter*4+c])
				}
				count++
			}
			if leave := x - radius; leave >= 0 {
				for c := 0; c < 4; c++ {
					sum[c] -= uint32(src.Pix[row+leave*4+c])
				}
				count--
			}
		}
	}
}
