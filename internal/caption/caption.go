// Package caption draws the narration text onto rendered frames.
//
// Captions live in video-space coordinates: position, font size and
// margins depend only on the frame dimensions, never on the elapsed
// fraction or on whatever crop/scale the motion engine applied to the
// frame underneath. Compositing the caption after the motion transform is
// what keeps the text pinned while the camera moves.
package caption

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/story2reel/internal/frame"
)

const (
	// Wrap column and line limits, matched to the reference layout.
	maxColumns = 32
	maxLines   = 3
	// Ellipsis marks deterministic truncation of overlong captions.
	ellipsis = "…"

	fontSizeRatio  = 0.032
	bottomPadRatio = 0.05
	boxPadXRatio   = 0.02
	boxPadYRatio   = 0.015
)

var (
	boxColor    = color.RGBA{0, 0, 0, 150}
	shadowColor = color.RGBA{0, 0, 0, 180}
	textColor   = color.RGBA{230, 230, 230, 230}
)

// Renderer overlays caption text for frames of one fixed size.
type Renderer struct {
	width  int
	height int
	face   font.Face
	pool   *frame.Pool

	// font.Face is not safe for concurrent use; segment renders run in
	// parallel and share one Renderer.
	mu sync.Mutex
}

func NewRenderer(width, height int, pool *frame.Pool) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("caption: invalid frame size %dx%d", width, height)
	}

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("caption: parse font: %w", err)
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(height) * fontSizeRatio,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("caption: create face: %w", err)
	}

	return &Renderer{width: width, height: height, face: face, pool: pool}, nil
}

// Overlay composites the caption onto a copy of src and returns the copy.
// src is never mutated. The elapsed fraction is accepted for interface
// symmetry with the motion engine but deliberately ignored: the overlay
// is identical at every instant of the segment.
func (r *Renderer) Overlay(src *image.RGBA, text string, _ float64) *image.RGBA {
	if strings.TrimSpace(text) == "" {
		return src
	}

	lines := WrapText(text, maxColumns, maxLines)

	dst := r.pool.Get(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

	r.mu.Lock()
	defer r.mu.Unlock()

	metrics := r.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	blockHeight := lineHeight * len(lines)

	blockWidth := 0
	for _, line := range lines {
		if w := font.MeasureString(r.face, line).Ceil(); w > blockWidth {
			blockWidth = w
		}
	}

	bottomPad := int(float64(r.height) * bottomPadRatio)
	padX := int(float64(r.width) * boxPadXRatio)
	padY := int(float64(r.height) * boxPadYRatio)

	blockTop := r.height - blockHeight - bottomPad

	box := image.Rect(
		(r.width-blockWidth)/2-padX,
		blockTop-padY,
		(r.width+blockWidth)/2+padX,
		blockTop+blockHeight+padY,
	).Intersect(dst.Bounds())
	draw.Draw(dst, box, image.NewUniform(boxColor), image.Point{}, draw.Over)

	for i, line := range lines {
		lineWidth := font.MeasureString(r.face, line).Ceil()
		x := (r.width - lineWidth) / 2
		y := blockTop + i*lineHeight + metrics.Ascent.Ceil()

		r.drawLine(dst, line, x+1, y+1, shadowColor)
		r.drawLine(dst, line, x, y, textColor)
	}

	return dst
}

func (r *Renderer) drawLine(dst *image.RGBA, line string, x, y int, col color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(line)
}

// WrapText breaks text into at most maxLines lines of at most cols runes.
// Words longer than a line are hard-split. When the text does not fit,
// the last kept line is truncated and terminated with an ellipsis; the
// rule is deterministic so the same caption always renders identically.
func WrapText(text string, cols, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, string(current))
			current = current[:0]
		}
	}

	for _, word := range words {
		runes := []rune(word)
		for len(runes) > cols {
			flush()
			lines = append(lines, string(runes[:cols]))
			runes = runes[cols:]
		}
		switch {
		case len(current) == 0:
			current = append(current, runes...)
		case len(current)+1+len(runes) <= cols:
			current = append(current, ' ')
			current = append(current, runes...)
		default:
			flush()
			current = append(current, runes...)
		}
	}
	flush()

	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last) >= cols {
		last = last[:cols-1]
	}
	lines[maxLines-1] = string(last) + ellipsis
	return lines
}
