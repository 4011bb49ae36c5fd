// Package media provides the external collaborators the compositor
// consumes: still images and narration clips. Both recover from upstream
// failure with a documented fallback (placeholder canvas, silent clip) so
// a broken generator degrades a segment instead of aborting the run.
package media

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/ivlev/story2reel/internal/script"
)

// ImageSource resolves a segment to a ready-to-render RGBA canvas at the
// target video resolution.
type ImageSource interface {
	Fetch(seg script.Segment) *image.RGBA
}

// FileImageSource decodes pre-generated stills from disk, letterboxing
// them onto a canvas of the target size. When the file is missing or
// undecodable it returns a placeholder canvas; downstream stages cannot
// tell the difference.
type FileImageSource struct {
	Width  int
	Height int
	Log    *logrus.Logger
}

func (s *FileImageSource) Fetch(seg script.Segment) *image.RGBA {
	f, err := os.Open(seg.ImagePath)
	if err != nil {
		s.Log.WithField("segment", seg.Index).WithError(err).
			Warn("image unavailable, using placeholder")
		return Placeholder(s.Width, s.Height)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		s.Log.WithField("segment", seg.Index).WithError(err).
			Warn("image undecodable, using placeholder")
		return Placeholder(s.Width, s.Height)
	}

	return fitToCanvas(img, s.Width, s.Height)
}

// fitToCanvas scales img to fit the target size preserving aspect ratio,
// centered on a black canvas.
func fitToCanvas(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0xff}), image.Point{}, draw.Src)

	sw := img.Bounds().Dx()
	sh := img.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return dst
	}

	scale := float64(width) / float64(sw)
	if s := float64(height) / float64(sh); s < scale {
		scale = s
	}
	dw := int(float64(sw)*scale + 0.5)
	dh := int(float64(sh)*scale + 0.5)

	target := image.Rect((width-dw)/2, (height-dh)/2, (width-dw)/2+dw, (height-dh)/2+dh)
	draw.CatmullRom.Scale(dst, target, img, img.Bounds(), draw.Src, nil)
	return dst
}

// Placeholder is the documented fallback canvas: a plain dark frame of
// the target size.
func Placeholder(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	dark := color.RGBA{16, 16, 16, 0xff}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(dark), image.Point{}, draw.Src)
	return dst
}
