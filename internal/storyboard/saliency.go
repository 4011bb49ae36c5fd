package storyboard

import (
	"image"
	"math"
)

// Saliency summarizes where the visual detail of an image sits. It is
// computed once per segment and only steers the motion profile choice, so
// a coarse estimate is enough.
type Saliency struct {
	Density float64 // fraction of pixels over the edge threshold
	CenterX float64 // edge centroid, 0..1 of width
	CenterY float64 // edge centroid, 0..1 of height
	Spread  float64 // normalized std deviation of edge positions
}

const (
	edgeThreshold = 30.0
	sampleStep    = 2 // каждый второй пиксель, точность не нужна
)

// Analyze runs Sobel edge detection over the image and reduces the edge
// map to a Saliency summary. Deterministic for identical pixel data.
func Analyze(img *image.RGBA) Saliency {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return Saliency{CenterX: 0.5, CenterY: 0.5}
	}

	gray := toGray(img)

	var (
		edges        int
		sampled      int
		sumX, sumY   float64
		sumXX, sumYY float64
	)

	for y := 1; y < h-1; y += sampleStep {
		for x := 1; x < w-1; x += sampleStep {
			sampled++
			if sobelMagnitude(gray, w, x, y) <= edgeThreshold {
				continue
			}
			edges++
			fx := float64(x) / float64(w)
			fy := float64(y) / float64(h)
			sumX += fx
			sumY += fy
			sumXX += fx * fx
			sumYY += fy * fy
		}
	}

	if edges == 0 {
		return Saliency{CenterX: 0.5, CenterY: 0.5}
	}

	n := float64(edges)
	cx := sumX / n
	cy := sumY / n
	varX := sumXX/n - cx*cx
	varY := sumYY/n - cy*cy
	if varX < 0 {
		varX = 0
	}
	if varY < 0 {
		varY = 0
	}

	return Saliency{
		Density: n / float64(sampled),
		CenterX: cx,
		CenterY: cy,
		Spread:  math.Sqrt(varX + varY),
	}
}

// toGray flattens RGBA to a luma plane using integer BT.601 weights.
func toGray(img *image.RGBA) []uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			gray[y*w+x] = uint8((299*int(p[0]) + 587*int(p[1]) + 114*int(p[2])) / 1000)
		}
	}
	return gray
}

func sobelMagnitude(gray []uint8, w, x, y int) float64 {
	at := func(dx, dy int) float64 {
		return float64(gray[(y+dy)*w+(x+dx)])
	}
	gx := -at(-1, -1) + at(1, -1) - 2*at(-1, 0) + 2*at(1, 0) - at(-1, 1) + at(1, 1)
	gy := -at(-1, -1) - 2*at(0, -1) - at(1, -1) + at(-1, 1) + 2*at(0, 1) + at(1, 1)
	return math.Sqrt(gx*gx + gy*gy)
}
