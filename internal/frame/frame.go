package frame

import (
	"image"
	"image/draw"
)

// Buffer is a single rendered video frame: an RGBA pixel grid tagged with
// its position in the final timeline and the segment that produced it.
// A Buffer is mutable while a segment is being composed (caption overlay,
// transition blend) and must be treated as immutable once appended to the
// timeline.
type Buffer struct {
	RGBA *image.RGBA

	// PresentationIndex is the zero-based position of the frame in the
	// final video. Assigned by the compositor after transitions are
	// spliced in.
	PresentationIndex int

	// SegmentIndex is the index of the owning segment. Transition frames
	// carry the index of the segment they lead out of.
	SegmentIndex int
}

func (b *Buffer) Bounds() image.Rectangle {
	return b.RGBA.Bounds()
}

// Clone returns a deep copy of the frame's pixels in a buffer taken from
// the pool.
func (b *Buffer) Clone(pool *Pool) *Buffer {
	dst := pool.Get(b.RGBA.Bounds())
	draw.Draw(dst, dst.Bounds(), b.RGBA, b.RGBA.Bounds().Min, draw.Src)
	return &Buffer{RGBA: dst, PresentationIndex: b.PresentationIndex, SegmentIndex: b.SegmentIndex}
}
