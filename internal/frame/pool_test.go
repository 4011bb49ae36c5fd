package frame

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetReturnsZeroedBuffer(t *testing.T) {
	pool := NewPool()
	rect := image.Rect(0, 0, 16, 16)

	img := pool.Get(rect)
	require.Equal(t, rect, img.Bounds())

	// Пачкаем буфер и возвращаем в пул.
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	pool.Put(img)

	got := pool.Get(rect)
	require.Equal(t, rect, got.Bounds())
	for i := range got.Pix {
		if got.Pix[i] != 0 {
			t.Fatalf("reused buffer not zeroed at %d", i)
		}
	}
}

func TestPoolSeparatesSizes(t *testing.T) {
	pool := NewPool()
	a := pool.Get(image.Rect(0, 0, 8, 8))
	b := pool.Get(image.Rect(0, 0, 16, 16))
	assert.NotEqual(t, a.Bounds(), b.Bounds())
}

func TestPoolPutNil(t *testing.T) {
	pool := NewPool()
	assert.NotPanics(t, func() { pool.Put(nil) })
}

func TestBufferClone(t *testing.T) {
	pool := NewPool()
	src := &Buffer{
		RGBA:              image.NewRGBA(image.Rect(0, 0, 8, 8)),
		PresentationIndex: 42,
		SegmentIndex:      3,
	}
	src.RGBA.Pix[0] = 0xaa

	clone := src.Clone(pool)
	assert.Equal(t, 42, clone.PresentationIndex)
	assert.Equal(t, 3, clone.SegmentIndex)
	assert.Equal(t, uint8(0xaa), clone.RGBA.Pix[0])

	// Копия независима от оригинала.
	clone.RGBA.Pix[0] = 0x11
	assert.Equal(t, uint8(0xaa), src.RGBA.Pix[0])
}
