package media

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/story2reel/internal/script"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestFileImageSourceMissingFileFallsBack(t *testing.T) {
	src := &FileImageSource{Width: 64, Height: 96, Log: quietLogger()}
	img := src.Fetch(script.Segment{Index: 0, ImagePath: "/does/not/exist.png"})

	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 64, 96), img.Bounds())
	// Плейсхолдер тёмный и непрозрачный.
	assert.Equal(t, color.RGBA{16, 16, 16, 255}, img.RGBAAt(32, 48))
}

func TestFileImageSourceLetterboxesWideImage(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 100, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 100; x++ {
			wide.SetRGBA(x, y, color.RGBA{250, 250, 250, 255})
		}
	}

	path := filepath.Join(t.TempDir(), "wide.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, wide))
	require.NoError(t, f.Close())

	src := &FileImageSource{Width: 100, Height: 100, Log: quietLogger()}
	got := src.Fetch(script.Segment{ImagePath: path})

	assert.Equal(t, image.Rect(0, 0, 100, 100), got.Bounds())
	// Картинка по центру, сверху и снизу чёрные поля.
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, got.RGBAAt(50, 5))
	center := got.RGBAAt(50, 50)
	assert.Greater(t, int(center.R), 200)
}

func TestFileImageSourceUndecodableFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("это не png"), 0644))

	src := &FileImageSource{Width: 32, Height: 32, Log: quietLogger()}
	img := src.Fetch(script.Segment{ImagePath: path})
	assert.Equal(t, color.RGBA{16, 16, 16, 255}, img.RGBAAt(16, 16))
}

func TestFileNarrationSourceSilentFallback(t *testing.T) {
	src := &FileNarrationSource{DefaultDuration: 3.0, Log: quietLogger()}

	// Сегмент со своей длительностью.
	clip, err := src.Fetch(context.Background(), script.Segment{Index: 0, Duration: 2.5})
	require.NoError(t, err)
	assert.True(t, clip.Silent)
	assert.Equal(t, 2.5, clip.Duration)

	// Сегмент без длительности берёт дефолт.
	clip, err = src.Fetch(context.Background(), script.Segment{Index: 1})
	require.NoError(t, err)
	assert.True(t, clip.Silent)
	assert.Equal(t, 3.0, clip.Duration)
}

func TestFileNarrationSourceMissingFileFallsBack(t *testing.T) {
	src := &FileNarrationSource{DefaultDuration: 3.0, Log: quietLogger()}
	clip, err := src.Fetch(context.Background(), script.Segment{
		Index:     0,
		AudioPath: "/does/not/exist.mp3",
		Duration:  1.5,
	})
	require.NoError(t, err)
	assert.True(t, clip.Silent)
	assert.Equal(t, 1.5, clip.Duration)
}

func TestFileNarrationSourceNoFallback(t *testing.T) {
	src := &FileNarrationSource{Log: quietLogger()}
	_, err := src.Fetch(context.Background(), script.Segment{Index: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoNarration)
}
