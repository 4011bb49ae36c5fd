package encoder

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/story2reel/internal/compositor"
	"github.com/ivlev/story2reel/internal/frame"
	"github.com/ivlev/story2reel/internal/media"
)

func testTimeline() *compositor.Timeline {
	return &compositor.Timeline{
		Frames: []*frame.Buffer{
			{RGBA: image.NewRGBA(image.Rect(0, 0, 32, 64))},
		},
		Audio: []compositor.AudioSpan{
			{Clip: media.Clip{Path: "a.mp3", Duration: 2.0}, Offset: 0, Duration: 1.8},
			{Clip: media.Clip{Silent: true, Duration: 1.5}, Duration: 1.5},
			{Clip: media.Clip{Path: "c.mp3", Duration: 2.5}, Offset: 0.2, Duration: 2.2},
		},
		FPS: 30,
	}
}

func TestBuildArgs(t *testing.T) {
	enc := &FFmpegEncoder{EncoderName: "libx264", Quality: 23, Log: logrus.New()}
	args, audioInputs := enc.buildArgs(testTimeline(), 32, 64, "out.mp4")

	assert.Equal(t, 2, audioInputs)

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-f rawvideo")
	assert.Contains(t, joined, "-pixel_format rgba")
	assert.Contains(t, joined, "-video_size 32x64")
	assert.Contains(t, joined, "-framerate 30")
	assert.Contains(t, joined, "-i a.mp3")
	assert.Contains(t, joined, "-i c.mp3")
	assert.Contains(t, joined, "-pix_fmt yuv420p")
	assert.Contains(t, joined, "-crf 23")
	assert.Equal(t, "out.mp4", args[len(args)-1])

	// Тишина синтезируется, а не читается из файла.
	var graph string
	for i, a := range args {
		if a == "-filter_complex" {
			graph = args[i+1]
		}
	}
	require.NotEmpty(t, graph)
	assert.Contains(t, graph, "anullsrc")
	assert.Contains(t, graph, "concat=n=3:v=0:a=1[aout]")
	// Реальные клипы обрезаются по своим границам.
	assert.Contains(t, graph, "[1:a]atrim=")
	assert.Contains(t, graph, "[2:a]atrim=")
}

func TestBuildArgsQualityPerEncoder(t *testing.T) {
	tl := testTimeline()

	enc := &FFmpegEncoder{EncoderName: "h264_videotoolbox", Quality: 75, Log: logrus.New()}
	args, _ := enc.buildArgs(tl, 32, 64, "out.mp4")
	assert.Contains(t, strings.Join(args, " "), "-b:v 7500k")

	enc = &FFmpegEncoder{EncoderName: "h264_nvenc", Quality: 28, Log: logrus.New()}
	args, _ = enc.buildArgs(tl, 32, 64, "out.mp4")
	assert.Contains(t, strings.Join(args, " "), "-cq 28")
}

func TestWriteRawRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	var buf bytes.Buffer
	require.NoError(t, writeRawRGBA(&buf, img))
	assert.Equal(t, img.Pix, buf.Bytes())
}

func TestWriteRawRGBANormalizesSubimage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range base.Pix {
		base.Pix[i] = uint8(i % 251)
	}
	sub := base.SubImage(image.Rect(2, 2, 6, 6)).(*image.RGBA)

	var buf bytes.Buffer
	require.NoError(t, writeRawRGBA(&buf, sub))
	assert.Equal(t, 4*4*4, buf.Len())
}
