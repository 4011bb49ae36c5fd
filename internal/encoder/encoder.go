// Package encoder is the mechanical I/O boundary of the pipeline: it
// receives the finished timeline and audio spans and muxes them into a
// video file via ffmpeg. No frame math happens here.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/story2reel/internal/compositor"
)

// VideoEncoder writes a composed timeline to an output file.
type VideoEncoder interface {
	Write(ctx context.Context, tl *compositor.Timeline, outputPath string) error
}

// FFmpegEncoder pipes raw RGBA frames into ffmpeg's stdin and assembles
// the audio track from the timeline's spans in one pass.
type FFmpegEncoder struct {
	EncoderName string // libx264, h264_nvenc, h264_videotoolbox
	Quality     int
	Log         *logrus.Logger
}

func (e *FFmpegEncoder) Write(ctx context.Context, tl *compositor.Timeline, outputPath string) error {
	if len(tl.Frames) == 0 {
		return fmt.Errorf("encoder: empty timeline")
	}

	bounds := tl.Frames[0].Bounds()
	args, audioInputs := e.buildArgs(tl, bounds.Dx(), bounds.Dy(), outputPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("encoder: stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("encoder: ffmpeg start: %w", err)
	}

	e.Log.WithFields(logrus.Fields{
		"frames": len(tl.Frames),
		"audio":  audioInputs,
		"output": outputPath,
	}).Info("encoding")

	writeErr := func() error {
		defer stdin.Close()
		for _, f := range tl.Frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeRawRGBA(stdin, f.RGBA); err != nil {
				return err
			}
		}
		return nil
	}()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("encoder: ffmpeg: %w, log: %s", err, out.String())
	}
	if writeErr != nil {
		return fmt.Errorf("encoder: write frames: %w", writeErr)
	}
	return nil
}

// buildArgs constructs the full ffmpeg invocation: one rawvideo input on
// stdin, one input per narration file, and a filter graph that trims each
// clip to its span, synthesizes silence for silent spans and concatenates
// everything into a single track.
func (e *FFmpegEncoder) buildArgs(tl *compositor.Timeline, width, height int, outputPath string) ([]string, int) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", tl.FPS),
		"-i", "-",
	}

	audioInputs := 0
	inputIndex := make([]int, len(tl.Audio))
	for i, span := range tl.Audio {
		if span.Silent() {
			inputIndex[i] = -1
			continue
		}
		audioInputs++
		inputIndex[i] = audioInputs // input 0 is the rawvideo stream
		args = append(args, "-i", span.Clip.Path)
	}

	var graph strings.Builder
	labels := make([]string, len(tl.Audio))
	for i, span := range tl.Audio {
		labels[i] = fmt.Sprintf("[a%d]", i)
		if span.Silent() {
			fmt.Fprintf(&graph, "anullsrc=r=44100:cl=stereo,atrim=0:%f%s;", span.Duration, labels[i])
			continue
		}
		// apad then atrim pins the span to its exact planned length even
		// when the source clip runs slightly short.
		fmt.Fprintf(&graph, "[%d:a]atrim=%f:%f,asetpts=PTS-STARTPTS,apad,atrim=0:%f%s;",
			inputIndex[i], span.Offset, span.Offset+span.Duration, span.Duration, labels[i])
	}
	fmt.Fprintf(&graph, "%sconcat=n=%d:v=0:a=1[aout]", strings.Join(labels, ""), len(tl.Audio))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "0:v",
		"-map", "[aout]",
		"-r", fmt.Sprintf("%d", tl.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", e.EncoderName,
	)

	// Качество в зависимости от энкодера
	switch e.EncoderName {
	case "h264_videotoolbox":
		bitrate := e.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", e.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium")
	}

	args = append(args, "-c:a", "aac", "-shortest", outputPath)
	return args, audioInputs
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		tmp := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(tmp, tmp.Bounds(), img, bounds.Min, draw.Src)
		img = tmp
	}
	_, err := w.Write(img.Pix)
	return err
}
