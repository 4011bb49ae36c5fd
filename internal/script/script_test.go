package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/story2reel/internal/motion"
	"github.com/ivlev/story2reel/internal/transition"
)

const sampleYAML = `version: "1.0"
title: Тестовая история
segments:
  - image: assets/scene1.png
    text: Первая сцена
    audio: assets/scene1.mp3
    motion: zoom_in
    transition: crossfade
  - image: assets/scene2.png
    text: Вторая сцена
    duration: 2.5
    motion: pan
    transition: slide_left
  - image: assets/scene3.png
    motion: zoom_out
    transition: flash
`

func TestReadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	s, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Тестовая история", s.Title)
	require.Len(t, s.Segments, 3)

	segments, err := s.Resolve()
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, 0, segments[0].Index)
	assert.Equal(t, "assets/scene1.png", segments[0].ImagePath)
	assert.Equal(t, motion.ZoomIn, segments[0].Motion)
	assert.Equal(t, transition.Crossfade, segments[0].TransitionToNext)
	assert.False(t, segments[0].AutoMotion)

	assert.Equal(t, 2.5, segments[1].Duration)
	assert.Equal(t, motion.Pan, segments[1].Motion)

	// Последнему сегменту не во что переходить.
	assert.Equal(t, transition.None, segments[2].TransitionToNext)
}

func TestResolveAutoMotion(t *testing.T) {
	s := &Script{Segments: []SegmentSpec{
		{Image: "a.png"},
		{Image: "b.png", Motion: "auto"},
		{Image: "c.png", Motion: "pulse"},
	}}

	segments, err := s.Resolve()
	require.NoError(t, err)

	assert.True(t, segments[0].AutoMotion)
	assert.True(t, segments[1].AutoMotion)
	assert.False(t, segments[2].AutoMotion)
	assert.Equal(t, motion.Pulse, segments[2].Motion)
}

func TestResolveRejectsUnknownNames(t *testing.T) {
	s := &Script{Segments: []SegmentSpec{
		{Image: "a.png", Motion: "wobble"},
	}}
	_, err := s.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wobble")

	s = &Script{Segments: []SegmentSpec{
		{Image: "a.png", Motion: "pan", Transition: "teleport"},
	}}
	_, err = s.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestResolveValidation(t *testing.T) {
	// Пустой список сегментов.
	_, err := (&Script{}).Resolve()
	assert.Error(t, err)

	// Сегмент без изображения.
	s := &Script{Segments: []SegmentSpec{{Motion: "pan"}}}
	_, err = s.Resolve()
	assert.Error(t, err)

	// Отрицательная длительность.
	s = &Script{Segments: []SegmentSpec{{Image: "a.png", Motion: "pan", Duration: -1}}}
	_, err = s.Resolve()
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	s := &Script{
		Version: "1.0",
		Title:   "roundtrip",
		Segments: []SegmentSpec{
			{Image: "x.png", Text: "текст", Motion: "drift", Transition: "wipe_up"},
		},
	}

	require.NoError(t, Write(s, path))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
