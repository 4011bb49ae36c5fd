package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderWorkersAlwaysPositive(t *testing.T) {
	got := RenderWorkers(0, 1080, 1920, 30, 5.0)
	assert.GreaterOrEqual(t, got, 1)
}

func TestRenderWorkersHonorsRequest(t *testing.T) {
	// Крошечные сегменты памяти не требуют, запрос остаётся как есть.
	got := RenderWorkers(2, 32, 32, 30, 1.0)
	assert.Equal(t, 2, got)
}

func TestRenderWorkersCapsByMemory(t *testing.T) {
	// Абсурдно большой сегмент должен срезать параллелизм до минимума.
	got := RenderWorkers(64, 7680, 4320, 120, 3600.0)
	assert.Less(t, got, 64)
	assert.GreaterOrEqual(t, got, 1)
}
