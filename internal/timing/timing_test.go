package timing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDiffusesRounding(t *testing.T) {
	// Каждый сегмент сам по себе округлялся бы вниз, ошибка должна
	// переноситься вперёд, а не накапливаться.
	durations := []float64{1.015, 1.015, 1.015, 1.015, 1.015, 1.015}
	fps := 30

	counts, err := Plan(durations, fps)
	require.NoError(t, err)
	require.Len(t, counts, len(durations))

	// Running total never strays more than half a frame from the ideal.
	assigned := 0
	ideal := 0.0
	for i, n := range counts {
		assigned += n
		ideal += durations[i] * float64(fps)
		prefix := float64(assigned) - ideal
		assert.LessOrEqualf(t, math.Abs(prefix), 0.5+1e-9,
			"prefix drift at segment %d: %f", i, prefix)
	}

	assert.LessOrEqual(t, math.Abs(Drift(counts, durations, fps)), 0.5+1e-9)
}

func TestPlanExactDurations(t *testing.T) {
	counts, err := Plan([]float64{2.0, 1.5, 2.5}, 30)
	require.NoError(t, err)
	assert.Equal(t, []int{60, 45, 75}, counts)
	assert.Zero(t, Drift(counts, []float64{2.0, 1.5, 2.5}, 30))
}

func TestPlanMinimumOneFrame(t *testing.T) {
	// Обрывок короче кадра всё равно получает один кадр.
	counts, err := Plan([]float64{0.001, 3.0}, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[0])

	// The extra frame is paid back by the next segment.
	total := counts[0] + counts[1]
	ideal := (0.001 + 3.0) * 30
	assert.LessOrEqual(t, math.Abs(float64(total)-ideal), 1.0)
}

func TestPlanRejectsBadInput(t *testing.T) {
	_, err := Plan([]float64{1.0}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Plan([]float64{1.0, -0.5}, 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Plan([]float64{0}, 30)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestPlanEmpty(t *testing.T) {
	counts, err := Plan(nil, 30)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestPlanDeterministic(t *testing.T) {
	durations := []float64{1.37, 0.42, 2.718, 3.141, 0.99}
	a, err := Plan(durations, 25)
	require.NoError(t, err)
	b, err := Plan(durations, 25)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
