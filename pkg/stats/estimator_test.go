package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimator_UniformPrior(t *testing.T) {
	// A fresh estimator carries a Beta(1,1) prior, so the mean is exactly 0.5.
	e := NewEstimator()

	assert.Equal(t, 0.5, e.Mean())
	assert.Equal(t, 2.0, e.Total())
}

func TestEstimator_Update(t *testing.T) {
	e := NewEstimator()
	e.Update(3, 1)

	assert.Equal(t, 4.0, e.Alpha)
	assert.Equal(t, 2.0, e.Beta)
	assert.InDelta(t, 4.0/6.0, e.Mean(), 1e-12)

	// Zero-valued updates are accepted and change nothing.
	e.Update(0, 0)
	assert.Equal(t, 4.0, e.Alpha)
	assert.Equal(t, 2.0, e.Beta)
}

func TestEstimator_ManySuccessesDominates(t *testing.T) {
	// After many successes and no failures the posterior mean approaches 1.
	e := NewEstimator()
	e.Update(100, 0)

	assert.Greater(t, e.Mean(), 0.9)
}

func TestEstimator_Reset(t *testing.T) {
	e := NewEstimator()
	e.Update(50, 10)
	e.Reset()

	assert.Equal(t, 0.5, e.Mean())
	assert.Equal(t, 2.0, e.Total())
}

func TestFromStats(t *testing.T) {
	// from_stats(7, 10) is a uniform prior updated with 7 successes and
	// 3 failures: Beta(8, 4), mean exactly 8/12.
	e, err := FromStats(7, 10)
	require.NoError(t, err)

	assert.Equal(t, 8.0, e.Alpha)
	assert.Equal(t, 4.0, e.Beta)
	assert.Equal(t, 8.0/12.0, e.Mean())
}

func TestFromStats_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		successes float64
		total     float64
	}{
		{"total less than successes", 5, 3},
		{"negative successes", -1, 10},
		{"negative total", 1, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromStats(tt.successes, tt.total)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEstimator_ConfidenceInterval(t *testing.T) {
	e := NewEstimator()
	e.Update(8, 2)

	lower, upper, err := e.ConfidenceInterval(DefaultConfidenceLevel)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, lower, 0.0)
	assert.LessOrEqual(t, upper, 1.0)
	assert.Less(t, lower, e.Mean())
	assert.Greater(t, upper, e.Mean())
}

func TestEstimator_ConfidenceInterval_InvalidLevel(t *testing.T) {
	e := NewEstimator()

	for _, level := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := e.ConfidenceInterval(level)
		assert.ErrorIs(t, err, ErrInvalidInput, "level %v", level)
	}
}

func TestEstimator_IntervalShrinksWithVolume(t *testing.T) {
	// At a fixed 4:1 success/failure balance the interval width must
	// strictly decrease as volume grows. This is a required monotonicity
	// property, not an empirical tendency.
	prevWidth := 2.0
	for _, scale := range []float64{1, 2, 4, 8, 16, 32} {
		e := NewEstimator()
		e.Update(4*scale, 1*scale)

		lower, upper, err := e.ConfidenceInterval(0.95)
		require.NoError(t, err)

		width := upper - lower
		assert.Less(t, width, prevWidth, "scale %v", scale)
		prevWidth = width
	}
}

func TestEstimator_UntabulatedLevel(t *testing.T) {
	// Levels outside the z-table fall back to bisection; a wider level
	// must produce a wider interval.
	e := NewEstimator()
	e.Update(6, 4)

	l80, u80, err := e.ConfidenceInterval(0.80)
	require.NoError(t, err)
	l95, u95, err := e.ConfidenceInterval(0.95)
	require.NoError(t, err)

	assert.Less(t, u80-l80, u95-l95)
}

func TestEstimator_RiskScore(t *testing.T) {
	// A mostly-failing subject has a high probability of being below 0.5.
	failing := NewEstimator()
	failing.Update(1, 9)
	assert.Greater(t, failing.RiskScore(0.5), 0.9)

	// A mostly-succeeding subject has a low probability of being below 0.5.
	passing := NewEstimator()
	passing.Update(9, 1)
	assert.Less(t, passing.RiskScore(0.5), 0.1)
}

func TestEstimator_RiskScoreBounds(t *testing.T) {
	e := NewEstimator()
	e.Update(3, 3)

	assert.GreaterOrEqual(t, e.RiskScore(0.0), 0.0)
	assert.LessOrEqual(t, e.RiskScore(1.0), 1.0)
}
