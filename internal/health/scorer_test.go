package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/relevanced/internal/config"
	"github.com/fyrsmithlabs/relevanced/pkg/stats"
)

func defaultRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		FailureWeight:   0.4,
		TrendWeight:     0.3,
		DebtWeight:      0.3,
		Window:          5,
		ConfidenceLevel: 0.95,
	}
}

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := NewScorer(defaultRiskConfig(), nil, nil)
	require.NoError(t, err)
	return scorer
}

func outcomes(successes ...bool) []Outcome {
	out := make([]Outcome, len(successes))
	for i, s := range successes {
		out[i] = Outcome{Success: s}
	}
	return out
}

func TestNewScorerValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.RiskConfig)
	}{
		{"weights do not sum to 1", func(c *config.RiskConfig) { c.FailureWeight = 0.5 }},
		{"negative weight", func(c *config.RiskConfig) {
			c.FailureWeight = -0.1
			c.TrendWeight = 0.8
		}},
		{"window too small", func(c *config.RiskConfig) { c.Window = 1 }},
		{"confidence level out of range", func(c *config.RiskConfig) { c.ConfidenceLevel = 1.0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultRiskConfig()
			tt.mutate(&cfg)
			_, err := NewScorer(cfg, nil, nil)
			assert.ErrorIs(t, err, stats.ErrInvalidInput)
		})
	}
}

func TestAssessEmptyHistory(t *testing.T) {
	scorer := newTestScorer(t)

	report, err := scorer.Assess(context.Background(), nil, nil, 0)
	require.NoError(t, err)

	assert.Zero(t, report.Composite)
	assert.Empty(t, report.Intervals)
	assert.Empty(t, report.Slopes)
	assert.Equal(t, stats.Stable, report.TrendLabel)
}

func TestAssessDebtOnly(t *testing.T) {
	scorer := newTestScorer(t)

	report, err := scorer.Assess(context.Background(), nil, nil, 0.5)
	require.NoError(t, err)

	// 0.3 debt weight * 0.5 debt * 100.
	assert.InDelta(t, 15.0, report.Composite, 1e-9)
}

func TestAssessDebtClamped(t *testing.T) {
	scorer := newTestScorer(t)

	report, err := scorer.Assess(context.Background(), nil, nil, 3.7)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, report.Composite, 1e-9)
}

func TestAssessFailureComponent(t *testing.T) {
	scorer := newTestScorer(t)

	// 3 failures out of 10: posterior Beta(4, 8), mean 1/3.
	history := outcomes(true, true, true, true, true, true, true, false, false, false)
	report, err := scorer.Assess(context.Background(), history, nil, 0)
	require.NoError(t, err)

	assert.InDelta(t, round1(100*0.4/3.0), report.Composite, 0.11)

	interval, ok := report.Intervals["failure_rate"]
	require.True(t, ok)
	assert.Less(t, interval[0], interval[1])
	assert.GreaterOrEqual(t, interval[0], 0.0)
	assert.LessOrEqual(t, interval[1], 1.0)
}

func TestAssessWorseningTrend(t *testing.T) {
	scorer := newTestScorer(t)

	// All successes first, then all failures: rolling failure rates
	// climb monotonically.
	history := outcomes(
		true, true, true, true, true,
		false, false, false, false, false,
	)
	report, err := scorer.Assess(context.Background(), history, nil, 0)
	require.NoError(t, err)

	require.Contains(t, report.Slopes, "failure_rate")
	assert.Greater(t, report.Slopes["failure_rate"], 0.5)
	assert.Equal(t, stats.Increasing, report.TrendLabel)
}

func TestAssessErrorDiversityTrend(t *testing.T) {
	scorer := newTestScorer(t)

	// Error types grow ever more varied over time.
	errorTypes := []string{
		"timeout", "timeout", "timeout", "timeout", "timeout",
		"syntax", "panic", "oom", "deadlock", "io",
	}
	report, err := scorer.Assess(context.Background(), nil, errorTypes, 0)
	require.NoError(t, err)

	require.Contains(t, report.Slopes, "error_diversity")
	assert.Greater(t, report.Slopes["error_diversity"], 0.0)
}

func TestAssessShortSeriesHaveNoSlopes(t *testing.T) {
	scorer := newTestScorer(t)

	// 6 outcomes give only 2 rolling windows, below the minimum of 3.
	history := outcomes(true, false, true, false, true, false)
	report, err := scorer.Assess(context.Background(), history, nil, 0)
	require.NoError(t, err)

	assert.Empty(t, report.Slopes)
	assert.Equal(t, stats.Stable, report.TrendLabel)
}

func TestAssessCompositeRange(t *testing.T) {
	scorer := newTestScorer(t)

	history := outcomes(false, false, false, false, false, false, false, false)
	report, err := scorer.Assess(context.Background(), history, []string{
		"a", "b", "c", "d", "e", "f", "g", "h",
	}, 1.0)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.Composite, 0.0)
	assert.LessOrEqual(t, report.Composite, 100.0)
}
