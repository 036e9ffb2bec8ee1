package health

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/relevanced/internal/config"
	"github.com/fyrsmithlabs/relevanced/internal/logging"
	"github.com/fyrsmithlabs/relevanced/internal/telemetry"
	"github.com/fyrsmithlabs/relevanced/pkg/stats"
)

// minWindows is the minimum number of rolling windows needed before a
// trend slope is computed.
const minWindows = 3

const weightTolerance = 1e-9

// Outcome is a single recorded attempt.
type Outcome struct {
	Success bool `json:"success"`
}

// Report is the plain-data result of a health assessment.
type Report struct {
	Composite  float64               `json:"composite"`
	Intervals  map[string][2]float64 `json:"intervals"`
	Slopes     map[string]float64    `json:"slopes"`
	TrendLabel stats.Direction       `json:"trend_label"`
}

// Scorer computes composite risk under a fixed weight configuration.
type Scorer struct {
	logger  *logging.Logger
	metrics *telemetry.Metrics
	cfg     config.RiskConfig
}

// NewScorer validates the weight configuration and returns a scorer.
// The three weights must sum to 1; the window must allow at least one
// rolling chunk.
func NewScorer(cfg config.RiskConfig, logger *logging.Logger, metrics *telemetry.Metrics) (*Scorer, error) {
	sum := cfg.FailureWeight + cfg.TrendWeight + cfg.DebtWeight
	if math.Abs(sum-1) > weightTolerance {
		return nil, fmt.Errorf("%w: risk weights must sum to 1, got %v", stats.ErrInvalidInput, sum)
	}
	if cfg.FailureWeight < 0 || cfg.TrendWeight < 0 || cfg.DebtWeight < 0 {
		return nil, fmt.Errorf("%w: risk weights must be non-negative", stats.ErrInvalidInput)
	}
	if cfg.Window < 2 {
		return nil, fmt.Errorf("%w: window must be at least 2, got %d", stats.ErrInvalidInput, cfg.Window)
	}
	if cfg.ConfidenceLevel <= 0 || cfg.ConfidenceLevel >= 1 {
		return nil, fmt.Errorf("%w: confidence level must be in (0, 1), got %v", stats.ErrInvalidInput, cfg.ConfidenceLevel)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scorer{
		logger:  logger.Named("health"),
		metrics: metrics,
		cfg:     cfg,
	}, nil
}

// Assess scores the project from its outcome history, the sequence of
// observed error types, and the technical-debt fraction (0 to 1,
// clamped). An empty history scores only the debt component.
func (s *Scorer) Assess(ctx context.Context, history []Outcome, errorTypes []string, debtPct float64) (*Report, error) {
	report := &Report{
		Intervals:  map[string][2]float64{},
		Slopes:     map[string]float64{},
		TrendLabel: stats.Stable,
	}

	failureComponent := 0.0
	if len(history) > 0 {
		failures := 0
		for _, o := range history {
			if !o.Success {
				failures++
			}
		}
		est, err := stats.FromStats(float64(failures), float64(len(history)))
		if err != nil {
			return nil, fmt.Errorf("estimating failure rate: %w", err)
		}
		failureComponent = est.Mean()

		lower, upper, err := est.ConfidenceInterval(s.cfg.ConfidenceLevel)
		if err != nil {
			return nil, fmt.Errorf("failure rate interval: %w", err)
		}
		report.Intervals["failure_rate"] = [2]float64{lower, upper}
	}

	if rates := rollingFailureRates(history, s.cfg.Window); len(rates) >= minWindows {
		tau, direction := stats.Trend(rates)
		report.Slopes["failure_rate"] = tau
		report.TrendLabel = direction
	}
	if counts := rollingDiversity(errorTypes, s.cfg.Window); len(counts) >= minWindows {
		tau, _ := stats.Trend(counts)
		report.Slopes["error_diversity"] = tau
	}

	report.Composite = round1(100 * (s.cfg.FailureWeight*failureComponent +
		s.cfg.TrendWeight*trendSeverity(report.Slopes) +
		s.cfg.DebtWeight*clamp01(debtPct)))

	if s.metrics != nil {
		s.metrics.RiskReportsTotal.Inc()
	}
	s.logger.Debug(ctx, "health assessed",
		zap.Float64("composite", report.Composite),
		zap.Float64("failure_component", failureComponent),
		zap.String("trend", string(report.TrendLabel)),
	)
	return report, nil
}

// rollingFailureRates slides a window over the history and returns the
// failure fraction of each chunk.
func rollingFailureRates(history []Outcome, window int) []float64 {
	if len(history) < window {
		return nil
	}
	rates := make([]float64, 0, len(history)-window+1)
	for i := 0; i+window <= len(history); i++ {
		failures := 0
		for _, o := range history[i : i+window] {
			if !o.Success {
				failures++
			}
		}
		rates = append(rates, float64(failures)/float64(window))
	}
	return rates
}

// rollingDiversity slides a window over the error-type sequence and
// returns the count of distinct types in each chunk.
func rollingDiversity(errorTypes []string, window int) []float64 {
	if len(errorTypes) < window {
		return nil
	}
	counts := make([]float64, 0, len(errorTypes)-window+1)
	for i := 0; i+window <= len(errorTypes); i++ {
		unique := map[string]struct{}{}
		for _, typ := range errorTypes[i : i+window] {
			unique[typ] = struct{}{}
		}
		counts = append(counts, float64(len(unique)))
	}
	return counts
}

// trendSeverity folds slope taus into a 0-1 severity. A rising failure
// rate counts directly; diversity counts by magnitude since churn in
// either direction signals instability.
func trendSeverity(slopes map[string]float64) float64 {
	if len(slopes) == 0 {
		return 0
	}
	total := 0.0
	for key, tau := range slopes {
		if key == "failure_rate" {
			total += math.Max(0, tau)
		} else {
			total += math.Abs(tau)
		}
	}
	severity := total / float64(len(slopes))
	if severity > 1 {
		return 1
	}
	return severity
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
