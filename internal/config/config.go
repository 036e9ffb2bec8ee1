// Package config provides configuration loading for relevanced.
package config

import (
	"fmt"
	"math"

	"github.com/fyrsmithlabs/relevanced/internal/logging"
)

// Config is the root configuration for relevanced.
type Config struct {
	Logging logging.Config `koanf:"logging"`
	Engine  EngineConfig   `koanf:"engine"`
}

// EngineConfig carries the relevance-engine tunables.
type EngineConfig struct {
	// SearchLimit is the default top-k for skill searches.
	SearchLimit int `koanf:"search_limit"`

	// EventHalfLifeDays controls temporal decay of event-log entries.
	EventHalfLifeDays float64 `koanf:"event_half_life_days"`

	// EventLogCapacity bounds the per-project event log; compaction
	// keeps the most relevant entries when the bound is exceeded.
	EventLogCapacity int `koanf:"event_log_capacity"`

	// PatternHalfLifeDays controls temporal decay of cross-project patterns.
	PatternHalfLifeDays float64 `koanf:"pattern_half_life_days"`

	// PatternCapacity bounds the cross-project pattern bank.
	PatternCapacity int `koanf:"pattern_capacity"`

	Risk RiskConfig `koanf:"risk"`
}

// RiskConfig tunes the composite risk scorer. The three weights form a
// convex combination and must sum to 1.
type RiskConfig struct {
	FailureWeight   float64 `koanf:"failure_weight"`
	TrendWeight     float64 `koanf:"trend_weight"`
	DebtWeight      float64 `koanf:"debt_weight"`
	Window          int     `koanf:"window"`
	ConfidenceLevel float64 `koanf:"confidence_level"`
}

// NewDefaultConfig returns the hardcoded defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Logging: *logging.NewDefaultConfig(),
		Engine: EngineConfig{
			SearchLimit:         5,
			EventHalfLifeDays:   30,
			EventLogCapacity:    50,
			PatternHalfLifeDays: 30,
			PatternCapacity:     20,
			Risk: RiskConfig{
				FailureWeight:   0.4,
				TrendWeight:     0.3,
				DebtWeight:      0.3,
				Window:          5,
				ConfidenceLevel: 0.95,
			},
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	e := c.Engine
	if e.SearchLimit <= 0 {
		return fmt.Errorf("engine.search_limit must be positive, got %d", e.SearchLimit)
	}
	if e.EventHalfLifeDays <= 0 {
		return fmt.Errorf("engine.event_half_life_days must be positive, got %v", e.EventHalfLifeDays)
	}
	if e.EventLogCapacity <= 0 {
		return fmt.Errorf("engine.event_log_capacity must be positive, got %d", e.EventLogCapacity)
	}
	if e.PatternHalfLifeDays <= 0 {
		return fmt.Errorf("engine.pattern_half_life_days must be positive, got %v", e.PatternHalfLifeDays)
	}
	if e.PatternCapacity <= 0 {
		return fmt.Errorf("engine.pattern_capacity must be positive, got %d", e.PatternCapacity)
	}
	r := e.Risk
	if r.FailureWeight < 0 || r.TrendWeight < 0 || r.DebtWeight < 0 {
		return fmt.Errorf("engine.risk weights must be non-negative")
	}
	if sum := r.FailureWeight + r.TrendWeight + r.DebtWeight; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("engine.risk weights must sum to 1, got %v", sum)
	}
	if r.Window < 2 {
		return fmt.Errorf("engine.risk.window must be at least 2, got %d", r.Window)
	}
	if r.ConfidenceLevel <= 0 || r.ConfidenceLevel >= 1 {
		return fmt.Errorf("engine.risk.confidence_level must be in (0,1), got %v", r.ConfidenceLevel)
	}
	return nil
}
