package patternbank

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/relevanced/internal/logging"
	"github.com/fyrsmithlabs/relevanced/internal/telemetry"
	"github.com/fyrsmithlabs/relevanced/pkg/stats"
)

// ErrInvalidConfig indicates an unusable bank configuration.
var ErrInvalidConfig = errors.New("invalid patternbank config")

// Stale purge thresholds: patterns this rare and this long unseen are
// dropped before relevance ranking.
const (
	staleMinFrequency = 2
	staleMaxAgeDays   = 90
	hoursPerDay       = 24
)

// Pattern is a reusable fix observed across projects. Before and After
// hold the code or configuration fragments the fix transforms.
type Pattern struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Before      string    `json:"before,omitempty"`
	After       string    `json:"after,omitempty"`
	Frequency   int       `json:"frequency"`
	Projects    []string  `json:"projects"`
	LastSeen    time.Time `json:"last_seen"`
}

// State is the bank's full serializable contents.
type State struct {
	Patterns []Pattern                  `json:"patterns"`
	Subjects map[string]stats.Estimator `json:"subjects"`
}

// Bank holds patterns merged by type plus per-subject outcome
// estimators.
type Bank struct {
	logger       *logging.Logger
	metrics      *telemetry.Metrics
	capacity     int
	halfLifeDays float64

	mu         sync.Mutex
	patterns   []*Pattern
	byType     map[string]*Pattern
	estimators map[string]*stats.Estimator
}

// NewBank creates a bank bounded to capacity patterns, with relevance
// decay over the given half-life in days.
func NewBank(capacity int, halfLifeDays float64, logger *logging.Logger, metrics *telemetry.Metrics) (*Bank, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, capacity)
	}
	if halfLifeDays <= 0 {
		return nil, fmt.Errorf("%w: half-life must be positive, got %v", ErrInvalidConfig, halfLifeDays)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bank{
		logger:       logger.Named("patternbank"),
		metrics:      metrics,
		capacity:     capacity,
		halfLifeDays: halfLifeDays,
		byType:       map[string]*Pattern{},
		estimators:   map[string]*stats.Estimator{},
	}, nil
}

// Observe merges a pattern sighting from a project into the bank. A
// known type gains frequency and the project is added to its set; a
// new type is appended. The bank compacts itself when over capacity.
func (b *Bank) Observe(ctx context.Context, project string, p Pattern, at time.Time) *Pattern {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.byType[p.Type]; ok {
		existing.Frequency++
		if at.After(existing.LastSeen) {
			existing.LastSeen = at
		}
		if p.Description != "" {
			existing.Description = p.Description
		}
		if p.Before != "" {
			existing.Before = p.Before
		}
		if p.After != "" {
			existing.After = p.After
		}
		addProject(existing, project)
		return existing
	}

	stored := p
	stored.Frequency = 1
	stored.LastSeen = at
	stored.Projects = nil
	addProject(&stored, project)

	b.patterns = append(b.patterns, &stored)
	b.byType[stored.Type] = &stored

	if len(b.patterns) > b.capacity {
		b.compactLocked(ctx, at)
	}
	return &stored
}

// Get returns a copy of the pattern with the given type.
func (b *Bank) Get(patternType string) (Pattern, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.byType[patternType]
	if !ok {
		return Pattern{}, false
	}
	return *p, true
}

// Patterns returns a copy of all patterns in observation order.
func (b *Bank) Patterns() []Pattern {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Pattern, 0, len(b.patterns))
	for _, p := range b.patterns {
		out = append(out, *p)
	}
	return out
}

// Len reports the number of distinct pattern types held.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.patterns)
}

// Compact purges stale patterns and trims the bank to capacity by
// relevance as of now.
func (b *Bank) Compact(ctx context.Context, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.compactLocked(ctx, now)
}

func (b *Bank) compactLocked(ctx context.Context, now time.Time) {
	before := len(b.patterns)

	kept := b.patterns[:0]
	for _, p := range b.patterns {
		if p.Frequency < staleMinFrequency && b.ageDays(p, now) > staleMaxAgeDays {
			delete(b.byType, p.Type)
			continue
		}
		kept = append(kept, p)
	}
	b.patterns = kept

	if len(b.patterns) > b.capacity {
		scored := make([]*Pattern, len(b.patterns))
		copy(scored, b.patterns)
		sort.SliceStable(scored, func(i, j int) bool {
			return b.relevance(scored[i], now) > b.relevance(scored[j], now)
		})
		keep := make(map[string]struct{}, b.capacity)
		for _, p := range scored[:b.capacity] {
			keep[p.Type] = struct{}{}
		}
		kept := b.patterns[:0]
		for _, p := range b.patterns {
			if _, ok := keep[p.Type]; ok {
				kept = append(kept, p)
			} else {
				delete(b.byType, p.Type)
			}
		}
		b.patterns = kept
	}

	evicted := before - len(b.patterns)
	if evicted == 0 {
		return
	}
	if b.metrics != nil {
		b.metrics.CompactionsTotal.WithLabelValues("patternbank").Inc()
		b.metrics.EntriesEvicted.Add(float64(evicted))
	}
	b.logger.Debug(ctx, "pattern bank compacted",
		zap.Int("kept", len(b.patterns)),
		zap.Int("evicted", evicted),
	)
}

func (b *Bank) ageDays(p *Pattern, now time.Time) float64 {
	age := now.Sub(p.LastSeen).Hours() / hoursPerDay
	if age < 0 {
		return 0
	}
	return age
}

func (b *Bank) relevance(p *Pattern, now time.Time) float64 {
	// The half-life is validated positive at construction, so Decay
	// cannot fail here.
	d, err := stats.Decay(b.ageDays(p, now), b.halfLifeDays)
	if err != nil {
		return 0
	}
	return d * float64(1+p.Frequency)
}

// RecordOutcome folds a success or failure into the subject's
// estimator, creating it at the uniform prior on first sight.
func (b *Bank) RecordOutcome(ctx context.Context, subject string, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	est, ok := b.estimators[subject]
	if !ok {
		est = stats.NewEstimator()
		b.estimators[subject] = est
	}
	if success {
		est.Update(1, 0)
	} else {
		est.Update(0, 1)
	}
}

// Stats returns a copy of the subject's estimator.
func (b *Bank) Stats(subject string) (stats.Estimator, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	est, ok := b.estimators[subject]
	if !ok {
		return stats.Estimator{}, false
	}
	return *est, true
}

// SuccessRate returns the subject's posterior mean success rate, or
// the neutral 0.5 for subjects with no recorded outcomes.
func (b *Bank) SuccessRate(subject string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	est, ok := b.estimators[subject]
	if !ok {
		return 0.5
	}
	return est.Mean()
}

// Snapshot captures the full bank state for persistence by the caller.
func (b *Bank) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := State{
		Patterns: make([]Pattern, 0, len(b.patterns)),
		Subjects: make(map[string]stats.Estimator, len(b.estimators)),
	}
	for _, p := range b.patterns {
		state.Patterns = append(state.Patterns, *p)
	}
	for subject, est := range b.estimators {
		state.Subjects[subject] = *est
	}
	return state
}

// Restore replaces the bank contents from a snapshot.
func (b *Bank) Restore(state State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patterns = make([]*Pattern, 0, len(state.Patterns))
	b.byType = make(map[string]*Pattern, len(state.Patterns))
	for _, p := range state.Patterns {
		copied := p
		b.patterns = append(b.patterns, &copied)
		b.byType[copied.Type] = &copied
	}
	b.estimators = make(map[string]*stats.Estimator, len(state.Subjects))
	for subject, est := range state.Subjects {
		copied := est
		b.estimators[subject] = &copied
	}
}

func addProject(p *Pattern, project string) {
	if project == "" {
		return
	}
	for _, existing := range p.Projects {
		if existing == project {
			return
		}
	}
	p.Projects = append(p.Projects, project)
}
