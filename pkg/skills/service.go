package skills

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/relevanced/internal/logging"
	"github.com/fyrsmithlabs/relevanced/internal/telemetry"
	"github.com/fyrsmithlabs/relevanced/pkg/semantic"
)

// Service manages an in-memory skill catalog with semantic search.
//
// The catalog itself is mutable behind a lock; the search index is an
// immutable snapshot rebuilt explicitly via Rebuild and swapped
// atomically, so searches never observe a half-built index. Callers own
// persistence: the catalog is reconstructed from raw skills and the
// usage counters round-trip as plain data.
type Service struct {
	logger  *logging.Logger
	metrics *telemetry.Metrics

	mu     sync.RWMutex
	skills map[string]*Skill
	order  []string
	stats  map[string]*UsageStats
	index  *semantic.Index
}

// NewService creates an empty skills service. A nil logger disables
// logging; a nil metrics disables instrumentation.
func NewService(logger *logging.Logger, metrics *telemetry.Metrics) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		logger:  logger.Named("skills"),
		metrics: metrics,
		skills:  map[string]*Skill{},
		stats:   map[string]*UsageStats{},
	}
}

// Put adds or replaces a skill in the catalog. The search index is not
// touched; call Rebuild once the batch of changes is complete.
func (s *Service) Put(ctx context.Context, skill *Skill) error {
	if skill == nil {
		return fmt.Errorf("%w: skill cannot be nil", ErrInvalidSkill)
	}
	if err := skill.Validate(); err != nil {
		return fmt.Errorf("validating skill: %w", err)
	}

	now := time.Now()
	if skill.CreatedAt.IsZero() {
		skill.CreatedAt = now
	}
	skill.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.skills[skill.Name]; !ok {
		s.order = append(s.order, skill.Name)
	}
	s.skills[skill.Name] = skill
	return nil
}

// Get retrieves a skill by name.
func (s *Service) Get(ctx context.Context, name string) (*Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	skill, ok := s.skills[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrSkillNotFound)
	}
	return skill, nil
}

// List returns all skills in catalog insertion order.
func (s *Service) List(ctx context.Context) []*Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Skill, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.skills[name])
	}
	return out
}

// Rebuild fits a fresh index over the current catalog and swaps it in.
// Ongoing searches keep using the previous snapshot until the swap.
func (s *Service) Rebuild(ctx context.Context) {
	s.mu.RLock()
	docs := make([]semantic.Document, 0, len(s.order))
	for _, name := range s.order {
		docs = append(docs, semantic.Document{Name: name, Text: s.skills[name].Document()})
	}
	s.mu.RUnlock()

	index := semantic.BuildIndex(docs)

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IndexRebuildsTotal.Inc()
		s.metrics.IndexSize.Set(float64(index.Len()))
	}
	s.logger.Info(ctx, "skill index rebuilt", zap.Int("documents", index.Len()))
}

// snapshot returns the current index, which may be nil before the first
// Rebuild.
func (s *Service) snapshot() *semantic.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Search ranks skills against the query by semantic similarity. A blank
// query, an unbuilt index, or no overlap all yield an empty result.
func (s *Service) Search(ctx context.Context, query string, limit int) []SearchResult {
	index := s.snapshot()
	if index == nil {
		return nil
	}

	matches := index.Search(query, limit)
	s.observeSearch(ctx, "plain", query, len(matches))
	return s.toResults(matches)
}

// SearchWithBoost ranks skills by similarity re-weighted with each
// skill's historical success rate (Beta posterior mean; neutral 0.5 for
// skills never injected). A skill invisible to plain Search can never be
// promoted into the result.
func (s *Service) SearchWithBoost(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	index := s.snapshot()
	if index == nil {
		return nil, nil
	}

	s.mu.RLock()
	statsByName := make(map[string]semantic.SubjectStats, len(s.stats))
	for name, st := range s.stats {
		statsByName[name] = semantic.SubjectStats{
			Successes: float64(st.Succeeded),
			Total:     float64(st.Injected),
		}
	}
	s.mu.RUnlock()

	matches, err := index.SearchWithBoost(query, limit, statsByName)
	if err != nil {
		return nil, fmt.Errorf("boosted search: %w", err)
	}
	s.observeSearch(ctx, "boosted", query, len(matches))
	return s.toResults(matches), nil
}

// SearchKeywords is the lexical fallback for callers that cannot
// tolerate empty semantic results: it scores skills by the number of
// whole keywords (and name fragments) found in the query.
func (s *Service) SearchKeywords(ctx context.Context, query string, limit int) []SearchResult {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	queryTokens := map[string]struct{}{}
	for _, tok := range semantic.Tokenize(query) {
		queryTokens[tok] = struct{}{}
	}

	s.mu.RLock()
	results := make([]SearchResult, 0, len(s.order))
	for _, name := range s.order {
		skill := s.skills[name]
		hits := 0
		for _, tok := range semantic.Tokenize(skill.Document()) {
			if _, ok := queryTokens[tok]; ok {
				hits++
			}
		}
		if hits > 0 {
			results = append(results, SearchResult{Skill: skill, Score: float64(hits)})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	s.observeSearch(ctx, "keyword", query, len(results))
	return results
}

// RecordUse accumulates an injection outcome for a skill.
func (s *Service) RecordUse(ctx context.Context, name string, success, truncated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.skills[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrSkillNotFound)
	}

	st, ok := s.stats[name]
	if !ok {
		st = &UsageStats{}
		s.stats[name] = st
	}
	st.Injected++
	if success {
		st.Succeeded++
	}
	if truncated {
		st.Truncated++
	}
	st.LastUsed = time.Now()
	return nil
}

// Stats returns a copy of a skill's usage counters.
func (s *Service) Stats(name string) (UsageStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[name]
	if !ok {
		return UsageStats{}, false
	}
	return *st, true
}

// AllStats returns a copy of every skill's usage counters, suitable for
// persistence by the caller.
func (s *Service) AllStats() map[string]UsageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]UsageStats, len(s.stats))
	for name, st := range s.stats {
		out[name] = *st
	}
	return out
}

// RestoreStats replaces the usage counters wholesale, typically from a
// caller's persisted snapshot.
func (s *Service) RestoreStats(stats map[string]UsageStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[string]*UsageStats, len(stats))
	for name, st := range stats {
		copied := st
		s.stats[name] = &copied
	}
}

func (s *Service) observeSearch(ctx context.Context, kind, query string, results int) {
	if s.metrics != nil {
		outcome := "hit"
		if results == 0 {
			outcome = "empty"
		}
		s.metrics.SearchesTotal.WithLabelValues(kind, outcome).Inc()
		s.metrics.SearchResultsCount.Observe(float64(results))
	}
	s.logger.Debug(ctx, "skill search",
		zap.String("kind", kind),
		zap.String("query", query),
		zap.Int("results", results),
	)
}

// toResults resolves index matches back to catalog skills. Matches for
// names removed since the snapshot was built are skipped.
func (s *Service) toResults(matches []semantic.Match) []SearchResult {
	if len(matches) == 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		skill, ok := s.skills[m.Name]
		if !ok {
			continue
		}
		results = append(results, SearchResult{Skill: skill, Score: m.Score})
	}
	return results
}
