package eventlog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/relevanced/internal/logging"
	"github.com/fyrsmithlabs/relevanced/internal/telemetry"
	"github.com/fyrsmithlabs/relevanced/pkg/stats"
)

// ErrInvalidConfig indicates an unusable log configuration.
var ErrInvalidConfig = errors.New("invalid eventlog config")

const hoursPerDay = 24

// Event is a deduplicated failure record. Count tracks how many times
// the same event type was observed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Log is a bounded, type-deduplicated event log.
type Log struct {
	logger       *logging.Logger
	metrics      *telemetry.Metrics
	capacity     int
	halfLifeDays float64

	mu     sync.Mutex
	events []*Event
	byType map[string]*Event
}

// NewLog creates a log that holds at most capacity distinct event
// types, scoring survivors with the given decay half-life in days.
func NewLog(capacity int, halfLifeDays float64, logger *logging.Logger, metrics *telemetry.Metrics) (*Log, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, capacity)
	}
	if halfLifeDays <= 0 {
		return nil, fmt.Errorf("%w: half-life must be positive, got %v", ErrInvalidConfig, halfLifeDays)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Log{
		logger:       logger.Named("eventlog"),
		metrics:      metrics,
		capacity:     capacity,
		halfLifeDays: halfLifeDays,
		byType:       map[string]*Event{},
	}, nil
}

// Record adds an event, merging it into an existing entry of the same
// type when one exists. The log is compacted if it grew past capacity.
func (l *Log) Record(ctx context.Context, eventType, message string, at time.Time) *Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ev, ok := l.byType[eventType]; ok {
		ev.Count++
		ev.Message = message
		if at.After(ev.LastSeen) {
			ev.LastSeen = at
		}
		return ev
	}

	ev := &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Message:   message,
		Count:     1,
		FirstSeen: at,
		LastSeen:  at,
	}
	l.events = append(l.events, ev)
	l.byType[eventType] = ev

	if len(l.events) > l.capacity {
		l.compactLocked(ctx, at)
	}
	return ev
}

// Compact trims the log down to capacity, keeping the most relevant
// entries as of now.
func (l *Log) Compact(ctx context.Context, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) > l.capacity {
		l.compactLocked(ctx, now)
	}
}

// compactLocked keeps the capacity highest-relevance events. Survivors
// stay in first-seen order so the log reads chronologically.
func (l *Log) compactLocked(ctx context.Context, now time.Time) {
	before := len(l.events)

	scored := make([]*Event, len(l.events))
	copy(scored, l.events)
	sort.SliceStable(scored, func(i, j int) bool {
		return l.relevance(scored[i], now) > l.relevance(scored[j], now)
	})

	keep := make(map[string]struct{}, l.capacity)
	for _, ev := range scored[:l.capacity] {
		keep[ev.ID] = struct{}{}
	}

	kept := l.events[:0]
	for _, ev := range l.events {
		if _, ok := keep[ev.ID]; ok {
			kept = append(kept, ev)
		} else {
			delete(l.byType, ev.Type)
		}
	}
	l.events = kept

	evicted := before - len(l.events)
	if l.metrics != nil {
		l.metrics.CompactionsTotal.WithLabelValues("eventlog").Inc()
		l.metrics.EntriesEvicted.Add(float64(evicted))
	}
	l.logger.Debug(ctx, "event log compacted",
		zap.Int("kept", len(l.events)),
		zap.Int("evicted", evicted),
	)
}

// relevance weighs recency against frequency: a stale event needs a
// proportionally higher count to survive compaction.
func (l *Log) relevance(ev *Event, now time.Time) float64 {
	ageDays := now.Sub(ev.LastSeen).Hours() / hoursPerDay
	if ageDays < 0 {
		ageDays = 0
	}
	// The half-life is validated positive at construction, so Decay
	// cannot fail here.
	d, err := stats.Decay(ageDays, l.halfLifeDays)
	if err != nil {
		return 0
	}
	return d * float64(1+ev.Count)
}

// Events returns a copy of the log in first-seen order.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, 0, len(l.events))
	for _, ev := range l.events {
		out = append(out, *ev)
	}
	return out
}

// Len reports the number of distinct event types currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Restore replaces the log contents from a persisted snapshot.
func (l *Log) Restore(events []Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = make([]*Event, 0, len(events))
	l.byType = make(map[string]*Event, len(events))
	for _, ev := range events {
		copied := ev
		l.events = append(l.events, &copied)
		l.byType[copied.Type] = &copied
	}
}
