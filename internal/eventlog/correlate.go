package eventlog

import (
	"fmt"
	"strings"
)

// Analysis is the outcome of correlating failure indicators against
// known patterns and the log history.
type Analysis struct {
	RootCause    string  `json:"root_cause"`
	Pattern      string  `json:"pattern"`
	FixStrategy  string  `json:"fix_strategy"`
	Confidence   float64 `json:"confidence"`
	Correlations []Event `json:"correlations"`
}

// patternInfo describes a known failure pattern: the substrings that
// identify it, its root cause, and the strategy to try next.
type patternInfo struct {
	indicators []string
	cause      string
	strategy   string
}

// knownPatternOrder fixes the matching precedence; map iteration order
// would make pattern identification nondeterministic.
var knownPatternOrder = []string{"truncation", "missing_requirements", "syntax_error", "security_block"}

var knownPatterns = map[string]patternInfo{
	"truncation": {
		indicators: []string{"truncated", "incomplete", "cut off"},
		cause:      "output was truncated before completion",
		strategy:   "split the work into smaller units and process each separately",
	},
	"missing_requirements": {
		indicators: []string{"missing", "omitted", "skipped"},
		cause:      "required items were left out of the result",
		strategy:   "enumerate the missing items explicitly and request each one",
	},
	"syntax_error": {
		indicators: []string{"syntax", "parse error", "invalid code"},
		cause:      "generated content failed to parse",
		strategy:   "retry with explicit language context and stricter format constraints",
	},
	"security_block": {
		indicators: []string{"blocked", "forbidden", "security"},
		cause:      "a security rule rejected the content",
		strategy:   "replace the flagged construct with an approved alternative",
	},
}

// Correlation parameters. History scanning is bounded so analysis cost
// stays flat as the log grows.
const (
	historyWindow       = 20
	baseConfidence      = 0.3
	perCorrelationBoost = 0.1
	maxCorrelationBoost = 0.3
	knownPatternBoost   = 0.2
	multipleIssuesFloor = 3
)

// Correlate identifies the dominant failure pattern in the given
// indicators and correlates it with recent log history. It always
// returns an Analysis; with no evidence the confidence stays at its
// floor.
func (l *Log) Correlate(issues []string) Analysis {
	pattern := identifyPattern(issues)
	correlations := l.correlateHistory(pattern)

	confidence := baseConfidence
	boost := float64(len(correlations)) * perCorrelationBoost
	if boost > maxCorrelationBoost {
		boost = maxCorrelationBoost
	}
	confidence += boost

	info, known := knownPatterns[pattern]
	if known {
		confidence += knownPatternBoost
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Analysis{
		RootCause:    rootCause(pattern, info, known, correlations),
		Pattern:      pattern,
		FixStrategy:  fixStrategy(pattern, info, known, correlations),
		Confidence:   confidence,
		Correlations: correlations,
	}
}

// identifyPattern matches issue text against known pattern indicators.
// Many unmatched issues collapse to "multiple_issues"; otherwise the
// pattern is "unknown".
func identifyPattern(issues []string) string {
	text := strings.ToLower(strings.Join(issues, " "))
	for _, name := range knownPatternOrder {
		for _, indicator := range knownPatterns[name].indicators {
			if strings.Contains(text, indicator) {
				return name
			}
		}
	}
	if len(issues) > multipleIssuesFloor {
		return "multiple_issues"
	}
	return "unknown"
}

// correlateHistory scans the most recent events for types related to
// the current pattern.
func (l *Log) correlateHistory(pattern string) []Event {
	events := l.Events()
	start := len(events) - historyWindow
	if start < 0 {
		start = 0
	}

	var correlations []Event
	for i := len(events) - 1; i >= start; i-- {
		ev := events[i]
		if ev.Type == "" {
			continue
		}
		if strings.Contains(ev.Type, pattern) || strings.Contains(pattern, ev.Type) {
			correlations = append(correlations, ev)
		}
	}
	return correlations
}

func rootCause(pattern string, info patternInfo, known bool, correlations []Event) string {
	if known {
		return info.cause
	}
	if len(correlations) > 0 {
		total := 0
		for _, ev := range correlations {
			total += ev.Count
		}
		return fmt.Sprintf("recurring failure of type %q seen %d times before", pattern, total)
	}
	return fmt.Sprintf("failure of type %q with no prior history", pattern)
}

func fixStrategy(pattern string, info patternInfo, known bool, correlations []Event) string {
	if known {
		return info.strategy
	}
	if len(correlations) > 0 {
		return fmt.Sprintf("review recent occurrences of %q and address the shared cause", pattern)
	}
	return "inspect each reported issue and correct them one at a time"
}
