// Package patternbank accumulates cross-project fix patterns and the
// per-subject success statistics that back outcome-aware ranking.
//
// Patterns are merged by type: observing a known type bumps its
// frequency and records the contributing project. The bank is bounded;
// compaction purges stale patterns (rare and long unseen) and then
// keeps the highest-relevance entries, where relevance combines an
// exponential decay on age with frequency.
//
// Subject outcomes feed Beta-Bernoulli estimators, exposed both as the
// posterior mean (for ranking boosts) and as full estimators (for
// confidence intervals). Snapshot and Restore expose the whole state
// as plain data so callers own persistence.
package patternbank
