// Package eventlog keeps a bounded per-project log of failure events
// with relevance-based compaction and root-cause correlation.
//
// Events are deduplicated by type: recording a type already present
// bumps its count and last-seen timestamp instead of appending. When
// the log exceeds its capacity it is compacted by keeping the entries
// with the highest relevance, where relevance combines recency (an
// exponential decay on age) with frequency. A frequent old error can
// therefore outlive a rare recent one.
//
// Correlate matches a fresh set of failure indicators against a table
// of known patterns and against the log history, producing an Analysis
// with a root cause, a fix strategy, and an evidence-based confidence.
package eventlog
