// Package logging wraps Zap with context-aware, structured logging for
// relevanced.
//
// The engine itself is pure and never blocks, so logging here is about
// the consumer services: index rebuilds, compaction decisions, health
// reports. Correlation data (project ID, request ID) travels in the
// context and is attached to every entry automatically.
//
// Use NewTestLogger in tests to observe entries without writing output.
package logging
