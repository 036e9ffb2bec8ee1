// Package skills provides an in-memory skill catalog with semantic
// search and outcome-aware ranking.
//
// # Catalog
//
// Skills are stored by name with their description, keywords, and tags.
// Each skill contributes a searchable document assembled from its
// expanded name, keywords, and description.
//
// # Search
//
// Three query paths are offered:
//
//   - Search: TF-IDF cosine similarity over the catalog index.
//   - SearchWithBoost: similarity re-weighted by each skill's
//     historical success rate, so proven skills outrank flaky ones
//     with comparable relevance.
//   - SearchKeywords: lexical token-overlap fallback.
//
// The index is an immutable snapshot. Mutations (Put) do not touch it;
// callers invoke Rebuild to swap in a fresh snapshot, which is safe
// under concurrent searches.
package skills
