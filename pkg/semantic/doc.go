// Package semantic provides lexical text relevance: a TF-IDF vectorizer
// with bigram support, cosine similarity over sparse vectors, and a
// searchable relevance index built on both.
//
// # Representation
//
// Text is normalized (lowercased, diacritics stripped) and tokenized
// into alphanumeric unigrams plus adjacent-pair bigrams. Bigrams are
// first-class vocabulary entries, letting two-word domain phrases act as
// a single discriminative feature. Vectors are sparse maps from token to
// positive weight; an absent key means weight zero, and two vectors are
// comparable regardless of vocabulary overlap.
//
// # Lifecycle
//
// A Vectorizer is fit once per corpus; re-fitting replaces all prior
// statistics. An Index is an immutable snapshot: build it once, then
// issue concurrent searches freely. To pick up corpus changes, build a
// new Index and swap the reference readers use — never mutate a live
// index in place.
//
// # Degenerate Inputs
//
// Empty text, empty corpora, empty vectors, and blank queries are all
// defined: they produce empty tokens, zero statistics, zero similarity,
// and empty search results rather than errors.
package semantic
