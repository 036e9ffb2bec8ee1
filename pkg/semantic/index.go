package semantic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/relevanced/pkg/stats"
)

// Document is a named text to be indexed. Names are unique keys;
// ranking ties are broken by the order documents were supplied.
type Document struct {
	Name string
	Text string
}

// Match is one ranked search result.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SubjectStats carries the observed success counts used to boost a
// candidate during SearchWithBoost.
type SubjectStats struct {
	Successes float64 `json:"successes"`
	Total     float64 `json:"total"`
}

// neutralBoost multiplies candidates without observed stats. Matching a
// fresh estimator's mean, it halves raw similarity for unproven
// candidates so proven high-confidence matches can overtake them.
const neutralBoost = 0.5

// Index is an immutable snapshot of named documents vectorized against
// a shared corpus. Build one with BuildIndex, then search concurrently;
// to change the corpus, build a new Index and swap references.
type Index struct {
	vectorizer *Vectorizer
	names      []string
	vectors    map[string]Vector
}

// BuildIndex fits a vectorizer over the document texts and stores one
// vector per name. A later duplicate name replaces the earlier entry
// but keeps its first-seen position for tie-breaking.
func BuildIndex(docs []Document) *Index {
	corpus := make([]string, len(docs))
	for i, d := range docs {
		corpus[i] = d.Text
	}

	v := NewVectorizer()
	v.Fit(corpus)

	ix := &Index{
		vectorizer: v,
		names:      make([]string, 0, len(docs)),
		vectors:    make(map[string]Vector, len(docs)),
	}
	for _, d := range docs {
		if _, ok := ix.vectors[d.Name]; !ok {
			ix.names = append(ix.names, d.Name)
		}
		ix.vectors[d.Name] = v.Transform(d.Text)
	}
	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.names)
}

// Search ranks indexed documents against the query by cosine
// similarity, descending, ties broken by insertion order. Documents
// with similarity 0 are excluded. A blank query, an empty index, or a
// non-positive topK yields an empty result, never an error.
func (ix *Index) Search(query string, topK int) []Match {
	if topK <= 0 || len(ix.names) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	queryVec := ix.vectorizer.Transform(query)
	if len(queryVec) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(ix.names))
	for _, name := range ix.names {
		if sim := Cosine(queryVec, ix.vectors[name]); sim > 0 {
			matches = append(matches, Match{Name: name, Score: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// SearchWithBoost ranks documents by similarity re-weighted with each
// candidate's historical success rate. It retrieves a wider candidate
// set (twice topK), multiplies every candidate's score by the Beta
// posterior mean of its stats (neutral 0.5 when absent or empty),
// re-sorts, and truncates.
//
// A candidate invisible to plain Search — zero similarity — can never
// be promoted here: the boost only re-weights candidates that already
// matched. Malformed stats (negative counts, total below successes)
// fail with stats.ErrInvalidInput.
func (ix *Index) SearchWithBoost(query string, topK int, statsByName map[string]SubjectStats) ([]Match, error) {
	candidates := ix.Search(query, 2*topK)
	if len(statsByName) == 0 || len(candidates) == 0 {
		if len(candidates) > topK {
			candidates = candidates[:topK]
		}
		return candidates, nil
	}

	boosted := make([]Match, 0, len(candidates))
	for _, m := range candidates {
		boost := neutralBoost
		if st, ok := statsByName[m.Name]; ok && st.Total > 0 {
			est, err := stats.FromStats(st.Successes, st.Total)
			if err != nil {
				return nil, fmt.Errorf("stats for %q: %w", m.Name, err)
			}
			boost = est.Mean()
		}
		boosted = append(boosted, Match{Name: m.Name, Score: m.Score * boost})
	}

	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].Score > boosted[j].Score
	})
	if len(boosted) > topK {
		boosted = boosted[:topK]
	}
	return boosted, nil
}
