package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/relevanced/pkg/stats"
)

func buildTestIndex() *Index {
	return BuildIndex([]Document{
		{Name: "canvas-2d", Text: "canvas 2d draw fillRect shapes rendering"},
		{Name: "physics", Text: "collision gravity velocity simulation"},
		{Name: "audio", Text: "sound playback mixer volume"},
	})
}

func TestIndex_Search_RanksByRelevance(t *testing.T) {
	// End-to-end: a drawing query must rank the canvas skill above the
	// physics skill.
	ix := BuildIndex([]Document{
		{Name: "canvas-2d", Text: "canvas draw fillRect"},
		{Name: "physics", Text: "collision gravity velocity"},
	})

	matches := ix.Search("draw 2d graphics", 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, "canvas-2d", matches[0].Name)
	for _, m := range matches {
		assert.NotEqual(t, "physics", m.Name, "physics shares no token with the query")
	}
}

func TestIndex_Search_ExcludesZeroScores(t *testing.T) {
	ix := buildTestIndex()

	matches := ix.Search("gravity simulation", 10)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Greater(t, m.Score, 0.0)
	}
}

func TestIndex_Search_DegenerateInputs(t *testing.T) {
	ix := buildTestIndex()

	assert.Empty(t, ix.Search("", 5))
	assert.Empty(t, ix.Search("   ", 5))
	assert.Empty(t, ix.Search("draw", 0))
	assert.Empty(t, ix.Search("draw", -1))
	// Query sharing no vocabulary with the corpus.
	assert.Empty(t, ix.Search("zeppelin", 5))

	empty := BuildIndex(nil)
	assert.Empty(t, empty.Search("draw", 5))
	assert.Equal(t, 0, empty.Len())
}

func TestIndex_Search_TopKTruncates(t *testing.T) {
	ix := buildTestIndex()

	matches := ix.Search("canvas gravity sound draw", 2)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestIndex_Search_TiesKeepInsertionOrder(t *testing.T) {
	// Two identical documents score identically; the one supplied first
	// must rank first.
	ix := BuildIndex([]Document{
		{Name: "first", Text: "canvas draw"},
		{Name: "second", Text: "canvas draw"},
	})

	matches := ix.Search("canvas draw", 5)
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Name)
	assert.Equal(t, "second", matches[1].Name)
	assert.Equal(t, matches[0].Score, matches[1].Score)
}

func TestIndex_SearchWithBoost_ProvenOvertakesUnproven(t *testing.T) {
	// Both documents match the query; the slightly-more-similar one has a
	// poor track record while the other is proven. The boost must let the
	// proven document overtake it.
	ix := BuildIndex([]Document{
		{Name: "flaky", Text: "canvas draw render fillRect"},
		{Name: "proven", Text: "canvas draw render shapes"},
	})

	plain := ix.Search("canvas draw render fillRect", 2)
	require.Len(t, plain, 2)
	require.Equal(t, "flaky", plain[0].Name)

	boosted, err := ix.SearchWithBoost("canvas draw render fillRect", 2, map[string]SubjectStats{
		"flaky":  {Successes: 1, Total: 10},
		"proven": {Successes: 9, Total: 10},
	})
	require.NoError(t, err)
	require.Len(t, boosted, 2)
	assert.Equal(t, "proven", boosted[0].Name)
}

func TestIndex_SearchWithBoost_NoStatsIsNeutral(t *testing.T) {
	ix := buildTestIndex()

	plain := ix.Search("canvas draw", 3)
	boosted, err := ix.SearchWithBoost("canvas draw", 3, nil)
	require.NoError(t, err)

	// Without stats the ranking is unchanged.
	assert.Equal(t, plain, boosted)
}

func TestIndex_SearchWithBoost_ZeroSimilarityIsFloor(t *testing.T) {
	// A candidate with zero plain-search similarity must never enter the
	// boosted top-k, no matter how strong its stats.
	ix := buildTestIndex()

	boosted, err := ix.SearchWithBoost("gravity", 3, map[string]SubjectStats{
		"audio": {Successes: 100, Total: 100},
	})
	require.NoError(t, err)
	for _, m := range boosted {
		assert.NotEqual(t, "audio", m.Name)
	}
}

func TestIndex_SearchWithBoost_StatlessCandidateHalved(t *testing.T) {
	ix := buildTestIndex()

	plain := ix.Search("canvas draw", 1)
	require.Len(t, plain, 1)

	// Stats exist for another name, so the boost path runs and the
	// statless candidate gets the neutral 0.5 multiplier.
	boosted, err := ix.SearchWithBoost("canvas draw", 1, map[string]SubjectStats{
		"unrelated": {Successes: 1, Total: 2},
	})
	require.NoError(t, err)
	require.Len(t, boosted, 1)
	assert.InDelta(t, plain[0].Score*0.5, boosted[0].Score, 1e-12)
}

func TestIndex_SearchWithBoost_MalformedStats(t *testing.T) {
	ix := buildTestIndex()

	_, err := ix.SearchWithBoost("canvas draw", 3, map[string]SubjectStats{
		"canvas-2d": {Successes: 5, Total: 3},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
}

func TestBuildIndex_DuplicateNameKeepsFirstPosition(t *testing.T) {
	ix := BuildIndex([]Document{
		{Name: "a", Text: "canvas draw"},
		{Name: "b", Text: "gravity"},
		{Name: "a", Text: "canvas draw fillRect"},
	})

	assert.Equal(t, 2, ix.Len())
	matches := ix.Search("fillRect", 5)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Name)
}
