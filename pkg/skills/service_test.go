package skills

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(nil, nil)
}

func putSkill(t *testing.T, svc *Service, name, description string, keywords ...string) {
	t.Helper()
	err := svc.Put(context.Background(), &Skill{
		Name:        name,
		Description: description,
		Keywords:    keywords,
	})
	require.NoError(t, err)
}

func TestServicePut(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("valid skill", func(t *testing.T) {
		putSkill(t, svc, "canvas-2d-reference", "Drawing shapes and graphics on the 2d canvas", "canvas", "drawing")

		skill, err := svc.Get(ctx, "canvas-2d-reference")
		require.NoError(t, err)
		assert.Equal(t, "canvas-2d-reference", skill.Name)
		assert.False(t, skill.CreatedAt.IsZero())
	})

	t.Run("nil skill", func(t *testing.T) {
		err := svc.Put(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidSkill)
	})

	t.Run("missing name", func(t *testing.T) {
		err := svc.Put(ctx, &Skill{Description: "no name"})
		assert.ErrorIs(t, err, ErrInvalidSkill)
	})

	t.Run("replace keeps insertion order", func(t *testing.T) {
		svc := newTestService(t)
		putSkill(t, svc, "first", "first skill", "one")
		putSkill(t, svc, "second", "second skill", "two")
		putSkill(t, svc, "first", "first skill updated", "one")

		names := []string{}
		for _, s := range svc.List(ctx) {
			names = append(names, s.Name)
		}
		assert.Equal(t, []string{"first", "second"}, names)
	})
}

func TestServiceGetNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestServiceSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	putSkill(t, svc, "canvas-2d-reference", "Drawing shapes and graphics on the 2d canvas", "canvas", "drawing", "graphics")
	putSkill(t, svc, "physics-engine", "Rigid body physics simulation with collision detection", "physics", "collision")

	t.Run("before rebuild", func(t *testing.T) {
		assert.Empty(t, svc.Search(ctx, "draw 2d graphics", 5))
	})

	svc.Rebuild(ctx)

	t.Run("ranks by relevance", func(t *testing.T) {
		results := svc.Search(ctx, "draw 2d graphics", 5)
		require.NotEmpty(t, results)
		assert.Equal(t, "canvas-2d-reference", results[0].Skill.Name)
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Empty(t, svc.Search(ctx, "   ", 5))
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Empty(t, svc.Search(ctx, "quantum chromodynamics", 5))
	})
}

func TestServiceSearchWithBoost(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	putSkill(t, svc, "canvas-basics", "Drawing shapes on the canvas element", "canvas", "drawing", "shapes")
	putSkill(t, svc, "canvas-advanced", "Drawing shapes and canvas compositing tricks", "canvas", "drawing", "shapes")
	svc.Rebuild(ctx)

	// canvas-basics has a strong track record, canvas-advanced a weak one.
	for i := 0; i < 10; i++ {
		require.NoError(t, svc.RecordUse(ctx, "canvas-basics", true, false))
		require.NoError(t, svc.RecordUse(ctx, "canvas-advanced", i == 0, false))
	}

	results, err := svc.SearchWithBoost(ctx, "drawing shapes canvas", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "canvas-basics", results[0].Skill.Name)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestServiceSearchKeywords(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	putSkill(t, svc, "git-workflow", "Branching and merging strategies", "git", "branch", "merge")
	putSkill(t, svc, "sql-tuning", "Query plans and index tuning", "sql", "index")

	t.Run("matches keywords", func(t *testing.T) {
		results := svc.SearchKeywords(ctx, "how do I merge a git branch", 5)
		require.Len(t, results, 1)
		assert.Equal(t, "git-workflow", results[0].Skill.Name)
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Empty(t, svc.SearchKeywords(ctx, "", 5))
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Empty(t, svc.SearchKeywords(ctx, "git", 0))
	})
}

func TestServiceRecordUse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	putSkill(t, svc, "canvas-basics", "Drawing on the canvas", "canvas")

	t.Run("unknown skill", func(t *testing.T) {
		err := svc.RecordUse(ctx, "missing", true, false)
		assert.ErrorIs(t, err, ErrSkillNotFound)
	})

	t.Run("accumulates counters", func(t *testing.T) {
		require.NoError(t, svc.RecordUse(ctx, "canvas-basics", true, false))
		require.NoError(t, svc.RecordUse(ctx, "canvas-basics", false, true))

		st, ok := svc.Stats("canvas-basics")
		require.True(t, ok)
		assert.Equal(t, 2, st.Injected)
		assert.Equal(t, 1, st.Succeeded)
		assert.Equal(t, 1, st.Truncated)
		assert.False(t, st.LastUsed.IsZero())
	})
}

func TestServiceStatsRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	putSkill(t, svc, "canvas-basics", "Drawing on the canvas", "canvas")
	require.NoError(t, svc.RecordUse(ctx, "canvas-basics", true, false))

	saved := svc.AllStats()

	restored := newTestService(t)
	putSkill(t, restored, "canvas-basics", "Drawing on the canvas", "canvas")
	restored.RestoreStats(saved)

	st, ok := restored.Stats("canvas-basics")
	require.True(t, ok)
	assert.Equal(t, 1, st.Injected)
	assert.Equal(t, 1, st.Succeeded)
}
