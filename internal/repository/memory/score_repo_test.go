package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

func TestScoreRepoListsByScore(t *testing.T) {
	repo := NewScoreRepo()
	ctx := t.Context()

	for _, e := range []domain.ScoreEntry{
		{Name: "openai/gpt-4.1", Score: 1},
		{Name: "human", Score: 5},
		{Name: "x-ai/grok-4", Score: 1},
		{Name: "engine", Score: 3},
	} {
		_, err := repo.Append(ctx, e)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"human", "engine", "openai/gpt-4.1", "x-ai/grok-4"}, names)

	top, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestScoreRepoAssignsIDs(t *testing.T) {
	repo := NewScoreRepo()

	first, err := repo.Append(t.Context(), domain.ScoreEntry{Name: "a", Score: 1})
	require.NoError(t, err)
	second, err := repo.Append(t.Context(), domain.ScoreEntry{Name: "b", Score: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}
