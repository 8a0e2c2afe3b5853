package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

func newResult(id string, winner entity.Cell) *entity.Result {
	board := entity.NewBoard()
	board[0] = [entity.BoardSize]entity.Cell{entity.MarkX, entity.MarkX, entity.MarkX}

	return &entity.Result{
		RoundID:    id,
		Winner:     winner,
		Board:      board,
		Moves:      5,
		FinishedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// repositories returns every implementation; the redis one shares a container and starts from an empty database.
func repositories(t *testing.T) map[string]func(t *testing.T) (context.Context, ResultRepository) {
	t.Helper()

	return map[string]func(t *testing.T) (context.Context, ResultRepository){
		"memory": func(_ *testing.T) (context.Context, ResultRepository) {
			return context.Background(), NewMemoryResultRepository()
		},
		"redis": func(t *testing.T) (context.Context, ResultRepository) {
			ctx, client := redisSuite.Fresh(t)
			return ctx, NewResultRepository(client)
		},
	}
}

func TestResultRepository_Save(t *testing.T) {
	for name, newRepo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, repo := newRepo(t)

			// Given: a finished round won by X
			result := newResult("round-1", entity.MarkX)

			// When: Save is called
			err := repo.Save(ctx, result)

			// Then: no error should be returned and the round is listed
			require.NoError(t, err)

			results, err := repo.List(ctx, 10)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, result.RoundID, results[0].RoundID)
			assert.Equal(t, result.Winner, results[0].Winner)
			assert.Equal(t, result.Board, results[0].Board)
			assert.Equal(t, result.Moves, results[0].Moves)
			assert.True(t, result.FinishedAt.Equal(results[0].FinishedAt))
		})
	}
}

func TestResultRepository_Stats(t *testing.T) {
	for name, newRepo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, repo := newRepo(t)

			// Given: an empty store
			stats, err := repo.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, entity.Stats{}, stats)

			// When: rounds with every outcome are saved
			require.NoError(t, repo.Save(ctx, newResult("1", entity.MarkX)))
			require.NoError(t, repo.Save(ctx, newResult("2", entity.MarkX)))
			require.NoError(t, repo.Save(ctx, newResult("3", entity.MarkO)))
			require.NoError(t, repo.Save(ctx, newResult("4", entity.Draw)))

			// Then: counters reflect them
			stats, err = repo.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, entity.Stats{XWins: 2, OWins: 1, Draws: 1}, stats)
		})
	}
}

func TestResultRepository_List(t *testing.T) {
	for name, newRepo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, repo := newRepo(t)

			// Given: more rounds than the history keeps
			for i := 0; i < MaxResults+5; i++ {
				require.NoError(t, repo.Save(ctx, newResult(fmt.Sprintf("round-%d", i), entity.MarkO)))
			}

			// When: listing the latest three
			results, err := repo.List(ctx, 3)

			// Then: newest rounds come first
			require.NoError(t, err)
			require.Len(t, results, 3)
			assert.Equal(t, fmt.Sprintf("round-%d", MaxResults+4), results[0].RoundID)
			assert.Equal(t, fmt.Sprintf("round-%d", MaxResults+2), results[2].RoundID)

			// When: listing without a limit
			results, err = repo.List(ctx, 0)

			// Then: history is trimmed to MaxResults
			require.NoError(t, err)
			assert.Len(t, results, MaxResults)
		})
	}
}

func TestMemoryResultRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository()

	// Given: a saved result
	result := newResult("round-1", entity.MarkX)
	require.NoError(t, repo.Save(ctx, result))

	// When: the caller mutates both the original and a listed copy
	result.Winner = entity.MarkO
	listed, err := repo.List(ctx, 1)
	require.NoError(t, err)
	listed[0].Moves = 42

	// Then: the stored record is untouched
	stored, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.MarkX, stored[0].Winner)
	assert.Equal(t, 5, stored[0].Moves)
}
