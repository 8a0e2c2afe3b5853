package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

func TestNewEngine(t *testing.T) {
	// When: create a new engine
	engine := NewEngine()

	// Then: the board is empty and X moves first
	assert.Equal(t, entity.NewBoard(), engine.Board())
	assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	assert.Equal(t, 0, engine.Moves())
	assert.False(t, engine.IsBoardFull())
	assert.Equal(t, entity.EmptyCell, engine.CheckWinner())
}

func TestEngine_ApplyMove(t *testing.T) {
	t.Run("Accepts a move on an empty board", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: X moves to the top left corner
		ok := engine.ApplyMove(0, 0)

		// Then: the cell is marked and O is to move
		require.True(t, ok)
		assert.Equal(t, entity.MarkX, engine.Board()[0][0])
		assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
		assert.Equal(t, 1, engine.Moves())
	})

	t.Run("Rejects out of range cells", func(t *testing.T) {
		cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {3, 3}, {-1, -1}, {100, 1}}

		for _, c := range cases {
			// Given: an engine with one move played
			engine := NewEngine()
			require.True(t, engine.ApplyMove(1, 1))
			before := engine.Board()

			// When: a move outside the board is applied
			ok := engine.ApplyMove(c[0], c[1])

			// Then: it is rejected and nothing changes
			assert.False(t, ok, "row %d col %d", c[0], c[1])
			assert.Equal(t, before, engine.Board())
			assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
			assert.Equal(t, 1, engine.Moves())
		}
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: X holds the top left corner
		engine := NewEngine()
		require.True(t, engine.ApplyMove(0, 0))
		before := engine.Board()

		// When: O tries the same cell
		ok := engine.ApplyMove(0, 0)

		// Then: the move is rejected, board and player are unchanged
		assert.False(t, ok)
		assert.Equal(t, before, engine.Board())
		assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
	})

	t.Run("Player alternates after every accepted move", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()
		expected := entity.PlayerX

		for _, cell := range entity.NewBoard().EmptyCells() {
			// When: the next free cell is played
			require.Equal(t, expected, engine.CurrentPlayer())
			require.True(t, engine.ApplyMove(cell[0], cell[1]))

			// Then: the turn passes exactly once
			expected = expected.Opponent()
			assert.Equal(t, expected, engine.CurrentPlayer())
		}
	})
}

func TestEngine_CheckWinner(t *testing.T) {
	lines := map[string][3][2]int{
		"top row":       {{0, 0}, {0, 1}, {0, 2}},
		"middle row":    {{1, 0}, {1, 1}, {1, 2}},
		"bottom row":    {{2, 0}, {2, 1}, {2, 2}},
		"left column":   {{0, 0}, {1, 0}, {2, 0}},
		"middle column": {{0, 1}, {1, 1}, {2, 1}},
		"right column":  {{0, 2}, {1, 2}, {2, 2}},
		"main diagonal": {{0, 0}, {1, 1}, {2, 2}},
		"anti diagonal": {{0, 2}, {1, 1}, {2, 0}},
	}

	for name, cells := range lines {
		for _, mark := range []entity.Cell{entity.MarkX, entity.MarkO} {
			t.Run(name+" "+string(mark), func(t *testing.T) {
				// Given: a board where the line is filled with one mark
				engine := NewEngine()
				for _, c := range cells {
					engine.board[c[0]][c[1]] = mark
				}

				// When: checking the winner
				winner := engine.CheckWinner()

				// Then: the mark wins
				assert.Equal(t, mark, winner)
			})
		}
	}

	t.Run("Top row after alternating moves", func(t *testing.T) {
		// Given: X takes the top row while O plays the middle row
		engine := NewEngine()
		moves := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}
		for _, m := range moves {
			require.True(t, engine.ApplyMove(m[0], m[1]))
		}

		// When: checking the winner
		winner := engine.CheckWinner()

		// Then: X wins
		assert.Equal(t, entity.MarkX, winner)
	})

	t.Run("No winner on a mixed board", func(t *testing.T) {
		// Given: a board without three in a row
		engine := NewEngine()
		engine.board = entity.Board{
			{entity.MarkX, entity.MarkO, entity.EmptyCell},
			{entity.EmptyCell, entity.MarkX, entity.MarkO},
			{entity.MarkO, entity.EmptyCell, entity.EmptyCell},
		}

		// Then: there is no winner
		assert.Equal(t, entity.EmptyCell, engine.CheckWinner())
	})
}

func TestEngine_IsBoardFull(t *testing.T) {
	t.Run("Draw fills the board", func(t *testing.T) {
		// Given: nine moves that never complete a line
		// X O X
		// X O O
		// O X X
		engine := NewEngine()
		moves := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}}
		for _, m := range moves {
			require.True(t, engine.ApplyMove(m[0], m[1]))
		}

		// Then: the board is full and nobody won
		assert.True(t, engine.IsBoardFull())
		assert.Equal(t, entity.EmptyCell, engine.CheckWinner())
		assert.Equal(t, 9, engine.Moves())
	})

	t.Run("Partially filled board is not full", func(t *testing.T) {
		// Given: a board with eight moves
		engine := NewEngine()
		for _, c := range entity.NewBoard().EmptyCells()[:8] {
			engine.board[c[0]][c[1]] = entity.MarkO
		}

		// Then: it is not full
		assert.False(t, engine.IsBoardFull())
	})
}

func TestEngine_Reset(t *testing.T) {
	// Given: an engine after a few moves
	engine := NewEngine()
	require.True(t, engine.ApplyMove(0, 0))
	require.True(t, engine.ApplyMove(2, 2))
	require.True(t, engine.ApplyMove(1, 1))

	// When: resetting
	engine.Reset()

	// Then: the board is empty, X is to move and the board is not full
	assert.Equal(t, entity.NewBoard(), engine.Board())
	assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	assert.Equal(t, 0, engine.Moves())
	assert.False(t, engine.IsBoardFull())
}

func TestEngine_BoardIsSnapshot(t *testing.T) {
	// Given: a snapshot of the board
	engine := NewEngine()
	snapshot := engine.Board()

	// When: the snapshot is modified
	snapshot[0][0] = entity.MarkO

	// Then: the engine is unaffected
	assert.Equal(t, entity.EmptyCell, engine.Board()[0][0])
	assert.True(t, engine.ApplyMove(0, 0))
}
