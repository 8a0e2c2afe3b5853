package tictactoe

import "github.com/rocketscienceinc/tictactoe-peer/internal/entity"

// Engine holds a single round: the board and the side to move.
// It does no locking, the owner must serialize calls.
type Engine struct {
	board  entity.Board
	player entity.Player
	moves  int
}

// NewEngine - creates an engine with an empty board and X to move.
func NewEngine() *Engine {
	engine := &Engine{}
	engine.Reset()

	return engine
}

// ApplyMove - marks the cell for the current player and passes the turn.
// Out of range and occupied cells are rejected without touching the state.
func (that *Engine) ApplyMove(row, col int) bool {
	if row < 0 || col < 0 || row >= entity.BoardSize || col >= entity.BoardSize {
		return false
	}

	if !that.board[row][col].IsEmpty() {
		return false
	}

	that.board[row][col] = that.player.Mark()
	that.player = that.player.Opponent()
	that.moves++

	return true
}

// CheckWinner - returns the mark of the first complete line or EmptyCell.
// Row i and column i are checked together for each i, diagonals last.
func (that *Engine) CheckWinner() entity.Cell {
	b := &that.board

	for i := 0; i < entity.BoardSize; i++ {
		if line(b[i][0], b[i][1], b[i][2]) {
			return b[i][0]
		}
		if line(b[0][i], b[1][i], b[2][i]) {
			return b[0][i]
		}
	}

	if line(b[0][0], b[1][1], b[2][2]) {
		return b[0][0]
	}
	if line(b[0][2], b[1][1], b[2][0]) {
		return b[0][2]
	}

	return entity.EmptyCell
}

// IsBoardFull - true when no empty cell is left.
func (that *Engine) IsBoardFull() bool {
	return that.board.IsFull()
}

// Board - returns a copy of the grid.
func (that *Engine) Board() entity.Board {
	return that.board
}

// CurrentPlayer - the side whose mark the next accepted move places.
func (that *Engine) CurrentPlayer() entity.Player {
	return that.player
}

// Moves - number of accepted moves since the last reset.
func (that *Engine) Moves() int {
	return that.moves
}

// Reset - starts a new round with an empty board and X to move.
func (that *Engine) Reset() {
	*that = Engine{
		board:  entity.NewBoard(),
		player: entity.PlayerX,
	}
}

func line(a, b, c entity.Cell) bool {
	return !a.IsEmpty() && a == b && b == c
}
