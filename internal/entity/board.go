package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Cell string

const (
	EmptyCell Cell = "-"
	MarkX     Cell = "X"
	MarkO     Cell = "O"
)

const BoardSize = 3

var ErrInvalidBoard = errors.New("invalid board")

// Board is a row-major 3x3 grid. It is a value type: assigning or returning it copies every cell.
type Board [BoardSize][BoardSize]Cell

func NewBoard() Board {
	var board Board
	for row := range board {
		for col := range board[row] {
			board[row][col] = EmptyCell
		}
	}

	return board
}

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

func (that Cell) valid() bool {
	return that == EmptyCell || that == MarkX || that == MarkO
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell.IsEmpty() {
				return false
			}
		}
	}

	return true
}

// EmptyCells - returns the coordinates of every free cell in row-major order.
func (that Board) EmptyCells() [][2]int {
	cells := make([][2]int, 0, BoardSize*BoardSize)
	for row := range that {
		for col := range that[row] {
			if that[row][col].IsEmpty() {
				cells = append(cells, [2]int{row, col})
			}
		}
	}

	return cells
}

// Rows - returns every row as a string of single characters, e.g. "XO-".
func (that Board) Rows() [BoardSize]string {
	var rows [BoardSize]string
	for i, row := range that {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(string(cell))
		}
		rows[i] = sb.String()
	}

	return rows
}

func (that Board) String() string {
	rows := that.Rows()
	return strings.Join(rows[:], "\n")
}

func (that Board) MarshalJSON() ([]byte, error) {
	grid := make([][]string, BoardSize)
	for i, row := range that {
		grid[i] = make([]string, BoardSize)
		for j, cell := range row {
			grid[i][j] = string(cell)
		}
	}

	return json.Marshal(grid)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var grid [][]string
	if err := json.Unmarshal(data, &grid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	if len(grid) != BoardSize {
		return fmt.Errorf("%w: %d rows", ErrInvalidBoard, len(grid))
	}

	var board Board
	for i, row := range grid {
		if len(row) != BoardSize {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, i, len(row))
		}

		for j, value := range row {
			cell := Cell(value)
			if !cell.valid() {
				return fmt.Errorf("%w: unknown cell %q", ErrInvalidBoard, value)
			}
			board[i][j] = cell
		}
	}

	*that = board

	return nil
}
