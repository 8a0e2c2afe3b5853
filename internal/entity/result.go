package entity

import "time"

// Draw is stored as the winner of a round that filled the board without a line.
const Draw = EmptyCell

type Result struct {
	RoundID    string    `json:"round_id"`
	Winner     Cell      `json:"winner"`
	Board      Board     `json:"board"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

func (that *Result) IsDraw() bool {
	return that.Winner == Draw
}

type Stats struct {
	XWins int64 `json:"x_wins"`
	OWins int64 `json:"o_wins"`
	Draws int64 `json:"draws"`
}

func (that Stats) Total() int64 {
	return that.XWins + that.OWins + that.Draws
}
