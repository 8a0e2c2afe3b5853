package entity

type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

// Mark - returns the cell mark the player puts on the board.
func (that Player) Mark() Cell {
	return Cell(that)
}

// Opponent - returns the other side.
func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}
