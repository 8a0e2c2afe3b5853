package entity

type Move struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player Player `json:"player"`

	// Seq is the position of the move in its round, starting at 1. Zero means unsequenced.
	Seq int `json:"seq,omitempty"`
}
