package engine

// Player is one seat at the table. Seats never change; executed players stay
// in the roster with Alive set to false.
type Player struct {
	ID    string `json:"id"`
	Seat  int    `json:"seat"`
	Alive bool   `json:"alive"`
}

// NewPlayer seats a living player.
func NewPlayer(id string, seat int) Player {
	return Player{ID: id, Seat: seat, Alive: true}
}
