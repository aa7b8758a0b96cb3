package engine

// Canonical rule constants.
const (
	MinPlayers = 5
	MaxPlayers = 10

	LiberalPoliciesToWin = 5
	FascistPoliciesToWin = 6

	// ElectionTrackerLimit failed governments in a row force the top policy into law.
	ElectionTrackerLimit = 3

	// HitlerZone is the fascist policy count after which electing Hitler
	// chancellor wins the game for the fascists.
	HitlerZone = 3

	// VetoUnlock is the fascist policy count that enables the veto.
	VetoUnlock = 5

	// FullTermLimitPlayers is the living-player count from which the previous
	// president is term-limited as well as the previous chancellor.
	FullTermLimitPlayers = 7

	PresidentDraw = 3
	LiberalTiles  = 6
	FascistTiles  = 11
)
