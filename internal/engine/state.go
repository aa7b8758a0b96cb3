package engine

import (
	"fmt"
	"reflect"
)

// Government is a president/chancellor pairing.
type Government struct {
	President  int `json:"president_seat"`
	Chancellor int `json:"chancellor_seat"`
}

// GameState is the whole game at one instant. It is treated as an immutable
// value: transitions build a new GameState and never write through the slices,
// maps or pointers of the one they were given, so unchanged parts are shared.
type GameState struct {
	GameID          string          `json:"game_id"`
	Players         []Player        `json:"players"`
	PresidentSeat   int             `json:"president_seat"`
	ChancellorSeat  *int            `json:"chancellor_seat"`
	Phase           GamePhase       `json:"phase"`
	Votes           map[string]Vote `json:"votes,omitempty"`
	ElectionTracker int             `json:"election_tracker"`
	LiberalPolicies int             `json:"liberal_policies"`
	FascistPolicies int             `json:"fascist_policies"`
	LastGovernment  *Government     `json:"last_government"`
	Winner          *Party          `json:"winner"`

	// Legislative session
	PresidentHand  []Policy `json:"president_hand,omitempty"`
	ChancellorHand []Policy `json:"chancellor_hand,omitempty"`
	VetoRequested  bool     `json:"veto_requested,omitempty"`
	VetoRefused    bool     `json:"veto_refused,omitempty"`

	// Executive powers
	PendingPower Power `json:"pending_power,omitempty"`
	// ResumeSeat is the president who called a special election; rotation
	// continues after this seat once the special presidency ends.
	ResumeSeat   *int  `json:"resume_seat,omitempty"`
	Investigated []int `json:"investigated,omitempty"`
}

// NewGame seats the given players in order and returns a game in the lobby.
func NewGame(gameID string, playerIDs []string) (GameState, error) {
	if n := len(playerIDs); n < MinPlayers || n > MaxPlayers {
		return GameState{}, fmt.Errorf("%w: %d players, need %d-%d", ErrInvalidGame, n, MinPlayers, MaxPlayers)
	}
	seen := make(map[string]bool, len(playerIDs))
	players := make([]Player, len(playerIDs))
	for i, id := range playerIDs {
		if id == "" || seen[id] {
			return GameState{}, fmt.Errorf("%w: duplicate or empty player id %q", ErrInvalidGame, id)
		}
		seen[id] = true
		players[i] = NewPlayer(id, i)
	}
	return GameState{
		GameID:  gameID,
		Players: players,
		Phase:   PhaseLobby,
	}, nil
}

// Equal reports whether two states are structurally identical. A transition
// that returns a state Equal to its input did not happen.
func (s GameState) Equal(o GameState) bool {
	return reflect.DeepEqual(s, o)
}

// Over reports whether a winner has been decided.
func (s GameState) Over() bool {
	return s.Winner != nil || s.Phase == PhaseGameOver
}

// Government returns the government currently in office or under vote.
func (s GameState) Government() (Government, bool) {
	if s.ChancellorSeat == nil {
		return Government{}, false
	}
	return Government{President: s.PresidentSeat, Chancellor: *s.ChancellorSeat}, true
}

// PlayerByID finds a player by ID.
func (s GameState) PlayerByID(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// PlayerAt returns the player in the given seat.
func (s GameState) PlayerAt(seat int) (Player, bool) {
	if seat < 0 || seat >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[seat], true
}

func (s GameState) withExecuted(seat int) GameState {
	players := make([]Player, len(s.Players))
	copy(players, s.Players)
	players[seat].Alive = false
	s.Players = players
	return s
}

func (s GameState) withVote(playerID string, v Vote) GameState {
	votes := make(map[string]Vote, len(s.Votes)+1)
	for id, prev := range s.Votes {
		votes[id] = prev
	}
	votes[playerID] = v
	s.Votes = votes
	return s
}

func (s GameState) withInvestigated(seat int) GameState {
	inv := make([]int, len(s.Investigated), len(s.Investigated)+1)
	copy(inv, s.Investigated)
	s.Investigated = append(inv, seat)
	return s
}

func (s GameState) wasInvestigated(seat int) bool {
	for _, i := range s.Investigated {
		if i == seat {
			return true
		}
	}
	return false
}

func seatPtr(seat int) *int {
	return &seat
}

func partyPtr(p Party) *Party {
	return &p
}
