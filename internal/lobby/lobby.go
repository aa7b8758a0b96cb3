package lobby

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"legislature/internal/engine"
)

var (
	ErrMissingID = errors.New("missing player id")
	ErrBadName   = errors.New("name must be 1-24 characters")
	ErrNameTaken = errors.New("name already taken")
	ErrSeatTaken = errors.New("seat belongs to another player")
	ErrFull      = errors.New("table is full")
	ErrStarted   = errors.New("game already started")
	ErrTooFew    = errors.New("not enough players")
	ErrNotHost   = errors.New("only the host can start the game")
	ErrNotReady  = errors.New("not every player is ready")
)

const maxNameLen = 24

// Seat is a player waiting at the table. Seats are numbered in join order
// and become the engine's seat numbers when the game starts.
type Seat struct {
	ID    string
	Name  string
	Ready bool
	token string
}

// Lobby gathers players until the host starts the game. The first player
// to sit down hosts; if they leave, the next seat takes over.
type Lobby struct {
	mu      sync.Mutex
	ID      string
	seats   []*Seat
	started bool
}

func NewLobby(id string) *Lobby {
	return &Lobby{ID: id}
}

// Join seats a player, or renames one already seated. The token given with
// the first join must be shown again to take the seat back. Seated players
// may reconnect after the start; newcomers may not.
func (l *Lobby) Join(id, name, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id == "" {
		return ErrMissingID
	}
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLen {
		return ErrBadName
	}
	var mine *Seat
	for _, s := range l.seats {
		switch {
		case s.ID == id:
			mine = s
		case strings.EqualFold(s.Name, name):
			return ErrNameTaken
		}
	}
	if mine != nil {
		if mine.token != token {
			return ErrSeatTaken
		}
		mine.Name = name
		return nil
	}
	if l.started {
		return ErrStarted
	}
	if len(l.seats) >= engine.MaxPlayers {
		return ErrFull
	}
	l.seats = append(l.seats, &Seat{ID: id, Name: name, token: token})
	return nil
}

// Leave gives up a seat. Nobody leaves once the game is running.
func (l *Lobby) Leave(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return
	}
	for i, s := range l.seats {
		if s.ID == id {
			l.seats = append(l.seats[:i], l.seats[i+1:]...)
			return
		}
	}
}

func (l *Lobby) SetReady(id string, ready bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.seats {
		if s.ID == id {
			s.Ready = ready
			return
		}
	}
}

// Host returns the ID of the player allowed to start, or "".
func (l *Lobby) Host() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.seats) == 0 {
		return ""
	}
	return l.seats[0].ID
}

// CheckStart reports why by could not start the game now, or nil.
func (l *Lobby) CheckStart(by string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.checkStart(by)
}

func (l *Lobby) checkStart(by string) error {
	if l.started {
		return ErrStarted
	}
	if n := len(l.seats); n < engine.MinPlayers {
		return fmt.Errorf("%w: %d of %d", ErrTooFew, n, engine.MinPlayers)
	}
	if l.seats[0].ID != by {
		return ErrNotHost
	}
	for _, s := range l.seats {
		if !s.Ready {
			return fmt.Errorf("%w: waiting for %s", ErrNotReady, s.Name)
		}
	}
	return nil
}

// Start closes the table. It fails for the same reasons as CheckStart.
func (l *Lobby) Start(by string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkStart(by); err != nil {
		return err
	}
	l.started = true
	return nil
}

func (l *Lobby) IsStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// Seats returns a copy of the table in seat order.
func (l *Lobby) Seats() []Seat {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Seat, len(l.seats))
	for i, s := range l.seats {
		out[i] = *s
	}
	return out
}

// PlayerIDs returns the seated IDs in seat order.
func (l *Lobby) PlayerIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, len(l.seats))
	for i, s := range l.seats {
		ids[i] = s.ID
	}
	return ids
}
