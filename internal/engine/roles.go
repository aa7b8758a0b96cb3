package engine

import (
	"fmt"
	"math/rand/v2"
)

// RoleCounts returns how many plain fascists and liberals sit at a table of
// n players. Hitler is always one more seat on top of the fascists.
func RoleCounts(n int) (liberals, fascists int, err error) {
	if n < MinPlayers || n > MaxPlayers {
		return 0, 0, fmt.Errorf("%w: %d players", ErrInvalidGame, n)
	}
	fascists = (n - 3) / 2
	return n - fascists - 1, fascists, nil
}

// Assignment maps seats to secret roles.
type Assignment struct {
	roles []Role
}

// AssignRoles deals the canonical roles for n seats using rng.
func AssignRoles(n int, rng *rand.Rand) (*Assignment, error) {
	liberals, fascists, err := RoleCounts(n)
	if err != nil {
		return nil, err
	}
	roles := make([]Role, 0, n)
	for i := 0; i < liberals; i++ {
		roles = append(roles, RoleLiberal)
	}
	for i := 0; i < fascists; i++ {
		roles = append(roles, RoleFascist)
	}
	roles = append(roles, RoleHitler)
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	return &Assignment{roles: roles}, nil
}

// NewAssignment fixes roles in seat order.
func NewAssignment(roles ...Role) *Assignment {
	r := make([]Role, len(roles))
	copy(r, roles)
	return &Assignment{roles: r}
}

// RoleOf returns the role in the given seat.
func (a *Assignment) RoleOf(seat int) Role {
	if seat < 0 || seat >= len(a.roles) {
		return RoleUnknown
	}
	return a.roles[seat]
}

// HitlerSeat returns Hitler's seat, or -1.
func (a *Assignment) HitlerSeat() int {
	for i, r := range a.roles {
		if r == RoleHitler {
			return i
		}
	}
	return -1
}

// Len returns the number of seats.
func (a *Assignment) Len() int {
	return len(a.roles)
}

// KnownTo returns the seats whose roles the given seat learns at the start:
// fascists know every fascist and Hitler; Hitler knows the fascists only at
// tables of six or fewer.
func (a *Assignment) KnownTo(seat int) []int {
	me := a.RoleOf(seat)
	if me != RoleFascist && !(me == RoleHitler && len(a.roles) <= 6) {
		return nil
	}
	var seats []int
	for i, r := range a.roles {
		if i != seat && r.Party() == PartyFascist {
			seats = append(seats, i)
		}
	}
	return seats
}
