package engine

// PolicySource is the policy deck. Draw fails with ErrDeckExhausted when
// fewer than n policies remain; it never substitutes a default tile.
type PolicySource interface {
	Draw(n int) ([]Policy, error)
	Discard(policies ...Policy)
}

// RoleLookup answers who holds which secret role. Only the win evaluator and
// the per-player views consult it; nomination and voting never do.
type RoleLookup interface {
	RoleOf(seat int) Role
}

// PowerResolver carries out an executive power and reports its effect on the
// public state. Anything else it does (revealing a loyalty card, showing the
// top of the deck) stays private to the resolver.
type PowerResolver interface {
	ResolvePowerEffect(kind Power, target *int) (StateDelta, error)
}

// StateDelta is the atomic change a resolved power makes to the game.
type StateDelta struct {
	Executed      *int `json:"executed,omitempty"`
	Investigated  *int `json:"investigated,omitempty"`
	NextPresident *int `json:"next_president,omitempty"`
}
