package powers

import (
	"fmt"

	"legislature/internal/engine"
)

// Peeker exposes the top of the policy deck without drawing.
type Peeker interface {
	Peek(n int) []engine.Policy
}

// Table is what a power may consult while it resolves.
type Table struct {
	Roles engine.RoleLookup
	Deck  Peeker
}

// Reveal is private information a power shows to the president.
type Reveal struct {
	Power    engine.Power    `json:"power"`
	Seat     *int            `json:"seat,omitempty"`
	Party    string          `json:"party,omitempty"`
	Policies []engine.Policy `json:"policies,omitempty"`
}

// Handler carries out one executive power.
type Handler interface {
	Kind() engine.Power
	// Resolve returns the public delta and, optionally, what only the
	// president gets to see.
	Resolve(t Table, target *int) (engine.StateDelta, *Reveal, error)
}

// Resolver maps powers to their handlers and implements engine.PowerResolver.
type Resolver struct {
	table    Table
	handlers map[engine.Power]Handler
	pending  *Reveal
}

// NewResolver creates a resolver with the canonical powers registered.
func NewResolver(roles engine.RoleLookup, deck Peeker) *Resolver {
	r := &Resolver{
		table:    Table{Roles: roles, Deck: deck},
		handlers: make(map[engine.Power]Handler),
	}
	r.Register(Investigate{})
	r.Register(PolicyPeek{})
	r.Register(SpecialElection{})
	r.Register(Execution{})
	return r
}

func (r *Resolver) Register(h Handler) {
	r.handlers[h.Kind()] = h
}

func (r *Resolver) Get(kind engine.Power) (Handler, error) {
	h, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("no handler registered for power %s", kind)
	}
	return h, nil
}

// ResolvePowerEffect implements engine.PowerResolver. The reveal, if any, is
// held until TakeReveal so it only reaches the president once the engine has
// accepted the transition.
func (r *Resolver) ResolvePowerEffect(kind engine.Power, target *int) (engine.StateDelta, error) {
	h, err := r.Get(kind)
	if err != nil {
		return engine.StateDelta{}, err
	}
	delta, reveal, err := h.Resolve(r.table, target)
	if err != nil {
		return engine.StateDelta{}, err
	}
	r.pending = reveal
	return delta, nil
}

// TakeReveal returns and clears the last reveal.
func (r *Resolver) TakeReveal() *Reveal {
	rv := r.pending
	r.pending = nil
	return rv
}

// Discard drops a reveal produced by a transition that was then refused.
func (r *Resolver) Discard() {
	r.pending = nil
}

func seat(target *int) (int, error) {
	if target == nil {
		return 0, engine.ErrInvalidTarget
	}
	return *target, nil
}
