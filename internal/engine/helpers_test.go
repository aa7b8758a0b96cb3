package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"legislature/internal/engine"
)

type stubPowers struct {
	calls []engine.Power
	err   error
}

func (p *stubPowers) ResolvePowerEffect(kind engine.Power, target *int) (engine.StateDelta, error) {
	p.calls = append(p.calls, kind)
	if p.err != nil {
		return engine.StateDelta{}, p.err
	}
	switch kind {
	case engine.PowerExecution:
		return engine.StateDelta{Executed: target}, nil
	case engine.PowerInvestigate:
		return engine.StateDelta{Investigated: target}, nil
	case engine.PowerSpecialElection:
		return engine.StateDelta{NextPresident: target}, nil
	}
	return engine.StateDelta{}, nil
}

type fixture struct {
	eng    *engine.Engine
	deck   *engine.Deck
	roles  *engine.Assignment
	powers *stubPowers
}

func lib(n int) engine.Policy { return engine.Policy{ID: fmt.Sprintf("L%d", n), Party: engine.PartyLiberal} }
func fas(n int) engine.Policy { return engine.Policy{ID: fmt.Sprintf("F%d", n), Party: engine.PartyFascist} }

// defaultRoles puts Hitler in the last seat and one fascist beside him.
func defaultRoles(n int) []engine.Role {
	_, fascists, _ := engine.RoleCounts(n)
	roles := make([]engine.Role, n)
	for i := range roles {
		roles[i] = engine.RoleLiberal
	}
	roles[n-1] = engine.RoleHitler
	for i := 0; i < fascists; i++ {
		roles[n-2-i] = engine.RoleFascist
	}
	return roles
}

func newFixture(n int, cards ...engine.Policy) *fixture {
	if len(cards) == 0 {
		cards = engine.StandardPolicies()
	}
	f := &fixture{
		deck:   engine.NewStackedDeck(cards...),
		roles:  engine.NewAssignment(defaultRoles(n)...),
		powers: &stubPowers{},
	}
	f.eng = engine.New(f.deck, f.roles, f.powers)
	return f
}

func playerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}
	return ids
}

// nominationState returns an n-player game waiting for seat 0 to nominate.
func nominationState(t *testing.T, n int) engine.GameState {
	t.Helper()
	s, err := engine.NewGame("game-1", playerIDs(n))
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	s = mustOK(t)(engine.Start(s))
	return mustOK(t)(engine.RolesAssigned(s, 0))
}

func mustOK(t *testing.T) func(engine.GameState, error) engine.GameState {
	t.Helper()
	return func(s engine.GameState, err error) engine.GameState {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s
	}
}

// expectNoop asserts a transition was refused with the given reason and
// handed back its input unchanged.
func expectNoop(t *testing.T, before, after engine.GameState, err, reason error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got no error", reason)
	}
	if reason != nil && !errors.Is(err, reason) {
		t.Fatalf("expected %v, got %v", reason, err)
	}
	if !after.Equal(before) {
		t.Fatalf("refused transition changed the state:\nbefore %+v\nafter  %+v", before, after)
	}
}

// voteAll has every living player vote; choices are consumed in seat order.
func voteAll(t *testing.T, s engine.GameState, choices ...engine.Vote) engine.GameState {
	t.Helper()
	i := 0
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		s = mustOK(t)(engine.CastVote(s, p.ID, choices[i]))
		i++
	}
	return s
}

func repeat(v engine.Vote, n int) []engine.Vote {
	out := make([]engine.Vote, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// elect nominates candidate and has everyone vote JA.
func (f *fixture) elect(t *testing.T, s engine.GameState, candidate int) engine.GameState {
	t.Helper()
	s = mustOK(t)(engine.Nominate(s, s.PresidentSeat, candidate))
	s = voteAll(t, s, repeat(engine.VoteJa, engine.LivingCount(s))...)
	return mustOK(t)(f.eng.ResolveVotes(s))
}

// reject nominates candidate and has everyone vote NEIN.
func (f *fixture) reject(t *testing.T, s engine.GameState, candidate int) engine.GameState {
	t.Helper()
	s = mustOK(t)(engine.Nominate(s, s.PresidentSeat, candidate))
	s = voteAll(t, s, repeat(engine.VoteNein, engine.LivingCount(s))...)
	return mustOK(t)(f.eng.ResolveVotes(s))
}

// legislate runs a full session that enacts the policy with the given ID.
func (f *fixture) legislate(t *testing.T, s engine.GameState, enactID string) engine.GameState {
	t.Helper()
	if s.Phase != engine.PhaseLegislativePresident {
		t.Fatalf("expected LEGISLATIVE_PRESIDENT, got %s", s.Phase)
	}
	var discard string
	for _, p := range s.PresidentHand {
		if p.ID != enactID {
			discard = p.ID
			break
		}
	}
	s = mustOK(t)(f.eng.ChooseDiscard(s, s.PresidentSeat, discard))
	for _, p := range s.ChancellorHand {
		if p.ID != enactID {
			discard = p.ID
			break
		}
	}
	return mustOK(t)(f.eng.EnactPolicy(s, *s.ChancellorSeat, discard))
}

func kill(s engine.GameState, seats ...int) engine.GameState {
	players := make([]engine.Player, len(s.Players))
	copy(players, s.Players)
	for _, seat := range seats {
		players[seat].Alive = false
	}
	s.Players = players
	return s
}

func seat(n int) *int { return &n }
