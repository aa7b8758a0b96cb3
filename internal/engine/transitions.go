package engine

import "fmt"

// Engine applies transitions that need the deck, the role lookup or the
// power resolver. Transitions that need none of them are plain functions.
type Engine struct {
	Deck   PolicySource
	Roles  RoleLookup
	Powers PowerResolver
}

// New wires an engine to its deck, role lookup and power resolver.
func New(deck PolicySource, roles RoleLookup, powers PowerResolver) *Engine {
	return &Engine{Deck: deck, Roles: roles, Powers: powers}
}

// A transition that does not apply returns its input unchanged together with
// a non-nil error. Repeating an identical ballot is the one accepted no-op:
// CastVote returns the input and a nil error. Either way s.Equal(result)
// means "nothing happened".

func guard(s GameState, action string, want GamePhase) error {
	if s.Over() {
		return reject(action, ErrGameConcluded)
	}
	if s.Phase != want {
		return reject(action, ErrWrongPhase)
	}
	return nil
}

func commit(prev, next GameState) (GameState, error) {
	if err := Validate(next); err != nil {
		return prev, err
	}
	return next, nil
}

// commitDrawn is commit for a state that holds freshly drawn policies. If the
// result is refused the tiles go to the discard pile so none leave the game.
func (e *Engine) commitDrawn(prev, next GameState, drawn []Policy) (GameState, error) {
	out, err := commit(prev, next)
	if err != nil {
		e.Deck.Discard(drawn...)
	}
	return out, err
}

func (e *Engine) draw(n int) ([]Policy, error) {
	if e.Deck == nil {
		return nil, fmt.Errorf("%w: no policy deck", ErrDeckExhausted)
	}
	cards, err := e.Deck.Draw(n)
	if err != nil {
		return nil, err
	}
	if len(cards) != n {
		e.Deck.Discard(cards...)
		return nil, fmt.Errorf("%w: wanted %d policies, got %d", ErrDeckExhausted, n, len(cards))
	}
	return cards, nil
}

// Start closes the lobby and hands the table to role assignment.
func Start(s GameState) (GameState, error) {
	const action = "start"
	if err := guard(s, action, PhaseLobby); err != nil {
		return s, err
	}
	next := s
	next.Phase = PhaseRoleAssignment
	return commit(s, next)
}

// RolesAssigned opens the first nomination with firstPresident in office.
func RolesAssigned(s GameState, firstPresident int) (GameState, error) {
	const action = "begin nomination"
	if err := guard(s, action, PhaseRoleAssignment); err != nil {
		return s, err
	}
	if !IsAlive(s, firstPresident) {
		return s, reject(action, ErrInvalidTarget)
	}
	next := s
	next.PresidentSeat = firstPresident
	next.Phase = PhaseNomination
	return commit(s, next)
}

// Nominate puts the president's chosen chancellor up for a vote.
func Nominate(s GameState, presidentSeat, candidateSeat int) (GameState, error) {
	const action = "nominate"
	if err := guard(s, action, PhaseNomination); err != nil {
		return s, err
	}
	if presidentSeat != s.PresidentSeat {
		return s, reject(action, ErrNotYourTurn)
	}
	if !IsEligibleChancellor(s, candidateSeat) {
		return s, reject(action, ErrIneligibleChancellor)
	}
	next := s
	next.ChancellorSeat = seatPtr(candidateSeat)
	next.Phase = PhaseVoting
	next.Votes = nil
	return commit(s, next)
}

// CastVote records a living player's ballot. A second ballot from the same
// player replaces the first.
func CastVote(s GameState, playerID string, v Vote) (GameState, error) {
	const action = "vote"
	if err := guard(s, action, PhaseVoting); err != nil {
		return s, err
	}
	if !v.Valid() {
		return s, reject(action, ErrInvalidVote)
	}
	p, ok := s.PlayerByID(playerID)
	if !ok {
		return s, reject(action, ErrPlayerNotFound)
	}
	if !p.Alive {
		return s, reject(action, ErrDeadPlayer)
	}
	if s.Votes[playerID] == v {
		return s, nil
	}
	return commit(s, s.withVote(playerID, v))
}

// Tally counts the ballots.
func Tally(votes map[string]Vote) (ja, nein int) {
	for _, v := range votes {
		switch v {
		case VoteJa:
			ja++
		case VoteNein:
			nein++
		}
	}
	return ja, nein
}

// ResolveVotes settles the election once every living player has voted and
// is a no-op before that, so it is safe to call speculatively.
func (e *Engine) ResolveVotes(s GameState) (GameState, error) {
	const action = "resolve votes"
	if err := guard(s, action, PhaseVoting); err != nil {
		return s, err
	}
	if len(s.Votes) < LivingCount(s) {
		return s, reject(action, ErrVotesPending)
	}
	ja, nein := Tally(s.Votes)
	next := s
	next.Votes = nil
	if ja > nein {
		return e.passGovernment(s, next)
	}
	return e.failGovernment(s, next)
}

func (e *Engine) passGovernment(prev, next GameState) (GameState, error) {
	next.ElectionTracker = 0
	check := WinCheck{ElectedChancellor: next.ChancellorSeat, FascistPoliciesBefore: next.FascistPolicies}
	if won, over := e.settle(next, check); over {
		return commit(prev, won)
	}
	hand, err := e.draw(PresidentDraw)
	if err != nil {
		return prev, err
	}
	next.PresidentHand = hand
	next.Phase = PhaseLegislativePresident
	return e.commitDrawn(prev, next, hand)
}

// failGovernment advances the election tracker. On reaching the limit the top
// policy is enacted with no power, and term limits are cleared.
func (e *Engine) failGovernment(prev, next GameState) (GameState, error) {
	next.ElectionTracker++
	next.ChancellorSeat = nil
	if next.ElectionTracker < ElectionTrackerLimit {
		return commit(prev, concludeGovernment(next))
	}

	top, err := e.draw(1)
	if err != nil {
		return prev, err
	}
	next.ElectionTracker = 0
	next.LastGovernment = nil
	next = enact(next, top[0])
	if won, over := e.settle(next, WinCheck{}); over {
		return commit(prev, won)
	}
	return commit(prev, concludeGovernment(next))
}

func enact(s GameState, p Policy) GameState {
	switch p.Party {
	case PartyLiberal:
		s.LiberalPolicies++
	case PartyFascist:
		s.FascistPolicies++
	}
	return s
}

// concludeGovernment passes the presidency on and reopens nomination.
func concludeGovernment(s GameState) GameState {
	s.PresidentSeat = successorSeat(s)
	s.ResumeSeat = nil
	s.ChancellorSeat = nil
	s.Votes = nil
	s.PresidentHand = nil
	s.ChancellorHand = nil
	s.VetoRequested = false
	s.VetoRefused = false
	s.PendingPower = PowerNone
	s.Phase = PhaseNomination
	return s
}

// splitHand removes the policy with the given ID, returning it and what is left.
func splitHand(hand []Policy, id string) (Policy, []Policy, bool) {
	for i, p := range hand {
		if p.ID == id {
			rest := make([]Policy, 0, len(hand)-1)
			rest = append(rest, hand[:i]...)
			rest = append(rest, hand[i+1:]...)
			return p, rest, true
		}
	}
	return Policy{}, nil, false
}

// ChooseDiscard is the president's step: one of three policies is discarded
// and the other two pass to the chancellor.
func (e *Engine) ChooseDiscard(s GameState, presidentSeat int, discardID string) (GameState, error) {
	const action = "discard policy"
	if err := guard(s, action, PhaseLegislativePresident); err != nil {
		return s, err
	}
	if presidentSeat != s.PresidentSeat {
		return s, reject(action, ErrNotYourTurn)
	}
	discarded, kept, ok := splitHand(s.PresidentHand, discardID)
	if !ok {
		return s, reject(action, ErrInvalidPolicy)
	}
	next := s
	next.PresidentHand = nil
	next.ChancellorHand = kept
	next.Phase = PhaseLegislativeChancellor
	out, err := commit(s, next)
	if err != nil {
		return s, err
	}
	e.Deck.Discard(discarded)
	return out, nil
}

// EnactPolicy is the chancellor's step: one of two policies is discarded and
// the other becomes law.
func (e *Engine) EnactPolicy(s GameState, chancellorSeat int, discardID string) (GameState, error) {
	const action = "enact policy"
	if err := guard(s, action, PhaseLegislativeChancellor); err != nil {
		return s, err
	}
	if s.VetoRequested {
		return s, reject(action, ErrVetoPending)
	}
	gov, _ := s.Government()
	if chancellorSeat != gov.Chancellor {
		return s, reject(action, ErrNotYourTurn)
	}
	discarded, kept, ok := splitHand(s.ChancellorHand, discardID)
	if !ok {
		return s, reject(action, ErrInvalidPolicy)
	}
	enacted := kept[0]

	next := s
	next.ChancellorHand = nil
	next.VetoRefused = false
	next.LastGovernment = &gov
	next = enact(next, enacted)

	if won, over := e.settle(next, WinCheck{}); over {
		next = won
	} else if pw := PowerFor(len(next.Players), next.FascistPolicies); enacted.Party == PartyFascist && pw != PowerNone {
		next.Phase = PhasePower
		next.PendingPower = pw
	} else {
		next = concludeGovernment(next)
	}

	out, err := commit(s, next)
	if err != nil {
		return s, err
	}
	e.Deck.Discard(discarded)
	return out, nil
}

// ProposeVeto lets the chancellor ask to throw out both policies once the
// veto is unlocked. It can be asked once per session.
func ProposeVeto(s GameState, chancellorSeat int) (GameState, error) {
	const action = "propose veto"
	if err := guard(s, action, PhaseLegislativeChancellor); err != nil {
		return s, err
	}
	if s.FascistPolicies < VetoUnlock || s.VetoRequested || s.VetoRefused {
		return s, reject(action, ErrVetoUnavailable)
	}
	if gov, _ := s.Government(); chancellorSeat != gov.Chancellor {
		return s, reject(action, ErrNotYourTurn)
	}
	next := s
	next.VetoRequested = true
	return commit(s, next)
}

// RespondVeto is the president's answer. Accepting discards both policies
// and counts as a failed government; refusing sends the chancellor back to
// enact.
func (e *Engine) RespondVeto(s GameState, presidentSeat int, accept bool) (GameState, error) {
	const action = "respond to veto"
	if err := guard(s, action, PhaseLegislativeChancellor); err != nil {
		return s, err
	}
	if !s.VetoRequested {
		return s, reject(action, ErrVetoUnavailable)
	}
	if presidentSeat != s.PresidentSeat {
		return s, reject(action, ErrNotYourTurn)
	}

	next := s
	next.VetoRequested = false
	if !accept {
		next.VetoRefused = true
		return commit(s, next)
	}

	gov, _ := s.Government()
	vetoed := s.ChancellorHand
	next.ChancellorHand = nil
	next.LastGovernment = &gov
	out, err := e.failGovernment(s, next)
	if err != nil {
		return s, err
	}
	e.Deck.Discard(vetoed...)
	return out, nil
}

// ResolvePower asks the power resolver to carry out the pending power on the
// chosen target and applies the delta it returns.
func (e *Engine) ResolvePower(s GameState, presidentSeat int, target *int) (GameState, error) {
	const action = "resolve power"
	if err := guard(s, action, PhasePower); err != nil {
		return s, err
	}
	if presidentSeat != s.PresidentSeat {
		return s, reject(action, ErrNotYourTurn)
	}
	kind := s.PendingPower
	if kind.NeedsTarget() {
		if target == nil {
			return s, reject(action, ErrInvalidTarget)
		}
		t := *target
		if t == s.PresidentSeat || !IsAlive(s, t) {
			return s, reject(action, ErrInvalidTarget)
		}
		if kind == PowerInvestigate && s.wasInvestigated(t) {
			return s, reject(action, ErrInvalidTarget)
		}
		target = seatPtr(t)
	} else {
		target = nil
	}
	if e.Powers == nil {
		return s, fmt.Errorf("resolve %s: no power resolver", kind)
	}

	delta, err := e.Powers.ResolvePowerEffect(kind, target)
	if err != nil {
		return s, fmt.Errorf("resolve %s: %w", kind, err)
	}
	if err := checkDelta(kind, target, delta); err != nil {
		return s, err
	}

	next := s
	next.PendingPower = PowerNone
	switch kind {
	case PowerExecution:
		next = next.withExecuted(*delta.Executed)
		if won, over := e.settle(next, WinCheck{}); over {
			return commit(s, won)
		}
	case PowerInvestigate:
		next = next.withInvestigated(*delta.Investigated)
	case PowerSpecialElection:
		next.ChancellorSeat = nil
		if next.ResumeSeat == nil {
			next.ResumeSeat = seatPtr(s.PresidentSeat)
		}
		next.PresidentSeat = *delta.NextPresident
		next.Phase = PhaseNomination
		return commit(s, next)
	}
	return commit(s, concludeGovernment(next))
}

func checkDelta(kind Power, target *int, d StateDelta) error {
	same := func(a, b *int) bool {
		return (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
	}
	var want StateDelta
	switch kind {
	case PowerExecution:
		want.Executed = target
	case PowerInvestigate:
		want.Investigated = target
	case PowerSpecialElection:
		want.NextPresident = target
	}
	if !same(d.Executed, want.Executed) || !same(d.Investigated, want.Investigated) || !same(d.NextPresident, want.NextPresident) {
		return invariant("%s resolved with an unexpected delta", kind)
	}
	return nil
}
