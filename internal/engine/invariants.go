package engine

// Validate checks the structural invariants every state must satisfy.
// A transition whose result fails Validate is refused.
func Validate(s GameState) error {
	n := len(s.Players)
	if n < MinPlayers || n > MaxPlayers {
		return invariant("%d players seated", n)
	}
	ids := make(map[string]bool, n)
	for i, p := range s.Players {
		if p.Seat != i {
			return invariant("player %s in seat %d at index %d", p.ID, p.Seat, i)
		}
		if ids[p.ID] {
			return invariant("player %s seated twice", p.ID)
		}
		ids[p.ID] = true
	}
	if s.PresidentSeat < 0 || s.PresidentSeat >= n {
		return invariant("president seat %d out of range", s.PresidentSeat)
	}

	if s.ChancellorSeat != nil {
		c := *s.ChancellorSeat
		if !s.Phase.holdsChancellor() {
			return invariant("chancellor seat set during %s", s.Phase)
		}
		if c == s.PresidentSeat {
			return invariant("chancellor seat %d is the president", c)
		}
		if !IsAlive(s, c) {
			return invariant("chancellor seat %d is not alive", c)
		}
	} else if s.Phase == PhaseVoting || s.Phase == PhaseLegislativePresident || s.Phase == PhaseLegislativeChancellor {
		return invariant("no chancellor during %s", s.Phase)
	}

	living := LivingCount(s)
	if len(s.Votes) > living {
		return invariant("%d votes from %d living players", len(s.Votes), living)
	}
	for id, v := range s.Votes {
		p, ok := s.PlayerByID(id)
		if !ok || !p.Alive {
			return invariant("vote recorded for %q who is not a living player", id)
		}
		if !v.Valid() {
			return invariant("vote %q from %s", v, id)
		}
	}

	if s.ElectionTracker < 0 || s.ElectionTracker >= ElectionTrackerLimit {
		return invariant("election tracker at %d", s.ElectionTracker)
	}
	if s.LiberalPolicies < 0 || s.LiberalPolicies > LiberalPoliciesToWin ||
		s.FascistPolicies < 0 || s.FascistPolicies > FascistPoliciesToWin {
		return invariant("policy tracks at %d liberal / %d fascist", s.LiberalPolicies, s.FascistPolicies)
	}

	if (s.Winner != nil) != (s.Phase == PhaseGameOver) {
		return invariant("winner %v during %s", s.Winner, s.Phase)
	}
	if s.Phase >= PhaseNomination && s.Phase < PhaseGameOver && !IsAlive(s, s.PresidentSeat) {
		return invariant("president seat %d is not alive", s.PresidentSeat)
	}

	switch s.Phase {
	case PhaseLegislativePresident:
		if len(s.PresidentHand) != PresidentDraw || len(s.ChancellorHand) != 0 {
			return invariant("president holds %d policies", len(s.PresidentHand))
		}
	case PhaseLegislativeChancellor:
		if len(s.ChancellorHand) != PresidentDraw-1 || len(s.PresidentHand) != 0 {
			return invariant("chancellor holds %d policies", len(s.ChancellorHand))
		}
	default:
		if len(s.PresidentHand) != 0 || len(s.ChancellorHand) != 0 {
			return invariant("policies held during %s", s.Phase)
		}
	}
	if (s.PendingPower != PowerNone) != (s.Phase == PhasePower) {
		return invariant("pending power %s during %s", s.PendingPower, s.Phase)
	}
	return nil
}
