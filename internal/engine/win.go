package engine

// WinCheck is the context the evaluator needs beyond the state itself.
type WinCheck struct {
	// ElectedChancellor is set right after a government passes its vote.
	ElectedChancellor *int
	// FascistPoliciesBefore is the fascist track as it stood before that vote.
	FascistPoliciesBefore int
}

// EvaluateWin returns the winning party, if any. The first matching
// condition wins: fascist track full, liberal track full, Hitler executed,
// Hitler elected chancellor inside the Hitler zone.
func EvaluateWin(s GameState, roles RoleLookup, check WinCheck) (Party, bool) {
	if s.FascistPolicies >= FascistPoliciesToWin {
		return PartyFascist, true
	}
	if s.LiberalPolicies >= LiberalPoliciesToWin {
		return PartyLiberal, true
	}
	if roles == nil {
		return 0, false
	}
	for _, p := range s.Players {
		if !p.Alive && roles.RoleOf(p.Seat) == RoleHitler {
			return PartyLiberal, true
		}
	}
	if c := check.ElectedChancellor; c != nil && check.FascistPoliciesBefore >= HitlerZone {
		if roles.RoleOf(*c) == RoleHitler {
			return PartyFascist, true
		}
	}
	return 0, false
}

// declareWinner ends the game. Nothing moves after this.
func declareWinner(s GameState, winner Party) GameState {
	s.Winner = partyPtr(winner)
	s.Phase = PhaseGameOver
	s.ChancellorSeat = nil
	s.Votes = nil
	s.PresidentHand = nil
	s.ChancellorHand = nil
	s.VetoRequested = false
	s.VetoRefused = false
	s.PendingPower = PowerNone
	s.ResumeSeat = nil
	return s
}

func (e *Engine) settle(s GameState, check WinCheck) (GameState, bool) {
	if w, ok := EvaluateWin(s, e.Roles, check); ok {
		return declareWinner(s, w), true
	}
	return s, false
}
