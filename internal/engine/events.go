package engine

// EventType identifies events derived from a transition.
type EventType string

const (
	EventPhaseChange     EventType = "phase_change"
	EventNominated       EventType = "nominated"
	EventVoteCast        EventType = "vote_cast"
	EventElection        EventType = "election"
	EventElectionTracker EventType = "election_tracker"
	EventPolicyEnacted   EventType = "policy_enacted"
	EventVetoProposed    EventType = "veto_proposed"
	EventVetoRefused     EventType = "veto_refused"
	EventPowerUnlocked   EventType = "power_unlocked"
	EventExecuted        EventType = "executed"
	EventInvestigated    EventType = "investigated"
	EventSpecialElection EventType = "special_election"
	EventGameOver        EventType = "game_over"
)

// Event describes one publicly visible consequence of a transition.
type Event struct {
	Type   EventType   `json:"type"`
	Player string      `json:"player,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Events compares two consecutive states and reports what changed. Only
// public information is included; ballots are revealed once the election
// is settled.
func Events(before, after GameState) []Event {
	var events []Event

	if before.Phase == PhaseNomination && after.Phase == PhaseVoting && after.ChancellorSeat != nil {
		events = append(events, Event{Type: EventNominated, Data: map[string]interface{}{
			"president": before.PresidentSeat, "chancellor": *after.ChancellorSeat,
		}})
	}

	if after.Phase == PhaseVoting {
		for id := range after.Votes {
			if _, seen := before.Votes[id]; !seen {
				events = append(events, Event{Type: EventVoteCast, Player: id})
			}
		}
	}

	if before.Phase == PhaseVoting && after.Phase != PhaseVoting {
		ja, nein := Tally(before.Votes)
		ballots := make(map[string]Vote, len(before.Votes))
		for id, v := range before.Votes {
			ballots[id] = v
		}
		events = append(events, Event{Type: EventElection, Data: map[string]interface{}{
			"ja": ja, "nein": nein, "passed": ja > nein, "votes": ballots,
		}})
	}

	if before.ElectionTracker != after.ElectionTracker {
		events = append(events, Event{Type: EventElectionTracker, Data: map[string]interface{}{
			"tracker": after.ElectionTracker,
		}})
	}

	forced := before.Phase == PhaseVoting || (before.Phase == PhaseLegislativeChancellor && before.VetoRequested)
	if after.LiberalPolicies > before.LiberalPolicies {
		events = append(events, policyEvent(PartyLiberal, after, forced))
	}
	if after.FascistPolicies > before.FascistPolicies {
		events = append(events, policyEvent(PartyFascist, after, forced))
	}

	if !before.VetoRequested && after.VetoRequested {
		events = append(events, Event{Type: EventVetoProposed})
	}
	if !before.VetoRefused && after.VetoRefused {
		events = append(events, Event{Type: EventVetoRefused})
	}

	if after.Phase == PhasePower && before.Phase != PhasePower {
		events = append(events, Event{Type: EventPowerUnlocked, Data: map[string]interface{}{
			"power": after.PendingPower.String(), "president": after.PresidentSeat,
		}})
	}

	for i, p := range after.Players {
		if i < len(before.Players) && before.Players[i].Alive && !p.Alive {
			events = append(events, Event{Type: EventExecuted, Player: p.ID, Data: map[string]interface{}{
				"seat": p.Seat,
			}})
		}
	}
	if len(after.Investigated) > len(before.Investigated) {
		events = append(events, Event{Type: EventInvestigated, Data: map[string]interface{}{
			"seat": after.Investigated[len(after.Investigated)-1],
		}})
	}
	if before.Phase == PhasePower && before.PendingPower == PowerSpecialElection && after.Phase == PhaseNomination {
		events = append(events, Event{Type: EventSpecialElection, Data: map[string]interface{}{
			"president": after.PresidentSeat,
		}})
	}

	if before.Phase != after.Phase {
		events = append(events, Event{Type: EventPhaseChange, Data: map[string]interface{}{
			"phase": after.Phase.String(),
		}})
	}
	if before.Winner == nil && after.Winner != nil {
		events = append(events, Event{Type: EventGameOver, Data: map[string]interface{}{
			"winner": after.Winner.String(),
		}})
	}
	return events
}

func policyEvent(party Party, s GameState, forced bool) Event {
	return Event{Type: EventPolicyEnacted, Data: map[string]interface{}{
		"party":   party.String(),
		"forced":  forced,
		"liberal": s.LiberalPolicies,
		"fascist": s.FascistPolicies,
	}}
}
