package engine

import "fmt"

// GamePhase represents the current phase of the legislative state machine.
type GamePhase int

const (
	PhaseLobby                 GamePhase = iota // seating players
	PhaseRoleAssignment                         // secret roles being handed out
	PhaseNomination                             // president picks a chancellor
	PhaseVoting                                 // everyone votes on the government
	PhaseLegislativePresident                   // president discards one of three policies
	PhaseLegislativeChancellor                  // chancellor discards one of two and enacts the other
	PhasePower                                  // president resolves an executive power
	PhaseGameOver                               // winner decided
)

var phaseNames = map[GamePhase]string{
	PhaseLobby:                 "LOBBY",
	PhaseRoleAssignment:        "ROLE_ASSIGNMENT",
	PhaseNomination:            "NOMINATION",
	PhaseVoting:                "VOTING",
	PhaseLegislativePresident:  "LEGISLATIVE_PRESIDENT",
	PhaseLegislativeChancellor: "LEGISLATIVE_CHANCELLOR",
	PhasePower:                 "POWER",
	PhaseGameOver:              "GAME_OVER",
}

func (p GamePhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

func (p GamePhase) MarshalText() ([]byte, error) {
	if _, ok := phaseNames[p]; !ok {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *GamePhase) UnmarshalText(b []byte) error {
	for ph, name := range phaseNames {
		if name == string(b) {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(b))
}

// holdsChancellor reports whether a chancellor seat may be set in this phase.
func (p GamePhase) holdsChancellor() bool {
	switch p {
	case PhaseVoting, PhaseLegislativePresident, PhaseLegislativeChancellor, PhasePower:
		return true
	}
	return false
}
