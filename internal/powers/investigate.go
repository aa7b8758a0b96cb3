package powers

import "legislature/internal/engine"

// Investigate shows the president the party membership of one player.
// Hitler shows as a fascist.
type Investigate struct{}

func (Investigate) Kind() engine.Power { return engine.PowerInvestigate }

func (Investigate) Resolve(t Table, target *int) (engine.StateDelta, *Reveal, error) {
	s, err := seat(target)
	if err != nil {
		return engine.StateDelta{}, nil, err
	}
	party := t.Roles.RoleOf(s).Party()
	return engine.StateDelta{Investigated: &s}, &Reveal{
		Power: engine.PowerInvestigate,
		Seat:  &s,
		Party: party.String(),
	}, nil
}
