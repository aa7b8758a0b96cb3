package powers

import "legislature/internal/engine"

// SpecialElection names the next presidential candidate.
type SpecialElection struct{}

func (SpecialElection) Kind() engine.Power { return engine.PowerSpecialElection }

func (SpecialElection) Resolve(_ Table, target *int) (engine.StateDelta, *Reveal, error) {
	s, err := seat(target)
	if err != nil {
		return engine.StateDelta{}, nil, err
	}
	return engine.StateDelta{NextPresident: &s}, nil, nil
}
