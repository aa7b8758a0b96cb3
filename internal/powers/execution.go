package powers

import "legislature/internal/engine"

// Execution kills a player. The engine decides whether that ends the game.
type Execution struct{}

func (Execution) Kind() engine.Power { return engine.PowerExecution }

func (Execution) Resolve(_ Table, target *int) (engine.StateDelta, *Reveal, error) {
	s, err := seat(target)
	if err != nil {
		return engine.StateDelta{}, nil, err
	}
	return engine.StateDelta{Executed: &s}, nil, nil
}
