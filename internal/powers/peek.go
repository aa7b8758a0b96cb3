package powers

import (
	"fmt"

	"legislature/internal/engine"
)

// PolicyPeek shows the president the next three policies. It changes nothing
// public.
type PolicyPeek struct{}

func (PolicyPeek) Kind() engine.Power { return engine.PowerPolicyPeek }

func (PolicyPeek) Resolve(t Table, _ *int) (engine.StateDelta, *Reveal, error) {
	if t.Deck == nil {
		return engine.StateDelta{}, nil, fmt.Errorf("policy peek: no deck")
	}
	return engine.StateDelta{}, &Reveal{
		Power:    engine.PowerPolicyPeek,
		Policies: t.Deck.Peek(engine.PresidentDraw),
	}, nil
}
