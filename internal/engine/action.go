package engine

// ActionType identifies player actions sent to Engine.Apply.
type ActionType string

const (
	ActionNominate     ActionType = "nominate"
	ActionVote         ActionType = "vote"
	ActionDiscard      ActionType = "discard"       // president drops one of three
	ActionEnact        ActionType = "enact"         // chancellor drops one of two
	ActionVeto         ActionType = "veto"          // chancellor asks for a veto
	ActionVetoResponse ActionType = "veto_response" // president accepts or refuses
	ActionPower        ActionType = "power"
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// nominate, power: the chosen seat
	Target *int `json:"target,omitempty"`
	// vote
	Vote Vote `json:"vote,omitempty"`
	// discard, enact: the policy thrown away
	PolicyID string `json:"policy_id,omitempty"`
	// veto_response
	Accept bool `json:"accept,omitempty"`
}

// Apply is the single entry point for player actions. It resolves the acting
// player's seat and calls the matching transition.
func (e *Engine) Apply(s GameState, playerID string, a Action) (GameState, error) {
	action := string(a.Type)
	if s.Over() {
		return s, reject(action, ErrGameConcluded)
	}
	p, ok := s.PlayerByID(playerID)
	if !ok {
		return s, reject(action, ErrPlayerNotFound)
	}

	switch a.Type {
	case ActionNominate:
		if a.Target == nil {
			return s, reject(action, ErrInvalidTarget)
		}
		return Nominate(s, p.Seat, *a.Target)
	case ActionVote:
		return CastVote(s, playerID, a.Vote)
	case ActionDiscard:
		return e.ChooseDiscard(s, p.Seat, a.PolicyID)
	case ActionEnact:
		return e.EnactPolicy(s, p.Seat, a.PolicyID)
	case ActionVeto:
		return ProposeVeto(s, p.Seat)
	case ActionVetoResponse:
		return e.RespondVeto(s, p.Seat, a.Accept)
	case ActionPower:
		return e.ResolvePower(s, p.Seat, a.Target)
	default:
		return s, reject(action, ErrInvalidAction)
	}
}
