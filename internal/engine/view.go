package engine

// PublicViewData is the game state visible to everyone at the table.
type PublicViewData struct {
	GameID          string             `json:"game_id"`
	Phase           string             `json:"phase"`
	Players         []PublicPlayerData `json:"players"`
	PresidentSeat   int                `json:"president_seat"`
	ChancellorSeat  *int               `json:"chancellor_seat,omitempty"`
	Voted           []string           `json:"voted,omitempty"`
	ElectionTracker int                `json:"election_tracker"`
	LiberalPolicies int                `json:"liberal_policies"`
	FascistPolicies int                `json:"fascist_policies"`
	LastGovernment  *Government        `json:"last_government,omitempty"`
	PendingPower    string             `json:"pending_power,omitempty"`
	VetoRequested   bool               `json:"veto_requested,omitempty"`
	VetoAvailable   bool               `json:"veto_available"`
	Winner          string             `json:"winner,omitempty"`
	DeckSize        int                `json:"deck_size"`
}

type PublicPlayerData struct {
	ID    string `json:"id"`
	Seat  int    `json:"seat"`
	Alive bool   `json:"alive"`
	// Role is only revealed once the game is over.
	Role string `json:"role,omitempty"`
}

// PublicView projects s onto what every player may see. deckSize is passed in
// because the deck lives outside the state.
func PublicView(s GameState, roles RoleLookup, deckSize int) PublicViewData {
	pv := PublicViewData{
		GameID:          s.GameID,
		Phase:           s.Phase.String(),
		PresidentSeat:   s.PresidentSeat,
		ChancellorSeat:  s.ChancellorSeat,
		ElectionTracker: s.ElectionTracker,
		LiberalPolicies: s.LiberalPolicies,
		FascistPolicies: s.FascistPolicies,
		LastGovernment:  s.LastGovernment,
		VetoRequested:   s.VetoRequested,
		VetoAvailable:   s.FascistPolicies >= VetoUnlock,
		DeckSize:        deckSize,
	}
	if s.PendingPower != PowerNone {
		pv.PendingPower = s.PendingPower.String()
	}
	if s.Winner != nil {
		pv.Winner = s.Winner.String()
	}
	for _, p := range s.Players {
		if _, ok := s.Votes[p.ID]; ok {
			pv.Voted = append(pv.Voted, p.ID)
		}
	}
	for _, p := range s.Players {
		ppd := PublicPlayerData{ID: p.ID, Seat: p.Seat, Alive: p.Alive}
		if s.Over() && roles != nil {
			ppd.Role = roles.RoleOf(p.Seat).String()
		}
		pv.Players = append(pv.Players, ppd)
	}
	return pv
}

// PlayerViewData is the game state visible to a specific player.
type PlayerViewData struct {
	PublicViewData
	Seat                int            `json:"seat"`
	Role                string         `json:"role"`
	Party               string         `json:"party"`
	KnownRoles          map[int]string `json:"known_roles,omitempty"`
	MyVote              Vote           `json:"my_vote,omitempty"`
	Hand                []Policy       `json:"hand,omitempty"`
	EligibleChancellors []int          `json:"eligible_chancellors,omitempty"`
	PowerTargets        []int          `json:"power_targets,omitempty"`
	CanVote             bool           `json:"can_vote"`
	CanProposeVeto      bool           `json:"can_propose_veto"`
}

// ViewFor returns what playerID may see. Roles of other players only show
// when the viewer is entitled to know them.
func ViewFor(s GameState, roles RoleLookup, deckSize int, playerID string) PlayerViewData {
	pv := PlayerViewData{
		PublicViewData: PublicView(s, roles, deckSize),
		Seat:           -1,
	}
	p, ok := s.PlayerByID(playerID)
	if !ok {
		return pv
	}
	pv.Seat = p.Seat

	if roles != nil {
		me := roles.RoleOf(p.Seat)
		pv.Role = me.String()
		pv.Party = me.Party().String()
		if a, ok := roles.(interface{ KnownTo(int) []int }); ok {
			for _, seat := range a.KnownTo(p.Seat) {
				if pv.KnownRoles == nil {
					pv.KnownRoles = make(map[int]string)
				}
				pv.KnownRoles[seat] = roles.RoleOf(seat).String()
			}
		}
	}

	gov, hasGov := s.Government()
	switch s.Phase {
	case PhaseNomination:
		if p.Seat == s.PresidentSeat {
			pv.EligibleChancellors = EligibleChancellors(s)
		}
	case PhaseVoting:
		pv.CanVote = p.Alive
		pv.MyVote = s.Votes[p.ID]
	case PhaseLegislativePresident:
		if p.Seat == s.PresidentSeat {
			pv.Hand = s.PresidentHand
		}
	case PhaseLegislativeChancellor:
		if hasGov && p.Seat == gov.Chancellor {
			pv.Hand = s.ChancellorHand
			pv.CanProposeVeto = s.FascistPolicies >= VetoUnlock && !s.VetoRequested && !s.VetoRefused
		}
	case PhasePower:
		if p.Seat == s.PresidentSeat && s.PendingPower.NeedsTarget() {
			for _, q := range s.Players {
				if q.Alive && q.Seat != s.PresidentSeat &&
					!(s.PendingPower == PowerInvestigate && s.wasInvestigated(q.Seat)) {
					pv.PowerTargets = append(pv.PowerTargets, q.Seat)
				}
			}
		}
	}
	return pv
}
