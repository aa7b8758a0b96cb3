package engine

import "fmt"

// Party is one of the two teams, and also the track a policy belongs to.
type Party int

const (
	PartyLiberal Party = 1
	PartyFascist Party = 2
)

var partyNames = map[Party]string{
	PartyLiberal: "LIBERAL",
	PartyFascist: "FASCIST",
}

func (p Party) String() string {
	if s, ok := partyNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

func (p Party) MarshalText() ([]byte, error) {
	if _, ok := partyNames[p]; !ok {
		return nil, fmt.Errorf("unknown party %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Party) UnmarshalText(b []byte) error {
	for party, name := range partyNames {
		if name == string(b) {
			*p = party
			return nil
		}
	}
	return fmt.Errorf("unknown party %q", string(b))
}

// Policy is a single policy tile.
type Policy struct {
	ID    string `json:"id"`
	Party Party  `json:"party"`
}

// Role is a player's secret identity.
type Role int

const (
	RoleUnknown Role = iota
	RoleLiberal
	RoleFascist
	RoleHitler
)

var roleNames = map[Role]string{
	RoleUnknown: "Unknown",
	RoleLiberal: "Liberal",
	RoleFascist: "Fascist",
	RoleHitler:  "Hitler",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "Unknown"
}

// Party returns the team the role plays for. Hitler is on the fascist team.
func (r Role) Party() Party {
	switch r {
	case RoleFascist, RoleHitler:
		return PartyFascist
	case RoleLiberal:
		return PartyLiberal
	}
	return 0
}

// Vote is a ballot on a proposed government.
type Vote string

const (
	VoteJa   Vote = "JA"
	VoteNein Vote = "NEIN"
)

func (v Vote) Valid() bool {
	return v == VoteJa || v == VoteNein
}
