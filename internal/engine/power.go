package engine

import "fmt"

// Power is a one-shot presidential ability unlocked on the fascist track.
type Power int

const (
	PowerNone Power = iota
	PowerInvestigate
	PowerPolicyPeek
	PowerSpecialElection
	PowerExecution
)

var powerNames = map[Power]string{
	PowerNone:            "NONE",
	PowerInvestigate:     "INVESTIGATE_LOYALTY",
	PowerPolicyPeek:      "POLICY_PEEK",
	PowerSpecialElection: "SPECIAL_ELECTION",
	PowerExecution:       "EXECUTION",
}

func (p Power) String() string {
	if s, ok := powerNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

func (p Power) MarshalText() ([]byte, error) {
	if _, ok := powerNames[p]; !ok {
		return nil, fmt.Errorf("unknown power %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Power) UnmarshalText(b []byte) error {
	for pw, name := range powerNames {
		if name == string(b) {
			*p = pw
			return nil
		}
	}
	return fmt.Errorf("unknown power %q", string(b))
}

// NeedsTarget returns true if the president must pick a seat.
func (p Power) NeedsTarget() bool {
	switch p {
	case PowerInvestigate, PowerSpecialElection, PowerExecution:
		return true
	}
	return false
}

// PowerFor returns the power granted when the fascist track reaches
// fascistPolicies on a board for the given number of seats.
func PowerFor(seats, fascistPolicies int) Power {
	switch {
	case seats <= 6:
		switch fascistPolicies {
		case 3:
			return PowerPolicyPeek
		case 4, 5:
			return PowerExecution
		}
	case seats <= 8:
		switch fascistPolicies {
		case 2:
			return PowerInvestigate
		case 3:
			return PowerSpecialElection
		case 4, 5:
			return PowerExecution
		}
	default:
		switch fascistPolicies {
		case 1, 2:
			return PowerInvestigate
		case 3:
			return PowerSpecialElection
		case 4, 5:
			return PowerExecution
		}
	}
	return PowerNone
}
