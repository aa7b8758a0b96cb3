package engine

import (
	"errors"
	"fmt"
)

// Rejection reasons. A rejected action leaves the state untouched.
var (
	ErrRejected             = errors.New("action rejected")
	ErrGameConcluded        = errors.New("game concluded")
	ErrWrongPhase           = errors.New("wrong phase for this action")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrDeadPlayer           = errors.New("player is not alive")
	ErrIneligibleChancellor = errors.New("ineligible chancellor")
	ErrInvalidVote          = errors.New("vote must be JA or NEIN")
	ErrVotesPending         = errors.New("not every living player has voted")
	ErrInvalidPolicy        = errors.New("policy not in hand")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrVetoUnavailable      = errors.New("veto not available")
	ErrVetoPending          = errors.New("veto awaiting the president")
	ErrInvalidAction        = errors.New("invalid action")
)

// Hard failures. These are never a player's fault.
var (
	ErrDeckExhausted      = errors.New("policy deck exhausted")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrInvalidGame        = errors.New("invalid game setup")
)

// RejectedError reports why an action was refused.
type RejectedError struct {
	Action string
	Reason error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Action, e.Reason)
}

func (e *RejectedError) Unwrap() []error {
	return []error{ErrRejected, e.Reason}
}

func reject(action string, reason error) error {
	return &RejectedError{Action: action, Reason: reason}
}

// IsRejected reports whether err is a precondition failure rather than a hard error.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
