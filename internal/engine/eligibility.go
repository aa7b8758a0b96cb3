package engine

// IsAlive reports whether the seat exists and its player is alive.
func IsAlive(s GameState, seat int) bool {
	p, ok := s.PlayerAt(seat)
	return ok && p.Alive
}

// LivingCount counts players who have not been executed.
func LivingCount(s GameState) int {
	n := 0
	for _, p := range s.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// termLimited reports whether the previous government bars the seat from the
// chancellorship. Below FullTermLimitPlayers living players only the previous
// chancellor is barred.
func termLimited(s GameState, seat int) bool {
	if s.LastGovernment == nil {
		return false
	}
	if seat == s.LastGovernment.Chancellor {
		return true
	}
	return LivingCount(s) >= FullTermLimitPlayers && seat == s.LastGovernment.President
}

func basicEligible(s GameState, seat int) bool {
	return seat != s.PresidentSeat && IsAlive(s, seat)
}

// IsEligibleChancellor reports whether the sitting president may nominate the
// candidate. The term limit is evaluated against the current living-player
// count. When the term limit would leave no living candidate at all it is
// waived for this nomination.
func IsEligibleChancellor(s GameState, candidate int) bool {
	if !basicEligible(s, candidate) {
		return false
	}
	if !termLimited(s, candidate) {
		return true
	}
	for seat := range s.Players {
		if basicEligible(s, seat) && !termLimited(s, seat) {
			return false
		}
	}
	return true
}

// EligibleChancellors lists every seat the president may nominate.
func EligibleChancellors(s GameState) []int {
	var seats []int
	for seat := range s.Players {
		if IsEligibleChancellor(s, seat) {
			seats = append(seats, seat)
		}
	}
	return seats
}

// NextPresidentSeat returns the next living seat strictly after the current
// president, wrapping around the table.
func NextPresidentSeat(s GameState) int {
	return nextLivingAfter(s, s.PresidentSeat)
}

func nextLivingAfter(s GameState, seat int) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		next := (seat + i) % n
		if s.Players[next].Alive {
			return next
		}
	}
	return seat
}

// successorSeat is the president after the current government ends. A
// pending special election hands the rotation back to the seat after the
// president who called it.
func successorSeat(s GameState) int {
	if s.ResumeSeat != nil {
		return nextLivingAfter(s, *s.ResumeSeat)
	}
	return NextPresidentSeat(s)
}
