package engine

import (
	"fmt"
	"math/rand/v2"
)

// Deck is the policy draw pile plus its discard pile.
type Deck struct {
	cards   []Policy
	discard []Policy
	rng     *rand.Rand
}

// StandardPolicies returns the 17 canonical tiles: 6 liberal, 11 fascist.
func StandardPolicies() []Policy {
	var cards []Policy
	add := func(n int, prefix string, party Party) {
		for i := 1; i <= n; i++ {
			cards = append(cards, Policy{ID: fmt.Sprintf("%s%d", prefix, i), Party: party})
		}
	}
	add(LiberalTiles, "L", PartyLiberal)
	add(FascistTiles, "F", PartyFascist)
	return cards
}

// NewDeck creates a shuffled deck from the given cards. The seed makes the
// shuffle reproducible.
func NewDeck(cards []Policy, seed uint64) *Deck {
	d := &Deck{
		cards: make([]Policy, len(cards)),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	copy(d.cards, cards)
	d.Shuffle()
	return d
}

// NewStackedDeck creates a deck in the given order, first card on top.
func NewStackedDeck(cards ...Policy) *Deck {
	d := &Deck{
		cards: make([]Policy, len(cards)),
		rng:   rand.New(rand.NewPCG(1, 2)),
	}
	copy(d.cards, cards)
	return d
}

func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top n cards. It fails without drawing if the
// deck is short.
func (d *Deck) Draw(n int) ([]Policy, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: %d left, %d wanted", ErrDeckExhausted, len(d.cards), n)
	}
	drawn := make([]Policy, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn, nil
}

// Discard puts cards on the discard pile.
func (d *Deck) Discard(cards ...Policy) {
	d.discard = append(d.discard, cards...)
}

// Reshuffle shuffles the discard pile back into the draw pile.
func (d *Deck) Reshuffle() {
	d.cards = append(d.cards, d.discard...)
	d.discard = nil
	d.Shuffle()
}

// EnsureAtLeast reshuffles when fewer than n cards remain. It reports whether
// a reshuffle happened.
func (d *Deck) EnsureAtLeast(n int) bool {
	if len(d.cards) >= n {
		return false
	}
	d.Reshuffle()
	return true
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// DiscardLen returns the size of the discard pile.
func (d *Deck) DiscardLen() int {
	return len(d.discard)
}

// Peek returns top n cards without removing them.
func (d *Deck) Peek(n int) []Policy {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Policy, n)
	copy(out, d.cards[:n])
	return out
}
