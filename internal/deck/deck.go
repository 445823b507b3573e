package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck
const Size = 40

// Full returns the 40 cards in canonical order (suit-major, Ace first)
func Full() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= Ten; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Deck is an ordered sequence of cards consumed by dealing
type Deck struct {
	cards []Card
}

// New creates an unshuffled 40-card deck
func New() *Deck {
	return &Deck{cards: Full()}
}

// NewShuffled creates a 40-card deck shuffled by rng
func NewShuffled(rng *rand.Rand) *Deck {
	d := New()
	d.Shuffle(rng)
	return d
}

// Shuffle permutes the remaining cards with Fisher-Yates driven by rng.
// The same rng state always yields the same order.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals up to n cards from the top of the deck
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards in deal order
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Remove deletes the first occurrence of c from cards and reports whether
// it was present. The returned slice may share storage with cards.
func Remove(cards []Card, c Card) ([]Card, bool) {
	for i, x := range cards {
		if x == c {
			return append(cards[:i], cards[i+1:]...), true
		}
	}
	return cards, false
}

// Contains reports whether c is in cards
func Contains(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}
