package game

import (
	"fmt"

	"github.com/mphaphulimavhungu/casino/internal/deck"
)

// CheckInvariants verifies card conservation and build shape. It returns an
// *InvariantError on the first violation found.
func (r *Round) CheckInvariants() error {
	seen := make(map[deck.Card]string, deck.Size)
	add := func(where string, cards ...deck.Card) error {
		for _, c := range cards {
			if !c.IsValid() {
				return &InvariantError{Reason: fmt.Sprintf("invalid card %v in %s", c, where)}
			}
			if prev, dup := seen[c]; dup {
				return &InvariantError{Reason: fmt.Sprintf("%s in both %s and %s", c, prev, where)}
			}
			seen[c] = where
		}
		return nil
	}

	for _, p := range r.Players {
		if err := add(fmt.Sprintf("seat %d hand", p.Seat), p.Hand...); err != nil {
			return err
		}
		if err := add(fmt.Sprintf("seat %d pile", p.Seat), p.Pile...); err != nil {
			return err
		}
	}
	if err := add("stock", r.Stock...); err != nil {
		return err
	}
	if err := add("discard", r.Discard...); err != nil {
		return err
	}
	if err := add("table", r.Table.Loose...); err != nil {
		return err
	}
	for i, b := range r.Table.Builds {
		if err := add(fmt.Sprintf("build %d", i), b.Cards[0], b.Cards[1]); err != nil {
			return err
		}
		if sum := b.Cards[0].Value() + b.Cards[1].Value(); sum != b.Value {
			return &InvariantError{Reason: fmt.Sprintf("build %s sums to %d", b, sum)}
		}
	}

	if len(seen) != deck.Size {
		return &InvariantError{Reason: fmt.Sprintf("%d cards in play, want %d", len(seen), deck.Size)}
	}
	return nil
}
