package game

import (
	"github.com/mphaphulimavhungu/casino/internal/deck"
)

// LowestCard returns the lowest card in hand by value, ties broken by suit
// order ♠ ♥ ♦ ♣.
func LowestCard(hand []deck.Card) (deck.Card, bool) {
	if len(hand) == 0 {
		return deck.Card{}, false
	}
	low := hand[0]
	for _, c := range hand[1:] {
		if deck.Less(c, low) {
			low = c
		}
	}
	return low, true
}

// ForcedThrow is the action synthesized when seat's turn times out or a
// stand-in plays for it.
func (r *Round) ForcedThrow(seat int) (Action, bool) {
	c, ok := LowestCard(r.Players[seat].Hand)
	if !ok {
		return Action{}, false
	}
	return ThrowCard(c), true
}

// LegalMoves lists every action seat may take now. It returns nil when
// seat cannot act.
func (r *Round) LegalMoves(seat int) []Action {
	if seat < 0 || seat >= len(r.Players) {
		return nil
	}
	return r.View(seat).LegalMoves()
}

// LegalMoves lists the viewer's legal actions in a stable order: the
// exchange when open, then captures, build captures, builds, steals and
// throws. A view carries everything needed, so remote clients share the
// same move generation as the engine.
func (v View) LegalMoves() []Action {
	if v.Phase != InPlay || v.Viewer < 0 {
		return nil
	}
	var moves []Action
	if v.ExchangeOpen && deck.Contains(v.Hand, threeOfHearts) {
		moves = append(moves, ExchangeStarter())
	}
	if v.Viewer != v.Active {
		return moves
	}

	hand := v.Hand
	for _, h := range hand {
		for _, t := range v.Loose {
			if h.Value() == t.Value() {
				moves = append(moves, CaptureCard(h, t))
			}
		}
	}
	for _, h := range hand {
		for _, b := range v.Builds {
			if h.Value() == b.Value {
				moves = append(moves, CaptureBuildWith(h, b.Cards[0], b.Cards[1]))
			}
		}
	}
	for _, h := range hand {
		for _, t := range v.Loose {
			if hasValueExcept(hand, h.Value()+t.Value(), h) {
				moves = append(moves, BuildWith(h, t))
			}
		}
	}
	for _, p := range v.Players {
		if p.Seat == v.Viewer || p.PileTop == nil {
			continue
		}
		top := *p.PileTop
		for _, t := range v.Loose {
			for _, h := range hand {
				if h.Value() == top.Value()+t.Value() {
					moves = append(moves, StealFrom(p.Seat, top, t, h))
					break
				}
			}
		}
	}
	for _, h := range hand {
		moves = append(moves, ThrowCard(h))
	}
	return moves
}
