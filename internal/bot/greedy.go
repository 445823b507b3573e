package bot

import (
	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/game"
)

// Greedy takes the most valuable capture available, then prefers stealing,
// then building, and otherwise throws its least valuable card.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Choose(v game.View) (game.Action, bool) {
	moves := v.LegalMoves()
	if len(moves) == 0 {
		return game.Action{}, false
	}

	var (
		best      game.Action
		bestScore = -1
		steal     *game.Action
		build     *game.Action
	)
	for i := range moves {
		m := moves[i]
		switch m.Kind {
		case game.ActionExchange:
			if v.Starter != nil && worth(*v.Starter) > worth(m.HandCard) {
				return m, true
			}
		case game.ActionCaptureSingle:
			if s := worth(m.HandCard) + worth(m.TableCard); s > bestScore {
				best, bestScore = m, s
			}
		case game.ActionCaptureBuild:
			if s := worth(m.HandCard) + worth(m.Target[0]) + worth(m.Target[1]); s > bestScore {
				best, bestScore = m, s
			}
		case game.ActionStealBuild:
			if steal == nil {
				steal = &moves[i]
			}
		case game.ActionCreateBuild:
			if build == nil {
				build = &moves[i]
			}
		}
	}

	switch {
	case bestScore >= 0:
		return best, true
	case steal != nil:
		return *steal, true
	case build != nil:
		return *build, true
	}
	if v.Viewer != v.Active {
		return game.Action{}, false
	}
	return game.ThrowCard(cheapest(v.Hand)), true
}

// worth ranks cards by what they add to a pile's score. Every card counts
// towards the card bonus.
func worth(c deck.Card) int {
	w := 1
	switch {
	case c.Rank == deck.Ace:
		w += 3
	case c == deck.NewCard(deck.Diamonds, deck.Ten), c == deck.NewCard(deck.Spades, deck.Two):
		w += 3
	}
	if c.Suit == deck.Spades {
		w++
	}
	return w
}

func cheapest(hand []deck.Card) deck.Card {
	low := hand[0]
	for _, c := range hand[1:] {
		if worth(c) < worth(low) || (worth(c) == worth(low) && deck.Less(c, low)) {
			low = c
		}
	}
	return low
}
