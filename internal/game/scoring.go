package game

import "github.com/mphaphulimavhungu/casino/internal/deck"

const (
	spadeTierOne   = 5
	spadeTierTwo   = 6
	cardCountBonus = 21
)

var (
	twoOfSpades   = deck.NewCard(deck.Spades, deck.Two)
	tenOfDiamonds = deck.NewCard(deck.Diamonds, deck.Ten)
)

// Score is the point breakdown of one captured pile
type Score struct {
	Aces          int `json:"aces"`
	TwoOfSpades   int `json:"twoOfSpades"`
	TenOfDiamonds int `json:"tenOfDiamonds"`
	Spades        int `json:"spades"` // spade count, not points
	SpadePoints   int `json:"spadePoints"`
	Cards         int `json:"cards"`
	CardPoints    int `json:"cardPoints"`
	Total         int `json:"total"`
}

// ScorePile scores a captured pile. It only reads the pile.
func ScorePile(pile []deck.Card) Score {
	var s Score
	for _, c := range pile {
		switch {
		case c.Rank == deck.Ace:
			s.Aces++
		case c == twoOfSpades:
			s.TwoOfSpades = 1
		case c == tenOfDiamonds:
			s.TenOfDiamonds = 1
		}
		if c.Suit == deck.Spades {
			s.Spades++
		}
	}
	s.Cards = len(pile)

	switch {
	case s.Spades >= spadeTierTwo:
		s.SpadePoints = 2
	case s.Spades == spadeTierOne:
		s.SpadePoints = 1
	}
	if s.Cards >= cardCountBonus {
		s.CardPoints = 1
	}
	s.Total = s.Aces + s.TwoOfSpades + s.TenOfDiamonds + s.SpadePoints + s.CardPoints
	return s
}

// ScorePiles scores every seat's pile, indexed by seat
func ScorePiles(piles [][]deck.Card) []Score {
	scores := make([]Score, len(piles))
	for i, p := range piles {
		scores[i] = ScorePile(p)
	}
	return scores
}

// Winners returns every seat holding the highest total. Ties are reported,
// never broken.
func Winners(scores []Score) []int {
	best := -1
	var seats []int
	for i, s := range scores {
		switch {
		case s.Total > best:
			best = s.Total
			seats = []int{i}
		case s.Total == best:
			seats = append(seats, i)
		}
	}
	return seats
}

// RunningScores scores the current piles of an unfinished round
func (r *Round) RunningScores() []Score {
	piles := make([][]deck.Card, len(r.Players))
	for i, p := range r.Players {
		piles[i] = p.Pile
	}
	return ScorePiles(piles)
}
