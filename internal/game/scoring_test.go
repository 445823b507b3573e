package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mphaphulimavhungu/casino/internal/deck"
)

func TestScorePile(t *testing.T) {
	tests := []struct {
		name string
		pile string
		want Score
	}{
		{
			name: "empty",
			pile: "",
			want: Score{},
		},
		{
			name: "ten of diamonds and two of spades",
			pile: "10D 2S 3H",
			want: Score{TwoOfSpades: 1, TenOfDiamonds: 1, Spades: 1, Cards: 3, Total: 2},
		},
		{
			name: "five spades",
			pile: "AS 3S 4S 5S 6S",
			want: Score{Aces: 1, Spades: 5, SpadePoints: 1, Cards: 5, Total: 2},
		},
		{
			name: "six spades do not stack with five",
			pile: "3S 4S 5S 6S 7S 8S",
			want: Score{Spades: 6, SpadePoints: 2, Cards: 6, Total: 2},
		},
		{
			// 3 aces, 2♠, 7 spades, 22 cards
			name: "mixed pile",
			pile: "AH AD AC 2S 3S 4S 5S 6S 7S 8S 2H 3H 4H 5H 6H 7H 2D 3D 4D 5D 6D 7D",
			want: Score{Aces: 3, TwoOfSpades: 1, Spades: 7, SpadePoints: 2, Cards: 22, CardPoints: 1, Total: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pile []deck.Card
			if tt.pile != "" {
				pile = deck.MustParseCards(tt.pile)
			}
			got := ScorePile(pile)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ScorePile(pile), "scoring is pure")
		})
	}
}

func TestCardBonusThreshold(t *testing.T) {
	full := deck.Full()
	assert.Equal(t, 0, ScorePile(full[:20]).CardPoints)
	assert.Equal(t, 1, ScorePile(full[:21]).CardPoints)
}

func TestWinners(t *testing.T) {
	assert.Equal(t, []int{1}, Winners([]Score{{Total: 2}, {Total: 5}, {Total: 4}}))
	assert.Equal(t, []int{0, 2}, Winners([]Score{{Total: 5}, {Total: 3}, {Total: 5}}))
	assert.Nil(t, Winners(nil))
}
