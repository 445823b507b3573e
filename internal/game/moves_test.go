package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mphaphulimavhungu/casino/internal/deck"
)

func TestLowestCard(t *testing.T) {
	tests := []struct {
		hand string
		want string
	}{
		{"5H 3D 9C", "3D"},
		{"4C 4D 4H", "4H"},
		{"7C 7S", "7S"},
		{"AC 10S", "AC"},
	}
	for _, tt := range tests {
		got, ok := LowestCard(deck.MustParseCards(tt.hand))
		require.True(t, ok)
		assert.Equal(t, card(tt.want), got, tt.hand)
	}

	_, ok := LowestCard(nil)
	assert.False(t, ok)
}

func TestLegalMoves(t *testing.T) {
	r := NewTestRound(
		WithHand(0, "5S 10H 3D"),
		WithHand(1, "2C"),
		WithPile(1, "8C 5D"),
		WithLoose("5C 2H"),
		WithBuild("4H", "6C", 1),
	)

	moves := r.LegalMoves(0)
	assert.Equal(t, []Action{
		CaptureCard(card("5S"), card("5C")),
		CaptureBuildWith(card("10H"), card("4H"), card("6C")),
		BuildWith(card("5S"), card("5C")),
		BuildWith(card("3D"), card("2H")),
		StealFrom(1, card("5D"), card("5C"), card("10H")),
		ThrowCard(card("5S")),
		ThrowCard(card("10H")),
		ThrowCard(card("3D")),
	}, moves)

	assert.Empty(t, r.LegalMoves(1), "off-turn seat has no moves")
}

func TestViewHidesOtherHands(t *testing.T) {
	r := NewTestRound(WithHand(0, "5S 10H"), WithHand(1, "2C"), WithPile(1, "8C 5D"))

	v := r.View(0)
	assert.Equal(t, deck.MustParseCards("5S 10H"), v.Hand)
	assert.Equal(t, 1, v.Players[1].HandSize)
	require.NotNil(t, v.Players[1].PileTop)
	assert.Equal(t, card("5D"), *v.Players[1].PileTop)
	assert.Nil(t, v.Players[0].PileTop)

	assert.Empty(t, r.View(NoSeat).Hand)
}
