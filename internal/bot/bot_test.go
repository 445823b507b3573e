package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/randutil"
)

func TestNew(t *testing.T) {
	for _, name := range Names() {
		s, err := New(name, randutil.New(1))
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err := New("shark", nil)
	assert.Error(t, err)
}

func TestLowestThrowsLowestCard(t *testing.T) {
	r := game.NewTestRound(
		game.WithHand(0, "7C 2D 2H"),
		game.WithHand(1, "3C"),
		game.WithLoose("7S"),
	)

	a, ok := Lowest{}.Choose(r.View(0))
	require.True(t, ok)
	assert.Equal(t, game.ThrowCard(deck.MustParseCard("2H")), a)

	_, ok = Lowest{}.Choose(r.View(1))
	assert.False(t, ok, "not seat 1's turn")
}

func TestGreedyPrefersValuableCapture(t *testing.T) {
	r := game.NewTestRound(
		game.WithHand(0, "AS 10H 4C"),
		game.WithHand(1, "3C"),
		game.WithLoose("AD 7H"),
		game.WithBuild("6C", "4H", 1),
	)

	a, ok := Greedy{}.Choose(r.View(0))
	require.True(t, ok)
	assert.Equal(t, game.CaptureCard(deck.MustParseCard("AS"), deck.MustParseCard("AD")), a)
}

func TestGreedyThrowsCheapestWithoutCapture(t *testing.T) {
	r := game.NewTestRound(
		game.WithHand(0, "AS 9C"),
		game.WithHand(1, "3C"),
		game.WithLoose("2H"),
	)

	a, ok := Greedy{}.Choose(r.View(0))
	require.True(t, ok)
	assert.Equal(t, game.ThrowCard(deck.MustParseCard("9C")), a)
}

func TestStrategiesFinishRounds(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name, randutil.New(5))
			require.NoError(t, err)

			r, err := game.NewRound(game.Config{PlayerIDs: []string{"a", "b", "c"}, Seed: 5})
			require.NoError(t, err)
			for steps := 0; r.Phase == game.InPlay; steps++ {
				require.Less(t, steps, 500)
				a, ok := s.Choose(r.View(r.Active))
				require.True(t, ok)
				_, err := r.Apply(r.Active, a)
				require.NoError(t, err)
			}
			assert.Equal(t, game.Scored, r.Phase)
			require.NoError(t, r.CheckInvariants())
		})
	}
}
