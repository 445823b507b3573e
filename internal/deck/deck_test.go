package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mphaphulimavhungu/casino/internal/randutil"
)

func TestFullDeckIsDistinct(t *testing.T) {
	cards := Full()
	require.Len(t, cards, Size)

	seen := make(map[Card]bool, Size)
	for _, c := range cards {
		require.True(t, c.IsValid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a := NewShuffled(randutil.New(42))
	b := NewShuffled(randutil.New(42))
	c := NewShuffled(randutil.New(43))

	assert.Equal(t, a.Cards(), b.Cards(), "same seed must yield same order")
	assert.NotEqual(t, a.Cards(), c.Cards(), "different seeds should differ")
	assert.ElementsMatch(t, Full(), a.Cards(), "shuffle must be a permutation")
}

func TestDealN(t *testing.T) {
	d := NewShuffled(randutil.New(7))
	first := d.DealN(10)
	second := d.DealN(10)

	assert.Len(t, first, 10)
	assert.Len(t, second, 10)
	assert.Equal(t, 20, d.Remaining())

	for _, c := range first {
		assert.False(t, Contains(second, c))
		assert.False(t, Contains(d.Cards(), c))
	}

	rest := d.DealN(100)
	assert.Len(t, rest, 20)
	assert.True(t, d.IsEmpty())

	_, ok := d.Deal()
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	cards := MustParseCards("AS 2S 3S")
	out, ok := Remove(cards, MustParseCard("2S"))
	require.True(t, ok)
	assert.Equal(t, MustParseCards("AS 3S"), out)

	_, ok = Remove(out, MustParseCard("9H"))
	assert.False(t, ok)
}
