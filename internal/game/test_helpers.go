package game

import (
	"github.com/mphaphulimavhungu/casino/internal/deck"
)

// TestRoundOption configures a hand-built round for tests
type TestRoundOption func(*testRoundBuilder)

type testRoundBuilder struct {
	players      []string
	hands        map[int][]deck.Card
	piles        map[int][]deck.Card
	loose        []deck.Card
	builds       []Build
	stock        []deck.Card
	active       int
	lastCapturer int
}

func WithPlayers(ids ...string) TestRoundOption {
	return func(b *testRoundBuilder) { b.players = ids }
}

func WithHand(seat int, cards string) TestRoundOption {
	return func(b *testRoundBuilder) { b.hands[seat] = deck.MustParseCards(cards) }
}

func WithPile(seat int, cards string) TestRoundOption {
	return func(b *testRoundBuilder) { b.piles[seat] = deck.MustParseCards(cards) }
}

func WithLoose(cards string) TestRoundOption {
	return func(b *testRoundBuilder) { b.loose = deck.MustParseCards(cards) }
}

func WithBuild(a, c string, owner int) TestRoundOption {
	return func(b *testRoundBuilder) {
		b.builds = append(b.builds, newBuild(deck.MustParseCard(a), deck.MustParseCard(c), owner))
	}
}

func WithStock(cards string) TestRoundOption {
	return func(b *testRoundBuilder) { b.stock = deck.MustParseCards(cards) }
}

func WithActive(seat int) TestRoundOption {
	return func(b *testRoundBuilder) { b.active = seat }
}

func WithLastCapturer(seat int) TestRoundOption {
	return func(b *testRoundBuilder) { b.lastCapturer = seat }
}

// NewTestRound builds an InPlay round from explicit containers. Cards not
// placed anywhere go to the discard so the 40-card invariant holds.
func NewTestRound(opts ...TestRoundOption) *Round {
	b := &testRoundBuilder{
		players:      []string{"alice", "bob"},
		hands:        make(map[int][]deck.Card),
		piles:        make(map[int][]deck.Card),
		lastCapturer: NoSeat,
	}
	for _, opt := range opts {
		opt(b)
	}

	r := &Round{
		Players:      make([]*Player, len(b.players)),
		Table:        Table{Loose: b.loose, Builds: b.builds},
		Stock:        b.stock,
		Active:       b.active,
		LastCapturer: b.lastCapturer,
		Phase:        InPlay,
		Seed:         42,
		sweptTo:      NoSeat,
	}
	for i, id := range b.players {
		r.Players[i] = &Player{ID: id, Seat: i, Hand: b.hands[i], Pile: b.piles[i]}
	}
	// a hand-built round is past its first play
	r.plays = 1

	used := r.Table.Cards()
	used = append(used, r.Stock...)
	for _, p := range r.Players {
		used = append(used, p.Hand...)
		used = append(used, p.Pile...)
	}
	for _, c := range deck.Full() {
		if !deck.Contains(used, c) {
			r.Discard = append(r.Discard, c)
		}
	}
	return r
}
