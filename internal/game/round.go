package game

import (
	"fmt"

	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/randutil"
)

const (
	MinPlayers = 2
	MaxPlayers = 3

	// NoSeat marks an absent seat, e.g. no capture yet this round
	NoSeat = -1

	twoPlayerHand   = 10
	threePlayerHand = 13
)

var threeOfHearts = deck.NewCard(deck.Hearts, deck.Three)

// Player is one seat's private hand and captured pile. The top of the pile
// is the last element and is visible to everyone.
type Player struct {
	ID   string
	Seat int
	Hand []deck.Card
	Pile []deck.Card
}

// PileTop returns the visible top of the captured pile
func (p *Player) PileTop() (deck.Card, bool) {
	if len(p.Pile) == 0 {
		return deck.Card{}, false
	}
	return p.Pile[len(p.Pile)-1], true
}

// Config configures a new round
type Config struct {
	PlayerIDs []string
	Seed      int64
}

// Round is the complete state of one deal from shuffle to scoring
type Round struct {
	Players      []*Player
	Table        Table
	Stock        []deck.Card
	Discard      []deck.Card
	Active       int
	LastCapturer int
	Phase        Phase
	Seed         int64

	// Starter is the 40th card in a three-player round; zero otherwise
	Starter deck.Card

	exchangeOpen bool
	plays        int
	secondDealt  bool
	sweptTo      int
	swept        []deck.Card
	scores       []Score
}

// NewRound shuffles a fresh deck from cfg.Seed, deals and picks the
// starting seat. The returned round is InPlay.
func NewRound(cfg Config) (*Round, error) {
	n := len(cfg.PlayerIDs)
	if n < MinPlayers || n > MaxPlayers {
		return nil, fmt.Errorf("player count must be %d or %d, got %d", MinPlayers, MaxPlayers, n)
	}
	seen := make(map[string]bool, n)
	for _, id := range cfg.PlayerIDs {
		if id == "" {
			return nil, fmt.Errorf("player id must not be empty")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate player id %q", id)
		}
		seen[id] = true
	}

	r := &Round{
		Players:      make([]*Player, n),
		LastCapturer: NoSeat,
		Phase:        Dealing,
		Seed:         cfg.Seed,
		sweptTo:      NoSeat,
	}
	for i, id := range cfg.PlayerIDs {
		r.Players[i] = &Player{ID: id, Seat: i}
	}

	rng := randutil.New(cfg.Seed)
	d := deck.NewShuffled(rng)
	if n == 2 {
		for _, p := range r.Players {
			p.Hand = d.DealN(twoPlayerHand)
		}
		r.Stock = d.DealN(d.Remaining())
	} else {
		for _, p := range r.Players {
			p.Hand = d.DealN(threePlayerHand)
		}
		starter, _ := d.Deal()
		r.Starter = starter
		r.Table.Loose = []deck.Card{starter}
		r.exchangeOpen = starter != threeOfHearts
	}

	r.Active = rng.IntN(n)
	r.Phase = InPlay
	return r, nil
}

// Seats returns the number of players
func (r *Round) Seats() int {
	return len(r.Players)
}

// SeatOf returns the seat held by player id
func (r *Round) SeatOf(id string) (int, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p.Seat, true
		}
	}
	return NoSeat, false
}

// ExchangeOpen reports whether the 3♥ holder may still swap for the starter
func (r *Round) ExchangeOpen() bool {
	return r.exchangeOpen && r.plays == 0
}

// Plays returns the number of accepted turn actions
func (r *Round) Plays() int {
	return r.plays
}

// SecondDealt reports whether the two-player second deal has happened
func (r *Round) SecondDealt() bool {
	return r.secondDealt
}

// Sweep returns the cards moved by the end-of-round sweep and the seat that
// received them, or NoSeat if they went to the discard.
func (r *Round) Sweep() ([]deck.Card, int) {
	return append([]deck.Card(nil), r.swept...), r.sweptTo
}

// Scores returns the per-seat scores once the round is Scored
func (r *Round) Scores() []Score {
	if r.Phase != Scored {
		return nil
	}
	return append([]Score(nil), r.scores...)
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	c := *r
	c.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		c.Players[i] = &Player{
			ID:   p.ID,
			Seat: p.Seat,
			Hand: append([]deck.Card(nil), p.Hand...),
			Pile: append([]deck.Card(nil), p.Pile...),
		}
	}
	c.Table = r.Table.clone()
	c.Stock = append([]deck.Card(nil), r.Stock...)
	c.Discard = append([]deck.Card(nil), r.Discard...)
	c.swept = append([]deck.Card(nil), r.swept...)
	c.scores = append([]Score(nil), r.scores...)
	return &c
}

// Result describes the effect of an accepted action
type Result struct {
	Seat       int
	Action     Action
	Captured   []deck.Card // cards added to the actor's pile, played card last
	Build      *Build
	SecondDeal bool
	RoundOver  bool
}

// Apply validates a and, if legal, performs it for seat. A rejected action
// returns a *Error and leaves the round untouched.
func (r *Round) Apply(seat int, a Action) (Result, error) {
	if err := r.Validate(seat, a); err != nil {
		return Result{}, err
	}
	if a.Kind == ActionExchange {
		r.exchange(seat)
		return Result{Seat: seat, Action: a}, nil
	}

	res := r.execute(seat, a)
	r.plays++
	r.exchangeOpen = false
	r.advance(seat, &res)
	return res, nil
}

// Transition applies a to a clone of r and returns the new state, leaving r
// unchanged.
func Transition(r *Round, seat int, a Action) (*Round, Result, error) {
	if err := r.Validate(seat, a); err != nil {
		return r, Result{}, err
	}
	next := r.Clone()
	res, err := next.Apply(seat, a)
	return next, res, err
}

func (r *Round) execute(seat int, a Action) Result {
	p := r.Players[seat]
	if a.Kind != ActionStealBuild {
		p.Hand, _ = deck.Remove(p.Hand, a.HandCard)
	}
	res := Result{Seat: seat, Action: a}

	switch a.Kind {
	case ActionThrow:
		r.Table.Loose = append(r.Table.Loose, a.HandCard)

	case ActionCaptureSingle:
		r.Table.removeLoose(a.TableCard)
		res.Captured = []deck.Card{a.TableCard, a.HandCard}
		p.Pile = append(p.Pile, res.Captured...)
		r.LastCapturer = seat

	case ActionCaptureBuild:
		b := r.Table.removeBuild(r.Table.BuildIndex(a.Target[0], a.Target[1]))
		res.Captured = []deck.Card{b.Cards[0], b.Cards[1], a.HandCard}
		p.Pile = append(p.Pile, res.Captured...)
		r.LastCapturer = seat

	case ActionCreateBuild:
		r.Table.removeLoose(a.TableCard)
		b := newBuild(a.HandCard, a.TableCard, seat)
		r.Table.Builds = append(r.Table.Builds, b)
		res.Build = &b

	case ActionStealBuild:
		victim := r.Players[a.FromSeat]
		victim.Pile = victim.Pile[:len(victim.Pile)-1]
		r.Table.removeLoose(a.TableCard)
		b := newBuild(a.StolenCard, a.TableCard, seat)
		r.Table.Builds = append(r.Table.Builds, b)
		res.Build = &b
	}
	return res
}

func (r *Round) exchange(seat int) {
	p := r.Players[seat]
	p.Hand, _ = deck.Remove(p.Hand, threeOfHearts)
	p.Hand = append(p.Hand, r.Starter)
	for i, c := range r.Table.Loose {
		if c == r.Starter {
			r.Table.Loose[i] = threeOfHearts
			break
		}
	}
	r.Starter = threeOfHearts
	r.exchangeOpen = false
}

// advance moves the turn clockwise past seats with empty hands, dealing the
// second hand or closing the round when every hand is exhausted.
func (r *Round) advance(actor int, res *Result) {
	if r.handsEmpty() {
		if len(r.Stock) == 0 {
			r.finish()
			res.RoundOver = true
			return
		}
		r.dealSecond()
		res.SecondDeal = true
	}
	r.Active = r.nextWithCards(actor + 1)
}

func (r *Round) handsEmpty() bool {
	for _, p := range r.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

func (r *Round) nextWithCards(from int) int {
	n := len(r.Players)
	for i := 0; i < n; i++ {
		s := (from + i) % n
		if len(r.Players[s].Hand) > 0 {
			return s
		}
	}
	return from % n
}

func (r *Round) dealSecond() {
	r.Phase = Dealing
	for _, p := range r.Players {
		k := min(twoPlayerHand, len(r.Stock))
		p.Hand = append(p.Hand, r.Stock[:k]...)
		r.Stock = r.Stock[k:]
	}
	r.Stock = nil
	r.secondDealt = true
	r.Phase = InPlay
}

// finish sweeps the table to the last capturer (or the discard) and scores
func (r *Round) finish() {
	r.Phase = RoundEnd
	swept := r.Table.Cards()
	r.Table = Table{}
	r.swept = swept
	if r.LastCapturer != NoSeat {
		p := r.Players[r.LastCapturer]
		p.Pile = append(p.Pile, swept...)
		r.sweptTo = r.LastCapturer
	} else {
		r.Discard = append(r.Discard, swept...)
		r.sweptTo = NoSeat
	}

	piles := make([][]deck.Card, len(r.Players))
	for i, p := range r.Players {
		piles[i] = p.Pile
	}
	r.scores = ScorePiles(piles)
	r.Phase = Scored
}
