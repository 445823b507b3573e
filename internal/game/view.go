package game

import "github.com/mphaphulimavhungu/casino/internal/deck"

// PlayerView is the public part of a seat
type PlayerView struct {
	ID       string
	Seat     int
	HandSize int
	PileSize int
	PileTop  *deck.Card
}

// View is the round as seen by one seat: everything public plus that
// seat's own hand. Other hands are reduced to their size.
type View struct {
	Viewer       int
	Phase        Phase
	Active       int
	LastCapturer int
	Loose        []deck.Card
	Builds       []Build
	Players      []PlayerView
	StockSize    int
	Starter      *deck.Card
	ExchangeOpen bool
	Hand         []deck.Card
}

// View projects the round for viewer. Pass NoSeat for a spectator view
// with no hand.
func (r *Round) View(viewer int) View {
	v := View{
		Viewer:       viewer,
		Phase:        r.Phase,
		Active:       r.Active,
		LastCapturer: r.LastCapturer,
		Loose:        append([]deck.Card{}, r.Table.Loose...),
		Builds:       append([]Build{}, r.Table.Builds...),
		Players:      make([]PlayerView, len(r.Players)),
		StockSize:    len(r.Stock),
		ExchangeOpen: r.ExchangeOpen(),
	}
	for i, p := range r.Players {
		pv := PlayerView{ID: p.ID, Seat: p.Seat, HandSize: len(p.Hand), PileSize: len(p.Pile)}
		if top, ok := p.PileTop(); ok {
			pv.PileTop = &top
		}
		v.Players[i] = pv
	}
	if r.Starter.IsValid() {
		s := r.Starter
		v.Starter = &s
	}
	if viewer >= 0 && viewer < len(r.Players) {
		v.Hand = append([]deck.Card{}, r.Players[viewer].Hand...)
	}
	return v
}
