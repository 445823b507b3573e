package protocol

import (
	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/game"
)

// SeatStatus is the connection status of a seat, supplied by the session
type SeatStatus struct {
	Connected bool
	StandIn   bool
}

// StateFromView builds the state snapshot for one recipient. The hand is
// only included when the view belongs to a seat.
func StateFromView(sessionID string, version uint64, v game.View, status []SeatStatus) StateData {
	idOf := func(seat int) string {
		if seat < 0 || seat >= len(v.Players) {
			return ""
		}
		return v.Players[seat].ID
	}

	s := StateData{
		SessionID:    sessionID,
		Version:      version,
		Phase:        v.Phase.String(),
		Table:        TableState{Loose: v.Loose, Builds: make([]BuildState, len(v.Builds))},
		Players:      make([]PlayerState, len(v.Players)),
		StockSize:    v.StockSize,
		LastCapturer: idOf(v.LastCapturer),
		Starter:      v.Starter,
		ExchangeOpen: v.ExchangeOpen,
		Hand:         v.Hand,
	}
	if v.Phase == game.InPlay {
		s.ActivePlayer = idOf(v.Active)
	}
	if s.Table.Loose == nil {
		s.Table.Loose = []deck.Card{}
	}
	for i, b := range v.Builds {
		s.Table.Builds[i] = BuildState{Cards: b.Cards, Value: b.Value, Owner: idOf(b.Owner)}
	}
	for i, p := range v.Players {
		ps := PlayerState{ID: p.ID, Seat: p.Seat, HandSize: p.HandSize, PileSize: p.PileSize, PileTop: p.PileTop}
		if i < len(status) {
			ps.Connected = status[i].Connected
			ps.StandIn = status[i].StandIn
		}
		s.Players[i] = ps
	}
	return s
}

// ScoresFor pairs per-seat scores with player ids
func ScoresFor(r *game.Round, scores []game.Score) []PlayerScore {
	out := make([]PlayerScore, len(scores))
	for i, sc := range scores {
		out[i] = PlayerScore{PlayerID: r.Players[i].ID, Seat: i, Score: sc}
	}
	return out
}

// RoundEnd summarizes a scored round
func RoundEnd(sessionID string, r *game.Round) RoundEndData {
	scores := r.Scores()
	swept, to := r.Sweep()
	d := RoundEndData{
		SessionID: sessionID,
		Seed:      r.Seed,
		Scores:    ScoresFor(r, scores),
		Swept:     swept,
		Discarded: len(r.Discard),
	}
	if d.Swept == nil {
		d.Swept = []deck.Card{}
	}
	if to != game.NoSeat {
		d.SweptTo = r.Players[to].ID
	}
	for _, seat := range game.Winners(scores) {
		d.Winners = append(d.Winners, r.Players[seat].ID)
	}
	return d
}

// View reconstructs the engine view carried by a state snapshot for the
// seat that received it. Bots use it to generate moves client side.
func (s StateData) View(self string) game.View {
	seatOf := map[string]int{}
	for _, p := range s.Players {
		seatOf[p.ID] = p.Seat
	}
	lookup := func(id string) int {
		if seat, ok := seatOf[id]; ok {
			return seat
		}
		return game.NoSeat
	}

	v := game.View{
		Viewer:       lookup(self),
		Active:       lookup(s.ActivePlayer),
		LastCapturer: lookup(s.LastCapturer),
		Loose:        s.Table.Loose,
		Players:      make([]game.PlayerView, len(s.Players)),
		StockSize:    s.StockSize,
		Starter:      s.Starter,
		ExchangeOpen: s.ExchangeOpen,
		Hand:         s.Hand,
	}
	switch s.Phase {
	case game.InPlay.String():
		v.Phase = game.InPlay
	case game.Dealing.String():
		v.Phase = game.Dealing
	case game.RoundEnd.String():
		v.Phase = game.RoundEnd
	default:
		v.Phase = game.Scored
	}
	for _, b := range s.Table.Builds {
		v.Builds = append(v.Builds, game.Build{Cards: b.Cards, Value: b.Value, Owner: lookup(b.Owner)})
	}
	for i, p := range s.Players {
		v.Players[i] = game.PlayerView{ID: p.ID, Seat: p.Seat, HandSize: p.HandSize, PileSize: p.PileSize, PileTop: p.PileTop}
	}
	return v
}
