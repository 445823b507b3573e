package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/mphaphulimavhungu/casino/internal/bot"
	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

// AbandonPolicy decides what happens to a seat whose reconnection window
// runs out
type AbandonPolicy string

const (
	PolicyStandIn AbandonPolicy = "standin"
	PolicyForfeit AbandonPolicy = "forfeit"
)

// SessionOptions configures a session
type SessionOptions struct {
	PlayerCount       int
	TurnTimeout       time.Duration // zero disables the turn timer
	ReconnectWindow   time.Duration
	AbandonPolicy     AbandonPolicy
	Seed              int64 // zero means generate one per session
	ShowRunningScores bool
}

// Validate range-checks the options
func (o SessionOptions) Validate() error {
	if o.PlayerCount < game.MinPlayers || o.PlayerCount > game.MaxPlayers {
		return fmt.Errorf("player count must be %d or %d, got %d", game.MinPlayers, game.MaxPlayers, o.PlayerCount)
	}
	if o.TurnTimeout != 0 && (o.TurnTimeout < minTurnTimeout || o.TurnTimeout > maxTurnTimeout) {
		return fmt.Errorf("turn timeout must be between %s and %s or 0, got %s", minTurnTimeout, maxTurnTimeout, o.TurnTimeout)
	}
	if o.ReconnectWindow < minReconnectWindow || o.ReconnectWindow > maxReconnectWindow {
		return fmt.Errorf("reconnect window must be between %s and %s, got %s", minReconnectWindow, maxReconnectWindow, o.ReconnectWindow)
	}
	switch o.AbandonPolicy {
	case PolicyStandIn, PolicyForfeit:
	default:
		return fmt.Errorf("abandon policy must be %q or %q, got %q", PolicyStandIn, PolicyForfeit, o.AbandonPolicy)
	}
	return nil
}

// Sink delivers messages to one client connection. Send must not block.
type Sink interface {
	ID() string
	Send(msg *protocol.Message) error
}

// A seat with no playerID is vacant; it is only vacant before the round
// starts.
type seat struct {
	playerID    string
	token       string
	sink        Sink // nil while disconnected
	standIn     bool
	epoch       uint64 // bumped on every (re)connect so stale reconnect timers do nothing
	timer       *quartz.Timer
	reconnectBy time.Time
}

// Session owns one round and is its only mutator. Every operation runs on
// the session goroutine, one at a time, so validate-then-apply is never
// interleaved. Exported methods are safe for concurrent use.
type Session struct {
	id      string
	opts    SessionOptions
	seed    int64
	clock   quartz.Clock
	logger  *log.Logger
	onClose func(*Session)

	inbox    chan func()
	done     chan struct{}
	stopOnce sync.Once

	// owned by the session goroutine
	seats     []*seat
	round     *game.Round
	version   uint64
	turnSeq   uint64
	turnTimer *quartz.Timer
	deadline  time.Time
	last      *protocol.ActionData
	lastSeat  int
	closed    bool
}

func newSession(id string, opts SessionOptions, seed int64, clock quartz.Clock, logger *log.Logger, onClose func(*Session)) *Session {
	s := &Session{
		id:      id,
		opts:    opts,
		seed:    seed,
		clock:   clock,
		logger:  logger.With("id", id),
		onClose: onClose,
		inbox:   make(chan func()),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// PlayerCount returns the number of seats
func (s *Session) PlayerCount() int {
	return s.opts.PlayerCount
}

// Done is closed once the session has ended
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) run() {
	for {
		select {
		case f := <-s.inbox:
			f()
		case <-s.done:
			return
		}
	}
}

func (s *Session) enqueue(f func()) bool {
	select {
	case s.inbox <- f:
		return true
	case <-s.done:
		return false
	}
}

// do runs f on the session goroutine and waits for it to return
func (s *Session) do(f func()) error {
	finished := make(chan struct{})
	if !s.enqueue(func() {
		defer close(finished)
		f()
	}) {
		return ErrSessionClosed
	}
	<-finished
	return nil
}

// Join seats playerID, or reconnects it when token matches the one issued
// on first join. The round starts once every seat is filled.
func (s *Session) Join(sink Sink, playerID, token string) (protocol.SessionJoinedData, error) {
	var (
		joined protocol.SessionJoinedData
		err    error
	)
	if e := s.do(func() { joined, err = s.join(sink, playerID, token) }); e != nil {
		return joined, e
	}
	return joined, err
}

// Submit validates and applies an action from the player bound to sink.
// A rejection is sent back to sink only and leaves the round and the turn
// timer untouched.
func (s *Session) Submit(sink Sink, data protocol.ActionData) error {
	var err error
	if e := s.do(func() { err = s.submit(sink, data) }); e != nil {
		return e
	}
	return err
}

// Sync resends the current state to sink
func (s *Session) Sync(sink Sink) error {
	var err error
	if e := s.do(func() { err = s.sync(sink) }); e != nil {
		return e
	}
	return err
}

// Disconnect detaches sink from its seat and opens the reconnection window.
// Before the round starts the seat is simply released.
func (s *Session) Disconnect(sink Sink) {
	_ = s.do(func() { s.disconnect(sink) })
}

// Close ends the session without scoring
func (s *Session) Close() {
	_ = s.do(func() { s.abort("server shutting down") })
}

func (s *Session) seatOf(sink Sink) int {
	for i, st := range s.seats {
		if st.sink != nil && st.sink.ID() == sink.ID() {
			return i
		}
	}
	return game.NoSeat
}

func (s *Session) playerID(seat int) string {
	if seat < 0 || seat >= len(s.seats) {
		return ""
	}
	return s.seats[seat].playerID
}

func (s *Session) join(sink Sink, playerID, token string) (protocol.SessionJoinedData, error) {
	if s.closed {
		return protocol.SessionJoinedData{}, ErrSessionClosed
	}
	if s.seatOf(sink) != game.NoSeat {
		return protocol.SessionJoinedData{}, ErrAlreadyJoined
	}
	for i, st := range s.seats {
		if st.playerID == "" || st.playerID != playerID {
			continue
		}
		switch {
		case token != "" && token == st.token:
			return s.reconnect(i, sink), nil
		case token == "" && st.sink != nil:
			return protocol.SessionJoinedData{}, ErrSeatTaken
		default:
			return protocol.SessionJoinedData{}, ErrInvalidToken
		}
	}
	if s.filled() >= s.opts.PlayerCount {
		return protocol.SessionJoinedData{}, ErrSessionFull
	}

	st := &seat{playerID: playerID, token: uuid.NewString(), sink: sink}
	at := s.vacancy()
	if at == len(s.seats) {
		s.seats = append(s.seats, st)
	} else {
		s.seats[at] = st
	}
	joined := protocol.SessionJoinedData{
		SessionID: s.id,
		PlayerID:  playerID,
		Seat:      at,
		Token:     st.token,
	}
	s.logger.Info("Player joined", "player", playerID, "seat", joined.Seat)
	s.send(sink, protocol.MessageTypeSessionJoined, joined)

	if s.filled() == s.opts.PlayerCount {
		s.startRound()
	}
	return joined, nil
}

func (s *Session) filled() int {
	n := 0
	for _, st := range s.seats {
		if st.playerID != "" {
			n++
		}
	}
	return n
}

// vacancy returns the first vacant seat, or len(s.seats) when none is
func (s *Session) vacancy() int {
	for i, st := range s.seats {
		if st.playerID == "" {
			return i
		}
	}
	return len(s.seats)
}

func (s *Session) reconnect(i int, sink Sink) protocol.SessionJoinedData {
	st := s.seats[i]
	st.sink = sink
	st.epoch++
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.reconnectBy = time.Time{}
	st.standIn = false

	joined := protocol.SessionJoinedData{
		SessionID:   s.id,
		PlayerID:    st.playerID,
		Seat:        i,
		Token:       st.token,
		Reconnected: true,
	}
	s.logger.Info("Player reconnected", "player", st.playerID, "seat", i)
	s.send(sink, protocol.MessageTypeSessionJoined, joined)
	s.broadcastStatus(i, protocol.StatusConnected)
	if s.round != nil {
		s.broadcastState()
	}
	return joined
}

func (s *Session) startRound() {
	ids := make([]string, len(s.seats))
	for i, st := range s.seats {
		ids[i] = st.playerID
	}
	r, err := game.NewRound(game.Config{PlayerIDs: ids, Seed: s.seed})
	if err != nil {
		s.abort(err.Error())
		return
	}
	s.round = r
	s.logger.Info("Round started", "players", ids, "first", ids[r.Active])

	s.armTurn()
	s.broadcastState()
}

func (s *Session) submit(sink Sink, data protocol.ActionData) error {
	err := s.trySubmit(sink, data)
	if err != nil {
		s.send(sink, protocol.MessageTypeError, errorData(err))
	}
	return err
}

func (s *Session) trySubmit(sink Sink, data protocol.ActionData) error {
	if s.closed {
		return ErrSessionClosed
	}
	seat := s.seatOf(sink)
	if seat == game.NoSeat {
		return ErrNotJoined
	}
	if s.round == nil {
		return ErrWaitingOnPlayers
	}
	if data.PlayerID != s.seats[seat].playerID {
		return &game.Error{Kind: game.KindMalformedAction, Msg: "playerId does not match this connection"}
	}

	a, err := data.ToAction(s.round.SeatOf)
	if err != nil {
		return err
	}
	res, err := s.round.Apply(seat, a)
	if err != nil {
		s.logger.Debug("Action rejected", "player", data.PlayerID, "action", a, "error", err)
		return err
	}
	s.logger.Debug("Action accepted", "player", data.PlayerID, "action", a)
	s.accepted(seat, a, res)
	return nil
}

// accepted publishes an applied action and lets any stand-ins play
func (s *Session) accepted(seat int, a game.Action, res game.Result) {
	if s.commit(seat, a, res) {
		s.playStandIns()
	}
}

// commit checks invariants, re-arms the turn and broadcasts. It reports
// whether the round is still in play.
func (s *Session) commit(seat int, a game.Action, res game.Result) bool {
	last := protocol.FromAction(a, s.playerID(seat), s.playerID)
	s.last = &last
	s.lastSeat = seat

	if err := s.round.CheckInvariants(); err != nil {
		s.abort(err.Error())
		return false
	}
	if res.RoundOver {
		s.finishRound()
		return false
	}
	if a.Kind != game.ActionExchange {
		s.armTurn()
	}
	s.broadcastState()
	return true
}

func (s *Session) playStandIns() {
	for !s.closed && s.round.Phase == game.InPlay && s.seats[s.round.Active].standIn {
		seat := s.round.Active
		a, ok := bot.Lowest{}.Choose(s.round.View(seat))
		if !ok {
			return
		}
		res, err := s.round.Apply(seat, a)
		if err != nil {
			s.abort(fmt.Sprintf("stand-in move rejected: %v", err))
			return
		}
		s.logger.Info("Stand-in played", "player", s.playerID(seat), "action", a)
		if !s.commit(seat, a, res) {
			return
		}
	}
}

func (s *Session) armTurn() {
	s.stopTurn()
	s.turnSeq++
	if s.opts.TurnTimeout <= 0 {
		return
	}
	seq := s.turnSeq
	s.deadline = s.clock.Now().Add(s.opts.TurnTimeout)
	s.turnTimer = s.clock.AfterFunc(s.opts.TurnTimeout, func() {
		s.enqueue(func() { s.turnExpired(seq) })
	}, "turn")
}

func (s *Session) stopTurn() {
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}
	s.deadline = time.Time{}
}

// turnExpired throws the active seat's lowest card. A timer from an
// earlier turn carries an old sequence number and is ignored.
func (s *Session) turnExpired(seq uint64) {
	if s.closed || s.round == nil || seq != s.turnSeq || s.round.Phase != game.InPlay {
		return
	}
	seat := s.round.Active
	a, ok := s.round.ForcedThrow(seat)
	if !ok {
		return
	}
	res, err := s.round.Apply(seat, a)
	if err != nil {
		s.abort(fmt.Sprintf("forced throw rejected: %v", err))
		return
	}

	s.logger.Warn("Turn timed out", "player", s.playerID(seat), "card", a.HandCard)
	s.broadcast(protocol.MessageTypePlayerTimeout, protocol.PlayerTimeoutData{
		PlayerID: s.playerID(seat),
		Seat:     seat,
		Action:   protocol.FromAction(a, s.playerID(seat), s.playerID),
	})
	s.accepted(seat, a, res)
}

func (s *Session) sync(sink Sink) error {
	seat := s.seatOf(sink)
	if seat == game.NoSeat {
		s.send(sink, protocol.MessageTypeError, errorData(ErrNotJoined))
		return ErrNotJoined
	}
	if s.round == nil {
		s.send(sink, protocol.MessageTypeError, errorData(ErrWaitingOnPlayers))
		return ErrWaitingOnPlayers
	}
	s.send(sink, protocol.MessageTypeState, s.stateFor(seat))
	return nil
}

func (s *Session) disconnect(sink Sink) {
	i := s.seatOf(sink)
	if i == game.NoSeat || s.closed {
		return
	}
	st := s.seats[i]
	st.sink = nil

	if s.round == nil {
		s.seats[i] = &seat{}
		s.logger.Info("Player left before start", "player", st.playerID, "seat", i)
		return
	}

	st.epoch++
	epoch := st.epoch
	st.reconnectBy = s.clock.Now().Add(s.opts.ReconnectWindow)
	st.timer = s.clock.AfterFunc(s.opts.ReconnectWindow, func() {
		s.enqueue(func() { s.reconnectExpired(i, epoch) })
	}, "reconnect", st.playerID)

	s.logger.Info("Player disconnected", "player", st.playerID, "window", s.opts.ReconnectWindow)
	s.broadcastStatus(i, protocol.StatusDisconnected)
	s.broadcastState()
}

func (s *Session) reconnectExpired(i int, epoch uint64) {
	st := s.seats[i]
	if s.closed || st.sink != nil || st.epoch != epoch {
		return
	}
	st.timer = nil
	st.reconnectBy = time.Time{}

	if s.opts.AbandonPolicy == PolicyForfeit {
		s.logger.Warn("Player forfeited", "player", st.playerID)
		s.broadcastStatus(i, protocol.StatusForfeited)
		s.forfeit(i)
		return
	}

	st.standIn = true
	s.logger.Warn("Stand-in taking over", "player", st.playerID)
	s.broadcastStatus(i, protocol.StatusStandIn)
	s.broadcastState()
	s.playStandIns()
}

func (s *Session) forfeit(i int) {
	scores := s.round.RunningScores()
	end := protocol.RoundEndData{
		SessionID: s.id,
		Seed:      s.seed,
		Scores:    protocol.ScoresFor(s.round, scores),
		Forfeited: s.playerID(i),
	}
	best := -1
	for seat, sc := range scores {
		if seat == i {
			continue
		}
		switch {
		case sc.Total > best:
			best = sc.Total
			end.Winners = []string{s.playerID(seat)}
		case sc.Total == best:
			end.Winners = append(end.Winners, s.playerID(seat))
		}
	}
	s.broadcast(protocol.MessageTypeRoundEnd, end)
	s.stop()
}

func (s *Session) finishRound() {
	s.stopTurn()
	s.broadcastState()
	end := protocol.RoundEnd(s.id, s.round)
	s.logger.Info("Round scored", "winners", end.Winners, "seed", s.seed)
	s.broadcast(protocol.MessageTypeRoundEnd, end)
	s.stop()
}

// abort ends the session after an unrecoverable failure
func (s *Session) abort(reason string) {
	if s.closed {
		return
	}
	s.logger.Error("Session aborted", "reason", reason)
	s.broadcast(protocol.MessageTypeSessionAborted, protocol.SessionAbortedData{
		SessionID: s.id,
		Reason:    reason,
	})
	s.stop()
}

func (s *Session) stop() {
	s.closed = true
	s.stopTurn()
	for _, st := range s.seats {
		if st.timer != nil {
			st.timer.Stop()
			st.timer = nil
		}
	}
	s.stopOnce.Do(func() {
		if s.onClose != nil {
			s.onClose(s)
		}
		close(s.done)
	})
}

func (s *Session) stateFor(seat int) protocol.StateData {
	status := make([]protocol.SeatStatus, len(s.seats))
	for i, st := range s.seats {
		status[i] = protocol.SeatStatus{Connected: st.sink != nil, StandIn: st.standIn}
	}
	state := protocol.StateFromView(s.id, s.version, s.round.View(seat), status)
	state.LastAction = s.lastActionFor(seat)
	if !s.deadline.IsZero() {
		d := s.deadline
		state.TurnDeadline = &d
	}
	if s.opts.ShowRunningScores || s.round.Phase == game.Scored {
		state.Scores = protocol.ScoresFor(s.round, s.round.RunningScores())
	}
	return state
}

// lastActionFor hides the capturing card of a steal-build from everyone but
// the stealer, since that card stays in their hand.
func (s *Session) lastActionFor(seat int) *protocol.ActionData {
	if s.last == nil || s.last.Type != protocol.ActionStealBuild || seat == s.lastSeat {
		return s.last
	}
	last := *s.last
	last.HandCard = nil
	return &last
}

// broadcastState bumps the version and sends every connected seat its own
// view
func (s *Session) broadcastState() {
	s.version++
	for i, st := range s.seats {
		if st.sink != nil {
			s.send(st.sink, protocol.MessageTypeState, s.stateFor(i))
		}
	}
}

func (s *Session) broadcastStatus(i int, status string) {
	st := s.seats[i]
	data := protocol.PlayerStatusData{PlayerID: st.playerID, Seat: i, Status: status}
	if !st.reconnectBy.IsZero() {
		by := st.reconnectBy
		data.ReconnectBy = &by
	}
	s.broadcast(protocol.MessageTypePlayerStatus, data)
}

func (s *Session) broadcast(t protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	for _, st := range s.seats {
		if st.sink != nil {
			s.deliver(st.sink, msg)
		}
	}
}

func (s *Session) send(sink Sink, t protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	s.deliver(sink, msg)
}

func (s *Session) deliver(sink Sink, msg *protocol.Message) {
	if err := sink.Send(msg); err != nil {
		s.logger.Debug("Failed to deliver message", "conn", sink.ID(), "type", msg.Type, "error", err)
	}
}
