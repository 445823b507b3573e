package server

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

const testTimeout = 2 * time.Second

// testSink records messages a session sends to one player
type testSink struct {
	id   string
	msgs chan *protocol.Message
}

func newTestSink(id string) *testSink {
	return &testSink{id: id, msgs: make(chan *protocol.Message, 1024)}
}

func (s *testSink) ID() string { return s.id }

func (s *testSink) Send(msg *protocol.Message) error {
	select {
	case s.msgs <- msg:
		return nil
	default:
		return errors.New("test sink full")
	}
}

// expect returns the next message of type typ, skipping others
func (s *testSink) expect(t *testing.T, typ protocol.MessageType) *protocol.Message {
	t.Helper()
	deadline := time.After(testTimeout)
	for {
		select {
		case msg := <-s.msgs:
			if msg.Type == typ {
				return msg
			}
		case <-deadline:
			t.Fatalf("%s: timed out waiting for %s", s.id, typ)
			return nil
		}
	}
}

func (s *testSink) expectState(t *testing.T) protocol.StateData {
	t.Helper()
	var state protocol.StateData
	require.NoError(t, s.expect(t, protocol.MessageTypeState).Decode(&state))
	return state
}

func (s *testSink) expectError(t *testing.T) protocol.ErrorData {
	t.Helper()
	var data protocol.ErrorData
	require.NoError(t, s.expect(t, protocol.MessageTypeError).Decode(&data))
	return data
}

func (s *testSink) drain() {
	for {
		select {
		case <-s.msgs:
		default:
			return
		}
	}
}

type sessionOption func(*SessionOptions)

func withTurnTimeout(d time.Duration) sessionOption {
	return func(o *SessionOptions) { o.TurnTimeout = d }
}

func withPolicy(p AbandonPolicy) sessionOption {
	return func(o *SessionOptions) { o.AbandonPolicy = p }
}

func withPlayers(n int) sessionOption {
	return func(o *SessionOptions) { o.PlayerCount = n }
}

func newTestStore(t *testing.T, opts ...sessionOption) (*Store, *quartz.Mock) {
	t.Helper()
	o := SessionOptions{
		PlayerCount:       2,
		TurnTimeout:       45 * time.Second,
		ReconnectWindow:   2 * time.Minute,
		AbandonPolicy:     PolicyStandIn,
		Seed:              42,
		ShowRunningScores: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	mClock := quartz.NewMock(t)
	store := NewStore(o, mClock, log.New(io.Discard))
	t.Cleanup(store.CloseAll)
	return store, mClock
}

// seated is a player joined to a test session
type seated struct {
	sink   *testSink
	joined protocol.SessionJoinedData
	state  protocol.StateData // first state after the round started
}

// startSession creates a session and joins alice and bob (and carol for
// three players), returning them by seat.
func startSession(t *testing.T, store *Store) (*Session, []*seated) {
	t.Helper()
	s, err := store.Create(0)
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol"}[:s.PlayerCount()]
	players := make([]*seated, len(names))
	for i, name := range names {
		sink := newTestSink(name + "-conn")
		joined, err := s.Join(sink, name, "")
		require.NoError(t, err)
		players[i] = &seated{sink: sink, joined: joined}
	}
	for _, p := range players {
		p.sink.expect(t, protocol.MessageTypeSessionJoined)
		p.state = p.sink.expectState(t)
	}
	return s, players
}

// inspect runs f on the session goroutine
func inspect(t *testing.T, s *Session, f func()) {
	t.Helper()
	require.NoError(t, s.do(f))
}
