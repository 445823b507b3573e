package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mphaphulimavhungu/casino/internal/bot"
	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/protocol"
	"github.com/mphaphulimavhungu/casino/internal/server"
)

func startServer(t *testing.T) (string, *server.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	store := server.NewStore(server.SessionOptions{
		PlayerCount:     2,
		ReconnectWindow: 2 * time.Minute,
		AbandonPolicy:   server.PolicyStandIn,
		Seed:            7,
	}, quartz.NewReal(), logger)
	srv, err := server.NewServer("127.0.0.1:0", store, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		store.CloseAll()
		ts.Close()
	})
	return ts.URL, store
}

func TestWSURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8080":      "ws://localhost:8080/ws",
		"https://casino.example":     "wss://casino.example/ws",
		"ws://localhost:8080/ws":     "ws://localhost:8080/ws",
		"ws://localhost:8080/custom": "ws://localhost:8080/custom",
	}
	for in, want := range tests {
		got, err := wsURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := wsURL("ftp://nope")
	assert.Error(t, err)
}

func TestPlayersFinishRound(t *testing.T) {
	url, store := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	creator := NewClient(url, log.New(io.Discard))
	require.NoError(t, creator.Connect(ctx))
	defer creator.Disconnect()
	sessionID, err := creator.CreateAndWait(ctx, 2)
	require.NoError(t, err)

	strategies := []bot.Strategy{bot.Greedy{}, bot.Lowest{}}
	ends := make([]*struct{ winners []string }, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range []string{"alice", "bob"} {
		p := NewPlayer(PlayerOptions{ServerURL: url, SessionID: sessionID, PlayerID: name}, strategies[i], log.New(io.Discard))
		g.Go(func() error {
			end, err := p.Run(gctx)
			if err != nil {
				return err
			}
			ends[i] = &struct{ winners []string }{end.Winners}
			cards := end.Discarded
			for _, sc := range end.Scores {
				cards += sc.Cards
			}
			assert.Equal(t, deck.Size, cards)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.NotNil(t, ends[0])
	require.NotNil(t, ends[1])
	assert.Equal(t, ends[0].winners, ends[1].winners)
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestPlayerJoinFailure(t *testing.T) {
	url, _ := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := NewPlayer(PlayerOptions{ServerURL: url, SessionID: "missing", PlayerID: "alice"}, bot.Lowest{}, log.New(io.Discard))
	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SessionNotFound")
}

func TestCreateSessionRejected(t *testing.T) {
	url, _ := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewClient(url, log.New(io.Discard))
	require.NoError(t, c.Connect(ctx))
	defer c.Disconnect()

	_, err := c.CreateAndWait(ctx, 4)
	assert.Error(t, err)
}

func TestLoadClientConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  url                = "http://localhost:9000"
  reconnect_attempts = 5
}

player {
  name     = "alice"
  strategy = "random"
}
`), 0o644))

	config, err := LoadClientConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	opts := config.PlayerOptions("s-1")
	assert.Equal(t, "http://localhost:9000", opts.ServerURL)
	assert.Equal(t, "alice", opts.PlayerID)
	assert.Equal(t, "s-1", opts.SessionID)
	assert.Equal(t, 5, opts.ReconnectAttempts)
	assert.Equal(t, 10*time.Second, opts.ConnectTimeout)
	assert.Equal(t, 5*time.Second, opts.ReconnectDelay)
	assert.Equal(t, "random", config.Player.Strategy)

	missing, err := LoadClientConfig(filepath.Join(t.TempDir(), "none.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultClientConfig(), missing)
	assert.Error(t, missing.Validate(), "name is required")

	missing.Player.Name = "bob"
	missing.Player.Strategy = "psychic"
	assert.Error(t, missing.Validate())
}

func TestPlayerResyncsAfterMissedState(t *testing.T) {
	synced := make(chan struct{}, 1)
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		write := func(typ protocol.MessageType, data interface{}) {
			if msg, err := protocol.NewMessage(typ, data); err == nil {
				_ = conn.WriteJSON(msg)
			}
		}
		state := func(version uint64) protocol.StateData {
			return protocol.StateData{
				SessionID:    "s1",
				Version:      version,
				Phase:        "in_play",
				ActivePlayer: "bob",
				Players: []protocol.PlayerState{
					{ID: "alice", Seat: 0, HandSize: 1, Connected: true},
					{ID: "bob", Seat: 1, HandSize: 1, Connected: true},
				},
				Hand: deck.MustParseCards("2C"),
			}
		}

		for {
			var msg protocol.Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Type {
			case protocol.MessageTypeJoinSession:
				write(protocol.MessageTypeSessionJoined, protocol.SessionJoinedData{SessionID: "s1", PlayerID: "alice", Token: "tok"})
				write(protocol.MessageTypeState, state(1))
				write(protocol.MessageTypeState, state(3)) // version 2 never arrives
			case protocol.MessageTypeSync:
				select {
				case synced <- struct{}{}:
				default:
				}
				write(protocol.MessageTypeRoundEnd, protocol.RoundEndData{SessionID: "s1", Winners: []string{"bob"}})
			}
		}
	}))
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := NewPlayer(PlayerOptions{ServerURL: ts.URL, SessionID: "s1", PlayerID: "alice"}, bot.Greedy{}, log.New(io.Discard))
	end, err := p.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, []string{"bob"}, end.Winners)
	assert.Len(t, synced, 1, "a version gap triggers exactly one sync")
}
