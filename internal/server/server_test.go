package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store, _ := newTestStore(t, withTurnTimeout(0))
	srv, err := NewServer("127.0.0.1:0", store, log.New(io.Discard))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(typ protocol.MessageType, requestID string, data interface{}) {
	c.t.Helper()
	msg := protocol.MustMessage(typ, data)
	msg.RequestID = requestID
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) sendRaw(raw string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

// expect reads until a message of type typ arrives
func (c *wsClient) expect(typ protocol.MessageType, v interface{}) *protocol.Message {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(testTimeout)))
	for {
		var msg protocol.Message
		require.NoError(c.t, c.conn.ReadJSON(&msg))
		if msg.Type != typ {
			continue
		}
		if v != nil {
			require.NoError(c.t, msg.Decode(v))
		}
		return &msg
	}
}

func TestServerPlaysOverWebSocket(t *testing.T) {
	ts, store := newTestServer(t)
	alice, bob := dial(t, ts), dial(t, ts)

	alice.send(protocol.MessageTypeCreateSession, "req-1", protocol.CreateSessionData{PlayerCount: 2})
	var created protocol.SessionCreatedData
	msg := alice.expect(protocol.MessageTypeSessionCreated, &created)
	assert.Equal(t, "req-1", msg.RequestID)
	assert.Equal(t, 2, created.PlayerCount)
	assert.Equal(t, 1, store.Len())

	clients := map[string]*wsClient{"alice": alice, "bob": bob}
	for _, name := range []string{"alice", "bob"} {
		clients[name].send(protocol.MessageTypeJoinSession, "", protocol.JoinSessionData{SessionID: created.SessionID, PlayerID: name})
	}

	states := map[string]protocol.StateData{}
	for name, c := range clients {
		var joined protocol.SessionJoinedData
		c.expect(protocol.MessageTypeSessionJoined, &joined)
		assert.Equal(t, name, joined.PlayerID)
		var state protocol.StateData
		c.expect(protocol.MessageTypeState, &state)
		assert.Len(t, state.Hand, 10)
		states[name] = state
	}

	active := states["alice"].ActivePlayer
	idle := "bob"
	if active == "bob" {
		idle = "alice"
	}

	card := states[idle].Hand[0]
	clients[idle].send(protocol.MessageTypeAction, "", protocol.ActionData{Type: protocol.ActionThrow, PlayerID: idle, HandCard: &card})
	var rejected protocol.ErrorData
	clients[idle].expect(protocol.MessageTypeError, &rejected)
	assert.Equal(t, string(game.KindNotYourTurn), rejected.Code)

	card = states[active].Hand[0]
	clients[active].send(protocol.MessageTypeAction, "", protocol.ActionData{Type: protocol.ActionThrow, PlayerID: active, HandCard: &card})
	for _, c := range clients {
		var state protocol.StateData
		c.expect(protocol.MessageTypeState, &state)
		assert.Equal(t, uint64(2), state.Version)
		assert.Equal(t, idle, state.ActivePlayer)
	}
}

func TestServerRejectsInvalidMessages(t *testing.T) {
	ts, _ := newTestServer(t)
	c := dial(t, ts)

	var data protocol.ErrorData
	c.sendRaw(`{"type":"action","data":{"type":"fold","playerId":"alice","handCard":"AS"}}`)
	c.expect(protocol.MessageTypeError, &data)
	assert.Equal(t, string(game.KindMalformedAction), data.Code)

	c.sendRaw(`{"type":"action","data":{"type":"throw","playerId":"alice","handCard":"11X"}}`)
	c.expect(protocol.MessageTypeError, &data)
	assert.Equal(t, string(game.KindMalformedAction), data.Code)

	c.sendRaw(`{"type":"create_session","data":{"playerCount":5}}`)
	c.expect(protocol.MessageTypeError, &data)
	assert.Equal(t, ErrInvalidMessage.Code, data.Code)

	c.sendRaw(`not json`)
	c.expect(protocol.MessageTypeError, &data)
	assert.Equal(t, ErrInvalidMessage.Code, data.Code)

	c.send(protocol.MessageTypeSync, "", struct{}{})
	c.expect(protocol.MessageTypeError, &data)
	assert.Equal(t, ErrNotJoined.Code, data.Code)

	c.send(protocol.MessageTypeJoinSession, "", protocol.JoinSessionData{SessionID: "missing", PlayerID: "alice"})
	c.expect(protocol.MessageTypeError, &data)
	assert.Equal(t, ErrSessionNotFound.Code, data.Code)
}

func TestServerHealth(t *testing.T) {
	ts, store := newTestServer(t)
	_, err := store.Create(2)
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)
}
