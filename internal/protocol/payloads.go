package protocol

import (
	"time"

	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/game"
)

// Client → Server Messages

type CreateSessionData struct {
	PlayerCount int `json:"playerCount,omitempty"`
}

type JoinSessionData struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
	Token     string `json:"token,omitempty"` // reconnect token from session_joined
}

// ActionData is a player move. Type is one of capture, build, throw,
// steal-build or exchange.
type ActionData struct {
	Type         string      `json:"type"`
	PlayerID     string      `json:"playerId"`
	HandCard     *deck.Card  `json:"handCard,omitempty"`
	TableCard    *deck.Card  `json:"tableCard,omitempty"`
	BuildValue   int         `json:"buildValue,omitempty"`
	Target       []deck.Card `json:"target,omitempty"`
	PilePlayerID string      `json:"pilePlayerId,omitempty"`
	StolenCard   *deck.Card  `json:"stolenCard,omitempty"`
}

// Server → Client Messages

type SessionCreatedData struct {
	SessionID   string `json:"sessionId"`
	PlayerCount int    `json:"playerCount"`
}

type SessionJoinedData struct {
	SessionID   string `json:"sessionId"`
	PlayerID    string `json:"playerId"`
	Seat        int    `json:"seat"`
	Token       string `json:"token"`
	Reconnected bool   `json:"reconnected,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BuildState struct {
	Cards [2]deck.Card `json:"cards"`
	Value int          `json:"value"`
	Owner string       `json:"owner"`
}

type TableState struct {
	Loose  []deck.Card  `json:"loose"`
	Builds []BuildState `json:"builds"`
}

type PlayerState struct {
	ID        string     `json:"id"`
	Seat      int        `json:"seat"`
	HandSize  int        `json:"handSize"`
	PileSize  int        `json:"pileSize"`
	PileTop   *deck.Card `json:"pileTop,omitempty"`
	Connected bool       `json:"connected"`
	StandIn   bool       `json:"standIn,omitempty"`
}

type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
	game.Score
}

// StateData is the per-recipient snapshot sent after every accepted action.
// Hand is only ever the recipient's own.
type StateData struct {
	SessionID    string        `json:"sessionId"`
	Version      uint64        `json:"version"`
	Phase        string        `json:"phase"`
	ActivePlayer string        `json:"activePlayer,omitempty"`
	Table        TableState    `json:"table"`
	Players      []PlayerState `json:"players"`
	StockSize    int           `json:"stockSize"`
	LastCapturer string        `json:"lastCapturer,omitempty"`
	Starter      *deck.Card    `json:"starter,omitempty"`
	ExchangeOpen bool          `json:"exchangeOpen,omitempty"`
	Scores       []PlayerScore `json:"scores,omitempty"`
	Hand         []deck.Card   `json:"hand,omitempty"`
	LastAction   *ActionData   `json:"lastAction,omitempty"`
	TurnDeadline *time.Time    `json:"turnDeadline,omitempty"`
}

type PlayerTimeoutData struct {
	PlayerID string     `json:"playerId"`
	Seat     int        `json:"seat"`
	Action   ActionData `json:"action"`
}

// Player status values
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusStandIn      = "standin"
	StatusForfeited    = "forfeited"
)

type PlayerStatusData struct {
	PlayerID    string     `json:"playerId"`
	Seat        int        `json:"seat"`
	Status      string     `json:"status"`
	ReconnectBy *time.Time `json:"reconnectBy,omitempty"`
}

type RoundEndData struct {
	SessionID string        `json:"sessionId"`
	Seed      int64         `json:"seed"`
	Scores    []PlayerScore `json:"scores"`
	Winners   []string      `json:"winners"`
	Swept     []deck.Card   `json:"swept"`
	SweptTo   string        `json:"sweptTo,omitempty"` // empty when nobody captured
	Discarded int           `json:"discarded"`
	Forfeited string        `json:"forfeited,omitempty"`
}

type SessionAbortedData struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}
