package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// ErrClosed is returned when sending on a disconnected client
var ErrClosed = errors.New("client closed")

// Client is a WebSocket connection to a casino server. Messages are
// dispatched to handlers in arrival order on a single goroutine.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once

	handlers map[protocol.MessageType][]EventHandler
}

// EventHandler handles one incoming message
type EventHandler func(*protocol.Message)

// NewClient creates a client for serverURL. http and https URLs are
// rewritten to ws and wss.
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		serverURL: serverURL,
		send:      make(chan *protocol.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
		handlers:  make(map[protocol.MessageType][]EventHandler),
	}
}

func wsURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Connect dials the server and starts the pumps
func (c *Client) Connect(ctx context.Context) error {
	target, err := wsURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", target)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Debug("Connected to server")
	return nil
}

// Done is closed once the connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.logger.Debug("Disconnected from server")
	})
	return nil
}

// SendMessage queues msg for the server
func (c *Client) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) readPump() {
	defer func() { _ = c.Disconnect() }()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}
		c.logger.Debug("Received message", "type", msg.Type)
		c.dispatch(&msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Disconnect()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Disconnect()
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) dispatch(msg *protocol.Message) {
	c.mu.RLock()
	handlers := c.handlers[msg.Type]
	c.mu.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("No handler for message type", "type", msg.Type)
		return
	}
	for _, h := range handlers {
		h(msg)
	}
}

// AddEventHandler registers handler for messages of type t
func (c *Client) AddEventHandler(t protocol.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[t] = append(c.handlers[t], handler)
}

func (c *Client) sendData(t protocol.MessageType, requestID string, data interface{}) error {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return c.SendMessage(msg)
}

// CreateSession asks the server for a new session. playerCount zero uses
// the server default.
func (c *Client) CreateSession(playerCount int, requestID string) error {
	return c.sendData(protocol.MessageTypeCreateSession, requestID, protocol.CreateSessionData{PlayerCount: playerCount})
}

// JoinSession takes a seat, or reclaims one when token is set
func (c *Client) JoinSession(sessionID, playerID, token string) error {
	return c.sendData(protocol.MessageTypeJoinSession, "", protocol.JoinSessionData{
		SessionID: sessionID,
		PlayerID:  playerID,
		Token:     token,
	})
}

// SendAction submits a move
func (c *Client) SendAction(data protocol.ActionData) error {
	return c.sendData(protocol.MessageTypeAction, "", data)
}

// Sync requests a fresh state snapshot
func (c *Client) Sync() error {
	return c.sendData(protocol.MessageTypeSync, "", struct{}{})
}

// LeaveSession releases the seat and starts the reconnection window
func (c *Client) LeaveSession() error {
	return c.sendData(protocol.MessageTypeLeaveSession, "", struct{}{})
}

// CreateAndWait creates a session and returns its id
func (c *Client) CreateAndWait(ctx context.Context, playerCount int) (string, error) {
	created := make(chan protocol.SessionCreatedData, 1)
	failed := make(chan protocol.ErrorData, 1)
	c.AddEventHandler(protocol.MessageTypeSessionCreated, func(msg *protocol.Message) {
		var data protocol.SessionCreatedData
		if msg.Decode(&data) == nil {
			select {
			case created <- data:
			default:
			}
		}
	})
	c.AddEventHandler(protocol.MessageTypeError, func(msg *protocol.Message) {
		var data protocol.ErrorData
		if msg.Decode(&data) == nil {
			select {
			case failed <- data:
			default:
			}
		}
	})

	if err := c.CreateSession(playerCount, "create"); err != nil {
		return "", err
	}
	select {
	case data := <-created:
		return data.SessionID, nil
	case e := <-failed:
		return "", fmt.Errorf("create session: %s: %s", e.Code, e.Message)
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.ctx.Done():
		return "", ErrClosed
	}
}
