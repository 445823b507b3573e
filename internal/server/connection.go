package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 256
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection represents a WebSocket connection to a client. It implements
// Sink for the session it joins.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *protocol.Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once

	session  *Session
	playerID string
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *protocol.Message, sendBuffer),
		server: server,
		logger: logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection id
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Send queues a message for the client without blocking. A client that
// cannot keep up is disconnected.
func (c *Connection) Send(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) bind(s *Session, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	c.playerID = playerID
}

func (c *Connection) bound() (*Session, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session, c.playerID
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		if s, _ := c.bound(); s != nil {
			s.Disconnect(c)
		}
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleRaw(raw)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Connection) handleRaw(raw []byte) {
	msg, err := c.server.validator.ValidateMessage(raw)
	if err == nil {
		c.handleMessage(msg)
		return
	}

	c.logger.Debug("Invalid message", "error", err)
	var probe struct {
		Type protocol.MessageType `json:"type"`
	}
	if json.Unmarshal(raw, &probe) == nil && probe.Type == protocol.MessageTypeAction {
		c.sendError(&game.Error{Kind: game.KindMalformedAction, Msg: err.Error()})
		return
	}
	c.sendError(&Error{Code: ErrInvalidMessage.Code, Message: err.Error()})
}

// handleMessage processes a validated message from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	session, playerID := c.bound()
	c.logger.Debug("Received message", "type", msg.Type, "player", playerID)

	switch msg.Type {
	case protocol.MessageTypeCreateSession:
		var data protocol.CreateSessionData
		if err := msg.Decode(&data); err != nil {
			c.sendError(&Error{Code: ErrInvalidMessage.Code, Message: err.Error()})
			return
		}
		s, err := c.server.store.Create(data.PlayerCount)
		if err != nil {
			c.sendError(&Error{Code: ErrInvalidMessage.Code, Message: err.Error()})
			return
		}
		c.reply(protocol.MessageTypeSessionCreated, msg.RequestID, protocol.SessionCreatedData{
			SessionID:   s.ID(),
			PlayerCount: s.PlayerCount(),
		})

	case protocol.MessageTypeJoinSession:
		var data protocol.JoinSessionData
		if err := msg.Decode(&data); err != nil {
			c.sendError(&Error{Code: ErrInvalidMessage.Code, Message: err.Error()})
			return
		}
		if session != nil {
			c.sendError(ErrAlreadyJoined)
			return
		}
		s, ok := c.server.store.Get(data.SessionID)
		if !ok {
			c.sendError(ErrSessionNotFound)
			return
		}
		if _, err := s.Join(c, data.PlayerID, data.Token); err != nil {
			c.sendError(err)
			return
		}
		c.bind(s, data.PlayerID)

	case protocol.MessageTypeAction:
		if session == nil {
			c.sendError(ErrNotJoined)
			return
		}
		var data protocol.ActionData
		if err := msg.Decode(&data); err != nil {
			c.sendError(&game.Error{Kind: game.KindMalformedAction, Msg: err.Error()})
			return
		}
		// the session reports rejections itself; a closed session cannot
		if err := session.Submit(c, data); errors.Is(err, ErrSessionClosed) {
			c.sendError(err)
		}

	case protocol.MessageTypeSync:
		if session == nil {
			c.sendError(ErrNotJoined)
			return
		}
		if err := session.Sync(c); errors.Is(err, ErrSessionClosed) {
			c.sendError(err)
		}

	case protocol.MessageTypeLeaveSession:
		if session == nil {
			c.sendError(ErrNotJoined)
			return
		}
		session.Disconnect(c)
		c.bind(nil, "")

	default:
		c.sendError(&Error{Code: ErrInvalidMessage.Code, Message: "unknown message type: " + msg.Type.String()})
	}
}

func (c *Connection) reply(t protocol.MessageType, requestID string, data interface{}) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.Send(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(err error) {
	c.reply(protocol.MessageTypeError, "", errorData(err))
}
