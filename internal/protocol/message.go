// Package protocol defines the JSON messages exchanged between casino
// clients and the session server.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeCreateSession MessageType = "create_session"
	MessageTypeJoinSession   MessageType = "join_session"
	MessageTypeAction        MessageType = "action"
	MessageTypeSync          MessageType = "sync"
	MessageTypeLeaveSession  MessageType = "leave_session"

	// Server to client messages
	MessageTypeSessionCreated MessageType = "session_created"
	MessageTypeSessionJoined  MessageType = "session_joined"
	MessageTypeState          MessageType = "state"
	MessageTypePlayerTimeout  MessageType = "player_timeout"
	MessageTypePlayerStatus   MessageType = "player_status"
	MessageTypeRoundEnd       MessageType = "round_end"
	MessageTypeSessionAborted MessageType = "session_aborted"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// MustMessage is NewMessage for payloads that always marshal
func MustMessage(messageType MessageType, data interface{}) *Message {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		panic(fmt.Sprintf("marshal %s: %v", messageType, err))
	}
	return msg
}

// Decode unmarshals the message payload into v
func (m *Message) Decode(v interface{}) error {
	if len(m.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", m.Type, err)
	}
	return nil
}
