package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemaFiles embed.FS

const schemaBase = "https://casino.local/schemas/"

// inbound maps client message types to the schema for the whole message.
// Messages without a payload only need the envelope.
var inbound = map[MessageType]string{
	MessageTypeCreateSession: "create_session",
	MessageTypeJoinSession:   "join_session",
	MessageTypeAction:        "action",
	MessageTypeSync:          "",
	MessageTypeLeaveSession:  "",
}

// Validator checks inbound client messages against the embedded JSON
// schemas
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator creates a new message validator with all schemas loaded
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}
	for _, e := range entries {
		data, err := schemaFiles.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", e.Name(), err)
		}
		if err := compiler.AddResource(schemaBase+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", e.Name(), err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema)
	for _, name := range []string{"message", "create_session", "join_session", "action"} {
		schema, err := compiler.Compile(schemaBase + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}
	return &Validator{schemas: schemas}, nil
}

// ValidateMessage validates a raw client message and returns it decoded.
func (v *Validator) ValidateMessage(raw []byte) (*Message, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schemas["message"].Validate(doc); err != nil {
		return nil, fmt.Errorf("message format validation failed: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	name, ok := inbound[msg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
	if name == "" {
		return &msg, nil
	}
	if err := v.schemas[name].Validate(doc); err != nil {
		return nil, fmt.Errorf("%s validation failed: %w", msg.Type, err)
	}
	return &msg, nil
}
