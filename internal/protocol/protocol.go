// Package protocol defines the JSON messages exchanged on the WebSocket control channel.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reachz/internal/router"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeControl carries one address/args message, the same shape OSC delivers
	TypeControl MessageType = "control"

	// TypeStatusRequest is sent by a client to request an engine snapshot
	TypeStatusRequest MessageType = "status_req"

	// TypeStatus is sent by the server with the engine snapshot
	TypeStatus MessageType = "status"

	// TypeCarry is broadcast by the server on every carry transition
	TypeCarry MessageType = "carry"

	// TypePing can be used for application-level heartbeats
	TypePing MessageType = "ping"

	// TypeError reports a message the server could not use
	TypeError MessageType = "error"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ControlPayload is the payload for TypeControl
type ControlPayload struct {
	Address string `json:"address"`
	Args    []any  `json:"args,omitempty"`
}

// CarryPayload is the payload for TypeCarry
type CarryPayload struct {
	Holding bool   `json:"holding"`
	Preview string `json:"preview,omitempty"`
}

// ErrorPayload is the payload for TypeError
type ErrorPayload struct {
	Message string `json:"message"`
}

var (
	ErrBadAddress = errors.New("protocol: address must start with '/'")
	ErrBadArg     = errors.New("protocol: unsupported argument type")
)

// Encode wraps payload in a message of type t
func Encode(t MessageType, payload any) ([]byte, error) {
	msg := Message{Type: t}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encoding %s payload: %w", t, err)
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}

// Decode parses the envelope of one WebSocket frame
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("protocol: %w", err)
	}
	if msg.Type == "" {
		return nil, errors.New("protocol: missing message type")
	}
	return &msg, nil
}

// DecodeControl turns a TypeControl payload into a router message.
// Integral JSON numbers become int64 and the rest float64, matching the
// int/float distinction OSC arguments carry.
func DecodeControl(raw json.RawMessage) (router.Message, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p ControlPayload
	if err := dec.Decode(&p); err != nil {
		return router.Message{}, fmt.Errorf("protocol: %w", err)
	}
	if !strings.HasPrefix(p.Address, "/") {
		return router.Message{}, ErrBadAddress
	}

	args := make(router.Args, 0, len(p.Args))
	for i, a := range p.Args {
		v, err := normalizeArg(a)
		if err != nil {
			return router.Message{}, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, v)
	}
	return router.Message{Address: p.Address, Args: args}, nil
}

// EncodeControl builds a TypeControl frame for msg
func EncodeControl(msg router.Message) ([]byte, error) {
	return Encode(TypeControl, ControlPayload{Address: msg.Address, Args: msg.Args})
}

func normalizeArg(a any) (any, error) {
	switch v := a.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return v.Float64()
	case string, bool, nil:
		return v, nil
	}
	return nil, ErrBadArg
}
