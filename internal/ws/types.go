package ws

import "encoding/json"

const (
	// client - server
	MsgMove = "move"
	MsgPing = "ping"

	// server - client
	MsgReady = "ready"
	MsgState = "state"
	MsgPong  = "pong"
	MsgError = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
