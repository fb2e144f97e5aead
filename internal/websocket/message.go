package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Event names exchanged with realtime clients.
const (
	EventConnect           = "connect"
	EventConnectError      = "connect_error"
	EventJoin              = "join"
	EventJoined            = "joined"
	EventJoinGroup         = "join-group"
	EventLeaveGroup        = "leave-group"
	EventSendMessage       = "send-message"
	EventNewMessage        = "new-message"
	EventSendDirectMessage = "send-direct-message"
	EventNewDirectMessage  = "new-direct-message"
	EventError             = "error"
)

// Envelope is the wire frame for every realtime message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ErrorPayload is the body of error and connect_error events.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEvent encodes an outbound frame.
func NewEvent(event string, data any) []byte {
	b, err := json.Marshal(outbound{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to encode websocket event")
		return NewErrorMessage("internal error")
	}
	return b
}

// NewErrorMessage encodes an error event.
func NewErrorMessage(message string) []byte {
	b, _ := json.Marshal(outbound{Event: EventError, Data: ErrorPayload{Message: message}})
	return b
}
