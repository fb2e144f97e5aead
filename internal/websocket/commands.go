package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Command is a decoded inbound client event.
type Command interface {
	command()
}

// ConnectCommand is a handshake frame sent after the session is already
// authenticated. It carries nothing the server acts on.
type ConnectCommand struct{}

// JoinCommand asks to (re)join the caller's own user group.
type JoinCommand struct {
	UserID string
}

// JoinGroupCommand subscribes the connection to a chat group.
type JoinGroupCommand struct {
	GroupID string
}

// LeaveGroupCommand unsubscribes the connection from a chat group.
type LeaveGroupCommand struct {
	GroupID string
}

// GroupMessageCommand relays a chat message to every member of a group.
type GroupMessageCommand struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

// DirectMessageCommand sends a persisted one-to-one message.
type DirectMessageCommand struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func (ConnectCommand) command()       {}
func (JoinCommand) command()          {}
func (JoinGroupCommand) command()     {}
func (LeaveGroupCommand) command()    {}
func (GroupMessageCommand) command()  {}
func (DirectMessageCommand) command() {}

// DecodeCommand parses a raw frame into a typed command.
func DecodeCommand(raw []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch env.Event {
	case EventConnect:
		return ConnectCommand{}, nil

	case EventJoin:
		id, err := decodeID(env.Data, "userId")
		if err != nil {
			return nil, err
		}
		return JoinCommand{UserID: id}, nil

	case EventJoinGroup, EventLeaveGroup:
		id, err := decodeID(env.Data, "groupId")
		if err != nil {
			return nil, err
		}
		if env.Event == EventJoinGroup {
			return JoinGroupCommand{GroupID: id}, nil
		}
		return LeaveGroupCommand{GroupID: id}, nil

	case EventSendMessage:
		var cmd GroupMessageCommand
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		cmd.GroupID = strings.TrimSpace(cmd.GroupID)
		if cmd.GroupID == "" || strings.TrimSpace(cmd.Content) == "" {
			return nil, fmt.Errorf("%w: groupId and content are required", ErrInvalidPayload)
		}
		return cmd, nil

	case EventSendDirectMessage:
		var cmd DirectMessageCommand
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		cmd.ReceiverID = strings.TrimSpace(cmd.ReceiverID)
		return cmd, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}

// DecodeHandshake extracts the credential from a connect frame.
func DecodeHandshake(raw []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Event != EventConnect {
		return "", fmt.Errorf("%w: expected %q, got %q", ErrInvalidPayload, EventConnect, env.Event)
	}
	var auth struct {
		Token string `json:"token"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &auth); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	return strings.TrimSpace(auth.Token), nil
}

// decodeID accepts either a bare JSON string or an object carrying field.
func decodeID(data json.RawMessage, field string) (string, error) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("%w: expected a string or {%q: ...}", ErrInvalidPayload, field)
		}
		id, _ = obj[field].(string)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidPayload, field)
	}
	return id, nil
}
