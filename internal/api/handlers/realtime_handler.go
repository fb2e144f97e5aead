package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isdelr/artverse-be/internal/auth"
	"github.com/isdelr/artverse-be/internal/services"
	ws "github.com/isdelr/artverse-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

const commandTimeout = 10 * time.Second

// RealtimeOptions tunes the realtime endpoint.
type RealtimeOptions struct {
	AllowedOrigins   []string
	HandshakeTimeout time.Duration
	Heartbeat        ws.Heartbeat
}

// RealtimeHandler upgrades connections, authenticates them and dispatches
// their events.
type RealtimeHandler struct {
	hub      *ws.Hub
	verifier *auth.Verifier
	messages services.DirectMessageServiceProvider
	groups   services.ChatGroupServiceProvider
	opts     RealtimeOptions
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a new RealtimeHandler.
func NewRealtimeHandler(hub *ws.Hub, verifier *auth.Verifier, messages services.DirectMessageServiceProvider, groups services.ChatGroupServiceProvider, opts RealtimeOptions) *RealtimeHandler {
	h := &RealtimeHandler{hub: hub, verifier: verifier, messages: messages, groups: groups, opts: opts}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Serve handles the realtime connection request.
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	claims, err := h.authenticate(conn, r)
	if err != nil {
		log.Info().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Realtime handshake rejected")
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = conn.WriteMessage(websocket.TextMessage, ws.NewEvent(ws.EventConnectError, ws.ErrorPayload{Message: "Authentication error"}))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication error"))
		_ = conn.Close()
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Username, h.opts.Heartbeat)
	h.hub.Register(client)
	h.hub.JoinUser(client)
	h.hub.EmitToClient(client, ws.EventConnect, map[string]string{"sid": client.ID})

	go client.WritePump()
	client.ReadPump(h.dispatch)
}

// authenticate reads the credential from the token query parameter or, when
// absent, from the first frame, which must arrive within the handshake timeout.
func (h *RealtimeHandler) authenticate(conn *websocket.Conn, r *http.Request) (*auth.Claims, error) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		conn.SetReadDeadline(time.Now().Add(h.opts.HandshakeTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if token, err = ws.DecodeHandshake(raw); err != nil {
			return nil, err
		}
		conn.SetReadDeadline(time.Time{})
	}
	return h.verifier.Verify(token)
}

func (h *RealtimeHandler) dispatch(client *ws.Client, raw []byte) {
	cmd, err := ws.DecodeCommand(raw)
	if err != nil {
		log.Debug().Err(err).Str("socket_id", client.ID).Msg("Rejected websocket frame")
		h.hub.EmitToClient(client, ws.EventError, ws.ErrorPayload{Message: err.Error()})
		return
	}

	switch c := cmd.(type) {
	case ws.ConnectCommand:
		// Already authenticated during the handshake.

	case ws.JoinCommand:
		if c.UserID != client.UserID {
			log.Warn().Str("socket_id", client.ID).Str("user_id", client.UserID).Str("requested", c.UserID).Msg("Refused join for another user")
			h.hub.EmitToClient(client, ws.EventError, ws.ErrorPayload{Message: "Cannot join another user's room"})
			return
		}
		h.hub.JoinUser(client)
		log.Info().Str("socket_id", client.ID).Str("user_id", client.UserID).Msg("Client joined user room")
		h.hub.EmitToClient(client, ws.EventJoined, map[string]string{"socketId": client.ID})

	case ws.JoinGroupCommand:
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := h.groups.EnsureMember(ctx, client.UserID, c.GroupID); err != nil {
			h.hub.EmitToClient(client, ws.EventError, ws.ErrorPayload{Message: realtimeErrorMessage(err)})
			return
		}
		h.hub.JoinTopic(client, c.GroupID)

	case ws.LeaveGroupCommand:
		h.hub.LeaveTopic(client, c.GroupID)

	case ws.GroupMessageCommand:
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if _, err := h.groups.PostMessage(ctx, client.UserID, c.GroupID, services.ChatMessageInput{Content: c.Content}); err != nil {
			h.hub.EmitToClient(client, ws.EventError, ws.ErrorPayload{Message: realtimeErrorMessage(err)})
		}

	case ws.DirectMessageCommand:
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if _, err := h.messages.Send(ctx, client.UserID, c.ReceiverID, c.Content); err != nil {
			h.hub.EmitToClient(client, ws.EventError, ws.ErrorPayload{Message: realtimeErrorMessage(err)})
		}
	}
}

func (h *RealtimeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	origin = strings.TrimRight(origin, "/")
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func realtimeErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrValidation):
		return detail(err, services.ErrValidation)
	case errors.Is(err, services.ErrNotFound):
		return detail(err, services.ErrNotFound)
	case errors.Is(err, services.ErrForbidden):
		return detail(err, services.ErrForbidden)
	default:
		log.Error().Err(err).Msg("Failed to handle websocket command")
		return "Error sending message"
	}
}
