package websocket

import (
	"context"

	"github.com/isdelr/artverse-be/internal/metrics"
	"github.com/rs/zerolog/log"
)

type membership struct {
	client *Client
	topic  string
}

type emission struct {
	target  string // user id or topic name
	client  *Client
	message []byte
}

type onlineQuery struct {
	userID string
	reply  chan int
}

// Hub maintains the set of live connections and the groups they belong to.
// All state is owned by the Run goroutine; the exported methods only pass
// requests to it over channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// User id to every connection authenticated as that user.
	users map[string]map[*Client]bool

	// Chat group name to its member connections.
	topics map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	joinUser   chan *Client
	joinTopic  chan membership
	leaveTopic chan membership
	emitUser   chan emission
	emitTopic  chan emission
	emitClient chan emission
	online     chan onlineQuery

	done chan struct{}
}

// NewHub creates a new Hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		users:      make(map[string]map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joinUser:   make(chan *Client),
		joinTopic:  make(chan membership),
		leaveTopic: make(chan membership),
		emitUser:   make(chan emission),
		emitTopic:  make(chan emission),
		emitClient: make(chan emission),
		online:     make(chan onlineQuery),
		done:       make(chan struct{}),
	}
}

// Run processes hub requests until ctx is cancelled. On exit every remaining
// client's send channel is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			log.Info().Msg("Realtime hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			metrics.WsConnections.Set(float64(len(h.clients)))
			log.Info().Str("socket_id", client.ID).Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				log.Info().Str("socket_id", client.ID).Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}

		case client := <-h.joinUser:
			if h.clients[client] {
				addMember(h.users, client.UserID, client)
			}

		case m := <-h.joinTopic:
			if h.clients[m.client] {
				addMember(h.topics, m.topic, m.client)
			}

		case m := <-h.leaveTopic:
			removeMember(h.topics, m.topic, m.client)

		case e := <-h.emitUser:
			h.deliver(h.users[e.target], e.message)

		case e := <-h.emitTopic:
			h.deliver(h.topics[e.target], e.message)

		case e := <-h.emitClient:
			if h.clients[e.client] {
				h.send(e.client, e.message)
			}

		case q := <-h.online:
			q.reply <- len(h.users[q.userID])
		}
	}
}

// Register adds an authenticated connection to the hub.
func (h *Hub) Register(c *Client) { h.submit(h.register, c) }

// Unregister removes a connection from the hub and from every group.
func (h *Hub) Unregister(c *Client) { h.submit(h.unregister, c) }

// JoinUser adds a registered connection to its user's group. Joining twice
// has no further effect.
func (h *Hub) JoinUser(c *Client) { h.submit(h.joinUser, c) }

// JoinTopic subscribes a registered connection to a chat group.
func (h *Hub) JoinTopic(c *Client, topic string) {
	select {
	case h.joinTopic <- membership{client: c, topic: topic}:
	case <-h.done:
	}
}

// LeaveTopic unsubscribes a connection from a chat group.
func (h *Hub) LeaveTopic(c *Client, topic string) {
	select {
	case h.leaveTopic <- membership{client: c, topic: topic}:
	case <-h.done:
	}
}

// EmitToUser delivers event to every live connection of userID. A user
// without connections is silently skipped.
func (h *Hub) EmitToUser(userID, event string, payload any) {
	h.emit(h.emitUser, emission{target: userID, message: NewEvent(event, payload)})
}

// EmitToTopic delivers event to every member of a chat group.
func (h *Hub) EmitToTopic(topic, event string, payload any) {
	h.emit(h.emitTopic, emission{target: topic, message: NewEvent(event, payload)})
}

// EmitToClient delivers event to a single connection if it is still registered.
func (h *Hub) EmitToClient(c *Client, event string, payload any) {
	h.emit(h.emitClient, emission{client: c, message: NewEvent(event, payload)})
}

// Online returns the number of live connections for userID.
func (h *Hub) Online(userID string) int {
	q := onlineQuery{userID: userID, reply: make(chan int, 1)}
	select {
	case h.online <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) submit(ch chan *Client, c *Client) {
	select {
	case ch <- c:
	case <-h.done:
	}
}

func (h *Hub) emit(ch chan emission, e emission) {
	select {
	case ch <- e:
	case <-h.done:
	}
}

func (h *Hub) deliver(group map[*Client]bool, message []byte) {
	if len(group) == 0 {
		metrics.WsEmitsTotal.WithLabelValues("no_session").Inc()
		return
	}
	for client := range group {
		h.send(client, message)
	}
}

// send never blocks; a client whose buffer is full is dropped.
func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
		metrics.WsEmitsTotal.WithLabelValues("delivered").Inc()
	default:
		metrics.WsEmitsTotal.WithLabelValues("dropped").Inc()
		log.Debug().Str("socket_id", client.ID).Str("user_id", client.UserID).Msg("Send buffer full, dropping client")
		h.remove(client)
	}
}

// remove drops a client from every map and closes its send channel.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	removeMember(h.users, client.UserID, client)
	for topic := range h.topics {
		removeMember(h.topics, topic, client)
	}
	close(client.Send)
	metrics.WsConnections.Set(float64(len(h.clients)))
}

func addMember(groups map[string]map[*Client]bool, key string, c *Client) {
	if groups[key] == nil {
		groups[key] = make(map[*Client]bool)
	}
	groups[key][c] = true
}

func removeMember(groups map[string]map[*Client]bool, key string, c *Client) {
	if members, ok := groups[key]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(groups, key)
		}
	}
}
