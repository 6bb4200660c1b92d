package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/internal/lib/sl"
)

// Event is pushed to clients watching a conversation.
type Event struct {
	Type           string      `json:"type"` // "reply", "reset"
	ConversationID string      `json:"conversation_id"`
	Data           interface{} `json:"data,omitempty"`
}

type envelope struct {
	conversationID string
	data           []byte
}

// Hub fans bot replies out to the websocket clients of each conversation.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// Run starts the hub's event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.conversationID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.conversationID] = set
			}
			set[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case env := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[env.conversationID] {
				select {
				case client.send <- env.data:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.conversationID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.conversationID)
	}
}

// Watchers reports how many clients follow the conversation.
func (h *Hub) Watchers(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[conversationID])
}

func (h *Hub) publish(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal ws event", sl.Err(err))
		return
	}
	select {
	case h.broadcast <- envelope{conversationID: event.ConversationID, data: data}:
	default:
		h.log.Warn("ws broadcast queue full, event dropped",
			slog.String("conversation", event.ConversationID),
			slog.String("type", event.Type),
		)
	}
}

// PublishReplies sends each reply of a turn as a separate event.
func (h *Hub) PublishReplies(conversationID string, replies []channel.Reply) {
	for _, r := range replies {
		h.publish(&Event{Type: "reply", ConversationID: conversationID, Data: r})
	}
}

// PublishReset tells watchers the conversation was cleared.
func (h *Hub) PublishReset(conversationID string) {
	h.publish(&Event{Type: "reset", ConversationID: conversationID})
}
