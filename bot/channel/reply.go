package channel

import (
	"context"
	"sync"

	"ReturnsAgent/bot/card"

	"github.com/google/uuid"
)

// MsgWelcome opens every new conversation.
const MsgWelcome = "Hi! I can help you create a return or track an existing one. What can I help you with today?"

// Reply is one outbound message produced during a turn.
type Reply struct {
	ID     string       `json:"id"`
	Text   string       `json:"text,omitempty"`
	Layout string       `json:"layout,omitempty"`
	Cards  []*card.Card `json:"cards,omitempty"`
}

func TextReply(text string) Reply {
	return Reply{ID: uuid.NewString(), Text: text}
}

func CardsReply(layout string, cards ...*card.Card) Reply {
	return Reply{ID: uuid.NewString(), Layout: layout, Cards: cards}
}

// Collector buffers the replies of a turn for channels that answer in the
// response body.
type Collector struct {
	mu      sync.Mutex
	replies []Reply
}

func NewCollector() *Collector {
	return &Collector{replies: make([]Reply, 0, 4)}
}

func (c *Collector) SendText(_ context.Context, text string) error {
	c.add(TextReply(text))
	return nil
}

func (c *Collector) SendCards(_ context.Context, layout string, cards ...*card.Card) error {
	if len(cards) == 0 {
		return nil
	}
	c.add(CardsReply(layout, cards...))
	return nil
}

func (c *Collector) add(r Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, r)
}

// Replies returns a copy of everything sent so far.
func (c *Collector) Replies() []Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Reply(nil), c.replies...)
}
