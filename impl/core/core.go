package core

import (
	"context"
	"log/slog"
	"sync"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"
)

// Router runs turns against the dialog engine.
type Router interface {
	Handle(ctx context.Context, activity *entity.Activity, resp dialog.Responder) error
	Reset(ctx context.Context, channel, conversationID string) error
}

// Publisher pushes replies to live webchat clients.
type Publisher interface {
	PublishReplies(conversationID string, replies []channel.Reply)
	PublishReset(conversationID string)
}

// KeyStore issues and resolves API keys.
type KeyStore interface {
	CheckApiKey(ctx context.Context, key string) (string, error)
	GenerateApiKey(ctx context.Context, username string) (string, error)
}

// TranscriptStore keeps conversation history for review.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, entries []entity.TranscriptEntry) error
	GetTranscript(ctx context.Context, channel, conversationID string, limit int) ([]entity.TranscriptEntry, error)
}

type Core struct {
	router          Router
	publisher       Publisher
	keyStore        KeyStore
	transcripts     TranscriptStore
	transcriptLimit int
	authKey         string
	keys            map[string]string
	mu              sync.RWMutex
	log             *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log:             log.With(sl.Module("core")),
		keys:            make(map[string]string),
		transcriptLimit: 50,
	}
}

func (c *Core) SetRouter(router Router) {
	c.router = router
}

func (c *Core) SetPublisher(publisher Publisher) {
	c.publisher = publisher
}

func (c *Core) SetKeyStore(store KeyStore) {
	c.keyStore = store
}

func (c *Core) SetTranscriptStore(store TranscriptStore, limit int) {
	c.transcripts = store
	if limit > 0 {
		c.transcriptLimit = limit
	}
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}
