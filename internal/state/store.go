package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"ReturnsAgent/internal/lib/sl"
)

type Scope string

const (
	ScopeConversation Scope = "conversation"
	ScopeUser         Scope = "user"
)

var ErrTurnFlushed = errors.New("state: turn already flushed")

// Store hands out per-turn buffers over a Backend.
type Store struct {
	backend Backend
	log     *slog.Logger
}

func NewStore(backend Backend, log *slog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With(sl.Module("state")),
	}
}

// Begin opens a buffered turn. Nothing reaches the backend until Flush.
func (s *Store) Begin(channel, conversationID, userID string) *Turn {
	return &Turn{
		store:          s,
		channel:        channel,
		conversationID: conversationID,
		userID:         userID,
		entries:        make(map[string]*entry),
	}
}

// Clear removes the named conversation-scoped properties outside any turn.
func (s *Store) Clear(ctx context.Context, channel, conversationID string, names ...string) error {
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, Key(ScopeConversation, channel, conversationID, n))
	}
	if err := s.backend.Delete(ctx, keys); err != nil {
		return fmt.Errorf("clear conversation state: %w", err)
	}
	return nil
}

// Key builds the storage key "<scope>/<channel>/<id>/<name>".
func Key(scope Scope, channel, id, name string) string {
	return fmt.Sprintf("%s/%s/%s/%s", scope, channel, id, name)
}

type entry struct {
	original []byte
	value    any
	deleted  bool
}

// Turn buffers reads and writes for one inbound activity. It is not safe for
// concurrent use; the Locker serialises turns of one conversation.
type Turn struct {
	store          *Store
	channel        string
	conversationID string
	userID         string
	entries        map[string]*entry
	flushed        bool
}

func (t *Turn) ConversationID() string { return t.conversationID }
func (t *Turn) UserID() string         { return t.userID }
func (t *Turn) Channel() string        { return t.channel }

func (t *Turn) key(scope Scope, name string) string {
	id := t.conversationID
	if scope == ScopeUser {
		id = t.userID
	}
	return Key(scope, t.channel, id, name)
}

func (t *Turn) lookup(ctx context.Context, key string) (*entry, error) {
	if e, ok := t.entries[key]; ok {
		return e, nil
	}
	loaded, err := t.store.backend.Load(ctx, []string{key})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	e := &entry{original: loaded[key]}
	t.entries[key] = e
	return e, nil
}

// Flush writes every changed entry in one backend call. A second call is an error.
func (t *Turn) Flush(ctx context.Context) error {
	if t.flushed {
		return ErrTurnFlushed
	}
	t.flushed = true

	changes := make(map[string][]byte)
	for key, e := range t.entries {
		if e.deleted {
			if e.original != nil {
				changes[key] = nil
			}
			continue
		}
		if e.value == nil {
			continue
		}
		data, err := json.Marshal(e.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if bytes.Equal(data, e.original) {
			continue
		}
		changes[key] = data
	}
	if len(changes) == 0 {
		return nil
	}
	if err := t.store.backend.Save(ctx, changes); err != nil {
		return fmt.Errorf("flush turn: %w", err)
	}
	t.store.log.Debug("turn flushed",
		slog.String("conversation", t.conversationID),
		slog.Int("keys", len(changes)),
	)
	return nil
}

// Property is a typed accessor for one named value in a scope.
type Property[T any] struct {
	name    string
	scope   Scope
	factory func() *T
}

// NewProperty declares a property. factory builds the default when nothing is
// stored; nil means the zero value of T.
func NewProperty[T any](scope Scope, name string, factory func() *T) *Property[T] {
	if factory == nil {
		factory = func() *T { return new(T) }
	}
	return &Property[T]{name: name, scope: scope, factory: factory}
}

func (p *Property[T]) Name() string { return p.name }

// Get returns the buffered value, loading or default-initialising it. The
// returned pointer may be mutated in place; changes are persisted on Flush.
func (p *Property[T]) Get(ctx context.Context, t *Turn) (*T, error) {
	e, err := t.lookup(ctx, t.key(p.scope, p.name))
	if err != nil {
		return nil, err
	}
	if v, ok := e.value.(*T); ok && !e.deleted {
		return v, nil
	}
	var v *T
	if e.original != nil && !e.deleted {
		v = new(T)
		if err := json.Unmarshal(e.original, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.name, err)
		}
	} else {
		v = p.factory()
	}
	e.value = v
	e.deleted = false
	return v, nil
}

func (p *Property[T]) Set(t *Turn, v *T) {
	key := t.key(p.scope, p.name)
	e, ok := t.entries[key]
	if !ok {
		// original unknown; force a write
		e = &entry{}
		t.entries[key] = e
	}
	e.value = v
	e.deleted = false
}

func (p *Property[T]) Delete(t *Turn) {
	key := t.key(p.scope, p.name)
	e, ok := t.entries[key]
	if !ok {
		e = &entry{original: []byte{}}
		t.entries[key] = e
	}
	e.value = nil
	e.deleted = true
}
