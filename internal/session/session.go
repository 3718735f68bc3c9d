package session

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is how long a session survives without activity.
const DefaultTTL = 15 * time.Minute

const keyPrefix = "whatsapp_session_"

// Store persists session data keyed by conversation. Load returns an empty,
// non-nil map for an absent or expired key.
type Store interface {
	Load(ctx context.Context, key string) (map[string]any, error)
	Save(ctx context.Context, key string, data map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Session is a short-lived field bag scoped to one conversation key (the
// sender's phone number). Data is loaded lazily on first access and persisted
// on every mutation, refreshing the TTL.
type Session struct {
	store  Store
	key    string
	ttl    time.Duration
	data   map[string]any
	loaded bool
}

// New returns a session handle for a conversation key. No store access happens
// until the first Get/Set/Forget/Clear.
func New(store Store, key string) *Session {
	return &Session{
		store: store,
		key:   keyPrefix + key,
		ttl:   DefaultTTL,
	}
}

// WithTTL overrides the session TTL.
func (s *Session) WithTTL(ttl time.Duration) *Session {
	s.ttl = ttl
	return s
}

// Get returns the value stored under field, or def when absent.
func (s *Session) Get(ctx context.Context, field string, def any) (any, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	if v, ok := s.data[field]; ok {
		return v, nil
	}
	return def, nil
}

// Set stores a value under field and persists the session.
func (s *Session) Set(ctx context.Context, field string, value any) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	s.data[field] = value
	return s.save(ctx)
}

// Forget removes one field and persists the session.
func (s *Session) Forget(ctx context.Context, field string) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	delete(s.data, field)
	return s.save(ctx)
}

// Clear drops all fields and persists the now-empty session.
func (s *Session) Clear(ctx context.Context) error {
	s.data = map[string]any{}
	s.loaded = true
	return s.save(ctx)
}

func (s *Session) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	data, err := s.store.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", s.key, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	s.data = data
	s.loaded = true
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.key, s.data, s.ttl); err != nil {
		return fmt.Errorf("saving session %s: %w", s.key, err)
	}
	return nil
}
