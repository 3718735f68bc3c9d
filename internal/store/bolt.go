package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// envelope wraps session data with its expiry; bbolt has no native TTL so
// expired entries are dropped lazily on read.
type envelope struct {
	Data      map[string]any `json:"data"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// BoltStore keeps sessions in a local bbolt file. Suited to single-process
// deployments.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(_ context.Context, key string) (map[string]any, error) {
	var env envelope
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &env)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	if time.Now().After(env.ExpiresAt) {
		// Expired entries are evicted as they are discovered.
		_ = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(sessionsBucket).Delete([]byte(key))
		})
		return nil, nil
	}

	return env.Data, nil
}

func (s *BoltStore) Save(_ context.Context, key string, data map[string]any, ttl time.Duration) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		raw, err := json.Marshal(envelope{Data: data, ExpiresAt: time.Now().Add(ttl)})
		if err != nil {
			return err
		}
		return tx.Bucket(sessionsBucket).Put([]byte(key), raw)
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
