package account

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/lojasmm/whatsapp/internal/whatsapp"
)

var accountsBucket = []byte("accounts")

// BoltRegistry is a writable account registry backed by bbolt, for
// multi-tenant deployments where accounts are onboarded at runtime.
type BoltRegistry struct {
	db *bolt.DB
}

func NewBoltRegistry(path string) (*BoltRegistry, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(accountsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating accounts bucket: %w", err)
	}

	return &BoltRegistry{db: db}, nil
}

func (r *BoltRegistry) Put(account whatsapp.Account) error {
	if account.NumberID == "" || account.Token == "" {
		return fmt.Errorf("account missing number_id or token")
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(account)
		if err != nil {
			return err
		}
		return tx.Bucket(accountsBucket).Put([]byte(account.NumberID), data)
	})
}

func (r *BoltRegistry) Delete(numberID string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(accountsBucket).Delete([]byte(numberID))
	})
}

func (r *BoltRegistry) Resolve(numberID string) (*whatsapp.Account, error) {
	var account whatsapp.Account
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(accountsBucket).Get([]byte(numberID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &account)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, whatsapp.ErrAccountNotFound
	}
	return &account, nil
}

func (r *BoltRegistry) Close() error {
	return r.db.Close()
}
