package preferences

import (
	"context"
	"time"

	"go.etcd.io/bbolt"

	"github.com/joefazee/atlas/models"
)

// BoltStore keeps preferences in a local bbolt file, one bucket per client.
// It backs the command line tool the way localStorage backs a browser.
type BoltStore struct {
	db *bbolt.DB
}

var _ ClientStore = (*BoltStore)(nil)

// OpenBoltStore opens or creates the preference file at path
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context, clientID, key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(clientID))
		if b == nil {
			return models.ErrPreferenceNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return models.ErrPreferenceNotFound
		}
		value = string(v)
		return nil
	})
	return value, err
}

func (s *BoltStore) Set(_ context.Context, clientID, key, value string) error {
	if err := models.NewPreference(clientID, key, value).Validate(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(clientID))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) All(_ context.Context, clientID string) (map[string]string, error) {
	values := make(map[string]string)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(clientID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (s *BoltStore) Purge(_ context.Context, clientID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(clientID)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(clientID))
	})
}
