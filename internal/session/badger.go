package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const keyPrefix = "session:"

// BadgerStore keeps sessions in a BadgerDB directory so they survive restarts.
// Entries carry a TTL matching the session expiry.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB at dir with badger's own logging disabled.
func OpenBadger(dir string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", dir, err)
	}
	return db, nil
}

// NewBadgerStore creates a store on an open BadgerDB.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Create stores s with a TTL of its remaining lifetime.
func (b *BadgerStore) Create(_ context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+s.ID), data).WithTTL(ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		return nil
	})
}

// Get loads the session with the given id.
func (b *BadgerStore) Get(_ context.Context, id string) (*Session, error) {
	var s Session
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if err != nil {
		return nil, err
	}

	if s.IsExpired(time.Now()) {
		return nil, ErrSessionExpired
	}
	return &s, nil
}

// Delete removes the session.
func (b *BadgerStore) Delete(_ context.Context, id string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyPrefix + id))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// CleanupExpired deletes sessions whose expiry has passed but whose entry is
// still visible, then gives the value log a chance to reclaim space.
func (b *BadgerStore) CleanupExpired(ctx context.Context) (int, error) {
	now := time.Now()
	var expired [][]byte

	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var s Session
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			}); err != nil {
				return fmt.Errorf("decode session: %w", err)
			}
			if s.IsExpired(now) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(expired) > 0 {
		err = b.db.Update(func(txn *badger.Txn) error {
			for _, key := range expired {
				if err := txn.Delete(key); err != nil {
					return fmt.Errorf("delete session: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	if err := b.db.RunValueLogGC(0.5); err != nil &&
		!errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
		return len(expired), fmt.Errorf("value log gc: %w", err)
	}
	return len(expired), nil
}
