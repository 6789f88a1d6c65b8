package repository

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/simforge/sim/model"
)

const keyPrefix = "element/"

// BadgerRepository persists payloads in a Badger key-value store.
// Safe for concurrent use.
type BadgerRepository struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger store in dir.
// An empty dir opens an in-memory store.
func OpenBadger(dir string) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening element store %q: %w", dir, err)
	}
	return &BadgerRepository{db: db}, nil
}

// NewBadgerRepository wraps a caller-managed Badger instance.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

// Close closes the underlying store.
func (b *BadgerRepository) Close() error {
	return b.db.Close()
}

func elementKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (b *BadgerRepository) Get(elementID string) (Payload, bool, error) {
	var rec Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(elementKey(elementID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err = decodeRecord(elementID, val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading payload for %s: %w", elementID, err)
	}
	return rec.Payload, true, nil
}

func (b *BadgerRepository) Set(elementID string, payload Payload, kind model.Kind) error {
	value, err := encodeRecord(kind, payload)
	if err != nil {
		return fmt.Errorf("element %s: %w", elementID, err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(elementKey(elementID), value)
	})
	if err != nil {
		return fmt.Errorf("writing payload for %s: %w", elementID, err)
	}
	return nil
}

// Delete removes the payload for elementID. Deleting an absent id is a no-op.
func (b *BadgerRepository) Delete(elementID string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(elementKey(elementID))
	})
	if err != nil {
		return fmt.Errorf("deleting payload for %s: %w", elementID, err)
	}
	return nil
}

// List returns every record in key order.
func (b *BadgerRepository) List() ([]Record, error) {
	var out []Record
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				rec, err := decodeRecord(id, val)
				if err != nil {
					return err
				}
				out = append(out, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing payloads: %w", err)
	}
	return out, nil
}

// badgerLogger routes Badger's internal logging through logrus.
// Info and debug output are demoted one level.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{})   { logrus.Errorf(format, args...) }
func (badgerLogger) Warningf(format string, args ...interface{}) { logrus.Warnf(format, args...) }
func (badgerLogger) Infof(format string, args ...interface{})    { logrus.Debugf(format, args...) }
func (badgerLogger) Debugf(format string, args ...interface{})   { logrus.Tracef(format, args...) }
