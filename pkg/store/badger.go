package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/rzava/streamd/pkg/datastream"
)

// BadgerConfig contains Badger-specific configuration.
type BadgerConfig struct {
	// Path is the directory for the Badger database.
	Path string `mapstructure:"path" yaml:"path"`

	// InMemory runs Badger without touching disk. Used by tests.
	InMemory bool `mapstructure:"in_memory" yaml:"in_memory"`
}

// datastreamPrefix namespaces datastream records in the key space.
const datastreamPrefix = "ds/"

// BadgerStore implements Store on an embedded Badger key-value database.
// Badger iterates keys in byte order, which gives ListNames the same
// lexicographic ordering as the relational backends.
type BadgerStore struct {
	db *badger.DB
}

func newBadgerStore(config BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(config.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func datastreamKey(name string) []byte {
	return []byte(datastreamPrefix + name)
}

func (s *BadgerStore) Create(ctx context.Context, name string, ds *datastream.Datastream) error {
	value, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode datastream %s: %w", name, err)
	}

	// Check-and-set inside one transaction so racing creates on the same
	// name resolve to a single winner.
	return s.db.Update(func(txn *badger.Txn) error {
		key := datastreamKey(name)
		_, err := txn.Get(key)
		if err == nil {
			return datastream.ErrDatastreamExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

func (s *BadgerStore) Get(ctx context.Context, name string) (*datastream.Datastream, error) {
	var ds datastream.Datastream
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(datastreamKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return datastream.ErrDatastreamNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ds)
		})
	})
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *BadgerStore) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(datastreamPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			names = append(names, string(key[len(datastreamPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *BadgerStore) Delete(ctx context.Context, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := datastreamKey(name)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return datastream.ErrDatastreamNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

func (s *BadgerStore) Healthcheck(ctx context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger database is closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
