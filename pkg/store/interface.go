// Package store provides the durable persistence layer for datastream
// records.
//
// Three backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL (HA-capable)
//   - Badger (embedded key-value)
package store

import (
	"context"
	"fmt"

	"github.com/rzava/streamd/pkg/datastream"
)

// Store is the durable keyed persistence interface for datastream records.
//
// Thread safety: implementations must be safe for concurrent use from
// multiple goroutines. Name uniqueness is enforced by the store; two create
// calls racing on the same name resolve atomically to one winner.
type Store interface {
	// Create persists a new datastream under name.
	// Returns datastream.ErrDatastreamExists if the name is already present.
	Create(ctx context.Context, name string, ds *datastream.Datastream) error

	// Get returns the datastream with the given name.
	// Returns datastream.ErrDatastreamNotFound if it doesn't exist.
	Get(ctx context.Context, name string) (*datastream.Datastream, error)

	// ListNames returns the names of all persisted datastreams, ordered
	// lexicographically.
	ListNames(ctx context.Context) ([]string, error)

	// Delete removes the datastream with the given name.
	// Returns datastream.ErrDatastreamNotFound if it doesn't exist.
	Delete(ctx context.Context, name string) error

	// Healthcheck verifies the store is operational.
	Healthcheck(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}

// Type defines the supported store backends.
type Type string

const (
	// TypeSQLite uses SQLite (single-node, default).
	TypeSQLite Type = "sqlite"

	// TypePostgres uses PostgreSQL (HA-capable).
	TypePostgres Type = "postgres"

	// TypeBadger uses an embedded Badger key-value store.
	TypeBadger Type = "badger"
)

// Config contains store configuration.
type Config struct {
	Type     Type           `mapstructure:"type" yaml:"type"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Badger   BadgerConfig   `mapstructure:"badger" yaml:"badger"`
}

// New creates a store for the configured backend.
func New(config *Config) (Store, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}

	switch config.Type {
	case TypeSQLite, TypePostgres:
		return newGORMStore(config)
	case TypeBadger:
		return newBadgerStore(config.Badger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
