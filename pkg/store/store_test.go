package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/rzava/streamd/pkg/datastream"
)

// backends under test. Each constructor returns a fresh, empty store.
func testBackends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			s, err := New(&Config{
				Type:   TypeSQLite,
				SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
			})
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			return s
		},
		"badger": func(t *testing.T) Store {
			s, err := newBadgerStore(BadgerConfig{InMemory: true})
			if err != nil {
				t.Fatalf("failed to open badger store: %v", err)
			}
			return s
		},
	}
}

func testStream(name string) *datastream.Datastream {
	return &datastream.Datastream{
		Name:          name,
		ConnectorName: "kafka",
		Source:        &datastream.Source{ConnectionString: "kafka://broker:9092/" + name, Partitions: 4},
		Destination:   &datastream.Destination{ConnectionString: "kafka://mirror/" + name, Partitions: 4},
		Metadata: map[string]string{
			datastream.MetadataOwner:      "data-team",
			datastream.MetadataCreationMs: "1735689600000",
		},
	}
}

func TestStore_CreateGetRoundtrip(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			ctx := context.Background()

			want := testStream("mirror-events")
			if err := s.Create(ctx, want.Name, want); err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}

			got, err := s.Get(ctx, "mirror-events")
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if got.Name != want.Name || got.ConnectorName != want.ConnectorName {
				t.Errorf("Get() = %v, want %v", got, want)
			}
			if got.Source == nil || got.Source.ConnectionString != want.Source.ConnectionString {
				t.Errorf("source not preserved: %v", got.Source)
			}
			if !reflect.DeepEqual(got.Metadata, want.Metadata) {
				t.Errorf("metadata = %v, want %v", got.Metadata, want.Metadata)
			}
		})
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			ctx := context.Background()

			ds := testStream("mirror-events")
			if err := s.Create(ctx, ds.Name, ds); err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			err := s.Create(ctx, ds.Name, ds)
			if !errors.Is(err, datastream.ErrDatastreamExists) {
				t.Errorf("duplicate Create() error = %v, want ErrDatastreamExists", err)
			}
		})
	}
}

func TestStore_GetAbsent(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, err := s.Get(context.Background(), "nope")
			if !errors.Is(err, datastream.ErrDatastreamNotFound) {
				t.Errorf("Get() error = %v, want ErrDatastreamNotFound", err)
			}
		})
	}
}

func TestStore_ListNamesOrdered(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			ctx := context.Background()

			// Insert out of order, expect lexicographic listing.
			for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
				if err := s.Create(ctx, name, testStream(name)); err != nil {
					t.Fatalf("Create(%s) unexpected error: %v", name, err)
				}
			}

			names, err := s.ListNames(ctx)
			if err != nil {
				t.Fatalf("ListNames() unexpected error: %v", err)
			}
			want := []string{"alpha", "bravo", "charlie", "delta"}
			if !reflect.DeepEqual(names, want) {
				t.Errorf("ListNames() = %v, want %v", names, want)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			ctx := context.Background()

			ds := testStream("mirror-events")
			if err := s.Create(ctx, ds.Name, ds); err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			if err := s.Delete(ctx, ds.Name); err != nil {
				t.Fatalf("Delete() unexpected error: %v", err)
			}

			if _, err := s.Get(ctx, ds.Name); !errors.Is(err, datastream.ErrDatastreamNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrDatastreamNotFound", err)
			}
			if err := s.Delete(ctx, ds.Name); !errors.Is(err, datastream.ErrDatastreamNotFound) {
				t.Errorf("second Delete() error = %v, want ErrDatastreamNotFound", err)
			}
		})
	}
}

func TestStore_ConcurrentCreateSameName(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			ctx := context.Background()

			const n = 8
			results := make(chan error, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results <- s.Create(ctx, "contested", testStream("contested"))
				}()
			}
			wg.Wait()
			close(results)

			var wins, losses int
			for err := range results {
				switch {
				case err == nil:
					wins++
				case errors.Is(err, datastream.ErrDatastreamExists):
					losses++
				default:
					t.Errorf("unexpected Create() error: %v", err)
				}
			}
			if wins != 1 {
				t.Errorf("got %d winning creates, want exactly 1", wins)
			}
			if wins+losses != n {
				t.Errorf("wins+losses = %d, want %d", wins+losses, n)
			}
		})
	}
}

func TestStore_Healthcheck(t *testing.T) {
	for backend, open := range testBackends(t) {
		t.Run(backend, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			if err := s.Healthcheck(context.Background()); err != nil {
				t.Errorf("Healthcheck() unexpected error: %v", err)
			}
		})
	}
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New(&Config{Type: "etcd"}); err == nil {
		t.Fatal("New() expected error for unsupported type, got nil")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Type != TypeSQLite {
		t.Errorf("default type = %s, want sqlite", cfg.Type)
	}
	if cfg.SQLite.Path == "" {
		t.Error("default sqlite path is empty")
	}

	pg := Config{Type: TypePostgres}
	pg.ApplyDefaults()
	if pg.Postgres.Port != 5432 || pg.Postgres.SSLMode != "disable" {
		t.Errorf("postgres defaults = port %d sslmode %q", pg.Postgres.Port, pg.Postgres.SSLMode)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid sqlite", Config{Type: TypeSQLite, SQLite: SQLiteConfig{Path: "/tmp/x.db"}}, false},
		{"sqlite missing path", Config{Type: TypeSQLite}, true},
		{"postgres missing host", Config{Type: TypePostgres, Postgres: PostgresConfig{Database: "d", User: "u"}}, true},
		{"badger missing path", Config{Type: TypeBadger}, true},
		{"unknown type", Config{Type: "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
