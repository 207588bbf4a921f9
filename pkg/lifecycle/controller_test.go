package lifecycle

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rzava/streamd/pkg/coordinator"
	"github.com/rzava/streamd/pkg/datastream"
	"github.com/rzava/streamd/pkg/metrics"
)

// memStore is an in-memory store.Store for controller tests. notFoundNames
// simulates streams deleted between ListNames and Get; failDelete forces the
// delete path to error.
type memStore struct {
	mu            sync.Mutex
	streams       map[string]*datastream.Datastream
	notFoundNames map[string]bool
	deleteCalls   int
	createCalls   int
}

func newMemStore() *memStore {
	return &memStore{
		streams:       make(map[string]*datastream.Datastream),
		notFoundNames: make(map[string]bool),
	}
}

func (s *memStore) Create(ctx context.Context, name string, ds *datastream.Datastream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if _, ok := s.streams[name]; ok {
		return datastream.ErrDatastreamExists
	}
	s.streams[name] = ds.Clone()
	return nil
}

func (s *memStore) Get(ctx context.Context, name string) (*datastream.Datastream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notFoundNames[name] {
		return nil, datastream.ErrDatastreamNotFound
	}
	ds, ok := s.streams[name]
	if !ok {
		return nil, datastream.ErrDatastreamNotFound
	}
	return ds.Clone(), nil
}

func (s *memStore) ListNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.streams))
	for name := range s.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if _, ok := s.streams[name]; !ok {
		return datastream.ErrDatastreamNotFound
	}
	delete(s.streams, name)
	return nil
}

func (s *memStore) Healthcheck(ctx context.Context) error { return nil }
func (s *memStore) Close() error                          { return nil }

// stubCoordinator records initializations and optionally fails them.
type stubCoordinator struct {
	err   error
	calls int
}

func (c *stubCoordinator) Initialize(ctx context.Context, ds *datastream.Datastream) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	if !ds.HasUserManagedDestination() {
		ds.Destination = &datastream.Destination{ConnectionString: "kafka://" + ds.Name, Partitions: 1}
	}
	return nil
}

type fixture struct {
	controller  *Controller
	store       *memStore
	coordinator *stubCoordinator
	recorder    *metrics.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newMemStore()
	coord := &stubCoordinator{}
	rec := metrics.NewRecorder(prometheus.NewRegistry())
	return &fixture{
		controller:  New(st, coord, rec),
		store:       st,
		coordinator: coord,
		recorder:    rec,
	}
}

func validStream(name string) *datastream.Datastream {
	return &datastream.Datastream{
		Name:          name,
		ConnectorName: "kafka",
		Source:        &datastream.Source{ConnectionString: "kafka://broker:9092/events"},
		Metadata:      map[string]string{datastream.MetadataOwner: "data-team"},
	}
}

func calls(rec *metrics.Recorder, op string) float64 {
	return testutil.ToFloat64(rec.Calls.WithLabelValues(op))
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)

	result, err := f.controller.Create(context.Background(), validStream("mirror-events"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if result.Name != "mirror-events" {
		t.Errorf("result name = %q, want \"mirror-events\"", result.Name)
	}

	stored, err := f.store.Get(context.Background(), "mirror-events")
	if err != nil {
		t.Fatalf("stream not persisted: %v", err)
	}
	if stored.Destination == nil {
		t.Error("persisted stream is missing the assigned destination")
	}

	if got := calls(f.recorder, metrics.OpCreate); got != 1 {
		t.Errorf("create calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 0 {
		t.Errorf("call errors = %v, want 0", got)
	}
	if got := testutil.ToFloat64(f.recorder.CreateLatencyMs); got < 0 {
		t.Errorf("create latency = %v, want >= 0", got)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	f := newFixture(t)

	ds := validStream("mirror-events")
	delete(ds.Metadata, datastream.MetadataOwner)

	_, err := f.controller.Create(context.Background(), ds)
	if CategoryOf(err) != CategoryInvalidInput {
		t.Fatalf("Create() category = %v, want %v", CategoryOf(err), CategoryInvalidInput)
	}

	if f.coordinator.calls != 0 {
		t.Error("validation failure must not reach the coordinator")
	}
	if f.store.createCalls != 0 {
		t.Error("validation failure must not reach the store")
	}
	if got := calls(f.recorder, metrics.OpCreate); got != 1 {
		t.Errorf("create calls = %v, want 1 (counted even on failure)", got)
	}
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 1 {
		t.Errorf("call errors = %v, want 1", got)
	}
}

func TestCreate_CoordinatorRejection(t *testing.T) {
	f := newFixture(t)
	f.coordinator.err = coordinator.NewValidationError("kafka", "topic does not exist")

	_, err := f.controller.Create(context.Background(), validStream("mirror-events"))
	if CategoryOf(err) != CategoryDomainValidation {
		t.Fatalf("Create() category = %v, want %v", CategoryOf(err), CategoryDomainValidation)
	}
	if f.store.createCalls != 0 {
		t.Error("initialization failure must not reach the store")
	}
}

func TestCreate_CoordinatorInternalError(t *testing.T) {
	f := newFixture(t)
	f.coordinator.err = errors.New("zk session expired")

	_, err := f.controller.Create(context.Background(), validStream("mirror-events"))
	if CategoryOf(err) != CategoryInternal {
		t.Fatalf("Create() category = %v, want %v", CategoryOf(err), CategoryInternal)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.controller.Create(ctx, validStream("mirror-events")); err != nil {
		t.Fatalf("first Create() unexpected error: %v", err)
	}
	_, err := f.controller.Create(ctx, validStream("mirror-events"))
	if CategoryOf(err) != CategoryAlreadyExists {
		t.Fatalf("second Create() category = %v, want %v", CategoryOf(err), CategoryAlreadyExists)
	}
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 1 {
		t.Errorf("call errors = %v, want 1", got)
	}
}

func TestGet_AbsentIsNotAnError(t *testing.T) {
	f := newFixture(t)

	ds, err := f.controller.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if ds != nil {
		t.Errorf("Get() = %v, want nil for absent stream", ds)
	}
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 0 {
		t.Errorf("call errors = %v, want 0 (absence is non-exceptional)", got)
	}
	if got := calls(f.recorder, metrics.OpGet); got != 1 {
		t.Errorf("get calls = %v, want 1", got)
	}
}

func TestGet_Roundtrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.controller.Create(ctx, validStream("mirror-events")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	ds, err := f.controller.Get(ctx, "mirror-events")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if ds == nil || ds.Name != "mirror-events" {
		t.Fatalf("Get() = %v, want the created stream", ds)
	}
	if ds.Owner() != "data-team" {
		t.Errorf("owner = %q, want \"data-team\"", ds.Owner())
	}
}

func TestGetAll_Window(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		if _, err := f.controller.Create(ctx, validStream(name)); err != nil {
			t.Fatalf("Create(%s) unexpected error: %v", name, err)
		}
	}

	streams, err := f.controller.GetAll(ctx, NewPaging(1, 2))
	if err != nil {
		t.Fatalf("GetAll() unexpected error: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("GetAll() returned %d streams, want 2", len(streams))
	}
	if streams[0].Name != "bravo" || streams[1].Name != "charlie" {
		t.Errorf("GetAll() window = [%s %s], want [bravo charlie]", streams[0].Name, streams[1].Name)
	}
}

func TestGetAll_DropsConcurrentlyDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "bravo", "charlie"} {
		if _, err := f.controller.Create(ctx, validStream(name)); err != nil {
			t.Fatalf("Create(%s) unexpected error: %v", name, err)
		}
	}
	// bravo is listed but gone by the time it is resolved.
	f.store.notFoundNames["bravo"] = true

	streams, err := f.controller.GetAll(ctx, NewPaging(0, 10))
	if err != nil {
		t.Fatalf("GetAll() unexpected error: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("GetAll() returned %d streams, want 2", len(streams))
	}
	if streams[0].Name != "alpha" || streams[1].Name != "charlie" {
		t.Errorf("GetAll() = [%s %s], want [alpha charlie]", streams[0].Name, streams[1].Name)
	}
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 0 {
		t.Errorf("call errors = %v, want 0 (concurrent deletion is not a failure)", got)
	}
}

func TestGetAll_Empty(t *testing.T) {
	f := newFixture(t)

	streams, err := f.controller.GetAll(context.Background(), NewPaging(0, 10))
	if err != nil {
		t.Fatalf("GetAll() unexpected error: %v", err)
	}
	if len(streams) != 0 {
		t.Errorf("GetAll() returned %d streams, want 0", len(streams))
	}
}

func TestDelete_Absent(t *testing.T) {
	f := newFixture(t)

	err := f.controller.Delete(context.Background(), "nope")
	if CategoryOf(err) != CategoryNotFound {
		t.Fatalf("Delete() category = %v, want %v", CategoryOf(err), CategoryNotFound)
	}
	if f.store.deleteCalls != 0 {
		t.Error("Delete() must not reach the store's delete path for an absent stream")
	}
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 1 {
		t.Errorf("call errors = %v, want 1", got)
	}
}

func TestDelete_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.controller.Create(ctx, validStream("mirror-events")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := f.controller.Delete(ctx, "mirror-events"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	ds, err := f.controller.Get(ctx, "mirror-events")
	if err != nil || ds != nil {
		t.Errorf("stream still present after delete: ds=%v err=%v", ds, err)
	}
	if got := calls(f.recorder, metrics.OpDelete); got != 1 {
		t.Errorf("delete calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(f.recorder.DeleteLatencyMs); got < 0 {
		t.Errorf("delete latency = %v, want >= 0", got)
	}
}

func TestUpdate_AlwaysRejected(t *testing.T) {
	f := newFixture(t)

	err := f.controller.Update(context.Background(), "mirror-events", validStream("mirror-events"))
	if CategoryOf(err) != CategoryNotAllowed {
		t.Fatalf("Update() category = %v, want %v", CategoryOf(err), CategoryNotAllowed)
	}

	if f.coordinator.calls != 0 {
		t.Error("Update() must not call the coordinator")
	}
	if f.store.createCalls != 0 || f.store.deleteCalls != 0 {
		t.Error("Update() must not touch the store")
	}
	if got := calls(f.recorder, metrics.OpUpdate); got != 1 {
		t.Errorf("update calls = %v, want 1", got)
	}
	// The rejection is unconditional, not a failure of a supported operation.
	if got := testutil.ToFloat64(f.recorder.CallErrors); got != 0 {
		t.Errorf("call errors = %v, want 0", got)
	}
}

func TestCreate_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a'+i%8)) + "-stream"
			_, _ = f.controller.Create(ctx, validStream(name))
		}(i)
	}
	wg.Wait()

	names, err := f.store.ListNames(ctx)
	if err != nil {
		t.Fatalf("ListNames() unexpected error: %v", err)
	}
	if len(names) != 8 {
		t.Errorf("store holds %d streams, want 8 (one winner per name)", len(names))
	}
	if got := calls(f.recorder, metrics.OpCreate); got != n {
		t.Errorf("create calls = %v, want %d", got, n)
	}
	if got := testutil.ToFloat64(f.recorder.CreateLatencyMs); got < 0 {
		t.Errorf("create latency = %v, want >= 0", got)
	}
}
