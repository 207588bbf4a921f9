// Package lifecycle implements the datastream lifecycle controller: the
// request-handling pipeline behind the REST boundary.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/rzava/streamd/internal/logger"
	"github.com/rzava/streamd/internal/telemetry"
	"github.com/rzava/streamd/pkg/coordinator"
	"github.com/rzava/streamd/pkg/datastream"
	"github.com/rzava/streamd/pkg/metrics"
	"github.com/rzava/streamd/pkg/store"
)

// Controller orchestrates datastream create/read/delete against the
// coordinator and the store.
//
// The controller holds no mutable state of its own; every invocation is
// logically independent, so concurrent requests need no synchronization at
// this layer. The injected collaborators are assumed safe for concurrent use.
type Controller struct {
	store       store.Store
	coordinator coordinator.Client
	metrics     *metrics.Recorder
}

// CreateResult reports the outcome of a successful create, carrying the
// final name of the persisted datastream (initialization may have mutated
// the record).
type CreateResult struct {
	Name string
}

// New creates a controller with injected collaborators. The metrics recorder
// may be nil, which disables instrumentation.
func New(s store.Store, c coordinator.Client, m *metrics.Recorder) *Controller {
	return &Controller{store: s, coordinator: c, metrics: m}
}

// Create validates, initializes, and persists a new datastream.
//
// The sequence is strict: validation failures never reach the coordinator,
// initialization failures never reach the store, and no stage is retried.
// On success the elapsed time from just before initialization through
// persistence is recorded in the create-latency gauge.
func (c *Controller) Create(ctx context.Context, ds *datastream.Datastream) (*CreateResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "datastream.Create")
	defer span.End()
	c.metrics.IncCall(metrics.OpCreate)

	logger.Info("create datastream called", "datastream", dsName(ds))

	if err := datastream.ValidateNew(ds); err != nil {
		return nil, c.fail(ctx, metrics.OpCreate, dsName(ds), CategoryInvalidInput,
			"invalid input params for create request", err)
	}

	start := time.Now()

	if err := c.coordinator.Initialize(ctx, ds); err != nil {
		var verr *coordinator.ValidationError
		if errors.As(err, &verr) {
			return nil, c.fail(ctx, metrics.OpCreate, ds.Name, CategoryDomainValidation,
				"failed to initialize datastream", err)
		}
		return nil, c.fail(ctx, metrics.OpCreate, ds.Name, CategoryInternal,
			"unexpected error during datastream initialization", err)
	}

	if err := c.store.Create(ctx, ds.Name, ds); err != nil {
		if errors.Is(err, datastream.ErrDatastreamExists) {
			return nil, c.fail(ctx, metrics.OpCreate, ds.Name, CategoryAlreadyExists,
				"datastream with the same name already exists", err)
		}
		return nil, c.fail(ctx, metrics.OpCreate, ds.Name, CategoryInternal,
			"unexpected error during datastream creation", err)
	}

	elapsed := time.Since(start)
	c.metrics.SetCreateLatency(elapsed)

	logger.Debug("datastream persisted", "datastream", ds.Name, "elapsed", elapsed.String())
	return &CreateResult{Name: ds.Name}, nil
}

// Get looks a datastream up by exact name. Absence is a normal outcome, not
// a failure: Get returns (nil, nil) when the name is unknown and the boundary
// turns that into a not-found response.
func (c *Controller) Get(ctx context.Context, name string) (*datastream.Datastream, error) {
	ctx, span := telemetry.StartSpan(ctx, "datastream.Get")
	defer span.End()
	c.metrics.IncCall(metrics.OpGet)

	logger.Info("get datastream called", "datastream", name)

	ds, err := c.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, datastream.ErrDatastreamNotFound) {
			return nil, nil
		}
		return nil, c.fail(ctx, metrics.OpGet, name, CategoryInternal,
			"get datastream failed", err)
	}
	return ds, nil
}

// GetAll lists datastreams inside the requested paging window.
//
// The store's ordered name listing is windowed first, then each name in the
// window is resolved individually. A name deleted between listing and
// resolution is silently dropped, so the result may hold fewer entries than
// the window requested; order is preserved.
func (c *Controller) GetAll(ctx context.Context, paging Paging) ([]*datastream.Datastream, error) {
	ctx, span := telemetry.StartSpan(ctx, "datastream.GetAll")
	defer span.End()
	c.metrics.IncCall(metrics.OpGetAll)

	logger.Info("get all datastreams called", "offset", paging.Offset, "count", paging.Count)

	names, err := c.store.ListNames(ctx)
	if err != nil {
		return nil, c.fail(ctx, metrics.OpGetAll, "", CategoryInternal,
			"get all datastreams failed", err)
	}

	window := paging.Window(names)
	result := make([]*datastream.Datastream, 0, len(window))
	for _, name := range window {
		ds, err := c.store.Get(ctx, name)
		if err != nil {
			if errors.Is(err, datastream.ErrDatastreamNotFound) {
				// Removed between listing and resolution.
				continue
			}
			return nil, c.fail(ctx, metrics.OpGetAll, name, CategoryInternal,
				"get all datastreams failed", err)
		}
		result = append(result, ds)
	}
	return result, nil
}

// Delete removes a datastream by name. Deleting a missing datastream is a
// failure (the caller explicitly asked for it to go away), checked before
// the store's delete path is ever invoked.
func (c *Controller) Delete(ctx context.Context, name string) error {
	ctx, span := telemetry.StartSpan(ctx, "datastream.Delete")
	defer span.End()
	c.metrics.IncCall(metrics.OpDelete)

	logger.Info("delete datastream called", "datastream", name)

	if _, err := c.store.Get(ctx, name); err != nil {
		if errors.Is(err, datastream.ErrDatastreamNotFound) {
			return c.fail(ctx, metrics.OpDelete, name, CategoryNotFound,
				"datastream requested to be deleted does not exist", err)
		}
		return c.fail(ctx, metrics.OpDelete, name, CategoryInternal,
			"delete failed for datastream", err)
	}

	start := time.Now()
	if err := c.store.Delete(ctx, name); err != nil {
		return c.fail(ctx, metrics.OpDelete, name, CategoryInternal,
			"delete failed for datastream", err)
	}
	c.metrics.SetDeleteLatency(time.Since(start))

	return nil
}

// Update is permanently unsupported. It rejects every request without
// touching the coordinator or the store; only the update call counter moves.
func (c *Controller) Update(ctx context.Context, name string, ds *datastream.Datastream) error {
	c.metrics.IncCall(metrics.OpUpdate)
	return &Error{
		Category: CategoryNotAllowed,
		Op:       metrics.OpUpdate,
		Name:     name,
		Message:  "datastream update is not supported",
	}
}

// fail records the failure in the error counter and the span, logs it with
// operation context, and returns the categorized error for the boundary.
func (c *Controller) fail(ctx context.Context, op, name string, cat Category, msg string, cause error) *Error {
	c.metrics.IncError()
	telemetry.RecordError(ctx, cause)
	logger.Error("datastream operation failed",
		"operation", op,
		"datastream", name,
		"category", string(cat),
		"error", cause,
	)
	return &Error{Category: cat, Op: op, Name: name, Message: msg, Err: cause}
}

func dsName(ds *datastream.Datastream) string {
	if ds == nil {
		return ""
	}
	return ds.Name
}
