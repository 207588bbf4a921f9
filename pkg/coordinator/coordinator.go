// Package coordinator defines the client interface used by the lifecycle
// controller to initialize a datastream before it is persisted, plus a local
// in-process implementation backed by a connector registry.
package coordinator

import (
	"context"
	"fmt"

	"github.com/rzava/streamd/pkg/datastream"
)

// Client initializes a datastream against connector infrastructure.
//
// Initialize may mutate the record in place (assign a destination, stamp
// metadata). It must be safe to call once per create request; the controller
// never retries it. Semantic rejection of the requested configuration is
// reported as *ValidationError; any other error is treated as internal.
type Client interface {
	Initialize(ctx context.Context, ds *datastream.Datastream) error
}

// Connector validates and prepares datastreams for one connector type.
//
// Implementations must be safe for concurrent use; the coordinator calls
// them from multiple request goroutines.
type Connector interface {
	// InitializeDatastream checks that the datastream's source is valid for
	// this connector and fills in connector-specific defaults. Rejections
	// should be returned as *ValidationError.
	InitializeDatastream(ctx context.Context, ds *datastream.Datastream) error
}

// ValidationError reports that a datastream configuration is semantically
// invalid for the chosen connector.
type ValidationError struct {
	Connector string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("datastream validation failed for connector %q: %s", e.Connector, e.Reason)
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(connector, format string, args ...any) *ValidationError {
	return &ValidationError{Connector: connector, Reason: fmt.Sprintf(format, args...)}
}
