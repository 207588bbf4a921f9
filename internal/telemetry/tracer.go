package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for datastream lifecycle spans.
const (
	AttrDatastream = "datastream.name"
	AttrConnector  = "datastream.connector"
	AttrOperation  = "datastream.operation"
	AttrOwner      = "datastream.owner"
	AttrOffset     = "paging.offset"
	AttrCount      = "paging.count"
	AttrStoreType  = "store.type"
)

// Datastream returns an attribute for a datastream name
func Datastream(name string) attribute.KeyValue {
	return attribute.String(AttrDatastream, name)
}

// Connector returns an attribute for a connector type
func Connector(name string) attribute.KeyValue {
	return attribute.String(AttrConnector, name)
}

// Operation returns an attribute for a lifecycle operation name
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// Owner returns an attribute for a datastream owner
func Owner(owner string) attribute.KeyValue {
	return attribute.String(AttrOwner, owner)
}

// PagingOffset returns an attribute for a listing offset
func PagingOffset(offset int) attribute.KeyValue {
	return attribute.Int(AttrOffset, offset)
}

// PagingCount returns an attribute for a listing count
func PagingCount(count int) attribute.KeyValue {
	return attribute.Int(AttrCount, count)
}

// StoreType returns an attribute for the store backend type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// StartDatastreamSpan starts a span for a datastream lifecycle operation,
// tagging it with the operation and the datastream name when known.
func StartDatastreamSpan(ctx context.Context, operation, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Operation(operation)}
	if name != "" {
		allAttrs = append(allAttrs, Datastream(name))
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "datastream."+operation, trace.WithAttributes(allAttrs...))
}
