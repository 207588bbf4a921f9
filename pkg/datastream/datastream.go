// Package datastream defines the datastream resource model shared by the
// store, the coordinator, and the lifecycle controller.
package datastream

import (
	"encoding/json"
	"strconv"
	"time"
)

// Metadata keys recognized by the server.
const (
	// MetadataOwner is the required owner key. Every datastream must name
	// an owning principal at creation time.
	MetadataOwner = "owner"

	// MetadataUserManagedDestination is set to "true" when the client
	// supplies its own destination connection string instead of letting
	// the coordinator assign one.
	MetadataUserManagedDestination = "isUserManagedDestination"

	// MetadataCreationMs records the creation timestamp in epoch millis.
	// Stamped by the coordinator during initialization.
	MetadataCreationMs = "creation.ms"
)

// Source describes where a datastream reads from.
type Source struct {
	ConnectionString string `json:"connectionString"`
	Partitions       int    `json:"partitions,omitempty"`
}

// Destination describes where a datastream writes to. It is optional on
// create requests; the coordinator assigns one unless the client provides
// its own connection string.
type Destination struct {
	ConnectionString string `json:"connectionString,omitempty"`
	Partitions       int    `json:"partitions,omitempty"`
}

// Datastream is the named stream-configuration resource managed by streamd.
//
// Name is the unique key across the store and is immutable once persisted.
type Datastream struct {
	Name          string            `json:"name" validate:"required"`
	ConnectorName string            `json:"connectorName" validate:"required"`
	Source        *Source           `json:"source" validate:"required"`
	Destination   *Destination      `json:"destination,omitempty"`
	Metadata      map[string]string `json:"metadata"`
}

// Owner returns the owner metadata value, or "" when unset.
func (d *Datastream) Owner() string {
	return d.Metadata[MetadataOwner]
}

// EnsureMetadata returns the metadata map, allocating it if needed.
func (d *Datastream) EnsureMetadata() map[string]string {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	return d.Metadata
}

// HasUserManagedDestination reports whether the client supplied a destination
// with a connection string.
func (d *Datastream) HasUserManagedDestination() bool {
	return d.Destination != nil && d.Destination.ConnectionString != ""
}

// StampCreation records the creation time in metadata in epoch millis.
func (d *Datastream) StampCreation(t time.Time) {
	d.EnsureMetadata()[MetadataCreationMs] = strconv.FormatInt(t.UnixMilli(), 10)
}

// Clone returns a deep copy of the datastream. Used by stores that hand out
// records from memory so callers cannot mutate persisted state.
func (d *Datastream) Clone() *Datastream {
	out := &Datastream{
		Name:          d.Name,
		ConnectorName: d.ConnectorName,
	}
	if d.Source != nil {
		src := *d.Source
		out.Source = &src
	}
	if d.Destination != nil {
		dst := *d.Destination
		out.Destination = &dst
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// String renders the datastream as compact JSON for logging.
func (d *Datastream) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return d.Name
	}
	return string(b)
}
