package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rzava/streamd/pkg/datastream"
)

// record is the relational row for a persisted datastream. The structured
// source/destination/metadata fields are stored as JSON blobs; the name is
// the primary key and never changes after insert.
type record struct {
	Name          string    `gorm:"primaryKey;size:255"`
	ConnectorName string    `gorm:"not null;size:255"`
	Source        string    `gorm:"type:text;not null"`
	Destination   string    `gorm:"type:text"`
	Metadata      string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for record.
func (record) TableName() string {
	return "datastreams"
}

func toRecord(name string, ds *datastream.Datastream) (*record, error) {
	source, err := json.Marshal(ds.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source: %w", err)
	}
	metadata, err := json.Marshal(ds.EnsureMetadata())
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	rec := &record{
		Name:          name,
		ConnectorName: ds.ConnectorName,
		Source:        string(source),
		Metadata:      string(metadata),
	}
	if ds.Destination != nil {
		destination, err := json.Marshal(ds.Destination)
		if err != nil {
			return nil, fmt.Errorf("failed to encode destination: %w", err)
		}
		rec.Destination = string(destination)
	}
	return rec, nil
}

func (r *record) toDatastream() (*datastream.Datastream, error) {
	ds := &datastream.Datastream{
		Name:          r.Name,
		ConnectorName: r.ConnectorName,
	}
	if r.Source != "" {
		ds.Source = &datastream.Source{}
		if err := json.Unmarshal([]byte(r.Source), ds.Source); err != nil {
			return nil, fmt.Errorf("failed to decode source for %s: %w", r.Name, err)
		}
	}
	if r.Destination != "" {
		ds.Destination = &datastream.Destination{}
		if err := json.Unmarshal([]byte(r.Destination), ds.Destination); err != nil {
			return nil, fmt.Errorf("failed to decode destination for %s: %w", r.Name, err)
		}
	}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &ds.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", r.Name, err)
		}
	}
	return ds, nil
}
