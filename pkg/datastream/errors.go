package datastream

import "errors"

// Common errors for datastream operations.
var (
	ErrDatastreamNotFound = errors.New("datastream not found")
	ErrDatastreamExists   = errors.New("datastream already exists")
)
