package apiclient

import (
	"fmt"
	"net/url"

	"github.com/rzava/streamd/pkg/datastream"
)

// CreateDatastreamResponse is the response to a create request.
type CreateDatastreamResponse struct {
	Name string `json:"name"`
}

// ListDatastreams returns datastreams inside the given paging window.
// Pass offset 0 and count 0 for the server defaults.
func (c *Client) ListDatastreams(offset, count int) ([]*datastream.Datastream, error) {
	path := "/api/v1/datastreams"
	query := url.Values{}
	if offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", offset))
	}
	if count > 0 {
		query.Set("count", fmt.Sprintf("%d", count))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var streams []*datastream.Datastream
	if err := c.get(path, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// GetDatastream returns a datastream by name.
func (c *Client) GetDatastream(name string) (*datastream.Datastream, error) {
	var ds datastream.Datastream
	if err := c.get(fmt.Sprintf("/api/v1/datastreams/%s", url.PathEscape(name)), &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// CreateDatastream creates a new datastream.
func (c *Client) CreateDatastream(ds *datastream.Datastream) (*CreateDatastreamResponse, error) {
	var resp CreateDatastreamResponse
	if err := c.post("/api/v1/datastreams", ds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteDatastream deletes a datastream by name.
func (c *Client) DeleteDatastream(name string) error {
	return c.delete(fmt.Sprintf("/api/v1/datastreams/%s", url.PathEscape(name)), nil)
}
