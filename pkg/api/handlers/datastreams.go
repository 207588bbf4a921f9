package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rzava/streamd/internal/logger"
	"github.com/rzava/streamd/pkg/datastream"
	"github.com/rzava/streamd/pkg/lifecycle"
)

// Service is the lifecycle surface the datastream handler depends on.
// Satisfied by *lifecycle.Controller.
type Service interface {
	Create(ctx context.Context, ds *datastream.Datastream) (*lifecycle.CreateResult, error)
	Get(ctx context.Context, name string) (*datastream.Datastream, error)
	GetAll(ctx context.Context, paging lifecycle.Paging) ([]*datastream.Datastream, error)
	Delete(ctx context.Context, name string) error
	Update(ctx context.Context, name string, ds *datastream.Datastream) error
}

// DatastreamHandler handles datastream management API endpoints.
type DatastreamHandler struct {
	service Service
}

// NewDatastreamHandler creates a new DatastreamHandler.
func NewDatastreamHandler(service Service) *DatastreamHandler {
	return &DatastreamHandler{service: service}
}

// CreateDatastreamResponse is the response body for POST /api/v1/datastreams.
type CreateDatastreamResponse struct {
	Name string `json:"name"`
}

// Create handles POST /api/v1/datastreams.
func (h *DatastreamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var ds datastream.Datastream
	if !decodeJSONBody(w, r, &ds) {
		return
	}

	result, err := h.service.Create(r.Context(), &ds)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	WriteJSONCreated(w, CreateDatastreamResponse{Name: result.Name})
}

// Get handles GET /api/v1/datastreams/{name}.
func (h *DatastreamHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ds, err := h.service.Get(r.Context(), name)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	if ds == nil {
		NotFound(w, fmt.Sprintf("Datastream %s not found", name))
		return
	}

	WriteJSONOK(w, ds)
}

// List handles GET /api/v1/datastreams.
//
// Paging is controlled by the optional offset and count query parameters.
// Unparseable values fall back to the defaults rather than failing the
// request.
func (h *DatastreamHandler) List(w http.ResponseWriter, r *http.Request) {
	paging := pagingFromQuery(r)

	streams, err := h.service.GetAll(r.Context(), paging)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	if streams == nil {
		streams = []*datastream.Datastream{}
	}
	WriteJSONOK(w, streams)
}

// Delete handles DELETE /api/v1/datastreams/{name}.
func (h *DatastreamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.Delete(r.Context(), name); err != nil {
		writeLifecycleError(w, err)
		return
	}

	WriteNoContent(w)
}

// Update handles PUT /api/v1/datastreams/{name}. The service rejects every
// update, so this always produces a 405 response.
func (h *DatastreamHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var ds datastream.Datastream
	if !decodeJSONBody(w, r, &ds) {
		return
	}

	if err := h.service.Update(r.Context(), name, &ds); err != nil {
		writeLifecycleError(w, err)
		return
	}

	WriteJSONOK(w, ds)
}

func pagingFromQuery(r *http.Request) lifecycle.Paging {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		offset = 0
	}
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		count = lifecycle.DefaultPageSize
	}
	return lifecycle.NewPaging(offset, count)
}

// writeLifecycleError maps a categorized lifecycle failure to an RFC 7807
// problem response.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch lifecycle.CategoryOf(err) {
	case lifecycle.CategoryInvalidInput, lifecycle.CategoryDomainValidation:
		BadRequest(w, err.Error())
	case lifecycle.CategoryAlreadyExists:
		Conflict(w, err.Error())
	case lifecycle.CategoryNotFound:
		NotFound(w, err.Error())
	case lifecycle.CategoryNotAllowed:
		MethodNotAllowed(w, err.Error())
	default:
		logger.Error("unhandled datastream API error", "error", err)
		InternalServerError(w, "Internal server error")
	}
}
