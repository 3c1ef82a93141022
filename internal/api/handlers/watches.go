package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// WatchHandler exposes the watch list over HTTP.
type WatchHandler struct {
	watches *watchlist.Store
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(w *watchlist.Store) *WatchHandler {
	return &WatchHandler{watches: w}
}

// --- Input/Output types ---

// ListWatchesOutput is the response for listing watches.
type ListWatchesOutput struct {
	Body struct {
		Watches []domain.WatchEntry `json:"watches"`
		Total   int                 `json:"total"`
	}
}

// WatchIDInput addresses a single watch.
type WatchIDInput struct {
	ID string `path:"id" doc:"Server Bourse auction ID"`
}

// WatchOutput wraps a single watch entry.
type WatchOutput struct {
	Body domain.WatchEntry
}

// CreateWatchInput is the body for adding a watch.
type CreateWatchInput struct {
	Body struct {
		ID string `json:"id" example:"2165473" doc:"Server Bourse auction ID"`
	}
}

// --- Handlers ---

// List returns every watched server in insertion order.
func (h *WatchHandler) List(_ context.Context, _ *struct{}) (*ListWatchesOutput, error) {
	resp := &ListWatchesOutput{}
	resp.Body.Watches = h.watches.List()
	resp.Body.Total = len(resp.Body.Watches)
	return resp, nil
}

// Get returns one watched server.
func (h *WatchHandler) Get(_ context.Context, input *WatchIDInput) (*WatchOutput, error) {
	entry, ok := h.watches.FindByID(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("watch not found")
	}
	return &WatchOutput{Body: entry}, nil
}

// Create adds a server to the watch list.
func (h *WatchHandler) Create(_ context.Context, input *CreateWatchInput) (*WatchOutput, error) {
	entry, err := h.watches.Add(input.Body.ID)
	switch {
	case errors.Is(err, watchlist.ErrInvalidID):
		return nil, huma.Error400BadRequest("Please provide a valid ID")
	case errors.Is(err, watchlist.ErrDuplicateID):
		return nil, huma.Error409Conflict("Server with the ID " + input.Body.ID + " already exists")
	case err != nil:
		return nil, huma.Error500InternalServerError("adding watch: " + err.Error())
	}
	return &WatchOutput{Body: entry}, nil
}

// Delete stops watching a server.
func (h *WatchHandler) Delete(_ context.Context, input *WatchIDInput) (*struct{}, error) {
	if !h.watches.RemoveByID(input.ID) {
		return nil, huma.Error404NotFound("watch not found")
	}
	return nil, nil
}

// RegisterWatchRoutes registers watch endpoints with the Huma API.
func RegisterWatchRoutes(api huma.API, h *WatchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-watches",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches",
		Summary:     "List watches",
		Description: "Returns every watched server with its last recorded price and datacenter.",
		Tags:        []string{"watches"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-watch",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches/{id}",
		Summary:     "Get a watch",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-watch",
		Method:        http.MethodPost,
		Path:          "/api/v1/watches",
		Summary:       "Add a watch",
		Description:   "Adds a Server Bourse auction ID to the watch list.",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-watch",
		Method:        http.MethodDelete,
		Path:          "/api/v1/watches/{id}",
		Summary:       "Remove a watch",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Delete)
}
