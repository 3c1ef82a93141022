package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sb-price-watch/internal/engine"
	"github.com/donaldgifford/sb-price-watch/internal/feed"
)

// Reconciler runs one reconcile pass on demand.
type Reconciler interface {
	RunReconcile(ctx context.Context) (*engine.Result, error)
}

// ReconcileHandler handles manual reconcile triggers.
type ReconcileHandler struct {
	reconciler Reconciler
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(r Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: r}
}

// ReconcileOutput is the response body for the reconcile endpoint.
type ReconcileOutput struct {
	Body engine.Result
}

// Reconcile runs the reconcile loop once, outside the schedule.
func (h *ReconcileHandler) Reconcile(ctx context.Context, _ *struct{}) (*ReconcileOutput, error) {
	res, err := h.reconciler.RunReconcile(ctx)
	if err != nil {
		if errors.Is(err, feed.ErrFeedUnavailable) {
			return nil, huma.Error502BadGateway("reconcile failed: " + err.Error())
		}
		return nil, huma.Error500InternalServerError("reconcile failed: " + err.Error())
	}
	return &ReconcileOutput{Body: *res}, nil
}

// RegisterReconcileRoutes registers the reconcile trigger with the Huma API.
func RegisterReconcileRoutes(api huma.API, h *ReconcileHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-reconcile",
		Method:      http.MethodPost,
		Path:        "/api/v1/reconcile",
		Summary:     "Trigger a reconcile",
		Description: "Fetches the live feed and applies it to the watch list, " +
			"sending notifications for price increases and removed servers.",
		Tags:   []string{"reconcile"},
		Errors: []int{http.StatusBadGateway, http.StatusInternalServerError},
	}, h.Reconcile)
}
