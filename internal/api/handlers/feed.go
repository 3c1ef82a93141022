package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sb-price-watch/internal/feed"
	"github.com/donaldgifford/sb-price-watch/pkg/pricing"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// FeedHandler looks servers up in the live feed.
type FeedHandler struct {
	fetcher feed.Fetcher
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(f feed.Fetcher) *FeedHandler {
	return &FeedHandler{fetcher: f}
}

// GetFeedServerInput addresses one feed record.
type GetFeedServerInput struct {
	ID string `path:"id" doc:"Server Bourse auction ID"`
}

// GetFeedServerOutput is a feed record plus its gross monthly price.
type GetFeedServerOutput struct {
	Body struct {
		Server         domain.ServerRecord `json:"server"`
		Price          float64             `json:"price"           example:"130.9"   doc:"Gross monthly price including IP and VAT"`
		FormattedPrice string              `json:"formatted_price" example:"130.90€"`
	}
}

// GetServer fetches the feed and returns the requested record.
func (h *FeedHandler) GetServer(ctx context.Context, input *GetFeedServerInput) (*GetFeedServerOutput, error) {
	id, err := strconv.ParseInt(input.ID, 10, 64)
	if err != nil || id < 0 {
		return nil, huma.Error400BadRequest("Please provide a valid ID")
	}

	rec, err := feed.Lookup(ctx, h.fetcher, id)
	switch {
	case errors.Is(err, feed.ErrServerNotFound):
		return nil, huma.Error404NotFound("server not found in feed")
	case err != nil:
		return nil, huma.Error502BadGateway("fetching feed: " + err.Error())
	}

	price := pricing.ServerPrice(rec)
	resp := &GetFeedServerOutput{}
	resp.Body.Server = *rec
	resp.Body.Price = price
	resp.Body.FormattedPrice = pricing.Format(price)
	return resp, nil
}

// RegisterFeedRoutes registers feed lookup endpoints with the Huma API.
func RegisterFeedRoutes(api huma.API, h *FeedHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-feed-server",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/servers/{id}",
		Summary:     "Look up a server in the live feed",
		Description: "Fetches the current feed and returns the record with its computed gross price.",
		Tags:        []string{"feed"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway},
	}, h.GetServer)
}
