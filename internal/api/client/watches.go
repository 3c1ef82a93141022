package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

type listWatchesResponse struct {
	Watches []domain.WatchEntry `json:"watches"`
	Total   int                 `json:"total"`
}

// ListWatches returns every watched server.
func (c *Client) ListWatches(ctx context.Context) ([]domain.WatchEntry, error) {
	var resp listWatchesResponse
	if err := c.get(ctx, "/api/v1/watches", &resp); err != nil {
		return nil, err
	}
	return resp.Watches, nil
}

// GetWatch returns a single watched server.
func (c *Client) GetWatch(ctx context.Context, id string) (*domain.WatchEntry, error) {
	var w domain.WatchEntry
	if err := c.get(ctx, "/api/v1/watches/"+url.PathEscape(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// AddWatch adds a server to the watch list.
func (c *Client) AddWatch(ctx context.Context, id string) (*domain.WatchEntry, error) {
	var created domain.WatchEntry
	req := struct {
		ID string `json:"id"`
	}{ID: id}
	if err := c.post(ctx, "/api/v1/watches", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveWatch stops watching a server.
func (c *Client) RemoveWatch(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/watches/"+url.PathEscape(id), nil)
}
