package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// ReconcileResult mirrors the reconcile endpoint's response.
type ReconcileResult struct {
	Skipped     bool `json:"skipped"`
	ServerCount int  `json:"server_count"`
	Checked     int  `json:"checked"`
	Increased   int  `json:"increased"`
	Removed     int  `json:"removed"`
}

// FeedServer is a live feed record with its computed gross price.
type FeedServer struct {
	Server         domain.ServerRecord `json:"server"`
	Price          float64             `json:"price"`
	FormattedPrice string              `json:"formatted_price"`
}

// Reconcile triggers one reconcile run on the server.
func (c *Client) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	var res ReconcileResult
	if err := c.post(ctx, "/api/v1/reconcile", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FeedServer looks a server up in the live feed through the API.
func (c *Client) FeedServer(ctx context.Context, id string) (*FeedServer, error) {
	var fs FeedServer
	if err := c.get(ctx, "/api/v1/feed/servers/"+url.PathEscape(id), &fs); err != nil {
		return nil, err
	}
	return &fs, nil
}
