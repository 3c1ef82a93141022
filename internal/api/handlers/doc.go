// Package handlers implements the HTTP API of sb-price-watch. Operator
// routes are registered on a huma.API; liveness stays a plain echo handler.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
