package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/sb-price-watch/internal/api/server"
	"github.com/donaldgifford/sb-price-watch/internal/engine"
	feedMocks "github.com/donaldgifford/sb-price-watch/internal/feed/mocks"
	notifyMocks "github.com/donaldgifford/sb-price-watch/internal/notify/mocks"
	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
	"github.com/donaldgifford/sb-price-watch/pkg/logger"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *watchlist.Store, *feedMocks.MockFetcher, *notifyMocks.MockNotifier) {
	t.Helper()

	w := watchlist.New()
	mf := feedMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)
	eng := engine.NewEngine(w, mf, mn, engine.WithLogger(logger.Discard()))

	e := server.New(server.Deps{
		Watches:    w,
		Reconciler: eng,
		Fetcher:    mf,
		Version:    "test",
	}, logger.Discard())

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, w, mf, mn
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_HealthzAndMetrics(t *testing.T) {
	t.Parallel()

	srv, _, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_OpenAPIDocument(t *testing.T) {
	t.Parallel()

	srv, _, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/openapi.json", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The redirect lands on the Swagger UI page.
	resp = do(t, http.MethodGet, srv.URL+"/swagger", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/swagger/index.html", resp.Request.URL.Path)
}

func TestServer_AddThenReconcile(t *testing.T) {
	t.Parallel()

	srv, w, mf, mn := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/watches", `{"id":"2165473"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, []string{"2165473"}, w.IDs())

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/watches", `{"id":"2165473"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	mf.EXPECT().Fetch(mock.Anything).Return(&domain.Snapshot{
		Servers: []domain.ServerRecord{{
			ID: 2165473, Price: 100, IPPrice: domain.IPPrice{Monthly: 10}, Datacenter: "FSN1-DC14",
		}},
		ServerCount: 1,
	}, nil).Once()
	mn.EXPECT().Send(mock.Anything,
		"Server with the ID 2165473 has been updated from 0.00€ to 130.90€ in the datacenter FSN1-DC14",
	).Once()

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reconcile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry, ok := w.FindByID("2165473")
	require.True(t, ok)
	assert.Equal(t, "FSN1-DC14", entry.Meta.Datacenter)

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/watches/2165473", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, w.Len())
}
