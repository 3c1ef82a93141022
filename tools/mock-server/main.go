// Package main implements a mock Server Bourse feed for local development.
// It serves a JSON fixture at the live-data path and exposes admin routes to
// change prices, drop servers and simulate outages, so every reconcile
// outcome can be reproduced without waiting on the real auction.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

const feedPath = "/_resources/app/data/app/live_data_sb_EUR.json"

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/live_data_sb_EUR.json", "path to feed fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "servers", len(fixture.Servers))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock feed server", "addr", addr, "feed", "http://localhost"+addr+feedPath)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(newFeedState(fixture), logger)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &snap, nil
}

// feedState is the mutable snapshot served to clients.
type feedState struct {
	mu       sync.Mutex
	initial []domain.ServerRecord
	servers  []domain.ServerRecord
	outage   int
}

func newFeedState(fixture *domain.Snapshot) *feedState {
	s := &feedState{initial: append([]domain.ServerRecord(nil), fixture.Servers...)}
	s.reset()
	return s
}

func (s *feedState) reset() {
	s.servers = append([]domain.ServerRecord(nil), s.initial...)
	s.outage = 0
}

func (s *feedState) indexOf(id int64) int {
	for i := range s.servers {
		if s.servers[i].ID == id {
			return i
		}
	}
	return -1
}

func newMux(state *feedState, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+feedPath, feedHandler(state, logger))
	mux.HandleFunc("POST /admin/servers/{id}/price", setPriceHandler(state, logger))
	mux.HandleFunc("DELETE /admin/servers/{id}", deleteServerHandler(state, logger))
	mux.HandleFunc("POST /admin/outage", outageHandler(state, logger))
	mux.HandleFunc("POST /admin/reset", resetHandler(state, logger))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func feedHandler(state *feedState, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state.mu.Lock()
		outage := state.outage
		snap := domain.Snapshot{
			Servers:     append([]domain.ServerRecord(nil), state.servers...),
			ServerCount: len(state.servers),
		}
		state.mu.Unlock()

		if outage != 0 {
			logger.Info("simulated outage", "status", outage)
			w.WriteHeader(outage)
			return
		}

		writeJSON(w, http.StatusOK, snap)
		logger.Info("feed served", "servers", snap.ServerCount)
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func setPriceHandler(state *feedState, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
			return
		}
		price, err := strconv.ParseFloat(r.URL.Query().Get("value"), 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must be a number"})
			return
		}

		state.mu.Lock()
		defer state.mu.Unlock()

		i := state.indexOf(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "server not found"})
			return
		}
		state.servers[i].Price = price
		logger.Info("price changed", "id", id, "price", price)
		writeJSON(w, http.StatusOK, state.servers[i])
	}
}

func deleteServerHandler(state *feedState, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
			return
		}

		state.mu.Lock()
		defer state.mu.Unlock()

		i := state.indexOf(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "server not found"})
			return
		}
		state.servers = append(state.servers[:i], state.servers[i+1:]...)
		logger.Info("server removed", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// outageHandler makes the feed answer with ?status= (0 clears the outage).
func outageHandler(state *feedState, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := strconv.Atoi(r.URL.Query().Get("status"))
		if err != nil || (status != 0 && (status < 400 || status > 599)) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be 0 or 4xx/5xx"})
			return
		}

		state.mu.Lock()
		state.outage = status
		state.mu.Unlock()

		logger.Info("outage set", "status", status)
		w.WriteHeader(http.StatusNoContent)
	}
}

func resetHandler(state *feedState, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state.mu.Lock()
		state.reset()
		state.mu.Unlock()

		logger.Info("feed reset")
		w.WriteHeader(http.StatusNoContent)
	}
}
