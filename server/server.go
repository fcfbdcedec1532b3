// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/panjf2000/ants/v2"

	"github.com/skysift/apodex/ai"
	"github.com/skysift/apodex/archive"
	"github.com/skysift/apodex/core"
	"github.com/skysift/apodex/process"
)

const (
	defaultPoolSize   = 4
	defaultSimilarTop = 10
	asyncRunTimeout   = time.Hour
)

// FeedSource supplies feed entries for a date range.
// Implemented by feed.Client.
type FeedSource interface {
	FetchRange(ctx context.Context, start, end string) ([]*core.FeedEntry, error)
}

// Server exposes batch runs and similarity search over HTTP.
type Server struct {
	processor *process.Processor
	coord     *archive.Coordinator
	provider  ai.Provider
	feed      FeedSource
	pool      *ants.Pool
	registry  *runRegistry
	router    *mux.Router
	logger    *slog.Logger
}

// New wires the HTTP server. poolSize bounds concurrent async runs; values
// below 1 fall back to the default.
func New(processor *process.Processor, coord *archive.Coordinator, provider ai.Provider, feed FeedSource, poolSize int) (*Server, error) {
	if processor == nil {
		return nil, ErrNilProcessor
	}
	if coord == nil {
		return nil, ErrNilCoordinator
	}
	if provider == nil {
		return nil, ErrNilProvider
	}
	if feed == nil {
		return nil, ErrNilFeed
	}
	if poolSize < 1 {
		poolSize = defaultPoolSize
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		processor: processor,
		coord:     coord,
		provider:  provider,
		feed:      feed,
		pool:      pool,
		registry:  newRunRegistry(),
		logger:    slog.Default().With("component", "server"),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the async worker pool.
func (s *Server) Close() error {
	s.pool.Release()
	return nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/runs", s.handleRunSync).Methods(http.MethodPost)
	r.HandleFunc("/api/runs/async", s.handleRunAsync).Methods(http.MethodPost)
	r.HandleFunc("/api/runs/{id}", s.handleRunStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/similar", s.handleSimilar).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// runRequest is the body of POST /api/runs and /api/runs/async.
type runRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (req *runRequest) validate() error {
	if req.StartDate == "" {
		return errors.New("start_date is required")
	}
	if _, err := time.Parse(core.FeedDateLayout, req.StartDate); err != nil {
		return errors.New("start_date must be YYYY-MM-DD")
	}
	if req.EndDate == "" {
		req.EndDate = req.StartDate
	}
	if _, err := time.Parse(core.FeedDateLayout, req.EndDate); err != nil {
		return errors.New("end_date must be YYYY-MM-DD")
	}
	return nil
}

// executeRun fetches the range and drives it through the processor.
func (s *Server) executeRun(ctx context.Context, req runRequest) (*process.Metrics, error) {
	entries, err := s.feed.FetchRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	return s.processor.Run(ctx, entries)
}

func (s *Server) handleRunSync(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := s.executeRun(r.Context(), req)
	if err != nil {
		s.logger.Error("sync run aborted", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if metrics.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, metrics)
}

func (s *Server) handleRunAsync(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.registry.begin()
	submitErr := s.pool.Submit(func() {
		// Detached from the request context: the run outlives the 202.
		ctx, cancel := context.WithTimeout(context.Background(), asyncRunTimeout)
		defer cancel()

		metrics, err := s.executeRun(ctx, req)
		if err != nil {
			s.logger.Error("async run aborted", "run_id", id, "error", err)
			s.registry.fail(id, err)
			return
		}
		s.registry.complete(id, metrics)
	})
	if submitErr != nil {
		s.registry.fail(id, submitErr)
		writeError(w, http.StatusServiceUnavailable, "worker pool unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": id})
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state, err := s.registry.get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown run id")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// similarResponse is the body of GET /api/similar.
type similarResponse struct {
	Query   string         `json:"query"`
	Matches []similarMatch `json:"matches"`
}

type similarMatch struct {
	Date     string  `json:"date"`
	Score    float32 `json:"score"`
	Category string  `json:"category"`
	Title    string  `json:"title"`
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	topK := defaultSimilarTop
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "top_k must be an integer")
			return
		}
		topK = n
	}

	vector, err := s.provider.Embedder().EmbedText(r.Context(), query)
	if err != nil {
		s.logger.Error("similarity embed failed", "error", err)
		writeError(w, http.StatusBadGateway, "embedding the query failed")
		return
	}

	matches, err := s.coord.FindSimilar(r.Context(), vector, topK)
	if err != nil {
		s.logger.Error("similarity search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "similarity search failed")
		return
	}

	resp := similarResponse{Query: query, Matches: make([]similarMatch, len(matches))}
	for i, m := range matches {
		resp.Matches[i] = similarMatch{
			Date:     m.ID,
			Score:    m.Score,
			Category: m.Category,
			Title:    m.Title,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := s.provider.ValidateConfiguration(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
