// Package server implements the archsketch HTTP API.
//
// Routes:
//
//	POST /api/synthesize          synthesize a snapshot from the request body
//	GET  /api/rounds              list stored rounds
//	GET  /api/rounds/{id}         stored snapshot for a round
//	GET  /api/rounds/{id}/document stored document for a round
//	GET  /healthz                 liveness probe
//
// Validation failures map to 400, missing rounds to 404, everything else
// to 500 with the internal detail kept out of the response body.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/errors"
	"github.com/archsketch/archsketch/pkg/observability"
	"github.com/archsketch/archsketch/pkg/pipeline"
	"github.com/archsketch/archsketch/pkg/store"
)

// maxSnapshotBytes bounds request bodies; snapshots are small JSON files.
const maxSnapshotBytes = 4 << 20

// Server wires the pipeline and the round store to HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. The store may be nil, which disables the rounds
// routes (they respond 404).
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/synthesize", s.handleSynthesize)
		if s.store != nil {
			r.Get("/rounds", s.handleListRounds)
			r.Get("/rounds/{id}", s.handleGetSnapshot)
			r.Get("/rounds/{id}/document", s.handleGetDocument)
		}
	})
	return r
}

// synthesizeRequest is the POST /api/synthesize body.
type synthesizeRequest struct {
	Snapshot json.RawMessage  `json:"snapshot"`
	Options  pipeline.Options `json:"options"`

	// Save stores the round and its document after synthesis.
	Save bool `json:"save,omitempty"`
}

// synthesizeResponse wraps the result for JSON-format requests. For dot
// and svg the artifact is returned raw with the matching content type.
type synthesizeResponse struct {
	SnapshotHash string          `json:"snapshot_hash"`
	Document     json.RawMessage `json:"document"`
	Stats        statsResponse   `json:"stats"`
	CacheHit     bool            `json:"cache_hit"`
}

type statsResponse struct {
	Nodes        int  `json:"nodes"`
	Edges        int  `json:"edges"`
	DroppedEdges int  `json:"dropped_edges"`
	Layers       int  `json:"layers"`
	SingleLayer  bool `json:"single_layer"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidSnapshot, "read request body"))
		return
	}

	var req synthesizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "parse request"))
		return
	}
	if len(req.Snapshot) == 0 {
		// Accept a bare snapshot as the whole body for curl convenience.
		req.Snapshot = body
		req.Options = pipeline.Options{}
	}

	snap, err := arch.UnmarshalSnapshot(req.Snapshot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Save && s.store != nil {
		if _, err := s.store.PutSnapshot(r.Context(), snap); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.store.PutDocument(r.Context(), snap.RoundID, result.Document); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	switch opts.Format {
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write(result.Artifact)
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(result.Artifact)
	default:
		st := result.Stats.Synthesis
		s.writeJSON(w, http.StatusOK, synthesizeResponse{
			SnapshotHash: result.SnapshotHash,
			Document:     result.Artifact,
			Stats: statsResponse{
				Nodes:        st.Nodes,
				Edges:        st.Edges,
				DroppedEdges: st.DroppedEdges,
				Layers:       st.Layers,
				SingleLayer:  st.SingleLayer,
			},
			CacheHit: result.CacheInfo.DocumentHit,
		})
	}
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRounds(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	roundID, ok := s.roundID(w, r)
	if !ok {
		return
	}
	snap, err := s.store.GetSnapshot(r.Context(), roundID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	roundID, ok := s.roundID(w, r)
	if !ok {
		return
	}
	doc, err := s.store.GetDocument(r.Context(), roundID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) roundID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidSnapshot, "invalid round id"))
		return 0, false
	}
	return id, true
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case code == errors.ErrCodeRoundNotFound || code == errors.ErrCodeNotFound || code == errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		s.writeJSON(w, status, errorResponse{Code: string(errors.ErrCodeInternal), Message: "internal error"})
		return
	}
	s.writeJSON(w, status, errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// logRequests emits one log line per request and feeds the server hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", duration.Round(time.Millisecond))
	})
}
