package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skein-viz/skein/pkg/buildinfo"
	"github.com/skein-viz/skein/pkg/cache"
	skerrors "github.com/skein-viz/skein/pkg/errors"
	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/pipeline"
	"github.com/skein-viz/skein/pkg/positions"
)

// layoutRequest is the body of POST /api/layout and /api/render.
type layoutRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the body of a successful POST /api/layout.
type layoutResponse struct {
	GraphHash string       `json:"graph_hash"`
	Layout    graph.Layout `json:"layout"`
	CacheHit  bool         `json:"cache_hit"`
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLayoutRequest(w, r)
	if !ok {
		return
	}

	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	graphData, _ := graph.MarshalGraph(req.Graph)
	writeJSON(w, http.StatusOK, layoutResponse{
		GraphHash: cache.Hash(graphData),
		Layout:    l,
		CacheHit:  hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLayoutRequest(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// A single requested format streams raw; multiple formats come back
	// as a JSON envelope with base64 payloads.
	if len(req.Options.Formats) == 1 {
		format := req.Options.Formats[0]
		w.Header().Set("Content-Type", contentType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[format])
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"graph_hash": result.GraphHash,
		"artifacts":  result.Artifacts,
		"cache_hit":  result.CacheInfo.RenderHit,
	})
}

func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	viewer, topology, ok := s.positionsParams(w, r)
	if !ok {
		return
	}

	ov, err := s.store.Get(r.Context(), viewer, topology)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handlePutPositions(w http.ResponseWriter, r *http.Request) {
	viewer, topology, ok := s.positionsParams(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var ov positions.Overrides
	if err := json.NewDecoder(r.Body).Decode(&ov); err != nil {
		s.writeError(w, skerrors.Wrap(skerrors.ErrCodeInvalidInput, err, "decode positions"))
		return
	}

	if err := s.store.Put(r.Context(), viewer, topology, ov); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePositions(w http.ResponseWriter, r *http.Request) {
	viewer, topology, ok := s.positionsParams(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), viewer, topology); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeLayoutRequest parses and bounds the shared layout/render body.
func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (layoutRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, skerrors.Wrap(skerrors.ErrCodeInvalidInput, err, "decode request"))
		return layoutRequest{}, false
	}
	if err := req.Graph.Validate(); err != nil {
		s.writeError(w, skerrors.Wrap(skerrors.ErrCodeInvalidGraph, err, "invalid graph"))
		return layoutRequest{}, false
	}
	return req, true
}

// positionsParams extracts and validates the path parameters, and checks
// that a position store is configured.
func (s *Server) positionsParams(w http.ResponseWriter, r *http.Request) (viewer, topology string, ok bool) {
	if s.store == nil {
		s.writeError(w, skerrors.New(skerrors.ErrCodeNotFound, "position storage not configured"))
		return "", "", false
	}
	viewer = chi.URLParam(r, "viewer")
	topology = chi.URLParam(r, "topology")
	if err := skerrors.ValidateViewerID(viewer); err != nil {
		s.writeError(w, err)
		return "", "", false
	}
	if topology == "" {
		s.writeError(w, skerrors.New(skerrors.ErrCodeInvalidInput, "topology hash is required"))
		return "", "", false
	}
	return viewer, topology, true
}

// writeError maps structured errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := skerrors.GetCode(err)

	switch {
	case errors.Is(err, positions.ErrNotFound):
		status, code = http.StatusNotFound, skerrors.ErrCodePositionsNotFound
	case code == skerrors.ErrCodeNotFound,
		code == skerrors.ErrCodeFileNotFound,
		code == skerrors.ErrCodePositionsNotFound:
		status = http.StatusNotFound
	case code != "" && code != skerrors.ErrCodeInternal && code != skerrors.ErrCodeTimeout:
		status = http.StatusBadRequest
	}

	if code == "" {
		// Unwrapped pipeline errors carry their code inside; anything
		// else is an internal failure.
		code = skerrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: skerrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
