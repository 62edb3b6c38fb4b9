package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pedigraph/pedigraph/pkg/buildinfo"
	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
	"github.com/pedigraph/pedigraph/pkg/store"
)

// maxBodyBytes caps request bodies. Family documents are small; anything
// bigger is almost certainly a mistake.
const maxBodyBytes = 10 << 20

// layoutRequest is the body of the compute endpoints (/v1/layout,
// /v1/layout/steps, /v1/connections). It carries the pipeline options
// plus an optional stored-graph reference: exactly one of "graph" and
// "document" selects the input. Paths are rejected; the API never reads
// server-side files.
type layoutRequest struct {
	pipeline.Options

	// Graph names a stored graph to lay out instead of an inline document.
	Graph string `json:"graph,omitempty"`
}

// transitionRequest is the body of /v1/transition. A zero or missing
// movement threshold means the default; an all-appear transition from
// an empty "from" layout is valid (initial mount).
type transitionRequest struct {
	From              graph.Layout `json:"from"`
	To                graph.Layout `json:"to"`
	MovementThreshold float64      `json:"movement_threshold,omitempty"`
	Refresh           bool         `json:"refresh,omitempty"`
}

type layoutResponse struct {
	Layout    graph.Layout `json:"layout"`
	GraphHash string       `json:"graph_hash"`
	Cached    bool         `json:"cached"`
}

type connectionsResponse struct {
	Connections []graph.Connection `json:"connections"`
	GraphHash   string             `json:"graph_hash"`
	Cached      bool               `json:"cached"`
}

type transitionResponse struct {
	Transition graph.Transition `json:"transition"`
	Cached     bool             `json:"cached"`
}

type graphListResponse struct {
	Graphs []string `json:"graphs"`
}

type putGraphResponse struct {
	Name    string `json:"name"`
	Persons int    `json:"persons"`
	Created bool   `json:"created"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// resolveOptions turns an API request into pipeline options. Stored
// graphs are inlined into the document so the pipeline itself never
// touches the store.
func (s *Server) resolveOptions(r *http.Request, req *layoutRequest) (pipeline.Options, error) {
	opts := req.Options
	opts.Logger = s.logger

	if opts.Path != "" {
		return opts, apperrors.New(apperrors.ErrCodeInvalidPath,
			"path is not accepted over the API; send an inline document or a stored graph name")
	}

	switch {
	case req.Graph != "" && len(opts.Document) > 0:
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput,
			"graph and document are mutually exclusive")
	case req.Graph != "":
		rec, err := s.store.Get(r.Context(), req.Graph)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return opts, apperrors.Wrap(apperrors.ErrCodeGraphNotFound, err, "graph %q", req.Graph)
			}
			return opts, apperrors.Wrap(apperrors.ErrCodeStore, err, "load graph %q", req.Graph)
		}
		doc, err := json.Marshal(rec.Graph)
		if err != nil {
			return opts, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode stored graph %q", req.Graph)
		}
		opts.Document = doc
	case len(opts.Document) == 0:
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput,
			"provide an inline document or a stored graph name")
	}

	return opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveLayout(w, r, false)
}

func (s *Server) handleLayoutSteps(w http.ResponseWriter, r *http.Request) {
	s.serveLayout(w, r, true)
}

func (s *Server) serveLayout(w http.ResponseWriter, r *http.Request, incremental bool) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	opts, err := s.resolveOptions(r, &req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Incremental = incremental

	g, rootID, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), g, rootID, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	hash, err := pipeline.GraphHash(g)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, layoutResponse{
		Layout:    l,
		GraphHash: hash,
		Cached:    hit,
	})
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	opts, err := s.resolveOptions(r, &req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	g, _, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	conns, hit, err := s.runner.DeriveConnectionsWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	hash, err := pipeline.GraphHash(g)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, connectionsResponse{
		Connections: graph.FromConnections(conns),
		GraphHash:   hash,
		Cached:      hit,
	})
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if len(req.From.Positions) == 0 && len(req.To.Positions) == 0 {
		s.respondError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput,
			"transition needs at least one non-empty layout"))
		return
	}

	opts := pipeline.Options{
		MovementThreshold: req.MovementThreshold,
		Refresh:           req.Refresh,
		Logger:            s.logger,
	}
	tr, hit, err := s.runner.ComputeTransitionWithCacheInfo(r.Context(), req.From, req.To, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, transitionResponse{
		Transition: tr,
		Cached:     hit,
	})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "list graphs"))
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, r, http.StatusOK, graphListResponse{Graphs: names})
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var doc graph.Graph
	if err := decodeJSON(w, r, &doc); err != nil {
		s.respondError(w, r, err)
		return
	}
	// Reject documents the pipeline could not load later (bad dates,
	// duplicate or empty person IDs).
	if _, err := doc.ToKin(); err != nil {
		s.respondError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "invalid graph document"))
		return
	}

	created := false
	if _, err := s.store.Get(r.Context(), name); errors.Is(err, store.ErrNotFound) {
		created = true
	}

	rec := store.NewRecord(name, doc)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respondJSON(w, r, status, putGraphResponse{
		Name:    name,
		Persons: rec.Persons,
		Created: created,
	})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
