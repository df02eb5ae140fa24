// Package server hosts a canvas over HTTP. Clients deliver drag, drop,
// resize and detach gestures as JSON events; the server applies them through
// the grouping engine and serves the committed snapshot.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/groupflow/pkg/buildinfo"
	"github.com/matzehuels/groupflow/pkg/cache"
	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/grouping"
	"github.com/matzehuels/groupflow/pkg/observability"
	"github.com/matzehuels/groupflow/pkg/render/dot"
	"github.com/matzehuels/groupflow/pkg/scenario"
	"github.com/matzehuels/groupflow/pkg/store"
)

// maxBody bounds request payloads.
const maxBody = 1 << 20

// Server serves one canvas. Engine calls are serialized, so the server is
// the single writer of its store.
type Server struct {
	mu     sync.Mutex
	store  *store.Store
	engine *grouping.Engine
	logger *log.Logger
	hooks  observability.HTTPHooks
	svgs   cache.Cache // rendered SVG by DOT source
}

// New returns a server for the given store and engine. A nil logger
// discards output.
func New(st *store.Store, eng *grouping.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		store:  st,
		engine: eng,
		logger: logger,
		hooks:  observability.HTTP(),
		svgs:   cache.NewMemoryCache(cache.DefaultMemoryEntries),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
			"date":    buildinfo.Date,
		})
	})

	r.Get("/snapshot", s.getSnapshot)
	r.Get("/nodes", s.getNodes)
	r.Get("/edges", s.getEdges)
	r.Get("/validate", s.getValidate)
	r.Get("/render.dot", s.getDOT)
	r.Get("/render.svg", s.getSVG)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", s.postEvent)
		r.Post("/{type}", s.postEvent)
	})
	r.Post("/edges", s.postEdge)
	r.Delete("/groups/{id}", s.deleteGroup)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		s.hooks.OnRequest(r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.hooks.OnResponse(r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"duration", time.Since(start), "id", middleware.GetReqID(r.Context()))
	})
}

type snapshotResponse struct {
	Version int           `json:"version"`
	Nodes   []canvas.Node `json:"nodes"`
	Edges   []canvas.Edge `json:"edges"`
}

func (s *Server) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, snapshotResponse{Version: snap.Version, Nodes: nonNil(snap.Nodes), Edges: nonNil(snap.Edges)})
}

func (s *Server) getNodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.store.Nodes()))
}

func (s *Server) getEdges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.store.Edges()))
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func (s *Server) getValidate(w http.ResponseWriter, _ *http.Request) {
	err := canvas.Validate(s.store.Nodes())
	if err == nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: true})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Problems: strings.Split(err.Error(), "\n")})
}

func (s *Server) getDOT(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot.ToDOT(snap.Nodes, snap.Edges, renderOptions(r))))
}

// getSVG renders the snapshot with Graphviz. Drawings are cached by DOT
// source, so polling an unchanged canvas does not rerun the layout.
func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	src := dot.ToDOT(snap.Nodes, snap.Edges, renderOptions(r))
	key := cache.RenderKey(src, "svg", 1)

	svg, hit, err := s.svgs.Get(r.Context(), key)
	if err != nil || !hit {
		if svg, err = dot.RenderSVG(r.Context(), src); err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.svgs.Set(r.Context(), key, svg, 0); err != nil {
			s.logger.Warn("caching svg", "err", err)
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Cache", cacheStatus(hit))
	_, _ = w.Write(svg)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func renderOptions(r *http.Request) dot.Options {
	return dot.Options{Detailed: r.URL.Query().Get("detailed") == "true"}
}

type eventResponse struct {
	Created string `json:"created,omitempty"`
	Version int    `json:"version"`
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	var ev scenario.Event
	if err := decode(w, r, &ev); err != nil {
		s.writeError(w, err)
		return
	}
	if t := chi.URLParam(r, "type"); t != "" {
		ev.Type = strings.ReplaceAll(t, "-", "_")
	}
	s.apply(w, ev)
}

type edgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) postEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.apply(w, scenario.Event{Type: scenario.EventConnect, Node: req.Source, Target: req.Target})
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	s.apply(w, scenario.Event{Type: scenario.EventDeleteGroup, Group: chi.URLParam(r, "id")})
}

func (s *Server) apply(w http.ResponseWriter, ev scenario.Event) {
	if err := ev.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	created, err := scenario.Apply(s.engine, s.store, ev)
	version := s.store.Snapshot().Version
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if created != "" {
		status = http.StatusCreated
	}
	s.logger.Debug("event applied", "event", ev.String(), "version", version, "created", created)
	writeJSON(w, status, eventResponse{Created: created, Version: version})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeMissingEntity:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidKind, errors.ErrCodeMalformedGeometry,
		errors.ErrCodeInvalidScenario, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNestedGroup, errors.ErrCodeInvariant:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
