// Package server exposes a built dependency graph over HTTP for
// visualization frontends: adjacency JSON, Cytoscape.js format, reverse
// dependency queries, and the D2 description text.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/pipgraph/pkg/depgraph"
	"github.com/platinummonkey/pipgraph/pkg/httputil"
	"github.com/platinummonkey/pipgraph/pkg/observability"
)

// Server serves one built dependency graph. The graph is immutable for
// the server's lifetime; a new run produces a new server.
type Server struct {
	root    string
	graph   *depgraph.Graph
	logger  *observability.Logger
	metrics *observability.Metrics
	router  *mux.Router
}

// New creates a server for the graph rooted at root.
func New(root string, graph *depgraph.Graph, logger *observability.Logger) *Server {
	s := &Server{
		root:    root,
		graph:   graph,
		logger:  logger,
		metrics: observability.NewMetrics(),
	}
	s.setGraphMetrics()
	s.setupRoutes()
	return s
}

func (s *Server) setGraphMetrics() {
	edges := 0
	for _, pkg := range s.graph.Packages() {
		edges += len(s.graph.Dependencies(pkg))
	}
	s.metrics.GraphPackages.Set(float64(s.graph.Len()))
	s.metrics.GraphEdges.Set(float64(edges))
	s.metrics.GraphCycles.Set(float64(len(s.graph.Cycles())))
}

func (s *Server) setupRoutes() {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/graph", s.instrument("/api/v1/graph", s.getGraph)).Methods("GET")
	router.HandleFunc("/api/v1/graph/cytoscape", s.instrument("/api/v1/graph/cytoscape", s.getCytoscapeGraph)).Methods("GET")
	router.HandleFunc("/api/v1/graph/d2", s.instrument("/api/v1/graph/d2", s.getDescription)).Methods("GET")
	router.HandleFunc("/api/v1/packages/{name}/dependents", s.instrument("/api/v1/packages/{name}/dependents", s.getDependents)).Methods("GET")
	router.HandleFunc("/healthz", s.getHealth).Methods("GET")
	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	s.router = router
}

// instrument wraps a handler with request metrics under a fixed path
// label so path variables do not explode cardinality.
func (s *Server) instrument(path string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rw, r)
		s.metrics.ObserveRequest(r.Method, path, rw.status, time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Handler returns the fully middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware(s.logger),
		httputil.LoggingMiddleware(s.logger),
	)(s.router)
}

// ListenAndServe blocks serving the graph API on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.WithField("addr", addr).WithField("root", s.root).Info("serving dependency graph")
	return srv.ListenAndServe()
}
