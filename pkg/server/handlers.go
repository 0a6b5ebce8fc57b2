package server

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/pipgraph/pkg/httputil"
	"github.com/platinummonkey/pipgraph/pkg/render"
)

// GraphResponse is the adjacency representation of the served graph.
type GraphResponse struct {
	Root     string              `json:"root"`
	Packages map[string][]string `json:"packages"`
	Cycles   [][]string          `json:"cycles"`
}

// DependentsResponse lists the packages that depend on one package.
type DependentsResponse struct {
	Package    string   `json:"package"`
	Dependents []string `json:"dependents"`
}

// getGraph handles GET /api/v1/graph
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	resp := GraphResponse{
		Root:     s.root,
		Packages: make(map[string][]string, s.graph.Len()),
		Cycles:   make([][]string, 0),
	}

	for _, pkg := range s.graph.Packages() {
		resp.Packages[pkg] = s.graph.Dependencies(pkg)
	}
	for _, cycle := range s.graph.Cycles() {
		resp.Cycles = append(resp.Cycles, []string(cycle))
	}

	httputil.WriteSuccess(w, resp)
}

// getDependents handles GET /api/v1/packages/{name}/dependents
func (s *Server) getDependents(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "package name is required")
		return
	}

	dependents := s.graph.ReverseDependencies(name)
	sort.Strings(dependents)

	httputil.WriteSuccess(w, DependentsResponse{
		Package:    name,
		Dependents: dependents,
	})
}

// getDescription handles GET /api/v1/graph/d2
func (s *Server) getDescription(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(render.Description(s.graph)))
}

// getHealth handles GET /healthz
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}
