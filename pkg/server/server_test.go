package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pipgraph/pkg/depgraph"
	"github.com/platinummonkey/pipgraph/pkg/observability"
)

type mapSource map[string][]string

func (m mapSource) DirectDependencies(_ context.Context, pkg string) ([]string, error) {
	return m[pkg], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	graph, err := depgraph.NewBuilder(mapSource{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {"A"},
	}).Build(context.Background(), "A", depgraph.NewFilter(""))
	require.NoError(t, err)

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	ts := httptest.NewServer(New("A", graph, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServer_GetGraph(t *testing.T) {
	ts := newTestServer(t)

	var resp GraphResponse
	httpResp := getJSON(t, ts.URL+"/api/v1/graph", &resp)
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)

	assert.Equal(t, "A", resp.Root)
	assert.Equal(t, []string{"B", "C"}, resp.Packages["A"])
	assert.Equal(t, []string{"C"}, resp.Packages["B"])
	assert.Equal(t, []string{"A"}, resp.Packages["C"])

	require.Len(t, resp.Cycles, 1)
	assert.Equal(t, []string{"A", "B", "C", "A"}, resp.Cycles[0])
}

func TestServer_GetDependents(t *testing.T) {
	ts := newTestServer(t)

	var resp DependentsResponse
	httpResp := getJSON(t, ts.URL+"/api/v1/packages/C/dependents", &resp)
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)

	assert.Equal(t, "C", resp.Package)
	assert.Equal(t, []string{"A", "B"}, resp.Dependents)
}

func TestServer_GetDependents_NoDependents(t *testing.T) {
	ts := newTestServer(t)

	var resp DependentsResponse
	getJSON(t, ts.URL+"/api/v1/packages/unknown/dependents", &resp)
	assert.Empty(t, resp.Dependents)
}

func TestServer_GetCytoscapeGraph(t *testing.T) {
	ts := newTestServer(t)

	var resp CytoscapeGraph
	getJSON(t, ts.URL+"/api/v1/graph/cytoscape", &resp)

	assert.Len(t, resp.Nodes, 3)
	assert.Len(t, resp.Edges, 4)

	types := make(map[string]string)
	for _, node := range resp.Nodes {
		types[node.Data.ID] = node.Data.Type
	}
	assert.Equal(t, "root", types["A"])
	assert.Equal(t, "dependency", types["B"])
}

func TestServer_GetDescription(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/graph/d2")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "A -> B")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pipgraph_graph_packages 3")
}

func TestServer_RequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/v1/graph", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
