package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPyPITimeout = 15 * time.Second

// PyPI fetches dependency declarations from a PyPI-compatible JSON API.
// The base URL is the index root, e.g. "https://pypi.org/pypi"; package
// metadata is served at <base>/<name>/json.
type PyPI struct {
	baseURL string
	client  *http.Client
}

// NewPyPI creates a PyPI source for the given index URL.
func NewPyPI(baseURL string) *PyPI {
	return &PyPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultPyPITimeout},
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (p *PyPI) SetHTTPClient(client *http.Client) {
	p.client = client
}

// packageInfo mirrors the subset of the PyPI JSON API response we read.
type packageInfo struct {
	Info struct {
		Name         string   `json:"name"`
		RequiresDist []string `json:"requires_dist"`
	} `json:"info"`
}

// DirectDependencies queries the index for pkg and returns the bare names
// declared in requires_dist. A 404 from the index maps to ErrNotFound.
func (p *PyPI) DirectDependencies(ctx context.Context, pkg string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/json", p.baseURL, url.PathEscape(pkg))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", pkg, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package info for %s: %w", pkg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", pkg, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching package info for %s", resp.StatusCode, pkg)
	}

	var info packageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode package info for %s: %w", pkg, err)
	}

	deps := make([]string, 0, len(info.Info.RequiresDist))
	for _, req := range info.Info.RequiresDist {
		if name := bareName(req); name != "" {
			deps = append(deps, name)
		}
	}
	return deps, nil
}

// bareName reduces a requirement specifier to the package name, dropping
// version constraints, extras, and environment markers.
// "requests (>=2.0) ; python_version >= '3'" and "urllib3[socks]>=1.26"
// both reduce to their leading name.
func bareName(req string) string {
	req = strings.TrimSpace(req)
	for i := 0; i < len(req); i++ {
		if !isNameChar(req[i]) {
			return req[:i]
		}
	}
	return req
}

func isNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.':
		return true
	}
	return false
}
