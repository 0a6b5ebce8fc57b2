package registry

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// StubFile reads dependency records from a local text file. Each
// significant line is "NAME: dep1 dep2 dep3"; blank lines and lines
// starting with '#' are ignored. Names are matched case-insensitively and
// the first matching record wins.
type StubFile struct {
	path string
}

// NewStubFile creates a source backed by the file at path.
func NewStubFile(path string) *StubFile {
	return &StubFile{path: path}
}

// DirectDependencies looks up pkg in the stub file. A package with no
// record has no dependencies: that is a successful empty result, not an
// error. A missing or unreadable file is an error.
func (s *StubFile) DirectDependencies(_ context.Context, pkg string) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stub repository file %s: %w", s.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(name), pkg) {
			continue
		}
		return strings.Fields(rest), nil
	}

	return []string{}, nil
}
