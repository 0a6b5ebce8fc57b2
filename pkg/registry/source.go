// Package registry provides dependency sources: implementations that map
// a package name to its list of direct dependency names. The PyPI source
// queries the package index JSON API; the stub-file source reads a
// line-oriented local file used for testing and offline runs.
package registry

import (
	"context"
	"errors"
)

// ErrNotFound indicates the package has no record in the index. It is
// distinct from transport failures so callers can log the two apart, even
// though graph construction treats every fetch failure the same way.
var ErrNotFound = errors.New("package not found")

// Source fetches the direct dependencies of a package.
type Source interface {
	// DirectDependencies returns the declared direct dependency names of
	// pkg, in declaration order, without versions or markers.
	DirectDependencies(ctx context.Context, pkg string) ([]string, error)
}
