package depgraph

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pipgraph/pkg/registry"
)

// Builder constructs dependency graphs from a registry source.
//
// All traversal state lives in a per-call structure, so a single Builder
// may be reused, including concurrently, across Build calls.
type Builder struct {
	source registry.Source
	log    *logrus.Logger
}

// NewBuilder creates a builder that fetches dependency edges from source.
func NewBuilder(source registry.Source) *Builder {
	return &Builder{
		source: source,
		log:    logrus.StandardLogger(),
	}
}

// SetLogger overrides the logger used for absorbed fetch failures.
func (b *Builder) SetLogger(log *logrus.Logger) {
	b.log = log
}

// Build walks the dependency graph reachable from root depth-first and
// returns it together with any cycles found along the way.
//
// Packages matched by filter are invisible: they never appear as keys or
// in dependency lists, and packages reachable only through them are not
// visited. No package is fetched more than once. A fetch failure for a
// non-root package is absorbed: the package is recorded with an empty
// dependency list and the walk continues.
func (b *Builder) Build(ctx context.Context, root string, filter Filter) (*Graph, error) {
	if root == "" {
		return nil, fmt.Errorf("root package name is required")
	}

	t := &traversal{
		source:  b.source,
		filter:  filter,
		log:     b.log,
		graph:   newGraph(),
		visited: make(map[string]struct{}),
		onPath:  make(map[string]struct{}),
	}
	t.visit(ctx, root)

	return t.graph, nil
}

// traversal holds the state of one Build call.
type traversal struct {
	source  registry.Source
	filter  Filter
	log     *logrus.Logger
	graph   *Graph
	visited map[string]struct{}
	onPath  map[string]struct{}
	path    []string
}

func (t *traversal) visit(ctx context.Context, pkg string) {
	if t.filter.Matches(pkg) {
		return
	}

	// A package already on the active path means the current edge closes
	// a loop. Record the path slice from its first occurrence and stop;
	// the package is still being expanded higher up the stack.
	if _, ok := t.onPath[pkg]; ok {
		t.graph.addCycle(t.cycleFrom(pkg))
		return
	}

	if _, ok := t.visited[pkg]; ok {
		return
	}

	t.path = append(t.path, pkg)
	t.onPath[pkg] = struct{}{}
	defer func() {
		t.path = t.path[:len(t.path)-1]
		delete(t.onPath, pkg)
		t.visited[pkg] = struct{}{}
	}()

	deps, err := t.source.DirectDependencies(ctx, pkg)
	if err != nil {
		t.log.WithField("package", pkg).WithError(err).
			Warn("failed to fetch dependencies, recording empty list")
		t.graph.add(pkg, []string{})
		return
	}

	filtered := make([]string, 0, len(deps))
	for _, dep := range deps {
		if !t.filter.Matches(dep) {
			filtered = append(filtered, dep)
		}
	}
	t.graph.add(pkg, filtered)

	for _, dep := range filtered {
		t.visit(ctx, dep)
	}
}

// cycleFrom slices the active path from the first occurrence of pkg and
// appends pkg again to close the loop.
func (t *traversal) cycleFrom(pkg string) Cycle {
	start := 0
	for i, p := range t.path {
		if p == pkg {
			start = i
			break
		}
	}
	cycle := make(Cycle, 0, len(t.path)-start+1)
	cycle = append(cycle, t.path[start:]...)
	cycle = append(cycle, pkg)
	return cycle
}
