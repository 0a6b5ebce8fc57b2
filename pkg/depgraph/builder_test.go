package depgraph

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// mapSource is an in-memory registry.Source for tests.
type mapSource struct {
	deps  map[string][]string
	errs  map[string]error
	calls map[string]int
}

func newMapSource(deps map[string][]string) *mapSource {
	return &mapSource{
		deps:  deps,
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (m *mapSource) DirectDependencies(_ context.Context, pkg string) ([]string, error) {
	m.calls[pkg]++
	if err, ok := m.errs[pkg]; ok {
		return nil, err
	}
	return m.deps[pkg], nil
}

func buildGraph(t *testing.T, source *mapSource, root, filter string) *Graph {
	t.Helper()
	graph, err := NewBuilder(source).Build(context.Background(), root, NewFilter(filter))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return graph
}

func TestBuilder_LinearGraph(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {},
	})

	graph := buildGraph(t, source, "A", "")

	expected := map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {},
	}
	for pkg, want := range expected {
		got := graph.Dependencies(pkg)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Dependencies(%s): expected %v, got %v", pkg, want, got)
		}
	}

	if graph.Len() != 3 {
		t.Errorf("Expected 3 packages, got %d", graph.Len())
	}
	if len(graph.Cycles()) != 0 {
		t.Errorf("Expected no cycles, got %v", graph.Cycles())
	}
}

func TestBuilder_NoPackageFetchedTwice(t *testing.T) {
	// Diamond: D is reachable through both B and C.
	source := newMapSource(map[string][]string{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	})

	buildGraph(t, source, "A", "")

	for pkg, count := range source.calls {
		if count != 1 {
			t.Errorf("Package %s fetched %d times, expected 1", pkg, count)
		}
	}
}

func TestBuilder_TwoNodeCycle(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"B"},
		"B": {"A"},
	})

	graph := buildGraph(t, source, "A", "")

	if !graph.Contains("A") || !graph.Contains("B") {
		t.Fatalf("Expected both A and B as keys, got %v", graph.Packages())
	}
	if got := graph.Dependencies("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Dependencies(A): expected [B], got %v", got)
	}
	// B's stored list is what the source declared; the back-edge only
	// truncates expansion, not edge recording.
	if got := graph.Dependencies("B"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Dependencies(B): expected [A], got %v", got)
	}

	cycles := graph.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(cycles))
	}
	if !reflect.DeepEqual([]string(cycles[0]), []string{"A", "B", "A"}) {
		t.Errorf("Expected cycle [A B A], got %v", cycles[0])
	}
}

func TestBuilder_SelfCycle(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"A"},
	})

	graph := buildGraph(t, source, "A", "")

	cycles := graph.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(cycles))
	}
	if !reflect.DeepEqual([]string(cycles[0]), []string{"A", "A"}) {
		t.Errorf("Expected cycle [A A], got %v", cycles[0])
	}
}

func TestBuilder_CycleTraceStartsAtRepeatedNode(t *testing.T) {
	// The loop is B -> C -> B; A only leads into it. The recorded trace
	// must start at the repeated node, not at the root.
	source := newMapSource(map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"B"},
	})

	graph := buildGraph(t, source, "A", "")

	cycles := graph.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(cycles))
	}
	if !reflect.DeepEqual([]string(cycles[0]), []string{"B", "C", "B"}) {
		t.Errorf("Expected cycle [B C B], got %v", cycles[0])
	}
}

func TestBuilder_Filter(t *testing.T) {
	tests := []struct {
		name     string
		deps     map[string][]string
		root     string
		filter   string
		expected map[string][]string
	}{
		{
			name: "case-insensitive substring",
			deps: map[string][]string{
				"A": {"B", "Clib"},
				"B": {},
			},
			root:   "A",
			filter: "c",
			expected: map[string][]string{
				"A": {"B"},
				"B": {},
			},
		},
		{
			name: "filtering is transitive in effect",
			deps: map[string][]string{
				"A": {"X"},
				"X": {"Y"},
				"Y": {},
			},
			root:   "A",
			filter: "x",
			expected: map[string][]string{
				"A": {},
			},
		},
		{
			name: "filtered root yields empty graph",
			deps: map[string][]string{
				"Alib": {"B"},
			},
			root:     "Alib",
			filter:   "alib",
			expected: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newMapSource(tt.deps)
			graph := buildGraph(t, source, tt.root, tt.filter)

			if graph.Len() != len(tt.expected) {
				t.Errorf("Expected %d packages, got %d (%v)", len(tt.expected), graph.Len(), graph.Packages())
			}
			for pkg, want := range tt.expected {
				got := graph.Dependencies(pkg)
				if !reflect.DeepEqual(got, want) {
					t.Errorf("Dependencies(%s): expected %v, got %v", pkg, want, got)
				}
			}
		})
	}
}

func TestBuilder_NoFilteredPackageAnywhere(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A":    {"B", "Clib"},
		"B":    {"Cutil", "D"},
		"D":    {},
		"Clib": {"D"},
	})

	graph := buildGraph(t, source, "A", "c")
	filter := NewFilter("c")

	for _, pkg := range graph.Packages() {
		if filter.Matches(pkg) {
			t.Errorf("Filtered package %s appears as graph key", pkg)
		}
		for _, dep := range graph.Dependencies(pkg) {
			if filter.Matches(dep) {
				t.Errorf("Filtered package %s appears in dependency list of %s", dep, pkg)
			}
		}
	}
}

func TestBuilder_FetchFailureAbsorbed(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"B", "C"},
		"C": {},
	})
	source.errs["B"] = errors.New("registry unreachable")

	graph := buildGraph(t, source, "A", "")

	// The failed node is recorded with an empty list, indistinguishable
	// from a package with no dependencies, and its siblings still expand.
	if got := graph.Dependencies("B"); !reflect.DeepEqual(got, []string{}) {
		t.Errorf("Dependencies(B): expected [], got %v", got)
	}
	if !graph.Contains("C") {
		t.Error("Expected sibling C to be visited after B's fetch failure")
	}
}

func TestBuilder_FailedNodeNotRefetched(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"B", "C"},
		"C": {"B"},
	})
	source.errs["B"] = errors.New("registry unreachable")

	buildGraph(t, source, "A", "")

	if source.calls["B"] != 1 {
		t.Errorf("Failed package B fetched %d times, expected 1", source.calls["B"])
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {"A"},
	})
	builder := NewBuilder(source)
	filter := NewFilter("")

	first, err := builder.Build(context.Background(), "A", filter)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := builder.Build(context.Background(), "A", filter)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Packages(), second.Packages()) {
		t.Errorf("Key sets differ: %v vs %v", first.Packages(), second.Packages())
	}
	for _, pkg := range first.Packages() {
		if !reflect.DeepEqual(first.Dependencies(pkg), second.Dependencies(pkg)) {
			t.Errorf("Dependencies(%s) differ between builds", pkg)
		}
	}
	if !reflect.DeepEqual(first.Cycles(), second.Cycles()) {
		t.Errorf("Cycles differ: %v vs %v", first.Cycles(), second.Cycles())
	}
}

func TestBuilder_ReusableAcrossFilters(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"B", "Clib"},
		"B": {},
	})
	builder := NewBuilder(source)

	unfiltered, err := builder.Build(context.Background(), "A", NewFilter(""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	filtered, err := builder.Build(context.Background(), "A", NewFilter("c"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := unfiltered.Dependencies("A"); !reflect.DeepEqual(got, []string{"B", "Clib"}) {
		t.Errorf("Unfiltered Dependencies(A): expected [B Clib], got %v", got)
	}
	if got := filtered.Dependencies("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Filtered Dependencies(A): expected [B], got %v", got)
	}
}

func TestBuilder_EmptyRootName(t *testing.T) {
	builder := NewBuilder(newMapSource(nil))

	if _, err := builder.Build(context.Background(), "", NewFilter("")); err == nil {
		t.Error("Expected error for empty root package name, got nil")
	}
}

func TestBuilder_DependencyOrderPreserved(t *testing.T) {
	source := newMapSource(map[string][]string{
		"A": {"Z", "M", "B"},
		"Z": {},
		"M": {},
		"B": {},
	})

	graph := buildGraph(t, source, "A", "")

	if got := graph.Dependencies("A"); !reflect.DeepEqual(got, []string{"Z", "M", "B"}) {
		t.Errorf("Expected source order [Z M B], got %v", got)
	}
	if got := graph.Packages(); !reflect.DeepEqual(got, []string{"A", "Z", "M", "B"}) {
		t.Errorf("Expected first-visit order [A Z M B], got %v", got)
	}
}
