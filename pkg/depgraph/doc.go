// Package depgraph builds transitive dependency graphs for packages.
//
// The Builder walks direct-dependency edges depth-first, fetching each
// package's dependency list from an injected registry.Source exactly once.
// Cycles are detected against the active traversal path and recorded
// without expanding the back-edge, so traversal terminates on any finite
// source. A case-insensitive substring filter excludes packages from both
// graph keys and dependency lists.
package depgraph
